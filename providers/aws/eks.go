package aws

import (
	"sort"
	"strings"

	awssdk "github.com/aws/aws-sdk-go-v2/aws"
	ekstypes "github.com/aws/aws-sdk-go-v2/service/eks/types"

	"github.com/lyric-engineering/fleetscope/types"
)

// buildClusterRecord converts an EKS cluster plus its node groups to the
// unified record shape. Status is derived: EKS has no node-count-aware
// cluster status.
func buildClusterRecord(cluster ekstypes.Cluster, region string, nodeGroups []types.NodeGroupRecord, extraTypes []string) types.ClusterRecord {
	record := types.ClusterRecord{
		Name:              awssdk.ToString(cluster.Name),
		Provider:          types.ProviderAWS,
		Region:            region,
		CustomerCategory:  customerCategory(cluster.Tags),
		ClusterVersion:    awssdk.ToString(cluster.Version),
		NodeGroups:        nodeGroups,
		NodeInstanceTypes: types.InstanceTypeUnion(nodeGroups, extraTypes),
		Tags:              nonNilTags(cluster.Tags),
		CreatedAt:         awssdk.ToTime(cluster.CreatedAt),
	}
	record.NodeCount = record.DerivedNodeCount()
	record.Status = record.DeriveStatus()
	return record
}

// buildNodeGroupRecord converts an EKS node group to the unified shape.
// Scaling bounds default to 0 when the config is absent.
func buildNodeGroupRecord(ng ekstypes.Nodegroup) types.NodeGroupRecord {
	var minSize, maxSize, desiredSize int32
	if ng.ScalingConfig != nil {
		minSize = awssdk.ToInt32(ng.ScalingConfig.MinSize)
		maxSize = awssdk.ToInt32(ng.ScalingConfig.MaxSize)
		desiredSize = awssdk.ToInt32(ng.ScalingConfig.DesiredSize)
	}

	return types.NodeGroupRecord{
		Name:         awssdk.ToString(ng.NodegroupName),
		Status:       string(ng.Status),
		InstanceType: firstInstanceType(ng.InstanceTypes),
		MinSize:      int(minSize),
		MaxSize:      int(maxSize),
		DesiredSize:  int(desiredSize),
		DiskSize:     int(awssdk.ToInt32(ng.DiskSize)),
		CapacityType: string(ng.CapacityType),
		AMIType:      string(ng.AmiType),
	}
}

// customerCategory returns the value of the first tag whose key starts with
// "customer", case-insensitively. Keys are sorted so the choice is stable.
func customerCategory(tags map[string]string) string {
	keys := make([]string, 0, len(tags))
	for key := range tags {
		if strings.HasPrefix(strings.ToLower(key), "customer") {
			keys = append(keys, key)
		}
	}
	if len(keys) == 0 {
		return ""
	}
	sort.Strings(keys)
	return tags[keys[0]]
}

// nonNilTags keeps the tag map serializable as an object even when the
// provider reports none.
func nonNilTags(tags map[string]string) map[string]string {
	if tags == nil {
		return map[string]string{}
	}
	return tags
}

// firstInstanceType takes the first of possibly several reported types.
func firstInstanceType(instanceTypes []string) string {
	if len(instanceTypes) == 0 {
		return ""
	}
	return instanceTypes[0]
}
