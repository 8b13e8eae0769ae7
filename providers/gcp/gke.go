package gcp

import (
	"time"

	"cloud.google.com/go/container/apiv1/containerpb"

	"github.com/lyric-engineering/fleetscope/types"
)

// defaultCustomerCategory is used when the cluster carries no
// customer_category resource label.
const defaultCustomerCategory = "Lyric"

// buildClusterRecord converts a GKE cluster to the unified record shape.
// GKE reports the node count natively, so status follows it directly.
func buildClusterRecord(cluster *containerpb.Cluster) types.ClusterRecord {
	nodeGroups := make([]types.NodeGroupRecord, 0, len(cluster.GetNodePools()))
	for _, pool := range cluster.GetNodePools() {
		nodeGroups = append(nodeGroups, buildNodePoolRecord(pool))
	}

	status := types.StatusDormant
	if cluster.GetCurrentNodeCount() != 0 {
		status = types.StatusActive
	}

	labels := cluster.GetResourceLabels()
	if labels == nil {
		labels = map[string]string{}
	}
	category, ok := labels["customer_category"]
	if !ok {
		category = defaultCustomerCategory
	}

	return types.ClusterRecord{
		Name:              cluster.GetName(),
		Provider:          types.ProviderGCP,
		Region:            cluster.GetLocation(),
		CustomerCategory:  category,
		ClusterVersion:    cluster.GetCurrentMasterVersion(),
		NodeCount:         int(cluster.GetCurrentNodeCount()),
		NodeGroups:        nodeGroups,
		NodeInstanceTypes: types.InstanceTypeUnion(nodeGroups, nil),
		Tags:              labels,
		Status:            status,
		CreatedAt:         parseCreateTime(cluster.GetCreateTime()),
	}
}

// buildNodePoolRecord converts a GKE node pool to the unified shape. The
// pool status is a numeric code; RUNNING (2) maps to ACTIVE, everything
// else to DORMANT. Absent autoscaling bounds default to 0.
func buildNodePoolRecord(pool *containerpb.NodePool) types.NodeGroupRecord {
	status := types.StatusDormant
	if pool.GetStatus() == containerpb.NodePool_RUNNING {
		status = types.StatusActive
	}

	return types.NodeGroupRecord{
		Name:         pool.GetName(),
		Status:       status,
		InstanceType: pool.GetConfig().GetMachineType(),
		MinSize:      int(pool.GetAutoscaling().GetTotalMinNodeCount()),
		MaxSize:      int(pool.GetAutoscaling().GetTotalMaxNodeCount()),
		DesiredSize:  int(pool.GetInitialNodeCount()),
		DiskSize:     int(pool.GetConfig().GetDiskSizeGb()),
		CapacityType: pool.GetAutoscaling().GetLocationPolicy().String(),
		AMIType:      pool.GetConfig().GetImageType(),
	}
}

func parseCreateTime(value string) time.Time {
	t, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return time.Time{}
	}
	return t
}
