package azure

import (
	"github.com/Azure/azure-sdk-for-go/sdk/resourcemanager/containerservice/armcontainerservice/v6"

	"github.com/lyric-engineering/fleetscope/types"
)

// defaultCustomerCategory is used for all AKS clusters; Azure has no
// customer tagging convention.
const defaultCustomerCategory = "Internal"

// buildClusterRecord converts an AKS managed cluster to the unified record
// shape. Node count is the sum of agent pool counts. Status is the
// provider's provisioning state passed through verbatim, not normalized to
// ACTIVE/DORMANT like the other providers.
func buildClusterRecord(mc *armcontainerservice.ManagedCluster, location string) types.ClusterRecord {
	record := types.ClusterRecord{
		Provider:         types.ProviderAzure,
		Region:           location,
		CustomerCategory: defaultCustomerCategory,
		Tags:             convertTags(mc.Tags),
	}
	if mc.Name != nil {
		record.Name = *mc.Name
	}
	if mc.SystemData != nil && mc.SystemData.CreatedAt != nil {
		record.CreatedAt = *mc.SystemData.CreatedAt
	}

	props := mc.Properties
	if props == nil {
		return record
	}

	if props.KubernetesVersion != nil {
		record.ClusterVersion = *props.KubernetesVersion
	}
	if props.ProvisioningState != nil {
		record.Status = *props.ProvisioningState
	}

	for _, pool := range props.AgentPoolProfiles {
		if pool == nil {
			continue
		}
		record.NodeGroups = append(record.NodeGroups, buildAgentPoolRecord(pool))
		record.NodeCount += int(derefInt32(pool.Count))
	}
	record.NodeInstanceTypes = types.InstanceTypeUnion(record.NodeGroups, nil)

	return record
}

// buildAgentPoolRecord converts an AKS agent pool profile to the unified
// shape. The current count doubles as the desired size; AKS has no separate
// desired field.
func buildAgentPoolRecord(pool *armcontainerservice.ManagedClusterAgentPoolProfile) types.NodeGroupRecord {
	record := types.NodeGroupRecord{
		MinSize:     int(derefInt32(pool.MinCount)),
		MaxSize:     int(derefInt32(pool.MaxCount)),
		DesiredSize: int(derefInt32(pool.Count)),
		DiskSize:    int(derefInt32(pool.OSDiskSizeGB)),
	}
	if pool.Name != nil {
		record.Name = *pool.Name
	}
	if pool.ProvisioningState != nil {
		record.Status = *pool.ProvisioningState
	}
	if pool.VMSize != nil {
		record.InstanceType = *pool.VMSize
	}
	if pool.ScaleSetPriority != nil {
		record.CapacityType = string(*pool.ScaleSetPriority)
	}
	if pool.OSSKU != nil {
		record.AMIType = string(*pool.OSSKU)
	}
	return record
}

func convertTags(tags map[string]*string) map[string]string {
	converted := make(map[string]string, len(tags))
	for key, value := range tags {
		if value != nil {
			converted[key] = *value
		}
	}
	return converted
}

func derefInt32(v *int32) int32 {
	if v == nil {
		return 0
	}
	return *v
}
