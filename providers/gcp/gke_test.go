package gcp

import (
	"testing"
	"time"

	"cloud.google.com/go/container/apiv1/containerpb"
	"github.com/stretchr/testify/assert"

	"github.com/lyric-engineering/fleetscope/types"
)

func TestBuildNodePoolRecord(t *testing.T) {
	t.Run("running pool", func(t *testing.T) {
		pool := &containerpb.NodePool{
			Name:   "default-pool",
			Status: containerpb.NodePool_RUNNING,
			Config: &containerpb.NodeConfig{
				MachineType: "e2-standard-4",
				DiskSizeGb:  100,
				ImageType:   "COS_CONTAINERD",
			},
			Autoscaling: &containerpb.NodePoolAutoscaling{
				TotalMinNodeCount: 1,
				TotalMaxNodeCount: 6,
				LocationPolicy:    containerpb.NodePoolAutoscaling_BALANCED,
			},
			InitialNodeCount: 3,
		}

		record := buildNodePoolRecord(pool)

		assert.Equal(t, "default-pool", record.Name)
		assert.Equal(t, types.StatusActive, record.Status)
		assert.Equal(t, "e2-standard-4", record.InstanceType)
		assert.Equal(t, 1, record.MinSize)
		assert.Equal(t, 6, record.MaxSize)
		assert.Equal(t, 3, record.DesiredSize)
		assert.Equal(t, 100, record.DiskSize)
		assert.Equal(t, "COS_CONTAINERD", record.AMIType)
	})

	t.Run("non-running status is dormant", func(t *testing.T) {
		pool := &containerpb.NodePool{
			Name:   "provisioning-pool",
			Status: containerpb.NodePool_PROVISIONING,
		}

		record := buildNodePoolRecord(pool)

		assert.Equal(t, types.StatusDormant, record.Status)
	})

	t.Run("absent autoscaling defaults to zero", func(t *testing.T) {
		pool := &containerpb.NodePool{Name: "bare"}

		record := buildNodePoolRecord(pool)

		assert.Equal(t, 0, record.MinSize)
		assert.Equal(t, 0, record.MaxSize)
	})
}

func TestBuildClusterRecord(t *testing.T) {
	cluster := &containerpb.Cluster{
		Name:                 "gke-prod",
		Location:             "europe-west1",
		CurrentMasterVersion: "1.29.1-gke.100",
		CurrentNodeCount:     4,
		CreateTime:           "2024-02-10T08:30:00Z",
		ResourceLabels: map[string]string{
			"customer_category": "acme",
			"env":               "prod",
		},
		NodePools: []*containerpb.NodePool{
			{
				Name:   "pool-a",
				Status: containerpb.NodePool_RUNNING,
				Config: &containerpb.NodeConfig{MachineType: "e2-standard-4"},
			},
			{
				Name:   "pool-b",
				Status: containerpb.NodePool_RUNNING,
				Config: &containerpb.NodeConfig{MachineType: "e2-standard-4"},
			},
		},
	}

	record := buildClusterRecord(cluster)

	assert.Equal(t, "gke-prod", record.Name)
	assert.Equal(t, types.ProviderGCP, record.Provider)
	assert.Equal(t, "europe-west1", record.Region)
	assert.Equal(t, "acme", record.CustomerCategory)
	assert.Equal(t, "1.29.1-gke.100", record.ClusterVersion)
	assert.Equal(t, 4, record.NodeCount)
	assert.Equal(t, types.StatusActive, record.Status)
	assert.Equal(t, []string{"e2-standard-4"}, record.NodeInstanceTypes)
	assert.Len(t, record.NodeGroups, 2)
	assert.Equal(t, time.Date(2024, 2, 10, 8, 30, 0, 0, time.UTC), record.CreatedAt)
	assert.Equal(t, "prod", record.Tags["env"])
}

func TestBuildClusterRecordDefaults(t *testing.T) {
	cluster := &containerpb.Cluster{Name: "unlabeled"}

	record := buildClusterRecord(cluster)

	assert.Equal(t, defaultCustomerCategory, record.CustomerCategory)
	assert.Equal(t, types.StatusDormant, record.Status)
	assert.True(t, record.CreatedAt.IsZero())
	// Unlabeled clusters still serialize tags as an object.
	assert.NotNil(t, record.Tags)
	assert.Empty(t, record.Tags)
}
