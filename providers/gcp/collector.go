// Package gcp collects GKE cluster inventory for one project across all
// locations.
package gcp

import (
	"context"
	"fmt"

	container "cloud.google.com/go/container/apiv1"
	"cloud.google.com/go/container/apiv1/containerpb"
	"google.golang.org/api/option"

	"github.com/lyric-engineering/fleetscope/providers"
	"github.com/lyric-engineering/fleetscope/telemetry"
	"github.com/lyric-engineering/fleetscope/types"
)

// Collector implements providers.Collector for GCP GKE.
type Collector struct {
	logger *telemetry.Logger
}

// New creates a GCP collector.
func New() *Collector {
	return &Collector{logger: telemetry.NewLogger("gcp-collector")}
}

func init() {
	providers.Register(New())
}

// Name returns the provider key.
func (c *Collector) Name() string {
	return "gcp"
}

// Collect lists clusters across all locations of the project in one call
// and flattens each cluster's node pools.
func (c *Collector) Collect(ctx context.Context, creds map[string]string, accountType string) ([]types.ClusterRecord, error) {
	client, err := container.NewClusterManagerClient(ctx,
		option.WithCredentialsFile(creds["credentials_path"]),
	)
	if err != nil {
		return nil, fmt.Errorf("create cluster manager client: %w", err)
	}
	defer func() {
		if closeErr := client.Close(); closeErr != nil {
			c.logger.WithContext(ctx).Warn().Err(closeErr).Msg("failed to close GKE client")
		}
	}()

	parent := fmt.Sprintf("projects/%s/locations/-", creds["project_id"])
	response, err := client.ListClusters(ctx, &containerpb.ListClustersRequest{Parent: parent})
	if err != nil {
		return nil, fmt.Errorf("list clusters: %w", err)
	}

	clusters := make([]types.ClusterRecord, 0, len(response.Clusters))
	for _, cluster := range response.Clusters {
		clusters = append(clusters, buildClusterRecord(cluster))
	}

	return clusters, nil
}
