// Package azure collects AKS cluster inventory for one subscription across
// all locations.
package azure

import (
	"context"
	"fmt"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore"
	"github.com/Azure/azure-sdk-for-go/sdk/azidentity"
	"github.com/Azure/azure-sdk-for-go/sdk/resourcemanager/containerservice/armcontainerservice/v6"
	"github.com/Azure/azure-sdk-for-go/sdk/resourcemanager/resources/armsubscriptions"

	"github.com/lyric-engineering/fleetscope/providers"
	"github.com/lyric-engineering/fleetscope/telemetry"
	"github.com/lyric-engineering/fleetscope/types"
)

// Collector implements providers.Collector for Azure AKS.
type Collector struct {
	logger *telemetry.Logger
}

// New creates an Azure collector.
func New() *Collector {
	return &Collector{logger: telemetry.NewLogger("azure-collector")}
}

func init() {
	providers.Register(New())
}

// Name returns the provider key.
func (c *Collector) Name() string {
	return "azure"
}

// Collect enumerates the subscription's locations and reports the managed
// clusters of each location in enumeration order.
func (c *Collector) Collect(ctx context.Context, creds map[string]string, accountType string) ([]types.ClusterRecord, error) {
	credential, err := azidentity.NewClientSecretCredential(
		creds["tenant_id"], creds["client_id"], creds["client_secret"], nil,
	)
	if err != nil {
		return nil, fmt.Errorf("create client secret credential: %w", err)
	}

	subscriptionID := creds["subscription_id"]

	locations, err := c.listLocations(ctx, credential, subscriptionID)
	if err != nil {
		return nil, fmt.Errorf("list locations: %w", err)
	}

	byLocation, err := c.listManagedClusters(ctx, credential, subscriptionID)
	if err != nil {
		return nil, fmt.Errorf("list managed clusters: %w", err)
	}

	var clusters []types.ClusterRecord
	for _, location := range locations {
		for _, mc := range byLocation[location] {
			clusters = append(clusters, buildClusterRecord(mc, location))
		}
	}

	return clusters, nil
}

func (c *Collector) listLocations(ctx context.Context, credential azcore.TokenCredential, subscriptionID string) ([]string, error) {
	client, err := armsubscriptions.NewClient(credential, nil)
	if err != nil {
		return nil, err
	}

	var locations []string
	pager := client.NewListLocationsPager(subscriptionID, nil)
	for pager.More() {
		page, err := pager.NextPage(ctx)
		if err != nil {
			return nil, err
		}
		for _, location := range page.Value {
			if location.Name != nil {
				locations = append(locations, *location.Name)
			}
		}
	}

	return locations, nil
}

func (c *Collector) listManagedClusters(ctx context.Context, credential azcore.TokenCredential, subscriptionID string) (map[string][]*armcontainerservice.ManagedCluster, error) {
	client, err := armcontainerservice.NewManagedClustersClient(subscriptionID, credential, nil)
	if err != nil {
		return nil, err
	}

	byLocation := make(map[string][]*armcontainerservice.ManagedCluster)
	pager := client.NewListPager(nil)
	for pager.More() {
		page, err := pager.NextPage(ctx)
		if err != nil {
			return nil, err
		}
		for _, mc := range page.Value {
			if mc.Location == nil {
				continue
			}
			byLocation[*mc.Location] = append(byLocation[*mc.Location], mc)
		}
	}

	return byLocation, nil
}
