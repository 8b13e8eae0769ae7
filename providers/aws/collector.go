// Package aws collects EKS cluster inventory across all regions of one
// account.
package aws

import (
	"context"
	"fmt"

	awssdk "github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/ec2"
	"github.com/aws/aws-sdk-go-v2/service/eks"

	"github.com/lyric-engineering/fleetscope/providers"
	"github.com/lyric-engineering/fleetscope/telemetry"
	"github.com/lyric-engineering/fleetscope/types"
)

// defaultRegion anchors the initial region-listing call.
const defaultRegion = "us-east-1"

// Collector implements providers.Collector for AWS EKS.
type Collector struct {
	logger *telemetry.Logger
}

// New creates an AWS collector.
func New() *Collector {
	return &Collector{logger: telemetry.NewLogger("aws-collector")}
}

func init() {
	providers.Register(New())
}

// Name returns the provider key.
func (c *Collector) Name() string {
	return "aws"
}

// Collect enumerates all regions visible to the account and lists the EKS
// clusters of each. A failure in one region is logged and contributes zero
// clusters without aborting the others.
func (c *Collector) Collect(ctx context.Context, creds map[string]string, accountType string) ([]types.ClusterRecord, error) {
	cfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion(defaultRegion),
		awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(creds["access_key"], creds["secret_key"], ""),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("load AWS config: %w", err)
	}

	regionsOutput, err := ec2.NewFromConfig(cfg).DescribeRegions(ctx, &ec2.DescribeRegionsInput{})
	if err != nil {
		return nil, fmt.Errorf("describe regions: %w", err)
	}

	var clusters []types.ClusterRecord
	for _, region := range regionsOutput.Regions {
		regionName := awssdk.ToString(region.RegionName)

		regional, err := c.collectRegion(ctx, cfg, regionName)
		if err != nil {
			c.logger.WithContext(ctx).Error().
				Err(err).
				Str("region", regionName).
				Msg("failed to collect EKS clusters in region")
			continue
		}
		clusters = append(clusters, regional...)
	}

	return clusters, nil
}

// collectRegion lists and describes every cluster of one region.
func (c *Collector) collectRegion(ctx context.Context, cfg awssdk.Config, region string) ([]types.ClusterRecord, error) {
	client := eks.NewFromConfig(cfg, func(o *eks.Options) {
		o.Region = region
	})

	listOutput, err := client.ListClusters(ctx, &eks.ListClustersInput{})
	if err != nil {
		return nil, fmt.Errorf("list clusters: %w", err)
	}

	clusters := make([]types.ClusterRecord, 0, len(listOutput.Clusters))
	for _, clusterName := range listOutput.Clusters {
		record, err := c.collectCluster(ctx, client, clusterName, region)
		if err != nil {
			return nil, fmt.Errorf("collect cluster %s: %w", clusterName, err)
		}
		clusters = append(clusters, record)
	}

	return clusters, nil
}

// collectCluster fetches control-plane detail and node group scaling detail
// for one cluster.
func (c *Collector) collectCluster(ctx context.Context, client *eks.Client, clusterName, region string) (types.ClusterRecord, error) {
	describeOutput, err := client.DescribeCluster(ctx, &eks.DescribeClusterInput{
		Name: awssdk.String(clusterName),
	})
	if err != nil {
		return types.ClusterRecord{}, fmt.Errorf("describe cluster: %w", err)
	}

	listNGOutput, err := client.ListNodegroups(ctx, &eks.ListNodegroupsInput{
		ClusterName: awssdk.String(clusterName),
	})
	if err != nil {
		return types.ClusterRecord{}, fmt.Errorf("list node groups: %w", err)
	}

	nodeGroups := make([]types.NodeGroupRecord, 0, len(listNGOutput.Nodegroups))
	var extraTypes []string
	for _, ngName := range listNGOutput.Nodegroups {
		describeNGOutput, err := client.DescribeNodegroup(ctx, &eks.DescribeNodegroupInput{
			ClusterName:   awssdk.String(clusterName),
			NodegroupName: awssdk.String(ngName),
		})
		if err != nil {
			return types.ClusterRecord{}, fmt.Errorf("describe node group %s: %w", ngName, err)
		}

		ng := describeNGOutput.Nodegroup
		nodeGroups = append(nodeGroups, buildNodeGroupRecord(*ng))
		extraTypes = append(extraTypes, ng.InstanceTypes...)
	}

	return buildClusterRecord(*describeOutput.Cluster, region, nodeGroups, extraTypes), nil
}
