package storage

import (
	"time"

	"github.com/lyric-engineering/fleetscope/types"
)

// ClusterSummary is the list view served by GET /api/clusters.
type ClusterSummary struct {
	Name             string `json:"name" bson:"name"`
	Provider         string `json:"provider" bson:"provider"`
	Type             string `json:"type" bson:"type"`
	Region           string `json:"region" bson:"region"`
	CustomerCategory string `json:"customer_category" bson:"customer_category"`
}

// ClusterDetail is the per-cluster view served by GET /api/clusters/:name.
type ClusterDetail struct {
	Name       string                  `json:"name" bson:"name"`
	Provider   string                  `json:"provider" bson:"provider"`
	Version    string                  `json:"version" bson:"cluster_version"`
	Region     string                  `json:"region" bson:"region"`
	CreatedAt  time.Time               `json:"createdAt" bson:"created_at"`
	Status     string                  `json:"status" bson:"status"`
	Tags       map[string]string       `json:"tags" bson:"tags"`
	NodeGroups []types.NodeGroupRecord `json:"nodeGroups" bson:"nodeGroups"`
}
