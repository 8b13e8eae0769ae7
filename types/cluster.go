package types

import "time"

// Provider identifiers for ClusterRecord.Provider.
const (
	ProviderAWS   = "AWS"
	ProviderGCP   = "GCP"
	ProviderAzure = "AZURE"
)

// Cluster status values for providers without a native status.
const (
	StatusActive  = "ACTIVE"
	StatusDormant = "DORMANT"
)

// Cluster classification derived from the account type.
const (
	TypeProduction    = "Production"
	TypeNonProduction = "Non-Production"
)

// ClusterRecord is the unified cluster entity produced by every collection
// run. Records are rebuilt from scratch each run and fully replace the
// queryable snapshot.
type ClusterRecord struct {
	Name              string            `json:"name" bson:"name"`
	Provider          string            `json:"provider" bson:"provider"`
	Type              string            `json:"type" bson:"type"`
	Region            string            `json:"region" bson:"region"`
	CustomerCategory  string            `json:"customer_category" bson:"customer_category"`
	AccountType       string            `json:"account_type" bson:"account_type"`
	ClusterVersion    string            `json:"cluster_version,omitempty" bson:"cluster_version,omitempty"`
	NodeCount         int               `json:"node_count" bson:"node_count"`
	NodeGroups        []NodeGroupRecord `json:"nodeGroups" bson:"nodeGroups"`
	NodeInstanceTypes []string          `json:"node_instance_types" bson:"node_instance_types"`
	Tags              map[string]string `json:"tags" bson:"tags"`
	Status            string            `json:"status" bson:"status"`
	CreatedAt         time.Time         `json:"created_at" bson:"created_at"`
}

// NodeGroupRecord is one node group (node pool, agent pool) of a cluster,
// in provider enumeration order.
type NodeGroupRecord struct {
	Name         string `json:"name" bson:"name"`
	Status       string `json:"status" bson:"status"`
	InstanceType string `json:"instanceType" bson:"instanceType"`
	MinSize      int    `json:"minSize" bson:"minSize"`
	MaxSize      int    `json:"maxSize" bson:"maxSize"`
	DesiredSize  int    `json:"desiredSize" bson:"desiredSize"`
	DiskSize     int    `json:"diskSize" bson:"diskSize"`
	CapacityType string `json:"capacityType" bson:"capacityType"`
	AMIType      string `json:"amiType" bson:"amiType"`
}

// DerivedNodeCount sums the desired size of every node group.
func (c *ClusterRecord) DerivedNodeCount() int {
	total := 0
	for _, ng := range c.NodeGroups {
		total += ng.DesiredSize
	}
	return total
}

// DeriveStatus computes the status for providers without a native one:
// ACTIVE iff the derived node count is nonzero, else DORMANT.
func (c *ClusterRecord) DeriveStatus() string {
	if c.DerivedNodeCount() != 0 {
		return StatusActive
	}
	return StatusDormant
}

// TypeForAccount maps an account type to its cluster classification.
func TypeForAccount(accountType string) string {
	if accountType == "production" {
		return TypeProduction
	}
	return TypeNonProduction
}

// InstanceTypeUnion returns the de-duplicated union of each node group's
// instance type plus any extra types reported at the node-group API level.
// Order follows first observation.
func InstanceTypeUnion(groups []NodeGroupRecord, extra []string) []string {
	seen := make(map[string]bool)
	union := make([]string, 0, len(groups)+len(extra))
	add := func(t string) {
		if t == "" || seen[t] {
			return
		}
		seen[t] = true
		union = append(union, t)
	}
	for _, ng := range groups {
		add(ng.InstanceType)
	}
	for _, t := range extra {
		add(t)
	}
	return union
}
