// Package provision renders a GitOps deployment manifest for a new cluster,
// commits it to source control and announces it on chat. It is independent
// of the aggregation pipeline and never writes to the inventory store.
package provision

import "fmt"

// defaultOIDCThumbprint is the thumbprint baked into rendered manifests.
const defaultOIDCThumbprint = "32f9e66ae934e90332545a9e7494591af3f34938"

var (
	validRegions      = []string{"us-east-1", "us-west-2", "eu-west-1", "ap-southeast-1"}
	validEnvironments = []string{"prod", "notprod"}
	validComputePlans = []string{"standard", "premium", "enterprise"}
)

// Request carries the user-supplied provisioning parameters.
type Request struct {
	ClusterName      string `json:"cluster_name"`
	CustomerCategory string `json:"customer_category"`
	CloudProvider    string `json:"cloud_provider"`
	Region           string `json:"region"`
	Environment      string `json:"environment_type"`
	ComputePlan      string `json:"compute_plan"`
	OIDCThumbprint   string `json:"-"`
}

// ApplyDefaults fills unset optional fields.
func (r *Request) ApplyDefaults() {
	if r.CloudProvider == "" {
		r.CloudProvider = "aws"
	}
	if r.Region == "" {
		r.Region = "us-east-1"
	}
	if r.Environment == "" {
		r.Environment = "notprod"
	}
	if r.ComputePlan == "" {
		r.ComputePlan = "standard"
	}
	if r.OIDCThumbprint == "" {
		r.OIDCThumbprint = defaultOIDCThumbprint
	}
}

// Validate checks the request against the allowed parameter sets.
func (r *Request) Validate() error {
	if r.ClusterName == "" {
		return fmt.Errorf("cluster_name is required")
	}
	if r.CustomerCategory == "" {
		return fmt.Errorf("customer_category is required")
	}
	if !contains(validRegions, r.Region) {
		return fmt.Errorf("region must be one of %v", validRegions)
	}
	if !contains(validEnvironments, r.Environment) {
		return fmt.Errorf("environment type must be one of %v", validEnvironments)
	}
	if !contains(validComputePlans, r.ComputePlan) {
		return fmt.Errorf("compute plan must be one of %v", validComputePlans)
	}
	return nil
}

func contains(values []string, v string) bool {
	for _, value := range values {
		if value == v {
			return true
		}
	}
	return false
}
