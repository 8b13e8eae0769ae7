package provision

import (
	"fmt"

	"sigs.k8s.io/yaml"
)

// Application is an Argo CD Application manifest.
type Application struct {
	APIVersion string          `json:"apiVersion"`
	Kind       string          `json:"kind"`
	Metadata   Metadata        `json:"metadata"`
	Spec       ApplicationSpec `json:"spec"`
}

// Metadata is the manifest object metadata.
type Metadata struct {
	Name      string `json:"name"`
	Namespace string `json:"namespace"`
}

// ApplicationSpec is the Argo CD application spec.
type ApplicationSpec struct {
	Project     string      `json:"project"`
	Sources     []Source    `json:"sources"`
	Destination Destination `json:"destination"`
	SyncPolicy  SyncPolicy  `json:"syncPolicy"`
}

// Source is one helm chart source of the application.
type Source struct {
	RepoURL        string `json:"repoURL"`
	Path           string `json:"path"`
	TargetRevision string `json:"targetRevision"`
	Helm           Helm   `json:"helm"`
}

// Helm holds value files and parameters for a source.
type Helm struct {
	ValueFiles []string    `json:"valueFiles"`
	Parameters []Parameter `json:"parameters"`
}

// Parameter is one helm parameter override.
type Parameter struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// Destination is the deployment target.
type Destination struct {
	Server    string `json:"server"`
	Namespace string `json:"namespace"`
}

// SyncPolicy holds the automated sync settings.
type SyncPolicy struct {
	Automated Automated `json:"automated"`
}

// Automated enables pruning and self-healing.
type Automated struct {
	Prune    bool `json:"prune"`
	SelfHeal bool `json:"selfHeal"`
}

const appsRepoURL = "https://github.com/Lyric-Engineering/argocd-apps.git"

// BuildApplication generates the Argo CD Application for a provisioning
// request: one source for the provider-specific crossplane chart, one for
// the shared commons chart.
func BuildApplication(req Request) Application {
	params := []Parameter{
		{Name: "clusterName", Value: req.ClusterName},
		{Name: "cloudProvider", Value: req.CloudProvider},
		{Name: "environmentType", Value: req.Environment},
		{Name: "region", Value: req.Region},
		{Name: "computePlan", Value: req.ComputePlan},
		{Name: "oidcEndpointThumbprint", Value: req.OIDCThumbprint},
	}
	providerParams := append([]Parameter{}, params[:5]...)
	providerParams = append(providerParams,
		Parameter{Name: "customer_category", Value: req.CustomerCategory},
		params[5],
	)

	return Application{
		APIVersion: "argoproj.io/v1alpha1",
		Kind:       "Application",
		Metadata: Metadata{
			Name:      fmt.Sprintf("lyric-infrastructure-%s", req.ClusterName),
			Namespace: "argo",
		},
		Spec: ApplicationSpec{
			Project: "default",
			Sources: []Source{
				{
					RepoURL:        appsRepoURL,
					Path:           fmt.Sprintf("crossplane/%s", req.CloudProvider),
					TargetRevision: "main",
					Helm: Helm{
						ValueFiles: []string{"values.yaml"},
						Parameters: providerParams,
					},
				},
				{
					RepoURL:        appsRepoURL,
					Path:           "crossplane/commons",
					TargetRevision: "main",
					Helm: Helm{
						ValueFiles: []string{"values.yaml"},
						Parameters: params,
					},
				},
			},
			Destination: Destination{
				Server:    "https://kubernetes.default.svc",
				Namespace: "crossplane-system",
			},
			SyncPolicy: SyncPolicy{
				Automated: Automated{Prune: true, SelfHeal: true},
			},
		},
	}
}

// RenderApplication marshals the application manifest to YAML.
func RenderApplication(req Request) ([]byte, error) {
	app := BuildApplication(req)
	data, err := yaml.Marshal(app)
	if err != nil {
		return nil, fmt.Errorf("marshal application manifest: %w", err)
	}
	return data, nil
}
