package provision

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/go-github/v68/github"
	"sigs.k8s.io/yaml"
)

// environmentsPath is where committed environment manifests live.
const environmentsPath = "crossplane/environments"

// CommittedCluster summarizes one cluster parsed back out of the GitOps
// repository.
type CommittedCluster struct {
	Name             string `json:"name"`
	Provider         string `json:"provider"`
	Type             string `json:"type"`
	Region           string `json:"region"`
	CustomerCategory string `json:"customer_category"`
}

// ListCommitted parses the Application manifests under the environments
// directory into cluster summaries. Files that fail to parse are skipped
// and logged, not fatal.
func (p *Publisher) ListCommitted(ctx context.Context) ([]CommittedCluster, error) {
	_, entries, _, err := p.contents.GetContents(ctx, p.owner, p.repo, environmentsPath,
		&github.RepositoryContentGetOptions{Ref: p.branch})
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", environmentsPath, err)
	}

	var clusters []CommittedCluster
	for _, entry := range entries {
		name := entry.GetName()
		if !strings.HasSuffix(name, ".yaml") {
			continue
		}

		cluster, err := p.parseCommitted(ctx, entry.GetPath())
		if err != nil {
			p.logger.WithContext(ctx).Warn().
				Err(err).
				Str("file", name).
				Msg("skipping unparsable environment manifest")
			continue
		}
		clusters = append(clusters, cluster)
	}

	return clusters, nil
}

func (p *Publisher) parseCommitted(ctx context.Context, path string) (CommittedCluster, error) {
	file, _, _, err := p.contents.GetContents(ctx, p.owner, p.repo, path,
		&github.RepositoryContentGetOptions{Ref: p.branch})
	if err != nil {
		return CommittedCluster{}, fmt.Errorf("fetch %s: %w", path, err)
	}

	content, err := file.GetContent()
	if err != nil {
		return CommittedCluster{}, fmt.Errorf("decode %s: %w", path, err)
	}

	app, err := findApplication(content)
	if err != nil {
		return CommittedCluster{}, err
	}

	if len(app.Spec.Sources) == 0 {
		return CommittedCluster{}, fmt.Errorf("no sources in %s", path)
	}

	params := map[string]string{}
	for _, param := range app.Spec.Sources[0].Helm.Parameters {
		params[param.Name] = param.Value
	}

	clusterType := "Non-Production"
	if params["environmentType"] == "prod" {
		clusterType = "Production"
	}

	category := params["customer_category"]
	if category == "" {
		category = "Lyric"
	}

	return CommittedCluster{
		Name:             params["clusterName"],
		Provider:         strings.ToUpper(params["cloudProvider"]),
		Type:             clusterType,
		Region:           params["region"],
		CustomerCategory: category,
	}, nil
}

// findApplication locates the Application document in a possibly multi-
// document YAML file.
func findApplication(content string) (*Application, error) {
	for _, doc := range strings.Split(content, "\n---") {
		if strings.TrimSpace(doc) == "" {
			continue
		}

		var app Application
		if err := yaml.Unmarshal([]byte(doc), &app); err != nil {
			continue
		}
		if app.Kind == "Application" {
			return &app, nil
		}
	}
	return nil, fmt.Errorf("no Application document found")
}
