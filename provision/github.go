package provision

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/go-github/v68/github"

	"github.com/lyric-engineering/fleetscope/telemetry"
)

// contentsService is the slice of the GitHub contents API the publisher
// needs.
type contentsService interface {
	GetContents(ctx context.Context, owner, repo, path string, opts *github.RepositoryContentGetOptions) (*github.RepositoryContent, []*github.RepositoryContent, *github.Response, error)
	CreateFile(ctx context.Context, owner, repo, path string, opts *github.RepositoryContentFileOptions) (*github.RepositoryContentResponse, *github.Response, error)
	UpdateFile(ctx context.Context, owner, repo, path string, opts *github.RepositoryContentFileOptions) (*github.RepositoryContentResponse, *github.Response, error)
}

// Publisher commits rendered manifests to the GitOps repository.
type Publisher struct {
	contents contentsService
	owner    string
	repo     string
	branch   string
	logger   *telemetry.Logger
}

// NewPublisher creates a publisher for the "owner/repo" repository using
// the given token.
func NewPublisher(token, ownerRepo, branch string) (*Publisher, error) {
	owner, repo, err := splitRepo(ownerRepo)
	if err != nil {
		return nil, err
	}

	client := github.NewClient(nil).WithAuthToken(token)
	return &Publisher{
		contents: client.Repositories,
		owner:    owner,
		repo:     repo,
		branch:   branch,
		logger:   telemetry.NewLogger("provision-github"),
	}, nil
}

// Publish creates or updates applications/<cluster>/application.yaml with
// the rendered manifest.
func (p *Publisher) Publish(ctx context.Context, clusterName string, manifest []byte) error {
	path := fmt.Sprintf("applications/%s/application.yaml", clusterName)
	message := fmt.Sprintf("Add infrastructure configuration for %s", clusterName)

	opts := &github.RepositoryContentFileOptions{
		Message: github.Ptr(message),
		Content: manifest,
		Branch:  github.Ptr(p.branch),
	}

	existing, _, _, err := p.contents.GetContents(ctx, p.owner, p.repo, path,
		&github.RepositoryContentGetOptions{Ref: p.branch})
	if err == nil && existing != nil {
		opts.SHA = existing.SHA
		if _, _, err := p.contents.UpdateFile(ctx, p.owner, p.repo, path, opts); err != nil {
			return fmt.Errorf("update %s: %w", path, err)
		}
		p.logger.WithContext(ctx).Info().Str("path", path).Msg("updated configuration")
		return nil
	}

	if _, _, err := p.contents.CreateFile(ctx, p.owner, p.repo, path, opts); err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	p.logger.WithContext(ctx).Info().Str("path", path).Msg("created configuration")
	return nil
}

func splitRepo(ownerRepo string) (string, string, error) {
	parts := strings.SplitN(ownerRepo, "/", 2)
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return "", "", fmt.Errorf("repository must be owner/repo, got %q", ownerRepo)
	}
	return parts[0], parts[1], nil
}
