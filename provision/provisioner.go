package provision

import (
	"context"
	"fmt"

	"github.com/lyric-engineering/fleetscope/telemetry"
)

// manifestPublisher commits a rendered manifest for a cluster.
type manifestPublisher interface {
	Publish(ctx context.Context, clusterName string, manifest []byte) error
}

// announcer reports a completed provisioning request.
type announcer interface {
	Notify(ctx context.Context, req Request) error
}

// Provisioner runs the full flow: validate, render, commit, announce.
type Provisioner struct {
	publisher manifestPublisher
	notifier  announcer
	logger    *telemetry.Logger
}

// NewProvisioner wires the flow together.
func NewProvisioner(publisher manifestPublisher, notifier announcer) *Provisioner {
	return &Provisioner{
		publisher: publisher,
		notifier:  notifier,
		logger:    telemetry.NewLogger("provisioner"),
	}
}

// Provision validates the request, renders the Argo CD Application, commits
// it to the GitOps repository and announces the result.
func (p *Provisioner) Provision(ctx context.Context, req Request) error {
	req.ApplyDefaults()
	if err := req.Validate(); err != nil {
		return fmt.Errorf("invalid provisioning request: %w", err)
	}

	manifest, err := RenderApplication(req)
	if err != nil {
		return err
	}

	if err := p.publisher.Publish(ctx, req.ClusterName, manifest); err != nil {
		return fmt.Errorf("publish manifest: %w", err)
	}

	if err := p.notifier.Notify(ctx, req); err != nil {
		return fmt.Errorf("send notification: %w", err)
	}

	p.logger.WithContext(ctx).Info().
		Str("cluster", req.ClusterName).
		Str("environment", req.Environment).
		Msg("provisioning flow complete")
	return nil
}
