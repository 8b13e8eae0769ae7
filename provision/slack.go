package provision

import (
	"context"
	"fmt"

	"github.com/slack-go/slack"

	"github.com/lyric-engineering/fleetscope/telemetry"
)

// messagePoster is the slice of the Slack API the notifier needs.
type messagePoster interface {
	PostMessageContext(ctx context.Context, channelID string, options ...slack.MsgOption) (string, string, error)
}

// Notifier announces provisioned infrastructure on a chat channel.
type Notifier struct {
	client  messagePoster
	channel string
	logger  *telemetry.Logger
}

// NewNotifier creates a notifier posting to the given channel.
func NewNotifier(token, channel string) *Notifier {
	return &Notifier{
		client:  slack.New(token),
		channel: channel,
		logger:  telemetry.NewLogger("provision-slack"),
	}
}

// Notify posts the new-infrastructure announcement.
func (n *Notifier) Notify(ctx context.Context, req Request) error {
	message := fmt.Sprintf(
		":rocket: New infrastructure configuration created:\n"+
			"• Cluster: %s\n"+
			"• Customer: %s\n"+
			"• Environment: %s\n"+
			"• Region: %s\n"+
			"• Compute Plan: %s",
		req.ClusterName, req.CustomerCategory, req.Environment, req.Region, req.ComputePlan,
	)

	_, _, err := n.client.PostMessageContext(ctx, n.channel, slack.MsgOptionText(message, false))
	if err != nil {
		return fmt.Errorf("post slack message: %w", err)
	}

	n.logger.WithContext(ctx).Info().
		Str("channel", n.channel).
		Str("cluster", req.ClusterName).
		Msg("notification sent")
	return nil
}
