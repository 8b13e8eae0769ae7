package provision

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakePublisher struct {
	published map[string][]byte
	err       error
}

func (f *fakePublisher) Publish(_ context.Context, clusterName string, manifest []byte) error {
	if f.err != nil {
		return f.err
	}
	if f.published == nil {
		f.published = map[string][]byte{}
	}
	f.published[clusterName] = manifest
	return nil
}

type fakeNotifier struct {
	notified []Request
	err      error
}

func (f *fakeNotifier) Notify(_ context.Context, req Request) error {
	if f.err != nil {
		return f.err
	}
	f.notified = append(f.notified, req)
	return nil
}

func TestProvision(t *testing.T) {
	publisher := &fakePublisher{}
	notifier := &fakeNotifier{}
	p := NewProvisioner(publisher, notifier)

	req := Request{ClusterName: "analytics", CustomerCategory: "acme"}
	require.NoError(t, p.Provision(context.Background(), req))

	manifest, ok := publisher.published["analytics"]
	require.True(t, ok)
	assert.Contains(t, string(manifest), "lyric-infrastructure-analytics")

	require.Len(t, notifier.notified, 1)
	// Defaults were applied before the announcement.
	assert.Equal(t, "notprod", notifier.notified[0].Environment)
}

func TestProvisionInvalidRequest(t *testing.T) {
	p := NewProvisioner(&fakePublisher{}, &fakeNotifier{})

	err := p.Provision(context.Background(), Request{ClusterName: "analytics"})
	assert.Error(t, err)
}

func TestProvisionPublishFailure(t *testing.T) {
	notifier := &fakeNotifier{}
	p := NewProvisioner(&fakePublisher{err: errors.New("github unavailable")}, notifier)

	err := p.Provision(context.Background(), Request{ClusterName: "analytics", CustomerCategory: "acme"})

	assert.Error(t, err)
	assert.Empty(t, notifier.notified)
}

func TestProvisionNotifyFailure(t *testing.T) {
	p := NewProvisioner(&fakePublisher{}, &fakeNotifier{err: errors.New("slack unavailable")})

	err := p.Provision(context.Background(), Request{ClusterName: "analytics", CustomerCategory: "acme"})
	assert.Error(t, err)
}
