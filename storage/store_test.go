package storage

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lyric-engineering/fleetscope/types"
)

func TestBuildDocs(t *testing.T) {
	syncedAt := time.Date(2024, 6, 1, 10, 0, 0, 0, time.UTC)
	est := time.FixedZone("EST", -5*3600)
	clusters := []types.ClusterRecord{
		{
			Name:      "prod-cluster",
			Provider:  types.ProviderAWS,
			CreatedAt: time.Date(2024, 3, 1, 7, 0, 0, 0, est),
		},
	}

	docs := buildDocs(clusters, syncedAt)

	require.Len(t, docs, 1)
	doc, ok := docs[0].(clusterDoc)
	require.True(t, ok)

	assert.Equal(t, "prod-cluster", doc.Name)
	assert.Equal(t, syncedAt, doc.SyncedAt)
	// Storage normalizes creation timestamps to UTC.
	assert.Equal(t, time.UTC, doc.CreatedAt.Location())
	assert.Equal(t, time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC), doc.CreatedAt)
}
