package aggregator

import (
	"context"
	"time"

	"github.com/lyric-engineering/fleetscope/telemetry"
	"github.com/lyric-engineering/fleetscope/types"
)

// Result contains the merged outcome of one collection run.
type Result struct {
	StartTime time.Time              `json:"start_time"`
	EndTime   time.Time              `json:"end_time"`
	Duration  time.Duration          `json:"duration"`
	Clusters  []types.ClusterRecord  `json:"clusters"`
	Statuses  []types.ProviderStatus `json:"statuses,omitempty"`
}

// Snapshot returns the wire shape handed to callers. Never nil: a failed or
// empty run still produces a valid, empty snapshot.
func (r *Result) Snapshot() map[string][]types.ClusterRecord {
	clusters := r.Clusters
	if clusters == nil {
		clusters = []types.ClusterRecord{}
	}
	return map[string][]types.ClusterRecord{"clusters": clusters}
}

func (r *Result) recordDuration(ctx context.Context, m *telemetry.CollectionMetrics) {
	m.RunDuration.Record(ctx, float64(r.Duration.Milliseconds()))
}
