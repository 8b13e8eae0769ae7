// Package aggregator drives all enabled provider collectors concurrently
// and merges their partial results into one unified cluster list.
package aggregator

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/lyric-engineering/fleetscope/config"
	"github.com/lyric-engineering/fleetscope/providers"
	"github.com/lyric-engineering/fleetscope/telemetry"
	"github.com/lyric-engineering/fleetscope/types"
)

// Aggregator coordinates collect → stamp → merge across providers.
type Aggregator struct {
	cfg     *config.Config
	logger  *telemetry.Logger
	metrics *telemetry.CollectionMetrics
}

// New creates an aggregator for the given configuration.
func New(cfg *config.Config) *Aggregator {
	return &Aggregator{
		cfg:    cfg,
		logger: telemetry.NewLogger("aggregator"),
	}
}

// WithMetrics sets the collection metrics.
func (a *Aggregator) WithMetrics(m *telemetry.CollectionMetrics) *Aggregator {
	a.metrics = m
	return a
}

// task is one (provider, account type) collection unit.
type task struct {
	provider    string
	accountType string
}

// CollectAll runs one task per enabled (provider, account type) pair on a
// worker pool bounded to the number of enabled providers. A failing task is
// logged and contributes zero clusters; the run always completes with
// whatever subset succeeded. Merge order is task completion order and
// duplicate clusters across accounts are kept as-is.
func (a *Aggregator) CollectAll(ctx context.Context) *Result {
	result := &Result{StartTime: time.Now()}

	enabled := a.cfg.EnabledClouds()
	if len(enabled) == 0 {
		return a.finishRun(ctx, result)
	}

	var tasks []task
	for _, provider := range enabled {
		for _, accountType := range providers.AccountTypes(provider) {
			tasks = append(tasks, task{provider: provider, accountType: accountType})
		}
	}

	var (
		mu   sync.Mutex
		wg   sync.WaitGroup
		pool = make(chan struct{}, len(enabled))
	)

	for _, t := range tasks {
		wg.Add(1)
		go func(t task) {
			defer wg.Done()
			pool <- struct{}{}
			defer func() { <-pool }()

			clusters, status := a.runTask(ctx, t)

			mu.Lock()
			result.Clusters = append(result.Clusters, clusters...)
			result.Statuses = append(result.Statuses, status)
			mu.Unlock()
		}(t)
	}

	wg.Wait()
	return a.finishRun(ctx, result)
}

// runTask executes one collector to completion, bounded by the configured
// per-task timeout. Faults never propagate past here.
func (a *Aggregator) runTask(ctx context.Context, t task) ([]types.ClusterRecord, types.ProviderStatus) {
	start := time.Now()
	status := types.ProviderStatus{
		Provider:    t.provider,
		AccountType: t.accountType,
	}

	if timeout := a.cfg.Collector.TaskTimeout; timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	collector, err := providers.Get(t.provider)
	if err != nil {
		status.Error = err.Error()
		status.Duration = time.Since(start)
		a.logger.LogTaskFailure(ctx, t.provider, t.accountType, err)
		return nil, status
	}

	creds := a.cfg.Credentials(t.provider, t.accountType)

	clusters, err := collector.Collect(ctx, creds, t.accountType)
	status.Duration = time.Since(start)
	if err != nil {
		status.Error = err.Error()
		a.logger.LogTaskFailure(ctx, t.provider, t.accountType, err)
		if a.metrics != nil {
			a.metrics.RecordTask(ctx, t.provider, t.accountType, 0, true)
		}
		return nil, status
	}

	a.stamp(clusters, t)
	status.Clusters = len(clusters)

	a.logger.LogTaskComplete(ctx, t.provider, t.accountType, len(clusters), float64(status.Duration.Milliseconds()))
	if a.metrics != nil {
		a.metrics.RecordTask(ctx, t.provider, t.accountType, len(clusters), false)
	}

	return clusters, status
}

// stamp sets provider, account type and the derived classification on every
// record. These are owned by the aggregator, never inferred downstream.
func (a *Aggregator) stamp(clusters []types.ClusterRecord, t task) {
	provider := strings.ToUpper(t.provider)
	for i := range clusters {
		clusters[i].Provider = provider
		clusters[i].AccountType = t.accountType
		clusters[i].Type = types.TypeForAccount(t.accountType)
	}
}

func (a *Aggregator) finishRun(ctx context.Context, result *Result) *Result {
	result.EndTime = time.Now()
	result.Duration = result.EndTime.Sub(result.StartTime)

	failures := 0
	for _, s := range result.Statuses {
		if !s.OK() {
			failures++
		}
	}

	a.logger.WithContext(ctx).Info().
		Int("clusters", len(result.Clusters)).
		Int("tasks", len(result.Statuses)).
		Int("failures", failures).
		Dur("duration", result.Duration).
		Msg("collection run complete")

	if a.metrics != nil {
		result.recordDuration(ctx, a.metrics)
	}

	return result
}
