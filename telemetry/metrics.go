package telemetry

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// CollectionMetrics holds the aggregation pipeline metrics
type CollectionMetrics struct {
	ClustersCollected metric.Int64Counter
	TaskFailures      metric.Int64Counter
	RunDuration       metric.Float64Histogram
}

// InitCollectionMetrics initializes the aggregation metrics
func InitCollectionMetrics(meter metric.Meter) (*CollectionMetrics, error) {
	m := &CollectionMetrics{}
	var err error

	m.ClustersCollected, err = meter.Int64Counter(
		"fleetscope.clusters.collected.total",
		metric.WithDescription("Total number of clusters collected across all runs"),
		metric.WithUnit("clusters"),
	)
	if err != nil {
		return nil, err
	}

	m.TaskFailures, err = meter.Int64Counter(
		"fleetscope.collection.task.failures.total",
		metric.WithDescription("Total number of failed collection tasks"),
		metric.WithUnit("failures"),
	)
	if err != nil {
		return nil, err
	}

	m.RunDuration, err = meter.Float64Histogram(
		"fleetscope.collection.run.duration",
		metric.WithDescription("Duration of full collection runs"),
		metric.WithUnit("ms"),
	)
	if err != nil {
		return nil, err
	}

	return m, nil
}

// RecordTask records one finished task with provider and account context.
func (m *CollectionMetrics) RecordTask(ctx context.Context, provider, accountType string, clusters int, failed bool) {
	attrs := metric.WithAttributes(
		attribute.String("provider", provider),
		attribute.String("account_type", accountType),
	)
	if failed {
		m.TaskFailures.Add(ctx, 1, attrs)
		return
	}
	m.ClustersCollected.Add(ctx, int64(clusters), attrs)
}
