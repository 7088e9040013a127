package notify

import (
	"context"
	"log/slog"

	"fulfillment/internal/core/ports"
	"fulfillment/internal/pkg/metrics"
)

// LogSink writes every status change as a structured log line.
type LogSink struct {
	logger *slog.Logger
}

func NewLogSink(logger *slog.Logger) LogSink {
	return LogSink{logger: logger.With("component", "status_changes")}
}

func (LogSink) Name() string { return "log" }

func (s LogSink) Deliver(ctx context.Context, change ports.StatusChange) error {
	s.logger.InfoContext(ctx, "order status changed",
		"order_id", change.OrderID,
		"order_number", change.OrderNumber,
		"previous", change.Previous.String(),
		"current", change.Current.String(),
		"actor", change.Actor,
		"at", change.At,
	)
	return nil
}

// MetricsSink counts status changes by previous status, current status and actor.
type MetricsSink struct {
	metrics *metrics.Metrics
}

func NewMetricsSink(m *metrics.Metrics) MetricsSink {
	return MetricsSink{metrics: m}
}

func (MetricsSink) Name() string { return "metrics" }

func (s MetricsSink) Deliver(_ context.Context, change ports.StatusChange) error {
	s.metrics.Transition(change.Previous.String(), change.Current.String(), change.Actor)
	return nil
}

// HistorySink appends status changes to the durable status-change log.
type HistorySink struct {
	repo ports.StatusChangeRepository
}

func NewHistorySink(repo ports.StatusChangeRepository) HistorySink {
	return HistorySink{repo: repo}
}

func (HistorySink) Name() string { return "history" }

func (s HistorySink) Deliver(ctx context.Context, change ports.StatusChange) error {
	return s.repo.Add(ctx, change)
}
