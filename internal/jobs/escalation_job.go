package jobs

import (
	"context"
	"log/slog"
	"time"

	"fulfillment/internal/core/application/usecases/commands"
	"fulfillment/internal/pkg/metrics"
)

const (
	EscalationJobName         = "escalation"
	DefaultEscalationSchedule = "*/30 * * * *"
)

// NewEscalationJob schedules the escalation of unanswered and held orders.
func NewEscalationJob(
	handler commands.EscalateOrdersCommandHandler,
	schedule string,
	loc *time.Location,
	m *metrics.Metrics,
	logger *slog.Logger,
) *Job {
	if schedule == "" {
		schedule = DefaultEscalationSchedule
	}
	return NewJob(EscalationJobName, schedule, loc, func(ctx context.Context) (commands.BatchResult, error) {
		return handler.Handle(ctx, commands.NewEscalateOrdersCommand())
	}, m, logger)
}
