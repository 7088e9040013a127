package jobs

import (
	"context"
	"log/slog"
	"time"

	"fulfillment/internal/core/application/usecases/commands"
	"fulfillment/internal/pkg/metrics"
)

const (
	CarrierReconciliationJobName         = "carrier_reconciliation"
	DefaultCarrierReconciliationSchedule = "0 * * * *"
)

// NewCarrierReconciliationJob schedules the carrier feed reconciliation.
func NewCarrierReconciliationJob(
	handler commands.ReconcileCarrierCommandHandler,
	schedule string,
	loc *time.Location,
	m *metrics.Metrics,
	logger *slog.Logger,
) *Job {
	if schedule == "" {
		schedule = DefaultCarrierReconciliationSchedule
	}
	return NewJob(CarrierReconciliationJobName, schedule, loc, func(ctx context.Context) (commands.BatchResult, error) {
		return handler.Handle(ctx, commands.NewReconcileCarrierCommand())
	}, m, logger)
}
