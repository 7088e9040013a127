package commands

import (
	"context"
	"log/slog"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/core/ports"
)

// transitioner persists the outcome of a state machine decision and emits the
// status-change notification. It is shared by every handler that changes orders.
type transitioner struct {
	orders   ports.OrderRepository
	notifier ports.Notifier
	calendar kernel.Calendar
	logger   *slog.Logger
}

// refresh re-reads the order right before a decision so that the write is derived
// from the freshest snapshot available.
func (t transitioner) refresh(ctx context.Context, id int64) (*order.Order, error) {
	return t.orders.Get(ctx, id)
}

// commit writes the order when the transition changed it and notifies on a
// non-silent status change. The notified:<status> label guards against repeated
// notifications when a write is retried.
func (t transitioner) commit(ctx context.Context, o *order.Order, tr order.Transition, actor string) error {
	if !tr.Changed {
		return nil
	}

	notify := tr.Notifiable() && o.State().NotifiedStatus() != tr.To.Status().String()
	if notify {
		o.MarkNotified(tr.To.Status())
	}

	if err := t.orders.Update(ctx, o); err != nil {
		return err
	}

	t.logger.InfoContext(ctx, "order transitioned",
		"order_id", o.ID(),
		"order_number", o.Number(),
		"event", tr.Event.String(),
		"from", tr.From.Status().String(),
		"to", tr.To.Status().String(),
		"actor", actor,
	)

	if notify && t.notifier != nil {
		t.notifier.Notify(ctx, ports.StatusChange{
			OrderID:     o.ID(),
			OrderNumber: o.Number(),
			Previous:    tr.From.Status(),
			Current:     tr.To.Status(),
			Actor:       actor,
			At:          t.calendar.Now(),
		})
	}
	return nil
}
