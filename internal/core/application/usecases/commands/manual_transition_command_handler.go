package commands

import (
	"context"
	"log/slog"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/core/ports"
)

// ManualTransitionCommandHandler applies operator events (cancel, ready to ship)
// on a freshly read order and returns the resulting state.
type ManualTransitionCommandHandler struct {
	tx transitioner
}

func NewManualTransitionCommandHandler(
	orders ports.OrderRepository,
	notifier ports.Notifier,
	calendar kernel.Calendar,
	logger *slog.Logger,
) ManualTransitionCommandHandler {
	return ManualTransitionCommandHandler{
		tx: transitioner{
			orders:   orders,
			notifier: notifier,
			calendar: calendar,
			logger:   logger.With("component", "manual_transition"),
		},
	}
}

func (h ManualTransitionCommandHandler) Handle(ctx context.Context, cmd ManualTransitionCommand) (order.State, error) {
	if err := cmd.Validate(); err != nil {
		return order.State{}, err
	}

	o, err := h.tx.refresh(ctx, cmd.OrderID())
	if err != nil {
		return order.State{}, err
	}

	var ev order.Event
	switch cmd.Event() {
	case order.EventMarkReadyToShip:
		ev = order.MarkReadyToShip(cmd.TrackingToken())
	default:
		ev = order.ManualCancel(h.tx.calendar.Today())
	}

	tr, err := o.Apply(ev)
	if err != nil {
		return o.State(), err
	}

	if err = h.tx.commit(ctx, o, tr, ports.ActorOperator); err != nil {
		return o.State(), err
	}
	return o.State(), nil
}
