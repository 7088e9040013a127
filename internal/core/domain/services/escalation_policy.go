package services

import (
	"fmt"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/pkg/errs"
)

// EscalationPolicy decides when an unconfirmed order is escalated.
//
// Business rules:
//   - order_ready moves to on_hold once holdAfter days passed since order_ready_date
//   - on_hold moves to cancelled once cancelAfter days passed since moved_to_on_hold
//   - confirmed orders and orders with a missing stamp are never escalated
type EscalationPolicy struct {
	holdAfter   int
	cancelAfter int
}

// NewEscalationPolicy validates both thresholds (in days, at least 1).
func NewEscalationPolicy(holdAfter, cancelAfter int) (EscalationPolicy, error) {
	if holdAfter < 1 {
		return EscalationPolicy{}, errs.NewValueIsInvalidErrorWithCause(
			"hold threshold is invalid", fmt.Errorf("%d is not greater than 0", holdAfter))
	}
	if cancelAfter < 1 {
		return EscalationPolicy{}, errs.NewValueIsInvalidErrorWithCause(
			"cancel threshold is invalid", fmt.Errorf("%d is not greater than 0", cancelAfter))
	}
	return EscalationPolicy{holdAfter: holdAfter, cancelAfter: cancelAfter}, nil
}

// DefaultEscalationPolicy escalates after two days at each stage.
func DefaultEscalationPolicy() EscalationPolicy {
	return EscalationPolicy{holdAfter: order.DefaultEscalationDays, cancelAfter: order.DefaultEscalationDays}
}

// Statuses returns the statuses the escalation scheduler has to look at.
func (p EscalationPolicy) Statuses() []order.Status {
	return []order.Status{order.OrderReady, order.OnHold}
}

// Next returns the escalation event that is due for s today, if any.
func (p EscalationPolicy) Next(s order.State, today kernel.Date) (order.Event, bool) {
	if s.Status().IsConfirmed() {
		return order.Event{}, false
	}

	var (
		marker    order.DateMarker
		threshold int
		event     func(kernel.Date, int) order.Event
	)
	switch s.Status() {
	case order.OrderReady:
		marker, threshold, event = order.MarkerOrderReady, p.holdAfter, order.EscalateToHold
	case order.OnHold:
		marker, threshold, event = order.MarkerOnHold, p.cancelAfter, order.EscalateToCancel
	default:
		return order.Event{}, false
	}

	stamp, ok := s.Date(marker)
	if !ok {
		return order.Event{}, false
	}
	if today.DaysSince(stamp) < threshold {
		return order.Event{}, false
	}
	return event(today, threshold), true
}
