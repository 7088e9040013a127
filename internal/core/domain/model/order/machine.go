package order

import (
	"fmt"

	"fulfillment/internal/pkg/errs"
)

// Transition is the outcome of applying an event.
type Transition struct {
	Event   EventKind
	From    State
	To      State
	Changed bool
	Silent  bool
}

// StatusChanged reports whether the event moved the order to another status.
func (t Transition) StatusChanged() bool {
	return t.From.Status() != t.To.Status()
}

// Notifiable reports whether the transition warrants a status-change notification.
func (t Transition) Notifiable() bool {
	return t.StatusChanged() && !t.Silent
}

// Apply decides the next state of an order. It is pure: the caller persists To
// when Changed is set.
//
// Rejections are returned as *errs.TransitionRejectedError. Events that are legal but
// have nothing left to do (ManualCancel on a cancelled order, a second
// CarrierReturnConfirmed) succeed with Changed unset.
//
// Example:
//
//	tr, err := order.Apply(state, order.EscalateToHold(today, 2))
//	if errors.Is(err, errs.ErrTransitionRejected) {
//	    // not due yet, or not in order_ready
//	}
func Apply(current State, ev Event) (Transition, error) {
	from := current.Status()
	tr := Transition{Event: ev.Kind, From: current, To: current}

	if ev.stamps() && ev.Today.IsZero() {
		return tr, errs.NewValueIsRequiredError("event date")
	}

	dst, ok := graph.destination(from, ev.Kind)
	if !ok {
		return tr, errs.NewTransitionRejectedError(ev.Kind.String(), from.String())
	}

	if err := checkGuard(current, ev); err != nil {
		return tr, errs.NewTransitionRejectedErrorWithCause(ev.Kind.String(), from.String(), err)
	}

	next := applyEffect(current, ev).WithStatus(dst).Pruned()

	tr.To = next
	tr.Changed = !next.Equal(current)
	tr.Silent = ev.Kind == EventCarrierReturnConfirmed
	return tr, nil
}

// AvailableEvents lists the event names legal from status, ignoring guards.
func AvailableEvents(status Status) []string {
	return graph.available(status)
}

func checkGuard(s State, ev Event) error {
	switch ev.Kind {
	case EventCarrierPickedUp:
		if ev.CarrierStatus.IsPendingPickup() {
			return fmt.Errorf("carrier status %q is still pending pickup", ev.CarrierStatus.String())
		}
	case EventCarrierDelivered:
		if !ev.CarrierStatus.IsDelivered() {
			return fmt.Errorf("carrier status %q is not delivered", ev.CarrierStatus.String())
		}
	case EventEscalateToHold:
		return checkElapsed(s, MarkerOrderReady, ev)
	case EventEscalateToCancel:
		return checkElapsed(s, MarkerOnHold, ev)
	case EventCarrierReturnConfirmed:
		if !s.HasTrackingToken() {
			return errs.NewValueIsRequiredError("tracking token")
		}
		if !ev.CarrierStatus.IsMerchantReceivedReturn() {
			return fmt.Errorf("carrier status %q is not a received return", ev.CarrierStatus.String())
		}
	}
	return nil
}

func checkElapsed(s State, m DateMarker, ev Event) error {
	stamp, ok := s.Date(m)
	if !ok {
		return errs.NewValueIsRequiredError(string(m))
	}
	if elapsed := ev.Today.DaysSince(stamp); elapsed < ev.threshold() {
		return fmt.Errorf("%d of %d days elapsed since %s", elapsed, ev.threshold(), m)
	}
	return nil
}

func applyEffect(s State, ev Event) State {
	switch ev.Kind {
	case EventRequestReady:
		return s.WithDate(MarkerOrderReady, ev.Today)
	case EventCustomerConfirm:
		return s.WithoutDate(MarkerOnHold)
	case EventMarkReadyToShip:
		if ev.TrackingToken != "" {
			return s.WithTrackingToken(ev.TrackingToken)
		}
		return s
	case EventCarrierPickedUp:
		return s.WithDate(MarkerShipping, ev.Today)
	case EventCarrierDelivered:
		return s.WithDate(MarkerFulfilled, ev.Today).WithoutFlag(FlagPriority)
	case EventEscalateToHold:
		return s.WithDate(MarkerOnHold, ev.Today)
	case EventEscalateToCancel:
		return s.WithDate(MarkerCancelled, ev.Today).WithFlag(FlagNoReplyCancelled)
	case EventManualCancel:
		if _, ok := s.Date(MarkerCancelled); ok {
			return s
		}
		return s.WithDate(MarkerCancelled, ev.Today)
	case EventCarrierReturnConfirmed:
		return s.WithFlag(FlagDeleted)
	default:
		return s
	}
}
