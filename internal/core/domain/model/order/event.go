package order

import "fulfillment/internal/core/domain/model/kernel"

// DefaultEscalationDays is the number of days an order may stay in order_ready
// (and then in on_hold) without a customer reply.
const DefaultEscalationDays = 2

// EventKind names an intended transition.
type EventKind int

const (
	EventUnknown EventKind = iota
	EventRequestReady
	EventCustomerConfirm
	EventMarkReadyToShip
	EventCarrierPickedUp
	EventCarrierDelivered
	EventEscalateToHold
	EventEscalateToCancel
	EventManualCancel
	EventCarrierReturnConfirmed
)

func getEventNames() map[EventKind]string {
	return map[EventKind]string{
		EventRequestReady:           "request_ready",
		EventCustomerConfirm:        "customer_confirm",
		EventMarkReadyToShip:        "mark_ready_to_ship",
		EventCarrierPickedUp:        "carrier_picked_up",
		EventCarrierDelivered:       "carrier_delivered",
		EventEscalateToHold:         "escalate_to_hold",
		EventEscalateToCancel:       "escalate_to_cancel",
		EventManualCancel:           "manual_cancel",
		EventCarrierReturnConfirmed: "carrier_return_confirmed",
	}
}

func (k EventKind) String() string {
	if name, ok := getEventNames()[k]; ok {
		return name
	}
	return "unknown"
}

// Event is an intended transition plus the facts its guard and effect need.
// Build events with the constructors below.
type Event struct {
	Kind          EventKind
	Today         kernel.Date
	TrackingToken string
	CarrierStatus CarrierStatus
	Threshold     int
}

func RequestReady(today kernel.Date) Event {
	return Event{Kind: EventRequestReady, Today: today}
}

func CustomerConfirm() Event {
	return Event{Kind: EventCustomerConfirm}
}

// MarkReadyToShip records that the carrier order was created. The tracking token
// is optional; an empty token keeps the one already on the order.
func MarkReadyToShip(trackingToken string) Event {
	return Event{Kind: EventMarkReadyToShip, TrackingToken: trackingToken}
}

func CarrierPickedUp(today kernel.Date, status CarrierStatus) Event {
	return Event{Kind: EventCarrierPickedUp, Today: today, CarrierStatus: status}
}

func CarrierDelivered(today kernel.Date, status CarrierStatus) Event {
	return Event{Kind: EventCarrierDelivered, Today: today, CarrierStatus: status}
}

// EscalateToHold applies once at least thresholdDays passed since order_ready_date.
// A non-positive threshold means DefaultEscalationDays.
func EscalateToHold(today kernel.Date, thresholdDays int) Event {
	return Event{Kind: EventEscalateToHold, Today: today, Threshold: thresholdDays}
}

// EscalateToCancel applies once at least thresholdDays passed since moved_to_on_hold.
func EscalateToCancel(today kernel.Date, thresholdDays int) Event {
	return Event{Kind: EventEscalateToCancel, Today: today, Threshold: thresholdDays}
}

func ManualCancel(today kernel.Date) Event {
	return Event{Kind: EventManualCancel, Today: today}
}

func CarrierReturnConfirmed(status CarrierStatus) Event {
	return Event{Kind: EventCarrierReturnConfirmed, CarrierStatus: status}
}

func (e Event) threshold() int {
	if e.Threshold <= 0 {
		return DefaultEscalationDays
	}
	return e.Threshold
}

// stamps reports whether the effect of the event writes a date marker.
func (e Event) stamps() bool {
	switch e.Kind {
	case EventRequestReady, EventCarrierPickedUp, EventCarrierDelivered,
		EventEscalateToHold, EventEscalateToCancel, EventManualCancel:
		return true
	default:
		return false
	}
}
