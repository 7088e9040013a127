package order

import (
	"fmt"

	"fulfillment/internal/pkg/errs"
)

// Status represents the lifecycle state of an order as encoded in its labels.
//
// State transitions:
//
//	Pending ──> OrderReady ──> CustomerConfirmed ──> ReadyToShip ──> Shipped ──> Fulfilled
//	                │                 ▲
//	                └──> OnHold ──────┘
//	                       │
//	                       └──> Cancelled   (also reachable from any status by ManualCancel)
//
// Pending has no label of its own: it is the absence of every status flag.
type Status int

const (
	// Unknown represents an invalid or undefined status.
	// This value (0) helps catch uninitialized Status values.
	Unknown Status = iota

	// Pending is the implicit status of an order without any status label.
	Pending

	// OrderReady means the order is made and the customer was asked to confirm.
	OrderReady

	// CustomerConfirmed means the customer replied to the confirmation request.
	CustomerConfirmed

	// ReadyToShip means a carrier order exists and the parcel awaits pickup.
	ReadyToShip

	// OnHold means the customer did not confirm within the escalation threshold.
	OnHold

	// Shipped means the carrier picked the parcel up.
	Shipped

	// Fulfilled means the carrier reported the parcel delivered.
	Fulfilled

	// Cancelled is near-terminal; only the deleted flag may follow it.
	Cancelled
)

func getStatusStrings() map[Status]string {
	return map[Status]string{
		Unknown:           "unknown",
		Pending:           "pending",
		OrderReady:        "order_ready",
		CustomerConfirmed: "customer_confirmed",
		ReadyToShip:       "ready_to_ship",
		OnHold:            "on_hold",
		Shipped:           "shipped",
		Fulfilled:         "fulfilled",
		Cancelled:         "cancelled",
	}
}

// getLabelledStatuses returns the closed status vocabulary: every status that is
// written as a flag label. Pending and Unknown are not part of it.
func getLabelledStatuses() map[string]Status {
	return map[string]Status{
		"order_ready":        OrderReady,
		"customer_confirmed": CustomerConfirmed,
		"ready_to_ship":      ReadyToShip,
		"on_hold":            OnHold,
		"shipped":            Shipped,
		"fulfilled":          Fulfilled,
		"cancelled":          Cancelled,
	}
}

// StatusFromLabel maps a lowercased flag label to its status. It reports false for
// labels outside the status vocabulary, including "pending".
func StatusFromLabel(label string) (Status, bool) {
	s, ok := getLabelledStatuses()[label]
	return s, ok
}

// ParseStatus accepts every valid status name, including "pending".
func ParseStatus(name string) (Status, error) {
	if name == Pending.String() {
		return Pending, nil
	}
	if s, ok := StatusFromLabel(name); ok {
		return s, nil
	}
	return Unknown, errs.NewValueIsInvalidErrorWithCause("status is invalid", fmt.Errorf("%q is not a known status", name))
}

// Validate checks if the Status value is valid.
//
// Unknown (0) and any value outside the enumeration are invalid.
func (s Status) Validate() error {
	if s <= Unknown || s > Cancelled {
		return errs.NewValueIsInvalidErrorWithCause("status is invalid", fmt.Errorf("%d is not a valid status", s))
	}
	return nil
}

// String returns the label form of the status ("order_ready", "pending", ...).
//
// This method implements the fmt.Stringer interface and is safe
// to call on any Status value, including invalid ones.
func (s Status) String() string {
	if str, ok := getStatusStrings()[s]; ok {
		return str
	}
	return "unknown"
}

// Label returns the flag label that encodes the status, or "" for Pending.
func (s Status) Label() string {
	if s == Pending || s.Validate() != nil {
		return ""
	}
	return s.String()
}

// IsConfirmed reports whether the customer confirmation already happened for an
// order in this status. Escalation never applies to confirmed orders.
func (s Status) IsConfirmed() bool {
	switch s {
	case CustomerConfirmed, ReadyToShip, Shipped, Fulfilled:
		return true
	default:
		return false
	}
}

// Markers returns the date markers an order in this status keeps: the stamps of
// the current stage and every stage before it. Anything else is stale.
func (s Status) Markers() []DateMarker {
	switch s {
	case OrderReady, CustomerConfirmed, ReadyToShip:
		return []DateMarker{MarkerOrderReady}
	case OnHold:
		return []DateMarker{MarkerOrderReady, MarkerOnHold}
	case Shipped:
		return []DateMarker{MarkerOrderReady, MarkerShipping}
	case Fulfilled:
		return []DateMarker{MarkerOrderReady, MarkerShipping, MarkerFulfilled}
	case Cancelled:
		return DateMarkers()
	default:
		return nil
	}
}

// SinceMarker returns the marker stamped when the order entered this status.
func (s Status) SinceMarker() (DateMarker, bool) {
	switch s {
	case OrderReady, CustomerConfirmed, ReadyToShip:
		return MarkerOrderReady, true
	case OnHold:
		return MarkerOnHold, true
	case Shipped:
		return MarkerShipping, true
	case Fulfilled:
		return MarkerFulfilled, true
	case Cancelled:
		return MarkerCancelled, true
	default:
		return "", false
	}
}
