package services

import (
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/core/domain/model/parcel"
)

// CarrierPass is one sweep of the reconciliation job over a single local status.
type CarrierPass int

const (
	// PassShipped confirms deliveries of shipped orders.
	PassShipped CarrierPass = iota + 1
	// PassReadyToShip detects pickups of ready_to_ship orders.
	PassReadyToShip
	// PassCancelled flags confirmed returns of cancelled orders.
	PassCancelled
)

// CarrierPasses returns the passes in execution order.
func CarrierPasses() []CarrierPass {
	return []CarrierPass{PassShipped, PassReadyToShip, PassCancelled}
}

func (p CarrierPass) String() string {
	switch p {
	case PassShipped:
		return "shipped"
	case PassReadyToShip:
		return "ready_to_ship"
	case PassCancelled:
		return "cancelled"
	default:
		return "unknown"
	}
}

// Status returns the local status the pass sweeps.
func (p CarrierPass) Status() order.Status {
	switch p {
	case PassShipped:
		return order.Shipped
	case PassReadyToShip:
		return order.ReadyToShip
	case PassCancelled:
		return order.Cancelled
	default:
		return order.Unknown
	}
}

// RequiresToken reports whether orders without a tracking token are skipped.
func (p CarrierPass) RequiresToken() bool {
	return p != PassShipped
}

// CarrierEvent returns the event a matched parcel asks for, or false when the
// parcel's status gives the pass nothing to do.
func CarrierEvent(pass CarrierPass, p parcel.Parcel, today kernel.Date) (order.Event, bool) {
	switch pass {
	case PassShipped:
		if p.Status.IsDelivered() {
			return order.CarrierDelivered(today, p.Status), true
		}
	case PassReadyToShip:
		if !p.Status.IsPendingPickup() {
			return order.CarrierPickedUp(today, p.Status), true
		}
	case PassCancelled:
		if p.Status.IsMerchantReceivedReturn() {
			return order.CarrierReturnConfirmed(p.Status), true
		}
	}
	return order.Event{}, false
}

// ReconciliationWindow returns the parcel date range to fetch: from the oldest
// relevant stamp, widened to at least minDays before today, up to today.
func ReconciliationWindow(today kernel.Date, minDays int, stamps ...kernel.Date) (from, to kernel.Date) {
	from = today.AddDays(-minDays)
	for _, s := range stamps {
		if !s.IsZero() && s.Before(from) {
			from = s
		}
	}
	return from, today
}
