package services

import (
	"strings"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/core/domain/model/parcel"
)

// MatchKind tells how an order was paired with a parcel.
type MatchKind int

const (
	NoMatch MatchKind = iota
	MatchedByToken
	MatchedByContact
)

func (k MatchKind) String() string {
	switch k {
	case MatchedByToken:
		return "token"
	case MatchedByContact:
		return "contact"
	default:
		return "none"
	}
}

// ParcelMatcher pairs local orders with carrier parcels.
//
// Two strategies exist and are kept apart:
//   - MatchByTrackingToken: exact equality on the shipping_barcode label. Primary.
//   - MatchByContact: normalized phone plus a case-insensitive first-name substring
//     of the parcel's customer name. Legacy fallback for shipped and ready_to_ship
//     orders without a token. It can produce false positives.
//
// Example usage:
//
//	m := services.NewParcelMatcher(collection)
//	p, kind := m.Match(o)
//	if kind == services.NoMatch {
//	    return
//	}
type ParcelMatcher struct {
	parcels *parcel.Collection
}

func NewParcelMatcher(parcels *parcel.Collection) ParcelMatcher {
	if parcels == nil {
		parcels = parcel.NewCollection()
	}
	return ParcelMatcher{parcels: parcels}
}

// Match applies the exact strategy to orders carrying a token and the contact
// fallback only to shipped or ready_to_ship orders without one.
func (m ParcelMatcher) Match(o *order.Order) (parcel.Parcel, MatchKind) {
	state := o.State()
	if state.HasTrackingToken() {
		if p, ok := m.MatchByTrackingToken(state.TrackingToken()); ok {
			return p, MatchedByToken
		}
		return parcel.Parcel{}, NoMatch
	}

	switch state.Status() {
	case order.Shipped, order.ReadyToShip:
		if p, ok := m.MatchByContact(o.Customer()); ok {
			return p, MatchedByContact
		}
	}
	return parcel.Parcel{}, NoMatch
}

// MatchByTrackingToken returns the parcel whose token equals token exactly.
func (m ParcelMatcher) MatchByTrackingToken(token string) (parcel.Parcel, bool) {
	return m.parcels.ByToken(token)
}

// MatchByContact returns the first parcel, in feed order, whose phone normalizes to
// the customer's and whose customer name contains the customer's first name.
func (m ParcelMatcher) MatchByContact(c order.Customer) (parcel.Parcel, bool) {
	firstName := strings.ToLower(strings.TrimSpace(c.FirstName))
	if firstName == "" || kernel.NormalizePhone(c.Phone) == "" {
		return parcel.Parcel{}, false
	}

	for _, p := range m.parcels.All() {
		if !kernel.SamePhone(p.Phone, c.Phone) {
			continue
		}
		if strings.Contains(strings.ToLower(p.CustomerName), firstName) {
			return p, true
		}
	}
	return parcel.Parcel{}, false
}
