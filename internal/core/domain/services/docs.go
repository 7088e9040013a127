// Package services holds the fulfillment rules that need more than one order's
// state to decide: pairing orders with carrier parcels, choosing the carrier event
// for each reconciliation pass, and the escalation deadlines.
//
// The package includes:
//   - ParcelMatcher: exact tracking-token matching plus the legacy contact fallback
//   - CarrierPass, CarrierEvent and ReconciliationWindow: reconciliation rules
//   - EscalationPolicy: hold and cancel deadlines for unconfirmed orders
package services
