// Package order provides the fulfillment view of a commerce order and the state
// machine that governs it.
//
// The package includes:
//   - Order: a snapshot of the externally owned order with its decoded label state
//   - State: the typed form of the label set (status, date markers, tracking token, flags)
//   - Status: the closed status vocabulary plus the implicit Pending status
//   - Event and Apply: the pure transition function backed by a looplab/fsm graph
//   - CarrierStatus: classification of the carrier's free-text parcel statuses
//
// Key business rules:
//   - At most one status is encoded at a time; no status label means Pending
//   - Date markers are write-once; a status only keeps the markers of its own and earlier stages
//   - Escalation (order_ready → on_hold → cancelled) never touches a confirmed order
//   - ManualCancel is legal from every status
//   - A cancelled order whose return is confirmed gets the silent deleted flag
package order
