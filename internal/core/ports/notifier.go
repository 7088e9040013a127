package ports

import (
	"context"
	"time"

	"fulfillment/internal/core/domain/model/order"
)

// Actors recorded on status changes.
const (
	ActorEscalation = "escalation"
	ActorCarrier    = "carrier"
	ActorCustomer   = "customer"
	ActorOperator   = "operator"
)

// StatusChange is a human-visible status transition of one order.
type StatusChange struct {
	OrderID     int64
	OrderNumber string
	Previous    order.Status
	Current     order.Status
	Actor       string
	At          time.Time
}

// Notifier is a fire-and-forget sink for status changes. Implementations must not
// block the caller and swallow their own failures.
type Notifier interface {
	Notify(ctx context.Context, change StatusChange)
}

// StatusChangeRepository stores the status-change history.
type StatusChangeRepository interface {
	Add(ctx context.Context, change StatusChange) error

	// ListByOrder returns the history of one order, newest first, at most limit rows.
	ListByOrder(ctx context.Context, orderID int64, limit int) ([]StatusChange, error)
}
