package ports

import (
	"context"
	"time"

	"fulfillment/internal/core/domain/model/order"
)

// OrderFilter narrows a listing. Zero fields do not filter.
type OrderFilter struct {
	// Statuses matches orders carrying any of these status labels. Pending cannot
	// be matched by label and is ignored here.
	Statuses []order.Status

	CreatedFrom time.Time
	CreatedTo   time.Time

	// Phone matches the customer phone after normalization.
	Phone string

	// Number matches the human-readable order number, with or without '#'.
	Number string
}

// OrderRepository is the boundary to the commerce platform that owns orders.
// Labels are decoded on the way in and encoded on the way out; callers only see
// order.State.
type OrderRepository interface {
	// Get fetches a fresh snapshot of one order.
	// Returns *errs.ObjectNotFoundError when the order no longer exists and
	// *errs.TransientAdapterError on network or 5xx failures.
	Get(ctx context.Context, id int64) (*order.Order, error)

	// List fetches every order matching the filter, following pagination.
	List(ctx context.Context, filter OrderFilter) ([]*order.Order, error)

	// Update overwrites the order's label list with the encoding of its state.
	Update(ctx context.Context, o *order.Order) error
}
