package ports

import (
	"context"
	"time"
)

// PendingConfirmationStore maps an outbound confirmation message id to the order
// number awaiting the customer's reply.
type PendingConfirmationStore interface {
	// Put registers a mapping that expires after ttl.
	Put(ctx context.Context, messageID, orderNumber string, ttl time.Duration) error

	// Consume returns and removes the mapping in one step, so a mapping resolves at
	// most one reply. A missing or expired key yields *errs.ObjectNotFoundError.
	Consume(ctx context.Context, messageID string) (string, error)
}
