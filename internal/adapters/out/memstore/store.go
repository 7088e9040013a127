// Package memstore is an in-process pending confirmation store for single-instance
// deployments. Mappings are lost on restart; the phone fallback of the correlator
// still resolves replies afterwards.
package memstore

import (
	"context"
	"strings"
	"sync"
	"time"

	"fulfillment/internal/pkg/errs"
)

type entry struct {
	orderNumber string
	expiresAt   time.Time
}

// Store implements ports.PendingConfirmationStore with a mutex-guarded map.
// Expired entries are purged lazily on every Put.
type Store struct {
	mu      sync.Mutex
	entries map[string]entry
	now     func() time.Time
}

func New() *Store {
	return NewWithClock(time.Now)
}

// NewWithClock injects the time source.
func NewWithClock(now func() time.Time) *Store {
	return &Store{entries: make(map[string]entry), now: now}
}

func (s *Store) Put(_ context.Context, messageID, orderNumber string, ttl time.Duration) error {
	messageID = strings.TrimSpace(messageID)
	if messageID == "" {
		return errs.NewValueIsRequiredError("message id")
	}
	if ttl <= 0 {
		return errs.NewValueIsOutOfRangeError("ttl", ttl, "1s", "unbounded")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	for id, e := range s.entries {
		if !now.Before(e.expiresAt) {
			delete(s.entries, id)
		}
	}
	s.entries[messageID] = entry{orderNumber: orderNumber, expiresAt: now.Add(ttl)}
	return nil
}

func (s *Store) Consume(_ context.Context, messageID string) (string, error) {
	messageID = strings.TrimSpace(messageID)

	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.entries[messageID]
	if !ok {
		return "", errs.NewObjectNotFoundError("pending confirmation", messageID)
	}
	delete(s.entries, messageID)
	if !s.now().Before(e.expiresAt) {
		return "", errs.NewObjectNotFoundError("pending confirmation", messageID)
	}
	return e.orderNumber, nil
}

// Len returns the number of stored mappings, expired ones included.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}
