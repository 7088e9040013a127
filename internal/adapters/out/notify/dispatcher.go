package notify

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"fulfillment/internal/core/ports"
)

const (
	// DefaultBuffer is the number of status changes queued before new ones are dropped.
	DefaultBuffer = 256

	deliveryTimeout = 10 * time.Second
)

// Sink receives status changes from the Dispatcher, one at a time.
type Sink interface {
	Name() string
	Deliver(ctx context.Context, change ports.StatusChange) error
}

type envelope struct {
	ctx    context.Context
	change ports.StatusChange
}

// Dispatcher implements ports.Notifier. Notify only enqueues; a single worker
// delivers each change to every sink in registration order. When the queue is
// full the change is dropped and counted.
type Dispatcher struct {
	sinks  []Sink
	queue  chan envelope
	logger *slog.Logger

	mu      sync.RWMutex
	closed  bool
	done    chan struct{}
	dropped atomic.Int64
}

func NewDispatcher(buffer int, logger *slog.Logger, sinks ...Sink) *Dispatcher {
	if buffer < 0 {
		buffer = DefaultBuffer
	}
	d := &Dispatcher{
		sinks:  sinks,
		queue:  make(chan envelope, buffer),
		logger: logger.With("component", "notifier"),
		done:   make(chan struct{}),
	}
	go d.run()
	return d
}

// Notify never blocks.
func (d *Dispatcher) Notify(ctx context.Context, change ports.StatusChange) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	if d.closed {
		d.drop(ctx, change, "notifier closed")
		return
	}

	select {
	case d.queue <- envelope{ctx: context.WithoutCancel(ctx), change: change}:
	default:
		d.drop(ctx, change, "queue full")
	}
}

// Dropped returns how many changes were not delivered because the queue was full
// or the dispatcher was closed.
func (d *Dispatcher) Dropped() int64 {
	return d.dropped.Load()
}

// Close stops accepting changes and waits until the queued ones are delivered.
func (d *Dispatcher) Close() {
	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		<-d.done
		return
	}
	d.closed = true
	close(d.queue)
	d.mu.Unlock()

	<-d.done
}

func (d *Dispatcher) run() {
	defer close(d.done)
	for env := range d.queue {
		for _, s := range d.sinks {
			d.deliver(env, s)
		}
	}
}

func (d *Dispatcher) deliver(env envelope, s Sink) {
	ctx, cancel := context.WithTimeout(env.ctx, deliveryTimeout)
	defer cancel()

	if err := s.Deliver(ctx, env.change); err != nil {
		d.logger.WarnContext(ctx, "status change not delivered",
			"sink", s.Name(),
			"order_id", env.change.OrderID,
			"status", env.change.Current.String(),
			"error", err,
		)
	}
}

func (d *Dispatcher) drop(ctx context.Context, change ports.StatusChange, reason string) {
	d.dropped.Add(1)
	d.logger.WarnContext(ctx, "status change dropped",
		"reason", reason,
		"order_id", change.OrderID,
		"status", change.Current.String(),
	)
}
