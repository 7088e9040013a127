package notify_test

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"fulfillment/internal/adapters/out/notify"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/core/ports"
	"fulfillment/internal/pkg/metrics"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type recordingSink struct {
	name string
	err  error

	mu      sync.Mutex
	changes []ports.StatusChange
}

func (s *recordingSink) Name() string { return s.name }

func (s *recordingSink) Deliver(_ context.Context, change ports.StatusChange) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.changes = append(s.changes, change)
	return s.err
}

func (s *recordingSink) received() []ports.StatusChange {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]ports.StatusChange(nil), s.changes...)
}

// gateSink blocks every delivery until released.
type gateSink struct {
	entered chan struct{}
	release chan struct{}
}

func (gateSink) Name() string { return "gate" }

func (s gateSink) Deliver(ctx context.Context, _ ports.StatusChange) error {
	s.entered <- struct{}{}
	select {
	case <-s.release:
	case <-ctx.Done():
	}
	return nil
}

type MockStatusChangeRepository struct{ mock.Mock }

func (m *MockStatusChangeRepository) Add(ctx context.Context, change ports.StatusChange) error {
	return m.Called(ctx, change).Error(0)
}

func (m *MockStatusChangeRepository) ListByOrder(
	ctx context.Context,
	orderID int64,
	limit int,
) ([]ports.StatusChange, error) {
	args := m.Called(ctx, orderID, limit)
	return args.Get(0).([]ports.StatusChange), args.Error(1)
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func change(id int64, to order.Status) ports.StatusChange {
	return ports.StatusChange{
		OrderID:  id,
		Previous: order.OrderReady,
		Current:  to,
		Actor:    ports.ActorEscalation,
		At:       time.Date(2025, time.January, 3, 9, 0, 0, 0, time.UTC),
	}
}

func TestDispatcher_FansOutToEverySink(t *testing.T) {
	failing := &recordingSink{name: "failing", err: errors.New("webhook 500")}
	healthy := &recordingSink{name: "healthy"}
	d := notify.NewDispatcher(8, discardLogger(), failing, healthy)

	d.Notify(t.Context(), change(1, order.OnHold))
	d.Notify(t.Context(), change(2, order.Cancelled))
	d.Close()

	assert.Len(t, failing.received(), 2)
	require.Len(t, healthy.received(), 2)
	assert.Equal(t, int64(1), healthy.received()[0].OrderID)
	assert.Equal(t, int64(2), healthy.received()[1].OrderID)
	assert.Zero(t, d.Dropped())
}

func TestDispatcher_DropsWhenQueueIsFull(t *testing.T) {
	gate := gateSink{entered: make(chan struct{}, 1), release: make(chan struct{})}
	d := notify.NewDispatcher(1, discardLogger(), gate)

	d.Notify(t.Context(), change(1, order.OnHold))
	<-gate.entered

	d.Notify(t.Context(), change(2, order.OnHold)) // queued
	d.Notify(t.Context(), change(3, order.OnHold)) // dropped
	assert.Equal(t, int64(1), d.Dropped())

	close(gate.release)
	d.Close()
}

func TestDispatcher_NotifyAfterCloseIsDropped(t *testing.T) {
	sink := &recordingSink{name: "sink"}
	d := notify.NewDispatcher(1, discardLogger(), sink)
	d.Close()
	d.Close()

	assert.NotPanics(t, func() { d.Notify(t.Context(), change(1, order.Shipped)) })
	assert.Equal(t, int64(1), d.Dropped())
	assert.Empty(t, sink.received())
}

func TestDispatcher_OutlivesCallerContext(t *testing.T) {
	sink := &recordingSink{name: "sink"}
	d := notify.NewDispatcher(4, discardLogger(), sink)

	ctx, cancel := context.WithCancel(t.Context())
	d.Notify(ctx, change(1, order.Fulfilled))
	cancel()
	d.Close()

	assert.Len(t, sink.received(), 1)
}

func TestSinks(t *testing.T) {
	t.Run("log", func(t *testing.T) {
		var buf bytes.Buffer
		sink := notify.NewLogSink(slog.New(slog.NewTextHandler(&buf, nil)))

		require.NoError(t, sink.Deliver(t.Context(), change(5, order.OnHold)))
		assert.Contains(t, buf.String(), "current=on_hold")
		assert.Contains(t, buf.String(), "actor=escalation")
	})

	t.Run("metrics", func(t *testing.T) {
		reg := prometheus.NewRegistry()
		m, err := metrics.New(reg)
		require.NoError(t, err)

		require.NoError(t, notify.NewMetricsSink(m).Deliver(t.Context(), change(5, order.OnHold)))

		count, err := testutil.GatherAndCount(reg, "fulfillment_transitions_total")
		require.NoError(t, err)
		assert.Equal(t, 1, count)
	})

	t.Run("history", func(t *testing.T) {
		repo := &MockStatusChangeRepository{}
		repo.On("Add", mock.Anything, change(5, order.OnHold)).Return(nil).Once()

		require.NoError(t, notify.NewHistorySink(repo).Deliver(t.Context(), change(5, order.OnHold)))
		repo.AssertExpectations(t)
	})
}
