package order_test

import (
	"testing"
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	day0 = kernel.MustDate(2025, time.January, 1)
	day1 = day0.AddDays(1)
	day2 = day0.AddDays(2)
	day4 = day0.AddDays(4)
)

func readyState(since kernel.Date) order.State {
	return order.NewState(order.OrderReady).WithDate(order.MarkerOrderReady, since)
}

func TestApply_HappyPath(t *testing.T) {
	s := order.NewState(order.Pending).WithFlag(order.FlagPriority)

	tr, err := order.Apply(s, order.RequestReady(day0))
	require.NoError(t, err)
	assert.True(t, tr.Changed)
	assert.True(t, tr.Notifiable())
	assert.Equal(t, order.OrderReady, tr.To.Status())
	since, ok := tr.To.StatusSince()
	require.True(t, ok)
	assert.Equal(t, day0, since)

	tr, err = order.Apply(tr.To, order.CustomerConfirm())
	require.NoError(t, err)
	assert.Equal(t, order.CustomerConfirmed, tr.To.Status())

	tr, err = order.Apply(tr.To, order.MarkReadyToShip("AB1"))
	require.NoError(t, err)
	assert.Equal(t, order.ReadyToShip, tr.To.Status())
	assert.Equal(t, "AB1", tr.To.TrackingToken())

	tr, err = order.Apply(tr.To, order.CarrierPickedUp(day2, "In Transit"))
	require.NoError(t, err)
	assert.Equal(t, order.Shipped, tr.To.Status())
	shipped, _ := tr.To.Date(order.MarkerShipping)
	assert.Equal(t, day2, shipped)

	tr, err = order.Apply(tr.To, order.CarrierDelivered(day4, "Delivered"))
	require.NoError(t, err)
	assert.Equal(t, order.Fulfilled, tr.To.Status())
	assert.False(t, tr.To.HasFlag(order.FlagPriority))
	fulfilled, _ := tr.To.Date(order.MarkerFulfilled)
	assert.Equal(t, day4, fulfilled)
	orderReady, _ := tr.To.Date(order.MarkerOrderReady)
	assert.Equal(t, day0, orderReady, "history is kept")
}

func TestApply_Escalation(t *testing.T) {
	t.Run("not due on the day of the stamp", func(t *testing.T) {
		_, err := order.Apply(readyState(day0), order.EscalateToHold(day0, 2))

		require.ErrorIs(t, err, errs.ErrTransitionRejected)
		assert.Contains(t, err.Error(), "0 of 2 days elapsed")
	})

	t.Run("not due after one day", func(t *testing.T) {
		_, err := order.Apply(readyState(day0), order.EscalateToHold(day1, 2))
		require.ErrorIs(t, err, errs.ErrTransitionRejected)
	})

	t.Run("order_ready to on_hold then cancelled", func(t *testing.T) {
		tr, err := order.Apply(readyState(day0), order.EscalateToHold(day2, 2))
		require.NoError(t, err)
		assert.Equal(t, order.OnHold, tr.To.Status())
		held, _ := tr.To.Date(order.MarkerOnHold)
		assert.Equal(t, day2, held)
		kept, _ := tr.To.Date(order.MarkerOrderReady)
		assert.Equal(t, day0, kept)

		_, err = order.Apply(tr.To, order.EscalateToCancel(day2.AddDays(1), 2))
		require.ErrorIs(t, err, errs.ErrTransitionRejected)

		tr, err = order.Apply(tr.To, order.EscalateToCancel(day4, 2))
		require.NoError(t, err)
		assert.Equal(t, order.Cancelled, tr.To.Status())
		assert.True(t, tr.To.HasFlag(order.FlagNoReplyCancelled))
		cancelled, _ := tr.To.Date(order.MarkerCancelled)
		assert.Equal(t, day4, cancelled)
		assert.Len(t, tr.To.Dates(), 3)
	})

	t.Run("default threshold", func(t *testing.T) {
		tr, err := order.Apply(readyState(day0), order.EscalateToHold(day2, 0))
		require.NoError(t, err)
		assert.Equal(t, order.OnHold, tr.To.Status())
	})

	t.Run("missing stamp is rejected", func(t *testing.T) {
		_, err := order.Apply(order.NewState(order.OrderReady), order.EscalateToHold(day4, 2))
		require.ErrorIs(t, err, errs.ErrTransitionRejected)
		assert.Contains(t, err.Error(), "order_ready_date")
	})

	t.Run("confirmed order is never escalated", func(t *testing.T) {
		tr, err := order.Apply(readyState(day0), order.CustomerConfirm())
		require.NoError(t, err)

		for _, today := range []kernel.Date{day2, day4, day0.AddDays(60)} {
			_, err = order.Apply(tr.To, order.EscalateToHold(today, 2))
			require.ErrorIs(t, err, errs.ErrTransitionRejected)
			_, err = order.Apply(tr.To, order.EscalateToCancel(today, 2))
			require.ErrorIs(t, err, errs.ErrTransitionRejected)
		}
	})

	t.Run("confirming an on_hold order clears the hold marker", func(t *testing.T) {
		held := readyState(day0).WithStatus(order.OnHold).WithDate(order.MarkerOnHold, day2)

		tr, err := order.Apply(held, order.CustomerConfirm())
		require.NoError(t, err)
		_, ok := tr.To.Date(order.MarkerOnHold)
		assert.False(t, ok)
	})
}

func TestApply_CarrierGuards(t *testing.T) {
	rts := order.NewState(order.ReadyToShip).WithTrackingToken("AB1")

	for _, status := range []order.CarrierStatus{"", "Pending Pickup"} {
		_, err := order.Apply(rts, order.CarrierPickedUp(day1, status))
		require.ErrorIs(t, err, errs.ErrTransitionRejected, "status %q", status)
	}

	shipped := order.NewState(order.Shipped)
	_, err := order.Apply(shipped, order.CarrierDelivered(day1, "Out for delivery"))
	require.ErrorIs(t, err, errs.ErrTransitionRejected)

	_, err = order.Apply(order.NewState(order.Pending), order.CarrierDelivered(day1, "Delivered"))
	require.ErrorIs(t, err, errs.ErrTransitionRejected)
	assert.Equal(t, "transition rejected: carrier_delivered is not allowed from pending", err.Error())
}

func TestApply_ManualCancel(t *testing.T) {
	for s := order.Pending; s <= order.Cancelled; s++ {
		t.Run(s.String(), func(t *testing.T) {
			tr, err := order.Apply(order.NewState(s), order.ManualCancel(day1))

			require.NoError(t, err)
			assert.Equal(t, order.Cancelled, tr.To.Status())
		})
	}

	t.Run("already cancelled is a no-op", func(t *testing.T) {
		cancelled := order.NewState(order.Cancelled).WithDate(order.MarkerCancelled, day0)

		tr, err := order.Apply(cancelled, order.ManualCancel(day4))
		require.NoError(t, err)
		assert.False(t, tr.Changed)
		d, _ := tr.To.Date(order.MarkerCancelled)
		assert.Equal(t, day0, d)
	})

	t.Run("requires a date", func(t *testing.T) {
		_, err := order.Apply(order.NewState(order.Pending), order.ManualCancel(kernel.Date{}))
		require.ErrorIs(t, err, errs.ErrValueIsRequired)
	})
}

func TestApply_CarrierReturnConfirmed(t *testing.T) {
	cancelled := order.NewState(order.Cancelled).WithTrackingToken("AB1")

	tr, err := order.Apply(cancelled, order.CarrierReturnConfirmed("Merchant Received Return"))
	require.NoError(t, err)
	assert.True(t, tr.Changed)
	assert.True(t, tr.Silent)
	assert.False(t, tr.Notifiable())
	assert.True(t, tr.To.HasFlag(order.FlagDeleted))
	assert.Equal(t, order.Cancelled, tr.To.Status())

	again, err := order.Apply(tr.To, order.CarrierReturnConfirmed("Merchant Received Return"))
	require.NoError(t, err)
	assert.False(t, again.Changed, "idempotent")

	_, err = order.Apply(order.NewState(order.Cancelled), order.CarrierReturnConfirmed("Merchant Received Return"))
	require.ErrorIs(t, err, errs.ErrTransitionRejected, "needs a tracking token")

	_, err = order.Apply(cancelled, order.CarrierReturnConfirmed("Returning"))
	require.ErrorIs(t, err, errs.ErrTransitionRejected)
}

func TestApply_RejectsIllegalEvents(t *testing.T) {
	tests := []struct {
		name  string
		state order.State
		event order.Event
	}{
		{"request ready twice", readyState(day0), order.RequestReady(day1)},
		{"confirm pending", order.NewState(order.Pending), order.CustomerConfirm()},
		{"confirm twice", order.NewState(order.CustomerConfirmed), order.CustomerConfirm()},
		{"ship unconfirmed", readyState(day0), order.MarkReadyToShip("X")},
		{"pickup shipped", order.NewState(order.Shipped), order.CarrierPickedUp(day1, "In Transit")},
		{"hold on_hold", order.NewState(order.OnHold), order.EscalateToHold(day4, 2)},
		{"return on shipped", order.NewState(order.Shipped).WithTrackingToken("X"), order.CarrierReturnConfirmed("Merchant Received Return")},
		{"unknown event", order.NewState(order.Pending), order.Event{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tr, err := order.Apply(tt.state, tt.event)

			require.ErrorIs(t, err, errs.ErrTransitionRejected)
			assert.True(t, tr.To.Equal(tt.state))
		})
	}
}

func TestAvailableEvents(t *testing.T) {
	assert.ElementsMatch(t,
		[]string{"customer_confirm", "escalate_to_hold", "manual_cancel"},
		order.AvailableEvents(order.OrderReady))
}
