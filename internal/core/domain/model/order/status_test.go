package order_test

import (
	"testing"

	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatus_String(t *testing.T) {
	tests := []struct {
		status order.Status
		want   string
	}{
		{order.Pending, "pending"},
		{order.OrderReady, "order_ready"},
		{order.CustomerConfirmed, "customer_confirmed"},
		{order.ReadyToShip, "ready_to_ship"},
		{order.OnHold, "on_hold"},
		{order.Shipped, "shipped"},
		{order.Fulfilled, "fulfilled"},
		{order.Cancelled, "cancelled"},
		{order.Unknown, "unknown"},
		{order.Status(99), "unknown"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.status.String())
		})
	}
}

func TestStatus_Validate(t *testing.T) {
	require.NoError(t, order.Pending.Validate())
	require.NoError(t, order.Cancelled.Validate())

	err := order.Unknown.Validate()
	require.ErrorIs(t, err, errs.ErrValueIsInvalid)
	assert.Contains(t, err.Error(), "0 is not a valid status")

	require.Error(t, order.Status(42).Validate())
}

func TestStatus_Label(t *testing.T) {
	assert.Empty(t, order.Pending.Label())
	assert.Empty(t, order.Unknown.Label())
	assert.Equal(t, "on_hold", order.OnHold.Label())
}

func TestStatusFromLabel(t *testing.T) {
	s, ok := order.StatusFromLabel("ready_to_ship")
	require.True(t, ok)
	assert.Equal(t, order.ReadyToShip, s)

	_, ok = order.StatusFromLabel("pending")
	assert.False(t, ok, "pending is never written as a label")

	_, ok = order.StatusFromLabel("priority")
	assert.False(t, ok)
}

func TestParseStatus(t *testing.T) {
	s, err := order.ParseStatus("pending")
	require.NoError(t, err)
	assert.Equal(t, order.Pending, s)

	_, err = order.ParseStatus("shipping")
	require.ErrorIs(t, err, errs.ErrValueIsInvalid)
}

func TestStatus_IsConfirmed(t *testing.T) {
	confirmed := []order.Status{order.CustomerConfirmed, order.ReadyToShip, order.Shipped, order.Fulfilled}
	unconfirmed := []order.Status{order.Pending, order.OrderReady, order.OnHold, order.Cancelled}

	for _, s := range confirmed {
		assert.True(t, s.IsConfirmed(), s.String())
	}
	for _, s := range unconfirmed {
		assert.False(t, s.IsConfirmed(), s.String())
	}
}

func TestStatus_Markers(t *testing.T) {
	assert.Empty(t, order.Pending.Markers())
	assert.Equal(t, []order.DateMarker{order.MarkerOrderReady}, order.CustomerConfirmed.Markers())
	assert.Equal(t, []order.DateMarker{order.MarkerOrderReady, order.MarkerOnHold}, order.OnHold.Markers())
	assert.Equal(t,
		[]order.DateMarker{order.MarkerOrderReady, order.MarkerShipping, order.MarkerFulfilled},
		order.Fulfilled.Markers())
	assert.Equal(t, order.DateMarkers(), order.Cancelled.Markers())
}

func TestCarrierStatus(t *testing.T) {
	assert.True(t, order.CarrierStatus("Delivered").IsDelivered())
	assert.True(t, order.CarrierStatus("  confirm   DELIVERED ").IsDelivered())
	assert.False(t, order.CarrierStatus("Out for delivery").IsDelivered())

	assert.True(t, order.CarrierStatus("Pending Pickup").IsPendingPickup())
	assert.True(t, order.CarrierStatus("").IsPendingPickup())
	assert.False(t, order.CarrierStatus("In Transit").IsPendingPickup())

	assert.True(t, order.CarrierStatus("Merchant Received Return").IsMerchantReceivedReturn())
	assert.False(t, order.CarrierStatus("Returning to merchant").IsMerchantReceivedReturn())
}
