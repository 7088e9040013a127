package order_test

import (
	"testing"
	"time"

	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewOrder(t *testing.T) {
	createdAt := time.Date(2025, time.January, 1, 10, 0, 0, 0, time.UTC)
	customer := order.Customer{Phone: "+201012345678", FirstName: "Mona"}

	t.Run("valid", func(t *testing.T) {
		o, err := order.NewOrder(5012, "#1001", customer, createdAt, readyState(day0))

		require.NoError(t, err)
		require.NoError(t, o.Validate())
		assert.Equal(t, int64(5012), o.ID())
		assert.Equal(t, "#1001", o.Number())
		assert.Equal(t, customer, o.Customer())
		assert.Equal(t, createdAt, o.CreatedAt())
		assert.Equal(t, order.OrderReady, o.Status())
	})

	t.Run("joins validation errors", func(t *testing.T) {
		o, err := order.NewOrder(0, "  ", customer, createdAt, order.NewState(order.Pending))

		require.Error(t, err)
		assert.Nil(t, o)
		require.ErrorIs(t, err, errs.ErrValueIsInvalid)
		require.ErrorIs(t, err, errs.ErrValueIsRequired)
	})

	t.Run("zero value is not constructed", func(t *testing.T) {
		var o order.Order
		require.ErrorIs(t, o.Validate(), order.ErrOrderIsNotConstructed)
	})
}

func TestOrder_Apply(t *testing.T) {
	o, err := order.NewOrder(1, "#1", order.Customer{}, time.Now(), readyState(day0))
	require.NoError(t, err)

	_, err = o.Apply(order.EscalateToHold(day1, 2))
	require.Error(t, err)
	assert.Equal(t, order.OrderReady, o.Status(), "rejected events leave the order untouched")

	tr, err := o.Apply(order.EscalateToHold(day2, 2))
	require.NoError(t, err)
	assert.Equal(t, order.OnHold, o.Status())
	assert.True(t, o.State().Equal(tr.To))

	o.MarkNotified(order.OnHold)
	assert.Equal(t, "on_hold", o.State().NotifiedStatus())
}

func TestState_Immutability(t *testing.T) {
	base := order.NewState(order.Pending)
	derived := base.WithFlag("Paid").WithAttribute("Source", "Instagram")

	assert.False(t, base.HasFlag(order.FlagPaid))
	assert.True(t, derived.HasFlag(order.FlagPaid))
	v, ok := derived.Attribute("source")
	require.True(t, ok)
	assert.Equal(t, "Instagram", v)
	assert.Equal(t, []string{"paid"}, derived.Flags())
}

func TestState_Pruned(t *testing.T) {
	s := order.NewState(order.CustomerConfirmed).
		WithDate(order.MarkerOrderReady, day0).
		WithDate(order.MarkerOnHold, day2).
		WithDate(order.MarkerShipping, day4).
		Pruned()

	assert.Len(t, s.Dates(), 1)
	_, ok := s.Date(order.MarkerOrderReady)
	assert.True(t, ok)
}

func TestSameNumber(t *testing.T) {
	assert.True(t, order.SameNumber("#1001", "1001"))
	assert.True(t, order.SameNumber(" #1001", "#1001"))
	assert.False(t, order.SameNumber("#1001", "#1002"))
	assert.False(t, order.SameNumber("", "#"))
}
