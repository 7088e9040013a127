package commands_test

import (
	"testing"
	"time"

	"fulfillment/internal/core/application/usecases/commands"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func manualHandler(repo *MockOrderRepository, notifier *MockNotifier) commands.ManualTransitionCommandHandler {
	return commands.NewManualTransitionCommandHandler(
		repo, notifier, kernel.FixedCalendar(kernel.MustDate(2025, time.February, 10)), discardLogger())
}

func TestManualTransitionCommandHandler_Cancel(t *testing.T) {
	repo := &MockOrderRepository{}
	notifier := &MockNotifier{}

	repo.On("Get", mock.Anything, int64(1)).Return(newOrder(t, 1, "shipped, shipping_date:2025-02-01, priority"), nil)
	repo.On("Update", mock.Anything, withStatus(1, order.Cancelled)).Return(nil).Once()
	notifier.On("Notify", mock.Anything, mock.Anything).Once()

	cmd, err := commands.NewCancelOrderCommand(1)
	require.NoError(t, err)

	state, err := manualHandler(repo, notifier).Handle(t.Context(), cmd)

	require.NoError(t, err)
	assert.Equal(t, order.Cancelled, state.Status())
	d, ok := state.Date(order.MarkerCancelled)
	require.True(t, ok)
	assert.Equal(t, "2025-02-10", d.String())
	assert.True(t, state.HasFlag(order.FlagPriority))
}

func TestManualTransitionCommandHandler_CancelTwiceIsNoop(t *testing.T) {
	repo := &MockOrderRepository{}
	repo.On("Get", mock.Anything, int64(1)).Return(newOrder(t, 1, "cancelled, cancelled_date:2025-02-01"), nil)

	cmd, _ := commands.NewCancelOrderCommand(1)
	_, err := manualHandler(repo, &MockNotifier{}).Handle(t.Context(), cmd)

	require.NoError(t, err)
	repo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
}

func TestManualTransitionCommandHandler_ReadyToShip(t *testing.T) {
	repo := &MockOrderRepository{}
	notifier := &MockNotifier{}

	repo.On("Get", mock.Anything, int64(2)).Return(newOrder(t, 2, "customer_confirmed, order_ready_date:2025-02-01"), nil)
	repo.On("Update", mock.Anything, mock.MatchedBy(func(o *order.Order) bool {
		return o.Status() == order.ReadyToShip && o.State().TrackingToken() == "BST-77"
	})).Return(nil).Once()
	notifier.On("Notify", mock.Anything, mock.Anything).Once()

	cmd, err := commands.NewMarkReadyToShipCommand(2, " BST-77 ")
	require.NoError(t, err)
	assert.Equal(t, order.EventMarkReadyToShip, cmd.Event())

	state, err := manualHandler(repo, notifier).Handle(t.Context(), cmd)

	require.NoError(t, err)
	assert.Equal(t, order.ReadyToShip, state.Status())
}

func TestManualTransitionCommandHandler_Rejected(t *testing.T) {
	repo := &MockOrderRepository{}
	repo.On("Get", mock.Anything, int64(3)).Return(newOrder(t, 3, "order_ready, order_ready_date:2025-02-01"), nil)

	cmd, _ := commands.NewMarkReadyToShipCommand(3, "")
	state, err := manualHandler(repo, &MockNotifier{}).Handle(t.Context(), cmd)

	require.ErrorIs(t, err, errs.ErrTransitionRejected)
	assert.Equal(t, order.OrderReady, state.Status())
}

func TestManualTransitionCommand_Validation(t *testing.T) {
	_, err := commands.NewCancelOrderCommand(-1)
	require.ErrorIs(t, err, errs.ErrValueIsInvalid)

	var zero commands.ManualTransitionCommand
	require.ErrorIs(t, zero.Validate(), commands.ErrManualTransitionCommandIsNotConstructed)
}
