package commands

import (
	"errors"
	"fmt"
	"strings"

	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/pkg/errs"
	"fulfillment/internal/pkg/guard"
)

var ErrManualTransitionCommandIsNotConstructed = errors.New(
	"ManualTransitionCommand must be created via NewCancelOrderCommand or NewMarkReadyToShipCommand",
)

// ManualTransitionCommand is an operator-initiated event on one order.
type ManualTransitionCommand struct {
	orderID       int64
	event         order.EventKind
	trackingToken string

	guard guard.ConstructorGuard
}

// NewCancelOrderCommand cancels an order from any status.
func NewCancelOrderCommand(orderID int64) (ManualTransitionCommand, error) {
	return newManualTransitionCommand(orderID, order.EventManualCancel, "")
}

// NewMarkReadyToShipCommand records that the carrier order was created. The
// tracking token is optional.
func NewMarkReadyToShipCommand(orderID int64, trackingToken string) (ManualTransitionCommand, error) {
	return newManualTransitionCommand(orderID, order.EventMarkReadyToShip, strings.TrimSpace(trackingToken))
}

func newManualTransitionCommand(orderID int64, event order.EventKind, token string) (ManualTransitionCommand, error) {
	if orderID <= 0 {
		return ManualTransitionCommand{}, errs.NewValueIsInvalidErrorWithCause(
			"order id is invalid", fmt.Errorf("%d is not greater than 0", orderID))
	}
	return ManualTransitionCommand{
		orderID:       orderID,
		event:         event,
		trackingToken: token,
		guard:         guard.NewConstructorGuard(),
	}, nil
}

// Validate ensures the command was created through a constructor.
func (c ManualTransitionCommand) Validate() error {
	return c.guard.Validate(ErrManualTransitionCommandIsNotConstructed)
}

func (c ManualTransitionCommand) OrderID() int64         { return c.orderID }
func (c ManualTransitionCommand) Event() order.EventKind { return c.event }
func (c ManualTransitionCommand) TrackingToken() string  { return c.trackingToken }
