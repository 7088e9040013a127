package commands

import (
	"errors"
	"fmt"

	"fulfillment/internal/pkg/errs"
	"fulfillment/internal/pkg/guard"
)

var ErrRequestConfirmationCommandIsNotConstructed = errors.New(
	"RequestConfirmationCommand must be created via NewRequestConfirmationCommand constructor",
)

// RequestConfirmationCommand marks a pending order as ready and asks the customer
// to confirm it.
type RequestConfirmationCommand struct {
	orderID int64

	guard guard.ConstructorGuard
}

func NewRequestConfirmationCommand(orderID int64) (RequestConfirmationCommand, error) {
	if orderID <= 0 {
		return RequestConfirmationCommand{}, errs.NewValueIsInvalidErrorWithCause(
			"order id is invalid", fmt.Errorf("%d is not greater than 0", orderID))
	}
	return RequestConfirmationCommand{
		orderID: orderID,
		guard:   guard.NewConstructorGuard(),
	}, nil
}

// Validate ensures the command was created through the constructor.
func (c RequestConfirmationCommand) Validate() error {
	return c.guard.Validate(ErrRequestConfirmationCommandIsNotConstructed)
}

func (c RequestConfirmationCommand) OrderID() int64 {
	return c.orderID
}
