package commands

import (
	"errors"

	"fulfillment/internal/pkg/guard"
)

var ErrReconcileCarrierCommandIsNotConstructed = errors.New(
	"ReconcileCarrierCommand must be created via NewReconcileCarrierCommand constructor",
)

// ReconcileCarrierCommand triggers one carrier reconciliation cycle: a single fetch
// of the parcel feed followed by the shipped, ready_to_ship and cancelled passes.
type ReconcileCarrierCommand struct {
	guard guard.ConstructorGuard
}

func NewReconcileCarrierCommand() ReconcileCarrierCommand {
	return ReconcileCarrierCommand{
		guard: guard.NewConstructorGuard(),
	}
}

// Validate ensures the command was created through the constructor.
func (c ReconcileCarrierCommand) Validate() error {
	return c.guard.Validate(ErrReconcileCarrierCommandIsNotConstructed)
}
