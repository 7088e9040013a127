package commands

import (
	"errors"

	"fulfillment/internal/pkg/guard"
)

var ErrEscalateOrdersCommandIsNotConstructed = errors.New(
	"EscalateOrdersCommand must be created via NewEscalateOrdersCommand constructor",
)

// EscalateOrdersCommand triggers one pass of the escalation scheduler over every
// order waiting for a customer confirmation.
//
// Example:
//
//	cmd := NewEscalateOrdersCommand()
//	result, err := handler.Handle(ctx, cmd)
type EscalateOrdersCommand struct {
	guard guard.ConstructorGuard
}

func NewEscalateOrdersCommand() EscalateOrdersCommand {
	return EscalateOrdersCommand{
		guard: guard.NewConstructorGuard(),
	}
}

// Validate ensures the command was created through the constructor.
func (c EscalateOrdersCommand) Validate() error {
	return c.guard.Validate(ErrEscalateOrdersCommandIsNotConstructed)
}
