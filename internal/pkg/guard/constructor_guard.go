// Package guard provides the constructor guard used by commands and queries.
package guard

import "errors"

// ErrDefaultConstructorGuard is returned by Validate when no specific error is supplied.
var ErrDefaultConstructorGuard = errors.New("object must be created via its constructor")

// ConstructorGuard marks a value as built by its constructor. A zero-value guard
// fails validation, which catches commands assembled as struct literals that
// skipped their constructor checks.
//
// Example usage:
//
//	type EscalateOrdersCommand struct {
//	    guard guard.ConstructorGuard
//	}
//
//	func (c EscalateOrdersCommand) Validate() error {
//	    return c.guard.Validate(ErrEscalateOrdersCommandIsNotConstructed)
//	}
type ConstructorGuard struct {
	isConstructed bool
}

// NewConstructorGuard returns a guard that passes validation.
func NewConstructorGuard() ConstructorGuard {
	return ConstructorGuard{isConstructed: true}
}

// Validate returns validationError (or ErrDefaultConstructorGuard when it is nil)
// if the guard is a zero value.
func (g ConstructorGuard) Validate(validationError error) error {
	if g.isConstructed {
		return nil
	}
	if validationError == nil {
		return ErrDefaultConstructorGuard
	}
	return validationError
}
