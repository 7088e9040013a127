// Package errs provides standardized error types for the fulfillment service.
// It implements a consistent pattern for error creation, formatting, and unwrapping
// that is used throughout the application.
//
// Validation errors:
//   - ValueIsRequiredError: For when a required value is missing
//   - ValueIsInvalidError: For when a value is invalid
//   - ValueIsOutOfRangeError: For when a value falls outside its allowed bounds
//
// Processing errors:
//   - ObjectNotFoundError: An order (or other object) vanished from its store
//   - TransientAdapterError: Network or 5xx failure of an external adapter
//   - InvalidLabelStateError: The status vocabulary of a label set was violated (warning only)
//   - CorrelationMissError: An inbound reply could not be matched to a waiting order
//   - TransitionRejectedError: The order state machine refused an event
//
// Each error type follows a consistent pattern:
//   - A sentinel error variable (e.g., ErrValueIsRequired)
//   - A struct type with fields for error details
//   - Constructor functions with and without cause
//   - Error() method for formatting the error message
//   - Unwrap() method returning the sentinel, so errors.Is works on every type
//
// Per-order processing errors are collected by the batch handlers and never abort
// sibling orders; callers classify them with errors.Is against the sentinels.
package errs
