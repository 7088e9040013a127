package errs

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrValueIsRequired    = errors.New("value is required")
	ErrValueIsInvalid     = errors.New("value is invalid")
	ErrValueIsOutOfRange  = errors.New("value is out of range")
	ErrObjectNotFound     = errors.New("object not found")
	ErrTransientAdapter   = errors.New("transient adapter failure")
	ErrInvalidLabelState  = errors.New("invalid label state")
	ErrCorrelationMiss    = errors.New("correlation miss")
	ErrTransitionRejected = errors.New("transition rejected")
)

// sanitize keeps error messages single-line so they stay readable in structured logs.
func sanitize(v any) string {
	return strings.ReplaceAll(fmt.Sprintf("%v", v), "\n", " ")
}

func withCause(msg string, cause error) string {
	if cause == nil {
		return msg
	}
	return fmt.Sprintf("%s (cause: %v)", msg, cause)
}

// ValueIsRequiredError reports a missing mandatory value.
type ValueIsRequiredError struct {
	ParamName string
	Cause     error
}

func NewValueIsRequiredError(paramName string) *ValueIsRequiredError {
	return &ValueIsRequiredError{ParamName: paramName}
}

func NewValueIsRequiredErrorWithCause(paramName string, cause error) *ValueIsRequiredError {
	return &ValueIsRequiredError{ParamName: paramName, Cause: cause}
}

func (e *ValueIsRequiredError) Error() string {
	return withCause(fmt.Sprintf("%s: %s", ErrValueIsRequired, e.ParamName), e.Cause)
}

func (e *ValueIsRequiredError) Unwrap() error {
	return ErrValueIsRequired
}

// ValueIsInvalidError reports a value that failed validation.
type ValueIsInvalidError struct {
	ParamName string
	Cause     error
}

func NewValueIsInvalidError(paramName string) *ValueIsInvalidError {
	return &ValueIsInvalidError{ParamName: paramName}
}

func NewValueIsInvalidErrorWithCause(paramName string, cause error) *ValueIsInvalidError {
	return &ValueIsInvalidError{ParamName: paramName, Cause: cause}
}

func (e *ValueIsInvalidError) Error() string {
	return withCause(fmt.Sprintf("%s: %s", ErrValueIsInvalid, e.ParamName), e.Cause)
}

func (e *ValueIsInvalidError) Unwrap() error {
	return ErrValueIsInvalid
}

// ValueIsOutOfRangeError reports a value outside of [Min, Max].
type ValueIsOutOfRangeError struct {
	ParamName string
	Value     any
	Min       any
	Max       any
	Cause     error
}

func NewValueIsOutOfRangeError(paramName string, value, minValue, maxValue any) *ValueIsOutOfRangeError {
	return &ValueIsOutOfRangeError{ParamName: paramName, Value: value, Min: minValue, Max: maxValue}
}

func NewValueIsOutOfRangeErrorWithCause(
	paramName string,
	value, minValue, maxValue any,
	cause error,
) *ValueIsOutOfRangeError {
	return &ValueIsOutOfRangeError{ParamName: paramName, Value: value, Min: minValue, Max: maxValue, Cause: cause}
}

func (e *ValueIsOutOfRangeError) Error() string {
	return withCause(fmt.Sprintf("%s: %s is %s, min value is %s, max value is %s",
		ErrValueIsOutOfRange, sanitize(e.Value), e.ParamName, sanitize(e.Min), sanitize(e.Max)), e.Cause)
}

func (e *ValueIsOutOfRangeError) Unwrap() error {
	return ErrValueIsOutOfRange
}

// ObjectNotFoundError reports a lookup miss. Orders that vanished from the
// external store surface as this error.
type ObjectNotFoundError struct {
	ParamName string
	ID        any
	Cause     error
}

func NewObjectNotFoundError(paramName string, id any) *ObjectNotFoundError {
	return &ObjectNotFoundError{ParamName: paramName, ID: id}
}

func NewObjectNotFoundErrorWithCause(paramName string, id any, cause error) *ObjectNotFoundError {
	return &ObjectNotFoundError{ParamName: paramName, ID: id, Cause: cause}
}

func (e *ObjectNotFoundError) Error() string {
	return withCause(fmt.Sprintf("%s: %s %s", ErrObjectNotFound, e.ParamName, sanitize(e.ID)), e.Cause)
}

func (e *ObjectNotFoundError) Unwrap() error {
	return ErrObjectNotFound
}

// TransientAdapterError marks a network or 5xx failure of an external adapter.
// The affected order is skipped and picked up again on the next cycle.
type TransientAdapterError struct {
	Adapter   string
	Operation string
	Cause     error
}

func NewTransientAdapterError(adapter, operation string) *TransientAdapterError {
	return &TransientAdapterError{Adapter: adapter, Operation: operation}
}

func NewTransientAdapterErrorWithCause(adapter, operation string, cause error) *TransientAdapterError {
	return &TransientAdapterError{Adapter: adapter, Operation: operation, Cause: cause}
}

func (e *TransientAdapterError) Error() string {
	return withCause(fmt.Sprintf("%s: %s %s", ErrTransientAdapter, e.Adapter, e.Operation), e.Cause)
}

func (e *TransientAdapterError) Unwrap() error {
	return ErrTransientAdapter
}

// InvalidLabelStateError reports a label set that violates the status vocabulary.
// It is a warning: decoding still yields a usable state.
type InvalidLabelStateError struct {
	Kept    string
	Ignored []string
}

func NewInvalidLabelStateError(kept string, ignored ...string) *InvalidLabelStateError {
	return &InvalidLabelStateError{Kept: kept, Ignored: ignored}
}

func (e *InvalidLabelStateError) Error() string {
	return fmt.Sprintf("%s: multiple status labels, kept %s, ignored %s",
		ErrInvalidLabelState, e.Kept, strings.Join(e.Ignored, ","))
}

func (e *InvalidLabelStateError) Unwrap() error {
	return ErrInvalidLabelState
}

// CorrelationMissError reports an inbound reply that could not be matched to a waiting order.
type CorrelationMissError struct {
	ReplyID string
	From    string
}

func NewCorrelationMissError(replyID, from string) *CorrelationMissError {
	return &CorrelationMissError{ReplyID: replyID, From: from}
}

func (e *CorrelationMissError) Error() string {
	return fmt.Sprintf("%s: reply %s from %s", ErrCorrelationMiss, e.ReplyID, e.From)
}

func (e *CorrelationMissError) Unwrap() error {
	return ErrCorrelationMiss
}

// TransitionRejectedError reports an event that is not legal from the current status
// or whose guard did not hold.
type TransitionRejectedError struct {
	Event  string
	Status string
	Cause  error
}

func NewTransitionRejectedError(event, status string) *TransitionRejectedError {
	return &TransitionRejectedError{Event: event, Status: status}
}

func NewTransitionRejectedErrorWithCause(event, status string, cause error) *TransitionRejectedError {
	return &TransitionRejectedError{Event: event, Status: status, Cause: cause}
}

func (e *TransitionRejectedError) Error() string {
	return withCause(fmt.Sprintf("%s: %s is not allowed from %s", ErrTransitionRejected, e.Event, e.Status), e.Cause)
}

func (e *TransitionRejectedError) Unwrap() error {
	return ErrTransitionRejected
}
