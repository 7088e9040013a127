package commands

import (
	"errors"
	"strings"

	"fulfillment/internal/pkg/errs"
	"fulfillment/internal/pkg/guard"
)

var ErrHandleReplyCommandIsNotConstructed = errors.New(
	"HandleReplyCommand must be created via NewHandleReplyCommand constructor",
)

// Reply types the correlator acts on. Anything else (reactions, media, status
// callbacks) is ignored.
const (
	ReplyTypeButton      = "button"
	ReplyTypeInteractive = "interactive"
	ReplyTypeText        = "text"
)

// HandleReplyCommand carries one inbound reply from the messaging channel.
type HandleReplyCommand struct {
	replyID            string
	from               string
	replyType          string
	buttonPayload      string
	contextReferenceID string

	guard guard.ConstructorGuard
}

// NewHandleReplyCommand validates that the reply has an id and a sender.
// buttonPayload and contextReferenceID are optional.
func NewHandleReplyCommand(
	replyID, from, replyType, buttonPayload, contextReferenceID string,
) (HandleReplyCommand, error) {
	cmd := HandleReplyCommand{
		replyType:          strings.ToLower(strings.TrimSpace(replyType)),
		buttonPayload:      strings.TrimSpace(buttonPayload),
		contextReferenceID: strings.TrimSpace(contextReferenceID),
		guard:              guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		cmd.setReplyID(replyID),
		cmd.setFrom(from),
	); err != nil {
		return HandleReplyCommand{}, err
	}
	return cmd, nil
}

// Validate ensures the command was created through the constructor.
func (c HandleReplyCommand) Validate() error {
	return c.guard.Validate(ErrHandleReplyCommandIsNotConstructed)
}

func (c HandleReplyCommand) ReplyID() string            { return c.replyID }
func (c HandleReplyCommand) From() string               { return c.from }
func (c HandleReplyCommand) Type() string               { return c.replyType }
func (c HandleReplyCommand) ButtonPayload() string      { return c.buttonPayload }
func (c HandleReplyCommand) ContextReferenceID() string { return c.contextReferenceID }

// Actionable reports whether the reply type can confirm an order.
func (c HandleReplyCommand) Actionable() bool {
	switch c.replyType {
	case ReplyTypeButton, ReplyTypeInteractive, ReplyTypeText:
		return true
	default:
		return false
	}
}

func (c *HandleReplyCommand) setReplyID(id string) error {
	id = strings.TrimSpace(id)
	if id == "" {
		return errs.NewValueIsRequiredError("reply id")
	}
	c.replyID = id
	return nil
}

func (c *HandleReplyCommand) setFrom(from string) error {
	from = strings.TrimSpace(from)
	if from == "" {
		return errs.NewValueIsRequiredError("reply sender")
	}
	c.from = from
	return nil
}
