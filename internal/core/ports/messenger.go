package ports

import "context"

// TemplateMessage is an outbound pre-approved template message.
type TemplateMessage struct {
	Phone    string
	Template string
	Language string
	Params   []string
}

// Messenger sends outbound messages on the customer messaging channel.
type Messenger interface {
	// SendTemplate returns the channel's id of the sent message. Replies that
	// reference the message carry this id as their context.
	SendTemplate(ctx context.Context, msg TemplateMessage) (string, error)
}
