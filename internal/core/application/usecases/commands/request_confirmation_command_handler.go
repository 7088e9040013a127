package commands

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/core/ports"
	"fulfillment/internal/pkg/errs"
)

// ConfirmationTemplate names the outbound template asking for a confirmation.
// The template receives the customer's first name and the order number.
type ConfirmationTemplate struct {
	Name     string
	Language string
	// TTL bounds how long a reply to the message can be correlated by context.
	TTL time.Duration
}

// RequestConfirmationCommandHandler applies RequestReady, sends the confirmation
// template and registers the pending confirmation for the correlator.
//
// The message is sent before the labels are written, so a failed send leaves the
// order pending and the request can simply be repeated. The pending mapping is
// stored only after order_ready is written, so a reply resolved through it always
// finds a confirmable order.
type RequestConfirmationCommandHandler struct {
	tx        transitioner
	messenger ports.Messenger
	pending   ports.PendingConfirmationStore
	template  ConfirmationTemplate
}

func NewRequestConfirmationCommandHandler(
	orders ports.OrderRepository,
	messenger ports.Messenger,
	pending ports.PendingConfirmationStore,
	notifier ports.Notifier,
	calendar kernel.Calendar,
	template ConfirmationTemplate,
	logger *slog.Logger,
) RequestConfirmationCommandHandler {
	return RequestConfirmationCommandHandler{
		tx: transitioner{
			orders:   orders,
			notifier: notifier,
			calendar: calendar,
			logger:   logger.With("component", "confirmation_request"),
		},
		messenger: messenger,
		pending:   pending,
		template:  template,
	}
}

// Handle returns the message id of the sent confirmation request.
func (h RequestConfirmationCommandHandler) Handle(ctx context.Context, cmd RequestConfirmationCommand) (string, error) {
	if err := cmd.Validate(); err != nil {
		return "", err
	}

	o, err := h.tx.refresh(ctx, cmd.OrderID())
	if err != nil {
		return "", err
	}

	tr, err := o.Apply(order.RequestReady(h.tx.calendar.Today()))
	if err != nil {
		return "", err
	}

	customer := o.Customer()
	if kernel.NormalizePhone(customer.Phone) == "" {
		return "", errs.NewValueIsRequiredError("customer phone")
	}

	messageID, err := h.messenger.SendTemplate(ctx, ports.TemplateMessage{
		Phone:    customer.Phone,
		Template: h.template.Name,
		Language: h.template.Language,
		Params:   []string{customer.FirstName, o.Number()},
	})
	if err != nil {
		return "", fmt.Errorf("sending confirmation request: %w", err)
	}

	if err = h.tx.commit(ctx, o, tr, ports.ActorOperator); err != nil {
		return messageID, err
	}

	if err = h.pending.Put(ctx, messageID, o.Number(), h.template.TTL); err != nil {
		// The phone fallback still resolves the reply.
		h.tx.logger.WarnContext(ctx, "pending confirmation not stored",
			"order_id", o.ID(), "message_id", messageID, "error", err)
	}
	return messageID, nil
}
