package commands

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/core/ports"
	"fulfillment/internal/pkg/errs"
)

// ErrReplyIgnored is returned for reply types that never confirm an order.
var ErrReplyIgnored = errors.New("reply type ignored")

// Correlation strategies reported in ReplyOutcome.
const (
	StrategyContext = "context"
	StrategyPhone   = "phone"
)

// ReplyOutcome describes which order a reply was attributed to.
type ReplyOutcome struct {
	OrderID     int64
	OrderNumber string
	Strategy    string
	Confirmed   bool
}

// HandleReplyCommandHandler is the confirmation correlator. It attributes an
// inbound reply to the order waiting for it and confirms that order.
//
// Resolution order:
//  1. The reply's context reference is looked up in the pending confirmation store
//     and consumed, so one outbound message resolves at most one reply.
//  2. Otherwise the newest order_ready order of the replying phone number is used.
//
// When neither resolves an order the handler returns *errs.CorrelationMissError.
//
// Without configured confirm payloads every actionable reply confirms. With them,
// a button reply whose payload is not listed is ignored before any lookup, so it
// neither confirms nor consumes the pending mapping. Text replies carry no payload
// and always confirm.
type HandleReplyCommandHandler struct {
	tx             transitioner
	pending        ports.PendingConfirmationStore
	confirmPayload map[string]struct{}
}

func NewHandleReplyCommandHandler(
	orders ports.OrderRepository,
	pending ports.PendingConfirmationStore,
	notifier ports.Notifier,
	calendar kernel.Calendar,
	logger *slog.Logger,
) HandleReplyCommandHandler {
	return HandleReplyCommandHandler{
		tx: transitioner{
			orders:   orders,
			notifier: notifier,
			calendar: calendar,
			logger:   logger.With("component", "confirmation_correlator"),
		},
		pending: pending,
	}
}

// WithConfirmPayloads restricts confirmation to button replies carrying one of
// payloads (case-insensitive). Blank entries are ignored.
func (h HandleReplyCommandHandler) WithConfirmPayloads(payloads ...string) HandleReplyCommandHandler {
	set := make(map[string]struct{}, len(payloads))
	for _, p := range payloads {
		if p = strings.ToLower(strings.TrimSpace(p)); p != "" {
			set[p] = struct{}{}
		}
	}
	h.confirmPayload = set
	return h
}

func (h HandleReplyCommandHandler) confirms(cmd HandleReplyCommand) bool {
	if len(h.confirmPayload) == 0 || cmd.ButtonPayload() == "" {
		return true
	}
	_, ok := h.confirmPayload[strings.ToLower(cmd.ButtonPayload())]
	return ok
}

func (h HandleReplyCommandHandler) Handle(ctx context.Context, cmd HandleReplyCommand) (ReplyOutcome, error) {
	if err := cmd.Validate(); err != nil {
		return ReplyOutcome{}, err
	}
	if !cmd.Actionable() {
		return ReplyOutcome{}, ErrReplyIgnored
	}
	if !h.confirms(cmd) {
		h.tx.logger.InfoContext(ctx, "reply is not a confirmation",
			"reply_id", cmd.ReplyID(), "payload", cmd.ButtonPayload())
		return ReplyOutcome{}, ErrReplyIgnored
	}

	o, strategy, err := h.resolve(ctx, cmd)
	if err != nil {
		return ReplyOutcome{}, err
	}
	if o == nil {
		h.tx.logger.WarnContext(ctx, "reply dropped, no waiting order",
			"reply_id", cmd.ReplyID(), "from", cmd.From(), "context_id", cmd.ContextReferenceID())
		return ReplyOutcome{}, errs.NewCorrelationMissError(cmd.ReplyID(), cmd.From())
	}

	outcome := ReplyOutcome{OrderID: o.ID(), OrderNumber: o.Number(), Strategy: strategy}

	tr, err := o.Apply(order.CustomerConfirm())
	if errors.Is(err, errs.ErrTransitionRejected) {
		h.tx.logger.InfoContext(ctx, "reply for an order that cannot be confirmed",
			"order_id", o.ID(), "status", o.Status().String(), "strategy", strategy)
		return outcome, nil
	}
	if err != nil {
		return outcome, err
	}

	if err = h.tx.commit(ctx, o, tr, ports.ActorCustomer); err != nil {
		return outcome, err
	}
	outcome.Confirmed = tr.Changed
	return outcome, nil
}

// resolve returns a fresh snapshot of the order the reply belongs to, or nil.
func (h HandleReplyCommandHandler) resolve(ctx context.Context, cmd HandleReplyCommand) (*order.Order, string, error) {
	if ref := cmd.ContextReferenceID(); ref != "" {
		o, err := h.byContext(ctx, ref)
		if err != nil {
			return nil, "", err
		}
		if o != nil {
			return o, StrategyContext, nil
		}
	}

	o, err := h.byPhone(ctx, cmd.From())
	if err != nil {
		return nil, "", err
	}
	if o != nil {
		return o, StrategyPhone, nil
	}
	return nil, "", nil
}

func (h HandleReplyCommandHandler) byContext(ctx context.Context, ref string) (*order.Order, error) {
	number, err := h.pending.Consume(ctx, ref)
	if errors.Is(err, errs.ErrObjectNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("consuming pending confirmation: %w", err)
	}

	found, err := h.tx.orders.List(ctx, ports.OrderFilter{Number: number})
	if err != nil {
		return nil, err
	}
	for _, o := range found {
		if order.SameNumber(o.Number(), number) {
			return h.fresh(ctx, o.ID())
		}
	}
	h.tx.logger.WarnContext(ctx, "pending confirmation points to a missing order", "order_number", number)
	return nil, nil
}

func (h HandleReplyCommandHandler) byPhone(ctx context.Context, phone string) (*order.Order, error) {
	found, err := h.tx.orders.List(ctx, ports.OrderFilter{
		Phone:    phone,
		Statuses: []order.Status{order.OrderReady},
	})
	if err != nil {
		return nil, err
	}

	var newest *order.Order
	for _, o := range found {
		if o.Status() != order.OrderReady || !kernel.SamePhone(o.Customer().Phone, phone) {
			continue
		}
		if newest == nil || o.CreatedAt().After(newest.CreatedAt()) {
			newest = o
		}
	}
	if newest == nil {
		return nil, nil
	}
	return h.fresh(ctx, newest.ID())
}

func (h HandleReplyCommandHandler) fresh(ctx context.Context, id int64) (*order.Order, error) {
	o, err := h.tx.refresh(ctx, id)
	if errors.Is(err, errs.ErrObjectNotFound) {
		return nil, nil
	}
	return o, err
}
