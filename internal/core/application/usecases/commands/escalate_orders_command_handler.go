package commands

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/services"
	"fulfillment/internal/core/ports"
	"fulfillment/internal/pkg/errs"
)

// EscalateOrdersCommandHandler moves unconfirmed orders along
// order_ready → on_hold → cancelled once their deadlines pass.
//
// For each candidate it re-reads the order, asks the EscalationPolicy whether an
// escalation is due and applies it through the state machine. Missing stamps,
// confirmed orders and orders already at the target status are skips.
//
// Example:
//
//	handler := NewEscalateOrdersCommandHandler(orders, notifier, policy, calendar, 4, logger)
//	result, err := handler.Handle(ctx, NewEscalateOrdersCommand())
//	if err != nil {
//	    return fmt.Errorf("escalation pass failed: %w", err)
//	}
//	logger.Info("escalation pass", "successful", result.Successful, "failed", result.Failed)
type EscalateOrdersCommandHandler struct {
	tx          transitioner
	policy      services.EscalationPolicy
	concurrency int
}

func NewEscalateOrdersCommandHandler(
	orders ports.OrderRepository,
	notifier ports.Notifier,
	policy services.EscalationPolicy,
	calendar kernel.Calendar,
	concurrency int,
	logger *slog.Logger,
) EscalateOrdersCommandHandler {
	return EscalateOrdersCommandHandler{
		tx: transitioner{
			orders:   orders,
			notifier: notifier,
			calendar: calendar,
			logger:   logger.With("component", "escalation"),
		},
		policy:      policy,
		concurrency: concurrency,
	}
}

// Handle runs one escalation pass. The returned error is job-level (the candidate
// listing failed); per-order failures are reported in the result.
func (h EscalateOrdersCommandHandler) Handle(ctx context.Context, cmd EscalateOrdersCommand) (BatchResult, error) {
	if err := cmd.Validate(); err != nil {
		return BatchResult{}, err
	}

	candidates, err := h.tx.orders.List(ctx, ports.OrderFilter{Statuses: h.policy.Statuses()})
	if err != nil {
		return BatchResult{}, fmt.Errorf("listing escalation candidates: %w", err)
	}

	today := h.tx.calendar.Today()
	b := newBatch(h.concurrency)
	for _, c := range candidates {
		id := c.ID()
		b.Go(ctx, c.Number(), func(ctx context.Context) (outcome, error) {
			return h.escalate(ctx, id, today)
		})
	}

	result := b.Wait()
	h.tx.logger.InfoContext(ctx, "escalation pass finished",
		"candidates", len(candidates),
		"successful", result.Successful,
		"skipped", result.Skipped,
		"failed", result.Failed,
	)
	return result, nil
}

func (h EscalateOrdersCommandHandler) escalate(ctx context.Context, id int64, today kernel.Date) (outcome, error) {
	o, err := h.tx.refresh(ctx, id)
	if errors.Is(err, errs.ErrObjectNotFound) {
		h.tx.logger.WarnContext(ctx, "order vanished before escalation", "order_id", id)
		return outcomeSkipped, nil
	}
	if err != nil {
		return outcomeSkipped, err
	}

	ev, due := h.policy.Next(o.State(), today)
	if !due {
		return outcomeSkipped, nil
	}

	tr, err := o.Apply(ev)
	if errors.Is(err, errs.ErrTransitionRejected) {
		h.tx.logger.DebugContext(ctx, "escalation rejected", "order_id", id, "error", err)
		return outcomeSkipped, nil
	}
	if err != nil {
		return outcomeSkipped, err
	}
	if !tr.Changed {
		return outcomeSkipped, nil
	}

	if err = h.tx.commit(ctx, o, tr, ports.ActorEscalation); err != nil {
		return outcomeSkipped, err
	}
	return outcomeChanged, nil
}
