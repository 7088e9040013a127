package commands

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/core/domain/model/parcel"
	"fulfillment/internal/core/domain/services"
	"fulfillment/internal/core/ports"
	"fulfillment/internal/pkg/errs"
)

// ErrCarrierFeedUnavailable aborts a reconciliation cycle when the parcel feed
// cannot be read in full.
var ErrCarrierFeedUnavailable = errors.New("carrier feed unavailable")

// ReconcileOptions tunes the carrier reconciliation cycle.
type ReconcileOptions struct {
	// WindowDays is the minimum look-back of the parcel fetch.
	WindowDays int
	// MaxWindowDays caps the look-back when old stamps would widen it further.
	MaxWindowDays int
	// PageSize is the carrier page size; a shorter page ends a tab.
	PageSize int
	// MaxPages stops runaway pagination per tab.
	MaxPages    int
	Concurrency int
}

// DefaultReconcileOptions returns a one-week window, 50 parcels per page.
func DefaultReconcileOptions() ReconcileOptions {
	return ReconcileOptions{
		WindowDays:    7,
		MaxWindowDays: 60,
		PageSize:      50,
		MaxPages:      200,
		Concurrency:   DefaultConcurrency,
	}
}

// ReconcileCarrierCommandHandler polls the carrier feed and advances local orders
// from what the carrier reports.
//
// One cycle:
//   - lists shipped, ready_to_ship and cancelled orders
//   - fetches every carrier tab page by page once, for the whole window
//   - runs the shipped, ready_to_ship and cancelled passes in that order
//
// A feed failure aborts the cycle; per-order failures are collected in the result.
type ReconcileCarrierCommandHandler struct {
	tx      transitioner
	carrier ports.CarrierClient
	opts    ReconcileOptions
}

func NewReconcileCarrierCommandHandler(
	orders ports.OrderRepository,
	carrier ports.CarrierClient,
	notifier ports.Notifier,
	calendar kernel.Calendar,
	opts ReconcileOptions,
	logger *slog.Logger,
) ReconcileCarrierCommandHandler {
	def := DefaultReconcileOptions()
	if opts.WindowDays <= 0 {
		opts.WindowDays = def.WindowDays
	}
	if opts.MaxWindowDays < opts.WindowDays {
		opts.MaxWindowDays = max(def.MaxWindowDays, opts.WindowDays)
	}
	if opts.PageSize <= 0 {
		opts.PageSize = def.PageSize
	}
	if opts.MaxPages <= 0 {
		opts.MaxPages = def.MaxPages
	}

	return ReconcileCarrierCommandHandler{
		tx: transitioner{
			orders:   orders,
			notifier: notifier,
			calendar: calendar,
			logger:   logger.With("component", "carrier_reconciliation"),
		},
		carrier: carrier,
		opts:    opts,
	}
}

// Handle runs one reconciliation cycle.
func (h ReconcileCarrierCommandHandler) Handle(ctx context.Context, cmd ReconcileCarrierCommand) (BatchResult, error) {
	if err := cmd.Validate(); err != nil {
		return BatchResult{}, err
	}

	passes := services.CarrierPasses()
	statuses := make([]order.Status, 0, len(passes))
	for _, p := range passes {
		statuses = append(statuses, p.Status())
	}

	listed, err := h.tx.orders.List(ctx, ports.OrderFilter{Statuses: statuses})
	if err != nil {
		return BatchResult{}, fmt.Errorf("listing reconciliation candidates: %w", err)
	}

	candidates := h.partition(listed)
	total := 0
	for _, cs := range candidates {
		total += len(cs)
	}
	if total == 0 {
		h.tx.logger.InfoContext(ctx, "no orders to reconcile")
		return BatchResult{Errors: []string{}}, nil
	}

	today := h.tx.calendar.Today()
	from, to := h.window(today, candidates)

	parcels, err := h.fetchParcels(ctx, from, to)
	if err != nil {
		return BatchResult{}, err
	}
	h.tx.logger.InfoContext(ctx, "carrier feed fetched",
		"from", from.String(), "to", to.String(),
		"parcels", parcels.Len(), "untracked", parcels.Untracked())

	matcher := services.NewParcelMatcher(parcels)
	result := BatchResult{Errors: []string{}}
	for _, pass := range passes {
		pr := h.runPass(ctx, pass, candidates[pass], matcher, today)
		h.tx.logger.InfoContext(ctx, "reconciliation pass finished",
			"pass", pass.String(),
			"candidates", len(candidates[pass]),
			"successful", pr.Successful,
			"skipped", pr.Skipped,
			"failed", pr.Failed,
		)
		result.Merge(pr)
	}
	return result, nil
}

// partition groups listed orders by pass and drops orders a pass cannot use.
func (h ReconcileCarrierCommandHandler) partition(listed []*order.Order) map[services.CarrierPass][]*order.Order {
	out := map[services.CarrierPass][]*order.Order{}
	for _, o := range listed {
		for _, pass := range services.CarrierPasses() {
			if o.Status() != pass.Status() {
				continue
			}
			if pass.RequiresToken() && !o.State().HasTrackingToken() {
				continue
			}
			if pass == services.PassCancelled && o.State().HasFlag(order.FlagDeleted) {
				continue
			}
			out[pass] = append(out[pass], o)
		}
	}
	return out
}

func (h ReconcileCarrierCommandHandler) window(
	today kernel.Date,
	candidates map[services.CarrierPass][]*order.Order,
) (kernel.Date, kernel.Date) {
	var stamps []kernel.Date
	for _, cs := range candidates {
		for _, o := range cs {
			if since, ok := o.State().StatusSince(); ok {
				stamps = append(stamps, since)
			}
		}
	}

	from, to := services.ReconciliationWindow(today, h.opts.WindowDays, stamps...)
	if floor := today.AddDays(-h.opts.MaxWindowDays); from.Before(floor) {
		from = floor
	}
	return from, to
}

// fetchParcels reads every tab until a short page and unions the results.
func (h ReconcileCarrierCommandHandler) fetchParcels(ctx context.Context, from, to kernel.Date) (*parcel.Collection, error) {
	parcels := parcel.NewCollection()
	for _, tab := range parcel.Tabs() {
		for page := 1; ; page++ {
			if page > h.opts.MaxPages {
				h.tx.logger.WarnContext(ctx, "carrier pagination cut off", "tab", tab, "pages", h.opts.MaxPages)
				break
			}

			got, err := h.carrier.FetchParcels(ctx, ports.ParcelPageRequest{
				Tab:      tab,
				From:     from,
				To:       to,
				Page:     page,
				PageSize: h.opts.PageSize,
			})
			if err != nil {
				return nil, fmt.Errorf("%w: tab %s page %d: %w", ErrCarrierFeedUnavailable, tab, page, err)
			}

			for _, p := range got {
				parcels.Add(p)
			}
			if len(got) < h.opts.PageSize {
				break
			}
		}
	}
	return parcels, nil
}

func (h ReconcileCarrierCommandHandler) runPass(
	ctx context.Context,
	pass services.CarrierPass,
	candidates []*order.Order,
	matcher services.ParcelMatcher,
	today kernel.Date,
) BatchResult {
	b := newBatch(h.opts.Concurrency)
	for _, c := range candidates {
		id := c.ID()
		b.Go(ctx, c.Number(), func(ctx context.Context) (outcome, error) {
			return h.reconcile(ctx, pass, id, matcher, today)
		})
	}
	return b.Wait()
}

func (h ReconcileCarrierCommandHandler) reconcile(
	ctx context.Context,
	pass services.CarrierPass,
	id int64,
	matcher services.ParcelMatcher,
	today kernel.Date,
) (outcome, error) {
	o, err := h.tx.refresh(ctx, id)
	if errors.Is(err, errs.ErrObjectNotFound) {
		h.tx.logger.WarnContext(ctx, "order vanished before reconciliation", "order_id", id)
		return outcomeSkipped, nil
	}
	if err != nil {
		return outcomeSkipped, err
	}
	if o.Status() != pass.Status() {
		return outcomeSkipped, nil
	}

	p, kind := matcher.Match(o)
	if kind == services.NoMatch {
		return outcomeSkipped, nil
	}
	if kind == services.MatchedByContact {
		h.tx.logger.InfoContext(ctx, "parcel matched by contact",
			"order_id", id, "order_number", o.Number(), "tracking_token", p.TrackingToken)
	}

	ev, ok := services.CarrierEvent(pass, p, today)
	if !ok {
		return outcomeSkipped, nil
	}

	tr, err := o.Apply(ev)
	if errors.Is(err, errs.ErrTransitionRejected) {
		return outcomeSkipped, nil
	}
	if err != nil {
		return outcomeSkipped, err
	}
	if !tr.Changed {
		return outcomeSkipped, nil
	}

	if err = h.tx.commit(ctx, o, tr, ports.ActorCarrier); err != nil {
		return outcomeSkipped, err
	}
	return outcomeChanged, nil
}
