package queries

import (
	"context"
	"fmt"
	"time"

	"fulfillment/internal/core/domain/model/labels"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/core/ports"
)

// GetOrderStateQueryHandler reads a fresh order snapshot from the commerce platform
// and, when asked and available, its history from the status-change log.
type GetOrderStateQueryHandler struct {
	orders  ports.OrderRepository
	history ports.StatusChangeRepository
}

// NewGetOrderStateQueryHandler accepts a nil history repository when the
// status-change log is disabled; history is then always empty.
func NewGetOrderStateQueryHandler(
	orders ports.OrderRepository,
	history ports.StatusChangeRepository,
) GetOrderStateQueryHandler {
	return GetOrderStateQueryHandler{orders: orders, history: history}
}

func (h GetOrderStateQueryHandler) Handle(
	ctx context.Context,
	query GetOrderStateQuery,
) (GetOrderStateQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return GetOrderStateQueryResponse{}, err
	}

	o, err := h.orders.Get(ctx, query.OrderID())
	if err != nil {
		return GetOrderStateQueryResponse{}, err
	}

	state := o.State()
	resp := GetOrderStateQueryResponse{
		ID:              o.ID(),
		Number:          o.Number(),
		Status:          state.Status().String(),
		Tags:            labels.Tags(state),
		TrackingToken:   state.TrackingToken(),
		Dates:           make(map[string]string),
		Flags:           state.Flags(),
		AvailableEvents: order.AvailableEvents(state.Status()),
	}
	for marker, d := range state.Dates() {
		resp.Dates[string(marker)] = d.String()
	}

	if !query.WithHistory() || h.history == nil {
		return resp, nil
	}

	changes, err := h.history.ListByOrder(ctx, o.ID(), DefaultHistoryLimit)
	if err != nil {
		return resp, fmt.Errorf("reading status history: %w", err)
	}
	resp.History = make([]StatusChangeDTO, 0, len(changes))
	for _, c := range changes {
		resp.History = append(resp.History, StatusChangeDTO{
			Previous: c.Previous.String(),
			Current:  c.Current.String(),
			Actor:    c.Actor,
			At:       c.At.UTC().Format(time.RFC3339),
		})
	}
	return resp, nil
}
