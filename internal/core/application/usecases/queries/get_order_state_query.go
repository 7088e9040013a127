package queries

import (
	"errors"
	"fmt"

	"fulfillment/internal/pkg/errs"
	"fulfillment/internal/pkg/guard"
)

var ErrGetOrderStateQueryIsNotConstructed = errors.New(
	"GetOrderStateQuery must be created via NewGetOrderStateQuery constructor",
)

// DefaultHistoryLimit caps the status-change history returned with an order state.
const DefaultHistoryLimit = 20

// GetOrderStateQuery reads the decoded fulfillment state of one order, optionally
// with its recorded status-change history.
//
// Example:
//
//	query, err := NewGetOrderStateQuery(5012, true)
//	if err != nil {
//	    return err
//	}
//	resp, err := handler.Handle(ctx, query)
type GetOrderStateQuery struct {
	orderID     int64
	withHistory bool

	guard guard.ConstructorGuard
}

func NewGetOrderStateQuery(orderID int64, withHistory bool) (GetOrderStateQuery, error) {
	if orderID <= 0 {
		return GetOrderStateQuery{}, errs.NewValueIsInvalidErrorWithCause(
			"order id is invalid", fmt.Errorf("%d is not greater than 0", orderID))
	}
	return GetOrderStateQuery{
		orderID:     orderID,
		withHistory: withHistory,
		guard:       guard.NewConstructorGuard(),
	}, nil
}

// Validate ensures the query was created through the constructor.
func (q GetOrderStateQuery) Validate() error {
	return q.guard.Validate(ErrGetOrderStateQueryIsNotConstructed)
}

func (q GetOrderStateQuery) OrderID() int64    { return q.orderID }
func (q GetOrderStateQuery) WithHistory() bool { return q.withHistory }

// GetOrderStateQueryResponse is the read model of one order's fulfillment state.
type GetOrderStateQueryResponse struct {
	ID              int64             `json:"id"`
	Number          string            `json:"number"`
	Status          string            `json:"status"`
	Tags            string            `json:"tags"`
	TrackingToken   string            `json:"tracking_token,omitempty"`
	Dates           map[string]string `json:"dates"`
	Flags           []string          `json:"flags"`
	AvailableEvents []string          `json:"available_events"`
	History         []StatusChangeDTO `json:"history,omitempty"`
}

// StatusChangeDTO is one recorded status change.
type StatusChangeDTO struct {
	Previous string `json:"previous"`
	Current  string `json:"current"`
	Actor    string `json:"actor"`
	At       string `json:"at"`
}
