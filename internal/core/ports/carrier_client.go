package ports

import (
	"context"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/parcel"
)

// ParcelPageRequest selects one page of one carrier tab.
type ParcelPageRequest struct {
	Tab      parcel.Tab
	From     kernel.Date
	To       kernel.Date
	Page     int
	PageSize int
}

// CarrierClient reads the carrier's parcel feed. Authentication and token refresh
// are internal to the implementation.
type CarrierClient interface {
	// FetchParcels returns one page. A page shorter than PageSize is the last one.
	FetchParcels(ctx context.Context, req ParcelPageRequest) ([]parcel.Parcel, error)
}
