// Package statuschangerepo persists the status-change history of orders. Orders
// themselves live in the commerce platform; this table only records who moved an
// order from which status to which, and when.
package statuschangerepo

import (
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/core/ports"

	"github.com/google/uuid"
)

// StatusChangeDTO is one row of the status_changes table.
type StatusChangeDTO struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey"`
	OrderID     int64     `gorm:"index:idx_status_changes_order_at,priority:1;not null"`
	OrderNumber string    `gorm:"size:32"`
	Previous    string    `gorm:"size:32;not null"`
	Current     string    `gorm:"size:32;not null"`
	Actor       string    `gorm:"size:32;not null"`
	At          time.Time `gorm:"index:idx_status_changes_order_at,priority:2,sort:desc;not null"`
}

func (StatusChangeDTO) TableName() string {
	return "status_changes"
}

func fromDomain(change ports.StatusChange) StatusChangeDTO {
	return StatusChangeDTO{
		ID:          kernel.NewUUID().Bytes(),
		OrderID:     change.OrderID,
		OrderNumber: change.OrderNumber,
		Previous:    change.Previous.String(),
		Current:     change.Current.String(),
		Actor:       change.Actor,
		At:          change.At.UTC(),
	}
}

func toDomain(dto StatusChangeDTO) (ports.StatusChange, error) {
	previous, err := order.ParseStatus(dto.Previous)
	if err != nil {
		return ports.StatusChange{}, err
	}
	current, err := order.ParseStatus(dto.Current)
	if err != nil {
		return ports.StatusChange{}, err
	}
	return ports.StatusChange{
		OrderID:     dto.OrderID,
		OrderNumber: dto.OrderNumber,
		Previous:    previous,
		Current:     current,
		Actor:       dto.Actor,
		At:          dto.At.UTC(),
	}, nil
}
