package statuschangerepo

import (
	"context"
	"fmt"

	"fulfillment/internal/core/ports"
	"fulfillment/internal/pkg/errs"

	"gorm.io/gorm"
)

// GormStatusChangeRepository implements ports.StatusChangeRepository using GORM.
type GormStatusChangeRepository struct {
	db *gorm.DB
}

func NewGormStatusChangeRepository(db *gorm.DB) *GormStatusChangeRepository {
	return &GormStatusChangeRepository{db: db}
}

// Add appends one status change.
func (r *GormStatusChangeRepository) Add(ctx context.Context, change ports.StatusChange) error {
	if change.OrderID <= 0 {
		return errs.NewValueIsInvalidErrorWithCause(
			"order id is invalid", fmt.Errorf("%d is not greater than 0", change.OrderID))
	}
	if err := change.Current.Validate(); err != nil {
		return err
	}

	dto := fromDomain(change)
	return r.db.WithContext(ctx).Create(&dto).Error
}

// ListByOrder returns at most limit changes of one order, newest first.
func (r *GormStatusChangeRepository) ListByOrder(
	ctx context.Context,
	orderID int64,
	limit int,
) ([]ports.StatusChange, error) {
	if limit <= 0 {
		return nil, errs.NewValueIsOutOfRangeError("limit", limit, 1, "unbounded")
	}

	var dtos []StatusChangeDTO
	err := r.db.WithContext(ctx).
		Where("order_id = ?", orderID).
		Order("at DESC").
		Limit(limit).
		Find(&dtos).Error
	if err != nil {
		return nil, err
	}

	changes := make([]ports.StatusChange, 0, len(dtos))
	for _, dto := range dtos {
		c, convErr := toDomain(dto)
		if convErr != nil {
			return nil, convErr
		}
		changes = append(changes, c)
	}
	return changes, nil
}
