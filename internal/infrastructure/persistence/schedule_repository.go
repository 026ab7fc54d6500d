package persistence

import (
	"context"

	"github.com/fruitflow/backend/internal/domain/billing"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormScheduleRepository implements ScheduleRepository using GORM
type GormScheduleRepository struct {
	db *gorm.DB
}

// NewGormScheduleRepository creates a new GormScheduleRepository
func NewGormScheduleRepository(db *gorm.DB) *GormScheduleRepository {
	return &GormScheduleRepository{db: db}
}

// FindByBill returns a bill's installments ordered by number
func (r *GormScheduleRepository) FindByBill(ctx context.Context, billID uuid.UUID) ([]billing.Installment, error) {
	var installments []billing.Installment
	if err := r.db.WithContext(ctx).
		Where("bill_id = ?", billID).
		Order("number ASC").
		Find(&installments).Error; err != nil {
		return nil, err
	}
	return installments, nil
}

// ReplaceForBill replaces a bill's installments with the given set and writes
// the derived status back onto the bill row. Delete, insert and status update
// commit together, so concurrent readers see either the old schedule or the
// new one, never an empty set in between.
func (r *GormScheduleRepository) ReplaceForBill(ctx context.Context, billID uuid.UUID, installments []billing.Installment, billStatus billing.BillStatus) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("bill_id = ?", billID).Delete(&billing.Installment{}).Error; err != nil {
			return err
		}

		for i := range installments {
			installments[i].BillID = billID
			if err := tx.Create(&installments[i]).Error; err != nil {
				return err
			}
		}

		return tx.Model(&billing.Bill{}).
			Where("id = ?", billID).
			Update("status", billStatus).Error
	})
}

// Ensure GormScheduleRepository implements ScheduleRepository
var _ billing.ScheduleRepository = (*GormScheduleRepository)(nil)
