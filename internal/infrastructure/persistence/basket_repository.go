package persistence

import (
	"context"
	"errors"
	"strings"

	"github.com/fruitflow/backend/internal/domain/basket"
	"github.com/fruitflow/backend/internal/domain/shared"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormBasketEntryRepository implements EntryRepository using GORM
type GormBasketEntryRepository struct {
	db *gorm.DB
}

// NewGormBasketEntryRepository creates a new GormBasketEntryRepository
func NewGormBasketEntryRepository(db *gorm.DB) *GormBasketEntryRepository {
	return &GormBasketEntryRepository{db: db}
}

// Save persists a manual entry
func (r *GormBasketEntryRepository) Save(ctx context.Context, entry *basket.Entry) error {
	return r.db.WithContext(ctx).Save(entry).Error
}

// FindByIDForOwner finds an entry by ID scoped to an owner
func (r *GormBasketEntryRepository) FindByIDForOwner(ctx context.Context, ownerID, id uuid.UUID) (*basket.Entry, error) {
	var entry basket.Entry
	if err := r.db.WithContext(ctx).
		Where("owner_id = ? AND id = ?", ownerID, id).
		First(&entry).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &entry, nil
}

// FindByCustomer returns a customer's entries for an owner with pagination.
// The ledger reads oldest first so balances accumulate naturally.
func (r *GormBasketEntryRepository) FindByCustomer(ctx context.Context, ownerID uuid.UUID, customerName string, filter shared.Filter) ([]basket.Entry, error) {
	var entries []basket.Entry
	query := r.db.WithContext(ctx).
		Model(&basket.Entry{}).
		Where("owner_id = ? AND customer_name = ?", ownerID, customerName)

	if filter.Page > 0 && filter.PageSize > 0 {
		offset := (filter.Page - 1) * filter.PageSize
		query = query.Offset(offset).Limit(filter.PageSize)
	}

	orderBy := "entry_date"
	if filter.OrderBy != "" {
		orderBy = filter.OrderBy
	}
	orderDir := "ASC"
	if strings.ToLower(filter.OrderDir) == "desc" {
		orderDir = "DESC"
	}

	if err := query.Order(orderBy + " " + orderDir).Order("created_at ASC").Find(&entries).Error; err != nil {
		return nil, err
	}
	return entries, nil
}

// FindAllByCustomer returns every entry for a customer, oldest first
func (r *GormBasketEntryRepository) FindAllByCustomer(ctx context.Context, ownerID uuid.UUID, customerName string) ([]basket.Entry, error) {
	var entries []basket.Entry
	if err := r.db.WithContext(ctx).
		Where("owner_id = ? AND customer_name = ?", ownerID, customerName).
		Order("entry_date ASC").
		Order("created_at ASC").
		Find(&entries).Error; err != nil {
		return nil, err
	}
	return entries, nil
}

// DeleteForOwner removes a manual entry
func (r *GormBasketEntryRepository) DeleteForOwner(ctx context.Context, ownerID, id uuid.UUID) error {
	result := r.db.WithContext(ctx).
		Delete(&basket.Entry{}, "owner_id = ? AND id = ?", ownerID, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// CountByCustomer counts a customer's entries for an owner
func (r *GormBasketEntryRepository) CountByCustomer(ctx context.Context, ownerID uuid.UUID, customerName string) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&basket.Entry{}).
		Where("owner_id = ? AND customer_name = ?", ownerID, customerName).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// DistinctCustomerNames lists customer names present in the ledger
func (r *GormBasketEntryRepository) DistinctCustomerNames(ctx context.Context, ownerID uuid.UUID, prefix string, limit int) ([]string, error) {
	var names []string
	query := r.db.WithContext(ctx).
		Model(&basket.Entry{}).
		Distinct("customer_name").
		Where("owner_id = ?", ownerID)

	if prefix != "" {
		query = query.Where("customer_name ILIKE ?", prefix+"%")
	}

	if err := query.Order("customer_name ASC").Limit(limit).Pluck("customer_name", &names).Error; err != nil {
		return nil, err
	}
	return names, nil
}

// Ensure GormBasketEntryRepository implements EntryRepository
var _ basket.EntryRepository = (*GormBasketEntryRepository)(nil)
