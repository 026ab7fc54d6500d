package persistence

import (
	"context"
	"errors"
	"strings"

	"github.com/fruitflow/backend/internal/domain/messaging"
	"github.com/fruitflow/backend/internal/domain/shared"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormContactRepository implements ContactRepository using GORM
type GormContactRepository struct {
	db *gorm.DB
}

// NewGormContactRepository creates a new GormContactRepository
func NewGormContactRepository(db *gorm.DB) *GormContactRepository {
	return &GormContactRepository{db: db}
}

// Save creates or updates a contact
func (r *GormContactRepository) Save(ctx context.Context, contact *messaging.ChatContact) error {
	return r.db.WithContext(ctx).Save(contact).Error
}

// FindByProviderUserID finds a contact by its provider user ID
func (r *GormContactRepository) FindByProviderUserID(ctx context.Context, ownerID uuid.UUID, providerUserID string) (*messaging.ChatContact, error) {
	var contact messaging.ChatContact
	if err := r.db.WithContext(ctx).
		Where("owner_id = ? AND provider_user_id = ?", ownerID, providerUserID).
		First(&contact).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &contact, nil
}

// FindByIDForOwner finds a contact by ID scoped to an owner
func (r *GormContactRepository) FindByIDForOwner(ctx context.Context, ownerID, id uuid.UUID) (*messaging.ChatContact, error) {
	var contact messaging.ChatContact
	if err := r.db.WithContext(ctx).
		Where("owner_id = ? AND id = ?", ownerID, id).
		First(&contact).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &contact, nil
}

// FindAllForOwner finds contacts for an owner with filtering
func (r *GormContactRepository) FindAllForOwner(ctx context.Context, ownerID uuid.UUID, filter shared.Filter) ([]messaging.ChatContact, error) {
	var contacts []messaging.ChatContact
	query := r.db.WithContext(ctx).
		Model(&messaging.ChatContact{}).
		Where("owner_id = ?", ownerID)
	query = applyContactFilter(query, filter)

	if filter.Page > 0 && filter.PageSize > 0 {
		offset := (filter.Page - 1) * filter.PageSize
		query = query.Offset(offset).Limit(filter.PageSize)
	}

	orderBy := "last_message_at"
	if filter.OrderBy != "" {
		orderBy = filter.OrderBy
	}
	orderDir := "DESC"
	if strings.ToLower(filter.OrderDir) == "asc" {
		orderDir = "ASC"
	}

	if err := query.Order(orderBy + " " + orderDir + " NULLS LAST").Find(&contacts).Error; err != nil {
		return nil, err
	}
	return contacts, nil
}

// CountForOwner counts contacts for an owner
func (r *GormContactRepository) CountForOwner(ctx context.Context, ownerID uuid.UUID, filter shared.Filter) (int64, error) {
	var count int64
	query := r.db.WithContext(ctx).
		Model(&messaging.ChatContact{}).
		Where("owner_id = ?", ownerID)
	query = applyContactFilter(query, filter)

	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func applyContactFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if filter.Search != "" {
		query = query.Where("display_name ILIKE ?", "%"+filter.Search+"%")
	}
	for key, value := range filter.Filters {
		switch key {
		case "followed":
			query = query.Where("followed = ?", value)
		case "linked":
			if linked, ok := value.(bool); ok {
				if linked {
					query = query.Where("customer_id IS NOT NULL")
				} else {
					query = query.Where("customer_id IS NULL")
				}
			}
		}
	}
	return query
}

// Ensure GormContactRepository implements ContactRepository
var _ messaging.ContactRepository = (*GormContactRepository)(nil)
