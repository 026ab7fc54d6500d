package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/fruitflow/backend/internal/domain/mailbox"
	"github.com/fruitflow/backend/internal/domain/shared"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormMailboxRepository implements MessageRepository using GORM
type GormMailboxRepository struct {
	db *gorm.DB
}

// NewGormMailboxRepository creates a new GormMailboxRepository
func NewGormMailboxRepository(db *gorm.DB) *GormMailboxRepository {
	return &GormMailboxRepository{db: db}
}

// SaveIgnoreDuplicate inserts a message, skipping it when the dedupe key
// already exists. The unique index on (owner_id, sender, items, sent_at)
// backs the ON CONFLICT DO NOTHING.
func (r *GormMailboxRepository) SaveIgnoreDuplicate(ctx context.Context, message *mailbox.Message) (bool, error) {
	result := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(message)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

// FindByIDForOwner finds a message by ID scoped to an owner
func (r *GormMailboxRepository) FindByIDForOwner(ctx context.Context, ownerID, id uuid.UUID) (*mailbox.Message, error) {
	var message mailbox.Message
	if err := r.db.WithContext(ctx).
		Where("owner_id = ? AND id = ?", ownerID, id).
		First(&message).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &message, nil
}

// FindAllForOwner finds messages for an owner, newest first
func (r *GormMailboxRepository) FindAllForOwner(ctx context.Context, ownerID uuid.UUID, filter shared.Filter) ([]mailbox.Message, error) {
	var messages []mailbox.Message
	query := r.db.WithContext(ctx).
		Model(&mailbox.Message{}).
		Where("owner_id = ?", ownerID)
	query = applyMailboxFilter(query, filter)

	if filter.Page > 0 && filter.PageSize > 0 {
		offset := (filter.Page - 1) * filter.PageSize
		query = query.Offset(offset).Limit(filter.PageSize)
	}

	if err := query.Order("sent_at DESC").Find(&messages).Error; err != nil {
		return nil, err
	}
	return messages, nil
}

// FindSince returns messages sent after the cursor, oldest first
func (r *GormMailboxRepository) FindSince(ctx context.Context, ownerID uuid.UUID, since time.Time, limit int) ([]mailbox.Message, error) {
	var messages []mailbox.Message
	if err := r.db.WithContext(ctx).
		Where("owner_id = ? AND sent_at > ?", ownerID, since).
		Order("sent_at ASC").
		Limit(limit).
		Find(&messages).Error; err != nil {
		return nil, err
	}
	return messages, nil
}

// MarkRead marks a message as read
func (r *GormMailboxRepository) MarkRead(ctx context.Context, ownerID, id uuid.UUID) error {
	result := r.db.WithContext(ctx).
		Model(&mailbox.Message{}).
		Where("owner_id = ? AND id = ?", ownerID, id).
		Updates(map[string]interface{}{
			"read":       true,
			"updated_at": time.Now(),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// MarkAllRead marks every unread message as read
func (r *GormMailboxRepository) MarkAllRead(ctx context.Context, ownerID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Model(&mailbox.Message{}).
		Where("owner_id = ? AND read = ?", ownerID, false).
		Updates(map[string]interface{}{
			"read":       true,
			"updated_at": time.Now(),
		}).Error
}

// DeleteForOwner removes a message
func (r *GormMailboxRepository) DeleteForOwner(ctx context.Context, ownerID, id uuid.UUID) error {
	result := r.db.WithContext(ctx).
		Delete(&mailbox.Message{}, "owner_id = ? AND id = ?", ownerID, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// CountUnread counts unread messages for an owner
func (r *GormMailboxRepository) CountUnread(ctx context.Context, ownerID uuid.UUID) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&mailbox.Message{}).
		Where("owner_id = ? AND read = ?", ownerID, false).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// CountForOwner counts messages for an owner
func (r *GormMailboxRepository) CountForOwner(ctx context.Context, ownerID uuid.UUID, filter shared.Filter) (int64, error) {
	var count int64
	query := r.db.WithContext(ctx).
		Model(&mailbox.Message{}).
		Where("owner_id = ?", ownerID)
	query = applyMailboxFilter(query, filter)

	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func applyMailboxFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	for key, value := range filter.Filters {
		switch key {
		case "read":
			query = query.Where("read = ?", value)
		case "since":
			if t, ok := parseFilterDate(value); ok {
				query = query.Where("sent_at > ?", t)
			}
		}
	}
	return query
}

// Ensure GormMailboxRepository implements MessageRepository
var _ mailbox.MessageRepository = (*GormMailboxRepository)(nil)
