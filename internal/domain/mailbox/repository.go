package mailbox

import (
	"context"
	"time"

	"github.com/fruitflow/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// MessageRepository defines the interface for mailbox persistence
type MessageRepository interface {
	// SaveIgnoreDuplicate inserts a message, silently skipping it when the
	// (owner, sender, items, sent-at) triple already exists. Returns true
	// when a row was written.
	SaveIgnoreDuplicate(ctx context.Context, message *Message) (bool, error)

	// FindByIDForOwner finds a message by ID scoped to an owner
	FindByIDForOwner(ctx context.Context, ownerID, id uuid.UUID) (*Message, error)

	// FindAllForOwner finds messages for an owner, newest first
	FindAllForOwner(ctx context.Context, ownerID uuid.UUID, filter shared.Filter) ([]Message, error)

	// FindSince returns messages sent after the cursor, oldest first, used by
	// the live stream to catch a client up
	FindSince(ctx context.Context, ownerID uuid.UUID, since time.Time, limit int) ([]Message, error)

	// MarkRead marks a message as read
	MarkRead(ctx context.Context, ownerID, id uuid.UUID) error

	// MarkAllRead marks every unread message as read
	MarkAllRead(ctx context.Context, ownerID uuid.UUID) error

	// DeleteForOwner removes a message
	DeleteForOwner(ctx context.Context, ownerID, id uuid.UUID) error

	// CountUnread counts unread messages for an owner
	CountUnread(ctx context.Context, ownerID uuid.UUID) (int64, error)

	// CountForOwner counts messages for an owner
	CountForOwner(ctx context.Context, ownerID uuid.UUID, filter shared.Filter) (int64, error)
}
