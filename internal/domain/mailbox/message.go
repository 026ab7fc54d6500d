package mailbox

import (
	"time"

	"github.com/fruitflow/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// Message is an inbound notification shown in the mailbox. Messages arrive
// from several sources that can deliver the same notification more than once,
// so identity is the (sender, items, sent-at) triple: inserting a duplicate
// triple is a no-op, enforced by a composite unique index per owner.
type Message struct {
	shared.OwnedAggregateRoot
	Sender string    `gorm:"type:varchar(200);not null;uniqueIndex:idx_mailbox_dedupe,priority:2"`
	Items  string    `gorm:"type:text;not null;uniqueIndex:idx_mailbox_dedupe,priority:3"`
	SentAt time.Time `gorm:"not null;uniqueIndex:idx_mailbox_dedupe,priority:4;index"`
	Read   bool      `gorm:"not null;default:false;index"`
}

// TableName returns the table name for GORM
func (Message) TableName() string {
	return "mailbox_messages"
}

// NewMessage creates a new unread mailbox message
func NewMessage(ownerID uuid.UUID, sender, items string, sentAt time.Time) (*Message, error) {
	if sender == "" {
		return nil, shared.NewDomainError("INVALID_SENDER", "Message sender cannot be empty")
	}
	if items == "" {
		return nil, shared.NewDomainError("INVALID_ITEMS", "Message items cannot be empty")
	}
	if sentAt.IsZero() {
		sentAt = time.Now()
	}

	return &Message{
		OwnedAggregateRoot: shared.NewOwnedAggregateRoot(ownerID),
		Sender:             sender,
		Items:              items,
		SentAt:             sentAt,
	}, nil
}

// MarkRead marks the message as read
func (m *Message) MarkRead() {
	if m.Read {
		return
	}
	m.Read = true
	m.UpdatedAt = time.Now()
}
