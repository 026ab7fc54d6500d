package mailbox

import (
	"context"
	"time"

	"github.com/fruitflow/backend/internal/domain/mailbox"
	"github.com/fruitflow/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// Notifier pushes a freshly stored message to connected mailbox clients.
// The SSE handler implements it; a nil-safe no-op is used in tests.
type Notifier interface {
	NotifyMessage(ownerID uuid.UUID, message MessageResponse)
}

// Service handles mailbox operations
type Service struct {
	messageRepo mailbox.MessageRepository
	notifier    Notifier
}

// NewService creates a new mailbox Service
func NewService(messageRepo mailbox.MessageRepository, notifier Notifier) *Service {
	return &Service{
		messageRepo: messageRepo,
		notifier:    notifier,
	}
}

// SetNotifier attaches the push notifier after construction. The SSE handler
// needs the service for replay, so the two are wired in two steps.
func (s *Service) SetNotifier(notifier Notifier) {
	s.notifier = notifier
}

// Ingest stores an inbound notification. Re-delivery of the same
// (sender, items, sent-at) triple is a silent no-op, so upstream sources can
// push the same notification more than once without duplicating mail.
func (s *Service) Ingest(ctx context.Context, ownerID uuid.UUID, req IngestMessageRequest) (*MessageResponse, error) {
	message, err := mailbox.NewMessage(ownerID, req.Sender, req.Items, req.SentAt)
	if err != nil {
		return nil, err
	}

	inserted, err := s.messageRepo.SaveIgnoreDuplicate(ctx, message)
	if err != nil {
		return nil, err
	}

	response := ToMessageResponse(message)
	if inserted && s.notifier != nil {
		s.notifier.NotifyMessage(ownerID, response)
	}
	return &response, nil
}

// List retrieves messages, newest first
func (s *Service) List(ctx context.Context, ownerID uuid.UUID, filter MessageListFilter) ([]MessageResponse, int64, error) {
	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.PageSize <= 0 {
		filter.PageSize = 50
	}

	domainFilter := shared.Filter{
		Page:     filter.Page,
		PageSize: filter.PageSize,
		OrderBy:  "sent_at",
		OrderDir: "desc",
		Filters:  make(map[string]any),
	}
	if filter.Unread != nil {
		domainFilter.Filters["read"] = !*filter.Unread
	}
	if filter.Since != "" {
		domainFilter.Filters["since"] = filter.Since
	}

	messages, err := s.messageRepo.FindAllForOwner(ctx, ownerID, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	total, err := s.messageRepo.CountForOwner(ctx, ownerID, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	return ToMessageResponses(messages), total, nil
}

// Since returns messages sent after the cursor, oldest first. The SSE
// handler uses it to replay what a reconnecting client missed.
func (s *Service) Since(ctx context.Context, ownerID uuid.UUID, since time.Time, limit int) ([]MessageResponse, error) {
	if limit <= 0 || limit > 500 {
		limit = 100
	}

	messages, err := s.messageRepo.FindSince(ctx, ownerID, since, limit)
	if err != nil {
		return nil, err
	}
	return ToMessageResponses(messages), nil
}

// MarkRead marks one message as read
func (s *Service) MarkRead(ctx context.Context, ownerID, messageID uuid.UUID) error {
	return s.messageRepo.MarkRead(ctx, ownerID, messageID)
}

// MarkAllRead marks every unread message as read
func (s *Service) MarkAllRead(ctx context.Context, ownerID uuid.UUID) error {
	return s.messageRepo.MarkAllRead(ctx, ownerID)
}

// Delete removes a message
func (s *Service) Delete(ctx context.Context, ownerID, messageID uuid.UUID) error {
	if _, err := s.messageRepo.FindByIDForOwner(ctx, ownerID, messageID); err != nil {
		return err
	}
	return s.messageRepo.DeleteForOwner(ctx, ownerID, messageID)
}

// UnreadCount counts unread messages
func (s *Service) UnreadCount(ctx context.Context, ownerID uuid.UUID) (int64, error) {
	return s.messageRepo.CountUnread(ctx, ownerID)
}
