package messaging

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	mailboxapp "github.com/fruitflow/backend/internal/application/mailbox"
	"github.com/fruitflow/backend/internal/domain/messaging"
	"github.com/fruitflow/backend/internal/domain/partner"
	"github.com/fruitflow/backend/internal/domain/shared"
)

// Pusher sends outbound messages to a chat contact
type Pusher interface {
	PushText(ctx context.Context, to string, text string) error
	PushImage(ctx context.Context, to string, originalURL, previewURL string) error
}

// WebhookService processes inbound chat-provider events. Once the delivery's
// signature has been verified, per-event failures are logged and swallowed so
// the provider never sees an error and never retries a half-processed batch.
type WebhookService struct {
	contactRepo    messaging.ContactRepository
	customerRepo   partner.CustomerRepository
	mailboxService *mailboxapp.Service
	pusher         Pusher
	logger         *zap.Logger
}

// NewWebhookService creates a new WebhookService
func NewWebhookService(
	contactRepo messaging.ContactRepository,
	customerRepo partner.CustomerRepository,
	mailboxService *mailboxapp.Service,
	pusher Pusher,
	logger *zap.Logger,
) *WebhookService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &WebhookService{
		contactRepo:    contactRepo,
		customerRepo:   customerRepo,
		mailboxService: mailboxService,
		pusher:         pusher,
		logger:         logger,
	}
}

// HandleEvents processes a verified webhook delivery
func (s *WebhookService) HandleEvents(ctx context.Context, ownerID uuid.UUID, events []WebhookEvent) {
	for _, event := range events {
		var err error
		switch event.Type {
		case "follow":
			err = s.handleFollow(ctx, ownerID, event)
		case "unfollow":
			err = s.handleUnfollow(ctx, ownerID, event)
		case "message":
			err = s.handleMessage(ctx, ownerID, event)
		default:
			continue
		}
		if err != nil {
			s.logger.Error("Failed to process webhook event",
				zap.String("event_type", event.Type),
				zap.String("provider_user_id", event.Source.UserID),
				zap.Error(err))
		}
	}
}

func (s *WebhookService) handleFollow(ctx context.Context, ownerID uuid.UUID, event WebhookEvent) error {
	contact, err := s.findOrCreateContact(ctx, ownerID, event.Source.UserID)
	if err != nil {
		return err
	}
	contact.Follow()
	return s.contactRepo.Save(ctx, contact)
}

func (s *WebhookService) handleUnfollow(ctx context.Context, ownerID uuid.UUID, event WebhookEvent) error {
	contact, err := s.contactRepo.FindByProviderUserID(ctx, ownerID, event.Source.UserID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil
		}
		return err
	}
	contact.Unfollow()
	return s.contactRepo.Save(ctx, contact)
}

func (s *WebhookService) handleMessage(ctx context.Context, ownerID uuid.UUID, event WebhookEvent) error {
	if event.Message.Type != "text" || event.Message.Text == "" {
		return nil
	}

	contact, err := s.findOrCreateContact(ctx, ownerID, event.Source.UserID)
	if err != nil {
		return err
	}
	contact.TouchMessage(event.SentAt())

	linkedNow := false
	if !contact.IsLinked() {
		customer, err := s.matchCustomerByPhone(ctx, ownerID, event.Message.Text)
		if err != nil {
			s.logger.Warn("Phone matching failed", zap.Error(err))
		} else if customer != nil {
			if err := contact.LinkCustomer(customer.ID, customer.Name); err != nil {
				return err
			}
			linkedNow = true
		}
	}

	if err := s.contactRepo.Save(ctx, contact); err != nil {
		return err
	}

	sender := contact.DisplayName
	if sender == "" {
		sender = contact.ProviderUserID
	}
	if _, err := s.mailboxService.Ingest(ctx, ownerID, mailboxapp.IngestMessageRequest{
		Sender: sender,
		Items:  event.Message.Text,
		SentAt: event.SentAt(),
	}); err != nil {
		s.logger.Warn("Failed to store inbound message in mailbox", zap.Error(err))
	}

	if linkedNow && s.pusher != nil {
		reply := fmt.Sprintf("ลงทะเบียนเรียบร้อยแล้วค่ะ คุณ%s", contact.CustomerName)
		if err := s.pusher.PushText(ctx, contact.ProviderUserID, reply); err != nil {
			s.logger.Warn("Failed to push link confirmation", zap.Error(err))
		}
	}

	return nil
}

func (s *WebhookService) findOrCreateContact(ctx context.Context, ownerID uuid.UUID, providerUserID string) (*messaging.ChatContact, error) {
	contact, err := s.contactRepo.FindByProviderUserID(ctx, ownerID, providerUserID)
	if err == nil {
		return contact, nil
	}
	if !errors.Is(err, shared.ErrNotFound) {
		return nil, err
	}
	return messaging.NewChatContact(ownerID, providerUserID, "", "")
}

// matchCustomerByPhone finds the customer whose phone number appears in the
// message text. Numbers are compared in E.164 so formatting differences
// between the stored phone and the typed one don't matter.
func (s *WebhookService) matchCustomerByPhone(ctx context.Context, ownerID uuid.UUID, text string) (*partner.Customer, error) {
	extracted := ExtractPhoneNumber(text)
	if extracted == "" {
		return nil, nil
	}

	customers, err := s.customerRepo.FindWithPhone(ctx, ownerID)
	if err != nil {
		return nil, err
	}

	for i := range customers {
		if NormalizePhoneNumber(customers[i].Phone) == extracted {
			return &customers[i], nil
		}
	}
	return nil, nil
}
