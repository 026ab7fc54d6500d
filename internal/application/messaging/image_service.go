package messaging

import (
	"context"
	"encoding/base64"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/fruitflow/backend/internal/domain/messaging"
	"github.com/fruitflow/backend/internal/domain/shared"
)

// ObjectStorage stores rendered bill images and exposes their public links
type ObjectStorage interface {
	Upload(ctx context.Context, storageKey string, data []byte, contentType string) error
	PublicURL(storageKey string) string
}

// ImageService uploads a rendered bill image and pushes it to a chat contact
type ImageService struct {
	contactRepo messaging.ContactRepository
	storage     ObjectStorage
	pusher      Pusher
	logger      *zap.Logger
}

// NewImageService creates a new ImageService
func NewImageService(contactRepo messaging.ContactRepository, storage ObjectStorage, pusher Pusher, logger *zap.Logger) *ImageService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ImageService{
		contactRepo: contactRepo,
		storage:     storage,
		pusher:      pusher,
		logger:      logger,
	}
}

// PushBillImage decodes the image, stores it publicly and sends a text plus
// image message to the contact
func (s *ImageService) PushBillImage(ctx context.Context, ownerID uuid.UUID, input PushBillImageInput) error {
	contact, err := s.contactRepo.FindByIDForOwner(ctx, ownerID, input.ContactID)
	if err != nil {
		return err
	}
	if !contact.Followed {
		return shared.NewDomainError("CONTACT_UNFOLLOWED", "Contact has blocked the account and cannot receive messages")
	}

	data, err := decodeImage(input.ImageBase64)
	if err != nil {
		return shared.NewDomainError("INVALID_IMAGE", "Image payload is not valid base64 PNG data")
	}

	storageKey := fmt.Sprintf("bills/%s/%s-%s.png", ownerID, input.BillNumber, uuid.New().String()[:8])
	if err := s.storage.Upload(ctx, storageKey, data, "image/png"); err != nil {
		return fmt.Errorf("failed to upload bill image: %w", err)
	}
	imageURL := s.storage.PublicURL(storageKey)

	text := fmt.Sprintf("บิลเลขที่ %s", input.BillNumber)
	if input.TotalAmount != "" {
		text = fmt.Sprintf("บิลเลขที่ %s ยอดรวม %s บาท", input.BillNumber, input.TotalAmount)
	}

	if err := s.pusher.PushText(ctx, contact.ProviderUserID, text); err != nil {
		return fmt.Errorf("failed to push bill text: %w", err)
	}
	if err := s.pusher.PushImage(ctx, contact.ProviderUserID, imageURL, imageURL); err != nil {
		return fmt.Errorf("failed to push bill image: %w", err)
	}

	s.logger.Info("Bill image pushed",
		zap.String("bill_number", input.BillNumber),
		zap.String("contact_id", contact.ID.String()),
		zap.Int("bytes", len(data)))

	return nil
}

// decodeImage accepts raw base64 or a data URL prefix
func decodeImage(payload string) ([]byte, error) {
	if idx := strings.Index(payload, ","); idx >= 0 && strings.HasPrefix(payload, "data:") {
		payload = payload[idx+1:]
	}
	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return nil, err
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("empty image payload")
	}
	return data, nil
}
