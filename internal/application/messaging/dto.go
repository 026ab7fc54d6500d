package messaging

import (
	"time"

	"github.com/google/uuid"

	"github.com/fruitflow/backend/internal/domain/messaging"
)

// WebhookSource identifies the sender of a webhook event
type WebhookSource struct {
	Type   string `json:"type"`
	UserID string `json:"userId"`
}

// WebhookMessage is the message part of a message event
type WebhookMessage struct {
	ID   string `json:"id"`
	Type string `json:"type"`
	Text string `json:"text"`
}

// WebhookEvent is one event in an inbound webhook delivery
type WebhookEvent struct {
	Type       string         `json:"type"`
	Timestamp  int64          `json:"timestamp"` // Milliseconds since epoch
	ReplyToken string         `json:"replyToken"`
	Source     WebhookSource  `json:"source"`
	Message    WebhookMessage `json:"message"`
}

// WebhookRequest is the body of an inbound webhook delivery
type WebhookRequest struct {
	Destination string         `json:"destination"`
	Events      []WebhookEvent `json:"events"`
}

// SentAt converts the event timestamp to a time value
func (e WebhookEvent) SentAt() time.Time {
	if e.Timestamp <= 0 {
		return time.Now()
	}
	return time.UnixMilli(e.Timestamp)
}

// ContactResponse represents a chat contact in API responses
type ContactResponse struct {
	ID             uuid.UUID  `json:"id"`
	ProviderUserID string     `json:"provider_user_id"`
	DisplayName    string     `json:"display_name"`
	PictureURL     string     `json:"picture_url"`
	Followed       bool       `json:"followed"`
	CustomerID     *uuid.UUID `json:"customer_id"`
	CustomerName   string     `json:"customer_name"`
	LastMessageAt  *time.Time `json:"last_message_at"`
	CreatedAt      time.Time  `json:"created_at"`
}

// ContactListFilter carries list parameters for contacts
type ContactListFilter struct {
	Page     int    `form:"page"`
	PageSize int    `form:"page_size"`
	Search   string `form:"search"`
	Followed *bool  `form:"followed"`
	Linked   *bool  `form:"linked"`
}

// LinkCustomerRequest links a contact to a customer by hand
type LinkCustomerRequest struct {
	CustomerID uuid.UUID `json:"customer_id" binding:"required"`
}

// PushBillImageInput carries a rendered bill image destined for a contact
type PushBillImageInput struct {
	ContactID   uuid.UUID `json:"-"`
	ImageBase64 string    `json:"image_base64" binding:"required"`
	BillNumber  string    `json:"bill_number" binding:"required"`
	TotalAmount string    `json:"total_amount"`
}

// ToContactResponse converts a domain contact to a response DTO
func ToContactResponse(contact *messaging.ChatContact) ContactResponse {
	return ContactResponse{
		ID:             contact.ID,
		ProviderUserID: contact.ProviderUserID,
		DisplayName:    contact.DisplayName,
		PictureURL:     contact.PictureURL,
		Followed:       contact.Followed,
		CustomerID:     contact.CustomerID,
		CustomerName:   contact.CustomerName,
		LastMessageAt:  contact.LastMessageAt,
		CreatedAt:      contact.CreatedAt,
	}
}

// ToContactResponses converts a slice of domain contacts
func ToContactResponses(contacts []messaging.ChatContact) []ContactResponse {
	responses := make([]ContactResponse, len(contacts))
	for i := range contacts {
		responses[i] = ToContactResponse(&contacts[i])
	}
	return responses
}
