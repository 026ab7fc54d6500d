package mailbox

import (
	"time"

	"github.com/fruitflow/backend/internal/domain/mailbox"
	"github.com/google/uuid"
)

// IngestMessageRequest delivers an inbound notification to the mailbox
type IngestMessageRequest struct {
	Sender string    `json:"sender" binding:"required,min=1,max=200"`
	Items  string    `json:"items" binding:"required,min=1"`
	SentAt time.Time `json:"sent_at"`
}

// MessageResponse represents a mailbox message in API responses
type MessageResponse struct {
	ID        uuid.UUID `json:"id"`
	Sender    string    `json:"sender"`
	Items     string    `json:"items"`
	SentAt    time.Time `json:"sent_at"`
	Read      bool      `json:"read"`
	CreatedAt time.Time `json:"created_at"`
}

// MessageListFilter carries list query parameters
type MessageListFilter struct {
	Page     int    `form:"page"`
	PageSize int    `form:"page_size"`
	Unread   *bool  `form:"unread"`
	Since    string `form:"since"`
}

// ToMessageResponse converts a domain message to its response shape
func ToMessageResponse(message *mailbox.Message) MessageResponse {
	return MessageResponse{
		ID:        message.ID,
		Sender:    message.Sender,
		Items:     message.Items,
		SentAt:    message.SentAt,
		Read:      message.Read,
		CreatedAt: message.CreatedAt,
	}
}

// ToMessageResponses converts domain messages to their response shape
func ToMessageResponses(messages []mailbox.Message) []MessageResponse {
	responses := make([]MessageResponse, len(messages))
	for i := range messages {
		responses[i] = ToMessageResponse(&messages[i])
	}
	return responses
}
