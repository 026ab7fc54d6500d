package messaging

import (
	"time"

	"github.com/fruitflow/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// ChatContact is a chat-provider user linked to the account through the
// inbound webhook. A contact may be auto-linked to a customer record when a
// message text contains a phone number matching the customer's.
type ChatContact struct {
	shared.OwnedAggregateRoot
	ProviderUserID string `gorm:"type:varchar(100);not null;uniqueIndex:idx_contact_owner_provider,priority:2"`
	DisplayName    string `gorm:"type:varchar(200)"`
	PictureURL     string `gorm:"type:text"`
	Followed       bool   `gorm:"not null;default:true"`
	CustomerID     *uuid.UUID
	CustomerName   string `gorm:"type:varchar(200)"`
	LastMessageAt  *time.Time
}

// TableName returns the table name for GORM
func (ChatContact) TableName() string {
	return "chat_contacts"
}

// NewChatContact creates a contact from a follow event
func NewChatContact(ownerID uuid.UUID, providerUserID, displayName, pictureURL string) (*ChatContact, error) {
	if providerUserID == "" {
		return nil, shared.NewDomainError("INVALID_PROVIDER_USER", "Provider user ID cannot be empty")
	}

	return &ChatContact{
		OwnedAggregateRoot: shared.NewOwnedAggregateRoot(ownerID),
		ProviderUserID:     providerUserID,
		DisplayName:        displayName,
		PictureURL:         pictureURL,
		Followed:           true,
	}, nil
}

// UpdateProfile refreshes the provider profile fields
func (c *ChatContact) UpdateProfile(displayName, pictureURL string) {
	if displayName != "" {
		c.DisplayName = displayName
	}
	if pictureURL != "" {
		c.PictureURL = pictureURL
	}
	c.UpdatedAt = time.Now()
}

// Follow marks the contact as following again
func (c *ChatContact) Follow() {
	c.Followed = true
	c.UpdatedAt = time.Now()
}

// Unfollow marks the contact as having blocked or removed the account.
// The row is kept so the link to the customer survives a re-follow.
func (c *ChatContact) Unfollow() {
	c.Followed = false
	c.UpdatedAt = time.Now()
}

// LinkCustomer links the contact to a customer record
func (c *ChatContact) LinkCustomer(customerID uuid.UUID, customerName string) error {
	if customerID == uuid.Nil {
		return shared.NewDomainError("INVALID_CUSTOMER", "Customer ID cannot be empty")
	}

	c.CustomerID = &customerID
	c.CustomerName = customerName
	c.UpdatedAt = time.Now()
	return nil
}

// UnlinkCustomer removes the customer link
func (c *ChatContact) UnlinkCustomer() {
	c.CustomerID = nil
	c.CustomerName = ""
	c.UpdatedAt = time.Now()
}

// IsLinked returns true when the contact is linked to a customer
func (c *ChatContact) IsLinked() bool {
	return c.CustomerID != nil
}

// TouchMessage records the time of the latest inbound message
func (c *ChatContact) TouchMessage(at time.Time) {
	c.LastMessageAt = &at
	c.UpdatedAt = time.Now()
}
