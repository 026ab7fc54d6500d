package messaging

import (
	"context"

	"github.com/fruitflow/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// ContactRepository defines the interface for chat contact persistence
type ContactRepository interface {
	// Save creates or updates a contact
	Save(ctx context.Context, contact *ChatContact) error

	// FindByProviderUserID finds a contact by its provider user ID
	FindByProviderUserID(ctx context.Context, ownerID uuid.UUID, providerUserID string) (*ChatContact, error)

	// FindByIDForOwner finds a contact by ID scoped to an owner
	FindByIDForOwner(ctx context.Context, ownerID, id uuid.UUID) (*ChatContact, error)

	// FindAllForOwner finds contacts for an owner with filtering
	FindAllForOwner(ctx context.Context, ownerID uuid.UUID, filter shared.Filter) ([]ChatContact, error)

	// CountForOwner counts contacts for an owner
	CountForOwner(ctx context.Context, ownerID uuid.UUID, filter shared.Filter) (int64, error)
}
