package basket

import (
	"context"

	"github.com/fruitflow/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// EntryRepository defines the interface for basket ledger persistence
type EntryRepository interface {
	// Save persists a manual entry
	Save(ctx context.Context, entry *Entry) error

	// FindByIDForOwner finds an entry by ID scoped to an owner
	FindByIDForOwner(ctx context.Context, ownerID, id uuid.UUID) (*Entry, error)

	// FindByCustomer returns a customer's entries for an owner, oldest first,
	// with pagination
	FindByCustomer(ctx context.Context, ownerID uuid.UUID, customerName string, filter shared.Filter) ([]Entry, error)

	// FindAllByCustomer returns every entry for a customer, oldest first,
	// for balance summaries
	FindAllByCustomer(ctx context.Context, ownerID uuid.UUID, customerName string) ([]Entry, error)

	// DeleteForOwner removes a manual entry. Mirror entries belong to their
	// bill and are rewritten through the bill repository instead.
	DeleteForOwner(ctx context.Context, ownerID, id uuid.UUID) error

	// CountByCustomer counts a customer's entries for an owner
	CountByCustomer(ctx context.Context, ownerID uuid.UUID, customerName string) (int64, error)

	// DistinctCustomerNames lists customer names present in the ledger
	DistinctCustomerNames(ctx context.Context, ownerID uuid.UUID, prefix string, limit int) ([]string, error)
}
