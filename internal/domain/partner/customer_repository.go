package partner

import (
	"context"

	"github.com/fruitflow/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// CustomerRepository defines the interface for customer persistence
type CustomerRepository interface {
	// Save creates or updates a customer
	Save(ctx context.Context, customer *Customer) error

	// FindByIDForOwner finds a customer by ID scoped to an owner
	FindByIDForOwner(ctx context.Context, ownerID, id uuid.UUID) (*Customer, error)

	// FindByName finds a customer by exact name for an owner
	FindByName(ctx context.Context, ownerID uuid.UUID, name string) (*Customer, error)

	// FindByPhone finds customers whose phone is non-empty, for phone matching
	FindWithPhone(ctx context.Context, ownerID uuid.UUID) ([]Customer, error)

	// FindAllForOwner finds customers for an owner with filtering
	FindAllForOwner(ctx context.Context, ownerID uuid.UUID, filter shared.Filter) ([]Customer, error)

	// DeleteForOwner removes a customer
	DeleteForOwner(ctx context.Context, ownerID, id uuid.UUID) error

	// CountForOwner counts customers for an owner
	CountForOwner(ctx context.Context, ownerID uuid.UUID, filter shared.Filter) (int64, error)

	// ExistsByName checks if a customer name exists for an owner
	ExistsByName(ctx context.Context, ownerID uuid.UUID, name string) (bool, error)
}
