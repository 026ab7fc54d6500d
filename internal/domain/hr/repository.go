package hr

import (
	"context"

	"github.com/fruitflow/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// EmployeeRepository defines the interface for employee persistence.
// Save persists the employee together with its withdrawals; the withdrawal
// collection is replaced in the same transaction.
type EmployeeRepository interface {
	// Save creates or updates an employee with its withdrawals
	Save(ctx context.Context, employee *Employee) error

	// FindByIDForOwner finds an employee by ID scoped to an owner,
	// withdrawals preloaded ordered by date
	FindByIDForOwner(ctx context.Context, ownerID, id uuid.UUID) (*Employee, error)

	// FindAllForOwner finds employees for an owner with filtering
	FindAllForOwner(ctx context.Context, ownerID uuid.UUID, filter shared.Filter) ([]Employee, error)

	// DeleteForOwner removes an employee and its withdrawals
	DeleteForOwner(ctx context.Context, ownerID, id uuid.UUID) error

	// CountForOwner counts employees for an owner
	CountForOwner(ctx context.Context, ownerID uuid.UUID, filter shared.Filter) (int64, error)
}
