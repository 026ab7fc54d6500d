package finance

import (
	"context"
	"time"

	"github.com/fruitflow/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ExpenseRepository defines the interface for expense persistence
type ExpenseRepository interface {
	// Save creates or updates an expense
	Save(ctx context.Context, expense *Expense) error

	// FindByIDForOwner finds an expense by ID scoped to an owner
	FindByIDForOwner(ctx context.Context, ownerID, id uuid.UUID) (*Expense, error)

	// FindAllForOwner finds expenses for an owner with filtering
	FindAllForOwner(ctx context.Context, ownerID uuid.UUID, filter shared.Filter) ([]Expense, error)

	// DeleteForOwner removes an expense
	DeleteForOwner(ctx context.Context, ownerID, id uuid.UUID) error

	// CountForOwner counts expenses for an owner
	CountForOwner(ctx context.Context, ownerID uuid.UUID, filter shared.Filter) (int64, error)

	// SumForPeriod totals expense amounts in [from, to) for the dashboard
	SumForPeriod(ctx context.Context, ownerID uuid.UUID, from, to time.Time) (decimal.Decimal, error)
}
