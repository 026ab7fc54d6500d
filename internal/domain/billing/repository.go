package billing

import (
	"context"

	"github.com/fruitflow/backend/internal/domain/basket"
	"github.com/fruitflow/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// BillRepository defines the interface for bill persistence
type BillRepository interface {
	// FindByID finds a bill by ID
	FindByID(ctx context.Context, id uuid.UUID) (*Bill, error)

	// FindByIDForOwner finds a bill by ID scoped to an owner
	FindByIDForOwner(ctx context.Context, ownerID, id uuid.UUID) (*Bill, error)

	// FindByBillNumber finds a bill by bill number for an owner
	FindByBillNumber(ctx context.Context, ownerID uuid.UUID, billNumber string) (*Bill, error)

	// FindAllForOwner finds all bills for an owner with filtering
	FindAllForOwner(ctx context.Context, ownerID uuid.UUID, filter shared.Filter) ([]Bill, error)

	// SaveWithMirror saves the bill, its items and packaging lines, rewrites
	// the basket ledger mirror rows tied to the bill, and persists domain
	// events to the outbox - all in a single transaction. A failure anywhere
	// leaves no partial state behind.
	SaveWithMirror(ctx context.Context, bill *Bill, mirror []basket.Entry, events []shared.DomainEvent) error

	// DeleteForOwner removes a bill with its items, packaging, schedule and
	// mirror rows in one transaction, persisting the passed events
	DeleteForOwner(ctx context.Context, ownerID, id uuid.UUID, events []shared.DomainEvent) error

	// CountForOwner counts bills for an owner with optional filters
	CountForOwner(ctx context.Context, ownerID uuid.UUID, filter shared.Filter) (int64, error)

	// DistinctCustomerNames lists customer names used on an owner's bills,
	// for the create-bill autocomplete
	DistinctCustomerNames(ctx context.Context, ownerID uuid.UUID, prefix string, limit int) ([]string, error)

	// ExistsByBillNumber checks if a bill number exists for an owner
	ExistsByBillNumber(ctx context.Context, ownerID uuid.UUID, billNumber string) (bool, error)

	// GenerateBillNumber generates a unique bill number for an owner
	GenerateBillNumber(ctx context.Context, ownerID uuid.UUID) (string, error)
}

// ScheduleRepository defines the interface for installment schedule
// persistence
type ScheduleRepository interface {
	// FindByBill returns a bill's installments ordered by number
	FindByBill(ctx context.Context, billID uuid.UUID) ([]Installment, error)

	// ReplaceForBill replaces a bill's installments with the given set and
	// writes the derived status back onto the bill row, in one transaction.
	// Readers never observe the schedule empty between delete and insert.
	ReplaceForBill(ctx context.Context, billID uuid.UUID, installments []Installment, billStatus BillStatus) error
}
