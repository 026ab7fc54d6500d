package finance

import (
	"time"

	"github.com/fruitflow/backend/internal/domain/shared"
	"github.com/fruitflow/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Expense is a running-cost record: fuel, stall rent, ice, transport.
// Category is free text, the way the business actually labels spend.
type Expense struct {
	shared.OwnedAggregateRoot
	Category    string          `gorm:"type:varchar(100);index"`
	Description string          `gorm:"type:varchar(500);not null"`
	Amount      decimal.Decimal `gorm:"type:decimal(18,2);not null"`
	SpentAt     time.Time       `gorm:"not null;index"`
	Remark      string          `gorm:"type:text"`
}

// TableName returns the table name for GORM
func (Expense) TableName() string {
	return "expenses"
}

// NewExpense creates a new expense record
func NewExpense(ownerID uuid.UUID, category, description string, amount valueobject.Money, spentAt time.Time) (*Expense, error) {
	if description == "" {
		return nil, shared.NewDomainError("INVALID_DESCRIPTION", "Description cannot be empty")
	}
	if len(description) > 500 {
		return nil, shared.NewDomainError("INVALID_DESCRIPTION", "Description cannot exceed 500 characters")
	}
	if amount.Amount().LessThanOrEqual(decimal.Zero) {
		return nil, shared.NewDomainError("INVALID_AMOUNT", "Amount must be positive")
	}
	if spentAt.IsZero() {
		spentAt = time.Now()
	}

	return &Expense{
		OwnedAggregateRoot: shared.NewOwnedAggregateRoot(ownerID),
		Category:           category,
		Description:        description,
		Amount:             amount.Amount(),
		SpentAt:            spentAt,
	}, nil
}

// Update updates the expense details
func (e *Expense) Update(category, description string, amount valueobject.Money, spentAt time.Time) error {
	if description == "" {
		return shared.NewDomainError("INVALID_DESCRIPTION", "Description cannot be empty")
	}
	if amount.Amount().LessThanOrEqual(decimal.Zero) {
		return shared.NewDomainError("INVALID_AMOUNT", "Amount must be positive")
	}
	if spentAt.IsZero() {
		return shared.NewDomainError("INVALID_DATE", "Spent date is required")
	}

	e.Category = category
	e.Description = description
	e.Amount = amount.Amount()
	e.SpentAt = spentAt
	e.UpdatedAt = time.Now()
	e.IncrementVersion()

	return nil
}

// SetRemark sets the remark
func (e *Expense) SetRemark(remark string) {
	e.Remark = remark
	e.UpdatedAt = time.Now()
}

// GetAmountMoney returns amount as Money
func (e *Expense) GetAmountMoney() valueobject.Money {
	return valueobject.NewMoneyTHB(e.Amount)
}
