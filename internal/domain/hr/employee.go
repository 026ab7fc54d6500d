package hr

import (
	"time"

	"github.com/fruitflow/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Employee represents a worker on the payroll. Withdrawals are salary
// advances taken during the month and settled against the monthly wage.
type Employee struct {
	shared.OwnedAggregateRoot
	Name          string          `gorm:"type:varchar(200);not null"`
	Phone         string          `gorm:"type:varchar(50)"`
	Position      string          `gorm:"type:varchar(100)"`
	MonthlySalary decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0"`
	HiredAt       *time.Time
	Active        bool         `gorm:"not null;default:true"`
	Withdrawals   []Withdrawal `gorm:"foreignKey:EmployeeID;constraint:OnDelete:CASCADE"`
	Notes         string       `gorm:"type:text"`
}

// TableName returns the table name for GORM
func (Employee) TableName() string {
	return "employees"
}

// Withdrawal is a salary advance drawn by an employee
type Withdrawal struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey"`
	EmployeeID uuid.UUID `gorm:"type:uuid;not null;index"`
	Amount     decimal.Decimal
	Date       time.Time
	Note       string `gorm:"type:text"`
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// TableName returns the table name for GORM
func (Withdrawal) TableName() string {
	return "employee_withdrawals"
}

// NewEmployee creates a new active employee
func NewEmployee(ownerID uuid.UUID, name, phone, position string, monthlySalary decimal.Decimal) (*Employee, error) {
	if name == "" {
		return nil, shared.NewDomainError("INVALID_NAME", "Employee name cannot be empty")
	}
	if len(name) > 200 {
		return nil, shared.NewDomainError("INVALID_NAME", "Employee name cannot exceed 200 characters")
	}
	if monthlySalary.IsNegative() {
		return nil, shared.NewDomainError("INVALID_SALARY", "Monthly salary cannot be negative")
	}

	return &Employee{
		OwnedAggregateRoot: shared.NewOwnedAggregateRoot(ownerID),
		Name:               name,
		Phone:              phone,
		Position:           position,
		MonthlySalary:      monthlySalary,
		Active:             true,
		Withdrawals:        make([]Withdrawal, 0),
	}, nil
}

// Update updates the employee's basic information
func (e *Employee) Update(name, phone, position string, monthlySalary decimal.Decimal) error {
	if name == "" {
		return shared.NewDomainError("INVALID_NAME", "Employee name cannot be empty")
	}
	if monthlySalary.IsNegative() {
		return shared.NewDomainError("INVALID_SALARY", "Monthly salary cannot be negative")
	}

	e.Name = name
	e.Phone = phone
	e.Position = position
	e.MonthlySalary = monthlySalary
	e.UpdatedAt = time.Now()
	e.IncrementVersion()

	return nil
}

// AddWithdrawal records a salary advance
func (e *Employee) AddWithdrawal(amount decimal.Decimal, date time.Time, note string) (*Withdrawal, error) {
	if amount.LessThanOrEqual(decimal.Zero) {
		return nil, shared.NewDomainError("INVALID_AMOUNT", "Withdrawal amount must be positive")
	}
	if date.IsZero() {
		date = time.Now()
	}

	now := time.Now()
	w := Withdrawal{
		ID:         uuid.New(),
		EmployeeID: e.ID,
		Amount:     amount,
		Date:       date,
		Note:       note,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	e.Withdrawals = append(e.Withdrawals, w)
	e.UpdatedAt = now

	return &w, nil
}

// RemoveWithdrawal deletes a salary advance by ID
func (e *Employee) RemoveWithdrawal(withdrawalID uuid.UUID) error {
	for idx, w := range e.Withdrawals {
		if w.ID == withdrawalID {
			e.Withdrawals = append(e.Withdrawals[:idx], e.Withdrawals[idx+1:]...)
			e.UpdatedAt = time.Now()
			return nil
		}
	}
	return shared.NewDomainError("WITHDRAWAL_NOT_FOUND", "Withdrawal not found")
}

// TotalWithdrawn sums the advances in the given month
func (e *Employee) TotalWithdrawn(year int, month time.Month) decimal.Decimal {
	total := decimal.Zero
	for _, w := range e.Withdrawals {
		if w.Date.Year() == year && w.Date.Month() == month {
			total = total.Add(w.Amount)
		}
	}
	return total
}

// RemainingSalary is the monthly salary minus advances for the given month,
// clamped at zero
func (e *Employee) RemainingSalary(year int, month time.Month) decimal.Decimal {
	remaining := e.MonthlySalary.Sub(e.TotalWithdrawn(year, month))
	if remaining.IsNegative() {
		return decimal.Zero
	}
	return remaining
}

// SetHiredAt sets the hire date
func (e *Employee) SetHiredAt(t time.Time) {
	e.HiredAt = &t
	e.UpdatedAt = time.Now()
}

// Deactivate marks the employee as no longer on the payroll
func (e *Employee) Deactivate() {
	e.Active = false
	e.UpdatedAt = time.Now()
	e.IncrementVersion()
}

// Activate returns the employee to the payroll
func (e *Employee) Activate() {
	e.Active = true
	e.UpdatedAt = time.Now()
	e.IncrementVersion()
}

// SetNotes sets the employee notes
func (e *Employee) SetNotes(notes string) {
	e.Notes = notes
	e.UpdatedAt = time.Now()
}
