package billing

import (
	"time"

	"github.com/fruitflow/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// InstallmentStatus is derived from the paid/amount comparison and never set
// directly
type InstallmentStatus string

const (
	InstallmentStatusPending InstallmentStatus = "pending"
	InstallmentStatusPartial InstallmentStatus = "partial"
	InstallmentStatusPaid    InstallmentStatus = "paid"
)

// String returns the string representation of InstallmentStatus
func (s InstallmentStatus) String() string {
	return string(s)
}

// scheduleTolerance is the absolute tolerance allowed between the sum of
// installment amounts and the bill total
var scheduleTolerance = decimal.RequireFromString("0.01")

// Installment is one slice of a bill total with its own due date and
// payment progress
type Installment struct {
	ID         uuid.UUID
	BillID     uuid.UUID
	Number     int // 1-based, contiguous within a bill
	DueDate    time.Time
	Amount     decimal.Decimal
	PaidAmount decimal.Decimal
	Status     InstallmentStatus
	PaidDate   *time.Time
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// NewInstallment creates a pending installment
func NewInstallment(billID uuid.UUID, number int, dueDate time.Time, amount decimal.Decimal) (*Installment, error) {
	if number < 1 {
		return nil, shared.NewDomainError("INVALID_INSTALLMENT_NUMBER", "Installment number must be positive")
	}
	if amount.IsNegative() {
		return nil, shared.NewDomainError("INVALID_AMOUNT", "Installment amount cannot be negative")
	}

	now := time.Now()
	return &Installment{
		ID:         uuid.New(),
		BillID:     billID,
		Number:     number,
		DueDate:    dueDate,
		Amount:     amount,
		PaidAmount: decimal.Zero,
		Status:     InstallmentStatusPending,
		CreatedAt:  now,
		UpdatedAt:  now,
	}, nil
}

// statusFor derives the installment status from paid vs amount
func statusFor(paid, amount decimal.Decimal) InstallmentStatus {
	switch {
	case paid.LessThanOrEqual(decimal.Zero):
		return InstallmentStatusPending
	case paid.GreaterThanOrEqual(amount):
		return InstallmentStatusPaid
	default:
		return InstallmentStatusPartial
	}
}

// RecordPayment sets the paid amount and rederives the status. The paid date
// is stamped on the transition into paid and kept on subsequent saves; editing
// the paid amount back below the installment amount clears it.
func (i *Installment) RecordPayment(paid decimal.Decimal) error {
	if paid.IsNegative() {
		return shared.NewDomainError("INVALID_AMOUNT", "Paid amount cannot be negative")
	}

	i.PaidAmount = paid
	i.applyDerivedStatus()
	i.UpdatedAt = time.Now()
	return nil
}

// UpdateAmount changes the installment's slice of the bill total. Amount edits
// never move the status or the paid date on their own; the next paid-amount
// change rederives both against the new threshold.
func (i *Installment) UpdateAmount(amount decimal.Decimal) error {
	if amount.IsNegative() {
		return shared.NewDomainError("INVALID_AMOUNT", "Installment amount cannot be negative")
	}

	i.Amount = amount
	i.UpdatedAt = time.Now()
	return nil
}

// UpdateDueDate changes the due date without touching payment state
func (i *Installment) UpdateDueDate(dueDate time.Time) {
	i.DueDate = dueDate
	i.UpdatedAt = time.Now()
}

func (i *Installment) applyDerivedStatus() {
	i.Status = statusFor(i.PaidAmount, i.Amount)
	if i.Status == InstallmentStatusPaid {
		if i.PaidDate == nil {
			now := time.Now()
			i.PaidDate = &now
		}
	} else {
		i.PaidDate = nil
	}
}

// IsPaid returns true when the installment is fully paid
func (i *Installment) IsPaid() bool {
	return i.Status == InstallmentStatusPaid
}

// Schedule is the in-memory installment schedule of a bill. It enforces the
// sum invariant against the bill total and derives the parent bill status.
type Schedule struct {
	BillID       uuid.UUID
	BillTotal    decimal.Decimal
	Installments []Installment
}

// NewSchedule builds a schedule from the installments loaded for a bill,
// ordered by number. An empty set is seeded with a single pending installment
// covering the full bill total, due today.
func NewSchedule(billID uuid.UUID, billTotal decimal.Decimal, existing []Installment) (*Schedule, error) {
	s := &Schedule{
		BillID:       billID,
		BillTotal:    billTotal,
		Installments: existing,
	}
	if len(s.Installments) == 0 {
		first, err := NewInstallment(billID, 1, today(), billTotal)
		if err != nil {
			return nil, err
		}
		s.Installments = []Installment{*first}
	}
	return s, nil
}

func today() time.Time {
	now := time.Now()
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
}

// Add appends a new installment numbered count+1. Its amount defaults to the
// unpaid remainder of the bill, clamped at zero: the common case is a customer
// who paid part of the first installment and wants to schedule the rest.
func (s *Schedule) Add() (*Installment, error) {
	remainder := s.BillTotal.Sub(s.totalPaid())
	if remainder.IsNegative() {
		remainder = decimal.Zero
	}

	inst, err := NewInstallment(s.BillID, len(s.Installments)+1, today(), remainder)
	if err != nil {
		return nil, err
	}

	s.Installments = append(s.Installments, *inst)
	return inst, nil
}

// Remove deletes the installment at index. A bill must always keep at least
// one installment record, so removing the last one is rejected.
func (s *Schedule) Remove(index int) error {
	if index < 0 || index >= len(s.Installments) {
		return shared.NewDomainError("INSTALLMENT_NOT_FOUND", "Installment index out of range")
	}
	if len(s.Installments) == 1 {
		return shared.ErrLastInstallment
	}

	s.Installments = append(s.Installments[:index], s.Installments[index+1:]...)
	return nil
}

// RecordPayment updates the paid amount of the installment at index
func (s *Schedule) RecordPayment(index int, paid decimal.Decimal) error {
	if index < 0 || index >= len(s.Installments) {
		return shared.NewDomainError("INSTALLMENT_NOT_FOUND", "Installment index out of range")
	}
	return s.Installments[index].RecordPayment(paid)
}

// UpdateAmount updates the amount of the installment at index
func (s *Schedule) UpdateAmount(index int, amount decimal.Decimal) error {
	if index < 0 || index >= len(s.Installments) {
		return shared.NewDomainError("INSTALLMENT_NOT_FOUND", "Installment index out of range")
	}
	return s.Installments[index].UpdateAmount(amount)
}

// UpdateDueDate updates the due date of the installment at index
func (s *Schedule) UpdateDueDate(index int, dueDate time.Time) error {
	if index < 0 || index >= len(s.Installments) {
		return shared.NewDomainError("INSTALLMENT_NOT_FOUND", "Installment index out of range")
	}
	s.Installments[index].UpdateDueDate(dueDate)
	return nil
}

// Validate checks the sum invariant: installment amounts must add up to the
// bill total within 0.01 absolute tolerance
func (s *Schedule) Validate() error {
	sum := decimal.Zero
	for _, inst := range s.Installments {
		sum = sum.Add(inst.Amount)
	}
	if sum.Sub(s.BillTotal).Abs().GreaterThan(scheduleTolerance) {
		return shared.ErrScheduleMismatch
	}
	return nil
}

// Renumber rewrites installment numbers sequentially from 1, preserving order
func (s *Schedule) Renumber() {
	for idx := range s.Installments {
		s.Installments[idx].Number = idx + 1
	}
}

// BillStatus derives the parent bill status: paid when every installment is
// paid, due when nothing has been paid at all, installment otherwise
func (s *Schedule) BillStatus() BillStatus {
	allPaid := true
	anyPaid := false
	for _, inst := range s.Installments {
		if !inst.IsPaid() {
			allPaid = false
		}
		if inst.PaidAmount.GreaterThan(decimal.Zero) {
			anyPaid = true
		}
	}
	switch {
	case allPaid:
		return BillStatusPaid
	case anyPaid:
		return BillStatusInstallment
	default:
		return BillStatusDue
	}
}

func (s *Schedule) totalPaid() decimal.Decimal {
	total := decimal.Zero
	for _, inst := range s.Installments {
		total = total.Add(inst.PaidAmount)
	}
	return total
}
