package hr

import (
	"time"

	"github.com/fruitflow/backend/internal/domain/hr"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CreateEmployeeRequest represents a request to create a new employee
type CreateEmployeeRequest struct {
	Name          string          `json:"name" binding:"required,min=1,max=200"`
	Phone         string          `json:"phone" binding:"max=50"`
	Position      string          `json:"position" binding:"max=100"`
	MonthlySalary decimal.Decimal `json:"monthly_salary"`
	HiredAt       *time.Time      `json:"hired_at"`
	Notes         string          `json:"notes"`
}

// UpdateEmployeeRequest represents a request to update an employee
type UpdateEmployeeRequest struct {
	Name          *string          `json:"name" binding:"omitempty,min=1,max=200"`
	Phone         *string          `json:"phone" binding:"omitempty,max=50"`
	Position      *string          `json:"position" binding:"omitempty,max=100"`
	MonthlySalary *decimal.Decimal `json:"monthly_salary"`
	Active        *bool            `json:"active"`
	Notes         *string          `json:"notes"`
}

// AddWithdrawalRequest records a salary advance
type AddWithdrawalRequest struct {
	Amount decimal.Decimal `json:"amount"`
	Date   time.Time       `json:"date"`
	Note   string          `json:"note"`
}

// WithdrawalResponse represents a salary advance in API responses
type WithdrawalResponse struct {
	ID     uuid.UUID       `json:"id"`
	Amount decimal.Decimal `json:"amount"`
	Date   time.Time       `json:"date"`
	Note   string          `json:"note,omitempty"`
}

// EmployeeResponse represents an employee in API responses
type EmployeeResponse struct {
	ID            uuid.UUID            `json:"id"`
	Name          string               `json:"name"`
	Phone         string               `json:"phone,omitempty"`
	Position      string               `json:"position,omitempty"`
	MonthlySalary decimal.Decimal      `json:"monthly_salary"`
	HiredAt       *time.Time           `json:"hired_at,omitempty"`
	Active        bool                 `json:"active"`
	Withdrawals   []WithdrawalResponse `json:"withdrawals"`
	Notes         string               `json:"notes,omitempty"`
	CreatedAt     time.Time            `json:"created_at"`
	UpdatedAt     time.Time            `json:"updated_at"`
}

// EmployeeListFilter carries list query parameters
type EmployeeListFilter struct {
	Page     int    `form:"page"`
	PageSize int    `form:"page_size"`
	Search   string `form:"search"`
	Active   *bool  `form:"active"`
}

// PayrollResponse is an employee's payroll position for one month
type PayrollResponse struct {
	EmployeeID     uuid.UUID       `json:"employee_id"`
	Year           int             `json:"year"`
	Month          int             `json:"month"`
	MonthlySalary  decimal.Decimal `json:"monthly_salary"`
	TotalWithdrawn decimal.Decimal `json:"total_withdrawn"`
	Remaining      decimal.Decimal `json:"remaining"`
}

// ToEmployeeResponse converts a domain employee to its response shape
func ToEmployeeResponse(employee *hr.Employee) EmployeeResponse {
	withdrawals := make([]WithdrawalResponse, len(employee.Withdrawals))
	for i, w := range employee.Withdrawals {
		withdrawals[i] = WithdrawalResponse{
			ID:     w.ID,
			Amount: w.Amount,
			Date:   w.Date,
			Note:   w.Note,
		}
	}

	return EmployeeResponse{
		ID:            employee.ID,
		Name:          employee.Name,
		Phone:         employee.Phone,
		Position:      employee.Position,
		MonthlySalary: employee.MonthlySalary,
		HiredAt:       employee.HiredAt,
		Active:        employee.Active,
		Withdrawals:   withdrawals,
		Notes:         employee.Notes,
		CreatedAt:     employee.CreatedAt,
		UpdatedAt:     employee.UpdatedAt,
	}
}

// ToEmployeeResponses converts domain employees to their response shape
func ToEmployeeResponses(employees []hr.Employee) []EmployeeResponse {
	responses := make([]EmployeeResponse, len(employees))
	for i := range employees {
		responses[i] = ToEmployeeResponse(&employees[i])
	}
	return responses
}
