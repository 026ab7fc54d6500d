package hr

import (
	"context"
	"time"

	"github.com/fruitflow/backend/internal/domain/hr"
	"github.com/fruitflow/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// EmployeeService handles employee and payroll withdrawal operations
type EmployeeService struct {
	employeeRepo hr.EmployeeRepository
}

// NewEmployeeService creates a new EmployeeService
func NewEmployeeService(employeeRepo hr.EmployeeRepository) *EmployeeService {
	return &EmployeeService{
		employeeRepo: employeeRepo,
	}
}

// Create creates a new employee
func (s *EmployeeService) Create(ctx context.Context, ownerID uuid.UUID, req CreateEmployeeRequest) (*EmployeeResponse, error) {
	employee, err := hr.NewEmployee(ownerID, req.Name, req.Phone, req.Position, req.MonthlySalary)
	if err != nil {
		return nil, err
	}
	if req.HiredAt != nil {
		employee.SetHiredAt(*req.HiredAt)
	}
	if req.Notes != "" {
		employee.SetNotes(req.Notes)
	}

	if err := s.employeeRepo.Save(ctx, employee); err != nil {
		return nil, err
	}

	response := ToEmployeeResponse(employee)
	return &response, nil
}

// GetByID retrieves an employee with withdrawals
func (s *EmployeeService) GetByID(ctx context.Context, ownerID, employeeID uuid.UUID) (*EmployeeResponse, error) {
	employee, err := s.employeeRepo.FindByIDForOwner(ctx, ownerID, employeeID)
	if err != nil {
		return nil, err
	}

	response := ToEmployeeResponse(employee)
	return &response, nil
}

// List retrieves employees with filtering and pagination
func (s *EmployeeService) List(ctx context.Context, ownerID uuid.UUID, filter EmployeeListFilter) ([]EmployeeResponse, int64, error) {
	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.PageSize <= 0 {
		filter.PageSize = 20
	}

	domainFilter := shared.Filter{
		Page:     filter.Page,
		PageSize: filter.PageSize,
		OrderBy:  "name",
		OrderDir: "asc",
		Search:   filter.Search,
		Filters:  make(map[string]any),
	}
	if filter.Active != nil {
		domainFilter.Filters["active"] = *filter.Active
	}

	employees, err := s.employeeRepo.FindAllForOwner(ctx, ownerID, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	total, err := s.employeeRepo.CountForOwner(ctx, ownerID, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	return ToEmployeeResponses(employees), total, nil
}

// Update updates an employee
func (s *EmployeeService) Update(ctx context.Context, ownerID, employeeID uuid.UUID, req UpdateEmployeeRequest) (*EmployeeResponse, error) {
	employee, err := s.employeeRepo.FindByIDForOwner(ctx, ownerID, employeeID)
	if err != nil {
		return nil, err
	}

	name := employee.Name
	phone := employee.Phone
	position := employee.Position
	salary := employee.MonthlySalary
	if req.Name != nil {
		name = *req.Name
	}
	if req.Phone != nil {
		phone = *req.Phone
	}
	if req.Position != nil {
		position = *req.Position
	}
	if req.MonthlySalary != nil {
		salary = *req.MonthlySalary
	}

	if err := employee.Update(name, phone, position, salary); err != nil {
		return nil, err
	}
	if req.Active != nil {
		if *req.Active {
			employee.Activate()
		} else {
			employee.Deactivate()
		}
	}
	if req.Notes != nil {
		employee.SetNotes(*req.Notes)
	}

	if err := s.employeeRepo.Save(ctx, employee); err != nil {
		return nil, err
	}

	response := ToEmployeeResponse(employee)
	return &response, nil
}

// Delete removes an employee and its withdrawals
func (s *EmployeeService) Delete(ctx context.Context, ownerID, employeeID uuid.UUID) error {
	if _, err := s.employeeRepo.FindByIDForOwner(ctx, ownerID, employeeID); err != nil {
		return err
	}
	return s.employeeRepo.DeleteForOwner(ctx, ownerID, employeeID)
}

// AddWithdrawal records a salary advance for an employee
func (s *EmployeeService) AddWithdrawal(ctx context.Context, ownerID, employeeID uuid.UUID, req AddWithdrawalRequest) (*EmployeeResponse, error) {
	employee, err := s.employeeRepo.FindByIDForOwner(ctx, ownerID, employeeID)
	if err != nil {
		return nil, err
	}

	if _, err := employee.AddWithdrawal(req.Amount, req.Date, req.Note); err != nil {
		return nil, err
	}

	if err := s.employeeRepo.Save(ctx, employee); err != nil {
		return nil, err
	}

	response := ToEmployeeResponse(employee)
	return &response, nil
}

// RemoveWithdrawal deletes a salary advance
func (s *EmployeeService) RemoveWithdrawal(ctx context.Context, ownerID, employeeID, withdrawalID uuid.UUID) error {
	employee, err := s.employeeRepo.FindByIDForOwner(ctx, ownerID, employeeID)
	if err != nil {
		return err
	}

	if err := employee.RemoveWithdrawal(withdrawalID); err != nil {
		return err
	}

	return s.employeeRepo.Save(ctx, employee)
}

// Payroll returns an employee's payroll position for a month
func (s *EmployeeService) Payroll(ctx context.Context, ownerID, employeeID uuid.UUID, year int, month time.Month) (*PayrollResponse, error) {
	employee, err := s.employeeRepo.FindByIDForOwner(ctx, ownerID, employeeID)
	if err != nil {
		return nil, err
	}

	return &PayrollResponse{
		EmployeeID:     employee.ID,
		Year:           year,
		Month:          int(month),
		MonthlySalary:  employee.MonthlySalary,
		TotalWithdrawn: employee.TotalWithdrawn(year, month),
		Remaining:      employee.RemainingSalary(year, month),
	}, nil
}
