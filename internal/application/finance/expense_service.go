package finance

import (
	"context"

	"github.com/fruitflow/backend/internal/domain/finance"
	"github.com/fruitflow/backend/internal/domain/shared"
	"github.com/fruitflow/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
)

// ExpenseService handles expense record operations
type ExpenseService struct {
	expenseRepo finance.ExpenseRepository
}

// NewExpenseService creates a new ExpenseService
func NewExpenseService(expenseRepo finance.ExpenseRepository) *ExpenseService {
	return &ExpenseService{
		expenseRepo: expenseRepo,
	}
}

// Create creates a new expense
func (s *ExpenseService) Create(ctx context.Context, ownerID uuid.UUID, req CreateExpenseRequest) (*ExpenseResponse, error) {
	expense, err := finance.NewExpense(ownerID, req.Category, req.Description, valueobject.NewMoneyTHB(req.Amount), req.SpentAt)
	if err != nil {
		return nil, err
	}
	if req.Remark != "" {
		expense.SetRemark(req.Remark)
	}

	if err := s.expenseRepo.Save(ctx, expense); err != nil {
		return nil, err
	}

	response := ToExpenseResponse(expense)
	return &response, nil
}

// GetByID retrieves an expense by ID
func (s *ExpenseService) GetByID(ctx context.Context, ownerID, expenseID uuid.UUID) (*ExpenseResponse, error) {
	expense, err := s.expenseRepo.FindByIDForOwner(ctx, ownerID, expenseID)
	if err != nil {
		return nil, err
	}

	response := ToExpenseResponse(expense)
	return &response, nil
}

// List retrieves expenses with filtering and pagination
func (s *ExpenseService) List(ctx context.Context, ownerID uuid.UUID, filter ExpenseListFilter) ([]ExpenseResponse, int64, error) {
	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.PageSize <= 0 {
		filter.PageSize = 20
	}

	domainFilter := shared.Filter{
		Page:     filter.Page,
		PageSize: filter.PageSize,
		OrderBy:  "spent_at",
		OrderDir: "desc",
		Search:   filter.Search,
		Filters:  make(map[string]any),
	}
	if filter.Category != "" {
		domainFilter.Filters["category"] = filter.Category
	}
	if filter.DateFrom != "" {
		domainFilter.Filters["date_from"] = filter.DateFrom
	}
	if filter.DateTo != "" {
		domainFilter.Filters["date_to"] = filter.DateTo
	}

	expenses, err := s.expenseRepo.FindAllForOwner(ctx, ownerID, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	total, err := s.expenseRepo.CountForOwner(ctx, ownerID, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	return ToExpenseResponses(expenses), total, nil
}

// Update updates an expense
func (s *ExpenseService) Update(ctx context.Context, ownerID, expenseID uuid.UUID, req UpdateExpenseRequest) (*ExpenseResponse, error) {
	expense, err := s.expenseRepo.FindByIDForOwner(ctx, ownerID, expenseID)
	if err != nil {
		return nil, err
	}

	category := expense.Category
	description := expense.Description
	amount := expense.Amount
	spentAt := expense.SpentAt
	if req.Category != nil {
		category = *req.Category
	}
	if req.Description != nil {
		description = *req.Description
	}
	if req.Amount != nil {
		amount = *req.Amount
	}
	if req.SpentAt != nil {
		spentAt = *req.SpentAt
	}

	if err := expense.Update(category, description, valueobject.NewMoneyTHB(amount), spentAt); err != nil {
		return nil, err
	}
	if req.Remark != nil {
		expense.SetRemark(*req.Remark)
	}

	if err := s.expenseRepo.Save(ctx, expense); err != nil {
		return nil, err
	}

	response := ToExpenseResponse(expense)
	return &response, nil
}

// Delete removes an expense
func (s *ExpenseService) Delete(ctx context.Context, ownerID, expenseID uuid.UUID) error {
	if _, err := s.expenseRepo.FindByIDForOwner(ctx, ownerID, expenseID); err != nil {
		return err
	}
	return s.expenseRepo.DeleteForOwner(ctx, ownerID, expenseID)
}
