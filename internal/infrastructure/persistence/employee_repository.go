package persistence

import (
	"context"
	"errors"
	"strings"

	"github.com/fruitflow/backend/internal/domain/hr"
	"github.com/fruitflow/backend/internal/domain/shared"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormEmployeeRepository implements EmployeeRepository using GORM
type GormEmployeeRepository struct {
	db *gorm.DB
}

// NewGormEmployeeRepository creates a new GormEmployeeRepository
func NewGormEmployeeRepository(db *gorm.DB) *GormEmployeeRepository {
	return &GormEmployeeRepository{db: db}
}

// Save creates or updates an employee, replacing the withdrawal collection in
// the same transaction
func (r *GormEmployeeRepository) Save(ctx context.Context, employee *hr.Employee) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Withdrawals").Save(employee).Error; err != nil {
			return err
		}

		currentIDs := make([]uuid.UUID, len(employee.Withdrawals))
		for i, w := range employee.Withdrawals {
			currentIDs[i] = w.ID
		}

		if len(currentIDs) > 0 {
			if err := tx.Where("employee_id = ? AND id NOT IN ?", employee.ID, currentIDs).
				Delete(&hr.Withdrawal{}).Error; err != nil {
				return err
			}
		} else {
			if err := tx.Where("employee_id = ?", employee.ID).
				Delete(&hr.Withdrawal{}).Error; err != nil {
				return err
			}
		}

		for i := range employee.Withdrawals {
			employee.Withdrawals[i].EmployeeID = employee.ID
			if err := tx.Save(&employee.Withdrawals[i]).Error; err != nil {
				return err
			}
		}

		return nil
	})
}

// FindByIDForOwner finds an employee by ID scoped to an owner
func (r *GormEmployeeRepository) FindByIDForOwner(ctx context.Context, ownerID, id uuid.UUID) (*hr.Employee, error) {
	var employee hr.Employee
	if err := r.db.WithContext(ctx).
		Preload("Withdrawals", func(db *gorm.DB) *gorm.DB {
			return db.Order("date ASC")
		}).
		Where("owner_id = ? AND id = ?", ownerID, id).
		First(&employee).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &employee, nil
}

// FindAllForOwner finds employees for an owner with filtering
func (r *GormEmployeeRepository) FindAllForOwner(ctx context.Context, ownerID uuid.UUID, filter shared.Filter) ([]hr.Employee, error) {
	var employees []hr.Employee
	query := r.db.WithContext(ctx).
		Model(&hr.Employee{}).
		Preload("Withdrawals").
		Where("owner_id = ?", ownerID)
	query = applyEmployeeFilter(query, filter)

	if filter.Page > 0 && filter.PageSize > 0 {
		offset := (filter.Page - 1) * filter.PageSize
		query = query.Offset(offset).Limit(filter.PageSize)
	}

	orderBy := "name"
	if filter.OrderBy != "" {
		orderBy = filter.OrderBy
	}
	orderDir := "ASC"
	if strings.ToLower(filter.OrderDir) == "desc" {
		orderDir = "DESC"
	}

	if err := query.Order(orderBy + " " + orderDir).Find(&employees).Error; err != nil {
		return nil, err
	}
	return employees, nil
}

// DeleteForOwner removes an employee and its withdrawals
func (r *GormEmployeeRepository) DeleteForOwner(ctx context.Context, ownerID, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var employee hr.Employee
		if err := tx.Where("owner_id = ? AND id = ?", ownerID, id).First(&employee).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return shared.ErrNotFound
			}
			return err
		}

		if err := tx.Where("employee_id = ?", id).Delete(&hr.Withdrawal{}).Error; err != nil {
			return err
		}

		return tx.Delete(&hr.Employee{}, "owner_id = ? AND id = ?", ownerID, id).Error
	})
}

// CountForOwner counts employees for an owner
func (r *GormEmployeeRepository) CountForOwner(ctx context.Context, ownerID uuid.UUID, filter shared.Filter) (int64, error) {
	var count int64
	query := r.db.WithContext(ctx).
		Model(&hr.Employee{}).
		Where("owner_id = ?", ownerID)
	query = applyEmployeeFilter(query, filter)

	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func applyEmployeeFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if filter.Search != "" {
		searchPattern := "%" + filter.Search + "%"
		query = query.Where("name ILIKE ? OR position ILIKE ?", searchPattern, searchPattern)
	}
	for key, value := range filter.Filters {
		switch key {
		case "active":
			query = query.Where("active = ?", value)
		}
	}
	return query
}

// Ensure GormEmployeeRepository implements EmployeeRepository
var _ hr.EmployeeRepository = (*GormEmployeeRepository)(nil)
