package persistence

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/fruitflow/backend/internal/domain/basket"
	"github.com/fruitflow/backend/internal/domain/billing"
	"github.com/fruitflow/backend/internal/domain/shared"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormBillRepository implements BillRepository using GORM
type GormBillRepository struct {
	db *gorm.DB
}

// NewGormBillRepository creates a new GormBillRepository
func NewGormBillRepository(db *gorm.DB) *GormBillRepository {
	return &GormBillRepository{db: db}
}

// FindByID finds a bill by its ID
func (r *GormBillRepository) FindByID(ctx context.Context, id uuid.UUID) (*billing.Bill, error) {
	var bill billing.Bill
	if err := r.db.WithContext(ctx).
		Preload("Items").
		Preload("Packaging").
		First(&bill, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &bill, nil
}

// FindByIDForOwner finds a bill by ID scoped to an owner
func (r *GormBillRepository) FindByIDForOwner(ctx context.Context, ownerID, id uuid.UUID) (*billing.Bill, error) {
	var bill billing.Bill
	if err := r.db.WithContext(ctx).
		Preload("Items").
		Preload("Packaging").
		Where("owner_id = ? AND id = ?", ownerID, id).
		First(&bill).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &bill, nil
}

// FindByBillNumber finds a bill by bill number for an owner
func (r *GormBillRepository) FindByBillNumber(ctx context.Context, ownerID uuid.UUID, billNumber string) (*billing.Bill, error) {
	var bill billing.Bill
	if err := r.db.WithContext(ctx).
		Preload("Items").
		Preload("Packaging").
		Where("owner_id = ? AND bill_number = ?", ownerID, billNumber).
		First(&bill).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &bill, nil
}

// FindAllForOwner finds all bills for an owner with filtering
func (r *GormBillRepository) FindAllForOwner(ctx context.Context, ownerID uuid.UUID, filter shared.Filter) ([]billing.Bill, error) {
	var bills []billing.Bill
	query := r.applyFilter(
		r.db.WithContext(ctx).Model(&billing.Bill{}).
			Preload("Items").
			Preload("Packaging").
			Where("owner_id = ?", ownerID),
		filter,
	)

	if err := query.Find(&bills).Error; err != nil {
		return nil, err
	}
	return bills, nil
}

// SaveWithMirror saves the bill with its child collections, rewrites the
// basket ledger mirror rows tied to the bill, and persists the passed domain
// events to the outbox. Everything runs in one transaction so a failure
// anywhere leaves no partial state behind.
func (r *GormBillRepository) SaveWithMirror(ctx context.Context, bill *billing.Bill, mirror []basket.Entry, events []shared.DomainEvent) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Items", "Packaging").Save(bill).Error; err != nil {
			return err
		}

		if err := replaceBillItems(tx, bill); err != nil {
			return err
		}
		if err := replaceBillPackaging(tx, bill); err != nil {
			return err
		}

		// The ledger mirror is rewritten wholesale: old rows for this bill go,
		// the current deduct lines come back
		if err := tx.Where("bill_id = ?", bill.ID).Delete(&basket.Entry{}).Error; err != nil {
			return err
		}
		for i := range mirror {
			if err := tx.Create(&mirror[i]).Error; err != nil {
				return err
			}
		}

		return saveEventsToOutbox(tx, bill.OwnerID, events)
	})
}

// replaceBillItems syncs the bill_items rows with the aggregate's collection.
// Rows are updated in place where IDs survive, so readers never observe the
// bill without items.
func replaceBillItems(tx *gorm.DB, bill *billing.Bill) error {
	currentIDs := make([]uuid.UUID, len(bill.Items))
	for i, item := range bill.Items {
		currentIDs[i] = item.ID
	}

	if len(currentIDs) > 0 {
		if err := tx.Where("bill_id = ? AND id NOT IN ?", bill.ID, currentIDs).
			Delete(&billing.BillItem{}).Error; err != nil {
			return err
		}
	} else {
		if err := tx.Where("bill_id = ?", bill.ID).
			Delete(&billing.BillItem{}).Error; err != nil {
			return err
		}
	}

	for i := range bill.Items {
		bill.Items[i].BillID = bill.ID
		if err := tx.Save(&bill.Items[i]).Error; err != nil {
			return err
		}
	}
	return nil
}

// replaceBillPackaging syncs the packaging rows the same way as items
func replaceBillPackaging(tx *gorm.DB, bill *billing.Bill) error {
	currentIDs := make([]uuid.UUID, len(bill.Packaging))
	for i, line := range bill.Packaging {
		currentIDs[i] = line.ID
	}

	if len(currentIDs) > 0 {
		if err := tx.Where("bill_id = ? AND id NOT IN ?", bill.ID, currentIDs).
			Delete(&billing.PackagingLine{}).Error; err != nil {
			return err
		}
	} else {
		if err := tx.Where("bill_id = ?", bill.ID).
			Delete(&billing.PackagingLine{}).Error; err != nil {
			return err
		}
	}

	for i := range bill.Packaging {
		bill.Packaging[i].BillID = bill.ID
		if err := tx.Save(&bill.Packaging[i]).Error; err != nil {
			return err
		}
	}
	return nil
}

// saveEventsToOutbox serializes domain events and writes them to the outbox
// inside the caller's transaction
func saveEventsToOutbox(tx *gorm.DB, ownerID uuid.UUID, events []shared.DomainEvent) error {
	if len(events) == 0 {
		return nil
	}

	entries := make([]*shared.OutboxEntry, 0, len(events))
	for _, event := range events {
		payload, err := json.Marshal(event)
		if err != nil {
			return fmt.Errorf("failed to serialize event %s: %w", event.EventType(), err)
		}
		entries = append(entries, shared.NewOutboxEntry(ownerID, event, payload))
	}

	return tx.Create(entries).Error
}

// DeleteForOwner removes a bill with its items, packaging, schedule and mirror
// rows in one transaction, persisting the passed events to the outbox
func (r *GormBillRepository) DeleteForOwner(ctx context.Context, ownerID, id uuid.UUID, events []shared.DomainEvent) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var bill billing.Bill
		if err := tx.Where("owner_id = ? AND id = ?", ownerID, id).First(&bill).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return shared.ErrNotFound
			}
			return err
		}

		if err := tx.Where("bill_id = ?", id).Delete(&billing.BillItem{}).Error; err != nil {
			return err
		}
		if err := tx.Where("bill_id = ?", id).Delete(&billing.PackagingLine{}).Error; err != nil {
			return err
		}
		if err := tx.Where("bill_id = ?", id).Delete(&billing.Installment{}).Error; err != nil {
			return err
		}
		if err := tx.Where("bill_id = ?", id).Delete(&basket.Entry{}).Error; err != nil {
			return err
		}

		result := tx.Delete(&billing.Bill{}, "owner_id = ? AND id = ?", ownerID, id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return shared.ErrNotFound
		}

		return saveEventsToOutbox(tx, ownerID, events)
	})
}

// CountForOwner counts bills for an owner with optional filters
func (r *GormBillRepository) CountForOwner(ctx context.Context, ownerID uuid.UUID, filter shared.Filter) (int64, error) {
	var count int64
	query := r.db.WithContext(ctx).Model(&billing.Bill{}).Where("owner_id = ?", ownerID)
	query = r.applyFilterWithoutPagination(query, filter)

	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// DistinctCustomerNames lists customer names used on an owner's bills
func (r *GormBillRepository) DistinctCustomerNames(ctx context.Context, ownerID uuid.UUID, prefix string, limit int) ([]string, error) {
	var names []string
	query := r.db.WithContext(ctx).
		Model(&billing.Bill{}).
		Distinct("customer_name").
		Where("owner_id = ?", ownerID)

	if prefix != "" {
		query = query.Where("customer_name ILIKE ?", prefix+"%")
	}

	if err := query.Order("customer_name ASC").Limit(limit).Pluck("customer_name", &names).Error; err != nil {
		return nil, err
	}
	return names, nil
}

// ExistsByBillNumber checks if a bill number exists for an owner
func (r *GormBillRepository) ExistsByBillNumber(ctx context.Context, ownerID uuid.UUID, billNumber string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&billing.Bill{}).
		Where("owner_id = ? AND bill_number = ?", ownerID, billNumber).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// GenerateBillNumber generates a unique bill number for an owner.
// Format: FF-YYYY-NNNNN (e.g., FF-2026-00001)
func (r *GormBillRepository) GenerateBillNumber(ctx context.Context, ownerID uuid.UUID) (string, error) {
	year := time.Now().Year()
	prefix := fmt.Sprintf("FF-%d-", year)

	var lastBill billing.Bill
	err := r.db.WithContext(ctx).
		Model(&billing.Bill{}).
		Where("owner_id = ? AND bill_number LIKE ?", ownerID, prefix+"%").
		Order("bill_number DESC").
		First(&lastBill).Error

	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return "", err
	}

	var nextNum int64 = 1
	if err == nil && lastBill.BillNumber != "" {
		parts := strings.Split(lastBill.BillNumber, "-")
		if len(parts) == 3 {
			var num int64
			if _, parseErr := fmt.Sscanf(parts[2], "%d", &num); parseErr == nil {
				nextNum = num + 1
			}
		}
	}

	billNumber := fmt.Sprintf("%s%05d", prefix, nextNum)

	exists, err := r.ExistsByBillNumber(ctx, ownerID, billNumber)
	if err != nil {
		return "", err
	}
	if exists {
		for i := 0; i < 100; i++ {
			nextNum++
			billNumber = fmt.Sprintf("%s%05d", prefix, nextNum)
			exists, err = r.ExistsByBillNumber(ctx, ownerID, billNumber)
			if err != nil {
				return "", err
			}
			if !exists {
				break
			}
		}
	}

	return billNumber, nil
}

// applyFilter applies filter options to the query
func (r *GormBillRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	query = r.applyFilterWithoutPagination(query, filter)

	if filter.Page > 0 && filter.PageSize > 0 {
		offset := (filter.Page - 1) * filter.PageSize
		query = query.Offset(offset).Limit(filter.PageSize)
	}

	if filter.OrderBy != "" {
		orderDir := "ASC"
		if strings.ToLower(filter.OrderDir) == "desc" {
			orderDir = "DESC"
		}
		query = query.Order(filter.OrderBy + " " + orderDir)
	} else {
		query = query.Order("bill_date DESC")
	}

	return query
}

// applyFilterWithoutPagination applies filter options without pagination
func (r *GormBillRepository) applyFilterWithoutPagination(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if filter.Search != "" {
		searchPattern := "%" + filter.Search + "%"
		query = query.Where("bill_number ILIKE ? OR customer_name ILIKE ?",
			searchPattern, searchPattern)
	}

	for key, value := range filter.Filters {
		switch key {
		case "type":
			query = query.Where("type = ?", value)
		case "status":
			query = query.Where("status = ?", value)
		case "customer_name":
			query = query.Where("customer_name = ?", value)
		case "date_from":
			if t, ok := parseFilterDate(value); ok {
				query = query.Where("bill_date >= ?", t)
			}
		case "date_to":
			if t, ok := parseFilterDate(value); ok {
				// Inclusive of the whole end day
				query = query.Where("bill_date < ?", t.Add(24*time.Hour))
			}
		}
	}

	return query
}

// parseFilterDate accepts time.Time values and YYYY-MM-DD strings
func parseFilterDate(value any) (time.Time, bool) {
	switch v := value.(type) {
	case time.Time:
		return v, true
	case string:
		if t, err := time.Parse("2006-01-02", v); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// Ensure GormBillRepository implements BillRepository
var _ billing.BillRepository = (*GormBillRepository)(nil)
