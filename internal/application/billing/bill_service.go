package billing

import (
	"context"

	"github.com/fruitflow/backend/internal/domain/basket"
	"github.com/fruitflow/backend/internal/domain/billing"
	"github.com/fruitflow/backend/internal/domain/shared"
	"github.com/fruitflow/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
)

// BillService handles bill-related business operations. Every write goes
// through BillRepository.SaveWithMirror so the bill, its collections, the
// basket ledger mirror and the outbox event commit or fail together.
type BillService struct {
	billRepo billing.BillRepository
}

// NewBillService creates a new BillService
func NewBillService(billRepo billing.BillRepository) *BillService {
	return &BillService{
		billRepo: billRepo,
	}
}

// Create creates a new bill with its items and packaging
func (s *BillService) Create(ctx context.Context, ownerID uuid.UUID, req CreateBillRequest) (*BillResponse, error) {
	billNumber, err := s.billRepo.GenerateBillNumber(ctx, ownerID)
	if err != nil {
		return nil, err
	}

	bill, err := billing.NewBill(ownerID, billNumber, req.BillDate, billing.BillType(req.Type), req.CustomerName)
	if err != nil {
		return nil, err
	}

	if err := applyItems(bill, req.Items); err != nil {
		return nil, err
	}
	if err := applyPackaging(bill, req.Packaging); err != nil {
		return nil, err
	}
	if !req.ProcessingFee.IsZero() || !req.PaperFee.IsZero() {
		if err := bill.SetSurcharges(valueobject.NewMoneyTHB(req.ProcessingFee), valueobject.NewMoneyTHB(req.PaperFee)); err != nil {
			return nil, err
		}
	}
	if req.Remark != "" {
		bill.SetRemark(req.Remark)
	}

	mirror, err := buildMirror(bill)
	if err != nil {
		return nil, err
	}

	if err := s.billRepo.SaveWithMirror(ctx, bill, mirror, bill.GetDomainEvents()); err != nil {
		return nil, err
	}
	bill.ClearDomainEvents()

	response := ToBillResponse(bill)
	return &response, nil
}

// Update edits a bill in place, replacing its item and packaging collections
// when the request carries them
func (s *BillService) Update(ctx context.Context, ownerID, billID uuid.UUID, req UpdateBillRequest) (*BillResponse, error) {
	bill, err := s.billRepo.FindByIDForOwner(ctx, ownerID, billID)
	if err != nil {
		return nil, err
	}

	if req.BillDate != nil {
		if err := bill.SetBillDate(*req.BillDate); err != nil {
			return nil, err
		}
	}
	if req.CustomerName != nil {
		if err := bill.SetCustomerName(*req.CustomerName); err != nil {
			return nil, err
		}
	}
	if req.Items != nil {
		bill.Items = bill.Items[:0]
		if err := applyItems(bill, req.Items); err != nil {
			return nil, err
		}
	}
	if req.Packaging != nil {
		bill.ClearPackaging()
		if err := applyPackaging(bill, req.Packaging); err != nil {
			return nil, err
		}
	}
	if req.ProcessingFee != nil || req.PaperFee != nil {
		processing := bill.ProcessingFee
		paper := bill.PaperFee
		if req.ProcessingFee != nil {
			processing = *req.ProcessingFee
		}
		if req.PaperFee != nil {
			paper = *req.PaperFee
		}
		if err := bill.SetSurcharges(valueobject.NewMoneyTHB(processing), valueobject.NewMoneyTHB(paper)); err != nil {
			return nil, err
		}
	}
	if req.Remark != nil {
		bill.SetRemark(*req.Remark)
	}

	bill.IncrementVersion()
	bill.MarkUpdated()

	mirror, err := buildMirror(bill)
	if err != nil {
		return nil, err
	}

	if err := s.billRepo.SaveWithMirror(ctx, bill, mirror, bill.GetDomainEvents()); err != nil {
		return nil, err
	}
	bill.ClearDomainEvents()

	response := ToBillResponse(bill)
	return &response, nil
}

// GetByID retrieves a bill by ID
func (s *BillService) GetByID(ctx context.Context, ownerID, billID uuid.UUID) (*BillResponse, error) {
	bill, err := s.billRepo.FindByIDForOwner(ctx, ownerID, billID)
	if err != nil {
		return nil, err
	}

	response := ToBillResponse(bill)
	return &response, nil
}

// List retrieves bills with filtering and pagination
func (s *BillService) List(ctx context.Context, ownerID uuid.UUID, filter BillListFilter) ([]BillListResponse, int64, error) {
	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.PageSize <= 0 {
		filter.PageSize = 20
	}
	if filter.OrderBy == "" {
		filter.OrderBy = "bill_date"
	}
	if filter.OrderDir == "" {
		filter.OrderDir = "desc"
	}

	domainFilter := shared.Filter{
		Page:     filter.Page,
		PageSize: filter.PageSize,
		OrderBy:  filter.OrderBy,
		OrderDir: filter.OrderDir,
		Search:   filter.Search,
		Filters:  make(map[string]any),
	}
	if filter.Type != "" {
		domainFilter.Filters["type"] = filter.Type
	}
	if filter.Status != "" {
		domainFilter.Filters["status"] = filter.Status
	}
	if filter.Customer != "" {
		domainFilter.Filters["customer_name"] = filter.Customer
	}
	if filter.DateFrom != "" {
		domainFilter.Filters["date_from"] = filter.DateFrom
	}
	if filter.DateTo != "" {
		domainFilter.Filters["date_to"] = filter.DateTo
	}

	bills, err := s.billRepo.FindAllForOwner(ctx, ownerID, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	total, err := s.billRepo.CountForOwner(ctx, ownerID, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	return ToBillListResponses(bills), total, nil
}

// Delete removes a bill with its items, packaging, schedule and mirror rows
func (s *BillService) Delete(ctx context.Context, ownerID, billID uuid.UUID) error {
	bill, err := s.billRepo.FindByIDForOwner(ctx, ownerID, billID)
	if err != nil {
		return err
	}

	bill.ClearDomainEvents()
	bill.MarkDeleted()

	return s.billRepo.DeleteForOwner(ctx, ownerID, billID, bill.GetDomainEvents())
}

// CustomerNames lists distinct customer names from an owner's bills, for the
// create-bill autocomplete
func (s *BillService) CustomerNames(ctx context.Context, ownerID uuid.UUID, prefix string, limit int) ([]string, error) {
	if limit <= 0 || limit > 50 {
		limit = 20
	}
	return s.billRepo.DistinctCustomerNames(ctx, ownerID, prefix, limit)
}

func applyItems(bill *billing.Bill, items []BillItemRequest) error {
	if len(items) == 0 {
		return shared.NewDomainError("INVALID_ITEMS", "A bill needs at least one item")
	}
	for _, item := range items {
		if _, err := bill.AddItem(item.ProduceName, item.Quantity, item.UnitWeight, item.Fraction, valueobject.NewMoneyTHB(item.UnitPrice)); err != nil {
			return err
		}
	}
	return nil
}

func applyPackaging(bill *billing.Bill, lines []PackagingRequest) error {
	for _, line := range lines {
		if _, err := bill.AddPackaging(line.BasketType, line.BasketName, line.Quantity, line.Deduct); err != nil {
			return err
		}
	}
	return nil
}

// buildMirror turns the bill's deduct packaging lines into the basket ledger
// rows the save must leave behind. Sell bills only; an empty slice clears any
// previous mirror rows on edit.
func buildMirror(bill *billing.Bill) ([]basket.Entry, error) {
	lines := bill.MirrorEntries()
	entries := make([]basket.Entry, 0, len(lines))
	for _, line := range lines {
		entry, err := basket.NewMirrorEntry(bill.OwnerID, bill.ID, bill.CustomerName, line.BasketType, line.BasketName, line.Quantity, bill.BillDate)
		if err != nil {
			return nil, err
		}
		entries = append(entries, *entry)
	}
	return entries, nil
}
