package basket

import (
	"context"

	"github.com/fruitflow/backend/internal/domain/basket"
	"github.com/fruitflow/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// Service handles basket ledger operations. Manual entries only; mirror
// entries for sell bills are written by the bill save transaction.
type Service struct {
	entryRepo basket.EntryRepository
}

// NewService creates a new basket Service
func NewService(entryRepo basket.EntryRepository) *Service {
	return &Service{
		entryRepo: entryRepo,
	}
}

// Create records a manual basket movement
func (s *Service) Create(ctx context.Context, ownerID uuid.UUID, req CreateEntryRequest) (*EntryResponse, error) {
	entry, err := basket.NewEntry(ownerID, req.CustomerName, req.BasketType, req.BasketName, basket.Flow(req.Flow), req.Quantity, req.EntryDate)
	if err != nil {
		return nil, err
	}
	if req.Remark != "" {
		entry.SetRemark(req.Remark)
	}

	if err := s.entryRepo.Save(ctx, entry); err != nil {
		return nil, err
	}

	response := ToEntryResponse(entry)
	return &response, nil
}

// List returns a customer's ledger entries, oldest first
func (s *Service) List(ctx context.Context, ownerID uuid.UUID, filter EntryListFilter) ([]EntryResponse, int64, error) {
	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.PageSize <= 0 {
		filter.PageSize = 50
	}

	domainFilter := shared.Filter{
		Page:     filter.Page,
		PageSize: filter.PageSize,
		OrderBy:  "entry_date",
		OrderDir: "asc",
	}

	entries, err := s.entryRepo.FindByCustomer(ctx, ownerID, filter.Customer, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	total, err := s.entryRepo.CountByCustomer(ctx, ownerID, filter.Customer)
	if err != nil {
		return nil, 0, err
	}

	return ToEntryResponses(entries), total, nil
}

// Balance computes a customer's net holdings per basket class from the full
// flow log, in fetch order
func (s *Service) Balance(ctx context.Context, ownerID uuid.UUID, customerName string) (*BalanceResponse, error) {
	if customerName == "" {
		return nil, shared.NewDomainError("INVALID_CUSTOMER_NAME", "Customer name cannot be empty")
	}

	entries, err := s.entryRepo.FindAllByCustomer(ctx, ownerID, customerName)
	if err != nil {
		return nil, err
	}

	return &BalanceResponse{
		CustomerName: customerName,
		Balances:     basket.Summarize(entries),
	}, nil
}

// Delete removes a manual entry. Entries mirroring a bill cannot be deleted
// here; they disappear when the bill drops its deduct packaging.
func (s *Service) Delete(ctx context.Context, ownerID, entryID uuid.UUID) error {
	entry, err := s.entryRepo.FindByIDForOwner(ctx, ownerID, entryID)
	if err != nil {
		return err
	}
	if entry.BillID != nil {
		return shared.NewDomainError("MIRROR_ENTRY", "Entry belongs to a bill and is managed by it")
	}

	return s.entryRepo.DeleteForOwner(ctx, ownerID, entryID)
}

// CustomerNames lists customer names present in the ledger for autocomplete
func (s *Service) CustomerNames(ctx context.Context, ownerID uuid.UUID, prefix string, limit int) ([]string, error) {
	if limit <= 0 || limit > 50 {
		limit = 20
	}
	return s.entryRepo.DistinctCustomerNames(ctx, ownerID, prefix, limit)
}
