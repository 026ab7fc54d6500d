package messaging

import (
	"context"

	"github.com/google/uuid"

	"github.com/fruitflow/backend/internal/domain/messaging"
	"github.com/fruitflow/backend/internal/domain/partner"
	"github.com/fruitflow/backend/internal/domain/shared"
)

// ContactService handles chat contact management
type ContactService struct {
	contactRepo  messaging.ContactRepository
	customerRepo partner.CustomerRepository
}

// NewContactService creates a new ContactService
func NewContactService(contactRepo messaging.ContactRepository, customerRepo partner.CustomerRepository) *ContactService {
	return &ContactService{
		contactRepo:  contactRepo,
		customerRepo: customerRepo,
	}
}

// List retrieves contacts with pagination and filtering
func (s *ContactService) List(ctx context.Context, ownerID uuid.UUID, filter ContactListFilter) ([]ContactResponse, int64, error) {
	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.PageSize <= 0 {
		filter.PageSize = 20
	}

	domainFilter := shared.Filter{
		Page:     filter.Page,
		PageSize: filter.PageSize,
		Search:   filter.Search,
		Filters:  make(map[string]any),
	}
	if filter.Followed != nil {
		domainFilter.Filters["followed"] = *filter.Followed
	}
	if filter.Linked != nil {
		domainFilter.Filters["linked"] = *filter.Linked
	}

	contacts, err := s.contactRepo.FindAllForOwner(ctx, ownerID, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	total, err := s.contactRepo.CountForOwner(ctx, ownerID, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	return ToContactResponses(contacts), total, nil
}

// GetByID retrieves one contact
func (s *ContactService) GetByID(ctx context.Context, ownerID, contactID uuid.UUID) (*ContactResponse, error) {
	contact, err := s.contactRepo.FindByIDForOwner(ctx, ownerID, contactID)
	if err != nil {
		return nil, err
	}
	response := ToContactResponse(contact)
	return &response, nil
}

// LinkCustomer links a contact to a customer record by hand, overriding any
// earlier automatic link
func (s *ContactService) LinkCustomer(ctx context.Context, ownerID, contactID uuid.UUID, req LinkCustomerRequest) (*ContactResponse, error) {
	contact, err := s.contactRepo.FindByIDForOwner(ctx, ownerID, contactID)
	if err != nil {
		return nil, err
	}

	customer, err := s.customerRepo.FindByIDForOwner(ctx, ownerID, req.CustomerID)
	if err != nil {
		return nil, err
	}

	if err := contact.LinkCustomer(customer.ID, customer.Name); err != nil {
		return nil, err
	}
	if err := s.contactRepo.Save(ctx, contact); err != nil {
		return nil, err
	}

	response := ToContactResponse(contact)
	return &response, nil
}

// UnlinkCustomer removes the customer link from a contact
func (s *ContactService) UnlinkCustomer(ctx context.Context, ownerID, contactID uuid.UUID) (*ContactResponse, error) {
	contact, err := s.contactRepo.FindByIDForOwner(ctx, ownerID, contactID)
	if err != nil {
		return nil, err
	}

	contact.UnlinkCustomer()
	if err := s.contactRepo.Save(ctx, contact); err != nil {
		return nil, err
	}

	response := ToContactResponse(contact)
	return &response, nil
}
