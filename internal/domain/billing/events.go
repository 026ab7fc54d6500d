package billing

import (
	"time"

	"github.com/fruitflow/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Aggregate type constant
const AggregateTypeBill = "Bill"

// Event type constants
const (
	EventTypeBillCreated = "BillCreated"
	EventTypeBillUpdated = "BillUpdated"
	EventTypeBillDeleted = "BillDeleted"
)

// BillItemInfo represents item information carried in bill events
type BillItemInfo struct {
	ItemID      uuid.UUID       `json:"item_id"`
	ProduceName string          `json:"produce_name"`
	Quantity    decimal.Decimal `json:"quantity"`
	UnitWeight  decimal.Decimal `json:"unit_weight"`
	Fraction    decimal.Decimal `json:"fraction"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	TotalWeight decimal.Decimal `json:"total_weight"`
	Amount      decimal.Decimal `json:"amount"`
}

func billItemInfos(bill *Bill) []BillItemInfo {
	items := make([]BillItemInfo, len(bill.Items))
	for i, item := range bill.Items {
		items[i] = BillItemInfo{
			ItemID:      item.ID,
			ProduceName: item.ProduceName,
			Quantity:    item.Quantity,
			UnitWeight:  item.UnitWeight,
			Fraction:    item.Fraction,
			UnitPrice:   item.UnitPrice,
			TotalWeight: item.TotalWeight,
			Amount:      item.Amount,
		}
	}
	return items
}

// BillCreatedEvent is raised when a new bill is saved for the first time.
// The automation webhook receives its payload verbatim.
type BillCreatedEvent struct {
	shared.BaseDomainEvent
	BillID       uuid.UUID       `json:"bill_id"`
	BillNumber   string          `json:"bill_number"`
	BillDate     time.Time       `json:"bill_date"`
	BillType     string          `json:"bill_type"`
	CustomerName string          `json:"customer_name"`
	Items        []BillItemInfo  `json:"items"`
	TotalAmount  decimal.Decimal `json:"total_amount"`
	Status       string          `json:"status"`
}

// NewBillCreatedEvent creates a new BillCreatedEvent
func NewBillCreatedEvent(bill *Bill) *BillCreatedEvent {
	return &BillCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeBillCreated, AggregateTypeBill, bill.ID, bill.OwnerID),
		BillID:          bill.ID,
		BillNumber:      bill.BillNumber,
		BillDate:        bill.BillDate,
		BillType:        bill.Type.String(),
		CustomerName:    bill.CustomerName,
		Items:           billItemInfos(bill),
		TotalAmount:     bill.TotalAmount,
		Status:          bill.Status.String(),
	}
}

// EventType returns the event type name
func (e *BillCreatedEvent) EventType() string {
	return EventTypeBillCreated
}

// BillUpdatedEvent is raised when an existing bill is edited
type BillUpdatedEvent struct {
	shared.BaseDomainEvent
	BillID       uuid.UUID       `json:"bill_id"`
	BillNumber   string          `json:"bill_number"`
	BillDate     time.Time       `json:"bill_date"`
	BillType     string          `json:"bill_type"`
	CustomerName string          `json:"customer_name"`
	Items        []BillItemInfo  `json:"items"`
	TotalAmount  decimal.Decimal `json:"total_amount"`
	Status       string          `json:"status"`
}

// NewBillUpdatedEvent creates a new BillUpdatedEvent
func NewBillUpdatedEvent(bill *Bill) *BillUpdatedEvent {
	return &BillUpdatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeBillUpdated, AggregateTypeBill, bill.ID, bill.OwnerID),
		BillID:          bill.ID,
		BillNumber:      bill.BillNumber,
		BillDate:        bill.BillDate,
		BillType:        bill.Type.String(),
		CustomerName:    bill.CustomerName,
		Items:           billItemInfos(bill),
		TotalAmount:     bill.TotalAmount,
		Status:          bill.Status.String(),
	}
}

// EventType returns the event type name
func (e *BillUpdatedEvent) EventType() string {
	return EventTypeBillUpdated
}

// BillDeletedEvent is raised when a bill is removed
type BillDeletedEvent struct {
	shared.BaseDomainEvent
	BillID       uuid.UUID       `json:"bill_id"`
	BillNumber   string          `json:"bill_number"`
	BillType     string          `json:"bill_type"`
	CustomerName string          `json:"customer_name"`
	TotalAmount  decimal.Decimal `json:"total_amount"`
}

// NewBillDeletedEvent creates a new BillDeletedEvent
func NewBillDeletedEvent(bill *Bill) *BillDeletedEvent {
	return &BillDeletedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeBillDeleted, AggregateTypeBill, bill.ID, bill.OwnerID),
		BillID:          bill.ID,
		BillNumber:      bill.BillNumber,
		BillType:        bill.Type.String(),
		CustomerName:    bill.CustomerName,
		TotalAmount:     bill.TotalAmount,
	}
}

// EventType returns the event type name
func (e *BillDeletedEvent) EventType() string {
	return EventTypeBillDeleted
}
