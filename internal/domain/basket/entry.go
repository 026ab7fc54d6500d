package basket

import (
	"time"

	"github.com/fruitflow/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// Flow is the direction of a basket movement
type Flow string

const (
	FlowIn  Flow = "in"  // customer returns baskets, balance goes up
	FlowOut Flow = "out" // baskets leave with a sale, balance goes down
)

// IsValid checks if the flow is a valid Flow
func (f Flow) IsValid() bool {
	return f == FlowIn || f == FlowOut
}

// Basket class constants
const (
	TypeMix   = "mix"
	TypeNamed = "named"
)

// Entry is one signed movement in the basket ledger. A customer's net
// holdings per basket class are the running sum of their entries, computed on
// read - there is no stored balance table.
type Entry struct {
	shared.OwnedAggregateRoot
	CustomerName string
	BillID       *uuid.UUID // set when the entry mirrors a sell bill's packaging
	BasketType   string     // "mix" or "named"
	BasketName   string     // set when BasketType is "named"
	Flow         Flow
	Quantity     int
	EntryDate    time.Time
	Remark       string
}

// TableName returns the table name for GORM
func (Entry) TableName() string {
	return "basket_entries"
}

// NewEntry creates a manual basket ledger entry
func NewEntry(ownerID uuid.UUID, customerName, basketType, basketName string, flow Flow, quantity int, entryDate time.Time) (*Entry, error) {
	if customerName == "" {
		return nil, shared.NewDomainError("INVALID_CUSTOMER_NAME", "Customer name cannot be empty")
	}
	if basketType != TypeMix && basketType != TypeNamed {
		return nil, shared.NewDomainError("INVALID_BASKET_TYPE", "Basket type must be mix or named")
	}
	if basketType == TypeNamed && basketName == "" {
		return nil, shared.NewDomainError("INVALID_BASKET_NAME", "Named baskets require a name")
	}
	if !flow.IsValid() {
		return nil, shared.NewDomainError("INVALID_FLOW", "Flow must be in or out")
	}
	if quantity <= 0 {
		return nil, shared.NewDomainError("INVALID_QUANTITY", "Quantity must be positive")
	}
	if entryDate.IsZero() {
		entryDate = time.Now()
	}

	return &Entry{
		OwnedAggregateRoot: shared.NewOwnedAggregateRoot(ownerID),
		CustomerName:       customerName,
		BasketType:         basketType,
		BasketName:         basketName,
		Flow:               flow,
		Quantity:           quantity,
		EntryDate:          entryDate,
	}, nil
}

// NewMirrorEntry creates the "out" entry mirroring a deduct packaging line on
// a sell bill
func NewMirrorEntry(ownerID, billID uuid.UUID, customerName, basketType, basketName string, quantity int, entryDate time.Time) (*Entry, error) {
	entry, err := NewEntry(ownerID, customerName, basketType, basketName, FlowOut, quantity, entryDate)
	if err != nil {
		return nil, err
	}
	entry.BillID = &billID
	return entry, nil
}

// Signed returns the entry's contribution to the running balance
func (e *Entry) Signed() int {
	if e.Flow == FlowIn {
		return e.Quantity
	}
	return -e.Quantity
}

// SetRemark sets the entry remark
func (e *Entry) SetRemark(remark string) {
	e.Remark = remark
	e.UpdatedAt = time.Now()
}

// Summary holds a customer's net balance for one basket class
type Summary struct {
	BasketType string `json:"basket_type"`
	BasketName string `json:"basket_name,omitempty"`
	Balance    int    `json:"balance"`
}

// Summarize groups entries by basket class (type, plus name for named
// baskets) and accumulates signed quantities in the order the entries were
// fetched. Grouping keys are taken verbatim: names differing in whitespace
// are distinct buckets.
func Summarize(entries []Entry) []Summary {
	index := make(map[string]int)
	summaries := make([]Summary, 0)

	for _, entry := range entries {
		key := entry.BasketType
		if entry.BasketType == TypeNamed {
			key = entry.BasketType + "\x00" + entry.BasketName
		}

		pos, ok := index[key]
		if !ok {
			pos = len(summaries)
			index[key] = pos
			summaries = append(summaries, Summary{
				BasketType: entry.BasketType,
				BasketName: entry.BasketName,
			})
		}
		summaries[pos].Balance += entry.Signed()
	}

	return summaries
}
