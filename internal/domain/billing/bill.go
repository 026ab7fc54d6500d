package billing

import (
	"fmt"
	"time"

	"github.com/fruitflow/backend/internal/domain/shared"
	"github.com/fruitflow/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// BillType distinguishes purchase bills from sale bills
type BillType string

const (
	BillTypeBuy  BillType = "buy"
	BillTypeSell BillType = "sell"
)

// IsValid checks if the type is a valid BillType
func (t BillType) IsValid() bool {
	return t == BillTypeBuy || t == BillTypeSell
}

// String returns the string representation of BillType
func (t BillType) String() string {
	return string(t)
}

// BillStatus is the payment summary status of a bill, derived from its
// installment schedule
type BillStatus string

const (
	BillStatusDue         BillStatus = "due"
	BillStatusInstallment BillStatus = "installment"
	BillStatusPaid        BillStatus = "paid"
)

// IsValid checks if the status is a valid BillStatus
func (s BillStatus) IsValid() bool {
	switch s {
	case BillStatusDue, BillStatusInstallment, BillStatusPaid:
		return true
	}
	return false
}

// String returns the string representation of BillStatus
func (s BillStatus) String() string {
	return string(s)
}

// BillItem represents a produce line on a bill.
// TotalWeight = Quantity*UnitWeight + Fraction, Amount = TotalWeight*UnitPrice.
type BillItem struct {
	ID          uuid.UUID
	BillID      uuid.UUID
	ProduceName string
	Quantity    decimal.Decimal // number of units (crates, bags, ...)
	UnitWeight  decimal.Decimal // weight per unit
	Fraction    decimal.Decimal // loose weight on top of full units
	UnitPrice   decimal.Decimal // price per weight unit
	TotalWeight decimal.Decimal
	Amount      decimal.Decimal
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// NewBillItem creates a new bill item and derives its weight and amount
func NewBillItem(billID uuid.UUID, produceName string, quantity, unitWeight, fraction decimal.Decimal, unitPrice valueobject.Money) (*BillItem, error) {
	if produceName == "" {
		return nil, shared.NewDomainError("INVALID_PRODUCE_NAME", "Produce name cannot be empty")
	}
	if quantity.IsNegative() {
		return nil, shared.NewDomainError("INVALID_QUANTITY", "Quantity cannot be negative")
	}
	if unitWeight.IsNegative() {
		return nil, shared.NewDomainError("INVALID_WEIGHT", "Unit weight cannot be negative")
	}
	if fraction.IsNegative() {
		return nil, shared.NewDomainError("INVALID_WEIGHT", "Fraction weight cannot be negative")
	}
	if unitPrice.Amount().IsNegative() {
		return nil, shared.NewDomainError("INVALID_PRICE", "Unit price cannot be negative")
	}

	now := time.Now()
	item := &BillItem{
		ID:          uuid.New(),
		BillID:      billID,
		ProduceName: produceName,
		Quantity:    quantity,
		UnitWeight:  unitWeight,
		Fraction:    fraction,
		UnitPrice:   unitPrice.Amount(),
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	item.recalculate()
	return item, nil
}

// UpdateMeasures updates quantity, unit weight and fraction, rederiving totals
func (i *BillItem) UpdateMeasures(quantity, unitWeight, fraction decimal.Decimal) error {
	if quantity.IsNegative() || unitWeight.IsNegative() || fraction.IsNegative() {
		return shared.NewDomainError("INVALID_WEIGHT", "Measures cannot be negative")
	}
	i.Quantity = quantity
	i.UnitWeight = unitWeight
	i.Fraction = fraction
	i.recalculate()
	i.UpdatedAt = time.Now()
	return nil
}

// UpdateUnitPrice updates the unit price and rederives the amount
func (i *BillItem) UpdateUnitPrice(unitPrice valueobject.Money) error {
	if unitPrice.Amount().IsNegative() {
		return shared.NewDomainError("INVALID_PRICE", "Unit price cannot be negative")
	}
	i.UnitPrice = unitPrice.Amount()
	i.recalculate()
	i.UpdatedAt = time.Now()
	return nil
}

func (i *BillItem) recalculate() {
	i.TotalWeight = i.Quantity.Mul(i.UnitWeight).Add(i.Fraction)
	i.Amount = i.TotalWeight.Mul(i.UnitPrice)
}

// GetAmountMoney returns the line amount as Money value object
func (i *BillItem) GetAmountMoney() valueobject.Money {
	return valueobject.NewMoneyTHB(i.Amount)
}

// PackagingLine records reusable baskets handed over with a sell bill.
// When Deduct is true the line mirrors an "out" entry in the basket ledger.
type PackagingLine struct {
	ID         uuid.UUID
	BillID     uuid.UUID
	BasketType string // "mix" or "named"
	BasketName string // set when BasketType is "named"
	Quantity   int
	Deduct     bool
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// NewPackagingLine creates a packaging line for a bill
func NewPackagingLine(billID uuid.UUID, basketType, basketName string, quantity int, deduct bool) (*PackagingLine, error) {
	if basketType != "mix" && basketType != "named" {
		return nil, shared.NewDomainError("INVALID_BASKET_TYPE", "Basket type must be mix or named")
	}
	if basketType == "named" && basketName == "" {
		return nil, shared.NewDomainError("INVALID_BASKET_NAME", "Named baskets require a name")
	}
	if quantity <= 0 {
		return nil, shared.NewDomainError("INVALID_QUANTITY", "Basket quantity must be positive")
	}

	now := time.Now()
	return &PackagingLine{
		ID:         uuid.New(),
		BillID:     billID,
		BasketType: basketType,
		BasketName: basketName,
		Quantity:   quantity,
		Deduct:     deduct,
		CreatedAt:  now,
		UpdatedAt:  now,
	}, nil
}

// Bill is the aggregate root for a purchase or sale bill.
// Its total is the sum of item amounts plus any processing/paper surcharges
// (used by the orange bill variant); its status is derived from the
// installment schedule and written back on schedule save.
type Bill struct {
	shared.OwnedAggregateRoot
	BillNumber    string
	BillDate      time.Time
	Type          BillType
	CustomerName  string // free text, intentionally not a customer foreign key
	Items         []BillItem
	Packaging     []PackagingLine
	ProcessingFee decimal.Decimal
	PaperFee      decimal.Decimal
	TotalAmount   decimal.Decimal
	Status        BillStatus
	Remark        string
}

// NewBill creates a new bill in due status
func NewBill(ownerID uuid.UUID, billNumber string, billDate time.Time, billType BillType, customerName string) (*Bill, error) {
	if billNumber == "" {
		return nil, shared.NewDomainError("INVALID_BILL_NUMBER", "Bill number cannot be empty")
	}
	if !billType.IsValid() {
		return nil, shared.NewDomainError("INVALID_BILL_TYPE", "Bill type must be buy or sell")
	}
	if customerName == "" {
		return nil, shared.NewDomainError("INVALID_CUSTOMER_NAME", "Customer name cannot be empty")
	}
	if billDate.IsZero() {
		return nil, shared.NewDomainError("INVALID_BILL_DATE", "Bill date is required")
	}

	bill := &Bill{
		OwnedAggregateRoot: shared.NewOwnedAggregateRoot(ownerID),
		BillNumber:         billNumber,
		BillDate:           billDate,
		Type:               billType,
		CustomerName:       customerName,
		Items:              make([]BillItem, 0),
		Packaging:          make([]PackagingLine, 0),
		ProcessingFee:      decimal.Zero,
		PaperFee:           decimal.Zero,
		TotalAmount:        decimal.Zero,
		Status:             BillStatusDue,
	}

	bill.AddDomainEvent(NewBillCreatedEvent(bill))

	return bill, nil
}

// AddItem adds a produce line to the bill
func (b *Bill) AddItem(produceName string, quantity, unitWeight, fraction decimal.Decimal, unitPrice valueobject.Money) (*BillItem, error) {
	item, err := NewBillItem(b.ID, produceName, quantity, unitWeight, fraction, unitPrice)
	if err != nil {
		return nil, err
	}

	b.Items = append(b.Items, *item)
	b.recalculateTotal()
	b.UpdatedAt = time.Now()

	return item, nil
}

// UpdateItem updates the measures and price of an existing line
func (b *Bill) UpdateItem(itemID uuid.UUID, quantity, unitWeight, fraction decimal.Decimal, unitPrice valueobject.Money) error {
	for idx := range b.Items {
		if b.Items[idx].ID == itemID {
			if err := b.Items[idx].UpdateMeasures(quantity, unitWeight, fraction); err != nil {
				return err
			}
			if err := b.Items[idx].UpdateUnitPrice(unitPrice); err != nil {
				return err
			}
			b.recalculateTotal()
			b.UpdatedAt = time.Now()
			return nil
		}
	}
	return shared.NewDomainError("ITEM_NOT_FOUND", "Bill item not found")
}

// RemoveItem removes a produce line from the bill
func (b *Bill) RemoveItem(itemID uuid.UUID) error {
	for idx, item := range b.Items {
		if item.ID == itemID {
			b.Items = append(b.Items[:idx], b.Items[idx+1:]...)
			b.recalculateTotal()
			b.UpdatedAt = time.Now()
			return nil
		}
	}
	return shared.NewDomainError("ITEM_NOT_FOUND", "Bill item not found")
}

// AddPackaging adds a basket packaging line.
// Deduct only has ledger effect on sell bills; the flag is kept as given.
func (b *Bill) AddPackaging(basketType, basketName string, quantity int, deduct bool) (*PackagingLine, error) {
	line, err := NewPackagingLine(b.ID, basketType, basketName, quantity, deduct)
	if err != nil {
		return nil, err
	}

	b.Packaging = append(b.Packaging, *line)
	b.UpdatedAt = time.Now()

	return line, nil
}

// ClearPackaging removes all packaging lines (used on edit before re-adding)
func (b *Bill) ClearPackaging() {
	b.Packaging = b.Packaging[:0]
	b.UpdatedAt = time.Now()
}

// SetSurcharges sets the processing and paper fees used by the orange bill
// variant and rederives the total
func (b *Bill) SetSurcharges(processingFee, paperFee valueobject.Money) error {
	if processingFee.Amount().IsNegative() || paperFee.Amount().IsNegative() {
		return shared.NewDomainError("INVALID_SURCHARGE", "Surcharges cannot be negative")
	}
	b.ProcessingFee = processingFee.Amount()
	b.PaperFee = paperFee.Amount()
	b.recalculateTotal()
	b.UpdatedAt = time.Now()
	return nil
}

// SetRemark sets the bill remark
func (b *Bill) SetRemark(remark string) {
	b.Remark = remark
	b.UpdatedAt = time.Now()
}

// SetCustomerName updates the free-text customer name
func (b *Bill) SetCustomerName(name string) error {
	if name == "" {
		return shared.NewDomainError("INVALID_CUSTOMER_NAME", "Customer name cannot be empty")
	}
	b.CustomerName = name
	b.UpdatedAt = time.Now()
	return nil
}

// SetBillDate updates the bill date
func (b *Bill) SetBillDate(d time.Time) error {
	if d.IsZero() {
		return shared.NewDomainError("INVALID_BILL_DATE", "Bill date is required")
	}
	b.BillDate = d
	b.UpdatedAt = time.Now()
	return nil
}

// ApplyStatus writes a schedule-derived status onto the bill
func (b *Bill) ApplyStatus(status BillStatus) error {
	if !status.IsValid() {
		return shared.NewDomainError("INVALID_STATUS", fmt.Sprintf("Unknown bill status %q", status))
	}
	b.Status = status
	b.UpdatedAt = time.Now()
	return nil
}

// MarkUpdated records an update event for webhook dispatch
func (b *Bill) MarkUpdated() {
	b.AddDomainEvent(NewBillUpdatedEvent(b))
}

// MarkDeleted records a delete event for webhook dispatch
func (b *Bill) MarkDeleted() {
	b.AddDomainEvent(NewBillDeletedEvent(b))
}

// MirrorEntries returns the basket ledger flows this bill implies: one "out"
// flow per deduct packaging line, sell bills only. An empty slice means the
// ledger should hold no rows for this bill.
func (b *Bill) MirrorEntries() []PackagingLine {
	if b.Type != BillTypeSell {
		return nil
	}
	mirrored := make([]PackagingLine, 0, len(b.Packaging))
	for _, line := range b.Packaging {
		if line.Deduct {
			mirrored = append(mirrored, line)
		}
	}
	return mirrored
}

// recalculateTotal rederives the bill total from items and surcharges
func (b *Bill) recalculateTotal() {
	total := decimal.Zero
	for _, item := range b.Items {
		total = total.Add(item.Amount)
	}
	b.TotalAmount = total.Add(b.ProcessingFee).Add(b.PaperFee)
}

// GetTotalAmountMoney returns the bill total as Money
func (b *Bill) GetTotalAmountMoney() valueobject.Money {
	return valueobject.NewMoneyTHB(b.TotalAmount)
}

// ItemCount returns the number of produce lines
func (b *Bill) ItemCount() int {
	return len(b.Items)
}

// IsSell returns true for sale bills
func (b *Bill) IsSell() bool {
	return b.Type == BillTypeSell
}

// IsBuy returns true for purchase bills
func (b *Bill) IsBuy() bool {
	return b.Type == BillTypeBuy
}
