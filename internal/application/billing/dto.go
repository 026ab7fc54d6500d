package billing

import (
	"time"

	"github.com/fruitflow/backend/internal/domain/billing"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// =============================================================================
// Bill DTOs
// =============================================================================

// BillItemRequest is one produce line in a create/update request
type BillItemRequest struct {
	ProduceName string          `json:"produce_name" binding:"required,min=1,max=200"`
	Quantity    decimal.Decimal `json:"quantity"`
	UnitWeight  decimal.Decimal `json:"unit_weight"`
	Fraction    decimal.Decimal `json:"fraction"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
}

// PackagingRequest is one basket line in a create/update request
type PackagingRequest struct {
	BasketType string `json:"basket_type" binding:"required,oneof=mix named"`
	BasketName string `json:"basket_name" binding:"max=200"`
	Quantity   int    `json:"quantity" binding:"required,min=1"`
	Deduct     bool   `json:"deduct"`
}

// CreateBillRequest represents a request to create a new bill
type CreateBillRequest struct {
	BillDate      time.Time          `json:"bill_date" binding:"required"`
	Type          string             `json:"type" binding:"required,oneof=buy sell"`
	CustomerName  string             `json:"customer_name" binding:"required,min=1,max=200"`
	Items         []BillItemRequest  `json:"items" binding:"required,min=1,dive"`
	Packaging     []PackagingRequest `json:"packaging" binding:"dive"`
	ProcessingFee decimal.Decimal    `json:"processing_fee"`
	PaperFee      decimal.Decimal    `json:"paper_fee"`
	Remark        string             `json:"remark"`
}

// UpdateBillRequest represents a request to update an existing bill.
// Items and packaging replace the bill's current collections.
type UpdateBillRequest struct {
	BillDate      *time.Time         `json:"bill_date"`
	CustomerName  *string            `json:"customer_name" binding:"omitempty,min=1,max=200"`
	Items         []BillItemRequest  `json:"items" binding:"omitempty,min=1,dive"`
	Packaging     []PackagingRequest `json:"packaging" binding:"omitempty,dive"`
	ProcessingFee *decimal.Decimal   `json:"processing_fee"`
	PaperFee      *decimal.Decimal   `json:"paper_fee"`
	Remark        *string            `json:"remark"`
}

// BillItemResponse represents a produce line in API responses
type BillItemResponse struct {
	ID          uuid.UUID       `json:"id"`
	ProduceName string          `json:"produce_name"`
	Quantity    decimal.Decimal `json:"quantity"`
	UnitWeight  decimal.Decimal `json:"unit_weight"`
	Fraction    decimal.Decimal `json:"fraction"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	TotalWeight decimal.Decimal `json:"total_weight"`
	Amount      decimal.Decimal `json:"amount"`
}

// PackagingResponse represents a basket line in API responses
type PackagingResponse struct {
	ID         uuid.UUID `json:"id"`
	BasketType string    `json:"basket_type"`
	BasketName string    `json:"basket_name,omitempty"`
	Quantity   int       `json:"quantity"`
	Deduct     bool      `json:"deduct"`
}

// BillResponse represents a bill in API responses
type BillResponse struct {
	ID            uuid.UUID           `json:"id"`
	BillNumber    string              `json:"bill_number"`
	BillDate      time.Time           `json:"bill_date"`
	Type          string              `json:"type"`
	CustomerName  string              `json:"customer_name"`
	Items         []BillItemResponse  `json:"items"`
	Packaging     []PackagingResponse `json:"packaging"`
	ProcessingFee decimal.Decimal     `json:"processing_fee"`
	PaperFee      decimal.Decimal     `json:"paper_fee"`
	TotalAmount   decimal.Decimal     `json:"total_amount"`
	Status        string              `json:"status"`
	Remark        string              `json:"remark,omitempty"`
	CreatedAt     time.Time           `json:"created_at"`
	UpdatedAt     time.Time           `json:"updated_at"`
}

// BillListResponse is the compact shape used by list endpoints
type BillListResponse struct {
	ID           uuid.UUID       `json:"id"`
	BillNumber   string          `json:"bill_number"`
	BillDate     time.Time       `json:"bill_date"`
	Type         string          `json:"type"`
	CustomerName string          `json:"customer_name"`
	TotalAmount  decimal.Decimal `json:"total_amount"`
	Status       string          `json:"status"`
	ItemCount    int             `json:"item_count"`
}

// BillListFilter carries list query parameters
type BillListFilter struct {
	Page     int    `form:"page"`
	PageSize int    `form:"page_size"`
	OrderBy  string `form:"order_by"`
	OrderDir string `form:"order_dir"`
	Search   string `form:"search"`
	Type     string `form:"type" binding:"omitempty,oneof=buy sell"`
	Status   string `form:"status" binding:"omitempty,oneof=due installment paid"`
	Customer string `form:"customer"`
	DateFrom string `form:"date_from"`
	DateTo   string `form:"date_to"`
}

// ToBillResponse converts a domain bill to its response shape
func ToBillResponse(bill *billing.Bill) BillResponse {
	items := make([]BillItemResponse, len(bill.Items))
	for i, item := range bill.Items {
		items[i] = BillItemResponse{
			ID:          item.ID,
			ProduceName: item.ProduceName,
			Quantity:    item.Quantity,
			UnitWeight:  item.UnitWeight,
			Fraction:    item.Fraction,
			UnitPrice:   item.UnitPrice,
			TotalWeight: item.TotalWeight,
			Amount:      item.Amount,
		}
	}

	packaging := make([]PackagingResponse, len(bill.Packaging))
	for i, line := range bill.Packaging {
		packaging[i] = PackagingResponse{
			ID:         line.ID,
			BasketType: line.BasketType,
			BasketName: line.BasketName,
			Quantity:   line.Quantity,
			Deduct:     line.Deduct,
		}
	}

	return BillResponse{
		ID:            bill.ID,
		BillNumber:    bill.BillNumber,
		BillDate:      bill.BillDate,
		Type:          bill.Type.String(),
		CustomerName:  bill.CustomerName,
		Items:         items,
		Packaging:     packaging,
		ProcessingFee: bill.ProcessingFee,
		PaperFee:      bill.PaperFee,
		TotalAmount:   bill.TotalAmount,
		Status:        bill.Status.String(),
		Remark:        bill.Remark,
		CreatedAt:     bill.CreatedAt,
		UpdatedAt:     bill.UpdatedAt,
	}
}

// ToBillListResponses converts domain bills to their list shape
func ToBillListResponses(bills []billing.Bill) []BillListResponse {
	responses := make([]BillListResponse, len(bills))
	for i := range bills {
		responses[i] = BillListResponse{
			ID:           bills[i].ID,
			BillNumber:   bills[i].BillNumber,
			BillDate:     bills[i].BillDate,
			Type:         bills[i].Type.String(),
			CustomerName: bills[i].CustomerName,
			TotalAmount:  bills[i].TotalAmount,
			Status:       bills[i].Status.String(),
			ItemCount:    len(bills[i].Items),
		}
	}
	return responses
}

// =============================================================================
// Installment schedule DTOs
// =============================================================================

// InstallmentInput is one installment row in a save-schedule request
type InstallmentInput struct {
	DueDate    time.Time       `json:"due_date" binding:"required"`
	Amount     decimal.Decimal `json:"amount"`
	PaidAmount decimal.Decimal `json:"paid_amount"`
}

// SaveScheduleRequest replaces a bill's installment schedule
type SaveScheduleRequest struct {
	Installments []InstallmentInput `json:"installments" binding:"required,min=1,dive"`
}

// InstallmentResponse represents an installment in API responses
type InstallmentResponse struct {
	ID         uuid.UUID       `json:"id"`
	Number     int             `json:"number"`
	DueDate    time.Time       `json:"due_date"`
	Amount     decimal.Decimal `json:"amount"`
	PaidAmount decimal.Decimal `json:"paid_amount"`
	Status     string          `json:"status"`
	PaidDate   *time.Time      `json:"paid_date,omitempty"`
}

// ScheduleResponse represents a bill's schedule in API responses
type ScheduleResponse struct {
	BillID       uuid.UUID             `json:"bill_id"`
	BillTotal    decimal.Decimal       `json:"bill_total"`
	BillStatus   string                `json:"bill_status"`
	Installments []InstallmentResponse `json:"installments"`
}

// ToScheduleResponse converts a domain schedule to its response shape
func ToScheduleResponse(s *billing.Schedule, billStatus billing.BillStatus) ScheduleResponse {
	installments := make([]InstallmentResponse, len(s.Installments))
	for i, inst := range s.Installments {
		installments[i] = InstallmentResponse{
			ID:         inst.ID,
			Number:     inst.Number,
			DueDate:    inst.DueDate,
			Amount:     inst.Amount,
			PaidAmount: inst.PaidAmount,
			Status:     inst.Status.String(),
			PaidDate:   inst.PaidDate,
		}
	}
	return ScheduleResponse{
		BillID:       s.BillID,
		BillTotal:    s.BillTotal,
		BillStatus:   billStatus.String(),
		Installments: installments,
	}
}
