package basket

import (
	"time"

	"github.com/fruitflow/backend/internal/domain/basket"
	"github.com/google/uuid"
)

// CreateEntryRequest records a manual basket movement
type CreateEntryRequest struct {
	CustomerName string    `json:"customer_name" binding:"required,min=1,max=200"`
	BasketType   string    `json:"basket_type" binding:"required,oneof=mix named"`
	BasketName   string    `json:"basket_name" binding:"max=200"`
	Flow         string    `json:"flow" binding:"required,oneof=in out"`
	Quantity     int       `json:"quantity" binding:"required,min=1"`
	EntryDate    time.Time `json:"entry_date"`
	Remark       string    `json:"remark"`
}

// EntryResponse represents a basket ledger entry in API responses
type EntryResponse struct {
	ID           uuid.UUID  `json:"id"`
	CustomerName string     `json:"customer_name"`
	BillID       *uuid.UUID `json:"bill_id,omitempty"`
	BasketType   string     `json:"basket_type"`
	BasketName   string     `json:"basket_name,omitempty"`
	Flow         string     `json:"flow"`
	Quantity     int        `json:"quantity"`
	EntryDate    time.Time  `json:"entry_date"`
	Remark       string     `json:"remark,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
}

// EntryListFilter carries list query parameters
type EntryListFilter struct {
	Page     int    `form:"page"`
	PageSize int    `form:"page_size"`
	Customer string `form:"customer" binding:"required"`
}

// BalanceResponse is a customer's net holdings per basket class
type BalanceResponse struct {
	CustomerName string           `json:"customer_name"`
	Balances     []basket.Summary `json:"balances"`
}

// ToEntryResponse converts a domain entry to its response shape
func ToEntryResponse(entry *basket.Entry) EntryResponse {
	return EntryResponse{
		ID:           entry.ID,
		CustomerName: entry.CustomerName,
		BillID:       entry.BillID,
		BasketType:   entry.BasketType,
		BasketName:   entry.BasketName,
		Flow:         string(entry.Flow),
		Quantity:     entry.Quantity,
		EntryDate:    entry.EntryDate,
		Remark:       entry.Remark,
		CreatedAt:    entry.CreatedAt,
	}
}

// ToEntryResponses converts domain entries to their response shape
func ToEntryResponses(entries []basket.Entry) []EntryResponse {
	responses := make([]EntryResponse, len(entries))
	for i := range entries {
		responses[i] = ToEntryResponse(&entries[i])
	}
	return responses
}
