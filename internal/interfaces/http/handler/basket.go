package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"

	basketapp "github.com/fruitflow/backend/internal/application/basket"
)

// BasketHandler handles basket ledger endpoints
type BasketHandler struct {
	BaseHandler
	basketService *basketapp.Service
}

// NewBasketHandler creates a new BasketHandler
func NewBasketHandler(basketService *basketapp.Service) *BasketHandler {
	return &BasketHandler{basketService: basketService}
}

// Create records a manual basket flow for a customer
func (h *BasketHandler) Create(c *gin.Context) {
	ownerID, err := getOwnerID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	var req basketapp.CreateEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	entry, err := h.basketService.Create(c.Request.Context(), ownerID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, entry)
}

// List lists ledger entries, oldest first
func (h *BasketHandler) List(c *gin.Context) {
	ownerID, err := getOwnerID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	var filter basketapp.EntryListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.BindError(c, err)
		return
	}
	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.PageSize <= 0 {
		filter.PageSize = 50
	}

	entries, total, err := h.basketService.List(c.Request.Context(), ownerID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.SuccessWithMeta(c, entries, total, filter.Page, filter.PageSize)
}

// Balance returns a customer's net holdings per basket class, summed from
// the flow log on read
func (h *BasketHandler) Balance(c *gin.Context) {
	ownerID, err := getOwnerID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	customerName := c.Query("customer")
	if customerName == "" {
		h.BadRequest(c, "customer query parameter is required")
		return
	}

	balance, err := h.basketService.Balance(c.Request.Context(), ownerID, customerName)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, balance)
}

// Delete removes a manual ledger entry
func (h *BasketHandler) Delete(c *gin.Context) {
	ownerID, err := getOwnerID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	entryID, err := parseIDParam(c)
	if err != nil {
		h.BadRequest(c, "Invalid entry ID")
		return
	}

	if err := h.basketService.Delete(c.Request.Context(), ownerID, entryID); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}

// CustomerNames lists customer names present in the ledger
func (h *BasketHandler) CustomerNames(c *gin.Context) {
	ownerID, err := getOwnerID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	prefix := c.Query("prefix")
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))

	names, err := h.basketService.CustomerNames(c.Request.Context(), ownerID, prefix, limit)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, names)
}
