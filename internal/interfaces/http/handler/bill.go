package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"

	billingapp "github.com/fruitflow/backend/internal/application/billing"
)

// BillHandler handles bill CRUD endpoints
type BillHandler struct {
	BaseHandler
	billService *billingapp.BillService
}

// NewBillHandler creates a new BillHandler
func NewBillHandler(billService *billingapp.BillService) *BillHandler {
	return &BillHandler{billService: billService}
}

// Create creates a bill with its items and packaging lines
func (h *BillHandler) Create(c *gin.Context) {
	ownerID, err := getOwnerID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	var req billingapp.CreateBillRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	bill, err := h.billService.Create(c.Request.Context(), ownerID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, bill)
}

// Update edits a bill in place
func (h *BillHandler) Update(c *gin.Context) {
	ownerID, err := getOwnerID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	billID, err := parseIDParam(c)
	if err != nil {
		h.BadRequest(c, "Invalid bill ID")
		return
	}

	var req billingapp.UpdateBillRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	bill, err := h.billService.Update(c.Request.Context(), ownerID, billID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, bill)
}

// Get returns one bill with items and packaging
func (h *BillHandler) Get(c *gin.Context) {
	ownerID, err := getOwnerID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	billID, err := parseIDParam(c)
	if err != nil {
		h.BadRequest(c, "Invalid bill ID")
		return
	}

	bill, err := h.billService.GetByID(c.Request.Context(), ownerID, billID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, bill)
}

// List lists bills with pagination and filtering
func (h *BillHandler) List(c *gin.Context) {
	ownerID, err := getOwnerID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	var filter billingapp.BillListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.BindError(c, err)
		return
	}
	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.PageSize <= 0 {
		filter.PageSize = 20
	}

	bills, total, err := h.billService.List(c.Request.Context(), ownerID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.SuccessWithMeta(c, bills, total, filter.Page, filter.PageSize)
}

// Delete removes a bill with its schedule and ledger mirror
func (h *BillHandler) Delete(c *gin.Context) {
	ownerID, err := getOwnerID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	billID, err := parseIDParam(c)
	if err != nil {
		h.BadRequest(c, "Invalid bill ID")
		return
	}

	if err := h.billService.Delete(c.Request.Context(), ownerID, billID); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}

// CustomerNames lists distinct customer names for the bill form autocomplete
func (h *BillHandler) CustomerNames(c *gin.Context) {
	ownerID, err := getOwnerID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	prefix := c.Query("prefix")
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))

	names, err := h.billService.CustomerNames(c.Request.Context(), ownerID, prefix, limit)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, names)
}
