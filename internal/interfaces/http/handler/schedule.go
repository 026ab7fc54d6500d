package handler

import (
	"github.com/gin-gonic/gin"

	billingapp "github.com/fruitflow/backend/internal/application/billing"
)

// ScheduleHandler handles installment schedule endpoints
type ScheduleHandler struct {
	BaseHandler
	scheduleService *billingapp.ScheduleService
}

// NewScheduleHandler creates a new ScheduleHandler
func NewScheduleHandler(scheduleService *billingapp.ScheduleService) *ScheduleHandler {
	return &ScheduleHandler{scheduleService: scheduleService}
}

// Load returns a bill's installment schedule, seeding a single full-amount
// installment for bills that have none yet
func (h *ScheduleHandler) Load(c *gin.Context) {
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

	schedule, err := h.scheduleService.Load(c.Request.Context(), ownerID, billID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, schedule)
}

// Save replaces a bill's installment schedule. The sum of installment
// amounts must match the bill total within tolerance; the bill status is
// rederived and written back in the same transaction.
func (h *ScheduleHandler) Save(c *gin.Context) {
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

	var req billingapp.SaveScheduleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	schedule, err := h.scheduleService.Save(c.Request.Context(), ownerID, billID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, schedule)
}
