package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"

	outboxapp "github.com/fruitflow/backend/internal/application/outbox"
)

// OutboxHandler exposes dead-letter inspection and requeue to admins
type OutboxHandler struct {
	BaseHandler
	adminService *outboxapp.AdminService
}

// NewOutboxHandler creates a new OutboxHandler
func NewOutboxHandler(adminService *outboxapp.AdminService) *OutboxHandler {
	return &OutboxHandler{adminService: adminService}
}

// ListDead lists dead-lettered outbox entries
func (h *OutboxHandler) ListDead(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))

	entries, total, err := h.adminService.ListDead(c.Request.Context(), page, pageSize)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.SuccessWithMeta(c, entries, total, page, pageSize)
}

// Requeue puts a dead-lettered entry back in line for delivery
func (h *OutboxHandler) Requeue(c *gin.Context) {
	entryID, err := parseIDParam(c)
	if err != nil {
		h.BadRequest(c, "Invalid entry ID")
		return
	}

	entry, err := h.adminService.Requeue(c.Request.Context(), entryID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, entry)
}

// Stats returns entry counts per delivery status
func (h *OutboxHandler) Stats(c *gin.Context) {
	stats, err := h.adminService.Stats(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, stats)
}
