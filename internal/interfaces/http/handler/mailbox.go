package handler

import (
	"github.com/gin-gonic/gin"

	mailboxapp "github.com/fruitflow/backend/internal/application/mailbox"
)

// MailboxHandler handles mailbox endpoints
type MailboxHandler struct {
	BaseHandler
	mailboxService *mailboxapp.Service
}

// NewMailboxHandler creates a new MailboxHandler
func NewMailboxHandler(mailboxService *mailboxapp.Service) *MailboxHandler {
	return &MailboxHandler{mailboxService: mailboxService}
}

// List lists mailbox messages, newest first
func (h *MailboxHandler) List(c *gin.Context) {
	ownerID, err := getOwnerID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	var filter mailboxapp.MessageListFilter
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

	messages, total, err := h.mailboxService.List(c.Request.Context(), ownerID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.SuccessWithMeta(c, messages, total, filter.Page, filter.PageSize)
}

// MarkRead marks one message as read
func (h *MailboxHandler) MarkRead(c *gin.Context) {
	ownerID, err := getOwnerID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	messageID, err := parseIDParam(c)
	if err != nil {
		h.BadRequest(c, "Invalid message ID")
		return
	}

	if err := h.mailboxService.MarkRead(c.Request.Context(), ownerID, messageID); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}

// MarkAllRead marks every unread message as read
func (h *MailboxHandler) MarkAllRead(c *gin.Context) {
	ownerID, err := getOwnerID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	if err := h.mailboxService.MarkAllRead(c.Request.Context(), ownerID); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}

// Delete removes a message
func (h *MailboxHandler) Delete(c *gin.Context) {
	ownerID, err := getOwnerID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	messageID, err := parseIDParam(c)
	if err != nil {
		h.BadRequest(c, "Invalid message ID")
		return
	}

	if err := h.mailboxService.Delete(c.Request.Context(), ownerID, messageID); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}

// UnreadCount counts unread messages
func (h *MailboxHandler) UnreadCount(c *gin.Context) {
	ownerID, err := getOwnerID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	count, err := h.mailboxService.UnreadCount(c.Request.Context(), ownerID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, gin.H{"unread": count})
}
