package handler

import (
	"github.com/gin-gonic/gin"

	messagingapp "github.com/fruitflow/backend/internal/application/messaging"
)

// ContactHandler handles chat contact endpoints
type ContactHandler struct {
	BaseHandler
	contactService *messagingapp.ContactService
	imageService   *messagingapp.ImageService
}

// NewContactHandler creates a new ContactHandler
func NewContactHandler(contactService *messagingapp.ContactService, imageService *messagingapp.ImageService) *ContactHandler {
	return &ContactHandler{
		contactService: contactService,
		imageService:   imageService,
	}
}

// List lists chat contacts with pagination and filtering
func (h *ContactHandler) List(c *gin.Context) {
	ownerID, err := getOwnerID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	var filter messagingapp.ContactListFilter
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

	contacts, total, err := h.contactService.List(c.Request.Context(), ownerID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.SuccessWithMeta(c, contacts, total, filter.Page, filter.PageSize)
}

// Get returns one chat contact
func (h *ContactHandler) Get(c *gin.Context) {
	ownerID, err := getOwnerID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	contactID, err := parseIDParam(c)
	if err != nil {
		h.BadRequest(c, "Invalid contact ID")
		return
	}

	contact, err := h.contactService.GetByID(c.Request.Context(), ownerID, contactID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, contact)
}

// LinkCustomer manually links a contact to a customer record
func (h *ContactHandler) LinkCustomer(c *gin.Context) {
	ownerID, err := getOwnerID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	contactID, err := parseIDParam(c)
	if err != nil {
		h.BadRequest(c, "Invalid contact ID")
		return
	}

	var req messagingapp.LinkCustomerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	contact, err := h.contactService.LinkCustomer(c.Request.Context(), ownerID, contactID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, contact)
}

// UnlinkCustomer clears a contact's customer link
func (h *ContactHandler) UnlinkCustomer(c *gin.Context) {
	ownerID, err := getOwnerID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	contactID, err := parseIDParam(c)
	if err != nil {
		h.BadRequest(c, "Invalid contact ID")
		return
	}

	contact, err := h.contactService.UnlinkCustomer(c.Request.Context(), ownerID, contactID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, contact)
}

// PushBillImage uploads a rendered bill image and pushes it to the contact's
// chat
func (h *ContactHandler) PushBillImage(c *gin.Context) {
	ownerID, err := getOwnerID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	contactID, err := parseIDParam(c)
	if err != nil {
		h.BadRequest(c, "Invalid contact ID")
		return
	}

	var input messagingapp.PushBillImageInput
	if err := c.ShouldBindJSON(&input); err != nil {
		h.BindError(c, err)
		return
	}
	input.ContactID = contactID

	if err := h.imageService.PushBillImage(c.Request.Context(), ownerID, input); err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, gin.H{"pushed": true})
}
