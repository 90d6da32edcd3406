package handler

import (
	"github.com/bizhub/backend/internal/application/crm"
	"github.com/bizhub/backend/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
)

// ContactHandler handles contact endpoints
type ContactHandler struct {
	BaseHandler
	contactService *crm.ContactService
}

// NewContactHandler creates a new contact handler
func NewContactHandler(contactService *crm.ContactService) *ContactHandler {
	return &ContactHandler{contactService: contactService}
}

// Create creates a contact under a client
// POST /api/v1/clients/:id/contacts
func (h *ContactHandler) Create(c *gin.Context) {
	clientID, ok := bindUUIDParam(c)
	if !ok {
		h.BadRequest(c, "Invalid client ID")
		return
	}

	var req crm.CreateContactRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	result, err := h.contactService.Create(c.Request.Context(), clientID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, result)
}

// ListByClient returns all contacts belonging to a client
// GET /api/v1/clients/:id/contacts
func (h *ContactHandler) ListByClient(c *gin.Context) {
	clientID, ok := bindUUIDParam(c)
	if !ok {
		h.BadRequest(c, "Invalid client ID")
		return
	}

	contacts, total, err := h.contactService.ListByClient(c.Request.Context(), clientID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.SuccessWithMeta(c, contacts, total, 1, len(contacts))
}

// Get returns a contact by ID
// GET /api/v1/contacts/:id
func (h *ContactHandler) Get(c *gin.Context) {
	id, ok := bindUUIDParam(c)
	if !ok {
		h.BadRequest(c, "Invalid contact ID")
		return
	}

	result, err := h.contactService.GetByID(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}

// Update updates a contact
// PUT /api/v1/contacts/:id
func (h *ContactHandler) Update(c *gin.Context) {
	id, ok := bindUUIDParam(c)
	if !ok {
		h.BadRequest(c, "Invalid contact ID")
		return
	}

	var req crm.UpdateContactRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	result, err := h.contactService.Update(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}

// Delete removes a contact
// DELETE /api/v1/contacts/:id
func (h *ContactHandler) Delete(c *gin.Context) {
	id, ok := bindUUIDParam(c)
	if !ok {
		h.BadRequest(c, "Invalid contact ID")
		return
	}

	if err := h.contactService.Delete(c.Request.Context(), id); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}
