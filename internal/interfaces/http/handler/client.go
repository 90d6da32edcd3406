package handler

import (
	"github.com/bizhub/backend/internal/application/crm"
	"github.com/bizhub/backend/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
)

// ClientHandler handles client endpoints
type ClientHandler struct {
	BaseHandler
	clientService *crm.ClientService
}

// NewClientHandler creates a new client handler
func NewClientHandler(clientService *crm.ClientService) *ClientHandler {
	return &ClientHandler{clientService: clientService}
}

// Create creates a new client
// POST /api/v1/clients
func (h *ClientHandler) Create(c *gin.Context) {
	var req crm.CreateClientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}
	if userID, err := getUserID(c); err == nil {
		req.CreatedBy = &userID
	}

	result, err := h.clientService.Create(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, result)
}

// Get returns a client by ID
// GET /api/v1/clients/:id
func (h *ClientHandler) Get(c *gin.Context) {
	id, ok := bindUUIDParam(c)
	if !ok {
		h.BadRequest(c, "Invalid client ID")
		return
	}

	result, err := h.clientService.GetByID(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}

// List returns a paginated list of clients
// GET /api/v1/clients
func (h *ClientHandler) List(c *gin.Context) {
	var filter crm.ClientListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	clients, total, err := h.clientService.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.SuccessWithMeta(c, clients, total, filter.Page, filter.PageSize)
}

// Update updates a client
// PUT /api/v1/clients/:id
func (h *ClientHandler) Update(c *gin.Context) {
	id, ok := bindUUIDParam(c)
	if !ok {
		h.BadRequest(c, "Invalid client ID")
		return
	}

	var req crm.UpdateClientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	result, err := h.clientService.Update(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}

// Archive moves a client into the archived state
// POST /api/v1/clients/:id/archive
func (h *ClientHandler) Archive(c *gin.Context) {
	id, ok := bindUUIDParam(c)
	if !ok {
		h.BadRequest(c, "Invalid client ID")
		return
	}

	result, err := h.clientService.Archive(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}

// Unarchive restores an archived client to active
// POST /api/v1/clients/:id/unarchive
func (h *ClientHandler) Unarchive(c *gin.Context) {
	id, ok := bindUUIDParam(c)
	if !ok {
		h.BadRequest(c, "Invalid client ID")
		return
	}

	result, err := h.clientService.Unarchive(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}

// Delete removes a client and its contacts
// DELETE /api/v1/clients/:id
func (h *ClientHandler) Delete(c *gin.Context) {
	id, ok := bindUUIDParam(c)
	if !ok {
		h.BadRequest(c, "Invalid client ID")
		return
	}

	if err := h.clientService.Delete(c.Request.Context(), id); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}
