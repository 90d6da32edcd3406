package handler

import (
	"github.com/bizhub/backend/internal/application/pipeline"
	"github.com/bizhub/backend/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
)

// LeadHandler handles lead endpoints
type LeadHandler struct {
	BaseHandler
	leadService *pipeline.LeadService
}

// NewLeadHandler creates a new lead handler
func NewLeadHandler(leadService *pipeline.LeadService) *LeadHandler {
	return &LeadHandler{leadService: leadService}
}

// Create creates a new lead
// POST /api/v1/leads
func (h *LeadHandler) Create(c *gin.Context) {
	var req pipeline.CreateLeadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}
	if userID, err := getUserID(c); err == nil {
		req.CreatedBy = &userID
	}

	result, err := h.leadService.Create(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, result)
}

// Get returns a lead by ID
// GET /api/v1/leads/:id
func (h *LeadHandler) Get(c *gin.Context) {
	id, ok := bindUUIDParam(c)
	if !ok {
		h.BadRequest(c, "Invalid lead ID")
		return
	}

	result, err := h.leadService.GetByID(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}

// List returns a paginated list of leads
// GET /api/v1/leads
func (h *LeadHandler) List(c *gin.Context) {
	var filter pipeline.LeadListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	leads, total, err := h.leadService.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.SuccessWithMeta(c, leads, total, filter.Page, filter.PageSize)
}

// Update updates a lead
// PUT /api/v1/leads/:id
func (h *LeadHandler) Update(c *gin.Context) {
	id, ok := bindUUIDParam(c)
	if !ok {
		h.BadRequest(c, "Invalid lead ID")
		return
	}

	var req pipeline.UpdateLeadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	result, err := h.leadService.Update(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}

// Convert converts a lead into an open deal, deleting the lead
// POST /api/v1/leads/:id/convert
func (h *LeadHandler) Convert(c *gin.Context) {
	id, ok := bindUUIDParam(c)
	if !ok {
		h.BadRequest(c, "Invalid lead ID")
		return
	}

	deal, err := h.leadService.Convert(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, deal)
}

// Delete removes a lead
// DELETE /api/v1/leads/:id
func (h *LeadHandler) Delete(c *gin.Context) {
	id, ok := bindUUIDParam(c)
	if !ok {
		h.BadRequest(c, "Invalid lead ID")
		return
	}

	if err := h.leadService.Delete(c.Request.Context(), id); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}
