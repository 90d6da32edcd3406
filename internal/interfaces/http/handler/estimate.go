package handler

import (
	"github.com/bizhub/backend/internal/application/billing"
	"github.com/bizhub/backend/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
)

// EstimateHandler handles estimate endpoints
type EstimateHandler struct {
	BaseHandler
	estimateService *billing.EstimateService
}

// NewEstimateHandler creates a new estimate handler
func NewEstimateHandler(estimateService *billing.EstimateService) *EstimateHandler {
	return &EstimateHandler{estimateService: estimateService}
}

// Create creates a new draft estimate
// POST /api/v1/estimates
func (h *EstimateHandler) Create(c *gin.Context) {
	var req billing.CreateEstimateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}
	if userID, err := getUserID(c); err == nil {
		req.CreatedBy = &userID
	}

	result, err := h.estimateService.Create(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, result)
}

// Get returns an estimate by ID
// GET /api/v1/estimates/:id
func (h *EstimateHandler) Get(c *gin.Context) {
	id, ok := bindUUIDParam(c)
	if !ok {
		h.BadRequest(c, "Invalid estimate ID")
		return
	}

	result, err := h.estimateService.GetByID(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}

// List returns a paginated list of estimates
// GET /api/v1/estimates
func (h *EstimateHandler) List(c *gin.Context) {
	var filter billing.EstimateListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	estimates, total, err := h.estimateService.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.SuccessWithMeta(c, estimates, total, filter.Page, filter.PageSize)
}

// Update updates a draft estimate
// PUT /api/v1/estimates/:id
func (h *EstimateHandler) Update(c *gin.Context) {
	id, ok := bindUUIDParam(c)
	if !ok {
		h.BadRequest(c, "Invalid estimate ID")
		return
	}

	var req billing.UpdateEstimateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	result, err := h.estimateService.Update(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}

// Send marks a draft estimate as sent to the client
// POST /api/v1/estimates/:id/send
func (h *EstimateHandler) Send(c *gin.Context) {
	id, ok := bindUUIDParam(c)
	if !ok {
		h.BadRequest(c, "Invalid estimate ID")
		return
	}

	result, err := h.estimateService.Send(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}

// Accept marks a sent estimate as accepted, optionally spawning an invoice
// POST /api/v1/estimates/:id/accept
func (h *EstimateHandler) Accept(c *gin.Context) {
	id, ok := bindUUIDParam(c)
	if !ok {
		h.BadRequest(c, "Invalid estimate ID")
		return
	}

	var req billing.AcceptEstimateRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			middleware.HandleValidationError(c, err)
			return
		}
	}

	result, err := h.estimateService.Accept(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}

// Decline marks a sent estimate as declined
// POST /api/v1/estimates/:id/decline
func (h *EstimateHandler) Decline(c *gin.Context) {
	id, ok := bindUUIDParam(c)
	if !ok {
		h.BadRequest(c, "Invalid estimate ID")
		return
	}

	result, err := h.estimateService.Decline(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}

// Delete removes a draft estimate
// DELETE /api/v1/estimates/:id
func (h *EstimateHandler) Delete(c *gin.Context) {
	id, ok := bindUUIDParam(c)
	if !ok {
		h.BadRequest(c, "Invalid estimate ID")
		return
	}

	if err := h.estimateService.Delete(c.Request.Context(), id); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}
