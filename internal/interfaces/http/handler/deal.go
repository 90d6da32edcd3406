package handler

import (
	"github.com/bizhub/backend/internal/application/pipeline"
	"github.com/bizhub/backend/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
)

// DealHandler handles deal endpoints
type DealHandler struct {
	BaseHandler
	dealService *pipeline.DealService
}

// NewDealHandler creates a new deal handler
func NewDealHandler(dealService *pipeline.DealService) *DealHandler {
	return &DealHandler{dealService: dealService}
}

// Create creates a new deal directly, without going through a lead
// POST /api/v1/deals
func (h *DealHandler) Create(c *gin.Context) {
	var req pipeline.CreateDealRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}
	if userID, err := getUserID(c); err == nil {
		req.CreatedBy = &userID
	}

	result, err := h.dealService.Create(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, result)
}

// Get returns a deal by ID
// GET /api/v1/deals/:id
func (h *DealHandler) Get(c *gin.Context) {
	id, ok := bindUUIDParam(c)
	if !ok {
		h.BadRequest(c, "Invalid deal ID")
		return
	}

	result, err := h.dealService.GetByID(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}

// List returns a paginated list of deals
// GET /api/v1/deals
func (h *DealHandler) List(c *gin.Context) {
	var filter pipeline.DealListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	deals, total, err := h.dealService.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.SuccessWithMeta(c, deals, total, filter.Page, filter.PageSize)
}

// Update updates an open deal
// PUT /api/v1/deals/:id
func (h *DealHandler) Update(c *gin.Context) {
	id, ok := bindUUIDParam(c)
	if !ok {
		h.BadRequest(c, "Invalid deal ID")
		return
	}

	var req pipeline.UpdateDealRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	result, err := h.dealService.Update(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}

// Win marks an open deal as won
// POST /api/v1/deals/:id/win
func (h *DealHandler) Win(c *gin.Context) {
	id, ok := bindUUIDParam(c)
	if !ok {
		h.BadRequest(c, "Invalid deal ID")
		return
	}

	result, err := h.dealService.Win(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}

// Lose marks an open deal as lost with an optional reason
// POST /api/v1/deals/:id/lose
func (h *DealHandler) Lose(c *gin.Context) {
	id, ok := bindUUIDParam(c)
	if !ok {
		h.BadRequest(c, "Invalid deal ID")
		return
	}

	var req pipeline.LoseDealRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			middleware.HandleValidationError(c, err)
			return
		}
	}

	result, err := h.dealService.Lose(c.Request.Context(), id, req.Reason)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}

// Reopen returns a won or lost deal to the open state
// POST /api/v1/deals/:id/reopen
func (h *DealHandler) Reopen(c *gin.Context) {
	id, ok := bindUUIDParam(c)
	if !ok {
		h.BadRequest(c, "Invalid deal ID")
		return
	}

	result, err := h.dealService.Reopen(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}

// Delete soft-deletes a deal, starting the retention clock
// DELETE /api/v1/deals/:id
func (h *DealHandler) Delete(c *gin.Context) {
	id, ok := bindUUIDParam(c)
	if !ok {
		h.BadRequest(c, "Invalid deal ID")
		return
	}

	if err := h.dealService.SoftDelete(c.Request.Context(), id); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}

// Restore recovers a soft-deleted deal within the retention window
// POST /api/v1/deals/:id/restore
func (h *DealHandler) Restore(c *gin.Context) {
	id, ok := bindUUIDParam(c)
	if !ok {
		h.BadRequest(c, "Invalid deal ID")
		return
	}

	result, err := h.dealService.Restore(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}
