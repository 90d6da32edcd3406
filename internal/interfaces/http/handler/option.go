package handler

import (
	apppipeline "github.com/bizhub/backend/internal/application/pipeline"
	"github.com/bizhub/backend/internal/domain/pipeline"
	"github.com/bizhub/backend/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
)

// OptionHandler handles pipeline vocabulary endpoints (stages, labels, sources).
// The kind is fixed per route group, so Create and List are bound to a kind
// at registration time.
type OptionHandler struct {
	BaseHandler
	optionService *apppipeline.OptionService
}

// NewOptionHandler creates a new option handler
func NewOptionHandler(optionService *apppipeline.OptionService) *OptionHandler {
	return &OptionHandler{optionService: optionService}
}

// Create returns a handler that creates an option of the given kind
// POST /api/v1/pipeline/{stages|labels|sources}
func (h *OptionHandler) Create(kind pipeline.OptionKind) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req apppipeline.CreateOptionRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			middleware.HandleValidationError(c, err)
			return
		}

		result, err := h.optionService.Create(c.Request.Context(), kind, req)
		if err != nil {
			h.HandleError(c, err)
			return
		}

		h.Created(c, result)
	}
}

// List returns a handler that lists options of the given kind in sort order
// GET /api/v1/pipeline/{stages|labels|sources}
func (h *OptionHandler) List(kind pipeline.OptionKind) gin.HandlerFunc {
	return func(c *gin.Context) {
		options, err := h.optionService.ListByKind(c.Request.Context(), kind)
		if err != nil {
			h.HandleError(c, err)
			return
		}

		h.Success(c, options)
	}
}

// Get returns an option by ID
// GET /api/v1/pipeline/options/:id
func (h *OptionHandler) Get(c *gin.Context) {
	id, ok := bindUUIDParam(c)
	if !ok {
		h.BadRequest(c, "Invalid option ID")
		return
	}

	result, err := h.optionService.GetByID(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}

// Update renames or restyles an option; renames cascade to denormalized
// copies on leads and deals
// PUT /api/v1/pipeline/options/:id
func (h *OptionHandler) Update(c *gin.Context) {
	id, ok := bindUUIDParam(c)
	if !ok {
		h.BadRequest(c, "Invalid option ID")
		return
	}

	var req apppipeline.UpdateOptionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	result, err := h.optionService.Update(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}

// Delete removes an option that is no longer referenced
// DELETE /api/v1/pipeline/options/:id
func (h *OptionHandler) Delete(c *gin.Context) {
	id, ok := bindUUIDParam(c)
	if !ok {
		h.BadRequest(c, "Invalid option ID")
		return
	}

	if err := h.optionService.Delete(c.Request.Context(), id); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}
