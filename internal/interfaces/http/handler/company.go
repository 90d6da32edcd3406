package handler

import (
	"github.com/bizhub/backend/internal/application/settings"
	"github.com/bizhub/backend/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
)

// CompanyHandler handles the company profile endpoints
type CompanyHandler struct {
	BaseHandler
	companyService *settings.CompanyService
}

// NewCompanyHandler creates a new company handler
func NewCompanyHandler(companyService *settings.CompanyService) *CompanyHandler {
	return &CompanyHandler{companyService: companyService}
}

// Get returns the company profile singleton
// GET /api/v1/settings/company
func (h *CompanyHandler) Get(c *gin.Context) {
	result, err := h.companyService.Get(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}

// Update updates the company profile
// PUT /api/v1/settings/company
func (h *CompanyHandler) Update(c *gin.Context) {
	var req settings.UpdateCompanyProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	result, err := h.companyService.Update(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}
