package handler

import (
	"strconv"

	"github.com/bizhub/backend/internal/application/dashboard"
	"github.com/gin-gonic/gin"
)

// DashboardHandler handles dashboard aggregate endpoints
type DashboardHandler struct {
	BaseHandler
	dashboardService *dashboard.DashboardService
}

// NewDashboardHandler creates a new dashboard handler
func NewDashboardHandler(dashboardService *dashboard.DashboardService) *DashboardHandler {
	return &DashboardHandler{dashboardService: dashboardService}
}

// Summary returns headline counts and totals
// GET /api/v1/dashboard/summary
func (h *DashboardHandler) Summary(c *gin.Context) {
	result, err := h.dashboardService.Summary(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}

// Pipeline returns deal counts and value grouped by stage
// GET /api/v1/dashboard/pipeline
func (h *DashboardHandler) Pipeline(c *gin.Context) {
	result, err := h.dashboardService.Pipeline(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}

// Revenue returns the trailing monthly revenue report
// GET /api/v1/dashboard/revenue?months=N
func (h *DashboardHandler) Revenue(c *gin.Context) {
	months := 0
	if raw := c.Query("months"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			h.BadRequest(c, "months must be an integer")
			return
		}
		months = parsed
	}

	result, err := h.dashboardService.Revenue(c.Request.Context(), months)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}
