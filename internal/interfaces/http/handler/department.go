package handler

import (
	"github.com/bizhub/backend/internal/application/identity"
	"github.com/bizhub/backend/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
)

// DepartmentHandler handles department endpoints
type DepartmentHandler struct {
	BaseHandler
	departmentService *identity.DepartmentService
}

// NewDepartmentHandler creates a new department handler
func NewDepartmentHandler(departmentService *identity.DepartmentService) *DepartmentHandler {
	return &DepartmentHandler{departmentService: departmentService}
}

// Create creates a new department
// POST /api/v1/departments
func (h *DepartmentHandler) Create(c *gin.Context) {
	var req identity.CreateDepartmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	result, err := h.departmentService.Create(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, result)
}

// Get returns a department by ID
// GET /api/v1/departments/:id
func (h *DepartmentHandler) Get(c *gin.Context) {
	id, ok := bindUUIDParam(c)
	if !ok {
		h.BadRequest(c, "Invalid department ID")
		return
	}

	result, err := h.departmentService.GetByID(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}

// List returns all departments
// GET /api/v1/departments
func (h *DepartmentHandler) List(c *gin.Context) {
	departments, err := h.departmentService.List(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, departments)
}

// Update updates a department
// PUT /api/v1/departments/:id
func (h *DepartmentHandler) Update(c *gin.Context) {
	id, ok := bindUUIDParam(c)
	if !ok {
		h.BadRequest(c, "Invalid department ID")
		return
	}

	var req identity.UpdateDepartmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	result, err := h.departmentService.Update(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}

// Delete removes a department
// DELETE /api/v1/departments/:id
func (h *DepartmentHandler) Delete(c *gin.Context) {
	id, ok := bindUUIDParam(c)
	if !ok {
		h.BadRequest(c, "Invalid department ID")
		return
	}

	if err := h.departmentService.Delete(c.Request.Context(), id); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}
