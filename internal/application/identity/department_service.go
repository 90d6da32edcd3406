package identity

import (
	"context"

	"github.com/bizhub/backend/internal/domain/identity"
	"github.com/bizhub/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// DepartmentService handles department management
type DepartmentService struct {
	departmentRepo identity.DepartmentRepository
	userRepo       identity.UserRepository
}

// NewDepartmentService creates a new DepartmentService
func NewDepartmentService(departmentRepo identity.DepartmentRepository, userRepo identity.UserRepository) *DepartmentService {
	return &DepartmentService{
		departmentRepo: departmentRepo,
		userRepo:       userRepo,
	}
}

// Create creates a new department
func (s *DepartmentService) Create(ctx context.Context, req CreateDepartmentRequest) (*DepartmentResponse, error) {
	exists, err := s.departmentRepo.ExistsByCode(ctx, req.Code)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, shared.NewDomainError("ALREADY_EXISTS", "Department code is already taken")
	}

	department, err := identity.NewDepartment(req.Code, req.Name)
	if err != nil {
		return nil, err
	}
	department.Description = req.Description

	if req.ManagerID != nil {
		if _, err := s.userRepo.FindByID(ctx, *req.ManagerID); err != nil {
			return nil, err
		}
		department.SetManager(req.ManagerID)
	}
	if req.SortOrder != 0 {
		department.SetSortOrder(req.SortOrder)
	}

	if err := s.departmentRepo.Save(ctx, department); err != nil {
		return nil, err
	}

	response := ToDepartmentResponse(department)
	return &response, nil
}

// GetByID retrieves a department by ID
func (s *DepartmentService) GetByID(ctx context.Context, departmentID uuid.UUID) (*DepartmentResponse, error) {
	department, err := s.departmentRepo.FindByID(ctx, departmentID)
	if err != nil {
		return nil, err
	}

	response := ToDepartmentResponse(department)
	return &response, nil
}

// List retrieves all departments ordered by sort order
func (s *DepartmentService) List(ctx context.Context) ([]DepartmentResponse, error) {
	filter := shared.DefaultFilter()
	filter.PageSize = 200
	filter.OrderBy = "sort_order"
	filter.OrderDir = "asc"

	departments, err := s.departmentRepo.FindAll(ctx, filter)
	if err != nil {
		return nil, err
	}

	return ToDepartmentResponses(departments), nil
}

// Update updates a department's details and manager
func (s *DepartmentService) Update(ctx context.Context, departmentID uuid.UUID, req UpdateDepartmentRequest) (*DepartmentResponse, error) {
	department, err := s.departmentRepo.FindByID(ctx, departmentID)
	if err != nil {
		return nil, err
	}

	name := department.Name
	if req.Name != nil {
		name = *req.Name
	}
	description := department.Description
	if req.Description != nil {
		description = *req.Description
	}
	if err := department.Update(name, description); err != nil {
		return nil, err
	}

	if req.ClearManager {
		department.SetManager(nil)
	} else if req.ManagerID != nil {
		if _, err := s.userRepo.FindByID(ctx, *req.ManagerID); err != nil {
			return nil, err
		}
		department.SetManager(req.ManagerID)
	}

	if req.SortOrder != nil {
		department.SetSortOrder(*req.SortOrder)
	}

	if err := s.departmentRepo.Save(ctx, department); err != nil {
		return nil, err
	}

	response := ToDepartmentResponse(department)
	return &response, nil
}

// Delete deletes a department. Departments with assigned users cannot be
// deleted.
func (s *DepartmentService) Delete(ctx context.Context, departmentID uuid.UUID) error {
	if _, err := s.departmentRepo.FindByID(ctx, departmentID); err != nil {
		return err
	}

	members, err := s.userRepo.CountByDepartment(ctx, departmentID)
	if err != nil {
		return err
	}
	if members > 0 {
		return shared.ErrReferenceInUse
	}

	return s.departmentRepo.Delete(ctx, departmentID)
}
