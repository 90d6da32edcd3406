package identity

import (
	"context"

	"github.com/bizhub/backend/internal/domain/identity"
	"github.com/bizhub/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// RoleService handles role and permission management
type RoleService struct {
	roleRepo identity.RoleRepository
	userRepo identity.UserRepository
}

// NewRoleService creates a new RoleService
func NewRoleService(roleRepo identity.RoleRepository, userRepo identity.UserRepository) *RoleService {
	return &RoleService{
		roleRepo: roleRepo,
		userRepo: userRepo,
	}
}

// Create creates a new role with the given permissions
func (s *RoleService) Create(ctx context.Context, req CreateRoleRequest) (*RoleResponse, error) {
	exists, err := s.roleRepo.ExistsByCode(ctx, req.Code)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, shared.NewDomainError("ALREADY_EXISTS", "Role code is already taken")
	}

	role, err := identity.NewRole(req.Code, req.Name)
	if err != nil {
		return nil, err
	}
	role.Description = req.Description

	if len(req.Permissions) > 0 {
		permissions, err := parsePermissions(req.Permissions)
		if err != nil {
			return nil, err
		}
		if err := role.SetPermissions(permissions); err != nil {
			return nil, err
		}
	}

	if err := s.roleRepo.Save(ctx, role); err != nil {
		return nil, err
	}

	response := ToRoleResponse(role)
	return &response, nil
}

// GetByID retrieves a role by ID
func (s *RoleService) GetByID(ctx context.Context, roleID uuid.UUID) (*RoleResponse, error) {
	role, err := s.roleRepo.FindByID(ctx, roleID)
	if err != nil {
		return nil, err
	}

	response := ToRoleResponse(role)
	return &response, nil
}

// List retrieves all roles ordered by sort order
func (s *RoleService) List(ctx context.Context) ([]RoleResponse, error) {
	filter := shared.DefaultFilter()
	filter.PageSize = 200
	filter.OrderBy = "sort_order"
	filter.OrderDir = "asc"

	roles, err := s.roleRepo.FindAll(ctx, filter)
	if err != nil {
		return nil, err
	}

	return ToRoleResponses(roles), nil
}

// Update updates a role's name, description, and permissions
func (s *RoleService) Update(ctx context.Context, roleID uuid.UUID, req UpdateRoleRequest) (*RoleResponse, error) {
	role, err := s.roleRepo.FindByID(ctx, roleID)
	if err != nil {
		return nil, err
	}

	name := role.Name
	if req.Name != nil {
		name = *req.Name
	}
	description := role.Description
	if req.Description != nil {
		description = *req.Description
	}
	if err := role.Update(name, description); err != nil {
		return nil, err
	}

	if req.SortOrder != nil {
		role.SetSortOrder(*req.SortOrder)
	}

	if req.Permissions != nil {
		permissions, err := parsePermissions(req.Permissions)
		if err != nil {
			return nil, err
		}
		if err := role.SetPermissions(permissions); err != nil {
			return nil, err
		}
	}

	if err := s.roleRepo.Save(ctx, role); err != nil {
		return nil, err
	}

	response := ToRoleResponse(role)
	return &response, nil
}

// Delete deletes a role. System roles and roles still assigned to users
// cannot be deleted.
func (s *RoleService) Delete(ctx context.Context, roleID uuid.UUID) error {
	role, err := s.roleRepo.FindByID(ctx, roleID)
	if err != nil {
		return err
	}

	if !role.CanDelete() {
		return shared.NewDomainError("SYSTEM_ROLE", "System roles cannot be deleted")
	}

	assigned, err := s.userRepo.CountByRole(ctx, roleID)
	if err != nil {
		return err
	}
	if assigned > 0 {
		return shared.ErrReferenceInUse
	}

	return s.roleRepo.Delete(ctx, roleID)
}

func parsePermissions(codes []string) ([]identity.Permission, error) {
	permissions := make([]identity.Permission, 0, len(codes))
	for _, code := range codes {
		perm, err := identity.NewPermissionFromCode(code)
		if err != nil {
			return nil, err
		}
		permissions = append(permissions, *perm)
	}
	return permissions, nil
}
