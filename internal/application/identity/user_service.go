package identity

import (
	"context"
	"strings"

	"github.com/bizhub/backend/internal/domain/identity"
	"github.com/bizhub/backend/internal/domain/shared"
	"github.com/bizhub/backend/internal/infrastructure/auth"
	"github.com/google/uuid"
)

// UserService handles user administration. Deactivating a user revokes
// their outstanding tokens.
type UserService struct {
	userRepo       identity.UserRepository
	roleRepo       identity.RoleRepository
	departmentRepo identity.DepartmentRepository
	jwtService     *auth.JWTService
	blacklist      auth.TokenBlacklist
	eventPublisher shared.EventPublisher
}

// NewUserService creates a new UserService
func NewUserService(
	userRepo identity.UserRepository,
	roleRepo identity.RoleRepository,
	departmentRepo identity.DepartmentRepository,
	jwtService *auth.JWTService,
	blacklist auth.TokenBlacklist,
) *UserService {
	return &UserService{
		userRepo:       userRepo,
		roleRepo:       roleRepo,
		departmentRepo: departmentRepo,
		jwtService:     jwtService,
		blacklist:      blacklist,
	}
}

// SetEventPublisher sets the event publisher for publishing domain events
func (s *UserService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// Create creates a new user with optional roles and department
func (s *UserService) Create(ctx context.Context, req CreateUserRequest) (*UserResponse, error) {
	username := strings.ToLower(strings.TrimSpace(req.Username))
	exists, err := s.userRepo.ExistsByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, shared.NewDomainError("ALREADY_EXISTS", "Username is already taken")
	}

	if req.Email != "" {
		emailTaken, err := s.userRepo.ExistsByEmail(ctx, strings.ToLower(req.Email))
		if err != nil {
			return nil, err
		}
		if emailTaken {
			return nil, shared.NewDomainError("ALREADY_EXISTS", "Email is already in use")
		}
	}

	user, err := identity.NewUser(req.Username, req.Password)
	if err != nil {
		return nil, err
	}
	user.CreatedBy = req.CreatedBy

	if req.Email != "" {
		if err := user.SetEmail(req.Email); err != nil {
			return nil, err
		}
	}
	if req.DisplayName != "" {
		if err := user.SetDisplayName(req.DisplayName); err != nil {
			return nil, err
		}
	}
	if req.DepartmentID != nil {
		if _, err := s.departmentRepo.FindByID(ctx, *req.DepartmentID); err != nil {
			return nil, err
		}
		user.SetDepartment(req.DepartmentID)
	}
	if len(req.RoleIDs) > 0 {
		if err := s.verifyRolesExist(ctx, req.RoleIDs); err != nil {
			return nil, err
		}
		if err := user.SetRoles(req.RoleIDs); err != nil {
			return nil, err
		}
	}

	if err := s.userRepo.Save(ctx, user); err != nil {
		return nil, err
	}

	s.publishDomainEvents(ctx, &user.BaseAggregateRoot)

	response := ToUserResponse(user)
	return &response, nil
}

// GetByID retrieves a user by ID
func (s *UserService) GetByID(ctx context.Context, userID uuid.UUID) (*UserResponse, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	response := ToUserResponse(user)
	return &response, nil
}

// List retrieves users with filtering and pagination
func (s *UserService) List(ctx context.Context, filter UserListFilter) ([]UserResponse, int64, error) {
	domainFilter := shared.DefaultFilter()
	if filter.Page > 0 {
		domainFilter.Page = filter.Page
	}
	if filter.PageSize > 0 {
		domainFilter.PageSize = filter.PageSize
	}
	if filter.OrderBy != "" {
		domainFilter.OrderBy = filter.OrderBy
	}
	if filter.OrderDir != "" {
		domainFilter.OrderDir = filter.OrderDir
	}
	domainFilter.Search = filter.Search
	if filter.Status != "" {
		domainFilter.Filters["status"] = filter.Status
	}
	if filter.DepartmentID != nil {
		domainFilter.Filters["department_id"] = *filter.DepartmentID
	}

	users, err := s.userRepo.FindAll(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	total, err := s.userRepo.Count(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	return ToUserResponses(users), total, nil
}

// Update updates a user's profile, department, and roles
func (s *UserService) Update(ctx context.Context, userID uuid.UUID, req UpdateUserRequest) (*UserResponse, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if req.Version != nil && *req.Version != user.Version {
		return nil, shared.ErrConcurrencyConflict
	}

	if req.Email != nil {
		if *req.Email != "" && !strings.EqualFold(*req.Email, user.Email) {
			emailTaken, err := s.userRepo.ExistsByEmail(ctx, strings.ToLower(*req.Email))
			if err != nil {
				return nil, err
			}
			if emailTaken {
				return nil, shared.NewDomainError("ALREADY_EXISTS", "Email is already in use")
			}
		}
		if err := user.SetEmail(*req.Email); err != nil {
			return nil, err
		}
	}
	if req.DisplayName != nil {
		if err := user.SetDisplayName(*req.DisplayName); err != nil {
			return nil, err
		}
	}

	if req.ClearDepartment {
		user.SetDepartment(nil)
	} else if req.DepartmentID != nil {
		if _, err := s.departmentRepo.FindByID(ctx, *req.DepartmentID); err != nil {
			return nil, err
		}
		user.SetDepartment(req.DepartmentID)
	}

	if req.RoleIDs != nil {
		if err := s.verifyRolesExist(ctx, req.RoleIDs); err != nil {
			return nil, err
		}
		if err := user.SetRoles(req.RoleIDs); err != nil {
			return nil, err
		}
	}

	if err := s.userRepo.SaveWithLock(ctx, user); err != nil {
		return nil, err
	}

	s.publishDomainEvents(ctx, &user.BaseAggregateRoot)

	response := ToUserResponse(user)
	return &response, nil
}

// ResetPassword sets a new password without the old one (admin action).
// The user's outstanding tokens are revoked.
func (s *UserService) ResetPassword(ctx context.Context, userID uuid.UUID, req ResetPasswordRequest) error {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return err
	}

	if err := user.SetPassword(req.NewPassword); err != nil {
		return err
	}

	if err := s.userRepo.Save(ctx, user); err != nil {
		return err
	}

	s.publishDomainEvents(ctx, &user.BaseAggregateRoot)
	s.revokeUserTokens(ctx, userID)

	return nil
}

// Activate re-activates a deactivated user
func (s *UserService) Activate(ctx context.Context, userID uuid.UUID) (*UserResponse, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if err := user.Activate(); err != nil {
		return nil, err
	}

	if err := s.userRepo.Save(ctx, user); err != nil {
		return nil, err
	}

	s.publishDomainEvents(ctx, &user.BaseAggregateRoot)

	response := ToUserResponse(user)
	return &response, nil
}

// Deactivate deactivates a user and revokes their outstanding tokens
func (s *UserService) Deactivate(ctx context.Context, userID uuid.UUID) (*UserResponse, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if err := user.Deactivate(); err != nil {
		return nil, err
	}

	if err := s.userRepo.Save(ctx, user); err != nil {
		return nil, err
	}

	s.publishDomainEvents(ctx, &user.BaseAggregateRoot)
	s.revokeUserTokens(ctx, userID)

	response := ToUserResponse(user)
	return &response, nil
}

// Delete permanently deletes a user
func (s *UserService) Delete(ctx context.Context, userID uuid.UUID) error {
	if _, err := s.userRepo.FindByID(ctx, userID); err != nil {
		return err
	}

	s.revokeUserTokens(ctx, userID)

	return s.userRepo.Delete(ctx, userID)
}

func (s *UserService) verifyRolesExist(ctx context.Context, roleIDs []uuid.UUID) error {
	roles, err := s.roleRepo.FindByIDs(ctx, roleIDs)
	if err != nil {
		return err
	}

	found := make(map[uuid.UUID]bool, len(roles))
	for i := range roles {
		found[roles[i].ID] = true
	}
	for _, rid := range roleIDs {
		if !found[rid] {
			return shared.NewDomainError("INVALID_ROLE_ID", "Role does not exist: "+rid.String())
		}
	}
	return nil
}

func (s *UserService) revokeUserTokens(ctx context.Context, userID uuid.UUID) {
	if s.blacklist == nil || s.jwtService == nil {
		return
	}
	ttl := s.jwtService.GetRefreshTokenExpiration()
	_ = s.blacklist.RevokeUser(ctx, userID.String(), ttl)
}

func (s *UserService) publishDomainEvents(ctx context.Context, root *shared.BaseAggregateRoot) {
	if s.eventPublisher == nil {
		return
	}
	events := root.GetDomainEvents()
	if len(events) == 0 {
		return
	}
	_ = s.eventPublisher.Publish(ctx, events...)
	root.ClearDomainEvents()
}
