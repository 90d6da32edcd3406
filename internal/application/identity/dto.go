package identity

import (
	"time"

	"github.com/bizhub/backend/internal/domain/identity"
	"github.com/google/uuid"
)

// =============================================================================
// Auth DTOs
// =============================================================================

// LoginRequest represents a login attempt
type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
	IP       string `json:"-"` // Client IP, set by the handler
}

// LoginResponse carries the issued tokens and the authenticated user
type LoginResponse struct {
	AccessToken           string       `json:"access_token"`
	RefreshToken          string       `json:"refresh_token"`
	AccessTokenExpiresAt  time.Time    `json:"access_token_expires_at"`
	RefreshTokenExpiresAt time.Time    `json:"refresh_token_expires_at"`
	TokenType             string       `json:"token_type"`
	User                  UserResponse `json:"user"`
}

// RefreshTokenRequest represents a token refresh attempt
type RefreshTokenRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

// RefreshTokenResponse carries the refreshed token pair
type RefreshTokenResponse struct {
	AccessToken           string    `json:"access_token"`
	RefreshToken          string    `json:"refresh_token"`
	AccessTokenExpiresAt  time.Time `json:"access_token_expires_at"`
	RefreshTokenExpiresAt time.Time `json:"refresh_token_expires_at"`
	TokenType             string    `json:"token_type"`
}

// LogoutRequest identifies the token being revoked
type LogoutRequest struct {
	UserID   uuid.UUID     `json:"-"`
	TokenJTI string        `json:"-"`
	TokenTTL time.Duration `json:"-"` // Remaining token lifetime
}

// ChangePasswordRequest represents a password change by the account owner
type ChangePasswordRequest struct {
	OldPassword string `json:"old_password" binding:"required"`
	NewPassword string `json:"new_password" binding:"required,min=8,max=128"`
}

// CurrentUserResponse carries the authenticated user's profile and permissions
type CurrentUserResponse struct {
	User        UserResponse `json:"user"`
	Permissions []string     `json:"permissions"`
}

// =============================================================================
// User DTOs
// =============================================================================

// CreateUserRequest represents a request to create a user
type CreateUserRequest struct {
	Username     string      `json:"username" binding:"required,min=3,max=100"`
	Password     string      `json:"password" binding:"required,min=8,max=128"`
	Email        string      `json:"email" binding:"omitempty,email"`
	DisplayName  string      `json:"display_name" binding:"omitempty,max=200"`
	DepartmentID *uuid.UUID  `json:"department_id"`
	RoleIDs      []uuid.UUID `json:"role_ids"`
	CreatedBy    *uuid.UUID  `json:"-"`
}

// UpdateUserRequest represents a request to update a user
type UpdateUserRequest struct {
	Email           *string     `json:"email" binding:"omitempty,email"`
	DisplayName     *string     `json:"display_name" binding:"omitempty,max=200"`
	DepartmentID    *uuid.UUID  `json:"department_id"`
	ClearDepartment bool        `json:"clear_department"`
	RoleIDs         []uuid.UUID `json:"role_ids"`
	Version         *int        `json:"version"`
}

// ResetPasswordRequest represents an admin password reset
type ResetPasswordRequest struct {
	NewPassword string `json:"new_password" binding:"required,min=8,max=128"`
}

// UserResponse represents a user in API responses
type UserResponse struct {
	ID           uuid.UUID   `json:"id"`
	Username     string      `json:"username"`
	Email        string      `json:"email,omitempty"`
	DisplayName  string      `json:"display_name,omitempty"`
	Status       string      `json:"status"`
	DepartmentID *uuid.UUID  `json:"department_id,omitempty"`
	RoleIDs      []uuid.UUID `json:"role_ids"`
	LastLoginAt  *time.Time  `json:"last_login_at,omitempty"`
	Version      int         `json:"version"`
	CreatedAt    time.Time   `json:"created_at"`
	UpdatedAt    time.Time   `json:"updated_at"`
}

// UserListFilter represents filtering options for user queries
type UserListFilter struct {
	Page         int        `form:"page"`
	PageSize     int        `form:"page_size"`
	OrderBy      string     `form:"order_by"`
	OrderDir     string     `form:"order_dir"`
	Search       string     `form:"search"`
	Status       string     `form:"status" binding:"omitempty,oneof=active deactivated"`
	DepartmentID *uuid.UUID `form:"department_id"`
}

// ToUserResponse converts a user aggregate to a response DTO
func ToUserResponse(u *identity.User) UserResponse {
	roleIDs := u.RoleIDs
	if roleIDs == nil {
		roleIDs = make([]uuid.UUID, 0)
	}
	return UserResponse{
		ID:           u.ID,
		Username:     u.Username,
		Email:        u.Email,
		DisplayName:  u.DisplayName,
		Status:       string(u.Status),
		DepartmentID: u.DepartmentID,
		RoleIDs:      roleIDs,
		LastLoginAt:  u.LastLoginAt,
		Version:      u.Version,
		CreatedAt:    u.CreatedAt,
		UpdatedAt:    u.UpdatedAt,
	}
}

// ToUserResponses converts a slice of users to response DTOs
func ToUserResponses(users []identity.User) []UserResponse {
	responses := make([]UserResponse, len(users))
	for i := range users {
		responses[i] = ToUserResponse(&users[i])
	}
	return responses
}

// =============================================================================
// Role DTOs
// =============================================================================

// CreateRoleRequest represents a request to create a role
type CreateRoleRequest struct {
	Code        string   `json:"code" binding:"required,max=50"`
	Name        string   `json:"name" binding:"required,max=100"`
	Description string   `json:"description"`
	Permissions []string `json:"permissions"`
}

// UpdateRoleRequest represents a request to update a role
type UpdateRoleRequest struct {
	Name        *string  `json:"name" binding:"omitempty,max=100"`
	Description *string  `json:"description"`
	Permissions []string `json:"permissions"`
	SortOrder   *int     `json:"sort_order"`
}

// RoleResponse represents a role in API responses
type RoleResponse struct {
	ID          uuid.UUID `json:"id"`
	Code        string    `json:"code"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	IsSystem    bool      `json:"is_system"`
	SortOrder   int       `json:"sort_order"`
	Permissions []string  `json:"permissions"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// ToRoleResponse converts a role aggregate to a response DTO
func ToRoleResponse(r *identity.Role) RoleResponse {
	return RoleResponse{
		ID:          r.ID,
		Code:        r.Code,
		Name:        r.Name,
		Description: r.Description,
		IsSystem:    r.IsSystem,
		SortOrder:   r.SortOrder,
		Permissions: r.PermissionCodes(),
		CreatedAt:   r.CreatedAt,
		UpdatedAt:   r.UpdatedAt,
	}
}

// ToRoleResponses converts a slice of roles to response DTOs
func ToRoleResponses(roles []identity.Role) []RoleResponse {
	responses := make([]RoleResponse, len(roles))
	for i := range roles {
		responses[i] = ToRoleResponse(&roles[i])
	}
	return responses
}

// =============================================================================
// Department DTOs
// =============================================================================

// CreateDepartmentRequest represents a request to create a department
type CreateDepartmentRequest struct {
	Code        string     `json:"code" binding:"required,min=2,max=50"`
	Name        string     `json:"name" binding:"required,max=200"`
	Description string     `json:"description"`
	ManagerID   *uuid.UUID `json:"manager_id"`
	SortOrder   int        `json:"sort_order"`
}

// UpdateDepartmentRequest represents a request to update a department
type UpdateDepartmentRequest struct {
	Name         *string    `json:"name" binding:"omitempty,max=200"`
	Description  *string    `json:"description"`
	ManagerID    *uuid.UUID `json:"manager_id"`
	ClearManager bool       `json:"clear_manager"`
	SortOrder    *int       `json:"sort_order"`
}

// DepartmentResponse represents a department in API responses
type DepartmentResponse struct {
	ID          uuid.UUID  `json:"id"`
	Code        string     `json:"code"`
	Name        string     `json:"name"`
	Description string     `json:"description,omitempty"`
	ManagerID   *uuid.UUID `json:"manager_id,omitempty"`
	SortOrder   int        `json:"sort_order"`
	Status      string     `json:"status"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// ToDepartmentResponse converts a department aggregate to a response DTO
func ToDepartmentResponse(d *identity.Department) DepartmentResponse {
	return DepartmentResponse{
		ID:          d.ID,
		Code:        d.Code,
		Name:        d.Name,
		Description: d.Description,
		ManagerID:   d.ManagerID,
		SortOrder:   d.SortOrder,
		Status:      string(d.Status),
		CreatedAt:   d.CreatedAt,
		UpdatedAt:   d.UpdatedAt,
	}
}

// ToDepartmentResponses converts a slice of departments to response DTOs
func ToDepartmentResponses(departments []identity.Department) []DepartmentResponse {
	responses := make([]DepartmentResponse, len(departments))
	for i := range departments {
		responses[i] = ToDepartmentResponse(&departments[i])
	}
	return responses
}
