package identity

import (
	"regexp"
	"strings"
	"time"

	"github.com/bizhub/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// Permission represents a functional permission (resource:action pattern)
// It is a value object
type Permission struct {
	Code     string // e.g. "deal:win"
	Resource string // e.g. "deal"
	Action   string // e.g. "win"
}

// NewPermission creates a new Permission value object
func NewPermission(resource, action string) (*Permission, error) {
	resource = strings.ToLower(strings.TrimSpace(resource))
	action = strings.ToLower(strings.TrimSpace(action))

	if resource == "" || !permissionPartRegex.MatchString(resource) {
		return nil, shared.NewDomainError("INVALID_PERMISSION", "Permission resource must be a lowercase identifier")
	}
	if action == "" || !permissionPartRegex.MatchString(action) {
		return nil, shared.NewDomainError("INVALID_PERMISSION", "Permission action must be a lowercase identifier")
	}

	return &Permission{
		Code:     resource + ":" + action,
		Resource: resource,
		Action:   action,
	}, nil
}

// NewPermissionFromCode creates a Permission from a code string (e.g. "deal:win")
func NewPermissionFromCode(code string) (*Permission, error) {
	parts := strings.SplitN(code, ":", 2)
	if len(parts) != 2 {
		return nil, shared.NewDomainError("INVALID_PERMISSION", "Permission code must be in format 'resource:action'")
	}
	return NewPermission(parts[0], parts[1])
}

var permissionPartRegex = regexp.MustCompile(`^[a-z][a-z0-9_]*$`)

// Role represents a named set of permissions
type Role struct {
	shared.BaseAggregateRoot
	Code        string       `gorm:"type:varchar(50);not null;uniqueIndex"`
	Name        string       `gorm:"type:varchar(100);not null"`
	Description string       `gorm:"type:text"`
	IsSystem    bool         `gorm:"not null;default:false"` // System roles cannot be deleted
	SortOrder   int          `gorm:"not null;default:0"`
	Permissions []Permission `gorm:"-"` // Stored in a separate table, loaded by repository
}

// TableName returns the table name for GORM
func (Role) TableName() string {
	return "roles"
}

// RolePermission is the persistence row joining roles and permissions
type RolePermission struct {
	RoleID    uuid.UUID `gorm:"type:uuid;not null;primaryKey"`
	Code      string    `gorm:"type:varchar(100);not null;primaryKey"`
	CreatedAt time.Time
}

// TableName returns the table name for GORM
func (RolePermission) TableName() string {
	return "role_permissions"
}

// NewRole creates a new role
func NewRole(code, name string) (*Role, error) {
	if err := validateRoleCode(code); err != nil {
		return nil, err
	}
	if err := validateRoleName(name); err != nil {
		return nil, err
	}

	return &Role{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Code:              strings.ToLower(strings.TrimSpace(code)),
		Name:              strings.TrimSpace(name),
		Permissions:       make([]Permission, 0),
	}, nil
}

// NewSystemRole creates a built-in role that cannot be deleted
func NewSystemRole(code, name string) (*Role, error) {
	role, err := NewRole(code, name)
	if err != nil {
		return nil, err
	}
	role.IsSystem = true
	return role, nil
}

// Update updates the role's name and description
func (r *Role) Update(name, description string) error {
	if err := validateRoleName(name); err != nil {
		return err
	}

	r.Name = strings.TrimSpace(name)
	r.Description = description
	r.UpdatedAt = time.Now()
	r.IncrementVersion()

	return nil
}

// SetSortOrder sets the display order
func (r *Role) SetSortOrder(order int) {
	r.SortOrder = order
	r.UpdatedAt = time.Now()
	r.IncrementVersion()
}

// GrantPermission adds a permission to the role
func (r *Role) GrantPermission(perm Permission) error {
	if perm.Code == "" {
		return shared.NewDomainError("INVALID_PERMISSION", "Permission cannot be empty")
	}

	for _, p := range r.Permissions {
		if p.Code == perm.Code {
			return shared.NewDomainError("PERMISSION_ALREADY_GRANTED", "Role already has this permission")
		}
	}

	r.Permissions = append(r.Permissions, perm)
	r.UpdatedAt = time.Now()
	r.IncrementVersion()

	return nil
}

// RevokePermission removes a permission from the role
func (r *Role) RevokePermission(code string) error {
	found := false
	remaining := make([]Permission, 0, len(r.Permissions))
	for _, p := range r.Permissions {
		if p.Code != code {
			remaining = append(remaining, p)
		} else {
			found = true
		}
	}

	if !found {
		return shared.NewDomainError("PERMISSION_NOT_GRANTED", "Role does not have this permission")
	}

	r.Permissions = remaining
	r.UpdatedAt = time.Now()
	r.IncrementVersion()

	return nil
}

// SetPermissions replaces the role's permissions, deduplicated
func (r *Role) SetPermissions(permissions []Permission) error {
	seen := make(map[string]bool)
	unique := make([]Permission, 0, len(permissions))
	for _, p := range permissions {
		if p.Code == "" {
			return shared.NewDomainError("INVALID_PERMISSION", "Permission cannot be empty")
		}
		if !seen[p.Code] {
			seen[p.Code] = true
			unique = append(unique, p)
		}
	}

	r.Permissions = unique
	r.UpdatedAt = time.Now()
	r.IncrementVersion()

	return nil
}

// HasPermission checks if role has a permission code
func (r *Role) HasPermission(code string) bool {
	for _, p := range r.Permissions {
		if p.Code == code {
			return true
		}
	}
	return false
}

// PermissionCodes returns the role's permission codes
func (r *Role) PermissionCodes() []string {
	codes := make([]string, 0, len(r.Permissions))
	for _, p := range r.Permissions {
		codes = append(codes, p.Code)
	}
	return codes
}

// CanDelete returns true if the role may be deleted
func (r *Role) CanDelete() bool {
	return !r.IsSystem
}

// Validation functions

func validateRoleCode(code string) error {
	code = strings.TrimSpace(code)
	if code == "" {
		return shared.NewDomainError("INVALID_ROLE_CODE", "Role code cannot be empty")
	}
	if len(code) > 50 {
		return shared.NewDomainError("INVALID_ROLE_CODE", "Role code cannot exceed 50 characters")
	}
	codeRegex := regexp.MustCompile(`^[a-zA-Z][a-zA-Z0-9_-]*$`)
	if !codeRegex.MatchString(code) {
		return shared.NewDomainError("INVALID_ROLE_CODE", "Role code must start with a letter and contain only letters, numbers, underscores, and hyphens")
	}
	return nil
}

func validateRoleName(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return shared.NewDomainError("INVALID_ROLE_NAME", "Role name cannot be empty")
	}
	if len(name) > 100 {
		return shared.NewDomainError("INVALID_ROLE_NAME", "Role name cannot exceed 100 characters")
	}
	return nil
}
