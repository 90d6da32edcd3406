package identity

import (
	"context"

	"github.com/bizhub/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// UserRepository defines the interface for user persistence
type UserRepository interface {
	// FindByID finds a user by ID with role IDs loaded
	FindByID(ctx context.Context, id uuid.UUID) (*User, error)

	// FindByUsername finds a user by username
	FindByUsername(ctx context.Context, username string) (*User, error)

	// FindByEmail finds a user by email
	FindByEmail(ctx context.Context, email string) (*User, error)

	// FindAll finds users matching the filter
	FindAll(ctx context.Context, filter shared.Filter) ([]User, error)

	// Save creates or updates a user and its role assignments
	Save(ctx context.Context, user *User) error

	// SaveWithLock saves a user with optimistic locking
	SaveWithLock(ctx context.Context, user *User) error

	// Delete deletes a user
	Delete(ctx context.Context, id uuid.UUID) error

	// Count counts users matching the filter
	Count(ctx context.Context, filter shared.Filter) (int64, error)

	// ExistsByUsername checks if a username is already taken
	ExistsByUsername(ctx context.Context, username string) (bool, error)

	// ExistsByEmail checks if an email is already taken
	ExistsByEmail(ctx context.Context, email string) (bool, error)

	// CountByRole counts users assigned a role
	CountByRole(ctx context.Context, roleID uuid.UUID) (int64, error)

	// CountByDepartment counts users in a department
	CountByDepartment(ctx context.Context, departmentID uuid.UUID) (int64, error)
}
