package identity

import (
	"context"

	"github.com/bizhub/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// RoleRepository defines the interface for role persistence
type RoleRepository interface {
	// FindByID finds a role by ID with permissions loaded
	FindByID(ctx context.Context, id uuid.UUID) (*Role, error)

	// FindByCode finds a role by its code
	FindByCode(ctx context.Context, code string) (*Role, error)

	// FindByIDs finds roles by their IDs
	FindByIDs(ctx context.Context, ids []uuid.UUID) ([]Role, error)

	// FindAll finds roles matching the filter
	FindAll(ctx context.Context, filter shared.Filter) ([]Role, error)

	// Save creates or updates a role and its permissions
	Save(ctx context.Context, role *Role) error

	// Delete deletes a role
	Delete(ctx context.Context, id uuid.UUID) error

	// Count counts roles matching the filter
	Count(ctx context.Context, filter shared.Filter) (int64, error)

	// ExistsByCode checks if a role code is already taken
	ExistsByCode(ctx context.Context, code string) (bool, error)
}
