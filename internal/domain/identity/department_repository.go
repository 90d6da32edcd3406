package identity

import (
	"context"

	"github.com/bizhub/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// DepartmentRepository defines the interface for department persistence
type DepartmentRepository interface {
	// FindByID finds a department by ID
	FindByID(ctx context.Context, id uuid.UUID) (*Department, error)

	// FindByCode finds a department by its code
	FindByCode(ctx context.Context, code string) (*Department, error)

	// FindAll finds departments matching the filter
	FindAll(ctx context.Context, filter shared.Filter) ([]Department, error)

	// Save creates or updates a department
	Save(ctx context.Context, department *Department) error

	// Delete deletes a department
	Delete(ctx context.Context, id uuid.UUID) error

	// Count counts departments matching the filter
	Count(ctx context.Context, filter shared.Filter) (int64, error)

	// ExistsByCode checks if a department code is already taken
	ExistsByCode(ctx context.Context, code string) (bool, error)
}
