package project

import (
	"context"

	"github.com/bizhub/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// Repository defines the interface for project persistence
type Repository interface {
	// FindByID finds a project by its ID
	FindByID(ctx context.Context, id uuid.UUID) (*Project, error)

	// FindAll finds all projects matching the filter
	FindAll(ctx context.Context, filter shared.Filter) ([]Project, error)

	// FindByClient finds projects belonging to a client
	FindByClient(ctx context.Context, clientID uuid.UUID, filter shared.Filter) ([]Project, error)

	// FindByStatus finds projects by status
	FindByStatus(ctx context.Context, status Status, filter shared.Filter) ([]Project, error)

	// Save creates or updates a project
	Save(ctx context.Context, project *Project) error

	// SaveWithLock saves a project with optimistic locking (version check)
	SaveWithLock(ctx context.Context, project *Project) error

	// Delete deletes a project
	Delete(ctx context.Context, id uuid.UUID) error

	// Count counts projects matching the filter
	Count(ctx context.Context, filter shared.Filter) (int64, error)

	// CountByStatus counts projects by status
	CountByStatus(ctx context.Context, status Status) (int64, error)

	// CountByClient counts projects for a client
	CountByClient(ctx context.Context, clientID uuid.UUID) (int64, error)
}
