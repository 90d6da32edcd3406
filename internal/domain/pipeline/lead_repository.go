package pipeline

import (
	"context"

	"github.com/bizhub/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// LeadRepository defines the interface for lead persistence
type LeadRepository interface {
	// FindByID finds a lead by its ID
	FindByID(ctx context.Context, id uuid.UUID) (*Lead, error)

	// FindAll finds all leads matching the filter
	FindAll(ctx context.Context, filter shared.Filter) ([]Lead, error)

	// FindByStage finds leads in a given stage
	FindByStage(ctx context.Context, stageID uuid.UUID, filter shared.Filter) ([]Lead, error)

	// FindByOwner finds leads assigned to a user
	FindByOwner(ctx context.Context, ownerID uuid.UUID, filter shared.Filter) ([]Lead, error)

	// Save creates or updates a lead
	Save(ctx context.Context, lead *Lead) error

	// SaveWithLock saves a lead with optimistic locking (version check)
	SaveWithLock(ctx context.Context, lead *Lead) error

	// Delete deletes a lead
	Delete(ctx context.Context, id uuid.UUID) error

	// Count counts leads matching the filter
	Count(ctx context.Context, filter shared.Filter) (int64, error)

	// CountByStage counts leads in a given stage
	CountByStage(ctx context.Context, stageID uuid.UUID) (int64, error)

	// CountByOption counts leads referencing a vocabulary option
	// in any of the stage/label/source columns
	CountByOption(ctx context.Context, optionID uuid.UUID) (int64, error)
}
