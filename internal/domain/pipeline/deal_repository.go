package pipeline

import (
	"context"
	"time"

	"github.com/bizhub/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// DealRepository defines the interface for deal persistence
type DealRepository interface {
	// FindByID finds a deal by its ID (soft-deleted deals included)
	FindByID(ctx context.Context, id uuid.UUID) (*Deal, error)

	// FindAll finds all deals matching the filter. Soft-deleted deals are
	// excluded unless the filter sets "include_deleted".
	FindAll(ctx context.Context, filter shared.Filter) ([]Deal, error)

	// FindByStage finds live deals in a given stage
	FindByStage(ctx context.Context, stageID uuid.UUID, filter shared.Filter) ([]Deal, error)

	// FindByStatus finds live deals by lifecycle status
	FindByStatus(ctx context.Context, status DealStatus, filter shared.Filter) ([]Deal, error)

	// FindByOwner finds live deals assigned to a user
	FindByOwner(ctx context.Context, ownerID uuid.UUID, filter shared.Filter) ([]Deal, error)

	// FindWonBetween finds deals won within a time range
	FindWonBetween(ctx context.Context, from, to time.Time) ([]Deal, error)

	// Save creates or updates a deal
	Save(ctx context.Context, deal *Deal) error

	// SaveWithLock saves a deal with optimistic locking (version check)
	SaveWithLock(ctx context.Context, deal *Deal) error

	// CreateFromLead persists the deal and removes the originating lead in
	// a single transaction
	CreateFromLead(ctx context.Context, deal *Deal, leadID uuid.UUID) error

	// Delete permanently deletes a deal row
	Delete(ctx context.Context, id uuid.UUID) error

	// PurgeDeletedBefore permanently removes soft-deleted deals whose
	// deletion timestamp is older than the cutoff. Returns rows removed.
	PurgeDeletedBefore(ctx context.Context, cutoff time.Time) (int64, error)

	// Count counts deals matching the filter (soft-deleted excluded unless
	// the filter sets "include_deleted")
	Count(ctx context.Context, filter shared.Filter) (int64, error)

	// CountByStatus counts live deals by lifecycle status
	CountByStatus(ctx context.Context, status DealStatus) (int64, error)

	// CountByStage counts live deals in a given stage
	CountByStage(ctx context.Context, stageID uuid.UUID) (int64, error)

	// CountByOption counts live deals referencing a vocabulary option
	// in any of the stage/label/source columns
	CountByOption(ctx context.Context, optionID uuid.UUID) (int64, error)

	// SumValueByStatus sums the value column of live deals with the status
	SumValueByStatus(ctx context.Context, status DealStatus) (string, error)
}
