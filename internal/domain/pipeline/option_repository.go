package pipeline

import (
	"context"

	"github.com/bizhub/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// OptionRepository defines the interface for pipeline vocabulary persistence
type OptionRepository interface {
	// FindByID finds an option by its ID
	FindByID(ctx context.Context, id uuid.UUID) (*Option, error)

	// FindByKind finds all options of a kind, ordered by sort order
	FindByKind(ctx context.Context, kind OptionKind) ([]Option, error)

	// FindByName finds an option by kind and exact name
	FindByName(ctx context.Context, kind OptionKind, name string) (*Option, error)

	// FindAll finds all options matching the filter
	FindAll(ctx context.Context, filter shared.Filter) ([]Option, error)

	// Save creates or updates an option
	Save(ctx context.Context, option *Option) error

	// SaveWithCascade updates the option and propagates its name to the
	// denormalized stage/label/source name columns of every referencing
	// lead and deal, all in one transaction
	SaveWithCascade(ctx context.Context, option *Option) error

	// Delete deletes an option
	Delete(ctx context.Context, id uuid.UUID) error

	// Count counts options matching the filter
	Count(ctx context.Context, filter shared.Filter) (int64, error)

	// ExistsByName checks whether an option with the name exists for the kind
	ExistsByName(ctx context.Context, kind OptionKind, name string) (bool, error)
}
