package persistence

import (
	"context"
	"errors"
	"fmt"

	"github.com/bizhub/backend/internal/domain/pipeline"
	"github.com/bizhub/backend/internal/domain/shared"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormOptionRepository implements OptionRepository using GORM
type GormOptionRepository struct {
	db *gorm.DB
}

// NewGormOptionRepository creates a new GormOptionRepository
func NewGormOptionRepository(db *gorm.DB) *GormOptionRepository {
	return &GormOptionRepository{db: db}
}

// FindByID finds an option by its ID
func (r *GormOptionRepository) FindByID(ctx context.Context, id uuid.UUID) (*pipeline.Option, error) {
	var option pipeline.Option
	if err := r.db.WithContext(ctx).First(&option, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &option, nil
}

// FindByKind finds all options of a kind, ordered by sort order
func (r *GormOptionRepository) FindByKind(ctx context.Context, kind pipeline.OptionKind) ([]pipeline.Option, error) {
	var options []pipeline.Option
	if err := r.db.WithContext(ctx).
		Where("kind = ?", kind).
		Order("sort_order ASC, name ASC").
		Find(&options).Error; err != nil {
		return nil, err
	}
	return options, nil
}

// FindByName finds an option by kind and exact name
func (r *GormOptionRepository) FindByName(ctx context.Context, kind pipeline.OptionKind, name string) (*pipeline.Option, error) {
	var option pipeline.Option
	if err := r.db.WithContext(ctx).
		Where("kind = ? AND name = ?", kind, name).
		First(&option).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &option, nil
}

// FindAll finds all options matching the filter
func (r *GormOptionRepository) FindAll(ctx context.Context, filter shared.Filter) ([]pipeline.Option, error) {
	var options []pipeline.Option
	query := r.applyFilter(r.db.WithContext(ctx).Model(&pipeline.Option{}), filter)

	if err := query.Find(&options).Error; err != nil {
		return nil, err
	}
	return options, nil
}

// Save creates or updates an option
func (r *GormOptionRepository) Save(ctx context.Context, option *pipeline.Option) error {
	return r.db.WithContext(ctx).Save(option).Error
}

// SaveWithCascade updates the option and propagates its name to the
// denormalized stage/label/source name columns of every referencing lead and
// deal, all in one transaction
func (r *GormOptionRepository) SaveWithCascade(ctx context.Context, option *pipeline.Option) error {
	idColumn, nameColumn, err := cascadeColumns(option.Kind)
	if err != nil {
		return err
	}

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(option).Error; err != nil {
			return err
		}
		if err := tx.Model(&pipeline.Lead{}).
			Where(idColumn+" = ?", option.ID).
			Update(nameColumn, option.Name).Error; err != nil {
			return err
		}
		return tx.Model(&pipeline.Deal{}).
			Where(idColumn+" = ?", option.ID).
			Update(nameColumn, option.Name).Error
	})
}

// Delete deletes an option
func (r *GormOptionRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&pipeline.Option{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// Count counts options matching the filter
func (r *GormOptionRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	query := r.db.WithContext(ctx).Model(&pipeline.Option{})
	if kind, ok := filter.Filters["kind"]; ok {
		query = query.Where("kind = ?", kind)
	}

	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// ExistsByName checks whether an option with the name exists for the kind
func (r *GormOptionRepository) ExistsByName(ctx context.Context, kind pipeline.OptionKind, name string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&pipeline.Option{}).
		Where("kind = ? AND name = ?", kind, name).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// applyFilter applies filter options to the query
func (r *GormOptionRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if kind, ok := filter.Filters["kind"]; ok {
		query = query.Where("kind = ?", kind)
	}
	if filter.Search != "" {
		query = query.Where("name ILIKE ?", "%"+filter.Search+"%")
	}

	if filter.Page > 0 && filter.PageSize > 0 {
		offset := (filter.Page - 1) * filter.PageSize
		query = query.Offset(offset).Limit(filter.PageSize)
	}

	return query.Order("kind ASC, sort_order ASC, name ASC")
}

// cascadeColumns maps an option kind to the denormalized lead/deal columns
func cascadeColumns(kind pipeline.OptionKind) (idColumn, nameColumn string, err error) {
	switch kind {
	case pipeline.OptionKindStage:
		return "stage_id", "stage_name", nil
	case pipeline.OptionKindLabel:
		return "label_id", "label_name", nil
	case pipeline.OptionKindSource:
		return "source_id", "source_name", nil
	default:
		return "", "", fmt.Errorf("unknown option kind %q", kind)
	}
}

// Ensure GormOptionRepository implements OptionRepository
var _ pipeline.OptionRepository = (*GormOptionRepository)(nil)
