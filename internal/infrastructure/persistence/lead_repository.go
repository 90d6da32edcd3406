package persistence

import (
	"context"
	"errors"

	"github.com/bizhub/backend/internal/domain/pipeline"
	"github.com/bizhub/backend/internal/domain/shared"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormLeadRepository implements LeadRepository using GORM
type GormLeadRepository struct {
	db *gorm.DB
}

// NewGormLeadRepository creates a new GormLeadRepository
func NewGormLeadRepository(db *gorm.DB) *GormLeadRepository {
	return &GormLeadRepository{db: db}
}

// FindByID finds a lead by its ID
func (r *GormLeadRepository) FindByID(ctx context.Context, id uuid.UUID) (*pipeline.Lead, error) {
	var lead pipeline.Lead
	if err := r.db.WithContext(ctx).First(&lead, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &lead, nil
}

// FindAll finds all leads matching the filter
func (r *GormLeadRepository) FindAll(ctx context.Context, filter shared.Filter) ([]pipeline.Lead, error) {
	var leads []pipeline.Lead
	query := r.applyFilter(r.db.WithContext(ctx).Model(&pipeline.Lead{}), filter)

	if err := query.Find(&leads).Error; err != nil {
		return nil, err
	}
	return leads, nil
}

// FindByStage finds leads in a given stage
func (r *GormLeadRepository) FindByStage(ctx context.Context, stageID uuid.UUID, filter shared.Filter) ([]pipeline.Lead, error) {
	var leads []pipeline.Lead
	query := r.applyFilter(
		r.db.WithContext(ctx).Model(&pipeline.Lead{}).Where("stage_id = ?", stageID),
		filter,
	)

	if err := query.Find(&leads).Error; err != nil {
		return nil, err
	}
	return leads, nil
}

// FindByOwner finds leads assigned to a user
func (r *GormLeadRepository) FindByOwner(ctx context.Context, ownerID uuid.UUID, filter shared.Filter) ([]pipeline.Lead, error) {
	var leads []pipeline.Lead
	query := r.applyFilter(
		r.db.WithContext(ctx).Model(&pipeline.Lead{}).Where("owner_id = ?", ownerID),
		filter,
	)

	if err := query.Find(&leads).Error; err != nil {
		return nil, err
	}
	return leads, nil
}

// Save creates or updates a lead
func (r *GormLeadRepository) Save(ctx context.Context, lead *pipeline.Lead) error {
	return r.db.WithContext(ctx).Save(lead).Error
}

// SaveWithLock saves a lead with optimistic locking (version check)
func (r *GormLeadRepository) SaveWithLock(ctx context.Context, lead *pipeline.Lead) error {
	result := r.db.WithContext(ctx).
		Model(lead).
		Where("id = ? AND version = ?", lead.ID, lead.Version-1).
		Select("*").
		Omit("created_at").
		Updates(lead)

	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrConcurrencyConflict
	}
	return nil
}

// Delete deletes a lead
func (r *GormLeadRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&pipeline.Lead{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// Count counts leads matching the filter
func (r *GormLeadRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	query := r.applyFilterWithoutPagination(r.db.WithContext(ctx).Model(&pipeline.Lead{}), filter)

	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// CountByStage counts leads in a given stage
func (r *GormLeadRepository) CountByStage(ctx context.Context, stageID uuid.UUID) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&pipeline.Lead{}).
		Where("stage_id = ?", stageID).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// CountByOption counts leads referencing a vocabulary option in any of the
// stage/label/source columns
func (r *GormLeadRepository) CountByOption(ctx context.Context, optionID uuid.UUID) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&pipeline.Lead{}).
		Where("stage_id = ? OR label_id = ? OR source_id = ?", optionID, optionID, optionID).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// applyFilter applies filter options to the query
func (r *GormLeadRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	query = r.applyFilterWithoutPagination(query, filter)

	if filter.Page > 0 && filter.PageSize > 0 {
		offset := (filter.Page - 1) * filter.PageSize
		query = query.Offset(offset).Limit(filter.PageSize)
	}

	orderBy := ValidateSortField(filter.OrderBy, LeadSortFields, "created_at")
	orderDir := ValidateSortOrder(filter.OrderDir)
	return query.Order(orderBy + " " + orderDir)
}

// applyFilterWithoutPagination applies filter options without pagination
func (r *GormLeadRepository) applyFilterWithoutPagination(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if filter.Search != "" {
		searchPattern := "%" + filter.Search + "%"
		query = query.Where("name ILIKE ? OR client_name ILIKE ? OR contact_name ILIKE ? OR jobsite_address ILIKE ?",
			searchPattern, searchPattern, searchPattern, searchPattern)
	}

	for key, value := range filter.Filters {
		switch key {
		case "stage_id":
			query = query.Where("stage_id = ?", value)
		case "label_id":
			query = query.Where("label_id = ?", value)
		case "source_id":
			query = query.Where("source_id = ?", value)
		case "owner_id":
			query = query.Where("owner_id = ?", value)
		case "client_id":
			query = query.Where("client_id = ?", value)
		}
	}

	return query
}

// Ensure GormLeadRepository implements LeadRepository
var _ pipeline.LeadRepository = (*GormLeadRepository)(nil)
