package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/bizhub/backend/internal/domain/pipeline"
	"github.com/bizhub/backend/internal/domain/shared"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormDealRepository implements DealRepository using GORM
type GormDealRepository struct {
	db *gorm.DB
}

// NewGormDealRepository creates a new GormDealRepository
func NewGormDealRepository(db *gorm.DB) *GormDealRepository {
	return &GormDealRepository{db: db}
}

// FindByID finds a deal by its ID. Soft-deleted deals are returned so the
// service layer can decide whether restore or purge applies.
func (r *GormDealRepository) FindByID(ctx context.Context, id uuid.UUID) (*pipeline.Deal, error) {
	var deal pipeline.Deal
	if err := r.db.WithContext(ctx).First(&deal, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &deal, nil
}

// FindAll finds all deals matching the filter. Soft-deleted deals are
// excluded unless the filter sets "include_deleted".
func (r *GormDealRepository) FindAll(ctx context.Context, filter shared.Filter) ([]pipeline.Deal, error) {
	var deals []pipeline.Deal
	query := r.applyFilter(r.db.WithContext(ctx).Model(&pipeline.Deal{}), filter)

	if err := query.Find(&deals).Error; err != nil {
		return nil, err
	}
	return deals, nil
}

// FindByStage finds live deals in a given stage
func (r *GormDealRepository) FindByStage(ctx context.Context, stageID uuid.UUID, filter shared.Filter) ([]pipeline.Deal, error) {
	var deals []pipeline.Deal
	query := r.applyFilter(
		r.live(ctx).Where("stage_id = ?", stageID),
		filter,
	)

	if err := query.Find(&deals).Error; err != nil {
		return nil, err
	}
	return deals, nil
}

// FindByStatus finds live deals by lifecycle status
func (r *GormDealRepository) FindByStatus(ctx context.Context, status pipeline.DealStatus, filter shared.Filter) ([]pipeline.Deal, error) {
	var deals []pipeline.Deal
	query := r.applyFilter(
		r.live(ctx).Where("status = ?", status),
		filter,
	)

	if err := query.Find(&deals).Error; err != nil {
		return nil, err
	}
	return deals, nil
}

// FindByOwner finds live deals assigned to a user
func (r *GormDealRepository) FindByOwner(ctx context.Context, ownerID uuid.UUID, filter shared.Filter) ([]pipeline.Deal, error) {
	var deals []pipeline.Deal
	query := r.applyFilter(
		r.live(ctx).Where("owner_id = ?", ownerID),
		filter,
	)

	if err := query.Find(&deals).Error; err != nil {
		return nil, err
	}
	return deals, nil
}

// FindWonBetween finds deals won within a time range
func (r *GormDealRepository) FindWonBetween(ctx context.Context, from, to time.Time) ([]pipeline.Deal, error) {
	var deals []pipeline.Deal
	if err := r.live(ctx).
		Where("status = ? AND won_at >= ? AND won_at < ?", pipeline.DealStatusWon, from, to).
		Order("won_at ASC").
		Find(&deals).Error; err != nil {
		return nil, err
	}
	return deals, nil
}

// Save creates or updates a deal
func (r *GormDealRepository) Save(ctx context.Context, deal *pipeline.Deal) error {
	return r.db.WithContext(ctx).Save(deal).Error
}

// SaveWithLock saves a deal with optimistic locking (version check)
func (r *GormDealRepository) SaveWithLock(ctx context.Context, deal *pipeline.Deal) error {
	result := r.db.WithContext(ctx).
		Model(deal).
		Where("id = ? AND version = ?", deal.ID, deal.Version-1).
		Select("*").
		Omit("created_at").
		Updates(deal)

	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrConcurrencyConflict
	}
	return nil
}

// CreateFromLead persists the deal and removes the originating lead in a
// single transaction. Fails if the lead no longer exists, which guards
// against double conversion.
func (r *GormDealRepository) CreateFromLead(ctx context.Context, deal *pipeline.Deal, leadID uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Delete(&pipeline.Lead{}, "id = ?", leadID)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return shared.ErrNotFound
		}
		return tx.Create(deal).Error
	})
}

// Delete permanently deletes a deal row
func (r *GormDealRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&pipeline.Deal{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// PurgeDeletedBefore permanently removes soft-deleted deals whose deletion
// timestamp is older than the cutoff. Returns rows removed.
func (r *GormDealRepository) PurgeDeletedBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	result := r.db.WithContext(ctx).
		Delete(&pipeline.Deal{}, "deleted_at IS NOT NULL AND deleted_at < ?", cutoff)
	if result.Error != nil {
		return 0, result.Error
	}
	return result.RowsAffected, nil
}

// Count counts deals matching the filter (soft-deleted excluded unless the
// filter sets "include_deleted")
func (r *GormDealRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	query := r.applyFilterWithoutPagination(r.db.WithContext(ctx).Model(&pipeline.Deal{}), filter)

	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// CountByStatus counts live deals by lifecycle status
func (r *GormDealRepository) CountByStatus(ctx context.Context, status pipeline.DealStatus) (int64, error) {
	var count int64
	if err := r.live(ctx).
		Where("status = ?", status).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// CountByStage counts live deals in a given stage
func (r *GormDealRepository) CountByStage(ctx context.Context, stageID uuid.UUID) (int64, error) {
	var count int64
	if err := r.live(ctx).
		Where("stage_id = ?", stageID).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// CountByOption counts deals referencing a vocabulary option in any of the
// stage/label/source columns. Soft-deleted deals count too: one still inside
// its restore window would come back holding the reference.
func (r *GormDealRepository) CountByOption(ctx context.Context, optionID uuid.UUID) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&pipeline.Deal{}).
		Where("stage_id = ? OR label_id = ? OR source_id = ?", optionID, optionID, optionID).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// SumValueByStatus sums the value column of live deals with the status
func (r *GormDealRepository) SumValueByStatus(ctx context.Context, status pipeline.DealStatus) (string, error) {
	var sum string
	if err := r.live(ctx).
		Where("status = ?", status).
		Select("COALESCE(SUM(value), 0)").
		Scan(&sum).Error; err != nil {
		return "", err
	}
	return sum, nil
}

// live returns a query scoped to non-deleted deals
func (r *GormDealRepository) live(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).Model(&pipeline.Deal{}).Where("deleted_at IS NULL")
}

// applyFilter applies filter options to the query
func (r *GormDealRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	query = r.applyFilterWithoutPagination(query, filter)

	if filter.Page > 0 && filter.PageSize > 0 {
		offset := (filter.Page - 1) * filter.PageSize
		query = query.Offset(offset).Limit(filter.PageSize)
	}

	orderBy := ValidateSortField(filter.OrderBy, DealSortFields, "created_at")
	orderDir := ValidateSortOrder(filter.OrderDir)
	return query.Order(orderBy + " " + orderDir)
}

// applyFilterWithoutPagination applies filter options without pagination
func (r *GormDealRepository) applyFilterWithoutPagination(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if includeDeleted, _ := filter.Filters["include_deleted"].(bool); !includeDeleted {
		query = query.Where("deleted_at IS NULL")
	}

	if filter.Search != "" {
		searchPattern := "%" + filter.Search + "%"
		query = query.Where("name ILIKE ? OR client_name ILIKE ? OR contact_name ILIKE ? OR jobsite_address ILIKE ?",
			searchPattern, searchPattern, searchPattern, searchPattern)
	}

	for key, value := range filter.Filters {
		switch key {
		case "status":
			query = query.Where("status = ?", value)
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

// Ensure GormDealRepository implements DealRepository
var _ pipeline.DealRepository = (*GormDealRepository)(nil)
