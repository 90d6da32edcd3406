package persistence

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/bizhub/backend/internal/domain/billing"
	"github.com/bizhub/backend/internal/domain/shared"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

const estimateNumberPrefix = "EST-"

// GormEstimateRepository implements EstimateRepository using GORM
type GormEstimateRepository struct {
	db *gorm.DB
}

// NewGormEstimateRepository creates a new GormEstimateRepository
func NewGormEstimateRepository(db *gorm.DB) *GormEstimateRepository {
	return &GormEstimateRepository{db: db}
}

// FindByID finds an estimate (with items) by its ID
func (r *GormEstimateRepository) FindByID(ctx context.Context, id uuid.UUID) (*billing.Estimate, error) {
	var estimate billing.Estimate
	if err := r.db.WithContext(ctx).
		Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("sort_order ASC") }).
		First(&estimate, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &estimate, nil
}

// FindByNumber finds an estimate by its number
func (r *GormEstimateRepository) FindByNumber(ctx context.Context, number string) (*billing.Estimate, error) {
	var estimate billing.Estimate
	if err := r.db.WithContext(ctx).
		Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("sort_order ASC") }).
		First(&estimate, "number = ?", number).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &estimate, nil
}

// FindAll finds all estimates matching the filter
func (r *GormEstimateRepository) FindAll(ctx context.Context, filter shared.Filter) ([]billing.Estimate, error) {
	var estimates []billing.Estimate
	query := r.applyFilter(r.db.WithContext(ctx).Model(&billing.Estimate{}), filter)

	if err := query.Preload("Items").Find(&estimates).Error; err != nil {
		return nil, err
	}
	return estimates, nil
}

// FindByClient finds estimates for a client
func (r *GormEstimateRepository) FindByClient(ctx context.Context, clientID uuid.UUID, filter shared.Filter) ([]billing.Estimate, error) {
	var estimates []billing.Estimate
	query := r.applyFilter(
		r.db.WithContext(ctx).Model(&billing.Estimate{}).Where("client_id = ?", clientID),
		filter,
	)

	if err := query.Preload("Items").Find(&estimates).Error; err != nil {
		return nil, err
	}
	return estimates, nil
}

// FindByStatus finds estimates by status
func (r *GormEstimateRepository) FindByStatus(ctx context.Context, status billing.EstimateStatus, filter shared.Filter) ([]billing.Estimate, error) {
	var estimates []billing.Estimate
	query := r.applyFilter(
		r.db.WithContext(ctx).Model(&billing.Estimate{}).Where("status = ?", status),
		filter,
	)

	if err := query.Preload("Items").Find(&estimates).Error; err != nil {
		return nil, err
	}
	return estimates, nil
}

// FindSentPastValidity finds sent estimates whose validity date is in the past
func (r *GormEstimateRepository) FindSentPastValidity(ctx context.Context, now time.Time) ([]billing.Estimate, error) {
	var estimates []billing.Estimate
	if err := r.db.WithContext(ctx).
		Where("status = ? AND valid_until IS NOT NULL AND valid_until < ?", billing.EstimateStatusSent, now).
		Preload("Items").
		Find(&estimates).Error; err != nil {
		return nil, err
	}
	return estimates, nil
}

// Save creates or updates an estimate and its items. Items are replaced
// wholesale so removed lines disappear.
func (r *GormEstimateRepository) Save(ctx context.Context, estimate *billing.Estimate) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Items").Save(estimate).Error; err != nil {
			return err
		}
		return r.replaceItems(tx, estimate)
	})
}

// SaveWithLock saves with optimistic locking (version check)
func (r *GormEstimateRepository) SaveWithLock(ctx context.Context, estimate *billing.Estimate) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(estimate).
			Where("id = ? AND version = ?", estimate.ID, estimate.Version-1).
			Select("*").
			Omit("created_at", "Items").
			Updates(estimate)

		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return shared.ErrConcurrencyConflict
		}
		return r.replaceItems(tx, estimate)
	})
}

// Delete deletes an estimate and its items
func (r *GormEstimateRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(&billing.EstimateItem{}, "estimate_id = ?", id).Error; err != nil {
			return err
		}
		result := tx.Delete(&billing.Estimate{}, "id = ?", id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return shared.ErrNotFound
		}
		return nil
	})
}

// Count counts estimates matching the filter
func (r *GormEstimateRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	query := r.applyFilterWithoutPagination(r.db.WithContext(ctx).Model(&billing.Estimate{}), filter)

	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// CountByStatus counts estimates by status
func (r *GormEstimateRepository) CountByStatus(ctx context.Context, status billing.EstimateStatus) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&billing.Estimate{}).
		Where("status = ?", status).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// ExistsByNumber checks whether an estimate number is taken
func (r *GormEstimateRepository) ExistsByNumber(ctx context.Context, number string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&billing.Estimate{}).
		Where("number = ?", number).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// NextNumber returns the next estimate number in the sequence
func (r *GormEstimateRepository) NextNumber(ctx context.Context) (string, error) {
	return nextDocumentNumber(r.db.WithContext(ctx), "estimates", estimateNumberPrefix)
}

// replaceItems deletes the stored items and inserts the current set
func (r *GormEstimateRepository) replaceItems(tx *gorm.DB, estimate *billing.Estimate) error {
	if err := tx.Delete(&billing.EstimateItem{}, "estimate_id = ?", estimate.ID).Error; err != nil {
		return err
	}
	if len(estimate.Items) == 0 {
		return nil
	}
	return tx.Create(&estimate.Items).Error
}

// applyFilter applies filter options to the query
func (r *GormEstimateRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	query = r.applyFilterWithoutPagination(query, filter)

	if filter.Page > 0 && filter.PageSize > 0 {
		offset := (filter.Page - 1) * filter.PageSize
		query = query.Offset(offset).Limit(filter.PageSize)
	}

	orderBy := ValidateSortField(filter.OrderBy, EstimateSortFields, "created_at")
	orderDir := ValidateSortOrder(filter.OrderDir)
	return query.Order(orderBy + " " + orderDir)
}

// applyFilterWithoutPagination applies filter options without pagination
func (r *GormEstimateRepository) applyFilterWithoutPagination(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if filter.Search != "" {
		searchPattern := "%" + filter.Search + "%"
		query = query.Where("number ILIKE ? OR client_name ILIKE ?", searchPattern, searchPattern)
	}

	for key, value := range filter.Filters {
		switch key {
		case "status":
			query = query.Where("status = ?", value)
		case "client_id":
			query = query.Where("client_id = ?", value)
		case "project_id":
			query = query.Where("project_id = ?", value)
		}
	}

	return query
}

// nextDocumentNumber allocates the next number for a prefixed document
// sequence, e.g. EST-0001. The max lookup and the caller's insert should run
// close together; the unique index on number catches the rare race.
func nextDocumentNumber(db *gorm.DB, table, prefix string) (string, error) {
	var maxSeq int64
	query := fmt.Sprintf(
		"SELECT COALESCE(MAX(CAST(SUBSTRING(number FROM %d) AS INTEGER)), 0) FROM %s WHERE number LIKE ?",
		len(prefix)+1, table,
	)
	if err := db.Raw(query, prefix+"%").Scan(&maxSeq).Error; err != nil {
		return "", err
	}
	return fmt.Sprintf("%s%04d", prefix, maxSeq+1), nil
}

// Ensure GormEstimateRepository implements EstimateRepository
var _ billing.EstimateRepository = (*GormEstimateRepository)(nil)
