package persistence

import (
	"context"
	"errors"

	"github.com/bizhub/backend/internal/domain/settings"
	"github.com/bizhub/backend/internal/domain/shared"
	"gorm.io/gorm"
)

// GormCompanyProfileRepository implements CompanyProfileRepository using GORM.
// The profile is a singleton; Get returns the only row.
type GormCompanyProfileRepository struct {
	db *gorm.DB
}

// NewGormCompanyProfileRepository creates a new GormCompanyProfileRepository
func NewGormCompanyProfileRepository(db *gorm.DB) *GormCompanyProfileRepository {
	return &GormCompanyProfileRepository{db: db}
}

// Get returns the company profile, or shared.ErrNotFound when none exists yet
func (r *GormCompanyProfileRepository) Get(ctx context.Context) (*settings.CompanyProfile, error) {
	var profile settings.CompanyProfile
	if err := r.db.WithContext(ctx).First(&profile).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &profile, nil
}

// Save creates or updates the single profile record
func (r *GormCompanyProfileRepository) Save(ctx context.Context, profile *settings.CompanyProfile) error {
	return r.db.WithContext(ctx).Save(profile).Error
}

// Ensure GormCompanyProfileRepository implements CompanyProfileRepository
var _ settings.CompanyProfileRepository = (*GormCompanyProfileRepository)(nil)
