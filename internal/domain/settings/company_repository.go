package settings

import "context"

// CompanyProfileRepository defines persistence for the singleton company profile
type CompanyProfileRepository interface {
	// Get returns the company profile, or shared.ErrNotFound when none exists yet
	Get(ctx context.Context) (*CompanyProfile, error)

	// Save creates or updates the single profile record
	Save(ctx context.Context, profile *CompanyProfile) error
}
