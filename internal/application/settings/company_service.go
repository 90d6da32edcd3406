package settings

import (
	"context"
	"errors"

	"github.com/bizhub/backend/internal/domain/settings"
	"github.com/bizhub/backend/internal/domain/shared"
)

// DefaultCompanyName seeds the profile on first read
const DefaultCompanyName = "My Company"

// CompanyService manages the install-wide company profile singleton
type CompanyService struct {
	profileRepo settings.CompanyProfileRepository
}

// NewCompanyService creates a new CompanyService
func NewCompanyService(profileRepo settings.CompanyProfileRepository) *CompanyService {
	return &CompanyService{profileRepo: profileRepo}
}

// Get returns the company profile, creating a default one on first access
func (s *CompanyService) Get(ctx context.Context) (*CompanyProfileResponse, error) {
	profile, err := s.getOrCreate(ctx)
	if err != nil {
		return nil, err
	}

	response := ToCompanyProfileResponse(profile)
	return &response, nil
}

// Update applies the given changes to the company profile
func (s *CompanyService) Update(ctx context.Context, req UpdateCompanyProfileRequest) (*CompanyProfileResponse, error) {
	profile, err := s.getOrCreate(ctx)
	if err != nil {
		return nil, err
	}

	if req.Version != nil && *req.Version != profile.Version {
		return nil, shared.ErrConcurrencyConflict
	}

	name := profile.Name
	if req.Name != nil {
		name = *req.Name
	}
	address := profile.Address
	if req.Address != nil {
		address = *req.Address
	}
	phone := profile.Phone
	if req.Phone != nil {
		phone = *req.Phone
	}
	email := profile.Email
	if req.Email != nil {
		email = *req.Email
	}
	taxID := profile.TaxID
	if req.TaxID != nil {
		taxID = *req.TaxID
	}
	if err := profile.Update(name, address, phone, email, taxID); err != nil {
		return nil, err
	}

	if req.LogoURL != nil {
		if err := profile.SetLogoURL(*req.LogoURL); err != nil {
			return nil, err
		}
	}
	if req.BrandColor != nil {
		if err := profile.SetBrandColor(*req.BrandColor); err != nil {
			return nil, err
		}
	}
	if req.CurrencyCode != nil {
		if err := profile.SetCurrencyCode(*req.CurrencyCode); err != nil {
			return nil, err
		}
	}

	if err := s.profileRepo.Save(ctx, profile); err != nil {
		return nil, err
	}

	response := ToCompanyProfileResponse(profile)
	return &response, nil
}

// CurrencyCode returns the configured display currency
func (s *CompanyService) CurrencyCode(ctx context.Context) (string, error) {
	profile, err := s.getOrCreate(ctx)
	if err != nil {
		return "", err
	}
	return profile.CurrencyCode, nil
}

func (s *CompanyService) getOrCreate(ctx context.Context) (*settings.CompanyProfile, error) {
	profile, err := s.profileRepo.Get(ctx)
	if err == nil {
		return profile, nil
	}
	if !errors.Is(err, shared.ErrNotFound) {
		return nil, err
	}

	profile, err = settings.NewCompanyProfile(DefaultCompanyName)
	if err != nil {
		return nil, err
	}
	if err := s.profileRepo.Save(ctx, profile); err != nil {
		return nil, err
	}
	return profile, nil
}
