package settings_test

import (
	"context"
	"testing"

	appsettings "github.com/bizhub/backend/internal/application/settings"
	"github.com/bizhub/backend/internal/domain/settings"
	"github.com/bizhub/backend/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockCompanyProfileRepository is a mock implementation of settings.CompanyProfileRepository
type MockCompanyProfileRepository struct {
	mock.Mock
}

func (m *MockCompanyProfileRepository) Get(ctx context.Context) (*settings.CompanyProfile, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*settings.CompanyProfile), args.Error(1)
}

func (m *MockCompanyProfileRepository) Save(ctx context.Context, profile *settings.CompanyProfile) error {
	args := m.Called(ctx, profile)
	return args.Error(0)
}

func newTestProfile(t *testing.T) *settings.CompanyProfile {
	t.Helper()
	profile, err := settings.NewCompanyProfile("Acme Consulting")
	require.NoError(t, err)
	return profile
}

func TestCompanyServiceGet(t *testing.T) {
	ctx := context.Background()

	t.Run("returns existing profile", func(t *testing.T) {
		repo := new(MockCompanyProfileRepository)
		service := appsettings.NewCompanyService(repo)

		profile := newTestProfile(t)
		repo.On("Get", ctx).Return(profile, nil)

		resp, err := service.Get(ctx)

		require.NoError(t, err)
		assert.Equal(t, "Acme Consulting", resp.Name)
		assert.Equal(t, settings.DefaultBrandColor, resp.BrandColor)
		assert.Equal(t, "USD", resp.CurrencyCode)
		repo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})

	t.Run("seeds a default profile on first access", func(t *testing.T) {
		repo := new(MockCompanyProfileRepository)
		service := appsettings.NewCompanyService(repo)

		repo.On("Get", ctx).Return(nil, shared.ErrNotFound)
		repo.On("Save", ctx, mock.Anything).Return(nil)

		resp, err := service.Get(ctx)

		require.NoError(t, err)
		assert.Equal(t, appsettings.DefaultCompanyName, resp.Name)
		repo.AssertExpectations(t)
	})
}

func TestCompanyServiceUpdate(t *testing.T) {
	ctx := context.Background()

	t.Run("updates identity and branding fields", func(t *testing.T) {
		repo := new(MockCompanyProfileRepository)
		service := appsettings.NewCompanyService(repo)

		profile := newTestProfile(t)
		repo.On("Get", ctx).Return(profile, nil)
		repo.On("Save", ctx, profile).Return(nil)

		name := "Acme Consulting GmbH"
		email := "Billing@Acme.example"
		color := "#FF8800"
		currency := "eur"
		resp, err := service.Update(ctx, appsettings.UpdateCompanyProfileRequest{
			Name:         &name,
			Email:        &email,
			BrandColor:   &color,
			CurrencyCode: &currency,
		})

		require.NoError(t, err)
		assert.Equal(t, "Acme Consulting GmbH", resp.Name)
		assert.Equal(t, "billing@acme.example", resp.Email)
		assert.Equal(t, "#ff8800", resp.BrandColor)
		assert.Equal(t, "EUR", resp.CurrencyCode)
	})

	t.Run("keeps untouched fields", func(t *testing.T) {
		repo := new(MockCompanyProfileRepository)
		service := appsettings.NewCompanyService(repo)

		profile := newTestProfile(t)
		require.NoError(t, profile.Update("Acme Consulting", "1 Main St", "555-0100", "", ""))
		repo.On("Get", ctx).Return(profile, nil)
		repo.On("Save", ctx, profile).Return(nil)

		phone := "555-0199"
		resp, err := service.Update(ctx, appsettings.UpdateCompanyProfileRequest{Phone: &phone})

		require.NoError(t, err)
		assert.Equal(t, "Acme Consulting", resp.Name)
		assert.Equal(t, "1 Main St", resp.Address)
		assert.Equal(t, "555-0199", resp.Phone)
	})

	t.Run("stale version is rejected", func(t *testing.T) {
		repo := new(MockCompanyProfileRepository)
		service := appsettings.NewCompanyService(repo)

		profile := newTestProfile(t)
		profile.Version = 3
		repo.On("Get", ctx).Return(profile, nil)

		stale := 1
		_, err := service.Update(ctx, appsettings.UpdateCompanyProfileRequest{Version: &stale})

		assert.ErrorIs(t, err, shared.ErrConcurrencyConflict)
		repo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})

	t.Run("invalid brand color is rejected", func(t *testing.T) {
		repo := new(MockCompanyProfileRepository)
		service := appsettings.NewCompanyService(repo)

		profile := newTestProfile(t)
		repo.On("Get", ctx).Return(profile, nil)

		color := "blue"
		_, err := service.Update(ctx, appsettings.UpdateCompanyProfileRequest{BrandColor: &color})

		require.Error(t, err)
		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "INVALID_BRAND_COLOR", domainErr.Code)
	})
}

func TestCompanyServiceCurrencyCode(t *testing.T) {
	ctx := context.Background()

	repo := new(MockCompanyProfileRepository)
	service := appsettings.NewCompanyService(repo)

	profile := newTestProfile(t)
	require.NoError(t, profile.SetCurrencyCode("GBP"))
	repo.On("Get", ctx).Return(profile, nil)

	code, err := service.CurrencyCode(ctx)

	require.NoError(t, err)
	assert.Equal(t, "GBP", code)
}
