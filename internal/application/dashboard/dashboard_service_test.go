package dashboard_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/bizhub/backend/internal/application/dashboard"
	"github.com/bizhub/backend/internal/domain/billing"
	"github.com/bizhub/backend/internal/domain/crm"
	"github.com/bizhub/backend/internal/domain/pipeline"
	"github.com/bizhub/backend/internal/domain/project"
	"github.com/bizhub/backend/internal/domain/settings"
	"github.com/bizhub/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// memoryCache is a test double for the dashboard cache
type memoryCache struct {
	mu      sync.Mutex
	entries map[string][]byte
	sets    int
	deletes int
}

func newMemoryCache() *memoryCache {
	return &memoryCache{entries: make(map[string][]byte)}
}

func (c *memoryCache) Get(_ context.Context, key string) ([]byte, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	data, ok := c.entries[key]
	return data, ok, nil
}

func (c *memoryCache) Set(_ context.Context, key string, value []byte, _ time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = value
	c.sets++
	return nil
}

func (c *memoryCache) Delete(_ context.Context, keys ...string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, key := range keys {
		delete(c.entries, key)
	}
	c.deletes++
	return nil
}

// MockClientRepository is a mock implementation of crm.ClientRepository
type MockClientRepository struct {
	mock.Mock
}

func (m *MockClientRepository) FindByID(ctx context.Context, id uuid.UUID) (*crm.Client, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*crm.Client), args.Error(1)
}

func (m *MockClientRepository) FindAll(ctx context.Context, filter shared.Filter) ([]crm.Client, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]crm.Client), args.Error(1)
}

func (m *MockClientRepository) FindByStatus(ctx context.Context, status crm.ClientStatus, filter shared.Filter) ([]crm.Client, error) {
	args := m.Called(ctx, status, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]crm.Client), args.Error(1)
}

func (m *MockClientRepository) Save(ctx context.Context, client *crm.Client) error {
	args := m.Called(ctx, client)
	return args.Error(0)
}

func (m *MockClientRepository) SaveWithLock(ctx context.Context, client *crm.Client) error {
	args := m.Called(ctx, client)
	return args.Error(0)
}

func (m *MockClientRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockClientRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockClientRepository) CountByStatus(ctx context.Context, status crm.ClientStatus) (int64, error) {
	args := m.Called(ctx, status)
	return args.Get(0).(int64), args.Error(1)
}

// MockProjectRepository is a mock implementation of project.Repository
type MockProjectRepository struct {
	mock.Mock
}

func (m *MockProjectRepository) FindByID(ctx context.Context, id uuid.UUID) (*project.Project, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*project.Project), args.Error(1)
}

func (m *MockProjectRepository) FindAll(ctx context.Context, filter shared.Filter) ([]project.Project, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]project.Project), args.Error(1)
}

func (m *MockProjectRepository) FindByClient(ctx context.Context, clientID uuid.UUID, filter shared.Filter) ([]project.Project, error) {
	args := m.Called(ctx, clientID, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]project.Project), args.Error(1)
}

func (m *MockProjectRepository) FindByStatus(ctx context.Context, status project.Status, filter shared.Filter) ([]project.Project, error) {
	args := m.Called(ctx, status, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]project.Project), args.Error(1)
}

func (m *MockProjectRepository) Save(ctx context.Context, p *project.Project) error {
	args := m.Called(ctx, p)
	return args.Error(0)
}

func (m *MockProjectRepository) SaveWithLock(ctx context.Context, p *project.Project) error {
	args := m.Called(ctx, p)
	return args.Error(0)
}

func (m *MockProjectRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockProjectRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockProjectRepository) CountByStatus(ctx context.Context, status project.Status) (int64, error) {
	args := m.Called(ctx, status)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockProjectRepository) CountByClient(ctx context.Context, clientID uuid.UUID) (int64, error) {
	args := m.Called(ctx, clientID)
	return args.Get(0).(int64), args.Error(1)
}

// MockLeadRepository is a mock implementation of pipeline.LeadRepository
type MockLeadRepository struct {
	mock.Mock
}

func (m *MockLeadRepository) FindByID(ctx context.Context, id uuid.UUID) (*pipeline.Lead, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*pipeline.Lead), args.Error(1)
}

func (m *MockLeadRepository) FindAll(ctx context.Context, filter shared.Filter) ([]pipeline.Lead, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]pipeline.Lead), args.Error(1)
}

func (m *MockLeadRepository) FindByStage(ctx context.Context, stageID uuid.UUID, filter shared.Filter) ([]pipeline.Lead, error) {
	args := m.Called(ctx, stageID, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]pipeline.Lead), args.Error(1)
}

func (m *MockLeadRepository) FindByOwner(ctx context.Context, ownerID uuid.UUID, filter shared.Filter) ([]pipeline.Lead, error) {
	args := m.Called(ctx, ownerID, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]pipeline.Lead), args.Error(1)
}

func (m *MockLeadRepository) Save(ctx context.Context, lead *pipeline.Lead) error {
	args := m.Called(ctx, lead)
	return args.Error(0)
}

func (m *MockLeadRepository) SaveWithLock(ctx context.Context, lead *pipeline.Lead) error {
	args := m.Called(ctx, lead)
	return args.Error(0)
}

func (m *MockLeadRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockLeadRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockLeadRepository) CountByStage(ctx context.Context, stageID uuid.UUID) (int64, error) {
	args := m.Called(ctx, stageID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockLeadRepository) CountByOption(ctx context.Context, optionID uuid.UUID) (int64, error) {
	args := m.Called(ctx, optionID)
	return args.Get(0).(int64), args.Error(1)
}

// MockDealRepository is a mock implementation of pipeline.DealRepository
type MockDealRepository struct {
	mock.Mock
}

func (m *MockDealRepository) FindByID(ctx context.Context, id uuid.UUID) (*pipeline.Deal, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*pipeline.Deal), args.Error(1)
}

func (m *MockDealRepository) FindAll(ctx context.Context, filter shared.Filter) ([]pipeline.Deal, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]pipeline.Deal), args.Error(1)
}

func (m *MockDealRepository) FindByStage(ctx context.Context, stageID uuid.UUID, filter shared.Filter) ([]pipeline.Deal, error) {
	args := m.Called(ctx, stageID, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]pipeline.Deal), args.Error(1)
}

func (m *MockDealRepository) FindByStatus(ctx context.Context, status pipeline.DealStatus, filter shared.Filter) ([]pipeline.Deal, error) {
	args := m.Called(ctx, status, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]pipeline.Deal), args.Error(1)
}

func (m *MockDealRepository) FindByOwner(ctx context.Context, ownerID uuid.UUID, filter shared.Filter) ([]pipeline.Deal, error) {
	args := m.Called(ctx, ownerID, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]pipeline.Deal), args.Error(1)
}

func (m *MockDealRepository) FindWonBetween(ctx context.Context, from, to time.Time) ([]pipeline.Deal, error) {
	args := m.Called(ctx, from, to)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]pipeline.Deal), args.Error(1)
}

func (m *MockDealRepository) Save(ctx context.Context, deal *pipeline.Deal) error {
	args := m.Called(ctx, deal)
	return args.Error(0)
}

func (m *MockDealRepository) SaveWithLock(ctx context.Context, deal *pipeline.Deal) error {
	args := m.Called(ctx, deal)
	return args.Error(0)
}

func (m *MockDealRepository) CreateFromLead(ctx context.Context, deal *pipeline.Deal, leadID uuid.UUID) error {
	args := m.Called(ctx, deal, leadID)
	return args.Error(0)
}

func (m *MockDealRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockDealRepository) PurgeDeletedBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	args := m.Called(ctx, cutoff)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockDealRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockDealRepository) CountByStatus(ctx context.Context, status pipeline.DealStatus) (int64, error) {
	args := m.Called(ctx, status)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockDealRepository) CountByStage(ctx context.Context, stageID uuid.UUID) (int64, error) {
	args := m.Called(ctx, stageID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockDealRepository) CountByOption(ctx context.Context, optionID uuid.UUID) (int64, error) {
	args := m.Called(ctx, optionID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockDealRepository) SumValueByStatus(ctx context.Context, status pipeline.DealStatus) (string, error) {
	args := m.Called(ctx, status)
	return args.String(0), args.Error(1)
}

// MockOptionRepository is a mock implementation of pipeline.OptionRepository
type MockOptionRepository struct {
	mock.Mock
}

func (m *MockOptionRepository) FindByID(ctx context.Context, id uuid.UUID) (*pipeline.Option, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*pipeline.Option), args.Error(1)
}

func (m *MockOptionRepository) FindByKind(ctx context.Context, kind pipeline.OptionKind) ([]pipeline.Option, error) {
	args := m.Called(ctx, kind)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]pipeline.Option), args.Error(1)
}

func (m *MockOptionRepository) FindByName(ctx context.Context, kind pipeline.OptionKind, name string) (*pipeline.Option, error) {
	args := m.Called(ctx, kind, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*pipeline.Option), args.Error(1)
}

func (m *MockOptionRepository) FindAll(ctx context.Context, filter shared.Filter) ([]pipeline.Option, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]pipeline.Option), args.Error(1)
}

func (m *MockOptionRepository) Save(ctx context.Context, option *pipeline.Option) error {
	args := m.Called(ctx, option)
	return args.Error(0)
}

func (m *MockOptionRepository) SaveWithCascade(ctx context.Context, option *pipeline.Option) error {
	args := m.Called(ctx, option)
	return args.Error(0)
}

func (m *MockOptionRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockOptionRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockOptionRepository) ExistsByName(ctx context.Context, kind pipeline.OptionKind, name string) (bool, error) {
	args := m.Called(ctx, kind, name)
	return args.Bool(0), args.Error(1)
}

// MockInvoiceRepository is a mock implementation of billing.InvoiceRepository
type MockInvoiceRepository struct {
	mock.Mock
}

func (m *MockInvoiceRepository) FindByID(ctx context.Context, id uuid.UUID) (*billing.Invoice, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*billing.Invoice), args.Error(1)
}

func (m *MockInvoiceRepository) FindByNumber(ctx context.Context, number string) (*billing.Invoice, error) {
	args := m.Called(ctx, number)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*billing.Invoice), args.Error(1)
}

func (m *MockInvoiceRepository) FindAll(ctx context.Context, filter shared.Filter) ([]billing.Invoice, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]billing.Invoice), args.Error(1)
}

func (m *MockInvoiceRepository) FindByClient(ctx context.Context, clientID uuid.UUID, filter shared.Filter) ([]billing.Invoice, error) {
	args := m.Called(ctx, clientID, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]billing.Invoice), args.Error(1)
}

func (m *MockInvoiceRepository) FindByStatus(ctx context.Context, status billing.InvoiceStatus, filter shared.Filter) ([]billing.Invoice, error) {
	args := m.Called(ctx, status, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]billing.Invoice), args.Error(1)
}

func (m *MockInvoiceRepository) FindOverdue(ctx context.Context, now time.Time) ([]billing.Invoice, error) {
	args := m.Called(ctx, now)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]billing.Invoice), args.Error(1)
}

func (m *MockInvoiceRepository) Save(ctx context.Context, invoice *billing.Invoice) error {
	args := m.Called(ctx, invoice)
	return args.Error(0)
}

func (m *MockInvoiceRepository) SaveWithLock(ctx context.Context, invoice *billing.Invoice) error {
	args := m.Called(ctx, invoice)
	return args.Error(0)
}

func (m *MockInvoiceRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockInvoiceRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockInvoiceRepository) CountByStatus(ctx context.Context, status billing.InvoiceStatus) (int64, error) {
	args := m.Called(ctx, status)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockInvoiceRepository) SumPaidBetween(ctx context.Context, from, to time.Time) (string, error) {
	args := m.Called(ctx, from, to)
	return args.String(0), args.Error(1)
}

func (m *MockInvoiceRepository) SumOutstanding(ctx context.Context) (string, error) {
	args := m.Called(ctx)
	return args.String(0), args.Error(1)
}

func (m *MockInvoiceRepository) ExistsByNumber(ctx context.Context, number string) (bool, error) {
	args := m.Called(ctx, number)
	return args.Bool(0), args.Error(1)
}

func (m *MockInvoiceRepository) NextNumber(ctx context.Context) (string, error) {
	args := m.Called(ctx)
	return args.String(0), args.Error(1)
}

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

// Test fixtures

type dashboardFixture struct {
	clientRepo  *MockClientRepository
	projectRepo *MockProjectRepository
	leadRepo    *MockLeadRepository
	dealRepo    *MockDealRepository
	optionRepo  *MockOptionRepository
	invoiceRepo *MockInvoiceRepository
	profileRepo *MockCompanyProfileRepository
	cache       *memoryCache
	service     *dashboard.DashboardService
}

func newDashboardFixture() *dashboardFixture {
	f := &dashboardFixture{
		clientRepo:  new(MockClientRepository),
		projectRepo: new(MockProjectRepository),
		leadRepo:    new(MockLeadRepository),
		dealRepo:    new(MockDealRepository),
		optionRepo:  new(MockOptionRepository),
		invoiceRepo: new(MockInvoiceRepository),
		profileRepo: new(MockCompanyProfileRepository),
		cache:       newMemoryCache(),
	}
	f.service = dashboard.NewDashboardService(
		f.clientRepo, f.projectRepo, f.leadRepo, f.dealRepo,
		f.optionRepo, f.invoiceRepo, f.profileRepo, f.cache, zap.NewNop(),
	)
	return f
}

func (f *dashboardFixture) stubSummary(ctx context.Context) {
	f.clientRepo.On("CountByStatus", ctx, crm.ClientStatusActive).Return(int64(12), nil)
	f.clientRepo.On("CountByStatus", ctx, crm.ClientStatusArchived).Return(int64(3), nil)
	f.projectRepo.On("CountByStatus", ctx, project.StatusActive).Return(int64(5), nil)
	f.leadRepo.On("Count", ctx, mock.Anything).Return(int64(8), nil)
	f.dealRepo.On("CountByStatus", ctx, pipeline.DealStatusOpen).Return(int64(6), nil)
	f.dealRepo.On("CountByStatus", ctx, pipeline.DealStatusWon).Return(int64(4), nil)
	f.dealRepo.On("CountByStatus", ctx, pipeline.DealStatusLost).Return(int64(2), nil)
	f.dealRepo.On("SumValueByStatus", ctx, pipeline.DealStatusOpen).Return("15000.00", nil)
	f.dealRepo.On("SumValueByStatus", ctx, pipeline.DealStatusWon).Return("42000.00", nil)
	f.invoiceRepo.On("SumOutstanding", ctx).Return("7300.50", nil)
	f.profileRepo.On("Get", ctx).Return(nil, shared.ErrNotFound)
}

func TestDashboardSummary(t *testing.T) {
	ctx := context.Background()

	t.Run("aggregates counts and totals", func(t *testing.T) {
		f := newDashboardFixture()
		f.stubSummary(ctx)

		resp, err := f.service.Summary(ctx)

		require.NoError(t, err)
		assert.Equal(t, int64(12), resp.ActiveClients)
		assert.Equal(t, int64(3), resp.ArchivedClients)
		assert.Equal(t, int64(5), resp.ActiveProjects)
		assert.Equal(t, int64(8), resp.Leads)
		assert.Equal(t, int64(6), resp.OpenDeals)
		assert.Equal(t, int64(4), resp.WonDeals)
		assert.Equal(t, int64(2), resp.LostDeals)
		assert.Equal(t, "15000.00", resp.OpenDealValue)
		assert.Equal(t, "42000.00", resp.WonDealValue)
		assert.Equal(t, "7300.50", resp.OutstandingTotal)
		assert.Equal(t, "USD", resp.CurrencyCode, "missing profile falls back to USD")
	})

	t.Run("second read is served from cache", func(t *testing.T) {
		f := newDashboardFixture()
		f.stubSummary(ctx)

		_, err := f.service.Summary(ctx)
		require.NoError(t, err)
		_, err = f.service.Summary(ctx)
		require.NoError(t, err)

		f.clientRepo.AssertNumberOfCalls(t, "CountByStatus", 2)
		assert.Equal(t, 1, f.cache.sets)
	})

	t.Run("invalidation forces a recompute", func(t *testing.T) {
		f := newDashboardFixture()
		f.stubSummary(ctx)

		_, err := f.service.Summary(ctx)
		require.NoError(t, err)
		f.service.Invalidate(ctx)
		_, err = f.service.Summary(ctx)
		require.NoError(t, err)

		f.clientRepo.AssertNumberOfCalls(t, "CountByStatus", 4)
	})

	t.Run("uses the configured currency", func(t *testing.T) {
		f := newDashboardFixture()
		f.clientRepo.On("CountByStatus", ctx, mock.Anything).Return(int64(0), nil)
		f.projectRepo.On("CountByStatus", ctx, mock.Anything).Return(int64(0), nil)
		f.leadRepo.On("Count", ctx, mock.Anything).Return(int64(0), nil)
		f.dealRepo.On("CountByStatus", ctx, mock.Anything).Return(int64(0), nil)
		f.dealRepo.On("SumValueByStatus", ctx, mock.Anything).Return("0", nil)
		f.invoiceRepo.On("SumOutstanding", ctx).Return("0", nil)

		profile, err := settings.NewCompanyProfile("Acme")
		require.NoError(t, err)
		require.NoError(t, profile.SetCurrencyCode("EUR"))
		f.profileRepo.On("Get", ctx).Return(profile, nil)

		resp, err := f.service.Summary(ctx)

		require.NoError(t, err)
		assert.Equal(t, "EUR", resp.CurrencyCode)
	})
}

func TestDashboardPipeline(t *testing.T) {
	ctx := context.Background()

	t.Run("breaks counts down per stage in sort order", func(t *testing.T) {
		f := newDashboardFixture()

		newStage, err := pipeline.NewOption(pipeline.OptionKindStage, "New", "#4f46e5", 0)
		require.NoError(t, err)
		quoted, err := pipeline.NewOption(pipeline.OptionKindStage, "Quoted", "#059669", 1)
		require.NoError(t, err)

		f.optionRepo.On("FindByKind", ctx, pipeline.OptionKindStage).Return([]pipeline.Option{*newStage, *quoted}, nil)
		f.leadRepo.On("CountByStage", ctx, newStage.ID).Return(int64(7), nil)
		f.leadRepo.On("CountByStage", ctx, quoted.ID).Return(int64(2), nil)
		f.dealRepo.On("CountByStage", ctx, newStage.ID).Return(int64(1), nil)
		f.dealRepo.On("CountByStage", ctx, quoted.ID).Return(int64(4), nil)
		f.dealRepo.On("SumValueByStatus", ctx, pipeline.DealStatusOpen).Return("9000.00", nil)
		f.profileRepo.On("Get", ctx).Return(nil, shared.ErrNotFound)

		resp, err := f.service.Pipeline(ctx)

		require.NoError(t, err)
		require.Len(t, resp.Stages, 2)
		assert.Equal(t, "New", resp.Stages[0].Name)
		assert.Equal(t, int64(7), resp.Stages[0].LeadCount)
		assert.Equal(t, int64(1), resp.Stages[0].DealCount)
		assert.Equal(t, "Quoted", resp.Stages[1].Name)
		assert.Equal(t, int64(4), resp.Stages[1].DealCount)
		assert.Equal(t, "9000.00", resp.OpenDealValue)
	})

	t.Run("second read is served from cache", func(t *testing.T) {
		f := newDashboardFixture()

		f.optionRepo.On("FindByKind", ctx, pipeline.OptionKindStage).Return([]pipeline.Option{}, nil)
		f.dealRepo.On("SumValueByStatus", ctx, pipeline.DealStatusOpen).Return("0", nil)
		f.profileRepo.On("Get", ctx).Return(nil, shared.ErrNotFound)

		_, err := f.service.Pipeline(ctx)
		require.NoError(t, err)
		_, err = f.service.Pipeline(ctx)
		require.NoError(t, err)

		f.optionRepo.AssertNumberOfCalls(t, "FindByKind", 1)
	})
}

func TestDashboardRevenue(t *testing.T) {
	ctx := context.Background()

	t.Run("builds one entry per trailing month", func(t *testing.T) {
		f := newDashboardFixture()

		f.invoiceRepo.On("SumPaidBetween", ctx, mock.Anything, mock.Anything).Return("1000.00", nil)
		f.dealRepo.On("FindWonBetween", ctx, mock.Anything, mock.Anything).Return([]pipeline.Deal{
			{Value: decimal.RequireFromString("2500")},
			{Value: decimal.RequireFromString("499.50")},
		}, nil)
		f.profileRepo.On("Get", ctx).Return(nil, shared.ErrNotFound)

		resp, err := f.service.Revenue(ctx, 3)

		require.NoError(t, err)
		require.Len(t, resp.Months, 3)
		last := resp.Months[len(resp.Months)-1]
		assert.Equal(t, time.Now().Format("2006-01"), last.Month)
		assert.Equal(t, "1000.00", last.PaymentsIn)
		assert.Equal(t, int64(2), last.WonDeals)
		assert.Equal(t, "2999.50", last.WonDealValue)
	})

	t.Run("defaults and caps the month window", func(t *testing.T) {
		f := newDashboardFixture()

		f.invoiceRepo.On("SumPaidBetween", ctx, mock.Anything, mock.Anything).Return("0", nil)
		f.dealRepo.On("FindWonBetween", ctx, mock.Anything, mock.Anything).Return([]pipeline.Deal{}, nil)
		f.profileRepo.On("Get", ctx).Return(nil, shared.ErrNotFound)

		resp, err := f.service.Revenue(ctx, 0)
		require.NoError(t, err)
		assert.Len(t, resp.Months, 6)

		resp, err = f.service.Revenue(ctx, 99)
		require.NoError(t, err)
		assert.Len(t, resp.Months, 24)
	})
}
