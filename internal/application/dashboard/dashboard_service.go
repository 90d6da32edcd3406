package dashboard

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/bizhub/backend/internal/domain/billing"
	"github.com/bizhub/backend/internal/domain/crm"
	"github.com/bizhub/backend/internal/domain/pipeline"
	"github.com/bizhub/backend/internal/domain/project"
	"github.com/bizhub/backend/internal/domain/settings"
	"github.com/bizhub/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// Cache abstracts the short-lived dashboard response cache
type Cache interface {
	// Get returns the cached value, or ok=false on a miss
	Get(ctx context.Context, key string) (value []byte, ok bool, err error)

	// Set stores a value with a TTL
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error

	// Delete removes the given keys
	Delete(ctx context.Context, keys ...string) error
}

const (
	summaryCacheKey  = "dashboard:summary"
	pipelineCacheKey = "dashboard:pipeline"
	revenueCacheKey  = "dashboard:revenue" // suffixed with the month count

	// DefaultCacheTTL bounds how stale a dashboard read can be
	DefaultCacheTTL = time.Minute

	defaultRevenueMonths = 6
	maxRevenueMonths     = 24
)

// DashboardService serves the aggregated dashboard endpoints. Responses are
// cached; won/lost deal events invalidate the summary and pipeline keys,
// the revenue report relies on TTL expiry alone.
type DashboardService struct {
	clientRepo  crm.ClientRepository
	projectRepo project.Repository
	leadRepo    pipeline.LeadRepository
	dealRepo    pipeline.DealRepository
	optionRepo  pipeline.OptionRepository
	invoiceRepo billing.InvoiceRepository
	profileRepo settings.CompanyProfileRepository
	cache       Cache
	cacheTTL    time.Duration
	logger      *zap.Logger
}

// NewDashboardService creates a new DashboardService. cache may be nil to
// disable caching.
func NewDashboardService(
	clientRepo crm.ClientRepository,
	projectRepo project.Repository,
	leadRepo pipeline.LeadRepository,
	dealRepo pipeline.DealRepository,
	optionRepo pipeline.OptionRepository,
	invoiceRepo billing.InvoiceRepository,
	profileRepo settings.CompanyProfileRepository,
	cache Cache,
	logger *zap.Logger,
) *DashboardService {
	return &DashboardService{
		clientRepo:  clientRepo,
		projectRepo: projectRepo,
		leadRepo:    leadRepo,
		dealRepo:    dealRepo,
		optionRepo:  optionRepo,
		invoiceRepo: invoiceRepo,
		profileRepo: profileRepo,
		cache:       cache,
		cacheTTL:    DefaultCacheTTL,
		logger:      logger,
	}
}

// SetCacheTTL overrides the default cache TTL
func (s *DashboardService) SetCacheTTL(ttl time.Duration) {
	if ttl > 0 {
		s.cacheTTL = ttl
	}
}

// Summary returns the aggregated overview counts and totals
func (s *DashboardService) Summary(ctx context.Context) (*SummaryResponse, error) {
	var cached SummaryResponse
	if s.cacheGet(ctx, summaryCacheKey, &cached) {
		return &cached, nil
	}

	resp := &SummaryResponse{GeneratedAt: time.Now()}

	var err error
	if resp.ActiveClients, err = s.clientRepo.CountByStatus(ctx, crm.ClientStatusActive); err != nil {
		return nil, err
	}
	if resp.ArchivedClients, err = s.clientRepo.CountByStatus(ctx, crm.ClientStatusArchived); err != nil {
		return nil, err
	}
	if resp.ActiveProjects, err = s.projectRepo.CountByStatus(ctx, project.StatusActive); err != nil {
		return nil, err
	}
	if resp.Leads, err = s.leadRepo.Count(ctx, shared.DefaultFilter()); err != nil {
		return nil, err
	}
	if resp.OpenDeals, err = s.dealRepo.CountByStatus(ctx, pipeline.DealStatusOpen); err != nil {
		return nil, err
	}
	if resp.WonDeals, err = s.dealRepo.CountByStatus(ctx, pipeline.DealStatusWon); err != nil {
		return nil, err
	}
	if resp.LostDeals, err = s.dealRepo.CountByStatus(ctx, pipeline.DealStatusLost); err != nil {
		return nil, err
	}
	if resp.OpenDealValue, err = s.dealRepo.SumValueByStatus(ctx, pipeline.DealStatusOpen); err != nil {
		return nil, err
	}
	if resp.WonDealValue, err = s.dealRepo.SumValueByStatus(ctx, pipeline.DealStatusWon); err != nil {
		return nil, err
	}
	if resp.OutstandingTotal, err = s.invoiceRepo.SumOutstanding(ctx); err != nil {
		return nil, err
	}
	resp.CurrencyCode = s.currencyCode(ctx)

	s.cacheSet(ctx, summaryCacheKey, resp)
	return resp, nil
}

// Pipeline returns lead and deal counts per pipeline stage
func (s *DashboardService) Pipeline(ctx context.Context) (*PipelineResponse, error) {
	var cached PipelineResponse
	if s.cacheGet(ctx, pipelineCacheKey, &cached) {
		return &cached, nil
	}

	stages, err := s.optionRepo.FindByKind(ctx, pipeline.OptionKindStage)
	if err != nil {
		return nil, err
	}

	resp := &PipelineResponse{
		Stages:      make([]PipelineStageSummary, 0, len(stages)),
		GeneratedAt: time.Now(),
	}
	for i := range stages {
		stage := &stages[i]
		leadCount, err := s.leadRepo.CountByStage(ctx, stage.ID)
		if err != nil {
			return nil, err
		}
		dealCount, err := s.dealRepo.CountByStage(ctx, stage.ID)
		if err != nil {
			return nil, err
		}
		resp.Stages = append(resp.Stages, PipelineStageSummary{
			StageID:   stage.ID,
			Name:      stage.Name,
			Color:     stage.Color,
			SortOrder: stage.SortOrder,
			LeadCount: leadCount,
			DealCount: dealCount,
		})
	}

	if resp.OpenDealValue, err = s.dealRepo.SumValueByStatus(ctx, pipeline.DealStatusOpen); err != nil {
		return nil, err
	}
	resp.CurrencyCode = s.currencyCode(ctx)

	s.cacheSet(ctx, pipelineCacheKey, resp)
	return resp, nil
}

// Revenue returns the trailing monthly revenue report. months defaults to 6
// and is capped at 24.
func (s *DashboardService) Revenue(ctx context.Context, months int) (*RevenueResponse, error) {
	if months <= 0 {
		months = defaultRevenueMonths
	}
	if months > maxRevenueMonths {
		months = maxRevenueMonths
	}

	cacheKey := fmt.Sprintf("%s:%d", revenueCacheKey, months)
	var cached RevenueResponse
	if s.cacheGet(ctx, cacheKey, &cached) {
		return &cached, nil
	}

	now := time.Now()
	resp := &RevenueResponse{
		Months:      make([]RevenueMonth, 0, months),
		GeneratedAt: now,
	}

	current := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	for i := months - 1; i >= 0; i-- {
		start := current.AddDate(0, -i, 0)
		end := start.AddDate(0, 1, 0)

		paid, err := s.invoiceRepo.SumPaidBetween(ctx, start, end)
		if err != nil {
			return nil, err
		}

		wonDeals, err := s.dealRepo.FindWonBetween(ctx, start, end)
		if err != nil {
			return nil, err
		}
		wonValue := decimal.Zero
		for j := range wonDeals {
			wonValue = wonValue.Add(wonDeals[j].Value)
		}

		resp.Months = append(resp.Months, RevenueMonth{
			Month:        start.Format("2006-01"),
			PaymentsIn:   paid,
			WonDeals:     int64(len(wonDeals)),
			WonDealValue: wonValue.StringFixed(2),
		})
	}
	resp.CurrencyCode = s.currencyCode(ctx)

	s.cacheSet(ctx, cacheKey, resp)
	return resp, nil
}

// Invalidate drops the cached summary and pipeline views. Called when a deal
// closes so the dashboard reflects it immediately.
func (s *DashboardService) Invalidate(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Delete(ctx, summaryCacheKey, pipelineCacheKey); err != nil {
		s.logger.Warn("Failed to invalidate dashboard cache", zap.Error(err))
	}
}

func (s *DashboardService) currencyCode(ctx context.Context) string {
	profile, err := s.profileRepo.Get(ctx)
	if err != nil {
		if !errors.Is(err, shared.ErrNotFound) {
			s.logger.Warn("Failed to load company profile for currency", zap.Error(err))
		}
		return "USD"
	}
	return profile.CurrencyCode
}

func (s *DashboardService) cacheGet(ctx context.Context, key string, out any) bool {
	if s.cache == nil {
		return false
	}
	data, ok, err := s.cache.Get(ctx, key)
	if err != nil {
		s.logger.Warn("Dashboard cache read failed", zap.String("key", key), zap.Error(err))
		return false
	}
	if !ok {
		return false
	}
	if err := json.Unmarshal(data, out); err != nil {
		s.logger.Warn("Dashboard cache entry corrupt", zap.String("key", key), zap.Error(err))
		return false
	}
	return true
}

func (s *DashboardService) cacheSet(ctx context.Context, key string, value any) {
	if s.cache == nil {
		return
	}
	data, err := json.Marshal(value)
	if err != nil {
		return
	}
	if err := s.cache.Set(ctx, key, data, s.cacheTTL); err != nil {
		s.logger.Warn("Dashboard cache write failed", zap.String("key", key), zap.Error(err))
	}
}
