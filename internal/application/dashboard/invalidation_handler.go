package dashboard

import (
	"context"

	"github.com/bizhub/backend/internal/domain/billing"
	"github.com/bizhub/backend/internal/domain/pipeline"
	"github.com/bizhub/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// CacheInvalidationHandler drops the cached dashboard aggregates whenever a
// pipeline or billing event changes the numbers they are built from
type CacheInvalidationHandler struct {
	service *DashboardService
	logger  *zap.Logger
}

// NewCacheInvalidationHandler creates a new handler for cache invalidation
func NewCacheInvalidationHandler(service *DashboardService, logger *zap.Logger) *CacheInvalidationHandler {
	return &CacheInvalidationHandler{
		service: service,
		logger:  logger,
	}
}

// EventTypes returns the event types this handler is interested in
func (h *CacheInvalidationHandler) EventTypes() []string {
	return []string{
		pipeline.EventTypeLeadCreated,
		pipeline.EventTypeLeadStageChanged,
		pipeline.EventTypeLeadDeleted,
		pipeline.EventTypeDealCreated,
		pipeline.EventTypeDealConverted,
		pipeline.EventTypeDealStageChanged,
		pipeline.EventTypeDealWon,
		pipeline.EventTypeDealLost,
		pipeline.EventTypeDealReopened,
		pipeline.EventTypeDealDeleted,
		pipeline.EventTypeDealRestored,
		billing.EventTypeInvoiceCreated,
		billing.EventTypeInvoiceStatusChanged,
		billing.EventTypeInvoicePaymentRecorded,
	}
}

// Handle invalidates the dashboard cache
func (h *CacheInvalidationHandler) Handle(ctx context.Context, event shared.DomainEvent) error {
	h.logger.Debug("invalidating dashboard cache",
		zap.String("event_type", event.EventType()),
		zap.String("aggregate_id", event.AggregateID().String()),
	)
	h.service.Invalidate(ctx)
	return nil
}

// Ensure CacheInvalidationHandler implements EventHandler
var _ shared.EventHandler = (*CacheInvalidationHandler)(nil)
