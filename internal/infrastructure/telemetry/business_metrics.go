// Package telemetry provides OpenTelemetry integration for metrics collection.
package telemetry

import (
	"context"
	"sync"
	"time"

	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel/metric"
	"go.uber.org/zap"
)

// BusinessMetrics provides business metrics for the backend.
// It tracks pipeline outcomes, billing activity, and receivables health.
type BusinessMetrics struct {
	meter  metric.Meter
	logger *zap.Logger

	// Counter metrics (monotonically increasing)
	dealWonTotal         *Counter
	dealLostTotal        *Counter
	dealValueWonTotal    *Counter
	paymentRecordedTotal *Counter

	// Gauge metrics (point-in-time values)
	openDealCount      *Gauge
	outstandingBalance *FloatGauge

	// Periodic collector
	stopChan    chan struct{}
	stopOnce    sync.Once
	collectOnce sync.Once

	// Data provider for periodic collection
	pipelineProvider PipelineMetricsProvider
}

// PipelineMetricsProvider provides pipeline and billing data for periodic
// metrics collection. The interface lets the telemetry layer query state
// without depending on the domain packages directly.
type PipelineMetricsProvider interface {
	// CountOpenDeals returns the number of deals currently open
	CountOpenDeals(ctx context.Context) (int64, error)

	// OutstandingInvoiceBalance returns the total unpaid balance across
	// sent and partially paid invoices
	OutstandingInvoiceBalance(ctx context.Context) (decimal.Decimal, error)
}

// BusinessMetricsConfig holds configuration for business metrics.
type BusinessMetricsConfig struct {
	Meter            metric.Meter
	Logger           *zap.Logger
	CollectInterval  time.Duration // Default: 5 minutes
	PipelineProvider PipelineMetricsProvider
}

// NewBusinessMetrics creates a new BusinessMetrics instance.
func NewBusinessMetrics(cfg BusinessMetricsConfig) (*BusinessMetrics, error) {
	if cfg.Meter == nil {
		return nil, ErrMeterNil
	}

	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	bm := &BusinessMetrics{
		meter:            cfg.Meter,
		logger:           logger,
		stopChan:         make(chan struct{}),
		pipelineProvider: cfg.PipelineProvider,
	}

	// Initialize counter metrics
	var err error

	bm.dealWonTotal, err = NewCounter(
		cfg.Meter,
		"bizhub_deal_won_total",
		"Total number of deals won",
		"{deals}",
	)
	if err != nil {
		return nil, err
	}

	bm.dealLostTotal, err = NewCounter(
		cfg.Meter,
		"bizhub_deal_lost_total",
		"Total number of deals lost",
		"{deals}",
	)
	if err != nil {
		return nil, err
	}

	bm.dealValueWonTotal, err = NewCounter(
		cfg.Meter,
		"bizhub_deal_value_won_total",
		"Total value of won deals in cents",
		"{cents}",
	)
	if err != nil {
		return nil, err
	}

	bm.paymentRecordedTotal, err = NewCounter(
		cfg.Meter,
		"bizhub_payment_recorded_total",
		"Total number of invoice payments recorded",
		"{payments}",
	)
	if err != nil {
		return nil, err
	}

	// Gauge metrics
	bm.openDealCount, err = NewGauge(
		cfg.Meter,
		"bizhub_open_deal_count",
		"Current number of open deals",
		"{deals}",
	)
	if err != nil {
		return nil, err
	}

	bm.outstandingBalance, err = NewFloatGauge(
		cfg.Meter,
		"bizhub_invoice_outstanding_balance",
		"Total unpaid balance across open invoices",
		"{currency}",
	)
	if err != nil {
		return nil, err
	}

	return bm, nil
}

// =============================================================================
// Pipeline Metrics
// =============================================================================

// RecordDealWon records a deal moving to the won state.
// This should be called from the application layer when a deal is won.
func (bm *BusinessMetrics) RecordDealWon(ctx context.Context, stageName string, value decimal.Decimal) {
	bm.dealWonTotal.Inc(ctx,
		AttrStageName.String(stageName),
	)

	// Convert to cents (multiply by 100)
	valueCents := value.Mul(decimal.NewFromInt(100)).IntPart()
	bm.dealValueWonTotal.Add(ctx, valueCents,
		AttrStageName.String(stageName),
	)
}

// RecordDealLost records a deal moving to the lost state.
func (bm *BusinessMetrics) RecordDealLost(ctx context.Context, stageName string) {
	bm.dealLostTotal.Inc(ctx,
		AttrStageName.String(stageName),
	)
}

// =============================================================================
// Billing Metrics
// =============================================================================

// RecordPayment records an invoice payment.
// This should be called when a payment is recorded against an invoice.
func (bm *BusinessMetrics) RecordPayment(ctx context.Context, paymentMethod string) {
	bm.paymentRecordedTotal.Inc(ctx,
		AttrPaymentMethod.String(paymentMethod),
	)
}

// RecordOpenDealCount records the current number of open deals.
// This is a gauge metric that should be updated periodically.
func (bm *BusinessMetrics) RecordOpenDealCount(ctx context.Context, count int64) {
	bm.openDealCount.Record(ctx, count)
}

// RecordOutstandingBalance records the current unpaid invoice balance.
// This is a gauge metric that should be updated periodically.
func (bm *BusinessMetrics) RecordOutstandingBalance(ctx context.Context, balance decimal.Decimal) {
	bm.outstandingBalance.Record(ctx, balance.InexactFloat64())
}

// =============================================================================
// Periodic Collection
// =============================================================================

// StartPeriodicCollection starts periodic collection of gauge metrics.
// It collects pipeline metrics every interval (default: 5 minutes).
// This is non-blocking - use Stop() to stop collection.
func (bm *BusinessMetrics) StartPeriodicCollection(ctx context.Context, interval time.Duration) {
	bm.collectOnce.Do(func() {
		if interval <= 0 {
			interval = 5 * time.Minute
		}

		go bm.runPeriodicCollection(ctx, interval)
	})
}

// runPeriodicCollection runs the periodic collection loop.
func (bm *BusinessMetrics) runPeriodicCollection(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	// Collect immediately on start
	bm.collectPipelineMetrics(ctx)

	for {
		select {
		case <-bm.stopChan:
			bm.logger.Info("Stopping periodic business metrics collection")
			return
		case <-ctx.Done():
			bm.logger.Info("Context cancelled, stopping periodic business metrics collection")
			return
		case <-ticker.C:
			bm.collectPipelineMetrics(ctx)
		}
	}
}

// collectPipelineMetrics collects pipeline and billing gauge metrics.
func (bm *BusinessMetrics) collectPipelineMetrics(ctx context.Context) {
	if bm.pipelineProvider == nil {
		bm.logger.Debug("No pipeline provider configured, skipping metrics collection")
		return
	}

	openDeals, err := bm.pipelineProvider.CountOpenDeals(ctx)
	if err != nil {
		bm.logger.Warn("Failed to count open deals for metrics", zap.Error(err))
	} else {
		bm.RecordOpenDealCount(ctx, openDeals)
	}

	balance, err := bm.pipelineProvider.OutstandingInvoiceBalance(ctx)
	if err != nil {
		bm.logger.Warn("Failed to get outstanding invoice balance for metrics", zap.Error(err))
	} else {
		bm.RecordOutstandingBalance(ctx, balance)
	}
}

// Stop stops the periodic collection.
func (bm *BusinessMetrics) Stop() {
	bm.stopOnce.Do(func() {
		close(bm.stopChan)
	})
}

// =============================================================================
// Error Types
// =============================================================================

// ErrMeterNil is returned when meter is nil.
var ErrMeterNil = &MetricsError{Op: "NewBusinessMetrics", Err: "meter cannot be nil"}

// MetricsError represents a metrics-related error.
type MetricsError struct {
	Op  string
	Err string
}

func (e *MetricsError) Error() string {
	return e.Op + ": " + e.Err
}
