package billing

import (
	"context"
	"time"

	"github.com/bizhub/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// EstimateRepository defines the interface for estimate persistence
type EstimateRepository interface {
	// FindByID finds an estimate (with items) by its ID
	FindByID(ctx context.Context, id uuid.UUID) (*Estimate, error)

	// FindByNumber finds an estimate by its number
	FindByNumber(ctx context.Context, number string) (*Estimate, error)

	// FindAll finds all estimates matching the filter
	FindAll(ctx context.Context, filter shared.Filter) ([]Estimate, error)

	// FindByClient finds estimates for a client
	FindByClient(ctx context.Context, clientID uuid.UUID, filter shared.Filter) ([]Estimate, error)

	// FindByStatus finds estimates by status
	FindByStatus(ctx context.Context, status EstimateStatus, filter shared.Filter) ([]Estimate, error)

	// FindSentPastValidity finds sent estimates whose validity date is in the past
	FindSentPastValidity(ctx context.Context, now time.Time) ([]Estimate, error)

	// Save creates or updates an estimate and its items
	Save(ctx context.Context, estimate *Estimate) error

	// SaveWithLock saves with optimistic locking (version check)
	SaveWithLock(ctx context.Context, estimate *Estimate) error

	// Delete deletes an estimate and its items
	Delete(ctx context.Context, id uuid.UUID) error

	// Count counts estimates matching the filter
	Count(ctx context.Context, filter shared.Filter) (int64, error)

	// CountByStatus counts estimates by status
	CountByStatus(ctx context.Context, status EstimateStatus) (int64, error)

	// ExistsByNumber checks whether an estimate number is taken
	ExistsByNumber(ctx context.Context, number string) (bool, error)

	// NextNumber returns the next estimate number in the sequence
	NextNumber(ctx context.Context) (string, error)
}

// InvoiceRepository defines the interface for invoice persistence
type InvoiceRepository interface {
	// FindByID finds an invoice (with items and payments) by its ID
	FindByID(ctx context.Context, id uuid.UUID) (*Invoice, error)

	// FindByNumber finds an invoice by its number
	FindByNumber(ctx context.Context, number string) (*Invoice, error)

	// FindAll finds all invoices matching the filter
	FindAll(ctx context.Context, filter shared.Filter) ([]Invoice, error)

	// FindByClient finds invoices for a client
	FindByClient(ctx context.Context, clientID uuid.UUID, filter shared.Filter) ([]Invoice, error)

	// FindByStatus finds invoices by status
	FindByStatus(ctx context.Context, status InvoiceStatus, filter shared.Filter) ([]Invoice, error)

	// FindOverdue finds sent or partially paid invoices past their due date
	FindOverdue(ctx context.Context, now time.Time) ([]Invoice, error)

	// Save creates or updates an invoice with its items and payments
	Save(ctx context.Context, invoice *Invoice) error

	// SaveWithLock saves with optimistic locking (version check)
	SaveWithLock(ctx context.Context, invoice *Invoice) error

	// Delete deletes an invoice with its items and payments
	Delete(ctx context.Context, id uuid.UUID) error

	// Count counts invoices matching the filter
	Count(ctx context.Context, filter shared.Filter) (int64, error)

	// CountByStatus counts invoices by status
	CountByStatus(ctx context.Context, status InvoiceStatus) (int64, error)

	// SumPaidBetween sums payments recorded within a time range
	SumPaidBetween(ctx context.Context, from, to time.Time) (string, error)

	// SumOutstanding sums the outstanding balance of open invoices
	SumOutstanding(ctx context.Context) (string, error)

	// ExistsByNumber checks whether an invoice number is taken
	ExistsByNumber(ctx context.Context, number string) (bool, error)

	// NextNumber returns the next invoice number in the sequence
	NextNumber(ctx context.Context) (string, error)
}
