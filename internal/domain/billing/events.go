package billing

import (
	"github.com/bizhub/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Aggregate type constants
const (
	AggregateTypeEstimate = "Estimate"
	AggregateTypeInvoice  = "Invoice"
)

// Event type constants
const (
	EventTypeEstimateCreated        = "EstimateCreated"
	EventTypeEstimateStatusChanged  = "EstimateStatusChanged"
	EventTypeInvoiceCreated         = "InvoiceCreated"
	EventTypeInvoiceStatusChanged   = "InvoiceStatusChanged"
	EventTypeInvoicePaymentRecorded = "InvoicePaymentRecorded"
)

// EstimateCreatedEvent is published when an estimate is created
type EstimateCreatedEvent struct {
	shared.BaseDomainEvent
	EstimateID uuid.UUID `json:"estimate_id"`
	Number     string    `json:"number"`
	ClientID   uuid.UUID `json:"client_id"`
}

// NewEstimateCreatedEvent creates a new EstimateCreatedEvent
func NewEstimateCreatedEvent(estimate *Estimate) *EstimateCreatedEvent {
	return &EstimateCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeEstimateCreated, AggregateTypeEstimate, estimate.ID),
		EstimateID:      estimate.ID,
		Number:          estimate.Number,
		ClientID:        estimate.ClientID,
	}
}

// EstimateStatusChangedEvent is published when an estimate's status changes
type EstimateStatusChangedEvent struct {
	shared.BaseDomainEvent
	EstimateID uuid.UUID      `json:"estimate_id"`
	Number     string         `json:"number"`
	OldStatus  EstimateStatus `json:"old_status"`
	NewStatus  EstimateStatus `json:"new_status"`
}

// NewEstimateStatusChangedEvent creates a new EstimateStatusChangedEvent
func NewEstimateStatusChangedEvent(estimate *Estimate, oldStatus, newStatus EstimateStatus) *EstimateStatusChangedEvent {
	return &EstimateStatusChangedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeEstimateStatusChanged, AggregateTypeEstimate, estimate.ID),
		EstimateID:      estimate.ID,
		Number:          estimate.Number,
		OldStatus:       oldStatus,
		NewStatus:       newStatus,
	}
}

// InvoiceCreatedEvent is published when an invoice is created
type InvoiceCreatedEvent struct {
	shared.BaseDomainEvent
	InvoiceID uuid.UUID `json:"invoice_id"`
	Number    string    `json:"number"`
	ClientID  uuid.UUID `json:"client_id"`
}

// NewInvoiceCreatedEvent creates a new InvoiceCreatedEvent
func NewInvoiceCreatedEvent(invoice *Invoice) *InvoiceCreatedEvent {
	return &InvoiceCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeInvoiceCreated, AggregateTypeInvoice, invoice.ID),
		InvoiceID:       invoice.ID,
		Number:          invoice.Number,
		ClientID:        invoice.ClientID,
	}
}

// InvoiceStatusChangedEvent is published when an invoice's status changes
type InvoiceStatusChangedEvent struct {
	shared.BaseDomainEvent
	InvoiceID uuid.UUID     `json:"invoice_id"`
	Number    string        `json:"number"`
	OldStatus InvoiceStatus `json:"old_status"`
	NewStatus InvoiceStatus `json:"new_status"`
}

// NewInvoiceStatusChangedEvent creates a new InvoiceStatusChangedEvent
func NewInvoiceStatusChangedEvent(invoice *Invoice, oldStatus, newStatus InvoiceStatus) *InvoiceStatusChangedEvent {
	return &InvoiceStatusChangedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeInvoiceStatusChanged, AggregateTypeInvoice, invoice.ID),
		InvoiceID:       invoice.ID,
		Number:          invoice.Number,
		OldStatus:       oldStatus,
		NewStatus:       newStatus,
	}
}

// InvoicePaymentRecordedEvent is published when a payment is recorded
type InvoicePaymentRecordedEvent struct {
	shared.BaseDomainEvent
	InvoiceID   uuid.UUID       `json:"invoice_id"`
	Number      string          `json:"number"`
	Amount      decimal.Decimal `json:"amount"`
	Outstanding decimal.Decimal `json:"outstanding"`
}

// NewInvoicePaymentRecordedEvent creates a new InvoicePaymentRecordedEvent
func NewInvoicePaymentRecordedEvent(invoice *Invoice, amount decimal.Decimal) *InvoicePaymentRecordedEvent {
	return &InvoicePaymentRecordedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeInvoicePaymentRecorded, AggregateTypeInvoice, invoice.ID),
		InvoiceID:       invoice.ID,
		Number:          invoice.Number,
		Amount:          amount,
		Outstanding:     invoice.OutstandingBalance(),
	}
}
