package billing

import (
	"time"

	"github.com/bizhub/backend/internal/domain/billing"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// LineItemRequest represents a line item in create/update requests
type LineItemRequest struct {
	Description string          `json:"description" binding:"required,max=500"`
	Quantity    decimal.Decimal `json:"quantity" binding:"required"`
	UnitPrice   decimal.Decimal `json:"unit_price" binding:"required"`
}

// LineItemResponse represents a line item in API responses
type LineItemResponse struct {
	ID          uuid.UUID       `json:"id"`
	Description string          `json:"description"`
	Quantity    decimal.Decimal `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	Amount      decimal.Decimal `json:"amount"`
	SortOrder   int             `json:"sort_order"`
}

func toLineItemInputs(items []LineItemRequest) []billing.LineItemInput {
	inputs := make([]billing.LineItemInput, 0, len(items))
	for _, item := range items {
		inputs = append(inputs, billing.LineItemInput{
			Description: item.Description,
			Quantity:    item.Quantity,
			UnitPrice:   item.UnitPrice,
		})
	}
	return inputs
}

// =============================================================================
// Estimate DTOs
// =============================================================================

// CreateEstimateRequest represents a request to create an estimate
type CreateEstimateRequest struct {
	ClientID   uuid.UUID         `json:"client_id" binding:"required"`
	ProjectID  *uuid.UUID        `json:"project_id"`
	Items      []LineItemRequest `json:"items" binding:"required,min=1,dive"`
	TaxRate    *decimal.Decimal  `json:"tax_rate"`
	ValidUntil *time.Time        `json:"valid_until"`
	Notes      string            `json:"notes"`
	CreatedBy  *uuid.UUID        `json:"-"`
}

// UpdateEstimateRequest represents a request to update a draft estimate
type UpdateEstimateRequest struct {
	Items      []LineItemRequest `json:"items" binding:"omitempty,min=1,dive"`
	TaxRate    *decimal.Decimal  `json:"tax_rate"`
	ValidUntil *time.Time        `json:"valid_until"`
	Notes      *string           `json:"notes"`
	Version    *int              `json:"version"`
}

// AcceptEstimateRequest represents a request to accept an estimate
type AcceptEstimateRequest struct {
	// When true, a draft invoice is created from the accepted estimate
	CreateInvoice bool `json:"create_invoice"`
}

// EstimateResponse represents an estimate in API responses
type EstimateResponse struct {
	ID         uuid.UUID          `json:"id"`
	Number     string             `json:"number"`
	ClientID   uuid.UUID          `json:"client_id"`
	ClientName string             `json:"client_name"`
	ProjectID  *uuid.UUID         `json:"project_id,omitempty"`
	Status     string             `json:"status"`
	Items      []LineItemResponse `json:"items"`
	Subtotal   decimal.Decimal    `json:"subtotal"`
	TaxRate    decimal.Decimal    `json:"tax_rate"`
	TaxAmount  decimal.Decimal    `json:"tax_amount"`
	Total      decimal.Decimal    `json:"total"`
	ValidUntil *time.Time         `json:"valid_until,omitempty"`
	SentAt     *time.Time         `json:"sent_at,omitempty"`
	DecidedAt  *time.Time         `json:"decided_at,omitempty"`
	Notes      string             `json:"notes,omitempty"`
	Version    int                `json:"version"`
	CreatedAt  time.Time          `json:"created_at"`
	UpdatedAt  time.Time          `json:"updated_at"`
}

// AcceptEstimateResponse carries the accepted estimate plus the invoice
// spawned from it, when requested
type AcceptEstimateResponse struct {
	Estimate EstimateResponse `json:"estimate"`
	Invoice  *InvoiceResponse `json:"invoice,omitempty"`
}

// EstimateListFilter represents filtering options for estimate queries
type EstimateListFilter struct {
	Page     int        `form:"page"`
	PageSize int        `form:"page_size"`
	OrderBy  string     `form:"order_by"`
	OrderDir string     `form:"order_dir"`
	Search   string     `form:"search"`
	Status   string     `form:"status" binding:"omitempty,oneof=draft sent accepted declined expired"`
	ClientID *uuid.UUID `form:"client_id"`
}

// ToEstimateResponse converts an estimate aggregate to a response DTO
func ToEstimateResponse(e *billing.Estimate) EstimateResponse {
	items := make([]LineItemResponse, 0, len(e.Items))
	for _, item := range e.Items {
		items = append(items, LineItemResponse{
			ID:          item.ID,
			Description: item.Description,
			Quantity:    item.Quantity,
			UnitPrice:   item.UnitPrice,
			Amount:      item.Amount,
			SortOrder:   item.SortOrder,
		})
	}

	return EstimateResponse{
		ID:         e.ID,
		Number:     e.Number,
		ClientID:   e.ClientID,
		ClientName: e.ClientName,
		ProjectID:  e.ProjectID,
		Status:     string(e.Status),
		Items:      items,
		Subtotal:   e.Subtotal,
		TaxRate:    e.TaxRate,
		TaxAmount:  e.TaxAmount,
		Total:      e.Total,
		ValidUntil: e.ValidUntil,
		SentAt:     e.SentAt,
		DecidedAt:  e.DecidedAt,
		Notes:      e.Notes,
		Version:    e.Version,
		CreatedAt:  e.CreatedAt,
		UpdatedAt:  e.UpdatedAt,
	}
}

// ToEstimateResponses converts a slice of estimates to response DTOs
func ToEstimateResponses(estimates []billing.Estimate) []EstimateResponse {
	responses := make([]EstimateResponse, len(estimates))
	for i := range estimates {
		responses[i] = ToEstimateResponse(&estimates[i])
	}
	return responses
}

// =============================================================================
// Invoice DTOs
// =============================================================================

// CreateInvoiceRequest represents a request to create an invoice
type CreateInvoiceRequest struct {
	ClientID  uuid.UUID         `json:"client_id" binding:"required"`
	ProjectID *uuid.UUID        `json:"project_id"`
	Items     []LineItemRequest `json:"items" binding:"required,min=1,dive"`
	TaxRate   *decimal.Decimal  `json:"tax_rate"`
	DueDate   *time.Time        `json:"due_date"`
	Notes     string            `json:"notes"`
	CreatedBy *uuid.UUID        `json:"-"`
}

// UpdateInvoiceRequest represents a request to update a draft invoice
type UpdateInvoiceRequest struct {
	Items   []LineItemRequest `json:"items" binding:"omitempty,min=1,dive"`
	TaxRate *decimal.Decimal  `json:"tax_rate"`
	DueDate *time.Time        `json:"due_date"`
	Notes   *string           `json:"notes"`
	Version *int              `json:"version"`
}

// RecordPaymentRequest represents a request to record a manual payment
type RecordPaymentRequest struct {
	Amount    decimal.Decimal `json:"amount" binding:"required"`
	Method    string          `json:"method" binding:"omitempty,max=50"`
	Reference string          `json:"reference" binding:"omitempty,max=100"`
	PaidAt    *time.Time      `json:"paid_at"`
	Notes     string          `json:"notes"`
}

// PaymentResponse represents a recorded payment in API responses
type PaymentResponse struct {
	ID        uuid.UUID       `json:"id"`
	Amount    decimal.Decimal `json:"amount"`
	Method    string          `json:"method,omitempty"`
	Reference string          `json:"reference,omitempty"`
	PaidAt    time.Time       `json:"paid_at"`
	Notes     string          `json:"notes,omitempty"`
}

// InvoiceResponse represents an invoice in API responses
type InvoiceResponse struct {
	ID          uuid.UUID          `json:"id"`
	Number      string             `json:"number"`
	ClientID    uuid.UUID          `json:"client_id"`
	ClientName  string             `json:"client_name"`
	ProjectID   *uuid.UUID         `json:"project_id,omitempty"`
	EstimateID  *uuid.UUID         `json:"estimate_id,omitempty"`
	Status      string             `json:"status"`
	Items       []LineItemResponse `json:"items"`
	Payments    []PaymentResponse  `json:"payments"`
	Subtotal    decimal.Decimal    `json:"subtotal"`
	TaxRate     decimal.Decimal    `json:"tax_rate"`
	TaxAmount   decimal.Decimal    `json:"tax_amount"`
	Total       decimal.Decimal    `json:"total"`
	AmountPaid  decimal.Decimal    `json:"amount_paid"`
	Outstanding decimal.Decimal    `json:"outstanding"`
	DueDate     *time.Time         `json:"due_date,omitempty"`
	SentAt      *time.Time         `json:"sent_at,omitempty"`
	PaidAt      *time.Time         `json:"paid_at,omitempty"`
	VoidedAt    *time.Time         `json:"voided_at,omitempty"`
	Notes       string             `json:"notes,omitempty"`
	Version     int                `json:"version"`
	CreatedAt   time.Time          `json:"created_at"`
	UpdatedAt   time.Time          `json:"updated_at"`
}

// InvoiceListFilter represents filtering options for invoice queries
type InvoiceListFilter struct {
	Page     int        `form:"page"`
	PageSize int        `form:"page_size"`
	OrderBy  string     `form:"order_by"`
	OrderDir string     `form:"order_dir"`
	Search   string     `form:"search"`
	Status   string     `form:"status" binding:"omitempty,oneof=draft sent partially_paid paid void"`
	ClientID *uuid.UUID `form:"client_id"`
	Overdue  bool       `form:"overdue"`
}

// ToInvoiceResponse converts an invoice aggregate to a response DTO
func ToInvoiceResponse(inv *billing.Invoice) InvoiceResponse {
	items := make([]LineItemResponse, 0, len(inv.Items))
	for _, item := range inv.Items {
		items = append(items, LineItemResponse{
			ID:          item.ID,
			Description: item.Description,
			Quantity:    item.Quantity,
			UnitPrice:   item.UnitPrice,
			Amount:      item.Amount,
			SortOrder:   item.SortOrder,
		})
	}

	payments := make([]PaymentResponse, 0, len(inv.Payments))
	for _, payment := range inv.Payments {
		payments = append(payments, PaymentResponse{
			ID:        payment.ID,
			Amount:    payment.Amount,
			Method:    payment.Method,
			Reference: payment.Reference,
			PaidAt:    payment.PaidAt,
			Notes:     payment.Notes,
		})
	}

	return InvoiceResponse{
		ID:          inv.ID,
		Number:      inv.Number,
		ClientID:    inv.ClientID,
		ClientName:  inv.ClientName,
		ProjectID:   inv.ProjectID,
		EstimateID:  inv.EstimateID,
		Status:      string(inv.Status),
		Items:       items,
		Payments:    payments,
		Subtotal:    inv.Subtotal,
		TaxRate:     inv.TaxRate,
		TaxAmount:   inv.TaxAmount,
		Total:       inv.Total,
		AmountPaid:  inv.AmountPaid,
		Outstanding: inv.OutstandingBalance(),
		DueDate:     inv.DueDate,
		SentAt:      inv.SentAt,
		PaidAt:      inv.PaidAt,
		VoidedAt:    inv.VoidedAt,
		Notes:       inv.Notes,
		Version:     inv.Version,
		CreatedAt:   inv.CreatedAt,
		UpdatedAt:   inv.UpdatedAt,
	}
}

// ToInvoiceResponses converts a slice of invoices to response DTOs
func ToInvoiceResponses(invoices []billing.Invoice) []InvoiceResponse {
	responses := make([]InvoiceResponse, len(invoices))
	for i := range invoices {
		responses[i] = ToInvoiceResponse(&invoices[i])
	}
	return responses
}
