package billing

import (
	"time"

	"github.com/bizhub/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// InvoiceStatus represents the lifecycle state of an invoice
type InvoiceStatus string

const (
	InvoiceStatusDraft         InvoiceStatus = "draft"
	InvoiceStatusSent          InvoiceStatus = "sent"
	InvoiceStatusPartiallyPaid InvoiceStatus = "partially_paid"
	InvoiceStatusPaid          InvoiceStatus = "paid"
	InvoiceStatusVoid          InvoiceStatus = "void"
)

// InvoiceItem is a line item on an invoice
type InvoiceItem struct {
	shared.BaseEntity
	InvoiceID   uuid.UUID       `gorm:"type:uuid;not null;index"`
	Description string          `gorm:"type:varchar(500);not null"`
	Quantity    decimal.Decimal `gorm:"type:decimal(18,4);not null;default:1"`
	UnitPrice   decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	Amount      decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	SortOrder   int             `gorm:"not null;default:0"`
}

// TableName returns the table name for GORM
func (InvoiceItem) TableName() string {
	return "invoice_items"
}

// Payment is a manual payment record against an invoice
type Payment struct {
	shared.BaseEntity
	InvoiceID uuid.UUID       `gorm:"type:uuid;not null;index"`
	Amount    decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	Method    string          `gorm:"type:varchar(50)"` // e.g. "check", "card", "transfer"
	Reference string          `gorm:"type:varchar(100)"`
	PaidAt    time.Time       `gorm:"not null"`
	Notes     string          `gorm:"type:text"`
}

// TableName returns the table name for GORM
func (Payment) TableName() string {
	return "invoice_payments"
}

// Invoice represents a bill issued to a client. Payments are recorded
// manually against it; the status follows the outstanding balance.
type Invoice struct {
	shared.BaseAggregateRoot
	Number     string          `gorm:"type:varchar(50);not null;uniqueIndex"`
	ClientID   uuid.UUID       `gorm:"type:uuid;not null;index"`
	ClientName string          `gorm:"type:varchar(200)"`
	ProjectID  *uuid.UUID      `gorm:"type:uuid;index"`
	EstimateID *uuid.UUID      `gorm:"type:uuid;index"` // Spawning estimate, when accepted
	Status     InvoiceStatus   `gorm:"type:varchar(20);not null;default:'draft';index"`
	Items      []InvoiceItem   `gorm:"foreignKey:InvoiceID"`
	Payments   []Payment       `gorm:"foreignKey:InvoiceID"`
	Subtotal   decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	TaxRate    decimal.Decimal `gorm:"type:decimal(8,4);not null;default:0"`
	TaxAmount  decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	Total      decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	AmountPaid decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	DueDate    *time.Time      `gorm:"type:date"`
	SentAt     *time.Time
	PaidAt     *time.Time
	VoidedAt   *time.Time
	Notes      string `gorm:"type:text"`
}

// TableName returns the table name for GORM
func (Invoice) TableName() string {
	return "invoices"
}

// NewInvoice creates a new draft invoice for a client
func NewInvoice(number string, clientID uuid.UUID, clientName string) (*Invoice, error) {
	if err := validateDocumentNumber(number); err != nil {
		return nil, err
	}
	if clientID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_CLIENT", "Invoice requires a client")
	}

	invoice := &Invoice{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Number:            number,
		ClientID:          clientID,
		ClientName:        clientName,
		Status:            InvoiceStatusDraft,
		Subtotal:          decimal.Zero,
		TaxRate:           decimal.Zero,
		TaxAmount:         decimal.Zero,
		Total:             decimal.Zero,
		AmountPaid:        decimal.Zero,
	}

	invoice.AddDomainEvent(NewInvoiceCreatedEvent(invoice))

	return invoice, nil
}

// NewInvoiceFromEstimate creates a draft invoice copying an accepted
// estimate's line items and totals
func NewInvoiceFromEstimate(number string, estimate *Estimate) (*Invoice, error) {
	if estimate.Status != EstimateStatusAccepted {
		return nil, shared.NewDomainError("INVALID_STATE", "Only accepted estimates can spawn an invoice")
	}

	invoice, err := NewInvoice(number, estimate.ClientID, estimate.ClientName)
	if err != nil {
		return nil, err
	}

	estimateID := estimate.ID
	invoice.EstimateID = &estimateID
	invoice.ProjectID = estimate.ProjectID
	invoice.TaxRate = estimate.TaxRate

	items := make([]LineItemInput, 0, len(estimate.Items))
	for _, item := range estimate.Items {
		items = append(items, LineItemInput{
			Description: item.Description,
			Quantity:    item.Quantity,
			UnitPrice:   item.UnitPrice,
		})
	}
	if err := invoice.SetItems(items); err != nil {
		return nil, err
	}

	return invoice, nil
}

// SetItems replaces the line items and recomputes totals. Draft only.
func (i *Invoice) SetItems(items []LineItemInput) error {
	if i.Status != InvoiceStatusDraft {
		return shared.NewDomainError("INVALID_STATE", "Only draft invoices can be edited")
	}
	if len(items) == 0 {
		return shared.NewDomainError("INVALID_ITEMS", "Invoice requires at least one line item")
	}

	built, subtotal, err := buildItems(items)
	if err != nil {
		return err
	}

	i.Items = make([]InvoiceItem, 0, len(built))
	for idx, item := range built {
		i.Items = append(i.Items, InvoiceItem{
			BaseEntity:  shared.NewBaseEntity(),
			InvoiceID:   i.ID,
			Description: item.Description,
			Quantity:    item.Quantity,
			UnitPrice:   item.UnitPrice,
			Amount:      item.Amount,
			SortOrder:   idx,
		})
	}
	i.Subtotal = subtotal
	i.recalculate()
	i.UpdatedAt = time.Now()
	i.IncrementVersion()

	return nil
}

// SetTaxRate sets the tax percentage and recomputes totals. Draft only.
func (i *Invoice) SetTaxRate(rate decimal.Decimal) error {
	if i.Status != InvoiceStatusDraft {
		return shared.NewDomainError("INVALID_STATE", "Only draft invoices can be edited")
	}
	if err := validateTaxRate(rate); err != nil {
		return err
	}

	i.TaxRate = rate
	i.recalculate()
	i.UpdatedAt = time.Now()
	i.IncrementVersion()

	return nil
}

// SetDueDate sets the payment due date. Draft only.
func (i *Invoice) SetDueDate(date *time.Time) error {
	if i.Status != InvoiceStatusDraft {
		return shared.NewDomainError("INVALID_STATE", "Only draft invoices can be edited")
	}

	i.DueDate = date
	i.UpdatedAt = time.Now()
	i.IncrementVersion()

	return nil
}

// SetNotes sets free-form notes. Draft only.
func (i *Invoice) SetNotes(notes string) error {
	if i.Status != InvoiceStatusDraft {
		return shared.NewDomainError("INVALID_STATE", "Only draft invoices can be edited")
	}

	i.Notes = notes
	i.UpdatedAt = time.Now()
	i.IncrementVersion()

	return nil
}

// Send marks a draft invoice as sent to the client
func (i *Invoice) Send() error {
	if i.Status != InvoiceStatusDraft {
		return shared.NewDomainError("INVALID_STATE", "Only draft invoices can be sent")
	}
	if len(i.Items) == 0 {
		return shared.NewDomainError("INVALID_ITEMS", "Cannot send an invoice without line items")
	}

	now := time.Now()
	i.Status = InvoiceStatusSent
	i.SentAt = &now
	i.UpdatedAt = now
	i.IncrementVersion()

	i.AddDomainEvent(NewInvoiceStatusChangedEvent(i, InvoiceStatusDraft, InvoiceStatusSent))

	return nil
}

// RecordPayment records a manual payment. The payment cannot exceed the
// outstanding balance; full payment closes the invoice as paid.
func (i *Invoice) RecordPayment(amount decimal.Decimal, method, reference string, paidAt time.Time, notes string) error {
	if i.Status != InvoiceStatusSent && i.Status != InvoiceStatusPartiallyPaid {
		return shared.NewDomainError("INVALID_STATE", "Payments can only be recorded on sent invoices")
	}
	if !amount.IsPositive() {
		return shared.NewDomainError("INVALID_AMOUNT", "Payment amount must be positive")
	}
	if amount.GreaterThan(i.OutstandingBalance()) {
		return shared.NewDomainError("PAYMENT_EXCEEDS_BALANCE", "Payment exceeds the outstanding balance")
	}
	if len(method) > 50 {
		return shared.NewDomainError("INVALID_METHOD", "Payment method cannot exceed 50 characters")
	}
	if len(reference) > 100 {
		return shared.NewDomainError("INVALID_REFERENCE", "Payment reference cannot exceed 100 characters")
	}

	oldStatus := i.Status
	i.Payments = append(i.Payments, Payment{
		BaseEntity: shared.NewBaseEntity(),
		InvoiceID:  i.ID,
		Amount:     amount,
		Method:     method,
		Reference:  reference,
		PaidAt:     paidAt,
		Notes:      notes,
	})
	i.AmountPaid = i.AmountPaid.Add(amount)

	now := time.Now()
	if i.AmountPaid.GreaterThanOrEqual(i.Total) {
		i.Status = InvoiceStatusPaid
		i.PaidAt = &now
	} else {
		i.Status = InvoiceStatusPartiallyPaid
	}
	i.UpdatedAt = now
	i.IncrementVersion()

	if oldStatus != i.Status {
		i.AddDomainEvent(NewInvoiceStatusChangedEvent(i, oldStatus, i.Status))
	}
	i.AddDomainEvent(NewInvoicePaymentRecordedEvent(i, amount))

	return nil
}

// Void cancels an invoice that has not collected any payment
func (i *Invoice) Void() error {
	if i.Status != InvoiceStatusDraft && i.Status != InvoiceStatusSent {
		return shared.NewDomainError("INVALID_STATE", "Only draft or sent invoices can be voided")
	}
	if i.AmountPaid.IsPositive() {
		return shared.NewDomainError("INVALID_STATE", "Invoices with recorded payments cannot be voided")
	}

	oldStatus := i.Status
	now := time.Now()
	i.Status = InvoiceStatusVoid
	i.VoidedAt = &now
	i.UpdatedAt = now
	i.IncrementVersion()

	i.AddDomainEvent(NewInvoiceStatusChangedEvent(i, oldStatus, InvoiceStatusVoid))

	return nil
}

// OutstandingBalance returns the amount still owed
func (i *Invoice) OutstandingBalance() decimal.Decimal {
	return i.Total.Sub(i.AmountPaid)
}

// IsOverdue returns true if the invoice is unpaid past its due date
func (i *Invoice) IsOverdue(now time.Time) bool {
	if i.DueDate == nil {
		return false
	}
	if i.Status != InvoiceStatusSent && i.Status != InvoiceStatusPartiallyPaid {
		return false
	}
	return i.DueDate.Before(now)
}

func (i *Invoice) recalculate() {
	i.TaxAmount = i.Subtotal.Mul(i.TaxRate).Div(decimal.NewFromInt(100)).Round(2)
	i.Total = i.Subtotal.Add(i.TaxAmount)
}
