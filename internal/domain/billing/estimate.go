package billing

import (
	"time"

	"github.com/bizhub/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// EstimateStatus represents the lifecycle state of an estimate
type EstimateStatus string

const (
	EstimateStatusDraft    EstimateStatus = "draft"
	EstimateStatusSent     EstimateStatus = "sent"
	EstimateStatusAccepted EstimateStatus = "accepted"
	EstimateStatusDeclined EstimateStatus = "declined"
	EstimateStatusExpired  EstimateStatus = "expired"
)

// EstimateItem is a line item on an estimate
type EstimateItem struct {
	shared.BaseEntity
	EstimateID  uuid.UUID       `gorm:"type:uuid;not null;index"`
	Description string          `gorm:"type:varchar(500);not null"`
	Quantity    decimal.Decimal `gorm:"type:decimal(18,4);not null;default:1"`
	UnitPrice   decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	Amount      decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"` // Quantity * UnitPrice
	SortOrder   int             `gorm:"not null;default:0"`
}

// TableName returns the table name for GORM
func (EstimateItem) TableName() string {
	return "estimate_items"
}

// Estimate represents a priced quote for a client. Only draft estimates
// are editable; once sent the estimate can be accepted, declined, or expire.
type Estimate struct {
	shared.BaseAggregateRoot
	Number     string          `gorm:"type:varchar(50);not null;uniqueIndex"`
	ClientID   uuid.UUID       `gorm:"type:uuid;not null;index"`
	ClientName string          `gorm:"type:varchar(200)"`
	ProjectID  *uuid.UUID      `gorm:"type:uuid;index"`
	Status     EstimateStatus  `gorm:"type:varchar(20);not null;default:'draft';index"`
	Items      []EstimateItem  `gorm:"foreignKey:EstimateID"`
	Subtotal   decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	TaxRate    decimal.Decimal `gorm:"type:decimal(8,4);not null;default:0"` // Percentage
	TaxAmount  decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	Total      decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	ValidUntil *time.Time      `gorm:"type:date"`
	SentAt     *time.Time
	DecidedAt  *time.Time // When accepted or declined
	Notes      string     `gorm:"type:text"`
}

// TableName returns the table name for GORM
func (Estimate) TableName() string {
	return "estimates"
}

// NewEstimate creates a new draft estimate for a client
func NewEstimate(number string, clientID uuid.UUID, clientName string) (*Estimate, error) {
	if err := validateDocumentNumber(number); err != nil {
		return nil, err
	}
	if clientID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_CLIENT", "Estimate requires a client")
	}

	estimate := &Estimate{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Number:            number,
		ClientID:          clientID,
		ClientName:        clientName,
		Status:            EstimateStatusDraft,
		Subtotal:          decimal.Zero,
		TaxRate:           decimal.Zero,
		TaxAmount:         decimal.Zero,
		Total:             decimal.Zero,
	}

	estimate.AddDomainEvent(NewEstimateCreatedEvent(estimate))

	return estimate, nil
}

// SetItems replaces the line items and recomputes totals. Draft only.
func (e *Estimate) SetItems(items []LineItemInput) error {
	if e.Status != EstimateStatusDraft {
		return shared.NewDomainError("INVALID_STATE", "Only draft estimates can be edited")
	}
	if len(items) == 0 {
		return shared.NewDomainError("INVALID_ITEMS", "Estimate requires at least one line item")
	}

	built, subtotal, err := buildItems(items)
	if err != nil {
		return err
	}

	e.Items = make([]EstimateItem, 0, len(built))
	for i, item := range built {
		e.Items = append(e.Items, EstimateItem{
			BaseEntity:  shared.NewBaseEntity(),
			EstimateID:  e.ID,
			Description: item.Description,
			Quantity:    item.Quantity,
			UnitPrice:   item.UnitPrice,
			Amount:      item.Amount,
			SortOrder:   i,
		})
	}
	e.Subtotal = subtotal
	e.recalculate()
	e.UpdatedAt = time.Now()
	e.IncrementVersion()

	return nil
}

// SetTaxRate sets the tax percentage and recomputes totals. Draft only.
func (e *Estimate) SetTaxRate(rate decimal.Decimal) error {
	if e.Status != EstimateStatusDraft {
		return shared.NewDomainError("INVALID_STATE", "Only draft estimates can be edited")
	}
	if err := validateTaxRate(rate); err != nil {
		return err
	}

	e.TaxRate = rate
	e.recalculate()
	e.UpdatedAt = time.Now()
	e.IncrementVersion()

	return nil
}

// SetValidUntil sets the expiry date. Draft only.
func (e *Estimate) SetValidUntil(date *time.Time) error {
	if e.Status != EstimateStatusDraft {
		return shared.NewDomainError("INVALID_STATE", "Only draft estimates can be edited")
	}

	e.ValidUntil = date
	e.UpdatedAt = time.Now()
	e.IncrementVersion()

	return nil
}

// SetNotes sets free-form notes. Draft only.
func (e *Estimate) SetNotes(notes string) error {
	if e.Status != EstimateStatusDraft {
		return shared.NewDomainError("INVALID_STATE", "Only draft estimates can be edited")
	}

	e.Notes = notes
	e.UpdatedAt = time.Now()
	e.IncrementVersion()

	return nil
}

// Send marks a draft estimate as sent to the client
func (e *Estimate) Send() error {
	if e.Status != EstimateStatusDraft {
		return shared.NewDomainError("INVALID_STATE", "Only draft estimates can be sent")
	}
	if len(e.Items) == 0 {
		return shared.NewDomainError("INVALID_ITEMS", "Cannot send an estimate without line items")
	}

	now := time.Now()
	e.Status = EstimateStatusSent
	e.SentAt = &now
	e.UpdatedAt = now
	e.IncrementVersion()

	e.AddDomainEvent(NewEstimateStatusChangedEvent(e, EstimateStatusDraft, EstimateStatusSent))

	return nil
}

// Accept marks a sent estimate as accepted by the client
func (e *Estimate) Accept() error {
	if e.Status != EstimateStatusSent {
		return shared.NewDomainError("INVALID_STATE", "Only sent estimates can be accepted")
	}

	now := time.Now()
	e.Status = EstimateStatusAccepted
	e.DecidedAt = &now
	e.UpdatedAt = now
	e.IncrementVersion()

	e.AddDomainEvent(NewEstimateStatusChangedEvent(e, EstimateStatusSent, EstimateStatusAccepted))

	return nil
}

// Decline marks a sent estimate as declined by the client
func (e *Estimate) Decline() error {
	if e.Status != EstimateStatusSent {
		return shared.NewDomainError("INVALID_STATE", "Only sent estimates can be declined")
	}

	now := time.Now()
	e.Status = EstimateStatusDeclined
	e.DecidedAt = &now
	e.UpdatedAt = now
	e.IncrementVersion()

	e.AddDomainEvent(NewEstimateStatusChangedEvent(e, EstimateStatusSent, EstimateStatusDeclined))

	return nil
}

// Expire marks a sent estimate as expired
func (e *Estimate) Expire() error {
	if e.Status != EstimateStatusSent {
		return shared.NewDomainError("INVALID_STATE", "Only sent estimates can expire")
	}

	e.Status = EstimateStatusExpired
	e.UpdatedAt = time.Now()
	e.IncrementVersion()

	e.AddDomainEvent(NewEstimateStatusChangedEvent(e, EstimateStatusSent, EstimateStatusExpired))

	return nil
}

// IsPastValidity returns true if the estimate has a validity date in the past
func (e *Estimate) IsPastValidity(now time.Time) bool {
	return e.ValidUntil != nil && e.ValidUntil.Before(now)
}

func (e *Estimate) recalculate() {
	e.TaxAmount = e.Subtotal.Mul(e.TaxRate).Div(decimal.NewFromInt(100)).Round(2)
	e.Total = e.Subtotal.Add(e.TaxAmount)
}
