package pipeline

import (
	"time"

	"github.com/bizhub/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// DealStatus represents the lifecycle state of a deal
type DealStatus string

const (
	DealStatusOpen DealStatus = "open"
	DealStatusWon  DealStatus = "won"
	DealStatusLost DealStatus = "lost"
)

// DeletedRetention is how long a soft-deleted deal can still be restored.
// Past this window the scheduled purge removes it permanently.
const DeletedRetention = 30 * 24 * time.Hour

// Deal represents a committed job in the sales pipeline. Deals are created
// directly or by converting a lead; a converted deal keeps the originating
// lead's ID. Closed (won/lost) deals are read-only until reopened.
type Deal struct {
	shared.BaseAggregateRoot
	Name           string          `gorm:"type:varchar(200);not null"`
	Status         DealStatus      `gorm:"type:varchar(20);not null;default:'open';index"`
	ClientID       *uuid.UUID      `gorm:"type:uuid;index"`
	ClientName     string          `gorm:"type:varchar(200)"`
	ContactID      *uuid.UUID      `gorm:"type:uuid;index"`
	ContactName    string          `gorm:"type:varchar(200)"`
	StageID        uuid.UUID       `gorm:"type:uuid;not null;index"`
	StageName      string          `gorm:"type:varchar(100);not null"`
	LabelID        *uuid.UUID      `gorm:"type:uuid;index"`
	LabelName      string          `gorm:"type:varchar(100)"`
	SourceID       *uuid.UUID      `gorm:"type:uuid;index"`
	SourceName     string          `gorm:"type:varchar(100)"`
	Value          decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	Commission     decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	Units          int             `gorm:"not null;default:1"`
	OwnerID        *uuid.UUID      `gorm:"type:uuid;index"`
	OwnerName      string          `gorm:"type:varchar(100)"`
	JobsiteAddress string          `gorm:"type:text"`
	Notes          string          `gorm:"type:text"`
	LeadID         *uuid.UUID      `gorm:"type:uuid;index"` // Originating lead, when converted
	WonAt          *time.Time
	LostAt         *time.Time
	LostReason     string     `gorm:"type:text"`
	DeletedAt      *time.Time `gorm:"index"`
}

// TableName returns the table name for GORM
func (Deal) TableName() string {
	return "deals"
}

// NewDeal creates a new open deal in the given stage
func NewDeal(name string, stage *Option) (*Deal, error) {
	if err := validateDealName(name); err != nil {
		return nil, err
	}
	if stage == nil || !stage.IsStage() {
		return nil, shared.NewDomainError("INVALID_STAGE", "Deal requires a pipeline stage")
	}

	deal := &Deal{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Name:              name,
		Status:            DealStatusOpen,
		StageID:           stage.ID,
		StageName:         stage.Name,
		Value:             decimal.Zero,
		Commission:        decimal.Zero,
		Units:             1,
	}

	deal.AddDomainEvent(NewDealCreatedEvent(deal))

	return deal, nil
}

// NewDealFromLead creates an open deal carrying over the lead's fields.
// The caller persists the deal and removes the lead in one transaction.
func NewDealFromLead(lead *Lead) *Deal {
	leadID := lead.ID
	deal := &Deal{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Name:              lead.Name,
		Status:            DealStatusOpen,
		ClientID:          lead.ClientID,
		ClientName:        lead.ClientName,
		ContactID:         lead.ContactID,
		ContactName:       lead.ContactName,
		StageID:           lead.StageID,
		StageName:         lead.StageName,
		LabelID:           lead.LabelID,
		LabelName:         lead.LabelName,
		SourceID:          lead.SourceID,
		SourceName:        lead.SourceName,
		Value:             lead.Value,
		Commission:        decimal.Zero,
		Units:             1,
		OwnerID:           lead.OwnerID,
		OwnerName:         lead.OwnerName,
		JobsiteAddress:    lead.JobsiteAddress,
		Notes:             lead.Notes,
		LeadID:            &leadID,
	}

	deal.AddDomainEvent(NewDealConvertedEvent(deal, leadID))

	return deal
}

// Update updates the deal's basic information. Closed and deleted deals
// reject edits.
func (d *Deal) Update(name, jobsiteAddress, notes string) error {
	if err := d.ensureEditable(); err != nil {
		return err
	}
	if err := validateDealName(name); err != nil {
		return err
	}

	d.Name = name
	d.JobsiteAddress = jobsiteAddress
	d.Notes = notes
	d.UpdatedAt = time.Now()
	d.IncrementVersion()

	return nil
}

// MoveToStage moves the deal to a different pipeline stage
func (d *Deal) MoveToStage(stage *Option) error {
	if err := d.ensureEditable(); err != nil {
		return err
	}
	if stage == nil || !stage.IsStage() {
		return shared.NewDomainError("INVALID_STAGE", "Target must be a pipeline stage")
	}

	oldStageID := d.StageID
	d.StageID = stage.ID
	d.StageName = stage.Name
	d.UpdatedAt = time.Now()
	d.IncrementVersion()

	if oldStageID != stage.ID {
		d.AddDomainEvent(NewDealStageChangedEvent(d, oldStageID, stage.ID))
	}

	return nil
}

// SetLabel sets or clears the temperature label
func (d *Deal) SetLabel(label *Option) error {
	if err := d.ensureEditable(); err != nil {
		return err
	}
	if label == nil {
		d.LabelID = nil
		d.LabelName = ""
	} else {
		if label.Kind != OptionKindLabel {
			return shared.NewDomainError("INVALID_LABEL", "Option is not a label")
		}
		id := label.ID
		d.LabelID = &id
		d.LabelName = label.Name
	}
	d.UpdatedAt = time.Now()
	d.IncrementVersion()
	return nil
}

// SetSource sets or clears the deal source
func (d *Deal) SetSource(source *Option) error {
	if err := d.ensureEditable(); err != nil {
		return err
	}
	if source == nil {
		d.SourceID = nil
		d.SourceName = ""
	} else {
		if source.Kind != OptionKindSource {
			return shared.NewDomainError("INVALID_SOURCE", "Option is not a source")
		}
		id := source.ID
		d.SourceID = &id
		d.SourceName = source.Name
	}
	d.UpdatedAt = time.Now()
	d.IncrementVersion()
	return nil
}

// SetClient links the deal to a client record, with optional contact
func (d *Deal) SetClient(clientID *uuid.UUID, clientName string, contactID *uuid.UUID, contactName string) error {
	if err := d.ensureEditable(); err != nil {
		return err
	}
	d.ClientID = clientID
	d.ClientName = clientName
	d.ContactID = contactID
	d.ContactName = contactName
	d.UpdatedAt = time.Now()
	d.IncrementVersion()
	return nil
}

// SetFinancials sets the deal's value, commission, and unit count
func (d *Deal) SetFinancials(value, commission decimal.Decimal, units int) error {
	if err := d.ensureEditable(); err != nil {
		return err
	}
	if value.IsNegative() {
		return shared.NewDomainError("INVALID_VALUE", "Deal value cannot be negative")
	}
	if commission.IsNegative() {
		return shared.NewDomainError("INVALID_COMMISSION", "Commission cannot be negative")
	}
	if units < 1 {
		return shared.NewDomainError("INVALID_UNITS", "Unit count must be at least 1")
	}

	d.Value = value
	d.Commission = commission
	d.Units = units
	d.UpdatedAt = time.Now()
	d.IncrementVersion()

	return nil
}

// AssignOwner assigns the deal to a user
func (d *Deal) AssignOwner(ownerID uuid.UUID, ownerName string) error {
	if err := d.ensureEditable(); err != nil {
		return err
	}
	d.OwnerID = &ownerID
	d.OwnerName = ownerName
	d.UpdatedAt = time.Now()
	d.IncrementVersion()
	return nil
}

// Win closes the deal as won
func (d *Deal) Win() error {
	if d.IsDeleted() {
		return shared.NewDomainError("DEAL_DELETED", "Deal has been deleted")
	}
	if d.Status != DealStatusOpen {
		return shared.NewDomainError("INVALID_STATE", "Only open deals can be won")
	}

	now := time.Now()
	d.Status = DealStatusWon
	d.WonAt = &now
	d.UpdatedAt = now
	d.IncrementVersion()

	d.AddDomainEvent(NewDealWonEvent(d))

	return nil
}

// Lose closes the deal as lost with an optional reason
func (d *Deal) Lose(reason string) error {
	if d.IsDeleted() {
		return shared.NewDomainError("DEAL_DELETED", "Deal has been deleted")
	}
	if d.Status != DealStatusOpen {
		return shared.NewDomainError("INVALID_STATE", "Only open deals can be lost")
	}
	if len(reason) > 1000 {
		return shared.NewDomainError("INVALID_REASON", "Loss reason cannot exceed 1000 characters")
	}

	now := time.Now()
	d.Status = DealStatusLost
	d.LostAt = &now
	d.LostReason = reason
	d.UpdatedAt = now
	d.IncrementVersion()

	d.AddDomainEvent(NewDealLostEvent(d, reason))

	return nil
}

// Reopen returns a closed deal to the open state, clearing the close fields
func (d *Deal) Reopen() error {
	if d.IsDeleted() {
		return shared.NewDomainError("DEAL_DELETED", "Deal has been deleted")
	}
	if d.Status == DealStatusOpen {
		return shared.NewDomainError("INVALID_STATE", "Deal is already open")
	}

	oldStatus := d.Status
	d.Status = DealStatusOpen
	d.WonAt = nil
	d.LostAt = nil
	d.LostReason = ""
	d.UpdatedAt = time.Now()
	d.IncrementVersion()

	d.AddDomainEvent(NewDealReopenedEvent(d, oldStatus))

	return nil
}

// SoftDelete marks the deal as deleted. It stays restorable for the
// retention window.
func (d *Deal) SoftDelete() error {
	if d.IsDeleted() {
		return shared.NewDomainError("DEAL_DELETED", "Deal is already deleted")
	}

	now := time.Now()
	d.DeletedAt = &now
	d.UpdatedAt = now
	d.IncrementVersion()

	d.AddDomainEvent(NewDealDeletedEvent(d))

	return nil
}

// Restore undoes a soft delete. Fails once the retention window has passed.
func (d *Deal) Restore() error {
	if !d.IsDeleted() {
		return shared.NewDomainError("INVALID_STATE", "Deal is not deleted")
	}
	if time.Since(*d.DeletedAt) > DeletedRetention {
		return shared.NewDomainError("RETENTION_EXPIRED", "Deal is past the restore window")
	}

	d.DeletedAt = nil
	d.UpdatedAt = time.Now()
	d.IncrementVersion()

	d.AddDomainEvent(NewDealRestoredEvent(d))

	return nil
}

// IsDeleted returns true if the deal is soft-deleted
func (d *Deal) IsDeleted() bool {
	return d.DeletedAt != nil
}

// IsOpen returns true if the deal is open
func (d *Deal) IsOpen() bool {
	return d.Status == DealStatusOpen
}

// IsClosed returns true if the deal is won or lost
func (d *Deal) IsClosed() bool {
	return d.Status == DealStatusWon || d.Status == DealStatusLost
}

func (d *Deal) ensureEditable() error {
	if d.IsDeleted() {
		return shared.NewDomainError("DEAL_DELETED", "Deal has been deleted")
	}
	if d.IsClosed() {
		return shared.NewDomainError("DEAL_CLOSED", "Closed deals cannot be modified; reopen first")
	}
	return nil
}

func validateDealName(name string) error {
	if name == "" {
		return shared.NewDomainError("INVALID_NAME", "Deal name cannot be empty")
	}
	if len(name) > 200 {
		return shared.NewDomainError("INVALID_NAME", "Deal name cannot exceed 200 characters")
	}
	return nil
}
