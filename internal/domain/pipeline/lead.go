package pipeline

import (
	"time"

	"github.com/bizhub/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Lead represents a prospective job in the sales pipeline. A lead is the
// pre-commitment record; converting it produces a Deal and removes the lead.
type Lead struct {
	shared.BaseAggregateRoot
	Name           string          `gorm:"type:varchar(200);not null"`
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
	Value          decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"` // Expected job value
	OwnerID        *uuid.UUID      `gorm:"type:uuid;index"`
	OwnerName      string          `gorm:"type:varchar(100)"`
	JobsiteAddress string          `gorm:"type:text"`
	Notes          string          `gorm:"type:text"`
}

// TableName returns the table name for GORM
func (Lead) TableName() string {
	return "leads"
}

// NewLead creates a new lead in the given stage
func NewLead(name string, stage *Option) (*Lead, error) {
	if err := validateLeadName(name); err != nil {
		return nil, err
	}
	if stage == nil || !stage.IsStage() {
		return nil, shared.NewDomainError("INVALID_STAGE", "Lead requires a pipeline stage")
	}

	lead := &Lead{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Name:              name,
		StageID:           stage.ID,
		StageName:         stage.Name,
		Value:             decimal.Zero,
	}

	lead.AddDomainEvent(NewLeadCreatedEvent(lead))

	return lead, nil
}

// Update updates the lead's basic information
func (l *Lead) Update(name, jobsiteAddress, notes string) error {
	if err := validateLeadName(name); err != nil {
		return err
	}

	l.Name = name
	l.JobsiteAddress = jobsiteAddress
	l.Notes = notes
	l.UpdatedAt = time.Now()
	l.IncrementVersion()

	return nil
}

// MoveToStage moves the lead to a different pipeline stage
func (l *Lead) MoveToStage(stage *Option) error {
	if stage == nil || !stage.IsStage() {
		return shared.NewDomainError("INVALID_STAGE", "Target must be a pipeline stage")
	}

	oldStageID := l.StageID
	l.StageID = stage.ID
	l.StageName = stage.Name
	l.UpdatedAt = time.Now()
	l.IncrementVersion()

	if oldStageID != stage.ID {
		l.AddDomainEvent(NewLeadStageChangedEvent(l, oldStageID, stage.ID))
	}

	return nil
}

// SetLabel sets or clears the temperature label
func (l *Lead) SetLabel(label *Option) error {
	if label == nil {
		l.LabelID = nil
		l.LabelName = ""
	} else {
		if label.Kind != OptionKindLabel {
			return shared.NewDomainError("INVALID_LABEL", "Option is not a label")
		}
		id := label.ID
		l.LabelID = &id
		l.LabelName = label.Name
	}
	l.UpdatedAt = time.Now()
	l.IncrementVersion()
	return nil
}

// SetSource sets or clears the lead source
func (l *Lead) SetSource(source *Option) error {
	if source == nil {
		l.SourceID = nil
		l.SourceName = ""
	} else {
		if source.Kind != OptionKindSource {
			return shared.NewDomainError("INVALID_SOURCE", "Option is not a source")
		}
		id := source.ID
		l.SourceID = &id
		l.SourceName = source.Name
	}
	l.UpdatedAt = time.Now()
	l.IncrementVersion()
	return nil
}

// SetClient links the lead to a client record, with optional contact
func (l *Lead) SetClient(clientID *uuid.UUID, clientName string, contactID *uuid.UUID, contactName string) {
	l.ClientID = clientID
	l.ClientName = clientName
	l.ContactID = contactID
	l.ContactName = contactName
	l.UpdatedAt = time.Now()
	l.IncrementVersion()
}

// SetValue sets the expected monetary value
func (l *Lead) SetValue(value decimal.Decimal) error {
	if value.IsNegative() {
		return shared.NewDomainError("INVALID_VALUE", "Lead value cannot be negative")
	}

	l.Value = value
	l.UpdatedAt = time.Now()
	l.IncrementVersion()

	return nil
}

// AssignOwner assigns the lead to a user
func (l *Lead) AssignOwner(ownerID uuid.UUID, ownerName string) {
	l.OwnerID = &ownerID
	l.OwnerName = ownerName
	l.UpdatedAt = time.Now()
	l.IncrementVersion()
}

func validateLeadName(name string) error {
	if name == "" {
		return shared.NewDomainError("INVALID_NAME", "Lead name cannot be empty")
	}
	if len(name) > 200 {
		return shared.NewDomainError("INVALID_NAME", "Lead name cannot exceed 200 characters")
	}
	return nil
}
