package pipeline

import (
	"github.com/bizhub/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Aggregate type constants
const (
	AggregateTypeLead   = "Lead"
	AggregateTypeDeal   = "Deal"
	AggregateTypeOption = "PipelineOption"
)

// Event type constants
const (
	EventTypeLeadCreated      = "LeadCreated"
	EventTypeLeadStageChanged = "LeadStageChanged"
	EventTypeLeadDeleted      = "LeadDeleted"
	EventTypeDealCreated      = "DealCreated"
	EventTypeDealConverted    = "DealConverted"
	EventTypeDealStageChanged = "DealStageChanged"
	EventTypeDealWon          = "DealWon"
	EventTypeDealLost         = "DealLost"
	EventTypeDealReopened     = "DealReopened"
	EventTypeDealDeleted      = "DealDeleted"
	EventTypeDealRestored     = "DealRestored"
	EventTypeOptionCreated    = "PipelineOptionCreated"
	EventTypeOptionRenamed    = "PipelineOptionRenamed"
	EventTypeOptionDeleted    = "PipelineOptionDeleted"
)

// LeadCreatedEvent is published when a new lead enters the pipeline
type LeadCreatedEvent struct {
	shared.BaseDomainEvent
	LeadID  uuid.UUID `json:"lead_id"`
	Name    string    `json:"name"`
	StageID uuid.UUID `json:"stage_id"`
}

// NewLeadCreatedEvent creates a new LeadCreatedEvent
func NewLeadCreatedEvent(lead *Lead) *LeadCreatedEvent {
	return &LeadCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeLeadCreated, AggregateTypeLead, lead.ID),
		LeadID:          lead.ID,
		Name:            lead.Name,
		StageID:         lead.StageID,
	}
}

// LeadStageChangedEvent is published when a lead moves between stages
type LeadStageChangedEvent struct {
	shared.BaseDomainEvent
	LeadID     uuid.UUID `json:"lead_id"`
	OldStageID uuid.UUID `json:"old_stage_id"`
	NewStageID uuid.UUID `json:"new_stage_id"`
}

// NewLeadStageChangedEvent creates a new LeadStageChangedEvent
func NewLeadStageChangedEvent(lead *Lead, oldStageID, newStageID uuid.UUID) *LeadStageChangedEvent {
	return &LeadStageChangedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeLeadStageChanged, AggregateTypeLead, lead.ID),
		LeadID:          lead.ID,
		OldStageID:      oldStageID,
		NewStageID:      newStageID,
	}
}

// DealCreatedEvent is published when a deal is created directly
type DealCreatedEvent struct {
	shared.BaseDomainEvent
	DealID  uuid.UUID `json:"deal_id"`
	Name    string    `json:"name"`
	StageID uuid.UUID `json:"stage_id"`
}

// NewDealCreatedEvent creates a new DealCreatedEvent
func NewDealCreatedEvent(deal *Deal) *DealCreatedEvent {
	return &DealCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeDealCreated, AggregateTypeDeal, deal.ID),
		DealID:          deal.ID,
		Name:            deal.Name,
		StageID:         deal.StageID,
	}
}

// DealConvertedEvent is published when a lead is converted into a deal
type DealConvertedEvent struct {
	shared.BaseDomainEvent
	DealID uuid.UUID `json:"deal_id"`
	LeadID uuid.UUID `json:"lead_id"`
	Name   string    `json:"name"`
}

// NewDealConvertedEvent creates a new DealConvertedEvent
func NewDealConvertedEvent(deal *Deal, leadID uuid.UUID) *DealConvertedEvent {
	return &DealConvertedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeDealConverted, AggregateTypeDeal, deal.ID),
		DealID:          deal.ID,
		LeadID:          leadID,
		Name:            deal.Name,
	}
}

// DealStageChangedEvent is published when a deal moves between stages
type DealStageChangedEvent struct {
	shared.BaseDomainEvent
	DealID     uuid.UUID `json:"deal_id"`
	OldStageID uuid.UUID `json:"old_stage_id"`
	NewStageID uuid.UUID `json:"new_stage_id"`
}

// NewDealStageChangedEvent creates a new DealStageChangedEvent
func NewDealStageChangedEvent(deal *Deal, oldStageID, newStageID uuid.UUID) *DealStageChangedEvent {
	return &DealStageChangedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeDealStageChanged, AggregateTypeDeal, deal.ID),
		DealID:          deal.ID,
		OldStageID:      oldStageID,
		NewStageID:      newStageID,
	}
}

// DealWonEvent is published when a deal closes as won
type DealWonEvent struct {
	shared.BaseDomainEvent
	DealID uuid.UUID       `json:"deal_id"`
	Name   string          `json:"name"`
	Value  decimal.Decimal `json:"value"`
}

// NewDealWonEvent creates a new DealWonEvent
func NewDealWonEvent(deal *Deal) *DealWonEvent {
	return &DealWonEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeDealWon, AggregateTypeDeal, deal.ID),
		DealID:          deal.ID,
		Name:            deal.Name,
		Value:           deal.Value,
	}
}

// DealLostEvent is published when a deal closes as lost
type DealLostEvent struct {
	shared.BaseDomainEvent
	DealID uuid.UUID `json:"deal_id"`
	Name   string    `json:"name"`
	Reason string    `json:"reason,omitempty"`
}

// NewDealLostEvent creates a new DealLostEvent
func NewDealLostEvent(deal *Deal, reason string) *DealLostEvent {
	return &DealLostEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeDealLost, AggregateTypeDeal, deal.ID),
		DealID:          deal.ID,
		Name:            deal.Name,
		Reason:          reason,
	}
}

// DealReopenedEvent is published when a closed deal is reopened
type DealReopenedEvent struct {
	shared.BaseDomainEvent
	DealID    uuid.UUID  `json:"deal_id"`
	OldStatus DealStatus `json:"old_status"`
}

// NewDealReopenedEvent creates a new DealReopenedEvent
func NewDealReopenedEvent(deal *Deal, oldStatus DealStatus) *DealReopenedEvent {
	return &DealReopenedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeDealReopened, AggregateTypeDeal, deal.ID),
		DealID:          deal.ID,
		OldStatus:       oldStatus,
	}
}

// DealDeletedEvent is published when a deal is soft-deleted
type DealDeletedEvent struct {
	shared.BaseDomainEvent
	DealID uuid.UUID `json:"deal_id"`
	Name   string    `json:"name"`
}

// NewDealDeletedEvent creates a new DealDeletedEvent
func NewDealDeletedEvent(deal *Deal) *DealDeletedEvent {
	return &DealDeletedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeDealDeleted, AggregateTypeDeal, deal.ID),
		DealID:          deal.ID,
		Name:            deal.Name,
	}
}

// DealRestoredEvent is published when a soft-deleted deal is restored
type DealRestoredEvent struct {
	shared.BaseDomainEvent
	DealID uuid.UUID `json:"deal_id"`
	Name   string    `json:"name"`
}

// NewDealRestoredEvent creates a new DealRestoredEvent
func NewDealRestoredEvent(deal *Deal) *DealRestoredEvent {
	return &DealRestoredEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeDealRestored, AggregateTypeDeal, deal.ID),
		DealID:          deal.ID,
		Name:            deal.Name,
	}
}

// OptionCreatedEvent is published when a vocabulary option is created
type OptionCreatedEvent struct {
	shared.BaseDomainEvent
	OptionID uuid.UUID  `json:"option_id"`
	Kind     OptionKind `json:"kind"`
	Name     string     `json:"name"`
}

// NewOptionCreatedEvent creates a new OptionCreatedEvent
func NewOptionCreatedEvent(option *Option) *OptionCreatedEvent {
	return &OptionCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeOptionCreated, AggregateTypeOption, option.ID),
		OptionID:        option.ID,
		Kind:            option.Kind,
		Name:            option.Name,
	}
}

// OptionRenamedEvent is published when a vocabulary option is renamed.
// The denormalized name on referencing leads and deals is cascaded in
// the same transaction as the rename itself.
type OptionRenamedEvent struct {
	shared.BaseDomainEvent
	OptionID uuid.UUID  `json:"option_id"`
	Kind     OptionKind `json:"kind"`
	OldName  string     `json:"old_name"`
	NewName  string     `json:"new_name"`
}

// NewOptionRenamedEvent creates a new OptionRenamedEvent
func NewOptionRenamedEvent(option *Option, oldName string) *OptionRenamedEvent {
	return &OptionRenamedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeOptionRenamed, AggregateTypeOption, option.ID),
		OptionID:        option.ID,
		Kind:            option.Kind,
		OldName:         oldName,
		NewName:         option.Name,
	}
}

// OptionDeletedEvent is published when a vocabulary option is deleted
type OptionDeletedEvent struct {
	shared.BaseDomainEvent
	OptionID uuid.UUID  `json:"option_id"`
	Kind     OptionKind `json:"kind"`
	Name     string     `json:"name"`
}

// NewOptionDeletedEvent creates a new OptionDeletedEvent
func NewOptionDeletedEvent(option *Option) *OptionDeletedEvent {
	return &OptionDeletedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeOptionDeleted, AggregateTypeOption, option.ID),
		OptionID:        option.ID,
		Kind:            option.Kind,
		Name:            option.Name,
	}
}
