package pipeline

import (
	"time"

	"github.com/bizhub/backend/internal/domain/pipeline"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// =============================================================================
// Option DTOs
// =============================================================================

// CreateOptionRequest represents a request to create a vocabulary option
type CreateOptionRequest struct {
	Name      string `json:"name" binding:"required,min=1,max=100"`
	Color     string `json:"color" binding:"max=20"`
	SortOrder int    `json:"sort_order"`
}

// UpdateOptionRequest represents a request to update a vocabulary option
type UpdateOptionRequest struct {
	Name      *string `json:"name" binding:"omitempty,min=1,max=100"`
	Color     *string `json:"color" binding:"omitempty,max=20"`
	SortOrder *int    `json:"sort_order"`
}

// OptionResponse represents a vocabulary option in API responses
type OptionResponse struct {
	ID        uuid.UUID `json:"id"`
	Kind      string    `json:"kind"`
	Name      string    `json:"name"`
	Color     string    `json:"color"`
	SortOrder int       `json:"sort_order"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	Version   int       `json:"version"`
}

// ToOptionResponse converts a domain Option to an OptionResponse
func ToOptionResponse(option *pipeline.Option) OptionResponse {
	return OptionResponse{
		ID:        option.ID,
		Kind:      string(option.Kind),
		Name:      option.Name,
		Color:     option.Color,
		SortOrder: option.SortOrder,
		CreatedAt: option.CreatedAt,
		UpdatedAt: option.UpdatedAt,
		Version:   option.Version,
	}
}

// ToOptionResponses converts domain Options to responses
func ToOptionResponses(options []pipeline.Option) []OptionResponse {
	responses := make([]OptionResponse, len(options))
	for i := range options {
		responses[i] = ToOptionResponse(&options[i])
	}
	return responses
}

// =============================================================================
// Lead DTOs
// =============================================================================

// CreateLeadRequest represents a request to create a lead
type CreateLeadRequest struct {
	Name           string           `json:"name" binding:"required,min=1,max=200"`
	StageID        uuid.UUID        `json:"stage_id" binding:"required"`
	ClientID       *uuid.UUID       `json:"client_id"`
	ContactID      *uuid.UUID       `json:"contact_id"`
	LabelID        *uuid.UUID       `json:"label_id"`
	SourceID       *uuid.UUID       `json:"source_id"`
	Value          *decimal.Decimal `json:"value"`
	OwnerID        *uuid.UUID       `json:"owner_id"`
	JobsiteAddress string           `json:"jobsite_address" binding:"max=500"`
	Notes          string           `json:"notes"`
	CreatedBy      *uuid.UUID       `json:"-"` // Set from JWT context, not from request body
}

// UpdateLeadRequest represents a request to update a lead
type UpdateLeadRequest struct {
	Name           *string          `json:"name" binding:"omitempty,min=1,max=200"`
	StageID        *uuid.UUID       `json:"stage_id"`
	ClientID       *uuid.UUID       `json:"client_id"`
	ContactID      *uuid.UUID       `json:"contact_id"`
	LabelID        *uuid.UUID       `json:"label_id"`
	SourceID       *uuid.UUID       `json:"source_id"`
	ClearLabel     bool             `json:"clear_label"`
	ClearSource    bool             `json:"clear_source"`
	ClearClient    bool             `json:"clear_client"`
	Value          *decimal.Decimal `json:"value"`
	OwnerID        *uuid.UUID       `json:"owner_id"`
	JobsiteAddress *string          `json:"jobsite_address" binding:"omitempty,max=500"`
	Notes          *string          `json:"notes"`
	Version        *int             `json:"version"`
}

// LeadResponse represents a lead in API responses
type LeadResponse struct {
	ID             uuid.UUID       `json:"id"`
	Name           string          `json:"name"`
	ClientID       *uuid.UUID      `json:"client_id,omitempty"`
	ClientName     string          `json:"client_name"`
	ContactID      *uuid.UUID      `json:"contact_id,omitempty"`
	ContactName    string          `json:"contact_name"`
	StageID        uuid.UUID       `json:"stage_id"`
	StageName      string          `json:"stage_name"`
	LabelID        *uuid.UUID      `json:"label_id,omitempty"`
	LabelName      string          `json:"label_name"`
	SourceID       *uuid.UUID      `json:"source_id,omitempty"`
	SourceName     string          `json:"source_name"`
	Value          decimal.Decimal `json:"value"`
	OwnerID        *uuid.UUID      `json:"owner_id,omitempty"`
	OwnerName      string          `json:"owner_name"`
	JobsiteAddress string          `json:"jobsite_address"`
	Notes          string          `json:"notes"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
	Version        int             `json:"version"`
}

// LeadListFilter represents filter options for the lead list
type LeadListFilter struct {
	Search   string     `form:"search"`
	StageID  *uuid.UUID `form:"stage_id"`
	LabelID  *uuid.UUID `form:"label_id"`
	SourceID *uuid.UUID `form:"source_id"`
	OwnerID  *uuid.UUID `form:"owner_id"`
	Page     int        `form:"page" binding:"omitempty,min=1"`
	PageSize int        `form:"page_size" binding:"omitempty,min=1,max=100"`
	OrderBy  string     `form:"order_by"`
	OrderDir string     `form:"order_dir" binding:"omitempty,oneof=asc desc"`
}

// ToLeadResponse converts a domain Lead to a LeadResponse
func ToLeadResponse(lead *pipeline.Lead) LeadResponse {
	return LeadResponse{
		ID:             lead.ID,
		Name:           lead.Name,
		ClientID:       lead.ClientID,
		ClientName:     lead.ClientName,
		ContactID:      lead.ContactID,
		ContactName:    lead.ContactName,
		StageID:        lead.StageID,
		StageName:      lead.StageName,
		LabelID:        lead.LabelID,
		LabelName:      lead.LabelName,
		SourceID:       lead.SourceID,
		SourceName:     lead.SourceName,
		Value:          lead.Value,
		OwnerID:        lead.OwnerID,
		OwnerName:      lead.OwnerName,
		JobsiteAddress: lead.JobsiteAddress,
		Notes:          lead.Notes,
		CreatedAt:      lead.CreatedAt,
		UpdatedAt:      lead.UpdatedAt,
		Version:        lead.Version,
	}
}

// ToLeadResponses converts domain Leads to responses
func ToLeadResponses(leads []pipeline.Lead) []LeadResponse {
	responses := make([]LeadResponse, len(leads))
	for i := range leads {
		responses[i] = ToLeadResponse(&leads[i])
	}
	return responses
}

// =============================================================================
// Deal DTOs
// =============================================================================

// CreateDealRequest represents a request to create a deal directly
type CreateDealRequest struct {
	Name           string           `json:"name" binding:"required,min=1,max=200"`
	StageID        uuid.UUID        `json:"stage_id" binding:"required"`
	ClientID       *uuid.UUID       `json:"client_id"`
	ContactID      *uuid.UUID       `json:"contact_id"`
	LabelID        *uuid.UUID       `json:"label_id"`
	SourceID       *uuid.UUID       `json:"source_id"`
	Value          *decimal.Decimal `json:"value"`
	Commission     *decimal.Decimal `json:"commission"`
	Units          *int             `json:"units" binding:"omitempty,min=1"`
	OwnerID        *uuid.UUID       `json:"owner_id"`
	JobsiteAddress string           `json:"jobsite_address" binding:"max=500"`
	Notes          string           `json:"notes"`
	CreatedBy      *uuid.UUID       `json:"-"` // Set from JWT context, not from request body
}

// UpdateDealRequest represents a request to update a deal
type UpdateDealRequest struct {
	Name           *string          `json:"name" binding:"omitempty,min=1,max=200"`
	StageID        *uuid.UUID       `json:"stage_id"`
	ClientID       *uuid.UUID       `json:"client_id"`
	ContactID      *uuid.UUID       `json:"contact_id"`
	LabelID        *uuid.UUID       `json:"label_id"`
	SourceID       *uuid.UUID       `json:"source_id"`
	ClearLabel     bool             `json:"clear_label"`
	ClearSource    bool             `json:"clear_source"`
	ClearClient    bool             `json:"clear_client"`
	Value          *decimal.Decimal `json:"value"`
	Commission     *decimal.Decimal `json:"commission"`
	Units          *int             `json:"units" binding:"omitempty,min=1"`
	OwnerID        *uuid.UUID       `json:"owner_id"`
	JobsiteAddress *string          `json:"jobsite_address" binding:"omitempty,max=500"`
	Notes          *string          `json:"notes"`
	Version        *int             `json:"version"`
}

// LoseDealRequest carries the optional loss reason
type LoseDealRequest struct {
	Reason string `json:"reason" binding:"max=1000"`
}

// DealResponse represents a deal in API responses
type DealResponse struct {
	ID             uuid.UUID       `json:"id"`
	Name           string          `json:"name"`
	Status         string          `json:"status"`
	ClientID       *uuid.UUID      `json:"client_id,omitempty"`
	ClientName     string          `json:"client_name"`
	ContactID      *uuid.UUID      `json:"contact_id,omitempty"`
	ContactName    string          `json:"contact_name"`
	StageID        uuid.UUID       `json:"stage_id"`
	StageName      string          `json:"stage_name"`
	LabelID        *uuid.UUID      `json:"label_id,omitempty"`
	LabelName      string          `json:"label_name"`
	SourceID       *uuid.UUID      `json:"source_id,omitempty"`
	SourceName     string          `json:"source_name"`
	Value          decimal.Decimal `json:"value"`
	Commission     decimal.Decimal `json:"commission"`
	Units          int             `json:"units"`
	OwnerID        *uuid.UUID      `json:"owner_id,omitempty"`
	OwnerName      string          `json:"owner_name"`
	JobsiteAddress string          `json:"jobsite_address"`
	Notes          string          `json:"notes"`
	LeadID         *uuid.UUID      `json:"lead_id,omitempty"`
	WonAt          *time.Time      `json:"won_at,omitempty"`
	LostAt         *time.Time      `json:"lost_at,omitempty"`
	LostReason     string          `json:"lost_reason,omitempty"`
	DeletedAt      *time.Time      `json:"deleted_at,omitempty"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
	Version        int             `json:"version"`
}

// DealListFilter represents filter options for the deal list
type DealListFilter struct {
	Search         string     `form:"search"`
	Status         string     `form:"status" binding:"omitempty,oneof=open won lost"`
	StageID        *uuid.UUID `form:"stage_id"`
	LabelID        *uuid.UUID `form:"label_id"`
	SourceID       *uuid.UUID `form:"source_id"`
	OwnerID        *uuid.UUID `form:"owner_id"`
	IncludeDeleted bool       `form:"include_deleted"`
	Page           int        `form:"page" binding:"omitempty,min=1"`
	PageSize       int        `form:"page_size" binding:"omitempty,min=1,max=100"`
	OrderBy        string     `form:"order_by"`
	OrderDir       string     `form:"order_dir" binding:"omitempty,oneof=asc desc"`
}

// ToDealResponse converts a domain Deal to a DealResponse
func ToDealResponse(deal *pipeline.Deal) DealResponse {
	return DealResponse{
		ID:             deal.ID,
		Name:           deal.Name,
		Status:         string(deal.Status),
		ClientID:       deal.ClientID,
		ClientName:     deal.ClientName,
		ContactID:      deal.ContactID,
		ContactName:    deal.ContactName,
		StageID:        deal.StageID,
		StageName:      deal.StageName,
		LabelID:        deal.LabelID,
		LabelName:      deal.LabelName,
		SourceID:       deal.SourceID,
		SourceName:     deal.SourceName,
		Value:          deal.Value,
		Commission:     deal.Commission,
		Units:          deal.Units,
		OwnerID:        deal.OwnerID,
		OwnerName:      deal.OwnerName,
		JobsiteAddress: deal.JobsiteAddress,
		Notes:          deal.Notes,
		LeadID:         deal.LeadID,
		WonAt:          deal.WonAt,
		LostAt:         deal.LostAt,
		LostReason:     deal.LostReason,
		DeletedAt:      deal.DeletedAt,
		CreatedAt:      deal.CreatedAt,
		UpdatedAt:      deal.UpdatedAt,
		Version:        deal.Version,
	}
}

// ToDealResponses converts domain Deals to responses
func ToDealResponses(deals []pipeline.Deal) []DealResponse {
	responses := make([]DealResponse, len(deals))
	for i := range deals {
		responses[i] = ToDealResponse(&deals[i])
	}
	return responses
}
