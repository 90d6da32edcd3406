package dashboard

import (
	"time"

	"github.com/google/uuid"
)

// SummaryResponse is the aggregated dashboard overview
type SummaryResponse struct {
	ActiveClients    int64     `json:"active_clients"`
	ArchivedClients  int64     `json:"archived_clients"`
	ActiveProjects   int64     `json:"active_projects"`
	Leads            int64     `json:"leads"`
	OpenDeals        int64     `json:"open_deals"`
	WonDeals         int64     `json:"won_deals"`
	LostDeals        int64     `json:"lost_deals"`
	OpenDealValue    string    `json:"open_deal_value"`
	WonDealValue     string    `json:"won_deal_value"`
	OutstandingTotal string    `json:"outstanding_total"`
	CurrencyCode     string    `json:"currency_code"`
	GeneratedAt      time.Time `json:"generated_at"`
}

// PipelineStageSummary is the per-stage slice of the pipeline view
type PipelineStageSummary struct {
	StageID   uuid.UUID `json:"stage_id"`
	Name      string    `json:"name"`
	Color     string    `json:"color,omitempty"`
	SortOrder int       `json:"sort_order"`
	LeadCount int64     `json:"lead_count"`
	DealCount int64     `json:"deal_count"`
}

// PipelineResponse is the stage-by-stage pipeline breakdown
type PipelineResponse struct {
	Stages        []PipelineStageSummary `json:"stages"`
	OpenDealValue string                 `json:"open_deal_value"`
	CurrencyCode  string                 `json:"currency_code"`
	GeneratedAt   time.Time              `json:"generated_at"`
}

// RevenueMonth is one month of the revenue report
type RevenueMonth struct {
	Month        string `json:"month"` // YYYY-MM
	PaymentsIn   string `json:"payments_in"`
	WonDeals     int64  `json:"won_deals"`
	WonDealValue string `json:"won_deal_value"`
}

// RevenueResponse is the trailing monthly revenue report
type RevenueResponse struct {
	Months       []RevenueMonth `json:"months"`
	CurrencyCode string         `json:"currency_code"`
	GeneratedAt  time.Time      `json:"generated_at"`
}
