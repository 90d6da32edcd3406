package settings

import (
	"time"

	"github.com/bizhub/backend/internal/domain/settings"
	"github.com/google/uuid"
)

// UpdateCompanyProfileRequest represents a request to update the company profile
type UpdateCompanyProfileRequest struct {
	Name         *string `json:"name" binding:"omitempty,max=200"`
	Address      *string `json:"address" binding:"omitempty,max=500"`
	Phone        *string `json:"phone" binding:"omitempty,max=50"`
	Email        *string `json:"email" binding:"omitempty,email"`
	TaxID        *string `json:"tax_id" binding:"omitempty,max=100"`
	LogoURL      *string `json:"logo_url" binding:"omitempty,max=500"`
	BrandColor   *string `json:"brand_color" binding:"omitempty,max=7"`
	CurrencyCode *string `json:"currency_code" binding:"omitempty,len=3"`
	Version      *int    `json:"version"`
}

// CompanyProfileResponse represents the company profile in API responses
type CompanyProfileResponse struct {
	ID           uuid.UUID `json:"id"`
	Name         string    `json:"name"`
	LogoURL      string    `json:"logo_url,omitempty"`
	Address      string    `json:"address,omitempty"`
	Phone        string    `json:"phone,omitempty"`
	Email        string    `json:"email,omitempty"`
	TaxID        string    `json:"tax_id,omitempty"`
	BrandColor   string    `json:"brand_color"`
	CurrencyCode string    `json:"currency_code"`
	Version      int       `json:"version"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// ToCompanyProfileResponse converts the profile aggregate to a response DTO
func ToCompanyProfileResponse(p *settings.CompanyProfile) CompanyProfileResponse {
	return CompanyProfileResponse{
		ID:           p.ID,
		Name:         p.Name,
		LogoURL:      p.LogoURL,
		Address:      p.Address,
		Phone:        p.Phone,
		Email:        p.Email,
		TaxID:        p.TaxID,
		BrandColor:   p.BrandColor,
		CurrencyCode: p.CurrencyCode,
		Version:      p.Version,
		UpdatedAt:    p.UpdatedAt,
	}
}
