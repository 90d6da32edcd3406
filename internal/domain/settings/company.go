package settings

import (
	"net/url"
	"regexp"
	"strings"
	"time"

	"github.com/bizhub/backend/internal/domain/shared"
)

// CompanyProfile holds the install-wide company branding and identity
// settings. Exactly one record exists; the repository enforces the
// singleton on save.
type CompanyProfile struct {
	shared.BaseAggregateRoot
	Name         string `gorm:"type:varchar(200);not null"`
	LogoURL      string `gorm:"type:varchar(500)"`
	Address      string `gorm:"type:varchar(500)"`
	Phone        string `gorm:"type:varchar(50)"`
	Email        string `gorm:"type:varchar(200)"`
	TaxID        string `gorm:"type:varchar(100)"`
	BrandColor   string `gorm:"type:varchar(7);not null;default:'#2563eb'"`
	CurrencyCode string `gorm:"type:varchar(3);not null;default:'USD'"`
}

// TableName returns the table name for GORM
func (CompanyProfile) TableName() string {
	return "company_profile"
}

// DefaultBrandColor is applied when no color has been chosen
const DefaultBrandColor = "#2563eb"

// NewCompanyProfile creates the company profile with defaults
func NewCompanyProfile(name string) (*CompanyProfile, error) {
	if err := validateCompanyName(name); err != nil {
		return nil, err
	}

	return &CompanyProfile{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Name:              strings.TrimSpace(name),
		BrandColor:        DefaultBrandColor,
		CurrencyCode:      "USD",
	}, nil
}

// Update updates the company identity fields
func (c *CompanyProfile) Update(name, address, phone, email, taxID string) error {
	if err := validateCompanyName(name); err != nil {
		return err
	}
	if email != "" && !emailRegex.MatchString(email) {
		return shared.NewDomainError("INVALID_EMAIL", "Invalid email format")
	}
	if len(address) > 500 {
		return shared.NewDomainError("INVALID_ADDRESS", "Address cannot exceed 500 characters")
	}

	c.Name = strings.TrimSpace(name)
	c.Address = strings.TrimSpace(address)
	c.Phone = strings.TrimSpace(phone)
	c.Email = strings.ToLower(strings.TrimSpace(email))
	c.TaxID = strings.TrimSpace(taxID)
	c.UpdatedAt = time.Now()
	c.IncrementVersion()

	return nil
}

// SetLogoURL sets the logo location. Empty clears the logo.
func (c *CompanyProfile) SetLogoURL(logoURL string) error {
	logoURL = strings.TrimSpace(logoURL)
	if logoURL != "" {
		if len(logoURL) > 500 {
			return shared.NewDomainError("INVALID_LOGO_URL", "Logo URL cannot exceed 500 characters")
		}
		parsed, err := url.Parse(logoURL)
		if err != nil || (parsed.Scheme != "http" && parsed.Scheme != "https") {
			return shared.NewDomainError("INVALID_LOGO_URL", "Logo URL must be a valid http(s) URL")
		}
	}

	c.LogoURL = logoURL
	c.UpdatedAt = time.Now()
	c.IncrementVersion()

	return nil
}

// SetBrandColor sets the accent color used across documents and the UI
func (c *CompanyProfile) SetBrandColor(color string) error {
	color = strings.ToLower(strings.TrimSpace(color))
	if !brandColorRegex.MatchString(color) {
		return shared.NewDomainError("INVALID_BRAND_COLOR", "Brand color must be a hex color like #2563eb")
	}

	c.BrandColor = color
	c.UpdatedAt = time.Now()
	c.IncrementVersion()

	return nil
}

// SetCurrencyCode sets the ISO 4217 currency code used for money display
func (c *CompanyProfile) SetCurrencyCode(code string) error {
	code = strings.ToUpper(strings.TrimSpace(code))
	if !currencyCodeRegex.MatchString(code) {
		return shared.NewDomainError("INVALID_CURRENCY_CODE", "Currency code must be a 3-letter ISO 4217 code")
	}

	c.CurrencyCode = code
	c.UpdatedAt = time.Now()
	c.IncrementVersion()

	return nil
}

// Validation

var (
	emailRegex        = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)
	brandColorRegex   = regexp.MustCompile(`^#[0-9a-f]{6}$`)
	currencyCodeRegex = regexp.MustCompile(`^[A-Z]{3}$`)
)

func validateCompanyName(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return shared.NewDomainError("INVALID_COMPANY_NAME", "Company name cannot be empty")
	}
	if len(name) > 200 {
		return shared.NewDomainError("INVALID_COMPANY_NAME", "Company name cannot exceed 200 characters")
	}
	return nil
}
