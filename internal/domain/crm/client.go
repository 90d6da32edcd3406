package crm

import (
	"regexp"
	"strings"
	"time"

	"github.com/bizhub/backend/internal/domain/shared"
)

// ClientType represents the kind of client record
type ClientType string

const (
	ClientTypeCompany ClientType = "company"
	ClientTypePerson  ClientType = "person"
)

// ClientStatus represents the status of a client record
type ClientStatus string

const (
	ClientStatusActive   ClientStatus = "active"
	ClientStatusArchived ClientStatus = "archived"
)

// Client represents a customer record in the CRM context.
// It is the aggregate root for client-related operations.
type Client struct {
	shared.BaseAggregateRoot
	Name       string       `gorm:"type:varchar(200);not null;index"`
	Type       ClientType   `gorm:"type:varchar(20);not null;default:'company'"`
	Status     ClientStatus `gorm:"type:varchar(20);not null;default:'active';index"`
	Email      string       `gorm:"type:varchar(200);index"`
	Phone      string       `gorm:"type:varchar(50)"`
	Address    string       `gorm:"type:text"`
	City       string       `gorm:"type:varchar(100)"`
	State      string       `gorm:"type:varchar(100)"`
	PostalCode string       `gorm:"type:varchar(20)"`
	Country    string       `gorm:"type:varchar(100)"`
	Website    string       `gorm:"type:varchar(200)"`
	TaxID      string       `gorm:"type:varchar(50)"`
	Notes      string       `gorm:"type:text"`
}

// TableName returns the table name for GORM
func (Client) TableName() string {
	return "clients"
}

// NewClient creates a new active client record
func NewClient(name string, clientType ClientType) (*Client, error) {
	if err := validateClientName(name); err != nil {
		return nil, err
	}
	if err := validateClientType(clientType); err != nil {
		return nil, err
	}

	client := &Client{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Name:              name,
		Type:              clientType,
		Status:            ClientStatusActive,
	}

	return client, nil
}

// Update updates the client's basic information
func (c *Client) Update(name string, clientType ClientType, website, taxID, notes string) error {
	if err := validateClientName(name); err != nil {
		return err
	}
	if err := validateClientType(clientType); err != nil {
		return err
	}
	if website != "" && len(website) > 200 {
		return shared.NewDomainError("INVALID_WEBSITE", "Website cannot exceed 200 characters")
	}
	if taxID != "" && len(taxID) > 50 {
		return shared.NewDomainError("INVALID_TAX_ID", "Tax ID cannot exceed 50 characters")
	}

	c.Name = name
	c.Type = clientType
	c.Website = website
	c.TaxID = taxID
	c.Notes = notes
	c.UpdatedAt = time.Now()
	c.IncrementVersion()

	return nil
}

// SetContactInfo sets the client's contact details
func (c *Client) SetContactInfo(email, phone string) error {
	if email != "" {
		if err := validateEmail(email); err != nil {
			return err
		}
	}
	if phone != "" {
		if err := validatePhone(phone); err != nil {
			return err
		}
	}

	c.Email = email
	c.Phone = phone
	c.UpdatedAt = time.Now()
	c.IncrementVersion()

	return nil
}

// SetAddress sets the client's address
func (c *Client) SetAddress(address, city, state, postalCode, country string) error {
	if address != "" && len(address) > 500 {
		return shared.NewDomainError("INVALID_ADDRESS", "Address cannot exceed 500 characters")
	}
	if city != "" && len(city) > 100 {
		return shared.NewDomainError("INVALID_CITY", "City cannot exceed 100 characters")
	}
	if state != "" && len(state) > 100 {
		return shared.NewDomainError("INVALID_STATE", "State cannot exceed 100 characters")
	}
	if postalCode != "" && len(postalCode) > 20 {
		return shared.NewDomainError("INVALID_POSTAL_CODE", "Postal code cannot exceed 20 characters")
	}
	if country != "" && len(country) > 100 {
		return shared.NewDomainError("INVALID_COUNTRY", "Country cannot exceed 100 characters")
	}

	c.Address = address
	c.City = city
	c.State = state
	c.PostalCode = postalCode
	c.Country = country
	c.UpdatedAt = time.Now()
	c.IncrementVersion()

	return nil
}

// Archive moves the client to the archived state
func (c *Client) Archive() error {
	if c.Status == ClientStatusArchived {
		return shared.NewDomainError("ALREADY_ARCHIVED", "Client is already archived")
	}

	c.Status = ClientStatusArchived
	c.UpdatedAt = time.Now()
	c.IncrementVersion()

	return nil
}

// Unarchive returns the client to the active state
func (c *Client) Unarchive() error {
	if c.Status == ClientStatusActive {
		return shared.NewDomainError("ALREADY_ACTIVE", "Client is already active")
	}

	c.Status = ClientStatusActive
	c.UpdatedAt = time.Now()
	c.IncrementVersion()

	return nil
}

// IsActive returns true if the client is active
func (c *Client) IsActive() bool {
	return c.Status == ClientStatusActive
}

// GetFullAddress returns the formatted full address
func (c *Client) GetFullAddress() string {
	parts := []string{}
	if c.Address != "" {
		parts = append(parts, c.Address)
	}
	if c.City != "" {
		parts = append(parts, c.City)
	}
	if c.State != "" {
		parts = append(parts, c.State)
	}
	if c.PostalCode != "" {
		parts = append(parts, c.PostalCode)
	}
	if c.Country != "" {
		parts = append(parts, c.Country)
	}
	return strings.Join(parts, ", ")
}

// Validation functions

func validateClientName(name string) error {
	if name == "" {
		return shared.NewDomainError("INVALID_NAME", "Client name cannot be empty")
	}
	if len(name) > 200 {
		return shared.NewDomainError("INVALID_NAME", "Client name cannot exceed 200 characters")
	}
	return nil
}

func validateClientType(t ClientType) error {
	switch t {
	case ClientTypeCompany, ClientTypePerson:
		return nil
	default:
		return shared.NewDomainError("INVALID_TYPE", "Client type must be 'company' or 'person'")
	}
}

func validatePhone(phone string) error {
	if len(phone) > 50 {
		return shared.NewDomainError("INVALID_PHONE", "Phone number cannot exceed 50 characters")
	}
	validPhone := regexp.MustCompile(`^[\d\s\-\(\)\+\.]+$`)
	if !validPhone.MatchString(phone) {
		return shared.NewDomainError("INVALID_PHONE", "Invalid phone number format")
	}
	return nil
}

func validateEmail(email string) error {
	if len(email) > 200 {
		return shared.NewDomainError("INVALID_EMAIL", "Email cannot exceed 200 characters")
	}
	emailRegex := regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)
	if !emailRegex.MatchString(email) {
		return shared.NewDomainError("INVALID_EMAIL", "Invalid email format")
	}
	return nil
}
