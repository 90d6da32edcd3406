package crm

import (
	"time"

	"github.com/bizhub/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// Contact represents a person attached to a client record
type Contact struct {
	shared.BaseAggregateRoot
	ClientID  uuid.UUID `gorm:"type:uuid;not null;index"`
	FirstName string    `gorm:"type:varchar(100);not null"`
	LastName  string    `gorm:"type:varchar(100)"`
	Title     string    `gorm:"type:varchar(100)"` // Job title
	Email     string    `gorm:"type:varchar(200);index"`
	Phone     string    `gorm:"type:varchar(50)"`
	IsPrimary bool      `gorm:"not null;default:false"`
	Notes     string    `gorm:"type:text"`
}

// TableName returns the table name for GORM
func (Contact) TableName() string {
	return "contacts"
}

// NewContact creates a new contact under a client
func NewContact(clientID uuid.UUID, firstName, lastName string) (*Contact, error) {
	if err := validateContactName(firstName); err != nil {
		return nil, err
	}
	if lastName != "" && len(lastName) > 100 {
		return nil, shared.NewDomainError("INVALID_NAME", "Last name cannot exceed 100 characters")
	}
	if clientID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_CLIENT", "Contact requires a client")
	}

	contact := &Contact{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		ClientID:          clientID,
		FirstName:         firstName,
		LastName:          lastName,
	}

	return contact, nil
}

// Update updates the contact's information
func (c *Contact) Update(firstName, lastName, title string) error {
	if err := validateContactName(firstName); err != nil {
		return err
	}
	if lastName != "" && len(lastName) > 100 {
		return shared.NewDomainError("INVALID_NAME", "Last name cannot exceed 100 characters")
	}
	if title != "" && len(title) > 100 {
		return shared.NewDomainError("INVALID_TITLE", "Title cannot exceed 100 characters")
	}

	c.FirstName = firstName
	c.LastName = lastName
	c.Title = title
	c.UpdatedAt = time.Now()
	c.IncrementVersion()

	return nil
}

// SetContactInfo sets the contact's email and phone
func (c *Contact) SetContactInfo(email, phone string) error {
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

// MarkPrimary marks this contact as the client's primary contact
func (c *Contact) MarkPrimary() {
	c.IsPrimary = true
	c.UpdatedAt = time.Now()
	c.IncrementVersion()
}

// UnmarkPrimary clears the primary flag
func (c *Contact) UnmarkPrimary() {
	c.IsPrimary = false
	c.UpdatedAt = time.Now()
	c.IncrementVersion()
}

// FullName returns the contact's full display name
func (c *Contact) FullName() string {
	if c.LastName == "" {
		return c.FirstName
	}
	return c.FirstName + " " + c.LastName
}

func validateContactName(firstName string) error {
	if firstName == "" {
		return shared.NewDomainError("INVALID_NAME", "First name cannot be empty")
	}
	if len(firstName) > 100 {
		return shared.NewDomainError("INVALID_NAME", "First name cannot exceed 100 characters")
	}
	return nil
}
