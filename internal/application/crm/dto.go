package crm

import (
	"time"

	"github.com/bizhub/backend/internal/domain/crm"
	"github.com/google/uuid"
)

// =============================================================================
// Client DTOs
// =============================================================================

// CreateClientRequest represents a request to create a new client
type CreateClientRequest struct {
	Name       string     `json:"name" binding:"required,min=1,max=200"`
	Type       string     `json:"type" binding:"required,oneof=company person"`
	Email      string     `json:"email" binding:"omitempty,email,max=200"`
	Phone      string     `json:"phone" binding:"max=50"`
	Address    string     `json:"address" binding:"max=500"`
	City       string     `json:"city" binding:"max=100"`
	State      string     `json:"state" binding:"max=100"`
	PostalCode string     `json:"postal_code" binding:"max=20"`
	Country    string     `json:"country" binding:"max=100"`
	Website    string     `json:"website" binding:"max=200"`
	TaxID      string     `json:"tax_id" binding:"max=100"`
	Notes      string     `json:"notes"`
	CreatedBy  *uuid.UUID `json:"-"` // Set from JWT context, not from request body
}

// UpdateClientRequest represents a request to update a client
type UpdateClientRequest struct {
	Name       *string `json:"name" binding:"omitempty,min=1,max=200"`
	Email      *string `json:"email" binding:"omitempty,email,max=200"`
	Phone      *string `json:"phone" binding:"omitempty,max=50"`
	Address    *string `json:"address" binding:"omitempty,max=500"`
	City       *string `json:"city" binding:"omitempty,max=100"`
	State      *string `json:"state" binding:"omitempty,max=100"`
	PostalCode *string `json:"postal_code" binding:"omitempty,max=20"`
	Country    *string `json:"country" binding:"omitempty,max=100"`
	Website    *string `json:"website" binding:"omitempty,max=200"`
	TaxID      *string `json:"tax_id" binding:"omitempty,max=100"`
	Notes      *string `json:"notes"`
	Version    *int    `json:"version"`
}

// ClientResponse represents a client in API responses
type ClientResponse struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Type        string    `json:"type"`
	Status      string    `json:"status"`
	Email       string    `json:"email"`
	Phone       string    `json:"phone"`
	Address     string    `json:"address"`
	City        string    `json:"city"`
	State       string    `json:"state"`
	PostalCode  string    `json:"postal_code"`
	Country     string    `json:"country"`
	FullAddress string    `json:"full_address"`
	Website     string    `json:"website"`
	TaxID       string    `json:"tax_id"`
	Notes       string    `json:"notes"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
	Version     int       `json:"version"`
}

// ClientListFilter represents filter options for client list
type ClientListFilter struct {
	Search   string `form:"search"`
	Status   string `form:"status" binding:"omitempty,oneof=active archived"`
	Type     string `form:"type" binding:"omitempty,oneof=company person"`
	City     string `form:"city"`
	Page     int    `form:"page" binding:"omitempty,min=1"`
	PageSize int    `form:"page_size" binding:"omitempty,min=1,max=100"`
	OrderBy  string `form:"order_by"`
	OrderDir string `form:"order_dir" binding:"omitempty,oneof=asc desc"`
}

// ToClientResponse converts a domain Client to a ClientResponse
func ToClientResponse(client *crm.Client) ClientResponse {
	return ClientResponse{
		ID:          client.ID,
		Name:        client.Name,
		Type:        string(client.Type),
		Status:      string(client.Status),
		Email:       client.Email,
		Phone:       client.Phone,
		Address:     client.Address,
		City:        client.City,
		State:       client.State,
		PostalCode:  client.PostalCode,
		Country:     client.Country,
		FullAddress: client.GetFullAddress(),
		Website:     client.Website,
		TaxID:       client.TaxID,
		Notes:       client.Notes,
		CreatedAt:   client.CreatedAt,
		UpdatedAt:   client.UpdatedAt,
		Version:     client.Version,
	}
}

// ToClientResponses converts domain Clients to responses
func ToClientResponses(clients []crm.Client) []ClientResponse {
	responses := make([]ClientResponse, len(clients))
	for i := range clients {
		responses[i] = ToClientResponse(&clients[i])
	}
	return responses
}

// =============================================================================
// Contact DTOs
// =============================================================================

// CreateContactRequest represents a request to create a contact under a client
type CreateContactRequest struct {
	FirstName string `json:"first_name" binding:"required,min=1,max=100"`
	LastName  string `json:"last_name" binding:"max=100"`
	Title     string `json:"title" binding:"max=100"`
	Email     string `json:"email" binding:"omitempty,email,max=200"`
	Phone     string `json:"phone" binding:"max=50"`
	IsPrimary bool   `json:"is_primary"`
	Notes     string `json:"notes"`
}

// UpdateContactRequest represents a request to update a contact
type UpdateContactRequest struct {
	FirstName *string `json:"first_name" binding:"omitempty,min=1,max=100"`
	LastName  *string `json:"last_name" binding:"omitempty,max=100"`
	Title     *string `json:"title" binding:"omitempty,max=100"`
	Email     *string `json:"email" binding:"omitempty,email,max=200"`
	Phone     *string `json:"phone" binding:"omitempty,max=50"`
	IsPrimary *bool   `json:"is_primary"`
	Notes     *string `json:"notes"`
}

// ContactResponse represents a contact in API responses
type ContactResponse struct {
	ID        uuid.UUID `json:"id"`
	ClientID  uuid.UUID `json:"client_id"`
	FirstName string    `json:"first_name"`
	LastName  string    `json:"last_name"`
	FullName  string    `json:"full_name"`
	Title     string    `json:"title"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone"`
	IsPrimary bool      `json:"is_primary"`
	Notes     string    `json:"notes"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	Version   int       `json:"version"`
}

// ToContactResponse converts a domain Contact to a ContactResponse
func ToContactResponse(contact *crm.Contact) ContactResponse {
	return ContactResponse{
		ID:        contact.ID,
		ClientID:  contact.ClientID,
		FirstName: contact.FirstName,
		LastName:  contact.LastName,
		FullName:  contact.FullName(),
		Title:     contact.Title,
		Email:     contact.Email,
		Phone:     contact.Phone,
		IsPrimary: contact.IsPrimary,
		Notes:     contact.Notes,
		CreatedAt: contact.CreatedAt,
		UpdatedAt: contact.UpdatedAt,
		Version:   contact.Version,
	}
}

// ToContactResponses converts domain Contacts to responses
func ToContactResponses(contacts []crm.Contact) []ContactResponse {
	responses := make([]ContactResponse, len(contacts))
	for i := range contacts {
		responses[i] = ToContactResponse(&contacts[i])
	}
	return responses
}
