package crm

import (
	"context"

	"github.com/bizhub/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// ClientRepository defines the interface for client persistence
type ClientRepository interface {
	// FindByID finds a client by its ID
	FindByID(ctx context.Context, id uuid.UUID) (*Client, error)

	// FindAll finds all clients matching the filter
	FindAll(ctx context.Context, filter shared.Filter) ([]Client, error)

	// FindByStatus finds clients by status
	FindByStatus(ctx context.Context, status ClientStatus, filter shared.Filter) ([]Client, error)

	// Save creates or updates a client
	Save(ctx context.Context, client *Client) error

	// SaveWithLock saves a client with optimistic locking (version check)
	SaveWithLock(ctx context.Context, client *Client) error

	// Delete deletes a client
	Delete(ctx context.Context, id uuid.UUID) error

	// Count counts clients matching the filter
	Count(ctx context.Context, filter shared.Filter) (int64, error)

	// CountByStatus counts clients by status
	CountByStatus(ctx context.Context, status ClientStatus) (int64, error)
}

// ContactRepository defines the interface for contact persistence
type ContactRepository interface {
	// FindByID finds a contact by its ID
	FindByID(ctx context.Context, id uuid.UUID) (*Contact, error)

	// FindByClient finds all contacts for a client
	FindByClient(ctx context.Context, clientID uuid.UUID, filter shared.Filter) ([]Contact, error)

	// Save creates or updates a contact
	Save(ctx context.Context, contact *Contact) error

	// Delete deletes a contact
	Delete(ctx context.Context, id uuid.UUID) error

	// DeleteByClient deletes all contacts belonging to a client
	DeleteByClient(ctx context.Context, clientID uuid.UUID) error

	// CountByClient counts contacts for a client
	CountByClient(ctx context.Context, clientID uuid.UUID) (int64, error)

	// ClearPrimary clears the primary flag on all of a client's contacts
	ClearPrimary(ctx context.Context, clientID uuid.UUID) error
}
