package crm

import (
	"context"

	"github.com/bizhub/backend/internal/domain/crm"
	"github.com/bizhub/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// ClientService handles client-related business operations
type ClientService struct {
	clientRepo  crm.ClientRepository
	contactRepo crm.ContactRepository
}

// NewClientService creates a new ClientService
func NewClientService(clientRepo crm.ClientRepository, contactRepo crm.ContactRepository) *ClientService {
	return &ClientService{
		clientRepo:  clientRepo,
		contactRepo: contactRepo,
	}
}

// Create creates a new client
func (s *ClientService) Create(ctx context.Context, req CreateClientRequest) (*ClientResponse, error) {
	client, err := crm.NewClient(req.Name, crm.ClientType(req.Type))
	if err != nil {
		return nil, err
	}
	client.CreatedBy = req.CreatedBy

	if req.Email != "" || req.Phone != "" {
		if err := client.SetContactInfo(req.Email, req.Phone); err != nil {
			return nil, err
		}
	}

	if req.Address != "" || req.City != "" || req.State != "" || req.PostalCode != "" || req.Country != "" {
		if err := client.SetAddress(req.Address, req.City, req.State, req.PostalCode, req.Country); err != nil {
			return nil, err
		}
	}

	if req.Website != "" || req.TaxID != "" || req.Notes != "" {
		if err := client.Update(client.Name, client.Type, req.Website, req.TaxID, req.Notes); err != nil {
			return nil, err
		}
	}

	if err := s.clientRepo.Save(ctx, client); err != nil {
		return nil, err
	}

	response := ToClientResponse(client)
	return &response, nil
}

// GetByID retrieves a client by ID
func (s *ClientService) GetByID(ctx context.Context, clientID uuid.UUID) (*ClientResponse, error) {
	client, err := s.clientRepo.FindByID(ctx, clientID)
	if err != nil {
		return nil, err
	}

	response := ToClientResponse(client)
	return &response, nil
}

// List retrieves clients with filtering and pagination
func (s *ClientService) List(ctx context.Context, filter ClientListFilter) ([]ClientResponse, int64, error) {
	domainFilter := shared.DefaultFilter()
	if filter.Page > 0 {
		domainFilter.Page = filter.Page
	}
	if filter.PageSize > 0 {
		domainFilter.PageSize = filter.PageSize
	}
	if filter.OrderBy != "" {
		domainFilter.OrderBy = filter.OrderBy
	}
	if filter.OrderDir != "" {
		domainFilter.OrderDir = filter.OrderDir
	}
	domainFilter.Search = filter.Search

	if filter.Status != "" {
		domainFilter.Filters["status"] = filter.Status
	}
	if filter.Type != "" {
		domainFilter.Filters["type"] = filter.Type
	}
	if filter.City != "" {
		domainFilter.Filters["city"] = filter.City
	}

	clients, err := s.clientRepo.FindAll(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	total, err := s.clientRepo.Count(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	return ToClientResponses(clients), total, nil
}

// Update updates a client
func (s *ClientService) Update(ctx context.Context, clientID uuid.UUID, req UpdateClientRequest) (*ClientResponse, error) {
	client, err := s.clientRepo.FindByID(ctx, clientID)
	if err != nil {
		return nil, err
	}

	if req.Version != nil && *req.Version != client.Version {
		return nil, shared.ErrConcurrencyConflict
	}

	name := client.Name
	if req.Name != nil {
		name = *req.Name
	}
	website := client.Website
	if req.Website != nil {
		website = *req.Website
	}
	taxID := client.TaxID
	if req.TaxID != nil {
		taxID = *req.TaxID
	}
	notes := client.Notes
	if req.Notes != nil {
		notes = *req.Notes
	}
	if err := client.Update(name, client.Type, website, taxID, notes); err != nil {
		return nil, err
	}

	if req.Email != nil || req.Phone != nil {
		email := client.Email
		phone := client.Phone
		if req.Email != nil {
			email = *req.Email
		}
		if req.Phone != nil {
			phone = *req.Phone
		}
		if err := client.SetContactInfo(email, phone); err != nil {
			return nil, err
		}
	}

	if req.Address != nil || req.City != nil || req.State != nil || req.PostalCode != nil || req.Country != nil {
		address := client.Address
		city := client.City
		state := client.State
		postalCode := client.PostalCode
		country := client.Country
		if req.Address != nil {
			address = *req.Address
		}
		if req.City != nil {
			city = *req.City
		}
		if req.State != nil {
			state = *req.State
		}
		if req.PostalCode != nil {
			postalCode = *req.PostalCode
		}
		if req.Country != nil {
			country = *req.Country
		}
		if err := client.SetAddress(address, city, state, postalCode, country); err != nil {
			return nil, err
		}
	}

	if err := s.clientRepo.SaveWithLock(ctx, client); err != nil {
		return nil, err
	}

	response := ToClientResponse(client)
	return &response, nil
}

// Archive archives a client
func (s *ClientService) Archive(ctx context.Context, clientID uuid.UUID) (*ClientResponse, error) {
	client, err := s.clientRepo.FindByID(ctx, clientID)
	if err != nil {
		return nil, err
	}

	if err := client.Archive(); err != nil {
		return nil, err
	}

	if err := s.clientRepo.Save(ctx, client); err != nil {
		return nil, err
	}

	response := ToClientResponse(client)
	return &response, nil
}

// Unarchive restores an archived client to active
func (s *ClientService) Unarchive(ctx context.Context, clientID uuid.UUID) (*ClientResponse, error) {
	client, err := s.clientRepo.FindByID(ctx, clientID)
	if err != nil {
		return nil, err
	}

	if err := client.Unarchive(); err != nil {
		return nil, err
	}

	if err := s.clientRepo.Save(ctx, client); err != nil {
		return nil, err
	}

	response := ToClientResponse(client)
	return &response, nil
}

// Delete deletes a client and its contacts
func (s *ClientService) Delete(ctx context.Context, clientID uuid.UUID) error {
	if _, err := s.clientRepo.FindByID(ctx, clientID); err != nil {
		return err
	}

	if err := s.contactRepo.DeleteByClient(ctx, clientID); err != nil {
		return err
	}

	return s.clientRepo.Delete(ctx, clientID)
}
