package crm

import (
	"context"

	"github.com/bizhub/backend/internal/domain/crm"
	"github.com/bizhub/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// ContactService handles contact-related business operations
type ContactService struct {
	contactRepo crm.ContactRepository
	clientRepo  crm.ClientRepository
}

// NewContactService creates a new ContactService
func NewContactService(contactRepo crm.ContactRepository, clientRepo crm.ClientRepository) *ContactService {
	return &ContactService{
		contactRepo: contactRepo,
		clientRepo:  clientRepo,
	}
}

// Create creates a new contact under a client
func (s *ContactService) Create(ctx context.Context, clientID uuid.UUID, req CreateContactRequest) (*ContactResponse, error) {
	// Parent must exist
	if _, err := s.clientRepo.FindByID(ctx, clientID); err != nil {
		return nil, err
	}

	contact, err := crm.NewContact(clientID, req.FirstName, req.LastName)
	if err != nil {
		return nil, err
	}

	if req.Title != "" {
		if err := contact.Update(contact.FirstName, contact.LastName, req.Title); err != nil {
			return nil, err
		}
	}

	if req.Email != "" || req.Phone != "" {
		if err := contact.SetContactInfo(req.Email, req.Phone); err != nil {
			return nil, err
		}
	}

	if req.Notes != "" {
		contact.Notes = req.Notes
	}

	if req.IsPrimary {
		if err := s.contactRepo.ClearPrimary(ctx, clientID); err != nil {
			return nil, err
		}
		contact.MarkPrimary()
	}

	if err := s.contactRepo.Save(ctx, contact); err != nil {
		return nil, err
	}

	response := ToContactResponse(contact)
	return &response, nil
}

// GetByID retrieves a contact by ID
func (s *ContactService) GetByID(ctx context.Context, contactID uuid.UUID) (*ContactResponse, error) {
	contact, err := s.contactRepo.FindByID(ctx, contactID)
	if err != nil {
		return nil, err
	}

	response := ToContactResponse(contact)
	return &response, nil
}

// ListByClient retrieves all contacts under a client
func (s *ContactService) ListByClient(ctx context.Context, clientID uuid.UUID) ([]ContactResponse, int64, error) {
	if _, err := s.clientRepo.FindByID(ctx, clientID); err != nil {
		return nil, 0, err
	}

	filter := shared.DefaultFilter()
	filter.OrderBy = "created_at"
	filter.OrderDir = "asc"
	filter.PageSize = 200

	contacts, err := s.contactRepo.FindByClient(ctx, clientID, filter)
	if err != nil {
		return nil, 0, err
	}

	total, err := s.contactRepo.CountByClient(ctx, clientID)
	if err != nil {
		return nil, 0, err
	}

	return ToContactResponses(contacts), total, nil
}

// Update updates a contact
func (s *ContactService) Update(ctx context.Context, contactID uuid.UUID, req UpdateContactRequest) (*ContactResponse, error) {
	contact, err := s.contactRepo.FindByID(ctx, contactID)
	if err != nil {
		return nil, err
	}

	firstName := contact.FirstName
	lastName := contact.LastName
	title := contact.Title
	if req.FirstName != nil {
		firstName = *req.FirstName
	}
	if req.LastName != nil {
		lastName = *req.LastName
	}
	if req.Title != nil {
		title = *req.Title
	}
	if err := contact.Update(firstName, lastName, title); err != nil {
		return nil, err
	}

	if req.Email != nil || req.Phone != nil {
		email := contact.Email
		phone := contact.Phone
		if req.Email != nil {
			email = *req.Email
		}
		if req.Phone != nil {
			phone = *req.Phone
		}
		if err := contact.SetContactInfo(email, phone); err != nil {
			return nil, err
		}
	}

	if req.Notes != nil {
		contact.Notes = *req.Notes
	}

	if req.IsPrimary != nil {
		if *req.IsPrimary && !contact.IsPrimary {
			if err := s.contactRepo.ClearPrimary(ctx, contact.ClientID); err != nil {
				return nil, err
			}
			contact.MarkPrimary()
		} else if !*req.IsPrimary && contact.IsPrimary {
			contact.UnmarkPrimary()
		}
	}

	if err := s.contactRepo.Save(ctx, contact); err != nil {
		return nil, err
	}

	response := ToContactResponse(contact)
	return &response, nil
}

// Delete deletes a contact
func (s *ContactService) Delete(ctx context.Context, contactID uuid.UUID) error {
	if _, err := s.contactRepo.FindByID(ctx, contactID); err != nil {
		return err
	}

	return s.contactRepo.Delete(ctx, contactID)
}
