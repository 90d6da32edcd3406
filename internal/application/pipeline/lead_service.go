package pipeline

import (
	"context"

	"github.com/bizhub/backend/internal/domain/crm"
	"github.com/bizhub/backend/internal/domain/identity"
	"github.com/bizhub/backend/internal/domain/pipeline"
	"github.com/bizhub/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// LeadService handles lead-related business operations, including the
// atomic conversion of a lead into a deal.
type LeadService struct {
	leadRepo       pipeline.LeadRepository
	dealRepo       pipeline.DealRepository
	optionRepo     pipeline.OptionRepository
	clientRepo     crm.ClientRepository
	contactRepo    crm.ContactRepository
	userRepo       identity.UserRepository
	eventPublisher shared.EventPublisher
}

// NewLeadService creates a new LeadService
func NewLeadService(
	leadRepo pipeline.LeadRepository,
	dealRepo pipeline.DealRepository,
	optionRepo pipeline.OptionRepository,
	clientRepo crm.ClientRepository,
	contactRepo crm.ContactRepository,
	userRepo identity.UserRepository,
) *LeadService {
	return &LeadService{
		leadRepo:    leadRepo,
		dealRepo:    dealRepo,
		optionRepo:  optionRepo,
		clientRepo:  clientRepo,
		contactRepo: contactRepo,
		userRepo:    userRepo,
	}
}

// SetEventPublisher sets the event publisher for publishing domain events
func (s *LeadService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// Create creates a new lead
func (s *LeadService) Create(ctx context.Context, req CreateLeadRequest) (*LeadResponse, error) {
	stage, err := s.optionRepo.FindByID(ctx, req.StageID)
	if err != nil {
		return nil, err
	}

	lead, err := pipeline.NewLead(req.Name, stage)
	if err != nil {
		return nil, err
	}
	lead.CreatedBy = req.CreatedBy

	if req.LabelID != nil {
		label, err := s.optionRepo.FindByID(ctx, *req.LabelID)
		if err != nil {
			return nil, err
		}
		if err := lead.SetLabel(label); err != nil {
			return nil, err
		}
	}

	if req.SourceID != nil {
		source, err := s.optionRepo.FindByID(ctx, *req.SourceID)
		if err != nil {
			return nil, err
		}
		if err := lead.SetSource(source); err != nil {
			return nil, err
		}
	}

	if req.ClientID != nil {
		clientID, clientName, contactID, contactName, err := s.resolveClient(ctx, *req.ClientID, req.ContactID)
		if err != nil {
			return nil, err
		}
		lead.SetClient(clientID, clientName, contactID, contactName)
	}

	if req.Value != nil {
		if err := lead.SetValue(*req.Value); err != nil {
			return nil, err
		}
	}

	if req.OwnerID != nil {
		ownerName, err := s.resolveOwnerName(ctx, *req.OwnerID)
		if err != nil {
			return nil, err
		}
		lead.AssignOwner(*req.OwnerID, ownerName)
	}

	if req.JobsiteAddress != "" || req.Notes != "" {
		if err := lead.Update(lead.Name, req.JobsiteAddress, req.Notes); err != nil {
			return nil, err
		}
	}

	if err := s.leadRepo.Save(ctx, lead); err != nil {
		return nil, err
	}

	s.publishDomainEvents(ctx, &lead.BaseAggregateRoot)

	response := ToLeadResponse(lead)
	return &response, nil
}

// GetByID retrieves a lead by ID
func (s *LeadService) GetByID(ctx context.Context, leadID uuid.UUID) (*LeadResponse, error) {
	lead, err := s.leadRepo.FindByID(ctx, leadID)
	if err != nil {
		return nil, err
	}

	response := ToLeadResponse(lead)
	return &response, nil
}

// List retrieves leads with filtering and pagination
func (s *LeadService) List(ctx context.Context, filter LeadListFilter) ([]LeadResponse, int64, error) {
	domainFilter := buildPipelineFilter(filter.Page, filter.PageSize, filter.OrderBy, filter.OrderDir, filter.Search)
	if filter.StageID != nil {
		domainFilter.Filters["stage_id"] = *filter.StageID
	}
	if filter.LabelID != nil {
		domainFilter.Filters["label_id"] = *filter.LabelID
	}
	if filter.SourceID != nil {
		domainFilter.Filters["source_id"] = *filter.SourceID
	}
	if filter.OwnerID != nil {
		domainFilter.Filters["owner_id"] = *filter.OwnerID
	}

	leads, err := s.leadRepo.FindAll(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	total, err := s.leadRepo.Count(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	return ToLeadResponses(leads), total, nil
}

// Update updates a lead
func (s *LeadService) Update(ctx context.Context, leadID uuid.UUID, req UpdateLeadRequest) (*LeadResponse, error) {
	lead, err := s.leadRepo.FindByID(ctx, leadID)
	if err != nil {
		return nil, err
	}

	if req.Version != nil && *req.Version != lead.Version {
		return nil, shared.ErrConcurrencyConflict
	}

	name := lead.Name
	jobsite := lead.JobsiteAddress
	notes := lead.Notes
	if req.Name != nil {
		name = *req.Name
	}
	if req.JobsiteAddress != nil {
		jobsite = *req.JobsiteAddress
	}
	if req.Notes != nil {
		notes = *req.Notes
	}
	if err := lead.Update(name, jobsite, notes); err != nil {
		return nil, err
	}

	if req.StageID != nil && *req.StageID != lead.StageID {
		stage, err := s.optionRepo.FindByID(ctx, *req.StageID)
		if err != nil {
			return nil, err
		}
		if err := lead.MoveToStage(stage); err != nil {
			return nil, err
		}
	}

	if req.ClearLabel {
		if err := lead.SetLabel(nil); err != nil {
			return nil, err
		}
	} else if req.LabelID != nil {
		label, err := s.optionRepo.FindByID(ctx, *req.LabelID)
		if err != nil {
			return nil, err
		}
		if err := lead.SetLabel(label); err != nil {
			return nil, err
		}
	}

	if req.ClearSource {
		if err := lead.SetSource(nil); err != nil {
			return nil, err
		}
	} else if req.SourceID != nil {
		source, err := s.optionRepo.FindByID(ctx, *req.SourceID)
		if err != nil {
			return nil, err
		}
		if err := lead.SetSource(source); err != nil {
			return nil, err
		}
	}

	if req.ClearClient {
		lead.SetClient(nil, "", nil, "")
	} else if req.ClientID != nil {
		clientID, clientName, contactID, contactName, err := s.resolveClient(ctx, *req.ClientID, req.ContactID)
		if err != nil {
			return nil, err
		}
		lead.SetClient(clientID, clientName, contactID, contactName)
	}

	if req.Value != nil {
		if err := lead.SetValue(*req.Value); err != nil {
			return nil, err
		}
	}

	if req.OwnerID != nil {
		ownerName, err := s.resolveOwnerName(ctx, *req.OwnerID)
		if err != nil {
			return nil, err
		}
		lead.AssignOwner(*req.OwnerID, ownerName)
	}

	if err := s.leadRepo.SaveWithLock(ctx, lead); err != nil {
		return nil, err
	}

	s.publishDomainEvents(ctx, &lead.BaseAggregateRoot)

	response := ToLeadResponse(lead)
	return &response, nil
}

// Convert converts a lead into a deal. The deal is created and the lead
// removed in a single transaction; afterwards exactly one deal exists
// carrying the lead's fields and no lead remains.
func (s *LeadService) Convert(ctx context.Context, leadID uuid.UUID) (*DealResponse, error) {
	lead, err := s.leadRepo.FindByID(ctx, leadID)
	if err != nil {
		return nil, err
	}

	deal := pipeline.NewDealFromLead(lead)

	if err := s.dealRepo.CreateFromLead(ctx, deal, lead.ID); err != nil {
		return nil, err
	}

	s.publishDomainEvents(ctx, &deal.BaseAggregateRoot)

	response := ToDealResponse(deal)
	return &response, nil
}

// Delete permanently deletes a lead
func (s *LeadService) Delete(ctx context.Context, leadID uuid.UUID) error {
	if _, err := s.leadRepo.FindByID(ctx, leadID); err != nil {
		return err
	}

	return s.leadRepo.Delete(ctx, leadID)
}

func (s *LeadService) resolveClient(ctx context.Context, clientID uuid.UUID, contactID *uuid.UUID) (*uuid.UUID, string, *uuid.UUID, string, error) {
	client, err := s.clientRepo.FindByID(ctx, clientID)
	if err != nil {
		return nil, "", nil, "", err
	}

	var resolvedContactID *uuid.UUID
	contactName := ""
	if contactID != nil {
		contact, err := s.contactRepo.FindByID(ctx, *contactID)
		if err != nil {
			return nil, "", nil, "", err
		}
		if contact.ClientID != client.ID {
			return nil, "", nil, "", shared.NewDomainError("INVALID_CONTACT", "Contact does not belong to the client")
		}
		id := contact.ID
		resolvedContactID = &id
		contactName = contact.FullName()
	}

	id := client.ID
	return &id, client.Name, resolvedContactID, contactName, nil
}

func (s *LeadService) resolveOwnerName(ctx context.Context, ownerID uuid.UUID) (string, error) {
	user, err := s.userRepo.FindByID(ctx, ownerID)
	if err != nil {
		return "", err
	}
	return user.GetDisplayNameOrUsername(), nil
}

func (s *LeadService) publishDomainEvents(ctx context.Context, root *shared.BaseAggregateRoot) {
	if s.eventPublisher == nil {
		return
	}
	events := root.GetDomainEvents()
	if len(events) == 0 {
		return
	}
	_ = s.eventPublisher.Publish(ctx, events...)
	root.ClearDomainEvents()
}

// buildPipelineFilter applies list defaults shared by lead and deal queries
func buildPipelineFilter(page, pageSize int, orderBy, orderDir, search string) shared.Filter {
	filter := shared.DefaultFilter()
	if page > 0 {
		filter.Page = page
	}
	if pageSize > 0 {
		filter.PageSize = pageSize
	}
	if orderBy != "" {
		filter.OrderBy = orderBy
	}
	if orderDir != "" {
		filter.OrderDir = orderDir
	}
	filter.Search = search
	return filter
}
