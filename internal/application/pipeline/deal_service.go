package pipeline

import (
	"context"
	"time"

	"github.com/bizhub/backend/internal/domain/crm"
	"github.com/bizhub/backend/internal/domain/identity"
	"github.com/bizhub/backend/internal/domain/pipeline"
	"github.com/bizhub/backend/internal/domain/shared"
	"github.com/bizhub/backend/internal/infrastructure/telemetry"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// DealService handles deal-related business operations, including the
// won/lost/reopen lifecycle and soft-delete with retention.
type DealService struct {
	dealRepo        pipeline.DealRepository
	optionRepo      pipeline.OptionRepository
	clientRepo      crm.ClientRepository
	contactRepo     crm.ContactRepository
	userRepo        identity.UserRepository
	eventPublisher  shared.EventPublisher
	businessMetrics *telemetry.BusinessMetrics
}

// NewDealService creates a new DealService
func NewDealService(
	dealRepo pipeline.DealRepository,
	optionRepo pipeline.OptionRepository,
	clientRepo crm.ClientRepository,
	contactRepo crm.ContactRepository,
	userRepo identity.UserRepository,
) *DealService {
	return &DealService{
		dealRepo:    dealRepo,
		optionRepo:  optionRepo,
		clientRepo:  clientRepo,
		contactRepo: contactRepo,
		userRepo:    userRepo,
	}
}

// SetEventPublisher sets the event publisher for publishing domain events
func (s *DealService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// SetBusinessMetrics sets the business metrics collector
func (s *DealService) SetBusinessMetrics(bm *telemetry.BusinessMetrics) {
	s.businessMetrics = bm
}

// Create creates a new deal directly (without a lead)
func (s *DealService) Create(ctx context.Context, req CreateDealRequest) (*DealResponse, error) {
	stage, err := s.optionRepo.FindByID(ctx, req.StageID)
	if err != nil {
		return nil, err
	}

	deal, err := pipeline.NewDeal(req.Name, stage)
	if err != nil {
		return nil, err
	}
	deal.CreatedBy = req.CreatedBy

	if req.LabelID != nil {
		label, err := s.optionRepo.FindByID(ctx, *req.LabelID)
		if err != nil {
			return nil, err
		}
		if err := deal.SetLabel(label); err != nil {
			return nil, err
		}
	}

	if req.SourceID != nil {
		source, err := s.optionRepo.FindByID(ctx, *req.SourceID)
		if err != nil {
			return nil, err
		}
		if err := deal.SetSource(source); err != nil {
			return nil, err
		}
	}

	if req.ClientID != nil {
		clientID, clientName, contactID, contactName, err := s.resolveClient(ctx, *req.ClientID, req.ContactID)
		if err != nil {
			return nil, err
		}
		if err := deal.SetClient(clientID, clientName, contactID, contactName); err != nil {
			return nil, err
		}
	}

	if req.Value != nil || req.Commission != nil || req.Units != nil {
		value := deal.Value
		commission := deal.Commission
		units := deal.Units
		if req.Value != nil {
			value = *req.Value
		}
		if req.Commission != nil {
			commission = *req.Commission
		}
		if req.Units != nil {
			units = *req.Units
		}
		if err := deal.SetFinancials(value, commission, units); err != nil {
			return nil, err
		}
	}

	if req.OwnerID != nil {
		ownerName, err := s.resolveOwnerName(ctx, *req.OwnerID)
		if err != nil {
			return nil, err
		}
		if err := deal.AssignOwner(*req.OwnerID, ownerName); err != nil {
			return nil, err
		}
	}

	if req.JobsiteAddress != "" || req.Notes != "" {
		if err := deal.Update(deal.Name, req.JobsiteAddress, req.Notes); err != nil {
			return nil, err
		}
	}

	if err := s.dealRepo.Save(ctx, deal); err != nil {
		return nil, err
	}

	s.publishDomainEvents(ctx, &deal.BaseAggregateRoot)

	response := ToDealResponse(deal)
	return &response, nil
}

// GetByID retrieves a deal by ID
func (s *DealService) GetByID(ctx context.Context, dealID uuid.UUID) (*DealResponse, error) {
	deal, err := s.dealRepo.FindByID(ctx, dealID)
	if err != nil {
		return nil, err
	}

	response := ToDealResponse(deal)
	return &response, nil
}

// List retrieves deals with filtering and pagination. Soft-deleted deals
// are excluded unless the filter opts in.
func (s *DealService) List(ctx context.Context, filter DealListFilter) ([]DealResponse, int64, error) {
	domainFilter := buildPipelineFilter(filter.Page, filter.PageSize, filter.OrderBy, filter.OrderDir, filter.Search)
	if filter.Status != "" {
		domainFilter.Filters["status"] = filter.Status
	}
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
	if filter.IncludeDeleted {
		domainFilter.Filters["include_deleted"] = true
	}

	deals, err := s.dealRepo.FindAll(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	total, err := s.dealRepo.Count(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	return ToDealResponses(deals), total, nil
}

// Update updates a deal. Closed and soft-deleted deals reject edits.
func (s *DealService) Update(ctx context.Context, dealID uuid.UUID, req UpdateDealRequest) (*DealResponse, error) {
	deal, err := s.dealRepo.FindByID(ctx, dealID)
	if err != nil {
		return nil, err
	}

	if req.Version != nil && *req.Version != deal.Version {
		return nil, shared.ErrConcurrencyConflict
	}

	name := deal.Name
	jobsite := deal.JobsiteAddress
	notes := deal.Notes
	if req.Name != nil {
		name = *req.Name
	}
	if req.JobsiteAddress != nil {
		jobsite = *req.JobsiteAddress
	}
	if req.Notes != nil {
		notes = *req.Notes
	}
	if err := deal.Update(name, jobsite, notes); err != nil {
		return nil, err
	}

	if req.StageID != nil && *req.StageID != deal.StageID {
		stage, err := s.optionRepo.FindByID(ctx, *req.StageID)
		if err != nil {
			return nil, err
		}
		if err := deal.MoveToStage(stage); err != nil {
			return nil, err
		}
	}

	if req.ClearLabel {
		if err := deal.SetLabel(nil); err != nil {
			return nil, err
		}
	} else if req.LabelID != nil {
		label, err := s.optionRepo.FindByID(ctx, *req.LabelID)
		if err != nil {
			return nil, err
		}
		if err := deal.SetLabel(label); err != nil {
			return nil, err
		}
	}

	if req.ClearSource {
		if err := deal.SetSource(nil); err != nil {
			return nil, err
		}
	} else if req.SourceID != nil {
		source, err := s.optionRepo.FindByID(ctx, *req.SourceID)
		if err != nil {
			return nil, err
		}
		if err := deal.SetSource(source); err != nil {
			return nil, err
		}
	}

	if req.ClearClient {
		if err := deal.SetClient(nil, "", nil, ""); err != nil {
			return nil, err
		}
	} else if req.ClientID != nil {
		clientID, clientName, contactID, contactName, err := s.resolveClient(ctx, *req.ClientID, req.ContactID)
		if err != nil {
			return nil, err
		}
		if err := deal.SetClient(clientID, clientName, contactID, contactName); err != nil {
			return nil, err
		}
	}

	if req.Value != nil || req.Commission != nil || req.Units != nil {
		value := deal.Value
		commission := deal.Commission
		units := deal.Units
		if req.Value != nil {
			value = *req.Value
		}
		if req.Commission != nil {
			commission = *req.Commission
		}
		if req.Units != nil {
			units = *req.Units
		}
		if err := deal.SetFinancials(value, commission, units); err != nil {
			return nil, err
		}
	}

	if req.OwnerID != nil {
		ownerName, err := s.resolveOwnerName(ctx, *req.OwnerID)
		if err != nil {
			return nil, err
		}
		if err := deal.AssignOwner(*req.OwnerID, ownerName); err != nil {
			return nil, err
		}
	}

	if err := s.dealRepo.SaveWithLock(ctx, deal); err != nil {
		return nil, err
	}

	s.publishDomainEvents(ctx, &deal.BaseAggregateRoot)

	response := ToDealResponse(deal)
	return &response, nil
}

// Win closes a deal as won
func (s *DealService) Win(ctx context.Context, dealID uuid.UUID) (*DealResponse, error) {
	response, err := s.transition(ctx, dealID, func(deal *pipeline.Deal) error {
		return deal.Win()
	})
	if err != nil {
		return nil, err
	}
	if s.businessMetrics != nil {
		s.businessMetrics.RecordDealWon(ctx, response.StageName, response.Value)
	}
	return response, nil
}

// Lose closes a deal as lost with an optional reason
func (s *DealService) Lose(ctx context.Context, dealID uuid.UUID, reason string) (*DealResponse, error) {
	response, err := s.transition(ctx, dealID, func(deal *pipeline.Deal) error {
		return deal.Lose(reason)
	})
	if err != nil {
		return nil, err
	}
	if s.businessMetrics != nil {
		s.businessMetrics.RecordDealLost(ctx, response.StageName)
	}
	return response, nil
}

// Reopen returns a closed deal to the open state
func (s *DealService) Reopen(ctx context.Context, dealID uuid.UUID) (*DealResponse, error) {
	return s.transition(ctx, dealID, func(deal *pipeline.Deal) error {
		return deal.Reopen()
	})
}

// SoftDelete marks a deal deleted; it remains restorable for the retention
// window and is purged afterwards.
func (s *DealService) SoftDelete(ctx context.Context, dealID uuid.UUID) error {
	deal, err := s.dealRepo.FindByID(ctx, dealID)
	if err != nil {
		return err
	}

	if err := deal.SoftDelete(); err != nil {
		return err
	}

	if err := s.dealRepo.SaveWithLock(ctx, deal); err != nil {
		return err
	}

	s.publishDomainEvents(ctx, &deal.BaseAggregateRoot)

	return nil
}

// Restore undoes a soft delete within the retention window
func (s *DealService) Restore(ctx context.Context, dealID uuid.UUID) (*DealResponse, error) {
	return s.transition(ctx, dealID, func(deal *pipeline.Deal) error {
		return deal.Restore()
	})
}

// PurgeExpired permanently removes soft-deleted deals past the retention
// window. Called by the scheduler; returns the number of rows removed.
func (s *DealService) PurgeExpired(ctx context.Context) (int64, error) {
	cutoff := time.Now().Add(-pipeline.DeletedRetention)
	return s.dealRepo.PurgeDeletedBefore(ctx, cutoff)
}

// SumOpenValue returns the total value of open deals
func (s *DealService) SumOpenValue(ctx context.Context) (decimal.Decimal, error) {
	raw, err := s.dealRepo.SumValueByStatus(ctx, pipeline.DealStatusOpen)
	if err != nil {
		return decimal.Zero, err
	}
	return decimal.NewFromString(raw)
}

func (s *DealService) transition(ctx context.Context, dealID uuid.UUID, apply func(*pipeline.Deal) error) (*DealResponse, error) {
	deal, err := s.dealRepo.FindByID(ctx, dealID)
	if err != nil {
		return nil, err
	}

	if err := apply(deal); err != nil {
		return nil, err
	}

	// Lifecycle changes race with concurrent edits; the version guard turns
	// a stale close or restore into a conflict instead of a silent overwrite.
	if err := s.dealRepo.SaveWithLock(ctx, deal); err != nil {
		return nil, err
	}

	s.publishDomainEvents(ctx, &deal.BaseAggregateRoot)

	response := ToDealResponse(deal)
	return &response, nil
}

func (s *DealService) resolveClient(ctx context.Context, clientID uuid.UUID, contactID *uuid.UUID) (*uuid.UUID, string, *uuid.UUID, string, error) {
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

func (s *DealService) resolveOwnerName(ctx context.Context, ownerID uuid.UUID) (string, error) {
	user, err := s.userRepo.FindByID(ctx, ownerID)
	if err != nil {
		return "", err
	}
	return user.GetDisplayNameOrUsername(), nil
}

func (s *DealService) publishDomainEvents(ctx context.Context, root *shared.BaseAggregateRoot) {
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
