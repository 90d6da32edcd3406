package billing

import (
	"context"
	"errors"
	"time"

	"github.com/bizhub/backend/internal/domain/billing"
	"github.com/bizhub/backend/internal/domain/crm"
	"github.com/bizhub/backend/internal/domain/project"
	"github.com/bizhub/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// EstimateService handles estimate-related business operations. Accepting an
// estimate can spawn a draft invoice carrying the same line items.
type EstimateService struct {
	estimateRepo   billing.EstimateRepository
	invoiceRepo    billing.InvoiceRepository
	clientRepo     crm.ClientRepository
	projectRepo    project.Repository
	eventPublisher shared.EventPublisher
}

// NewEstimateService creates a new EstimateService
func NewEstimateService(
	estimateRepo billing.EstimateRepository,
	invoiceRepo billing.InvoiceRepository,
	clientRepo crm.ClientRepository,
	projectRepo project.Repository,
) *EstimateService {
	return &EstimateService{
		estimateRepo: estimateRepo,
		invoiceRepo:  invoiceRepo,
		clientRepo:   clientRepo,
		projectRepo:  projectRepo,
	}
}

// SetEventPublisher sets the event publisher for publishing domain events
func (s *EstimateService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// Create creates a new draft estimate with a generated number
func (s *EstimateService) Create(ctx context.Context, req CreateEstimateRequest) (*EstimateResponse, error) {
	client, err := s.clientRepo.FindByID(ctx, req.ClientID)
	if err != nil {
		return nil, err
	}

	number, err := s.estimateRepo.NextNumber(ctx)
	if err != nil {
		return nil, err
	}

	estimate, err := billing.NewEstimate(number, client.ID, client.Name)
	if err != nil {
		return nil, err
	}
	estimate.CreatedBy = req.CreatedBy

	if req.ProjectID != nil {
		proj, err := s.projectRepo.FindByID(ctx, *req.ProjectID)
		if err != nil {
			return nil, err
		}
		if proj.ClientID != client.ID {
			return nil, shared.NewDomainError("INVALID_PROJECT", "Project does not belong to the client")
		}
		id := proj.ID
		estimate.ProjectID = &id
	}

	if err := estimate.SetItems(toLineItemInputs(req.Items)); err != nil {
		return nil, err
	}

	if req.TaxRate != nil {
		if err := estimate.SetTaxRate(*req.TaxRate); err != nil {
			return nil, err
		}
	}
	if req.ValidUntil != nil {
		if err := estimate.SetValidUntil(req.ValidUntil); err != nil {
			return nil, err
		}
	}
	if req.Notes != "" {
		if err := estimate.SetNotes(req.Notes); err != nil {
			return nil, err
		}
	}

	if err := s.estimateRepo.Save(ctx, estimate); err != nil {
		return nil, err
	}

	s.publishDomainEvents(ctx, &estimate.BaseAggregateRoot)

	response := ToEstimateResponse(estimate)
	return &response, nil
}

// GetByID retrieves an estimate by ID
func (s *EstimateService) GetByID(ctx context.Context, estimateID uuid.UUID) (*EstimateResponse, error) {
	estimate, err := s.estimateRepo.FindByID(ctx, estimateID)
	if err != nil {
		return nil, err
	}

	response := ToEstimateResponse(estimate)
	return &response, nil
}

// List retrieves estimates with filtering and pagination
func (s *EstimateService) List(ctx context.Context, filter EstimateListFilter) ([]EstimateResponse, int64, error) {
	domainFilter := buildBillingFilter(filter.Page, filter.PageSize, filter.OrderBy, filter.OrderDir, filter.Search)
	if filter.Status != "" {
		domainFilter.Filters["status"] = filter.Status
	}
	if filter.ClientID != nil {
		domainFilter.Filters["client_id"] = *filter.ClientID
	}

	estimates, err := s.estimateRepo.FindAll(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	total, err := s.estimateRepo.Count(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	return ToEstimateResponses(estimates), total, nil
}

// Update updates a draft estimate
func (s *EstimateService) Update(ctx context.Context, estimateID uuid.UUID, req UpdateEstimateRequest) (*EstimateResponse, error) {
	estimate, err := s.estimateRepo.FindByID(ctx, estimateID)
	if err != nil {
		return nil, err
	}

	if req.Version != nil && *req.Version != estimate.Version {
		return nil, shared.ErrConcurrencyConflict
	}

	if len(req.Items) > 0 {
		if err := estimate.SetItems(toLineItemInputs(req.Items)); err != nil {
			return nil, err
		}
	}
	if req.TaxRate != nil {
		if err := estimate.SetTaxRate(*req.TaxRate); err != nil {
			return nil, err
		}
	}
	if req.ValidUntil != nil {
		if err := estimate.SetValidUntil(req.ValidUntil); err != nil {
			return nil, err
		}
	}
	if req.Notes != nil {
		if err := estimate.SetNotes(*req.Notes); err != nil {
			return nil, err
		}
	}

	if err := s.estimateRepo.SaveWithLock(ctx, estimate); err != nil {
		return nil, err
	}

	response := ToEstimateResponse(estimate)
	return &response, nil
}

// Send marks an estimate as sent to the client
func (s *EstimateService) Send(ctx context.Context, estimateID uuid.UUID) (*EstimateResponse, error) {
	estimate, err := s.estimateRepo.FindByID(ctx, estimateID)
	if err != nil {
		return nil, err
	}

	if err := estimate.Send(); err != nil {
		return nil, err
	}

	if err := s.estimateRepo.SaveWithLock(ctx, estimate); err != nil {
		return nil, err
	}

	s.publishDomainEvents(ctx, &estimate.BaseAggregateRoot)

	response := ToEstimateResponse(estimate)
	return &response, nil
}

// Accept marks an estimate as accepted, optionally spawning a draft invoice
// with the same line items and tax rate
func (s *EstimateService) Accept(ctx context.Context, estimateID uuid.UUID, req AcceptEstimateRequest) (*AcceptEstimateResponse, error) {
	estimate, err := s.estimateRepo.FindByID(ctx, estimateID)
	if err != nil {
		return nil, err
	}

	if err := estimate.Accept(); err != nil {
		return nil, err
	}

	if err := s.estimateRepo.SaveWithLock(ctx, estimate); err != nil {
		return nil, err
	}

	result := &AcceptEstimateResponse{Estimate: ToEstimateResponse(estimate)}

	if req.CreateInvoice {
		number, err := s.invoiceRepo.NextNumber(ctx)
		if err != nil {
			return nil, err
		}
		invoice, err := billing.NewInvoiceFromEstimate(number, estimate)
		if err != nil {
			return nil, err
		}
		if err := s.invoiceRepo.Save(ctx, invoice); err != nil {
			return nil, err
		}
		s.publishDomainEvents(ctx, &invoice.BaseAggregateRoot)

		invoiceResponse := ToInvoiceResponse(invoice)
		result.Invoice = &invoiceResponse
	}

	s.publishDomainEvents(ctx, &estimate.BaseAggregateRoot)

	return result, nil
}

// Decline marks an estimate as declined by the client
func (s *EstimateService) Decline(ctx context.Context, estimateID uuid.UUID) (*EstimateResponse, error) {
	estimate, err := s.estimateRepo.FindByID(ctx, estimateID)
	if err != nil {
		return nil, err
	}

	if err := estimate.Decline(); err != nil {
		return nil, err
	}

	if err := s.estimateRepo.SaveWithLock(ctx, estimate); err != nil {
		return nil, err
	}

	s.publishDomainEvents(ctx, &estimate.BaseAggregateRoot)

	response := ToEstimateResponse(estimate)
	return &response, nil
}

// Delete permanently deletes a draft estimate
func (s *EstimateService) Delete(ctx context.Context, estimateID uuid.UUID) error {
	estimate, err := s.estimateRepo.FindByID(ctx, estimateID)
	if err != nil {
		return err
	}

	if estimate.Status != billing.EstimateStatusDraft {
		return shared.NewDomainError("INVALID_STATE", "Only draft estimates can be deleted")
	}

	return s.estimateRepo.Delete(ctx, estimateID)
}

// ExpireStale marks sent estimates past their validity date as expired.
// Called by the scheduler; returns the number of estimates expired.
func (s *EstimateService) ExpireStale(ctx context.Context) (int, error) {
	stale, err := s.estimateRepo.FindSentPastValidity(ctx, time.Now())
	if err != nil {
		return 0, err
	}

	expired := 0
	for i := range stale {
		estimate := &stale[i]
		if err := estimate.Expire(); err != nil {
			continue
		}
		if err := s.estimateRepo.SaveWithLock(ctx, estimate); err != nil {
			// Touched since the sweep loaded it; skip and let the next run
			// re-evaluate.
			if errors.Is(err, shared.ErrConcurrencyConflict) {
				continue
			}
			return expired, err
		}
		s.publishDomainEvents(ctx, &estimate.BaseAggregateRoot)
		expired++
	}

	return expired, nil
}

func (s *EstimateService) publishDomainEvents(ctx context.Context, root *shared.BaseAggregateRoot) {
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

// buildBillingFilter applies list defaults shared by estimate and invoice queries
func buildBillingFilter(page, pageSize int, orderBy, orderDir, search string) shared.Filter {
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
