package billing

import (
	"context"
	"time"

	"github.com/bizhub/backend/internal/domain/billing"
	"github.com/bizhub/backend/internal/domain/crm"
	"github.com/bizhub/backend/internal/domain/project"
	"github.com/bizhub/backend/internal/domain/shared"
	"github.com/bizhub/backend/internal/infrastructure/telemetry"
	"github.com/google/uuid"
)

// InvoiceService handles invoice-related business operations, including
// manual payment recording
type InvoiceService struct {
	invoiceRepo     billing.InvoiceRepository
	clientRepo      crm.ClientRepository
	projectRepo     project.Repository
	eventPublisher  shared.EventPublisher
	businessMetrics *telemetry.BusinessMetrics
}

// NewInvoiceService creates a new InvoiceService
func NewInvoiceService(
	invoiceRepo billing.InvoiceRepository,
	clientRepo crm.ClientRepository,
	projectRepo project.Repository,
) *InvoiceService {
	return &InvoiceService{
		invoiceRepo: invoiceRepo,
		clientRepo:  clientRepo,
		projectRepo: projectRepo,
	}
}

// SetEventPublisher sets the event publisher for publishing domain events
func (s *InvoiceService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// SetBusinessMetrics sets the business metrics collector
func (s *InvoiceService) SetBusinessMetrics(bm *telemetry.BusinessMetrics) {
	s.businessMetrics = bm
}

// Create creates a new draft invoice with a generated number
func (s *InvoiceService) Create(ctx context.Context, req CreateInvoiceRequest) (*InvoiceResponse, error) {
	client, err := s.clientRepo.FindByID(ctx, req.ClientID)
	if err != nil {
		return nil, err
	}

	number, err := s.invoiceRepo.NextNumber(ctx)
	if err != nil {
		return nil, err
	}

	invoice, err := billing.NewInvoice(number, client.ID, client.Name)
	if err != nil {
		return nil, err
	}
	invoice.CreatedBy = req.CreatedBy

	if req.ProjectID != nil {
		proj, err := s.projectRepo.FindByID(ctx, *req.ProjectID)
		if err != nil {
			return nil, err
		}
		if proj.ClientID != client.ID {
			return nil, shared.NewDomainError("INVALID_PROJECT", "Project does not belong to the client")
		}
		id := proj.ID
		invoice.ProjectID = &id
	}

	if err := invoice.SetItems(toLineItemInputs(req.Items)); err != nil {
		return nil, err
	}

	if req.TaxRate != nil {
		if err := invoice.SetTaxRate(*req.TaxRate); err != nil {
			return nil, err
		}
	}
	if req.DueDate != nil {
		if err := invoice.SetDueDate(req.DueDate); err != nil {
			return nil, err
		}
	}
	if req.Notes != "" {
		if err := invoice.SetNotes(req.Notes); err != nil {
			return nil, err
		}
	}

	if err := s.invoiceRepo.Save(ctx, invoice); err != nil {
		return nil, err
	}

	s.publishDomainEvents(ctx, &invoice.BaseAggregateRoot)

	response := ToInvoiceResponse(invoice)
	return &response, nil
}

// GetByID retrieves an invoice by ID
func (s *InvoiceService) GetByID(ctx context.Context, invoiceID uuid.UUID) (*InvoiceResponse, error) {
	invoice, err := s.invoiceRepo.FindByID(ctx, invoiceID)
	if err != nil {
		return nil, err
	}

	response := ToInvoiceResponse(invoice)
	return &response, nil
}

// List retrieves invoices with filtering and pagination
func (s *InvoiceService) List(ctx context.Context, filter InvoiceListFilter) ([]InvoiceResponse, int64, error) {
	if filter.Overdue {
		invoices, err := s.invoiceRepo.FindOverdue(ctx, time.Now())
		if err != nil {
			return nil, 0, err
		}
		return ToInvoiceResponses(invoices), int64(len(invoices)), nil
	}

	domainFilter := buildBillingFilter(filter.Page, filter.PageSize, filter.OrderBy, filter.OrderDir, filter.Search)
	if filter.Status != "" {
		domainFilter.Filters["status"] = filter.Status
	}
	if filter.ClientID != nil {
		domainFilter.Filters["client_id"] = *filter.ClientID
	}

	invoices, err := s.invoiceRepo.FindAll(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	total, err := s.invoiceRepo.Count(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	return ToInvoiceResponses(invoices), total, nil
}

// Update updates a draft invoice
func (s *InvoiceService) Update(ctx context.Context, invoiceID uuid.UUID, req UpdateInvoiceRequest) (*InvoiceResponse, error) {
	invoice, err := s.invoiceRepo.FindByID(ctx, invoiceID)
	if err != nil {
		return nil, err
	}

	if req.Version != nil && *req.Version != invoice.Version {
		return nil, shared.ErrConcurrencyConflict
	}

	if len(req.Items) > 0 {
		if err := invoice.SetItems(toLineItemInputs(req.Items)); err != nil {
			return nil, err
		}
	}
	if req.TaxRate != nil {
		if err := invoice.SetTaxRate(*req.TaxRate); err != nil {
			return nil, err
		}
	}
	if req.DueDate != nil {
		if err := invoice.SetDueDate(req.DueDate); err != nil {
			return nil, err
		}
	}
	if req.Notes != nil {
		if err := invoice.SetNotes(*req.Notes); err != nil {
			return nil, err
		}
	}

	if err := s.invoiceRepo.SaveWithLock(ctx, invoice); err != nil {
		return nil, err
	}

	response := ToInvoiceResponse(invoice)
	return &response, nil
}

// Send marks an invoice as sent to the client
func (s *InvoiceService) Send(ctx context.Context, invoiceID uuid.UUID) (*InvoiceResponse, error) {
	invoice, err := s.invoiceRepo.FindByID(ctx, invoiceID)
	if err != nil {
		return nil, err
	}

	if err := invoice.Send(); err != nil {
		return nil, err
	}

	if err := s.invoiceRepo.SaveWithLock(ctx, invoice); err != nil {
		return nil, err
	}

	s.publishDomainEvents(ctx, &invoice.BaseAggregateRoot)

	response := ToInvoiceResponse(invoice)
	return &response, nil
}

// RecordPayment records a manual payment against an invoice. The payment
// cannot exceed the outstanding balance; full payment marks the invoice paid.
func (s *InvoiceService) RecordPayment(ctx context.Context, invoiceID uuid.UUID, req RecordPaymentRequest) (*InvoiceResponse, error) {
	invoice, err := s.invoiceRepo.FindByID(ctx, invoiceID)
	if err != nil {
		return nil, err
	}

	paidAt := time.Now()
	if req.PaidAt != nil {
		paidAt = *req.PaidAt
	}

	if err := invoice.RecordPayment(req.Amount, req.Method, req.Reference, paidAt, req.Notes); err != nil {
		return nil, err
	}

	// The balance check above ran against the loaded copy; the version guard
	// rejects a save over a payment recorded concurrently.
	if err := s.invoiceRepo.SaveWithLock(ctx, invoice); err != nil {
		return nil, err
	}

	s.publishDomainEvents(ctx, &invoice.BaseAggregateRoot)

	if s.businessMetrics != nil {
		s.businessMetrics.RecordPayment(ctx, req.Method)
	}

	response := ToInvoiceResponse(invoice)
	return &response, nil
}

// Void cancels an invoice that has not collected any payment
func (s *InvoiceService) Void(ctx context.Context, invoiceID uuid.UUID) (*InvoiceResponse, error) {
	invoice, err := s.invoiceRepo.FindByID(ctx, invoiceID)
	if err != nil {
		return nil, err
	}

	if err := invoice.Void(); err != nil {
		return nil, err
	}

	if err := s.invoiceRepo.SaveWithLock(ctx, invoice); err != nil {
		return nil, err
	}

	s.publishDomainEvents(ctx, &invoice.BaseAggregateRoot)

	response := ToInvoiceResponse(invoice)
	return &response, nil
}

// Delete permanently deletes a draft invoice
func (s *InvoiceService) Delete(ctx context.Context, invoiceID uuid.UUID) error {
	invoice, err := s.invoiceRepo.FindByID(ctx, invoiceID)
	if err != nil {
		return err
	}

	if invoice.Status != billing.InvoiceStatusDraft {
		return shared.NewDomainError("INVALID_STATE", "Only draft invoices can be deleted")
	}

	return s.invoiceRepo.Delete(ctx, invoiceID)
}

func (s *InvoiceService) publishDomainEvents(ctx context.Context, root *shared.BaseAggregateRoot) {
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
