package pipeline

import (
	"context"

	"github.com/bizhub/backend/internal/domain/pipeline"
	"github.com/bizhub/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// OptionService manages the pipeline vocabulary (stages, labels, sources).
// Renames cascade the denormalized name columns on leads and deals; deletes
// are rejected while any lead or deal still references the option.
type OptionService struct {
	optionRepo     pipeline.OptionRepository
	leadRepo       pipeline.LeadRepository
	dealRepo       pipeline.DealRepository
	eventPublisher shared.EventPublisher
}

// NewOptionService creates a new OptionService
func NewOptionService(optionRepo pipeline.OptionRepository, leadRepo pipeline.LeadRepository, dealRepo pipeline.DealRepository) *OptionService {
	return &OptionService{
		optionRepo: optionRepo,
		leadRepo:   leadRepo,
		dealRepo:   dealRepo,
	}
}

// SetEventPublisher sets the event publisher for publishing domain events
func (s *OptionService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// Create creates a new vocabulary option of the given kind
func (s *OptionService) Create(ctx context.Context, kind pipeline.OptionKind, req CreateOptionRequest) (*OptionResponse, error) {
	exists, err := s.optionRepo.ExistsByName(ctx, kind, req.Name)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, shared.NewDomainError("ALREADY_EXISTS", "An option with this name already exists")
	}

	option, err := pipeline.NewOption(kind, req.Name, req.Color, req.SortOrder)
	if err != nil {
		return nil, err
	}

	if err := s.optionRepo.Save(ctx, option); err != nil {
		return nil, err
	}

	s.publishDomainEvents(ctx, &option.BaseAggregateRoot)

	response := ToOptionResponse(option)
	return &response, nil
}

// GetByID retrieves an option by ID
func (s *OptionService) GetByID(ctx context.Context, optionID uuid.UUID) (*OptionResponse, error) {
	option, err := s.optionRepo.FindByID(ctx, optionID)
	if err != nil {
		return nil, err
	}

	response := ToOptionResponse(option)
	return &response, nil
}

// ListByKind retrieves all options of a kind, ordered for display
func (s *OptionService) ListByKind(ctx context.Context, kind pipeline.OptionKind) ([]OptionResponse, error) {
	options, err := s.optionRepo.FindByKind(ctx, kind)
	if err != nil {
		return nil, err
	}

	return ToOptionResponses(options), nil
}

// Update updates an option. A rename is persisted with a cascade so every
// lead and deal referencing the option picks up the new name atomically.
func (s *OptionService) Update(ctx context.Context, optionID uuid.UUID, req UpdateOptionRequest) (*OptionResponse, error) {
	option, err := s.optionRepo.FindByID(ctx, optionID)
	if err != nil {
		return nil, err
	}

	renamed := false
	if req.Name != nil && *req.Name != option.Name {
		exists, err := s.optionRepo.ExistsByName(ctx, option.Kind, *req.Name)
		if err != nil {
			return nil, err
		}
		if exists {
			return nil, shared.NewDomainError("ALREADY_EXISTS", "An option with this name already exists")
		}
		if err := option.Rename(*req.Name); err != nil {
			return nil, err
		}
		renamed = true
	}

	if req.Color != nil {
		if err := option.SetColor(*req.Color); err != nil {
			return nil, err
		}
	}
	if req.SortOrder != nil {
		option.SetSortOrder(*req.SortOrder)
	}

	if renamed {
		err = s.optionRepo.SaveWithCascade(ctx, option)
	} else {
		err = s.optionRepo.Save(ctx, option)
	}
	if err != nil {
		return nil, err
	}

	s.publishDomainEvents(ctx, &option.BaseAggregateRoot)

	response := ToOptionResponse(option)
	return &response, nil
}

// Delete deletes an option. Rejected while any lead or deal references it.
func (s *OptionService) Delete(ctx context.Context, optionID uuid.UUID) error {
	option, err := s.optionRepo.FindByID(ctx, optionID)
	if err != nil {
		return err
	}

	leadCount, err := s.leadRepo.CountByOption(ctx, optionID)
	if err != nil {
		return err
	}
	dealCount, err := s.dealRepo.CountByOption(ctx, optionID)
	if err != nil {
		return err
	}
	if leadCount > 0 || dealCount > 0 {
		return shared.ErrReferenceInUse
	}

	if err := s.optionRepo.Delete(ctx, optionID); err != nil {
		return err
	}

	if s.eventPublisher != nil {
		_ = s.eventPublisher.Publish(ctx, pipeline.NewOptionDeletedEvent(option))
	}

	return nil
}

func (s *OptionService) publishDomainEvents(ctx context.Context, root *shared.BaseAggregateRoot) {
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
