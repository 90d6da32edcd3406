package project

import (
	"context"

	"github.com/bizhub/backend/internal/domain/crm"
	"github.com/bizhub/backend/internal/domain/project"
	"github.com/bizhub/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// ProjectService handles project-related business operations
type ProjectService struct {
	projectRepo project.Repository
	clientRepo  crm.ClientRepository
}

// NewProjectService creates a new ProjectService
func NewProjectService(projectRepo project.Repository, clientRepo crm.ClientRepository) *ProjectService {
	return &ProjectService{
		projectRepo: projectRepo,
		clientRepo:  clientRepo,
	}
}

// Create creates a new project for a client
func (s *ProjectService) Create(ctx context.Context, req CreateProjectRequest) (*ProjectResponse, error) {
	client, err := s.clientRepo.FindByID(ctx, req.ClientID)
	if err != nil {
		return nil, err
	}

	proj, err := project.NewProject(req.Name, client.ID, client.Name)
	if err != nil {
		return nil, err
	}
	proj.CreatedBy = req.CreatedBy

	if req.StartDate != nil || req.EndDate != nil {
		if err := proj.SetDates(req.StartDate, req.EndDate); err != nil {
			return nil, err
		}
	}

	if req.Notes != "" {
		if err := proj.Update(proj.Name, req.Notes); err != nil {
			return nil, err
		}
	}

	if err := s.projectRepo.Save(ctx, proj); err != nil {
		return nil, err
	}

	response := ToProjectResponse(proj)
	return &response, nil
}

// GetByID retrieves a project by ID
func (s *ProjectService) GetByID(ctx context.Context, projectID uuid.UUID) (*ProjectResponse, error) {
	proj, err := s.projectRepo.FindByID(ctx, projectID)
	if err != nil {
		return nil, err
	}

	response := ToProjectResponse(proj)
	return &response, nil
}

// List retrieves projects with filtering and pagination
func (s *ProjectService) List(ctx context.Context, filter ProjectListFilter) ([]ProjectResponse, int64, error) {
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
	if filter.ClientID != nil {
		domainFilter.Filters["client_id"] = *filter.ClientID
	}

	projects, err := s.projectRepo.FindAll(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	total, err := s.projectRepo.Count(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	return ToProjectResponses(projects), total, nil
}

// Update updates a project's basic information and dates
func (s *ProjectService) Update(ctx context.Context, projectID uuid.UUID, req UpdateProjectRequest) (*ProjectResponse, error) {
	proj, err := s.projectRepo.FindByID(ctx, projectID)
	if err != nil {
		return nil, err
	}

	if req.Version != nil && *req.Version != proj.Version {
		return nil, shared.ErrConcurrencyConflict
	}

	name := proj.Name
	notes := proj.Notes
	if req.Name != "" {
		name = req.Name
	}
	if req.Notes != nil {
		notes = *req.Notes
	}
	if err := proj.Update(name, notes); err != nil {
		return nil, err
	}

	if req.ClearDates {
		if err := proj.SetDates(nil, nil); err != nil {
			return nil, err
		}
	} else if req.StartDate != nil || req.EndDate != nil {
		start := proj.StartDate
		end := proj.EndDate
		if req.StartDate != nil {
			start = req.StartDate
		}
		if req.EndDate != nil {
			end = req.EndDate
		}
		if err := proj.SetDates(start, end); err != nil {
			return nil, err
		}
	}

	if err := s.projectRepo.SaveWithLock(ctx, proj); err != nil {
		return nil, err
	}

	response := ToProjectResponse(proj)
	return &response, nil
}

// Transition moves a project to a new lifecycle status
func (s *ProjectService) Transition(ctx context.Context, projectID uuid.UUID, target project.Status) (*ProjectResponse, error) {
	proj, err := s.projectRepo.FindByID(ctx, projectID)
	if err != nil {
		return nil, err
	}

	if err := proj.TransitionTo(target); err != nil {
		return nil, err
	}

	if err := s.projectRepo.Save(ctx, proj); err != nil {
		return nil, err
	}

	response := ToProjectResponse(proj)
	return &response, nil
}

// Delete permanently deletes a project
func (s *ProjectService) Delete(ctx context.Context, projectID uuid.UUID) error {
	if _, err := s.projectRepo.FindByID(ctx, projectID); err != nil {
		return err
	}

	return s.projectRepo.Delete(ctx, projectID)
}
