package project

import (
	"time"

	"github.com/bizhub/backend/internal/domain/project"
	"github.com/google/uuid"
)

// CreateProjectRequest represents a request to create a project
type CreateProjectRequest struct {
	Name      string     `json:"name" binding:"required,max=200"`
	ClientID  uuid.UUID  `json:"client_id" binding:"required"`
	StartDate *time.Time `json:"start_date"`
	EndDate   *time.Time `json:"end_date"`
	Notes     string     `json:"notes"`
	CreatedBy *uuid.UUID `json:"-"`
}

// UpdateProjectRequest represents a request to update a project
type UpdateProjectRequest struct {
	Name       string     `json:"name" binding:"omitempty,max=200"`
	Notes      *string    `json:"notes"`
	StartDate  *time.Time `json:"start_date"`
	EndDate    *time.Time `json:"end_date"`
	ClearDates bool       `json:"clear_dates"`
	Version    *int       `json:"version"`
}

// TransitionRequest represents a request to change a project's status
type TransitionRequest struct {
	Status string `json:"status" binding:"required,oneof=planned active on_hold completed cancelled"`
}

// ProjectResponse represents a project in API responses
type ProjectResponse struct {
	ID         uuid.UUID  `json:"id"`
	Name       string     `json:"name"`
	ClientID   uuid.UUID  `json:"client_id"`
	ClientName string     `json:"client_name"`
	Status     string     `json:"status"`
	StartDate  *time.Time `json:"start_date,omitempty"`
	EndDate    *time.Time `json:"end_date,omitempty"`
	Notes      string     `json:"notes,omitempty"`
	Version    int        `json:"version"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`
}

// ProjectListFilter represents filtering options for project queries
type ProjectListFilter struct {
	Page     int        `form:"page"`
	PageSize int        `form:"page_size"`
	OrderBy  string     `form:"order_by"`
	OrderDir string     `form:"order_dir"`
	Search   string     `form:"search"`
	Status   string     `form:"status" binding:"omitempty,oneof=planned active on_hold completed cancelled"`
	ClientID *uuid.UUID `form:"client_id"`
}

// ToProjectResponse converts a project aggregate to a response DTO
func ToProjectResponse(p *project.Project) ProjectResponse {
	return ProjectResponse{
		ID:         p.ID,
		Name:       p.Name,
		ClientID:   p.ClientID,
		ClientName: p.ClientName,
		Status:     string(p.Status),
		StartDate:  p.StartDate,
		EndDate:    p.EndDate,
		Notes:      p.Notes,
		Version:    p.Version,
		CreatedAt:  p.CreatedAt,
		UpdatedAt:  p.UpdatedAt,
	}
}

// ToProjectResponses converts a slice of projects to response DTOs
func ToProjectResponses(projects []project.Project) []ProjectResponse {
	responses := make([]ProjectResponse, len(projects))
	for i := range projects {
		responses[i] = ToProjectResponse(&projects[i])
	}
	return responses
}
