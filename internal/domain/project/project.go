package project

import (
	"time"

	"github.com/bizhub/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// Status represents the lifecycle state of a project
type Status string

const (
	StatusPlanned   Status = "planned"
	StatusActive    Status = "active"
	StatusOnHold    Status = "on_hold"
	StatusCompleted Status = "completed"
	StatusCancelled Status = "cancelled"
)

// allowedTransitions maps each status to the statuses it may move to
var allowedTransitions = map[Status][]Status{
	StatusPlanned:   {StatusActive, StatusCancelled},
	StatusActive:    {StatusOnHold, StatusCompleted, StatusCancelled},
	StatusOnHold:    {StatusActive, StatusCancelled},
	StatusCompleted: {},
	StatusCancelled: {},
}

// Project represents a client job being executed
type Project struct {
	shared.BaseAggregateRoot
	Name       string     `gorm:"type:varchar(200);not null;index"`
	ClientID   uuid.UUID  `gorm:"type:uuid;not null;index"`
	ClientName string     `gorm:"type:varchar(200)"`
	Status     Status     `gorm:"type:varchar(20);not null;default:'planned';index"`
	StartDate  *time.Time `gorm:"type:date"`
	EndDate    *time.Time `gorm:"type:date"`
	Notes      string     `gorm:"type:text"`
}

// TableName returns the table name for GORM
func (Project) TableName() string {
	return "projects"
}

// NewProject creates a new planned project for a client
func NewProject(name string, clientID uuid.UUID, clientName string) (*Project, error) {
	if err := validateProjectName(name); err != nil {
		return nil, err
	}
	if clientID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_CLIENT", "Project requires a client")
	}

	return &Project{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Name:              name,
		ClientID:          clientID,
		ClientName:        clientName,
		Status:            StatusPlanned,
	}, nil
}

// Update updates the project's basic information
func (p *Project) Update(name, notes string) error {
	if err := validateProjectName(name); err != nil {
		return err
	}

	p.Name = name
	p.Notes = notes
	p.UpdatedAt = time.Now()
	p.IncrementVersion()

	return nil
}

// SetDates sets the planned start and end dates
func (p *Project) SetDates(start, end *time.Time) error {
	if start != nil && end != nil && end.Before(*start) {
		return shared.NewDomainError("INVALID_DATES", "End date cannot be before start date")
	}

	p.StartDate = start
	p.EndDate = end
	p.UpdatedAt = time.Now()
	p.IncrementVersion()

	return nil
}

// TransitionTo moves the project to a new status if the transition is allowed
func (p *Project) TransitionTo(target Status) error {
	if err := validateStatus(target); err != nil {
		return err
	}
	for _, allowed := range allowedTransitions[p.Status] {
		if allowed == target {
			p.Status = target
			p.UpdatedAt = time.Now()
			p.IncrementVersion()
			return nil
		}
	}
	return shared.NewDomainError("INVALID_STATE",
		"Project cannot move from '"+string(p.Status)+"' to '"+string(target)+"'")
}

// IsTerminal returns true if the project is in a final state
func (p *Project) IsTerminal() bool {
	return p.Status == StatusCompleted || p.Status == StatusCancelled
}

func validateProjectName(name string) error {
	if name == "" {
		return shared.NewDomainError("INVALID_NAME", "Project name cannot be empty")
	}
	if len(name) > 200 {
		return shared.NewDomainError("INVALID_NAME", "Project name cannot exceed 200 characters")
	}
	return nil
}

func validateStatus(s Status) error {
	switch s {
	case StatusPlanned, StatusActive, StatusOnHold, StatusCompleted, StatusCancelled:
		return nil
	default:
		return shared.NewDomainError("INVALID_STATUS", "Unknown project status")
	}
}
