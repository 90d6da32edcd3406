package pipeline

import (
	"time"

	"github.com/bizhub/backend/internal/domain/shared"
)

// OptionKind identifies which pipeline vocabulary an option belongs to
type OptionKind string

const (
	OptionKindStage  OptionKind = "stage"  // Pipeline stage (e.g. "New", "Quoted", "Scheduled")
	OptionKindLabel  OptionKind = "label"  // Temperature label (e.g. "Hot", "Warm", "Cold")
	OptionKindSource OptionKind = "source" // Lead source (e.g. "Referral", "Website")
)

// Option is a configurable pipeline vocabulary entry. Leads and deals
// reference options by ID and carry a denormalized copy of the name;
// renaming an option cascades the new name to referencing records.
type Option struct {
	shared.BaseAggregateRoot
	Kind      OptionKind `gorm:"type:varchar(20);not null;uniqueIndex:idx_option_kind_name,priority:1"`
	Name      string     `gorm:"type:varchar(100);not null;uniqueIndex:idx_option_kind_name,priority:2"`
	Color     string     `gorm:"type:varchar(20)"` // Hex color for UI chips
	SortOrder int        `gorm:"not null;default:0"`
}

// TableName returns the table name for GORM
func (Option) TableName() string {
	return "pipeline_options"
}

// NewOption creates a new pipeline vocabulary option
func NewOption(kind OptionKind, name, color string, sortOrder int) (*Option, error) {
	if err := validateOptionKind(kind); err != nil {
		return nil, err
	}
	if err := validateOptionName(name); err != nil {
		return nil, err
	}
	if err := validateColor(color); err != nil {
		return nil, err
	}

	option := &Option{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Kind:              kind,
		Name:              name,
		Color:             color,
		SortOrder:         sortOrder,
	}

	option.AddDomainEvent(NewOptionCreatedEvent(option))

	return option, nil
}

// Rename changes the display name. The persistence layer cascades the new
// name to every lead and deal that references this option.
func (o *Option) Rename(name string) error {
	if err := validateOptionName(name); err != nil {
		return err
	}
	if name == o.Name {
		return nil
	}

	oldName := o.Name
	o.Name = name
	o.UpdatedAt = time.Now()
	o.IncrementVersion()

	o.AddDomainEvent(NewOptionRenamedEvent(o, oldName))

	return nil
}

// SetColor sets the display color
func (o *Option) SetColor(color string) error {
	if err := validateColor(color); err != nil {
		return err
	}

	o.Color = color
	o.UpdatedAt = time.Now()
	o.IncrementVersion()

	return nil
}

// SetSortOrder sets the display order
func (o *Option) SetSortOrder(order int) {
	o.SortOrder = order
	o.UpdatedAt = time.Now()
	o.IncrementVersion()
}

// IsStage returns true if the option is a pipeline stage
func (o *Option) IsStage() bool {
	return o.Kind == OptionKindStage
}

// Validation functions

func validateOptionKind(kind OptionKind) error {
	switch kind {
	case OptionKindStage, OptionKindLabel, OptionKindSource:
		return nil
	default:
		return shared.NewDomainError("INVALID_KIND", "Option kind must be 'stage', 'label', or 'source'")
	}
}

func validateOptionName(name string) error {
	if name == "" {
		return shared.NewDomainError("INVALID_NAME", "Option name cannot be empty")
	}
	if len(name) > 100 {
		return shared.NewDomainError("INVALID_NAME", "Option name cannot exceed 100 characters")
	}
	return nil
}

func validateColor(color string) error {
	if color == "" {
		return nil
	}
	if len(color) > 20 {
		return shared.NewDomainError("INVALID_COLOR", "Color cannot exceed 20 characters")
	}
	return nil
}
