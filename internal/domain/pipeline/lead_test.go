package pipeline

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLead(t *testing.T) {
	stage := newTestStage(t, "New")

	t.Run("creates lead successfully", func(t *testing.T) {
		lead, err := NewLead("Bathroom remodel", stage)

		require.NoError(t, err)
		assert.Equal(t, "Bathroom remodel", lead.Name)
		assert.Equal(t, stage.ID, lead.StageID)
		assert.Equal(t, "New", lead.StageName)
		assert.True(t, lead.Value.IsZero())
		assert.Nil(t, lead.LabelID)
		assert.Nil(t, lead.SourceID)
		assert.Len(t, lead.GetDomainEvents(), 1)
	})

	t.Run("fails with empty name", func(t *testing.T) {
		lead, err := NewLead("", stage)

		assert.Error(t, err)
		assert.Nil(t, lead)
	})

	t.Run("fails without stage", func(t *testing.T) {
		lead, err := NewLead("Bathroom remodel", nil)

		assert.Error(t, err)
		assert.Nil(t, lead)
	})
}

func TestLeadSetLabelAndSource(t *testing.T) {
	stage := newTestStage(t, "New")
	label, err := NewOption(OptionKindLabel, "Hot", "#ef4444", 0)
	require.NoError(t, err)
	source, err := NewOption(OptionKindSource, "Referral", "", 0)
	require.NoError(t, err)

	t.Run("sets and clears label", func(t *testing.T) {
		lead, _ := NewLead("Window install", stage)

		require.NoError(t, lead.SetLabel(label))
		require.NotNil(t, lead.LabelID)
		assert.Equal(t, label.ID, *lead.LabelID)
		assert.Equal(t, "Hot", lead.LabelName)

		require.NoError(t, lead.SetLabel(nil))
		assert.Nil(t, lead.LabelID)
		assert.Empty(t, lead.LabelName)
	})

	t.Run("sets and clears source", func(t *testing.T) {
		lead, _ := NewLead("Window install", stage)

		require.NoError(t, lead.SetSource(source))
		require.NotNil(t, lead.SourceID)
		assert.Equal(t, "Referral", lead.SourceName)

		require.NoError(t, lead.SetSource(nil))
		assert.Nil(t, lead.SourceID)
	})

	t.Run("rejects wrong option kind", func(t *testing.T) {
		lead, _ := NewLead("Window install", stage)

		assert.Error(t, lead.SetLabel(source))
		assert.Error(t, lead.SetSource(label))
	})
}

func TestLeadSetValue(t *testing.T) {
	stage := newTestStage(t, "New")
	lead, _ := NewLead("Garage door", stage)

	require.NoError(t, lead.SetValue(decimal.NewFromFloat(2500.50)))
	assert.True(t, lead.Value.Equal(decimal.NewFromFloat(2500.50)))

	assert.Error(t, lead.SetValue(decimal.NewFromInt(-5)))
}

func TestLeadAssignOwner(t *testing.T) {
	stage := newTestStage(t, "New")
	lead, _ := NewLead("Garage door", stage)
	ownerID := uuid.New()

	lead.AssignOwner(ownerID, "Sam Ortiz")

	require.NotNil(t, lead.OwnerID)
	assert.Equal(t, ownerID, *lead.OwnerID)
	assert.Equal(t, "Sam Ortiz", lead.OwnerName)
}

func TestLeadMoveToStage(t *testing.T) {
	stage := newTestStage(t, "New")
	quoted := newTestStage(t, "Quoted")
	lead, _ := NewLead("Garage door", stage)
	lead.ClearDomainEvents()

	require.NoError(t, lead.MoveToStage(quoted))

	assert.Equal(t, quoted.ID, lead.StageID)
	assert.Equal(t, "Quoted", lead.StageName)
	assert.Len(t, lead.GetDomainEvents(), 1)
}
