package pipeline

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewOption(t *testing.T) {
	t.Run("creates stage option", func(t *testing.T) {
		option, err := NewOption(OptionKindStage, "Quoted", "#4f46e5", 2)

		require.NoError(t, err)
		assert.Equal(t, OptionKindStage, option.Kind)
		assert.Equal(t, "Quoted", option.Name)
		assert.Equal(t, "#4f46e5", option.Color)
		assert.Equal(t, 2, option.SortOrder)
		assert.True(t, option.IsStage())
		assert.Len(t, option.GetDomainEvents(), 1)
	})

	t.Run("creates label and source options", func(t *testing.T) {
		label, err := NewOption(OptionKindLabel, "Warm", "#f59e0b", 1)
		require.NoError(t, err)
		assert.False(t, label.IsStage())

		source, err := NewOption(OptionKindSource, "Website", "", 0)
		require.NoError(t, err)
		assert.Equal(t, OptionKindSource, source.Kind)
	})

	t.Run("fails with invalid kind", func(t *testing.T) {
		option, err := NewOption(OptionKind("bogus"), "X", "", 0)

		assert.Error(t, err)
		assert.Nil(t, option)
	})

	t.Run("fails with empty name", func(t *testing.T) {
		option, err := NewOption(OptionKindStage, "", "", 0)

		assert.Error(t, err)
		assert.Nil(t, option)
	})
}

func TestOptionRename(t *testing.T) {
	t.Run("renames and records old name in event", func(t *testing.T) {
		option, _ := NewOption(OptionKindStage, "Quoted", "", 0)
		option.ClearDomainEvents()

		err := option.Rename("Estimate Sent")

		require.NoError(t, err)
		assert.Equal(t, "Estimate Sent", option.Name)
		require.Len(t, option.GetDomainEvents(), 1)
		renamed, ok := option.GetDomainEvents()[0].(*OptionRenamedEvent)
		require.True(t, ok)
		assert.Equal(t, "Quoted", renamed.OldName)
		assert.Equal(t, "Estimate Sent", renamed.NewName)
	})

	t.Run("same name is a no-op", func(t *testing.T) {
		option, _ := NewOption(OptionKindStage, "Quoted", "", 0)
		option.ClearDomainEvents()
		version := option.Version

		err := option.Rename("Quoted")

		require.NoError(t, err)
		assert.Equal(t, version, option.Version)
		assert.Empty(t, option.GetDomainEvents())
	})

	t.Run("rejects empty name", func(t *testing.T) {
		option, _ := NewOption(OptionKindStage, "Quoted", "", 0)

		assert.Error(t, option.Rename(""))
	})
}
