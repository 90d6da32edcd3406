package project

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewProject(t *testing.T) {
	clientID := uuid.New()

	t.Run("creates planned project", func(t *testing.T) {
		p, err := NewProject("Warehouse refit", clientID, "Acme Construction")

		require.NoError(t, err)
		assert.Equal(t, "Warehouse refit", p.Name)
		assert.Equal(t, clientID, p.ClientID)
		assert.Equal(t, StatusPlanned, p.Status)
		assert.False(t, p.IsTerminal())
	})

	t.Run("fails with empty name", func(t *testing.T) {
		p, err := NewProject("", clientID, "Acme")

		assert.Error(t, err)
		assert.Nil(t, p)
	})

	t.Run("fails without client", func(t *testing.T) {
		p, err := NewProject("Warehouse refit", uuid.Nil, "")

		assert.Error(t, err)
		assert.Nil(t, p)
	})
}

func TestProjectTransitions(t *testing.T) {
	clientID := uuid.New()

	tests := []struct {
		name    string
		path    []Status
		wantErr bool
	}{
		{"planned to active", []Status{StatusActive}, false},
		{"planned to cancelled", []Status{StatusCancelled}, false},
		{"planned straight to completed", []Status{StatusCompleted}, true},
		{"active to on hold and back", []Status{StatusActive, StatusOnHold, StatusActive}, false},
		{"active to completed", []Status{StatusActive, StatusCompleted}, false},
		{"completed is terminal", []Status{StatusActive, StatusCompleted, StatusActive}, true},
		{"cancelled is terminal", []Status{StatusCancelled, StatusActive}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := NewProject("Job", clientID, "Client")
			require.NoError(t, err)

			var lastErr error
			for _, target := range tt.path {
				lastErr = p.TransitionTo(target)
				if lastErr != nil {
					break
				}
			}

			if tt.wantErr {
				assert.Error(t, lastErr)
			} else {
				assert.NoError(t, lastErr)
				assert.Equal(t, tt.path[len(tt.path)-1], p.Status)
			}
		})
	}
}

func TestProjectSetDates(t *testing.T) {
	p, _ := NewProject("Job", uuid.New(), "Client")
	start := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2026, 4, 15, 0, 0, 0, 0, time.UTC)

	t.Run("valid range", func(t *testing.T) {
		require.NoError(t, p.SetDates(&start, &end))
		assert.Equal(t, &start, p.StartDate)
	})

	t.Run("end before start rejected", func(t *testing.T) {
		bad := start.AddDate(0, -1, 0)
		assert.Error(t, p.SetDates(&start, &bad))
	})

	t.Run("open-ended allowed", func(t *testing.T) {
		require.NoError(t, p.SetDates(&start, nil))
		assert.Nil(t, p.EndDate)
	})
}
