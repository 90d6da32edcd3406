package crm

import (
	"context"
	"testing"

	"github.com/bizhub/backend/internal/domain/crm"
	"github.com/bizhub/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// =============================================================================
// Mock Repositories
// =============================================================================

// MockClientRepository is a mock implementation of crm.ClientRepository
type MockClientRepository struct {
	mock.Mock
}

func (m *MockClientRepository) FindByID(ctx context.Context, id uuid.UUID) (*crm.Client, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*crm.Client), args.Error(1)
}

func (m *MockClientRepository) FindAll(ctx context.Context, filter shared.Filter) ([]crm.Client, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]crm.Client), args.Error(1)
}

func (m *MockClientRepository) FindByStatus(ctx context.Context, status crm.ClientStatus, filter shared.Filter) ([]crm.Client, error) {
	args := m.Called(ctx, status, filter)
	return args.Get(0).([]crm.Client), args.Error(1)
}

func (m *MockClientRepository) Save(ctx context.Context, client *crm.Client) error {
	args := m.Called(ctx, client)
	return args.Error(0)
}

func (m *MockClientRepository) SaveWithLock(ctx context.Context, client *crm.Client) error {
	args := m.Called(ctx, client)
	return args.Error(0)
}

func (m *MockClientRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockClientRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockClientRepository) CountByStatus(ctx context.Context, status crm.ClientStatus) (int64, error) {
	args := m.Called(ctx, status)
	return args.Get(0).(int64), args.Error(1)
}

// MockContactRepository is a mock implementation of crm.ContactRepository
type MockContactRepository struct {
	mock.Mock
}

func (m *MockContactRepository) FindByID(ctx context.Context, id uuid.UUID) (*crm.Contact, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*crm.Contact), args.Error(1)
}

func (m *MockContactRepository) FindByClient(ctx context.Context, clientID uuid.UUID, filter shared.Filter) ([]crm.Contact, error) {
	args := m.Called(ctx, clientID, filter)
	return args.Get(0).([]crm.Contact), args.Error(1)
}

func (m *MockContactRepository) Save(ctx context.Context, contact *crm.Contact) error {
	args := m.Called(ctx, contact)
	return args.Error(0)
}

func (m *MockContactRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockContactRepository) DeleteByClient(ctx context.Context, clientID uuid.UUID) error {
	args := m.Called(ctx, clientID)
	return args.Error(0)
}

func (m *MockContactRepository) CountByClient(ctx context.Context, clientID uuid.UUID) (int64, error) {
	args := m.Called(ctx, clientID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockContactRepository) ClearPrimary(ctx context.Context, clientID uuid.UUID) error {
	args := m.Called(ctx, clientID)
	return args.Error(0)
}

// =============================================================================
// ClientService Tests
// =============================================================================

func newClientService() (*ClientService, *MockClientRepository, *MockContactRepository) {
	clientRepo := new(MockClientRepository)
	contactRepo := new(MockContactRepository)
	return NewClientService(clientRepo, contactRepo), clientRepo, contactRepo
}

func TestClientServiceCreate(t *testing.T) {
	ctx := context.Background()

	t.Run("creates client with full details", func(t *testing.T) {
		service, clientRepo, _ := newClientService()
		clientRepo.On("Save", ctx, mock.AnythingOfType("*crm.Client")).Return(nil)

		resp, err := service.Create(ctx, CreateClientRequest{
			Name:    "Acme Construction",
			Type:    "company",
			Email:   "office@acme.example",
			Phone:   "+1 207 555 0101",
			Address: "12 Dock St",
			City:    "Portland",
		})

		require.NoError(t, err)
		assert.Equal(t, "Acme Construction", resp.Name)
		assert.Equal(t, "active", resp.Status)
		assert.Equal(t, "office@acme.example", resp.Email)
		clientRepo.AssertExpectations(t)
	})

	t.Run("rejects invalid type", func(t *testing.T) {
		service, _, _ := newClientService()

		resp, err := service.Create(ctx, CreateClientRequest{Name: "Acme", Type: "government"})

		assert.Error(t, err)
		assert.Nil(t, resp)
	})

	t.Run("rejects invalid email", func(t *testing.T) {
		service, _, _ := newClientService()

		_, err := service.Create(ctx, CreateClientRequest{Name: "Acme", Type: "company", Email: "nope"})

		assert.Error(t, err)
	})
}

func TestClientServiceUpdate(t *testing.T) {
	ctx := context.Background()

	t.Run("updates fields and saves with lock", func(t *testing.T) {
		service, clientRepo, _ := newClientService()
		existing, _ := crm.NewClient("Acme", crm.ClientTypeCompany)
		clientRepo.On("FindByID", ctx, existing.ID).Return(existing, nil)
		clientRepo.On("SaveWithLock", ctx, existing).Return(nil)

		name := "Acme Construction LLC"
		resp, err := service.Update(ctx, existing.ID, UpdateClientRequest{Name: &name})

		require.NoError(t, err)
		assert.Equal(t, "Acme Construction LLC", resp.Name)
		clientRepo.AssertExpectations(t)
	})

	t.Run("rejects stale version", func(t *testing.T) {
		service, clientRepo, _ := newClientService()
		existing, _ := crm.NewClient("Acme", crm.ClientTypeCompany)
		existing.IncrementVersion()
		clientRepo.On("FindByID", ctx, existing.ID).Return(existing, nil)

		stale := existing.Version - 1
		_, err := service.Update(ctx, existing.ID, UpdateClientRequest{Version: &stale})

		assert.ErrorIs(t, err, shared.ErrConcurrencyConflict)
	})

	t.Run("propagates not found", func(t *testing.T) {
		service, clientRepo, _ := newClientService()
		id := uuid.New()
		clientRepo.On("FindByID", ctx, id).Return(nil, shared.ErrNotFound)

		_, err := service.Update(ctx, id, UpdateClientRequest{})

		assert.ErrorIs(t, err, shared.ErrNotFound)
	})
}

func TestClientServiceDelete(t *testing.T) {
	ctx := context.Background()

	t.Run("removes contacts then client", func(t *testing.T) {
		service, clientRepo, contactRepo := newClientService()
		existing, _ := crm.NewClient("Acme", crm.ClientTypeCompany)
		clientRepo.On("FindByID", ctx, existing.ID).Return(existing, nil)
		contactRepo.On("DeleteByClient", ctx, existing.ID).Return(nil)
		clientRepo.On("Delete", ctx, existing.ID).Return(nil)

		err := service.Delete(ctx, existing.ID)

		require.NoError(t, err)
		contactRepo.AssertExpectations(t)
		clientRepo.AssertExpectations(t)
	})
}

func TestClientServiceArchive(t *testing.T) {
	ctx := context.Background()
	service, clientRepo, _ := newClientService()
	existing, _ := crm.NewClient("Acme", crm.ClientTypeCompany)
	clientRepo.On("FindByID", ctx, existing.ID).Return(existing, nil)
	clientRepo.On("Save", ctx, existing).Return(nil)

	resp, err := service.Archive(ctx, existing.ID)

	require.NoError(t, err)
	assert.Equal(t, "archived", resp.Status)
}

// =============================================================================
// ContactService Tests
// =============================================================================

func TestContactServiceCreate(t *testing.T) {
	ctx := context.Background()
	client, _ := crm.NewClient("Acme", crm.ClientTypeCompany)

	t.Run("creates primary contact and clears previous primary", func(t *testing.T) {
		clientRepo := new(MockClientRepository)
		contactRepo := new(MockContactRepository)
		service := NewContactService(contactRepo, clientRepo)

		clientRepo.On("FindByID", ctx, client.ID).Return(client, nil)
		contactRepo.On("ClearPrimary", ctx, client.ID).Return(nil)
		contactRepo.On("Save", ctx, mock.AnythingOfType("*crm.Contact")).Return(nil)

		resp, err := service.Create(ctx, client.ID, CreateContactRequest{
			FirstName: "Dana",
			LastName:  "Reyes",
			IsPrimary: true,
		})

		require.NoError(t, err)
		assert.Equal(t, "Dana Reyes", resp.FullName)
		assert.True(t, resp.IsPrimary)
		contactRepo.AssertExpectations(t)
	})

	t.Run("fails when client does not exist", func(t *testing.T) {
		clientRepo := new(MockClientRepository)
		contactRepo := new(MockContactRepository)
		service := NewContactService(contactRepo, clientRepo)

		missing := uuid.New()
		clientRepo.On("FindByID", ctx, missing).Return(nil, shared.ErrNotFound)

		_, err := service.Create(ctx, missing, CreateContactRequest{FirstName: "Dana"})

		assert.ErrorIs(t, err, shared.ErrNotFound)
	})
}
