package assistant_test

import (
	"context"
	"errors"
	"testing"

	"github.com/bizhub/backend/internal/application/assistant"
	"github.com/bizhub/backend/internal/domain/shared"
	infra "github.com/bizhub/backend/internal/infrastructure/assistant"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockCompletionClient struct {
	mock.Mock
}

func (m *MockCompletionClient) Complete(ctx context.Context, messages []infra.Message) (*infra.Completion, error) {
	args := m.Called(ctx, messages)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*infra.Completion), args.Error(1)
}

func (m *MockCompletionClient) Stream(ctx context.Context, messages []infra.Message, onDelta func(delta string) error) error {
	args := m.Called(ctx, messages, onDelta)
	return args.Error(0)
}

func domainErrorCode(t *testing.T, err error) string {
	t.Helper()
	var domainErr *shared.DomainError
	require.ErrorAs(t, err, &domainErr)
	return domainErr.Code
}

func TestAssistantServiceChat(t *testing.T) {
	ctx := context.Background()

	t.Run("returns the reply", func(t *testing.T) {
		client := new(MockCompletionClient)
		service := assistant.NewAssistantService(client)

		client.On("Complete", ctx, []infra.Message{
			{Role: "system", Content: "You are helpful"},
			{Role: "user", Content: "Summarize my open deals"},
		}).Return(&infra.Completion{Content: "You have 4 open deals", Model: "gpt-4o-mini", TokensUsed: 120}, nil)

		resp, err := service.Chat(ctx, &assistant.ChatRequest{
			Messages: []assistant.ChatMessage{
				{Role: "system", Content: "You are helpful"},
				{Role: "user", Content: "Summarize my open deals"},
			},
		})

		require.NoError(t, err)
		assert.Equal(t, "You have 4 open deals", resp.Reply)
		assert.Equal(t, "gpt-4o-mini", resp.Model)
		assert.Equal(t, 120, resp.TokensUsed)
		client.AssertExpectations(t)
	})

	t.Run("normalizes message roles", func(t *testing.T) {
		client := new(MockCompletionClient)
		service := assistant.NewAssistantService(client)

		client.On("Complete", ctx, []infra.Message{{Role: "user", Content: "hi"}}).
			Return(&infra.Completion{Content: "hello"}, nil)

		_, err := service.Chat(ctx, &assistant.ChatRequest{
			Messages: []assistant.ChatMessage{{Role: " User ", Content: "hi"}},
		})

		require.NoError(t, err)
		client.AssertExpectations(t)
	})

	t.Run("rejects empty conversation", func(t *testing.T) {
		client := new(MockCompletionClient)
		service := assistant.NewAssistantService(client)

		_, err := service.Chat(ctx, &assistant.ChatRequest{})

		assert.Equal(t, "EMPTY_CONVERSATION", domainErrorCode(t, err))
		client.AssertNotCalled(t, "Complete", mock.Anything, mock.Anything)
	})

	t.Run("rejects unknown role", func(t *testing.T) {
		client := new(MockCompletionClient)
		service := assistant.NewAssistantService(client)

		_, err := service.Chat(ctx, &assistant.ChatRequest{
			Messages: []assistant.ChatMessage{{Role: "moderator", Content: "hi"}},
		})

		assert.Equal(t, "INVALID_MESSAGE_ROLE", domainErrorCode(t, err))
	})

	t.Run("rejects blank content", func(t *testing.T) {
		client := new(MockCompletionClient)
		service := assistant.NewAssistantService(client)

		_, err := service.Chat(ctx, &assistant.ChatRequest{
			Messages: []assistant.ChatMessage{{Role: "user", Content: "   "}},
		})

		assert.Equal(t, "EMPTY_MESSAGE", domainErrorCode(t, err))
	})

	t.Run("maps unavailable upstream to domain error", func(t *testing.T) {
		client := new(MockCompletionClient)
		service := assistant.NewAssistantService(client)

		client.On("Complete", ctx, mock.Anything).Return(nil, infra.ErrUnavailable)

		_, err := service.Chat(ctx, &assistant.ChatRequest{
			Messages: []assistant.ChatMessage{{Role: "user", Content: "hi"}},
		})

		assert.Equal(t, "ASSISTANT_UNAVAILABLE", domainErrorCode(t, err))
	})

	t.Run("passes through unexpected errors", func(t *testing.T) {
		client := new(MockCompletionClient)
		service := assistant.NewAssistantService(client)

		boom := errors.New("boom")
		client.On("Complete", ctx, mock.Anything).Return(nil, boom)

		_, err := service.Chat(ctx, &assistant.ChatRequest{
			Messages: []assistant.ChatMessage{{Role: "user", Content: "hi"}},
		})

		assert.ErrorIs(t, err, boom)
	})
}

func TestAssistantServiceChatStream(t *testing.T) {
	ctx := context.Background()

	t.Run("delivers deltas through the callback", func(t *testing.T) {
		client := new(MockCompletionClient)
		service := assistant.NewAssistantService(client)

		client.On("Stream", ctx, []infra.Message{{Role: "user", Content: "hi"}}, mock.Anything).
			Run(func(args mock.Arguments) {
				onDelta := args.Get(2).(func(delta string) error)
				_ = onDelta("Hel")
				_ = onDelta("lo")
			}).
			Return(nil)

		var got string
		err := service.ChatStream(ctx, &assistant.ChatRequest{
			Messages: []assistant.ChatMessage{{Role: "user", Content: "hi"}},
		}, func(delta string) error {
			got += delta
			return nil
		})

		require.NoError(t, err)
		assert.Equal(t, "Hello", got)
	})

	t.Run("validates before calling upstream", func(t *testing.T) {
		client := new(MockCompletionClient)
		service := assistant.NewAssistantService(client)

		err := service.ChatStream(ctx, &assistant.ChatRequest{}, func(string) error { return nil })

		assert.Equal(t, "EMPTY_CONVERSATION", domainErrorCode(t, err))
		client.AssertNotCalled(t, "Stream", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("maps unavailable upstream to domain error", func(t *testing.T) {
		client := new(MockCompletionClient)
		service := assistant.NewAssistantService(client)

		client.On("Stream", ctx, mock.Anything, mock.Anything).Return(infra.ErrUnavailable)

		err := service.ChatStream(ctx, &assistant.ChatRequest{
			Messages: []assistant.ChatMessage{{Role: "user", Content: "hi"}},
		}, func(string) error { return nil })

		assert.Equal(t, "ASSISTANT_UNAVAILABLE", domainErrorCode(t, err))
	})
}
