package assistant

import (
	"context"
	"errors"
	"strings"

	"github.com/bizhub/backend/internal/domain/shared"
	infra "github.com/bizhub/backend/internal/infrastructure/assistant"
)

// CompletionClient is the upstream completion API. Satisfied by
// infrastructure/assistant.Client.
type CompletionClient interface {
	Complete(ctx context.Context, messages []infra.Message) (*infra.Completion, error)
	Stream(ctx context.Context, messages []infra.Message, onDelta func(delta string) error) error
}

// AssistantService proxies chat requests to the completion API
type AssistantService struct {
	client CompletionClient
}

// NewAssistantService creates an assistant application service
func NewAssistantService(client CompletionClient) *AssistantService {
	return &AssistantService{client: client}
}

// Chat sends the conversation and returns the full reply
func (s *AssistantService) Chat(ctx context.Context, req *ChatRequest) (*ChatResponse, error) {
	messages, err := toWireMessages(req)
	if err != nil {
		return nil, err
	}

	completion, err := s.client.Complete(ctx, messages)
	if err != nil {
		return nil, mapClientError(err)
	}

	return &ChatResponse{
		Reply:      completion.Content,
		Model:      completion.Model,
		TokensUsed: completion.TokensUsed,
	}, nil
}

// ChatStream sends the conversation and delivers the reply incrementally
// through onDelta
func (s *AssistantService) ChatStream(ctx context.Context, req *ChatRequest, onDelta func(delta string) error) error {
	messages, err := toWireMessages(req)
	if err != nil {
		return err
	}

	if err := s.client.Stream(ctx, messages, onDelta); err != nil {
		return mapClientError(err)
	}
	return nil
}

func toWireMessages(req *ChatRequest) ([]infra.Message, error) {
	if req == nil || len(req.Messages) == 0 {
		return nil, shared.NewDomainError("EMPTY_CONVERSATION", "at least one message is required")
	}

	messages := make([]infra.Message, 0, len(req.Messages))
	for _, m := range req.Messages {
		role := strings.ToLower(strings.TrimSpace(m.Role))
		switch role {
		case "system", "user", "assistant":
		default:
			return nil, shared.NewDomainError("INVALID_MESSAGE_ROLE", "message role must be system, user or assistant")
		}
		if strings.TrimSpace(m.Content) == "" {
			return nil, shared.NewDomainError("EMPTY_MESSAGE", "message content cannot be empty")
		}
		messages = append(messages, infra.Message{Role: role, Content: m.Content})
	}
	return messages, nil
}

func mapClientError(err error) error {
	if errors.Is(err, infra.ErrUnavailable) {
		return shared.NewDomainError("ASSISTANT_UNAVAILABLE", "assistant is temporarily unavailable")
	}
	return err
}
