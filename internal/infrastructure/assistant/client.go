package assistant

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/bizhub/backend/internal/infrastructure/config"
	"github.com/sony/gobreaker"
)

// ErrUnavailable is returned when the completion API is unreachable or the
// circuit breaker is open.
var ErrUnavailable = errors.New("completion API unavailable")

// Message is a single turn of a chat conversation
type Message struct {
	Role    string `json:"role"` // system, user, assistant
	Content string `json:"content"`
}

// Completion is a finished chat completion
type Completion struct {
	Content    string
	Model      string
	TokensUsed int
}

// Client calls an OpenAI-compatible chat-completion API. Calls go through a
// circuit breaker so a dead upstream fails fast instead of holding request
// slots for the full timeout.
type Client struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
	model      string
	cb         *gobreaker.CircuitBreaker
	retry      RetryConfig
}

// NewClient creates a completion client from configuration
func NewClient(cfg config.AssistantConfig) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: cfg.Timeout},
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		apiKey:     cfg.APIKey,
		model:      cfg.Model,
		cb:         newCircuitBreaker("assistant-completion"),
		retry: RetryConfig{
			MaxRetries:     cfg.MaxRetries,
			InitialBackoff: cfg.InitialBackoff,
		},
	}
}

// wire types for the OpenAI-compatible completion endpoint

type completionRequest struct {
	Model    string    `json:"model"`
	Messages []Message `json:"messages"`
	Stream   bool      `json:"stream,omitempty"`
}

type completionResponse struct {
	Model   string `json:"model"`
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Usage struct {
		TotalTokens int `json:"total_tokens"`
	} `json:"usage"`
}

type streamChunk struct {
	Choices []struct {
		Delta struct {
			Content string `json:"content"`
		} `json:"delta"`
	} `json:"choices"`
}

// Complete sends the conversation and returns the full completion
func (c *Client) Complete(ctx context.Context, messages []Message) (*Completion, error) {
	var completion *Completion

	_, err := c.cb.Execute(func() (any, error) {
		return nil, retryWithBackoff(ctx, c.retry, func() error {
			resp, err := c.post(ctx, messages, false)
			if err != nil {
				return err
			}
			defer resp.Body.Close()

			if resp.StatusCode != http.StatusOK {
				return fmt.Errorf("completion API returned status %d", resp.StatusCode)
			}

			var body completionResponse
			if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
				return fmt.Errorf("decode completion response: %w", err)
			}
			if len(body.Choices) == 0 {
				return errors.New("completion response has no choices")
			}

			completion = &Completion{
				Content:    body.Choices[0].Message.Content,
				Model:      body.Model,
				TokensUsed: body.Usage.TotalTokens,
			}
			return nil
		})
	})
	if err != nil {
		return nil, c.wrapError(err)
	}

	return completion, nil
}

// Stream sends the conversation and invokes onDelta for each content chunk
// of the SSE stream. Streaming calls are not retried; a failure mid-stream
// would replay already-delivered content.
func (c *Client) Stream(ctx context.Context, messages []Message, onDelta func(delta string) error) error {
	_, err := c.cb.Execute(func() (any, error) {
		resp, err := c.post(ctx, messages, true)
		if err != nil {
			return nil, err
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			return nil, fmt.Errorf("completion API returned status %d", resp.StatusCode)
		}

		return nil, decodeSSE(resp.Body, onDelta)
	})
	if err != nil {
		return c.wrapError(err)
	}
	return nil
}

func (c *Client) post(ctx context.Context, messages []Message, stream bool) (*http.Response, error) {
	body, err := json.Marshal(completionRequest{
		Model:    c.model,
		Messages: messages,
		Stream:   stream,
	})
	if err != nil {
		return nil, fmt.Errorf("marshal completion request: %w", err)
	}

	url := c.baseURL + "/v1/chat/completions"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create completion request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}
	if stream {
		req.Header.Set("Accept", "text/event-stream")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("completion API call: %w", err)
	}
	return resp, nil
}

// decodeSSE reads "data: {...}" lines until the [DONE] terminator
func decodeSSE(body io.Reader, onDelta func(string) error) error {
	scanner := bufio.NewScanner(body)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if !strings.HasPrefix(line, "data:") {
			continue
		}
		data := strings.TrimSpace(strings.TrimPrefix(line, "data:"))
		if data == "" {
			continue
		}
		if data == "[DONE]" {
			return nil
		}

		var chunk streamChunk
		if err := json.Unmarshal([]byte(data), &chunk); err != nil {
			return fmt.Errorf("decode stream chunk: %w", err)
		}
		if len(chunk.Choices) == 0 {
			continue
		}
		if delta := chunk.Choices[0].Delta.Content; delta != "" {
			if err := onDelta(delta); err != nil {
				return err
			}
		}
	}
	return scanner.Err()
}

func (c *Client) wrapError(err error) error {
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return fmt.Errorf("%w: circuit breaker open", ErrUnavailable)
	}
	return fmt.Errorf("%w: %v", ErrUnavailable, err)
}
