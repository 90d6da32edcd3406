package assistant

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/bizhub/backend/internal/infrastructure/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(baseURL string) *Client {
	return NewClient(config.AssistantConfig{
		BaseURL:        baseURL,
		APIKey:         "test-key",
		Model:          "test-model",
		Timeout:        5 * time.Second,
		MaxRetries:     0,
		InitialBackoff: time.Millisecond,
	})
}

func TestClientComplete(t *testing.T) {
	t.Run("returns the completion content", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/v1/chat/completions", r.URL.Path)
			assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))

			var req completionRequest
			require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
			assert.Equal(t, "test-model", req.Model)
			assert.False(t, req.Stream)
			require.Len(t, req.Messages, 1)
			assert.Equal(t, "user", req.Messages[0].Role)

			w.Header().Set("Content-Type", "application/json")
			fmt.Fprint(w, `{
				"model": "test-model",
				"choices": [{"message": {"content": "Hello there"}}],
				"usage": {"total_tokens": 42}
			}`)
		}))
		defer server.Close()

		client := newTestClient(server.URL)

		completion, err := client.Complete(context.Background(), []Message{
			{Role: "user", Content: "Say hello"},
		})

		require.NoError(t, err)
		assert.Equal(t, "Hello there", completion.Content)
		assert.Equal(t, "test-model", completion.Model)
		assert.Equal(t, 42, completion.TokensUsed)
	})

	t.Run("non-200 is surfaced as unavailable", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadGateway)
		}))
		defer server.Close()

		client := newTestClient(server.URL)

		_, err := client.Complete(context.Background(), []Message{{Role: "user", Content: "hi"}})

		assert.ErrorIs(t, err, ErrUnavailable)
	})

	t.Run("breaker opens after repeated failures", func(t *testing.T) {
		var calls int
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			calls++
			w.WriteHeader(http.StatusInternalServerError)
		}))
		defer server.Close()

		client := newTestClient(server.URL)

		for i := 0; i < 10; i++ {
			_, err := client.Complete(context.Background(), []Message{{Role: "user", Content: "hi"}})
			assert.ErrorIs(t, err, ErrUnavailable)
		}

		// Once open, calls fail fast without reaching the server
		assert.Less(t, calls, 10)
	})
}

func TestClientStream(t *testing.T) {
	t.Run("delivers deltas until DONE", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			var req completionRequest
			require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
			assert.True(t, req.Stream)

			w.Header().Set("Content-Type", "text/event-stream")
			fmt.Fprint(w, "data: {\"choices\":[{\"delta\":{\"content\":\"Hel\"}}]}\n\n")
			fmt.Fprint(w, "data: {\"choices\":[{\"delta\":{\"content\":\"lo\"}}]}\n\n")
			fmt.Fprint(w, ": keep-alive comment\n\n")
			fmt.Fprint(w, "data: {\"choices\":[{\"delta\":{}}]}\n\n")
			fmt.Fprint(w, "data: [DONE]\n\n")
		}))
		defer server.Close()

		client := newTestClient(server.URL)

		var got string
		err := client.Stream(context.Background(), []Message{{Role: "user", Content: "hi"}}, func(delta string) error {
			got += delta
			return nil
		})

		require.NoError(t, err)
		assert.Equal(t, "Hello", got)
	})

	t.Run("callback error aborts the stream", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "text/event-stream")
			fmt.Fprint(w, "data: {\"choices\":[{\"delta\":{\"content\":\"x\"}}]}\n\n")
			fmt.Fprint(w, "data: {\"choices\":[{\"delta\":{\"content\":\"y\"}}]}\n\n")
			fmt.Fprint(w, "data: [DONE]\n\n")
		}))
		defer server.Close()

		client := newTestClient(server.URL)

		var deltas int
		err := client.Stream(context.Background(), []Message{{Role: "user", Content: "hi"}}, func(string) error {
			deltas++
			return context.Canceled
		})

		require.Error(t, err)
		assert.Equal(t, 1, deltas)
	})
}
