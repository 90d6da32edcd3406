package handler

import (
	"encoding/json"
	"fmt"

	"github.com/bizhub/backend/internal/application/assistant"
	"github.com/bizhub/backend/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
)

// AssistantHandler handles AI assistant endpoints
type AssistantHandler struct {
	BaseHandler
	assistantService *assistant.AssistantService
}

// NewAssistantHandler creates a new assistant handler
func NewAssistantHandler(assistantService *assistant.AssistantService) *AssistantHandler {
	return &AssistantHandler{assistantService: assistantService}
}

// Chat sends a conversation to the assistant and returns the full reply
// POST /api/v1/assistant/chat
func (h *AssistantHandler) Chat(c *gin.Context) {
	var req assistant.ChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	result, err := h.assistantService.Chat(c.Request.Context(), &req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}

// ChatStream sends a conversation to the assistant and streams the reply
// back as server-sent events. Each delta arrives as a "data:" line carrying
// a JSON object, terminated by a [DONE] marker.
// POST /api/v1/assistant/chat/stream
func (h *AssistantHandler) ChatStream(c *gin.Context) {
	var req assistant.ChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	c.Writer.Header().Set("Content-Type", "text/event-stream")
	c.Writer.Header().Set("Cache-Control", "no-cache")
	c.Writer.Header().Set("Connection", "keep-alive")
	c.Writer.Header().Set("X-Accel-Buffering", "no")
	c.Writer.WriteHeaderNow()

	err := h.assistantService.ChatStream(c.Request.Context(), &req, func(delta string) error {
		payload, err := json.Marshal(gin.H{"delta": delta})
		if err != nil {
			return err
		}
		if _, err := fmt.Fprintf(c.Writer, "data: %s\n\n", payload); err != nil {
			return err
		}
		c.Writer.Flush()
		return nil
	})
	if err != nil {
		// Headers are already out, so the error travels as an SSE event
		payload, _ := json.Marshal(gin.H{"error": err.Error()})
		fmt.Fprintf(c.Writer, "event: error\ndata: %s\n\n", payload)
		c.Writer.Flush()
		return
	}

	fmt.Fprint(c.Writer, "data: [DONE]\n\n")
	c.Writer.Flush()
}
