package assistant

// ChatMessage is a single turn supplied by the caller
type ChatMessage struct {
	Role    string `json:"role" binding:"required,oneof=system user assistant"`
	Content string `json:"content" binding:"required"`
}

// ChatRequest asks the assistant for a completion of the conversation
type ChatRequest struct {
	Messages []ChatMessage `json:"messages" binding:"required,min=1,dive"`
}

// ChatResponse is the assistant's reply
type ChatResponse struct {
	Reply      string `json:"reply"`
	Model      string `json:"model"`
	TokensUsed int    `json:"tokens_used"`
}
