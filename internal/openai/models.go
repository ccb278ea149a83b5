package openai

import (
	"fmt"
)

// Message represents a chat message
type Message struct {
	Role    string `json:"role"` // user, assistant, or system
	Content string `json:"content"`
}

// ResponseFormat constrains the shape of the completion output
type ResponseFormat struct {
	Type string `json:"type"` // e.g. "json_object"
}

// ChatRequest represents a chat completion request
type ChatRequest struct {
	Model          string          `json:"model"`                     // Model identifier (e.g. "gpt-4.1-nano")
	Messages       []Message       `json:"messages"`                  // Chat history messages
	MaxTokens      int             `json:"max_tokens,omitempty"`      // Maximum tokens to generate
	Temperature    *float64        `json:"temperature,omitempty"`     // Controls randomness
	TopP           *float64        `json:"top_p,omitempty"`           // Nucleus sampling parameter
	Stream         bool            `json:"stream,omitempty"`          // Whether to stream the response
	Stop           []string        `json:"stop,omitempty"`            // Sequences that cause generation to stop
	ResponseFormat *ResponseFormat `json:"response_format,omitempty"` // Constrained output shape
}

// Choice represents a single completion choice in a response
type Choice struct {
	Index        int     `json:"index"`
	Message      Message `json:"message"`
	FinishReason string  `json:"finish_reason,omitempty"`
}

// ChatResponse represents a response from the chat completions endpoint
type ChatResponse struct {
	ID      string     `json:"id,omitempty"`      // Response ID
	Object  string     `json:"object,omitempty"`  // Object type ("chat.completion")
	Model   string     `json:"model,omitempty"`   // Model used
	Created int64      `json:"created,omitempty"` // Creation timestamp
	Choices []Choice   `json:"choices"`           // Completion choices
	Usage   *UsageInfo `json:"usage,omitempty"`   // Token usage information
}

// FirstContent returns the text content of the first completion choice.
// Returns an error when the response carries no choices.
func (r *ChatResponse) FirstContent() (string, error) {
	if len(r.Choices) == 0 {
		return "", fmt.Errorf("completion response contains no choices")
	}
	return r.Choices[0].Message.Content, nil
}

// UsageInfo contains token usage information for a request
type UsageInfo struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

// APIError represents an error response from the API
type APIError struct {
	StatusCode   int `json:"-"`
	ErrorDetails struct {
		Message string `json:"message"` // Error message
		Type    string `json:"type"`    // Error type
		Param   string `json:"param"`   // Offending parameter, if any
		Code    any    `json:"code"`    // Provider-specific error code
	} `json:"error"`
}

// Error implements the error interface for APIError
func (e *APIError) Error() string {
	return fmt.Sprintf("%s: %s", e.ErrorDetails.Type, e.ErrorDetails.Message)
}

// Float64Ptr creates a float64 pointer from a value
func Float64Ptr(v float64) *float64 {
	return &v
}
