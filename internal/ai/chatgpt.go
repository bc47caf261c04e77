package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/example/deutschbot/pkg/models"
)

// Options control a single chat completion request
type Options struct {
	Temperature float64
	MaxTokens   int
}

// Client is the narrow contract the conversation session depends on.
// Tests substitute a mock implementation.
type Client interface {
	Chat(ctx context.Context, messages []models.ConversationMessage, opts Options) (string, error)
}

// ChatGPT represents a client for the OpenAI chat completions API
type ChatGPT struct {
	apiKey     string
	apiURL     string
	model      string
	httpClient *http.Client
}

// New creates a new ChatGPT client
func New() (*ChatGPT, error) {
	apiKey := os.Getenv("OPENAI_API_KEY")
	if apiKey == "" {
		return nil, fmt.Errorf("OPENAI_API_KEY environment variable is not set")
	}

	return &ChatGPT{
		apiKey:     apiKey,
		apiURL:     "https://api.openai.com/v1/chat/completions",
		model:      "gpt-4o",
		httpClient: &http.Client{Timeout: 60 * time.Second},
	}, nil
}

// Message represents a message in the chat completion request
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// ChatRequest represents a request to the chat completions API
type ChatRequest struct {
	Model       string    `json:"model"`
	Messages    []Message `json:"messages"`
	MaxTokens   int       `json:"max_tokens"`
	Temperature float64   `json:"temperature"`
}

// ChatResponse represents a response from the chat completions API
type ChatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

// Chat sends the full role-tagged message sequence and returns the assistant reply
func (c *ChatGPT) Chat(ctx context.Context, messages []models.ConversationMessage, opts Options) (string, error) {
	apiMessages := make([]Message, 0, len(messages))
	for _, m := range messages {
		apiMessages = append(apiMessages, Message{Role: m.Role, Content: m.Content})
	}

	request := ChatRequest{
		Model:       c.model,
		Messages:    apiMessages,
		MaxTokens:   opts.MaxTokens,
		Temperature: opts.Temperature,
	}

	requestData, err := json.Marshal(request)
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %v", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", c.apiURL, bytes.NewBuffer(requestData))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %v", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to send request: %v", err)
	}
	defer resp.Body.Close()

	var response ChatResponse
	if err := json.NewDecoder(resp.Body).Decode(&response); err != nil {
		return "", fmt.Errorf("failed to decode response: %v", err)
	}

	if response.Error != nil {
		return "", fmt.Errorf("API error: %s", response.Error.Message)
	}

	if len(response.Choices) == 0 {
		return "", fmt.Errorf("no response choices returned")
	}

	return strings.TrimSpace(response.Choices[0].Message.Content), nil
}
