package completion

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Base URLs of the OpenAI-compatible providers.
const (
	GroqBaseURL       = "https://api.groq.com/openai/v1"
	OpenRouterBaseURL = "https://openrouter.ai/api/v1"
	OpenAIBaseURL     = "https://api.openai.com/v1"
)

// DefaultModel is the model used when none is configured.
const DefaultModel = "llama-3.1-8b-instant"

// OpenAIService calls a /chat/completions endpoint.
type OpenAIService struct {
	name    string
	apiKey  string
	baseURL string
	model   string
	client  *http.Client
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
	MaxTokens   int           `json:"max_tokens,omitempty"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// NewOpenAIService creates a client for an OpenAI-compatible provider.
// An empty baseURL selects Groq; an empty model selects DefaultModel.
func NewOpenAIService(name, apiKey, baseURL, model string, timeout time.Duration) *OpenAIService {
	if name == "" {
		name = "groq"
	}
	if baseURL == "" {
		baseURL = GroqBaseURL
	}
	if model == "" {
		model = DefaultModel
	}
	if timeout <= 0 {
		timeout = 120 * time.Second
	}
	return &OpenAIService{
		name:    name,
		apiKey:  apiKey,
		baseURL: baseURL,
		model:   model,
		client:  &http.Client{Timeout: timeout},
	}
}

func (s *OpenAIService) Name() string {
	return s.name
}

func (s *OpenAIService) Complete(ctx context.Context, req Request) (string, error) {
	if s.apiKey == "" {
		return "", &TransportError{Service: s.name, Err: errors.New("API key required")}
	}

	model := req.Model
	if model == "" {
		model = s.model
	}

	body := chatRequest{
		Model: model,
		Messages: []chatMessage{
			{Role: "system", Content: req.SystemRole},
			{Role: "user", Content: req.UserPrompt},
		},
		Temperature: req.Temperature,
		MaxTokens:   req.MaxTokens,
	}

	jsonData, err := json.Marshal(body)
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, fmt.Sprintf("%s/chat/completions", s.baseURL), bytes.NewBuffer(jsonData))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}

	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", fmt.Sprintf("Bearer %s", s.apiKey))
	if s.baseURL == OpenRouterBaseURL {
		httpReq.Header.Set("HTTP-Referer", "https://edugen.local")
		httpReq.Header.Set("X-Title", "edugen")
	}

	resp, err := s.client.Do(httpReq)
	if err != nil {
		return "", &TransportError{Service: s.name, Err: fmt.Errorf("request failed: %w", err)}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return "", &TransportError{Service: s.name, StatusCode: resp.StatusCode, Err: fmt.Errorf("API error: %s", bytes.TrimSpace(msg))}
	}

	var chatResp chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&chatResp); err != nil {
		return "", &TransportError{Service: s.name, Err: fmt.Errorf("failed to decode response: %w", err)}
	}

	if len(chatResp.Choices) == 0 {
		return "", &TransportError{Service: s.name, Err: errors.New("empty response from API")}
	}

	return chatResp.Choices[0].Message.Content, nil
}

// Model returns the configured default model.
func (s *OpenAIService) Model() string {
	return s.model
}
