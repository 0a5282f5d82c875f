package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"mixfm/config"
	"mixfm/model"
)

// Client is the completion capability the mix pipeline and tag suggester
// consume. A nil Client means no model is configured; callers must degrade
// gracefully rather than fail.
type Client interface {
	Complete(ctx context.Context, system, user string, maxTokens int) (string, error)
}

// Config contains connection settings for an OpenAI-compatible API.
type Config struct {
	APIBaseURL  string
	APIKey      string
	Model       string
	Temperature float64
	Timeout     time.Duration
}

// OpenAIClient calls an OpenAI-compatible chat-completions endpoint.
type OpenAIClient struct {
	cfg        Config
	httpClient *http.Client
}

// NewOpenAIClient creates a client. The request timeout bounds how long one
// completion may stall a request; a slow upstream becomes a normal failure.
func NewOpenAIClient(cfg Config) *OpenAIClient {
	if cfg.APIBaseURL == "" {
		cfg.APIBaseURL = "https://api.openai.com/v1"
	}
	if cfg.Model == "" {
		cfg.Model = "gpt-4o-mini"
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}
	return &OpenAIClient{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: cfg.Timeout},
	}
}

// FromAppConfig returns a client when an API key is configured, nil otherwise.
func FromAppConfig(cfg *config.Config) Client {
	if cfg.OpenAIKey == "" {
		return nil
	}
	return NewOpenAIClient(Config{
		APIBaseURL:  cfg.OpenAIBaseURL,
		APIKey:      cfg.OpenAIKey,
		Model:       cfg.OpenAIModel,
		Temperature: cfg.OpenAITemperature,
	})
}

// Complete sends one system+user message pair and returns the response text.
func (c *OpenAIClient) Complete(ctx context.Context, system, user string, maxTokens int) (string, error) {
	reqBody := model.OpenAIChatRequest{
		Model: c.cfg.Model,
		Messages: []model.OpenAIChatMessage{
			{Role: "system", Content: system},
			{Role: "user", Content: user},
		},
		MaxTokens:   maxTokens,
		Temperature: c.cfg.Temperature,
	}

	jsonBody, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", c.cfg.APIBaseURL+"/chat/completions", bytes.NewBuffer(jsonBody))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("API returned status %d: %s", resp.StatusCode, string(body))
	}

	var chatResp model.OpenAIChatResponse
	if err := json.NewDecoder(resp.Body).Decode(&chatResp); err != nil {
		return "", fmt.Errorf("failed to decode response: %w", err)
	}

	if len(chatResp.Choices) == 0 {
		return "", fmt.Errorf("no response choices returned")
	}

	return chatResp.Choices[0].Message.Content, nil
}
