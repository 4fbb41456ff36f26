// internal/adapters/openai/client.go
package openai

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"
	"golang.org/x/time/rate"

	"hotel_curator/internal/adapters/observability"
)

// Client wraps one chat-completion model behind the Generator port. It rate
// limits client-side and issues exactly one API call per Generate: retry
// policy belongs to the caller, not here.
type Client struct {
	c           *openai.Client
	model       string
	temperature float32
	rl          *rate.Limiter
}

func New(apiKey, baseURL, model string, temperature float32, rps int) (*Client, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("API key is required")
	}
	if model == "" {
		model = openai.GPT4oMini
	}
	if rps <= 0 {
		rps = 2
	}
	cfg := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = baseURL
	}
	return &Client{
		c:           openai.NewClientWithConfig(cfg),
		model:       model,
		temperature: temperature,
		rl:          rate.NewLimiter(rate.Limit(rps), rps),
	}, nil
}

func (c *Client) Generate(ctx context.Context, system, user string) (string, error) {
	if err := c.rl.Wait(ctx); err != nil {
		return "", err
	}

	start := time.Now()
	resp, err := c.c.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       c.model,
		Temperature: c.temperature,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: system},
			{Role: openai.ChatMessageRoleUser, Content: user},
		},
	})
	observability.ObserveExternal("openai", "chat", statusOf(err), time.Since(start))
	if err != nil {
		return "", fmt.Errorf("openai chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("openai: empty choices in response")
	}
	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}

func statusOf(err error) int {
	if err == nil {
		return 200
	}
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return apiErr.HTTPStatusCode
	}
	return 0
}
