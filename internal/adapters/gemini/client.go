package gemini

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/generative-ai-go/genai"
	"golang.org/x/time/rate"
	"google.golang.org/api/option"

	"hotel_curator/internal/adapters/observability"
)

// Client implements the Generator port on Gemini. Used for the learner's
// narrative-synthesis path, where the low temperature keeps the pattern
// analysis stable across runs.
type Client struct {
	client *genai.Client
	model  string
	rl     *rate.Limiter
}

func New(ctx context.Context, apiKey, model string, rps int) (*Client, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("API key is required")
	}
	if model == "" {
		model = "gemini-1.5-flash"
	}
	if rps <= 0 {
		rps = 2
	}
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}
	return &Client{client: client, model: model, rl: rate.NewLimiter(rate.Limit(rps), rps)}, nil
}

func (c *Client) Generate(ctx context.Context, system, user string) (string, error) {
	if err := c.rl.Wait(ctx); err != nil {
		return "", err
	}

	m := c.client.GenerativeModel(c.model)
	m.SetTemperature(0.1)
	m.SystemInstruction = &genai.Content{Parts: []genai.Part{genai.Text(system)}}

	start := time.Now()
	resp, err := m.GenerateContent(ctx, genai.Text(user))
	if err != nil {
		observability.ObserveExternal("gemini", "generate", 0, time.Since(start))
		return "", fmt.Errorf("gemini: %w", err)
	}
	observability.ObserveExternal("gemini", "generate", 200, time.Since(start))

	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil || len(resp.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("gemini: no content in response")
	}
	return strings.TrimSpace(fmt.Sprintf("%v", resp.Candidates[0].Content.Parts[0])), nil
}

func (c *Client) Close() error { return c.client.Close() }
