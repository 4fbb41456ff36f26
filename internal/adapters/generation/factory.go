package generation

import (
	"context"
	"fmt"
	"strings"

	"hotel_curator/internal/adapters/gemini"
	"hotel_curator/internal/adapters/openai"
	"hotel_curator/internal/domain"
	"hotel_curator/internal/shared"
)

// NewLearnerGenerator builds the Generator used by the feedback learner's
// narrative path. Returns nil (narrative enrichment disabled) when the
// provider is "off".
func NewLearnerGenerator(ctx context.Context, cfg shared.Config) (domain.Generator, error) {
	switch strings.ToLower(cfg.LearnerProvider) {
	case "", "off":
		return nil, nil
	case "gemini":
		return gemini.New(ctx, cfg.GeminiKey, cfg.GeminiModel, cfg.GenerationRPS)
	case "openai":
		return openai.New(cfg.OpenAIKey, cfg.OpenAIBase, cfg.OpenAIModel, float32(cfg.Temperature), cfg.GenerationRPS)
	default:
		return nil, fmt.Errorf("unsupported provider: %s", cfg.LearnerProvider)
	}
}
