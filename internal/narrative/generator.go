package narrative

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/dvloznov/ledger-insights/internal/analytics"
	"google.golang.org/genai"
)

// Generator turns a structured insight context into advisor prose. The core
// engine never depends on the text itself; a failed generation fails only
// the insights request that asked for it.
type Generator interface {
	Generate(ctx context.Context, period string, ins *analytics.Insights) (string, error)
}

// GeminiGenerator renders the narrative with Gemini.
type GeminiGenerator struct {
	model   string
	timeout time.Duration
}

// NewGeminiGenerator creates a generator for the given model.
func NewGeminiGenerator(model string, timeout time.Duration) *GeminiGenerator {
	return &GeminiGenerator{
		model:   model,
		timeout: timeout,
	}
}

// Generate builds the advisor prompt from the insight context and returns
// the model's trimmed free-text response.
func (g *GeminiGenerator) Generate(ctx context.Context, period string, ins *analytics.Insights) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		HTTPOptions: genai.HTTPOptions{APIVersion: "v1"},
	})
	if err != nil {
		return "", fmt.Errorf("Generate: create genai client: %w", err)
	}

	contents := []*genai.Content{
		{
			Role: "user",
			Parts: []*genai.Part{
				{Text: buildInsightsPrompt(period, ins)},
			},
		},
	}

	cfg := &genai.GenerateContentConfig{
		SystemInstruction: &genai.Content{
			Parts: []*genai.Part{{Text: advisorSystemPrompt}},
		},
		Temperature:     genai.Ptr[float32](0.7),
		MaxOutputTokens: 500,
	}

	resp, err := client.Models.GenerateContent(ctx, g.model, contents, cfg)
	if err != nil {
		return "", fmt.Errorf("Generate: generate content: %w", err)
	}

	text := strings.TrimSpace(resp.Text())
	if text == "" {
		return "", fmt.Errorf("Generate: empty response from model")
	}

	return text, nil
}
