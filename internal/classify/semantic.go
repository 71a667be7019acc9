package classify

import (
	"context"
	"fmt"
	"strings"
	"time"

	"google.golang.org/genai"
)

// Classifier labels a free-text description with a category. Implementations
// may fail; the Resolver maps every failure to the Uncategorized sentinel.
type Classifier interface {
	Classify(ctx context.Context, description string) (string, error)
}

// GeminiClassifier asks Gemini for a single category label constrained to
// the closed label set of a keyword table.
type GeminiClassifier struct {
	model       string
	instruction string
	timeout     time.Duration
}

// NewGeminiClassifier creates a classifier for the given table's label set.
func NewGeminiClassifier(table *Table, model string, timeout time.Duration) *GeminiClassifier {
	return &GeminiClassifier{
		model:       model,
		instruction: buildClassifyInstruction(table.Labels()),
		timeout:     timeout,
	}
}

// buildClassifyInstruction constrains the model to the closed label set.
func buildClassifyInstruction(labels []string) string {
	var b strings.Builder
	b.WriteString("You are a financial transaction classifier. ")
	b.WriteString("Categorize the description into one of: ")
	b.WriteString(strings.Join(labels, ", "))
	b.WriteString(".\nRespond with ONLY the category name, nothing else.")
	return b.String()
}

// Classify sends the description to Gemini and returns the trimmed label.
// The call has its own timeout, independent of the caller's deadline.
func (c *GeminiClassifier) Classify(ctx context.Context, description string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		HTTPOptions: genai.HTTPOptions{APIVersion: "v1"},
	})
	if err != nil {
		return "", fmt.Errorf("Classify: create genai client: %w", err)
	}

	contents := []*genai.Content{
		{
			Role: "user",
			Parts: []*genai.Part{
				{Text: fmt.Sprintf("Categorize: %q", description)},
			},
		},
	}

	cfg := &genai.GenerateContentConfig{
		SystemInstruction: &genai.Content{
			Parts: []*genai.Part{{Text: c.instruction}},
		},
		Temperature:     genai.Ptr[float32](0.3),
		MaxOutputTokens: 20,
	}

	resp, err := client.Models.GenerateContent(ctx, c.model, contents, cfg)
	if err != nil {
		return "", fmt.Errorf("Classify: generate content: %w", err)
	}

	label := strings.TrimSpace(resp.Text())
	if label == "" {
		return "", fmt.Errorf("Classify: empty response from model")
	}

	return label, nil
}
