package llm

import (
	"context"
	"fmt"
	"strings"

	"google.golang.org/genai"
)

// GeminiCompleter implements Completer using Gemini text generation.
type GeminiCompleter struct {
	client *genai.Client
	model  string
}

func NewGeminiCompleter(ctx context.Context, apiKey string, modelName string) (*GeminiCompleter, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create genai client: %w", err)
	}
	return &GeminiCompleter{
		client: client,
		model:  modelName,
	}, nil
}

func (g *GeminiCompleter) Complete(ctx context.Context, messages []Message) (string, error) {
	contents := genai.Text(flattenMessages(messages))
	resp, err := g.client.Models.GenerateContent(ctx, g.model, contents, nil)
	if err != nil {
		return "", &CompletionError{Provider: "gemini", Err: err}
	}
	text := resp.Text()
	if text == "" {
		return "", &CompletionError{Provider: "gemini", Err: fmt.Errorf("empty completion")}
	}
	return text, nil
}

// flattenMessages folds a role-tagged conversation into a single prompt.
// Gemini treats system guidance as leading context rather than a separate
// channel here; the pipeline only ever sends system+user pairs.
func flattenMessages(messages []Message) string {
	var sb strings.Builder
	for i, m := range messages {
		if i > 0 {
			sb.WriteString("\n\n")
		}
		sb.WriteString(m.Content)
	}
	return sb.String()
}
