package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// OpenAICompleter implements Completer over the chat-completions HTTP API.
// It also serves OpenAI-compatible gateways via a custom base URL.
type OpenAICompleter struct {
	client      *http.Client
	apiKey      string
	model       string
	endpoint    string
	temperature float64
}

type openAIChatRequest struct {
	Model       string    `json:"model"`
	Messages    []Message `json:"messages"`
	Temperature float64   `json:"temperature,omitempty"`
}

type openAIChatResponse struct {
	Choices []struct {
		Message Message `json:"message"`
	} `json:"choices"`
}

func NewOpenAICompleter(apiKey, model, baseURL string, temperature float64) *OpenAICompleter {
	endpoint := strings.TrimSpace(baseURL)
	if endpoint == "" {
		endpoint = "https://api.openai.com/v1/chat/completions"
	} else {
		endpoint = strings.TrimRight(endpoint, "/")
		if !strings.HasSuffix(endpoint, "/chat/completions") {
			if strings.HasSuffix(endpoint, "/v1") {
				endpoint += "/chat/completions"
			} else {
				endpoint += "/v1/chat/completions"
			}
		}
	}
	if temperature == 0 {
		temperature = 0.1
	}
	return &OpenAICompleter{
		client: &http.Client{
			Timeout: 90 * time.Second,
		},
		apiKey:      apiKey,
		model:       model,
		endpoint:    endpoint,
		temperature: temperature,
	}
}

func (s *OpenAICompleter) Complete(ctx context.Context, messages []Message) (string, error) {
	if strings.TrimSpace(s.apiKey) == "" {
		return "", &CompletionError{Provider: "openai", Err: fmt.Errorf("api key is required")}
	}
	if strings.TrimSpace(s.model) == "" {
		return "", &CompletionError{Provider: "openai", Err: fmt.Errorf("model is required")}
	}

	reqBody := openAIChatRequest{
		Model:       s.model,
		Messages:    messages,
		Temperature: s.temperature,
	}
	body, err := json.Marshal(reqBody)
	if err != nil {
		return "", &CompletionError{Provider: "openai", Err: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.endpoint, bytes.NewReader(body))
	if err != nil {
		return "", &CompletionError{Provider: "openai", Err: err}
	}
	req.Header.Set("Authorization", "Bearer "+s.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return "", &CompletionError{Provider: "openai", Err: err}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", &CompletionError{Provider: "openai", Err: err}
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", &CompletionError{
			Provider: "openai",
			Err:      fmt.Errorf("chat request failed (%d): %s", resp.StatusCode, strings.TrimSpace(string(raw))),
		}
	}

	var parsed openAIChatResponse
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return "", &CompletionError{Provider: "openai", Err: err}
	}
	if len(parsed.Choices) == 0 || strings.TrimSpace(parsed.Choices[0].Message.Content) == "" {
		return "", &CompletionError{Provider: "openai", Err: fmt.Errorf("empty completion")}
	}
	return parsed.Choices[0].Message.Content, nil
}
