package llm

import (
	"context"
	"fmt"
)

// Message is one role-tagged entry in a completion conversation.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

const (
	RoleSystem = "system"
	RoleUser   = "user"
)

// Completer sends a message list to a model endpoint and returns the raw
// text completion. Implementations do no output parsing; recovery of
// structured data belongs to the normalize package.
type Completer interface {
	Complete(ctx context.Context, messages []Message) (string, error)
}

// CompletionError wraps a failure of the upstream completion service.
type CompletionError struct {
	Provider string
	Err      error
}

func (e *CompletionError) Error() string {
	return fmt.Sprintf("%s completion failed: %v", e.Provider, e.Err)
}

func (e *CompletionError) Unwrap() error {
	return e.Err
}
