// Package llm provides chat clients for the language models that write
// answers. A client is opened per generation call and must be closed on
// every exit path.
package llm

import (
	"context"
	"fmt"

	"github.com/pdiddy/pyansys-rag/pkg/types"
)

// Roles used in chat messages.
const (
	RoleSystem = "system"
	RoleUser   = "user"
)

// Message is one chat message.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// ChatClient sends a conversation to a model and returns the reply text.
type ChatClient interface {
	Chat(ctx context.Context, model string, messages []Message) (string, error)

	// Close releases the connections held by the client.
	Close() error
}

// Factory opens a new ChatClient.
type Factory func(ctx context.Context) (ChatClient, error)

// NewFactory returns a Factory for the backend selected by cfg.Backend.
func NewFactory(cfg types.GenerationConfig) (Factory, error) {
	switch cfg.Backend {
	case types.BackendOllama, "":
		return func(context.Context) (ChatClient, error) {
			return NewOllamaClient(cfg.OllamaURL), nil
		}, nil
	case types.BackendGemini:
		return func(ctx context.Context) (ChatClient, error) {
			return NewGeminiClient(ctx, cfg.APIKey)
		}, nil
	default:
		return nil, fmt.Errorf("unknown chat backend %q (valid: ollama, gemini)", cfg.Backend)
	}
}
