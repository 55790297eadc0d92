// Package llm provides the chat completion collaborator for the hub.
// The provided client speaks the OpenAI chat completions API, which also
// covers OpenAI-compatible local servers such as Ollama via a base URL
// override.
package llm

import "context"

// Message is one chat turn sent to the model.
type Message struct {
	Role    string
	Content string
}

// Roles understood by the chat completions API.
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Completer is the interface for chat completion backends.
type Completer interface {
	// Complete runs a chat completion over the message history. The prompt
	// suffix, when non-empty, is folded into the final user turn.
	Complete(ctx context.Context, history []Message, model, promptSuffix string) (string, error)
}
