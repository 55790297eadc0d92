package comm

import (
	"context"
	"errors"
)

// ErrNotFound is returned by Store implementations when no stored
// configuration matches a public ID.
var ErrNotFound = errors.New("comm: not found")

// Store is the persistence collaborator. The hub round-trips configurations
// and chat history through it but owns no schema beyond these calls.
type Store interface {
	// LoadConfig returns the stored configuration for a public ID.
	// Returns ErrNotFound if none exists.
	LoadConfig(ctx context.Context, publicID string) (*CommConfig, error)

	// LoadHistory returns the chat history for an internal communication ID
	// in insertion order.
	LoadHistory(ctx context.Context, commID string) ([]ChatMessage, error)

	// SaveConfig persists a configuration, overwriting any previous version.
	SaveConfig(ctx context.Context, cfg *CommConfig) error

	// AppendMessages atomically appends messages to the stored history.
	AppendMessages(ctx context.Context, msgs []ChatMessage) error
}

// Transcriber is the speech-to-text collaborator.
type Transcriber interface {
	// Transcribe converts audio bytes to text. An empty string with a nil
	// error means no speech was recognized.
	Transcribe(ctx context.Context, audio []byte) (string, error)
}

// TranscribeFunc adapts a function to the Transcriber interface.
type TranscribeFunc func(ctx context.Context, audio []byte) (string, error)

// Transcribe calls the underlying function.
func (f TranscribeFunc) Transcribe(ctx context.Context, audio []byte) (string, error) {
	return f(ctx, audio)
}

// Synthesizer is the text-to-speech collaborator.
type Synthesizer interface {
	Synthesize(ctx context.Context, text string, lang VoiceLanguage, gender VoiceGender) ([]byte, error)
}

// SynthesizeFunc adapts a function to the Synthesizer interface.
type SynthesizeFunc func(ctx context.Context, text string, lang VoiceLanguage, gender VoiceGender) ([]byte, error)

// Synthesize calls the underlying function.
func (f SynthesizeFunc) Synthesize(ctx context.Context, text string, lang VoiceLanguage, gender VoiceGender) ([]byte, error) {
	return f(ctx, text, lang, gender)
}

// Completer is the LLM chat collaborator. Any connectivity, timeout, or
// upstream failure surfaces as an opaque error; the hub never inspects the
// network cause.
type Completer interface {
	Complete(ctx context.Context, history []ChatMessage, model, promptSuffix string) (string, error)
}

// CompleteFunc adapts a function to the Completer interface.
type CompleteFunc func(ctx context.Context, history []ChatMessage, model, promptSuffix string) (string, error)

// Complete calls the underlying function.
func (f CompleteFunc) Complete(ctx context.Context, history []ChatMessage, model, promptSuffix string) (string, error) {
	return f(ctx, history, model, promptSuffix)
}
