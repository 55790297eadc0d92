// Package speech provides the speech-to-text and text-to-speech
// collaborators for the hub.
package speech

import "context"

// Transcriber converts recorded audio to text.
type Transcriber interface {
	// Transcribe returns the transcript of the audio. An empty string with
	// a nil error means no speech was recognized.
	Transcribe(ctx context.Context, audio []byte) (string, error)
}

// TranscribeFunc adapts a function to the Transcriber interface.
type TranscribeFunc func(ctx context.Context, audio []byte) (string, error)

// Transcribe calls the underlying function.
func (f TranscribeFunc) Transcribe(ctx context.Context, audio []byte) (string, error) {
	return f(ctx, audio)
}

// Synthesizer converts text to speech audio.
type Synthesizer interface {
	// Synthesize renders text as audio bytes for the given BCP-47 language
	// code and voice gender.
	Synthesize(ctx context.Context, text, languageCode, gender string) ([]byte, error)
}

// SynthesizeFunc adapts a function to the Synthesizer interface.
type SynthesizeFunc func(ctx context.Context, text, languageCode, gender string) ([]byte, error)

// Synthesize calls the underlying function.
func (f SynthesizeFunc) Synthesize(ctx context.Context, text, languageCode, gender string) ([]byte, error) {
	return f(ctx, text, languageCode, gender)
}
