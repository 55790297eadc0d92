package speech

import (
	"context"
	"fmt"
	"strings"

	"google.golang.org/genai"
)

// Default Gemini models for the two speech directions.
const (
	DefaultTranscribeModel = "gemini-2.5-flash"
	DefaultSynthesizeModel = "gemini-2.5-flash-preview-tts"
)

// GenAI implements Transcriber and Synthesizer on the Gemini API: audio
// understanding for transcription, the TTS audio response modality for
// synthesis.
type GenAI struct {
	client   *genai.Client
	sttModel string
	ttsModel string
	mimeType string
}

var (
	_ Transcriber = (*GenAI)(nil)
	_ Synthesizer = (*GenAI)(nil)
)

// GenAIOptions configures the Gemini speech client.
type GenAIOptions struct {
	// APIKey authenticates requests. Required.
	APIKey string

	// TranscribeModel overrides DefaultTranscribeModel.
	TranscribeModel string

	// SynthesizeModel overrides DefaultSynthesizeModel.
	SynthesizeModel string

	// MIMEType is the recorded audio format sent for transcription.
	// Default is "audio/wav".
	MIMEType string
}

// NewGenAI creates a Gemini-backed speech client.
func NewGenAI(ctx context.Context, opts GenAIOptions) (*GenAI, error) {
	if opts.APIKey == "" {
		return nil, fmt.Errorf("speech: genai missing api key")
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{APIKey: opts.APIKey})
	if err != nil {
		return nil, fmt.Errorf("speech: genai client: %w", err)
	}

	sttModel := opts.TranscribeModel
	if sttModel == "" {
		sttModel = DefaultTranscribeModel
	}
	ttsModel := opts.SynthesizeModel
	if ttsModel == "" {
		ttsModel = DefaultSynthesizeModel
	}
	mimeType := opts.MIMEType
	if mimeType == "" {
		mimeType = "audio/wav"
	}

	return &GenAI{
		client:   client,
		sttModel: sttModel,
		ttsModel: ttsModel,
		mimeType: mimeType,
	}, nil
}

const transcribePrompt = "Transcribe this audio verbatim. Reply with the transcript only, nothing else. Reply with an empty message if there is no speech."

// Transcribe implements Transcriber.
func (g *GenAI) Transcribe(ctx context.Context, audio []byte) (string, error) {
	resp, err := g.client.Models.GenerateContent(ctx, g.sttModel, []*genai.Content{
		{
			Role: "user",
			Parts: []*genai.Part{
				{Text: transcribePrompt},
				{InlineData: &genai.Blob{MIMEType: g.mimeType, Data: audio}},
			},
		},
	}, nil)
	if err != nil {
		return "", fmt.Errorf("speech: transcribe: %w", err)
	}

	var sb strings.Builder
	if resp != nil && len(resp.Candidates) > 0 && resp.Candidates[0].Content != nil {
		for _, part := range resp.Candidates[0].Content.Parts {
			sb.WriteString(part.Text)
		}
	}
	return strings.TrimSpace(sb.String()), nil
}

// Synthesize implements Synthesizer.
func (g *GenAI) Synthesize(ctx context.Context, text, languageCode, gender string) ([]byte, error) {
	cfg := &genai.GenerateContentConfig{
		ResponseModalities: []string{"AUDIO"},
		SpeechConfig: &genai.SpeechConfig{
			VoiceConfig: &genai.VoiceConfig{
				PrebuiltVoiceConfig: &genai.PrebuiltVoiceConfig{
					VoiceName: VoiceFor(gender),
				},
			},
			LanguageCode: languageCode,
		},
	}

	resp, err := g.client.Models.GenerateContent(ctx, g.ttsModel, []*genai.Content{
		{Role: "user", Parts: []*genai.Part{{Text: text}}},
	}, cfg)
	if err != nil {
		return nil, fmt.Errorf("speech: synthesize: %w", err)
	}

	if resp != nil && len(resp.Candidates) > 0 && resp.Candidates[0].Content != nil {
		for _, part := range resp.Candidates[0].Content.Parts {
			if part.InlineData != nil && len(part.InlineData.Data) > 0 {
				return part.InlineData.Data, nil
			}
		}
	}
	return nil, fmt.Errorf("speech: synthesize: no audio in response")
}

// VoiceFor maps a voice gender token to a prebuilt Gemini voice.
func VoiceFor(gender string) string {
	switch gender {
	case "FEMALE":
		return "Kore"
	case "NEUTRAL":
		return "Puck"
	default:
		return "Charon"
	}
}
