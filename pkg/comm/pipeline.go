package comm

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"
)

// listeningPrompt is the canned reply when transcription hears nothing.
const listeningPrompt = "I'm listening. What would you like to know?"

// maxTTSBytes caps the synthesizer input. Longer replies are truncated on a
// rune boundary.
const maxTTSBytes = 4900

// ErrEmptyInput is returned when a processing request carries no usable
// payload.
var ErrEmptyInput = errors.New("comm: empty input")

// TurnResult is the outcome of one AI-processing turn, delivered to the bot
// as AUDIO_RESPONSE.
type TurnResult struct {
	Audio       string `json:"response"`
	Text        string `json:"content"`
	UserQuery   string `json:"user_query"`
	FixedPrompt string `json:"fixed_prompt"`
}

// Pipeline executes AI-processing turns: optional transcription, the LLM
// chat call, speech synthesis, and the all-or-nothing history append. It
// holds no per-session state; callers serialize turns per session through
// Session.TryAcquire.
type Pipeline struct {
	store  Store
	stt    Transcriber
	tts    Synthesizer
	llm    Completer
	logger Logger
}

// PipelineConfig wires the pipeline's collaborators.
type PipelineConfig struct {
	Store       Store
	Transcriber Transcriber
	Synthesizer Synthesizer
	Completer   Completer

	// Logger is used for logging. If nil, DefaultLogger() is used.
	Logger Logger
}

// NewPipeline creates a pipeline from its collaborators.
func NewPipeline(cfg PipelineConfig) *Pipeline {
	logger := cfg.Logger
	if logger == nil {
		logger = DefaultLogger()
	}
	return &Pipeline{
		store:  cfg.Store,
		stt:    cfg.Transcriber,
		tts:    cfg.Synthesizer,
		llm:    cfg.Completer,
		logger: logger,
	}
}

// AudioTurn transcribes base64-encoded audio and runs a text turn on the
// transcript. An empty transcript yields a canned spoken prompt instead of
// an LLM call; that turn is not appended to history.
func (p *Pipeline) AudioTurn(ctx context.Context, sess *Session, audioB64 string) (*TurnResult, error) {
	audio, err := base64.StdEncoding.DecodeString(audioB64)
	if err != nil {
		return nil, fmt.Errorf("comm: decode audio: %w", err)
	}

	transcript, err := p.stt.Transcribe(ctx, audio)
	if err != nil {
		return nil, fmt.Errorf("comm: transcribe: %w", err)
	}
	if strings.TrimSpace(transcript) == "" {
		cfg := sess.Config()
		speech, err := p.tts.Synthesize(ctx, listeningPrompt, cfg.VoiceLanguage, cfg.VoiceGender)
		if err != nil {
			return nil, fmt.Errorf("comm: synthesize: %w", err)
		}
		return &TurnResult{
			Audio: base64.StdEncoding.EncodeToString(speech),
			Text:  listeningPrompt,
		}, nil
	}

	return p.TextTurn(ctx, sess, transcript)
}

// TextTurn runs one full turn for the given user text: LLM completion over
// the session history, speech synthesis, then the user and assistant
// messages are appended together to the store and the in-memory history.
// On any collaborator failure nothing is appended.
func (p *Pipeline) TextTurn(ctx context.Context, sess *Session, text string) (*TurnResult, error) {
	if strings.TrimSpace(text) == "" {
		return nil, ErrEmptyInput
	}

	cfg := sess.Config()
	userMsg := ChatMessage{CommID: cfg.ID, Role: RoleUser, Text: text}
	payload := append(sess.History(), userMsg)

	reply, err := p.llm.Complete(ctx, payload, cfg.LLMModel, cfg.PromptSuffix)
	if err != nil {
		return nil, fmt.Errorf("comm: llm: %w", err)
	}

	ttsInput := truncateUTF8(reply, maxTTSBytes)
	if ttsInput != reply {
		p.logger.WarnPrintf("tts input exceeded %d bytes, truncating", maxTTSBytes)
	}
	speech, err := p.tts.Synthesize(ctx, ttsInput, cfg.VoiceLanguage, cfg.VoiceGender)
	if err != nil {
		return nil, fmt.Errorf("comm: synthesize: %w", err)
	}

	botMsg := ChatMessage{CommID: cfg.ID, Role: RoleAssistant, Text: reply, Model: cfg.LLMModel}
	turn := []ChatMessage{userMsg, botMsg}
	if err := p.store.AppendMessages(ctx, turn); err != nil {
		return nil, fmt.Errorf("comm: append history: %w", err)
	}
	sess.appendHistory(turn...)

	return &TurnResult{
		Audio:       base64.StdEncoding.EncodeToString(speech),
		Text:        reply,
		UserQuery:   text,
		FixedPrompt: cfg.PromptSuffix,
	}, nil
}

// truncateUTF8 cuts s to at most n bytes without splitting a rune.
func truncateUTF8(s string, n int) string {
	if len(s) <= n {
		return s
	}
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n]
}
