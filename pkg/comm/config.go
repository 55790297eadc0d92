// Package comm implements the live communication hub: a registry of
// in-memory sessions, each brokering one WebSocket bot client and one
// WebSocket control panel client, with AI processing delegated to narrow
// collaborator interfaces (storage, speech, LLM chat).
package comm

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Skin selects the display variant the bot client renders.
type Skin string

const (
	SkinFullbot  Skin = "fullbot"
	SkinSimple   Skin = "simple"
	SkinFaceOnly Skin = "faceonly"
)

// Valid reports whether the skin is a known variant.
func (s Skin) Valid() bool {
	switch s {
	case SkinFullbot, SkinSimple, SkinFaceOnly:
		return true
	}
	return false
}

// VoiceGender selects the synthesized voice gender.
type VoiceGender string

const (
	VoiceMale        VoiceGender = "MALE"
	VoiceFemale      VoiceGender = "FEMALE"
	VoiceNeutral     VoiceGender = "NEUTRAL"
	VoiceUnspecified VoiceGender = "SSML_VOICE_GENDER_UNSPECIFIED"
)

// Valid reports whether the gender is a known value.
func (g VoiceGender) Valid() bool {
	switch g {
	case VoiceMale, VoiceFemale, VoiceNeutral, VoiceUnspecified:
		return true
	}
	return false
}

// VoiceLanguage is a BCP-47 language code for speech synthesis.
type VoiceLanguage string

const (
	LangEnAU VoiceLanguage = "en-AU"
	LangEnGB VoiceLanguage = "en-GB"
	LangEnIN VoiceLanguage = "en-IN"
	LangEnUS VoiceLanguage = "en-US"
)

// Valid reports whether the language code is supported.
func (l VoiceLanguage) Valid() bool {
	switch l {
	case LangEnAU, LangEnGB, LangEnIN, LangEnUS:
		return true
	}
	return false
}

// CommConfig is the configuration of one communication. The JSON form is
// the wire snapshot sent in SYSTEM_CONFIG frames; the msgpack form is the
// storage encoding. The internal ID is assigned once at creation and never
// changes; the public ID is the registry key visible to clients.
type CommConfig struct {
	ID               string        `json:"id" msgpack:"id"`
	PublicID         string        `json:"publicId" msgpack:"public_id"`
	Skin             Skin          `json:"skin" msgpack:"skin"`
	AudioEnabled     bool          `json:"audioEnabled" msgpack:"audio_enabled"`
	TextEnabled      bool          `json:"textEnabled" msgpack:"text_enabled"`
	ProactiveMode    bool          `json:"proactiveModeEnabled" msgpack:"proactive_mode"`
	LLMModel         string        `json:"llmModel" msgpack:"llm_model"`
	VoiceLanguage    VoiceLanguage `json:"voiceLanguageCode" msgpack:"voice_language"`
	VoiceGender      VoiceGender   `json:"voiceGender" msgpack:"voice_gender"`
	PromptSuffix     string        `json:"customPromptSuffix" msgpack:"prompt_suffix"`
	SubtitlesEnabled bool          `json:"subtitlesEnabled" msgpack:"subtitles_enabled"`
	CreatedAt        time.Time     `json:"createdAt" msgpack:"created_at"`
}

// DefaultLLMModel is the model assigned to newly created communications.
const DefaultLLMModel = "llama3"

// NewCommConfig creates a configuration with fresh IDs and defaults.
// If publicID is empty a random one is generated.
func NewCommConfig(publicID string) *CommConfig {
	if publicID == "" {
		publicID = uuid.NewString()
	}
	return &CommConfig{
		ID:               strings.ReplaceAll(uuid.NewString(), "-", ""),
		PublicID:         publicID,
		Skin:             SkinFullbot,
		AudioEnabled:     true,
		TextEnabled:      true,
		LLMModel:         DefaultLLMModel,
		VoiceLanguage:    LangEnUS,
		VoiceGender:      VoiceMale,
		SubtitlesEnabled: true,
		CreatedAt:        time.Now().UTC(),
	}
}

// Validate checks the config against the configuration schema.
func (c *CommConfig) Validate() error {
	if c.ID == "" {
		return fmt.Errorf("comm: config missing id")
	}
	if c.PublicID == "" {
		return fmt.Errorf("comm: config missing public id")
	}
	if !c.Skin.Valid() {
		return fmt.Errorf("comm: invalid skin %q", c.Skin)
	}
	if c.LLMModel == "" {
		return fmt.Errorf("comm: config missing llm model")
	}
	if !c.VoiceLanguage.Valid() {
		return fmt.Errorf("comm: invalid voice language %q", c.VoiceLanguage)
	}
	if !c.VoiceGender.Valid() {
		return fmt.Errorf("comm: invalid voice gender %q", c.VoiceGender)
	}
	return nil
}

// Clone returns a copy of the config.
func (c *CommConfig) Clone() *CommConfig {
	cp := *c
	return &cp
}

// ConfigPatch is a partial configuration supplied by UPDATE_CONFIG.
// Nil fields keep their current values. Identity fields (id, publicId,
// createdAt) are not patchable.
type ConfigPatch struct {
	Skin             *Skin          `json:"skin"`
	AudioEnabled     *bool          `json:"audioEnabled"`
	TextEnabled      *bool          `json:"textEnabled"`
	ProactiveMode    *bool          `json:"proactiveModeEnabled"`
	LLMModel         *string        `json:"llmModel"`
	VoiceLanguage    *VoiceLanguage `json:"voiceLanguageCode"`
	VoiceGender      *VoiceGender   `json:"voiceGender"`
	PromptSuffix     *string        `json:"customPromptSuffix"`
	SubtitlesEnabled *bool          `json:"subtitlesEnabled"`
}

// Merge returns a new config with the patch's non-nil fields applied over c.
// The receiver is not modified.
func (c *CommConfig) Merge(p ConfigPatch) *CommConfig {
	out := c.Clone()
	if p.Skin != nil {
		out.Skin = *p.Skin
	}
	if p.AudioEnabled != nil {
		out.AudioEnabled = *p.AudioEnabled
	}
	if p.TextEnabled != nil {
		out.TextEnabled = *p.TextEnabled
	}
	if p.ProactiveMode != nil {
		out.ProactiveMode = *p.ProactiveMode
	}
	if p.LLMModel != nil {
		out.LLMModel = *p.LLMModel
	}
	if p.VoiceLanguage != nil {
		out.VoiceLanguage = *p.VoiceLanguage
	}
	if p.VoiceGender != nil {
		out.VoiceGender = *p.VoiceGender
	}
	if p.PromptSuffix != nil {
		out.PromptSuffix = *p.PromptSuffix
	}
	if p.SubtitlesEnabled != nil {
		out.SubtitlesEnabled = *p.SubtitlesEnabled
	}
	return out
}

// MessageRole is the author of a chat turn.
type MessageRole string

const (
	RoleUser      MessageRole = "user"
	RoleAssistant MessageRole = "assistant"
)

// ChatMessage is one turn of a conversation. Messages are append-only;
// insertion order is the canonical conversation order.
type ChatMessage struct {
	CommID string      `json:"communicationId" msgpack:"comm_id"`
	Role   MessageRole `json:"role" msgpack:"role"`
	Text   string      `json:"message" msgpack:"text"`
	Model  string      `json:"llmModel,omitempty" msgpack:"model"`
}
