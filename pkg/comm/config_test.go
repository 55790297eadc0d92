package comm

import (
	"encoding/json"
	"testing"
)

func TestNewCommConfigDefaults(t *testing.T) {
	cfg := NewCommConfig("abc")
	if cfg.PublicID != "abc" {
		t.Fatalf("PublicID = %q, want %q", cfg.PublicID, "abc")
	}
	if cfg.ID == "" || len(cfg.ID) != 32 {
		t.Fatalf("ID = %q, want 32 hex chars", cfg.ID)
	}
	if cfg.Skin != SkinFullbot {
		t.Fatalf("Skin = %q, want %q", cfg.Skin, SkinFullbot)
	}
	if cfg.LLMModel != DefaultLLMModel {
		t.Fatalf("LLMModel = %q, want %q", cfg.LLMModel, DefaultLLMModel)
	}
	if cfg.VoiceLanguage != LangEnUS || cfg.VoiceGender != VoiceMale {
		t.Fatalf("voice defaults = %q/%q, want en-US/MALE", cfg.VoiceLanguage, cfg.VoiceGender)
	}
	if !cfg.AudioEnabled || !cfg.TextEnabled || !cfg.SubtitlesEnabled {
		t.Fatalf("feature flags off by default: %+v", cfg)
	}
	if cfg.ProactiveMode {
		t.Fatalf("ProactiveMode = true, want false")
	}
	if cfg.CreatedAt.IsZero() {
		t.Fatalf("CreatedAt not set")
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}
}

func TestNewCommConfigGeneratesPublicID(t *testing.T) {
	a := NewCommConfig("")
	b := NewCommConfig("")
	if a.PublicID == "" {
		t.Fatalf("empty PublicID not generated")
	}
	if a.PublicID == b.PublicID {
		t.Fatalf("two generated public IDs collide: %q", a.PublicID)
	}
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*CommConfig)
	}{
		{"missing id", func(c *CommConfig) { c.ID = "" }},
		{"missing public id", func(c *CommConfig) { c.PublicID = "" }},
		{"bad skin", func(c *CommConfig) { c.Skin = "hologram" }},
		{"missing model", func(c *CommConfig) { c.LLMModel = "" }},
		{"bad language", func(c *CommConfig) { c.VoiceLanguage = "xx-XX" }},
		{"bad gender", func(c *CommConfig) { c.VoiceGender = "OTHER" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := NewCommConfig("p")
			tt.mutate(cfg)
			if err := cfg.Validate(); err == nil {
				t.Fatalf("Validate accepted invalid config")
			}
		})
	}
}

func TestConfigMerge(t *testing.T) {
	cfg := NewCommConfig("p")
	model := "qwen2.5:latest"
	off := false
	lang := LangEnGB

	merged := cfg.Merge(ConfigPatch{
		LLMModel:         &model,
		SubtitlesEnabled: &off,
		VoiceLanguage:    &lang,
	})

	if merged.LLMModel != model {
		t.Fatalf("LLMModel = %q, want %q", merged.LLMModel, model)
	}
	if merged.SubtitlesEnabled {
		t.Fatalf("SubtitlesEnabled = true, want false")
	}
	if merged.VoiceLanguage != lang {
		t.Fatalf("VoiceLanguage = %q, want %q", merged.VoiceLanguage, lang)
	}

	// Unspecified fields keep their values; identity fields are immutable.
	if merged.ID != cfg.ID || merged.PublicID != cfg.PublicID || !merged.CreatedAt.Equal(cfg.CreatedAt) {
		t.Fatalf("identity fields changed by merge")
	}
	if merged.Skin != cfg.Skin || merged.VoiceGender != cfg.VoiceGender {
		t.Fatalf("unspecified fields changed by merge")
	}

	// The receiver is untouched.
	if cfg.LLMModel != DefaultLLMModel || !cfg.SubtitlesEnabled {
		t.Fatalf("merge mutated receiver: %+v", cfg)
	}
}

func TestConfigMergeEmptyPatch(t *testing.T) {
	cfg := NewCommConfig("p")
	merged := cfg.Merge(ConfigPatch{})
	if *merged != *cfg {
		t.Fatalf("empty patch changed config: got %+v, want %+v", merged, cfg)
	}
}

func TestConfigPatchIgnoresIdentityFields(t *testing.T) {
	var p ConfigPatch
	raw := []byte(`{"id":"evil","publicId":"evil","createdAt":"2020-01-01T00:00:00Z","llmModel":"m"}`)
	if err := json.Unmarshal(raw, &p); err != nil {
		t.Fatalf("unmarshal patch: %v", err)
	}
	if p.LLMModel == nil || *p.LLMModel != "m" {
		t.Fatalf("llmModel not decoded")
	}

	cfg := NewCommConfig("p")
	merged := cfg.Merge(p)
	if merged.ID != cfg.ID || merged.PublicID != cfg.PublicID {
		t.Fatalf("identity fields overridden by patch")
	}
}

func TestConfigJSONFieldNames(t *testing.T) {
	cfg := NewCommConfig("pub-1")
	b, err := json.Marshal(cfg)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var m map[string]any
	if err := json.Unmarshal(b, &m); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	for _, key := range []string{
		"id", "publicId", "skin", "audioEnabled", "textEnabled",
		"proactiveModeEnabled", "llmModel", "voiceLanguageCode",
		"voiceGender", "customPromptSuffix", "subtitlesEnabled", "createdAt",
	} {
		if _, ok := m[key]; !ok {
			t.Fatalf("wire snapshot missing %q: %s", key, b)
		}
	}
}
