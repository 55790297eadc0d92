package speech

import (
	"context"
	"testing"
)

func TestVoiceFor(t *testing.T) {
	tests := []struct {
		gender string
		want   string
	}{
		{"FEMALE", "Kore"},
		{"NEUTRAL", "Puck"},
		{"MALE", "Charon"},
		{"SSML_VOICE_GENDER_UNSPECIFIED", "Charon"},
		{"", "Charon"},
	}
	for _, tt := range tests {
		if got := VoiceFor(tt.gender); got != tt.want {
			t.Fatalf("VoiceFor(%q) = %q, want %q", tt.gender, got, tt.want)
		}
	}
}

func TestNewGenAIRequiresAPIKey(t *testing.T) {
	if _, err := NewGenAI(context.Background(), GenAIOptions{}); err == nil {
		t.Fatalf("NewGenAI accepted empty api key")
	}
}
