package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadDefaults(t *testing.T) {
	// Run somewhere without a botcomm.yaml so the optional default path is
	// absent.
	t.Chdir(t.TempDir())

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Listen != ":8080" {
		t.Fatalf("Listen = %q, want %q", cfg.Listen, ":8080")
	}
	if cfg.DataDir != "./botcomm-data" {
		t.Fatalf("DataDir = %q, want %q", cfg.DataDir, "./botcomm-data")
	}
	if cfg.LLM.BaseURL != "http://localhost:11434/v1" {
		t.Fatalf("LLM.BaseURL = %q, want ollama default", cfg.LLM.BaseURL)
	}
	if cfg.LLM.APIKey != "ollama" {
		t.Fatalf("LLM.APIKey = %q, want %q", cfg.LLM.APIKey, "ollama")
	}
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "botcomm.yaml")
	data := []byte(`
listen: ":9999"
data_dir: "/tmp/botcomm"
llm:
  base_url: "https://api.example.com/v1"
  api_key: "secret"
speech:
  api_key: "gemini-key"
  transcribe_model: "gemini-2.0-flash"
`)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Listen != ":9999" {
		t.Fatalf("Listen = %q, want %q", cfg.Listen, ":9999")
	}
	if cfg.DataDir != "/tmp/botcomm" {
		t.Fatalf("DataDir = %q, want %q", cfg.DataDir, "/tmp/botcomm")
	}
	if cfg.LLM.BaseURL != "https://api.example.com/v1" {
		t.Fatalf("LLM.BaseURL = %q", cfg.LLM.BaseURL)
	}
	if cfg.LLM.APIKey != "secret" {
		t.Fatalf("LLM.APIKey = %q", cfg.LLM.APIKey)
	}
	if cfg.Speech.APIKey != "gemini-key" {
		t.Fatalf("Speech.APIKey = %q", cfg.Speech.APIKey)
	}
	if cfg.Speech.TranscribeModel != "gemini-2.0-flash" {
		t.Fatalf("Speech.TranscribeModel = %q", cfg.Speech.TranscribeModel)
	}
}

func TestLoadExplicitMissingPath(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Fatalf("Load accepted a missing explicit path")
	}
}

func TestLoadBadYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	if err := os.WriteFile(path, []byte("listen: [unclosed"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	if _, err := Load(path); err == nil {
		t.Fatalf("Load accepted malformed yaml")
	}
}
