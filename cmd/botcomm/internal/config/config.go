// Package config loads the botcomm server configuration from a YAML file.
//
// Example:
//
//	listen: ":8080"
//	data_dir: "/var/lib/botcomm"
//	llm:
//	  base_url: "http://localhost:11434/v1"
//	  api_key: "ollama"
//	speech:
//	  api_key: "YOUR_GEMINI_KEY"
package config

import (
	"fmt"
	"os"

	"github.com/goccy/go-yaml"
)

// DefaultPath is used when no --config flag is given. A missing file at the
// default path is not an error; defaults apply.
const DefaultPath = "botcomm.yaml"

// Config is the server configuration.
type Config struct {
	// Listen is the HTTP listen address. Default ":8080".
	Listen string `yaml:"listen"`

	// DataDir is the BadgerDB directory. Default "./botcomm-data".
	DataDir string `yaml:"data_dir"`

	LLM    LLMConfig    `yaml:"llm"`
	Speech SpeechConfig `yaml:"speech"`
}

// LLMConfig configures the chat completion backend.
type LLMConfig struct {
	// BaseURL points at an OpenAI-compatible endpoint. Default is Ollama's
	// local address.
	BaseURL string `yaml:"base_url"`
	APIKey  string `yaml:"api_key"`
}

// SpeechConfig configures the Gemini speech backend.
type SpeechConfig struct {
	APIKey          string `yaml:"api_key"`
	TranscribeModel string `yaml:"transcribe_model"`
	SynthesizeModel string `yaml:"synthesize_model"`
	MIMEType        string `yaml:"mime_type"`
}

// Load reads the configuration file at path and applies defaults. If path
// is empty, DefaultPath is tried and may be absent.
func Load(path string) (*Config, error) {
	optional := path == ""
	if optional {
		path = DefaultPath
	}

	cfg := &Config{}
	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("config: parse %s: %w", path, err)
		}
	case os.IsNotExist(err) && optional:
		// Defaults only.
	default:
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	}

	cfg.applyDefaults()
	return cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Listen == "" {
		c.Listen = ":8080"
	}
	if c.DataDir == "" {
		c.DataDir = "./botcomm-data"
	}
	if c.LLM.BaseURL == "" {
		c.LLM.BaseURL = "http://localhost:11434/v1"
	}
	if c.LLM.APIKey == "" {
		c.LLM.APIKey = "ollama"
	}
}
