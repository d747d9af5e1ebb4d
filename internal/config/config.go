// Package config provides the YAML configuration schema and loader for a
// lingora dialogue session.
package config

// LogLevel controls log verbosity.
type LogLevel string

const (
	LogDebug LogLevel = "debug"
	LogInfo  LogLevel = "info"
	LogWarn  LogLevel = "warn"
	LogError LogLevel = "error"
)

// IsValid reports whether l is a recognised log level.
func (l LogLevel) IsValid() bool {
	switch l {
	case LogDebug, LogInfo, LogWarn, LogError:
		return true
	}
	return false
}

// Config is the root configuration structure.
type Config struct {
	LogLevel LogLevel `yaml:"log_level"`

	// Persona overrides the fixed instruction sent first in every model
	// request; empty keeps the built-in persona.
	Persona string `yaml:"persona"`
	// Greeting overrides the turn the conversation is seeded with.
	Greeting string `yaml:"greeting"`

	Speech SpeechConfig `yaml:"speech"`
	Model  ModelConfig  `yaml:"model"`
}

// SpeechConfig tunes speech input and output.
type SpeechConfig struct {
	// Locale is the target accent for both recognition and synthesis.
	Locale string `yaml:"locale"`
	// Voice optionally pins a synthesis voice by name, bypassing the
	// locale-based selection policy.
	Voice string `yaml:"voice"`
	// Rate and Pitch are playback multipliers; zero means engine default.
	Rate  float64 `yaml:"rate"`
	Pitch float64 `yaml:"pitch"`
	// ChunkLimit bounds the length of a single spoken utterance in runes.
	ChunkLimit int `yaml:"chunk_limit"`
}

// ModelConfig selects the language model endpoint.
type ModelConfig struct {
	Name string `yaml:"name"`
	// BaseURL overrides the endpoint, e.g. for a proxy.
	BaseURL string `yaml:"base_url"`
}

// Defaults returns a config with the values a zero-config session runs with.
func Defaults() *Config {
	return &Config{
		LogLevel: LogInfo,
		Speech: SpeechConfig{
			Locale:     "en-US",
			Rate:       1.0,
			Pitch:      1.0,
			ChunkLimit: 180,
		},
		Model: ModelConfig{Name: "gemini-2.0-flash"},
	}
}
