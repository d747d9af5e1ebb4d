package config

import (
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

// Load reads the YAML configuration file at path and returns a validated
// [Config]. It is a convenience wrapper around [LoadFromReader].
func Load(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("config: open %q: %w", path, err)
	}
	defer f.Close()

	cfg, err := LoadFromReader(f)
	if err != nil {
		return nil, fmt.Errorf("config: parse %q: %w", path, err)
	}
	return cfg, nil
}

// LoadFromReader decodes a YAML config from r, fills unset fields from
// [Defaults], and validates the result. Useful in tests where configs are
// constructed from string literals.
func LoadFromReader(r io.Reader) (*Config, error) {
	cfg := &Config{}
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("config: decode yaml: %w", err)
	}

	applyDefaults(cfg)

	if err := Validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func applyDefaults(cfg *Config) {
	defaults := Defaults()
	if cfg.LogLevel == "" {
		cfg.LogLevel = defaults.LogLevel
	}
	if cfg.Speech.Locale == "" {
		cfg.Speech.Locale = defaults.Speech.Locale
	}
	if cfg.Speech.Rate == 0 {
		cfg.Speech.Rate = defaults.Speech.Rate
	}
	if cfg.Speech.Pitch == 0 {
		cfg.Speech.Pitch = defaults.Speech.Pitch
	}
	if cfg.Speech.ChunkLimit == 0 {
		cfg.Speech.ChunkLimit = defaults.Speech.ChunkLimit
	}
	if cfg.Model.Name == "" {
		cfg.Model.Name = defaults.Model.Name
	}
}

// Validate checks that cfg contains a coherent set of values. It returns a
// joined error listing all validation failures found.
func Validate(cfg *Config) error {
	var errs []error

	if !cfg.LogLevel.IsValid() {
		errs = append(errs, fmt.Errorf("log_level %q is invalid; valid values: debug, info, warn, error", cfg.LogLevel))
	}
	if cfg.Speech.ChunkLimit < 1 {
		errs = append(errs, fmt.Errorf("speech.chunk_limit must be at least 1, got %d", cfg.Speech.ChunkLimit))
	}
	if cfg.Speech.Rate < 0.25 || cfg.Speech.Rate > 4 {
		errs = append(errs, fmt.Errorf("speech.rate %v is outside the supported 0.25–4 range", cfg.Speech.Rate))
	}
	if cfg.Speech.Pitch < 0.5 || cfg.Speech.Pitch > 2 {
		errs = append(errs, fmt.Errorf("speech.pitch %v is outside the supported 0.5–2 range", cfg.Speech.Pitch))
	}

	return errors.Join(errs...)
}
