// Package config loads briefcast settings from an optional YAML file, a .env
// file and the process environment, in that order of increasing precedence.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"slices"
	"strconv"

	"github.com/goccy/go-yaml"
	"github.com/joho/godotenv"

	"github.com/d1nch8g/briefcast/audio"
)

// Backend names accepted for each collaborator.
const (
	BackendGemini = "gemini"
	BackendOpenAI = "openai"
	BackendYandex = "yandex"
)

var (
	sourceBackends = []string{BackendGemini}
	scriptBackends = []string{BackendGemini, BackendOpenAI, BackendYandex}
	speechBackends = []string{BackendGemini, BackendOpenAI, BackendYandex}
)

type Config struct {
	GeminiAPIKey string `yaml:"gemini_api_key,omitempty"`
	OpenAIAPIKey string `yaml:"openai_api_key,omitempty"`
	// OpenAIBaseURL points the OpenAI backends at a compatible endpoint.
	OpenAIBaseURL string `yaml:"openai_base_url,omitempty"`

	IamToken     string `yaml:"iam_token,omitempty"`
	YandexAPIKey string `yaml:"yandex_api_key,omitempty"`
	FolderID     string `yaml:"folder_id,omitempty"`

	Sources string `yaml:"sources,omitempty"`
	Script  string `yaml:"script,omitempty"`
	Speech  string `yaml:"speech,omitempty"`
	Voice   string `yaml:"voice,omitempty"`

	MaxPayloadBytes int `yaml:"max_payload_bytes,omitempty"`
	// BaseURL prefixes artifact URLs handed out by the server.
	BaseURL string `yaml:"base_url,omitempty"`
}

// Default returns the configuration used when nothing is set.
func Default() *Config {
	return &Config{
		Sources:         BackendGemini,
		Script:          BackendGemini,
		Speech:          BackendGemini,
		MaxPayloadBytes: audio.DefaultMaxBytes,
	}
}

// LoadConfig builds the configuration. The YAML file at path is read when
// path is not empty; a missing .env file is not an error.
func LoadConfig(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config: %w", err)
		}
	}

	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() error {
	for env, dst := range map[string]*string{
		"GEMINI_API_KEY":     &c.GeminiAPIKey,
		"OPENAI_API_KEY":     &c.OpenAIAPIKey,
		"OPENAI_BASE_URL":    &c.OpenAIBaseURL,
		"IAM_TOKEN":          &c.IamToken,
		"YANDEX_API_KEY":     &c.YandexAPIKey,
		"FOLDER_ID":          &c.FolderID,
		"BRIEFCAST_SOURCES":  &c.Sources,
		"BRIEFCAST_SCRIPT":   &c.Script,
		"BRIEFCAST_SPEECH":   &c.Speech,
		"BRIEFCAST_VOICE":    &c.Voice,
		"BRIEFCAST_BASE_URL": &c.BaseURL,
	} {
		if v := os.Getenv(env); v != "" {
			*dst = v
		}
	}

	if v := os.Getenv("BRIEFCAST_MAX_PAYLOAD_BYTES"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid BRIEFCAST_MAX_PAYLOAD_BYTES %q: %w", v, err)
		}
		c.MaxPayloadBytes = n
	}
	return nil
}

// Validate checks backend names and that every selected backend has the
// credentials it needs.
func (c *Config) Validate() error {
	var errs []error
	check := func(kind, name string, allowed []string) {
		if !slices.Contains(allowed, name) {
			errs = append(errs, fmt.Errorf("unknown %s backend %q, choose one of %v", kind, name, allowed))
			return
		}
		if err := c.credentials(name); err != nil {
			errs = append(errs, fmt.Errorf("%s backend: %w", kind, err))
		}
	}
	check("sources", c.Sources, sourceBackends)
	check("script", c.Script, scriptBackends)
	check("speech", c.Speech, speechBackends)

	if c.MaxPayloadBytes <= 0 {
		errs = append(errs, fmt.Errorf("max payload bytes must be positive, got %d", c.MaxPayloadBytes))
	}
	return errors.Join(errs...)
}

func (c *Config) credentials(backend string) error {
	switch backend {
	case BackendGemini:
		if c.GeminiAPIKey == "" {
			return errors.New("GEMINI_API_KEY must be set")
		}
	case BackendOpenAI:
		if c.OpenAIAPIKey == "" {
			return errors.New("OPENAI_API_KEY must be set")
		}
	case BackendYandex:
		if c.IamToken == "" && c.YandexAPIKey == "" {
			return errors.New("IAM_TOKEN or YANDEX_API_KEY must be set")
		}
		if c.FolderID == "" {
			return errors.New("FOLDER_ID must be set")
		}
	}
	return nil
}
