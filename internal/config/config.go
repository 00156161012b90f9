// Package config handles configuration for noteship.
package config

import (
	"encoding/json"
	"fmt"
	"net/url"
	"os"
	"path/filepath"

	"github.com/caarlos0/env/v11"
)

// List item representations for rendered bullet lines
const (
	ListItemsGlyph = "glyph"
	ListItemsTag   = "tag"
)

// MarkdownConfig configures reply rendering
type MarkdownConfig struct {
	Style            string `json:"style" env:"NOTESHIP_MARKDOWN_STYLE"` // glamour style for terminal output
	Width            int    `json:"width,omitempty"`                     // terminal wrap width, 0 means auto
	EnableEmoji      bool   `json:"enable_emoji"`
	PreserveNewLines bool   `json:"preserve_newlines"`
	ListItems        string `json:"list_items" env:"NOTESHIP_MARKDOWN_LIST_ITEMS"` // "glyph" or "tag" in HTML output
}

// ServerConfig configures the chat backend and widget host
type ServerConfig struct {
	Host           string   `json:"host" env:"NOTESHIP_SERVER_HOST"`
	Port           int      `json:"port" env:"NOTESHIP_SERVER_PORT"`
	AllowedOrigins []string `json:"allowed_origins" env:"NOTESHIP_SERVER_ALLOWED_ORIGINS"`
	// RateLimit is the sustained number of model-backed requests per second.
	// Zero disables limiting.
	RateLimit    float64 `json:"rate_limit" env:"NOTESHIP_SERVER_RATE_LIMIT"`
	RateBurst    int     `json:"rate_burst" env:"NOTESHIP_SERVER_RATE_BURST"`
	MaxBodyBytes int64   `json:"max_body_bytes"`
}

// ModelConfig configures the hosted model the backend relays to
type ModelConfig struct {
	ID      string `json:"id" env:"MODEL_ID"`
	APIKey  string `json:"api_key,omitempty" env:"BYTEZ_API_KEY"`
	BaseURL string `json:"base_url" env:"NOTESHIP_MODEL_BASE_URL"`
	// TimeoutSeconds bounds a single model call.
	TimeoutSeconds int      `json:"timeout_seconds" env:"NOTESHIP_MODEL_TIMEOUT"`
	Temperature    float64  `json:"temperature"`
	MaxLength      int      `json:"max_length"`
	FallbackModels []string `json:"fallback_models,omitempty" env:"NOTESHIP_MODEL_FALLBACKS"`
}

// PromptConfig holds the system prompts used by the backend
type PromptConfig struct {
	Chat  string `json:"chat"`
	Notes string `json:"notes"`
}

// Config represents the user configuration
type Config struct {
	// Endpoint is the chat backend the CLI and TUI talk to.
	Endpoint        string         `json:"endpoint" env:"NOTESHIP_ENDPOINT"`
	RequestTimeout  int            `json:"request_timeout" env:"NOTESHIP_REQUEST_TIMEOUT"` // seconds
	CopyToClipboard bool           `json:"copy_to_clipboard" env:"NOTESHIP_COPY_TO_CLIPBOARD"`
	LogLevel        string         `json:"log_level" env:"NOTESHIP_LOG_LEVEL"`
	Server          ServerConfig   `json:"server"`
	Model           ModelConfig    `json:"model"`
	Prompts         PromptConfig   `json:"prompts"`
	Markdown        MarkdownConfig `json:"markdown"`
}

// DefaultMarkdownConfig returns the default markdown configuration
func DefaultMarkdownConfig() MarkdownConfig {
	return MarkdownConfig{
		Style:            "dark",
		EnableEmoji:      true,
		PreserveNewLines: true,
		ListItems:        ListItemsGlyph,
	}
}

// DefaultConfig returns the default configuration
func DefaultConfig() Config {
	return Config{
		Endpoint:       "http://127.0.0.1:5000",
		RequestTimeout: 60,
		LogLevel:       "info",
		Server: ServerConfig{
			Host:           "127.0.0.1",
			Port:           5000,
			AllowedOrigins: []string{"*"},
			RateLimit:      5,
			RateBurst:      10,
			MaxBodyBytes:   64 << 10,
		},
		Model: ModelConfig{
			ID:             "google/gemini-2.5-pro",
			BaseURL:        "https://api.bytez.com/models/v2",
			TimeoutSeconds: 5,
			Temperature:    0.7,
			MaxLength:      1000,
		},
		Prompts: PromptConfig{
			Chat:  "You are NOTESHIP, a helpful study assistant.",
			Notes: "Act as an expert academic tutor. Your goal is to create structured, high-quality revision notes.",
		},
		Markdown: DefaultMarkdownConfig(),
	}
}

// GetConfigDir returns the configuration directory path
func GetConfigDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(home, ".noteship"), nil
}

// GetConfigPath returns the path to the config file. NOTESHIP_CONFIG overrides it.
func GetConfigPath() (string, error) {
	if p := os.Getenv("NOTESHIP_CONFIG"); p != "" {
		return p, nil
	}
	configDir, err := GetConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(configDir, "config.json"), nil
}

// LoadConfig loads the configuration from the default path
func LoadConfig() (Config, error) {
	path, err := GetConfigPath()
	if err != nil {
		return DefaultConfig(), err
	}
	return LoadConfigFrom(path)
}

// LoadConfigFrom loads the configuration file at path and applies
// environment overrides. A missing file yields the defaults.
func LoadConfigFrom(path string) (Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := json.Unmarshal(data, &cfg); err != nil {
			return DefaultConfig(), fmt.Errorf("failed to parse config file: %w", err)
		}
	case os.IsNotExist(err):
	default:
		return cfg, fmt.Errorf("failed to read config file: %w", err)
	}

	if err := env.Parse(&cfg); err != nil {
		return cfg, fmt.Errorf("failed to apply environment overrides: %w", err)
	}

	return cfg, nil
}

// SaveConfig writes cfg to path, creating the parent directory.
// The API key is never written; it belongs in the environment.
func SaveConfig(path string, cfg Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	cfg.Model.APIKey = ""
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// Validate checks the values that would otherwise fail late at runtime.
func (c Config) Validate() error {
	u, err := url.Parse(c.Endpoint)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("invalid endpoint %q: must be an http(s) URL", c.Endpoint)
	}
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port %d", c.Server.Port)
	}
	if c.Model.TimeoutSeconds <= 0 {
		return fmt.Errorf("model timeout must be positive, got %d", c.Model.TimeoutSeconds)
	}
	if c.RequestTimeout <= 0 {
		return fmt.Errorf("request timeout must be positive, got %d", c.RequestTimeout)
	}
	switch c.Markdown.ListItems {
	case "", ListItemsGlyph, ListItemsTag:
	default:
		return fmt.Errorf("invalid markdown.list_items %q (want %q or %q)", c.Markdown.ListItems, ListItemsGlyph, ListItemsTag)
	}
	return nil
}

// Addr returns the listen address of the backend.
func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}
