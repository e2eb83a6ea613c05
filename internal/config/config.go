// Package config handles configuration and credential storage for portfoliochat.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/aufaim/portfoliochat/internal/models"
)

// MarkdownConfig configures markdown rendering of bot replies
type MarkdownConfig struct {
	Style            string `json:"style"`             // "dark", "light", "notty" or path to JSON theme
	EnableEmoji      bool   `json:"enable_emoji"`      // Convert :emoji: to unicode
	PreserveNewLines bool   `json:"preserve_newlines"` // Preserve original line breaks
}

// AuthConfig describes the identity provider tenant. Leaving Domain or
// ClientID empty disables login entirely.
type AuthConfig struct {
	Domain       string   `json:"domain,omitempty"`
	ClientID     string   `json:"client_id,omitempty"`
	Audience     string   `json:"audience,omitempty"`
	CallbackPort int      `json:"callback_port"`
	Scopes       []string `json:"scopes,omitempty"`
}

// Config represents the user configuration
type Config struct {
	ChatEndpoint string `json:"chat_endpoint"`
	ProjectsURL  string `json:"projects_url"`
	NResults     int    `json:"n_results"`
	// RequestTimeout is the per-request timeout in seconds
	RequestTimeout int `json:"request_timeout"`
	// APIKey is sent as X-API-Key when set
	APIKey   string         `json:"api_key,omitempty"`
	Verbose  bool           `json:"verbose"`
	TUITheme string         `json:"tui_theme,omitempty"`
	Markdown MarkdownConfig `json:"markdown"`
	Auth     AuthConfig     `json:"auth"`
}

// DefaultMarkdownConfig returns the default markdown configuration
func DefaultMarkdownConfig() MarkdownConfig {
	return MarkdownConfig{
		Style:            "dark",
		EnableEmoji:      true,
		PreserveNewLines: true,
	}
}

// DefaultAuthConfig returns the default identity provider settings
func DefaultAuthConfig() AuthConfig {
	return AuthConfig{
		CallbackPort: 8765,
		Scopes:       []string{"openid", "profile", "email", "offline_access"},
	}
}

// DefaultConfig returns the default configuration
func DefaultConfig() Config {
	return Config{
		ChatEndpoint:   models.DefaultChatEndpoint,
		ProjectsURL:    models.DefaultProjectsURL,
		NResults:       models.DefaultNResults,
		RequestTimeout: 60,
		Verbose:        false,
		TUITheme:       "tokyonight",
		Markdown:       DefaultMarkdownConfig(),
		Auth:           DefaultAuthConfig(),
	}
}

// AuthEnabled reports whether an identity provider is configured
func (c Config) AuthEnabled() bool {
	return strings.TrimSpace(c.Auth.Domain) != "" && strings.TrimSpace(c.Auth.ClientID) != ""
}

// GetConfigDir returns the configuration directory path
func GetConfigDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}

	return filepath.Join(home, ".portfoliochat"), nil
}

// EnsureConfigDir creates the configuration directory if it doesn't exist
func EnsureConfigDir() (string, error) {
	configDir, err := GetConfigDir()
	if err != nil {
		return "", err
	}

	// 0o700: the directory holds credentials
	if err := os.MkdirAll(configDir, 0o700); err != nil {
		return "", fmt.Errorf("failed to create config directory: %w", err)
	}

	return configDir, nil
}

// GetConfigPath returns the path to the config file
func GetConfigPath() (string, error) {
	configDir, err := GetConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(configDir, "config.json"), nil
}

// GetLogPath returns the path of the interactive-mode log file
func GetLogPath() (string, error) {
	configDir, err := GetConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(configDir, "portfoliochat.log"), nil
}

// LoadConfig loads the configuration from disk and applies environment
// overrides. A missing file yields the defaults.
func LoadConfig() (Config, error) {
	cfg, err := LoadFile()
	ApplyEnv(&cfg)
	return cfg, err
}

// LoadFile loads the configuration file without environment overrides.
// On a parse error the defaults are returned with the error.
func LoadFile() (Config, error) {
	cfg := DefaultConfig()

	configPath, err := GetConfigPath()
	if err != nil {
		return cfg, err
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("failed to read config file: %w", err)
	}

	if err := json.Unmarshal(data, &cfg); err != nil {
		return DefaultConfig(), fmt.Errorf("failed to parse config file: %w", err)
	}

	normalize(&cfg)
	return cfg, nil
}

// SaveConfig saves the configuration to disk
func SaveConfig(cfg Config) error {
	configDir, err := EnsureConfigDir()
	if err != nil {
		return err
	}

	configPath := filepath.Join(configDir, "config.json")

	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(configPath, data, 0o600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// normalize replaces zero values a hand-edited file may contain
func normalize(cfg *Config) {
	def := DefaultConfig()
	if cfg.ChatEndpoint == "" {
		cfg.ChatEndpoint = def.ChatEndpoint
	}
	if cfg.ProjectsURL == "" {
		cfg.ProjectsURL = def.ProjectsURL
	}
	if cfg.NResults <= 0 {
		cfg.NResults = def.NResults
	}
	if cfg.RequestTimeout <= 0 {
		cfg.RequestTimeout = def.RequestTimeout
	}
	if cfg.Auth.CallbackPort <= 0 {
		cfg.Auth.CallbackPort = def.Auth.CallbackPort
	}
	if len(cfg.Auth.Scopes) == 0 {
		cfg.Auth.Scopes = def.Auth.Scopes
	}
	if cfg.Markdown.Style == "" {
		cfg.Markdown.Style = def.Markdown.Style
	}
}
