package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
)

// Environment variables that override the config file
const (
	EnvChatEndpoint = "PORTFOLIOCHAT_CHAT_ENDPOINT"
	EnvProjectsURL  = "PORTFOLIOCHAT_PROJECTS_URL"
	EnvAPIKey       = "PORTFOLIOCHAT_API_KEY"
	EnvAuthDomain   = "AUTH0_DOMAIN"
	EnvAuthClientID = "AUTH0_CLIENT_ID"
	EnvAuthAudience = "API_AUDIENCE"
)

// LoadEnvFiles loads .env files from the working directory and the config
// directory. Variables already present in the environment are kept.
// Missing files are skipped.
func LoadEnvFiles() error {
	paths := []string{".env"}
	if dir, err := GetConfigDir(); err == nil {
		paths = append(paths, filepath.Join(dir, ".env"))
	}

	var existing []string
	for _, p := range paths {
		if _, err := os.Stat(p); err == nil {
			existing = append(existing, p)
		}
	}
	if len(existing) == 0 {
		return nil
	}

	return godotenv.Load(existing...)
}

// ApplyEnv overrides cfg with any set environment variables
func ApplyEnv(cfg *Config) {
	if v := envValue(EnvChatEndpoint); v != "" {
		cfg.ChatEndpoint = v
	}
	if v := envValue(EnvProjectsURL); v != "" {
		cfg.ProjectsURL = v
	}
	if v := envValue(EnvAPIKey); v != "" {
		cfg.APIKey = v
	}
	if v := envValue(EnvAuthDomain); v != "" {
		cfg.Auth.Domain = v
	}
	if v := envValue(EnvAuthClientID); v != "" {
		cfg.Auth.ClientID = v
	}
	if v := envValue(EnvAuthAudience); v != "" {
		cfg.Auth.Audience = v
	}
}

func envValue(key string) string {
	return strings.TrimSpace(os.Getenv(key))
}
