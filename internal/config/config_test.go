package config

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	apierrors "github.com/aufaim/portfoliochat/internal/errors"
	"github.com/aufaim/portfoliochat/internal/models"
)

// setupHome points HOME at a temp dir and clears env overrides
func setupHome(t *testing.T) string {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)
	for _, key := range []string{EnvChatEndpoint, EnvProjectsURL, EnvAPIKey, EnvAuthDomain, EnvAuthClientID, EnvAuthAudience} {
		t.Setenv(key, "")
	}
	return home
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.ChatEndpoint != models.DefaultChatEndpoint {
		t.Errorf("ChatEndpoint = %q, want %q", cfg.ChatEndpoint, models.DefaultChatEndpoint)
	}
	if cfg.NResults != 5 {
		t.Errorf("NResults = %d, want 5", cfg.NResults)
	}
	if cfg.Verbose {
		t.Error("Verbose should default to false")
	}
	if cfg.AuthEnabled() {
		t.Error("auth should be disabled without domain and client id")
	}
	if cfg.Auth.CallbackPort != 8765 {
		t.Errorf("CallbackPort = %d, want 8765", cfg.Auth.CallbackPort)
	}
}

func TestGetConfigPath(t *testing.T) {
	home := setupHome(t)

	path, err := GetConfigPath()
	if err != nil {
		t.Fatalf("GetConfigPath() returned error: %v", err)
	}
	want := filepath.Join(home, ".portfoliochat", "config.json")
	if path != want {
		t.Errorf("GetConfigPath() = %s, want %s", path, want)
	}
}

func TestLoadConfig_FileNotExists(t *testing.T) {
	setupHome(t)

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}
	if cfg.ChatEndpoint != models.DefaultChatEndpoint {
		t.Errorf("expected defaults, got %+v", cfg)
	}
}

func TestSaveAndLoadConfig(t *testing.T) {
	home := setupHome(t)

	cfg := DefaultConfig()
	cfg.ChatEndpoint = "https://chat.example.com/chat"
	cfg.Auth.Domain = "tenant.eu.auth0.com"
	cfg.Auth.ClientID = "abc123"

	if err := SaveConfig(cfg); err != nil {
		t.Fatalf("SaveConfig() error = %v", err)
	}

	info, err := os.Stat(filepath.Join(home, ".portfoliochat", "config.json"))
	if err != nil {
		t.Fatalf("config file missing: %v", err)
	}
	if info.Mode().Perm() != 0o600 {
		t.Errorf("config file mode = %o, want 600", info.Mode().Perm())
	}

	loaded, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}
	if loaded.ChatEndpoint != cfg.ChatEndpoint {
		t.Errorf("ChatEndpoint = %q, want %q", loaded.ChatEndpoint, cfg.ChatEndpoint)
	}
	if !loaded.AuthEnabled() {
		t.Error("expected auth to be enabled after reload")
	}
}

func TestLoadConfig_NormalizesZeroValues(t *testing.T) {
	home := setupHome(t)

	dir := filepath.Join(home, ".portfoliochat")
	if err := os.MkdirAll(dir, 0o700); err != nil {
		t.Fatal(err)
	}
	raw, _ := json.Marshal(map[string]interface{}{"n_results": 0, "chat_endpoint": ""})
	if err := os.WriteFile(filepath.Join(dir, "config.json"), raw, 0o600); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}
	if cfg.NResults != models.DefaultNResults {
		t.Errorf("NResults = %d, want default", cfg.NResults)
	}
	if cfg.ChatEndpoint != models.DefaultChatEndpoint {
		t.Errorf("ChatEndpoint = %q, want default", cfg.ChatEndpoint)
	}
}

func TestLoadConfig_InvalidJSON(t *testing.T) {
	home := setupHome(t)

	dir := filepath.Join(home, ".portfoliochat")
	if err := os.MkdirAll(dir, 0o700); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "config.json"), []byte("{not json"), 0o600); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadConfig()
	if err == nil {
		t.Fatal("expected parse error")
	}
	if cfg.ChatEndpoint != models.DefaultChatEndpoint {
		t.Error("expected defaults alongside the parse error")
	}
}

func TestApplyEnv(t *testing.T) {
	setupHome(t)
	t.Setenv(EnvChatEndpoint, "https://env.example.com/chat")
	t.Setenv(EnvAuthDomain, "env.auth0.com")
	t.Setenv(EnvAuthClientID, "env-client")
	t.Setenv(EnvAuthAudience, "https://api.example.com")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}
	if cfg.ChatEndpoint != "https://env.example.com/chat" {
		t.Errorf("ChatEndpoint = %q", cfg.ChatEndpoint)
	}
	if cfg.Auth.Domain != "env.auth0.com" || cfg.Auth.ClientID != "env-client" || cfg.Auth.Audience != "https://api.example.com" {
		t.Errorf("Auth = %+v", cfg.Auth)
	}
}

func TestLoadFile_IgnoresEnv(t *testing.T) {
	setupHome(t)
	t.Setenv(EnvChatEndpoint, "https://env.example.com/chat")

	cfg, err := LoadFile()
	if err != nil {
		t.Fatalf("LoadFile() error = %v", err)
	}
	if cfg.ChatEndpoint != models.DefaultChatEndpoint {
		t.Errorf("ChatEndpoint = %q, env must not leak into the file config", cfg.ChatEndpoint)
	}
}

func TestLoadEnvFiles(t *testing.T) {
	home := setupHome(t)
	t.Chdir(t.TempDir())

	dir := filepath.Join(home, ".portfoliochat")
	if err := os.MkdirAll(dir, 0o700); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, ".env"), []byte("PORTFOLIOCHAT_TEST_VALUE=from-dotenv\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Setenv("PORTFOLIOCHAT_TEST_VALUE", "")
	os.Unsetenv("PORTFOLIOCHAT_TEST_VALUE")

	if err := LoadEnvFiles(); err != nil {
		t.Fatalf("LoadEnvFiles() error = %v", err)
	}
	if got := os.Getenv("PORTFOLIOCHAT_TEST_VALUE"); got != "from-dotenv" {
		t.Errorf("env value = %q, want from-dotenv", got)
	}
}

func TestConfigSet(t *testing.T) {
	tests := []struct {
		key     string
		value   string
		wantErr bool
		check   func(Config) bool
	}{
		{"chat_endpoint", "https://x.example.com/chat", false, func(c Config) bool { return c.ChatEndpoint == "https://x.example.com/chat" }},
		{"chat_endpoint", "not a url", true, nil},
		{"n_results", "10", false, func(c Config) bool { return c.NResults == 10 }},
		{"n_results", "-1", true, nil},
		{"verbose", "true", false, func(c Config) bool { return c.Verbose }},
		{"verbose", "maybe", true, nil},
		{"auth.domain", "https://tenant.auth0.com/", false, func(c Config) bool { return c.Auth.Domain == "tenant.auth0.com" }},
		{"auth.callback_port", "70000", true, nil},
		{"auth.scopes", "openid, email", false, func(c Config) bool { return len(c.Auth.Scopes) == 2 && c.Auth.Scopes[1] == "email" }},
		{"unknown.key", "x", true, nil},
	}

	for _, tt := range tests {
		t.Run(tt.key+"="+tt.value, func(t *testing.T) {
			cfg := DefaultConfig()
			err := cfg.Set(tt.key, tt.value)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Set() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.check != nil && !tt.check(cfg) {
				t.Errorf("Set(%s, %s) did not apply: %+v", tt.key, tt.value, cfg)
			}
		})
	}
}

func TestConfigGet_MasksAPIKey(t *testing.T) {
	cfg := DefaultConfig()
	cfg.APIKey = "supersecret1234"

	got, err := cfg.Get("api_key")
	if err != nil {
		t.Fatal(err)
	}
	if got != "***********1234" {
		t.Errorf("Get(api_key) = %q", got)
	}
	if _, err := cfg.Get("nope"); err == nil {
		t.Error("expected error for unknown key")
	}
}

func TestCredentialsRoundTrip(t *testing.T) {
	home := setupHome(t)

	if _, err := LoadCredentials(); !errors.Is(err, apierrors.ErrLoginRequired) {
		t.Fatalf("LoadCredentials() without file error = %v, want ErrLoginRequired", err)
	}

	creds := &Credentials{
		AccessToken:  "access",
		RefreshToken: "refresh",
		TokenType:    "Bearer",
		ExpiresAt:    time.Now().Add(time.Hour).Truncate(time.Second),
	}
	if err := SaveCredentials(creds); err != nil {
		t.Fatalf("SaveCredentials() error = %v", err)
	}

	info, err := os.Stat(filepath.Join(home, ".portfoliochat", "credentials.json"))
	if err != nil {
		t.Fatal(err)
	}
	if info.Mode().Perm() != 0o600 {
		t.Errorf("credentials mode = %o, want 600", info.Mode().Perm())
	}

	loaded, err := LoadCredentials()
	if err != nil {
		t.Fatalf("LoadCredentials() error = %v", err)
	}
	if loaded.AccessToken != "access" || !loaded.ExpiresAt.Equal(creds.ExpiresAt) {
		t.Errorf("loaded = %+v", loaded)
	}

	if err := DeleteCredentials(); err != nil {
		t.Fatalf("DeleteCredentials() error = %v", err)
	}
	if err := DeleteCredentials(); err != nil {
		t.Fatalf("second DeleteCredentials() error = %v", err)
	}
	if _, err := LoadCredentials(); !errors.Is(err, apierrors.ErrLoginRequired) {
		t.Errorf("after delete error = %v, want ErrLoginRequired", err)
	}
}
