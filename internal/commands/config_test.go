package commands

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/aufaim/portfoliochat/internal/config"
)

func TestNewConfigCmd(t *testing.T) {
	cmd := NewConfigCmd(nil, nil)

	if cmd.Use != "config" {
		t.Errorf("expected Use 'config', got '%s'", cmd.Use)
	}

	var names []string
	for _, c := range cmd.Commands() {
		names = append(names, c.Name())
	}
	if strings.Join(names, ",") != "path,set,show" {
		t.Errorf("subcommands = %v", names)
	}
}

func TestConfigCmd_Path(t *testing.T) {
	env := newTestEnv(t)

	out, _, err := env.run("config", "path")
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if !strings.HasSuffix(strings.TrimSpace(out), filepath.Join(".portfoliochat", "config.json")) {
		t.Errorf("path = %q", out)
	}
}

func TestConfigCmd_SetAndShow(t *testing.T) {
	env := newTestEnv(t)

	out, _, err := env.run("config", "set", "n_results", "8")
	if err != nil {
		t.Fatalf("set: %v", err)
	}
	if strings.TrimSpace(out) != "n_results = 8" {
		t.Errorf("set output = %q", out)
	}

	cfg, err := config.LoadFile()
	if err != nil {
		t.Fatal(err)
	}
	if cfg.NResults != 8 {
		t.Errorf("saved NResults = %d", cfg.NResults)
	}

	env.cfg.APIKey = "secret-key-1234"
	out, _, err = env.run("config", "show")
	if err != nil {
		t.Fatalf("show: %v", err)
	}
	if !strings.Contains(out, "chat_endpoint") || !strings.Contains(out, "auth.client_id") {
		t.Errorf("show output missing keys:\n%s", out)
	}
	if strings.Contains(out, "secret-key") || !strings.Contains(out, "1234") {
		t.Errorf("api key should be masked:\n%s", out)
	}
}

func TestConfigCmd_SetInvalid(t *testing.T) {
	env := newTestEnv(t)

	tests := [][]string{
		{"config", "set", "bogus", "1"},
		{"config", "set", "n_results", "zero"},
		{"config", "set", "n_results"},
	}
	for _, args := range tests {
		if _, _, err := env.run(args...); err == nil {
			t.Errorf("%v should fail", args)
		}
	}
}
