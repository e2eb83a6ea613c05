package commands

import (
	"errors"
	"strings"
	"testing"

	"github.com/aufaim/portfoliochat/internal/auth"
	apierrors "github.com/aufaim/portfoliochat/internal/errors"
)

func TestLoginCmd_NotConfigured(t *testing.T) {
	env := newTestEnv(t)

	_, _, err := env.run("login")
	if !errors.Is(err, apierrors.ErrNotConfigured) {
		t.Errorf("err = %v, want ErrNotConfigured", err)
	}
}

func TestLoginCmd(t *testing.T) {
	env := newTestEnv(t)
	provider := &auth.MockProvider{AuthenticateOnCallback: true}
	env.provider = provider

	out, _, err := env.run("login", "--signup")
	if err != nil {
		t.Fatalf("run: %v", err)
	}

	login, _, callback, _ := provider.Counts()
	if login != 1 || callback != 1 {
		t.Errorf("login = %d, callback = %d", login, callback)
	}
	if provider.LastLoginOpts.ScreenHint != "signup" {
		t.Errorf("ScreenHint = %q", provider.LastLoginOpts.ScreenHint)
	}
	if !strings.Contains(out, "logged in") {
		t.Errorf("stdout = %q", out)
	}
}

func TestLoginCmd_AlreadyLoggedIn(t *testing.T) {
	env := newTestEnv(t)
	provider := &auth.MockProvider{Authenticated: true}
	env.provider = provider

	_, errOut, err := env.run("login")
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if !strings.Contains(errOut, "Already logged in") {
		t.Errorf("stderr = %q", errOut)
	}
	if login, _, _, _ := provider.Counts(); login != 0 {
		t.Error("no new login should start")
	}

	if _, _, err := env.run("login", "--force"); err != nil {
		t.Fatalf("run --force: %v", err)
	}
	if login, _, _, _ := provider.Counts(); login != 1 {
		t.Error("--force should start a login")
	}
}

func TestLoginCmd_CallbackFails(t *testing.T) {
	env := newTestEnv(t)
	env.provider = &auth.MockProvider{CallbackErr: apierrors.NewAuthError("state mismatch")}

	_, _, err := env.run("login")
	if err == nil || !strings.Contains(err.Error(), "login failed") {
		t.Errorf("err = %v", err)
	}
	if !apierrors.IsAuthError(err) {
		t.Error("the auth error should be wrapped")
	}
}

func TestLogoutCmd(t *testing.T) {
	env := newTestEnv(t)
	provider := &auth.MockProvider{Authenticated: true}
	env.provider = provider

	out, _, err := env.run("logout")
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if !strings.Contains(out, "Logged out") {
		t.Errorf("stdout = %q", out)
	}
	if _, logout, _, _ := provider.Counts(); logout != 1 {
		t.Errorf("logout calls = %d", logout)
	}
}

func TestStatusCmd(t *testing.T) {
	t.Run("anonymous", func(t *testing.T) {
		env := newTestEnv(t)

		out, _, err := env.run("status")
		if err != nil {
			t.Fatalf("run: %v", err)
		}
		if !strings.Contains(out, env.cfg.ChatEndpoint) || !strings.Contains(out, "not configured") {
			t.Errorf("stdout = %q", out)
		}
	})

	t.Run("logged out", func(t *testing.T) {
		env := newTestEnv(t)
		env.cfg.Auth.Domain = "tenant.example.com"
		env.cfg.Auth.ClientID = "client"
		env.provider = &auth.MockProvider{}

		out, _, err := env.run("status")
		if err != nil {
			t.Fatalf("run: %v", err)
		}
		if !strings.Contains(out, "tenant.example.com") || !strings.Contains(out, "logged out") {
			t.Errorf("stdout = %q", out)
		}
	})
}
