package commands

import (
	"bytes"
	"context"
	"strings"
	"sync"
	"testing"

	"go.uber.org/zap"

	"github.com/aufaim/portfoliochat/internal/api"
	"github.com/aufaim/portfoliochat/internal/auth"
	"github.com/aufaim/portfoliochat/internal/config"
	"github.com/aufaim/portfoliochat/internal/logging"
	"github.com/aufaim/portfoliochat/internal/models"
	"github.com/aufaim/portfoliochat/internal/tui"
)

// fakeTUI records the options the interactive view was started with
type fakeTUI struct {
	mu    sync.Mutex
	calls int
	opts  tui.Options
}

func (f *fakeTUI) Run(ctx context.Context, opts tui.Options) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	f.opts = opts
	return nil
}

type testEnv struct {
	deps     *Dependencies
	cfg      config.Config
	chat     *api.MockChatClient
	projects *api.MockProjectsClient
	provider auth.Provider
	tui      *fakeTUI
	// chatConfig is the configuration the chat client was built with
	chatConfig config.Config
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	t.Setenv("HOME", t.TempDir())

	env := &testEnv{
		cfg:      config.DefaultConfig(),
		chat:     &api.MockChatClient{Reply: &models.ChatReply{Text: "Go powers the chat API."}},
		projects: &api.MockProjectsClient{},
		provider: auth.Anonymous{},
		tui:      &fakeTUI{},
	}

	env.deps = &Dependencies{
		LoadConfig: func() (config.Config, error) { return env.cfg, nil },
		NewChat: func(cfg config.Config, logger *zap.Logger) (api.ChatAPI, error) {
			env.chatConfig = cfg
			return env.chat, nil
		},
		NewProjects: func(cfg config.Config, logger *zap.Logger) (api.ProjectsAPI, error) {
			return env.projects, nil
		},
		NewAuth: func(cfg config.Config, logger *zap.Logger) (auth.Provider, error) {
			return env.provider, nil
		},
		NewLogger: func(opts logging.Options) (*zap.Logger, error) {
			return logging.Nop(), nil
		},
		TUI:        env.tui,
		Stdin:      strings.NewReader(""),
		StdinPiped: func() bool { return false },
		StdoutTTY:  func() bool { return false },
	}
	return env
}

// run executes the command tree with args and returns both output streams
func (env *testEnv) run(args ...string) (stdout, stderr string, err error) {
	cmd := NewRootCmd(env.deps)

	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)

	err = cmd.ExecuteContext(context.Background())
	return out.String(), errOut.String(), err
}
