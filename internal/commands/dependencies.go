package commands

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"go.uber.org/zap"
	"golang.org/x/term"

	"github.com/aufaim/portfoliochat/internal/api"
	"github.com/aufaim/portfoliochat/internal/auth"
	"github.com/aufaim/portfoliochat/internal/config"
	"github.com/aufaim/portfoliochat/internal/logging"
	"github.com/aufaim/portfoliochat/internal/tui"
)

// TUIInterface defines the methods required from the TUI package.
type TUIInterface interface {
	Run(ctx context.Context, opts tui.Options) error
}

// Dependencies holds the external dependencies for the commands.
// This allows for dependency injection and easier testing.
type Dependencies struct {
	// LoadConfig returns the effective configuration
	LoadConfig func() (config.Config, error)

	NewChat     func(cfg config.Config, logger *zap.Logger) (api.ChatAPI, error)
	NewProjects func(cfg config.Config, logger *zap.Logger) (api.ProjectsAPI, error)
	NewAuth     func(cfg config.Config, logger *zap.Logger) (auth.Provider, error)
	NewLogger   func(opts logging.Options) (*zap.Logger, error)

	// TUI is the terminal user interface.
	TUI TUIInterface

	Stdin io.Reader
	// StdinPiped reports whether a prompt is being piped in
	StdinPiped func() bool
	// StdoutTTY reports whether stdout is a terminal
	StdoutTTY func() bool
}

// DefaultTUI is the production implementation of TUIInterface.
type DefaultTUI struct{}

func (DefaultTUI) Run(ctx context.Context, opts tui.Options) error {
	return tui.Run(ctx, opts)
}

// NewDependencies creates a new Dependencies struct with default implementations.
func NewDependencies() *Dependencies {
	return &Dependencies{
		LoadConfig:  loadConfig,
		NewChat:     newChatClient,
		NewProjects: newProjectsClient,
		NewAuth:     newAuthProvider,
		NewLogger:   logging.New,
		TUI:         DefaultTUI{},
		Stdin:       os.Stdin,
		StdinPiped:  isStdinPiped,
		StdoutTTY:   isStdoutTTY,
	}
}

// withDefaults fills the fields a test left unset
func (d *Dependencies) withDefaults() *Dependencies {
	def := NewDependencies()
	if d == nil {
		return def
	}

	out := *d
	if out.LoadConfig == nil {
		out.LoadConfig = def.LoadConfig
	}
	if out.NewChat == nil {
		out.NewChat = def.NewChat
	}
	if out.NewProjects == nil {
		out.NewProjects = def.NewProjects
	}
	if out.NewAuth == nil {
		out.NewAuth = def.NewAuth
	}
	if out.NewLogger == nil {
		out.NewLogger = def.NewLogger
	}
	if out.TUI == nil {
		out.TUI = def.TUI
	}
	if out.Stdin == nil {
		out.Stdin = def.Stdin
	}
	if out.StdinPiped == nil {
		out.StdinPiped = def.StdinPiped
	}
	if out.StdoutTTY == nil {
		out.StdoutTTY = def.StdoutTTY
	}
	return &out
}

func loadConfig() (config.Config, error) {
	if err := config.LoadEnvFiles(); err != nil {
		return config.DefaultConfig(), fmt.Errorf("failed to load .env file: %w", err)
	}
	return config.LoadConfig()
}

func requestTimeout(cfg config.Config) time.Duration {
	return time.Duration(cfg.RequestTimeout) * time.Second
}

func newChatClient(cfg config.Config, logger *zap.Logger) (api.ChatAPI, error) {
	return api.NewChatClient(cfg.ChatEndpoint,
		api.WithTimeout(requestTimeout(cfg)),
		api.WithAPIKey(cfg.APIKey),
		api.WithLogger(logger),
	)
}

func newProjectsClient(cfg config.Config, logger *zap.Logger) (api.ProjectsAPI, error) {
	return api.NewProjectsClient(cfg.ProjectsURL,
		api.WithTimeout(requestTimeout(cfg)),
		api.WithLogger(logger),
	)
}

// newAuthProvider returns the identity provider client, or Anonymous
// when no tenant is configured
func newAuthProvider(cfg config.Config, logger *zap.Logger) (auth.Provider, error) {
	if !cfg.AuthEnabled() {
		return auth.Anonymous{}, nil
	}
	return auth.NewClient(cfg.Auth, auth.WithLogger(logger))
}

func isStdinPiped() bool {
	stat, err := os.Stdin.Stat()
	if err != nil {
		return false
	}
	return (stat.Mode() & os.ModeCharDevice) == 0
}

// isStdoutTTY returns true if stdout is connected to a terminal
func isStdoutTTY() bool {
	return term.IsTerminal(int(os.Stdout.Fd()))
}
