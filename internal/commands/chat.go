package commands

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/aufaim/portfoliochat/internal/tui"
)

func newChatCmd(deps *Dependencies, flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "chat",
		Short: "Open the interactive view",
		Long: `Open the project list with the chat panel.

Press Tab to show or hide the chat, Enter to send, /help for commands and
Esc or Ctrl+C to quit.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTUI(cmd, deps, flags)
		},
	}
}

func runTUI(cmd *cobra.Command, deps *Dependencies, flags *globalFlags) error {
	a, err := setup(deps, flags, true)
	if err != nil {
		return err
	}
	defer a.close()

	chatAPI, err := deps.NewChat(a.cfg, a.logger)
	if err != nil {
		return fmt.Errorf("failed to create chat client: %w", err)
	}
	projects, err := deps.NewProjects(a.cfg, a.logger)
	if err != nil {
		return fmt.Errorf("failed to create projects client: %w", err)
	}
	provider, err := deps.NewAuth(a.cfg, a.logger)
	if err != nil {
		return fmt.Errorf("failed to create identity provider: %w", err)
	}

	opts := tui.Options{
		Chat:     chatAPI,
		Auth:     provider,
		Projects: projects,
		NResults: a.cfg.NResults,
		Markdown: a.cfg.Markdown,
		Logger:   a.logger,
	}
	if p, ok := provider.(pendingLoginURLer); ok {
		opts.PendingLoginURL = p.PendingLoginURL
	}

	a.logger.Info("interactive session started",
		zap.String("endpoint", a.cfg.ChatEndpoint),
		zap.Bool("auth", a.cfg.AuthEnabled()),
	)
	return deps.TUI.Run(cmd.Context(), opts)
}
