// Package commands provides CLI commands for portfoliochat.
package commands

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/aufaim/portfoliochat/internal/config"
	"github.com/aufaim/portfoliochat/internal/logging"
	"github.com/aufaim/portfoliochat/internal/render"
	"github.com/aufaim/portfoliochat/internal/tui"
)

var (
	// Version info (set at build time)
	Version   = "0.1.0"
	BuildTime = "unknown"
)

// globalFlags are the persistent flags shared by all subcommands
type globalFlags struct {
	verbose  bool
	endpoint string
}

// NewRootCmd creates the command tree
func NewRootCmd(deps *Dependencies) *cobra.Command {
	deps = deps.withDefaults()
	flags := &globalFlags{}
	q := &queryFlags{}

	cmd := &cobra.Command{
		Use:   "portfoliochat [question]",
		Short: "Chat with the portfolio assistant from the terminal",
		Long: `portfoliochat shows the portfolio projects and hosts the chat panel
that answers questions about them. When an identity provider is configured
the chat requires a login through the browser.

Examples:
  portfoliochat                               Open the interactive view
  portfoliochat "Which projects use Go?"      Ask a single question
  portfoliochat -f question.md                Read the question from a file
  cat question.md | portfoliochat             Read the question from stdin
  portfoliochat "Hello" -o reply.md           Save the reply to a file
  portfoliochat projects                      List the projects
  portfoliochat login                         Log in through the browser`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if v, _ := cmd.Flags().GetBool("version"); v {
				fmt.Fprintf(cmd.OutOrStdout(), "portfoliochat %s (built %s)\n", Version, BuildTime)
				return nil
			}

			prompt, ok, err := readPrompt(deps, q.file, args)
			if err != nil {
				return err
			}
			if ok {
				return runQuery(cmd, deps, flags, q, prompt)
			}
			return runTUI(cmd, deps, flags)
		},
	}

	cmd.PersistentFlags().BoolVar(&flags.verbose, "verbose", false, "Enable debug logging")
	cmd.PersistentFlags().StringVar(&flags.endpoint, "endpoint", "", "Chat endpoint URL (overrides config)")
	cmd.Flags().StringVarP(&q.output, "output", "o", "", "Save the reply to a file")
	cmd.Flags().StringVarP(&q.file, "file", "f", "", "Read the question from a file")
	cmd.Flags().BoolP("version", "v", false, "Show version and exit")

	cmd.AddCommand(
		newChatCmd(deps, flags),
		newProjectsCmd(deps, flags),
		newLoginCmd(deps, flags),
		newLogoutCmd(deps, flags),
		newStatusCmd(deps, flags),
		NewConfigCmd(deps, flags),
	)
	return cmd
}

// rootCmd represents the base command
var rootCmd = NewRootCmd(NewDependencies())

// Execute runs the root command
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err := rootCmd.ExecuteContext(ctx)
	stop()

	if err != nil {
		fmt.Fprintln(rootCmd.ErrOrStderr(), formatErrorMessage(err, "Error"))
		os.Exit(1)
	}
}

// readPrompt picks the question from the file flag, piped stdin or the
// positional argument, in that order. ok is false when there is none.
func readPrompt(deps *Dependencies, file string, args []string) (string, bool, error) {
	if file != "" {
		data, err := os.ReadFile(file)
		if err != nil {
			return "", false, fmt.Errorf("failed to read file: %w", err)
		}
		return string(data), true, nil
	}

	if deps.StdinPiped() {
		data, err := io.ReadAll(deps.Stdin)
		if err != nil {
			return "", false, fmt.Errorf("failed to read stdin: %w", err)
		}
		if strings.TrimSpace(string(data)) != "" {
			return string(data), true, nil
		}
	}

	if len(args) > 0 {
		return args[0], true, nil
	}
	return "", false, nil
}

// app is the configuration and logger of one invocation
type app struct {
	cfg    config.Config
	logger *zap.Logger
}

// setup loads the configuration, applies the global flags and builds the
// logger. Interactive sessions and quiet runs log to a file so the
// terminal stays clean.
func setup(deps *Dependencies, flags *globalFlags, interactive bool) (*app, error) {
	cfg, err := deps.LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if flags.endpoint != "" {
		cfg.ChatEndpoint = flags.endpoint
	}
	if flags.verbose {
		cfg.Verbose = true
	}

	opts := logging.Options{Verbose: cfg.Verbose}
	if interactive || !cfg.Verbose {
		if _, err := config.EnsureConfigDir(); err == nil {
			opts.Path, _ = config.GetLogPath()
		}
	}

	logger, err := deps.NewLogger(opts)
	if err != nil {
		return nil, err
	}

	if cfg.TUITheme != "" && !render.SetPalette(cfg.TUITheme) {
		logger.Warn("unknown theme, using default", zap.String("theme", cfg.TUITheme))
	}
	tui.UpdateTheme()

	return &app{cfg: cfg, logger: logger}, nil
}

func (a *app) close() {
	_ = a.logger.Sync()
}
