package commands

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/aufaim/portfoliochat/internal/auth"
	apierrors "github.com/aufaim/portfoliochat/internal/errors"
)

// profiler is implemented by providers that can describe the session
type profiler interface {
	Profile(ctx context.Context) (*auth.Profile, error)
}

// logoutURLer is implemented by providers with a hosted logout page
type logoutURLer interface {
	LogoutURL(returnTo string) string
}

// newProvider loads the config and builds the identity provider, failing
// when none is configured
func newProvider(deps *Dependencies, flags *globalFlags) (*app, auth.Provider, error) {
	a, err := setup(deps, flags, false)
	if err != nil {
		return nil, nil, err
	}

	provider, err := deps.NewAuth(a.cfg, a.logger)
	if err != nil {
		a.close()
		return nil, nil, fmt.Errorf("failed to create identity provider: %w", err)
	}
	return a, provider, nil
}

func isAnonymous(p auth.Provider) bool {
	_, ok := p.(auth.Anonymous)
	return ok
}

func newLoginCmd(deps *Dependencies, flags *globalFlags) *cobra.Command {
	var (
		signup  bool
		force   bool
		timeout time.Duration
	)

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Log in through the browser",
		Long: `Start a login with the identity provider and wait for the browser to
come back to the local callback. The login URL is printed and copied to the
clipboard.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, provider, err := newProvider(deps, flags)
			if err != nil {
				return err
			}
			defer a.close()

			if isAnonymous(provider) {
				return fmt.Errorf("login: %w", apierrors.ErrNotConfigured)
			}

			ctx := cmd.Context()
			out := cmd.ErrOrStderr()
			if provider.IsAuthenticated(ctx) && !force {
				fmt.Fprintln(out, "Already logged in (use --force to log in again)")
				return printStatus(ctx, cmd.OutOrStdout(), provider)
			}

			opts := auth.LoginOptions{OpenURL: printLoginURL(out)}
			if signup {
				opts.ScreenHint = "signup"
			}
			if err := provider.LoginWithRedirect(ctx, opts); err != nil {
				return fmt.Errorf("failed to start login: %w", err)
			}

			ctx, cancel := context.WithTimeout(ctx, timeout)
			defer cancel()

			spin := newSpinner(out, "Waiting for the browser login")
			spin.start()
			if err := provider.HandleRedirectCallback(ctx); err != nil {
				spin.stopWithError()
				return fmt.Errorf("login failed: %w", err)
			}
			spin.stopWithSuccess("Logged in")

			return printStatus(ctx, cmd.OutOrStdout(), provider)
		},
	}

	cmd.Flags().BoolVar(&signup, "signup", false, "Show the registration page")
	cmd.Flags().BoolVar(&force, "force", false, "Log in even when a session exists")
	cmd.Flags().DurationVar(&timeout, "timeout", DefaultLoginTimeout, "How long to wait for the browser")
	return cmd
}

func newLogoutCmd(deps *Dependencies, flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Delete the stored session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, provider, err := newProvider(deps, flags)
			if err != nil {
				return err
			}
			defer a.close()

			if err := provider.Logout(cmd.Context()); err != nil {
				return fmt.Errorf("logout failed: %w", err)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, lipgloss.NewStyle().Foreground(colorSuccess).Render("✓ Logged out"))
			if l, ok := provider.(logoutURLer); ok {
				hint := lipgloss.NewStyle().Foreground(colorTextDim)
				fmt.Fprintln(out, hint.Render("To end the browser session too, open "+l.LogoutURL("")))
			}
			return nil
		},
	}
}

func newStatusCmd(deps *Dependencies, flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show the endpoints and the login state",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, provider, err := newProvider(deps, flags)
			if err != nil {
				return err
			}
			defer a.close()

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Chat endpoint:  %s\n", a.cfg.ChatEndpoint)
			fmt.Fprintf(out, "Projects:       %s\n", a.cfg.ProjectsURL)
			if a.cfg.AuthEnabled() {
				fmt.Fprintf(out, "Login:          %s\n", a.cfg.Auth.Domain)
			} else {
				fmt.Fprintln(out, "Login:          not configured (anonymous)")
			}
			return printStatus(cmd.Context(), out, provider)
		},
	}
}

func printStatus(ctx context.Context, out io.Writer, provider auth.Provider) error {
	if isAnonymous(provider) {
		return nil
	}

	on := lipgloss.NewStyle().Foreground(colorSuccess)
	off := lipgloss.NewStyle().Foreground(colorError)

	if !provider.IsAuthenticated(ctx) {
		fmt.Fprintln(out, "Session:        "+off.Render("logged out"))
		return nil
	}
	fmt.Fprintln(out, "Session:        "+on.Render("logged in"))

	p, ok := provider.(profiler)
	if !ok {
		return nil
	}
	profile, err := p.Profile(ctx)
	if err != nil {
		// Tokens without an ID token still work for chatting
		return nil
	}
	if name := profile.DisplayName(); name != "" {
		fmt.Fprintf(out, "User:           %s\n", name)
	}
	if !profile.ExpiresAt.IsZero() {
		fmt.Fprintf(out, "Expires:        %s\n", profile.ExpiresAt.Local().Format(time.RFC1123))
	}
	return nil
}
