package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/term"

	"github.com/aufaim/portfoliochat/internal/auth"
	"github.com/aufaim/portfoliochat/internal/chat"
	apierrors "github.com/aufaim/portfoliochat/internal/errors"
	"github.com/aufaim/portfoliochat/internal/models"
	"github.com/aufaim/portfoliochat/internal/render"
)

// Gradient colors for animation
var gradientColors = []lipgloss.Color{
	lipgloss.Color("#ff6b6b"), // Red
	lipgloss.Color("#feca57"), // Yellow
	lipgloss.Color("#48dbfb"), // Cyan
	lipgloss.Color("#ff9ff3"), // Pink
	lipgloss.Color("#54a0ff"), // Blue
	lipgloss.Color("#5f27cd"), // Purple
	lipgloss.Color("#00d2d3"), // Teal
	lipgloss.Color("#1dd1a1"), // Green
}

var (
	colorText     = lipgloss.Color("#c0caf5")
	colorTextDim  = lipgloss.Color("#565f89")
	colorTextMute = lipgloss.Color("#3b4261")
	colorSuccess  = lipgloss.Color("#9ece6a")
	colorPrimary  = lipgloss.Color("#7aa2f7")
	colorError    = lipgloss.Color("#f7768e")
)

// Styles matching the chat TUI
var (
	assistantLabelStyle = lipgloss.NewStyle().
				Foreground(colorPrimary).
				Bold(true).
				MarginBottom(0)

	assistantBubbleStyle = lipgloss.NewStyle().
				BorderStyle(lipgloss.RoundedBorder()).
				BorderForeground(colorPrimary).
				Foreground(colorText).
				Padding(0, 1).
				MarginTop(1).
				MarginBottom(1)

	systemLineStyle = lipgloss.NewStyle().
			Foreground(colorTextDim).
			Italic(true)
)

// DefaultLoginTimeout bounds the wait for the browser redirect
const DefaultLoginTimeout = 5 * time.Minute

// spinner handles the animated loading indicator
type spinner struct {
	out     io.Writer
	message string
	stop    chan struct{}
	done    chan struct{}
	mu      sync.Mutex
	frame   int
	stopped bool // Flag to prevent double-close
}

// newSpinner creates a new animated spinner writing to out
func newSpinner(out io.Writer, message string) *spinner {
	return &spinner{
		out:     out,
		message: message,
		stop:    make(chan struct{}),
		done:    make(chan struct{}),
	}
}

// start begins the animation
func (s *spinner) start() {
	go func() {
		defer close(s.done)

		ticker := time.NewTicker(80 * time.Millisecond)
		defer ticker.Stop()

		// Hide cursor
		fmt.Fprint(s.out, "\033[?25l")

		for {
			select {
			case <-s.stop:
				// Clear line and show cursor
				fmt.Fprint(s.out, "\r\033[K\033[?25h")
				return
			case <-ticker.C:
				s.mu.Lock()
				s.render()
				s.frame++
				s.mu.Unlock()
			}
		}
	}()
}

// render draws the current animation frame
func (s *spinner) render() {
	chars := []string{"⣾", "⣽", "⣻", "⢿", "⡿", "⣟", "⣯", "⣷"}
	barChars := []string{"█", "█", "█", "█", "█", "█", "▓", "▒", "░"}

	spinIdx := s.frame % len(chars)
	spinColor := gradientColors[s.frame%len(gradientColors)]
	spinnerChar := lipgloss.NewStyle().Foreground(spinColor).Bold(true).Render(chars[spinIdx])

	barWidth := 16
	var bar strings.Builder
	for i := 0; i < barWidth; i++ {
		colorIdx := (i + s.frame) % len(gradientColors)
		charIdx := (i + s.frame/2) % len(barChars)
		style := lipgloss.NewStyle().Foreground(gradientColors[colorIdx])
		bar.WriteString(style.Render(barChars[charIdx]))
	}

	var dots strings.Builder
	numDots := (s.frame / 3) % 4
	for i := 0; i < 3; i++ {
		if i < numDots {
			dotColor := gradientColors[(s.frame+i)%len(gradientColors)]
			dots.WriteString(lipgloss.NewStyle().Foreground(dotColor).Render("●"))
		} else {
			dots.WriteString(lipgloss.NewStyle().Foreground(colorTextMute).Render("○"))
		}
	}

	msg := lipgloss.NewStyle().Foreground(colorText).Render(s.message)

	fmt.Fprintf(s.out, "\r\033[K%s %s %s %s", spinnerChar, bar.String(), msg, dots.String())
}

// stopOnce safely closes the stop channel only once
func (s *spinner) stopOnce() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.stopped {
		close(s.stop)
		s.stopped = true
	}
}

// stopWithSuccess stops the spinner and shows success message
func (s *spinner) stopWithSuccess(message string) {
	s.stopOnce()
	<-s.done

	checkmark := lipgloss.NewStyle().Foreground(colorSuccess).Bold(true).Render("✓")
	msg := lipgloss.NewStyle().Foreground(colorSuccess).Render(message)
	fmt.Fprintf(s.out, "%s %s\n", checkmark, msg)
}

// stopWithError stops the spinner without a message
func (s *spinner) stopWithError() {
	s.stopOnce()
	<-s.done
}

// consoleRenderer drives the terminal during a one-shot question. System
// lines go to the error stream, the spinner stands in for the typing
// indicator and the reply is printed by the caller.
type consoleRenderer struct {
	out   io.Writer
	quiet bool

	mu   sync.Mutex
	spin *spinner
}

var _ chat.Renderer = (*consoleRenderer)(nil)

func newConsoleRenderer(out io.Writer, quiet bool) *consoleRenderer {
	return &consoleRenderer{out: out, quiet: quiet}
}

func (r *consoleRenderer) AppendMessage(msg models.Message) {
	if r.quiet || msg.Author != models.AuthorSystem {
		return
	}
	fmt.Fprintln(r.out, systemLineStyle.Render("› "+msg.Text))
}

func (r *consoleRenderer) ShowTyping() {
	if r.quiet {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.spin == nil {
		r.spin = newSpinner(r.out, models.TypingLabel)
		r.spin.start()
	}
}

func (r *consoleRenderer) HideTyping() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.spin != nil {
		r.spin.stopWithError()
		r.spin = nil
	}
}

func (r *consoleRenderer) SetInputEnabled(bool) {}
func (r *consoleRenderer) ClearInput()          {}
func (r *consoleRenderer) FocusInput()          {}
func (r *consoleRenderer) SetPanelVisible(bool) {}

// queryFlags are the one-shot flags of the root command
type queryFlags struct {
	output string
	file   string
}

// pendingLoginURLer is implemented by providers that expose the URL of a
// login in flight
type pendingLoginURLer interface {
	PendingLoginURL() string
}

// runQuery asks a single question through a chat session and prints the
// reply. On a pipe only the raw reply text is written.
func runQuery(cmd *cobra.Command, deps *Dependencies, flags *globalFlags, q *queryFlags, prompt string) error {
	prompt = strings.TrimSpace(prompt)
	if prompt == "" {
		return fmt.Errorf("prompt cannot be empty")
	}

	a, err := setup(deps, flags, false)
	if err != nil {
		return err
	}
	defer a.close()

	chatAPI, err := deps.NewChat(a.cfg, a.logger)
	if err != nil {
		return fmt.Errorf("failed to create chat client: %w", err)
	}
	provider, err := deps.NewAuth(a.cfg, a.logger)
	if err != nil {
		return fmt.Errorf("failed to create identity provider: %w", err)
	}

	rawOutput := !deps.StdoutTTY()
	errOut := cmd.ErrOrStderr()

	ctrl := chat.New(chat.Options{
		API:          chatAPI,
		Auth:         provider,
		Renderer:     newConsoleRenderer(errOut, rawOutput),
		NResults:     a.cfg.NResults,
		LoginOptions: auth.LoginOptions{OpenURL: printLoginURL(errOut)},
		Logger:       a.logger,
	})
	defer ctrl.Close()

	ctx := cmd.Context()
	ctrl.Start(ctx)

	start := time.Now()
	outcome := ctrl.Submit(ctx, prompt)
	if outcome == chat.OutcomeLoginRequired {
		if err := ctrl.LastError(); err != nil {
			return err
		}
		if err := awaitLogin(ctx, ctrl, errOut, rawOutput); err != nil {
			return err
		}
		outcome = ctrl.Submit(ctx, prompt)
	}

	a.logger.Debug("query finished",
		zap.Stringer("outcome", outcome),
		zap.Duration("elapsed", time.Since(start)),
	)

	reply, _ := ctrl.LastReply()
	switch outcome {
	case chat.OutcomeReplied:
		return writeReply(cmd, a, reply.Text, q.output, rawOutput)
	case chat.OutcomeFailed:
		if err := ctrl.LastError(); err != nil {
			return err
		}
		return errors.New(reply.Text)
	case chat.OutcomeLoginRequired:
		return apierrors.ErrLoginRequired
	default:
		return fmt.Errorf("no reply (%s)", outcome)
	}
}

// awaitLogin waits for the browser redirect of the login the controller
// just started
func awaitLogin(ctx context.Context, ctrl *chat.Controller, out io.Writer, quiet bool) error {
	ctx, cancel := context.WithTimeout(ctx, DefaultLoginTimeout)
	defer cancel()

	var spin *spinner
	if !quiet {
		spin = newSpinner(out, "Waiting for the browser login")
		spin.start()
	}

	err := ctrl.CompleteLogin(ctx)
	if err == nil && !ctrl.State().Authenticated {
		err = apierrors.ErrLoginRequired
	}

	if spin != nil {
		if err != nil {
			spin.stopWithError()
		} else {
			spin.stopWithSuccess("Logged in")
		}
	}
	if err != nil {
		return fmt.Errorf("login failed: %w", err)
	}
	return nil
}

// printLoginURL shows the authorization URL and copies it to the clipboard
func printLoginURL(out io.Writer) func(string) error {
	return func(url string) error {
		fmt.Fprintf(out, "Open this URL in your browser to log in:\n  %s\n", url)
		if err := clipboard.WriteAll(url); err == nil {
			fmt.Fprintln(out, lipgloss.NewStyle().Foreground(colorSuccess).Render("✓ Copied to clipboard"))
		}
		return nil
	}
}

func writeReply(cmd *cobra.Command, a *app, text, output string, rawOutput bool) error {
	stdout := cmd.OutOrStdout()
	stderr := cmd.ErrOrStderr()

	if output != "" {
		if err := os.WriteFile(output, []byte(text), 0o644); err != nil {
			return fmt.Errorf("failed to write output file: %w", err)
		}
		if !rawOutput {
			successMsg := lipgloss.NewStyle().Foreground(colorSuccess).Render(
				fmt.Sprintf("✓ Reply saved to %s", output),
			)
			fmt.Fprintln(stderr, successMsg)
		}
		return nil
	}

	if rawOutput {
		fmt.Fprint(stdout, text)
		return nil
	}

	termWidth := getTerminalWidth()
	bubbleWidth := termWidth - 4
	if bubbleWidth < 40 {
		bubbleWidth = 40
	}
	if bubbleWidth > 120 {
		bubbleWidth = 120
	}
	contentWidth := bubbleWidth - 4

	fmt.Fprintln(stdout, assistantLabelStyle.Render("✦ Assistant"))

	rendered := render.Reply(text, render.OptionsFromConfig(a.cfg.Markdown, contentWidth))
	fmt.Fprintln(stdout, assistantBubbleStyle.Width(bubbleWidth).Render(rendered))
	return nil
}

// getTerminalWidth returns the terminal width or a default value
func getTerminalWidth() int {
	width, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || width <= 0 {
		return 80 // default width
	}
	return width
}

// formatErrorMessage formats an error with additional context from structured errors
func formatErrorMessage(err error, prefix string) string {
	if err == nil {
		return ""
	}

	errorStyle := lipgloss.NewStyle().Foreground(colorError)
	dimStyle := lipgloss.NewStyle().Foreground(colorTextDim)

	var sb strings.Builder
	sb.WriteString(errorStyle.Render(fmt.Sprintf("✗ %s: %v", prefix, err)))

	if status := apierrors.GetHTTPStatus(err); status > 0 {
		sb.WriteString(dimStyle.Render(fmt.Sprintf("\n  HTTP Status: %d", status)))
	}

	if detail := apierrors.GetDetail(err); detail != "" {
		sb.WriteString(dimStyle.Render(fmt.Sprintf("\n  Detail: %s", detail)))
	}

	switch {
	case errors.Is(err, apierrors.ErrNotConfigured):
		sb.WriteString(dimStyle.Render("\n  Hint: set auth.domain and auth.client_id with 'portfoliochat config set'"))
	case apierrors.IsAuthError(err), errors.Is(err, apierrors.ErrLoginRequired):
		sb.WriteString(dimStyle.Render("\n  Hint: Try running 'portfoliochat login' to start a new session"))
	case apierrors.IsNetworkError(err):
		sb.WriteString(dimStyle.Render("\n  Hint: Check your internet connection and try again"))
	case apierrors.IsParseError(err):
		sb.WriteString(dimStyle.Render("\n  Hint: The service sent an unexpected response; retry with --verbose"))
	}

	return sb.String()
}
