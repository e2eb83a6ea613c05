// Package tui provides the terminal user interface for portfoliochat.
package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/aufaim/portfoliochat/internal/errors"
	"github.com/aufaim/portfoliochat/internal/render"
)

// Color variables (updated from the palette)
var (
	colorSurface lipgloss.Color
	colorBorder  lipgloss.Color

	colorPrimary   lipgloss.Color
	colorSecondary lipgloss.Color
	colorAccent    lipgloss.Color
	colorWarning   lipgloss.Color
	colorError     lipgloss.Color

	colorText     lipgloss.Color
	colorTextDim  lipgloss.Color
	colorTextMute lipgloss.Color
)

// Style variables (rebuilt when the palette changes)
var (
	headerStyle   lipgloss.Style
	titleStyle    lipgloss.Style
	subtitleStyle lipgloss.Style
	hintStyle     lipgloss.Style

	// Left pane with the project cards
	projectsPaneStyle lipgloss.Style

	// Chat panel and its bubbles
	chatPaneStyle        lipgloss.Style
	userBubbleStyle      lipgloss.Style
	userLabelStyle       lipgloss.Style
	assistantBubbleStyle lipgloss.Style
	assistantLabelStyle  lipgloss.Style
	systemLineStyle      lipgloss.Style

	inputPanelStyle lipgloss.Style
	inputLabelStyle lipgloss.Style
	typingStyle     lipgloss.Style

	statusBarStyle  lipgloss.Style
	statusKeyStyle  lipgloss.Style
	statusDescStyle lipgloss.Style
	feedbackStyle   lipgloss.Style

	authOnStyle  lipgloss.Style
	authOffStyle lipgloss.Style

	errorStyle lipgloss.Style
)

func init() {
	UpdateTheme()
}

// UpdateTheme refreshes all styles from the current palette
func UpdateTheme() {
	p := render.CurrentPalette()

	colorSurface = p.Surface
	colorBorder = p.Border
	colorPrimary = p.Primary
	colorSecondary = p.Secondary
	colorAccent = p.Accent
	colorWarning = p.Warning
	colorError = p.Error
	colorText = p.Text
	colorTextDim = p.TextDim
	colorTextMute = p.TextMute

	rebuildStyles()
}

// rebuildStyles creates all lipgloss styles with current color values
func rebuildStyles() {
	headerStyle = lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(colorBorder).
		Padding(0, 2)

	titleStyle = lipgloss.NewStyle().
		Foreground(colorPrimary).
		Bold(true)

	subtitleStyle = lipgloss.NewStyle().
		Foreground(colorTextDim)

	hintStyle = lipgloss.NewStyle().
		Foreground(colorTextMute).
		Italic(true)

	projectsPaneStyle = lipgloss.NewStyle().
		Padding(0, 1)

	chatPaneStyle = lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(colorPrimary).
		Padding(0, 1)

	userBubbleStyle = lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(colorSecondary).
		Padding(0, 1).
		MarginLeft(4)

	userLabelStyle = lipgloss.NewStyle().
		Foreground(colorSecondary).
		Bold(true).
		MarginLeft(4)

	assistantBubbleStyle = lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(colorPrimary).
		Foreground(colorText).
		Padding(0, 1).
		MarginRight(4)

	assistantLabelStyle = lipgloss.NewStyle().
		Foreground(colorPrimary).
		Bold(true)

	systemLineStyle = lipgloss.NewStyle().
		Foreground(colorWarning).
		Italic(true)

	inputPanelStyle = lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(colorBorder).
		Padding(0, 1)

	inputLabelStyle = lipgloss.NewStyle().
		Foreground(colorPrimary).
		Bold(true).
		MarginRight(1)

	typingStyle = lipgloss.NewStyle().
		Foreground(colorAccent).
		Bold(true)

	statusBarStyle = lipgloss.NewStyle().
		Foreground(colorTextMute)

	statusKeyStyle = lipgloss.NewStyle().
		Foreground(colorTextDim).
		Bold(true)

	statusDescStyle = lipgloss.NewStyle().
		Foreground(colorTextMute)

	feedbackStyle = lipgloss.NewStyle().
		Foreground(colorTextDim).
		Background(colorSurface).
		Padding(0, 1)

	authOnStyle = lipgloss.NewStyle().
		Foreground(colorSecondary)

	authOffStyle = lipgloss.NewStyle().
		Foreground(colorError)

	errorStyle = lipgloss.NewStyle().
		Foreground(colorError).
		Bold(true)
}

// FormatError returns a styled error message with additional context
// from the structured error types.
func FormatError(err error) string {
	if err == nil {
		return ""
	}

	errStyle := lipgloss.NewStyle().Foreground(colorError)
	dimStyle := lipgloss.NewStyle().Foreground(colorTextDim)

	var sb strings.Builder
	sb.WriteString(errStyle.Render(fmt.Sprintf("✗ %v", err)))

	if status := errors.GetHTTPStatus(err); status > 0 {
		sb.WriteString(dimStyle.Render(fmt.Sprintf("\n  HTTP Status: %d", status)))
	}
	if detail := errors.GetDetail(err); detail != "" {
		sb.WriteString(dimStyle.Render(fmt.Sprintf("\n  Detail: %s", detail)))
	}

	switch {
	case errors.IsAuthError(err):
		sb.WriteString(dimStyle.Render("\n  Hint: run 'portfoliochat login' to start a new session"))
	case errors.IsNetworkError(err):
		sb.WriteString(dimStyle.Render("\n  Hint: check your internet connection and try again"))
	case errors.IsParseError(err):
		sb.WriteString(dimStyle.Render("\n  Hint: the service answered with an unexpected format; try --verbose"))
	}

	return sb.String()
}

// PrintError prints a styled error message.
func PrintError(err error) {
	if err == nil {
		return
	}
	fmt.Println(FormatError(err))
}
