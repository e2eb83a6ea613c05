package render

import (
	"os"

	"github.com/aufaim/portfoliochat/internal/config"
)

const (
	defaultWidth = 80
	// minWidth keeps replies readable inside a narrow chat bubble
	minWidth = 20
)

// Options selects how a reply is rendered. Options is comparable; each
// distinct value gets its own renderer pool.
type Options struct {
	Width int
	// Style is a glamour standard style or the path of a JSON style file
	Style string
	// Emoji turns :shortcodes: into unicode
	Emoji bool
	// LineBreaks keeps single newlines of the reply as line breaks
	LineBreaks bool
}

// DefaultOptions returns the options used when nothing is configured
func DefaultOptions() Options {
	return Options{
		Width:      defaultWidth,
		Style:      StyleDark,
		Emoji:      true,
		LineBreaks: true,
	}
}

// WithWidth returns a copy wrapping at width, never narrower than minWidth
func (o Options) WithWidth(width int) Options {
	o.Width = max(width, minWidth)
	return o
}

// WithStyle returns a copy using style; an empty style keeps the current one
func (o Options) WithStyle(style string) Options {
	if style != "" {
		o.Style = style
	}
	return o
}

// OptionsFromConfig builds render options from the markdown settings.
// GLAMOUR_STYLE overrides the configured style.
func OptionsFromConfig(md config.MarkdownConfig, width int) Options {
	opts := DefaultOptions().WithWidth(width).WithStyle(md.Style)
	opts.Emoji = md.EnableEmoji
	opts.LineBreaks = md.PreserveNewLines
	return opts.WithStyle(os.Getenv("GLAMOUR_STYLE"))
}
