// Package history exports the chat log of a session as a transcript.
package history

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/aufaim/portfoliochat/internal/models"
)

// ExportFormat represents the format for exporting transcripts
type ExportFormat string

const (
	ExportFormatMarkdown ExportFormat = "markdown"
	ExportFormatJSON     ExportFormat = "json"
)

// ExportOptions configures how transcripts are exported
type ExportOptions struct {
	Format        ExportFormat
	Title         string
	SessionID     string
	IncludeSystem bool // Include login prompts and status lines
}

// DefaultExportOptions returns sensible defaults for export
func DefaultExportOptions() ExportOptions {
	return ExportOptions{
		Format:        ExportFormatMarkdown,
		Title:         "Portfolio chat",
		IncludeSystem: false,
	}
}

// FormatForPath picks the export format from a file extension
func FormatForPath(path string) ExportFormat {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return ExportFormatJSON
	default:
		return ExportFormatMarkdown
	}
}

// ParseFormat converts a user-supplied format name
func ParseFormat(s string) (ExportFormat, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "md", "markdown":
		return ExportFormatMarkdown, nil
	case "json":
		return ExportFormatJSON, nil
	default:
		return "", fmt.Errorf("unknown export format %q (use markdown or json)", s)
	}
}

func filterMessages(messages []models.Message, includeSystem bool) []models.Message {
	if includeSystem {
		return messages
	}
	out := make([]models.Message, 0, len(messages))
	for _, msg := range messages {
		if msg.Author != models.AuthorSystem {
			out = append(out, msg)
		}
	}
	return out
}

// Export writes messages to w in the format chosen by opts
func Export(w io.Writer, messages []models.Message, opts ExportOptions) error {
	var data []byte
	var err error

	switch opts.Format {
	case ExportFormatJSON:
		data, err = ExportToJSON(messages, opts)
		if err != nil {
			return err
		}
		data = append(data, '\n')
	case ExportFormatMarkdown, "":
		data = []byte(ExportToMarkdown(messages, opts))
	default:
		return fmt.Errorf("unknown export format %q", opts.Format)
	}

	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("failed to write transcript: %w", err)
	}
	return nil
}

// SaveToFile writes the transcript to path, choosing the format by
// extension
func SaveToFile(path string, messages []models.Message, opts ExportOptions) error {
	if strings.TrimSpace(path) == "" {
		return fmt.Errorf("no file name given")
	}
	opts.Format = FormatForPath(path)

	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return fmt.Errorf("failed to create transcript file: %w", err)
	}

	if err := Export(f, messages, opts); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func roleHeader(author models.Author) string {
	switch author {
	case models.AuthorUser:
		return "You"
	case models.AuthorBot:
		return "Assistant"
	default:
		return "System"
	}
}

// ExportToMarkdown renders messages as a Markdown transcript
func ExportToMarkdown(messages []models.Message, opts ExportOptions) string {
	messages = filterMessages(messages, opts.IncludeSystem)

	var sb strings.Builder

	// Header
	title := opts.Title
	if title == "" {
		title = DefaultExportOptions().Title
	}
	sb.WriteString("# ")
	sb.WriteString(title)
	sb.WriteString("\n\n")

	if opts.SessionID != "" {
		sb.WriteString("**Session:** ")
		sb.WriteString(opts.SessionID)
		sb.WriteString("\n")
	}
	if len(messages) > 0 {
		sb.WriteString("**Started:** ")
		sb.WriteString(messages[0].Timestamp.Format("2006-01-02 15:04:05"))
		sb.WriteString("\n")
	}
	sb.WriteString("**Messages:** ")
	sb.WriteString(fmt.Sprintf("%d", len(messages)))
	sb.WriteString("\n\n---\n\n")

	for i, msg := range messages {
		sb.WriteString("## ")
		sb.WriteString(roleHeader(msg.Author))
		if !msg.Timestamp.IsZero() {
			sb.WriteString(" (")
			sb.WriteString(msg.Timestamp.Format("15:04:05"))
			sb.WriteString(")")
		}
		sb.WriteString("\n\n")

		sb.WriteString(msg.Text)
		sb.WriteString("\n")

		if i < len(messages)-1 {
			sb.WriteString("\n---\n\n")
		}
	}

	return sb.String()
}

type exportMessage struct {
	Author    string    `json:"author"`
	Text      string    `json:"text"`
	Timestamp time.Time `json:"timestamp"`
}

type exportTranscript struct {
	Title      string          `json:"title"`
	SessionID  string          `json:"session_id,omitempty"`
	ExportedAt time.Time       `json:"exported_at"`
	Messages   []exportMessage `json:"messages"`
}

// ExportToJSON renders messages as a JSON transcript
func ExportToJSON(messages []models.Message, opts ExportOptions) ([]byte, error) {
	messages = filterMessages(messages, opts.IncludeSystem)

	export := exportTranscript{
		Title:      opts.Title,
		SessionID:  opts.SessionID,
		ExportedAt: time.Now().UTC(),
		Messages:   make([]exportMessage, len(messages)),
	}
	for i, msg := range messages {
		export.Messages[i] = exportMessage{
			Author:    msg.Author.String(),
			Text:      msg.Text,
			Timestamp: msg.Timestamp,
		}
	}

	data, err := json.MarshalIndent(export, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to encode transcript: %w", err)
	}
	return data, nil
}
