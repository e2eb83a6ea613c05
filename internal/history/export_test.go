package history

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/aufaim/portfoliochat/internal/models"
)

func sampleMessages() []models.Message {
	at := time.Date(2026, 3, 14, 9, 26, 53, 0, time.UTC)
	return []models.Message{
		models.NewMessage(models.AuthorBot, "Hi! Ask me anything.", at),
		models.NewMessage(models.AuthorSystem, models.LoginPrompt, at.Add(time.Second)),
		models.NewMessage(models.AuthorUser, "What is Cerince?", at.Add(2*time.Second)),
		models.NewMessage(models.AuthorBot, "A health **chatbot**.", at.Add(3*time.Second)),
	}
}

func TestExportToMarkdown(t *testing.T) {
	opts := DefaultExportOptions()
	opts.SessionID = "sess-1"

	md := ExportToMarkdown(sampleMessages(), opts)

	if !strings.Contains(md, "# Portfolio chat") {
		t.Error("markdown should contain title as header")
	}
	if !strings.Contains(md, "**Session:** sess-1") {
		t.Error("markdown should contain session id")
	}
	if !strings.Contains(md, "**Messages:** 3") {
		t.Error("markdown should count exported messages")
	}
	if !strings.Contains(md, "## You (09:26:55)") {
		t.Error("markdown should contain user header with time")
	}
	if !strings.Contains(md, "## Assistant") {
		t.Error("markdown should contain Assistant header")
	}
	if !strings.Contains(md, "A health **chatbot**.") {
		t.Error("markdown should keep reply text verbatim")
	}
	if strings.Contains(md, models.LoginPrompt) {
		t.Error("system messages should be excluded by default")
	}
}

func TestExportToMarkdown_IncludeSystem(t *testing.T) {
	opts := DefaultExportOptions()
	opts.IncludeSystem = true

	md := ExportToMarkdown(sampleMessages(), opts)
	if !strings.Contains(md, "## System") || !strings.Contains(md, models.LoginPrompt) {
		t.Error("system messages should be included when requested")
	}
}

func TestExportToMarkdown_Empty(t *testing.T) {
	md := ExportToMarkdown(nil, ExportOptions{})
	if !strings.Contains(md, "**Messages:** 0") {
		t.Errorf("unexpected markdown for empty log:\n%s", md)
	}
}

func TestExportToJSON(t *testing.T) {
	data, err := ExportToJSON(sampleMessages(), ExportOptions{Title: "T", SessionID: "s"})
	if err != nil {
		t.Fatalf("ExportToJSON failed: %v", err)
	}

	var exported struct {
		Title     string `json:"title"`
		SessionID string `json:"session_id"`
		Messages  []struct {
			Author    string    `json:"author"`
			Text      string    `json:"text"`
			Timestamp time.Time `json:"timestamp"`
		} `json:"messages"`
	}
	if err := json.Unmarshal(data, &exported); err != nil {
		t.Fatalf("failed to parse JSON: %v", err)
	}

	if exported.Title != "T" || exported.SessionID != "s" {
		t.Errorf("header = %q/%q", exported.Title, exported.SessionID)
	}
	if len(exported.Messages) != 3 {
		t.Fatalf("expected 3 messages, got %d", len(exported.Messages))
	}
	if exported.Messages[1].Author != "user" || exported.Messages[1].Text != "What is Cerince?" {
		t.Errorf("messages[1] = %+v", exported.Messages[1])
	}
	if exported.Messages[2].Author != "bot" {
		t.Errorf("messages[2].Author = %s", exported.Messages[2].Author)
	}
}

func TestExport_UnknownFormat(t *testing.T) {
	var buf bytes.Buffer
	if err := Export(&buf, sampleMessages(), ExportOptions{Format: "xml"}); err == nil {
		t.Error("expected error for unknown format")
	}
}

func TestSaveToFile(t *testing.T) {
	dir := t.TempDir()

	tests := []struct {
		name   string
		file   string
		prefix string
	}{
		{"markdown", "chat.md", "# "},
		{"json", "chat.JSON", "{"},
		{"no extension", "chat", "# "},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(dir, tt.file)
			if err := SaveToFile(path, sampleMessages(), DefaultExportOptions()); err != nil {
				t.Fatalf("SaveToFile failed: %v", err)
			}
			data, err := os.ReadFile(path)
			if err != nil {
				t.Fatal(err)
			}
			if !strings.HasPrefix(string(data), tt.prefix) {
				t.Errorf("file starts with %q, want %q", string(data[:10]), tt.prefix)
			}
		})
	}

	if err := SaveToFile(" ", sampleMessages(), DefaultExportOptions()); err == nil {
		t.Error("expected error for empty path")
	}
	if err := SaveToFile(filepath.Join(dir, "missing", "x.md"), nil, DefaultExportOptions()); err == nil {
		t.Error("expected error for missing directory")
	}
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		in      string
		want    ExportFormat
		wantErr bool
	}{
		{"md", ExportFormatMarkdown, false},
		{"Markdown", ExportFormatMarkdown, false},
		{" json ", ExportFormatJSON, false},
		{"yaml", "", true},
	}

	for _, tt := range tests {
		got, err := ParseFormat(tt.in)
		if (err != nil) != tt.wantErr || got != tt.want {
			t.Errorf("ParseFormat(%q) = %q, %v", tt.in, got, err)
		}
	}
}

func TestDefaultExportOptions(t *testing.T) {
	opts := DefaultExportOptions()

	if opts.Format != ExportFormatMarkdown {
		t.Errorf("default format = %v, want markdown", opts.Format)
	}
	if opts.IncludeSystem {
		t.Error("default IncludeSystem should be false")
	}
}
