package render

import (
	"strings"
	"testing"

	"github.com/aufaim/portfoliochat/internal/config"
)

func TestDefaultOptions(t *testing.T) {
	want := Options{Width: 80, Style: StyleDark, Emoji: true, LineBreaks: true}
	if got := DefaultOptions(); got != want {
		t.Errorf("DefaultOptions() = %+v, want %+v", got, want)
	}
}

func TestOptions_With(t *testing.T) {
	opts := DefaultOptions().WithWidth(100).WithStyle(StyleLight)
	if opts.Width != 100 || opts.Style != StyleLight {
		t.Errorf("opts = %+v", opts)
	}

	if got := opts.WithStyle("").Style; got != StyleLight {
		t.Errorf("empty style should keep %q, got %q", StyleLight, got)
	}
	// Bubble widths can go to zero or below on tiny terminals
	for _, width := range []int{-4, 0, 12} {
		if got := opts.WithWidth(width).Width; got != minWidth {
			t.Errorf("WithWidth(%d) = %d, want %d", width, got, minWidth)
		}
	}
}

func TestOptionsFromConfig(t *testing.T) {
	t.Setenv("GLAMOUR_STYLE", "")

	md := config.MarkdownConfig{Style: StyleNoTTY, EnableEmoji: false, PreserveNewLines: true}
	opts := OptionsFromConfig(md, 60)
	if opts.Style != StyleNoTTY || opts.Width != 60 || opts.Emoji || !opts.LineBreaks {
		t.Errorf("opts = %+v", opts)
	}

	opts = OptionsFromConfig(config.MarkdownConfig{}, 60)
	if opts.Style != StyleDark {
		t.Errorf("empty style should keep default, got %q", opts.Style)
	}

	t.Setenv("GLAMOUR_STYLE", StyleDracula)
	if opts := OptionsFromConfig(md, 60); opts.Style != StyleDracula {
		t.Errorf("GLAMOUR_STYLE should win, got %q", opts.Style)
	}
}

func TestIsBuiltinStyle(t *testing.T) {
	for _, name := range StyleNames() {
		if !IsBuiltinStyle(name) {
			t.Errorf("%s should be builtin", name)
		}
	}
	if IsBuiltinStyle("/tmp/custom.json") {
		t.Error("file paths are not builtin styles")
	}
}

func TestMarkdown(t *testing.T) {
	testCases := []struct {
		name     string
		input    string
		width    int
		contains string
	}{
		{"heading", "# Projects", 80, "Projects"},
		{"bold", "Built with **FastAPI**", 80, "FastAPI"},
		{"code_block", "```python\nprint(\"hi\")\n```", 80, "print"},
		{"link", "[Repo](https://github.com/aufaim)", 80, "Repo"},
		{"list", "- Go\n- Python", 80, "Python"},
		{"narrow_width", "# A long heading that should wrap", 30, "heading"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			output, err := Markdown(tc.input, DefaultOptions().WithWidth(tc.width))
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !strings.Contains(output, tc.contains) {
				t.Errorf("output should contain %q, got: %s", tc.contains, output)
			}
		})
	}
}

func TestMarkdownEmoji(t *testing.T) {
	input := "Hello :smile: world"

	output, err := Markdown(input, DefaultOptions())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if strings.Contains(output, ":smile:") {
		t.Errorf("emoji should have been converted, got: %s", output)
	}

	noEmoji := DefaultOptions()
	noEmoji.Emoji = false
	output, err = Markdown(input, noEmoji)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(output, ":smile:") {
		t.Errorf("emoji should NOT have been converted, got: %s", output)
	}
}

func TestMarkdownInvalidStyle(t *testing.T) {
	if _, err := Markdown("# Test", DefaultOptions().WithStyle("nonexistent_style_path")); err == nil {
		t.Error("expected error for invalid style path")
	}
}

func TestReply(t *testing.T) {
	out := Reply("Hello **there**", DefaultOptions().WithStyle(StyleNoTTY))
	if !strings.Contains(out, "there") {
		t.Errorf("Reply() = %q", out)
	}
	if strings.HasPrefix(out, "\n") || strings.HasSuffix(out, "\n") {
		t.Errorf("Reply() should trim blank lines: %q", out)
	}

	raw := "fallback **text**"
	if got := Reply(raw, DefaultOptions().WithStyle("missing.json")); got != raw {
		t.Errorf("Reply() with broken style = %q, want raw text", got)
	}
}
