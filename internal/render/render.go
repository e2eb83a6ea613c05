// Package render turns bot replies and project lists into terminal output.
package render

import "strings"

// Markdown renders markdown content for terminal display
func Markdown(content string, opts Options) (string, error) {
	return globalPool.render(content, opts)
}

// Reply renders a bot reply, falling back to the raw text when rendering
// fails. Surrounding blank lines added by glamour are trimmed.
func Reply(content string, opts Options) string {
	out, err := Markdown(content, opts)
	if err != nil {
		return content
	}
	return strings.Trim(out, "\n")
}
