package render

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/aufaim/portfoliochat/internal/models"
)

const (
	minCardWidth = 24
	maxCardWidth = 100
)

// ProjectCards renders projects as a column of bordered cards in list
// order. An empty list renders a short notice.
func ProjectCards(projects []models.Project, width int) string {
	p := CurrentPalette()

	if len(projects) == 0 {
		return lipgloss.NewStyle().Foreground(p.TextDim).Italic(true).Render("No projects to show yet.")
	}

	cards := make([]string, 0, len(projects))
	for _, project := range projects {
		cards = append(cards, ProjectCard(project, width))
	}
	return strings.Join(cards, "\n")
}

// ProjectCard renders a single project card no wider than width
func ProjectCard(project models.Project, width int) string {
	p := CurrentPalette()

	if width > maxCardWidth {
		width = maxCardWidth
	}
	if width < minCardWidth {
		width = minCardWidth
	}
	// border (2) and horizontal padding (2)
	inner := width - 4

	title := lipgloss.NewStyle().
		Bold(true).
		Foreground(p.Primary).
		Width(inner).
		Render(project.Title)

	lines := []string{title}

	if desc := strings.TrimSpace(project.Description); desc != "" {
		lines = append(lines, lipgloss.NewStyle().
			Foreground(p.Text).
			Width(inner).
			Render(desc))
	}

	if len(project.Tech) > 0 {
		lines = append(lines, techTags(project.Tech, inner, p))
	}

	if project.HasLink() {
		lines = append(lines, lipgloss.NewStyle().
			Foreground(p.Accent).
			Underline(true).
			Width(inner).
			Render(project.Link))
	}

	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(p.Border).
		Padding(0, 1).
		Width(width - 2).
		Render(strings.Join(lines, "\n"))
}

// techTags lays tags out left to right, wrapping when a row is full
func techTags(tech []string, width int, p Palette) string {
	tag := lipgloss.NewStyle().
		Foreground(p.Secondary).
		Background(p.Surface).
		Padding(0, 1)

	var rows []string
	var row []string
	rowWidth := 0
	for _, t := range tech {
		rendered := tag.Render(t)
		w := lipgloss.Width(rendered)
		if rowWidth > 0 && rowWidth+1+w > width {
			rows = append(rows, strings.Join(row, " "))
			row, rowWidth = nil, 0
		}
		if rowWidth > 0 {
			rowWidth++
		}
		row = append(row, rendered)
		rowWidth += w
	}
	if len(row) > 0 {
		rows = append(rows, strings.Join(row, " "))
	}
	return strings.Join(rows, "\n")
}
