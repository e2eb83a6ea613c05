package render

import (
	"sort"
	"sync"

	"github.com/charmbracelet/lipgloss"
)

// Palette is the color scheme shared by the TUI and the project cards
type Palette struct {
	Name        string
	Description string

	Surface lipgloss.Color
	Border  lipgloss.Color

	Primary   lipgloss.Color
	Secondary lipgloss.Color
	Accent    lipgloss.Color
	Warning   lipgloss.Color
	Error     lipgloss.Color

	Text     lipgloss.Color
	TextDim  lipgloss.Color
	TextMute lipgloss.Color
}

var palettes = map[string]Palette{
	"tokyonight": {
		Name:        "tokyonight",
		Description: "Dark with blue accents (default)",
		Surface:     "#24283b",
		Border:      "#414868",
		Primary:     "#7aa2f7",
		Secondary:   "#9ece6a",
		Accent:      "#bb9af7",
		Warning:     "#e0af68",
		Error:       "#f7768e",
		Text:        "#c0caf5",
		TextDim:     "#565f89",
		TextMute:    "#3b4261",
	},
	"catppuccin": {
		Name:        "catppuccin",
		Description: "Warm dark pastels",
		Surface:     "#313244",
		Border:      "#45475a",
		Primary:     "#89b4fa",
		Secondary:   "#a6e3a1",
		Accent:      "#cba6f7",
		Warning:     "#f9e2af",
		Error:       "#f38ba8",
		Text:        "#cdd6f4",
		TextDim:     "#6c7086",
		TextMute:    "#45475a",
	},
	"paper": {
		Name:        "paper",
		Description: "Light theme for bright terminals",
		Surface:     "#f4f4f5",
		Border:      "#d4d4d8",
		Primary:     "#2563eb",
		Secondary:   "#16a34a",
		Accent:      "#9333ea",
		Warning:     "#ca8a04",
		Error:       "#dc2626",
		Text:        "#18181b",
		TextDim:     "#71717a",
		TextMute:    "#a1a1aa",
	},
}

const defaultPalette = "tokyonight"

var (
	paletteMu sync.RWMutex
	current   = palettes[defaultPalette]
)

// CurrentPalette returns the active palette
func CurrentPalette() Palette {
	paletteMu.RLock()
	defer paletteMu.RUnlock()
	return current
}

// SetPalette activates a palette by name; unknown names are rejected
func SetPalette(name string) bool {
	p, ok := PaletteByName(name)
	if !ok {
		return false
	}
	paletteMu.Lock()
	current = p
	paletteMu.Unlock()
	return true
}

// PaletteByName looks up a palette
func PaletteByName(name string) (Palette, bool) {
	p, ok := palettes[name]
	return p, ok
}

// PaletteNames lists the available palettes in alphabetical order
func PaletteNames() []string {
	names := make([]string, 0, len(palettes))
	for name := range palettes {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
