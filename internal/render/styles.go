package render

// Glamour styles accepted in the markdown configuration
const (
	StyleDark    = "dark"
	StyleLight   = "light"
	StyleDracula = "dracula"
	StyleNoTTY   = "notty"
	StyleASCII   = "ascii"
)

// StyleNames lists the built-in glamour styles
func StyleNames() []string {
	return []string{StyleDark, StyleLight, StyleDracula, StyleNoTTY, StyleASCII}
}

// IsBuiltinStyle reports whether style names a built-in glamour style
// rather than a JSON style file
func IsBuiltinStyle(style string) bool {
	for _, name := range StyleNames() {
		if name == style {
			return true
		}
	}
	return false
}
