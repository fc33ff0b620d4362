// Package theme holds the CLI color themes.
package theme

import "github.com/charmbracelet/lipgloss"

// Theme is a set of colors for CLI output.
type Theme struct {
	Primary   lipgloss.Color
	Text      lipgloss.Color
	TextMuted lipgloss.Color
	Error     lipgloss.Color
	Warning   lipgloss.Color
}

var themes = map[string]Theme{
	"dark": {
		Primary:   lipgloss.Color("#36b37e"),
		Text:      lipgloss.Color("#ffffff"),
		TextMuted: lipgloss.Color("#808080"),
		Error:     lipgloss.Color("#ff5630"),
		Warning:   lipgloss.Color("#ffab00"),
	},
	"light": {
		Primary:   lipgloss.Color("#006644"),
		Text:      lipgloss.Color("#000000"),
		TextMuted: lipgloss.Color("#6b6b6b"),
		Error:     lipgloss.Color("#bf2600"),
		Warning:   lipgloss.Color("#ff8b00"),
	},
}

// Get returns the named theme, falling back to dark.
func Get(name string) Theme {
	if t, ok := themes[name]; ok {
		return t
	}
	return themes["dark"]
}
