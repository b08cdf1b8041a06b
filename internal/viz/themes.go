package viz

import "github.com/charmbracelet/lipgloss"

// Theme is the color scheme of the terminal views.
type Theme struct {
	Name     string
	Primary  lipgloss.Color
	Accent   lipgloss.Color
	Text     lipgloss.Color
	Muted    lipgloss.Color
	Recorded lipgloss.Color
	Modeled  lipgloss.Color
	Good     lipgloss.Color
	Warning  lipgloss.Color
	Bad      lipgloss.Color
}

var (
	ThemeStripes = Theme{
		Name:     "stripes",
		Primary:  lipgloss.Color("#ff6b6b"),
		Accent:   lipgloss.Color("#feca57"),
		Text:     lipgloss.Color("#fff5f5"),
		Muted:    lipgloss.Color("#8b6b8c"),
		Recorded: lipgloss.Color("#4dabf7"),
		Modeled:  lipgloss.Color("#ff6b6b"),
		Good:     lipgloss.Color("#5fd068"),
		Warning:  lipgloss.Color("#ffc048"),
		Bad:      lipgloss.Color("#ff4757"),
	}

	ThemeOcean = Theme{
		Name:     "ocean",
		Primary:  lipgloss.Color("#00a8cc"),
		Accent:   lipgloss.Color("#ffd700"),
		Text:     lipgloss.Color("#e0f0ff"),
		Muted:    lipgloss.Color("#4488aa"),
		Recorded: lipgloss.Color("#00ff88"),
		Modeled:  lipgloss.Color("#ffd700"),
		Good:     lipgloss.Color("#00ff88"),
		Warning:  lipgloss.Color("#ffcc00"),
		Bad:      lipgloss.Color("#ff4444"),
	}

	ThemeMinimal = Theme{
		Name:     "minimal",
		Primary:  lipgloss.Color("#ffffff"),
		Accent:   lipgloss.Color("#0088ff"),
		Text:     lipgloss.Color("#ffffff"),
		Muted:    lipgloss.Color("#888888"),
		Recorded: lipgloss.Color("#cccccc"),
		Modeled:  lipgloss.Color("#0088ff"),
		Good:     lipgloss.Color("#00ff00"),
		Warning:  lipgloss.Color("#ffaa00"),
		Bad:      lipgloss.Color("#ff0000"),
	}

	Themes = []Theme{ThemeStripes, ThemeOcean, ThemeMinimal}
)

// GetTheme returns a theme by name, falling back to the first theme.
func GetTheme(name string) Theme {
	for _, t := range Themes {
		if t.Name == name {
			return t
		}
	}
	return Themes[0]
}

// NextTheme returns the theme after name, wrapping around.
func NextTheme(name string) Theme {
	for i, t := range Themes {
		if t.Name == name {
			return Themes[(i+1)%len(Themes)]
		}
	}
	return Themes[0]
}

func ThemeNames() []string {
	names := make([]string, len(Themes))
	for i, t := range Themes {
		names[i] = t.Name
	}
	return names
}
