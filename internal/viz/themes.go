package viz

import "github.com/charmbracelet/lipgloss"

// Theme defines the palette for drawings and tables.
type Theme struct {
	Name        string
	Tension     lipgloss.Color
	Compression lipgloss.Color
	Zero        lipgloss.Color
	Support     lipgloss.Color
	Load        lipgloss.Color
	Highlight   lipgloss.Color
	Text        lipgloss.Color
	Muted       lipgloss.Color
	Accent      lipgloss.Color
	Border      lipgloss.Color
}

var (
	ThemeClassic = Theme{
		Name:        "classic",
		Tension:     lipgloss.Color("#4fa3ff"), // blue
		Compression: lipgloss.Color("#ff5f5f"), // red
		Zero:        lipgloss.Color("#777777"),
		Support:     lipgloss.Color("#5fd068"),
		Load:        lipgloss.Color("#ffc048"),
		Highlight:   lipgloss.Color("#ff00ff"),
		Text:        lipgloss.Color("#ffffff"),
		Muted:       lipgloss.Color("#888899"),
		Accent:      lipgloss.Color("#00ccff"),
		Border:      lipgloss.Color("#444466"),
	}

	ThemeBlueprint = Theme{
		Name:        "blueprint",
		Tension:     lipgloss.Color("#e0f0ff"),
		Compression: lipgloss.Color("#ffd700"),
		Zero:        lipgloss.Color("#4488aa"),
		Support:     lipgloss.Color("#00ff88"),
		Load:        lipgloss.Color("#ff9ff3"),
		Highlight:   lipgloss.Color("#ffffff"),
		Text:        lipgloss.Color("#e0f0ff"),
		Muted:       lipgloss.Color("#4488aa"),
		Accent:      lipgloss.Color("#00a8cc"),
		Border:      lipgloss.Color("#0077be"),
	}

	ThemeMono = Theme{
		Name:        "mono",
		Tension:     lipgloss.Color("#ffffff"),
		Compression: lipgloss.Color("#cccccc"),
		Zero:        lipgloss.Color("#666666"),
		Support:     lipgloss.Color("#ffffff"),
		Load:        lipgloss.Color("#ffffff"),
		Highlight:   lipgloss.Color("#ffffff"),
		Text:        lipgloss.Color("#ffffff"),
		Muted:       lipgloss.Color("#888888"),
		Accent:      lipgloss.Color("#ffffff"),
		Border:      lipgloss.Color("#555555"),
	}

	// Default theme
	CurrentTheme = ThemeClassic

	Themes = []Theme{
		ThemeClassic,
		ThemeBlueprint,
		ThemeMono,
	}
)

// GetTheme returns a theme by name, falling back to classic.
func GetTheme(name string) Theme {
	for _, t := range Themes {
		if t.Name == name {
			return t
		}
	}
	return ThemeClassic
}

// SetTheme changes the current theme and rebuilds the shared styles.
func SetTheme(name string) {
	CurrentTheme = GetTheme(name)
	applyTheme(CurrentTheme)
}

func ThemeNames() []string {
	names := make([]string, len(Themes))
	for i, t := range Themes {
		names[i] = t.Name
	}
	return names
}
