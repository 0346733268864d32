package viz

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/san-kum/fabricsim/internal/cloth"
)

// Theme colours the viewer. Structural, Shear and Bending match the
// constraint categories, Pinned marks anchored and held nodes, and
// Tension / Compression colour the stress readout.
type Theme struct {
	Name        string
	Title       lipgloss.Color
	Highlight   lipgloss.Color
	Chart       lipgloss.Color
	Muted       lipgloss.Color
	Running     lipgloss.Color
	Paused      lipgloss.Color
	Structural  lipgloss.Color
	Shear       lipgloss.Color
	Bending     lipgloss.Color
	Pinned      lipgloss.Color
	Tension     lipgloss.Color
	Compression lipgloss.Color
}

// CategoryColor picks the colour for a constraint category.
func (t Theme) CategoryColor(c cloth.Category) lipgloss.Color {
	switch c {
	case cloth.Shear:
		return t.Shear
	case cloth.Bending:
		return t.Bending
	default:
		return t.Structural
	}
}

// StressColor is Tension for stretched cells and Compression otherwise.
func (t Theme) StressColor(v float64) lipgloss.Color {
	if v > 0 {
		return t.Tension
	}
	return t.Compression
}

var (
	// ThemeLinen uses the same palette as the SVG export.
	ThemeLinen = Theme{
		Name:        "linen",
		Title:       lipgloss.Color("#f5f0e6"),
		Highlight:   lipgloss.Color("#f1c40f"),
		Chart:       lipgloss.Color("#2ecc71"),
		Muted:       lipgloss.Color("#7f8c8d"),
		Running:     lipgloss.Color("#2ecc71"),
		Paused:      lipgloss.Color("#e67e22"),
		Structural:  lipgloss.Color("#2ecc71"),
		Shear:       lipgloss.Color("#f1c40f"),
		Bending:     lipgloss.Color("#3498db"),
		Pinned:      lipgloss.Color("#e74c3c"),
		Tension:     lipgloss.Color("#e74c3c"),
		Compression: lipgloss.Color("#3498db"),
	}

	ThemeDenim = Theme{
		Name:        "denim",
		Title:       lipgloss.Color("#dfe9f5"),
		Highlight:   lipgloss.Color("#f0a04b"), // copper rivets
		Chart:       lipgloss.Color("#6f9fd8"),
		Muted:       lipgloss.Color("#4a6a8f"),
		Running:     lipgloss.Color("#8fd694"),
		Paused:      lipgloss.Color("#f0a04b"),
		Structural:  lipgloss.Color("#6f9fd8"),
		Shear:       lipgloss.Color("#f0a04b"),
		Bending:     lipgloss.Color("#b4c8e8"),
		Pinned:      lipgloss.Color("#ff6f61"),
		Tension:     lipgloss.Color("#ff6f61"),
		Compression: lipgloss.Color("#7fdbff"),
	}

	ThemeSilk = Theme{
		Name:        "silk",
		Title:       lipgloss.Color("#fff5f5"),
		Highlight:   lipgloss.Color("#ff9ff3"),
		Chart:       lipgloss.Color("#feca57"),
		Muted:       lipgloss.Color("#8b6b8c"),
		Running:     lipgloss.Color("#5fd068"),
		Paused:      lipgloss.Color("#ffc048"),
		Structural:  lipgloss.Color("#ff9ff3"),
		Shear:       lipgloss.Color("#feca57"),
		Bending:     lipgloss.Color("#a29bfe"),
		Pinned:      lipgloss.Color("#ff4757"),
		Tension:     lipgloss.Color("#ff4757"),
		Compression: lipgloss.Color("#48dbfb"),
	}

	// ThemeChalk is monochrome apart from pins and stress.
	ThemeChalk = Theme{
		Name:        "chalk",
		Title:       lipgloss.Color("#ffffff"),
		Highlight:   lipgloss.Color("#ffffff"),
		Chart:       lipgloss.Color("#cccccc"),
		Muted:       lipgloss.Color("#777777"),
		Running:     lipgloss.Color("#ffffff"),
		Paused:      lipgloss.Color("#aaaaaa"),
		Structural:  lipgloss.Color("#ffffff"),
		Shear:       lipgloss.Color("#bbbbbb"),
		Bending:     lipgloss.Color("#888888"),
		Pinned:      lipgloss.Color("#ff5555"),
		Tension:     lipgloss.Color("#ff5555"),
		Compression: lipgloss.Color("#5599ff"),
	}

	CurrentTheme = ThemeLinen

	Themes = []Theme{
		ThemeLinen,
		ThemeDenim,
		ThemeSilk,
		ThemeChalk,
	}
)

// GetTheme returns a theme by name
func GetTheme(name string) Theme {
	for _, t := range Themes {
		if t.Name == name {
			return t
		}
	}
	return ThemeLinen
}

// SetTheme changes the current theme
func SetTheme(name string) {
	CurrentTheme = GetTheme(name)
}

// NextTheme switches to the theme after the current one.
func NextTheme() {
	names := ThemeNames()
	for i, name := range names {
		if name == CurrentTheme.Name {
			SetTheme(names[(i+1)%len(names)])
			return
		}
	}
}

// ThemeNames returns list of available theme names
func ThemeNames() []string {
	names := make([]string, len(Themes))
	for i, t := range Themes {
		names[i] = t.Name
	}
	return names
}
