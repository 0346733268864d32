package viz

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var (
	canvasStyle = lipgloss.NewStyle().Padding(1, 2)
	statsStyle  = lipgloss.NewStyle().Border(lipgloss.NormalBorder(), false, false, false, true).BorderForeground(lipgloss.Color("240")).Padding(1, 2).Width(46)
	labelStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Width(12)
	valueStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
	graphStyle  = lipgloss.NewStyle().Padding(1, 0)
	helpStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("240")).MarginTop(1)
)

// The canvas is drawn inside canvasStyle's padding; mouse cells are
// offset by it.
const (
	canvasPadLeft = 2
	canvasPadTop  = 1
)

// themeStyles derives the accent styles from CurrentTheme.
type themeStyles struct {
	header, active, running, paused, muted, disabled lipgloss.Style
}

func currentStyles() themeStyles {
	t := CurrentTheme
	return themeStyles{
		header:   lipgloss.NewStyle().Bold(true).Foreground(t.Title).MarginBottom(1),
		active:   lipgloss.NewStyle().Bold(true).Foreground(t.Highlight),
		running:  lipgloss.NewStyle().Bold(true).Foreground(t.Running),
		paused:   lipgloss.NewStyle().Bold(true).Foreground(t.Paused),
		muted:    lipgloss.NewStyle().Foreground(t.Muted),
		disabled: lipgloss.NewStyle().Foreground(t.Muted).Italic(true),
	}
}

// ProgressBar renders ratio in [0, 1] as a bar of the given width.
func ProgressBar(ratio float64, width int) string {
	filled := int(ratio * float64(width))
	if filled > width {
		filled = width
	}
	if filled < 0 {
		filled = 0
	}
	return "[" + strings.Repeat("=", filled) + strings.Repeat("-", width-filled) + "]"
}

// SparklineChart renders a mini sparkline from values
func SparklineChart(values []float64, width int) string {
	if len(values) == 0 {
		return strings.Repeat("─", width)
	}

	chars := []rune{'▁', '▂', '▃', '▄', '▅', '▆', '▇', '█'}

	min, max := values[0], values[0]
	for _, v := range values {
		if v < min {
			min = v
		}
		if v > max {
			max = v
		}
	}

	rng := max - min
	if rng == 0 {
		rng = 1
	}

	// most recent values when there are more than fit
	if len(values) > width {
		values = values[len(values)-width:]
	}

	var result strings.Builder
	for _, v := range values {
		idx := int((v - min) / rng * float64(len(chars)-1))
		if idx >= len(chars) {
			idx = len(chars) - 1
		}
		if idx < 0 {
			idx = 0
		}
		result.WriteRune(chars[idx])
	}
	return result.String()
}

// Separator is a horizontal rule with a centre mark.
func Separator(width int) string {
	mid := width / 2
	if mid < 3 {
		return strings.Repeat("─", width)
	}
	left := strings.Repeat("─", mid-3)
	right := strings.Repeat("─", width-mid-3)
	return left + " ◆ " + right
}
