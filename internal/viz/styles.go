package viz

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var (
	Panel = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("#444466")).
		Padding(0, 1)

	Subtle = lipgloss.NewStyle().
		Foreground(lipgloss.Color("#666688"))

	MetricLabel = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#888899"))

	MetricValue = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#00ccff")).
			Bold(true)

	KeyHint = lipgloss.NewStyle().
		Foreground(lipgloss.Color("#00aaaa")).
		Bold(true)
)

// TitleStyle returns the heading style for a theme.
func TitleStyle(t Theme) lipgloss.Style {
	return lipgloss.NewStyle().Foreground(t.Accent).Bold(true)
}

// HeadStyle and TrailStyle colour rain cells.
func HeadStyle(t Theme) lipgloss.Style {
	return lipgloss.NewStyle().Foreground(t.Head).Bold(true)
}

func TrailStyle(t Theme) lipgloss.Style {
	return lipgloss.NewStyle().Foreground(t.Trail())
}

// GradientText colours each rune of text along the theme's head to trail
// gradient.
func GradientText(text string, t Theme) string {
	runes := []rune(text)
	colors := t.Gradient(len(runes))
	var b strings.Builder
	for i, r := range runes {
		b.WriteString(lipgloss.NewStyle().Foreground(colors[i]).Bold(true).Render(string(r)))
	}
	return b.String()
}

// Hints renders "key desc" pairs as a single help line.
func Hints(pairs ...string) string {
	var b strings.Builder
	for i := 0; i+1 < len(pairs); i += 2 {
		if i > 0 {
			b.WriteString("  ")
		}
		b.WriteString(KeyHint.Render(pairs[i]))
		b.WriteString(Subtle.Render(" " + pairs[i+1]))
	}
	return b.String()
}

func Separator(width int) string {
	return Subtle.Render(strings.Repeat("─", width))
}
