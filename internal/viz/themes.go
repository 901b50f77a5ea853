package viz

import (
	"sort"

	"github.com/charmbracelet/lipgloss"
	"github.com/lucasb-eyer/go-colorful"
)

// trailBlend is how far the trail colour sits from the head towards the
// background, in Lab space.
const trailBlend = 0.55

// Theme defines the colours used for rain cells and the menu chrome.
type Theme struct {
	Name       string
	Head       lipgloss.Color
	Base       lipgloss.Color // trail hue before blending
	Background lipgloss.Color
	Accent     lipgloss.Color
	Muted      lipgloss.Color
}

var (
	ThemeGreen = Theme{
		Name:       "green",
		Head:       lipgloss.Color("#e8ffe8"),
		Base:       lipgloss.Color("#00ff41"),
		Background: lipgloss.Color("#000000"),
		Accent:     lipgloss.Color("#00cc33"),
		Muted:      lipgloss.Color("#335533"),
	}

	ThemeAmber = Theme{
		Name:       "amber",
		Head:       lipgloss.Color("#fff4d6"),
		Base:       lipgloss.Color("#ffb000"),
		Background: lipgloss.Color("#0a0600"),
		Accent:     lipgloss.Color("#ffcc44"),
		Muted:      lipgloss.Color("#665533"),
	}

	ThemeIce = Theme{
		Name:       "ice",
		Head:       lipgloss.Color("#ffffff"),
		Base:       lipgloss.Color("#00ccff"),
		Background: lipgloss.Color("#000814"),
		Accent:     lipgloss.Color("#66ddff"),
		Muted:      lipgloss.Color("#334455"),
	}

	ThemeMono = Theme{
		Name:       "mono",
		Head:       lipgloss.Color("#ffffff"),
		Base:       lipgloss.Color("#aaaaaa"),
		Background: lipgloss.Color("#000000"),
		Accent:     lipgloss.Color("#dddddd"),
		Muted:      lipgloss.Color("#555555"),
	}

	ThemeCyberpunk = Theme{
		Name:       "cyberpunk",
		Head:       lipgloss.Color("#ffff00"),
		Base:       lipgloss.Color("#ff00ff"),
		Background: lipgloss.Color("#0a0a0a"),
		Accent:     lipgloss.Color("#00ffff"),
		Muted:      lipgloss.Color("#666666"),
	}
)

var Themes = map[string]Theme{
	ThemeGreen.Name:     ThemeGreen,
	ThemeAmber.Name:     ThemeAmber,
	ThemeIce.Name:       ThemeIce,
	ThemeMono.Name:      ThemeMono,
	ThemeCyberpunk.Name: ThemeCyberpunk,
}

// GetTheme returns a theme by name
func GetTheme(name string) (Theme, bool) {
	t, ok := Themes[name]
	return t, ok
}

// ThemeNames returns the sorted theme names
func ThemeNames() []string {
	names := make([]string, 0, len(Themes))
	for name := range Themes {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Trail returns the colour for trail cells: Base blended towards Background.
func (t Theme) Trail() lipgloss.Color {
	return blend(t.Base, t.Background, trailBlend)
}

// Gradient returns n colours stepping from Head to Trail.
func (t Theme) Gradient(n int) []lipgloss.Color {
	if n <= 0 {
		return nil
	}
	if n == 1 {
		return []lipgloss.Color{t.Head}
	}
	out := make([]lipgloss.Color, n)
	trail := t.Trail()
	for i := range out {
		out[i] = blend(t.Head, trail, float64(i)/float64(n-1))
	}
	return out
}

func blend(a, b lipgloss.Color, f float64) lipgloss.Color {
	if f <= 0 {
		return a
	}
	if f >= 1 {
		return b
	}
	ca, err := colorful.Hex(string(a))
	if err != nil {
		return a
	}
	cb, err := colorful.Hex(string(b))
	if err != nil {
		return a
	}
	return lipgloss.Color(ca.BlendLab(cb, f).Clamped().Hex())
}

// RGB returns the 0-255 channels of a hex colour, or black if it does not
// parse.
func RGB(c lipgloss.Color) (r, g, b uint8) {
	cc, err := colorful.Hex(string(c))
	if err != nil {
		return 0, 0, 0
	}
	return cc.RGB255()
}
