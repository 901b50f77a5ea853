package viz

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/san-kum/digirain/internal/config"
	"github.com/san-kum/digirain/internal/rain"
)

const (
	previewRows = 12
	previewCols = 36
	previewSeed = 1
)

var presetInfo = map[string]string{
	"classic": "the familiar green downpour",
	"drizzle": "sparse, slow and uneven",
	"storm":   "dense, fast, long trails",
	"binary":  "ones and zeros",
	"hex":     "hex dump falling past",
}

type previewTickMsg struct {
	gen int
}

type menuModel struct {
	presets  []string
	cursor   int
	selected string
	theme    Theme

	sim      *rain.Simulation
	interval time.Duration
	gen      int // bumped on each preview rebuild so stale ticks are dropped
	err      error

	width, height int
}

func newMenuModel(theme Theme) menuModel {
	m := menuModel{
		presets: config.ListPresets(),
		theme:   theme,
		width:   80,
		height:  24,
	}
	m.rebuildPreview()
	return m
}

func (m *menuModel) rebuildPreview() {
	m.gen++
	m.sim, m.err = nil, nil

	cfg := config.GetPreset(m.presets[m.cursor])
	cfg.Seed = previewSeed
	opts, err := cfg.Options(previewRows, previewCols)
	if err != nil {
		m.err = err
		return
	}
	sim, err := rain.NewSimulation(opts)
	if err != nil {
		m.err = err
		return
	}
	m.sim, m.interval = sim, opts.UpdateInterval
	if t, ok := GetTheme(cfg.Theme); ok {
		m.theme = t
	}
}

func (m menuModel) tick() tea.Cmd {
	gen := m.gen
	return tea.Tick(m.interval, func(time.Time) tea.Msg { return previewTickMsg{gen: gen} })
}

func (m menuModel) Init() tea.Cmd { return m.tick() }

func (m menuModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
	case previewTickMsg:
		if msg.gen != m.gen || m.sim == nil {
			return m, nil
		}
		m.sim.Tick()
		return m, m.tick()
	}
	return m, nil
}

func (m menuModel) handleKey(msg tea.KeyMsg) (menuModel, tea.Cmd) {
	switch msg.String() {
	case "q", "esc", "ctrl+c":
		return m, tea.Quit
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
			m.rebuildPreview()
			return m, m.tick()
		}
	case "down", "j":
		if m.cursor < len(m.presets)-1 {
			m.cursor++
			m.rebuildPreview()
			return m, m.tick()
		}
	case "enter", " ":
		m.selected = m.presets[m.cursor]
		return m, tea.Quit
	}
	return m, nil
}

func (m menuModel) View() string {
	var b strings.Builder
	b.WriteString("\n  " + GradientText("DIGIRAIN", m.theme) + "\n  " + Subtle.Render("pick a preset") + "\n  " + Separator(25) + "\n\n")

	for i, name := range m.presets {
		desc := presetInfo[name]
		if i == m.cursor {
			b.WriteString(fmt.Sprintf("  %s %s  %s\n",
				TitleStyle(m.theme).Render("▸"),
				lipgloss.NewStyle().Foreground(lipgloss.Color("#ffffff")).Bold(true).Render(fmt.Sprintf("%-8s", name)),
				lipgloss.NewStyle().Foreground(m.theme.Accent).Render(desc)))
		} else {
			b.WriteString(fmt.Sprintf("    %s  %s\n",
				lipgloss.NewStyle().Foreground(lipgloss.Color("#555566")).Render(fmt.Sprintf("%-8s", name)),
				lipgloss.NewStyle().Foreground(lipgloss.Color("#444455")).Render(desc)))
		}
	}
	list := b.String()

	var preview string
	switch {
	case m.err != nil:
		preview = lipgloss.NewStyle().Foreground(lipgloss.Color("#ff4444")).Render(m.err.Error())
	case m.sim != nil:
		frame, err := m.sim.Buffers().FrontSnapshot()
		if err != nil {
			preview = err.Error()
		} else {
			preview = RenderGrid(frame.Grid, m.theme, false)
		}
	}
	preview = Panel.BorderForeground(m.theme.Muted).Render(preview)

	body := lipgloss.JoinHorizontal(lipgloss.Top, list, "  ", preview)
	return body + "\n\n  " + Hints("j/k", "navigate", "enter", "run", "q", "quit") + "\n"
}

// RunMenu shows the preset picker and returns the chosen preset name, or ""
// if the user quit without choosing.
func RunMenu(theme Theme) (string, error) {
	final, err := tea.NewProgram(newMenuModel(theme), tea.WithAltScreen()).Run()
	if err != nil {
		return "", err
	}
	return final.(menuModel).selected, nil
}
