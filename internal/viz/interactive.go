package viz

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"

	"github.com/san-kum/fabricsim/internal/cloth"
	"github.com/san-kum/fabricsim/internal/config"
)

var (
	pickTitle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#00cccc")).Bold(true)
	pickSub     = lipgloss.NewStyle().Foreground(lipgloss.Color("#666688"))
	pickCursor  = lipgloss.NewStyle().Foreground(lipgloss.Color("#00ffff")).Bold(true)
	pickActive  = lipgloss.NewStyle().Foreground(lipgloss.Color("#ffffff")).Bold(true)
	pickDesc    = lipgloss.NewStyle().Foreground(lipgloss.Color("#ff88ff"))
	pickIdle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#555566"))
	pickKey     = lipgloss.NewStyle().Foreground(lipgloss.Color("#00aaaa")).Bold(true)
	customLabel = "custom"
)

const (
	stateMenu = iota
	stateConfig
	stateSim
)

// setup fields editable before launch
var setupFields = []string{"rows", "cols", "spacing", "placement", "form", "pinning"}

type picker struct {
	state, cursor int
	fabrics       []string
	base          *config.Config
	cfg           *config.Config
	fieldCursor   int
	logger        *log.Logger
	err           error
	liveModel     Model
}

// NewPicker starts at a fabric menu; the chosen fabric and layout are
// applied over base before the live viewer opens.
func NewPicker(base *config.Config, logger *log.Logger) *picker {
	return &picker{
		state:   stateMenu,
		fabrics: append([]string{customLabel}, config.ListPresets()...),
		base:    base,
		logger:  logger,
	}
}

func (m picker) Init() tea.Cmd { return nil }

func (m picker) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if m.state == stateSim {
		newLive, cmd := m.liveModel.Update(msg)
		m.liveModel = newLive.(Model)
		return m, cmd
	}
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch m.state {
		case stateMenu:
			return m.menuKey(msg)
		case stateConfig:
			return m.configKey(msg)
		}
	}
	return m, nil
}

func (m picker) menuKey(msg tea.KeyMsg) (picker, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(m.fabrics)-1 {
			m.cursor++
		}
	case "enter", " ":
		m.cfg = cloneConfig(m.base)
		m.err = nil
		if name := m.fabrics[m.cursor]; name != customLabel {
			if err := m.cfg.ApplyPreset(name); err != nil {
				m.err = err
				return m, nil
			}
		}
		m.state, m.fieldCursor = stateConfig, 0
	}
	return m, nil
}

func (m picker) configKey(msg tea.KeyMsg) (picker, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		return m, tea.Quit
	case "q", "esc":
		m.state = stateMenu
	case "up", "k":
		if m.fieldCursor > 0 {
			m.fieldCursor--
		}
	case "down", "j":
		if m.fieldCursor < len(setupFields)-1 {
			m.fieldCursor++
		}
	case "left", "h":
		m.adjust(-1)
	case "right", "l", "enter", " ":
		m.adjust(1)
	case "s":
		return m.start()
	}
	return m, nil
}

func (m *picker) adjust(dir int) {
	c := m.cfg
	switch setupFields[m.fieldCursor] {
	case "rows":
		c.Rows = max(2, c.Rows+dir)
	case "cols":
		c.Cols = max(2, c.Cols+dir)
	case "spacing":
		c.Spacing = max(1, c.Spacing+float64(dir))
	case "placement":
		c.Placement = toggle(c.Placement, cloth.PlacementPlane.String(), cloth.PlacementDraped.String())
	case "form":
		c.Form = toggle(c.Form, cloth.FormSphere.String(), cloth.FormCylinder.String())
	case "pinning":
		c.Pinning = toggle(c.Pinning, cloth.PinTop.String(), cloth.PinCorners.String())
	}
}

func toggle(v, a, b string) string {
	if v == a {
		return b
	}
	return a
}

func (m picker) start() (picker, tea.Cmd) {
	s, err := m.cfg.New()
	if err != nil {
		m.err = err
		return m, nil
	}
	s.SetLogger(m.logger)
	title := "fabricsim"
	if m.cfg.Preset != "" {
		title += " / " + m.cfg.Preset
	}
	m.liveModel = NewModel(s, title, m.logger)
	m.state = stateSim
	return m, m.liveModel.Init()
}

func cloneConfig(c *config.Config) *config.Config {
	out := *c
	out.Params = make(map[string]cloth.Param, len(c.Params))
	for k, v := range c.Params {
		out.Params[k] = v
	}
	return &out
}

func (m picker) fieldValue(name string) string {
	c := m.cfg
	switch name {
	case "rows":
		return fmt.Sprint(c.Rows)
	case "cols":
		return fmt.Sprint(c.Cols)
	case "spacing":
		return fmt.Sprintf("%.1f", c.Spacing)
	case "placement":
		return c.Placement
	case "form":
		return c.Form
	case "pinning":
		return c.Pinning
	}
	return ""
}

func (m picker) View() string {
	switch m.state {
	case stateMenu:
		return m.viewMenu()
	case stateConfig:
		return m.viewConfig()
	case stateSim:
		return m.liveModel.View()
	}
	return ""
}

func keyHints(pairs ...string) string {
	var b strings.Builder
	for i := 0; i+1 < len(pairs); i += 2 {
		b.WriteString(pickKey.Render(pairs[i]) + pickIdle.Render(" "+pairs[i+1]+"  "))
	}
	return b.String()
}

func (m picker) viewMenu() string {
	var b strings.Builder
	b.WriteString("\n\n    " + pickTitle.Render("FABRICSIM") + "\n    " + pickSub.Render("mass-spring cloth") + "\n    " + pickSub.Render("─────────────────────────") + "\n\n")
	for i, name := range m.fabrics {
		desc := "current configuration"
		if f := config.GetPreset(name); f != nil {
			desc = f.Description
		}
		if i == m.cursor {
			b.WriteString(fmt.Sprintf("    %s %s  %s\n", pickCursor.Render("▸"), pickActive.Render(fmt.Sprintf("%-10s", name)), pickDesc.Render(desc)))
		} else {
			b.WriteString(fmt.Sprintf("      %s  %s\n", pickIdle.Render(fmt.Sprintf("%-10s", name)), pickSub.Render(desc)))
		}
	}
	if m.err != nil {
		b.WriteString("\n    " + pickDesc.Render(m.err.Error()) + "\n")
	}
	b.WriteString("\n    " + keyHints("j/k", "navigate", "enter", "select", "q", "quit") + "\n")
	return b.String()
}

func (m picker) viewConfig() string {
	var b strings.Builder
	title := customLabel
	if m.cfg.Preset != "" {
		title = m.cfg.Preset
	}
	b.WriteString("\n\n    " + pickTitle.Render(strings.ToUpper(title)) + "\n    " + pickSub.Render("─────────────────────────") + "\n\n")
	for i, name := range setupFields {
		val := fmt.Sprintf("%10s", m.fieldValue(name))
		if i == m.fieldCursor {
			b.WriteString(fmt.Sprintf("    %s %s %s\n", pickCursor.Render("▸"), pickActive.Render(fmt.Sprintf("%-10s", name)), pickDesc.Render(val)))
		} else {
			b.WriteString(fmt.Sprintf("      %s %s\n", pickIdle.Render(fmt.Sprintf("%-10s", name)), pickSub.Render(val)))
		}
	}
	if m.err != nil {
		b.WriteString("\n    " + pickDesc.Render(m.err.Error()) + "\n")
	}
	b.WriteString("\n    " + keyHints("j/k", "select", "h/l", "adjust", "s", "start", "esc", "back") + "\n")
	return b.String()
}

// RunInteractive opens the fabric picker, then the live viewer.
func RunInteractive(base *config.Config, logger *log.Logger) error {
	_, err := tea.NewProgram(NewPicker(base, logger), tea.WithAltScreen(), tea.WithMouseCellMotion()).Run()
	return err
}
