package viz

import (
	"fmt"
	"math"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
	"github.com/guptarohit/asciigraph"

	"github.com/san-kum/fabricsim/internal/cloth"
	"github.com/san-kum/fabricsim/internal/metrics"
)

const (
	width           = 80
	height          = 24
	historyCapacity = 600
	fps             = 60

	// SceneExtent is the world span a camera fits at zoom 1. It covers
	// the default primitives and floor.
	SceneExtent = 420.0
	rotateStep  = 0.1
)

// view spring slots
const (
	springRotX = iota
	springRotY
	springZoom
)

type TickMsg time.Time

// Model is the bubbletea model for the live cloth viewer.
type Model struct {
	sim    *cloth.Simulation
	title  string
	logger *log.Logger

	canvas *Canvas
	camera *Camera
	view   springField
	target [3]float64

	params   []cloth.ParamID
	defaults cloth.Params
	selected int

	strain        *metrics.Strain
	energy        *metrics.KineticEnergy
	stress        *metrics.Stress
	strainHistory []float64
	stressHistory []float64

	show     map[cloth.Category]bool
	dragging bool
	showHelp bool
	message  string
}

// NewModel wires s to a camera sized for the canvas. The camera becomes
// the simulation's projector so picks match what is drawn.
func NewModel(s *cloth.Simulation, title string, logger *log.Logger) Model {
	if logger == nil {
		logger = log.Default()
	}
	canvas := NewCanvas(width, height)
	cw, ch := canvas.Resolution()
	cam := FitCamera(cw, ch, SceneExtent)
	s.SetProjector(cam)

	return Model{
		sim:      s,
		title:    title,
		logger:   logger,
		canvas:   canvas,
		camera:   cam,
		view:     newSpringField(fps, 6.0, 1.0, 0, 0, 1),
		target:   [3]float64{0, 0, 1},
		params:   cloth.AllParams(),
		defaults: cloth.DefaultParams(),
		strain:   metrics.NewStrain(),
		energy:   metrics.NewKineticEnergy(),
		stress:   metrics.NewStress(),
		show: map[cloth.Category]bool{
			cloth.Structural: true,
			cloth.Shear:      false,
			cloth.Bending:    false,
		},
		strainHistory: make([]float64, 0, historyCapacity),
		stressHistory: make([]float64, 0, historyCapacity),
	}
}

func tick() tea.Cmd {
	return tea.Tick(time.Second/fps, func(t time.Time) tea.Msg { return TickMsg(t) })
}

func (m Model) Init() tea.Cmd {
	return tick()
}

// Update handles input events and steps the simulation.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)
	case tea.MouseMsg:
		m.handleMouse(msg)
	case TickMsg:
		m.step()
		return m, tick()
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case " ":
		m.sim.Toggle()
	case "r":
		m.sim.Reset()
		m.dragging = false
		m.resetHistory()
	case "p":
		if m.sim.PlacementMode() == cloth.PlacementPlane {
			m.sim.SetPlacementMode(cloth.PlacementDraped)
		} else {
			m.sim.SetPlacementMode(cloth.PlacementPlane)
		}
		m.dragging = false
		m.resetHistory()
	case "f":
		if m.sim.DrapeForm() == cloth.FormSphere {
			m.sim.SetDrapeForm(cloth.FormCylinder)
		} else {
			m.sim.SetDrapeForm(cloth.FormSphere)
		}
	case "n":
		if m.sim.PinningMode() == cloth.PinTop {
			m.sim.SetPinningMode(cloth.PinCorners)
		} else {
			m.sim.SetPinningMode(cloth.PinTop)
		}
	case "m":
		m.toggleInteraction()
	case "x":
		m.rotate(rotateStep, 0)
	case "X":
		m.rotate(-rotateStep, 0)
	case "y":
		m.rotate(0, rotateStep)
	case "Y":
		m.rotate(0, -rotateStep)
	case "+", "=":
		m.target[springZoom] = zoomed(m.target[springZoom], zoomFactor)
	case "-", "_":
		m.target[springZoom] = zoomed(m.target[springZoom], 1/zoomFactor)
	case "tab":
		m.selected = (m.selected + 1) % len(m.params)
	case "shift+tab":
		m.selected = (m.selected + len(m.params) - 1) % len(m.params)
	case "up", "k":
		m.nudge(true)
	case "down", "j":
		m.nudge(false)
	case "e":
		m.toggleParam()
	case "v":
		m.show[cloth.Shear] = !m.show[cloth.Shear]
		m.show[cloth.Bending] = m.show[cloth.Shear]
	case "t":
		NextTheme()
	case "?":
		m.showHelp = !m.showHelp
	}
	return m, nil
}

// rotate only applies in rotate mode; drag mode keeps the front view so
// picking stays predictable.
func (m *Model) rotate(dx, dy float64) {
	if m.sim.InteractionMode() != cloth.InteractRotate {
		return
	}
	m.target[springRotX] += dx
	m.target[springRotY] += dy
}

func (m *Model) toggleInteraction() {
	if m.sim.InteractionMode() == cloth.InteractRotate {
		m.sim.SetInteractionMode(cloth.InteractDrag)
		m.target[springRotX], m.target[springRotY] = 0, 0
		m.view.snap(springRotX, 0)
		m.view.snap(springRotY, 0)
		m.camera.ResetRotation()
	} else {
		m.sim.SetInteractionMode(cloth.InteractRotate)
	}
	m.dragging = false
}

// nudge steps the selected parameter by 5%, or by one pass for the
// iteration count.
func (m *Model) nudge(up bool) {
	id := m.params[m.selected]
	p := m.sim.Params().Get(id)
	v := p.Value
	switch {
	case id == cloth.ParamIterations:
		if up {
			v++
		} else {
			v--
		}
	case v == 0:
		v = 0.01
		if !up {
			v = -0.01
		}
	case up:
		v *= 1.05
	default:
		v *= 0.95
	}
	if err := m.sim.SetParameter(id, v, p.Enabled); err != nil {
		m.message = err.Error()
		return
	}
	m.message = ""
}

func (m *Model) toggleParam() {
	id := m.params[m.selected]
	p := m.sim.Params().Get(id)
	if err := m.sim.SetParameter(id, p.Value, !p.Enabled); err != nil {
		m.message = err.Error()
	}
}

// cellToCanvas maps a terminal cell to the centre of its sub-pixel block.
func cellToCanvas(x, y int) (float64, float64) {
	return float64((x-canvasPadLeft)*2 + 1), float64((y-canvasPadTop)*4 + 2)
}

func (m *Model) handleMouse(msg tea.MouseMsg) {
	if m.showHelp || m.sim.InteractionMode() != cloth.InteractDrag {
		return
	}
	sx, sy := cellToCanvas(msg.X, msg.Y)
	switch msg.Action {
	case tea.MouseActionPress:
		if msg.Button != tea.MouseButtonLeft {
			return
		}
		_, m.dragging = m.sim.SelectAt(sx, sy)
	case tea.MouseActionMotion:
		if m.dragging {
			m.sim.DragTo(sx, sy)
		}
	case tea.MouseActionRelease:
		if m.dragging {
			m.sim.ReleaseDrag()
			m.dragging = false
		}
	}
}

// step advances the cloth, eases the camera and samples metrics.
func (m *Model) step() {
	m.camera.RotX = m.view.step(springRotX, m.target[springRotX])
	m.camera.RotY = m.view.step(springRotY, m.target[springRotY])
	m.camera.Zoom = m.view.step(springZoom, m.target[springZoom])

	if !m.sim.Running() {
		return
	}
	m.sim.Step()
	m.strain.Observe(m.sim)
	m.energy.Observe(m.sim)
	m.stress.Observe(m.sim)
	m.strainHistory = appendCapped(m.strainHistory, m.strain.Value())
	m.stressHistory = appendCapped(m.stressHistory, m.stress.Value())
}

func appendCapped(xs []float64, v float64) []float64 {
	xs = append(xs, v)
	if len(xs) > historyCapacity {
		xs = xs[1:]
	}
	return xs
}

func (m *Model) resetHistory() {
	m.strainHistory = m.strainHistory[:0]
	m.stressHistory = m.stressHistory[:0]
	m.strain.Reset()
	m.energy.Reset()
	m.stress.Reset()
}

// draw renders the primitive, floor and cloth into the canvas.
func (m *Model) draw() {
	drawScene(m.canvas, m.camera, m.sim, m.show)
	if idx, ok := m.sim.Selected(); ok {
		if x, y, _, vis := m.camera.ProjectInt(m.sim.Particles()[idx].Pos); vis {
			m.canvas.Mark(x, y)
		}
	}
}

func drawScene(c *Canvas, cam *Camera, s *cloth.Simulation, show map[cloth.Category]bool) {
	c.Clear()
	if prim := s.Primitive(); prim != nil {
		Render3D(c, PrimitiveWireframe(prim, 24), cam)
		if floor, ok := s.FloorY(); ok {
			Render3D(c, FloorWireframe(floor, SceneExtent/2, 5), cam)
		}
	}
	ps := s.Particles()
	Render3D(c, ClothWireframe(ps, s.Constraints(), show), cam)
	for _, p := range ps {
		if !p.Pinned {
			continue
		}
		if x, y, _, vis := cam.ProjectInt(p.Pos); vis {
			c.Mark(x, y)
		}
	}
}

// Snapshot draws the current scene onto a fresh braille canvas of the
// given size in cells, with every constraint category visible.
func Snapshot(s *cloth.Simulation, cols, rows int) *Canvas {
	c := NewCanvas(cols, rows)
	pw, ph := c.Resolution()
	show := map[cloth.Category]bool{cloth.Structural: true, cloth.Shear: true, cloth.Bending: true}
	drawScene(c, FitCamera(pw, ph, SceneExtent), s, show)
	return c
}

// linkLegend names each constraint category in its theme colour, muted
// when hidden, followed by the pinned node colour.
func (m Model) linkLegend() string {
	parts := make([]string, 0, 4)
	for _, c := range []cloth.Category{cloth.Structural, cloth.Shear, cloth.Bending} {
		color := CurrentTheme.CategoryColor(c)
		if !m.show[c] {
			color = CurrentTheme.Muted
		}
		parts = append(parts, lipgloss.NewStyle().Foreground(color).Render(c.String()))
	}
	parts = append(parts, lipgloss.NewStyle().Foreground(CurrentTheme.Pinned).Render("pinned"))
	return strings.Join(parts, " ")
}

// stressReadout is the stress sparkline plus the strongest cell stress,
// coloured as tension or compression.
func (m Model) stressReadout() string {
	peak := peakStress(m.sim.Stress())
	value := lipgloss.NewStyle().Foreground(CurrentTheme.StressColor(peak)).Render(fmt.Sprintf("%+.3f", peak))
	return SparklineChart(m.stressHistory, 20) + " " + value
}

// peakStress returns the cell value with the largest magnitude.
func peakStress(grid [][]float64) float64 {
	var peak float64
	for _, row := range grid {
		for _, v := range row {
			if math.Abs(v) > math.Abs(peak) {
				peak = v
			}
		}
	}
	return peak
}

// View renders the TUI interface.
func (m Model) View() string {
	m.draw()
	st := currentStyles()
	canvasView := canvasStyle.Render(m.canvas.String())

	var s strings.Builder
	s.WriteString(st.header.Render(strings.ToUpper(m.title)) + "\n")
	if m.sim.Running() {
		s.WriteString(st.running.Render("RUNNING"))
	} else {
		s.WriteString(st.paused.Render("PAUSED"))
	}
	s.WriteString(st.muted.Render(fmt.Sprintf("  step %d", m.sim.StepIndex())) + "\n\n")

	placement := m.sim.PlacementMode().String()
	if m.sim.PlacementMode() == cloth.PlacementDraped {
		placement += " (" + m.sim.DrapeForm().String() + ")"
	} else {
		placement += " (" + m.sim.PinningMode().String() + ")"
	}
	s.WriteString(labelStyle.Render("Placement") + valueStyle.Render(placement) + "\n")
	s.WriteString(labelStyle.Render("Mode") + valueStyle.Render(m.sim.InteractionMode().String()) + "\n")
	s.WriteString(labelStyle.Render("Cloth") + valueStyle.Render(fmt.Sprintf("%dx%d, %d particles, %d links",
		m.sim.Rows(), m.sim.Cols(), len(m.sim.Particles()), len(m.sim.Constraints()))) + "\n")
	s.WriteString(labelStyle.Render("Links") + m.linkLegend() + "\n")
	s.WriteString(labelStyle.Render("Strain") + valueStyle.Render(fmt.Sprintf("%.4f (peak %.4f)", m.strain.Value(), m.strain.Peak())) + "\n")
	s.WriteString(labelStyle.Render("Energy") + valueStyle.Render(fmt.Sprintf("%.3f", m.energy.Value())) + "\n")
	s.WriteString(labelStyle.Render("Stress") + m.stressReadout() + "\n")

	if len(m.strainHistory) > 1 {
		chart := asciigraph.Plot(m.strainHistory, asciigraph.Height(4), asciigraph.Width(30), asciigraph.Caption("Strain"))
		s.WriteString(graphStyle.Foreground(CurrentTheme.Chart).Render(chart) + "\n")
	}

	s.WriteString("\nPARAMETERS\n")
	params := m.sim.Params()
	for i, id := range m.params {
		p := params.Get(id)
		ref := math.Abs(m.defaults.Get(id).Value)
		if ref == 0 {
			ref = 1
		}
		line := fmt.Sprintf("%-15s %s %7.3f", id, ProgressBar(p.Value/(2*ref), 8), p.Value)
		switch {
		case i == m.selected:
			s.WriteString(st.active.Render("> "+line) + "\n")
		case !p.Enabled:
			s.WriteString("  " + st.disabled.Render(line) + "\n")
		default:
			s.WriteString("  " + valueStyle.Render(line) + "\n")
		}
	}
	if m.message != "" {
		s.WriteString(st.paused.Render(m.message) + "\n")
	}
	s.WriteString(helpStyle.Render(Separator(30) + "\nSP:Pause R:Reset Q:Quit ?:Help\nTab ↑↓:Tune E:Enable M:Mode"))

	statsView := statsStyle.Render(s.String())
	mainView := lipgloss.JoinHorizontal(lipgloss.Top, canvasView, statsView)
	if m.showHelp {
		return helpText + "\n\n" + mainView
	}
	return mainView
}

const helpText = `
╔══════════════════════════════════════╗
║           KEYBOARD SHORTCUTS         ║
╠══════════════════════════════════════╣
║  Space    - Pause/Resume             ║
║  R        - Reset cloth              ║
║  P        - Plane / draped           ║
║  F        - Sphere / cylinder        ║
║  N        - Top edge / four corners  ║
║  M        - Rotate / drag mode       ║
║  X Y      - Rotate (shift reverses)  ║
║  + -      - Zoom                     ║
║  Tab      - Cycle parameters         ║
║  Up/Down  - Adjust parameter         ║
║  E        - Enable/disable parameter ║
║  V        - Show shear and bending   ║
║  T        - Cycle themes             ║
║  Q        - Quit                     ║
╚══════════════════════════════════════╝`

// Run opens the live viewer on s until the user quits.
func Run(s *cloth.Simulation, title string, logger *log.Logger) error {
	_, err := tea.NewProgram(NewModel(s, title, logger), tea.WithAltScreen(), tea.WithMouseCellMotion()).Run()
	return err
}
