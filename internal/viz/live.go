package viz

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/harmonica"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"

	"breathe/internal/breath"
	"breathe/internal/clock"
	"breathe/internal/config"
	"breathe/internal/damp"
	"breathe/internal/swarm"
)

const (
	canvasWidth     = 72
	canvasHeight    = 26
	historyCapacity = 240
	fps             = 60
)

type TickMsg time.Time

// Model is the live terminal view: the full pipeline stepped on real frame
// time, with the clock override layer wired to the keyboard.
type Model struct {
	cfg      *config.Config
	curve    breath.Curve
	clk      *clock.Clock
	smoother *damp.Smoother
	engine   *swarm.Engine
	camera   *Camera
	canvas   *Canvas

	users    int
	lastTick time.Time
	lastRaw  breath.State
	history  []float64

	// The HUD level spring lags the eased progress slightly, which keeps
	// the big readout from flickering on phase boundaries.
	hudSpring harmonica.Spring
	hudLevel  float64
	hudVel    float64

	manualPinned bool
	showHelp     bool
}

func NewModel(cfg *config.Config) (Model, error) {
	curve, err := cfg.Curve()
	if err != nil {
		return Model{}, err
	}
	initial := curve.At(0)

	return Model{
		cfg:       cfg,
		curve:     curve,
		lastRaw:   initial,
		clk:       clock.New(cfg.BreathParams()),
		smoother:  damp.NewSmoother(cfg.Damping, initial),
		engine:    swarm.NewEngine(cfg.Swarm, initial.TargetOrbitRadius, cfg.Seed),
		camera:    NewCamera(cfg.BreathParams().MaxRadius * 1.3),
		canvas:    NewCanvas(canvasWidth, canvasHeight, swarmShades),
		users:     cfg.Users,
		history:   make([]float64, 0, historyCapacity),
		hudSpring: harmonica.NewSpring(harmonica.FPS(fps), 6.0, 0.8),
	}, nil
}

func (m Model) Init() tea.Cmd {
	return tea.Tick(time.Second/fps, func(t time.Time) tea.Msg { return TickMsg(t) })
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case " ":
			if m.clk.Paused() {
				m.clk.Resume()
			} else {
				m.clk.Pause()
			}
		case "1":
			m.clk.JumpTo(clock.PhasePoint{Phase: breath.Inhale})
		case "2":
			m.clk.JumpTo(clock.PhasePoint{Phase: breath.HoldIn})
		case "3":
			m.clk.JumpTo(clock.PhasePoint{Phase: breath.Exhale})
		case "4":
			m.clk.JumpTo(clock.PhasePoint{Phase: breath.HoldOut})
		case "m":
			if m.manualPinned {
				m.clk.ClearManual()
			} else {
				m.clk.SetManual(clock.PhasePoint{Phase: m.lastRaw.Phase, Progress: 0.5})
			}
			m.manualPinned = !m.manualPinned
		case ",":
			m.clk.SetTimeScale(m.clk.TimeScale() / 2)
		case ".":
			m.clk.SetTimeScale(m.clk.TimeScale() * 2)
		case "r":
			m.clk.Reset()
			m.manualPinned = false
		case "u":
			if m.users < m.cfg.Swarm.Count {
				m.users++
			}
		case "U":
			if m.users > 0 {
				m.users--
			}
		case "x":
			m.camera.RotateX(0.1)
		case "X":
			m.camera.RotateX(-0.1)
		case "y":
			m.camera.RotateY(0.1)
		case "Y":
			m.camera.RotateY(-0.1)
		case "z":
			m.camera.RotateZ(0.1)
		case "Z":
			m.camera.RotateZ(-0.1)
		case "+", "=":
			m.camera.ZoomIn()
		case "-", "_":
			m.camera.ZoomOut()
		case "?":
			m.showHelp = !m.showHelp
		}
	case TickMsg:
		now := time.Time(msg)
		dt := 1.0 / fps
		if !m.lastTick.IsZero() {
			dt = now.Sub(m.lastTick).Seconds()
			if dt > 0.25 {
				dt = 0.25
			}
		}
		m.lastTick = now
		m.step(dt)
		return m, tea.Tick(time.Second/fps, func(t time.Time) tea.Msg { return TickMsg(t) })
	}
	return m, nil
}

func (m *Model) step(dt float64) {
	elapsed := m.clk.Elapsed(dt)
	raw := m.curve.At(elapsed)
	m.lastRaw = raw
	sm := m.smoother.Update(raw, dt)

	m.engine.SetPresence(m.users, swarm.DefaultPalette, swarm.FillerColor)
	m.engine.Step(sm, elapsed, dt)
	m.engine.StepColors(m.cfg.Damping.Color, dt)

	m.hudLevel, m.hudVel = m.hudSpring.Update(m.hudLevel, m.hudVel, raw.EasedProgress)

	m.history = append(m.history, raw.EasedProgress)
	if len(m.history) > historyCapacity {
		m.history = m.history[1:]
	}

	m.canvas.Clear()
	RenderSphere(m.canvas, m.camera, sm.SphereScale)
	RenderSwarm(m.canvas, m.camera, m.engine.Arena())
}

func (m Model) View() string {
	raw := m.lastRaw
	sm := m.smoother.Peek()
	st := m.engine.Stats()

	var s strings.Builder
	s.WriteString(headerStyle.Render("BREATHE") + "\n")
	s.WriteString(m.clockStatus() + "\n\n")

	phase := raw.Phase.String()
	s.WriteString(labelStyle.Render("Phase") + phaseStyle(phase).Render(strings.ToUpper(phase)) + "\n")
	s.WriteString(labelStyle.Render("Level") + ProgressBar(m.hudLevel, 20) + "\n")
	s.WriteString(labelStyle.Render("Crystal") + ProgressBar(sm.Crystal, 20) + "\n\n")

	s.WriteString(labelStyle.Render("Orbit") + valueStyle.Render(fmt.Sprintf("%.2f", sm.OrbitRadius)) + "\n")
	s.WriteString(labelStyle.Render("Sphere") + valueStyle.Render(fmt.Sprintf("%.2f", sm.SphereScale)) + "\n")
	s.WriteString(labelStyle.Render("Users") + valueStyle.Render(fmt.Sprintf("%d / %d", st.Users, st.Live)) + "\n")
	s.WriteString(labelStyle.Render("Max speed") + valueStyle.Render(fmt.Sprintf("%.2f", st.MaxSpeed)) + "\n")

	if len(m.history) > 1 {
		chart := asciigraph.Plot(m.history, asciigraph.Height(4), asciigraph.Width(30), asciigraph.Caption("breath"))
		s.WriteString(graphStyle.Render(chart) + "\n")
	}

	s.WriteString(helpStyle.Render("SP:Pause 1-4:Jump M:Pin R:Live\n,/.:Speed U/u:Users XYZ:Rotate ?:Help"))

	hud := hudStyle.Render(s.String())
	main := lipgloss.JoinHorizontal(lipgloss.Top, canvasStyle.Render(m.canvas.String()), hud)

	if m.showHelp {
		return helpOverlay + "\n" + main
	}
	return main
}

func (m Model) clockStatus() string {
	switch {
	case m.manualPinned:
		return phaseStyles["hold-in"].Render("MANUAL")
	case m.clk.Paused():
		return phaseStyles["hold-out"].Render("PAUSED")
	case m.clk.Live():
		return phaseStyles["exhale"].Render("LIVE")
	default:
		return phaseStyles["inhale"].Render(fmt.Sprintf("LOCAL x%.2g", m.clk.TimeScale()))
	}
}

const helpOverlay = `
╔══════════════════════════════════════╗
║          KEYBOARD SHORTCUTS          ║
╠══════════════════════════════════════╣
║  Space    - Pause / resume clock     ║
║  1-4      - Jump to phase            ║
║  M        - Pin / unpin phase        ║
║  , .      - Halve / double speed     ║
║  R        - Back to live clock       ║
║  U / u    - Remove / add user        ║
║  X Y Z    - Rotate camera            ║
║  + -      - Zoom                     ║
║  Q        - Quit                     ║
╚══════════════════════════════════════╝`
