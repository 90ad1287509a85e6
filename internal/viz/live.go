package viz

import (
	"fmt"
	"math"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"

	"github.com/san-kum/netdyn/internal/dynamo"
	"github.com/san-kum/netdyn/internal/network"
)

const (
	canvasWidth   = 40
	canvasHeight  = 16
	historyWindow = 200
	trailLength   = 300
	frameRate     = 30
)

type TickMsg time.Time

// LiveConfig describes what the live view integrates.
type LiveConfig struct {
	Title      string
	Law        network.Law
	System     dynamo.System
	Integrator dynamo.Integrator
	Initial    dynamo.State
	Start      float64
	Stop       float64
	Dt         float64
	// StepsPerTick integrator steps run per frame; default 10.
	StepsPerTick int
	// MaxNodes limits the plotted nodes; default 6.
	MaxNodes int
}

// Live is a Bubble Tea model that steps the system on every frame.
type Live struct {
	cfg      LiveConfig
	state    dynamo.State
	t        float64
	running  bool
	showHelp bool
	theme    Theme
	canvas   *Canvas
	history  [][]float64
	trail    [][2]float64
}

func NewLive(cfg LiveConfig) Live {
	if cfg.StepsPerTick <= 0 {
		cfg.StepsPerTick = 10
	}
	if cfg.MaxNodes <= 0 {
		cfg.MaxNodes = 6
	}
	l := Live{
		cfg:     cfg,
		running: true,
		theme:   ThemeOcean,
		canvas:  NewCanvas(canvasWidth, canvasHeight),
	}
	l.reset()
	return l
}

func tick() tea.Cmd {
	return tea.Tick(time.Second/frameRate, func(t time.Time) tea.Msg { return TickMsg(t) })
}

func (l Live) Init() tea.Cmd { return tick() }

func (l Live) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return l, tea.Quit
		case " ":
			l.running = !l.running
		case "r":
			l.reset()
		case "t":
			l.theme = NextTheme(l.theme)
		case "?":
			l.showHelp = !l.showHelp
		}
	case TickMsg:
		if l.running {
			for i := 0; i < l.cfg.StepsPerTick && !l.Done(); i++ {
				l.step()
			}
		}
		return l, tick()
	}
	return l, nil
}

// Done reports whether the stop time has been reached.
func (l Live) Done() bool { return l.t >= l.cfg.Stop-1e-12 }

func (l Live) Time() float64 { return l.t }

func (l Live) State() dynamo.State { return l.state.Clone() }

func (l *Live) step() {
	dt := math.Min(l.cfg.Dt, l.cfg.Stop-l.t)
	l.state = l.cfg.Integrator.Step(l.cfg.System, l.state, nil, l.t, dt)
	l.t += dt
	l.record()
}

func (l *Live) record() {
	nodes := len(l.history)
	for i := 0; i < nodes; i++ {
		l.history[i] = append(l.history[i], l.plotValue(i))
		if len(l.history[i]) > historyWindow {
			l.history[i] = l.history[i][1:]
		}
	}
	if l.cfg.Law == network.Roessler {
		l.trail = append(l.trail, [2]float64{l.state[0], l.state[1]})
		if len(l.trail) > trailLength {
			l.trail = l.trail[1:]
		}
	}
}

// plotValue wraps kuramoto phases through sin so the plot stays bounded.
func (l *Live) plotValue(i int) float64 {
	v := l.cfg.Law.NodeValue(l.state, i)
	if l.cfg.Law.UsesNodeParameter() {
		return math.Sin(v)
	}
	return v
}

func (l *Live) reset() {
	l.state = l.cfg.Initial.Clone()
	l.t = l.cfg.Start
	l.trail = l.trail[:0]

	nodes := len(l.state)
	if l.cfg.Law == network.Roessler {
		nodes /= 3
	}
	if nodes > l.cfg.MaxNodes {
		nodes = l.cfg.MaxNodes
	}
	l.history = make([][]float64, nodes)
	l.record()
}

func (l Live) View() string {
	header := lipgloss.NewStyle().Foreground(l.theme.Primary).Bold(true).MarginBottom(1)
	label := lipgloss.NewStyle().Foreground(l.theme.Muted).Width(10)
	value := lipgloss.NewStyle().Foreground(l.theme.Secondary)

	status := lipgloss.NewStyle().Foreground(l.theme.Success).Render("RUNNING")
	switch {
	case l.Done():
		status = lipgloss.NewStyle().Foreground(l.theme.Muted).Render("FINISHED")
	case !l.running:
		status = lipgloss.NewStyle().Foreground(l.theme.Warning).Render("PAUSED")
	}

	l.draw()
	canvasView := lipgloss.NewStyle().Padding(1, 2).Render(l.canvas.String())

	var s strings.Builder
	s.WriteString(header.Render(strings.ToUpper(l.cfg.Title)) + "\n")
	s.WriteString(status + "\n\n")

	if len(l.history) > 0 && len(l.history[0]) > 1 {
		legends := make([]string, len(l.history))
		colors := make([]asciigraph.AnsiColor, len(l.history))
		for i := range l.history {
			legends[i] = fmt.Sprintf("Node %d", i+1)
			colors[i] = seriesColors[i%len(seriesColors)]
		}
		chart := asciigraph.PlotMany(l.history,
			asciigraph.Height(8),
			asciigraph.Width(50),
			asciigraph.SeriesColors(colors...),
			asciigraph.SeriesLegends(legends...))
		s.WriteString(chart + "\n\n")
	}

	progress := 0.0
	if span := l.cfg.Stop - l.cfg.Start; span > 0 {
		progress = (l.t - l.cfg.Start) / span
	}
	s.WriteString(label.Render("Time") + value.Render(fmt.Sprintf("%.2f / %.2f", l.t, l.cfg.Stop)) + "\n")
	s.WriteString(label.Render("Progress") + ProgressBar(progress, 30, l.theme) + "\n")
	s.WriteString(label.Render("Nodes") + value.Render(fmt.Sprintf("%d", nodeCount(l.cfg.Law, len(l.state)))) + "\n")
	s.WriteString(label.Render("Theme") + value.Render(l.theme.Name) + "\n")

	help := lipgloss.NewStyle().Foreground(l.theme.Muted).MarginTop(1)
	s.WriteString(help.Render("SP:Pause R:Reset T:Theme ?:Help Q:Quit"))

	main := lipgloss.JoinHorizontal(lipgloss.Top, canvasView, s.String())
	if l.showHelp {
		return helpOverlay + "\n" + main
	}
	return main
}

const helpOverlay = `
  Space  pause or resume
  R      reset to the initial state
  T      cycle colour themes
  ?      toggle this help
  Q      quit
`

func nodeCount(law network.Law, dim int) int {
	if law == network.Roessler {
		return dim / 3
	}
	return dim
}

func (l *Live) draw() {
	l.canvas.Clear()
	switch l.cfg.Law {
	case network.Kuramoto1, network.Kuramoto2:
		l.drawPhases()
	case network.Roessler:
		l.drawRoessler()
	default:
		l.drawBars()
	}
}

// drawPhases places every oscillator on the unit circle.
func (l *Live) drawPhases() {
	cw, ch := l.canvas.Width*2, l.canvas.Height*4
	cx, cy := cw/2, ch/2
	r := int(math.Min(float64(cw), float64(ch))/2) - 3

	l.canvas.DrawCircle(cx, cy, r)
	for i := 0; i < len(l.state); i++ {
		th := l.state[i]
		x := cx + int(math.Round(float64(r)*math.Cos(th)))
		y := cy - int(math.Round(float64(r)*math.Sin(th)))
		l.canvas.Dot(x, y)
	}
}

// drawBars draws one bar per node scaled to the largest magnitude.
func (l *Live) drawBars() {
	cw, ch := l.canvas.Width*2, l.canvas.Height*4
	n := len(l.state)
	if n == 0 {
		return
	}
	peak := 0.0
	for _, v := range l.state {
		peak = math.Max(peak, math.Abs(v))
	}
	if peak == 0 {
		peak = 1
	}

	slot := cw / n
	if slot < 2 {
		slot = 2
	}
	base := ch - 1
	for i, v := range l.state {
		h := int(math.Abs(v) / peak * float64(ch-2))
		x := i * slot
		for w := 0; w < slot-1; w++ {
			l.canvas.DrawLine(x+w, base, x+w, base-h)
		}
	}
}

// drawRoessler shows the (x, y) projection of every node plus a trail for
// the first one.
func (l *Live) drawRoessler() {
	cw, ch := l.canvas.Width*2, l.canvas.Height*4
	cx, cy := cw/2, ch/2

	scale := 1.0
	for _, p := range l.trail {
		scale = math.Max(scale, math.Max(math.Abs(p[0]), math.Abs(p[1])))
	}
	n := nodeCount(network.Roessler, len(l.state))
	for i := 0; i < n; i++ {
		scale = math.Max(scale, math.Max(math.Abs(l.state[3*i]), math.Abs(l.state[3*i+1])))
	}
	k := (math.Min(float64(cw), float64(ch))/2 - 2) / scale

	project := func(x, y float64) (int, int) {
		return cx + int(x*k), cy - int(y*k)
	}
	for i := 1; i < len(l.trail); i++ {
		x0, y0 := project(l.trail[i-1][0], l.trail[i-1][1])
		x1, y1 := project(l.trail[i][0], l.trail[i][1])
		l.canvas.DrawLine(x0, y0, x1, y1)
	}
	for i := 0; i < n; i++ {
		x, y := project(l.state[3*i], l.state[3*i+1])
		l.canvas.Dot(x, y)
	}
}

// RunLive runs the live view in the alternate screen until the user quits.
func RunLive(cfg LiveConfig) error {
	_, err := tea.NewProgram(NewLive(cfg), tea.WithAltScreen()).Run()
	return err
}
