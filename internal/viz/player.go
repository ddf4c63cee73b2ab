package viz

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/san-kum/spacetravel/internal/dynamo"
	"github.com/san-kum/spacetravel/internal/scene"
)

const (
	canvasWidth  = 60
	canvasHeight = 30
	graphWidth   = 40
)

var (
	statsStyle  = lipgloss.NewStyle().Border(lipgloss.NormalBorder(), false, false, false, true).BorderForeground(lipgloss.Color("240")).Padding(1, 2).Width(50)
	canvasStyle = lipgloss.NewStyle().Padding(1, 2)
)

type TickMsg time.Time

func tick() tea.Cmd {
	return tea.Tick(scene.FrameInterval, func(t time.Time) tea.Msg { return TickMsg(t) })
}

// Player animates a scene in the terminal, one frame per tick. It plays
// every frame once and holds the last one until quit.
type Player struct {
	scene   *scene.Scene
	radii   []float64
	metrics map[string]float64
	steps   int
	frame   int
	canvas  *Canvas
	theme   Theme
	trail   []string
}

func NewPlayer(s *scene.Scene, traj *dynamo.Trajectory) Player {
	radii := make([]float64, s.Len())
	for i, p := range s.Points {
		radii[i] = r2.Norm(p)
	}
	p := Player{
		scene:  s,
		radii:  radii,
		canvas: NewCanvas(canvasWidth, canvasHeight),
		theme:  Themes[0],
	}
	if traj != nil {
		p.metrics = traj.Metrics
		p.steps = traj.StepsTaken
	}
	p.trail = Gradient(p.theme.TrailStart, p.theme.TrailEnd, s.Len())
	return p
}

// WithTheme returns a copy of p drawn in th.
func (p Player) WithTheme(th Theme) Player {
	p.theme = th
	p.trail = Gradient(th.TrailStart, th.TrailEnd, p.scene.Len())
	return p
}

func (p Player) Frame() int { return p.frame }

// Done reports whether the last frame has been reached.
func (p Player) Done() bool { return p.frame >= p.scene.Len()-1 }

func (p Player) Init() tea.Cmd {
	if p.Done() {
		return nil
	}
	return tick()
}

func (p Player) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "esc", "ctrl+c":
			return p, tea.Quit
		case "t":
			p.cycleTheme()
		}
	case TickMsg:
		if p.Done() {
			return p, nil
		}
		p.frame++
		if p.Done() {
			return p, nil
		}
		return p, tick()
	}
	return p, nil
}

func (p *Player) cycleTheme() {
	for i, t := range Themes {
		if t.Name == p.theme.Name {
			p.theme = Themes[(i+1)%len(Themes)]
			break
		}
	}
	p.trail = Gradient(p.theme.TrailStart, p.theme.TrailEnd, p.scene.Len())
}

func (p Player) project(v r2.Vec) (int, int) {
	w, h := p.canvas.PixelSize()
	x, y := p.scene.Project(v, float64(w-1), float64(h-1))
	return int(x + 0.5), int(y + 0.5)
}

func (p Player) draw(f scene.Frame) {
	c := p.canvas
	c.Clear()

	muted := string(p.theme.Muted)
	w, h := c.PixelSize()
	ox, oy := p.project(r2.Vec{})
	for x := 0; x < w; x += 4 {
		c.SetColor(x, oy, muted)
	}
	for y := 0; y < h; y += 4 {
		c.SetColor(ox, y, muted)
	}

	px, py := p.project(f.Trail[0])
	for i, v := range f.Trail[1:] {
		x, y := p.project(v)
		c.DrawLine(px, py, x, y, p.trail[i+1])
		px, py = x, y
	}

	dx, dy := p.project(p.scene.Destination.Pos)
	c.Glyph(ox, oy, '●', "#3399ff")
	c.Glyph(dx, dy, '◉', string(p.theme.Accent))
	c.Glyph(px, py, '✦', string(p.theme.Secondary))
}

func (p Player) View() string {
	f := p.scene.Frame(p.frame)
	p.draw(f)

	var s strings.Builder
	s.WriteString(GradientText(p.scene.Title, p.theme.Primary, p.theme.Secondary) + "\n\n")
	s.WriteString(MetricValue.Render(f.Readout()) + "\n")
	s.WriteString(MetricLabel.Render("Time") + fmt.Sprintf("%.1f h", f.Time/3600) + "\n\n")

	progress := float64(p.frame) / float64(max(p.scene.Len()-1, 1))
	s.WriteString(ProgressBar(progress, 30, p.theme.Primary) + "\n")

	if p.frame > 0 {
		chart := asciigraph.Plot(p.radii[:p.frame+1],
			asciigraph.Height(6), asciigraph.Width(graphWidth), asciigraph.Caption("Distance (km)"))
		s.WriteString(graphStyle.Render(chart) + "\n")
	}

	if len(p.metrics) > 0 {
		keys := make([]string, 0, len(p.metrics))
		for k := range p.metrics {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		s.WriteString("\n")
		for _, k := range keys {
			s.WriteString(MetricLabel.Render(k) + fmt.Sprintf("%.6g", p.metrics[k]) + "\n")
		}
		s.WriteString(MetricLabel.Render("steps") + fmt.Sprintf("%d", p.steps) + "\n")
	}

	s.WriteString("\n" + Separator(40) + "\n")
	s.WriteString(Subtle.Render(p.scene.XLabel+" →  "+p.scene.YLabel+" ↑") + "\n")
	s.WriteString(Subtle.Render(fmt.Sprintf("±%.0f km", p.scene.Limit)) + "\n")
	s.WriteString(legend(p.theme, p.scene.Destination.Label) + "\n\n")
	s.WriteString(Hint("t", "theme", "q", "close"))

	return lipgloss.JoinHorizontal(lipgloss.Top, canvasStyle.Render(p.canvas.String()), statsStyle.Render(s.String()))
}

func legend(t Theme, dest string) string {
	item := func(r, color, label string) string {
		return lipgloss.NewStyle().Foreground(lipgloss.Color(color)).Render(r) + " " + label
	}
	return strings.Join([]string{
		item("●", "#3399ff", "Earth"),
		item("◉", string(t.Accent), dest),
		item("✦", string(t.Secondary), "Spacecraft"),
		item("─", t.TrailEnd, "Trajectory"),
	}, "  ")
}

// Play runs the player full screen and blocks until the user quits.
func Play(ctx context.Context, s *scene.Scene, traj *dynamo.Trajectory, th Theme) error {
	_, err := tea.NewProgram(NewPlayer(s, traj).WithTheme(th), tea.WithAltScreen(), tea.WithContext(ctx)).Run()
	return err
}
