package scene

import (
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"time"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/san-kum/spacetravel/internal/config"
	"github.com/san-kum/spacetravel/internal/dynamo"
)

// FrameInterval is the delay between animation frames.
const FrameInterval = 50 * time.Millisecond

// Margin scales the axis limit past the farthest sample.
const Margin = 1.1

const (
	EarthIcon      = "earth_icon.png"
	SpacecraftIcon = "satellite_icon.png"

	XLabel = "X Distance (km)"
	YLabel = "Y Distance (km)"
)

var ErrMissingAsset = errors.New("missing asset")

type Icon struct {
	File  string
	Label string
	Pos   r2.Vec
	Zoom  float64
}

type Scene struct {
	Title  string
	XLabel string
	YLabel string
	// Limit is the half-width of both axes in km.
	Limit float64

	Points []r2.Vec
	Times  []float64

	Earth       Icon
	Destination Icon
	Spacecraft  Icon
}

type Frame struct {
	Index    int
	Time     float64
	Trail    []r2.Vec
	Position r2.Vec
	// Distance from the origin in km.
	Distance float64
}

func New(traj *dynamo.Trajectory, dest config.Destination) (*Scene, error) {
	if traj == nil || traj.Len() == 0 {
		return nil, errors.New("scene: empty trajectory")
	}

	s := &Scene{
		Title:  "Orbit Simulation - Destination: " + dest.Name,
		XLabel: XLabel,
		YLabel: YLabel,
		Points: make([]r2.Vec, traj.Len()),
		Times:  traj.Times,
		Earth: Icon{
			File:  EarthIcon,
			Label: "Earth",
			Zoom:  0.1,
		},
		Destination: Icon{
			File:  dest.Icon,
			Label: dest.Name,
			Pos:   r2.Vec{X: dest.MarkerX, Y: dest.MarkerY},
			Zoom:  0.05,
		},
		Spacecraft: Icon{
			File:  SpacecraftIcon,
			Label: "Spacecraft",
			Zoom:  0.05,
		},
	}

	maxAbs := 0.0
	for i, x := range traj.States {
		px, py := x.Position()
		p := r2.Vec{X: px / 1000, Y: py / 1000}
		s.Points[i] = p
		maxAbs = math.Max(maxAbs, math.Max(math.Abs(p.X), math.Abs(p.Y)))
	}
	s.Limit = maxAbs * Margin
	if s.Limit == 0 {
		s.Limit = 1
	}

	return s, nil
}

func (s *Scene) Len() int { return len(s.Points) }

// Frame returns frame i, clamped to the valid range.
func (s *Scene) Frame(i int) Frame {
	if i < 0 {
		i = 0
	}
	if i >= len(s.Points) {
		i = len(s.Points) - 1
	}

	p := s.Points[i]
	f := Frame{
		Index:    i,
		Trail:    s.Points[:i+1],
		Position: p,
		Distance: r2.Norm(p),
	}
	if i < len(s.Times) {
		f.Time = s.Times[i]
	}
	return f
}

// FrameAt is the frame shown after elapsed playback time. Each frame is
// shown for FrameInterval and the last frame is held.
func (s *Scene) FrameAt(elapsed time.Duration) int {
	if elapsed < 0 {
		return 0
	}
	i := int(elapsed / FrameInterval)
	if i >= len(s.Points) {
		i = len(s.Points) - 1
	}
	return i
}

func (f Frame) Readout() string {
	return fmt.Sprintf("Frame: %d\nDistance: %.2f km", f.Index, f.Distance)
}

// Project maps a point in km onto a width×height surface whose origin is the
// top-left corner.
func (s *Scene) Project(p r2.Vec, width, height float64) (float64, float64) {
	px := (p.X + s.Limit) / (2 * s.Limit) * width
	py := (s.Limit - p.Y) / (2 * s.Limit) * height
	return px, py
}

// Ticks returns evenly spaced "nice" tick values inside [-Limit, Limit].
func (s *Scene) Ticks(target int) []float64 {
	if target < 1 {
		target = 1
	}
	raw := 2 * s.Limit / float64(target)
	mag := math.Pow(10, math.Floor(math.Log10(raw)))
	step := mag
	for _, m := range []float64{1, 2, 5, 10} {
		step = m * mag
		if step >= raw {
			break
		}
	}

	var ticks []float64
	for v := math.Ceil(-s.Limit/step) * step; v <= s.Limit; v += step {
		ticks = append(ticks, v)
	}
	return ticks
}

// Icons lists the icon files a renderer loads.
func (s *Scene) Icons() []string {
	return []string{s.Earth.File, s.Destination.File, s.Spacecraft.File}
}

// CheckAssets verifies every icon exists in dir.
func CheckAssets(dir string, files ...string) error {
	var missing []string
	for _, f := range files {
		if _, err := os.Stat(filepath.Join(dir, f)); err != nil {
			missing = append(missing, f)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: %v not found in %s", ErrMissingAsset, missing, dir)
	}
	return nil
}
