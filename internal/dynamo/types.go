package dynamo

import (
	"context"
	"math"
)

// State layout for planar orbits.
const (
	IdxX = iota
	IdxY
	IdxVX
	IdxVY

	OrbitDim
)

type State []float64

func (s State) Clone() State {
	c := make(State, len(s))
	copy(c, s)
	return c
}

func (s State) IsValid() bool {
	for _, v := range s {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

// Position returns the (x, y) pair of an orbit state.
func (s State) Position() (x, y float64) { return s[IdxX], s[IdxY] }

// Velocity returns the (vx, vy) pair of an orbit state.
func (s State) Velocity() (vx, vy float64) { return s[IdxVX], s[IdxVY] }

// Radius is the distance from the origin in the state's length unit.
func (s State) Radius() float64 { return math.Hypot(s[IdxX], s[IdxY]) }

type System interface {
	Derive(x State, t float64) State
	StateDim() int
}

type Hamiltonian interface {
	Energy(x State) float64
}

type AngularMomentum interface {
	AngularMomentum(x State) float64
}

type Integrator interface {
	Step(sys System, x State, t float64, dt float64) State
}

// Propagator produces one state per requested output time. ts[0] is the
// epoch of x0 and ts must be strictly increasing.
type Propagator interface {
	Integrate(ctx context.Context, sys System, x0 State, ts []float64) ([]State, error)
}

type Metric interface {
	Name() string
	Observe(x State, t float64)
	Value() float64
	Reset()
}

// Trajectory is the sampled output of a single run.
type Trajectory struct {
	Times      []float64
	States     []State
	Metrics    map[string]float64
	StepsTaken int
}

func (tr *Trajectory) Len() int { return len(tr.States) }

// Duration is the time span covered by the samples.
func (tr *Trajectory) Duration() float64 {
	if len(tr.Times) == 0 {
		return 0
	}
	return tr.Times[len(tr.Times)-1] - tr.Times[0]
}

// StepCounter is implemented by propagators that report accepted steps.
type StepCounter interface {
	Steps() int
}
