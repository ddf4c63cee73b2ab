package analysis

import (
	"math"

	"github.com/san-kum/spacetravel/internal/dynamo"
)

type Kind int

const (
	Elliptic Kind = iota
	Parabolic
	Hyperbolic
)

func (k Kind) String() string {
	switch k {
	case Elliptic:
		return "elliptic"
	case Parabolic:
		return "parabolic"
	default:
		return "hyperbolic"
	}
}

// parabolicTol is the eccentricity band treated as parabolic.
const parabolicTol = 1e-9

// Elements are the planar conic elements of a state around a point mass of
// gravitational parameter mu. Distances are in metres; Apoapsis is +Inf for
// open orbits and SemiMajorAxis is negative for hyperbolas.
type Elements struct {
	Kind          Kind
	Energy        float64
	SemiMajorAxis float64
	Eccentricity  float64
	Periapsis     float64
	Apoapsis      float64
	// Period in seconds, zero for open orbits.
	Period float64
}

func ElementsOf(mu float64, x dynamo.State) Elements {
	px, py := x.Position()
	vx, vy := x.Velocity()
	r := math.Hypot(px, py)
	v2 := vx*vx + vy*vy
	h := px*vy - py*vx

	el := Elements{Energy: 0.5*v2 - mu/r}

	// eccentricity vector: ((v² - mu/r)·r - (r·v)·v) / mu
	rv := px*vx + py*vy
	ex := ((v2-mu/r)*px - rv*vx) / mu
	ey := ((v2-mu/r)*py - rv*vy) / mu
	el.Eccentricity = math.Hypot(ex, ey)

	p := h * h / mu
	el.Periapsis = p / (1 + el.Eccentricity)

	switch {
	case math.Abs(el.Eccentricity-1) < parabolicTol:
		el.Kind = Parabolic
		el.SemiMajorAxis = math.Inf(1)
		el.Apoapsis = math.Inf(1)
	case el.Eccentricity < 1:
		el.Kind = Elliptic
		el.SemiMajorAxis = -mu / (2 * el.Energy)
		el.Apoapsis = el.SemiMajorAxis * (1 + el.Eccentricity)
		el.Period = 2 * math.Pi * math.Sqrt(math.Pow(el.SemiMajorAxis, 3)/mu)
	default:
		el.Kind = Hyperbolic
		el.SemiMajorAxis = -mu / (2 * el.Energy)
		el.Apoapsis = math.Inf(1)
	}
	return el
}

// Approach is the closest and farthest sampled distance and when they occur.
type Approach struct {
	Min, Max         float64
	MinTime, MaxTime float64
}

func Summarize(traj *dynamo.Trajectory) Approach {
	var a Approach
	for i, x := range traj.States {
		r := x.Radius()
		if i == 0 || r < a.Min {
			a.Min, a.MinTime = r, traj.Times[i]
		}
		if i == 0 || r > a.Max {
			a.Max, a.MaxTime = r, traj.Times[i]
		}
	}
	return a
}
