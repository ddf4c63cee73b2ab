package physics

import (
	"math"

	"github.com/san-kum/spacetravel/internal/dynamo"
)

const (
	// G is the gravitational constant in m³/kg/s².
	G = 6.67430e-11
	// EarthMass in kg.
	EarthMass = 5.972e24
	// EarthRadius in m.
	EarthRadius = 6371e3
)

// TwoBody is a point mass orbiting a fixed attractor at the origin.
// State layout is (x, y, vx, vy).
type TwoBody struct {
	G    float64
	Mass float64
}

// NewTwoBody returns the Earth-centred model.
func NewTwoBody() *TwoBody {
	return &TwoBody{
		G:    G,
		Mass: EarthMass,
	}
}

func (b *TwoBody) StateDim() int { return dynamo.OrbitDim }

// Mu is the standard gravitational parameter G·M.
func (b *TwoBody) Mu() float64 { return b.G * b.Mass }

func (b *TwoBody) Derive(x dynamo.State, t float64) dynamo.State {
	px, py := x[dynamo.IdxX], x[dynamo.IdxY]
	r := math.Sqrt(px*px + py*py)
	k := -b.Mu() / (r * r * r)

	return dynamo.State{
		x[dynamo.IdxVX],
		x[dynamo.IdxVY],
		k * px,
		k * py,
	}
}

// Energy is the specific orbital energy v²/2 - μ/r in J/kg.
func (b *TwoBody) Energy(x dynamo.State) float64 {
	vx, vy := x.Velocity()
	return 0.5*(vx*vx+vy*vy) - b.Mu()/x.Radius()
}

// AngularMomentum is the specific angular momentum x·vy - y·vx in m²/s.
func (b *TwoBody) AngularMomentum(x dynamo.State) float64 {
	px, py := x.Position()
	vx, vy := x.Velocity()
	return px*vy - py*vx
}

// CircularVelocity is the speed of a circular orbit of radius r.
func (b *TwoBody) CircularVelocity(r float64) float64 {
	return math.Sqrt(b.Mu() / r)
}

// Period of a circular orbit of radius r, in seconds.
func (b *TwoBody) Period(r float64) float64 {
	return 2 * math.Pi * math.Sqrt(r*r*r/b.Mu())
}

// CircularState places the body at (r, 0) moving counter-clockwise.
func (b *TwoBody) CircularState(r float64) dynamo.State {
	return dynamo.State{r, 0, 0, b.CircularVelocity(r)}
}
