package metrics

import (
	"math"

	"github.com/san-kum/spacetravel/internal/dynamo"
)

// Radius tracks the closest or farthest sampled distance from the primary,
// in kilometres.
type Radius struct {
	name    string
	max     bool
	value   float64
	samples int
}

func NewMinRadius() *Radius { return &Radius{name: "min_radius_km"} }

func NewMaxRadius() *Radius { return &Radius{name: "max_radius_km", max: true} }

func (r *Radius) Name() string { return r.name }

func (r *Radius) Observe(x dynamo.State, t float64) {
	d := x.Radius() / 1000
	switch {
	case r.samples == 0:
		r.value = d
	case r.max:
		r.value = math.Max(r.value, d)
	default:
		r.value = math.Min(r.value, d)
	}
	r.samples++
}

func (r *Radius) Value() float64 { return r.value }

func (r *Radius) Reset() {
	r.value = 0
	r.samples = 0
}

// Standard returns the metrics recorded for every orbit run.
func Standard(sys dynamo.System) []dynamo.Metric {
	return []dynamo.Metric{
		NewEnergyDrift(sys),
		NewAngularMomentumDrift(sys),
		NewMinRadius(),
		NewMaxRadius(),
	}
}
