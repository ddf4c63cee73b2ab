package metrics

import (
	"math"

	"github.com/san-kum/spacetravel/internal/dynamo"
)

// EnergyDrift is the largest relative deviation of the specific orbital
// energy from its first observed value.
type EnergyDrift struct {
	name          string
	initialEnergy float64
	maxDrift      float64
	samples       int
	sys           dynamo.System
}

func NewEnergyDrift(sys dynamo.System) *EnergyDrift {
	return &EnergyDrift{
		name: "energy_drift",
		sys:  sys,
	}
}

func (e *EnergyDrift) Name() string { return e.name }

func (e *EnergyDrift) Observe(x dynamo.State, t float64) {
	ec, ok := e.sys.(dynamo.Hamiltonian)
	if !ok {
		return
	}

	energy := ec.Energy(x)
	if e.samples == 0 {
		e.initialEnergy = energy
	}
	e.samples++

	e.maxDrift = math.Max(e.maxDrift, relDrift(energy, e.initialEnergy))
}

func (e *EnergyDrift) Value() float64 { return e.maxDrift }

func (e *EnergyDrift) Reset() {
	e.initialEnergy = 0
	e.maxDrift = 0
	e.samples = 0
}

// AngularMomentumDrift is the angular momentum counterpart of EnergyDrift.
type AngularMomentumDrift struct {
	name     string
	initial  float64
	maxDrift float64
	samples  int
	sys      dynamo.System
}

func NewAngularMomentumDrift(sys dynamo.System) *AngularMomentumDrift {
	return &AngularMomentumDrift{
		name: "momentum_drift",
		sys:  sys,
	}
}

func (a *AngularMomentumDrift) Name() string { return a.name }

func (a *AngularMomentumDrift) Observe(x dynamo.State, t float64) {
	am, ok := a.sys.(dynamo.AngularMomentum)
	if !ok {
		return
	}

	h := am.AngularMomentum(x)
	if a.samples == 0 {
		a.initial = h
	}
	a.samples++

	a.maxDrift = math.Max(a.maxDrift, relDrift(h, a.initial))
}

func (a *AngularMomentumDrift) Value() float64 { return a.maxDrift }

func (a *AngularMomentumDrift) Reset() {
	a.initial = 0
	a.maxDrift = 0
	a.samples = 0
}

func relDrift(v, ref float64) float64 {
	if ref == 0 {
		return 0
	}
	return math.Abs(v-ref) / math.Abs(ref)
}
