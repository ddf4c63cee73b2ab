package integrators

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/san-kum/spacetravel/internal/dynamo"
	"github.com/san-kum/spacetravel/internal/physics"
)

type harmonicOscillator struct{}

func (h *harmonicOscillator) StateDim() int { return 2 }

func (h *harmonicOscillator) Derive(x dynamo.State, t float64) dynamo.State {
	return dynamo.State{x[1], -x[0]}
}

func (h *harmonicOscillator) Energy(x dynamo.State) float64 {
	return 0.5 * (x[0]*x[0] + x[1]*x[1])
}

func TestRK45_EnergyConservation(t *testing.T) {
	dyn := &harmonicOscillator{}
	x0 := dynamo.State{1.0, 0.0}

	integrator := NewRK45()
	integrator.RTol, integrator.ATol = 1e-10, 1e-10

	states, err := integrator.Integrate(context.Background(), dyn, x0, []float64{0, 50})
	if err != nil {
		t.Fatalf("integrate failed: %v", err)
	}

	initialEnergy := dyn.Energy(x0)
	drift := math.Abs(dyn.Energy(states[1])-initialEnergy) / initialEnergy
	if drift > 1e-6 {
		t.Errorf("RK45 energy drift too high: %e", drift)
	}
}

func TestRK45_Scale(t *testing.T) {
	r := NewRK45()

	tests := []struct {
		name     string
		errRatio float64
		expected float64
	}{
		{"zero error", 0, 10},
		{"tiny error clamps high", 1e-9, 10},
		{"accepted", 0.5, 0.9 * math.Pow(0.5, -0.2)},
		{"rejected", 4, 0.9 * math.Pow(4, -0.2)},
		{"rejected same exponent at 32", 32, 0.45},
		{"large error clamps low", 1e6, 0.2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := r.scale(tt.errRatio); math.Abs(got-tt.expected) > 1e-12 {
				t.Errorf("expected %v, got %v", tt.expected, got)
			}
		})
	}
}

func TestRK45_DenseOutput(t *testing.T) {
	integrator := NewRK45()
	integrator.RTol, integrator.ATol = 1e-10, 1e-10
	dyn := &harmonicOscillator{}

	ts := make([]float64, 101)
	for i := range ts {
		ts[i] = float64(i) * 0.1
	}

	states, err := integrator.Integrate(context.Background(), dyn, dynamo.State{1.0, 0.0}, ts)
	if err != nil {
		t.Fatalf("integrate failed: %v", err)
	}
	if len(states) != len(ts) {
		t.Fatalf("expected %d states, got %d", len(ts), len(states))
	}

	for i, tt := range ts {
		if math.Abs(states[i][0]-math.Cos(tt)) > 1e-5 {
			t.Errorf("t=%.1f: x=%.8f, expected %.8f", tt, states[i][0], math.Cos(tt))
		}
		if math.Abs(states[i][1]+math.Sin(tt)) > 1e-5 {
			t.Errorf("t=%.1f: v=%.8f, expected %.8f", tt, states[i][1], -math.Sin(tt))
		}
	}

	if integrator.Steps() == 0 {
		t.Error("expected accepted steps to be recorded")
	}
}

func TestRK45_CircularOrbitRadius(t *testing.T) {
	sys := physics.NewTwoBody()
	r0 := 7000e3
	period := sys.Period(r0)

	ts := make([]float64, 1000)
	for i := range ts {
		ts[i] = period * float64(i) / float64(len(ts)-1)
	}

	states, err := NewRK45().Integrate(context.Background(), sys, sys.CircularState(r0), ts)
	if err != nil {
		t.Fatalf("integrate failed: %v", err)
	}

	for i, s := range states {
		if dev := math.Abs(s.Radius()-r0) / r0; dev > 0.01 {
			t.Fatalf("sample %d: radius deviates %.4f%% from initial", i, dev*100)
		}
	}

	last := states[len(states)-1]
	if d := math.Hypot(last[0]-r0, last[1]); d > 1e3 {
		t.Errorf("orbit did not close after one period: miss distance %.1f m", d)
	}
}

func TestRK45_InvalidInputs(t *testing.T) {
	integrator := NewRK45()
	dyn := &harmonicOscillator{}
	ctx := context.Background()

	tests := []struct {
		name string
		x0   dynamo.State
		ts   []float64
		want error
	}{
		{"no output times", dynamo.State{1, 0}, nil, dynamo.ErrOutputOrder},
		{"decreasing times", dynamo.State{1, 0}, []float64{0, 2, 1}, dynamo.ErrOutputOrder},
		{"repeated times", dynamo.State{1, 0}, []float64{0, 1, 1}, dynamo.ErrOutputOrder},
		{"wrong dimension", dynamo.State{1, 0, 0}, []float64{0, 1}, dynamo.ErrDimensionMismatch},
		{"nan state", dynamo.State{math.NaN(), 0}, []float64{0, 1}, dynamo.ErrInvalidState},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := integrator.Integrate(ctx, dyn, tt.x0, tt.ts)
			if !errors.Is(err, tt.want) {
				t.Errorf("expected %v, got %v", tt.want, err)
			}
		})
	}
}

func TestRK45_Canceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewRK45().Integrate(ctx, &harmonicOscillator{}, dynamo.State{1, 0}, []float64{0, 10})
	if !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}

func TestNew(t *testing.T) {
	for _, name := range Names() {
		p, err := New(name, Options{})
		if err != nil {
			t.Errorf("%s: unexpected error %v", name, err)
		}
		if p == nil {
			t.Errorf("%s: nil propagator", name)
		}
	}

	if _, err := New("euler", Options{}); err == nil {
		t.Error("expected error for unknown integrator")
	}

	p, _ := New("rk45", Options{RTol: 1e-6, ATol: 1e-3})
	if rk, ok := p.(*RK45); !ok || rk.RTol != 1e-6 || rk.ATol != 1e-3 {
		t.Errorf("rk45 options not applied: %+v", p)
	}

	p, _ = New("rk4", Options{MaxDt: 2.5})
	if f, ok := p.(*Fixed); !ok || f.MaxDt != 2.5 {
		t.Errorf("rk4 max dt not applied: %+v", p)
	}
}
