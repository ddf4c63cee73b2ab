package sim

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/san-kum/spacetravel/internal/dynamo"
	"github.com/san-kum/spacetravel/internal/integrators"
	"github.com/san-kum/spacetravel/internal/physics"
)

type testSystem struct{}

func (t *testSystem) Derive(x dynamo.State, time float64) dynamo.State {
	return dynamo.State{-x[0]}
}

func (t *testSystem) StateDim() int { return 1 }

// testPropagator records the requested times and returns x0 at each.
type testPropagator struct {
	calls int
	ts    []float64
	err   error
}

func (p *testPropagator) Integrate(ctx context.Context, sys dynamo.System, x0 dynamo.State, ts []float64) ([]dynamo.State, error) {
	p.calls++
	p.ts = ts
	if p.err != nil {
		return nil, p.err
	}
	out := make([]dynamo.State, len(ts))
	for i := range ts {
		out[i] = x0.Clone()
	}
	return out, nil
}

func (p *testPropagator) Steps() int { return 42 }

func TestSimulatorRun(t *testing.T) {
	prop := &testPropagator{}
	sim := New(&testSystem{}, prop)

	traj, err := sim.Run(context.Background(), dynamo.State{1.0}, Config{Duration: 259200})
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}

	if traj.Len() != SampleCount {
		t.Fatalf("expected %d samples, got %d", SampleCount, traj.Len())
	}
	if len(traj.Times) != len(traj.States) {
		t.Errorf("times and states differ in length: %d vs %d", len(traj.Times), len(traj.States))
	}
	if traj.Times[0] != 0 {
		t.Errorf("first sample at %v, expected 0", traj.Times[0])
	}
	if traj.Times[SampleCount-1] != 259200 {
		t.Errorf("last sample at %v, expected 259200", traj.Times[SampleCount-1])
	}
	for i := 1; i < len(traj.Times); i++ {
		if !(traj.Times[i] > traj.Times[i-1]) {
			t.Fatalf("times not strictly increasing at %d", i)
		}
	}
	if traj.StepsTaken != 42 {
		t.Errorf("expected step count from propagator, got %d", traj.StepsTaken)
	}
}

func TestTimes(t *testing.T) {
	ts := Times(1, 1000)
	step := 1.0 / 999
	for i, v := range ts {
		if math.Abs(v-float64(i)*step) > 1e-12 {
			t.Fatalf("sample %d at %v, expected %v", i, v, float64(i)*step)
		}
	}

	if got := Times(10, 1); len(got) != 1 || got[0] != 0 {
		t.Errorf("single sample grid should be [0], got %v", got)
	}
}

func TestSimulatorInvalidConfig(t *testing.T) {
	tests := []struct {
		name string
		cfg  Config
	}{
		{"zero duration", Config{Duration: 0}},
		{"negative duration", Config{Duration: -5}},
		{"NaN duration", Config{Duration: math.NaN()}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			prop := &testPropagator{}
			sim := New(&testSystem{}, prop)

			_, err := sim.Run(context.Background(), dynamo.State{1.0}, tt.cfg)
			if !errors.Is(err, dynamo.ErrInvalidDuration) {
				t.Errorf("expected ErrInvalidDuration, got %v", err)
			}
			if prop.calls != 0 {
				t.Error("propagator should not run on invalid config")
			}
		})
	}
}

func TestSimulatorDimensionMismatch(t *testing.T) {
	sim := New(&testSystem{}, &testPropagator{})
	_, err := sim.Run(context.Background(), dynamo.State{1, 2}, Config{Duration: 1})
	if !errors.Is(err, dynamo.ErrDimensionMismatch) {
		t.Errorf("expected ErrDimensionMismatch, got %v", err)
	}
}

func TestSimulatorPropagatorError(t *testing.T) {
	want := &dynamo.SimulationError{Step: 3, Time: 1.5, Wrapped: dynamo.ErrInvalidState}
	sim := New(&testSystem{}, &testPropagator{err: want})

	traj, err := sim.Run(context.Background(), dynamo.State{1.0}, Config{Duration: 10})
	if traj != nil {
		t.Error("expected no trajectory on failure")
	}
	if !errors.Is(err, dynamo.ErrInvalidState) {
		t.Errorf("expected wrapped ErrInvalidState, got %v", err)
	}
}

type testMetric struct {
	count int
	sum   float64
}

func (t *testMetric) Name() string { return "test" }
func (t *testMetric) Observe(x dynamo.State, time float64) {
	t.count++
	t.sum += x[0]
}
func (t *testMetric) Value() float64 {
	if t.count == 0 {
		return 0
	}
	return t.sum / float64(t.count)
}
func (t *testMetric) Reset() {
	t.count = 0
	t.sum = 0
}

func TestSimulatorMetrics(t *testing.T) {
	sim := New(&testSystem{}, &testPropagator{})

	metric := &testMetric{}
	sim.AddMetric(metric)

	traj, err := sim.Run(context.Background(), dynamo.State{2.0}, Config{Duration: 1.0, Samples: 10})
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}

	if v, ok := traj.Metrics["test"]; !ok || v != 2.0 {
		t.Errorf("metric missing or wrong: %v", traj.Metrics)
	}
	if metric.count != 10 {
		t.Errorf("expected 10 observations, got %d", metric.count)
	}

	if _, err := sim.Run(context.Background(), dynamo.State{2.0}, Config{Duration: 1.0, Samples: 10}); err != nil {
		t.Fatal(err)
	}
	if metric.count != 10 {
		t.Errorf("metric not reset between runs: %d observations", metric.count)
	}
}

func TestSimulatorMoonTransfer(t *testing.T) {
	sys := physics.NewTwoBody()
	sim := New(sys, integrators.NewRK45())

	x0 := dynamo.State{390771000, 0, 0, 1022}
	traj, err := sim.Run(context.Background(), x0, Config{Duration: 259200})
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}

	if traj.Len() != SampleCount {
		t.Fatalf("expected %d states, got %d", SampleCount, traj.Len())
	}
	for i, v := range x0 {
		if traj.States[0][i] != v {
			t.Errorf("first sample component %d = %v, expected %v", i, traj.States[0][i], v)
		}
	}
	for i, x := range traj.States {
		if !x.IsValid() {
			t.Fatalf("invalid state at sample %d", i)
		}
	}

	e0 := sys.Energy(traj.States[0])
	e1 := sys.Energy(traj.States[SampleCount-1])
	if math.Abs((e1-e0)/e0) > 1e-6 {
		t.Errorf("energy drift too large: %e", math.Abs((e1-e0)/e0))
	}
}
