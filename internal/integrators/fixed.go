package integrators

import (
	"context"
	"math"

	"github.com/san-kum/spacetravel/internal/dynamo"
)

// DefaultMaxDt is the largest sub-step a fixed-step scheme takes between
// two output times, in seconds.
const DefaultMaxDt = 10.0

// Fixed drives a fixed-step integrator across output times, splitting each
// gap into equal sub-steps no longer than MaxDt.
type Fixed struct {
	Stepper dynamo.Integrator
	MaxDt   float64
	steps   int
}

func NewFixed(stepper dynamo.Integrator, maxDt float64) *Fixed {
	if maxDt <= 0 {
		maxDt = DefaultMaxDt
	}
	return &Fixed{Stepper: stepper, MaxDt: maxDt}
}

func (f *Fixed) Steps() int { return f.steps }

func (f *Fixed) Integrate(ctx context.Context, sys dynamo.System, x0 dynamo.State, ts []float64) ([]dynamo.State, error) {
	if err := checkInputs(sys, x0, ts); err != nil {
		return nil, err
	}
	f.steps = 0

	out := make([]dynamo.State, len(ts))
	out[0] = x0.Clone()
	x := x0.Clone()

	for i := 1; i < len(ts); i++ {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		gap := ts[i] - ts[i-1]
		n := int(math.Ceil(gap / f.MaxDt))
		if n < 1 {
			n = 1
		}
		dt := gap / float64(n)
		for j := 0; j < n; j++ {
			x = f.Stepper.Step(sys, x, ts[i-1]+float64(j)*dt, dt)
			f.steps++
		}

		if !x.IsValid() {
			return nil, &dynamo.SimulationError{Step: f.steps, Time: ts[i], State: x, Wrapped: dynamo.ErrInvalidState}
		}
		out[i] = x.Clone()
	}

	return out, nil
}

func checkInputs(sys dynamo.System, x0 dynamo.State, ts []float64) error {
	if len(x0) != sys.StateDim() {
		return dynamo.ErrDimensionMismatch
	}
	if len(ts) == 0 {
		return dynamo.ErrOutputOrder
	}
	for i := 1; i < len(ts); i++ {
		if !(ts[i] > ts[i-1]) {
			return dynamo.ErrOutputOrder
		}
	}
	if !x0.IsValid() {
		return dynamo.ErrInvalidState
	}
	return nil
}
