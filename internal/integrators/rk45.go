package integrators

import (
	"context"
	"math"

	"github.com/san-kum/spacetravel/internal/dynamo"
)

// Dormand-Prince coefficients (RK45)
var (
	a2 = 1.0 / 5.0
	a3 = 3.0 / 10.0
	a4 = 4.0 / 5.0
	a5 = 8.0 / 9.0

	b21 = 1.0 / 5.0
	b31 = 3.0 / 40.0
	b32 = 9.0 / 40.0
	b41 = 44.0 / 45.0
	b42 = -56.0 / 15.0
	b43 = 32.0 / 9.0
	b51 = 19372.0 / 6561.0
	b52 = -25360.0 / 2187.0
	b53 = 64448.0 / 6561.0
	b54 = -212.0 / 729.0
	b61 = 9017.0 / 3168.0
	b62 = -355.0 / 33.0
	b63 = 46732.0 / 5247.0
	b64 = 49.0 / 176.0
	b65 = -5103.0 / 18656.0

	c1 = 35.0 / 384.0
	c3 = 500.0 / 1113.0
	c4 = 125.0 / 192.0
	c5 = -2187.0 / 6784.0
	c6 = 11.0 / 84.0

	dc1 = c1 - 5179.0/57600.0
	dc3 = c3 - 7571.0/16695.0
	dc4 = c4 - 393.0/640.0
	dc5 = c5 - -92097.0/339200.0
	dc6 = c6 - 187.0/2100.0
	dc7 = -1.0 / 40.0
)

// Dense output coefficients of the Dormand-Prince pair. Row i weights
// stage k(i+1) in the 4th order interpolant y(t+s·h) = y + h·Σ_j Q_j·s^(j+1).
var denseP = [7][4]float64{
	{1, -8048581381.0 / 2820520608.0, 8663915743.0 / 2820520608.0, -12715105075.0 / 11282082432.0},
	{0, 0, 0, 0},
	{0, 131558114200.0 / 32700410799.0, -68118460800.0 / 10900136933.0, 87487479700.0 / 32700410799.0},
	{0, -1754552775.0 / 470086768.0, 14199869525.0 / 1410260304.0, -10690763975.0 / 1880347072.0},
	{0, 127303824393.0 / 49829197408.0, -318862633887.0 / 49829197408.0, 701980252875.0 / 199316789632.0},
	{0, -282668133.0 / 205662961.0, 2019193451.0 / 616988883.0, -1453857185.0 / 822651844.0},
	{0, 40617522.0 / 29380423.0, -110615467.0 / 29380423.0, 69997945.0 / 29380423.0},
}

const (
	DefaultRTol     = 1e-9
	DefaultATol     = 1e-6
	DefaultMaxSteps = 1_000_000
)

// RK45 is an adaptive Dormand-Prince 5(4) integrator. Integrate samples the
// solution at arbitrary output times through the pair's 4th order dense
// output, so step placement does not depend on the outputs.
type RK45 struct {
	RTol     float64
	ATol     float64
	MaxSteps int

	safety   float64
	minScale float64
	maxScale float64
	steps    int
}

func NewRK45() *RK45 {
	return &RK45{
		RTol:     DefaultRTol,
		ATol:     DefaultATol,
		MaxSteps: DefaultMaxSteps,
		safety:   0.9,
		minScale: 0.2,
		maxScale: 10.0,
	}
}

// Steps reports the accepted steps of the last Integrate call.
func (r *RK45) Steps() int { return r.steps }

// scale is the step factor for an error norm, safety·err^(-1/5) clamped to
// [minScale, maxScale] on both accepted and rejected steps.
func (r *RK45) scale(errRatio float64) float64 {
	if errRatio <= 0 {
		return r.maxScale
	}
	f := r.safety * math.Pow(errRatio, -0.2)
	return math.Max(r.minScale, math.Min(r.maxScale, f))
}

// attempt evaluates one Dormand-Prince step from (t, x) with k1 = f(t, x).
// It returns the 5th order solution, the seven stages (k7 is f at the new
// point) and the RMS error norm scaled by atol + rtol·|x|.
func (r *RK45) attempt(sys dynamo.System, x, k1 dynamo.State, t, dt, rtol, atol float64) (dynamo.State, [7]dynamo.State, float64) {
	n := len(x)

	x2 := make(dynamo.State, n)
	for i := 0; i < n; i++ {
		x2[i] = x[i] + dt*b21*k1[i]
	}
	k2 := sys.Derive(x2, t+a2*dt)

	x3 := make(dynamo.State, n)
	for i := 0; i < n; i++ {
		x3[i] = x[i] + dt*(b31*k1[i]+b32*k2[i])
	}
	k3 := sys.Derive(x3, t+a3*dt)

	x4 := make(dynamo.State, n)
	for i := 0; i < n; i++ {
		x4[i] = x[i] + dt*(b41*k1[i]+b42*k2[i]+b43*k3[i])
	}
	k4 := sys.Derive(x4, t+a4*dt)

	x5 := make(dynamo.State, n)
	for i := 0; i < n; i++ {
		x5[i] = x[i] + dt*(b51*k1[i]+b52*k2[i]+b53*k3[i]+b54*k4[i])
	}
	k5 := sys.Derive(x5, t+a5*dt)

	x6 := make(dynamo.State, n)
	for i := 0; i < n; i++ {
		x6[i] = x[i] + dt*(b61*k1[i]+b62*k2[i]+b63*k3[i]+b64*k4[i]+b65*k5[i])
	}
	k6 := sys.Derive(x6, t+dt)

	xNew := make(dynamo.State, n)
	for i := 0; i < n; i++ {
		xNew[i] = x[i] + dt*(c1*k1[i]+c3*k3[i]+c4*k4[i]+c5*k5[i]+c6*k6[i])
	}

	k7 := sys.Derive(xNew, t+dt)

	sum := 0.0
	for i := 0; i < n; i++ {
		errEst := dt * (dc1*k1[i] + dc3*k3[i] + dc4*k4[i] + dc5*k5[i] + dc6*k6[i] + dc7*k7[i])
		sc := atol + rtol*math.Max(math.Abs(x[i]), math.Abs(xNew[i]))
		e := errEst / sc
		sum += e * e
	}

	return xNew, [7]dynamo.State{k1, k2, k3, k4, k5, k6, k7}, math.Sqrt(sum / float64(n))
}

// Integrate propagates x0 from ts[0] through every output time in ts.
func (r *RK45) Integrate(ctx context.Context, sys dynamo.System, x0 dynamo.State, ts []float64) ([]dynamo.State, error) {
	if err := checkInputs(sys, x0, ts); err != nil {
		return nil, err
	}
	r.steps = 0

	out := make([]dynamo.State, len(ts))
	out[0] = x0.Clone()
	if len(ts) == 1 {
		return out, nil
	}

	t, tEnd := ts[0], ts[len(ts)-1]
	x := x0.Clone()
	f := sys.Derive(x, t)
	h := r.initialStep(sys, x, f, t, tEnd-t)
	rejected := false
	next := 1

	for next < len(ts) {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		if r.steps >= r.MaxSteps {
			return nil, &dynamo.SimulationError{Step: r.steps, Time: t, State: x, Wrapped: dynamo.ErrTooManySteps}
		}

		last := false
		if t+h >= tEnd {
			h = tEnd - t
			last = true
		}
		if !last && h < minStep(t) {
			return nil, &dynamo.SimulationError{Step: r.steps, Time: t, State: x, Wrapped: dynamo.ErrStepTooSmall}
		}

		xNew, k, errNorm := r.attempt(sys, x, f, t, h, r.RTol, r.ATol)
		if math.IsNaN(errNorm) || !xNew.IsValid() {
			return nil, &dynamo.SimulationError{Step: r.steps, Time: t, State: x, Wrapped: dynamo.ErrInvalidState}
		}

		if errNorm > 1 {
			h *= r.scale(errNorm)
			rejected = true
			continue
		}

		tNew := t + h
		if last {
			tNew = tEnd
		}
		for next < len(ts) && ts[next] <= tNew {
			if ts[next] == tNew {
				out[next] = xNew.Clone()
			} else {
				out[next] = dense(x, k, t, h, ts[next])
			}
			next++
		}

		t, x, f = tNew, xNew, k[6]
		r.steps++

		factor := r.scale(errNorm)
		if rejected {
			factor = math.Min(1, factor)
		}
		rejected = false
		h *= factor
	}

	return out, nil
}

// initialStep follows Hairer, Nørsett & Wanner (II.4) for a 4th order
// error estimator.
func (r *RK45) initialStep(sys dynamo.System, x, f dynamo.State, t, span float64) float64 {
	n := len(x)
	d0, d1 := 0.0, 0.0
	for i := 0; i < n; i++ {
		sc := r.ATol + r.RTol*math.Abs(x[i])
		d0 += (x[i] / sc) * (x[i] / sc)
		d1 += (f[i] / sc) * (f[i] / sc)
	}
	d0 = math.Sqrt(d0 / float64(n))
	d1 = math.Sqrt(d1 / float64(n))

	h0 := 1e-6
	if d0 >= 1e-5 && d1 >= 1e-5 {
		h0 = 0.01 * d0 / d1
	}
	h0 = math.Min(h0, span)

	x1 := make(dynamo.State, n)
	for i := 0; i < n; i++ {
		x1[i] = x[i] + h0*f[i]
	}
	f1 := sys.Derive(x1, t+h0)

	d2 := 0.0
	for i := 0; i < n; i++ {
		sc := r.ATol + r.RTol*math.Abs(x[i])
		d := (f1[i] - f[i]) / sc
		d2 += d * d
	}
	d2 = math.Sqrt(d2/float64(n)) / h0

	var h1 float64
	if d1 <= 1e-15 && d2 <= 1e-15 {
		h1 = math.Max(1e-6, h0*1e-3)
	} else {
		h1 = math.Pow(0.01/math.Max(d1, d2), 1.0/5.0)
	}

	return math.Min(math.Min(100*h0, h1), span)
}

// dense evaluates the interpolant of the step (t, x) -> (t+h) at tq.
func dense(x dynamo.State, k [7]dynamo.State, t, h, tq float64) dynamo.State {
	s := (tq - t) / h

	out := make(dynamo.State, len(x))
	for i := range x {
		var q [4]float64
		for stage := 0; stage < 7; stage++ {
			for j := 0; j < 4; j++ {
				q[j] += k[stage][i] * denseP[stage][j]
			}
		}
		out[i] = x[i] + h*s*(q[0]+s*(q[1]+s*(q[2]+s*q[3])))
	}
	return out
}

func minStep(t float64) float64 {
	return 10 * (math.Nextafter(t, math.Inf(1)) - t)
}
