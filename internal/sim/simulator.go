package sim

import (
	"context"
	"fmt"

	"github.com/go-kit/kit/log"
	"github.com/go-kit/kit/log/level"
	"gonum.org/v1/gonum/floats"

	"github.com/san-kum/spacetravel/internal/dynamo"
)

type Simulator struct {
	sys     dynamo.System
	prop    dynamo.Propagator
	metrics []dynamo.Metric
	logger  log.Logger
}

func New(sys dynamo.System, prop dynamo.Propagator) *Simulator {
	return &Simulator{
		sys:     sys,
		prop:    prop,
		metrics: make([]dynamo.Metric, 0),
		logger:  log.NewNopLogger(),
	}
}

func (s *Simulator) AddMetric(m dynamo.Metric) { s.metrics = append(s.metrics, m) }

func (s *Simulator) SetLogger(logger log.Logger) {
	if logger == nil {
		logger = log.NewNopLogger()
	}
	s.logger = log.With(logger, "component", "sim")
}

// Times returns n evenly spaced sample times over [0, duration]. The first
// is exactly 0 and the last exactly duration.
func Times(duration float64, n int) []float64 {
	if n == 1 {
		return []float64{0}
	}
	ts := floats.Span(make([]float64, n), 0, duration)
	ts[n-1] = duration
	return ts
}

// Run integrates x0 over [0, cfg.Duration] and samples the solution at
// evenly spaced times.
func (s *Simulator) Run(ctx context.Context, x0 dynamo.State, cfg Config) (*dynamo.Trajectory, error) {
	if err := s.validateConfig(x0, cfg); err != nil {
		return nil, err
	}

	ts := Times(cfg.Duration, cfg.samples())
	level.Debug(s.logger).Log("msg", "integrating", "duration", cfg.Duration, "samples", len(ts))

	states, err := s.prop.Integrate(ctx, s.sys, x0, ts)
	if err != nil {
		level.Error(s.logger).Log("msg", "integration failed", "err", err)
		return nil, err
	}

	traj := &dynamo.Trajectory{
		Times:   ts,
		States:  states,
		Metrics: make(map[string]float64, len(s.metrics)),
	}
	if sc, ok := s.prop.(dynamo.StepCounter); ok {
		traj.StepsTaken = sc.Steps()
	}

	for _, m := range s.metrics {
		m.Reset()
	}
	for i, x := range states {
		for _, m := range s.metrics {
			m.Observe(x, ts[i])
		}
	}
	for _, m := range s.metrics {
		traj.Metrics[m.Name()] = m.Value()
	}

	keyvals := []interface{}{"msg", "integrated", "steps", traj.StepsTaken}
	for _, m := range s.metrics {
		keyvals = append(keyvals, m.Name(), traj.Metrics[m.Name()])
	}
	level.Info(s.logger).Log(keyvals...)

	return traj, nil
}

func (s *Simulator) validateConfig(x0 dynamo.State, cfg Config) error {
	if !(cfg.Duration > 0) {
		return fmt.Errorf("%w: got %g", dynamo.ErrInvalidDuration, cfg.Duration)
	}
	if cfg.Samples < 0 {
		return fmt.Errorf("samples must not be negative, got %d", cfg.Samples)
	}
	if len(x0) != s.sys.StateDim() {
		return fmt.Errorf("%w: state has %d components, system expects %d",
			dynamo.ErrDimensionMismatch, len(x0), s.sys.StateDim())
	}
	return nil
}
