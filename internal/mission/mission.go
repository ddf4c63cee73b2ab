package mission

import (
	"context"
	"fmt"
	"time"

	"github.com/go-kit/kit/log"
	"github.com/go-kit/kit/log/level"

	"github.com/san-kum/spacetravel/internal/config"
	"github.com/san-kum/spacetravel/internal/dynamo"
	"github.com/san-kum/spacetravel/internal/metrics"
	"github.com/san-kum/spacetravel/internal/physics"
	"github.com/san-kum/spacetravel/internal/scene"
	"github.com/san-kum/spacetravel/internal/sim"
)

// Renderer displays a finished scene and blocks until the display closes.
type Renderer interface {
	Render(ctx context.Context, s *scene.Scene, traj *dynamo.Trajectory) error
}

type RendererFunc func(ctx context.Context, s *scene.Scene, traj *dynamo.Trajectory) error

func (f RendererFunc) Render(ctx context.Context, s *scene.Scene, traj *dynamo.Trajectory) error {
	return f(ctx, s, traj)
}

type Result struct {
	Destination config.Destination
	Scene       *scene.Scene
	Trajectory  *dynamo.Trajectory
}

// Mission runs the lookup, integrate, render pipeline for one request.
type Mission struct {
	sys      *physics.TwoBody
	prop     dynamo.Propagator
	renderer Renderer
	logger   log.Logger
}

func New(prop dynamo.Propagator, renderer Renderer) *Mission {
	return &Mission{
		sys:      physics.NewTwoBody(),
		prop:     prop,
		renderer: renderer,
		logger:   log.NewNopLogger(),
	}
}

func (m *Mission) SetLogger(logger log.Logger) {
	if logger == nil {
		logger = log.NewNopLogger()
	}
	m.logger = log.With(logger, "component", "mission")
}

// Simulate looks up the destination and integrates its trajectory without
// rendering it.
func (m *Mission) Simulate(ctx context.Context, req Request) (*Result, error) {
	if req.Duration <= 0 {
		return nil, fmt.Errorf("%w: duration must be positive, got %d", ErrInvalidDuration, req.Duration)
	}

	dest, err := config.Lookup(req.Destination)
	if err != nil {
		level.Warn(m.logger).Log("msg", "lookup failed", "destination", req.Destination, "err", err)
		return nil, err
	}

	s := sim.New(m.sys, m.prop)
	s.SetLogger(m.logger)
	for _, metric := range metrics.Standard(m.sys) {
		s.AddMetric(metric)
	}

	start := time.Now()
	traj, err := s.Run(ctx, dynamo.State(dest.State()), sim.Config{Duration: float64(req.Duration)})
	if err != nil {
		return nil, fmt.Errorf("integrating %s trajectory: %w", dest.Name, err)
	}
	level.Info(m.logger).Log("msg", "trajectory ready", "destination", dest.Name,
		"duration", req.Duration, "samples", traj.Len(), "elapsed", time.Since(start))

	sc, err := scene.New(traj, dest)
	if err != nil {
		return nil, err
	}
	return &Result{Destination: dest, Scene: sc, Trajectory: traj}, nil
}

// Run simulates req and hands the result to the renderer. Any failure
// aborts the run.
func (m *Mission) Run(ctx context.Context, req Request) (*Result, error) {
	res, err := m.Simulate(ctx, req)
	if err != nil {
		return nil, err
	}
	if m.renderer == nil {
		return res, nil
	}
	if err := m.renderer.Render(ctx, res.Scene, res.Trajectory); err != nil {
		level.Error(m.logger).Log("msg", "render failed", "err", err)
		return nil, fmt.Errorf("rendering: %w", err)
	}
	return res, nil
}

// Submit parses raw form input and runs it.
func (m *Mission) Submit(ctx context.Context, destination, durationText string) error {
	req, err := ParseRequest(destination, durationText)
	if err != nil {
		level.Warn(m.logger).Log("msg", "rejected input", "err", err)
		return err
	}
	_, err = m.Run(ctx, req)
	return err
}
