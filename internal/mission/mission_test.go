package mission_test

import (
	"context"
	"errors"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/spacetravel/internal/config"
	"github.com/san-kum/spacetravel/internal/dynamo"
	"github.com/san-kum/spacetravel/internal/integrators"
	"github.com/san-kum/spacetravel/internal/mission"
	"github.com/san-kum/spacetravel/internal/scene"
	"github.com/san-kum/spacetravel/internal/sim"
)

type countingPropagator struct {
	inner dynamo.Propagator
	calls int
}

func (p *countingPropagator) Integrate(ctx context.Context, sys dynamo.System, x0 dynamo.State, ts []float64) ([]dynamo.State, error) {
	p.calls++
	return p.inner.Integrate(ctx, sys, x0, ts)
}

type fakeRenderer struct {
	calls int
	scene *scene.Scene
	err   error
}

func (r *fakeRenderer) Render(ctx context.Context, s *scene.Scene, traj *dynamo.Trajectory) error {
	r.calls++
	r.scene = s
	return r.err
}

var _ = Describe("ParseRequest", func() {
	DescribeTable("rejects bad durations",
		func(text string) {
			_, err := mission.ParseRequest("Moon", text)
			Expect(err).To(MatchError(mission.ErrInvalidDuration))
			Expect(mission.DialogTitle(err)).To(Equal("Input Error"))
		},
		Entry("negative", "-5"),
		Entry("zero", "0"),
		Entry("letters", "abc"),
		Entry("empty", ""),
		Entry("fraction", "1.5"),
	)

	It("accepts a positive integer", func() {
		req, err := mission.ParseRequest("Mars", " 259200 ")
		Expect(err).NotTo(HaveOccurred())
		Expect(req).To(Equal(mission.Request{Destination: "Mars", Duration: 259200}))
	})
})

var _ = Describe("DialogTitle", func() {
	It("reports everything but bad input as a simulation error", func() {
		_, lookupErr := config.Lookup("Pluto")
		Expect(mission.DialogTitle(lookupErr)).To(Equal("Simulation Error"))
		Expect(mission.DialogTitle(errors.New("boom"))).To(Equal("Simulation Error"))
		Expect(mission.DialogTitle(&dynamo.SimulationError{Wrapped: dynamo.ErrInvalidState})).To(Equal("Simulation Error"))
	})
})

var _ = Describe("Mission", func() {
	var (
		prop     *countingPropagator
		renderer *fakeRenderer
		m        *mission.Mission
		ctx      context.Context
	)

	BeforeEach(func() {
		prop = &countingPropagator{inner: integrators.NewRK45()}
		renderer = &fakeRenderer{}
		m = mission.New(prop, renderer)
		ctx = context.Background()
	})

	It("integrates and renders a Moon transfer", func() {
		res, err := m.Run(ctx, mission.Request{Destination: "Moon", Duration: 259200})
		Expect(err).NotTo(HaveOccurred())

		Expect(res.Trajectory.Len()).To(Equal(sim.SampleCount))
		Expect(res.Trajectory.Times[0]).To(Equal(0.0))
		Expect(res.Trajectory.Times[sim.SampleCount-1]).To(Equal(259200.0))
		Expect(res.Trajectory.States[0]).To(Equal(dynamo.State{390771000, 0, 0, 1022}))
		Expect(res.Trajectory.Metrics).To(HaveKey("energy_drift"))

		Expect(renderer.calls).To(Equal(1))
		Expect(renderer.scene.Title).To(Equal("Orbit Simulation - Destination: Moon"))
		Expect(renderer.scene.Frame(0).Distance).To(BeNumerically("~", 390771, 1e-6))
		Expect(renderer.scene.Frame(0).Readout()).To(Equal("Frame: 0\nDistance: 390771.00 km"))
	})

	It("integrates a Mars transfer", func() {
		res, err := m.Run(ctx, mission.Request{Destination: "Mars", Duration: 86400})
		Expect(err).NotTo(HaveOccurred())
		Expect(res.Destination.MarkerX).To(Equal(78e6))
		Expect(res.Trajectory.Len()).To(Equal(sim.SampleCount))
	})

	It("fails an unknown destination before integrating", func() {
		_, err := m.Run(ctx, mission.Request{Destination: "Unknown", Duration: 259200})
		Expect(err).To(MatchError(config.ErrUnknownDestination))
		Expect(err.Error()).To(Equal("unknown destination: Unknown"))
		Expect(prop.calls).To(BeZero())
		Expect(renderer.calls).To(BeZero())
	})

	It("rejects invalid input before lookup", func() {
		err := m.Submit(ctx, "Unknown", "-5")
		Expect(err).To(MatchError(mission.ErrInvalidDuration))
		Expect(prop.calls).To(BeZero())

		_, err = m.Run(ctx, mission.Request{Destination: "Moon", Duration: 0})
		Expect(err).To(MatchError(mission.ErrInvalidDuration))
		Expect(prop.calls).To(BeZero())
	})

	It("surfaces renderer failures", func() {
		renderer.err = scene.ErrMissingAsset
		_, err := m.Run(ctx, mission.Request{Destination: "Moon", Duration: 3600})
		Expect(err).To(MatchError(scene.ErrMissingAsset))
		Expect(mission.DialogTitle(err)).To(Equal("Simulation Error"))
	})

	It("simulates without rendering", func() {
		res, err := m.Simulate(ctx, mission.Request{Destination: "Moon", Duration: 3600})
		Expect(err).NotTo(HaveOccurred())
		Expect(res.Scene).NotTo(BeNil())
		Expect(renderer.calls).To(BeZero())
	})

	It("stops on a cancelled context", func() {
		cancelled, cancel := context.WithCancel(ctx)
		cancel()
		_, err := m.Run(cancelled, mission.Request{Destination: "Moon", Duration: 259200})
		Expect(err).To(MatchError(context.Canceled))
		Expect(renderer.calls).To(BeZero())
	})

	It("submits form input", func() {
		Expect(m.Submit(ctx, "Moon", "3600")).To(Succeed())
		Expect(renderer.calls).To(Equal(1))
	})
})
