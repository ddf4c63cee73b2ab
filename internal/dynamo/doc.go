// Package dynamo provides the core primitives shared by the orbit pipeline.
//
// The package defines the types every stage agrees on:
//
//   - [State]: (x, y, vx, vy) vector in metres and metres per second
//   - [System]: interface for ODE systems (dX/dt = f(X, t))
//   - [Integrator]: single fixed step of a numerical scheme
//   - [Propagator]: produces states at a list of requested output times
//   - [Trajectory]: the sampled output of one simulation run
//
// # Example
//
//	sys := physics.NewTwoBody()
//	prop := integrators.NewRK45()
//	states, _ := prop.Integrate(ctx, sys, x0, times)
//
// # Thread Safety
//
// Integrators keep scratch buffers and are NOT safe for concurrent use.
// Build one per run.
package dynamo
