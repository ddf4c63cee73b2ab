// Package physics provides the gravity model for orbit propagation.
//
// [TwoBody] implements [dynamo.System] for a spacecraft moving in the
// inverse-square field of a single attractor fixed at the origin. It also
// implements [dynamo.Hamiltonian] and [dynamo.AngularMomentum] so that
// conserved quantities can be monitored:
//
//	sys := physics.NewTwoBody()
//	energy := sys.Energy(state)
package physics
