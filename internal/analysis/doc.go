// Package analysis characterizes sampled orbits.
//
//   - [ElementsOf]: conic elements of a single two-body state
//   - [Summarize]: closest and farthest approach of a trajectory
//
// A trajectory is bound when its specific energy is negative:
//
//	el := analysis.ElementsOf(mu, x)
//	if el.Kind == analysis.Elliptic {
//	    // periodic orbit with finite apoapsis
//	}
package analysis
