package integrators

import (
	"fmt"
	"sort"

	"github.com/san-kum/spacetravel/internal/dynamo"
)

// Options tune the propagators built by New. RTol and ATol apply to rk45,
// MaxDt to the fixed-step schemes.
type Options struct {
	RTol  float64
	ATol  float64
	MaxDt float64
}

var registry = map[string]func(Options) dynamo.Propagator{
	"rk45": func(o Options) dynamo.Propagator {
		r := NewRK45()
		if o.RTol > 0 {
			r.RTol = o.RTol
		}
		if o.ATol > 0 {
			r.ATol = o.ATol
		}
		return r
	},
	"rk4":      func(o Options) dynamo.Propagator { return NewFixed(NewRK4(), o.MaxDt) },
	"verlet":   func(o Options) dynamo.Propagator { return NewFixed(NewVerlet(), o.MaxDt) },
	"leapfrog": func(o Options) dynamo.Propagator { return NewFixed(NewLeapfrog(), o.MaxDt) },
}

// New builds the named propagator.
func New(name string, opts Options) (dynamo.Propagator, error) {
	fn, ok := registry[name]
	if !ok {
		return nil, fmt.Errorf("unknown integrator: %s (available: %v)", name, Names())
	}
	return fn(opts), nil
}

func Names() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
