package config

import (
	"errors"
	"fmt"

	"github.com/san-kum/spacetravel/internal/physics"
)

// ErrUnknownDestination is returned by Lookup for names outside the table.
var ErrUnknownDestination = errors.New("unknown destination")

// Destination is a named preset initial condition. Positions are in metres
// and velocities in m/s; the marker is where the destination icon is drawn,
// in kilometres.
type Destination struct {
	Name    string
	X, Y    float64
	VX, VY  float64
	MarkerX float64
	MarkerY float64
	Icon    string
}

// State returns (x, y, vx, vy).
func (d Destination) State() []float64 {
	return []float64{d.X, d.Y, d.VX, d.VY}
}

var destinations = []Destination{
	{
		Name: "Moon",
		X:    physics.EarthRadius + 384400e3, VY: 1022,
		MarkerX: 384400,
		Icon:    "moon_icon.png",
	},
	{
		Name: "Mars",
		X:    physics.EarthRadius + 78e9, VY: 24130,
		MarkerX: 78e6,
		Icon:    "mars_icon.png",
	},
}

// Lookup returns the profile registered under name.
func Lookup(name string) (Destination, error) {
	for _, d := range destinations {
		if d.Name == name {
			return d, nil
		}
	}
	return Destination{}, fmt.Errorf("%w: %s", ErrUnknownDestination, name)
}

// Destinations lists the known names in display order.
func Destinations() []string {
	names := make([]string, len(destinations))
	for i, d := range destinations {
		names[i] = d.Name
	}
	return names
}
