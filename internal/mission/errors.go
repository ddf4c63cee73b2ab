package mission

import (
	"errors"
)

// ErrInvalidDuration is returned for a duration that is not a positive
// whole number of seconds.
var ErrInvalidDuration = errors.New("invalid duration")

const (
	TitleInputError      = "Input Error"
	TitleSimulationError = "Simulation Error"
)

// DialogTitle picks the heading of the error dialog for err. Only bad
// duration input counts as an input error.
func DialogTitle(err error) string {
	if errors.Is(err, ErrInvalidDuration) {
		return TitleInputError
	}
	return TitleSimulationError
}
