package mission

import (
	"fmt"
	"strconv"
	"strings"
)

type Request struct {
	Destination string
	// Duration in seconds.
	Duration int
}

// ParseRequest validates raw form input. The duration must parse as an
// integer greater than zero; the destination is checked later by lookup.
func ParseRequest(destination, durationText string) (Request, error) {
	text := strings.TrimSpace(durationText)
	d, err := strconv.Atoi(text)
	if err != nil {
		return Request{}, fmt.Errorf("%w: %q is not a whole number of seconds", ErrInvalidDuration, text)
	}
	if d <= 0 {
		return Request{}, fmt.Errorf("%w: duration must be positive, got %d", ErrInvalidDuration, d)
	}
	return Request{Destination: destination, Duration: d}, nil
}
