package sim

// SampleCount is the number of evenly spaced samples of every run.
const SampleCount = 1000

type Config struct {
	// Duration in seconds of simulated time.
	Duration float64
	// Samples overrides SampleCount when positive.
	Samples int
}

func (c Config) samples() int {
	if c.Samples > 0 {
		return c.Samples
	}
	return SampleCount
}
