// Package arrival generates the arrival times of a passenger batch.
package arrival

import (
	"math/rand"

	"github.com/sarchlab/paxflow/sim"
	"github.com/sarchlab/paxflow/sim/distribution"
)

// Generate draws count inter-arrival gaps from an exponential distribution
// with the given rate (passengers per minute) and returns their running sum.
// All parameters are validated before the stream is touched.
func Generate(
	count int,
	rate float64,
	stream *rand.Rand,
) ([]sim.VTimeInMin, error) {
	if err := sim.CheckPositiveCount("num_passengers", count); err != nil {
		return nil, err
	}

	gaps, err := distribution.NewExponential("arrival_rate", rate, stream)
	if err != nil {
		return nil, err
	}

	return GenerateFrom(count, gaps)
}

// GenerateFrom returns the running sum of count gaps drawn from the sampler.
// The first passenger arrives after the first gap.
func GenerateFrom(
	count int,
	gaps distribution.Sampler,
) ([]sim.VTimeInMin, error) {
	if err := sim.CheckPositiveCount("num_passengers", count); err != nil {
		return nil, err
	}

	arrivals := make([]sim.VTimeInMin, count)

	var now sim.VTimeInMin
	for i := range arrivals {
		gap := gaps.Sample()
		if err := sim.CheckNonNegativeTime("inter_arrival_gap", gap); err != nil {
			return nil, err
		}

		now += gap
		arrivals[i] = now
	}

	return arrivals, nil
}
