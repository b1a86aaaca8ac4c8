package queueing

import (
	"math/rand"

	"github.com/sarchlab/paxflow/sim"
	"github.com/sarchlab/paxflow/sim/distribution"
)

// Builder can build stages.
type Builder struct {
	rate           float64
	stream         *rand.Rand
	sampler        distribution.Sampler
	parallelChunks int
}

// MakeBuilder creates a builder with no rate, no stream, and sequential
// serving.
func MakeBuilder() Builder {
	return Builder{}
}

// WithRate sets the mean service rate in passengers per minute.
func (b Builder) WithRate(rate float64) Builder {
	b.rate = rate
	return b
}

// WithStream sets the random stream that exponential service durations are
// drawn from.
func (b Builder) WithStream(stream *rand.Rand) Builder {
	b.stream = stream
	return b
}

// WithSampler replaces the exponential service durations with durations
// drawn from the given sampler. The rate, if any, is only reported.
func (b Builder) WithSampler(sampler distribution.Sampler) Builder {
	b.sampler = sampler
	return b
}

// WithParallelChunks serves batches with ParallelServe split into n chunks.
// Values below 2 keep the sequential recurrence.
func (b Builder) WithParallelChunks(n int) Builder {
	b.parallelChunks = n
	return b
}

// Build creates a stage. It returns an error wrapping sim.ErrInvalidParameter
// if the rate is not positive; the rate is reported under the stage name.
func (b Builder) Build(name string) (*Stage, error) {
	sim.NameMustBeValid(name)

	s := &Stage{
		HookableBase:   sim.NewHookableBase(),
		name:           name,
		rate:           b.rate,
		sampler:        b.sampler,
		parallelChunks: b.parallelChunks,
	}

	if s.sampler != nil {
		if b.rate != 0 {
			if err := sim.CheckPositiveRate(name, b.rate); err != nil {
				return nil, err
			}
		}

		return s, nil
	}

	exp, err := distribution.NewExponential(name, b.rate, b.stream)
	if err != nil {
		return nil, err
	}

	s.sampler = exp

	return s, nil
}
