// Package distribution provides seeded random streams and the samplers that
// draw inter-arrival gaps and service durations from them.
package distribution

import (
	"math/rand"

	"github.com/sarchlab/paxflow/sim"
)

// A Sampler draws one duration per call.
type Sampler interface {
	Sample() sim.VTimeInMin
}

// NewStream creates a random stream. Two streams created with the same seed
// produce bit-identical draws.
func NewStream(seed int64) *rand.Rand {
	return rand.New(rand.NewSource(seed))
}

// Exponential draws durations from an exponential distribution with a given
// rate (events per minute). The mean duration is 1/rate.
type Exponential struct {
	rate   float64
	stream *rand.Rand
}

// NewExponential creates an exponential sampler that consumes the given
// stream. The name identifies the rate in the error returned when the rate is
// not positive.
func NewExponential(
	name string,
	rate float64,
	stream *rand.Rand,
) (*Exponential, error) {
	if err := sim.CheckPositiveRate(name, rate); err != nil {
		return nil, err
	}

	if stream == nil {
		panic("distribution: a stream is required")
	}

	return &Exponential{rate: rate, stream: stream}, nil
}

// Rate returns the rate of the distribution.
func (e *Exponential) Rate() float64 {
	return e.rate
}

// Mean returns the mean duration.
func (e *Exponential) Mean() sim.VTimeInMin {
	return sim.VTimeInMin(1 / e.rate)
}

// Sample draws one duration.
func (e *Exponential) Sample() sim.VTimeInMin {
	return sim.VTimeInMin(e.stream.ExpFloat64() / e.rate)
}

// Constant always returns the same duration.
type Constant sim.VTimeInMin

// Sample returns the constant.
func (c Constant) Sample() sim.VTimeInMin {
	return sim.VTimeInMin(c)
}

// Sequence replays a fixed list of durations, in order. It is useful when
// the durations are measured rather than modeled.
type Sequence struct {
	values []sim.VTimeInMin
	next   int
}

// NewSequence creates a Sequence. All values must be non-negative.
func NewSequence(values ...sim.VTimeInMin) (*Sequence, error) {
	for _, v := range values {
		if err := sim.CheckNonNegativeTime("duration", v); err != nil {
			return nil, err
		}
	}

	s := &Sequence{values: make([]sim.VTimeInMin, len(values))}
	copy(s.values, values)

	return s, nil
}

// Remaining returns the number of values not yet replayed.
func (s *Sequence) Remaining() int {
	return len(s.values) - s.next
}

// Sample returns the next value. It panics when the sequence is exhausted.
func (s *Sequence) Sample() sim.VTimeInMin {
	if s.next >= len(s.values) {
		panic("distribution: sequence exhausted")
	}

	v := s.values[s.next]
	s.next++

	return v
}
