package report

import (
	"fmt"
	"math"

	"github.com/sarchlab/paxflow/sim"
)

// DefaultBins is the number of bins used when none is configured.
const DefaultBins = 30

// MaxBins is the largest number of bins a histogram may have.
const MaxBins = 10000

// A Histogram counts values in equal-width bins between the smallest and the
// largest value. When all values are equal, the range is widened by half a
// minute on both sides.
type Histogram struct {
	Min    sim.VTimeInMin `json:"min" yaml:"min"`
	Max    sim.VTimeInMin `json:"max" yaml:"max"`
	Width  sim.VTimeInMin `json:"width" yaml:"width"`
	Counts []int          `json:"counts" yaml:"counts"`
}

// NewHistogram bins the values. It returns an error wrapping
// sim.ErrInvalidParameter if bins is not in [1, MaxBins] and
// sim.ErrEmptyBatch if there are no values.
func NewHistogram(values []sim.VTimeInMin, bins int) (*Histogram, error) {
	if err := CheckBins("bins", bins); err != nil {
		return nil, err
	}

	if len(values) == 0 {
		return nil, sim.ErrEmptyBatch
	}

	lo, hi := values[0], values[0]
	for _, v := range values {
		lo = min(lo, v)
		hi = max(hi, v)
	}

	if lo == hi {
		lo -= 0.5
		hi += 0.5
	}

	h := &Histogram{
		Min:    lo,
		Max:    hi,
		Width:  (hi - lo) / sim.VTimeInMin(bins),
		Counts: make([]int, bins),
	}

	for _, v := range values {
		h.Counts[h.binOf(v)]++
	}

	return h, nil
}

func (h *Histogram) binOf(v sim.VTimeInMin) int {
	i := int(math.Floor(float64((v - h.Min) / h.Width)))

	return min(max(i, 0), len(h.Counts)-1)
}

// Edges returns the len(Counts)+1 bin boundaries.
func (h *Histogram) Edges() []sim.VTimeInMin {
	edges := make([]sim.VTimeInMin, len(h.Counts)+1)
	for i := range edges {
		edges[i] = h.Min + sim.VTimeInMin(i)*h.Width
	}

	edges[len(edges)-1] = h.Max

	return edges
}

// Total returns the number of binned values.
func (h *Histogram) Total() int {
	total := 0
	for _, c := range h.Counts {
		total += c
	}

	return total
}

// Peak returns the largest bin count.
func (h *Histogram) Peak() int {
	peak := 0
	for _, c := range h.Counts {
		peak = max(peak, c)
	}

	return peak
}

// CheckBins returns a *sim.ParameterError under the given name if bins is not
// in [1, MaxBins].
func CheckBins(name string, bins int) error {
	if err := sim.CheckPositiveCount(name, bins); err != nil {
		return err
	}

	if bins > MaxBins {
		return &sim.ParameterError{
			Name:   name,
			Value:  bins,
			Reason: fmt.Sprintf("must be at most %d", MaxBins),
		}
	}

	return nil
}
