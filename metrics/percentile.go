package metrics

import (
	"math"
	"slices"

	"github.com/sarchlab/paxflow/sim"
)

// Percentile returns the p-th percentile (0 to 100) of the values, linearly
// interpolated between the two closest ranks. It returns 0 for no values.
func Percentile(values []sim.VTimeInMin, p float64) sim.VTimeInMin {
	if len(values) == 0 {
		return 0
	}

	sorted := slices.Clone(values)
	slices.Sort(sorted)

	p = min(max(p, 0), 100)
	pos := p / 100 * float64(len(sorted)-1)
	lower := int(math.Floor(pos))
	upper := int(math.Ceil(pos))

	if lower == upper {
		return sorted[lower]
	}

	weight := sim.VTimeInMin(pos - float64(lower))

	return sorted[lower]*(1-weight) + sorted[upper]*weight
}
