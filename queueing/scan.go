package queueing

import (
	"context"
	"math"

	"github.com/sarchlab/paxflow/sim"
	"golang.org/x/sync/errgroup"
)

// A segment is the effect of serving a run of passengers on the time the
// server becomes free: q -> max(a, q+b).
//
// A single passenger is max(ready+service, q+service). Composing two
// segments gives another segment, so runs can be reduced independently and
// combined afterwards.
type segment struct {
	a, b sim.VTimeInMin
}

var identitySegment = segment{a: sim.VTimeInMin(math.Inf(-1)), b: 0}

func (s segment) apply(free sim.VTimeInMin) sim.VTimeInMin {
	return max(s.a, free+s.b)
}

// then returns the segment of serving s first and next afterwards.
func (s segment) then(next segment) segment {
	return segment{
		a: max(next.a, s.a+next.b),
		b: s.b + next.b,
	}
}

func reduce(ready, service []sim.VTimeInMin) segment {
	acc := identitySegment
	for i := range ready {
		acc = acc.then(segment{a: ready[i] + service[i], b: service[i]})
	}

	return acc
}

// ParallelServe computes the same result as Serve by splitting the batch into
// numChunks contiguous chunks. Each chunk is reduced to a segment
// concurrently, a scan over the segments gives the time the server becomes
// free when each chunk starts, and the chunks are then expanded
// concurrently. Chunk boundaries are the only place where the result may
// differ from Serve, by floating point rounding.
func ParallelServe(
	ctx context.Context,
	ready, service []sim.VTimeInMin,
	numChunks int,
) (start, end []sim.VTimeInMin, err error) {
	lengthsMustMatch(ready, service)

	n := len(ready)
	start = make([]sim.VTimeInMin, n)
	end = make([]sim.VTimeInMin, n)

	if n == 0 {
		return start, end, nil
	}

	bounds := chunkBounds(n, numChunks)
	segments := make([]segment, len(bounds)-1)

	g, gctx := errgroup.WithContext(ctx)
	for c := range segments {
		c := c
		lo, hi := bounds[c], bounds[c+1]
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}

			segments[c] = reduce(ready[lo:hi], service[lo:hi])

			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, nil, err
	}

	incoming := make([]sim.VTimeInMin, len(segments))

	var free sim.VTimeInMin
	for c, s := range segments {
		incoming[c] = free
		free = s.apply(free)
	}

	g, gctx = errgroup.WithContext(ctx)
	for c := range segments {
		c := c
		lo, hi := bounds[c], bounds[c+1]
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}

			serveFrom(incoming[c],
				ready[lo:hi], service[lo:hi], start[lo:hi], end[lo:hi])

			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, nil, err
	}

	return start, end, nil
}

// chunkBounds splits [0, n) into at most numChunks non-empty ranges of
// near-equal size. The i-th range is [bounds[i], bounds[i+1]).
func chunkBounds(n, numChunks int) []int {
	numChunks = min(max(numChunks, 1), n)

	bounds := make([]int, numChunks+1)
	for c := 0; c <= numChunks; c++ {
		bounds[c] = c * n / numChunks
	}

	return bounds
}
