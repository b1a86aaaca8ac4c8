package queueing

import (
	"context"

	"github.com/sarchlab/paxflow/sim"
	"github.com/sarchlab/paxflow/sim/distribution"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

func randomBatch(n int, seed int64) (ready, service []sim.VTimeInMin) {
	arrivalGaps, _ := distribution.NewExponential(
		"arrival", 6, distribution.NewStream(seed))
	services, _ := distribution.NewExponential(
		"service", 5, distribution.NewStream(seed+1))

	ready = make([]sim.VTimeInMin, n)
	service = make([]sim.VTimeInMin, n)

	var now sim.VTimeInMin
	for i := 0; i < n; i++ {
		now += arrivalGaps.Sample()
		ready[i] = now
		service[i] = services.Sample()
	}

	return ready, service
}

var _ = Describe("ParallelServe", func() {
	It("should agree with the sequential recurrence", func() {
		ready, service := randomBatch(10007, 9)

		expectedStart, expectedEnd := Serve(ready, service)
		start, end, err := ParallelServe(
			context.Background(), ready, service, 8)

		Expect(err).NotTo(HaveOccurred())
		Expect(start).To(HaveLen(len(expectedStart)))
		for i := range start {
			Expect(start[i]).To(BeNumerically("~", expectedStart[i], 1e-9))
			Expect(end[i]).To(BeNumerically("~", expectedEnd[i], 1e-9))
		}
	})

	It("should be exact with a single chunk", func() {
		ready, service := randomBatch(100, 1)

		expectedStart, expectedEnd := Serve(ready, service)
		start, end, err := ParallelServe(
			context.Background(), ready, service, 1)

		Expect(err).NotTo(HaveOccurred())
		Expect(start).To(Equal(expectedStart))
		Expect(end).To(Equal(expectedEnd))
	})

	It("should keep FIFO by index across chunk boundaries", func() {
		start, end, err := ParallelServe(context.Background(),
			times(5, 1, 1, 1), times(1, 1, 1, 1), 4)

		Expect(err).NotTo(HaveOccurred())
		Expect(start).To(Equal(times(5, 6, 7, 8)))
		Expect(end).To(Equal(times(6, 7, 8, 9)))
	})

	It("should use at most one chunk per passenger", func() {
		Expect(chunkBounds(3, 10)).To(Equal([]int{0, 1, 2, 3}))
		Expect(chunkBounds(10, 3)).To(Equal([]int{0, 3, 6, 10}))
		Expect(chunkBounds(5, 0)).To(Equal([]int{0, 5}))
	})

	It("should return the context error when cancelled", func() {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		ready, service := randomBatch(100, 2)
		_, _, err := ParallelServe(ctx, ready, service, 4)

		Expect(err).To(MatchError(context.Canceled))
	})

	It("should handle an empty batch", func() {
		start, end, err := ParallelServe(context.Background(), nil, nil, 4)

		Expect(err).NotTo(HaveOccurred())
		Expect(start).To(BeEmpty())
		Expect(end).To(BeEmpty())
	})
})

var _ = Describe("segment", func() {
	It("should compose like serving in sequence", func() {
		ready := times(0.5, 0.6, 3)
		service := times(1, 0.25, 0.5)

		_, end := Serve(ready, service)
		s := reduce(ready, service)

		Expect(s.apply(0)).To(Equal(end[2]))
	})

	It("should be associative", func() {
		x := segment{a: 1, b: 0.5}
		y := segment{a: 3, b: 0.25}
		z := segment{a: 2, b: 1}

		left := x.then(y).then(z)
		right := x.then(y.then(z))

		Expect(left).To(Equal(right))
	})
})
