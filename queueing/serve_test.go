package queueing

import (
	"github.com/sarchlab/paxflow/sim"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

func times(values ...sim.VTimeInMin) []sim.VTimeInMin {
	return values
}

var _ = Describe("Serve", func() {
	It("should serve a single passenger on arrival", func() {
		start, end := Serve(times(0), times(1.5))

		Expect(start).To(Equal(times(0)))
		Expect(end).To(Equal(times(1.5)))
	})

	It("should not queue passengers that arrive far apart", func() {
		start, end := Serve(times(0, 100), times(0.5, 0.5))

		Expect(start).To(Equal(times(0, 100)))
		Expect(end).To(Equal(times(0.5, 100.5)))
	})

	It("should make a passenger wait for its predecessor", func() {
		ready := times(0, 0.1)

		start, end := Serve(ready, times(2.0, 0.3))

		Expect(start).To(Equal(times(0, 2.0)))
		Expect(end[0]).To(Equal(sim.VTimeInMin(2.0)))
		Expect(end[1]).To(BeNumerically("~", 2.3, 1e-12))
		Expect(start[1] - ready[1]).To(BeNumerically("~", 1.9, 1e-12))
	})

	It("should serve strictly by index when ready times are unsorted", func() {
		start, end := Serve(times(5, 1), times(1, 1))

		Expect(start).To(Equal(times(5, 6)))
		Expect(end).To(Equal(times(6, 7)))
	})

	It("should handle an empty batch", func() {
		start, end := Serve(nil, nil)

		Expect(start).To(BeEmpty())
		Expect(end).To(BeEmpty())
	})

	It("should panic if the lengths differ", func() {
		Expect(func() { Serve(times(0, 1), times(1)) }).To(Panic())
	})
})
