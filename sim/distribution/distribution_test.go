package distribution

import (
	"github.com/sarchlab/paxflow/sim"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Exponential", func() {
	It("should reject non-positive rates", func() {
		_, err := NewExponential("check-in", 0, NewStream(1))

		Expect(err).To(MatchError(sim.ErrInvalidParameter))
		Expect(err.Error()).To(ContainSubstring("check-in"))
	})

	It("should be reproducible with the same seed", func() {
		a, err := NewExponential("rate", 7, NewStream(42))
		Expect(err).NotTo(HaveOccurred())
		b, err := NewExponential("rate", 7, NewStream(42))
		Expect(err).NotTo(HaveOccurred())

		for i := 0; i < 100; i++ {
			Expect(a.Sample()).To(Equal(b.Sample()))
		}
	})

	It("should differ across seeds", func() {
		a, _ := NewExponential("rate", 7, NewStream(1))
		b, _ := NewExponential("rate", 7, NewStream(2))

		Expect(a.Sample()).NotTo(Equal(b.Sample()))
	})

	It("should have a mean close to 1/rate", func() {
		e, err := NewExponential("rate", 5, NewStream(7))
		Expect(err).NotTo(HaveOccurred())

		n := 200000
		var sum sim.VTimeInMin
		for i := 0; i < n; i++ {
			d := e.Sample()
			Expect(d).To(BeNumerically(">=", 0))
			sum += d
		}

		Expect(float64(sum) / float64(n)).To(BeNumerically("~", 0.2, 0.005))
		Expect(e.Mean()).To(BeNumerically("~", 0.2, 1e-12))
	})
})

var _ = Describe("Sequence", func() {
	It("should replay values in order", func() {
		s, err := NewSequence(2.0, 0.3)
		Expect(err).NotTo(HaveOccurred())

		Expect(s.Sample()).To(Equal(sim.VTimeInMin(2.0)))
		Expect(s.Remaining()).To(Equal(1))
		Expect(s.Sample()).To(Equal(sim.VTimeInMin(0.3)))
		Expect(func() { s.Sample() }).To(Panic())
	})

	It("should reject negative values", func() {
		_, err := NewSequence(1, -1)

		Expect(err).To(MatchError(sim.ErrInvalidParameter))
	})
})

var _ = Describe("Constant", func() {
	It("should always return the same value", func() {
		c := Constant(0.5)

		Expect(c.Sample()).To(Equal(sim.VTimeInMin(0.5)))
		Expect(c.Sample()).To(Equal(sim.VTimeInMin(0.5)))
	})
})
