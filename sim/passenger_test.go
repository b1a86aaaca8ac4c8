package sim

import (
	"errors"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

func visit(stage string, ready, start, service VTimeInMin) StageVisit {
	return StageVisit{
		Stage:   stage,
		Ready:   ready,
		Start:   start,
		Service: service,
		End:     start + service,
	}
}

var _ = Describe("Passenger", func() {
	var p Passenger

	BeforeEach(func() {
		p = NewPassenger(1, 0.5, 3)
		p.Visits = append(p.Visits,
			visit("check-in", 0.5, 1.0, 0.25),
			visit("security", 1.25, 1.25, 0.5),
			visit("boarding", 1.75, 2.0, 1.0),
		)
	})

	It("should be ready at arrival before any visit", func() {
		fresh := NewPassenger(0, 3, 3)
		Expect(fresh.ReadyTime()).To(Equal(VTimeInMin(3)))
		Expect(fresh.TotalTime()).To(Equal(VTimeInMin(0)))
		Expect(fresh.WaitingTime()).To(Equal(VTimeInMin(0)))
	})

	It("should sum waiting and service time", func() {
		Expect(p.WaitingTime()).To(BeNumerically("~", 0.75, 1e-12))
		Expect(p.ServiceTime()).To(BeNumerically("~", 1.75, 1e-12))
		Expect(p.Departure()).To(Equal(VTimeInMin(3.0)))
		Expect(p.TotalTime()).To(BeNumerically("~", 2.5, 1e-12))
	})

	It("should conserve time", func() {
		Expect(p.TotalTime()).To(
			BeNumerically("~", p.WaitingTime()+p.ServiceTime(), 1e-12))
	})

	It("should accept a consistent record", func() {
		Expect(p.CheckInvariants(nil)).To(Succeed())
	})

	It("should reject a start before ready", func() {
		p.Visits[1].Start = 1.0
		p.Visits[1].End = 1.5

		err := p.CheckInvariants(nil)

		Expect(errors.Is(err, ErrInvariantViolation)).To(BeTrue())
	})

	It("should reject a broken ready chain", func() {
		p.Visits[2].Ready = 1.5

		Expect(p.CheckInvariants(nil)).To(MatchError(ErrInvariantViolation))
	})

	It("should reject overtaking the predecessor", func() {
		prev := NewPassenger(0, 0, 3)
		prev.Visits = append(prev.Visits,
			visit("check-in", 0, 0, 1.5),
			visit("security", 1.5, 1.5, 0.1),
			visit("boarding", 1.6, 1.6, 0.1),
		)

		err := p.CheckInvariants(&prev)

		Expect(err).To(MatchError(ErrInvariantViolation))
		Expect(err.Error()).To(ContainSubstring("check-in"))
	})

	It("should reject predecessors with a different number of stages", func() {
		prev := NewPassenger(0, 0, 1)
		prev.Visits = append(prev.Visits, visit("check-in", 0, 0, 0.1))

		Expect(p.CheckInvariants(&prev)).To(MatchError(ErrInvariantViolation))
	})
})
