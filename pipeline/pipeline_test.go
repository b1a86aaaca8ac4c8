package pipeline

import (
	"github.com/sarchlab/paxflow/sim"
	"github.com/sarchlab/paxflow/sim/distribution"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

func sequence(values ...sim.VTimeInMin) distribution.Sampler {
	s, err := distribution.NewSequence(values...)
	Expect(err).NotTo(HaveOccurred())

	return s
}

var _ = Describe("Pipeline", func() {
	It("should chain a single passenger through three stages", func() {
		d1, d2, d3 := sim.VTimeInMin(0.5), sim.VTimeInMin(0.25), sim.VTimeInMin(2)

		p, err := MakeBuilder().
			WithStageSampler(StageCheckIn, sequence(d1)).
			WithStageSampler(StageSecurity, sequence(d2)).
			WithStageSampler(StageBoarding, sequence(d3)).
			Build()
		Expect(err).NotTo(HaveOccurred())

		batch, err := p.Run([]sim.VTimeInMin{0})

		Expect(err).NotTo(HaveOccurred())
		Expect(batch.Stages).To(Equal([]string{
			StageCheckIn, StageSecurity, StageBoarding,
		}))

		pax := batch.Passengers[0]
		Expect(pax.Visits[0].Start).To(Equal(sim.VTimeInMin(0)))
		Expect(pax.Visits[0].End).To(Equal(d1))
		Expect(pax.Visits[1].Start).To(Equal(d1))
		Expect(pax.Visits[1].End).To(Equal(d1 + d2))
		Expect(pax.Visits[2].Start).To(Equal(d1 + d2))
		Expect(pax.Visits[2].End).To(Equal(d1 + d2 + d3))
		Expect(pax.WaitingTime()).To(Equal(sim.VTimeInMin(0)))
		Expect(pax.TotalTime()).To(Equal(d1 + d2 + d3))
	})

	It("should feed each stage with the end times of the previous one", func() {
		p, err := MakeBuilder().
			WithStageSampler("a", sequence(2.0, 0.5)).
			WithStageSampler("b", sequence(0.25, 1.0)).
			Build()
		Expect(err).NotTo(HaveOccurred())

		batch, err := p.Run([]sim.VTimeInMin{0, 0.5})
		Expect(err).NotTo(HaveOccurred())

		second := batch.Passengers[1]
		Expect(second.Visits[0].Start).To(Equal(sim.VTimeInMin(2.0)))
		Expect(second.Visits[1].Ready).To(Equal(sim.VTimeInMin(2.5)))
		Expect(second.Visits[1].Start).To(Equal(sim.VTimeInMin(2.5)))
		Expect(second.Visits[1].End).To(Equal(sim.VTimeInMin(3.5)))
		Expect(batch.CheckInvariants()).To(Succeed())

		start, end := batch.StageColumn(batch.StageIndex("b"))
		Expect(start).To(Equal([]sim.VTimeInMin{2.0, 2.5}))
		Expect(end).To(Equal([]sim.VTimeInMin{2.25, 3.5}))
	})

	It("should reject negative arrivals before drawing", func() {
		s := sequence(1)
		p, err := MakeBuilder().WithStageSampler("a", s).Build()
		Expect(err).NotTo(HaveOccurred())

		_, err = p.Run([]sim.VTimeInMin{-1})

		Expect(err).To(MatchError(sim.ErrInvalidParameter))
		Expect(s.(*distribution.Sequence).Remaining()).To(Equal(1))
	})

	It("should run an empty batch", func() {
		p, err := MakeBuilder().
			WithStage("a", 1).
			WithStream(distribution.NewStream(1)).
			Build()
		Expect(err).NotTo(HaveOccurred())

		batch, err := p.Run(nil)

		Expect(err).NotTo(HaveOccurred())
		Expect(batch.Len()).To(Equal(0))
	})
})

var _ = Describe("Builder", func() {
	It("should require at least one stage", func() {
		_, err := MakeBuilder().WithStream(distribution.NewStream(1)).Build()

		Expect(err).To(MatchError(sim.ErrInvalidParameter))
	})

	It("should reject duplicated stage names", func() {
		_, err := MakeBuilder().
			WithStage("a", 1).
			WithStage("a", 2).
			WithStream(distribution.NewStream(1)).
			Build()

		Expect(err).To(MatchError(sim.ErrInvalidParameter))
	})

	It("should reject names with whitespace", func() {
		_, err := MakeBuilder().
			WithStage("passport control", 1).
			WithStream(distribution.NewStream(1)).
			Build()

		Expect(err).To(MatchError(sim.ErrInvalidParameter))
	})

	It("should name the stage with an invalid rate", func() {
		_, err := MakeBuilder().
			WithStages(AirportStages(9, 0, 5)...).
			WithStream(distribution.NewStream(1)).
			Build()

		Expect(err).To(MatchError(sim.ErrInvalidParameter))
		Expect(err.Error()).To(ContainSubstring(StageSecurity))
	})

	It("should not share stage slices between builders", func() {
		base := MakeBuilder().
			WithStage("a", 1).
			WithStream(distribution.NewStream(1))
		left, _ := base.WithStage("b", 1).Build()
		right, _ := base.WithStage("c", 1).Build()

		Expect(left.StageNames()).To(Equal([]string{"a", "b"}))
		Expect(right.StageNames()).To(Equal([]string{"a", "c"}))
	})
})
