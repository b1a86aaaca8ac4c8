package pipeline

import (
	"github.com/rs/xid"
	"github.com/sarchlab/paxflow/arrival"
	"github.com/sarchlab/paxflow/sim"
	"github.com/sarchlab/paxflow/sim/distribution"
)

// Params describes a complete run.
type Params struct {
	NumPassengers  int
	ArrivalRate    float64
	Stages         []StageSpec
	Seed           int64
	ParallelChunks int
	Hooks          []sim.Hook

	// Instrument, if set, is called with the built pipeline before the
	// arrivals are generated. It can attach hooks to individual stages.
	Instrument func(p *Pipeline)
}

// Simulate generates the arrivals and runs them through the stages. A single
// stream seeded with params.Seed is consumed by the arrivals first and then
// by every stage in order, so the same params always give the same batch.
func Simulate(params Params) (*Batch, error) {
	if err := sim.CheckPositiveCount(
		"num_passengers", params.NumPassengers); err != nil {
		return nil, err
	}

	if err := sim.CheckPositiveRate(
		"arrival_rate", params.ArrivalRate); err != nil {
		return nil, err
	}

	stream := distribution.NewStream(params.Seed)

	b := MakeBuilder().
		WithStages(params.Stages...).
		WithStream(stream).
		WithParallelChunks(params.ParallelChunks)
	for _, h := range params.Hooks {
		b = b.WithHook(h)
	}

	p, err := b.Build()
	if err != nil {
		return nil, err
	}

	if params.Instrument != nil {
		params.Instrument(p)
	}

	arrivals, err := arrival.Generate(
		params.NumPassengers, params.ArrivalRate, stream)
	if err != nil {
		return nil, err
	}

	batch, err := p.Run(arrivals)
	if err != nil {
		return nil, err
	}

	batch.ID = xid.New().String()

	return batch, nil
}
