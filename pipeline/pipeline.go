// Package pipeline chains single-server stages into a linear passenger flow.
package pipeline

import (
	"fmt"

	"github.com/sarchlab/paxflow/queueing"
	"github.com/sarchlab/paxflow/sim"
)

// A Pipeline feeds every passenger through its stages in order. The ready
// time of a passenger at the first stage is its arrival time; at every other
// stage it is the time the passenger left the previous stage.
type Pipeline struct {
	stages []*queueing.Stage
}

// Stages returns the stages in processing order.
func (p *Pipeline) Stages() []*queueing.Stage {
	return p.stages
}

// StageNames returns the names of the stages in processing order.
func (p *Pipeline) StageNames() []string {
	names := make([]string, len(p.stages))
	for i, s := range p.stages {
		names[i] = s.Name()
	}

	return names
}

// Run processes the batch of arrivals. Arrival times must be finite and
// non-negative; they are checked before any stage draws a duration.
func (p *Pipeline) Run(arrivals []sim.VTimeInMin) (*Batch, error) {
	for i, a := range arrivals {
		if err := sim.CheckNonNegativeTime("arrival_time", a); err != nil {
			return nil, fmt.Errorf("passenger %d: %w", i, err)
		}
	}

	passengers := make([]sim.Passenger, len(arrivals))
	for i, a := range arrivals {
		passengers[i] = sim.NewPassenger(i, a, len(p.stages))
	}

	ready := arrivals
	for _, s := range p.stages {
		r, err := s.Process(ready)
		if err != nil {
			return nil, fmt.Errorf("stage %s: %w", s.Name(), err)
		}

		for i := range passengers {
			passengers[i].Visits = append(passengers[i].Visits, sim.StageVisit{
				Stage:   r.Stage,
				Ready:   r.Ready[i],
				Start:   r.Start[i],
				Service: r.Service[i],
				End:     r.End[i],
			})
		}

		ready = r.End
	}

	return &Batch{
		Stages:     p.StageNames(),
		Passengers: passengers,
	}, nil
}
