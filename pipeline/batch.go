package pipeline

import (
	"fmt"

	"github.com/sarchlab/paxflow/sim"
)

// A Batch is the outcome of a pipeline run. It is not modified after Run
// returns.
type Batch struct {
	ID         string
	Stages     []string
	Passengers []sim.Passenger
}

// Len returns the number of passengers.
func (b *Batch) Len() int {
	return len(b.Passengers)
}

// Arrivals returns the arrival time of every passenger.
func (b *Batch) Arrivals() []sim.VTimeInMin {
	arrivals := make([]sim.VTimeInMin, len(b.Passengers))
	for i, p := range b.Passengers {
		arrivals[i] = p.Arrival
	}

	return arrivals
}

// StageIndex returns the position of the named stage, or -1.
func (b *Batch) StageIndex(name string) int {
	for i, s := range b.Stages {
		if s == name {
			return i
		}
	}

	return -1
}

// StageColumn returns the start and end time of every passenger at the
// stage with the given position.
func (b *Batch) StageColumn(stage int) (start, end []sim.VTimeInMin) {
	if stage < 0 || stage >= len(b.Stages) {
		panic(fmt.Sprintf("pipeline: stage %d out of range", stage))
	}

	start = make([]sim.VTimeInMin, len(b.Passengers))
	end = make([]sim.VTimeInMin, len(b.Passengers))
	for i, p := range b.Passengers {
		start[i] = p.Visits[stage].Start
		end[i] = p.Visits[stage].End
	}

	return start, end
}

// CheckInvariants verifies every passenger against its predecessor.
func (b *Batch) CheckInvariants() error {
	for i := range b.Passengers {
		var prev *sim.Passenger
		if i > 0 {
			prev = &b.Passengers[i-1]
		}

		if err := b.Passengers[i].CheckInvariants(prev); err != nil {
			return err
		}
	}

	return nil
}
