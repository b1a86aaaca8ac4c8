package sim

import "fmt"

// A StageVisit records how one passenger went through one stage.
type StageVisit struct {
	Stage   string     `json:"stage" yaml:"stage"`
	Ready   VTimeInMin `json:"ready" yaml:"ready"`
	Start   VTimeInMin `json:"start" yaml:"start"`
	Service VTimeInMin `json:"service" yaml:"service"`
	End     VTimeInMin `json:"end" yaml:"end"`
}

// Wait returns the time spent queueing at the stage.
func (v StageVisit) Wait() VTimeInMin {
	return v.Start - v.Ready
}

// A Passenger is one traveler of the batch. Visits are ordered the same way
// as the stages of the pipeline.
type Passenger struct {
	Index   int          `json:"index" yaml:"index"`
	Arrival VTimeInMin   `json:"arrival" yaml:"arrival"`
	Visits  []StageVisit `json:"visits" yaml:"visits"`
}

// NewPassenger creates a passenger with room for numStages visits.
func NewPassenger(index int, arrival VTimeInMin, numStages int) Passenger {
	return Passenger{
		Index:   index,
		Arrival: arrival,
		Visits:  make([]StageVisit, 0, numStages),
	}
}

// ReadyTime returns when the passenger becomes eligible for the next stage.
func (p *Passenger) ReadyTime() VTimeInMin {
	if len(p.Visits) == 0 {
		return p.Arrival
	}

	return p.Visits[len(p.Visits)-1].End
}

// Departure returns when the passenger completes the last visited stage.
func (p *Passenger) Departure() VTimeInMin {
	return p.ReadyTime()
}

// WaitingTime sums the queueing delay over all visited stages.
func (p *Passenger) WaitingTime() VTimeInMin {
	var w VTimeInMin
	for _, v := range p.Visits {
		w += v.Wait()
	}

	return w
}

// ServiceTime sums the service durations over all visited stages.
func (p *Passenger) ServiceTime() VTimeInMin {
	var s VTimeInMin
	for _, v := range p.Visits {
		s += v.Service
	}

	return s
}

// TotalTime is the time from arrival to the end of the last visited stage.
func (p *Passenger) TotalTime() VTimeInMin {
	return p.Departure() - p.Arrival
}

// CheckInvariants verifies the passenger against the single-server FIFO
// rules. prev is the passenger served just before in every queue, or nil for
// the first passenger of the batch.
func (p *Passenger) CheckInvariants(prev *Passenger) error {
	if prev != nil && len(prev.Visits) != len(p.Visits) {
		return p.violation("has %d visits, predecessor has %d",
			len(p.Visits), len(prev.Visits))
	}

	ready := p.Arrival
	for s, v := range p.Visits {
		if v.Ready != ready {
			return p.violation("stage %s ready at %v, expected %v",
				v.Stage, v.Ready, ready)
		}

		if v.Service < 0 {
			return p.violation("stage %s has negative service %v",
				v.Stage, v.Service)
		}

		if v.Start < v.Ready {
			return p.violation("stage %s starts at %v before ready at %v",
				v.Stage, v.Start, v.Ready)
		}

		if v.End != v.Start+v.Service {
			return p.violation("stage %s ends at %v, expected %v",
				v.Stage, v.End, v.Start+v.Service)
		}

		if prev != nil && v.Start < prev.Visits[s].End {
			return p.violation("stage %s starts at %v before predecessor "+
				"ends at %v", v.Stage, v.Start, prev.Visits[s].End)
		}

		ready = v.End
	}

	return nil
}

func (p *Passenger) violation(format string, args ...any) error {
	return fmt.Errorf("passenger %d: %s: %w",
		p.Index, fmt.Sprintf(format, args...), ErrInvariantViolation)
}
