package queueing

import (
	"context"

	"github.com/sarchlab/paxflow/sim"
	"github.com/sarchlab/paxflow/sim/distribution"
)

// A Result holds the timestamps a stage produced, indexed by passenger.
type Result struct {
	Stage   string
	Ready   []sim.VTimeInMin
	Service []sim.VTimeInMin
	Start   []sim.VTimeInMin
	End     []sim.VTimeInMin
}

// Len returns the number of passengers served.
func (r *Result) Len() int {
	return len(r.Ready)
}

// Record returns the service record of passenger i.
func (r *Result) Record(i int) ServiceRecord {
	return ServiceRecord{
		Stage:   r.Stage,
		Index:   i,
		Ready:   r.Ready[i],
		Start:   r.Start[i],
		Service: r.Service[i],
		End:     r.End[i],
	}
}

// A Stage is a single-server FIFO queue. It owns no passenger state between
// calls to Process.
type Stage struct {
	*sim.HookableBase

	name           string
	rate           float64
	sampler        distribution.Sampler
	parallelChunks int
}

// Name returns the name of the stage.
func (s *Stage) Name() string {
	return s.name
}

// Rate returns the mean service rate in passengers per minute. It is zero if
// the stage was built with an explicit sampler and no rate.
func (s *Stage) Rate() float64 {
	return s.rate
}

// Process draws one service duration per passenger, in index order, and
// serves the passengers in index order.
func (s *Stage) Process(ready []sim.VTimeInMin) (*Result, error) {
	service := make([]sim.VTimeInMin, len(ready))
	for i := range service {
		d := s.sampler.Sample()
		if err := sim.CheckNonNegativeTime(s.name, d); err != nil {
			return nil, err
		}

		service[i] = d
	}

	start, end, err := s.serve(ready, service)
	if err != nil {
		return nil, err
	}

	r := &Result{
		Stage:   s.name,
		Ready:   append([]sim.VTimeInMin(nil), ready...),
		Service: service,
		Start:   start,
		End:     end,
	}

	s.notifyHooks(r)

	return r, nil
}

func (s *Stage) serve(
	ready, service []sim.VTimeInMin,
) (start, end []sim.VTimeInMin, err error) {
	if s.parallelChunks > 1 && len(ready) >= s.parallelChunks {
		return ParallelServe(
			context.Background(), ready, service, s.parallelChunks)
	}

	start, end = Serve(ready, service)

	return start, end, nil
}

func (s *Stage) notifyHooks(r *Result) {
	if s.NumHooks() == 0 {
		return
	}

	for i := 0; i < r.Len(); i++ {
		rec := r.Record(i)

		s.InvokeHook(sim.HookCtx{
			Domain: s,
			Pos:    HookPosServiceStart,
			Item:   rec,
		})
		s.InvokeHook(sim.HookCtx{
			Domain: s,
			Pos:    HookPosServiceEnd,
			Item:   rec,
		})
	}
}
