package queueing

import "github.com/sarchlab/paxflow/sim"

// Hook positions triggered by a Stage for every passenger it serves.
var (
	HookPosServiceStart = &sim.HookPos{Name: "ServiceStart"}
	HookPosServiceEnd   = &sim.HookPos{Name: "ServiceEnd"}
)

// A ServiceRecord is the item carried by the hooks of a Stage.
type ServiceRecord struct {
	Stage   string
	Index   int
	Ready   sim.VTimeInMin
	Start   sim.VTimeInMin
	Service sim.VTimeInMin
	End     sim.VTimeInMin
}

// Wait returns the time the passenger spent in the queue.
func (r ServiceRecord) Wait() sim.VTimeInMin {
	return r.Start - r.Ready
}
