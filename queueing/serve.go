package queueing

import (
	"log"

	"github.com/sarchlab/paxflow/sim"
)

// Serve applies the single-server FIFO recurrence. The queue is free at time
// 0 before the first passenger.
func Serve(ready, service []sim.VTimeInMin) (start, end []sim.VTimeInMin) {
	lengthsMustMatch(ready, service)

	start = make([]sim.VTimeInMin, len(ready))
	end = make([]sim.VTimeInMin, len(ready))

	serveFrom(0, ready, service, start, end)

	return start, end
}

// serveFrom runs the recurrence on a contiguous run of passengers, with the
// server becoming free at time free. It returns the time the server becomes
// free after the last passenger.
func serveFrom(
	free sim.VTimeInMin,
	ready, service, start, end []sim.VTimeInMin,
) sim.VTimeInMin {
	for i := range ready {
		start[i] = max(ready[i], free)
		end[i] = start[i] + service[i]
		free = end[i]
	}

	return free
}

func lengthsMustMatch(ready, service []sim.VTimeInMin) {
	if len(ready) != len(service) {
		log.Panicf("queueing: %d ready times but %d service times",
			len(ready), len(service))
	}
}
