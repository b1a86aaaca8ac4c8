// Package queueing implements single-server FIFO service stages.
//
// A stage receives the time every passenger becomes ready for it and serves
// passengers strictly in index order, one at a time:
//
//	start[i] = max(ready[i], end[i-1])
//	end[i]   = start[i] + service[i]
//
// Passengers are never reordered, even when a later passenger is ready
// earlier than the one before it.
//
// Example usage:
//
//	stage, err := queueing.MakeBuilder().
//		WithRate(9).
//		WithStream(distribution.NewStream(42)).
//		Build("check-in")
//	result, err := stage.Process(arrivals)
package queueing
