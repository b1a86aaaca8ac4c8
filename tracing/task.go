// Package tracing turns the service records of stages into tasks and lets
// tracers collect them.
package tracing

import "github.com/sarchlab/paxflow/sim"

// Kinds of tasks produced by CollectTrace.
const (
	KindQueue   = "queue"
	KindService = "service"
)

// A Task is an interval during which a passenger is held by a stage, either
// waiting in its queue or being served.
type Task struct {
	ID        string         `json:"id"`
	ParentID  string         `json:"parent_id"`
	Kind      string         `json:"kind"`
	What      string         `json:"what"`
	Where     string         `json:"where"`
	StartTime sim.VTimeInMin `json:"start_time"`
	EndTime   sim.VTimeInMin `json:"end_time"`
	Detail    any            `json:"-"`
}

// Duration returns EndTime - StartTime.
func (t Task) Duration() sim.VTimeInMin {
	return t.EndTime - t.StartTime
}

// TaskFilter is a function that can filter interesting tasks. If this function
// returns true, the task is considered useful.
type TaskFilter func(t Task) bool

// KindFilter accepts the tasks of the given kind.
func KindFilter(kind string) TaskFilter {
	return func(t Task) bool {
		return t.Kind == kind
	}
}

// WhereFilter accepts the tasks that happen at the given stage.
func WhereFilter(stage string) TaskFilter {
	return func(t Task) bool {
		return t.Where == stage
	}
}

// AllOf accepts a task if every filter accepts it.
func AllOf(filters ...TaskFilter) TaskFilter {
	return func(t Task) bool {
		for _, f := range filters {
			if !f(t) {
				return false
			}
		}

		return true
	}
}
