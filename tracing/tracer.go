package tracing

// A Tracer can collect task traces. StartTask receives a task with its
// StartTime set. EndTask receives the same ID with its EndTime set.
type Tracer interface {
	StartTask(task Task)
	EndTask(task Task)
}
