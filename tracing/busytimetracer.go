package tracing

import (
	"slices"
	"sync"

	"github.com/sarchlab/paxflow/sim"
)

type taskTimeStartEnd struct {
	start, end sim.VTimeInMin
}

// BusyTimeTracer traces the time during which at least one accepted task is
// in progress. If the task processing time overlaps, this tracer only
// consider one instance of the overlapped time.
type BusyTimeTracer struct {
	filter        TaskFilter
	lock          sync.Mutex
	inflightTasks map[string]sim.VTimeInMin
	taskTimes     []taskTimeStartEnd
}

// NewBusyTimeTracer creates a new BusyTimeTracer. A nil filter accepts every
// task.
func NewBusyTimeTracer(filter TaskFilter) *BusyTimeTracer {
	return &BusyTimeTracer{
		filter:        filter,
		inflightTasks: make(map[string]sim.VTimeInMin),
	}
}

// BusyTime returns the length of the union of all completed task intervals.
// Tasks may be reported in any time order.
func (t *BusyTimeTracer) BusyTime() sim.VTimeInMin {
	t.lock.Lock()
	defer t.lock.Unlock()

	t.collapse()

	busyTime := sim.VTimeInMin(0)
	for _, tt := range t.taskTimes {
		busyTime += tt.end - tt.start
	}

	return busyTime
}

// StartTask records the task start time
func (t *BusyTimeTracer) StartTask(task Task) {
	if t.filter != nil && !t.filter(task) {
		return
	}

	t.lock.Lock()
	t.inflightTasks[task.ID] = task.StartTime
	t.lock.Unlock()
}

// EndTask records the end of the task
func (t *BusyTimeTracer) EndTask(task Task) {
	t.lock.Lock()
	defer t.lock.Unlock()

	start, ok := t.inflightTasks[task.ID]
	if !ok {
		return
	}

	delete(t.inflightTasks, task.ID)
	t.taskTimes = append(t.taskTimes,
		taskTimeStartEnd{start: start, end: task.EndTime})
}

// collapse merges overlapping and adjacent intervals in place.
func (t *BusyTimeTracer) collapse() {
	if len(t.taskTimes) < 2 {
		return
	}

	slices.SortFunc(t.taskTimes, func(a, b taskTimeStartEnd) int {
		switch {
		case a.start < b.start:
			return -1
		case a.start > b.start:
			return 1
		default:
			return 0
		}
	})

	merged := t.taskTimes[:1]
	for _, tt := range t.taskTimes[1:] {
		last := &merged[len(merged)-1]
		if tt.start <= last.end {
			last.end = max(last.end, tt.end)
			continue
		}

		merged = append(merged, tt)
	}

	t.taskTimes = merged
}
