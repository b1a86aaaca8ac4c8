package tracing

import (
	"sync"

	"github.com/sarchlab/paxflow/datarecording"
	"github.com/sarchlab/paxflow/sim"
	"github.com/tebeka/atexit"
)

// TraceTable is the table DBTracer writes tasks into.
const TraceTable = "trace"

type taskTableEntry struct {
	ID        string
	ParentID  string
	Kind      string
	What      string
	Location  string
	StartTime float64
	EndTime   float64
}

// DBTracer is a tracer that stores completed tasks through a DataRecorder.
type DBTracer struct {
	mu      sync.Mutex
	backend datarecording.DataRecorder

	startTime, endTime sim.VTimeInMin

	tracingTasks map[string]Task
}

// NewDBTracer creates a new DBTracer. The recorder is flushed when the
// process exits.
func NewDBTracer(dataRecorder datarecording.DataRecorder) *DBTracer {
	dataRecorder.CreateTable(TraceTable, taskTableEntry{})

	t := &DBTracer{
		backend:      dataRecorder,
		tracingTasks: make(map[string]Task),
	}

	atexit.Register(func() {
		t.Terminate()
	})

	return t
}

// SetTimeRange limits the recorded tasks to those that overlap the range. A
// zero bound is open.
func (t *DBTracer) SetTimeRange(startTime, endTime sim.VTimeInMin) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.startTime = startTime
	t.endTime = endTime
}

// StartTask marks the start of a task.
func (t *DBTracer) StartTask(task Task) {
	t.startingTaskMustBeValid(task)

	t.mu.Lock()
	defer t.mu.Unlock()

	if t.endTime > 0 && task.StartTime > t.endTime {
		return
	}

	t.tracingTasks[task.ID] = task
}

func (t *DBTracer) startingTaskMustBeValid(task Task) {
	if task.ID == "" {
		panic("task ID must be set")
	}

	if task.Kind == "" {
		panic("task kind must be set")
	}

	if task.What == "" {
		panic("task what must be set")
	}

	if task.Where == "" {
		panic("task where must be set")
	}
}

// EndTask writes the task.
func (t *DBTracer) EndTask(task Task) {
	t.mu.Lock()
	defer t.mu.Unlock()

	originalTask, ok := t.tracingTasks[task.ID]
	if !ok {
		return
	}

	delete(t.tracingTasks, task.ID)

	if t.startTime > 0 && task.EndTime < t.startTime {
		return
	}

	t.backend.InsertData(TraceTable, taskTableEntry{
		ID:        originalTask.ID,
		ParentID:  originalTask.ParentID,
		Kind:      originalTask.Kind,
		What:      originalTask.What,
		Location:  originalTask.Where,
		StartTime: float64(originalTask.StartTime),
		EndTime:   float64(task.EndTime),
	})
}

// Terminate drops unfinished tasks and flushes the recorder.
func (t *DBTracer) Terminate() {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.tracingTasks = make(map[string]Task)
	t.backend.Flush()
}
