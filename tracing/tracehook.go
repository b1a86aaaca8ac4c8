package tracing

import (
	"fmt"
	"reflect"
	"strconv"

	"github.com/sarchlab/paxflow/queueing"
	"github.com/sarchlab/paxflow/sim"
)

// NamedHookable represent something both have a name and can be hooked
type NamedHookable interface {
	sim.Hookable
	Name() string
	Hooks() []sim.Hook
}

// CollectTrace lets the tracer collect the queue and service tasks of a
// stage. Task IDs are sequential.
func CollectTrace(domain NamedHookable, tracer Tracer) {
	CollectTraceWithIDGenerator(domain, tracer, sim.NewSequentialIDGenerator())
}

// CollectTraceWithIDGenerator is CollectTrace with a custom ID generator.
func CollectTraceWithIDGenerator(
	domain NamedHookable,
	tracer Tracer,
	idGen sim.IDGenerator,
) {
	for _, hook := range domain.Hooks() {
		hook, ok := hook.(*traceHook)
		if ok && hook.t == tracer {
			panic(fmt.Sprintf(
				"domain %s already has tracer %s",
				domain.Name(), reflect.TypeOf(tracer)))
		}
	}

	h := &traceHook{
		t:        tracer,
		idGen:    idGen,
		inflight: make(map[int]string),
	}
	domain.AcceptHook(h)
}

// A traceHook converts service records into tasks. Each passenger produces a
// queue task from ready to start and a service task from start to end. The
// queue task is the parent of the service task.
type traceHook struct {
	t        Tracer
	idGen    sim.IDGenerator
	inflight map[int]string
}

// Func calls the tracer interfaces when the hook is triggered
func (h *traceHook) Func(ctx sim.HookCtx) {
	rec, ok := ctx.Item.(queueing.ServiceRecord)
	if !ok {
		return
	}

	switch ctx.Pos {
	case queueing.HookPosServiceStart:
		h.serviceStart(rec)
	case queueing.HookPosServiceEnd:
		h.serviceEnd(rec)
	}
}

func (h *traceHook) serviceStart(rec queueing.ServiceRecord) {
	what := "passenger " + strconv.Itoa(rec.Index)

	queue := Task{
		ID:        h.idGen.Generate(),
		Kind:      KindQueue,
		What:      what,
		Where:     rec.Stage,
		StartTime: rec.Ready,
		Detail:    rec,
	}
	h.t.StartTask(queue)

	queue.EndTime = rec.Start
	h.t.EndTask(queue)

	service := Task{
		ID:        h.idGen.Generate(),
		ParentID:  queue.ID,
		Kind:      KindService,
		What:      what,
		Where:     rec.Stage,
		StartTime: rec.Start,
		Detail:    rec,
	}
	h.inflight[rec.Index] = service.ID
	h.t.StartTask(service)
}

func (h *traceHook) serviceEnd(rec queueing.ServiceRecord) {
	id, ok := h.inflight[rec.Index]
	if !ok {
		return
	}

	delete(h.inflight, rec.Index)

	h.t.EndTask(Task{
		ID:      id,
		Kind:    KindService,
		Where:   rec.Stage,
		EndTime: rec.End,
		Detail:  rec,
	})
}
