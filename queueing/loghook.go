package queueing

import (
	"log"

	"github.com/sarchlab/paxflow/sim"
)

// A LogHook prints one line for every passenger a stage finishes serving.
type LogHook struct {
	*log.Logger
}

// NewLogHook creates a LogHook that writes to the given logger.
func NewLogHook(logger *log.Logger) *LogHook {
	return &LogHook{Logger: logger}
}

// Func logs the service record carried by a ServiceEnd hook.
func (h *LogHook) Func(ctx sim.HookCtx) {
	if ctx.Pos != HookPosServiceEnd {
		return
	}

	rec, ok := ctx.Item.(ServiceRecord)
	if !ok {
		return
	}

	h.Printf("%s passenger %d: ready %.4f, start %.4f, wait %.4f, end %.4f",
		rec.Stage, rec.Index, rec.Ready, rec.Start, rec.Wait(), rec.End)
}
