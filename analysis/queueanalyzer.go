// Package analysis finds the bottleneck of a pipeline from the queue lengths
// of its stages.
package analysis

import (
	"fmt"
	"io"
	"slices"
	"sync"

	"github.com/sarchlab/paxflow/queueing"
	"github.com/sarchlab/paxflow/sim"
)

// QueueAnalyzer records when passengers join and leave the queue of every
// stage it is attached to.
type QueueAnalyzer struct {
	lock   sync.Mutex
	order  []string
	queues map[string]*queueInfo
}

// queueInfo only holds the passengers that actually waited.
type queueInfo struct {
	joins, leaves []sim.VTimeInMin
}

// QueueStats describes the number of passengers waiting at a stage over time.
type QueueStats struct {
	Stage string

	// AverageLevel is the time-weighted mean number of passengers waiting,
	// between the first join and the last leave.
	AverageLevel float64
	MaxLevel     int

	// LevelToDuration maps a queue length to the total time the queue had
	// that length.
	LevelToDuration map[int]sim.VTimeInMin
}

// NewQueueAnalyzer creates a new QueueAnalyzer.
func NewQueueAnalyzer() *QueueAnalyzer {
	return &QueueAnalyzer{
		queues: make(map[string]*queueInfo),
	}
}

// Attach makes the analyzer observe a stage.
func (a *QueueAnalyzer) Attach(stage *queueing.Stage) {
	stage.AcceptHook(a)
}

// Func records a passenger entering service.
func (a *QueueAnalyzer) Func(ctx sim.HookCtx) {
	if ctx.Pos != queueing.HookPosServiceStart {
		return
	}

	rec, ok := ctx.Item.(queueing.ServiceRecord)
	if !ok {
		return
	}

	a.lock.Lock()
	defer a.lock.Unlock()

	q, ok := a.queues[rec.Stage]
	if !ok {
		q = &queueInfo{}
		a.queues[rec.Stage] = q
		a.order = append(a.order, rec.Stage)
	}

	if rec.Start > rec.Ready {
		q.joins = append(q.joins, rec.Ready)
		q.leaves = append(q.leaves, rec.Start)
	}
}

// Stats returns the queue statistics of every observed stage, in the order
// the stages were first seen.
func (a *QueueAnalyzer) Stats() []QueueStats {
	a.lock.Lock()
	defer a.lock.Unlock()

	stats := make([]QueueStats, 0, len(a.order))
	for _, name := range a.order {
		stats = append(stats, a.queues[name].stats(name))
	}

	return stats
}

// Bottleneck returns the stage with the longest average queue. It returns
// false if no stage has been observed.
func (a *QueueAnalyzer) Bottleneck() (QueueStats, bool) {
	stats := a.Stats()
	if len(stats) == 0 {
		return QueueStats{}, false
	}

	worst := stats[0]
	for _, s := range stats[1:] {
		if s.AverageLevel > worst.AverageLevel {
			worst = s
		}
	}

	return worst, true
}

// Report writes one line per stage: name, average level, max level.
func (a *QueueAnalyzer) Report(w io.Writer) error {
	for _, s := range a.Stats() {
		_, err := fmt.Fprintf(w, "%s, %.10f, %d\n",
			s.Stage, s.AverageLevel, s.MaxLevel)
		if err != nil {
			return err
		}
	}

	return nil
}

// stats sweeps the join and leave times in time order. On a tie, leaves are
// applied first.
func (q *queueInfo) stats(name string) QueueStats {
	s := QueueStats{
		Stage:           name,
		LevelToDuration: make(map[int]sim.VTimeInMin),
	}

	if len(q.joins) == 0 {
		return s
	}

	joins := slices.Clone(q.joins)
	leaves := slices.Clone(q.leaves)
	slices.Sort(joins)
	slices.Sort(leaves)

	level := 0
	lastTime := joins[0]
	i, j := 0, 0

	for i < len(joins) || j < len(leaves) {
		leave := j < len(leaves) && (i >= len(joins) || leaves[j] <= joins[i])

		var now sim.VTimeInMin
		if leave {
			now = leaves[j]
		} else {
			now = joins[i]
		}

		if now > lastTime {
			s.LevelToDuration[level] += now - lastTime
			lastTime = now
		}

		if leave {
			level--
			j++
		} else {
			level++
			i++
		}

		s.MaxLevel = max(s.MaxLevel, level)
	}

	var sum, durationSum float64
	for l, d := range s.LevelToDuration {
		sum += float64(l) * float64(d)
		durationSum += float64(d)
	}

	if durationSum > 0 {
		s.AverageLevel = sum / durationSum
	}

	return s
}
