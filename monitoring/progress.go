package monitoring

import (
	"sync"
	"time"

	"github.com/sarchlab/paxflow/queueing"
	"github.com/sarchlab/paxflow/sim"
)

// A ProgressBar is a tracker of the progress
type ProgressBar struct {
	sync.Mutex
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	StartTime  time.Time `json:"start_time"`
	Total      uint64    `json:"total"`
	Finished   uint64    `json:"finished"`
	InProgress uint64    `json:"in_progress"`
}

// ProgressBarStatus is a snapshot of a ProgressBar.
type ProgressBarStatus struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	StartTime  time.Time `json:"start_time"`
	Total      uint64    `json:"total"`
	Finished   uint64    `json:"finished"`
	InProgress uint64    `json:"in_progress"`
}

// Status returns a consistent snapshot of the bar.
func (b *ProgressBar) Status() ProgressBarStatus {
	b.Lock()
	defer b.Unlock()

	return ProgressBarStatus{
		ID:         b.ID,
		Name:       b.Name,
		StartTime:  b.StartTime,
		Total:      b.Total,
		Finished:   b.Finished,
		InProgress: b.InProgress,
	}
}

// IncrementInProgress adds the number of in-progress element.
func (b *ProgressBar) IncrementInProgress(amount uint64) {
	b.Lock()
	defer b.Unlock()

	b.InProgress += amount
}

// IncrementFinished add a certain amount to finished element.
func (b *ProgressBar) IncrementFinished(amount uint64) {
	b.Lock()
	defer b.Unlock()

	b.Finished += amount
}

// MoveInProgressToFinished reduces the number of in progress item by a certain
// amount and increase the finished item by the same amount.
func (b *ProgressBar) MoveInProgressToFinished(amount uint64) {
	b.Lock()
	defer b.Unlock()

	b.InProgress -= amount
	b.Finished += amount
}

// progressHook moves one passenger from in progress to finished every time
// a stage completes a service.
type progressHook struct {
	bar *ProgressBar
}

func (h progressHook) Func(ctx sim.HookCtx) {
	switch ctx.Pos {
	case queueing.HookPosServiceStart:
		h.bar.IncrementInProgress(1)
	case queueing.HookPosServiceEnd:
		h.bar.MoveInProgressToFinished(1)
	}
}

// TrackStage creates a progress bar that counts the passengers served by a
// stage. The bar is live only if the server is started before the stage
// serves.
func (m *Monitor) TrackStage(
	stage interface {
		sim.Hookable
		Name() string
	},
	total uint64,
) *ProgressBar {
	bar := m.CreateProgressBar(stage.Name(), total)
	stage.AcceptHook(progressHook{bar: bar})

	return bar
}
