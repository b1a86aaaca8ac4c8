// Package metrics derives delay statistics from a finished passenger batch.
package metrics

import (
	"github.com/sarchlab/paxflow/sim"
)

// StageStats summarizes one stage over the batch.
type StageStats struct {
	Stage       string         `json:"stage" yaml:"stage"`
	MeanWait    sim.VTimeInMin `json:"mean_wait" yaml:"mean_wait"`
	MaxWait     sim.VTimeInMin `json:"max_wait" yaml:"max_wait"`
	MeanService sim.VTimeInMin `json:"mean_service" yaml:"mean_service"`

	// Utilization is the fraction of time between the first passenger
	// becoming ready and the last passenger leaving during which the server
	// is busy.
	Utilization float64 `json:"utilization" yaml:"utilization"`
}

// Percentiles of a per-passenger quantity.
type Percentiles struct {
	P50 sim.VTimeInMin `json:"p50" yaml:"p50"`
	P90 sim.VTimeInMin `json:"p90" yaml:"p90"`
	P99 sim.VTimeInMin `json:"p99" yaml:"p99"`
}

// A Summary holds the per-passenger delays and the batch statistics.
type Summary struct {
	NumPassengers int `json:"num_passengers" yaml:"num_passengers"`

	// WaitingTime[i] is the total time passenger i spent queueing.
	WaitingTime []sim.VTimeInMin `json:"-" yaml:"-"`

	// TotalTime[i] is the time from the arrival of passenger i to the end of
	// its last stage.
	TotalTime []sim.VTimeInMin `json:"-" yaml:"-"`

	MeanWaitingTime sim.VTimeInMin `json:"mean_waiting_time" yaml:"mean_waiting_time"`
	MeanTotalTime   sim.VTimeInMin `json:"mean_total_time" yaml:"mean_total_time"`
	MaxWaitingTime  sim.VTimeInMin `json:"max_waiting_time" yaml:"max_waiting_time"`
	MaxTotalTime    sim.VTimeInMin `json:"max_total_time" yaml:"max_total_time"`

	TotalTimePercentiles Percentiles `json:"total_time_percentiles" yaml:"total_time_percentiles"`

	Stages []StageStats `json:"stages" yaml:"stages"`
}

// Aggregate computes the summary of a batch. It returns sim.ErrEmptyBatch if
// there is no passenger, since a mean over zero passengers is undefined.
func Aggregate(passengers []sim.Passenger) (*Summary, error) {
	n := len(passengers)
	if n == 0 {
		return nil, sim.ErrEmptyBatch
	}

	s := &Summary{
		NumPassengers: n,
		WaitingTime:   make([]sim.VTimeInMin, n),
		TotalTime:     make([]sim.VTimeInMin, n),
	}

	var sumWait, sumTotal sim.VTimeInMin
	for i := range passengers {
		p := &passengers[i]

		s.WaitingTime[i] = p.WaitingTime()
		s.TotalTime[i] = p.TotalTime()

		sumWait += s.WaitingTime[i]
		sumTotal += s.TotalTime[i]
		s.MaxWaitingTime = max(s.MaxWaitingTime, s.WaitingTime[i])
		s.MaxTotalTime = max(s.MaxTotalTime, s.TotalTime[i])
	}

	s.MeanWaitingTime = sumWait / sim.VTimeInMin(n)
	s.MeanTotalTime = sumTotal / sim.VTimeInMin(n)

	s.TotalTimePercentiles = Percentiles{
		P50: Percentile(s.TotalTime, 50),
		P90: Percentile(s.TotalTime, 90),
		P99: Percentile(s.TotalTime, 99),
	}

	s.Stages = stageStats(passengers)

	return s, nil
}

func stageStats(passengers []sim.Passenger) []StageStats {
	first := passengers[0]
	stats := make([]StageStats, len(first.Visits))

	for k := range stats {
		var sumWait, busy sim.VTimeInMin

		opened := first.Visits[k].Ready
		closed := first.Visits[k].End

		for i := range passengers {
			v := passengers[i].Visits[k]

			sumWait += v.Wait()
			busy += v.Service
			stats[k].MaxWait = max(stats[k].MaxWait, v.Wait())
			opened = min(opened, v.Ready)
			closed = max(closed, v.End)
		}

		n := sim.VTimeInMin(len(passengers))
		stats[k].Stage = first.Visits[k].Stage
		stats[k].MeanWait = sumWait / n
		stats[k].MeanService = busy / n

		if span := closed - opened; span > 0 {
			stats[k].Utilization = float64(busy / span)
		}
	}

	return stats
}
