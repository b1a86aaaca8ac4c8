package datarecording

import (
	"context"
	"fmt"

	"github.com/sarchlab/paxflow/metrics"
	"github.com/sarchlab/paxflow/pipeline"
	"github.com/sarchlab/paxflow/sim"
)

// Table names used by RecordBatch.
const (
	TablePassenger  = "passenger"
	TableStageVisit = "stage_visit"
	TableSummary    = "summary"
)

// PassengerRow is one row of the passenger table.
type PassengerRow struct {
	RunID          string
	PassengerIndex int
	Arrival        sim.VTimeInMin
	Departure      sim.VTimeInMin
	WaitingTime    sim.VTimeInMin
	TotalTime      sim.VTimeInMin
}

// StageVisitRow is one row of the stage_visit table.
type StageVisitRow struct {
	RunID          string
	PassengerIndex int
	Stage          string
	ReadyTime      sim.VTimeInMin
	StartTime      sim.VTimeInMin
	ServiceTime    sim.VTimeInMin
	EndTime        sim.VTimeInMin
	WaitTime       sim.VTimeInMin
}

// SummaryRow is one row of the summary table.
type SummaryRow struct {
	RunID           string
	Seed            int64
	NumPassengers   int
	MeanWaitingTime sim.VTimeInMin
	MeanTotalTime   sim.VTimeInMin
	MaxWaitingTime  sim.VTimeInMin
	MaxTotalTime    sim.VTimeInMin
	P50TotalTime    sim.VTimeInMin
	P90TotalTime    sim.VTimeInMin
	P99TotalTime    sim.VTimeInMin
}

// RecordBatch writes every passenger, every stage visit, and the summary of
// a run, then flushes the recorder.
func RecordBatch(
	recorder DataRecorder,
	seed int64,
	batch *pipeline.Batch,
	summary *metrics.Summary,
) {
	ensureTables(recorder)

	for i := range batch.Passengers {
		p := &batch.Passengers[i]

		recorder.InsertData(TablePassenger, PassengerRow{
			RunID:          batch.ID,
			PassengerIndex: p.Index,
			Arrival:        p.Arrival,
			Departure:      p.Departure(),
			WaitingTime:    summary.WaitingTime[i],
			TotalTime:      summary.TotalTime[i],
		})

		for _, v := range p.Visits {
			recorder.InsertData(TableStageVisit, StageVisitRow{
				RunID:          batch.ID,
				PassengerIndex: p.Index,
				Stage:          v.Stage,
				ReadyTime:      v.Ready,
				StartTime:      v.Start,
				ServiceTime:    v.Service,
				EndTime:        v.End,
				WaitTime:       v.Wait(),
			})
		}
	}

	recorder.InsertData(TableSummary, SummaryRow{
		RunID:           batch.ID,
		Seed:            seed,
		NumPassengers:   summary.NumPassengers,
		MeanWaitingTime: summary.MeanWaitingTime,
		MeanTotalTime:   summary.MeanTotalTime,
		MaxWaitingTime:  summary.MaxWaitingTime,
		MaxTotalTime:    summary.MaxTotalTime,
		P50TotalTime:    summary.TotalTimePercentiles.P50,
		P90TotalTime:    summary.TotalTimePercentiles.P90,
		P99TotalTime:    summary.TotalTimePercentiles.P99,
	})

	recorder.Flush()
}

func ensureTables(recorder DataRecorder) {
	existing := make(map[string]bool)
	for _, t := range recorder.ListTables() {
		existing[t] = true
	}

	samples := []struct {
		name   string
		sample any
	}{
		{TablePassenger, PassengerRow{}},
		{TableStageVisit, StageVisitRow{}},
		{TableSummary, SummaryRow{}},
	}

	for _, s := range samples {
		if !existing[s.name] {
			recorder.CreateTable(s.name, s.sample)
		}
	}
}

// ReadSummary reads back the summary recorded for a run.
func ReadSummary(
	ctx context.Context,
	reader DataReader,
	runID string,
) (*SummaryRow, error) {
	reader.MapTable(TableSummary, SummaryRow{})

	rows, _, err := reader.Query(ctx, TableSummary, QueryParams{
		Where: "RunID = ?",
		Args:  []any{runID},
		Limit: 1,
	})
	if err != nil {
		return nil, err
	}

	if len(rows) == 0 {
		return nil, fmt.Errorf("no summary recorded for run %s", runID)
	}

	return rows[0].(*SummaryRow), nil
}
