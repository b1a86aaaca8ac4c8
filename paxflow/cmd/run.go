package cmd

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"

	"github.com/sarchlab/paxflow/analysis"
	"github.com/sarchlab/paxflow/config"
	"github.com/sarchlab/paxflow/datarecording"
	"github.com/sarchlab/paxflow/metrics"
	"github.com/sarchlab/paxflow/monitoring"
	"github.com/sarchlab/paxflow/pipeline"
	"github.com/sarchlab/paxflow/queueing"
	"github.com/sarchlab/paxflow/report"
	"github.com/sarchlab/paxflow/sim"
	"github.com/sarchlab/paxflow/tracing"
	"github.com/spf13/cobra"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Simulate a batch of passengers and report the delays.",
	RunE: func(_ *cobra.Command, _ []string) error {
		c, err := loadConfig()
		if err != nil {
			return err
		}

		return runSimulation(c)
	},
}

func init() {
	rootCmd.AddCommand(runCmd)
}

type stageTracers struct {
	stage string
	queue *tracing.AverageTimeTracer
	busy  *tracing.BusyTimeTracer
}

type runner struct {
	cfg      *config.Config
	recorder datarecording.DataRecorder
	monitor  *monitoring.Monitor
	tracers  []stageTracers
	queues   *analysis.QueueAnalyzer
}

func runSimulation(c *config.Config) error {
	r := &runner{cfg: c}

	format, err := report.ParseFormat(c.Format)
	if err != nil {
		return err
	}

	if c.Record {
		r.recorder = datarecording.New(c.RecordPath)
		defer r.recorder.Close()
	}

	if c.Monitor {
		r.startMonitor()
	}

	params := c.Params()
	params.Instrument = r.instrument

	batch, err := pipeline.Simulate(params)
	if err != nil {
		return err
	}

	summary, err := metrics.Aggregate(batch.Passengers)
	if err != nil {
		return err
	}

	hist, err := report.NewHistogram(summary.TotalTime, c.Bins)
	if err != nil {
		return err
	}

	r.logTraces()

	err = report.Write(os.Stdout, report.Document{
		RunID:     batch.ID,
		Seed:      c.Seed,
		Summary:   summary,
		Histogram: hist,
	}, format)
	if err != nil {
		return err
	}

	if r.recorder != nil {
		datarecording.RecordBatch(r.recorder, c.Seed, batch, summary)
	}

	if r.monitor != nil {
		return r.serve(batch, summary)
	}

	return nil
}

// startMonitor starts the server before the run so that /api/progress shows
// the stages while they serve. The results are served once registered.
func (r *runner) startMonitor() {
	r.monitor = monitoring.NewMonitor().WithPortNumber(r.cfg.MonitorPort)
	r.monitor.StartServer()
}

// instrument attaches the tracers, progress bars, and the trace recorder to
// every stage.
func (r *runner) instrument(p *pipeline.Pipeline) {
	var dbTracer *tracing.DBTracer
	if r.cfg.Trace && r.recorder != nil {
		dbTracer = tracing.NewDBTracer(r.recorder)
	}

	idGen := sim.NewSequentialIDGenerator()
	if r.cfg.ParallelChunks > 1 {
		idGen = sim.NewParallelIDGenerator()
	}

	if verbose {
		r.queues = analysis.NewQueueAnalyzer()
	}

	for _, s := range p.Stages() {
		if logServices {
			s.AcceptHook(queueing.NewLogHook(log.Default()))
		}

		if verbose {
			t := stageTracers{
				stage: s.Name(),
				queue: tracing.NewAverageTimeTracer(
					tracing.KindFilter(tracing.KindQueue)),
				busy: tracing.NewBusyTimeTracer(
					tracing.KindFilter(tracing.KindService)),
			}
			tracing.CollectTraceWithIDGenerator(s, t.queue, idGen)
			tracing.CollectTraceWithIDGenerator(s, t.busy, idGen)
			r.tracers = append(r.tracers, t)
			r.queues.Attach(s)
		}

		if dbTracer != nil {
			tracing.CollectTraceWithIDGenerator(s, dbTracer, idGen)
		}

		if r.monitor != nil {
			r.monitor.TrackStage(s, uint64(r.cfg.NumPassengers))
		}
	}
}

func (r *runner) logTraces() {
	for _, t := range r.tracers {
		log.Printf("stage %s: %d passengers, average queueing %.3f min, "+
			"busy %.2f min",
			t.stage, t.queue.TotalCount(), t.queue.AverageTime(),
			t.busy.BusyTime())
	}

	if r.queues == nil {
		return
	}

	if worst, ok := r.queues.Bottleneck(); ok {
		log.Printf("bottleneck: %s, %.2f passengers waiting on average, "+
			"at most %d", worst.Stage, worst.AverageLevel, worst.MaxLevel)
	}
}

func (r *runner) serve(
	batch *pipeline.Batch,
	summary *metrics.Summary,
) error {
	r.monitor.RegisterRun(batch, summary)

	if r.cfg.OpenBrowser {
		if err := r.monitor.OpenBrowser(); err != nil {
			log.Printf("cannot open browser: %v", err)
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	fmt.Fprintln(os.Stderr, "Press Ctrl+C to stop the monitoring server.")
	<-ctx.Done()

	return nil
}
