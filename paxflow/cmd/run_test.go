package cmd

import (
	"context"
	"encoding/json"
	"net/http"
	"path/filepath"

	"github.com/sarchlab/paxflow/config"
	"github.com/sarchlab/paxflow/datarecording"
	"github.com/sarchlab/paxflow/monitoring"
	"github.com/sarchlab/paxflow/pipeline"
	"github.com/sarchlab/paxflow/sim"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

func smallConfig() *config.Config {
	return &config.Config{
		NumPassengers: 25,
		ArrivalRate:   6,
		Stages:        pipeline.AirportStages(9, 7, 5),
		Seed:          42,
		Bins:          5,
		Format:        "json",
	}
}

var _ = Describe("runSimulation", func() {
	It("should run and report", func() {
		Expect(runSimulation(smallConfig())).To(Succeed())
	})

	It("should log the stage traces when verbose", func() {
		verbose = true
		DeferCleanup(func() { verbose = false })

		Expect(runSimulation(smallConfig())).To(Succeed())
	})

	It("should record the run and its traces", func() {
		c := smallConfig()
		c.Record = true
		c.Trace = true
		c.ParallelChunks = 4
		c.RecordPath = filepath.Join(GinkgoT().TempDir(), "run")

		Expect(runSimulation(c)).To(Succeed())

		reader := datarecording.NewReader(c.RecordPath + ".sqlite3")
		DeferCleanup(reader.Close)

		tables, err := reader.ListTables(context.Background())
		Expect(err).NotTo(HaveOccurred())
		Expect(tables).To(ContainElements(
			"passenger", "stage_visit", "summary", "trace"))

		reader.MapTable(datarecording.TableStageVisit,
			datarecording.StageVisitRow{})
		_, visits, err := reader.Query(context.Background(),
			datarecording.TableStageVisit, datarecording.QueryParams{})
		Expect(err).NotTo(HaveOccurred())
		Expect(visits).To(Equal(75))
	})

	It("should serve progress before the run is registered", func() {
		c := smallConfig()
		c.Monitor = true
		r := &runner{cfg: c}

		r.startMonitor()
		Expect(r.monitor.URL()).NotTo(BeEmpty())

		rsp, err := http.Get(r.monitor.URL() + "/api/summary")
		Expect(err).NotTo(HaveOccurred())
		rsp.Body.Close()
		Expect(rsp.StatusCode).To(Equal(http.StatusNotFound))

		params := c.Params()
		params.Instrument = r.instrument
		_, err = pipeline.Simulate(params)
		Expect(err).NotTo(HaveOccurred())

		rsp, err = http.Get(r.monitor.URL() + "/api/progress")
		Expect(err).NotTo(HaveOccurred())
		defer rsp.Body.Close()

		var bars []monitoring.ProgressBarStatus
		Expect(json.NewDecoder(rsp.Body).Decode(&bars)).To(Succeed())
		Expect(bars).To(HaveLen(3))
		for _, b := range bars {
			Expect(b.Finished).To(Equal(uint64(25)))
			Expect(b.InProgress).To(BeZero())
		}
	})

	It("should reject an unknown format", func() {
		c := smallConfig()
		c.Format = "xml"

		Expect(runSimulation(c)).To(MatchError(sim.ErrInvalidParameter))
	})
})
