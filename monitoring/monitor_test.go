package monitoring

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"time"

	"github.com/gorilla/mux"
	"github.com/sarchlab/paxflow/metrics"
	"github.com/sarchlab/paxflow/pipeline"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Monitor", func() {
	var (
		m      *Monitor
		router *mux.Router
		batch  *pipeline.Batch
	)

	get := func(url string) *httptest.ResponseRecorder {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, url, nil))

		return rec
	}

	decode := func(rec *httptest.ResponseRecorder, v any) {
		Expect(rec.Code).To(Equal(http.StatusOK))
		Expect(json.Unmarshal(rec.Body.Bytes(), v)).To(Succeed())
	}

	BeforeEach(func() {
		m = NewMonitor()
		m.profileDuration = 10 * time.Millisecond
		router = m.Router()

		var err error
		batch, err = pipeline.Simulate(pipeline.Params{
			NumPassengers: 20,
			ArrivalRate:   6,
			Stages:        pipeline.AirportStages(9, 7, 5),
			Seed:          3,
			Instrument: func(p *pipeline.Pipeline) {
				for _, s := range p.Stages() {
					m.TrackStage(s, 20)
				}
			},
		})
		Expect(err).NotTo(HaveOccurred())
	})

	It("should answer 404 before a run is registered", func() {
		Expect(get("/api/summary").Code).To(Equal(http.StatusNotFound))
		Expect(get("/api/passengers").Code).To(Equal(http.StatusNotFound))
	})

	Context("with a registered run", func() {
		var summary *metrics.Summary

		BeforeEach(func() {
			var err error
			summary, err = metrics.Aggregate(batch.Passengers)
			Expect(err).NotTo(HaveOccurred())

			m.RegisterRun(batch, summary)
		})

		It("should serve the summary", func() {
			var rsp summaryRsp
			decode(get("/api/summary"), &rsp)

			Expect(rsp.RunID).To(Equal(batch.ID))
			Expect(rsp.Stages).To(HaveLen(3))
			Expect(rsp.Summary.MeanTotalTime).To(
				BeNumerically("~", summary.MeanTotalTime, 1e-9))
		})

		It("should page through passengers", func() {
			var rsp passengerListRsp
			decode(get("/api/passengers?offset=15&limit=10"), &rsp)

			Expect(rsp.Total).To(Equal(20))
			Expect(rsp.Offset).To(Equal(15))
			Expect(rsp.Passengers).To(HaveLen(5))
			Expect(rsp.Passengers[0].Index).To(Equal(15))
			Expect(rsp.Passengers[0].Visits).To(HaveLen(3))
			Expect(rsp.Passengers[0].TotalTime).To(
				BeNumerically("~", summary.TotalTime[15], 1e-9))
		})

		It("should reject bad paging parameters", func() {
			Expect(get("/api/passengers?limit=abc").Code).
				To(Equal(http.StatusBadRequest))
			Expect(get("/api/passengers?offset=-1").Code).
				To(Equal(http.StatusBadRequest))
		})

		It("should serialize one passenger", func() {
			rec := get("/api/passenger/3")

			Expect(rec.Code).To(Equal(http.StatusOK))
			Expect(rec.Body.Len()).To(BeNumerically(">", 0))
		})

		It("should answer 404 for an unknown passenger", func() {
			Expect(get("/api/passenger/20").Code).To(Equal(http.StatusNotFound))
			Expect(get("/api/passenger/x").Code).To(Equal(http.StatusBadRequest))
		})

		It("should bin the total times", func() {
			var rsp struct {
				Counts []int `json:"counts"`
			}
			decode(get("/api/histogram?bins=5"), &rsp)

			Expect(rsp.Counts).To(HaveLen(5))

			sum := 0
			for _, c := range rsp.Counts {
				sum += c
			}
			Expect(sum).To(Equal(20))
		})

		It("should reject a zero bin count", func() {
			Expect(get("/api/histogram?bins=0").Code).
				To(Equal(http.StatusBadRequest))
		})

		It("should reject a bin count above the cap", func() {
			rec := get("/api/histogram?bins=200000000")

			Expect(rec.Code).To(Equal(http.StatusBadRequest))
			Expect(rec.Body.String()).To(ContainSubstring("at most"))
		})
	})

	It("should report the progress of every tracked stage", func() {
		var bars []ProgressBarStatus
		decode(get("/api/progress"), &bars)

		Expect(bars).To(HaveLen(3))
		for _, b := range bars {
			Expect(b.Finished).To(Equal(uint64(20)))
			Expect(b.InProgress).To(BeZero())
		}
	})

	It("should remove completed progress bars", func() {
		bar := m.CreateProgressBar("extra", 1)
		m.CompleteProgressBar(bar)

		var bars []ProgressBarStatus
		decode(get("/api/progress"), &bars)

		Expect(bars).To(HaveLen(3))
	})

	It("should report resource usage", func() {
		var rsp resourceRsp
		decode(get("/api/resource"), &rsp)

		Expect(rsp.MemorySize).To(BeNumerically(">", 0))
	})

	It("should collect a CPU profile", func() {
		rec := get("/api/profile")

		Expect(rec.Code).To(Equal(http.StatusOK))
	})

	It("should fall back to a random port below 1000", func() {
		Expect(m.WithPortNumber(80).portNumber).To(BeZero())
		Expect(m.WithPortNumber(8080).portNumber).To(Equal(8080))
	})

	It("should not open a browser before the server starts", func() {
		Expect(m.OpenBrowser()).To(HaveOccurred())
	})
})
