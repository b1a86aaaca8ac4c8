// Package monitoring serves the results of a run over HTTP.
package monitoring

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net"
	"net/http"
	"os"
	"runtime/pprof"
	"strconv"
	"sync"
	"time"

	"github.com/google/pprof/profile"
	"github.com/gorilla/mux"
	"github.com/pkg/browser"
	"github.com/sarchlab/paxflow/metrics"
	"github.com/sarchlab/paxflow/pipeline"
	"github.com/sarchlab/paxflow/report"
	"github.com/sarchlab/paxflow/sim"
	"github.com/shirou/gopsutil/process"
	"github.com/syifan/goseth"
)

// Monitor turns a run into a server so that its passengers and statistics
// can be inspected from a browser.
type Monitor struct {
	portNumber      int
	url             string
	profileDuration time.Duration
	idGen           sim.IDGenerator

	runLock sync.RWMutex
	batch   *pipeline.Batch
	summary *metrics.Summary

	progressBarsLock sync.Mutex
	progressBars     []*ProgressBar
}

// NewMonitor creates a new Monitor
func NewMonitor() *Monitor {
	return &Monitor{
		profileDuration: time.Second,
		idGen:           sim.NewSequentialIDGenerator(),
	}
}

// WithPortNumber sets the port number of the monitor.
func (m *Monitor) WithPortNumber(portNumber int) *Monitor {
	if portNumber != 0 && portNumber < 1000 {
		fmt.Fprintf(os.Stderr,
			"Port number %d is assigned to the monitoring server, "+
				"which is not allowed. Using a random port instead.\n", portNumber)
		portNumber = 0
	}

	m.portNumber = portNumber

	return m
}

// RegisterRun sets the batch and its summary to be served.
func (m *Monitor) RegisterRun(batch *pipeline.Batch, summary *metrics.Summary) {
	m.runLock.Lock()
	defer m.runLock.Unlock()

	m.batch = batch
	m.summary = summary
}

// CreateProgressBar creates a new progress bar.
func (m *Monitor) CreateProgressBar(name string, total uint64) *ProgressBar {
	bar := &ProgressBar{
		ID:        m.idGen.Generate(),
		Name:      name,
		StartTime: time.Now(),
		Total:     total,
	}

	m.progressBarsLock.Lock()
	defer m.progressBarsLock.Unlock()

	m.progressBars = append(m.progressBars, bar)

	return bar
}

// CompleteProgressBar removes a bar to be shown on the webpage.
func (m *Monitor) CompleteProgressBar(pb *ProgressBar) {
	m.progressBarsLock.Lock()
	defer m.progressBarsLock.Unlock()

	newBars := make([]*ProgressBar, 0, len(m.progressBars))
	for _, b := range m.progressBars {
		if b != pb {
			newBars = append(newBars, b)
		}
	}

	m.progressBars = newBars
}

// Router returns the handler of all the monitoring endpoints.
func (m *Monitor) Router() *mux.Router {
	r := mux.NewRouter()

	r.HandleFunc("/api/summary", m.getSummary)
	r.HandleFunc("/api/passengers", m.listPassengers)
	r.HandleFunc("/api/passenger/{index}", m.passengerDetails)
	r.HandleFunc("/api/histogram", m.getHistogram)
	r.HandleFunc("/api/progress", m.listProgressBars)
	r.HandleFunc("/api/resource", m.listResources)
	r.HandleFunc("/api/profile", m.collectProfile)

	return r
}

// StartServer starts the monitor as a web server with a custom port if wanted.
// It returns once the server is listening.
func (m *Monitor) StartServer() {
	actualPort := ":0"
	if m.portNumber > 1000 {
		actualPort = ":" + strconv.Itoa(m.portNumber)
	}

	listener, err := net.Listen("tcp", actualPort)
	dieOnErr(err)

	m.url = fmt.Sprintf("http://localhost:%d",
		listener.Addr().(*net.TCPAddr).Port)

	fmt.Fprintf(os.Stderr, "Monitoring simulation with %s\n", m.url)

	r := m.Router()

	go func() {
		err := http.Serve(listener, r)
		dieOnErr(err)
	}()
}

// URL returns the address of the running server, or an empty string.
func (m *Monitor) URL() string {
	return m.url
}

// OpenBrowser opens the summary page of the running server.
func (m *Monitor) OpenBrowser() error {
	if m.url == "" {
		return errors.New("monitoring server is not started")
	}

	return browser.OpenURL(m.url + "/api/summary")
}

func (m *Monitor) runOr404(
	w http.ResponseWriter,
) (*pipeline.Batch, *metrics.Summary) {
	m.runLock.RLock()
	defer m.runLock.RUnlock()

	if m.batch == nil || m.summary == nil {
		w.WriteHeader(http.StatusNotFound)
		_, err := w.Write([]byte("No run registered"))
		dieOnErr(err)

		return nil, nil
	}

	return m.batch, m.summary
}

type summaryRsp struct {
	RunID   string           `json:"run_id"`
	Stages  []string         `json:"stages"`
	Summary *metrics.Summary `json:"summary"`
}

func (m *Monitor) getSummary(w http.ResponseWriter, _ *http.Request) {
	batch, summary := m.runOr404(w)
	if batch == nil {
		return
	}

	writeJSON(w, summaryRsp{
		RunID:   batch.ID,
		Stages:  batch.Stages,
		Summary: summary,
	})
}

type passengerRsp struct {
	sim.Passenger

	WaitingTime sim.VTimeInMin `json:"waiting_time"`
	TotalTime   sim.VTimeInMin `json:"total_time"`
}

type passengerListRsp struct {
	Total      int            `json:"total"`
	Offset     int            `json:"offset"`
	Passengers []passengerRsp `json:"passengers"`
}

func (m *Monitor) listPassengers(w http.ResponseWriter, r *http.Request) {
	limit, offset, err := pageParams(r)
	if err != nil {
		badRequest(w, err)
		return
	}

	batch, summary := m.runOr404(w)
	if batch == nil {
		return
	}

	total := batch.Len()
	first := min(offset, total)
	last := total
	if limit > 0 {
		last = min(first+limit, total)
	}

	rsp := passengerListRsp{
		Total:      total,
		Offset:     first,
		Passengers: make([]passengerRsp, 0, last-first),
	}

	for i := first; i < last; i++ {
		rsp.Passengers = append(rsp.Passengers, passengerRsp{
			Passenger:   batch.Passengers[i],
			WaitingTime: summary.WaitingTime[i],
			TotalTime:   summary.TotalTime[i],
		})
	}

	writeJSON(w, rsp)
}

func pageParams(r *http.Request) (limit, offset int, err error) {
	limit, err = intParam(r, "limit", 0)
	if err != nil {
		return 0, 0, err
	}

	offset, err = intParam(r, "offset", 0)
	if err != nil {
		return 0, 0, err
	}

	if limit < 0 || offset < 0 {
		return 0, 0, errors.New("limit and offset must not be negative")
	}

	return limit, offset, nil
}

func intParam(r *http.Request, name string, def int) (int, error) {
	str := r.URL.Query().Get(name)
	if str == "" {
		return def, nil
	}

	v, err := strconv.Atoi(str)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", name, err)
	}

	return v, nil
}

func (m *Monitor) passengerDetails(w http.ResponseWriter, r *http.Request) {
	index, err := strconv.Atoi(mux.Vars(r)["index"])
	if err != nil {
		badRequest(w, err)
		return
	}

	batch, _ := m.runOr404(w)
	if batch == nil {
		return
	}

	if index < 0 || index >= batch.Len() {
		w.WriteHeader(http.StatusNotFound)
		_, err := w.Write([]byte("Passenger not found"))
		dieOnErr(err)

		return
	}

	serializer := goseth.NewSerializer()
	serializer.SetRoot(&batch.Passengers[index])
	serializer.SetMaxDepth(3)
	err = serializer.Serialize(w)

	dieOnErr(err)
}

func (m *Monitor) getHistogram(w http.ResponseWriter, r *http.Request) {
	bins, err := intParam(r, "bins", report.DefaultBins)
	if err != nil {
		badRequest(w, err)
		return
	}

	_, summary := m.runOr404(w)
	if summary == nil {
		return
	}

	h, err := report.NewHistogram(summary.TotalTime, bins)
	if err != nil {
		badRequest(w, err)
		return
	}

	writeJSON(w, h)
}

func (m *Monitor) listProgressBars(w http.ResponseWriter, _ *http.Request) {
	m.progressBarsLock.Lock()
	bars := make([]ProgressBarStatus, 0, len(m.progressBars))
	for _, b := range m.progressBars {
		bars = append(bars, b.Status())
	}
	m.progressBarsLock.Unlock()

	writeJSON(w, bars)
}

type resourceRsp struct {
	CPUPercent float64 `json:"cpu_percent"`
	MemorySize uint64  `json:"memory_size"`
}

func (m *Monitor) listResources(w http.ResponseWriter, _ *http.Request) {
	pid := os.Getpid()
	process, err := process.NewProcess(int32(pid))
	dieOnErr(err)

	cpuPercent, err := process.CPUPercent()
	dieOnErr(err)

	memorySize, err := process.MemoryInfo()
	dieOnErr(err)

	writeJSON(w, resourceRsp{
		CPUPercent: cpuPercent,
		MemorySize: memorySize.RSS,
	})
}

func (m *Monitor) collectProfile(w http.ResponseWriter, _ *http.Request) {
	buf := bytes.NewBuffer(nil)

	err := pprof.StartCPUProfile(buf)
	if err != nil {
		w.WriteHeader(http.StatusConflict)
		fmt.Fprintf(w, "Error: %s", err)
		return
	}

	time.Sleep(m.profileDuration)

	pprof.StopCPUProfile()

	prof, err := profile.ParseData(buf.Bytes())
	dieOnErr(err)

	writeJSON(w, prof)
}

func writeJSON(w http.ResponseWriter, v any) {
	bytes, err := json.Marshal(v)
	dieOnErr(err)

	w.Header().Set("Content-Type", "application/json")
	_, err = w.Write(bytes)
	dieOnErr(err)
}

func badRequest(w http.ResponseWriter, err error) {
	w.WriteHeader(http.StatusBadRequest)
	fmt.Fprintf(w, "Error: %s", err)
}

func dieOnErr(err error) {
	if err != nil {
		log.Panic(err)
	}
}
