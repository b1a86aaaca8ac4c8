package tracing

import (
	"github.com/sarchlab/paxflow/sim"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"go.uber.org/mock/gomock"
)

var _ = Describe("DBTracer", func() {
	var (
		mockCtrl *gomock.Controller
		backend  *MockDataRecorder
		t        *DBTracer
	)

	task := func(id string, start sim.VTimeInMin) Task {
		return Task{
			ID:        id,
			Kind:      KindService,
			What:      "passenger 0",
			Where:     "boarding",
			StartTime: start,
		}
	}

	BeforeEach(func() {
		mockCtrl = gomock.NewController(GinkgoT())
		backend = NewMockDataRecorder(mockCtrl)

		backend.EXPECT().CreateTable(TraceTable, gomock.Any())
		t = NewDBTracer(backend)
	})

	AfterEach(func() {
		mockCtrl.Finish()
	})

	It("should write a task when it ends", func() {
		backend.EXPECT().InsertData(TraceTable, taskTableEntry{
			ID:        "1",
			Kind:      KindService,
			What:      "passenger 0",
			Location:  "boarding",
			StartTime: 1,
			EndTime:   2.5,
		})

		t.StartTask(task("1", 1))
		t.EndTask(Task{ID: "1", EndTime: 2.5})
	})

	It("should ignore tasks it has not seen start", func() {
		t.EndTask(Task{ID: "2", EndTime: 2.5})
	})

	It("should skip tasks outside the time range", func() {
		t.SetTimeRange(10, 20)

		t.StartTask(task("early", 1))
		t.EndTask(Task{ID: "early", EndTime: 2})

		t.StartTask(task("late", 25))
		t.EndTask(Task{ID: "late", EndTime: 26})

		backend.EXPECT().InsertData(TraceTable, gomock.Any())
		t.StartTask(task("inside", 9))
		t.EndTask(Task{ID: "inside", EndTime: 11})
	})

	It("should panic on incomplete tasks", func() {
		Expect(func() { t.StartTask(Task{ID: "1"}) }).To(Panic())
	})

	It("should flush on terminate", func() {
		backend.EXPECT().Flush()

		t.StartTask(task("1", 1))
		t.Terminate()
		t.EndTask(Task{ID: "1", EndTime: 2})
	})
})
