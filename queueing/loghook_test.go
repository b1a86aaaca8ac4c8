package queueing

import (
	"bytes"
	"log"

	"github.com/sarchlab/paxflow/sim"
	"github.com/sarchlab/paxflow/sim/distribution"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("LogHook", func() {
	It("should log every finished service", func() {
		var buf bytes.Buffer

		s, err := MakeBuilder().
			WithSampler(distribution.Constant(1)).
			Build("boarding")
		Expect(err).NotTo(HaveOccurred())

		s.AcceptHook(NewLogHook(log.New(&buf, "", 0)))

		_, err = s.Process([]sim.VTimeInMin{0, 0.5})
		Expect(err).NotTo(HaveOccurred())

		Expect(buf.String()).To(Equal(
			"boarding passenger 0: ready 0.0000, start 0.0000, " +
				"wait 0.0000, end 1.0000\n" +
				"boarding passenger 1: ready 0.5000, start 1.0000, " +
				"wait 0.5000, end 2.0000\n"))
	})
})
