// Package report renders the summary of a run for operators.
package report

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/sarchlab/paxflow/metrics"
	"github.com/sarchlab/paxflow/sim"
	"gopkg.in/yaml.v3"
)

// Format selects how a report is rendered.
type Format string

// Supported formats.
const (
	FormatText Format = "text"
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// ParseFormat converts a user supplied name into a Format.
func ParseFormat(name string) (Format, error) {
	switch f := Format(strings.ToLower(name)); f {
	case FormatText, FormatJSON, FormatYAML:
		return f, nil
	default:
		return "", &sim.ParameterError{
			Name:   "format",
			Value:  name,
			Reason: "must be text, json, or yaml",
		}
	}
}

// A Document is everything a report shows.
type Document struct {
	RunID     string           `json:"run_id" yaml:"run_id"`
	Seed      int64            `json:"seed" yaml:"seed"`
	Summary   *metrics.Summary `json:"summary" yaml:"summary"`
	Histogram *Histogram       `json:"total_time_histogram" yaml:"total_time_histogram"`
}

// Write renders the document.
func Write(w io.Writer, doc Document, format Format) error {
	switch format {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(doc)
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(doc); err != nil {
			return err
		}
		return enc.Close()
	case FormatText:
		return writeText(w, doc)
	default:
		return fmt.Errorf("unknown report format %q", format)
	}
}

const barWidth = 50

func writeText(w io.Writer, doc Document) error {
	var b strings.Builder

	s := doc.Summary
	fmt.Fprintf(&b, "Run %s (seed %d), %d passengers\n",
		doc.RunID, doc.Seed, s.NumPassengers)
	fmt.Fprintf(&b, "Average Waiting Time: %.2f minutes\n", s.MeanWaitingTime)
	fmt.Fprintf(&b, "Average Total Time in Airport: %.2f minutes\n",
		s.MeanTotalTime)
	fmt.Fprintf(&b, "Total time p50/p90/p99: %.2f / %.2f / %.2f minutes\n",
		s.TotalTimePercentiles.P50,
		s.TotalTimePercentiles.P90,
		s.TotalTimePercentiles.P99)

	fmt.Fprintf(&b, "\n%-12s %10s %10s %12s %12s\n",
		"stage", "mean wait", "max wait", "mean service", "utilization")
	for _, st := range s.Stages {
		fmt.Fprintf(&b, "%-12s %10.2f %10.2f %12.3f %11.1f%%\n",
			st.Stage, st.MeanWait, st.MaxWait, st.MeanService,
			st.Utilization*100)
	}

	if doc.Histogram != nil {
		b.WriteString("\nDistribution of total time in system (minutes)\n")
		writeBars(&b, doc.Histogram)
	}

	_, err := io.WriteString(w, b.String())

	return err
}

func writeBars(b *strings.Builder, h *Histogram) {
	peak := h.Peak()
	edges := h.Edges()

	for i, c := range h.Counts {
		n := 0
		if peak > 0 {
			n = c * barWidth / peak
		}

		fmt.Fprintf(b, "%8.2f - %8.2f | %-*s %d\n",
			edges[i], edges[i+1], barWidth, strings.Repeat("#", n), c)
	}
}
