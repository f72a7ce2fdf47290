package monitor

import (
	"fmt"
	"sync/atomic"
	"time"
)

// Recorder receives timing observations from the parsers and the extractor.
// Implementations must be safe for concurrent use.
type Recorder interface {
	RecordParse(d time.Duration)
	RecordExtraction(d time.Duration)
	RecordNormalization(d time.Duration)
}

// Nop discards every observation.
type Nop struct{}

func (Nop) RecordParse(time.Duration)         {}
func (Nop) RecordExtraction(time.Duration)    {}
func (Nop) RecordNormalization(time.Duration) {}

// OrNop returns r, or a Nop recorder when r is nil.
func OrNop(r Recorder) Recorder {
	if r == nil {
		return Nop{}
	}
	return r
}

// Metrics accumulates timing totals for a run.
type Metrics struct {
	parseTime         atomic.Int64
	parseCount        atomic.Int64
	extractionTime    atomic.Int64
	normalizationTime atomic.Int64
}

// NewMetrics creates an empty Metrics
func NewMetrics() *Metrics {
	return &Metrics{}
}

// RecordParse adds one parse observation
func (m *Metrics) RecordParse(d time.Duration) {
	m.parseTime.Add(int64(d))
	m.parseCount.Add(1)
}

// RecordExtraction adds to the extraction total
func (m *Metrics) RecordExtraction(d time.Duration) {
	m.extractionTime.Add(int64(d))
}

// RecordNormalization adds to the normalization total
func (m *Metrics) RecordNormalization(d time.Duration) {
	m.normalizationTime.Add(int64(d))
}

// Snapshot is a point-in-time copy of the totals.
type Snapshot struct {
	ParseTime         time.Duration
	ParseCount        int64
	ExtractionTime    time.Duration
	NormalizationTime time.Duration
}

// Snapshot returns the current totals
func (m *Metrics) Snapshot() Snapshot {
	return Snapshot{
		ParseTime:         time.Duration(m.parseTime.Load()),
		ParseCount:        m.parseCount.Load(),
		ExtractionTime:    time.Duration(m.extractionTime.Load()),
		NormalizationTime: time.Duration(m.normalizationTime.Load()),
	}
}

// String renders the end-of-run report.
func (m *Metrics) String() string {
	s := m.Snapshot()
	return fmt.Sprintf(`Performance Metrics:
--------------------
Total AST Generation Time: %d ns  ~ %.2f ms
Number of AST Generated: %d
Total Extraction Time: %d ns ~ %.2f ms
--of which normalization time: %d ns ~ %.2f ms
`,
		s.ParseTime.Nanoseconds(), millis(s.ParseTime),
		s.ParseCount,
		s.ExtractionTime.Nanoseconds(), millis(s.ExtractionTime),
		s.NormalizationTime.Nanoseconds(), millis(s.NormalizationTime))
}

func millis(d time.Duration) float64 {
	return float64(d.Nanoseconds()) / 1e6
}
