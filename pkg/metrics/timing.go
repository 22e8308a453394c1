// Package metrics records how long each stage of the render pipeline takes.
//
// Stages are timed with Timer and summarized by Report, which the CLI
// prints after `render --stats`. Collection is on by default and can be
// turned off with STAKEMAP_METRICS=0.
//
//	func simulate() {
//	    defer metrics.Timer(metrics.Simulation)()
//	    ...
//	}
package metrics

import (
	"fmt"
	"io"
	"os"
	"sync"
	"sync/atomic"
	"text/tabwriter"
	"time"
)

var enabled atomic.Bool

func init() {
	enabled.Store(os.Getenv("STAKEMAP_METRICS") != "0")
}

// Enabled returns whether metrics collection is enabled.
func Enabled() bool {
	return enabled.Load()
}

// SetEnabled turns collection on or off.
func SetEnabled(e bool) {
	enabled.Store(e)
}

// TimingMetric accumulates durations for one pipeline stage. Safe for
// concurrent use; multi-format exports record into the same metrics.
type TimingMetric struct {
	name string

	mu       sync.Mutex
	count    int64
	total    time.Duration
	min, max time.Duration
}

func newTimingMetric(name string) *TimingMetric {
	return &TimingMetric{name: name}
}

// Record adds one measurement.
func (m *TimingMetric) Record(d time.Duration) {
	if !Enabled() {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.count == 0 || d < m.min {
		m.min = d
	}
	if d > m.max {
		m.max = d
	}
	m.count++
	m.total += d
}

// Name returns the stage name.
func (m *TimingMetric) Name() string {
	return m.name
}

// Count returns the number of recorded measurements.
func (m *TimingMetric) Count() int64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.count
}

// Stats returns a snapshot of the metric.
func (m *TimingMetric) Stats() TimingStats {
	m.mu.Lock()
	defer m.mu.Unlock()

	st := TimingStats{
		Name:    m.name,
		Count:   m.count,
		TotalMs: ms(m.total),
		MaxMs:   ms(m.max),
		MinMs:   ms(m.min),
	}
	if m.count > 0 {
		st.AvgMs = ms(m.total / time.Duration(m.count))
	}
	return st
}

// Reset clears all measurements.
func (m *TimingMetric) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.count, m.total, m.min, m.max = 0, 0, 0, 0
}

func ms(d time.Duration) float64 {
	return float64(d) / float64(time.Millisecond)
}

// TimingStats is a snapshot of one metric.
type TimingStats struct {
	Name    string  `json:"name"`
	Count   int64   `json:"count"`
	TotalMs float64 `json:"total_ms"`
	AvgMs   float64 `json:"avg_ms"`
	MaxMs   float64 `json:"max_ms"`
	MinMs   float64 `json:"min_ms,omitempty"`
}

// Timer starts timing m and returns the function that stops it.
//
//	defer metrics.Timer(metrics.PNGRender)()
func Timer(m *TimingMetric) func() {
	if !Enabled() || m == nil {
		return func() {}
	}
	start := time.Now()
	return func() {
		m.Record(time.Since(start))
	}
}

// Pipeline stages, in execution order.
var (
	InputLoad  = newTimingMetric("input_load")
	Simulation = newTimingMetric("simulation")
	Settle     = newTimingMetric("settle")
	SceneBuild = newTimingMetric("scene_build")
	PNGRender  = newTimingMetric("png_render")
	SVGRender  = newTimingMetric("svg_render")
	HTMLRender = newTimingMetric("html_render")
	JSONRender = newTimingMetric("json_render")
)

var stages = []*TimingMetric{
	InputLoad, Simulation, Settle, SceneBuild,
	PNGRender, SVGRender, HTMLRender, JSONRender,
}

// ResetAll clears every stage.
func ResetAll() {
	for _, m := range stages {
		m.Reset()
	}
}

// AllTimingStats returns stats for the stages that recorded anything.
func AllTimingStats() []TimingStats {
	stats := make([]TimingStats, 0, len(stages))
	for _, m := range stages {
		if st := m.Stats(); st.Count > 0 {
			stats = append(stats, st)
		}
	}
	return stats
}

// Report writes a table of AllTimingStats to w.
func Report(w io.Writer) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(tw, "stage\tcount\ttotal ms\tavg ms\tmax ms\t")
	for _, st := range AllTimingStats() {
		fmt.Fprintf(tw, "%s\t%d\t%.2f\t%.2f\t%.2f\t\n", st.Name, st.Count, st.TotalMs, st.AvgMs, st.MaxMs)
	}
	return tw.Flush()
}
