package metrics

import (
	"strings"
	"sync"
	"testing"
	"time"
)

func TestTimingMetric_Record(t *testing.T) {
	m := newTimingMetric("test")
	m.Record(2 * time.Millisecond)
	m.Record(4 * time.Millisecond)

	st := m.Stats()
	if st.Count != 2 {
		t.Fatalf("count = %d, want 2", st.Count)
	}
	if st.AvgMs != 3 {
		t.Errorf("avg = %v, want 3", st.AvgMs)
	}
	if st.MaxMs != 4 || st.MinMs != 2 {
		t.Errorf("max/min = %v/%v, want 4/2", st.MaxMs, st.MinMs)
	}

	m.Reset()
	if m.Count() != 0 {
		t.Errorf("count after reset = %d", m.Count())
	}
}

func TestTimingMetric_Concurrent(t *testing.T) {
	m := newTimingMetric("concurrent")
	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			m.Record(time.Microsecond)
		}()
	}
	wg.Wait()
	if m.Count() != 20 {
		t.Errorf("count = %d, want 20", m.Count())
	}
}

func TestTimer_Disabled(t *testing.T) {
	SetEnabled(false)
	defer SetEnabled(true)

	m := newTimingMetric("off")
	Timer(m)()
	if m.Count() != 0 {
		t.Errorf("disabled metrics should not record, got %d", m.Count())
	}
}

func TestAllTimingStats_OnlyRecorded(t *testing.T) {
	ResetAll()
	defer ResetAll()

	Timer(PNGRender)()
	stats := AllTimingStats()
	if len(stats) != 1 || stats[0].Name != "png_render" {
		t.Errorf("unexpected stats %+v", stats)
	}
}

func TestReport(t *testing.T) {
	ResetAll()
	defer ResetAll()

	Simulation.Record(3 * time.Millisecond)
	SVGRender.Record(time.Millisecond)

	var sb strings.Builder
	if err := Report(&sb); err != nil {
		t.Fatal(err)
	}
	out := sb.String()
	for _, want := range []string{"stage", "simulation", "svg_render", "3.00"} {
		if !strings.Contains(out, want) {
			t.Errorf("report missing %q:\n%s", want, out)
		}
	}
	if strings.Contains(out, "png_render") {
		t.Error("stages without measurements should be omitted")
	}
}
