package cli

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/goccy/go-json"

	"github.com/vanderheijden86/stakemap/pkg/export"
	"github.com/vanderheijden86/stakemap/pkg/testutil"
)

func readLayout(path string) (export.LayoutDocument, bool) {
	var doc export.LayoutDocument
	data, err := os.ReadFile(path)
	if err != nil {
		return doc, false
	}
	return doc, json.Unmarshal(data, &doc) == nil
}

func waitFor(t *testing.T, timeout time.Duration, cond func() bool) bool {
	t.Helper()
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if cond() {
			return true
		}
		time.Sleep(20 * time.Millisecond)
	}
	return cond()
}

func nodeCount(path string) int {
	doc, ok := readLayout(path)
	if !ok {
		return -1
	}
	return len(doc.Nodes)
}

func TestWatch_RerendersAndKeepsOutputOnError(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	input := writeInput(t)
	out := filepath.Join(t.TempDir(), "live.json")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	done := make(chan result, 1)
	go func() {
		done <- executeContext(t, ctx, "", "watch", input, "-o", out,
			"--poll", "--poll-interval", "50ms", "--debounce", "20ms")
	}()

	if !waitFor(t, 5*time.Second, func() bool { return nodeCount(out) == 10 }) {
		t.Fatal("initial render not written")
	}

	testutil.WriteNodesFile(t, input, testutil.Single())
	if !waitFor(t, 5*time.Second, func() bool { return nodeCount(out) == 1 }) {
		t.Fatal("change not re-rendered")
	}

	if err := os.WriteFile(input, []byte("this is not json at all"), 0644); err != nil {
		t.Fatal(err)
	}
	// Give the broken input time to be picked up and rejected.
	time.Sleep(400 * time.Millisecond)
	if n := nodeCount(out); n != 1 {
		t.Errorf("broken input replaced the output: %d nodes", n)
	}

	cancel()
	select {
	case r := <-done:
		if r.err != nil {
			t.Errorf("watch returned %v", r.err)
		}
		if !strings.Contains(r.stderr, "keeping previous output") {
			t.Errorf("expected render failure to be logged, got:\n%s", r.stderr)
		}
		if !strings.Contains(r.stderr, "polling") {
			t.Errorf("expected watch mode in log, got:\n%s", r.stderr)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("watch did not stop after cancel")
	}
}
