package cli

import (
	"strings"
	"sync"
	"testing"

	"github.com/briandowns/spinner"
)

// fakeSpinner records calls so DisplayProgress can run without a terminal.
type fakeSpinner struct {
	mu      sync.Mutex
	started bool
	stopped bool
	suffix  string
}

func (f *fakeSpinner) Start() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.started = true
}

func (f *fakeSpinner) Stop() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.stopped = true
}

func (f *fakeSpinner) UpdateSuffix(suffix string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.suffix = suffix
}

func withFakeSpinner(t *testing.T) *fakeSpinner {
	t.Helper()
	fake := &fakeSpinner{}
	saved := newSpinner
	newSpinner = func(options ...spinner.Option) Spinner { return fake }
	t.Cleanup(func() { newSpinner = saved })
	return fake
}

func TestProgressState(t *testing.T) {
	ps := NewProgressState(4)
	if got := ps.CalculateAverage(); got != 0 {
		t.Errorf("initial average = %v", got)
	}
	ps.Update(0, 1.0)
	ps.Update(1, 0.5)
	if got := ps.CalculateAverage(); got != 0.375 {
		t.Errorf("average = %v, want 0.375", got)
	}

	// Out-of-range indices are ignored
	ps.Update(-1, 1.0)
	ps.Update(4, 1.0)
	if got := ps.CalculateAverage(); got != 0.375 {
		t.Errorf("average after bad updates = %v, want 0.375", got)
	}
}

func TestProgressStateZeroEngines(t *testing.T) {
	if got := NewProgressState(0).CalculateAverage(); got != 0 {
		t.Errorf("average with zero engines = %v", got)
	}
}

func TestProgressBar(t *testing.T) {
	cases := []struct {
		progress float64
		length   int
		want     string
	}{
		{0, 4, "░░░░"},
		{0.5, 4, "██░░"},
		{1, 4, "████"},
		{1.5, 4, "████"},  // clamped high
		{-0.5, 4, "░░░░"}, // clamped low
	}
	for _, tc := range cases {
		if got := progressBar(tc.progress, tc.length); got != tc.want {
			t.Errorf("progressBar(%v, %d) = %q, want %q", tc.progress, tc.length, got, tc.want)
		}
	}
}

func TestDisplayProgress(t *testing.T) {
	fake := withFakeSpinner(t)

	var sb strings.Builder
	updates := make(chan ProgressUpdate, 4)
	var wg sync.WaitGroup
	wg.Add(1)
	go DisplayProgress(&wg, updates, 2, &sb)

	updates <- ProgressUpdate{Index: 0, Value: 0.5}
	updates <- ProgressUpdate{Index: 1, Value: 1.0}
	close(updates)
	wg.Wait()

	out := sb.String()
	if !strings.Contains(out, "Avg progress") || !strings.Contains(out, "100.00%") {
		t.Errorf("final progress line missing:\n%s", out)
	}
	if !fake.started || !fake.stopped {
		t.Errorf("spinner lifecycle: started=%v stopped=%v", fake.started, fake.stopped)
	}
}

func TestDisplayProgressSingleEngine(t *testing.T) {
	withFakeSpinner(t)

	var sb strings.Builder
	updates := make(chan ProgressUpdate)
	var wg sync.WaitGroup
	wg.Add(1)
	go DisplayProgress(&wg, updates, 1, &sb)
	close(updates)
	wg.Wait()

	if out := sb.String(); !strings.Contains(out, "Progress") || strings.Contains(out, "Avg") {
		t.Errorf("single-engine label wrong:\n%s", out)
	}
}

func TestDisplayProgressNoEngines(t *testing.T) {
	// The display must drain the channel so producers never block.
	updates := make(chan ProgressUpdate, 1)
	var wg sync.WaitGroup
	wg.Add(1)
	go DisplayProgress(&wg, updates, 0, &strings.Builder{})
	for i := 0; i < 10; i++ {
		updates <- ProgressUpdate{Index: 0, Value: float64(i) / 10}
	}
	close(updates)
	wg.Wait()
}
