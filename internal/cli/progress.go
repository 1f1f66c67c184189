// Package cli renders the command-line interface of the application: the
// asynchronous progress display while engines are evaluating, and the
// formatted presentation of results.
package cli

import (
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/briandowns/spinner"
)

const (
	// TruncationLimit is the digit threshold from which a result is
	// truncated in standard output to avoid cluttering the terminal.
	TruncationLimit = 100
	// DisplayEdges specifies the number of digits to display at the
	// beginning and end of a truncated number.
	DisplayEdges = 25
	// ProgressRefreshRate defines the refresh frequency of the progress
	// bar.
	ProgressRefreshRate = 200 * time.Millisecond
	// ProgressBarWidth defines the width in characters of the progress bar.
	ProgressBarWidth = 40
)

// ProgressUpdate carries one progress report from an engine.
type ProgressUpdate struct {
	// Index identifies the engine within the current run.
	Index int
	// Value is the normalized progress in [0, 1].
	Value float64
}

// Spinner abstracts the behavior of a terminal spinner so that
// DisplayProgress can be tested without driving a real terminal.
type Spinner interface {
	// Start begins the spinner animation.
	Start()
	// Stop halts the spinner animation.
	Stop()
	// UpdateSuffix sets the text that is displayed after the spinner.
	UpdateSuffix(suffix string)
}

// realSpinner wraps the spinner library behind the Spinner interface.
type realSpinner struct {
	s *spinner.Spinner
}

func (rs *realSpinner) Start() { rs.s.Start() }
func (rs *realSpinner) Stop()  { rs.s.Stop() }
func (rs *realSpinner) UpdateSuffix(suffix string) {
	rs.s.Suffix = suffix
}

var newSpinner = func(options ...spinner.Option) Spinner {
	// Same interval as ProgressRefreshRate to synchronize updates
	s := spinner.New(spinner.CharSets[11], ProgressRefreshRate, options...)
	return &realSpinner{s}
}

// ProgressState aggregates the progress of concurrent engine runs and
// exposes the average, which drives the single consolidated progress bar.
type ProgressState struct {
	progresses []float64
	numEngines int
}

// NewProgressState creates a progress tracker for numEngines engines.
func NewProgressState(numEngines int) *ProgressState {
	return &ProgressState{
		progresses: make([]float64, numEngines),
		numEngines: numEngines,
	}
}

// Update records a new progress value for one engine. Out-of-range indices
// are ignored.
func (ps *ProgressState) Update(index int, value float64) {
	if index >= 0 && index < len(ps.progresses) {
		ps.progresses[index] = value
	}
}

// CalculateAverage computes the average progress across all engines.
func (ps *ProgressState) CalculateAverage() float64 {
	var total float64
	for _, p := range ps.progresses {
		total += p
	}
	if ps.numEngines == 0 {
		return 0.0
	}
	return total / float64(ps.numEngines)
}

// progressBar renders a textual progress bar of the given width.
func progressBar(progress float64, length int) string {
	if progress > 1.0 {
		progress = 1.0
	}
	if progress < 0.0 {
		progress = 0.0
	}
	count := int(progress * float64(length))
	var builder strings.Builder
	builder.Grow(length)
	for i := 0; i < length; i++ {
		if i < count {
			builder.WriteRune('█')
		} else {
			builder.WriteRune('░')
		}
	}
	return builder.String()
}

// DisplayProgress manages the asynchronous display of a spinner and
// progress bar. It runs in a dedicated goroutine, aggregates updates from
// the progress channel, and shuts down when the channel is closed.
func DisplayProgress(wg *sync.WaitGroup, progressChan <-chan ProgressUpdate, numEngines int, out io.Writer) {
	defer wg.Done()
	if numEngines <= 0 {
		for range progressChan { // Drain the channel
		}
		return
	}

	state := NewProgressState(numEngines)
	s := newSpinner(spinner.WithWriter(out))
	s.Start()
	spinnerStopped := false
	defer func() {
		if !spinnerStopped {
			s.Stop()
		}
	}()

	ticker := time.NewTicker(ProgressRefreshRate)
	defer ticker.Stop()

	label := "Progress"
	if numEngines > 1 {
		label = "Avg progress"
	}

	for {
		select {
		case update, ok := <-progressChan:
			if !ok {
				if !spinnerStopped {
					s.Stop()
					spinnerStopped = true
				}
				// Print the final progress line with a newline so it persists
				bar := progressBar(1.0, ProgressBarWidth)
				fmt.Fprintf(out, "%s: %6.2f%% [%s]\n", label, 100.0, bar)
				return
			}
			state.Update(update.Index, update.Value)
		case <-ticker.C:
			avgProgress := state.CalculateAverage()
			bar := progressBar(avgProgress, ProgressBarWidth)
			s.UpdateSuffix(fmt.Sprintf(" %s: %6.2f%% [%s]", label, avgProgress*100, bar))
		}
	}
}
