package orchestration

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sort"
	"sync"
	"text/tabwriter"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/agbru/bignum/internal/cli"
	apperrors "github.com/agbru/bignum/internal/errors"
	"github.com/agbru/bignum/internal/format"
	"github.com/agbru/bignum/internal/ui"
)

// ProgressBufferMultiplier defines the buffer size multiplier for the
// progress channel. A larger buffer reduces the likelihood of blocking
// evaluation goroutines when the UI is slow to consume updates.
const ProgressBufferMultiplier = 5

// ExecuteEvaluations runs the request on every engine concurrently and
// collects their results. Progress updates from the engines are merged and
// forwarded to the progress display until all engines finish.
func ExecuteEvaluations(ctx context.Context, engines []Engine, req Request, out io.Writer) []EvaluationResult {
	g, ctx := errgroup.WithContext(ctx)
	results := make([]EvaluationResult, len(engines))
	progressChan := make(chan cli.ProgressUpdate, len(engines)*ProgressBufferMultiplier)

	var displayWg sync.WaitGroup
	displayWg.Add(1)
	go cli.DisplayProgress(&displayWg, progressChan, len(engines), out)

	for i, eng := range engines {
		idx, engine := i, eng
		g.Go(func() error {
			engineProgress := make(chan float64, ProgressBufferMultiplier)
			var forwardWg sync.WaitGroup
			forwardWg.Add(1)
			go func() {
				defer forwardWg.Done()
				for v := range engineProgress {
					progressChan <- cli.ProgressUpdate{Index: idx, Value: v}
				}
			}()

			startTime := time.Now()
			value, err := engine.Evaluate(ctx, req, engineProgress)
			close(engineProgress)
			forwardWg.Wait()
			results[idx] = EvaluationResult{
				EngineName: engine.Name(), Value: value, Duration: time.Since(startTime), Err: err,
			}
			return nil
		})
	}

	g.Wait()
	close(progressChan)
	displayWg.Wait()

	return results
}

// AnalyzeComparisonResults validates consistency across engines and renders
// a comparative summary. It returns the process exit code: success when all
// valid results agree, a mismatch code when they diverge, and the mapped
// error code when every engine failed.
func AnalyzeComparisonResults(results []EvaluationResult, out io.Writer) (*EvaluationResult, int) {
	sort.Slice(results, func(i, j int) bool {
		if (results[i].Err == nil) != (results[j].Err == nil) {
			return results[i].Err == nil
		}
		return results[i].Duration < results[j].Duration
	})

	var firstValid *EvaluationResult
	var firstError error
	successCount := 0

	fmt.Fprintf(out, "\n--- Comparison Summary ---\n")
	tw := tabwriter.NewWriter(out, 0, 0, 3, ' ', 0)
	fmt.Fprintf(tw, "%sEngine%s\t%sDuration%s\t%sStatus%s\n",
		ui.ColorUnderline(), ui.ColorReset(), ui.ColorUnderline(), ui.ColorReset(), ui.ColorUnderline(), ui.ColorReset())

	for i, res := range results {
		var status string
		if res.Err != nil {
			status = fmt.Sprintf("%s❌ Failure (%v)%s", ui.ColorRed(), res.Err, ui.ColorReset())
			if firstError == nil {
				firstError = res.Err
			}
		} else {
			status = fmt.Sprintf("%s✅ Success%s", ui.ColorGreen(), ui.ColorReset())
			successCount++
			if firstValid == nil {
				firstValid = &results[i]
			}
		}
		duration := format.FormatExecutionDuration(res.Duration)
		if res.Duration == 0 {
			duration = "< 1µs"
		}
		fmt.Fprintf(tw, "%s%s%s\t%s%s%s\t%s\n",
			ui.ColorBlue(), res.EngineName, ui.ColorReset(),
			ui.ColorYellow(), duration, ui.ColorReset(),
			status)
	}
	if err := tw.Flush(); err != nil {
		fmt.Fprintf(out, "Warning: failed to flush tabwriter: %v\n", err)
	}

	if successCount == 0 {
		fmt.Fprintf(out, "\nGlobal Status: Failure. No engine could complete the evaluation.\n")
		return nil, exitCodeFor(firstError)
	}

	mismatch := false
	for _, res := range results {
		if res.Err == nil && res.Value != firstValid.Value {
			mismatch = true
			break
		}
	}
	if mismatch {
		fmt.Fprintf(out, "\nGlobal Status: CRITICAL ERROR! An inconsistency was detected between the engine results.\n")
		return nil, apperrors.ExitErrorMismatch
	}

	fmt.Fprintf(out, "\nGlobal Status: Success. All valid results are consistent.\n")
	return firstValid, apperrors.ExitSuccess
}

// exitCodeFor maps an evaluation error to a process exit code.
func exitCodeFor(err error) int {
	var configErr apperrors.ConfigError
	switch {
	case err == nil:
		return apperrors.ExitSuccess
	case apperrors.IsContextError(err):
		if errors.Is(err, context.Canceled) {
			return apperrors.ExitErrorCanceled
		}
		return apperrors.ExitErrorTimeout
	case errors.As(err, &configErr):
		return apperrors.ExitErrorConfig
	default:
		return apperrors.ExitErrorGeneric
	}
}
