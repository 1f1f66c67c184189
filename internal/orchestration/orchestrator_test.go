package orchestration

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	apperrors "github.com/agbru/bignum/internal/errors"
)

// fakeEngine returns a canned result after an optional delay.
type fakeEngine struct {
	name  string
	value string
	err   error
	delay time.Duration
}

func (f *fakeEngine) Name() string            { return f.name }
func (f *fakeEngine) Supports(op string) bool { return true }

func (f *fakeEngine) Evaluate(ctx context.Context, req Request, progress chan<- float64) (string, error) {
	if f.delay > 0 {
		select {
		case <-time.After(f.delay):
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}
	reportProgress(progress, 1)
	return f.value, f.err
}

func TestExecuteEvaluations(t *testing.T) {
	engines := []Engine{
		&fakeEngine{name: "alpha", value: "42"},
		&fakeEngine{name: "beta", value: "42", delay: 5 * time.Millisecond},
		&fakeEngine{name: "gamma", err: errors.New("boom")},
	}
	results := ExecuteEvaluations(context.Background(), engines, newRequest("add", "1", "2"), io.Discard)
	if len(results) != 3 {
		t.Fatalf("got %d results, want 3", len(results))
	}
	byName := map[string]EvaluationResult{}
	for _, r := range results {
		byName[r.EngineName] = r
	}
	if byName["alpha"].Value != "42" || byName["alpha"].Err != nil {
		t.Errorf("alpha result: %+v", byName["alpha"])
	}
	if byName["beta"].Duration < 5*time.Millisecond {
		t.Errorf("beta duration = %v, want >= 5ms", byName["beta"].Duration)
	}
	if byName["gamma"].Err == nil {
		t.Error("gamma error was lost")
	}
}

func TestExecuteEvaluationsRealEngines(t *testing.T) {
	engines := []Engine{NewNativeEngine(), NewReferenceEngine()}
	results := ExecuteEvaluations(context.Background(), engines, newRequest("modpow", "4", "13", "497"), io.Discard)
	for _, r := range results {
		if r.Err != nil {
			t.Fatalf("%s failed: %v", r.EngineName, r.Err)
		}
		if r.Value != "445" {
			t.Errorf("%s = %s, want 445", r.EngineName, r.Value)
		}
	}
}

func TestAnalyzeComparisonResultsConsistent(t *testing.T) {
	results := []EvaluationResult{
		{EngineName: "slow", Value: "42", Duration: 20 * time.Millisecond},
		{EngineName: "fast", Value: "42", Duration: time.Millisecond},
	}
	best, code := AnalyzeComparisonResults(results, io.Discard)
	if code != apperrors.ExitSuccess {
		t.Fatalf("exit code = %d, want %d", code, apperrors.ExitSuccess)
	}
	if best == nil || best.EngineName != "fast" {
		t.Errorf("best result = %+v, want the fastest engine", best)
	}
}

func TestAnalyzeComparisonResultsMismatch(t *testing.T) {
	results := []EvaluationResult{
		{EngineName: "a", Value: "42", Duration: time.Millisecond},
		{EngineName: "b", Value: "43", Duration: 2 * time.Millisecond},
	}
	best, code := AnalyzeComparisonResults(results, io.Discard)
	if code != apperrors.ExitErrorMismatch {
		t.Fatalf("exit code = %d, want %d", code, apperrors.ExitErrorMismatch)
	}
	if best != nil {
		t.Errorf("mismatch returned a result: %+v", best)
	}
}

func TestAnalyzeComparisonResultsPartialFailure(t *testing.T) {
	// A single failing engine does not poison the run when the others agree.
	results := []EvaluationResult{
		{EngineName: "a", Value: "42", Duration: time.Millisecond},
		{EngineName: "b", Err: errors.New("boom"), Duration: 2 * time.Millisecond},
	}
	best, code := AnalyzeComparisonResults(results, io.Discard)
	if code != apperrors.ExitSuccess || best == nil || best.EngineName != "a" {
		t.Errorf("best=%+v code=%d", best, code)
	}
}

func TestAnalyzeComparisonResultsAllFailed(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want int
	}{
		{"generic", errors.New("boom"), apperrors.ExitErrorGeneric},
		{"timeout", context.DeadlineExceeded, apperrors.ExitErrorTimeout},
		{"canceled", context.Canceled, apperrors.ExitErrorCanceled},
		{"config", apperrors.NewConfigError("bad operands"), apperrors.ExitErrorConfig},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			results := []EvaluationResult{{EngineName: "a", Err: tc.err, Duration: time.Millisecond}}
			best, code := AnalyzeComparisonResults(results, io.Discard)
			if best != nil {
				t.Errorf("failed run returned a result: %+v", best)
			}
			if code != tc.want {
				t.Errorf("exit code = %d, want %d", code, tc.want)
			}
		})
	}
}

func TestExitCodeForWrappedErrors(t *testing.T) {
	wrapped := apperrors.WrapError(context.Canceled, "evaluation interrupted")
	if got := exitCodeFor(wrapped); got != apperrors.ExitErrorCanceled {
		t.Errorf("exitCodeFor(wrapped cancel) = %d, want %d", got, apperrors.ExitErrorCanceled)
	}
	if got := exitCodeFor(nil); got != apperrors.ExitSuccess {
		t.Errorf("exitCodeFor(nil) = %d", got)
	}
}

func TestSupportedOpsCoverNativeEngine(t *testing.T) {
	engine := NewNativeEngine()
	for _, op := range SupportedOps() {
		if !engine.Supports(op) {
			t.Errorf("native engine does not support %q", op)
		}
	}
}
