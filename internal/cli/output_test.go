package cli

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/agbru/bignum/internal/ui"
)

func plainTheme(t *testing.T) {
	t.Helper()
	ui.SetTheme(ui.NoColorTheme)
	t.Cleanup(func() { ui.SetTheme(ui.DarkTheme) })
}

func TestTruncateValue(t *testing.T) {
	short := "12345"
	if got, truncated := truncateValue(short, false); got != short || truncated {
		t.Errorf("truncateValue(short) = %q, %v", got, truncated)
	}

	long := strings.Repeat("9", 300)
	got, truncated := truncateValue(long, false)
	if !truncated {
		t.Fatal("long value was not truncated")
	}
	if len(got) != 2*DisplayEdges+3 {
		t.Errorf("truncated length = %d, want %d", len(got), 2*DisplayEdges+3)
	}
	if !strings.HasPrefix(got, strings.Repeat("9", DisplayEdges)) || !strings.Contains(got, "...") {
		t.Errorf("truncated form = %q", got)
	}

	if got, truncated := truncateValue(long, true); got != long || truncated {
		t.Error("verbose mode must not truncate")
	}
}

func TestDisplayResultQuiet(t *testing.T) {
	plainTheme(t)
	var sb strings.Builder
	err := DisplayResult("add", []string{"1", "2"}, "3", "native", time.Millisecond, OutputOptions{Quiet: true}, &sb)
	if err != nil {
		t.Fatalf("DisplayResult failed: %v", err)
	}
	if sb.String() != "3\n" {
		t.Errorf("quiet output = %q, want %q", sb.String(), "3\n")
	}
}

func TestDisplayResultStandard(t *testing.T) {
	plainTheme(t)
	var sb strings.Builder
	err := DisplayResult("mul", []string{"6", "7"}, "42", "native", time.Millisecond, OutputOptions{}, &sb)
	if err != nil {
		t.Fatalf("DisplayResult failed: %v", err)
	}
	out := sb.String()
	if !strings.Contains(out, "mul(6, 7) = 42") {
		t.Errorf("result line missing:\n%s", out)
	}
}

func TestDisplayResultDetails(t *testing.T) {
	plainTheme(t)
	var sb strings.Builder
	err := DisplayResult("add", []string{"1", "2"}, "3", "native", 250*time.Millisecond, OutputOptions{Details: true}, &sb)
	if err != nil {
		t.Fatalf("DisplayResult failed: %v", err)
	}
	out := sb.String()
	for _, want := range []string{"Evaluation time", "250ms", "Result size", "1 digits", "Engine", "native", "Heap in use"} {
		if !strings.Contains(out, want) {
			t.Errorf("details output missing %q:\n%s", want, out)
		}
	}
}

func TestDisplayResultTruncationTip(t *testing.T) {
	plainTheme(t)
	long := strings.Repeat("7", 500)
	var sb strings.Builder
	err := DisplayResult("pow", []string{"7", "500"}, long, "native", time.Second, OutputOptions{}, &sb)
	if err != nil {
		t.Fatalf("DisplayResult failed: %v", err)
	}
	out := sb.String()
	if !strings.Contains(out, "(truncated)") || !strings.Contains(out, "-v") {
		t.Errorf("truncation tip missing:\n%s", out)
	}
	if strings.Contains(out, long) {
		t.Error("full value printed despite truncation")
	}
}

func TestDisplayResultJSON(t *testing.T) {
	plainTheme(t)
	var sb strings.Builder
	opts := OutputOptions{JSON: true}
	err := DisplayResult("add", []string{"1", "2"}, "3", "native", 1500*time.Microsecond, opts, &sb)
	if err != nil {
		t.Fatalf("DisplayResult failed: %v", err)
	}

	var report ResultReport
	if err := json.Unmarshal([]byte(sb.String()), &report); err != nil {
		t.Fatalf("invalid JSON output: %v\n%s", err, sb.String())
	}
	if report.Operation != "add" || report.Value != "3" || report.Engine != "native" {
		t.Errorf("report = %+v", report)
	}
	if report.Truncated || report.Digits != 1 {
		t.Errorf("truncated=%v digits=%d", report.Truncated, report.Digits)
	}
	if report.DurationMs != 1.5 {
		t.Errorf("duration_ms = %v, want 1.5", report.DurationMs)
	}
}

func TestDisplayResultSavesFullValue(t *testing.T) {
	plainTheme(t)
	long := strings.Repeat("3", 400)
	path := filepath.Join(t.TempDir(), "result.txt")
	var sb strings.Builder
	err := DisplayResult("pow", []string{"3", "400"}, long, "native", time.Second, OutputOptions{OutputFile: path}, &sb)
	if err != nil {
		t.Fatalf("DisplayResult failed: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading saved result: %v", err)
	}
	if string(data) != long+"\n" {
		t.Error("saved file does not hold the full newline-terminated value")
	}
}

func TestSaveResultBadPath(t *testing.T) {
	if err := SaveResult("42", filepath.Join(t.TempDir(), "missing", "out.txt")); err == nil {
		t.Error("SaveResult into a missing directory succeeded")
	}
}

func TestOperandSummary(t *testing.T) {
	if got := operandSummary(nil); got != "" {
		t.Errorf("operandSummary(nil) = %q", got)
	}
	if got := operandSummary([]string{"1", "2", "3"}); got != "1, 2, 3" {
		t.Errorf("operandSummary = %q", got)
	}
	long := strings.Repeat("8", 200)
	if got := operandSummary([]string{long}); len(got) >= len(long) {
		t.Error("long operands must be truncated in the summary")
	}
}
