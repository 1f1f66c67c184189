package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	apperrors "github.com/agbru/bignum/internal/errors"
	"github.com/agbru/bignum/internal/format"
	"github.com/agbru/bignum/internal/metrics"
	"github.com/agbru/bignum/internal/ui"
)

// OutputOptions controls how a result is presented.
type OutputOptions struct {
	// Verbose prints the full value regardless of size.
	Verbose bool
	// Details adds execution metrics to the report.
	Details bool
	// JSON emits the report as a JSON object instead of styled text.
	JSON bool
	// Quiet prints only the (possibly truncated) value.
	Quiet bool
	// OutputFile, if set, receives the full untruncated value.
	OutputFile string
}

// ResultReport is the JSON shape of an evaluation result.
type ResultReport struct {
	Operation  string   `json:"operation"`
	Operands   []string `json:"operands,omitempty"`
	Value      string   `json:"value"`
	Truncated  bool     `json:"truncated"`
	Digits     int      `json:"digits"`
	Engine     string   `json:"engine"`
	DurationMs float64  `json:"duration_ms"`
}

// DisplayResult formats and prints the final evaluation result. Large
// values are truncated unless verbose is set; the full value can always be
// saved with OutputFile.
func DisplayResult(op string, operands []string, value, engine string, duration time.Duration, opts OutputOptions, out io.Writer) error {
	if opts.OutputFile != "" {
		if err := SaveResult(value, opts.OutputFile); err != nil {
			return err
		}
	}

	if opts.JSON {
		return writeJSONReport(op, operands, value, engine, duration, opts, out)
	}

	display, truncated := truncateValue(value, opts.Verbose)
	if opts.Quiet {
		fmt.Fprintln(out, display)
		return nil
	}

	if opts.Details {
		fmt.Fprintf(out, "\n%s--- Detailed result analysis ---%s\n", ui.ColorBold(), ui.ColorReset())
		durationStr := format.FormatExecutionDuration(duration)
		if duration == 0 {
			durationStr = "< 1µs"
		}
		fmt.Fprintf(out, "Evaluation time   : %s%s%s\n", ui.ColorGreen(), durationStr, ui.ColorReset())
		fmt.Fprintf(out, "Result size       : %s%s%s\n", ui.ColorCyan(), format.FormatDigitCount(len(value)), ui.ColorReset())
		fmt.Fprintf(out, "Engine            : %s%s%s\n", ui.ColorCyan(), engine, ui.ColorReset())
		mem := metrics.NewMemoryCollector().Snapshot()
		fmt.Fprintf(out, "Heap in use       : %s%s%s (%d GC cycles)\n",
			ui.ColorCyan(), format.FormatBytes(mem.HeapAlloc), ui.ColorReset(), mem.NumGC)
	}

	fmt.Fprintf(out, "\n%s--- Result ---%s\n", ui.ColorBold(), ui.ColorReset())
	if truncated {
		fmt.Fprintf(out, "%s(%s) (truncated) = %s\n", op, operandSummary(operands), ui.RenderResult(display))
		fmt.Fprintf(out, "(Tip: use the %s-v%s option to display the full value)\n", ui.ColorYellow(), ui.ColorReset())
	} else {
		fmt.Fprintf(out, "%s(%s) = %s\n", op, operandSummary(operands), ui.RenderResult(display))
	}
	return nil
}

func writeJSONReport(op string, operands []string, value, engine string, duration time.Duration, opts OutputOptions, out io.Writer) error {
	display, truncated := truncateValue(value, opts.Verbose)
	report := ResultReport{
		Operation:  op,
		Operands:   operands,
		Value:      display,
		Truncated:  truncated,
		Digits:     len(value),
		Engine:     engine,
		DurationMs: float64(duration.Microseconds()) / 1000,
	}
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	if err := enc.Encode(report); err != nil {
		return apperrors.WrapError(err, "encoding JSON report")
	}
	return nil
}

// truncateValue shortens a long value for terminal display, keeping the
// leading and trailing digits.
func truncateValue(value string, verbose bool) (string, bool) {
	if verbose || len(value) <= TruncationLimit {
		return value, false
	}
	return value[:DisplayEdges] + "..." + value[len(value)-DisplayEdges:], true
}

// operandSummary renders the operand list for the result line, truncating
// long operands individually.
func operandSummary(operands []string) string {
	if len(operands) == 0 {
		return ""
	}
	summary := ""
	for i, op := range operands {
		if i > 0 {
			summary += ", "
		}
		short, _ := truncateValue(op, false)
		summary += short
	}
	return summary
}

// SaveResult writes the full value to a file, newline-terminated.
func SaveResult(value, path string) error {
	if err := os.WriteFile(path, []byte(value+"\n"), 0o644); err != nil {
		return apperrors.WrapError(err, "saving result to %s", path)
	}
	return nil
}
