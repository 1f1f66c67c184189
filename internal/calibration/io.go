package calibration

import (
	"context"
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/agbru/bignum/internal/bigint"
	"github.com/agbru/bignum/internal/format"
	"github.com/agbru/bignum/internal/ui"
)

// timeMulWith installs the given multiplication thresholds, times the
// benchmark workload, and restores the previous thresholds. A zero
// toomCook3 keeps the crossover well above the Karatsuba candidate so that
// only one tier is being measured.
func timeMulWith(ctx context.Context, mb *MicroBenchmark, karatsuba, toomCook3 int) (time.Duration, error) {
	savedKaratsuba, savedToomCook3 := bigint.MulThresholds()
	defer bigint.SetMulThresholds(savedKaratsuba, savedToomCook3)

	if toomCook3 == 0 {
		toomCook3 = max(savedToomCook3, karatsuba*3)
	}
	bigint.SetMulThresholds(karatsuba, toomCook3)

	total := time.Duration(0)
	for _, size := range mb.TestSizes {
		d, err := mb.timeMul(ctx, size)
		if err != nil {
			return 0, err
		}
		total += d
	}
	return total, nil
}

// timeDivWith installs the given division threshold, times the benchmark
// workload, and restores the previous thresholds.
func timeDivWith(ctx context.Context, mb *MicroBenchmark, threshold int) (time.Duration, error) {
	savedThreshold, savedOffset := bigint.DivThresholds()
	defer bigint.SetDivThresholds(savedThreshold, savedOffset)

	bigint.SetDivThresholds(threshold, savedOffset)

	total := time.Duration(0)
	for _, size := range mb.TestSizes {
		d, err := mb.timeDiv(ctx, size)
		if err != nil {
			return 0, err
		}
		total += d
	}
	return total, nil
}

// printCalibrationResults renders the per-candidate timing table.
func printCalibrationResults(out io.Writer, results []calibrationResult, bestKaratsuba, bestToomCook3, bestBZ int) {
	fmt.Fprintf(out, "\n--- Calibration Results ---\n")
	tw := tabwriter.NewWriter(out, 0, 0, 3, ' ', 0)
	fmt.Fprintf(tw, "%sThreshold%s\t%sCandidate%s\t%sDuration%s\t%sStatus%s\n",
		ui.ColorUnderline(), ui.ColorReset(), ui.ColorUnderline(), ui.ColorReset(),
		ui.ColorUnderline(), ui.ColorReset(), ui.ColorUnderline(), ui.ColorReset())

	for _, res := range results {
		status := ""
		if res.Err != nil {
			status = fmt.Sprintf("%s❌ Failure (%v)%s", ui.ColorRed(), res.Err, ui.ColorReset())
		} else if isBest(res, bestKaratsuba, bestToomCook3, bestBZ) {
			status = fmt.Sprintf("%s✅ Best%s", ui.ColorGreen(), ui.ColorReset())
		}
		fmt.Fprintf(tw, "%s%s%s\t%s%d%s\t%s%s%s\t%s\n",
			ui.ColorBlue(), res.Name, ui.ColorReset(),
			ui.ColorCyan(), res.Threshold, ui.ColorReset(),
			ui.ColorYellow(), format.FormatExecutionDuration(res.Duration), ui.ColorReset(),
			status)
	}
	if err := tw.Flush(); err != nil {
		fmt.Fprintf(out, "Warning: failed to flush tabwriter: %v\n", err)
	}
}

func isBest(res calibrationResult, bestKaratsuba, bestToomCook3, bestBZ int) bool {
	switch res.Name {
	case "karatsuba":
		return res.Threshold == bestKaratsuba
	case "toomcook3":
		return res.Threshold == bestToomCook3
	case "burnikel-ziegler":
		return res.Threshold == bestBZ
	}
	return false
}
