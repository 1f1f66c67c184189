package calibration

import (
	"context"
	"time"

	"github.com/agbru/bignum/internal/bigint"
)

const (
	// MicroBenchIterations is the number of iterations per test for
	// averaging.
	MicroBenchIterations = 3

	// MicroBenchTimeout is the maximum time for the entire micro-benchmark
	// suite.
	MicroBenchTimeout = 250 * time.Millisecond
)

// MicroBenchTestSizes defines the operand sizes to test, in 32-bit digits.
// The sizes span the ranges where the algorithm switches occur.
var MicroBenchTestSizes = []int{
	96,  // Karatsuba territory
	280, // near the Toom-Cook-3 crossover
	640, // Toom-Cook-3 and Burnikel-Ziegler territory
}

// MicroBenchmark performs fast tests to estimate optimal thresholds.
// Threshold changes are process-global, so tests run sequentially and the
// previous thresholds are restored afterwards.
type MicroBenchmark struct {
	// TestSizes are the operand sizes to test, in digits.
	TestSizes []int
	// Iterations is the number of iterations per test.
	Iterations int
	// Timeout is the maximum duration for the entire benchmark.
	Timeout time.Duration
}

// ThresholdResults contains the estimated optimal thresholds from
// micro-benchmarks.
type ThresholdResults struct {
	// KaratsubaThreshold is the estimated multiplication crossover.
	KaratsubaThreshold int
	// ToomCook3Threshold is the estimated Toom-Cook-3 crossover.
	ToomCook3Threshold int
	// BurnikelZieglerThreshold is the estimated division crossover.
	BurnikelZieglerThreshold int
	// Confidence is a score from 0-1 indicating result reliability.
	Confidence float64
	// Duration is how long the micro-benchmark took.
	Duration time.Duration
}

// NewMicroBenchmark creates a new MicroBenchmark with default settings.
func NewMicroBenchmark() *MicroBenchmark {
	return &MicroBenchmark{
		TestSizes:  MicroBenchTestSizes,
		Iterations: MicroBenchIterations,
		Timeout:    MicroBenchTimeout,
	}
}

// RunQuick performs rapid micro-benchmarks to estimate optimal thresholds.
func (mb *MicroBenchmark) RunQuick(ctx context.Context) (ThresholdResults, error) {
	start := time.Now()

	ctx, cancel := context.WithTimeout(ctx, mb.Timeout)
	defer cancel()

	savedKaratsuba, savedToomCook3 := bigint.MulThresholds()
	savedBZ, savedOffset := bigint.DivThresholds()
	defer func() {
		bigint.SetMulThresholds(savedKaratsuba, savedToomCook3)
		bigint.SetDivThresholds(savedBZ, savedOffset)
	}()

	tr := ThresholdResults{
		KaratsubaThreshold:       savedKaratsuba,
		ToomCook3Threshold:       savedToomCook3,
		BurnikelZieglerThreshold: savedBZ,
		Confidence:               0.5,
	}

	set := GenerateQuickThresholdSet()
	set.SortThresholds()

	if best, ok := mb.bestMulThreshold(ctx, set.Karatsuba, func(v int) (int, int) {
		return v, savedToomCook3
	}); ok {
		tr.KaratsubaThreshold = best
		tr.Confidence += 0.2
	}
	if best, ok := mb.bestMulThreshold(ctx, set.ToomCook3, func(v int) (int, int) {
		return tr.KaratsubaThreshold, v
	}); ok {
		tr.ToomCook3Threshold = best
		tr.Confidence += 0.2
	}
	if best, ok := mb.bestDivThreshold(ctx, set.BurnikelZiegler, savedOffset); ok {
		tr.BurnikelZieglerThreshold = best
		tr.Confidence += 0.1
	}
	if tr.Confidence > 1.0 {
		tr.Confidence = 1.0
	}

	tr.Duration = time.Since(start)
	if err := ctx.Err(); err != nil && tr.Confidence <= 0.5 {
		return tr, err
	}
	return tr, nil
}

// bestMulThreshold measures multiplication time for each candidate and
// returns the fastest one. The apply function maps a candidate to the
// (karatsuba, toomCook3) pair to install.
func (mb *MicroBenchmark) bestMulThreshold(ctx context.Context, candidates []int, apply func(int) (int, int)) (int, bool) {
	best, bestDuration := 0, time.Duration(1<<63-1)
	for _, candidate := range candidates {
		if ctx.Err() != nil {
			break
		}
		karatsuba, toomCook3 := apply(candidate)
		bigint.SetMulThresholds(karatsuba, toomCook3)

		total := time.Duration(0)
		for _, size := range mb.TestSizes {
			d, err := mb.timeMul(ctx, size)
			if err != nil {
				return best, best != 0
			}
			total += d
		}
		if total < bestDuration {
			best, bestDuration = candidate, total
		}
	}
	return best, best != 0
}

// bestDivThreshold measures division time for each candidate threshold.
func (mb *MicroBenchmark) bestDivThreshold(ctx context.Context, candidates []int, offset int) (int, bool) {
	best, bestDuration := 0, time.Duration(1<<63-1)
	for _, candidate := range candidates {
		if ctx.Err() != nil {
			break
		}
		bigint.SetDivThresholds(candidate, offset)

		total := time.Duration(0)
		for _, size := range mb.TestSizes {
			d, err := mb.timeDiv(ctx, size)
			if err != nil {
				return best, best != 0
			}
			total += d
		}
		if total < bestDuration {
			best, bestDuration = candidate, total
		}
	}
	return best, best != 0
}

func (mb *MicroBenchmark) timeMul(ctx context.Context, size int) (time.Duration, error) {
	x := generateTestNumber(size)
	y := generateTestNumber(size)

	// Warm up
	_ = x.Mul(y)

	var total time.Duration
	for i := 0; i < mb.Iterations; i++ {
		if err := ctx.Err(); err != nil {
			return 0, err
		}
		start := time.Now()
		_ = x.Mul(y)
		total += time.Since(start)
	}
	return total / time.Duration(mb.Iterations), nil
}

func (mb *MicroBenchmark) timeDiv(ctx context.Context, size int) (time.Duration, error) {
	// A 2n-digit dividend and n-digit divisor exercise the block recursion.
	x := generateTestNumber(2 * size)
	y := generateTestNumber(size)

	if _, _, err := x.QuoRem(y); err != nil {
		return 0, err
	}

	var total time.Duration
	for i := 0; i < mb.Iterations; i++ {
		if err := ctx.Err(); err != nil {
			return 0, err
		}
		start := time.Now()
		if _, _, err := x.QuoRem(y); err != nil {
			return 0, err
		}
		total += time.Since(start)
	}
	return total / time.Duration(mb.Iterations), nil
}

// generateTestNumber creates a deterministic operand with the specified
// digit count. The byte pattern exercises all bit positions without being
// uniform.
func generateTestNumber(digits int) *bigint.Int {
	buf := make([]byte, digits*4)
	for i := range buf {
		buf[i] = byte(0xA5 ^ i*31)
	}
	// Keep the value positive and full-length.
	buf[0] = (buf[0] | 0x40) & 0x7F
	return bigint.FromBytes(buf)
}

// QuickCalibrate performs a fast calibration using micro-benchmarks. It is
// designed to run in well under a second at startup.
func QuickCalibrate(ctx context.Context) (ThresholdResults, error) {
	mb := NewMicroBenchmark()
	return mb.RunQuick(ctx)
}
