package calibration

import (
	"context"
	"fmt"
	"io"
	"runtime"
	"time"

	"github.com/agbru/bignum/internal/config"
	apperrors "github.com/agbru/bignum/internal/errors"
	"github.com/agbru/bignum/internal/ui"
)

// CalibrationOptions configures the calibration process.
type CalibrationOptions struct {
	// ProfilePath is the path to save/load the calibration profile. If
	// empty, uses the default path.
	ProfilePath string
	// SaveProfile indicates whether to save the calibration results.
	SaveProfile bool
	// LoadProfile indicates whether to try loading an existing profile.
	LoadProfile bool
}

// calibrationResult holds the result of a single threshold test.
type calibrationResult struct {
	Name      string
	Threshold int
	Duration  time.Duration
	Err       error
}

// RunCalibration executes a comprehensive benchmark to determine the
// optimal algorithm-switch thresholds for the current hardware. It iterates
// through adaptively generated candidates for each threshold, times a fixed
// workload for each, and reports the fastest setting.
func RunCalibration(ctx context.Context, out io.Writer) int {
	return RunCalibrationWithOptions(ctx, out, CalibrationOptions{
		SaveProfile: true,
		LoadProfile: false, // Full calibration should run fresh
	})
}

// RunCalibrationWithOptions executes calibration with the specified options.
func RunCalibrationWithOptions(ctx context.Context, out io.Writer, opts CalibrationOptions) int {
	fmt.Fprintf(out, "--- Calibration Mode: Finding the Optimal Arithmetic Thresholds ---\n")

	if opts.LoadProfile {
		profile, loaded := LoadOrCreateProfile(opts.ProfilePath)
		if loaded && profile.IsValid() {
			fmt.Fprintf(out, "%sLoaded existing calibration profile from %s%s\n",
				ui.ColorGreen(), GetDefaultProfilePath(), ui.ColorReset())
			fmt.Fprintf(out, "Profile: %s\n", profile.String())
			return apperrors.ExitSuccess
		}
	}

	fmt.Fprintf(out, "%sUsing adaptive candidates on %d CPU cores%s\n",
		ui.ColorCyan(), runtime.NumCPU(), ui.ColorReset())

	set := GenerateFullThresholdSet()
	set.SortThresholds()
	mb := NewMicroBenchmark()
	mb.Timeout = 30 * time.Second
	mb.Iterations = 5

	calibrationStart := time.Now()
	benchCtx, cancel := context.WithTimeout(ctx, mb.Timeout)
	defer cancel()

	results := make([]calibrationResult, 0,
		len(set.Karatsuba)+len(set.ToomCook3)+len(set.BurnikelZiegler))

	bestKaratsuba, kResults := sweepCandidates(benchCtx, mb, "karatsuba", set.Karatsuba, func(v int) (time.Duration, error) {
		return timeMulWith(benchCtx, mb, v, 0)
	})
	results = append(results, kResults...)

	bestToomCook3, tResults := sweepCandidates(benchCtx, mb, "toomcook3", set.ToomCook3, func(v int) (time.Duration, error) {
		return timeMulWith(benchCtx, mb, bestKaratsuba, v)
	})
	results = append(results, tResults...)

	bestBZ, dResults := sweepCandidates(benchCtx, mb, "burnikel-ziegler", set.BurnikelZiegler, func(v int) (time.Duration, error) {
		return timeDivWith(benchCtx, mb, v)
	})
	results = append(results, dResults...)

	if ctx.Err() != nil {
		fmt.Fprintf(out, "\n%sCalibration interrupted.%s\n", ui.ColorYellow(), ui.ColorReset())
		return apperrors.ExitErrorCanceled
	}
	if bestKaratsuba == 0 && bestToomCook3 == 0 && bestBZ == 0 {
		fmt.Fprintf(out, "\n%sCalibration failed: no valid results obtained.%s\n", ui.ColorRed(), ui.ColorReset())
		return apperrors.ExitErrorGeneric
	}

	calibrationDuration := time.Since(calibrationStart)
	printCalibrationResults(out, results, bestKaratsuba, bestToomCook3, bestBZ)

	fmt.Fprintf(out, "\n%s✅ Recommendation for this machine: %s--karatsuba-threshold %d --toomcook3-threshold %d --bz-threshold %d%s\n",
		ui.ColorGreen(), ui.ColorYellow(), bestKaratsuba, bestToomCook3, bestBZ, ui.ColorReset())

	if opts.SaveProfile {
		profile := NewProfile()
		profile.OptimalKaratsubaThreshold = bestKaratsuba
		profile.OptimalToomCook3Threshold = bestToomCook3
		profile.OptimalBurnikelZieglerThreshold = bestBZ
		profile.CalibrationTime = calibrationDuration.String()

		if err := profile.SaveProfile(opts.ProfilePath); err != nil {
			fmt.Fprintf(out, "%sWarning: failed to save profile: %v%s\n",
				ui.ColorYellow(), err, ui.ColorReset())
		} else {
			fmt.Fprintf(out, "%sCalibration profile saved to %s%s\n",
				ui.ColorGreen(), GetDefaultProfilePath(), ui.ColorReset())
		}
	}

	return apperrors.ExitSuccess
}

// sweepCandidates times the workload for each candidate and returns the
// fastest, along with per-candidate results for the report.
func sweepCandidates(ctx context.Context, mb *MicroBenchmark, name string, candidates []int, run func(int) (time.Duration, error)) (int, []calibrationResult) {
	best, bestDuration := 0, time.Duration(1<<63-1)
	results := make([]calibrationResult, 0, len(candidates))
	for _, candidate := range candidates {
		if ctx.Err() != nil {
			break
		}
		duration, err := run(candidate)
		results = append(results, calibrationResult{name, candidate, duration, err})
		if err != nil {
			continue
		}
		if duration < bestDuration {
			best, bestDuration = candidate, duration
		}
	}
	return best, results
}

// AutoCalibrate runs a quick startup calibration to fine-tune the
// thresholds. It first checks for a valid cached profile and falls back to
// micro-benchmarks. Unlike RunCalibration, it is fast enough to run before
// every evaluation.
func AutoCalibrate(parentCtx context.Context, cfg config.AppConfig, out io.Writer) (updated config.AppConfig, ok bool) {
	if profile, loaded := LoadOrCreateProfile(cfg.CalibrationProfile); loaded && profile.IsValid() {
		updated = applyProfile(cfg, profile)
		fmt.Fprintf(out, "%sUsing cached calibration%s: karatsuba=%s%d%s, toomcook3=%s%d%s, burnikel-ziegler=%s%d%s digits\n",
			ui.ColorGreen(), ui.ColorReset(),
			ui.ColorYellow(), updated.KaratsubaThreshold, ui.ColorReset(),
			ui.ColorYellow(), updated.ToomCook3Threshold, ui.ColorReset(),
			ui.ColorYellow(), updated.BurnikelZieglerThreshold, ui.ColorReset())
		return updated, true
	}

	results, err := QuickCalibrate(parentCtx)
	if err != nil || results.Confidence < 0.5 {
		return cfg, false
	}

	updated = cfg
	updated.KaratsubaThreshold = results.KaratsubaThreshold
	updated.ToomCook3Threshold = results.ToomCook3Threshold
	updated.BurnikelZieglerThreshold = results.BurnikelZieglerThreshold

	fmt.Fprintf(out, "%sQuick calibration%s (%v): karatsuba=%s%d%s, toomcook3=%s%d%s, burnikel-ziegler=%s%d%s digits (confidence: %.0f%%)\n",
		ui.ColorGreen(), ui.ColorReset(),
		results.Duration.Round(time.Millisecond),
		ui.ColorYellow(), updated.KaratsubaThreshold, ui.ColorReset(),
		ui.ColorYellow(), updated.ToomCook3Threshold, ui.ColorReset(),
		ui.ColorYellow(), updated.BurnikelZieglerThreshold, ui.ColorReset(),
		results.Confidence*100)

	saveCalibrationProfile(updated, cfg.CalibrationProfile, out)
	return updated, true
}

// LoadCachedCalibration attempts to load a cached calibration profile and
// apply it to the configuration. Returns the updated config and true if a
// valid cached profile was found.
func LoadCachedCalibration(cfg config.AppConfig, profilePath string) (updated config.AppConfig, ok bool) {
	profile, loaded := LoadOrCreateProfile(profilePath)
	if !loaded || !profile.IsValid() {
		return cfg, false
	}
	return applyProfile(cfg, profile), true
}

// applyProfile copies profile thresholds into the configuration, keeping
// explicit CLI overrides.
func applyProfile(cfg config.AppConfig, profile *CalibrationProfile) config.AppConfig {
	updated := cfg
	if updated.KaratsubaThreshold == 0 {
		updated.KaratsubaThreshold = profile.OptimalKaratsubaThreshold
	}
	if updated.ToomCook3Threshold == 0 {
		updated.ToomCook3Threshold = profile.OptimalToomCook3Threshold
	}
	if updated.BurnikelZieglerThreshold == 0 {
		updated.BurnikelZieglerThreshold = profile.OptimalBurnikelZieglerThreshold
	}
	return updated
}

// saveCalibrationProfile saves the calibration results to a profile.
func saveCalibrationProfile(cfg config.AppConfig, profilePath string, out io.Writer) {
	profile := NewProfile()
	profile.OptimalKaratsubaThreshold = cfg.KaratsubaThreshold
	profile.OptimalToomCook3Threshold = cfg.ToomCook3Threshold
	profile.OptimalBurnikelZieglerThreshold = cfg.BurnikelZieglerThreshold

	if err := profile.SaveProfile(profilePath); err != nil {
		fmt.Fprintf(out, "%sWarning: could not save calibration profile: %v%s\n",
			ui.ColorYellow(), err, ui.ColorReset())
	}
}
