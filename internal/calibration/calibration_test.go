package calibration

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/agbru/bignum/internal/config"
)

func TestLoadCachedCalibration(t *testing.T) {
	dir := t.TempDir()

	// No profile on disk yet
	if _, ok := LoadCachedCalibration(config.AppConfig{}, filepath.Join(dir, "missing.json")); ok {
		t.Error("LoadCachedCalibration reported success with no profile")
	}

	path := filepath.Join(dir, "profile.json")
	if err := validProfile().SaveProfile(path); err != nil {
		t.Fatalf("SaveProfile failed: %v", err)
	}

	updated, ok := LoadCachedCalibration(config.AppConfig{}, path)
	if !ok {
		t.Fatal("LoadCachedCalibration did not load a valid profile")
	}
	if updated.KaratsubaThreshold != 80 || updated.ToomCook3Threshold != 240 || updated.BurnikelZieglerThreshold != 80 {
		t.Errorf("thresholds not applied: %+v", updated)
	}
}

func TestApplyProfileKeepsCLIOverrides(t *testing.T) {
	cfg := config.AppConfig{KaratsubaThreshold: 64}
	updated := applyProfile(cfg, validProfile())
	if updated.KaratsubaThreshold != 64 {
		t.Errorf("explicit override lost: %d", updated.KaratsubaThreshold)
	}
	if updated.ToomCook3Threshold != 240 || updated.BurnikelZieglerThreshold != 80 {
		t.Errorf("profile values not filled in: %+v", updated)
	}
}

func TestSweepCandidatesPicksFastest(t *testing.T) {
	mb := NewMicroBenchmark()
	durations := map[int]int64{40: 300, 80: 100, 160: 200}
	best, results := sweepCandidates(context.Background(), mb, "karatsuba", []int{40, 80, 160}, func(v int) (time.Duration, error) {
		return time.Duration(durations[v]), nil
	})
	if best != 80 {
		t.Errorf("best = %d, want 80", best)
	}
	if len(results) != 3 {
		t.Errorf("got %d results, want 3", len(results))
	}
}

func TestSweepCandidatesSkipsFailures(t *testing.T) {
	mb := NewMicroBenchmark()
	best, results := sweepCandidates(context.Background(), mb, "karatsuba", []int{40, 80}, func(v int) (time.Duration, error) {
		if v == 40 {
			return 0, context.DeadlineExceeded
		}
		return time.Duration(100), nil
	})
	if best != 80 {
		t.Errorf("best = %d, want 80", best)
	}
	if results[0].Err == nil {
		t.Error("failure was not recorded")
	}
}

func TestSweepCandidatesCanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	best, results := sweepCandidates(ctx, NewMicroBenchmark(), "karatsuba", []int{40, 80}, func(v int) (time.Duration, error) {
		t.Fatal("run called on a canceled context")
		return 0, nil
	})
	if best != 0 || len(results) != 0 {
		t.Errorf("best=%d results=%v", best, results)
	}
}
