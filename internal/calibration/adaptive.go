package calibration

import (
	"sort"

	"github.com/agbru/bignum/internal/bigint"
	"github.com/agbru/bignum/internal/config"
)

// Candidate threshold generation. The crossover points between schoolbook,
// Karatsuba, and Toom-Cook-3 multiplication, and between Knuth and
// Burnikel-Ziegler division, depend mostly on the memory hierarchy, so the
// candidate lists bracket the built-in defaults.

// GenerateKaratsubaCandidates lists the Karatsuba thresholds to test, in
// 32-bit digits.
func GenerateKaratsubaCandidates() []int {
	return []int{40, 56, 80, 112, 160}
}

// GenerateToomCook3Candidates lists the Toom-Cook-3 thresholds to test.
// Only candidates above the chosen Karatsuba threshold are meaningful.
func GenerateToomCook3Candidates() []int {
	return []int{160, 200, 240, 320, 400}
}

// GenerateBurnikelZieglerCandidates lists the division thresholds to test.
func GenerateBurnikelZieglerCandidates() []int {
	return []int{40, 60, 80, 120, 160}
}

// GenerateQuickKaratsubaCandidates is the reduced set for startup
// auto-calibration.
func GenerateQuickKaratsubaCandidates() []int {
	return []int{56, 80, 112}
}

// GenerateQuickToomCook3Candidates is the reduced set for startup
// auto-calibration.
func GenerateQuickToomCook3Candidates() []int {
	return []int{200, 240, 320}
}

// GenerateQuickBurnikelZieglerCandidates is the reduced set for startup
// auto-calibration.
func GenerateQuickBurnikelZieglerCandidates() []int {
	return []int{60, 80, 120}
}

// ThresholdSet represents a complete set of thresholds to test.
type ThresholdSet struct {
	Karatsuba       []int
	ToomCook3       []int
	BurnikelZiegler []int
}

// GenerateFullThresholdSet generates all candidates for comprehensive
// calibration.
func GenerateFullThresholdSet() ThresholdSet {
	return ThresholdSet{
		Karatsuba:       GenerateKaratsubaCandidates(),
		ToomCook3:       GenerateToomCook3Candidates(),
		BurnikelZiegler: GenerateBurnikelZieglerCandidates(),
	}
}

// GenerateQuickThresholdSet generates candidates for quick
// auto-calibration.
func GenerateQuickThresholdSet() ThresholdSet {
	return ThresholdSet{
		Karatsuba:       GenerateQuickKaratsubaCandidates(),
		ToomCook3:       GenerateQuickToomCook3Candidates(),
		BurnikelZiegler: GenerateQuickBurnikelZieglerCandidates(),
	}
}

// SortThresholds sorts each candidate slice in ascending order.
func (t *ThresholdSet) SortThresholds() {
	sort.Ints(t.Karatsuba)
	sort.Ints(t.ToomCook3)
	sort.Ints(t.BurnikelZiegler)
}

// ValidateThresholds clamps thresholds to sane bounds and enforces the
// ordering constraint between the multiplication tiers.
func ValidateThresholds(karatsuba, toomCook3, bz int) (int, int, int) {
	if karatsuba < 8 {
		karatsuba = 8
	}
	if karatsuba > 4096 {
		karatsuba = 4096
	}
	if toomCook3 <= karatsuba {
		toomCook3 = karatsuba * 3
	}
	if toomCook3 > 16384 {
		toomCook3 = 16384
	}
	if bz < 8 {
		bz = 8
	}
	if bz > 4096 {
		bz = 4096
	}
	return karatsuba, toomCook3, bz
}

// ApplyThresholds pushes the configured threshold overrides into the
// arithmetic core. Zero values keep the built-in defaults.
func ApplyThresholds(cfg config.AppConfig) {
	karatsuba, toomCook3 := bigint.MulThresholds()
	if cfg.KaratsubaThreshold > 0 {
		karatsuba = cfg.KaratsubaThreshold
	}
	if cfg.ToomCook3Threshold > 0 {
		toomCook3 = cfg.ToomCook3Threshold
	}
	bzThreshold, bzOffset := bigint.DivThresholds()
	if cfg.BurnikelZieglerThreshold > 0 {
		bzThreshold = cfg.BurnikelZieglerThreshold
	}
	if cfg.BurnikelZieglerOffset > 0 {
		bzOffset = cfg.BurnikelZieglerOffset
	}

	karatsuba, toomCook3, bzThreshold = ValidateThresholds(karatsuba, toomCook3, bzThreshold)
	bigint.SetMulThresholds(karatsuba, toomCook3)
	bigint.SetDivThresholds(bzThreshold, bzOffset)
}
