package calibration

import (
	"context"
	"sort"
	"testing"

	"github.com/agbru/bignum/internal/bigint"
	"github.com/agbru/bignum/internal/config"
)

// saveThresholds snapshots the process-global thresholds and restores them
// when the test finishes.
func saveThresholds(t *testing.T) {
	t.Helper()
	karatsuba, toomCook3 := bigint.MulThresholds()
	bz, offset := bigint.DivThresholds()
	t.Cleanup(func() {
		bigint.SetMulThresholds(karatsuba, toomCook3)
		bigint.SetDivThresholds(bz, offset)
	})
}

func TestCandidateGenerators(t *testing.T) {
	sets := map[string][]int{
		"karatsuba":            GenerateKaratsubaCandidates(),
		"toomcook3":            GenerateToomCook3Candidates(),
		"burnikel-ziegler":      GenerateBurnikelZieglerCandidates(),
		"quick karatsuba":       GenerateQuickKaratsubaCandidates(),
		"quick toomcook3":       GenerateQuickToomCook3Candidates(),
		"quick burnikelziegler": GenerateQuickBurnikelZieglerCandidates(),
	}
	for name, candidates := range sets {
		if len(candidates) == 0 {
			t.Errorf("%s candidate list is empty", name)
		}
		if !sort.IntsAreSorted(candidates) {
			t.Errorf("%s candidates are not sorted: %v", name, candidates)
		}
		for _, c := range candidates {
			if c <= 0 {
				t.Errorf("%s candidate %d is not positive", name, c)
			}
		}
	}

	if len(GenerateQuickKaratsubaCandidates()) >= len(GenerateKaratsubaCandidates()) {
		t.Error("quick set should be smaller than the full set")
	}
}

func TestThresholdSetSort(t *testing.T) {
	set := ThresholdSet{
		Karatsuba:       []int{160, 40, 80},
		ToomCook3:       []int{400, 160},
		BurnikelZiegler: []int{120, 60},
	}
	set.SortThresholds()
	if !sort.IntsAreSorted(set.Karatsuba) || !sort.IntsAreSorted(set.ToomCook3) || !sort.IntsAreSorted(set.BurnikelZiegler) {
		t.Errorf("SortThresholds left unsorted slices: %+v", set)
	}
}

func TestValidateThresholds(t *testing.T) {
	cases := []struct {
		name                     string
		karatsuba, toomCook3, bz int
		wantK, wantT, wantBZ     int
	}{
		{"pass through", 80, 240, 80, 80, 240, 80},
		{"clamp low", 1, 2, 3, 8, 24, 8},
		{"clamp high", 10000, 50000, 10000, 4096, 16384, 4096},
		{"toomcook3 below karatsuba", 100, 50, 60, 100, 300, 60},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			k, tc3, bz := ValidateThresholds(tc.karatsuba, tc.toomCook3, tc.bz)
			if k != tc.wantK || tc3 != tc.wantT || bz != tc.wantBZ {
				t.Errorf("ValidateThresholds(%d, %d, %d) = (%d, %d, %d), want (%d, %d, %d)",
					tc.karatsuba, tc.toomCook3, tc.bz, k, tc3, bz, tc.wantK, tc.wantT, tc.wantBZ)
			}
		})
	}
}

func TestApplyThresholds(t *testing.T) {
	saveThresholds(t)

	cfg := config.AppConfig{
		KaratsubaThreshold:       64,
		ToomCook3Threshold:       300,
		BurnikelZieglerThreshold: 100,
		BurnikelZieglerOffset:    16,
	}
	ApplyThresholds(cfg)

	karatsuba, toomCook3 := bigint.MulThresholds()
	if karatsuba != 64 || toomCook3 != 300 {
		t.Errorf("MulThresholds = (%d, %d), want (64, 300)", karatsuba, toomCook3)
	}
	bz, offset := bigint.DivThresholds()
	if bz != 100 || offset != 16 {
		t.Errorf("DivThresholds = (%d, %d), want (100, 16)", bz, offset)
	}
}

func TestApplyThresholdsZeroKeepsDefaults(t *testing.T) {
	saveThresholds(t)

	beforeK, beforeT := bigint.MulThresholds()
	beforeBZ, beforeOffset := bigint.DivThresholds()
	ApplyThresholds(config.AppConfig{})

	karatsuba, toomCook3 := bigint.MulThresholds()
	bz, offset := bigint.DivThresholds()
	if karatsuba != beforeK || toomCook3 != beforeT || bz != beforeBZ || offset != beforeOffset {
		t.Errorf("zero config changed thresholds: (%d, %d, %d, %d) -> (%d, %d, %d, %d)",
			beforeK, beforeT, beforeBZ, beforeOffset, karatsuba, toomCook3, bz, offset)
	}
}

func TestQuickCalibrate(t *testing.T) {
	saveThresholds(t)

	beforeK, beforeT := bigint.MulThresholds()
	tr, err := QuickCalibrate(context.Background())
	if err != nil {
		t.Fatalf("QuickCalibrate failed: %v", err)
	}
	if tr.KaratsubaThreshold <= 0 || tr.ToomCook3Threshold <= 0 || tr.BurnikelZieglerThreshold <= 0 {
		t.Errorf("non-positive thresholds: %+v", tr)
	}
	if tr.Confidence < 0.5 || tr.Confidence > 1.0 {
		t.Errorf("confidence out of range: %v", tr.Confidence)
	}

	// The benchmark must restore the global thresholds it mutated.
	afterK, afterT := bigint.MulThresholds()
	if afterK != beforeK || afterT != beforeT {
		t.Errorf("thresholds not restored: (%d, %d) -> (%d, %d)", beforeK, beforeT, afterK, afterT)
	}
}

func TestGenerateTestNumber(t *testing.T) {
	for _, digits := range []int{1, 16, 96, 640} {
		x := generateTestNumber(digits)
		if x.Sign() <= 0 {
			t.Errorf("generateTestNumber(%d) is not positive", digits)
		}
		want := digits * 32
		if got := x.BitLen(); got < want-8 || got > want {
			t.Errorf("generateTestNumber(%d).BitLen() = %d, want close to %d", digits, got, want)
		}
	}

	// Deterministic across calls
	if !generateTestNumber(32).Equal(generateTestNumber(32)) {
		t.Error("generateTestNumber is not deterministic")
	}
}
