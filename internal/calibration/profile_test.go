package calibration

import (
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func validProfile() *CalibrationProfile {
	p := NewProfile()
	p.OptimalKaratsubaThreshold = 80
	p.OptimalToomCook3Threshold = 240
	p.OptimalBurnikelZieglerThreshold = 80
	return p
}

func TestProfileSaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "profile.json")
	p := validProfile()
	if err := p.SaveProfile(path); err != nil {
		t.Fatalf("SaveProfile failed: %v", err)
	}

	loaded, err := LoadProfile(path)
	if err != nil {
		t.Fatalf("LoadProfile failed: %v", err)
	}
	if loaded.OptimalKaratsubaThreshold != 80 ||
		loaded.OptimalToomCook3Threshold != 240 ||
		loaded.OptimalBurnikelZieglerThreshold != 80 {
		t.Errorf("thresholds lost in round trip: %+v", loaded)
	}
	if loaded.ProfileVersion != CurrentProfileVersion {
		t.Errorf("ProfileVersion = %d", loaded.ProfileVersion)
	}
	if !loaded.IsValid() {
		t.Error("round-tripped profile is not valid")
	}
}

func TestLoadProfileMissing(t *testing.T) {
	if _, err := LoadProfile(filepath.Join(t.TempDir(), "missing.json")); err == nil {
		t.Error("LoadProfile succeeded on a missing file")
	}
}

func TestProfileIsValid(t *testing.T) {
	var nilProfile *CalibrationProfile
	if nilProfile.IsValid() {
		t.Error("nil profile is valid")
	}

	cases := []struct {
		name   string
		mutate func(*CalibrationProfile)
	}{
		{"wrong version", func(p *CalibrationProfile) { p.ProfileVersion = 0 }},
		{"different cpu count", func(p *CalibrationProfile) { p.NumCPU++ }},
		{"different arch", func(p *CalibrationProfile) { p.GOARCH = "wasm" }},
		{"different word size", func(p *CalibrationProfile) { p.WordSize /= 2 }},
		{"zero karatsuba", func(p *CalibrationProfile) { p.OptimalKaratsubaThreshold = 0 }},
		{"toomcook3 below karatsuba", func(p *CalibrationProfile) { p.OptimalToomCook3Threshold = 40 }},
		{"zero burnikel-ziegler", func(p *CalibrationProfile) { p.OptimalBurnikelZieglerThreshold = 0 }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			p := validProfile()
			tc.mutate(p)
			if p.IsValid() {
				t.Error("profile should be invalid")
			}
		})
	}
}

func TestProfileIsStale(t *testing.T) {
	p := validProfile()
	if p.IsStale(time.Hour) {
		t.Error("fresh profile is stale")
	}
	p.CalibratedAt = time.Now().Add(-48 * time.Hour)
	if !p.IsStale(24 * time.Hour) {
		t.Error("two-day-old profile is not stale")
	}
	var nilProfile *CalibrationProfile
	if !nilProfile.IsStale(time.Hour) {
		t.Error("nil profile is not stale")
	}
}

func TestLoadOrCreateProfile(t *testing.T) {
	dir := t.TempDir()
	missing := filepath.Join(dir, "missing.json")
	if _, loaded := LoadOrCreateProfile(missing); loaded {
		t.Error("LoadOrCreateProfile reported a load for a missing file")
	}

	path := filepath.Join(dir, "profile.json")
	if err := validProfile().SaveProfile(path); err != nil {
		t.Fatalf("SaveProfile failed: %v", err)
	}
	p, loaded := LoadOrCreateProfile(path)
	if !loaded || p.OptimalKaratsubaThreshold != 80 {
		t.Errorf("loaded=%v profile=%+v", loaded, p)
	}

	// An invalid cached profile falls back to a fresh one.
	bad := validProfile()
	bad.ProfileVersion = 99
	badPath := filepath.Join(dir, "bad.json")
	if err := bad.SaveProfile(badPath); err != nil {
		t.Fatalf("SaveProfile failed: %v", err)
	}
	if _, loaded := LoadOrCreateProfile(badPath); loaded {
		t.Error("LoadOrCreateProfile accepted an incompatible profile")
	}
}

func TestProfileExists(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "profile.json")
	if ProfileExists(path) {
		t.Error("ProfileExists = true for a missing file")
	}
	if err := validProfile().SaveProfile(path); err != nil {
		t.Fatalf("SaveProfile failed: %v", err)
	}
	if !ProfileExists(path) {
		t.Error("ProfileExists = false for a saved profile")
	}
}

func TestProfileString(t *testing.T) {
	var nilProfile *CalibrationProfile
	if nilProfile.String() != "<nil profile>" {
		t.Errorf("nil String() = %q", nilProfile.String())
	}
	s := validProfile().String()
	for _, want := range []string{"Karatsuba: 80", "ToomCook3: 240", "BurnikelZiegler: 80"} {
		if !strings.Contains(s, want) {
			t.Errorf("String() missing %q: %s", want, s)
		}
	}
}
