// Package calibration determines the algorithm-switch thresholds that
// perform best on the current hardware. The optimal crossover points for
// Karatsuba, Toom-Cook-3, and Burnikel-Ziegler depend on cache sizes and
// word throughput, so they are measured once and cached in a profile file.
package calibration

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"time"
)

// CalibrationProfile stores the results of a calibration run. It captures
// both the optimal thresholds and the hardware context to allow validation
// of cached results.
type CalibrationProfile struct {
	// Hardware identification
	CPUModel  string `json:"cpu_model"`
	NumCPU    int    `json:"num_cpu"`
	GOARCH    string `json:"goarch"`
	GOOS      string `json:"goos"`
	GoVersion string `json:"go_version"`
	WordSize  int    `json:"word_size"` // 32 or 64

	// Calibrated thresholds, in 32-bit digits
	OptimalKaratsubaThreshold       int `json:"optimal_karatsuba_threshold"`
	OptimalToomCook3Threshold       int `json:"optimal_toomcook3_threshold"`
	OptimalBurnikelZieglerThreshold int `json:"optimal_burnikel_ziegler_threshold"`

	// Calibration metadata
	CalibratedAt    time.Time `json:"calibrated_at"`
	CalibrationTime string    `json:"calibration_time"`

	// Version for forward compatibility
	ProfileVersion int `json:"profile_version"`
}

const (
	// CurrentProfileVersion is the current version of the profile format.
	// Increment this when making breaking changes to the profile structure.
	CurrentProfileVersion = 1

	// DefaultProfileFileName is the default name for the calibration
	// profile file.
	DefaultProfileFileName = ".bignum_calibration.json"
)

// GetDefaultProfilePath returns the default path for the calibration
// profile. It uses the user's home directory if available, otherwise the
// current directory.
func GetDefaultProfilePath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return DefaultProfileFileName
	}
	return filepath.Join(home, DefaultProfileFileName)
}

// NewProfile creates a new CalibrationProfile with current hardware info.
func NewProfile() *CalibrationProfile {
	return &CalibrationProfile{
		CPUModel:       getCPUModel(),
		NumCPU:         runtime.NumCPU(),
		GOARCH:         runtime.GOARCH,
		GOOS:           runtime.GOOS,
		GoVersion:      runtime.Version(),
		WordSize:       32 << (^uint(0) >> 63), // 32 or 64
		CalibratedAt:   time.Now(),
		ProfileVersion: CurrentProfileVersion,
	}
}

// getCPUModel returns a coarse CPU identifier. GOARCH plus core count is
// enough to detect a profile that was generated on a different machine.
func getCPUModel() string {
	return fmt.Sprintf("%s-%d-cores", runtime.GOARCH, runtime.NumCPU())
}

// LoadProfile loads a calibration profile from the specified path.
func LoadProfile(path string) (*CalibrationProfile, error) {
	if path == "" {
		path = GetDefaultProfilePath()
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read profile: %w", err)
	}

	var profile CalibrationProfile
	if err := json.Unmarshal(data, &profile); err != nil {
		return nil, fmt.Errorf("failed to parse profile: %w", err)
	}

	return &profile, nil
}

// SaveProfile saves the calibration profile to the specified path. If path
// is empty, uses the default profile path.
func (p *CalibrationProfile) SaveProfile(path string) error {
	if path == "" {
		path = GetDefaultProfilePath()
	}

	data, err := json.MarshalIndent(p, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal profile: %w", err)
	}

	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write profile: %w", err)
	}

	return nil
}

// IsValid checks if the profile is usable on the current hardware. The
// version, CPU count, architecture, and word size must all match.
func (p *CalibrationProfile) IsValid() bool {
	if p == nil {
		return false
	}
	if p.ProfileVersion != CurrentProfileVersion {
		return false
	}
	if p.NumCPU != runtime.NumCPU() {
		return false
	}
	if p.GOARCH != runtime.GOARCH {
		return false
	}
	wordSize := 32 << (^uint(0) >> 63)
	if p.WordSize != wordSize {
		return false
	}
	if p.OptimalKaratsubaThreshold <= 0 || p.OptimalToomCook3Threshold <= p.OptimalKaratsubaThreshold {
		return false
	}
	return p.OptimalBurnikelZieglerThreshold > 0
}

// IsStale checks if the profile is older than the given duration.
func (p *CalibrationProfile) IsStale(maxAge time.Duration) bool {
	if p == nil {
		return true
	}
	return time.Since(p.CalibratedAt) > maxAge
}

// String returns a human-readable summary of the profile.
func (p *CalibrationProfile) String() string {
	if p == nil {
		return "<nil profile>"
	}
	return fmt.Sprintf(
		"CalibrationProfile{CPU: %s, Karatsuba: %d digits, ToomCook3: %d digits, BurnikelZiegler: %d digits, Calibrated: %s}",
		p.CPUModel,
		p.OptimalKaratsubaThreshold,
		p.OptimalToomCook3Threshold,
		p.OptimalBurnikelZieglerThreshold,
		p.CalibratedAt.Format(time.RFC3339),
	)
}

// LoadOrCreateProfile loads an existing profile or creates a new one if not
// found or incompatible with the current hardware.
func LoadOrCreateProfile(path string) (*CalibrationProfile, bool) {
	profile, err := LoadProfile(path)
	if err != nil {
		return NewProfile(), false
	}
	if !profile.IsValid() {
		return NewProfile(), false
	}
	return profile, true
}

// ProfileExists checks if a calibration profile exists at the given path.
func ProfileExists(path string) bool {
	if path == "" {
		path = GetDefaultProfilePath()
	}
	_, err := os.Stat(path)
	return err == nil
}
