package config

import (
	"flag"
	"os"
	"strconv"
	"time"
)

// getEnvString reads a string environment variable with the application
// prefix. Returns the default value if the variable is not set.
func getEnvString(key, defaultValue string) string {
	if value := os.Getenv(EnvPrefix + key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvInt reads an integer environment variable with the application
// prefix. Returns the default value if the variable is not set or invalid.
func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(EnvPrefix + key); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

// getEnvBool reads a boolean environment variable with the application
// prefix. Accepts the forms recognized by strconv.ParseBool.
func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(EnvPrefix + key); value != "" {
		if parsed, err := strconv.ParseBool(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

// getEnvDuration reads a duration environment variable with the application
// prefix. Accepts Go duration syntax (e.g., "5m", "30s").
func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(EnvPrefix + key); value != "" {
		if parsed, err := time.ParseDuration(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

// isFlagSet reports whether a flag was explicitly provided on the command
// line. CLI flags take precedence over environment variables.
func isFlagSet(fs *flag.FlagSet, name string) bool {
	set := false
	fs.Visit(func(f *flag.Flag) {
		if f.Name == name {
			set = true
		}
	})
	return set
}

// applyEnvOverrides applies environment variable values to the
// configuration for flags that were not explicitly set on the command line.
// Precedence order: CLI flags > environment variables > defaults.
func applyEnvOverrides(config *AppConfig, fs *flag.FlagSet) {
	applyNumericEnvOverrides(config, fs)
	applyStringEnvOverrides(config, fs)
	applyBooleanEnvOverrides(config, fs)

	if !isFlagSet(fs, "timeout") {
		config.Timeout = getEnvDuration("TIMEOUT", config.Timeout)
	}
}

func applyNumericEnvOverrides(config *AppConfig, fs *flag.FlagSet) {
	if !isFlagSet(fs, "base") {
		config.Base = getEnvInt("BASE", config.Base)
	}
	if !isFlagSet(fs, "scale") {
		config.Scale = getEnvInt("SCALE", config.Scale)
	}
	if !isFlagSet(fs, "certainty") {
		config.Certainty = getEnvInt("CERTAINTY", config.Certainty)
	}
	if !isFlagSet(fs, "bits") {
		config.PrimeBits = getEnvInt("BITS", config.PrimeBits)
	}
	if !isFlagSet(fs, "karatsuba-threshold") {
		config.KaratsubaThreshold = getEnvInt("KARATSUBA_THRESHOLD", config.KaratsubaThreshold)
	}
	if !isFlagSet(fs, "toomcook3-threshold") {
		config.ToomCook3Threshold = getEnvInt("TOOMCOOK3_THRESHOLD", config.ToomCook3Threshold)
	}
	if !isFlagSet(fs, "bz-threshold") {
		config.BurnikelZieglerThreshold = getEnvInt("BZ_THRESHOLD", config.BurnikelZieglerThreshold)
	}
	if !isFlagSet(fs, "bz-offset") {
		config.BurnikelZieglerOffset = getEnvInt("BZ_OFFSET", config.BurnikelZieglerOffset)
	}
}

func applyStringEnvOverrides(config *AppConfig, fs *flag.FlagSet) {
	if !isFlagSet(fs, "rounding") {
		config.Rounding = getEnvString("ROUNDING", config.Rounding)
	}
	if !isFlagSet(fs, "output") && !isFlagSet(fs, "o") {
		config.OutputFile = getEnvString("OUTPUT_FILE", config.OutputFile)
	}
	if !isFlagSet(fs, "calibration-profile") {
		config.CalibrationProfile = getEnvString("CALIBRATION_PROFILE", config.CalibrationProfile)
	}
}

func applyBooleanEnvOverrides(config *AppConfig, fs *flag.FlagSet) {
	if !isFlagSet(fs, "verify") {
		config.Verify = getEnvBool("VERIFY", config.Verify)
	}
	if !isFlagSet(fs, "json") {
		config.JSONOutput = getEnvBool("JSON_OUTPUT", config.JSONOutput)
	}
	if !isFlagSet(fs, "quiet") && !isFlagSet(fs, "q") {
		config.Quiet = getEnvBool("QUIET", config.Quiet)
	}
	if !isFlagSet(fs, "no-color") {
		config.NoColor = getEnvBool("NO_COLOR", config.NoColor)
	}
	if !isFlagSet(fs, "v") {
		config.Verbose = getEnvBool("VERBOSE", config.Verbose)
	}
	if !isFlagSet(fs, "auto-calibrate") {
		config.AutoCalibrate = getEnvBool("AUTO_CALIBRATE", config.AutoCalibrate)
	}
}
