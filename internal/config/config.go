// Package config provides the configuration management for the bignum
// application. It defines the data structure for the configuration, handles
// the parsing of command-line arguments, and performs validation on the
// configuration values.
package config

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/agbru/bignum/internal/decimal"
	apperrors "github.com/agbru/bignum/internal/errors"
)

const (
	// EnvPrefix is the prefix for all environment variables used by bignum.
	// Environment variables provide an alternative to CLI flags, following
	// the 12-Factor App methodology.
	EnvPrefix = "BIGNUM_"
)

// Default configuration values. These can be overridden via command-line
// flags or environment variables.
const (
	// DefaultTimeout is the default evaluation timeout.
	DefaultTimeout = 5 * time.Minute
	// DefaultBase is the default numeric base for operands and results.
	DefaultBase = 10
	// DefaultScale is the default result scale for decimal division.
	DefaultScale = 20
	// DefaultRounding is the default rounding mode name for decimal ops.
	DefaultRounding = "half-even"
	// DefaultCertainty is the default primality certainty.
	DefaultCertainty = 100
	// DefaultPrimeBits is the default bit length for prime generation.
	DefaultPrimeBits = 256
)

// AppConfig aggregates the application's configuration parameters, parsed
// from command-line flags. It encapsulates all settings that control the
// execution, from the operation to evaluate to performance-tuning
// parameters.
type AppConfig struct {
	// Op is the operation to evaluate (e.g., "add", "modpow", "isprime").
	Op string
	// Operands holds the positional operand strings.
	Operands []string
	// Base is the numeric base of integer operands and results (2 to 36).
	Base int
	// Scale is the target scale for decimal division and rescaling.
	Scale int
	// Rounding names the rounding mode for decimal operations.
	Rounding string
	// Certainty bounds the composite probability of primality answers at
	// 2^-Certainty.
	Certainty int
	// PrimeBits is the bit length for random prime generation.
	PrimeBits int
	// Timeout sets the maximum duration for the evaluation.
	Timeout time.Duration
	// Verify, if true, runs the reference engine alongside the native one
	// and compares the results.
	Verify bool
	// Verbose, if true, displays the full result value.
	Verbose bool
	// Details, if true, adds performance metrics to the report.
	Details bool
	// JSONOutput, if true, outputs the result in JSON format.
	JSONOutput bool
	// Quiet suppresses progress and informational messages.
	Quiet bool
	// NoColor disables colored output; NO_COLOR is also respected.
	NoColor bool
	// OutputFile, if set, saves the result to this path.
	OutputFile string

	// KaratsubaThreshold overrides the multiplication dispatch threshold in
	// digits; 0 keeps the built-in default.
	KaratsubaThreshold int
	// ToomCook3Threshold overrides the Toom-Cook-3 threshold in digits.
	ToomCook3Threshold int
	// BurnikelZieglerThreshold overrides the division threshold in digits.
	BurnikelZieglerThreshold int
	// BurnikelZieglerOffset overrides the division length-gap offset.
	BurnikelZieglerOffset int

	// Calibrate runs the full calibration mode instead of an evaluation.
	Calibrate bool
	// AutoCalibrate runs a short calibration at startup to refine the
	// thresholds for the current machine.
	AutoCalibrate bool
	// CalibrationProfile is the path to a calibration profile file. If
	// empty, the default (~/.bignum_calibration.json) is used.
	CalibrationProfile string
}

// Validate checks the semantic consistency of the configuration parameters.
// availableOps lists the valid operation names.
func (c AppConfig) Validate(availableOps []string) error {
	if c.Timeout <= 0 {
		return apperrors.NewConfigError("timeout value must be strictly positive")
	}
	if c.Base < 2 || c.Base > 36 {
		return apperrors.NewConfigError("base must be in [2, 36], got %d", c.Base)
	}
	if c.Certainty < 1 {
		return apperrors.NewConfigError("certainty must be at least 1, got %d", c.Certainty)
	}
	if c.PrimeBits < 2 {
		return apperrors.NewConfigError("prime bit length must be at least 2, got %d", c.PrimeBits)
	}
	if _, ok := decimal.ParseRoundingMode(c.Rounding); !ok {
		return apperrors.NewConfigError("unknown rounding mode: '%s'", c.Rounding)
	}
	if c.KaratsubaThreshold < 0 || c.ToomCook3Threshold < 0 ||
		c.BurnikelZieglerThreshold < 0 || c.BurnikelZieglerOffset < 0 {
		return apperrors.NewConfigError("thresholds cannot be negative")
	}
	if c.Calibrate {
		return nil
	}
	for _, op := range availableOps {
		if op == c.Op {
			return nil
		}
	}
	return apperrors.NewConfigError("unrecognized operation: '%s'. Valid operations are: [%s]",
		c.Op, strings.Join(availableOps, ", "))
}

// ParseConfig parses the command-line arguments and populates an AppConfig.
// The first positional argument is the operation name; the remaining ones
// are the operands. After parsing, environment overrides are applied for
// flags not explicitly set, and the result is validated.
func ParseConfig(programName string, args []string, errorWriter io.Writer, availableOps []string) (AppConfig, error) {
	fs := flag.NewFlagSet(programName, flag.ContinueOnError)
	fs.SetOutput(errorWriter)
	opHelp := fmt.Sprintf("Operations: [%s].", strings.Join(availableOps, ", "))

	config := AppConfig{}
	fs.IntVar(&config.Base, "base", DefaultBase, "Numeric base of operands and results (2-36).")
	fs.IntVar(&config.Scale, "scale", DefaultScale, "Target scale for decimal division.")
	fs.StringVar(&config.Rounding, "rounding", DefaultRounding, "Rounding mode: up, down, ceiling, floor, half-up, half-down, half-even, unnecessary.")
	fs.IntVar(&config.Certainty, "certainty", DefaultCertainty, "Primality certainty; composite probability is at most 2^-certainty.")
	fs.IntVar(&config.PrimeBits, "bits", DefaultPrimeBits, "Bit length for random prime generation.")
	fs.DurationVar(&config.Timeout, "timeout", DefaultTimeout, "Maximum execution time for the evaluation.")
	fs.BoolVar(&config.Verify, "verify", true, "Cross-check the result against the reference engine.")
	fs.BoolVar(&config.Verbose, "v", false, "Display the full value of the result (can be very long).")
	fs.BoolVar(&config.Details, "d", false, "Display performance details and result metadata.")
	fs.BoolVar(&config.Details, "details", false, "Alias for -d.")
	fs.BoolVar(&config.JSONOutput, "json", false, "Output results in JSON format.")
	fs.BoolVar(&config.Quiet, "quiet", false, "Quiet mode - minimal output for scripts.")
	fs.BoolVar(&config.Quiet, "q", false, "Quiet mode (shorthand).")
	fs.BoolVar(&config.NoColor, "no-color", false, "Disable colored output (also respects NO_COLOR env var).")
	fs.StringVar(&config.OutputFile, "output", "", "Output file path for the result.")
	fs.StringVar(&config.OutputFile, "o", "", "Output file path (shorthand).")

	fs.IntVar(&config.KaratsubaThreshold, "karatsuba-threshold", 0, "Karatsuba multiplication threshold in digits (0 = default).")
	fs.IntVar(&config.ToomCook3Threshold, "toomcook3-threshold", 0, "Toom-Cook-3 multiplication threshold in digits (0 = default).")
	fs.IntVar(&config.BurnikelZieglerThreshold, "bz-threshold", 0, "Burnikel-Ziegler division threshold in digits (0 = default).")
	fs.IntVar(&config.BurnikelZieglerOffset, "bz-offset", 0, "Burnikel-Ziegler dividend/divisor gap in digits (0 = default).")

	fs.BoolVar(&config.Calibrate, "calibrate", false, "Runs calibration mode to determine optimal thresholds.")
	fs.BoolVar(&config.AutoCalibrate, "auto-calibrate", false, "Enables quick automatic calibration at startup.")
	fs.StringVar(&config.CalibrationProfile, "calibration-profile", "", "Path to calibration profile file (default: ~/.bignum_calibration.json).")

	fs.Usage = func() {
		fmt.Fprintf(errorWriter, "Usage: %s [flags] <operation> <operand>...\n%s\n\nFlags:\n", programName, opHelp)
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		return AppConfig{}, err
	}

	rest := fs.Args()
	if len(rest) > 0 {
		config.Op = strings.ToLower(rest[0])
		config.Operands = rest[1:]
	}

	applyEnvOverrides(&config, fs)

	config.Rounding = strings.ToLower(config.Rounding)
	if err := config.Validate(availableOps); err != nil {
		fmt.Fprintln(errorWriter, "Configuration error:", err)
		fs.Usage()
		return AppConfig{}, errors.New("invalid configuration")
	}
	return config, nil
}
