// Package apperrors defines structured application error types,
// allowing for a clear distinction between error classes (configuration,
// arithmetic, formatting, overflow) and for carrying the underlying cause.
//
// Error Wrapping Guidelines:
// This package follows Go's error wrapping conventions using fmt.Errorf with %w.
// All error types implement the Unwrap() method where they carry a cause, so
// they cooperate with errors.Is() and errors.As().
package apperrors

import (
	"context"
	"errors"
	"fmt"
)

// Application exit codes define the standard exit statuses for the application.
// These codes are used to signal the outcome of the program execution to the OS.
const (
	ExitSuccess       = 0   // Indicates successful execution.
	ExitErrorGeneric  = 1   // Indicates a generic error.
	ExitErrorTimeout  = 2   // Indicates the operation timed out.
	ExitErrorMismatch = 3   // Indicates a result mismatch between engines.
	ExitErrorConfig   = 4   // Indicates a configuration error.
	ExitErrorCanceled = 130 // Indicates the operation was canceled (e.g., SIGINT).
)

// ConfigError represents a user configuration error, such as invalid flags or
// values. It indicates that the application cannot proceed due to incorrect
// user input.
type ConfigError struct {
	// Message explains the specific configuration error.
	Message string
}

// Error returns the error message for a ConfigError.
func (e ConfigError) Error() string { return e.Message }

// NewConfigError creates a new ConfigError with a formatted message.
func NewConfigError(format string, a ...any) error {
	return ConfigError{Message: fmt.Sprintf(format, a...)}
}

// FormatError reports a malformed numeric string: an empty input, a digit
// that is invalid for the requested base, or a base outside [2, 36].
type FormatError struct {
	// Input is the offending string (possibly truncated by the caller).
	Input string
	// Base is the numeric base the input was parsed under.
	Base int
	// Reason describes why parsing failed.
	Reason string
}

// Error returns the error message for a FormatError.
func (e FormatError) Error() string {
	if e.Input == "" {
		return fmt.Sprintf("invalid number format (base %d): %s", e.Base, e.Reason)
	}
	return fmt.Sprintf("invalid number format for %q (base %d): %s", e.Input, e.Base, e.Reason)
}

// NewFormatError creates a new FormatError for the given input and base.
func NewFormatError(input string, base int, format string, a ...any) error {
	return FormatError{Input: input, Base: base, Reason: fmt.Sprintf(format, a...)}
}

// ArithmeticKind discriminates the classes of arithmetic failure.
type ArithmeticKind int

// Arithmetic failure classes. Each corresponds to a distinct precondition
// violation on an arithmetic operation.
const (
	// KindDivision indicates a division (or remainder) by zero.
	KindDivision ArithmeticKind = iota
	// KindModulus indicates a non-positive or otherwise unsuitable modulus,
	// or a modular inverse that does not exist.
	KindModulus
	// KindExponent indicates a negative exponent passed to an operation that
	// requires a non-negative one.
	KindExponent
	// KindSqrt indicates a square root of a negative value.
	KindSqrt
	// KindRounding indicates a rounding operation that would discard digits
	// while the caller required an exact result.
	KindRounding
)

// String returns a short human-readable name for the kind.
func (k ArithmeticKind) String() string {
	switch k {
	case KindDivision:
		return "division"
	case KindModulus:
		return "modulus"
	case KindExponent:
		return "exponent"
	case KindSqrt:
		return "sqrt"
	case KindRounding:
		return "rounding"
	default:
		return "unknown"
	}
}

// ArithmeticError reports an arithmetic operation that cannot proceed, such
// as a division by zero or a modular inverse that does not exist.
type ArithmeticError struct {
	// Kind classifies the failure.
	Kind ArithmeticKind
	// Op names the operation that failed (e.g., "QuoRem", "ModInverse").
	Op string
	// Reason describes the precondition violation.
	Reason string
}

// Error returns the error message for an ArithmeticError.
func (e ArithmeticError) Error() string {
	return fmt.Sprintf("arithmetic error (%s) in %s: %s", e.Kind, e.Op, e.Reason)
}

// NewArithmeticError creates a new ArithmeticError.
func NewArithmeticError(kind ArithmeticKind, op, format string, a ...any) error {
	return ArithmeticError{Kind: kind, Op: op, Reason: fmt.Sprintf(format, a...)}
}

// IsDivisionByZero reports whether err is an ArithmeticError of kind
// KindDivision.
func IsDivisionByZero(err error) bool {
	var ae ArithmeticError
	return errors.As(err, &ae) && ae.Kind == KindDivision
}

// OverflowError reports a conversion to a fixed-width primitive type that
// does not fit the target.
type OverflowError struct {
	// Value is the decimal rendering of the value that did not fit.
	Value string
	// Target names the destination type (e.g., "int64").
	Target string
}

// Error returns the error message for an OverflowError.
func (e OverflowError) Error() string {
	return fmt.Sprintf("value %s overflows %s", e.Value, e.Target)
}

// NewOverflowError creates a new OverflowError.
func NewOverflowError(value, target string) error {
	return OverflowError{Value: value, Target: target}
}

// WrapError wraps an error with additional context using fmt.Errorf and %w.
// This allows the wrapped error to be unwrapped with errors.Unwrap() and
// checked with errors.Is() and errors.As().
func WrapError(err error, format string, args ...any) error {
	if err == nil {
		return nil
	}
	message := fmt.Sprintf(format, args...)
	return fmt.Errorf("%s: %w", message, err)
}

// IsContextError checks if the error is a context cancellation or deadline
// exceeded error.
func IsContextError(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}
