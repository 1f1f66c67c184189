// Package orchestration coordinates the concurrent execution of evaluation
// engines and the comparison of their results. The native engine computes
// with the internal arbitrary-precision packages; the reference engine
// recomputes the same request with math/big so that results can be
// cross-checked.
package orchestration

import (
	"context"
	"time"

	"github.com/agbru/bignum/internal/decimal"
)

// Request describes one evaluation. Operands are carried as strings so
// that each engine parses them independently with its own number types.
type Request struct {
	// Op is the operation name (e.g., "add", "modpow", "isprime").
	Op string
	// Operands holds the operand strings, in positional order.
	Operands []string
	// Base is the numeric base of integer operands and of the result.
	Base int
	// Scale is the target scale for decimal division and rescaling.
	Scale int
	// Rounding is the rounding mode for decimal operations.
	Rounding decimal.RoundingMode
	// Certainty bounds the composite probability for primality answers.
	Certainty int
	// PrimeBits is the bit length for random prime generation.
	PrimeBits int
}

// Engine evaluates a request and returns the result as a canonical string.
// Implementations must honor context cancellation and may report progress
// in [0, 1] on the provided channel without blocking.
type Engine interface {
	// Name returns the engine identifier used in reports.
	Name() string
	// Supports reports whether the engine implements the operation.
	Supports(op string) bool
	// Evaluate computes the request. The returned string is the canonical
	// rendering of the result; two engines agree exactly when their
	// strings are equal.
	Evaluate(ctx context.Context, req Request, progress chan<- float64) (string, error)
}

// EvaluationResult captures the outcome of one engine run.
type EvaluationResult struct {
	// EngineName identifies the engine that produced the result.
	EngineName string
	// Value is the canonical result string; empty when Err is set.
	Value string
	// Duration is the wall-clock execution time.
	Duration time.Duration
	// Err is the evaluation error, if any.
	Err error
}

// SupportedOps lists the operation names accepted by the native engine,
// in display order.
func SupportedOps() []string {
	return []string{
		"add", "sub", "mul", "quo", "rem", "mod",
		"pow", "modpow", "modinv", "gcd", "sqrt",
		"shl", "shr", "and", "or", "xor", "andnot", "not",
		"cmp",
		"isprime", "nextprime", "randprime",
		"dadd", "dsub", "dmul", "ddiv", "drescale",
	}
}
