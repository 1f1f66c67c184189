package orchestration

import (
	"context"
	"math/big"
	"time"

	"github.com/rs/zerolog/log"

	apperrors "github.com/agbru/bignum/internal/errors"
)

// ReferenceEngineName identifies the math/big cross-check engine.
const ReferenceEngineName = "math/big"

// ReferenceEngine recomputes integer requests with the standard library's
// math/big package. Its results are compared against the native engine to
// detect implementation divergence. Decimal operations, prime search, and
// random generation are not cross-checked.
type ReferenceEngine struct{}

// NewReferenceEngine creates the reference engine.
func NewReferenceEngine() *ReferenceEngine {
	return &ReferenceEngine{}
}

// Name returns the engine identifier.
func (e *ReferenceEngine) Name() string { return ReferenceEngineName }

// Supports reports whether the operation can be recomputed with math/big.
func (e *ReferenceEngine) Supports(op string) bool {
	switch op {
	case "add", "sub", "mul", "quo", "rem", "mod",
		"pow", "modpow", "modinv", "gcd", "sqrt",
		"shl", "shr", "and", "or", "xor", "andnot", "not",
		"cmp", "isprime":
		return true
	}
	return false
}

// Evaluate recomputes the request with math/big.
func (e *ReferenceEngine) Evaluate(ctx context.Context, req Request, progress chan<- float64) (result string, err error) {
	start := time.Now()
	defer func() {
		duration := time.Since(start).Seconds()
		status := "success"
		if err != nil {
			status = "error"
		}
		evaluationsTotal.WithLabelValues(ReferenceEngineName, req.Op, status).Inc()
		evaluationDuration.WithLabelValues(ReferenceEngineName, req.Op).Observe(duration)

		log.Debug().
			Str("engine", ReferenceEngineName).
			Str("operation", req.Op).
			Float64("duration", duration).
			Str("status", status).
			Msg("evaluation completed")
	}()

	reportProgress(progress, 0)
	if err = ctx.Err(); err != nil {
		return "", err
	}
	result, err = e.evaluateCore(req)
	if err == nil {
		reportProgress(progress, 1)
	}
	return result, err
}

func (e *ReferenceEngine) evaluateCore(req Request) (string, error) {
	xs, err := e.parseInts(req)
	if err != nil {
		return "", err
	}
	z := new(big.Int)
	switch req.Op {
	case "add":
		z.Add(xs[0], xs[1])
	case "sub":
		z.Sub(xs[0], xs[1])
	case "mul":
		z.Mul(xs[0], xs[1])
	case "quo":
		if xs[1].Sign() == 0 {
			return "", apperrors.NewArithmeticError(apperrors.KindDivision, "quo", "division by zero")
		}
		z.Quo(xs[0], xs[1])
	case "rem":
		if xs[1].Sign() == 0 {
			return "", apperrors.NewArithmeticError(apperrors.KindDivision, "rem", "division by zero")
		}
		z.Rem(xs[0], xs[1])
	case "mod":
		if xs[1].Sign() == 0 {
			return "", apperrors.NewArithmeticError(apperrors.KindDivision, "mod", "division by zero")
		}
		z.Mod(xs[0], xs[1])
	case "pow":
		if xs[1].Sign() < 0 || !xs[1].IsInt64() {
			return "", apperrors.NewArithmeticError(apperrors.KindExponent, "pow", "exponent out of range")
		}
		z.Exp(xs[0], xs[1], nil)
	case "modpow":
		if xs[2].Sign() <= 0 {
			return "", apperrors.NewArithmeticError(apperrors.KindModulus, "modpow", "modulus must be positive")
		}
		if r := z.Exp(xs[0], xs[1], xs[2]); r == nil {
			return "", apperrors.NewArithmeticError(apperrors.KindModulus, "modpow", "base not invertible for negative exponent")
		}
	case "modinv":
		if r := z.ModInverse(xs[0], xs[1]); r == nil {
			return "", apperrors.NewArithmeticError(apperrors.KindModulus, "modinv", "no modular inverse exists")
		}
	case "gcd":
		z.GCD(nil, nil, new(big.Int).Abs(xs[0]), new(big.Int).Abs(xs[1]))
	case "sqrt":
		if xs[0].Sign() < 0 {
			return "", apperrors.NewArithmeticError(apperrors.KindSqrt, "sqrt", "square root of negative number")
		}
		z.Sqrt(xs[0])
	case "shl":
		if xs[1].Sign() < 0 || !xs[1].IsInt64() {
			return "", apperrors.NewConfigError("shift count must be a non-negative 64-bit integer")
		}
		z.Lsh(xs[0], uint(xs[1].Int64()))
	case "shr":
		if xs[1].Sign() < 0 || !xs[1].IsInt64() {
			return "", apperrors.NewConfigError("shift count must be a non-negative 64-bit integer")
		}
		z.Rsh(xs[0], uint(xs[1].Int64()))
	case "and":
		z.And(xs[0], xs[1])
	case "or":
		z.Or(xs[0], xs[1])
	case "xor":
		z.Xor(xs[0], xs[1])
	case "andnot":
		z.AndNot(xs[0], xs[1])
	case "not":
		z.Not(xs[0])
	case "cmp":
		return formatCmp(xs[0].Cmp(xs[1])), nil
	case "isprime":
		// Mirror the native semantics: primality is a property of |x|,
		// and a non-positive certainty accepts everything.
		if req.Certainty <= 0 {
			return formatBool(true), nil
		}
		rounds := min((req.Certainty+1)/2, 64)
		return formatBool(new(big.Int).Abs(xs[0]).ProbablyPrime(rounds)), nil
	default:
		return "", apperrors.NewConfigError("operation '%s' has no reference implementation", req.Op)
	}
	return z.Text(req.Base), nil
}

func (e *ReferenceEngine) parseInts(req Request) ([]*big.Int, error) {
	if len(req.Operands) != arity(req.Op) {
		return nil, apperrors.NewConfigError("operation '%s' expects %d operand(s), got %d",
			req.Op, arity(req.Op), len(req.Operands))
	}
	xs := make([]*big.Int, len(req.Operands))
	for i, s := range req.Operands {
		x, ok := new(big.Int).SetString(s, req.Base)
		if !ok {
			return nil, apperrors.NewFormatError(s, req.Base, "not a valid integer")
		}
		xs[i] = x
	}
	return xs, nil
}
