package orchestration

import (
	"context"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/rs/zerolog/log"
	"go.opentelemetry.io/otel"

	"github.com/agbru/bignum/internal/bigint"
	"github.com/agbru/bignum/internal/decimal"
	apperrors "github.com/agbru/bignum/internal/errors"
)

var (
	evaluationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bignum_evaluations_total",
			Help: "The total number of evaluations processed",
		},
		[]string{"engine", "operation", "status"},
	)
	evaluationDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "bignum_evaluation_duration_seconds",
			Help: "The duration of evaluations in seconds",
		},
		[]string{"engine", "operation"},
	)
)

// NativeEngineName identifies the internal arbitrary-precision engine.
const NativeEngineName = "native"

// NativeEngine evaluates requests with the internal bigint and decimal
// packages. It wraps the pure computation with tracing, metrics, and debug
// logging.
type NativeEngine struct{}

// NewNativeEngine creates the native evaluation engine.
func NewNativeEngine() *NativeEngine {
	return &NativeEngine{}
}

// Name returns the engine identifier.
func (e *NativeEngine) Name() string { return NativeEngineName }

// Supports reports whether the operation is implemented.
func (e *NativeEngine) Supports(op string) bool {
	for _, known := range SupportedOps() {
		if known == op {
			return true
		}
	}
	return false
}

// Evaluate computes the request with the internal packages.
func (e *NativeEngine) Evaluate(ctx context.Context, req Request, progress chan<- float64) (result string, err error) {
	tracer := otel.Tracer("bignum")
	ctx, span := tracer.Start(ctx, "Evaluate")
	defer span.End()

	start := time.Now()
	defer func() {
		duration := time.Since(start).Seconds()
		status := "success"
		if err != nil {
			status = "error"
		}
		evaluationsTotal.WithLabelValues(NativeEngineName, req.Op, status).Inc()
		evaluationDuration.WithLabelValues(NativeEngineName, req.Op).Observe(duration)

		log.Debug().
			Str("engine", NativeEngineName).
			Str("operation", req.Op).
			Float64("duration", duration).
			Str("status", status).
			Msg("evaluation completed")
	}()

	reportProgress(progress, 0)
	if err = ctx.Err(); err != nil {
		return "", err
	}
	result, err = e.evaluateCore(ctx, req)
	if err == nil {
		reportProgress(progress, 1)
	}
	return result, err
}

// reportProgress sends a progress value without blocking. Slow consumers
// drop updates rather than stall the computation.
func reportProgress(progress chan<- float64, v float64) {
	if progress == nil {
		return
	}
	select {
	case progress <- v:
	default:
	}
}

func (e *NativeEngine) evaluateCore(ctx context.Context, req Request) (string, error) {
	switch req.Op {
	case "dadd", "dsub", "dmul", "ddiv", "drescale":
		return e.evaluateDecimal(req)
	case "randprime":
		return e.evaluateRandomPrime(ctx, req)
	}

	xs, err := e.parseInts(req)
	if err != nil {
		return "", err
	}
	switch req.Op {
	case "add":
		return xs[0].Add(xs[1]).Text(req.Base)
	case "sub":
		return xs[0].Sub(xs[1]).Text(req.Base)
	case "mul":
		return xs[0].Mul(xs[1]).Text(req.Base)
	case "quo":
		q, err := xs[0].Quo(xs[1])
		if err != nil {
			return "", err
		}
		return q.Text(req.Base)
	case "rem":
		r, err := xs[0].Rem(xs[1])
		if err != nil {
			return "", err
		}
		return r.Text(req.Base)
	case "mod":
		m, err := xs[0].Mod(xs[1])
		if err != nil {
			return "", err
		}
		return m.Text(req.Base)
	case "pow":
		n, err := intExponent(xs[1])
		if err != nil {
			return "", err
		}
		p, err := xs[0].Pow(n)
		if err != nil {
			return "", err
		}
		return p.Text(req.Base)
	case "modpow":
		r, err := xs[0].ModPow(xs[1], xs[2])
		if err != nil {
			return "", err
		}
		return r.Text(req.Base)
	case "modinv":
		r, err := xs[0].ModInverse(xs[1])
		if err != nil {
			return "", err
		}
		return r.Text(req.Base)
	case "gcd":
		return xs[0].GCD(xs[1]).Text(req.Base)
	case "sqrt":
		r, err := xs[0].Sqrt()
		if err != nil {
			return "", err
		}
		return r.Text(req.Base)
	case "shl":
		n, err := shiftCount(xs[1])
		if err != nil {
			return "", err
		}
		return xs[0].ShiftLeft(n).Text(req.Base)
	case "shr":
		n, err := shiftCount(xs[1])
		if err != nil {
			return "", err
		}
		return xs[0].ShiftRight(n).Text(req.Base)
	case "and":
		return xs[0].And(xs[1]).Text(req.Base)
	case "or":
		return xs[0].Or(xs[1]).Text(req.Base)
	case "xor":
		return xs[0].Xor(xs[1]).Text(req.Base)
	case "andnot":
		return xs[0].AndNot(xs[1]).Text(req.Base)
	case "not":
		return xs[0].Not().Text(req.Base)
	case "cmp":
		return formatCmp(xs[0].Cmp(xs[1])), nil
	case "isprime":
		return formatBool(xs[0].ProbablyPrime(req.Certainty)), nil
	case "nextprime":
		return xs[0].NextProbablePrime().Text(req.Base)
	}
	return "", apperrors.NewConfigError("unrecognized operation: '%s'", req.Op)
}

func (e *NativeEngine) evaluateDecimal(req Request) (string, error) {
	ds, err := e.parseDecimals(req)
	if err != nil {
		return "", err
	}
	switch req.Op {
	case "dadd":
		return ds[0].Add(ds[1]).String(), nil
	case "dsub":
		return ds[0].Sub(ds[1]).String(), nil
	case "dmul":
		return ds[0].Mul(ds[1]).String(), nil
	case "ddiv":
		q, err := ds[0].Div(ds[1], int32(req.Scale), req.Rounding)
		if err != nil {
			return "", err
		}
		return q.String(), nil
	case "drescale":
		r, err := ds[0].Rescale(int32(req.Scale), req.Rounding)
		if err != nil {
			return "", err
		}
		return r.String(), nil
	}
	return "", apperrors.NewConfigError("unrecognized operation: '%s'", req.Op)
}

func (e *NativeEngine) evaluateRandomPrime(ctx context.Context, req Request) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	p, err := bigint.Prime(nil, req.PrimeBits)
	if err != nil {
		return "", err
	}
	return p.Text(req.Base)
}

// arity returns the operand count expected by an operation.
func arity(op string) int {
	switch op {
	case "not", "sqrt", "isprime", "nextprime", "drescale":
		return 1
	case "randprime":
		return 0
	case "modpow":
		return 3
	default:
		return 2
	}
}

func (e *NativeEngine) parseInts(req Request) ([]*bigint.Int, error) {
	if len(req.Operands) != arity(req.Op) {
		return nil, apperrors.NewConfigError("operation '%s' expects %d operand(s), got %d",
			req.Op, arity(req.Op), len(req.Operands))
	}
	xs := make([]*bigint.Int, len(req.Operands))
	for i, s := range req.Operands {
		x, err := bigint.Parse(s, req.Base)
		if err != nil {
			return nil, err
		}
		xs[i] = x
	}
	return xs, nil
}

func (e *NativeEngine) parseDecimals(req Request) ([]*decimal.Decimal, error) {
	if len(req.Operands) != arity(req.Op) {
		return nil, apperrors.NewConfigError("operation '%s' expects %d operand(s), got %d",
			req.Op, arity(req.Op), len(req.Operands))
	}
	ds := make([]*decimal.Decimal, len(req.Operands))
	for i, s := range req.Operands {
		d, err := decimal.Parse(s)
		if err != nil {
			return nil, err
		}
		ds[i] = d
	}
	return ds, nil
}

// intExponent converts a parsed exponent operand to a non-negative int.
func intExponent(x *bigint.Int) (int, error) {
	if !x.IsInt64() {
		return 0, apperrors.NewArithmeticError(apperrors.KindExponent, "pow", "exponent out of range")
	}
	v, err := x.Int64()
	if err != nil {
		return 0, err
	}
	if v < 0 {
		return 0, apperrors.NewArithmeticError(apperrors.KindExponent, "pow", "negative exponent")
	}
	return int(v), nil
}

// shiftCount converts a parsed shift operand to a non-negative uint.
func shiftCount(x *bigint.Int) (uint, error) {
	if x.Sign() < 0 || !x.IsInt64() {
		return 0, apperrors.NewConfigError("shift count must be a non-negative 64-bit integer")
	}
	v, err := x.Int64()
	if err != nil {
		return 0, err
	}
	return uint(v), nil
}

func formatCmp(c int) string {
	switch {
	case c < 0:
		return "-1"
	case c > 0:
		return "1"
	}
	return "0"
}

func formatBool(b bool) string {
	if b {
		return "true"
	}
	return "false"
}
