package orchestration

import (
	"context"
	"errors"
	"testing"

	"github.com/agbru/bignum/internal/bigint"
	"github.com/agbru/bignum/internal/decimal"
	apperrors "github.com/agbru/bignum/internal/errors"
)

func newRequest(op string, operands ...string) Request {
	return Request{
		Op:        op,
		Operands:  operands,
		Base:      10,
		Scale:     4,
		Rounding:  decimal.RoundHalfEven,
		Certainty: 100,
		PrimeBits: 32,
	}
}

func TestNativeEngineOperations(t *testing.T) {
	cases := []struct {
		op       string
		operands []string
		want     string
	}{
		{"add", []string{"2", "3"}, "5"},
		{"sub", []string{"2", "3"}, "-1"},
		{"mul", []string{"-4", "25"}, "-100"},
		{"quo", []string{"7", "2"}, "3"},
		{"rem", []string{"-7", "2"}, "-1"},
		{"mod", []string{"-7", "3"}, "2"},
		{"pow", []string{"2", "10"}, "1024"},
		{"modpow", []string{"4", "13", "497"}, "445"},
		{"modinv", []string{"3", "11"}, "4"},
		{"gcd", []string{"462", "1071"}, "21"},
		{"sqrt", []string{"99"}, "9"},
		{"shl", []string{"3", "4"}, "48"},
		{"shr", []string{"-7", "1"}, "-4"},
		{"and", []string{"12", "10"}, "8"},
		{"or", []string{"12", "10"}, "14"},
		{"xor", []string{"12", "10"}, "6"},
		{"andnot", []string{"12", "10"}, "4"},
		{"not", []string{"5"}, "-6"},
		{"cmp", []string{"3", "7"}, "-1"},
		{"isprime", []string{"7919"}, "true"},
		{"isprime", []string{"7917"}, "false"},
		{"nextprime", []string{"8"}, "11"},
		{"dadd", []string{"1.5", "2.25"}, "3.75"},
		{"dsub", []string{"1.00", "1"}, "0.00"},
		{"dmul", []string{"1.5", "1.5"}, "2.25"},
		{"ddiv", []string{"1", "8"}, "0.1250"},
		{"drescale", []string{"1.23456"}, "1.2346"},
	}
	engine := NewNativeEngine()
	for _, tc := range cases {
		got, err := engine.Evaluate(context.Background(), newRequest(tc.op, tc.operands...), nil)
		if err != nil {
			t.Errorf("%s%v failed: %v", tc.op, tc.operands, err)
			continue
		}
		if got != tc.want {
			t.Errorf("%s%v = %s, want %s", tc.op, tc.operands, got, tc.want)
		}
	}
}

func TestNativeEngineBase16(t *testing.T) {
	req := newRequest("mul", "ff", "10")
	req.Base = 16
	got, err := NewNativeEngine().Evaluate(context.Background(), req, nil)
	if err != nil {
		t.Fatalf("Evaluate failed: %v", err)
	}
	if got != "ff0" {
		t.Errorf("ff * 10 = %s, want ff0", got)
	}
}

func TestNativeEngineRandPrime(t *testing.T) {
	got, err := NewNativeEngine().Evaluate(context.Background(), newRequest("randprime"), nil)
	if err != nil {
		t.Fatalf("Evaluate failed: %v", err)
	}
	p, err := bigint.Parse(got, 10)
	if err != nil {
		t.Fatalf("randprime returned a malformed value %q: %v", got, err)
	}
	if p.BitLen() != 32 {
		t.Errorf("randprime bit length = %d, want 32", p.BitLen())
	}
	if !p.ProbablyPrime(100) {
		t.Errorf("randprime returned a composite: %s", p)
	}
}

func TestNativeEngineErrors(t *testing.T) {
	cases := []struct {
		name string
		req  Request
	}{
		{"wrong arity", newRequest("add", "1")},
		{"unknown op", newRequest("frobnicate", "1", "2")},
		{"malformed operand", newRequest("add", "12z", "3")},
		{"division by zero", newRequest("quo", "1", "0")},
		{"negative exponent", newRequest("pow", "2", "-1")},
		{"negative shift", newRequest("shl", "1", "-3")},
		{"negative sqrt", newRequest("sqrt", "-4")},
	}
	engine := NewNativeEngine()
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := engine.Evaluate(context.Background(), tc.req, nil); err == nil {
				t.Errorf("%s%v succeeded", tc.req.Op, tc.req.Operands)
			}
		})
	}
}

func TestNativeEngineCanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := NewNativeEngine().Evaluate(ctx, newRequest("add", "1", "2"), nil)
	if !errors.Is(err, context.Canceled) {
		t.Errorf("Evaluate on a canceled context returned %v", err)
	}
}

func TestNativeEngineProgress(t *testing.T) {
	progress := make(chan float64, 8)
	_, err := NewNativeEngine().Evaluate(context.Background(), newRequest("add", "1", "2"), progress)
	if err != nil {
		t.Fatalf("Evaluate failed: %v", err)
	}
	close(progress)
	var last float64 = -1
	for v := range progress {
		last = v
	}
	if last != 1 {
		t.Errorf("final progress = %v, want 1", last)
	}
}

func TestReferenceEngineSupports(t *testing.T) {
	ref := NewReferenceEngine()
	for _, op := range []string{"add", "mul", "modpow", "gcd", "cmp", "isprime"} {
		if !ref.Supports(op) {
			t.Errorf("reference engine should support %q", op)
		}
	}
	for _, op := range []string{"ddiv", "drescale", "nextprime", "randprime"} {
		if ref.Supports(op) {
			t.Errorf("reference engine should not support %q", op)
		}
	}
}

func TestEnginesAgree(t *testing.T) {
	cases := []struct {
		op       string
		operands []string
	}{
		{"add", []string{"123456789123456789", "-987654321987654321"}},
		{"sub", []string{"-1", "100000000000000000000000"}},
		{"mul", []string{"123456789123456789", "987654321987654321"}},
		{"quo", []string{"-100000000000000000001", "7"}},
		{"rem", []string{"-100000000000000000001", "7"}},
		{"mod", []string{"-100000000000000000001", "7"}},
		{"pow", []string{"3", "100"}},
		{"modpow", []string{"123456789", "987654321", "1000000007"}},
		{"modinv", []string{"123456789", "1000000007"}},
		{"gcd", []string{"123456789123456789", "987654321"}},
		{"sqrt", []string{"99999999999999999999999999"}},
		{"shl", []string{"123456789", "65"}},
		{"shr", []string{"-123456789123456789", "17"}},
		{"and", []string{"-123456789", "987654321"}},
		{"or", []string{"-123456789", "987654321"}},
		{"xor", []string{"-123456789", "987654321"}},
		{"andnot", []string{"-123456789", "987654321"}},
		{"not", []string{"123456789123456789"}},
		{"cmp", []string{"-5", "-5"}},
		{"isprime", []string{"1000000007"}},
		{"isprime", []string{"-7"}},
		{"isprime", []string{"-8"}},
	}
	native, ref := NewNativeEngine(), NewReferenceEngine()
	ctx := context.Background()
	for _, tc := range cases {
		req := newRequest(tc.op, tc.operands...)
		got, err := native.Evaluate(ctx, req, nil)
		if err != nil {
			t.Errorf("native %s%v failed: %v", tc.op, tc.operands, err)
			continue
		}
		want, err := ref.Evaluate(ctx, req, nil)
		if err != nil {
			t.Errorf("reference %s%v failed: %v", tc.op, tc.operands, err)
			continue
		}
		if got != want {
			t.Errorf("%s%v: native=%s reference=%s", tc.op, tc.operands, got, want)
		}
	}
}

func TestEnginesAgreeOnZeroCertainty(t *testing.T) {
	// A non-positive certainty accepts everything on both engines, so the
	// cross-check cannot report a mismatch for it.
	native, ref := NewNativeEngine(), NewReferenceEngine()
	ctx := context.Background()
	for _, operand := range []string{"8", "-7", "0"} {
		req := newRequest("isprime", operand)
		req.Certainty = 0
		got, err := native.Evaluate(ctx, req, nil)
		if err != nil {
			t.Fatalf("native isprime(%s) failed: %v", operand, err)
		}
		want, err := ref.Evaluate(ctx, req, nil)
		if err != nil {
			t.Fatalf("reference isprime(%s) failed: %v", operand, err)
		}
		if got != "true" || want != "true" {
			t.Errorf("isprime(%s) certainty 0: native=%s reference=%s, want true/true", operand, got, want)
		}
	}
}

func TestArity(t *testing.T) {
	cases := map[string]int{
		"randprime": 0,
		"not":       1,
		"sqrt":      1,
		"isprime":   1,
		"nextprime": 1,
		"drescale":  1,
		"add":       2,
		"ddiv":      2,
		"modpow":    3,
	}
	for op, want := range cases {
		if got := arity(op); got != want {
			t.Errorf("arity(%q) = %d, want %d", op, got, want)
		}
	}
}

func TestArityErrorIsConfigError(t *testing.T) {
	_, err := NewNativeEngine().Evaluate(context.Background(), newRequest("modpow", "1", "2"), nil)
	if err == nil {
		t.Fatal("modpow with two operands succeeded")
	}
	var ce apperrors.ConfigError
	if !errors.As(err, &ce) {
		t.Errorf("arity error has type %T, want ConfigError", err)
	}
}
