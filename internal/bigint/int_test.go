package bigint

import (
	"math"
	"math/big"
	"math/rand"
	"strings"
	"testing"
)

// mustInt parses a base-10 integer or fails the test.
func mustInt(t *testing.T, s string) *Int {
	t.Helper()
	x, err := Parse(s, 10)
	if err != nil {
		t.Fatalf("Parse(%q) failed: %v", s, err)
	}
	return x
}

// toBig converts an Int to a math/big value for oracle comparisons.
func toBig(t *testing.T, x *Int) *big.Int {
	t.Helper()
	z, ok := new(big.Int).SetString(x.String(), 10)
	if !ok {
		t.Fatalf("String() produced an unparseable value: %q", x.String())
	}
	return z
}

// randomDecimal produces a random signed decimal string with up to maxDigits
// digits.
func randomDecimal(rnd *rand.Rand, maxDigits int) string {
	n := 1 + rnd.Intn(maxDigits)
	var sb strings.Builder
	if rnd.Intn(2) == 0 {
		sb.WriteByte('-')
	}
	sb.WriteByte(byte('1' + rnd.Intn(9)))
	for i := 1; i < n; i++ {
		sb.WriteByte(byte('0' + rnd.Intn(10)))
	}
	return sb.String()
}

func TestNew(t *testing.T) {
	cases := []struct {
		in   int64
		want string
		sign int
	}{
		{0, "0", 0},
		{1, "1", 1},
		{-1, "-1", -1},
		{math.MaxInt64, "9223372036854775807", 1},
		{math.MinInt64, "-9223372036854775808", -1},
	}
	for _, tc := range cases {
		x := New(tc.in)
		if got := x.String(); got != tc.want {
			t.Errorf("New(%d).String() = %q, want %q", tc.in, got, tc.want)
		}
		if got := x.Sign(); got != tc.sign {
			t.Errorf("New(%d).Sign() = %d, want %d", tc.in, got, tc.sign)
		}
	}
}

func TestAddSub(t *testing.T) {
	rnd := rand.New(rand.NewSource(1))
	for i := 0; i < 200; i++ {
		xs, ys := randomDecimal(rnd, 60), randomDecimal(rnd, 60)
		x, y := mustInt(t, xs), mustInt(t, ys)

		wantSum := new(big.Int).Add(toBig(t, x), toBig(t, y))
		if got := x.Add(y).String(); got != wantSum.String() {
			t.Fatalf("%s + %s = %s, want %s", xs, ys, got, wantSum)
		}
		wantDiff := new(big.Int).Sub(toBig(t, x), toBig(t, y))
		if got := x.Sub(y).String(); got != wantDiff.String() {
			t.Fatalf("%s - %s = %s, want %s", xs, ys, got, wantDiff)
		}
	}
}

func TestAddIdentities(t *testing.T) {
	x := mustInt(t, "123456789012345678901234567890")
	zero := New(0)

	if got := x.Add(zero); !got.Equal(x) {
		t.Errorf("x + 0 = %s, want %s", got, x)
	}
	if got := x.Sub(x); !got.IsZero() {
		t.Errorf("x - x = %s, want 0", got)
	}
	if got := x.Add(x.Neg()); !got.IsZero() {
		t.Errorf("x + (-x) = %s, want 0", got)
	}
}

func TestCmp(t *testing.T) {
	cases := []struct {
		x, y string
		want int
	}{
		{"0", "0", 0},
		{"1", "0", 1},
		{"-1", "0", -1},
		{"-1", "1", -1},
		{"-5", "-3", -1},
		{"100000000000000000000", "99999999999999999999", 1},
	}
	for _, tc := range cases {
		x, y := mustInt(t, tc.x), mustInt(t, tc.y)
		if got := x.Cmp(y); got != tc.want {
			t.Errorf("Cmp(%s, %s) = %d, want %d", tc.x, tc.y, got, tc.want)
		}
		if got := y.Cmp(x); got != -tc.want {
			t.Errorf("Cmp(%s, %s) = %d, want %d", tc.y, tc.x, got, -tc.want)
		}
	}
}

func TestCmpAbs(t *testing.T) {
	x, y := mustInt(t, "-100"), mustInt(t, "99")
	if got := x.CmpAbs(y); got != 1 {
		t.Errorf("CmpAbs(-100, 99) = %d, want 1", got)
	}
	if got := x.CmpAbs(mustInt(t, "100")); got != 0 {
		t.Errorf("CmpAbs(-100, 100) = %d, want 0", got)
	}
}

func TestBitLen(t *testing.T) {
	cases := []struct {
		in   string
		want int
	}{
		{"0", 0},
		{"1", 1},
		{"2", 2},
		{"255", 8},
		{"256", 9},
		{"-1", 0},  // -1 is all ones in two's complement
		{"-2", 1},  // negative powers of two need one bit less
		{"-4", 2},
		{"-3", 2},
		{"18446744073709551616", 65}, // 2^64
		{"-18446744073709551616", 64},
	}
	for _, tc := range cases {
		if got := mustInt(t, tc.in).BitLen(); got != tc.want {
			t.Errorf("BitLen(%s) = %d, want %d", tc.in, got, tc.want)
		}
	}
}

func TestShifts(t *testing.T) {
	rnd := rand.New(rand.NewSource(2))
	for i := 0; i < 100; i++ {
		xs := randomDecimal(rnd, 40)
		n := uint(rnd.Intn(130))
		x := mustInt(t, xs)

		wantL := new(big.Int).Lsh(toBig(t, x), n)
		if got := x.ShiftLeft(n).String(); got != wantL.String() {
			t.Fatalf("%s << %d = %s, want %s", xs, n, got, wantL)
		}
		// Floor semantics for negative values, same as math/big Rsh
		wantR := new(big.Int).Rsh(toBig(t, x), n)
		if got := x.ShiftRight(n).String(); got != wantR.String() {
			t.Fatalf("%s >> %d = %s, want %s", xs, n, got, wantR)
		}
	}
}

func TestShiftRightNegative(t *testing.T) {
	cases := []struct {
		in   string
		n    uint
		want string
	}{
		{"-1", 1, "-1"},
		{"-2", 1, "-1"},
		{"-3", 1, "-2"},
		{"-8", 3, "-1"},
		{"-9", 3, "-2"},
	}
	for _, tc := range cases {
		if got := mustInt(t, tc.in).ShiftRight(tc.n).String(); got != tc.want {
			t.Errorf("%s >> %d = %s, want %s", tc.in, tc.n, got, tc.want)
		}
	}
}

func TestInt64Uint64(t *testing.T) {
	t.Run("round trip", func(t *testing.T) {
		for _, v := range []int64{0, 1, -1, math.MaxInt64, math.MinInt64, 1 << 32, -(1 << 32)} {
			x := New(v)
			if !x.IsInt64() {
				t.Fatalf("IsInt64(%d) = false", v)
			}
			got, err := x.Int64()
			if err != nil {
				t.Fatalf("Int64(%d) failed: %v", v, err)
			}
			if got != v {
				t.Errorf("Int64 round trip: got %d, want %d", got, v)
			}
		}
	})

	t.Run("overflow", func(t *testing.T) {
		x := mustInt(t, "9223372036854775808") // MaxInt64 + 1
		if x.IsInt64() {
			t.Error("IsInt64(2^63) = true")
		}
		if _, err := x.Int64(); err == nil {
			t.Error("Int64(2^63) succeeded, want overflow error")
		}
		if !x.IsUint64() {
			t.Error("IsUint64(2^63) = false")
		}
		u, err := x.Uint64()
		if err != nil {
			t.Fatalf("Uint64(2^63) failed: %v", err)
		}
		if u != 1<<63 {
			t.Errorf("Uint64(2^63) = %d", u)
		}
	})

	t.Run("negative uint64", func(t *testing.T) {
		if New(-1).IsUint64() {
			t.Error("IsUint64(-1) = true")
		}
	})
}

func TestTrailingZeroBits(t *testing.T) {
	cases := []struct {
		in   string
		want uint
	}{
		{"0", 0},
		{"1", 0},
		{"2", 1},
		{"8", 3},
		{"-8", 3},
		{"18446744073709551616", 64},
	}
	for _, tc := range cases {
		if got := mustInt(t, tc.in).TrailingZeroBits(); got != tc.want {
			t.Errorf("TrailingZeroBits(%s) = %d, want %d", tc.in, got, tc.want)
		}
	}
}

func TestNegAbs(t *testing.T) {
	x := mustInt(t, "-42")
	if got := x.Neg().String(); got != "42" {
		t.Errorf("Neg(-42) = %s", got)
	}
	if got := x.Abs().String(); got != "42" {
		t.Errorf("Abs(-42) = %s", got)
	}
	zero := New(0)
	if got := zero.Neg(); !got.IsZero() {
		t.Errorf("Neg(0) = %s", got)
	}
}
