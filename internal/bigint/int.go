// Package bigint implements arbitrary-precision signed integer arithmetic.
//
// The public value type, Int, is immutable: every operation returns a new
// value and never mutates its operands, which makes values safe to share
// between goroutines without synchronization. Internally the package keeps a
// mutable companion representation (mutInt) that multi-step algorithms such
// as long division use as scratch space; it is never exposed.
//
// Multiplication and division select their algorithm from the operand digit
// lengths: schoolbook, Karatsuba or Toom-Cook-3 for multiplication, and
// Knuth algorithm D or Burnikel-Ziegler block division for division. The
// thresholds are tunable (see SetMulThresholds and SetDivThresholds) and the
// alternatives always agree bit for bit; only the cost changes.
package bigint

import (
	"math/bits"

	apperrors "github.com/agbru/bignum/internal/errors"
)

// Int is an immutable arbitrary-precision signed integer.
//
// The zero value (or New(0)) represents 0. An Int is a sign in {-1, 0, +1}
// plus a canonical magnitude: base-2^32 digits, most significant first, no
// leading zero digit. Every integer value has exactly one representation,
// so Cmp, Equal and String are trivially consistent with each other.
type Int struct {
	sign int      // -1, 0 or +1; 0 iff mag is empty
	mag  []uint32 // canonical magnitude, most-significant digit first
}

// Frequently used small constants. These are shared and must never be
// mutated (Int is immutable, so ordinary use cannot).
var (
	intZero     = &Int{}
	intOne      = newFromDigits([]uint32{1}, 1)
	intTwo      = newFromDigits([]uint32{2}, 1)
	intThree    = newFromDigits([]uint32{3}, 1)
	intMinusOne = newFromDigits([]uint32{1}, -1)
)

// newFromDigits wraps an already-canonical magnitude into an Int.
// The magnitude is adopted, not copied.
func newFromDigits(mag []uint32, sign int) *Int {
	if len(mag) == 0 {
		return &Int{}
	}
	return &Int{sign: sign, mag: mag}
}

// makeInt builds an Int from a possibly denormalized digit array, stripping
// leading zeros and collapsing the sign for zero.
func makeInt(mag []uint32, sign int) *Int {
	mag = stripLeadingZeros(mag)
	if len(mag) == 0 {
		return intZero
	}
	return &Int{sign: sign, mag: mag}
}

// New returns an Int with the value v.
func New(v int64) *Int {
	switch {
	case v == 0:
		return intZero
	case v == 1:
		return intOne
	case v == -1:
		return intMinusOne
	}
	sign := 1
	uv := uint64(v)
	if v < 0 {
		sign = -1
		uv = -uv
	}
	return newFromDigits(magFromUint64(uv), sign)
}

// FromUint64 returns an Int with the value v.
func FromUint64(v uint64) *Int {
	if v == 0 {
		return intZero
	}
	return newFromDigits(magFromUint64(v), 1)
}

func magFromUint64(v uint64) []uint32 {
	if hi := uint32(v >> 32); hi != 0 {
		return []uint32{hi, uint32(v)}
	}
	return []uint32{uint32(v)}
}

// Sign returns -1 for negative values, 0 for zero, +1 for positive values.
func (x *Int) Sign() int { return x.sign }

// IsZero reports whether x is zero.
func (x *Int) IsZero() bool { return x.sign == 0 }

// Neg returns -x.
func (x *Int) Neg() *Int {
	if x.sign == 0 {
		return intZero
	}
	return &Int{sign: -x.sign, mag: x.mag}
}

// Abs returns |x|.
func (x *Int) Abs() *Int {
	if x.sign >= 0 {
		return x
	}
	return &Int{sign: 1, mag: x.mag}
}

// Add returns x + y.
//
// When the operand signs differ the operation reduces to a magnitude
// subtraction, with the result sign taken from the operand of larger
// magnitude.
func (x *Int) Add(y *Int) *Int {
	if y.sign == 0 {
		return x
	}
	if x.sign == 0 {
		return y
	}
	if x.sign == y.sign {
		return newFromDigits(addMagnitude(x.mag, y.mag), x.sign)
	}
	cmp := compareMagnitude(x.mag, y.mag)
	if cmp == 0 {
		return intZero
	}
	var resultMag []uint32
	if cmp > 0 {
		resultMag = subMagnitude(x.mag, y.mag)
	} else {
		resultMag = subMagnitude(y.mag, x.mag)
	}
	sign := -1
	if cmp == x.sign {
		sign = 1
	}
	return newFromDigits(resultMag, sign)
}

// Sub returns x - y.
func (x *Int) Sub(y *Int) *Int {
	if y.sign == 0 {
		return x
	}
	if x.sign == 0 {
		return y.Neg()
	}
	if x.sign != y.sign {
		return newFromDigits(addMagnitude(x.mag, y.mag), x.sign)
	}
	cmp := compareMagnitude(x.mag, y.mag)
	if cmp == 0 {
		return intZero
	}
	var resultMag []uint32
	if cmp > 0 {
		resultMag = subMagnitude(x.mag, y.mag)
	} else {
		resultMag = subMagnitude(y.mag, x.mag)
	}
	sign := -1
	if cmp == x.sign {
		sign = 1
	}
	return newFromDigits(resultMag, sign)
}

// Cmp compares x and y and returns -1, 0 or +1. Differing signs decide
// immediately; equal signs fall through to a magnitude comparison.
func (x *Int) Cmp(y *Int) int {
	if x.sign != y.sign {
		if x.sign > y.sign {
			return 1
		}
		return -1
	}
	switch x.sign {
	case 1:
		return compareMagnitude(x.mag, y.mag)
	case -1:
		return compareMagnitude(y.mag, x.mag)
	}
	return 0
}

// CmpAbs compares |x| and |y| and returns -1, 0 or +1.
func (x *Int) CmpAbs(y *Int) int {
	return compareMagnitude(x.mag, y.mag)
}

// Equal reports whether x and y represent the same integer. Because the
// representation is canonical this is a digit-wise comparison.
func (x *Int) Equal(y *Int) bool {
	return x.Cmp(y) == 0
}

// BitLen returns the length of the minimal two's-complement representation
// of x, excluding the sign bit. BitLen(0) = 0, BitLen(-1) = 0, and for
// powers of two BitLen(-2^k) = k.
func (x *Int) BitLen() int {
	if len(x.mag) == 0 {
		return 0
	}
	n := bitLength(x.mag)
	if x.sign < 0 {
		// A negative power of two needs one bit less.
		pow2 := bits.OnesCount32(x.mag[0]) == 1
		for i := 1; i < len(x.mag) && pow2; i++ {
			pow2 = x.mag[i] == 0
		}
		if pow2 {
			n--
		}
	}
	return n
}

// TrailingZeroBits returns the index of the lowest set bit of |x|, or 0 if
// x is zero.
func (x *Int) TrailingZeroBits() uint {
	if x.sign == 0 {
		return 0
	}
	return trailingZeroBits(x.mag)
}

// ShiftLeft returns x << n.
func (x *Int) ShiftLeft(n uint) *Int {
	if x.sign == 0 {
		return intZero
	}
	if n == 0 {
		return x
	}
	return newFromDigits(shlMagnitude(x.mag, n), x.sign)
}

// ShiftRight returns x >> n with arithmetic semantics: the result rounds
// toward negative infinity, so (-1)>>k == -1 for every k.
func (x *Int) ShiftRight(n uint) *Int {
	if x.sign == 0 {
		return intZero
	}
	if n == 0 {
		return x
	}
	nInts := int(n >> 5)
	nBits := n & 31
	magLen := len(x.mag)

	if nInts >= magLen {
		if x.sign >= 0 {
			return intZero
		}
		return intMinusOne
	}

	newMag := shrMagnitude(x.mag, n)
	if x.sign < 0 {
		// Floor semantics: if any one-bit was shifted out of a negative
		// value, the magnitude must be corrected upward.
		onesLost := false
		for i, j := magLen-1, magLen-nInts; i >= j && !onesLost; i-- {
			onesLost = x.mag[i] != 0
		}
		if !onesLost && nBits != 0 {
			onesLost = x.mag[magLen-nInts-1]<<(32-nBits) != 0
		}
		if onesLost {
			newMag = incrementMagnitude(newMag)
		}
	}
	if len(newMag) == 0 {
		if x.sign < 0 {
			return intMinusOne
		}
		return intZero
	}
	return makeInt(newMag, x.sign)
}

// IsInt64 reports whether x fits in an int64.
func (x *Int) IsInt64() bool {
	bl := bitLength(x.mag)
	return bl <= 63 || (x.sign < 0 && bl == 64 && trailingZeroBits(x.mag) == 63)
}

// IsUint64 reports whether x fits in a uint64.
func (x *Int) IsUint64() bool {
	return x.sign >= 0 && bitLength(x.mag) <= 64
}

// Int64 converts x to an int64, reporting an OverflowError when the value
// does not fit.
func (x *Int) Int64() (int64, error) {
	if !x.IsInt64() {
		return 0, apperrors.NewOverflowError(x.String(), "int64")
	}
	v := int64(x.low64())
	if x.sign < 0 {
		v = -v
	}
	return v, nil
}

// Uint64 converts x to a uint64, reporting an OverflowError when the value
// does not fit.
func (x *Int) Uint64() (uint64, error) {
	if !x.IsUint64() {
		return 0, apperrors.NewOverflowError(x.String(), "uint64")
	}
	return x.low64(), nil
}

// low64 returns the low 64 bits of the magnitude.
func (x *Int) low64() uint64 {
	n := len(x.mag)
	switch n {
	case 0:
		return 0
	case 1:
		return uint64(x.mag[0])
	default:
		return uint64(x.mag[n-2])<<32 | uint64(x.mag[n-1])
	}
}

// firstNonzeroDigit returns the index, counting from the least significant
// end, of the first nonzero digit of the magnitude.
func (x *Int) firstNonzeroDigit() int {
	mlen := len(x.mag)
	i := mlen - 1
	for i >= 0 && x.mag[i] == 0 {
		i--
	}
	return mlen - i - 1
}
