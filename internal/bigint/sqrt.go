package bigint

import (
	"math"

	apperrors "github.com/agbru/bignum/internal/errors"
)

// Sqrt returns the integer square root of x, the largest value s with
// s*s <= x. A negative operand yields an ArithmeticError.
func (x *Int) Sqrt() (*Int, error) {
	if x.sign < 0 {
		return nil, apperrors.NewArithmeticError(apperrors.KindSqrt, "Sqrt", "square root of negative value")
	}
	if x.sign == 0 {
		return intZero, nil
	}

	// Word-sized operands go through the FPU with a correction step for
	// the values the mantissa cannot represent exactly.
	if v, err := x.Uint64(); err == nil {
		s := uint64(math.Sqrt(float64(v)))
		// Near 2^64 the float64 conversion rounds v up and math.Sqrt
		// returns 2^32, whose square overflows uint64; the root can never
		// exceed 2^32-1, so clamp before correcting.
		if s > math.MaxUint32 {
			s = math.MaxUint32
		}
		for s > 0 && s*s > v {
			s--
		}
		for s+1 < 1<<32 && (s+1)*(s+1) <= v {
			s++
		}
		return FromUint64(s), nil
	}

	// Newton's iteration starting from a power of two at or above the
	// root; the sequence decreases monotonically to floor(sqrt(x)).
	z := intOne.ShiftLeft(uint((x.BitLen() + 1) / 2))
	for {
		q, _, _ := x.QuoRem(z)
		next := z.Add(q).ShiftRight(1)
		if next.Cmp(z) >= 0 {
			return z, nil
		}
		z = next
	}
}
