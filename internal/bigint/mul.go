// Multiplication with size-based algorithm dispatch: schoolbook for small
// operands, Karatsuba in the mid range, Toom-Cook-3 for large operands.
// The three paths always produce identical results; the thresholds only
// trade constant factors against asymptotic cost.

package bigint

// DefaultKaratsubaThreshold is the digit length below which schoolbook
// multiplication beats Karatsuba. The value is an empirically tuned
// constant, not a derived one.
const DefaultKaratsubaThreshold = 80

// DefaultToomCook3Threshold is the digit length at which Toom-Cook-3
// overtakes Karatsuba.
const DefaultToomCook3Threshold = 240

var (
	karatsubaThreshold = DefaultKaratsubaThreshold
	toomCook3Threshold = DefaultToomCook3Threshold
)

// SetMulThresholds overrides the multiplication dispatch thresholds. It is
// intended for calibration and benchmarking; both values are clamped to a
// sane minimum, and toomCook3 is kept at or above karatsuba.
func SetMulThresholds(karatsuba, toomCook3 int) {
	if karatsuba < 2 {
		karatsuba = 2
	}
	if toomCook3 < karatsuba {
		toomCook3 = karatsuba
	}
	karatsubaThreshold = karatsuba
	toomCook3Threshold = toomCook3
}

// MulThresholds returns the current (karatsuba, toomCook3) dispatch
// thresholds in digits.
func MulThresholds() (int, int) {
	return karatsubaThreshold, toomCook3Threshold
}

// Mul returns x * y.
//
// The algorithm is selected from the operand digit lengths: schoolbook
// below the Karatsuba threshold, Karatsuba below the Toom-Cook-3 threshold,
// Toom-Cook-3 above it.
func (x *Int) Mul(y *Int) *Int {
	if x.sign == 0 || y.sign == 0 {
		return intZero
	}
	xlen := len(x.mag)
	ylen := len(y.mag)

	if xlen < karatsubaThreshold || ylen < karatsubaThreshold {
		mulDispatchTotal.WithLabelValues("schoolbook").Inc()
		sign := 1
		if x.sign != y.sign {
			sign = -1
		}
		return newFromDigits(mulSchoolbook(x.mag, y.mag), sign)
	}
	if xlen < toomCook3Threshold && ylen < toomCook3Threshold {
		mulDispatchTotal.WithLabelValues("karatsuba").Inc()
		return mulKaratsuba(x, y)
	}
	mulDispatchTotal.WithLabelValues("toomcook3").Inc()
	return mulToomCook3(x, y)
}

// getLower returns the n least significant digits of |x| as a non-negative
// Int.
func (x *Int) getLower(n int) *Int {
	length := len(x.mag)
	if length <= n {
		return x.Abs()
	}
	return makeInt(x.mag[length-n:], 1)
}

// getUpper returns |x| >> (32*n) as a non-negative Int.
func (x *Int) getUpper(n int) *Int {
	length := len(x.mag)
	if length <= n {
		return intZero
	}
	return makeInt(x.mag[:length-n], 1)
}

// mulKaratsuba multiplies two values by splitting each into a high and a low
// half and combining three half-sized products instead of four:
//
//	x*y = p1*B^2 + (p3-p1-p2)*B + p2
//
// with B = 2^(32*half), p1 = xh*yh, p2 = xl*yl, p3 = (xh+xl)*(yh+yl).
func mulKaratsuba(x, y *Int) *Int {
	xlen := len(x.mag)
	ylen := len(y.mag)
	half := (max(xlen, ylen) + 1) / 2

	xl := x.getLower(half)
	xh := x.getUpper(half)
	yl := y.getLower(half)
	yh := y.getUpper(half)

	p1 := xh.Mul(yh)
	p2 := xl.Mul(yl)
	p3 := xh.Add(xl).Mul(yh.Add(yl))

	result := p1.ShiftLeft(uint(32 * half)).
		Add(p3.Sub(p1).Sub(p2)).
		ShiftLeft(uint(32 * half)).
		Add(p2)

	if x.sign != y.sign {
		return result.Neg()
	}
	return result
}

// mulToomCook3 multiplies two values with the Toom-Cook-3 scheme: each
// operand is split into three limbs interpreted as a degree-2 polynomial,
// the polynomials are evaluated at the points {0, 1, -1, -2, inf}, the five
// pointwise products are computed recursively, and the degree-4 product
// polynomial is reconstructed by exact interpolation.
func mulToomCook3(a, b *Int) *Int {
	alen := len(a.mag)
	blen := len(b.mag)

	largest := max(alen, blen)

	// k is the size (in digits) of the two lower slices, r of the upper.
	k := (largest + 2) / 3
	r := largest - 2*k

	a2 := a.getToomSlice(k, r, 0, largest)
	a1 := a.getToomSlice(k, r, 1, largest)
	a0 := a.getToomSlice(k, r, 2, largest)
	b2 := b.getToomSlice(k, r, 0, largest)
	b1 := b.getToomSlice(k, r, 1, largest)
	b0 := b.getToomSlice(k, r, 2, largest)

	v0 := a0.Mul(b0)
	da1 := a2.Add(a0)
	db1 := b2.Add(b0)
	vm1 := da1.Sub(a1).Mul(db1.Sub(b1))
	da1 = da1.Add(a1)
	db1 = db1.Add(b1)
	v1 := da1.Mul(db1)
	v2 := da1.Add(a2).ShiftLeft(1).Sub(a0).
		Mul(db1.Add(b2).ShiftLeft(1).Sub(b0))
	vinf := a2.Mul(b2)

	// Interpolation. The divisions are exact: by 2 (a shift) and by 3
	// (exactDivideBy3), so no remainder handling is required.
	t2 := v2.Sub(vm1).exactDivideBy3()
	tm1 := v1.Sub(vm1).ShiftRight(1)
	t1 := v1.Sub(v0)
	t2 = t2.Sub(t1).ShiftRight(1)
	t1 = t1.Sub(tm1).Sub(vinf)
	t2 = t2.Sub(vinf.ShiftLeft(1))
	tm1 = tm1.Sub(t2)

	ss := uint(k * 32)
	result := vinf.ShiftLeft(ss).Add(t2).
		ShiftLeft(ss).Add(t1).
		ShiftLeft(ss).Add(tm1).
		ShiftLeft(ss).Add(v0)

	if a.sign != b.sign {
		return result.Neg()
	}
	return result
}

// getToomSlice extracts the slice-th limb for Toom-Cook-3. Slice 0 is the
// most significant limb (upperSize digits), slices 1 and 2 hold lowerSize
// digits each; fullsize is the digit length of the larger operand, so both
// operands are sliced on the same grid.
func (x *Int) getToomSlice(lowerSize, upperSize, slice, fullsize int) *Int {
	length := len(x.mag)
	offset := fullsize - length

	var start, end int
	if slice == 0 {
		start = 0 - offset
		end = upperSize - 1 - offset
	} else {
		start = upperSize + (slice-1)*lowerSize - offset
		end = start + lowerSize - 1
	}
	if start < 0 {
		start = 0
	}
	if end < 0 {
		return intZero
	}
	sliceSize := end - start + 1
	if sliceSize <= 0 {
		return intZero
	}
	if start == 0 && sliceSize >= length {
		return x.Abs()
	}
	return makeInt(x.mag[start:start+sliceSize], 1)
}

// exactDivideBy3 divides by 3 a value known to be an exact multiple of 3,
// using multiplication by the modular inverse of 3 (mod 2^32) with borrow
// propagation. Used only by the Toom-Cook-3 interpolation step.
func (x *Int) exactDivideBy3() *Int {
	if x.sign == 0 {
		return intZero
	}
	length := len(x.mag)
	result := make([]uint32, length)

	var borrow uint64
	for i := length - 1; i >= 0; i-- {
		v := uint64(x.mag[i])
		w := v - borrow
		if borrow > v {
			borrow = 1
		} else {
			borrow = 0
		}
		// 0xAAAAAAAB is the multiplicative inverse of 3 (mod 2^32).
		q := (w * 0xAAAAAAAB) & digitMask
		result[i] = uint32(q)
		if q >= 0x55555556 {
			borrow++
			if q >= 0xAAAAAAAB {
				borrow++
			}
		}
	}
	return makeInt(result, x.sign)
}
