// Division with size-based algorithm dispatch: Knuth's algorithm D for the
// common case, Burnikel-Ziegler block recursive division when both the
// divisor and the length gap are large. Quotients truncate toward zero and
// the remainder carries the dividend's sign; Mod layers Euclidean semantics
// on top.

package bigint

import (
	"math/bits"

	apperrors "github.com/agbru/bignum/internal/errors"
)

// DefaultBurnikelZieglerThreshold is the divisor digit length below which
// Knuth division is used unconditionally.
const DefaultBurnikelZieglerThreshold = 80

// DefaultBurnikelZieglerOffset is the minimum digit-length gap between
// dividend and divisor for Burnikel-Ziegler to pay off.
const DefaultBurnikelZieglerOffset = 40

var (
	burnikelZieglerThreshold = DefaultBurnikelZieglerThreshold
	burnikelZieglerOffset    = DefaultBurnikelZieglerOffset
)

// SetDivThresholds overrides the division dispatch parameters. Intended for
// calibration; values are clamped to sane minima.
func SetDivThresholds(threshold, offset int) {
	if threshold < 2 {
		threshold = 2
	}
	if offset < 0 {
		offset = 0
	}
	burnikelZieglerThreshold = threshold
	burnikelZieglerOffset = offset
}

// DivThresholds returns the current (threshold, offset) division dispatch
// parameters in digits.
func DivThresholds() (int, int) {
	return burnikelZieglerThreshold, burnikelZieglerOffset
}

// QuoRem returns the quotient and remainder of x / y with truncated
// semantics: the quotient rounds toward zero and the remainder has the sign
// of x, so x == q*y + r and |r| < |y| always hold. A zero divisor yields an
// ArithmeticError.
func (x *Int) QuoRem(y *Int) (*Int, *Int, error) {
	if y.sign == 0 {
		return nil, nil, apperrors.NewArithmeticError(apperrors.KindDivision, "QuoRem", "division by zero")
	}
	if x.sign == 0 {
		return intZero, intZero, nil
	}
	cmp := compareMagnitude(x.mag, y.mag)
	if cmp < 0 {
		return intZero, x, nil
	}
	if cmp == 0 {
		if x.sign == y.sign {
			return intOne, intZero, nil
		}
		return intMinusOne, intZero, nil
	}

	a := newMut(x.mag)
	b := newMut(y.mag)
	quotient := newMutZero()

	var rem *mutInt
	if b.intLen < burnikelZieglerThreshold || a.intLen-b.intLen < burnikelZieglerOffset {
		divDispatchTotal.WithLabelValues("knuth").Inc()
		rem = a.divideKnuth(b, quotient)
	} else {
		divDispatchTotal.WithLabelValues("burnikel_ziegler").Inc()
		rem = a.divideAndRemainderBurnikelZiegler(b, quotient)
	}

	qsign := 1
	if x.sign != y.sign {
		qsign = -1
	}
	return quotient.toInt(qsign), rem.toInt(x.sign), nil
}

// Quo returns the quotient of x / y, truncated toward zero.
func (x *Int) Quo(y *Int) (*Int, error) {
	q, _, err := x.QuoRem(y)
	return q, err
}

// Rem returns the remainder of x / y; the result has the sign of x.
func (x *Int) Rem(y *Int) (*Int, error) {
	_, r, err := x.QuoRem(y)
	return r, err
}

// Mod returns the Euclidean modulus of x by y: the unique value in
// [0, |y|) congruent to x modulo y.
func (x *Int) Mod(y *Int) (*Int, error) {
	_, r, err := x.QuoRem(y)
	if err != nil {
		return nil, err
	}
	if r.sign < 0 {
		r = r.Add(y.Abs())
	}
	return r, nil
}

// divideKnuth divides m by b, storing the quotient in quotient and returning
// the remainder. m is consumed as scratch space.
func (m *mutInt) divideKnuth(b, quotient *mutInt) *mutInt {
	if m.intLen == 0 {
		quotient.intLen = 0
		quotient.offset = 0
		return &mutInt{}
	}
	cmp := m.compare(b)
	if cmp < 0 {
		quotient.intLen = 0
		quotient.offset = 0
		return m.clone()
	}
	if cmp == 0 {
		quotient.setOne()
		return &mutInt{}
	}

	quotient.clear()
	if b.intLen == 1 {
		r := m.divideOneWord(b.value[b.offset], quotient)
		if r == 0 {
			return &mutInt{}
		}
		return &mutInt{value: []uint32{r}, intLen: 1}
	}
	return m.divideMagnitude(b, quotient)
}

// divideOneWord divides m by a single-digit divisor, storing the quotient in
// quotient and returning the remainder digit.
func (m *mutInt) divideOneWord(divisor uint32, quotient *mutInt) uint32 {
	divLong := uint64(divisor)

	if m.intLen == 1 {
		dividend := uint64(m.value[m.offset])
		quotient.setValue([]uint32{uint32(dividend / divLong)}, 1)
		quotient.normalize()
		return uint32(dividend % divLong)
	}

	if len(quotient.value) < m.intLen {
		quotient.value = make([]uint32, m.intLen)
	}
	quotient.offset = 0
	quotient.intLen = m.intLen

	var rem uint64
	for i := 0; i < m.intLen; i++ {
		dividend := rem<<32 | uint64(m.value[m.offset+i])
		quotient.value[i] = uint32(dividend / divLong)
		rem = dividend % divLong
	}
	quotient.normalize()
	return uint32(rem)
}

// copyAndShift copies srcLen digits from src (starting at srcFrom) into dst
// (starting at dstFrom), shifted left by shift bits. Bits shifted out of the
// top are discarded; the caller must know they are zero.
func copyAndShift(src []uint32, srcFrom, srcLen int, dst []uint32, dstFrom int, shift uint) {
	n2 := 32 - shift
	c := src[srcFrom]
	for i := 0; i < srcLen-1; i++ {
		b := c
		srcFrom++
		c = src[srcFrom]
		dst[dstFrom+i] = b<<shift | c>>n2
	}
	dst[dstFrom+srcLen-1] = c << shift
}

// divideMagnitude is Knuth's algorithm D for a divisor of at least two
// digits. m is the dividend and is consumed; div is the divisor and is left
// intact. The quotient lands in quotient and the remainder is returned.
func (m *mutInt) divideMagnitude(div, quotient *mutInt) *mutInt {
	// D1: normalize so the divisor's top bit is set.
	shift := uint(bits.LeadingZeros32(div.value[div.offset]))
	dlen := div.intLen

	divisor := make([]uint32, dlen)
	var rem *mutInt
	if shift > 0 {
		copyAndShift(div.value, div.offset, dlen, divisor, 0, shift)
		if uint(bits.LeadingZeros32(m.value[m.offset])) >= shift {
			remarr := make([]uint32, m.intLen+1)
			rem = &mutInt{value: remarr, intLen: m.intLen, offset: 1}
			copyAndShift(m.value, m.offset, m.intLen, remarr, 1, shift)
		} else {
			// Shifting the dividend grows it by one digit.
			remarr := make([]uint32, m.intLen+2)
			rem = &mutInt{value: remarr, intLen: m.intLen + 1, offset: 1}
			rFrom := m.offset
			c := uint32(0)
			n2 := 32 - shift
			for i := 1; i < m.intLen+1; i++ {
				b := c
				c = m.value[rFrom]
				remarr[i] = b<<shift | c>>n2
				rFrom++
			}
			remarr[m.intLen+1] = c << shift
		}
	} else {
		copy(divisor, div.value[div.offset:div.offset+div.intLen])
		remarr := make([]uint32, m.intLen+1)
		copy(remarr[1:], m.value[m.offset:m.offset+m.intLen])
		rem = &mutInt{value: remarr, intLen: m.intLen, offset: 1}
	}

	nlen := rem.intLen
	limit := nlen - dlen + 1
	if len(quotient.value) < limit {
		quotient.value = make([]uint32, limit)
		quotient.offset = 0
	}
	quotient.intLen = limit
	q := quotient.value

	// Make room for a leading zero on the remainder.
	rem.offset = 0
	rem.value[0] = 0
	rem.intLen++

	dh := divisor[0]
	dhLong := uint64(dh)
	dl := divisor[1]

	// D2-D7: the main loop producing one quotient digit per pass.
	for j := 0; j < limit-1; j++ {
		// D3: estimate qhat from the top two dividend digits and correct
		// it with the third; after correction qhat is off by at most one,
		// which D6 repairs.
		var qhat, qrem uint32
		skipCorrection := false
		nh := rem.value[j+rem.offset]
		nm := rem.value[j+1+rem.offset]

		if nh == dh {
			qhat = ^uint32(0)
			qrem = nh + nm
			skipCorrection = qrem < nh
		} else {
			nChunk := uint64(nh)<<32 | uint64(nm)
			qhat = uint32(nChunk / dhLong)
			qrem = uint32(nChunk % dhLong)
		}

		if qhat == 0 {
			continue
		}

		if !skipCorrection {
			nl := uint64(rem.value[j+2+rem.offset])
			rs := uint64(qrem)<<32 | nl
			estProduct := uint64(dl) * uint64(qhat)
			if estProduct > rs {
				qhat--
				qrem = uint32(uint64(qrem) + dhLong)
				if uint64(qrem) >= dhLong {
					estProduct -= uint64(dl)
					rs = uint64(qrem)<<32 | nl
					if estProduct > rs {
						qhat--
					}
				}
			}
		}

		// D4: multiply and subtract.
		rem.value[j+rem.offset] = 0
		borrow := mulsub(rem.value, divisor, qhat, dlen, j+rem.offset)

		// D5-D6: if the subtraction went negative, add back once.
		if borrow > nh {
			divadd(divisor, rem.value, j+1+rem.offset)
			qhat--
		}

		q[j] = qhat
	}

	// Final quotient digit, same estimate/correct/subtract sequence.
	var qhat, qrem uint32
	skipCorrection := false
	nh := rem.value[limit-1+rem.offset]
	nm := rem.value[limit+rem.offset]

	if nh == dh {
		qhat = ^uint32(0)
		qrem = nh + nm
		skipCorrection = qrem < nh
	} else {
		nChunk := uint64(nh)<<32 | uint64(nm)
		qhat = uint32(nChunk / dhLong)
		qrem = uint32(nChunk % dhLong)
	}

	if qhat != 0 {
		if !skipCorrection {
			nl := uint64(rem.value[limit+1+rem.offset])
			rs := uint64(qrem)<<32 | nl
			estProduct := uint64(dl) * uint64(qhat)
			if estProduct > rs {
				qhat--
				qrem = uint32(uint64(qrem) + dhLong)
				if uint64(qrem) >= dhLong {
					estProduct -= uint64(dl)
					rs = uint64(qrem)<<32 | nl
					if estProduct > rs {
						qhat--
					}
				}
			}
		}

		rem.value[limit-1+rem.offset] = 0
		borrow := mulsub(rem.value, divisor, qhat, dlen, limit-1+rem.offset)
		if borrow > nh {
			divadd(divisor, rem.value, limit+rem.offset)
			qhat--
		}
	}
	q[limit-1] = qhat

	// D8: undo the normalization shift.
	if shift > 0 {
		rem.rightShift(int(shift))
	}
	rem.normalize()
	quotient.normalize()
	return rem
}

// mulsub computes q[offset:offset+len] -= a[0:len] * x and returns the final
// borrow digit.
func mulsub(q, a []uint32, x uint32, length, offset int) uint32 {
	xLong := uint64(x)
	var carry uint64
	offset += length
	for j := length - 1; j >= 0; j-- {
		product := uint64(a[j])*xLong + carry
		difference := uint64(q[offset]) - product
		q[offset] = uint32(difference)
		offset--
		carry = product >> 32
		if uint32(difference) > ^uint32(product) {
			carry++
		}
	}
	return uint32(carry)
}

// divadd computes result[offset:offset+len(a)] += a and returns the carry.
// It is the add-back step of algorithm D.
func divadd(a, result []uint32, offset int) uint32 {
	var carry uint64
	for j := len(a) - 1; j >= 0; j-- {
		sum := uint64(a[j]) + uint64(result[j+offset]) + carry
		result[j+offset] = uint32(sum)
		carry = sum >> 32
	}
	return uint32(carry)
}

// divideAndRemainderBurnikelZiegler divides m by b with the Burnikel-Ziegler
// block recursive scheme: the dividend is cut into blocks sized to the
// divisor and each step divides a two-block number by a one-block number,
// recursing until the pieces drop below the threshold and Knuth takes over.
func (m *mutInt) divideAndRemainderBurnikelZiegler(b, quotient *mutInt) *mutInt {
	r := m.intLen
	s := b.intLen

	quotient.offset = 0
	quotient.intLen = 0

	if r < s {
		return m
	}

	// m = min{2^k : 2^k * threshold > s}
	blockCount := 1 << (32 - bits.LeadingZeros32(uint32(s/burnikelZieglerThreshold)))

	j := (s + blockCount - 1) / blockCount // ceil(s/m)
	n := j * blockCount                    // block length in digits
	n32 := int64(32) * int64(n)            // block length in bits
	sigma := int(n32) - b.bitLen()         // shift so b fills its block
	if sigma < 0 {
		sigma = 0
	}

	bShifted := b.clone()
	bShifted.safeLeftShift(sigma)
	aShifted := m.clone()
	aShifted.safeLeftShift(sigma)

	// t = number of blocks holding a plus one extra bit.
	t := int((int64(aShifted.bitLen()) + n32) / n32)
	if t < 2 {
		t = 2
	}

	a1 := aShifted.getBlock(t-1, t, n)

	// z = [a(t-1), a(t-2)]
	z := aShifted.getBlock(t-2, t, n)
	z.addDisjoint(a1, n)

	qi := newMutZero()
	var ri *mutInt
	for i := t - 2; i > 0; i-- {
		ri = z.divide2n1n(bShifted, qi)
		z = aShifted.getBlock(i-1, t, n)
		z.addDisjoint(ri, n)
		quotient.addShifted(qi, i*n)
	}
	ri = z.divide2n1n(bShifted, qi)
	quotient.add(qi)

	ri.rightShift(sigma)
	return ri
}

// divide2n1n divides a 2n-digit value by an n-digit divisor.
func (m *mutInt) divide2n1n(b, quotient *mutInt) *mutInt {
	n := b.intLen

	if n%2 != 0 || n < burnikelZieglerThreshold {
		return m.divideKnuth(b, quotient)
	}

	// Split m into [a1,a2,a3,a4] of n/2 digits each; aUpper = [a1,a2,a3].
	aUpper := m.clone()
	aUpper.safeRightShift(32 * (n / 2))
	m.keepLower(n / 2)

	q1 := newMutZero()
	r1 := aUpper.divide3n2n(b, q1)

	// [r1, a4] / b
	m.addDisjoint(r1, n/2)
	r2 := m.divide3n2n(b, quotient)

	quotient.addDisjoint(q1, n/2)
	return r2
}

// divide3n2n divides a 3n-digit value by a 2n-digit divisor.
func (m *mutInt) divide3n2n(b, quotient *mutInt) *mutInt {
	n := b.intLen / 2

	// m = [a1,a2,a3]; a12 = [a1,a2].
	a12 := m.clone()
	a12.safeRightShift(32 * n)

	// b = [b1,b2].
	b1 := b.clone()
	b1.safeRightShift(32 * n)
	b2 := b.getLowerBlock(n)

	var r, d *mutInt
	if m.compareShifted(b, n) < 0 {
		r = a12.divide2n1n(b1, quotient)
		d = newMut(quotient.toInt(1).Mul(b2.toInt(1)).mag)
	} else {
		// a1 >= b1: quotient is all ones and r = a12 - b1*2^(32n) + b1.
		quotient.ones(n)
		a12.add(b1)
		b1.leftShift(32 * n)
		a12.subtract(b1)
		r = a12

		d = b2.clone()
		d.leftShift(32 * n)
		d.subtract(b2)
	}

	// r = r*2^(32n) + a3 - d; delay the subtraction so r stays non-negative
	// through the correction loop.
	r.leftShift(32 * n)
	r.addLower(m, n)

	one := &mutInt{value: []uint32{1}, intLen: 1}
	for r.compare(d) < 0 {
		r.add(b)
		quotient.subtract(one)
	}
	r.subtract(d)

	return r
}
