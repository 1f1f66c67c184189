// Exponentiation, modular arithmetic and GCD. ModPow uses Montgomery
// reduction for odd moduli, where the per-step reduction is a word-wise
// multiply-add instead of a division; even moduli fall back to a ladder with
// explicit division. Both paths agree with the definition exactly.

package bigint

import (
	"math/bits"

	apperrors "github.com/agbru/bignum/internal/errors"
)

// Pow returns x^n. A negative exponent yields an ArithmeticError; use
// ModPow for modular inverses.
func (x *Int) Pow(n int) (*Int, error) {
	if n < 0 {
		return nil, apperrors.NewArithmeticError(apperrors.KindExponent, "Pow", "negative exponent %d", n)
	}
	if n == 0 {
		return intOne, nil
	}
	if x.sign == 0 {
		return intZero, nil
	}
	result := intOne
	base := x
	for e := n; e > 0; e >>= 1 {
		if e&1 == 1 {
			result = result.Mul(base)
		}
		if e > 1 {
			base = base.Mul(base)
		}
	}
	return result, nil
}

// GCD returns the greatest common divisor of |x| and |y|; GCD(0, 0) is 0.
// Large operands are reduced with Euclidean division until both fit in a
// word pair, then a binary GCD finishes.
func (x *Int) GCD(y *Int) *Int {
	a, b := x.Abs(), y.Abs()
	if a.IsZero() {
		return b
	}
	if b.IsZero() {
		return a
	}
	for bitLength(a.mag) > 64 || bitLength(b.mag) > 64 {
		_, r, _ := a.QuoRem(b)
		a, b = b, r
		if b.IsZero() {
			return a
		}
	}
	au, _ := a.Uint64()
	bu, _ := b.Uint64()
	return FromUint64(gcd64(au, bu))
}

// gcd64 is Stein's binary GCD on words. Both inputs must be nonzero.
func gcd64(a, b uint64) uint64 {
	k := bits.TrailingZeros64(a | b)
	a >>= bits.TrailingZeros64(a)
	for b != 0 {
		b >>= bits.TrailingZeros64(b)
		if a > b {
			a, b = b, a
		}
		b -= a
	}
	return a << k
}

// ModInverse returns the multiplicative inverse of x modulo m, i.e. the
// unique v in [0, m) with x*v == 1 (mod m). The modulus must be positive
// and x must be coprime to it; otherwise an ArithmeticError is returned.
func (x *Int) ModInverse(m *Int) (*Int, error) {
	if m.sign <= 0 {
		return nil, apperrors.NewArithmeticError(apperrors.KindModulus, "ModInverse", "modulus must be positive")
	}
	if m.Equal(intOne) {
		return intZero, nil
	}
	a, err := x.Mod(m)
	if err != nil {
		return nil, err
	}
	if a.IsZero() {
		return nil, apperrors.NewArithmeticError(apperrors.KindModulus, "ModInverse", "value and modulus are not coprime")
	}

	// Extended Euclid, tracking only the coefficient of a.
	oldR, r := a, m
	oldS, s := intOne, intZero
	for !r.IsZero() {
		q, rem, _ := oldR.QuoRem(r)
		oldR, r = r, rem
		oldS, s = s, oldS.Sub(q.Mul(s))
	}
	if !oldR.Equal(intOne) {
		return nil, apperrors.NewArithmeticError(apperrors.KindModulus, "ModInverse", "value and modulus are not coprime")
	}
	return oldS.Mod(m)
}

// ModPow returns x^e mod m, with the result in [0, m). The modulus must be
// positive. A negative exponent is handled by inverting x modulo m first,
// which requires x and m to be coprime.
func (x *Int) ModPow(e, m *Int) (*Int, error) {
	if m.sign <= 0 {
		return nil, apperrors.NewArithmeticError(apperrors.KindModulus, "ModPow", "modulus must be positive")
	}
	if m.Equal(intOne) {
		return intZero, nil
	}

	base := x
	exp := e
	if e.sign < 0 {
		inv, err := x.ModInverse(m)
		if err != nil {
			return nil, err
		}
		base = inv
		exp = e.Neg()
	}
	b, err := base.Mod(m)
	if err != nil {
		return nil, err
	}
	if exp.IsZero() {
		return intOne, nil
	}
	if b.IsZero() {
		return intZero, nil
	}
	if m.mag[len(m.mag)-1]&1 == 1 {
		return oddModPow(b, exp, m), nil
	}
	return evenModPow(b, exp, m), nil
}

// evenModPow is a square-and-multiply ladder with an explicit division per
// step. Montgomery reduction requires an odd modulus, so even moduli take
// this slower path.
func evenModPow(base, exp, m *Int) *Int {
	result := intOne
	b := base
	bl := bitLength(exp.mag)
	for i := 0; i < bl; i++ {
		if exp.TestBit(i) {
			result = modMul(result, b, m)
		}
		if i < bl-1 {
			b = modMul(b, b, m)
		}
	}
	return result
}

func modMul(x, y, m *Int) *Int {
	_, r, _ := x.Mul(y).QuoRem(m)
	return r
}

// oddModPow is a left-to-right square-and-multiply ladder in Montgomery
// form. base must already be reduced into [1, m) and m must be odd.
func oddModPow(base, exp, m *Int) *Int {
	mlen := len(m.mag)
	mod := m.mag
	inv := -inverseMod32(mod[mlen-1])

	aM := montConvert(base, m, mlen)
	result := montConvert(intOne, m, mlen)
	for i := bitLength(exp.mag) - 1; i >= 0; i-- {
		result = montMul(result, result, mod, mlen, inv)
		if exp.TestBit(i) {
			result = montMul(result, aM, mod, mlen, inv)
		}
	}

	// Leave Montgomery form: one extra reduction multiplies by R^-1.
	t := padTo(result, 2*mlen)
	montReduce(t, mod, mlen, inv)
	return makeInt(t[:mlen], 1)
}

// inverseMod32 returns the multiplicative inverse of v modulo 2^32; v must
// be odd. Each Newton step doubles the number of correct low bits.
func inverseMod32(v uint32) uint32 {
	t := v
	t *= 2 - v*t
	t *= 2 - v*t
	t *= 2 - v*t
	t *= 2 - v*t
	return t
}

// montConvert returns x*2^(32*mlen) mod m as a fixed-width digit array of
// mlen digits.
func montConvert(x, m *Int, mlen int) []uint32 {
	_, r, _ := x.ShiftLeft(uint(32 * mlen)).QuoRem(m)
	return padTo(r.mag, mlen)
}

// montMul returns the Montgomery product x*y*R^-1 mod m for fixed-width
// operands of mlen digits, R = 2^(32*mlen).
func montMul(x, y, mod []uint32, mlen int, inv uint32) []uint32 {
	xs := stripLeadingZeros(x)
	ys := stripLeadingZeros(y)
	var prod []uint32
	if len(xs) > 0 && len(ys) > 0 {
		prod = mulSchoolbook(xs, ys)
	}
	t := padTo(prod, 2*mlen)
	montReduce(t, mod, mlen, inv)
	return t[:mlen]
}

// montReduce performs Montgomery reduction in place: n is 2*mlen digits and
// on return its first mlen digits hold n*R^-1 mod m. One pass per digit
// zeroes the lowest remaining word by adding the right multiple of the
// modulus.
func montReduce(n, mod []uint32, mlen int, inv uint32) {
	c := 0
	for offset, left := 0, mlen; left > 0; offset, left = offset+1, left-1 {
		nEnd := n[len(n)-1-offset]
		carry := mulAdd(n, mod, offset, mlen, inv*nEnd)
		c += addOne(n, offset, mlen, carry)
	}
	for c > 0 {
		c += subN(n, mod, mlen)
	}
	for intArrayCmpToLen(n, mod, mlen) >= 0 {
		subN(n, mod, mlen)
	}
}

// mulAdd computes out[...] += in[0:len]*k at the given digit offset from the
// least significant end and returns the carry.
func mulAdd(out, in []uint32, offset, length int, k uint32) uint32 {
	kLong := uint64(k)
	var carry uint64
	pos := len(out) - offset - 1
	for j := length - 1; j >= 0; j-- {
		product := uint64(in[j])*kLong + uint64(out[pos]) + carry
		out[pos] = uint32(product)
		pos--
		carry = product >> 32
	}
	return uint32(carry)
}

// addOne adds carry to a at mlen digits above the given offset and returns
// any carry out of the array.
func addOne(a []uint32, offset, mlen int, carry uint32) int {
	pos := len(a) - 1 - mlen - offset
	t := uint64(a[pos]) + uint64(carry)
	a[pos] = uint32(t)
	if t>>32 == 0 {
		return 0
	}
	for mlen--; mlen >= 0; mlen-- {
		pos--
		if pos < 0 {
			return 1
		}
		a[pos]++
		if a[pos] != 0 {
			return 0
		}
	}
	return 1
}

// subN computes a[0:len] -= b[0:len] and returns the borrow (0 or -1).
func subN(a, b []uint32, length int) int {
	var sum int64
	for length--; length >= 0; length-- {
		sum = int64(uint64(a[length])) - int64(uint64(b[length])) + (sum >> 32)
		a[length] = uint32(sum)
	}
	return int(sum >> 32)
}

// intArrayCmpToLen compares the first length digits of a and b.
func intArrayCmpToLen(a, b []uint32, length int) int {
	for i := 0; i < length; i++ {
		if a[i] != b[i] {
			if a[i] < b[i] {
				return -1
			}
			return 1
		}
	}
	return 0
}

// padTo left-pads mag with zero digits to exactly n digits.
func padTo(mag []uint32, n int) []uint32 {
	out := make([]uint32, n)
	copy(out[n-len(mag):], mag)
	return out
}
