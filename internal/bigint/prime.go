// Primality testing and probable-prime generation.
//
// The pipeline is trial division by a product of small primes, then
// Miller-Rabin with a round count chosen from the operand size and the
// requested certainty, then a Lucas sequence test for operands of 100 bits
// or more. A composite passing both Miller-Rabin and the Lucas test has no
// known construction.

package bigint

import (
	"math/rand"

	apperrors "github.com/agbru/bignum/internal/errors"
)

// DefaultPrimeCertainty is the certainty used by NextProbablePrime and
// Prime: the probability of returning a composite does not exceed
// 2^-DefaultPrimeCertainty.
const DefaultPrimeCertainty = 100

// smallPrimeThreshold is the bit length below which candidate search skips
// the window sieve and tests odd numbers directly.
const smallPrimeThreshold = 95

// smallPrimeProduct is 3*5*7*11*13*17*19*23*29*31*37*41; one remainder by
// it replaces twelve trial divisions.
var smallPrimeProduct = New(152125131763605)

// ProbablyPrime reports whether |x| is probably prime with a false positive
// probability of at most 2^-certainty, or definitely composite. A
// non-positive certainty accepts everything.
func (x *Int) ProbablyPrime(certainty int) bool {
	if certainty <= 0 {
		return true
	}
	w := x.Abs()
	if w.Equal(intTwo) {
		return true
	}
	if !w.TestBit(0) || w.Equal(intOne) {
		return false
	}
	return w.primeToCertainty(certainty, nil)
}

// primeToCertainty runs the Miller-Rabin and Lucas phases on an odd operand
// greater than two. The round count follows the published recommendations:
// larger operands need fewer rounds for the same confidence because random
// composites of that size are overwhelmingly likely to be caught early.
func (x *Int) primeToCertainty(certainty int, rnd *rand.Rand) bool {
	n := (certainty + 1) / 2

	sizeInBits := x.BitLen()
	if sizeInBits < 100 {
		rounds := 50
		if n < rounds {
			rounds = n
		}
		return x.passesMillerRabin(rounds, rnd)
	}

	var rounds int
	switch {
	case sizeInBits < 256:
		rounds = 27
	case sizeInBits < 512:
		rounds = 15
	case sizeInBits < 768:
		rounds = 8
	case sizeInBits < 1024:
		rounds = 4
	default:
		rounds = 2
	}
	if n < rounds {
		rounds = n
	}
	return x.passesMillerRabin(rounds, rnd) && x.passesLucasLehmer()
}

// passesMillerRabin runs the given number of Miller-Rabin witness rounds
// against random bases in (1, x).
func (x *Int) passesMillerRabin(iterations int, rnd *rand.Rand) bool {
	primalityTestsTotal.WithLabelValues("miller_rabin").Inc()

	// x - 1 == 2^a * m with m odd.
	xMinusOne := x.Sub(intOne)
	a := int(xMinusOne.TrailingZeroBits())
	m := xMinusOne.ShiftRight(uint(a))

	for i := 0; i < iterations; i++ {
		var b *Int
		for {
			b = randomBits(rnd, x.BitLen())
			if b.Cmp(intOne) > 0 && b.Cmp(x) < 0 {
				break
			}
		}

		j := 0
		z, _ := b.ModPow(m, x)
		for !((j == 0 && z.Equal(intOne)) || z.Equal(xMinusOne)) {
			if j > 0 && z.Equal(intOne) {
				return false
			}
			j++
			if j == a {
				return false
			}
			z = modMul(z, z, x)
		}
	}
	return true
}

// passesLucasLehmer applies the Lucas sequence test: find the first D in
// 5, -7, 9, -11, ... with Jacobi(D, x) == -1, then require U(x+1) == 0
// (mod x) for the Lucas sequence with discriminant D.
func (x *Int) passesLucasLehmer() bool {
	primalityTestsTotal.WithLabelValues("lucas").Inc()

	xPlusOne := x.Add(intOne)
	d := 5
	for jacobiSymbol(d, x) != -1 {
		if d < 0 {
			d = -d + 2
		} else {
			d = -(d + 2)
		}
	}
	u := lucasLehmerSequence(d, xPlusOne, x)
	r, _ := u.Mod(x)
	return r.IsZero()
}

// jacobiSymbol computes the Jacobi symbol (p/n) for a word-sized p and an
// odd positive n, by quadratic reciprocity on word-sized residues.
func jacobiSymbol(p int, n *Int) int {
	if p == 0 {
		return 0
	}
	j := 1
	u := n.mag[len(n.mag)-1]

	if p < 0 {
		p = -p
		n8 := u & 7
		if n8 == 3 || n8 == 7 {
			j = -j
		}
	}

	pp := uint32(p)
	for pp&3 == 0 {
		pp >>= 2
	}
	if pp&1 == 0 {
		pp >>= 1
		if (u^(u>>1))&2 != 0 {
			j = -j
		}
	}
	if pp == 1 {
		return j
	}
	if pp&u&2 != 0 {
		j = -j
	}

	// Reduce n mod p and continue on words.
	b := newMut(n.mag)
	q := newMutZero()
	u = b.divideOneWord(pp, q)

	for u != 0 {
		for u&3 == 0 {
			u >>= 2
		}
		if u&1 == 0 {
			u >>= 1
			if (pp^(pp>>1))&2 != 0 {
				j = -j
			}
		}
		if u == 1 {
			return j
		}
		u, pp = pp, u
		if u&pp&2 != 0 {
			j = -j
		}
		u %= pp
	}
	return 0
}

// lucasLehmerSequence returns U(k) mod n of the Lucas sequence with
// discriminant z, P=1. Halving steps exploit that an odd residue can be
// made even by subtracting the odd modulus.
func lucasLehmerSequence(z int, k, n *Int) *Int {
	d := New(int64(z))
	u := intOne
	v := intOne

	for i := k.BitLen() - 2; i >= 0; i-- {
		u2, _ := u.Mul(v).Mod(n)
		t, _ := v.Mul(v).Add(d.Mul(u.Mul(u))).Mod(n)
		if t.TestBit(0) {
			t = t.Sub(n)
		}
		v2 := t.ShiftRight(1)
		u, v = u2, v2

		if k.TestBit(i) {
			t, _ = u.Add(v).Mod(n)
			if t.TestBit(0) {
				t = t.Sub(n)
			}
			u2 = t.ShiftRight(1)
			t, _ = v.Add(d.Mul(u)).Mod(n)
			if t.TestBit(0) {
				t = t.Sub(n)
			}
			v2 = t.ShiftRight(1)
			u, v = u2, v2
		}
	}
	return u
}

// NextProbablePrime returns the first integer greater than x that is
// probably prime to DefaultPrimeCertainty; for x below two that is two.
// Small candidates are tested one by one; large ones come out of a window
// sieve sized to the operand.
func (x *Int) NextProbablePrime() *Int {
	if x.sign <= 0 || x.Equal(intOne) {
		return intTwo
	}

	result := x.Add(intOne)

	if result.BitLen() < smallPrimeThreshold {
		if !result.TestBit(0) {
			result = result.Add(intOne)
		}
		for {
			if result.BitLen() > 6 && hasSmallFactor(result) {
				result = result.Add(intTwo)
				continue
			}
			if result.BitLen() < 4 {
				return result
			}
			if result.primeToCertainty(DefaultPrimeCertainty, nil) {
				return result
			}
			result = result.Add(intTwo)
		}
	}

	// Start the sieve window at the previous even number.
	if result.TestBit(0) {
		result = result.Sub(intOne)
	}
	searchLen := getPrimeSearchLen(result.BitLen())
	for {
		sieve := newBitSieve(result, searchLen)
		if candidate := sieve.retrieve(result, DefaultPrimeCertainty, nil); candidate != nil {
			return candidate
		}
		result = result.Add(New(int64(2 * searchLen)))
	}
}

// hasSmallFactor reports whether x is divisible by one of the primes up to
// 41, using a single remainder by their product.
func hasSmallFactor(x *Int) bool {
	primalityTestsTotal.WithLabelValues("trial_division").Inc()
	rem, _ := x.Rem(smallPrimeProduct)
	r, _ := rem.Int64()
	return r%3 == 0 || r%5 == 0 || r%7 == 0 || r%11 == 0 ||
		r%13 == 0 || r%17 == 0 || r%19 == 0 || r%23 == 0 ||
		r%29 == 0 || r%31 == 0 || r%37 == 0 || r%41 == 0
}

func getPrimeSearchLen(bitLength int) int {
	return bitLength / 20 * 64
}

// Prime returns a random probable prime of exactly the given bit length,
// with a composite probability of at most 2^-DefaultPrimeCertainty. bits
// must be at least 2. A nil rnd uses the shared package source.
func Prime(rnd *rand.Rand, bits int) (*Int, error) {
	if bits < 2 {
		return nil, apperrors.NewConfigError("prime bit length must be at least 2, got %d", bits)
	}
	if bits < smallPrimeThreshold {
		return smallPrime(bits, DefaultPrimeCertainty, rnd), nil
	}
	return largePrime(bits, DefaultPrimeCertainty, rnd), nil
}

// smallPrime draws random odd candidates of exactly bitLen bits until one
// passes the primality pipeline.
func smallPrime(bitLen, certainty int, rnd *rand.Rand) *Int {
	for {
		p := randomExact(rnd, bitLen)
		if bitLen > 2 {
			p = p.SetBit(0)
		}

		if bitLen > 6 && hasSmallFactor(p) {
			continue
		}
		if bitLen < 4 {
			return p
		}
		if p.primeToCertainty(certainty, rnd) {
			return p
		}
	}
}

// largePrime sieves a window above a random even starting point, sliding
// (or re-randomizing, when the window would overflow the bit length) until
// a candidate of the exact bit length passes.
func largePrime(bitLen, certainty int, rnd *rand.Rand) *Int {
	p := randomExact(rnd, bitLen).ClearBit(0)
	searchLen := getPrimeSearchLen(bitLen)
	sieve := newBitSieve(p, searchLen)
	candidate := sieve.retrieve(p, certainty, rnd)

	for candidate == nil || candidate.BitLen() != bitLen {
		p = p.Add(New(int64(2 * searchLen)))
		if p.BitLen() != bitLen {
			p = randomExact(rnd, bitLen).ClearBit(0)
		}
		sieve = newBitSieve(p, searchLen)
		candidate = sieve.retrieve(p, certainty, rnd)
	}
	return candidate
}

// retrieve scans the sieve for clear bits and runs the primality pipeline
// on the surviving candidates, returning the first verified one or nil.
func (s *bitSieve) retrieve(initValue *Int, certainty int, rnd *rand.Rand) *Int {
	offset := 1
	for i := 0; i < len(s.bits); i++ {
		next := ^s.bits[i]
		for j := 0; j < 64; j++ {
			if next&1 == 1 {
				candidate := initValue.Add(New(int64(offset)))
				if candidate.primeToCertainty(certainty, rnd) {
					return candidate
				}
			}
			next >>= 1
			offset += 2
		}
	}
	return nil
}

// randomBits returns a uniform random value in [0, 2^bits). A nil rnd uses
// the shared package source.
func randomBits(rnd *rand.Rand, bits int) *Int {
	if bits <= 0 {
		return intZero
	}
	n := (bits + 31) / 32
	mag := make([]uint32, n)
	for i := range mag {
		mag[i] = randUint32(rnd)
	}
	if excess := 32*n - bits; excess > 0 {
		mag[0] &= ^uint32(0) >> uint(excess)
	}
	return makeInt(mag, 1)
}

// randomExact returns a random value of exactly the given bit length.
func randomExact(rnd *rand.Rand, bits int) *Int {
	p := randomBits(rnd, bits)
	return p.SetBit(bits - 1)
}

func randUint32(rnd *rand.Rand) uint32 {
	if rnd != nil {
		return rnd.Uint32()
	}
	return rand.Uint32()
}
