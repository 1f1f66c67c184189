// bitSieve marks composites among a window of consecutive odd candidates.
// Bit i stands for base + 2i + 1 where base is even; a set bit means the
// candidate has a known small factor. Bits are only ever set, never cleared.

package bigint

import "sync"

type bitSieve struct {
	bits   []uint64
	length int // candidate count, not bit-unit count
}

func unitIndex(bitIndex int) int { return bitIndex >> 6 }

func (s *bitSieve) get(bitIndex int) bool {
	return s.bits[unitIndex(bitIndex)]&(1<<uint(bitIndex&63)) != 0
}

func (s *bitSieve) set(bitIndex int) {
	s.bits[unitIndex(bitIndex)] |= 1 << uint(bitIndex&63)
}

// smallSieve covers the odd numbers in [3, 2*150*64+1) and seeds every
// window sieve with the small primes it exposes. Built once, on first use.
var (
	smallSieveOnce sync.Once
	smallSieve     *bitSieve
)

func getSmallSieve() *bitSieve {
	smallSieveOnce.Do(func() {
		s := &bitSieve{length: 150 * 64}
		s.bits = make([]uint64, unitIndex(s.length-1)+1)
		// Candidate "1" is not prime.
		s.set(0)
		nextIndex := 1
		nextPrime := 3
		for {
			s.sieveSingle(s.length, nextIndex+nextPrime, nextPrime)
			nextIndex = s.sieveSearch(s.length, nextIndex+1)
			nextPrime = 2*nextIndex + 1
			if nextIndex <= 0 || nextPrime >= s.length {
				break
			}
		}
		smallSieve = s
	})
	return smallSieve
}

// newBitSieve sieves a window of searchLen odd candidates above the even
// base: for each small prime p, the first multiple of p inside the window
// is located with one single-word division and every p-th candidate from
// there is marked composite.
func newBitSieve(base *Int, searchLen int) *bitSieve {
	s := &bitSieve{
		bits:   make([]uint64, unitIndex(searchLen-1)+1),
		length: searchLen,
	}
	small := getSmallSieve()

	step := small.sieveSearch(small.length, 0)
	convertedStep := step*2 + 1

	b := newMut(base.mag)
	q := newMutZero()
	for {
		start := int(b.divideOneWord(uint32(convertedStep), q))
		start = convertedStep - start
		if start%2 == 0 {
			start += convertedStep
		}
		s.sieveSingle(searchLen, (start-1)/2, convertedStep)

		step = small.sieveSearch(small.length, step+1)
		convertedStep = step*2 + 1
		if step <= 0 || convertedStep >= searchLen {
			break
		}
	}
	return s
}

// sieveSearch returns the index of the first clear bit at or after start,
// or -1 if none remains below limit.
func (s *bitSieve) sieveSearch(limit, start int) int {
	if start >= limit {
		return -1
	}
	for index := start; index < limit-1; index++ {
		if !s.get(index) {
			return index
		}
	}
	return -1
}

// sieveSingle marks every step-th candidate from start as composite.
func (s *bitSieve) sieveSingle(limit, start, step int) {
	for start < limit {
		s.set(start)
		start += step
	}
}
