// This file contains the shared low-level primitives operating on raw digit
// arrays. A digit array is a []uint32 in base 2^32, most-significant digit
// first, with no leading zero digit (canonical form). Both the immutable Int
// and the internal mutable representation build on these routines.

package bigint

import "math/bits"

// digitMask extracts the low 32 bits of a 64-bit intermediate.
const digitMask = 0xFFFFFFFF

// stripLeadingZeros returns the canonical form of a digit array whose leading
// digits may be zero. The returned slice aliases the input.
func stripLeadingZeros(mag []uint32) []uint32 {
	keep := 0
	for keep < len(mag) && mag[keep] == 0 {
		keep++
	}
	return mag[keep:]
}

// compareMagnitude compares two canonical digit arrays and returns -1, 0 or
// +1. Shorter arrays are smaller; equal-length arrays compare digit-wise from
// the most significant end.
func compareMagnitude(x, y []uint32) int {
	if len(x) < len(y) {
		return -1
	}
	if len(x) > len(y) {
		return 1
	}
	for i := range x {
		if x[i] != y[i] {
			if x[i] < y[i] {
				return -1
			}
			return 1
		}
	}
	return 0
}

// addMagnitude returns x + y as a fresh digit array. Inputs must be
// canonical; the result is canonical.
func addMagnitude(x, y []uint32) []uint32 {
	if len(x) < len(y) {
		x, y = y, x
	}
	xi := len(x)
	yi := len(y)
	result := make([]uint32, xi)

	var sum uint64
	for yi > 0 {
		xi--
		yi--
		sum = uint64(x[xi]) + uint64(y[yi]) + (sum >> 32)
		result[xi] = uint32(sum)
	}

	carry := sum>>32 != 0
	for xi > 0 && carry {
		xi--
		result[xi] = x[xi] + 1
		carry = result[xi] == 0
	}
	for xi > 0 {
		xi--
		result[xi] = x[xi]
	}
	if carry {
		bigger := make([]uint32, len(result)+1)
		copy(bigger[1:], result)
		bigger[0] = 1
		return bigger
	}
	return result
}

// subMagnitude returns big - little as a fresh digit array. The caller must
// guarantee big >= little; the result is stripped to canonical form.
func subMagnitude(big, little []uint32) []uint32 {
	bi := len(big)
	result := make([]uint32, bi)
	li := len(little)

	var difference int64
	for li > 0 {
		bi--
		li--
		difference = int64(uint64(big[bi])) - int64(uint64(little[li])) + (difference >> 32)
		result[bi] = uint32(difference)
	}

	borrow := difference>>32 != 0
	for bi > 0 && borrow {
		bi--
		result[bi] = big[bi] - 1
		borrow = result[bi] == digitMask
	}
	for bi > 0 {
		bi--
		result[bi] = big[bi]
	}
	return stripLeadingZeros(result)
}

// mulSchoolbook computes x * y with the classic O(n*m) algorithm. Both
// inputs must be canonical and non-empty; the result is canonical.
func mulSchoolbook(x, y []uint32) []uint32 {
	xlen := len(x)
	ylen := len(y)
	z := make([]uint32, xlen+ylen)

	xstart := xlen - 1
	ystart := ylen - 1

	var carry uint64
	for j, k := ystart, ystart+1+xstart; j >= 0; j, k = j-1, k-1 {
		product := uint64(y[j])*uint64(x[xstart]) + carry
		z[k] = uint32(product)
		carry = product >> 32
	}
	z[xstart] = uint32(carry)

	for i := xstart - 1; i >= 0; i-- {
		carry = 0
		for j, k := ystart, ystart+1+i; j >= 0; j, k = j-1, k-1 {
			product := uint64(y[j])*uint64(x[i]) + uint64(z[k]) + carry
			z[k] = uint32(product)
			carry = product >> 32
		}
		z[i] = uint32(carry)
	}
	return stripLeadingZeros(z)
}

// shlMagnitude returns mag << n as a fresh digit array. mag must be
// canonical and non-empty.
func shlMagnitude(mag []uint32, n uint) []uint32 {
	nInts := int(n >> 5)
	nBits := n & 31
	magLen := len(mag)

	if nBits == 0 {
		newMag := make([]uint32, magLen+nInts)
		copy(newMag, mag)
		return newMag
	}

	var newMag []uint32
	i := 0
	nBits2 := 32 - nBits
	highBits := mag[0] >> nBits2
	if highBits != 0 {
		newMag = make([]uint32, magLen+nInts+1)
		newMag[i] = highBits
		i++
	} else {
		newMag = make([]uint32, magLen+nInts)
	}
	j := 0
	for j < magLen-1 {
		newMag[i] = mag[j]<<nBits | mag[j+1]>>nBits2
		i++
		j++
	}
	newMag[i] = mag[j] << nBits
	return newMag
}

// shrMagnitude returns mag >> n, truncating toward zero. The caller must
// ensure n < bit length of mag.
func shrMagnitude(mag []uint32, n uint) []uint32 {
	nInts := int(n >> 5)
	nBits := n & 31
	magLen := len(mag)

	if nBits == 0 {
		newMag := make([]uint32, magLen-nInts)
		copy(newMag, mag[:magLen-nInts])
		return newMag
	}

	var newMag []uint32
	i := 0
	highBits := mag[0] >> nBits
	if highBits != 0 {
		newMag = make([]uint32, magLen-nInts)
		newMag[i] = highBits
		i++
	} else {
		newMag = make([]uint32, magLen-nInts-1)
	}
	nBits2 := 32 - nBits
	j := 0
	for j < magLen-nInts-1 {
		newMag[i] = mag[j]<<nBits2 | mag[j+1]>>nBits
		i++
		j++
	}
	return newMag
}

// bitLength returns the number of significant bits in a canonical digit
// array. The bit length of zero (an empty array) is 0.
func bitLength(mag []uint32) int {
	if len(mag) == 0 {
		return 0
	}
	return (len(mag)-1)*32 + bits.Len32(mag[0])
}

// trailingZeroBits returns the number of consecutive zero bits starting at
// the least significant bit. mag must be non-empty and canonical.
func trailingZeroBits(mag []uint32) uint {
	j := len(mag) - 1
	for j > 0 && mag[j] == 0 {
		j--
	}
	return uint(len(mag)-1-j)*32 + uint(bits.TrailingZeros32(mag[j]))
}

// incrementMagnitude adds one to a digit array in place, growing it by one
// digit when the carry ripples past the most significant end.
func incrementMagnitude(val []uint32) []uint32 {
	lastSum := uint32(0)
	for i := len(val) - 1; i >= 0 && lastSum == 0; i-- {
		val[i]++
		lastSum = val[i]
	}
	if lastSum == 0 {
		val = make([]uint32, len(val)+1)
		val[0] = 1
	}
	return val
}
