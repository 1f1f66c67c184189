// mutInt is the internal mutable companion of Int: a resizable digit buffer
// with an offset/length window, used as scratch space by multi-step
// algorithms (long division, Burnikel-Ziegler) to avoid allocating a fresh
// immutable value at every intermediate step. A mutInt lives inside a single
// operation's call tree and is converted to an Int exactly once at the end;
// it is never exported and never shared between goroutines.

package bigint

import "math/bits"

type mutInt struct {
	// value holds the digits, most significant first. Only the window
	// [offset, offset+intLen) is logically part of the number; keeping the
	// window instead of reslicing lets a value shrink (after division) or
	// slide without copying.
	value  []uint32
	intLen int
	offset int
}

// newMut returns a mutable value initialized from a canonical magnitude.
// The magnitude is copied so the immutable owner is never aliased.
func newMut(mag []uint32) *mutInt {
	v := make([]uint32, len(mag))
	copy(v, mag)
	return &mutInt{value: v, intLen: len(mag)}
}

// newMutZero returns a mutable value equal to zero.
func newMutZero() *mutInt {
	return &mutInt{value: make([]uint32, 1)}
}

// clone returns an independent copy of m.
func (m *mutInt) clone() *mutInt {
	v := make([]uint32, m.intLen)
	copy(v, m.value[m.offset:m.offset+m.intLen])
	return &mutInt{value: v, intLen: m.intLen}
}

func (m *mutInt) isZero() bool { return m.intLen == 0 }

// isOne reports whether m equals one.
func (m *mutInt) isOne() bool {
	return m.intLen == 1 && m.value[m.offset] == 1
}

// clear resets m to zero, keeping its buffer.
func (m *mutInt) clear() {
	m.offset = 0
	m.intLen = 0
	for i := range m.value {
		m.value[i] = 0
	}
}

// setOne sets m to one.
func (m *mutInt) setOne() {
	m.value = []uint32{1}
	m.intLen = 1
	m.offset = 0
}

// setValue adopts a buffer whose logical length is n.
func (m *mutInt) setValue(v []uint32, n int) {
	m.value = v
	m.intLen = n
	m.offset = 0
}

// copyFrom makes m an independent copy of src.
func (m *mutInt) copyFrom(src *mutInt) {
	m.intLen = src.intLen
	if len(m.value) < m.intLen {
		m.value = make([]uint32, m.intLen)
	}
	m.offset = 0
	copy(m.value, src.value[src.offset:src.offset+src.intLen])
}

// normalize strips leading zero digits from the window. The canonical-form
// invariant for mutInt: the window never starts with a zero digit unless the
// value is zero (intLen == 0).
func (m *mutInt) normalize() {
	if m.intLen == 0 {
		m.offset = 0
		return
	}
	index := m.offset
	if m.value[index] != 0 {
		return
	}
	indexBound := index + m.intLen
	for {
		index++
		if index >= indexBound || m.value[index] != 0 {
			break
		}
	}
	numZeros := index - m.offset
	m.intLen -= numZeros
	if m.intLen == 0 {
		m.offset = 0
	} else {
		m.offset += numZeros
	}
}

// toInt converts m into an immutable Int carrying the given sign. This is
// the sole exit point from the mutable representation.
func (m *mutInt) toInt(sign int) *Int {
	if m.intLen == 0 || sign == 0 {
		return intZero
	}
	mag := make([]uint32, m.intLen)
	copy(mag, m.value[m.offset:m.offset+m.intLen])
	return newFromDigits(stripLeadingZeros(mag), sign)
}

// bitLen returns the bit length of m (0 for zero).
func (m *mutInt) bitLen() int {
	if m.intLen == 0 {
		return 0
	}
	return m.intLen*32 - bits.LeadingZeros32(m.value[m.offset])
}

// compare compares the magnitudes of m and b and returns -1, 0 or +1.
func (m *mutInt) compare(b *mutInt) int {
	blen := b.intLen
	if m.intLen < blen {
		return -1
	}
	if m.intLen > blen {
		return 1
	}
	for i, j := m.offset, b.offset; i < m.intLen+m.offset; i, j = i+1, j+1 {
		if m.value[i] != b.value[j] {
			if m.value[i] < b.value[j] {
				return -1
			}
			return 1
		}
	}
	return 0
}

// compareShifted compares m with b*2^(32*ints).
func (m *mutInt) compareShifted(b *mutInt, ints int) int {
	blen := b.intLen
	alen := m.intLen - ints
	if alen < blen {
		return -1
	}
	if alen > blen {
		return 1
	}
	for i, j := m.offset, b.offset; i < alen+m.offset; i, j = i+1, j+1 {
		if m.value[i] != b.value[j] {
			if m.value[i] < b.value[j] {
				return -1
			}
			return 1
		}
	}
	return 0
}

// getBlock returns block index (counted from the least significant end) of
// m split into numBlocks blocks of blockLength digits each. Used by the
// Burnikel-Ziegler division.
func (m *mutInt) getBlock(index, numBlocks, blockLength int) *mutInt {
	blockStart := index * blockLength
	if blockStart >= m.intLen {
		return &mutInt{}
	}
	var blockEnd int
	if index == numBlocks-1 {
		blockEnd = m.intLen
	} else {
		blockEnd = (index + 1) * blockLength
	}
	if blockEnd > m.intLen {
		return &mutInt{}
	}
	newVal := make([]uint32, blockEnd-blockStart)
	copy(newVal, m.value[m.offset+m.intLen-blockEnd:m.offset+m.intLen-blockStart])
	r := &mutInt{value: newVal, intLen: len(newVal)}
	r.normalize()
	return r
}

// getLowerBlock returns the n least significant digits of m as a fresh
// mutable value.
func (m *mutInt) getLowerBlock(n int) *mutInt {
	if m.intLen <= n {
		return m.clone()
	}
	newVal := make([]uint32, n)
	copy(newVal, m.value[m.offset+m.intLen-n:m.offset+m.intLen])
	r := &mutInt{value: newVal, intLen: n}
	r.normalize()
	return r
}

// keepLower discards all but the n least significant digits in place.
func (m *mutInt) keepLower(n int) {
	if m.intLen >= n {
		m.offset += m.intLen - n
		m.intLen = n
	}
	m.normalize()
}

// ones sets m to 2^(32*n) - 1, i.e. n digits of all ones.
func (m *mutInt) ones(n int) {
	if len(m.value) < n {
		m.value = make([]uint32, n)
	}
	for i := range m.value {
		m.value[i] = digitMask
	}
	m.offset = len(m.value) - n
	m.intLen = n
}

// primitiveLeftShift shifts the window left by n bits (0 < n < 32) without
// changing intLen; the top bits must be known to be vacant.
func (m *mutInt) primitiveLeftShift(n uint) {
	val := m.value
	n2 := 32 - n
	for i, c := m.offset, val[m.offset]; i < m.offset+m.intLen-1; i++ {
		b := c
		c = val[i+1]
		val[i] = b<<n | c>>n2
	}
	val[m.offset+m.intLen-1] <<= n
}

// primitiveRightShift shifts the window right by n bits (0 < n < 32)
// without changing intLen.
func (m *mutInt) primitiveRightShift(n uint) {
	val := m.value
	n2 := 32 - n
	for i, c := m.offset+m.intLen-1, val[m.offset+m.intLen-1]; i > m.offset; i-- {
		b := c
		c = val[i-1]
		val[i] = c<<n2 | b>>n
	}
	val[m.offset] >>= n
}

// leftShift shifts m left by n bits in place, growing or sliding the buffer
// as needed.
func (m *mutInt) leftShift(n int) {
	if m.intLen == 0 {
		return
	}
	nInts := n >> 5
	nBits := uint(n & 31)
	bitsInHighWord := 32 - bits.LeadingZeros32(m.value[m.offset])

	// Fits without moving digits.
	if n <= 32-bitsInHighWord {
		if nBits > 0 {
			m.primitiveLeftShift(nBits)
		}
		return
	}

	newLen := m.intLen + nInts + 1
	if int(nBits) <= 32-bitsInHighWord {
		newLen--
	}
	if len(m.value) < newLen {
		result := make([]uint32, newLen)
		copy(result, m.value[m.offset:m.offset+m.intLen])
		m.setValue(result, newLen)
	} else if len(m.value)-m.offset >= newLen {
		// Room to the right of the window.
		for i := 0; i < newLen-m.intLen; i++ {
			m.value[m.offset+m.intLen+i] = 0
		}
	} else {
		// Slide the window to the start of the buffer.
		for i := 0; i < m.intLen; i++ {
			m.value[i] = m.value[m.offset+i]
		}
		for i := m.intLen; i < newLen; i++ {
			m.value[i] = 0
		}
		m.offset = 0
	}
	m.intLen = newLen
	if nBits == 0 {
		return
	}
	if int(nBits) <= 32-bitsInHighWord {
		m.primitiveLeftShift(nBits)
	} else {
		m.primitiveRightShift(uint(32) - nBits)
	}
}

// safeLeftShift is leftShift that tolerates a zero value.
func (m *mutInt) safeLeftShift(n int) {
	if n > 0 {
		m.leftShift(n)
	}
}

// rightShift shifts m right by n bits in place, truncating toward zero.
func (m *mutInt) rightShift(n int) {
	if m.intLen == 0 {
		return
	}
	nInts := n >> 5
	nBits := uint(n & 31)
	m.intLen -= nInts
	if nBits == 0 {
		return
	}
	bitsInHighWord := 32 - bits.LeadingZeros32(m.value[m.offset])
	if int(nBits) >= bitsInHighWord {
		m.primitiveLeftShift(32 - nBits)
		m.intLen--
	} else {
		m.primitiveRightShift(nBits)
	}
}

// safeRightShift is rightShift that clamps a shift past the full length to
// zero.
func (m *mutInt) safeRightShift(n int) {
	if n >= m.bitLen() {
		m.clear()
	} else if n > 0 {
		m.rightShift(n)
	}
}

// add sets m += b in place.
func (m *mutInt) add(b *mutInt) {
	x := m.intLen
	y := b.intLen
	resultLen := m.intLen
	if b.intLen > resultLen {
		resultLen = b.intLen
	}
	var result []uint32
	if len(m.value) < resultLen {
		result = make([]uint32, resultLen)
	} else {
		result = m.value
	}

	rstart := len(result) - 1
	var sum, carry uint64

	for x > 0 && y > 0 {
		x--
		y--
		sum = uint64(m.value[x+m.offset]) + uint64(b.value[y+b.offset]) + carry
		result[rstart] = uint32(sum)
		rstart--
		carry = sum >> 32
	}
	for x > 0 {
		x--
		if carry == 0 && equalSlices(result, m.value) && rstart == x+m.offset {
			return
		}
		sum = uint64(m.value[x+m.offset]) + carry
		result[rstart] = uint32(sum)
		rstart--
		carry = sum >> 32
	}
	for y > 0 {
		y--
		sum = uint64(b.value[y+b.offset]) + carry
		result[rstart] = uint32(sum)
		rstart--
		carry = sum >> 32
	}

	if carry > 0 {
		resultLen++
		if len(result) < resultLen {
			temp := make([]uint32, resultLen)
			copy(temp[1:], result)
			temp[0] = 1
			result = temp
		} else {
			result[len(result)-resultLen] = 1
		}
	}
	m.value = result
	m.intLen = resultLen
	m.offset = len(result) - resultLen
}

// equalSlices reports whether two slices share the same backing array and
// bounds. Used to detect the in-place fast path in add.
func equalSlices(a, b []uint32) bool {
	return len(a) == len(b) && len(a) > 0 && &a[0] == &b[0]
}

// subtract sets m = |m - b| in place and returns the sign of m - b
// (-1, 0 or +1).
func (m *mutInt) subtract(b *mutInt) int {
	a := m
	sign := a.compare(b)
	if sign == 0 {
		m.clear()
		return 0
	}
	if sign < 0 {
		a, b = b, a
	}

	resultLen := a.intLen
	result := m.value
	if len(result) < resultLen {
		result = make([]uint32, resultLen)
	}

	var diff int64
	x := a.intLen
	y := b.intLen
	rstart := len(result) - 1

	for y > 0 {
		x--
		y--
		diff = int64(uint64(a.value[x+a.offset])) - int64(uint64(b.value[y+b.offset])) + (diff >> 32)
		result[rstart] = uint32(diff)
		rstart--
	}
	for x > 0 {
		x--
		diff = int64(uint64(a.value[x+a.offset])) + (diff >> 32)
		result[rstart] = uint32(diff)
		rstart--
	}

	m.value = result
	m.intLen = resultLen
	m.offset = len(result) - resultLen
	m.normalize()
	return sign
}

// addLower sets m += (the n least significant digits of addend).
func (m *mutInt) addLower(addend *mutInt, n int) {
	a := &mutInt{value: addend.value, intLen: addend.intLen, offset: addend.offset}
	if a.offset+a.intLen >= n {
		a.offset = a.offset + a.intLen - n
		a.intLen = n
	}
	a.normalize()
	m.add(a)
}

// addShifted sets m += addend * 2^(32*n).
func (m *mutInt) addShifted(addend *mutInt, n int) {
	if addend.isZero() {
		return
	}
	shifted := addend.clone()
	shifted.leftShift(32 * n)
	m.add(shifted)
}

// addDisjoint sets m += addend * 2^(32*n), assuming the n least significant
// digits of m are zero so no digit-level addition is needed.
func (m *mutInt) addDisjoint(addend *mutInt, n int) {
	if addend.isZero() {
		return
	}
	x := m.intLen
	y := addend.intLen + n
	resultLen := m.intLen
	if y > resultLen {
		resultLen = y
	}
	var result []uint32
	if len(m.value) < resultLen {
		result = make([]uint32, resultLen)
	} else {
		result = m.value
		for i := m.offset + m.intLen; i < len(m.value); i++ {
			m.value[i] = 0
		}
	}

	rstart := len(result) - 1
	copy(result[rstart+1-x:rstart+1], m.value[m.offset:m.offset+x])
	y -= x
	rstart -= x

	length := min(y, len(addend.value)-addend.offset)
	copy(result[rstart+1-y:rstart+1-y+length], addend.value[addend.offset:addend.offset+length])
	for i := rstart + 1 - y + length; i < rstart+1; i++ {
		result[i] = 0
	}

	m.value = result
	m.intLen = resultLen
	m.offset = len(result) - resultLen
}
