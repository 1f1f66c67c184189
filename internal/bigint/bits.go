// Bitwise operations with infinite-precision two's-complement semantics.
// Negative values behave as if they carried an infinite run of leading one
// bits. Internally each operand is materialized digit by digit in sign
// extended two's-complement form, the digits are combined, and the result is
// converted back to sign-magnitude.

package bigint

// signDigit returns the infinite sign-extension digit of x.
func (x *Int) signDigit() uint32 {
	if x.sign < 0 {
		return ^uint32(0)
	}
	return 0
}

// twosDigit returns digit n (counting from the least significant end) of the
// two's-complement representation of x, sign extended to infinity.
func (x *Int) twosDigit(n int) uint32 {
	if n < 0 {
		return 0
	}
	if n >= len(x.mag) {
		return x.signDigit()
	}
	magDigit := x.mag[len(x.mag)-n-1]
	if x.sign >= 0 {
		return magDigit
	}
	if n <= x.firstNonzeroDigit() {
		return -magDigit
	}
	return ^magDigit
}

// twosLength returns the number of digits in the minimal two's-complement
// representation of x, excluding the sign digit but including space for the
// sign bit.
func (x *Int) twosLength() int {
	return x.BitLen()/32 + 1
}

// fromTwos converts a big-endian two's-complement digit array into an Int.
func fromTwos(val []uint32) *Int {
	if len(val) == 0 {
		return intZero
	}
	if val[0]>>31 != 0 {
		return newFromDigits(makePositiveDigits(val), -1)
	}
	return makeInt(val, 1)
}

// makePositiveDigits returns the magnitude of a negative two's-complement
// digit array (its arithmetic negation).
func makePositiveDigits(a []uint32) []uint32 {
	var keep, j int
	for keep = 0; keep < len(a) && a[keep] == ^uint32(0); keep++ {
	}
	for j = keep; j < len(a) && a[j] == 0; j++ {
	}
	extra := 0
	if j == len(a) {
		extra = 1
	}
	result := make([]uint32, len(a)-keep+extra)
	for i := keep; i < len(a); i++ {
		result[i-keep+extra] = ^a[i]
	}
	// One's complement plus one.
	for i := len(result) - 1; ; i-- {
		result[i]++
		if result[i] != 0 {
			break
		}
	}
	return result
}

// And returns x & y.
func (x *Int) And(y *Int) *Int {
	n := max(x.twosLength(), y.twosLength())
	result := make([]uint32, n)
	for i := range result {
		result[i] = x.twosDigit(n-i-1) & y.twosDigit(n-i-1)
	}
	return fromTwos(result)
}

// Or returns x | y.
func (x *Int) Or(y *Int) *Int {
	n := max(x.twosLength(), y.twosLength())
	result := make([]uint32, n)
	for i := range result {
		result[i] = x.twosDigit(n-i-1) | y.twosDigit(n-i-1)
	}
	return fromTwos(result)
}

// Xor returns x ^ y.
func (x *Int) Xor(y *Int) *Int {
	n := max(x.twosLength(), y.twosLength())
	result := make([]uint32, n)
	for i := range result {
		result[i] = x.twosDigit(n-i-1) ^ y.twosDigit(n-i-1)
	}
	return fromTwos(result)
}

// Not returns ^x, which equals -x-1.
func (x *Int) Not() *Int {
	n := x.twosLength()
	result := make([]uint32, n)
	for i := range result {
		result[i] = ^x.twosDigit(n - i - 1)
	}
	return fromTwos(result)
}

// AndNot returns x &^ y.
func (x *Int) AndNot(y *Int) *Int {
	n := max(x.twosLength(), y.twosLength())
	result := make([]uint32, n)
	for i := range result {
		result[i] = x.twosDigit(n-i-1) &^ y.twosDigit(n-i-1)
	}
	return fromTwos(result)
}

// TestBit reports whether bit n of the two's-complement representation of x
// is set. A negative index is a caller bug and panics.
func (x *Int) TestBit(n int) bool {
	if n < 0 {
		panic("bigint: negative bit index")
	}
	return x.twosDigit(n>>5)&(1<<uint(n&31)) != 0
}

// Bit returns bit n of x as 0 or 1.
func (x *Int) Bit(n int) uint {
	if x.TestBit(n) {
		return 1
	}
	return 0
}

// SetBit returns x with bit n set.
func (x *Int) SetBit(n int) *Int {
	if n < 0 {
		panic("bigint: negative bit index")
	}
	intNum := n >> 5
	result := make([]uint32, max(x.twosLength(), intNum+2))
	for i := range result {
		result[len(result)-i-1] = x.twosDigit(i)
	}
	result[len(result)-intNum-1] |= 1 << uint(n&31)
	return fromTwos(result)
}

// ClearBit returns x with bit n cleared.
func (x *Int) ClearBit(n int) *Int {
	if n < 0 {
		panic("bigint: negative bit index")
	}
	intNum := n >> 5
	result := make([]uint32, max(x.twosLength(), (n+1)>>5+2))
	for i := range result {
		result[len(result)-i-1] = x.twosDigit(i)
	}
	result[len(result)-intNum-1] &^= 1 << uint(n&31)
	return fromTwos(result)
}

// FlipBit returns x with bit n inverted.
func (x *Int) FlipBit(n int) *Int {
	if n < 0 {
		panic("bigint: negative bit index")
	}
	intNum := n >> 5
	result := make([]uint32, max(x.twosLength(), intNum+2))
	for i := range result {
		result[len(result)-i-1] = x.twosDigit(i)
	}
	result[len(result)-intNum-1] ^= 1 << uint(n&31)
	return fromTwos(result)
}
