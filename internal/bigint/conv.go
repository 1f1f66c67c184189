// String and byte conversions. Parsing processes the input in digit groups,
// each group being the largest power of the base that fits in one uint32, so
// the expensive multi-precision step runs once per group instead of once per
// character. Formatting is the mirror image: repeated division by the same
// per-base super radix.

package bigint

import (
	"math"
	"strconv"
	"strings"

	apperrors "github.com/agbru/bignum/internal/errors"
)

// Per-base tables, filled at init for bases 2 through 36.
var (
	// digitsPerInt[b] is the number of base-b digits that always fit in a
	// uint32.
	digitsPerInt [37]int
	// intRadix[b] = b^digitsPerInt[b], the super radix used for grouped
	// parsing and formatting.
	intRadix [37]uint32
	// bitsPerDigit[b] is ceil(log2(b) * 1024), used to size the magnitude
	// allocation when parsing.
	bitsPerDigit [37]int
)

func init() {
	for b := 2; b <= 36; b++ {
		p := uint64(b)
		n := 1
		for p*uint64(b) <= math.MaxUint32 {
			p *= uint64(b)
			n++
		}
		digitsPerInt[b] = n
		intRadix[b] = uint32(p)
		bitsPerDigit[b] = int(math.Ceil(math.Log2(float64(b)) * 1024))
	}
}

// Parse converts a string in the given base (2 to 36) to an Int. An optional
// leading '+' or '-' is accepted; digits above 9 may be upper or lower case.
// Malformed input yields a FormatError.
func Parse(s string, base int) (*Int, error) {
	if base < 2 || base > 36 {
		return nil, apperrors.NewFormatError(s, base, "base must be in [2, 36]")
	}
	if s == "" {
		return nil, apperrors.NewFormatError(s, base, "empty input")
	}

	sign := 1
	cursor := 0
	switch s[0] {
	case '-':
		sign = -1
		cursor = 1
	case '+':
		cursor = 1
	}
	if cursor == len(s) {
		return nil, apperrors.NewFormatError(s, base, "missing digits")
	}

	for cursor < len(s) && s[cursor] == '0' {
		cursor++
	}
	if cursor == len(s) {
		return intZero, nil
	}

	numDigits := len(s) - cursor
	numBits := numDigits*bitsPerDigit[base]>>10 + 1
	mag := make([]uint32, (numBits+31)/32)

	firstGroupLen := numDigits % digitsPerInt[base]
	if firstGroupLen == 0 {
		firstGroupLen = digitsPerInt[base]
	}
	v, err := parseGroup(s, s[cursor:cursor+firstGroupLen], base)
	if err != nil {
		return nil, err
	}
	cursor += firstGroupLen
	mag[len(mag)-1] = v

	for cursor < len(s) {
		v, err := parseGroup(s, s[cursor:cursor+digitsPerInt[base]], base)
		if err != nil {
			return nil, err
		}
		cursor += digitsPerInt[base]
		destructiveMulAdd(mag, intRadix[base], v)
	}
	return makeInt(mag, sign), nil
}

// parseGroup converts one digit group to its value. The group length is
// bounded by digitsPerInt so the value always fits in a uint32.
func parseGroup(input, group string, base int) (uint32, error) {
	var v uint64
	for i := 0; i < len(group); i++ {
		d := digitVal(group[i])
		if d < 0 || d >= base {
			return 0, apperrors.NewFormatError(input, base, "invalid digit %q", group[i])
		}
		v = v*uint64(base) + uint64(d)
	}
	return uint32(v), nil
}

func digitVal(c byte) int {
	switch {
	case '0' <= c && c <= '9':
		return int(c - '0')
	case 'a' <= c && c <= 'z':
		return int(c-'a') + 10
	case 'A' <= c && c <= 'Z':
		return int(c-'A') + 10
	}
	return -1
}

// destructiveMulAdd computes x = x*y + z in place. x must be large enough to
// hold the result.
func destructiveMulAdd(x []uint32, y, z uint32) {
	var carry uint64
	for i := len(x) - 1; i >= 0; i-- {
		product := uint64(y)*uint64(x[i]) + carry
		x[i] = uint32(product)
		carry = product >> 32
	}
	carry = uint64(z)
	for i := len(x) - 1; i >= 0; i-- {
		sum := uint64(x[i]) + carry
		x[i] = uint32(sum)
		carry = sum >> 32
	}
}

// String returns the base-10 representation of x.
func (x *Int) String() string {
	s, _ := x.Text(10)
	return s
}

// Text returns the representation of x in the given base (2 to 36), using
// lower-case letters for digits above 9. The output round-trips through
// Parse in the same base.
func (x *Int) Text(base int) (string, error) {
	if base < 2 || base > 36 {
		return "", apperrors.NewFormatError("", base, "base must be in [2, 36]")
	}
	if x.sign == 0 {
		return "0", nil
	}

	// Peel off one super-radix group per division.
	groups := make([]uint32, 0, len(x.mag)*32*1024/bitsPerDigit[base]/digitsPerInt[base]+2)
	tmp := newMut(x.mag)
	q := newMutZero()
	for !tmp.isZero() {
		r := tmp.divideOneWord(intRadix[base], q)
		groups = append(groups, r)
		tmp, q = q, tmp
	}

	var sb strings.Builder
	if x.sign < 0 {
		sb.WriteByte('-')
	}
	sb.WriteString(strconv.FormatUint(uint64(groups[len(groups)-1]), base))
	for i := len(groups) - 2; i >= 0; i-- {
		s := strconv.FormatUint(uint64(groups[i]), base)
		for p := len(s); p < digitsPerInt[base]; p++ {
			sb.WriteByte('0')
		}
		sb.WriteString(s)
	}
	return sb.String(), nil
}

// Bytes returns the minimal big-endian two's-complement encoding of x,
// including at least one bit of sign. Zero encodes as a single zero byte;
// the encoding round-trips through FromBytes.
func (x *Int) Bytes() []byte {
	byteLen := x.BitLen()/8 + 1
	out := make([]byte, byteLen)
	bytesCopied := 4
	var nextInt uint32
	intIndex := 0
	for i := byteLen - 1; i >= 0; i-- {
		if bytesCopied == 4 {
			nextInt = x.twosDigit(intIndex)
			intIndex++
			bytesCopied = 1
		} else {
			nextInt >>= 8
			bytesCopied++
		}
		out[i] = byte(nextInt)
	}
	return out
}

// FromBytes interprets b as a big-endian two's-complement integer and
// returns the corresponding Int. An empty slice is zero.
func FromBytes(b []byte) *Int {
	if len(b) == 0 {
		return intZero
	}
	if b[0]&0x80 != 0 {
		return newFromDigits(magFromNegBytes(b), -1)
	}
	mag := magFromBytes(b)
	if len(mag) == 0 {
		return intZero
	}
	return newFromDigits(mag, 1)
}

// SignBytes returns the sign of x and the minimal big-endian encoding of its
// magnitude. The magnitude of zero is empty.
func (x *Int) SignBytes() (int, []byte) {
	return x.sign, x.magBytes()
}

// FromSignBytes builds an Int from a sign and a big-endian magnitude. The
// sign must be -1, 0 or +1, and a zero sign requires a zero magnitude.
func FromSignBytes(sign int, mag []byte) (*Int, error) {
	if sign < -1 || sign > 1 {
		return nil, apperrors.NewArithmeticError(apperrors.KindModulus, "FromSignBytes", "sign must be -1, 0 or 1, got %d", sign)
	}
	m := magFromBytes(mag)
	if len(m) == 0 {
		return intZero, nil
	}
	if sign == 0 {
		return nil, apperrors.NewArithmeticError(apperrors.KindModulus, "FromSignBytes", "sign 0 with nonzero magnitude")
	}
	return newFromDigits(m, sign), nil
}

// magBytes returns the minimal big-endian encoding of |x|, empty for zero.
func (x *Int) magBytes() []byte {
	if x.sign == 0 {
		return []byte{}
	}
	byteLen := (bitLength(x.mag) + 7) / 8
	out := make([]byte, byteLen)
	k := byteLen
	for i := len(x.mag) - 1; i >= 0; i-- {
		d := x.mag[i]
		for j := 0; j < 4 && k > 0; j++ {
			k--
			out[k] = byte(d)
			d >>= 8
		}
	}
	return out
}

// magFromBytes packs big-endian magnitude bytes into a canonical digit
// array.
func magFromBytes(b []byte) []uint32 {
	i := 0
	for i < len(b) && b[i] == 0 {
		i++
	}
	b = b[i:]
	if len(b) == 0 {
		return nil
	}
	mag := make([]uint32, (len(b)+3)/4)
	k := len(mag) - 1
	for end := len(b); end > 0; end -= 4 {
		start := end - 4
		if start < 0 {
			start = 0
		}
		var v uint32
		for _, by := range b[start:end] {
			v = v<<8 | uint32(by)
		}
		mag[k] = v
		k--
	}
	return mag
}

// magFromNegBytes returns the magnitude of a negative two's-complement byte
// array by negating it at the byte level.
func magFromNegBytes(b []byte) []uint32 {
	c := make([]byte, len(b))
	for i := range b {
		c[i] = ^b[i]
	}
	i := len(c) - 1
	for ; i >= 0; i-- {
		c[i]++
		if c[i] != 0 {
			break
		}
	}
	if i < 0 {
		c = append([]byte{1}, c...)
	}
	return magFromBytes(c)
}
