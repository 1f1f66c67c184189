// Package decimal implements arbitrary-precision decimal arithmetic on top
// of the integer engine. A Decimal is an unscaled integer coefficient and a
// base-10 scale: the value is unscaled * 10^-scale. Like bigint.Int, a
// Decimal is immutable and safe to share.
//
// Addition and subtraction align scales exactly, multiplication adds them,
// and division rounds to a caller-chosen scale under an explicit
// RoundingMode. No operation loses digits silently.
package decimal

import (
	"strconv"
	"strings"

	"github.com/agbru/bignum/internal/bigint"
	apperrors "github.com/agbru/bignum/internal/errors"
)

// Decimal is an immutable arbitrary-precision decimal number.
type Decimal struct {
	unscaled *bigint.Int
	scale    int32
}

var (
	ten     = bigint.New(10)
	decZero = &Decimal{unscaled: bigint.New(0)}
)

// New returns a Decimal with the given unscaled coefficient and scale,
// representing unscaled * 10^-scale.
func New(unscaled *bigint.Int, scale int32) *Decimal {
	return &Decimal{unscaled: unscaled, scale: scale}
}

// Zero returns the decimal zero with scale 0.
func Zero() *Decimal { return decZero }

// Unscaled returns the unscaled coefficient.
func (d *Decimal) Unscaled() *bigint.Int { return d.unscaled }

// Scale returns the scale.
func (d *Decimal) Scale() int32 { return d.scale }

// Sign returns -1, 0 or +1.
func (d *Decimal) Sign() int { return d.unscaled.Sign() }

// IsZero reports whether d is numerically zero.
func (d *Decimal) IsZero() bool { return d.unscaled.IsZero() }

// Neg returns -d at the same scale.
func (d *Decimal) Neg() *Decimal {
	return &Decimal{unscaled: d.unscaled.Neg(), scale: d.scale}
}

// Abs returns |d| at the same scale.
func (d *Decimal) Abs() *Decimal {
	return &Decimal{unscaled: d.unscaled.Abs(), scale: d.scale}
}

// Parse converts a decimal string to a Decimal. The accepted form is an
// optional sign, digits with at most one decimal point, and an optional
// exponent part. The scale of the result is the number of fractional
// digits minus the exponent.
func Parse(s string) (*Decimal, error) {
	if s == "" {
		return nil, apperrors.NewFormatError(s, 10, "empty input")
	}
	mantissa := s
	var exp int64
	if i := strings.IndexAny(s, "eE"); i >= 0 {
		var err error
		exp, err = strconv.ParseInt(s[i+1:], 10, 32)
		if err != nil {
			return nil, apperrors.NewFormatError(s, 10, "invalid exponent %q", s[i+1:])
		}
		mantissa = s[:i]
	}

	var scale int64
	digits := mantissa
	if i := strings.IndexByte(mantissa, '.'); i >= 0 {
		frac := mantissa[i+1:]
		if strings.IndexByte(frac, '.') >= 0 {
			return nil, apperrors.NewFormatError(s, 10, "multiple decimal points")
		}
		if frac == "" && (i == 0 || (i == 1 && (mantissa[0] == '+' || mantissa[0] == '-'))) {
			return nil, apperrors.NewFormatError(s, 10, "missing digits")
		}
		scale = int64(len(frac))
		digits = mantissa[:i] + frac
	}

	unscaled, err := bigint.Parse(digits, 10)
	if err != nil {
		return nil, apperrors.NewFormatError(s, 10, "invalid mantissa")
	}
	scale -= exp
	if scale < -1<<31 || scale > 1<<31-1 {
		return nil, apperrors.NewFormatError(s, 10, "scale out of range")
	}
	return &Decimal{unscaled: unscaled, scale: int32(scale)}, nil
}

// String renders d in plain (non-scientific) notation: a negative scale
// appends zeros, a positive scale places a decimal point, padding with
// leading zeros when the coefficient is shorter than the scale. The output
// round-trips through Parse.
func (d *Decimal) String() string {
	coeff := d.unscaled.Abs().String()
	var sb strings.Builder
	if d.unscaled.Sign() < 0 {
		sb.WriteByte('-')
	}
	switch {
	case d.scale == 0:
		sb.WriteString(coeff)
	case d.scale < 0:
		sb.WriteString(coeff)
		if !d.unscaled.IsZero() {
			for i := int32(0); i > d.scale; i-- {
				sb.WriteByte('0')
			}
		}
	default:
		point := len(coeff) - int(d.scale)
		if point <= 0 {
			sb.WriteString("0.")
			for i := point; i < 0; i++ {
				sb.WriteByte('0')
			}
			sb.WriteString(coeff)
		} else {
			sb.WriteString(coeff[:point])
			sb.WriteByte('.')
			sb.WriteString(coeff[point:])
		}
	}
	return sb.String()
}

// pow10 returns 10^n as an integer; n must be non-negative.
func pow10(n int32) *bigint.Int {
	p, _ := ten.Pow(int(n))
	return p
}

// align returns the unscaled coefficients of x and y brought to their
// common (maximum) scale, plus that scale.
func align(x, y *Decimal) (*bigint.Int, *bigint.Int, int32) {
	switch {
	case x.scale == y.scale:
		return x.unscaled, y.unscaled, x.scale
	case x.scale < y.scale:
		return x.unscaled.Mul(pow10(y.scale - x.scale)), y.unscaled, y.scale
	default:
		return x.unscaled, y.unscaled.Mul(pow10(x.scale - y.scale)), x.scale
	}
}

// Add returns d + y at the larger of the two scales.
func (d *Decimal) Add(y *Decimal) *Decimal {
	xu, yu, scale := align(d, y)
	return &Decimal{unscaled: xu.Add(yu), scale: scale}
}

// Sub returns d - y at the larger of the two scales.
func (d *Decimal) Sub(y *Decimal) *Decimal {
	xu, yu, scale := align(d, y)
	return &Decimal{unscaled: xu.Sub(yu), scale: scale}
}

// Mul returns d * y; the scales add.
func (d *Decimal) Mul(y *Decimal) *Decimal {
	scale := int64(d.scale) + int64(y.scale)
	if scale < -1<<31 || scale > 1<<31-1 {
		panic("decimal: scale overflow in Mul")
	}
	return &Decimal{unscaled: d.unscaled.Mul(y.unscaled), scale: int32(scale)}
}

// Cmp compares d and y numerically, independent of scale.
func (d *Decimal) Cmp(y *Decimal) int {
	xu, yu, _ := align(d, y)
	return xu.Cmp(yu)
}

// Equal reports whether d and y are numerically equal; 1.0 equals 1.00.
func (d *Decimal) Equal(y *Decimal) bool { return d.Cmp(y) == 0 }

// Div returns d / y rounded to the given scale under the given mode. A zero
// divisor is an ArithmeticError; RoundUnnecessary reports an error if the
// quotient is not exact at that scale.
func (d *Decimal) Div(y *Decimal, scale int32, mode RoundingMode) (*Decimal, error) {
	if y.IsZero() {
		return nil, apperrors.NewArithmeticError(apperrors.KindDivision, "Div", "division by zero")
	}
	if d.IsZero() {
		return &Decimal{unscaled: d.unscaled, scale: scale}, nil
	}

	// Shift so that num/den lands directly at the target scale.
	num := d.unscaled
	den := y.unscaled
	shift := int64(scale) - int64(d.scale) + int64(y.scale)
	if shift > 0 {
		num = num.Mul(pow10(int32(shift)))
	} else if shift < 0 {
		den = den.Mul(pow10(int32(-shift)))
	}

	sign := num.Sign() * den.Sign()
	q, r, err := num.Abs().QuoRem(den.Abs())
	if err != nil {
		return nil, err
	}
	q, err = roundQuotient(q, r, den.Abs(), sign, mode)
	if err != nil {
		return nil, err
	}
	if sign < 0 {
		q = q.Neg()
	}
	return &Decimal{unscaled: q, scale: scale}, nil
}

// Rescale returns d at the given scale, rounding under the given mode when
// the new scale drops fractional digits.
func (d *Decimal) Rescale(scale int32, mode RoundingMode) (*Decimal, error) {
	diff := int64(scale) - int64(d.scale)
	switch {
	case diff == 0:
		return d, nil
	case diff > 0:
		return &Decimal{unscaled: d.unscaled.Mul(pow10(int32(diff))), scale: scale}, nil
	}

	den := pow10(int32(-diff))
	sign := d.Sign()
	q, r, err := d.unscaled.Abs().QuoRem(den)
	if err != nil {
		return nil, err
	}
	q, err = roundQuotient(q, r, den, sign, mode)
	if err != nil {
		return nil, err
	}
	if sign < 0 {
		q = q.Neg()
	}
	return &Decimal{unscaled: q, scale: scale}, nil
}

// roundQuotient applies the rounding mode to a non-negative truncated
// quotient q with remainder r against divisor den, for a result of the
// given sign, returning q or q+1.
func roundQuotient(q, r, den *bigint.Int, sign int, mode RoundingMode) (*bigint.Int, error) {
	if r.IsZero() {
		return q, nil
	}
	var increment bool
	switch mode {
	case RoundDown:
		increment = false
	case RoundUp:
		increment = true
	case RoundCeiling:
		increment = sign > 0
	case RoundFloor:
		increment = sign < 0
	case RoundHalfUp, RoundHalfDown, RoundHalfEven:
		cmp := r.ShiftLeft(1).Cmp(den)
		switch {
		case cmp > 0:
			increment = true
		case cmp < 0:
			increment = false
		default:
			// Exact tie.
			switch mode {
			case RoundHalfUp:
				increment = true
			case RoundHalfDown:
				increment = false
			default:
				increment = q.TestBit(0)
			}
		}
	case RoundUnnecessary:
		return nil, apperrors.NewArithmeticError(apperrors.KindRounding, "Div", "rounding necessary")
	default:
		return nil, apperrors.NewConfigError("unknown rounding mode %d", int(mode))
	}
	if increment {
		return q.Add(bigint.New(1)), nil
	}
	return q, nil
}
