package bigint

import (
	"math/big"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

func TestArithmeticProperties(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	properties := gopter.NewProperties(parameters)

	properties.Property("addition commutes", prop.ForAll(
		func(a, b int64) bool {
			x, y := New(a), New(b)
			return x.Add(y).Equal(y.Add(x))
		},
		gen.Int64(), gen.Int64(),
	))

	properties.Property("addition associates", prop.ForAll(
		func(a, b, c int64) bool {
			x, y, z := New(a), New(b), New(c)
			return x.Add(y).Add(z).Equal(x.Add(y.Add(z)))
		},
		gen.Int64(), gen.Int64(), gen.Int64(),
	))

	properties.Property("multiplication distributes over addition", prop.ForAll(
		func(a, b, c int64) bool {
			x, y, z := New(a), New(b), New(c)
			left := x.Mul(y.Add(z))
			right := x.Mul(y).Add(x.Mul(z))
			return left.Equal(right)
		},
		gen.Int64(), gen.Int64(), gen.Int64(),
	))

	properties.Property("string round trip is the identity", prop.ForAll(
		func(a int64) bool {
			x := New(a)
			back, err := Parse(x.String(), 10)
			return err == nil && back.Equal(x)
		},
		gen.Int64(),
	))

	properties.Property("division identity x == q*y + r", prop.ForAll(
		func(a, b int64) bool {
			if b == 0 {
				b = 1
			}
			x, y := New(a), New(b)
			q, r, err := x.QuoRem(y)
			if err != nil {
				return false
			}
			return q.Mul(y).Add(r).Equal(x) && r.CmpAbs(y) < 0
		},
		gen.Int64(), gen.Int64(),
	))

	properties.Property("results agree with math/big", prop.ForAll(
		func(a, b int64) bool {
			x, y := New(a), New(b)
			bx, by := big.NewInt(a), big.NewInt(b)
			if x.Add(y).String() != new(big.Int).Add(bx, by).String() {
				return false
			}
			if x.Mul(y).String() != new(big.Int).Mul(bx, by).String() {
				return false
			}
			return x.Cmp(y) == bx.Cmp(by)
		},
		gen.Int64(), gen.Int64(),
	))

	properties.Property("shift left then right restores the value for non-negatives", prop.ForAll(
		func(a int64, n uint8) bool {
			x := New(a).Abs()
			shift := uint(n % 128)
			return x.ShiftLeft(shift).ShiftRight(shift).Equal(x)
		},
		gen.Int64(), gen.UInt8(),
	))

	properties.TestingRun(t)
}
