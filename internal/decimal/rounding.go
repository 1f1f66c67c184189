package decimal

// RoundingMode selects how a result is rounded when digits must be
// discarded.
type RoundingMode int

const (
	// RoundUp rounds away from zero.
	RoundUp RoundingMode = iota
	// RoundDown rounds toward zero (truncation).
	RoundDown
	// RoundCeiling rounds toward positive infinity.
	RoundCeiling
	// RoundFloor rounds toward negative infinity.
	RoundFloor
	// RoundHalfUp rounds to nearest, ties away from zero.
	RoundHalfUp
	// RoundHalfDown rounds to nearest, ties toward zero.
	RoundHalfDown
	// RoundHalfEven rounds to nearest, ties to the even neighbor.
	RoundHalfEven
	// RoundUnnecessary asserts the result is exact; discarding a nonzero
	// digit is an error.
	RoundUnnecessary
)

// ParseRoundingMode maps a mode name to its RoundingMode. The accepted
// names are the ones produced by String.
func ParseRoundingMode(name string) (RoundingMode, bool) {
	for m := RoundUp; m <= RoundUnnecessary; m++ {
		if m.String() == name {
			return m, true
		}
	}
	return RoundHalfEven, false
}

func (m RoundingMode) String() string {
	switch m {
	case RoundUp:
		return "up"
	case RoundDown:
		return "down"
	case RoundCeiling:
		return "ceiling"
	case RoundFloor:
		return "floor"
	case RoundHalfUp:
		return "half-up"
	case RoundHalfDown:
		return "half-down"
	case RoundHalfEven:
		return "half-even"
	case RoundUnnecessary:
		return "unnecessary"
	default:
		return "unknown"
	}
}
