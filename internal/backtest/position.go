package backtest

// Position is the state machine's stance in the spread. The numeric values
// double as the direction sign in P&L arithmetic: LongSpread marks to market
// as +1 (long A, short beta*B), ShortSpread as -1.
type Position int8

const (
	Flat        Position = 0
	LongSpread  Position = 1
	ShortSpread Position = -1
)

func (p Position) String() string {
	switch p {
	case Flat:
		return "FLAT"
	case LongSpread:
		return "LONG_SPREAD"
	case ShortSpread:
		return "SHORT_SPREAD"
	default:
		return "UNKNOWN"
	}
}

// NextPosition evaluates one bar of the state machine. Rules, in priority
// order: an unavailable signal holds the current state; from FLAT, z <= -entry
// opens a long spread and z >= +entry opens a short spread; an open long
// closes when z has reverted to >= -exit, an open short when z <= +exit.
// A position never flips directly; it must pass through FLAT first.
func NextPosition(current Position, z float64, hasSignal bool, entry, exit float64) Position {
	if !hasSignal {
		return current
	}

	switch current {
	case Flat:
		if z <= -entry {
			return LongSpread
		}
		if z >= entry {
			return ShortSpread
		}
	case LongSpread:
		if z >= -exit {
			return Flat
		}
	case ShortSpread:
		if z <= exit {
			return Flat
		}
	}

	return current
}
