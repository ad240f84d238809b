package backtest

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPosition_String(t *testing.T) {
	assert.Equal(t, "FLAT", Flat.String())
	assert.Equal(t, "LONG_SPREAD", LongSpread.String())
	assert.Equal(t, "SHORT_SPREAD", ShortSpread.String())
	assert.Equal(t, "UNKNOWN", Position(7).String())
}

func TestPosition_DirectionSign(t *testing.T) {
	assert.Equal(t, 1.0, float64(LongSpread))
	assert.Equal(t, -1.0, float64(ShortSpread))
	assert.Equal(t, 0.0, float64(Flat))
}

func TestNextPosition_NoSignalHoldsState(t *testing.T) {
	// An unavailable z-score freezes the machine regardless of the value.
	assert.Equal(t, Flat, NextPosition(Flat, -99, false, 2.0, 0.0))
	assert.Equal(t, LongSpread, NextPosition(LongSpread, 99, false, 2.0, 0.0))
	assert.Equal(t, ShortSpread, NextPosition(ShortSpread, -99, false, 2.0, 0.0))
}

func TestNextPosition_EntryFromFlat(t *testing.T) {
	assert.Equal(t, LongSpread, NextPosition(Flat, -2.5, true, 2.0, 0.0))
	assert.Equal(t, ShortSpread, NextPosition(Flat, 2.5, true, 2.0, 0.0))

	// Thresholds are inclusive.
	assert.Equal(t, LongSpread, NextPosition(Flat, -2.0, true, 2.0, 0.0))
	assert.Equal(t, ShortSpread, NextPosition(Flat, 2.0, true, 2.0, 0.0))
}

func TestNextPosition_HoldsInsideEntryBand(t *testing.T) {
	assert.Equal(t, Flat, NextPosition(Flat, -1.99, true, 2.0, 0.0))
	assert.Equal(t, Flat, NextPosition(Flat, 1.99, true, 2.0, 0.0))
	assert.Equal(t, Flat, NextPosition(Flat, 0, true, 2.0, 0.0))
}

func TestNextPosition_ExitLong(t *testing.T) {
	// A long closes once z has reverted to -exit or better.
	assert.Equal(t, Flat, NextPosition(LongSpread, 0.0, true, 2.0, 0.0))
	assert.Equal(t, Flat, NextPosition(LongSpread, 1.3, true, 2.0, 0.0))
	assert.Equal(t, LongSpread, NextPosition(LongSpread, -0.1, true, 2.0, 0.0))
	assert.Equal(t, LongSpread, NextPosition(LongSpread, -2.9, true, 2.0, 0.0))
}

func TestNextPosition_ExitShort(t *testing.T) {
	assert.Equal(t, Flat, NextPosition(ShortSpread, 0.0, true, 2.0, 0.0))
	assert.Equal(t, Flat, NextPosition(ShortSpread, -1.3, true, 2.0, 0.0))
	assert.Equal(t, ShortSpread, NextPosition(ShortSpread, 0.1, true, 2.0, 0.0))
	assert.Equal(t, ShortSpread, NextPosition(ShortSpread, 2.9, true, 2.0, 0.0))
}

func TestNextPosition_ExitHysteresis(t *testing.T) {
	// With a non-zero exit band the position survives partial reversion.
	assert.Equal(t, LongSpread, NextPosition(LongSpread, -0.6, true, 2.0, 0.5))
	assert.Equal(t, Flat, NextPosition(LongSpread, -0.5, true, 2.0, 0.5))
	assert.Equal(t, ShortSpread, NextPosition(ShortSpread, 0.6, true, 2.0, 0.5))
	assert.Equal(t, Flat, NextPosition(ShortSpread, 0.5, true, 2.0, 0.5))
}

func TestNextPosition_NeverFlipsDirectly(t *testing.T) {
	// An extreme opposite-side z closes the position; re-entry takes a
	// second evaluation from FLAT.
	assert.Equal(t, Flat, NextPosition(LongSpread, 3.0, true, 2.0, 0.0))
	assert.Equal(t, Flat, NextPosition(ShortSpread, -3.0, true, 2.0, 0.0))
}
