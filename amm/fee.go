package amm

import (
	"errors"
	"fmt"
)

// FeeTier is a pool's fee expressed in pips (hundredths of a basis point).
// Only the deployed tiers are valid.
type FeeTier uint64

const (
	FeeLowest FeeTier = 100
	FeeLow    FeeTier = 500
	FeeMedium FeeTier = 3000
	FeeHigh   FeeTier = 10000
)

// ErrInvalidFeeTier is returned for a fee outside the deployed tier set.
var ErrInvalidFeeTier = errors.New("invalid fee tier")

// tickSpacings maps each fee tier to the tick granularity its pools use.
var tickSpacings = map[FeeTier]int64{
	FeeLowest: 1,
	FeeLow:    10,
	FeeMedium: 60,
	FeeHigh:   200,
}

// Valid reports whether f is a deployed fee tier.
func (f FeeTier) Valid() bool {
	_, ok := tickSpacings[f]
	return ok
}

// TickSpacing returns the tick granularity for the tier.
func (f FeeTier) TickSpacing() (int64, error) {
	spacing, ok := tickSpacings[f]
	if !ok {
		return 0, fmt.Errorf("%w: %d", ErrInvalidFeeTier, uint64(f))
	}
	return spacing, nil
}
