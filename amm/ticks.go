package amm

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"sort"
)

// Tick is one initialized tick: its index and the liquidity it adds to (or
// removes from) the active range when crossed. Presence of a Tick implies
// the tick is initialized.
type Tick struct {
	Index          int64    `json:"index"`
	LiquidityGross *big.Int `json:"liquidityGross"`
	LiquidityNet   *big.Int `json:"liquidityNet"`
}

// TickDataProvider serves initialized-tick data to the swap loop. It is the
// one place a swap simulation may block: implementations are free to fetch
// ticks lazily from a backing store, so every lookup takes a Context.
type TickDataProvider interface {
	// NextInitializedTick returns the nearest initialized tick at or below
	// tick when lte is true, or strictly above it when lte is false. The
	// boolean is false when no initialized tick remains in that direction.
	NextInitializedTick(ctx context.Context, tick int64, lte bool) (Tick, bool, error)
}

var (
	// ErrTickOrder is returned when tick input is not strictly sorted.
	ErrTickOrder = errors.New("ticks must be sorted by index without duplicates")
	// ErrTickSpacing is returned when a tick index is not a multiple of the
	// pool's tick spacing.
	ErrTickSpacing = errors.New("tick index not a multiple of tick spacing")
)

// TickList is an in-memory TickDataProvider over a sorted slice of
// initialized ticks, the usual shape for pool snapshots.
type TickList struct {
	ticks []Tick
}

// NewTickList builds a provider from initialized ticks. The input is copied
// and must be strictly sorted by index; every index must be a multiple of
// tickSpacing.
func NewTickList(ticks []Tick, tickSpacing int64) (*TickList, error) {
	if tickSpacing <= 0 {
		return nil, fmt.Errorf("tick spacing must be positive, got %d", tickSpacing)
	}
	copied := make([]Tick, len(ticks))
	copy(copied, ticks)
	for i, t := range copied {
		if t.Index%tickSpacing != 0 {
			return nil, fmt.Errorf("%w: index %d, spacing %d", ErrTickSpacing, t.Index, tickSpacing)
		}
		if i > 0 && copied[i-1].Index >= t.Index {
			return nil, fmt.Errorf("%w: index %d follows %d", ErrTickOrder, t.Index, copied[i-1].Index)
		}
	}
	return &TickList{ticks: copied}, nil
}

// Get returns the initialized tick at index, if any.
func (l *TickList) Get(index int64) (Tick, bool) {
	i := sort.Search(len(l.ticks), func(i int) bool {
		return l.ticks[i].Index >= index
	})
	if i < len(l.ticks) && l.ticks[i].Index == index {
		return l.ticks[i], true
	}
	return Tick{}, false
}

// NextInitializedTick finds the adjacent initialized tick via binary search.
// The Context is unused; an in-memory list never blocks.
func (l *TickList) NextInitializedTick(_ context.Context, tick int64, lte bool) (Tick, bool, error) {
	if len(l.ticks) == 0 {
		return Tick{}, false, nil
	}

	if lte {
		// largest initialized tick at or below the input
		i := sort.Search(len(l.ticks), func(i int) bool {
			return l.ticks[i].Index > tick
		})
		if i == 0 {
			return Tick{}, false, nil
		}
		return l.ticks[i-1], true, nil
	}

	// smallest initialized tick strictly above the input
	i := sort.Search(len(l.ticks), func(i int) bool {
		return l.ticks[i].Index > tick
	})
	if i >= len(l.ticks) {
		return Tick{}, false, nil
	}
	return l.ticks[i], true, nil
}
