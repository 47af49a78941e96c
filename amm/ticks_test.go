package amm

import (
	"context"
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func tick(index int64, net int64) Tick {
	n := big.NewInt(net)
	gross := new(big.Int).Abs(n)
	return Tick{Index: index, LiquidityGross: gross, LiquidityNet: n}
}

func TestNewTickList(t *testing.T) {
	t.Run("rejects non-positive spacing", func(t *testing.T) {
		_, err := NewTickList(nil, 0)
		require.Error(t, err)
	})

	t.Run("rejects misaligned index", func(t *testing.T) {
		_, err := NewTickList([]Tick{tick(-30, 100)}, 60)
		require.ErrorIs(t, err, ErrTickSpacing)
	})

	t.Run("rejects unsorted input", func(t *testing.T) {
		_, err := NewTickList([]Tick{tick(60, 100), tick(-60, 100)}, 60)
		require.ErrorIs(t, err, ErrTickOrder)
	})

	t.Run("rejects duplicate index", func(t *testing.T) {
		_, err := NewTickList([]Tick{tick(60, 100), tick(60, -100)}, 60)
		require.ErrorIs(t, err, ErrTickOrder)
	})

	t.Run("copies the input", func(t *testing.T) {
		ticks := []Tick{tick(-60, 100), tick(60, -100)}
		list, err := NewTickList(ticks, 60)
		require.NoError(t, err)

		ticks[0] = tick(0, 1)
		got, ok := list.Get(-60)
		require.True(t, ok)
		assert.Equal(t, int64(-60), got.Index)
	})
}

func TestTickListGet(t *testing.T) {
	list, err := NewTickList([]Tick{tick(-120, 50), tick(0, 25), tick(120, -75)}, 60)
	require.NoError(t, err)

	got, ok := list.Get(0)
	require.True(t, ok)
	assert.Equal(t, big.NewInt(25), got.LiquidityNet)

	_, ok = list.Get(60)
	assert.False(t, ok)
}

func TestNextInitializedTick(t *testing.T) {
	ctx := context.Background()
	list, err := NewTickList([]Tick{tick(-120, 50), tick(0, 25), tick(120, -75)}, 60)
	require.NoError(t, err)

	t.Run("lte includes the tick itself", func(t *testing.T) {
		got, ok, err := list.NextInitializedTick(ctx, 0, true)
		require.NoError(t, err)
		require.True(t, ok)
		assert.Equal(t, int64(0), got.Index)
	})

	t.Run("lte from between ticks", func(t *testing.T) {
		got, ok, err := list.NextInitializedTick(ctx, 100, true)
		require.NoError(t, err)
		require.True(t, ok)
		assert.Equal(t, int64(0), got.Index)
	})

	t.Run("lte exhausted below the smallest", func(t *testing.T) {
		_, ok, err := list.NextInitializedTick(ctx, -121, true)
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("gt excludes the tick itself", func(t *testing.T) {
		got, ok, err := list.NextInitializedTick(ctx, 0, false)
		require.NoError(t, err)
		require.True(t, ok)
		assert.Equal(t, int64(120), got.Index)
	})

	t.Run("gt exhausted at the largest", func(t *testing.T) {
		_, ok, err := list.NextInitializedTick(ctx, 120, false)
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("empty list", func(t *testing.T) {
		empty, err := NewTickList(nil, 1)
		require.NoError(t, err)
		_, ok, err := empty.NextInitializedTick(ctx, 0, true)
		require.NoError(t, err)
		assert.False(t, ok)
	})
}
