package amm

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/defistate/clmm-sdk-go/fractions"
)

func TestNewRoute(t *testing.T) {
	t0 := testToken(t, 0x01, 18, "TK0")
	t1 := testToken(t, 0x02, 18, "TK1")
	t2 := testToken(t, 0x03, 18, "TK2")
	liquidity := fromString(t, "1000000000000000000")
	pool01 := onePool(t, t0, t1, liquidity)
	pool12 := onePool(t, t1, t2, liquidity)

	t.Run("single hop", func(t *testing.T) {
		route, err := NewRoute([]*Pool{pool01}, t0, t1)
		require.NoError(t, err)
		require.Len(t, route.TokenPath, 2)
		assert.True(t, route.TokenPath[0].Equal(t0))
		assert.True(t, route.TokenPath[1].Equal(t1))
		assert.Equal(t, uint64(1), route.ChainID())
	})

	t.Run("multi hop records the token path", func(t *testing.T) {
		route, err := NewRoute([]*Pool{pool01, pool12}, t0, t2)
		require.NoError(t, err)
		require.Len(t, route.TokenPath, 3)
		assert.True(t, route.TokenPath[1].Equal(t1))
	})

	t.Run("rejects empty pool list", func(t *testing.T) {
		_, err := NewRoute(nil, t0, t1)
		require.ErrorIs(t, err, ErrInvalidRoute)
	})

	t.Run("rejects input missing from the first pool", func(t *testing.T) {
		_, err := NewRoute([]*Pool{pool12}, t0, t2)
		require.ErrorIs(t, err, ErrInvalidRoute)
	})

	t.Run("rejects disconnected pools", func(t *testing.T) {
		t3 := testToken(t, 0x04, 18, "TK3")
		t4 := testToken(t, 0x05, 18, "TK4")
		pool34 := onePool(t, t3, t4, liquidity)
		_, err := NewRoute([]*Pool{pool01, pool34}, t0, t4)
		require.ErrorIs(t, err, ErrInvalidRoute)
	})

	t.Run("rejects mismatched output", func(t *testing.T) {
		_, err := NewRoute([]*Pool{pool01}, t0, t2)
		require.ErrorIs(t, err, ErrInvalidRoute)
	})
}

func TestRouteMidPrice(t *testing.T) {
	t.Run("unit pools multiply to one", func(t *testing.T) {
		t0 := testToken(t, 0x01, 18, "TK0")
		t1 := testToken(t, 0x02, 18, "TK1")
		t2 := testToken(t, 0x03, 18, "TK2")
		liquidity := fromString(t, "1000000000000000000")
		route, err := NewRoute([]*Pool{onePool(t, t0, t1, liquidity), onePool(t, t1, t2, liquidity)}, t0, t2)
		require.NoError(t, err)

		mid, err := route.MidPrice()
		require.NoError(t, err)
		assert.Equal(t, "1", mid.ToSignificant(5, fractions.RoundHalfUp))
		assert.True(t, mid.Base().Equal(t0))
		assert.True(t, mid.QuoteCurrency().Equal(t2))
	})

	t.Run("oriented in the direction of travel", func(t *testing.T) {
		pool, weth, usdc := usdcPool(t)

		forward, err := NewRoute([]*Pool{pool}, weth, usdc)
		require.NoError(t, err)
		mid, err := forward.MidPrice()
		require.NoError(t, err)
		assert.Equal(t, "2000", mid.ToSignificant(5, fractions.RoundHalfUp))

		backward, err := NewRoute([]*Pool{pool}, usdc, weth)
		require.NoError(t, err)
		mid, err = backward.MidPrice()
		require.NoError(t, err)
		assert.Equal(t, "0.0005", mid.ToSignificant(5, fractions.RoundHalfUp))
	})

	t.Run("chains a priced pool with a unit pool", func(t *testing.T) {
		pool, weth, usdc := usdcPool(t)
		usdt := testToken(t, 0x04, 6, "USDT")
		unit := onePool(t, usdc, usdt, fromString(t, "1000000000000000000"))

		route, err := NewRoute([]*Pool{pool, unit}, weth, usdt)
		require.NoError(t, err)
		mid, err := route.MidPrice()
		require.NoError(t, err)
		assert.Equal(t, "2000", mid.ToSignificant(5, fractions.RoundHalfUp))
	})
}
