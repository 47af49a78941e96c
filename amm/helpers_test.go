package amm

import (
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/require"

	"github.com/defistate/clmm-sdk-go/tokens"
)

func fromString(t *testing.T, s string) *big.Int {
	t.Helper()
	v, ok := new(big.Int).SetString(s, 10)
	require.True(t, ok, "parse %q", s)
	return v
}

func testToken(t *testing.T, lastByte byte, decimals uint8, symbol string) *tokens.Token {
	t.Helper()
	addr := common.Address{19: lastByte}
	token, err := tokens.NewToken(1, addr, common.Address{}, decimals, symbol, symbol)
	require.NoError(t, err)
	return token
}

// fullRangeTicks places the whole liquidity between the outermost usable
// ticks for the given spacing.
func fullRangeTicks(t *testing.T, spacing int64, liquidity *big.Int) *TickList {
	t.Helper()
	bound := (887272 / spacing) * spacing
	list, err := NewTickList([]Tick{
		{Index: -bound, LiquidityGross: liquidity, LiquidityNet: liquidity},
		{Index: bound, LiquidityGross: liquidity, LiquidityNet: new(big.Int).Neg(liquidity)},
	}, spacing)
	require.NoError(t, err)
	return list
}

// onePool builds a fee-3000 pool at price 1 with full-range liquidity.
func onePool(t *testing.T, tokenA, tokenB *tokens.Token, liquidity *big.Int) *Pool {
	t.Helper()
	price := new(big.Int).Lsh(big.NewInt(1), 96)
	pool, err := NewPool(tokenA, tokenB, FeeMedium, price, liquidity, 0, fullRangeTicks(t, 60, liquidity))
	require.NoError(t, err)
	return pool
}
