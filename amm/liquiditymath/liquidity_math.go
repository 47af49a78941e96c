// Package liquiditymath converts between liquidity and token amounts for a
// price range, and applies signed liquidity deltas under uint128 bounds.
package liquiditymath

import (
	"errors"
	"math/big"

	"github.com/defistate/clmm-sdk-go/amm/sqrtpricemath"
)

var (
	maxUint128 = new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), 128), big.NewInt(1))

	ErrLiquidityOverflow  = errors.New("liquidity overflow")
	ErrLiquidityUnderflow = errors.New("liquidity underflow")
)

// AddDelta applies a signed liquidity delta to an unsigned liquidity value.
// The result must stay within uint128 bounds.
func AddDelta(x, y *big.Int) (*big.Int, error) {
	z := new(big.Int).Add(x, y)
	if z.Sign() < 0 {
		return nil, ErrLiquidityUnderflow
	}
	if z.Cmp(maxUint128) > 0 {
		return nil, ErrLiquidityOverflow
	}
	return z, nil
}

// MaxLiquidityForAmount0 returns the most liquidity amount0 can fund across
// the sqrt-price interval [A, B]. The precise form keeps the full 256-bit
// intermediate product; the imprecise form shifts early the way the legacy
// periphery did, losing up to a few wei of liquidity.
func MaxLiquidityForAmount0(sqrtRatioAX96, sqrtRatioBX96, amount0 *big.Int, fullPrecision bool) *big.Int {
	if sqrtRatioAX96.Cmp(sqrtRatioBX96) > 0 {
		sqrtRatioAX96, sqrtRatioBX96 = sqrtRatioBX96, sqrtRatioAX96
	}
	diff := new(big.Int).Sub(sqrtRatioBX96, sqrtRatioAX96)

	if fullPrecision {
		numerator := new(big.Int).Mul(amount0, sqrtRatioAX96)
		numerator.Mul(numerator, sqrtRatioBX96)
		denominator := new(big.Int).Mul(sqrtpricemath.Q96, diff)
		return numerator.Div(numerator, denominator)
	}

	intermediate := new(big.Int).Mul(sqrtRatioAX96, sqrtRatioBX96)
	intermediate.Div(intermediate, sqrtpricemath.Q96)
	result := new(big.Int).Mul(amount0, intermediate)
	return result.Div(result, diff)
}

// MaxLiquidityForAmount1 returns the most liquidity amount1 can fund across
// the sqrt-price interval [A, B].
func MaxLiquidityForAmount1(sqrtRatioAX96, sqrtRatioBX96, amount1 *big.Int) *big.Int {
	if sqrtRatioAX96.Cmp(sqrtRatioBX96) > 0 {
		sqrtRatioAX96, sqrtRatioBX96 = sqrtRatioBX96, sqrtRatioAX96
	}
	diff := new(big.Int).Sub(sqrtRatioBX96, sqrtRatioAX96)
	result := new(big.Int).Mul(amount1, sqrtpricemath.Q96)
	return result.Div(result, diff)
}

// MaxLiquidityForAmounts returns the most liquidity the pair of amounts can
// fund given the current price and the range bounds. Outside the range only
// one token contributes; inside, the binding side wins.
func MaxLiquidityForAmounts(sqrtRatioCurrentX96, sqrtRatioAX96, sqrtRatioBX96, amount0, amount1 *big.Int, fullPrecision bool) *big.Int {
	if sqrtRatioAX96.Cmp(sqrtRatioBX96) > 0 {
		sqrtRatioAX96, sqrtRatioBX96 = sqrtRatioBX96, sqrtRatioAX96
	}

	switch {
	case sqrtRatioCurrentX96.Cmp(sqrtRatioAX96) <= 0:
		return MaxLiquidityForAmount0(sqrtRatioAX96, sqrtRatioBX96, amount0, fullPrecision)
	case sqrtRatioCurrentX96.Cmp(sqrtRatioBX96) < 0:
		liquidity0 := MaxLiquidityForAmount0(sqrtRatioCurrentX96, sqrtRatioBX96, amount0, fullPrecision)
		liquidity1 := MaxLiquidityForAmount1(sqrtRatioAX96, sqrtRatioCurrentX96, amount1)
		if liquidity0.Cmp(liquidity1) < 0 {
			return liquidity0
		}
		return liquidity1
	default:
		return MaxLiquidityForAmount1(sqrtRatioAX96, sqrtRatioBX96, amount1)
	}
}
