// Package sqrtpricemath relates price movement to token amounts at a fixed
// liquidity. Every quotient carries an explicit rounding direction; callers
// choose the side that cannot undercount what they owe.
package sqrtpricemath

import (
	"errors"
	"math/big"
)

// Resolution is the number of fractional bits in the Q64.96 format.
const Resolution = uint(96)

var (
	// Q96 is 2^96, the Q64.96 representation of 1. MUST NOT be modified.
	Q96 = new(big.Int).Lsh(big.NewInt(1), Resolution)

	ErrLiquidityZero = errors.New("liquidity must be greater than zero")
	ErrSqrtPriceZero = errors.New("sqrt price must be greater than zero")
	// ErrPriceUnderflow signals that removing the requested amount would
	// push the sqrt price to or past zero.
	ErrPriceUnderflow = errors.New("sqrt price underflow")

	one = big.NewInt(1)
)

// mulDiv returns (a * b) / c truncated.
func mulDiv(a, b, c *big.Int) *big.Int {
	p := new(big.Int).Mul(a, b)
	return p.Div(p, c)
}

// mulDivRoundingUp returns ceil((a * b) / c).
func mulDivRoundingUp(a, b, c *big.Int) *big.Int {
	p := new(big.Int).Mul(a, b)
	q, rem := new(big.Int).QuoRem(p, c, new(big.Int))
	if rem.Sign() > 0 {
		q.Add(q, one)
	}
	return q
}

// divRoundingUp returns ceil(a / b).
func divRoundingUp(a, b *big.Int) *big.Int {
	q, rem := new(big.Int).QuoRem(a, b, new(big.Int))
	if rem.Sign() > 0 {
		q.Add(q, one)
	}
	return q
}

// Amount0Delta returns the token0 amount spanned by the sqrt-price interval
// [A, B] at the given liquidity: liquidity * (B - A) / (A * B), in Q64.96
// algebra. The bounds may be passed in either order.
func Amount0Delta(sqrtRatioAX96, sqrtRatioBX96, liquidity *big.Int, roundUp bool) (*big.Int, error) {
	if sqrtRatioAX96.Cmp(sqrtRatioBX96) > 0 {
		sqrtRatioAX96, sqrtRatioBX96 = sqrtRatioBX96, sqrtRatioAX96
	}
	if sqrtRatioAX96.Sign() <= 0 {
		return nil, ErrSqrtPriceZero
	}

	numerator1 := new(big.Int).Lsh(liquidity, Resolution)
	numerator2 := new(big.Int).Sub(sqrtRatioBX96, sqrtRatioAX96)

	if roundUp {
		return divRoundingUp(mulDivRoundingUp(numerator1, numerator2, sqrtRatioBX96), sqrtRatioAX96), nil
	}
	term := mulDiv(numerator1, numerator2, sqrtRatioBX96)
	return term.Div(term, sqrtRatioAX96), nil
}

// Amount1Delta returns the token1 amount spanned by the sqrt-price interval
// [A, B] at the given liquidity: liquidity * (B - A). The bounds may be
// passed in either order.
func Amount1Delta(sqrtRatioAX96, sqrtRatioBX96, liquidity *big.Int, roundUp bool) *big.Int {
	if sqrtRatioAX96.Cmp(sqrtRatioBX96) > 0 {
		sqrtRatioAX96, sqrtRatioBX96 = sqrtRatioBX96, sqrtRatioAX96
	}
	diff := new(big.Int).Sub(sqrtRatioBX96, sqrtRatioAX96)
	if roundUp {
		return mulDivRoundingUp(liquidity, diff, Q96)
	}
	return mulDiv(liquidity, diff, Q96)
}

// NextSqrtPriceFromInput returns the sqrt price after swapping amountIn into
// the pool, rounded so the pool never gives out too much.
func NextSqrtPriceFromInput(sqrtPX96, liquidity, amountIn *big.Int, zeroForOne bool) (*big.Int, error) {
	if sqrtPX96.Sign() <= 0 {
		return nil, ErrSqrtPriceZero
	}
	if liquidity.Sign() <= 0 {
		return nil, ErrLiquidityZero
	}
	if zeroForOne {
		return nextSqrtPriceFromAmount0RoundingUp(sqrtPX96, liquidity, amountIn, true)
	}
	return nextSqrtPriceFromAmount1RoundingDown(sqrtPX96, liquidity, amountIn, true)
}

// NextSqrtPriceFromOutput returns the sqrt price after the pool pays out
// amountOut, rounded in the pool's favor.
func NextSqrtPriceFromOutput(sqrtPX96, liquidity, amountOut *big.Int, zeroForOne bool) (*big.Int, error) {
	if sqrtPX96.Sign() <= 0 {
		return nil, ErrSqrtPriceZero
	}
	if liquidity.Sign() <= 0 {
		return nil, ErrLiquidityZero
	}
	if zeroForOne {
		return nextSqrtPriceFromAmount1RoundingDown(sqrtPX96, liquidity, amountOut, false)
	}
	return nextSqrtPriceFromAmount0RoundingUp(sqrtPX96, liquidity, amountOut, false)
}

func nextSqrtPriceFromAmount0RoundingUp(sqrtPX96, liquidity, amount *big.Int, add bool) (*big.Int, error) {
	if amount.Sign() == 0 {
		return new(big.Int).Set(sqrtPX96), nil
	}
	numerator1 := new(big.Int).Lsh(liquidity, Resolution)
	product := new(big.Int).Mul(amount, sqrtPX96)

	if add {
		denominator := new(big.Int).Add(numerator1, product)
		return mulDivRoundingUp(numerator1, sqrtPX96, denominator), nil
	}

	if numerator1.Cmp(product) <= 0 {
		return nil, ErrPriceUnderflow
	}
	denominator := new(big.Int).Sub(numerator1, product)
	return mulDivRoundingUp(numerator1, sqrtPX96, denominator), nil
}

func nextSqrtPriceFromAmount1RoundingDown(sqrtPX96, liquidity, amount *big.Int, add bool) (*big.Int, error) {
	if add {
		quotient := mulDiv(amount, Q96, liquidity)
		return quotient.Add(sqrtPX96, quotient), nil
	}
	quotient := mulDivRoundingUp(amount, Q96, liquidity)
	if sqrtPX96.Cmp(quotient) <= 0 {
		return nil, ErrPriceUnderflow
	}
	return quotient.Sub(sqrtPX96, quotient), nil
}
