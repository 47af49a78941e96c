package amm

import (
	"errors"
	"fmt"
	"math/big"

	"github.com/defistate/clmm-sdk-go/amm/liquiditymath"
	"github.com/defistate/clmm-sdk-go/amm/sqrtpricemath"
	"github.com/defistate/clmm-sdk-go/amm/tickmath"
	"github.com/defistate/clmm-sdk-go/tokens"
)

var (
	// ErrInvalidTickRange is returned for a malformed position range.
	ErrInvalidTickRange = errors.New("invalid tick range")

	maxUint256 = new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), 256), big.NewInt(1))
)

// Position is a liquidity position over a tick range of a pool. It is a
// derived view: it is rebuilt from authoritative on-chain data whenever
// needed and never mutated. The token amounts backing the liquidity are
// computed once at construction.
//
// Withdrawable amounts (Amount0/Amount1) round down and mint obligations
// (MintAmounts) round up, so the holder can never claim more, nor deposit
// less, than the liquidity is worth.
type Position struct {
	Pool      *Pool
	TickLower int64
	TickUpper int64
	Liquidity *big.Int

	amount0 *tokens.CurrencyAmount
	amount1 *tokens.CurrencyAmount
	mint0   *big.Int
	mint1   *big.Int
}

// NewPosition builds a position and derives its token amounts. The range
// must be ordered, within the global tick bounds, and aligned to the pool's
// tick spacing.
func NewPosition(pool *Pool, tickLower, tickUpper int64, liquidity *big.Int) (*Position, error) {
	if tickLower >= tickUpper {
		return nil, fmt.Errorf("%w: lower %d >= upper %d", ErrInvalidTickRange, tickLower, tickUpper)
	}
	if tickLower < tickmath.MinTick || tickUpper > tickmath.MaxTick {
		return nil, fmt.Errorf("%w: [%d, %d] outside [%d, %d]", ErrInvalidTickRange, tickLower, tickUpper, tickmath.MinTick, tickmath.MaxTick)
	}
	spacing := pool.TickSpacing()
	if tickLower%spacing != 0 || tickUpper%spacing != 0 {
		return nil, fmt.Errorf("%w: [%d, %d] not aligned to spacing %d", ErrInvalidTickRange, tickLower, tickUpper, spacing)
	}

	p := &Position{
		Pool:      pool,
		TickLower: tickLower,
		TickUpper: tickUpper,
		Liquidity: new(big.Int).Set(liquidity),
	}
	if err := p.deriveAmounts(); err != nil {
		return nil, err
	}
	return p, nil
}

// deriveAmounts fills in the withdrawable (floor) and mint (ceil) amounts
// from the three sqrt prices and the side of the range the pool sits on.
func (p *Position) deriveAmounts() error {
	sqrtLower, err := tickmath.SqrtRatioAtTick(p.TickLower)
	if err != nil {
		return err
	}
	sqrtUpper, err := tickmath.SqrtRatioAtTick(p.TickUpper)
	if err != nil {
		return err
	}

	amount0Floor, amount1Floor := new(big.Int), new(big.Int)
	amount0Ceil, amount1Ceil := new(big.Int), new(big.Int)

	switch {
	case p.Pool.TickCurrent < p.TickLower:
		// price below the range: position is entirely token0
		amount0Floor, err = sqrtpricemath.Amount0Delta(sqrtLower, sqrtUpper, p.Liquidity, false)
		if err != nil {
			return err
		}
		amount0Ceil, err = sqrtpricemath.Amount0Delta(sqrtLower, sqrtUpper, p.Liquidity, true)
		if err != nil {
			return err
		}
	case p.Pool.TickCurrent < p.TickUpper:
		// price inside the range: both tokens back the liquidity
		amount0Floor, err = sqrtpricemath.Amount0Delta(p.Pool.SqrtRatioX96, sqrtUpper, p.Liquidity, false)
		if err != nil {
			return err
		}
		amount0Ceil, err = sqrtpricemath.Amount0Delta(p.Pool.SqrtRatioX96, sqrtUpper, p.Liquidity, true)
		if err != nil {
			return err
		}
		amount1Floor = sqrtpricemath.Amount1Delta(sqrtLower, p.Pool.SqrtRatioX96, p.Liquidity, false)
		amount1Ceil = sqrtpricemath.Amount1Delta(sqrtLower, p.Pool.SqrtRatioX96, p.Liquidity, true)
	default:
		// price above the range: position is entirely token1
		amount1Floor = sqrtpricemath.Amount1Delta(sqrtLower, sqrtUpper, p.Liquidity, false)
		amount1Ceil = sqrtpricemath.Amount1Delta(sqrtLower, sqrtUpper, p.Liquidity, true)
	}

	p.amount0 = tokens.FromRawAmount(p.Pool.Token0, amount0Floor)
	p.amount1 = tokens.FromRawAmount(p.Pool.Token1, amount1Floor)
	p.mint0 = amount0Ceil
	p.mint1 = amount1Ceil
	return nil
}

// Amount0 is the token0 the position is worth at the current pool price,
// rounded down.
func (p *Position) Amount0() *tokens.CurrencyAmount { return p.amount0 }

// Amount1 is the token1 the position is worth at the current pool price,
// rounded down.
func (p *Position) Amount1() *tokens.CurrencyAmount { return p.amount1 }

// MintAmounts returns the token amounts owed to the pool to mint this
// position's liquidity, rounded up.
func (p *Position) MintAmounts() (amount0, amount1 *big.Int) {
	return new(big.Int).Set(p.mint0), new(big.Int).Set(p.mint1)
}

// Token0PriceLower is the price of token0 at the lower bound of the range.
func (p *Position) Token0PriceLower() (*tokens.Price, error) {
	return priceAtTick(p.Pool.Token0, p.Pool.Token1, p.TickLower)
}

// Token0PriceUpper is the price of token0 at the upper bound of the range.
func (p *Position) Token0PriceUpper() (*tokens.Price, error) {
	return priceAtTick(p.Pool.Token0, p.Pool.Token1, p.TickUpper)
}

func priceAtTick(token0, token1 *tokens.Token, tick int64) (*tokens.Price, error) {
	sqrt, err := tickmath.SqrtRatioAtTick(tick)
	if err != nil {
		return nil, err
	}
	numerator := new(big.Int).Mul(sqrt, sqrt)
	denominator := new(big.Int).Lsh(big.NewInt(1), 192)
	return tokens.NewPrice(token0, token1, denominator, numerator), nil
}

// FromAmounts computes the largest liquidity the given token amounts can
// fund over the range and builds the position for it. The derived amounts
// never exceed the requested ones.
func FromAmounts(pool *Pool, tickLower, tickUpper int64, amount0, amount1 *big.Int, useFullPrecision bool) (*Position, error) {
	sqrtLower, err := tickmath.SqrtRatioAtTick(tickLower)
	if err != nil {
		return nil, err
	}
	sqrtUpper, err := tickmath.SqrtRatioAtTick(tickUpper)
	if err != nil {
		return nil, err
	}
	liquidity := liquiditymath.MaxLiquidityForAmounts(pool.SqrtRatioX96, sqrtLower, sqrtUpper, amount0, amount1, useFullPrecision)
	return NewPosition(pool, tickLower, tickUpper, liquidity)
}

// FromAmount0 builds the largest position amount0 alone can fund.
func FromAmount0(pool *Pool, tickLower, tickUpper int64, amount0 *big.Int, useFullPrecision bool) (*Position, error) {
	return FromAmounts(pool, tickLower, tickUpper, amount0, maxUint256, useFullPrecision)
}

// FromAmount1 builds the largest position amount1 alone can fund. The
// amount1 formula has no precision-losing variant, so there is no flag.
func FromAmount1(pool *Pool, tickLower, tickUpper int64, amount1 *big.Int) (*Position, error) {
	return FromAmounts(pool, tickLower, tickUpper, maxUint256, amount1, true)
}
