package amm

import (
	"context"
	"errors"
	"fmt"
	"math/big"

	"github.com/defistate/clmm-sdk-go/amm/liquiditymath"
	"github.com/defistate/clmm-sdk-go/amm/swapmath"
	"github.com/defistate/clmm-sdk-go/amm/tickmath"
	"github.com/defistate/clmm-sdk-go/tokens"
)

var (
	// ErrTokenNotInvolved is returned when a swap names a currency the pool
	// does not hold.
	ErrTokenNotInvolved = errors.New("token not involved in pool")
	// ErrInsufficientLiquidity is returned when a swap runs out of
	// initialized ticks before the specified amount is satisfied. It is a
	// recoverable condition: route searches skip the pool and move on.
	ErrInsufficientLiquidity = errors.New("insufficient liquidity for swap")
	// ErrInvalidPriceLimit is returned when a sqrt price limit is on the
	// wrong side of the current price or outside the representable range.
	ErrInvalidPriceLimit = errors.New("invalid sqrt price limit")
	// ErrPriceTickMismatch is returned when a pool's sqrt price and tick
	// disagree.
	ErrPriceTickMismatch = errors.New("sqrt price and tick are inconsistent")
)

// Pool is an immutable snapshot of a single concentrated-liquidity pool.
// Token0 always sorts before Token1 by canonical address. A swap simulation
// never mutates the snapshot; it returns the pool state after the swap as a
// new Pool sharing the same tick data provider.
type Pool struct {
	Token0       *tokens.Token
	Token1       *tokens.Token
	Fee          FeeTier
	SqrtRatioX96 *big.Int
	Liquidity    *big.Int
	TickCurrent  int64
	TickData     TickDataProvider
}

// NewPool builds a pool snapshot, sorting the token pair into canonical
// order and checking that the sqrt price sits inside the current tick.
func NewPool(tokenA, tokenB *tokens.Token, fee FeeTier, sqrtRatioX96, liquidity *big.Int, tickCurrent int64, tickData TickDataProvider) (*Pool, error) {
	if !fee.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrInvalidFeeTier, uint64(fee))
	}
	sorted, err := tokenA.SortsBefore(tokenB)
	if err != nil {
		return nil, err
	}
	token0, token1 := tokenA, tokenB
	if !sorted {
		token0, token1 = tokenB, tokenA
	}

	ratioAtTick, err := tickmath.SqrtRatioAtTick(tickCurrent)
	if err != nil {
		return nil, err
	}
	if sqrtRatioX96.Cmp(ratioAtTick) < 0 {
		return nil, fmt.Errorf("%w: price below tick %d", ErrPriceTickMismatch, tickCurrent)
	}
	if tickCurrent < tickmath.MaxTick {
		ratioAtNext, err := tickmath.SqrtRatioAtTick(tickCurrent + 1)
		if err != nil {
			return nil, err
		}
		if sqrtRatioX96.Cmp(ratioAtNext) > 0 {
			return nil, fmt.Errorf("%w: price above tick %d", ErrPriceTickMismatch, tickCurrent+1)
		}
	}

	return &Pool{
		Token0:       token0,
		Token1:       token1,
		Fee:          fee,
		SqrtRatioX96: new(big.Int).Set(sqrtRatioX96),
		Liquidity:    new(big.Int).Set(liquidity),
		TickCurrent:  tickCurrent,
		TickData:     tickData,
	}, nil
}

// TickSpacing returns the tick granularity of the pool's fee tier.
func (p *Pool) TickSpacing() int64 {
	spacing, _ := p.Fee.TickSpacing() // fee validated at construction
	return spacing
}

// InvolvesToken reports whether the currency's wrapped form is one of the
// pool's tokens.
func (p *Pool) InvolvesToken(currency tokens.Currency) bool {
	wrapped := currency.Wrapped()
	return p.Token0.Equal(wrapped) || p.Token1.Equal(wrapped)
}

// Key identifies the pool by its token pair and fee tier. Two snapshots of
// the same on-chain pool share a key even at different block heights.
func (p *Pool) Key() string {
	return fmt.Sprintf("%s/%s/%d", p.Token0.Address().Hex(), p.Token1.Address().Hex(), uint64(p.Fee))
}

// Token0Price returns the instantaneous price of token0 in token1 terms:
// (sqrtRatioX96)^2 / 2^192, exact.
func (p *Pool) Token0Price() *tokens.Price {
	numerator := new(big.Int).Mul(p.SqrtRatioX96, p.SqrtRatioX96)
	denominator := new(big.Int).Lsh(big.NewInt(1), 192)
	return tokens.NewPrice(p.Token0, p.Token1, denominator, numerator)
}

// Token1Price returns the instantaneous price of token1 in token0 terms.
func (p *Pool) Token1Price() *tokens.Price {
	return p.Token0Price().Invert()
}

// PriceOf returns the instantaneous price of the given pool token in terms
// of the other one.
func (p *Pool) PriceOf(currency tokens.Currency) (*tokens.Price, error) {
	if !p.InvolvesToken(currency) {
		return nil, fmt.Errorf("%w: %s in %s", ErrTokenNotInvolved, currency.Symbol(), p.Key())
	}
	if p.Token0.Equal(currency.Wrapped()) {
		return p.Token0Price(), nil
	}
	return p.Token1Price(), nil
}

// otherToken returns the pool token opposite the given one.
func (p *Pool) otherToken(currency tokens.Currency) *tokens.Token {
	if p.Token0.Equal(currency.Wrapped()) {
		return p.Token1
	}
	return p.Token0
}

// GetOutputAmount simulates swapping inputAmount into the pool and returns
// the output amount together with the pool state after the swap. When
// sqrtPriceLimitX96 is non-nil and the price reaches it first, the returned
// output covers only the filled portion and the new pool state sits exactly
// at the limit; that partial fill is not an error. Running out of
// initialized ticks is ErrInsufficientLiquidity.
func (p *Pool) GetOutputAmount(ctx context.Context, inputAmount *tokens.CurrencyAmount, sqrtPriceLimitX96 *big.Int) (*tokens.CurrencyAmount, *Pool, error) {
	if !p.InvolvesToken(inputAmount.Currency()) {
		return nil, nil, fmt.Errorf("%w: input %s in %s", ErrTokenNotInvolved, inputAmount.Currency().Symbol(), p.Key())
	}
	zeroForOne := p.Token0.Equal(inputAmount.Currency().Wrapped())

	result, err := p.swap(ctx, zeroForOne, inputAmount.Quotient(), sqrtPriceLimitX96)
	if err != nil {
		return nil, nil, err
	}

	next, err := NewPool(p.Token0, p.Token1, p.Fee, result.sqrtRatioX96, result.liquidity, result.tick, p.TickData)
	if err != nil {
		return nil, nil, err
	}
	return tokens.FromRawAmount(p.otherToken(inputAmount.Currency()), result.amountCalculated), next, nil
}

// GetInputAmount simulates an exact-output swap for outputAmount and returns
// the input amount required together with the pool state after the swap.
func (p *Pool) GetInputAmount(ctx context.Context, outputAmount *tokens.CurrencyAmount, sqrtPriceLimitX96 *big.Int) (*tokens.CurrencyAmount, *Pool, error) {
	if !p.InvolvesToken(outputAmount.Currency()) {
		return nil, nil, fmt.Errorf("%w: output %s in %s", ErrTokenNotInvolved, outputAmount.Currency().Symbol(), p.Key())
	}
	// taking token1 out means swapping token0 in
	zeroForOne := p.Token1.Equal(outputAmount.Currency().Wrapped())

	specified := new(big.Int).Neg(outputAmount.Quotient())
	result, err := p.swap(ctx, zeroForOne, specified, sqrtPriceLimitX96)
	if err != nil {
		return nil, nil, err
	}

	next, err := NewPool(p.Token0, p.Token1, p.Fee, result.sqrtRatioX96, result.liquidity, result.tick, p.TickData)
	if err != nil {
		return nil, nil, err
	}
	return tokens.FromRawAmount(p.otherToken(outputAmount.Currency()), result.amountCalculated), next, nil
}

// swapResult is the end state of a simulation.
type swapResult struct {
	amountCalculated *big.Int
	sqrtRatioX96     *big.Int
	liquidity        *big.Int
	tick             int64
}

// swap runs the tick-crossing loop. amountSpecified is positive for exact
// input and negative for exact output, in the convention of the on-chain
// swap function this mirrors.
func (p *Pool) swap(ctx context.Context, zeroForOne bool, amountSpecified, sqrtPriceLimitX96 *big.Int) (swapResult, error) {
	if sqrtPriceLimitX96 == nil {
		if zeroForOne {
			sqrtPriceLimitX96 = new(big.Int).Add(tickmath.MinSqrtRatio, big.NewInt(1))
		} else {
			sqrtPriceLimitX96 = new(big.Int).Sub(tickmath.MaxSqrtRatio, big.NewInt(1))
		}
	}
	if zeroForOne {
		if sqrtPriceLimitX96.Cmp(tickmath.MinSqrtRatio) <= 0 || sqrtPriceLimitX96.Cmp(p.SqrtRatioX96) > 0 {
			return swapResult{}, fmt.Errorf("%w: %s selling token0 at %s", ErrInvalidPriceLimit, sqrtPriceLimitX96, p.SqrtRatioX96)
		}
	} else {
		if sqrtPriceLimitX96.Cmp(tickmath.MaxSqrtRatio) >= 0 || sqrtPriceLimitX96.Cmp(p.SqrtRatioX96) < 0 {
			return swapResult{}, fmt.Errorf("%w: %s selling token1 at %s", ErrInvalidPriceLimit, sqrtPriceLimitX96, p.SqrtRatioX96)
		}
	}

	exactInput := amountSpecified.Sign() >= 0

	state := swapResult{
		amountCalculated: new(big.Int),
		sqrtRatioX96:     new(big.Int).Set(p.SqrtRatioX96),
		liquidity:        new(big.Int).Set(p.Liquidity),
		tick:             p.TickCurrent,
	}
	remaining := new(big.Int).Set(amountSpecified)

	for remaining.Sign() != 0 && state.sqrtRatioX96.Cmp(sqrtPriceLimitX96) != 0 {
		if err := ctx.Err(); err != nil {
			return swapResult{}, err
		}

		nextTick, initialized, err := p.TickData.NextInitializedTick(ctx, state.tick, zeroForOne)
		if err != nil {
			return swapResult{}, err
		}
		if !initialized {
			// the initialized tick range is exhausted with amount left over
			return swapResult{}, fmt.Errorf("%w: %s remaining in %s", ErrInsufficientLiquidity, remaining, p.Key())
		}
		if nextTick.Index < tickmath.MinTick {
			nextTick.Index = tickmath.MinTick
		} else if nextTick.Index > tickmath.MaxTick {
			nextTick.Index = tickmath.MaxTick
		}

		sqrtRatioNextTick, err := tickmath.SqrtRatioAtTick(nextTick.Index)
		if err != nil {
			return swapResult{}, err
		}

		target := sqrtRatioNextTick
		if (zeroForOne && sqrtRatioNextTick.Cmp(sqrtPriceLimitX96) < 0) ||
			(!zeroForOne && sqrtRatioNextTick.Cmp(sqrtPriceLimitX96) > 0) {
			target = sqrtPriceLimitX96
		}

		sqrtRatioStart := state.sqrtRatioX96
		step, err := swapmath.ComputeSwapStep(state.sqrtRatioX96, target, state.liquidity, remaining, uint64(p.Fee))
		if err != nil {
			return swapResult{}, err
		}
		state.sqrtRatioX96 = step.SqrtRatioNextX96

		if exactInput {
			consumed := new(big.Int).Add(step.AmountIn, step.FeeAmount)
			remaining.Sub(remaining, consumed)
			state.amountCalculated.Add(state.amountCalculated, step.AmountOut)
		} else {
			remaining.Add(remaining, step.AmountOut)
			state.amountCalculated.Add(state.amountCalculated, new(big.Int).Add(step.AmountIn, step.FeeAmount))
		}

		switch {
		case state.sqrtRatioX96.Cmp(sqrtRatioNextTick) == 0:
			// reached the boundary: cross the tick, picking up its net liquidity
			net := new(big.Int).Set(nextTick.LiquidityNet)
			if zeroForOne {
				net.Neg(net)
			}
			state.liquidity, err = liquiditymath.AddDelta(state.liquidity, net)
			if err != nil {
				return swapResult{}, fmt.Errorf("crossing tick %d in %s: %w", nextTick.Index, p.Key(), err)
			}
			if zeroForOne {
				state.tick = nextTick.Index - 1
			} else {
				state.tick = nextTick.Index
			}
		case state.sqrtRatioX96.Cmp(sqrtRatioStart) != 0:
			state.tick, err = tickmath.TickAtSqrtRatio(state.sqrtRatioX96)
			if err != nil {
				return swapResult{}, err
			}
		}
	}

	return state, nil
}

// MockPool builds a synthetic pool at a given price with no liquidity, used
// to preview a hypothetical price when no real pool exists yet.
func MockPool(tokenA, tokenB *tokens.Token, fee FeeTier, sqrtRatioX96 *big.Int) (*Pool, error) {
	tick, err := tickmath.TickAtSqrtRatio(sqrtRatioX96)
	if err != nil {
		return nil, err
	}
	empty, err := NewTickList(nil, 1)
	if err != nil {
		return nil, err
	}
	return NewPool(tokenA, tokenB, fee, sqrtRatioX96, new(big.Int), tick, empty)
}
