// Package swapmath computes a single swap step within one tick's liquidity.
// Fee accounting matches the on-chain SwapMath library exactly: fees are in
// pips (hundredths of a basis point, denominator 1e6) and are taken from the
// input amount before the price-movement calculation.
package swapmath

import (
	"math/big"

	"github.com/defistate/clmm-sdk-go/amm/sqrtpricemath"
)

// FeeDenominator is 100% expressed in pips.
const FeeDenominator = 1_000_000

var feeDenominator = big.NewInt(FeeDenominator)

// Step is the outcome of swapping as far as possible toward a target price
// within the current liquidity. A positive amountRemaining means exact
// input; negative means exact output.
type Step struct {
	SqrtRatioNextX96 *big.Int
	AmountIn         *big.Int
	AmountOut        *big.Int
	FeeAmount        *big.Int
}

// ComputeSwapStep swaps within a single tick range, stopping at the target
// price or when amountRemaining is exhausted, whichever comes first.
func ComputeSwapStep(sqrtRatioCurrentX96, sqrtRatioTargetX96, liquidity, amountRemaining *big.Int, feePips uint64) (Step, error) {
	zeroForOne := sqrtRatioCurrentX96.Cmp(sqrtRatioTargetX96) >= 0
	exactIn := amountRemaining.Sign() >= 0

	step := Step{
		AmountIn:  new(big.Int),
		AmountOut: new(big.Int),
		FeeAmount: new(big.Int),
	}
	feeComplement := new(big.Int).Sub(feeDenominator, new(big.Int).SetUint64(feePips))

	var err error
	if exactIn {
		remainingLessFee := new(big.Int).Mul(amountRemaining, feeComplement)
		remainingLessFee.Div(remainingLessFee, feeDenominator)

		if zeroForOne {
			step.AmountIn, err = sqrtpricemath.Amount0Delta(sqrtRatioTargetX96, sqrtRatioCurrentX96, liquidity, true)
			if err != nil {
				return Step{}, err
			}
		} else {
			step.AmountIn = sqrtpricemath.Amount1Delta(sqrtRatioCurrentX96, sqrtRatioTargetX96, liquidity, true)
		}

		if remainingLessFee.Cmp(step.AmountIn) >= 0 {
			step.SqrtRatioNextX96 = new(big.Int).Set(sqrtRatioTargetX96)
		} else {
			step.SqrtRatioNextX96, err = sqrtpricemath.NextSqrtPriceFromInput(sqrtRatioCurrentX96, liquidity, remainingLessFee, zeroForOne)
			if err != nil {
				return Step{}, err
			}
		}
	} else {
		remainingAbs := new(big.Int).Neg(amountRemaining)

		if zeroForOne {
			step.AmountOut = sqrtpricemath.Amount1Delta(sqrtRatioTargetX96, sqrtRatioCurrentX96, liquidity, false)
		} else {
			step.AmountOut, err = sqrtpricemath.Amount0Delta(sqrtRatioCurrentX96, sqrtRatioTargetX96, liquidity, false)
			if err != nil {
				return Step{}, err
			}
		}

		if remainingAbs.Cmp(step.AmountOut) >= 0 {
			step.SqrtRatioNextX96 = new(big.Int).Set(sqrtRatioTargetX96)
		} else {
			step.SqrtRatioNextX96, err = sqrtpricemath.NextSqrtPriceFromOutput(sqrtRatioCurrentX96, liquidity, remainingAbs, zeroForOne)
			if err != nil {
				return Step{}, err
			}
		}
	}

	reachedTarget := sqrtRatioTargetX96.Cmp(step.SqrtRatioNextX96) == 0

	// recompute both legs against the price actually reached
	if zeroForOne {
		if !(reachedTarget && exactIn) {
			step.AmountIn, err = sqrtpricemath.Amount0Delta(step.SqrtRatioNextX96, sqrtRatioCurrentX96, liquidity, true)
			if err != nil {
				return Step{}, err
			}
		}
		if !(reachedTarget && !exactIn) {
			step.AmountOut = sqrtpricemath.Amount1Delta(step.SqrtRatioNextX96, sqrtRatioCurrentX96, liquidity, false)
		}
	} else {
		if !(reachedTarget && exactIn) {
			step.AmountIn = sqrtpricemath.Amount1Delta(sqrtRatioCurrentX96, step.SqrtRatioNextX96, liquidity, true)
		}
		if !(reachedTarget && !exactIn) {
			step.AmountOut, err = sqrtpricemath.Amount0Delta(sqrtRatioCurrentX96, step.SqrtRatioNextX96, liquidity, false)
			if err != nil {
				return Step{}, err
			}
		}
	}

	if !exactIn {
		remainingAbs := new(big.Int).Neg(amountRemaining)
		if step.AmountOut.Cmp(remainingAbs) > 0 {
			step.AmountOut = remainingAbs
		}
	}

	if exactIn && !reachedTarget {
		// the target was not reached, so whatever input is left over is fee
		step.FeeAmount = new(big.Int).Sub(amountRemaining, step.AmountIn)
	} else {
		p := new(big.Int).Mul(step.AmountIn, new(big.Int).SetUint64(feePips))
		q, rem := new(big.Int).QuoRem(p, feeComplement, new(big.Int))
		if rem.Sign() > 0 {
			q.Add(q, big.NewInt(1))
		}
		step.FeeAmount = q
	}

	return step, nil
}
