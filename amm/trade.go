package amm

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"sort"

	"github.com/defistate/clmm-sdk-go/fractions"
	"github.com/defistate/clmm-sdk-go/tokens"
)

// TradeType distinguishes trades quoted from a fixed input from trades
// quoted toward a fixed output.
type TradeType int

const (
	ExactInput TradeType = iota
	ExactOutput
)

func (t TradeType) String() string {
	switch t {
	case ExactInput:
		return "exact_input"
	case ExactOutput:
		return "exact_output"
	default:
		return fmt.Sprintf("trade_type(%d)", int(t))
	}
}

var (
	ErrInvalidSlippage = errors.New("slippage tolerance must not be negative")
	ErrInvalidTrade    = errors.New("invalid trade")
	ErrNoRoutes        = errors.New("trade has no routes")
)

// Swap is a single route together with the amounts that flow through it.
type Swap struct {
	Route        *Route
	InputAmount  *tokens.CurrencyAmount
	OutputAmount *tokens.CurrencyAmount
}

// Trade is an executable plan across one or more routes. All derived
// figures are computed at construction; a Trade never mutates.
type Trade struct {
	Swaps     []*Swap
	TradeType TradeType

	inputAmount    *tokens.CurrencyAmount
	outputAmount   *tokens.CurrencyAmount
	executionPrice *tokens.Price
	priceImpact    *fractions.Percent
}

// InputAmount is the total amount paid in across all routes.
func (t *Trade) InputAmount() *tokens.CurrencyAmount { return t.inputAmount }

// OutputAmount is the total amount received across all routes.
func (t *Trade) OutputAmount() *tokens.CurrencyAmount { return t.outputAmount }

// ExecutionPrice is the realized output-per-input price of the whole trade.
func (t *Trade) ExecutionPrice() *tokens.Price { return t.executionPrice }

// PriceImpact is the drop of the realized price below the routes'
// mid prices, expressed as a percent of the mid-price output.
func (t *Trade) PriceImpact() *fractions.Percent { return t.priceImpact }

// newTrade wires up a trade from validated swaps and computes the
// aggregate amounts, execution price and price impact eagerly.
func newTrade(swaps []*Swap, tradeType TradeType) (*Trade, error) {
	if len(swaps) == 0 {
		return nil, ErrNoRoutes
	}

	inputCurrency := swaps[0].Route.Input
	outputCurrency := swaps[0].Route.Output
	for _, s := range swaps {
		if !s.Route.Input.Equal(inputCurrency) {
			return nil, fmt.Errorf("%w: routes have mixed input currencies", ErrInvalidTrade)
		}
		if !s.Route.Output.Equal(outputCurrency) {
			return nil, fmt.Errorf("%w: routes have mixed output currencies", ErrInvalidTrade)
		}
	}

	// a pool appearing twice would be consumed twice at the same state
	seen := make(map[string]struct{})
	for _, s := range swaps {
		for _, pool := range s.Route.Pools {
			key := pool.Key()
			if _, ok := seen[key]; ok {
				return nil, fmt.Errorf("%w: pool %s appears in more than one route", ErrInvalidTrade, key)
			}
			seen[key] = struct{}{}
		}
	}

	totalIn := tokens.FromRawAmount(inputCurrency, new(big.Int))
	totalOut := tokens.FromRawAmount(outputCurrency, new(big.Int))
	var err error
	for _, s := range swaps {
		if totalIn, err = totalIn.Add(s.InputAmount); err != nil {
			return nil, err
		}
		if totalOut, err = totalOut.Add(s.OutputAmount); err != nil {
			return nil, err
		}
	}

	execPrice := tokens.NewPrice(inputCurrency, outputCurrency, totalIn.Quotient(), totalOut.Quotient())

	impact, err := priceImpact(swaps, totalOut)
	if err != nil {
		return nil, err
	}

	return &Trade{
		Swaps:          swaps,
		TradeType:      tradeType,
		inputAmount:    totalIn,
		outputAmount:   totalOut,
		executionPrice: execPrice,
		priceImpact:    impact,
	}, nil
}

// priceImpact compares the realized output against what the routes' mid
// prices would have delivered for the same inputs.
func priceImpact(swaps []*Swap, totalOut *tokens.CurrencyAmount) (*fractions.Percent, error) {
	var spotOut *tokens.CurrencyAmount
	for _, s := range swaps {
		mid, err := s.Route.MidPrice()
		if err != nil {
			return nil, err
		}
		quoted, err := mid.Quote(s.InputAmount)
		if err != nil {
			return nil, err
		}
		if spotOut == nil {
			spotOut = quoted
			continue
		}
		if spotOut, err = spotOut.Add(quoted); err != nil {
			return nil, err
		}
	}

	slip := spotOut.Fraction.Subtract(&totalOut.Fraction).Divide(&spotOut.Fraction)
	return fractions.NewPercent(slip.Numerator(), slip.Denominator()), nil
}

// FromRoute simulates a trade through a single route. For exact input the
// amount flows forward pool by pool; for exact output it is pulled
// backward from the last pool to the first.
func FromRoute(ctx context.Context, route *Route, amount *tokens.CurrencyAmount, tradeType TradeType) (*Trade, error) {
	n := len(route.TokenPath)
	amounts := make([]*tokens.CurrencyAmount, n)

	var inputAmount, outputAmount *tokens.CurrencyAmount
	if tradeType == ExactInput {
		if !amount.Currency().Equal(route.Input) {
			return nil, fmt.Errorf("%w: amount currency %s is not the route input", ErrInvalidTrade, amount.Currency().Symbol())
		}
		amounts[0] = tokens.FromRawAmount(route.Input.Wrapped(), amount.Quotient())
		for i := 0; i < n-1; i++ {
			out, _, err := route.Pools[i].GetOutputAmount(ctx, amounts[i], nil)
			if err != nil {
				return nil, err
			}
			amounts[i+1] = out
		}
		inputAmount = tokens.FromFractionalAmount(route.Input, amount.Numerator(), amount.Denominator())
		outputAmount = tokens.FromFractionalAmount(route.Output, amounts[n-1].Numerator(), amounts[n-1].Denominator())
	} else {
		if !amount.Currency().Equal(route.Output) {
			return nil, fmt.Errorf("%w: amount currency %s is not the route output", ErrInvalidTrade, amount.Currency().Symbol())
		}
		amounts[n-1] = tokens.FromRawAmount(route.Output.Wrapped(), amount.Quotient())
		for i := n - 1; i > 0; i-- {
			in, _, err := route.Pools[i-1].GetInputAmount(ctx, amounts[i], nil)
			if err != nil {
				return nil, err
			}
			amounts[i-1] = in
		}
		inputAmount = tokens.FromFractionalAmount(route.Input, amounts[0].Numerator(), amounts[0].Denominator())
		outputAmount = tokens.FromFractionalAmount(route.Output, amount.Numerator(), amount.Denominator())
	}

	return newTrade([]*Swap{{Route: route, InputAmount: inputAmount, OutputAmount: outputAmount}}, tradeType)
}

// RouteAmount pairs a route with the amount to send through it.
type RouteAmount struct {
	Route  *Route
	Amount *tokens.CurrencyAmount
}

// FromRoutes simulates a split trade across several routes and combines
// the results into a single trade.
func FromRoutes(ctx context.Context, routes []RouteAmount, tradeType TradeType) (*Trade, error) {
	swaps := make([]*Swap, 0, len(routes))
	for _, ra := range routes {
		t, err := FromRoute(ctx, ra.Route, ra.Amount, tradeType)
		if err != nil {
			return nil, err
		}
		swaps = append(swaps, t.Swaps...)
	}
	return newTrade(swaps, tradeType)
}

// CreateUncheckedTrade builds a trade from amounts obtained elsewhere,
// for example an on-chain quoter. The amounts are taken at face value;
// only currency and duplicate-pool invariants are enforced.
func CreateUncheckedTrade(route *Route, inputAmount, outputAmount *tokens.CurrencyAmount, tradeType TradeType) (*Trade, error) {
	if !inputAmount.Currency().Equal(route.Input) {
		return nil, fmt.Errorf("%w: input amount currency does not match route input", ErrInvalidTrade)
	}
	if !outputAmount.Currency().Equal(route.Output) {
		return nil, fmt.Errorf("%w: output amount currency does not match route output", ErrInvalidTrade)
	}
	return newTrade([]*Swap{{Route: route, InputAmount: inputAmount, OutputAmount: outputAmount}}, tradeType)
}

// CreateUncheckedTradeWithMultipleRoutes is CreateUncheckedTrade for
// split trades.
func CreateUncheckedTradeWithMultipleRoutes(swaps []*Swap, tradeType TradeType) (*Trade, error) {
	for _, s := range swaps {
		if !s.InputAmount.Currency().Equal(s.Route.Input) {
			return nil, fmt.Errorf("%w: input amount currency does not match route input", ErrInvalidTrade)
		}
		if !s.OutputAmount.Currency().Equal(s.Route.Output) {
			return nil, fmt.Errorf("%w: output amount currency does not match route output", ErrInvalidTrade)
		}
	}
	return newTrade(swaps, tradeType)
}

// MinimumAmountOut is the least output acceptable under the given
// slippage tolerance. For exact-output trades the output is fixed and
// returned unchanged.
func (t *Trade) MinimumAmountOut(slippageTolerance *fractions.Percent) (*tokens.CurrencyAmount, error) {
	if slippageTolerance.Sign() < 0 {
		return nil, ErrInvalidSlippage
	}
	if t.TradeType == ExactOutput {
		return t.outputAmount, nil
	}
	// out / (1 + tolerance), truncated
	scale := fractions.NewInt(1).Add(&slippageTolerance.Fraction)
	adjusted := t.outputAmount.Divide(scale)
	return tokens.FromRawAmount(t.outputAmount.Currency(), adjusted.Quotient()), nil
}

// MaximumAmountIn is the most input spendable under the given slippage
// tolerance. For exact-input trades the input is fixed and returned
// unchanged.
func (t *Trade) MaximumAmountIn(slippageTolerance *fractions.Percent) (*tokens.CurrencyAmount, error) {
	if slippageTolerance.Sign() < 0 {
		return nil, ErrInvalidSlippage
	}
	if t.TradeType == ExactInput {
		return t.inputAmount, nil
	}
	scale := fractions.NewInt(1).Add(&slippageTolerance.Fraction)
	adjusted := t.inputAmount.Multiply(scale)
	return tokens.FromRawAmount(t.inputAmount.Currency(), adjusted.Quotient()), nil
}

// WorstExecutionPrice is the execution price implied by the slippage
// bounds rather than the quoted amounts.
func (t *Trade) WorstExecutionPrice(slippageTolerance *fractions.Percent) (*tokens.Price, error) {
	maxIn, err := t.MaximumAmountIn(slippageTolerance)
	if err != nil {
		return nil, err
	}
	minOut, err := t.MinimumAmountOut(slippageTolerance)
	if err != nil {
		return nil, err
	}
	return tokens.NewPrice(t.inputAmount.Currency(), t.outputAmount.Currency(), maxIn.Quotient(), minOut.Quotient()), nil
}

// TradeComparator orders trades from best to worst: more output first,
// then less input, then fewer hops. Returns a negative number when a is
// the better trade.
func TradeComparator(a, b *Trade) int {
	if c := b.outputAmount.Cmp(&a.outputAmount.Fraction); c != 0 {
		return c
	}
	if c := a.inputAmount.Cmp(&b.inputAmount.Fraction); c != 0 {
		return c
	}
	hops := func(t *Trade) int {
		n := 0
		for _, s := range t.Swaps {
			n += len(s.Route.TokenPath)
		}
		return n
	}
	return hops(a) - hops(b)
}

// BestTradeOptions bounds the route search.
type BestTradeOptions struct {
	// MaxNumResults is how many of the best trades to return. Zero
	// means a single best trade.
	MaxNumResults int
	// MaxHops limits the number of pools per route. Zero means three.
	MaxHops int
	// OnPoolSkipped, when set, is invoked for every candidate pool
	// skipped for insufficient liquidity.
	OnPoolSkipped func(*Pool)
}

func (o BestTradeOptions) normalized() BestTradeOptions {
	if o.MaxNumResults <= 0 {
		o.MaxNumResults = 1
	}
	if o.MaxHops <= 0 {
		o.MaxHops = 3
	}
	return o
}

// insertSorted places t into trades by TradeComparator order, keeping at
// most maxLen entries.
func insertSorted(trades []*Trade, t *Trade, maxLen int) []*Trade {
	i := sort.Search(len(trades), func(i int) bool {
		return TradeComparator(trades[i], t) > 0
	})
	trades = append(trades, nil)
	copy(trades[i+1:], trades[i:])
	trades[i] = t
	if len(trades) > maxLen {
		trades = trades[:maxLen]
	}
	return trades
}

// searchFrame is one partial route on the exploration stack.
type searchFrame struct {
	pools  []*Pool
	amount *tokens.CurrencyAmount
	used   map[string]struct{}
}

// BestTradeExactIn searches the pool set for the best ways to swap a
// fixed input amount into the output currency, exploring routes
// iteratively up to MaxHops pools deep. Pools without enough liquidity
// for the amount are skipped rather than failing the search.
func BestTradeExactIn(ctx context.Context, pools []*Pool, amountIn *tokens.CurrencyAmount, currencyOut tokens.Currency, opts BestTradeOptions) ([]*Trade, error) {
	if len(pools) == 0 {
		return nil, errors.New("no pools to search")
	}
	opts = opts.normalized()

	var best []*Trade
	stack := []searchFrame{{amount: amountIn, used: map[string]struct{}{}}}

	for len(stack) > 0 {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		frame := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		for _, pool := range pools {
			if _, taken := frame.used[pool.Key()]; taken {
				continue
			}
			if !pool.InvolvesToken(frame.amount.Currency()) {
				continue
			}

			out, _, err := pool.GetOutputAmount(ctx, frame.amount, nil)
			if errors.Is(err, ErrInsufficientLiquidity) {
				if opts.OnPoolSkipped != nil {
					opts.OnPoolSkipped(pool)
				}
				continue
			}
			if err != nil {
				return nil, err
			}

			routePools := append(append([]*Pool{}, frame.pools...), pool)

			if out.Currency().Equal(currencyOut.Wrapped()) {
				route, err := NewRoute(routePools, amountIn.Currency(), currencyOut)
				if err != nil {
					return nil, err
				}
				trade, err := CreateUncheckedTrade(route, amountIn, tokens.FromFractionalAmount(currencyOut, out.Numerator(), out.Denominator()), ExactInput)
				if err != nil {
					return nil, err
				}
				best = insertSorted(best, trade, opts.MaxNumResults)
				continue
			}

			if len(routePools) >= opts.MaxHops {
				continue
			}
			used := make(map[string]struct{}, len(frame.used)+1)
			for k := range frame.used {
				used[k] = struct{}{}
			}
			used[pool.Key()] = struct{}{}
			stack = append(stack, searchFrame{pools: routePools, amount: out, used: used})
		}
	}

	return best, nil
}

// BestTradeExactOut is the exact-output counterpart of BestTradeExactIn:
// routes are grown backward from the output currency toward the input.
func BestTradeExactOut(ctx context.Context, pools []*Pool, currencyIn tokens.Currency, amountOut *tokens.CurrencyAmount, opts BestTradeOptions) ([]*Trade, error) {
	if len(pools) == 0 {
		return nil, errors.New("no pools to search")
	}
	opts = opts.normalized()

	var best []*Trade
	stack := []searchFrame{{amount: amountOut, used: map[string]struct{}{}}}

	for len(stack) > 0 {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		frame := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		for _, pool := range pools {
			if _, taken := frame.used[pool.Key()]; taken {
				continue
			}
			if !pool.InvolvesToken(frame.amount.Currency()) {
				continue
			}

			in, _, err := pool.GetInputAmount(ctx, frame.amount, nil)
			if errors.Is(err, ErrInsufficientLiquidity) {
				if opts.OnPoolSkipped != nil {
					opts.OnPoolSkipped(pool)
				}
				continue
			}
			if err != nil {
				return nil, err
			}

			// routes grow from the output end, so prepend
			routePools := append([]*Pool{pool}, frame.pools...)

			if in.Currency().Equal(currencyIn.Wrapped()) {
				route, err := NewRoute(routePools, currencyIn, amountOut.Currency())
				if err != nil {
					return nil, err
				}
				trade, err := CreateUncheckedTrade(route, tokens.FromFractionalAmount(currencyIn, in.Numerator(), in.Denominator()), amountOut, ExactOutput)
				if err != nil {
					return nil, err
				}
				best = insertSorted(best, trade, opts.MaxNumResults)
				continue
			}

			if len(routePools) >= opts.MaxHops {
				continue
			}
			used := make(map[string]struct{}, len(frame.used)+1)
			for k := range frame.used {
				used[k] = struct{}{}
			}
			used[pool.Key()] = struct{}{}
			stack = append(stack, searchFrame{pools: routePools, amount: in, used: used})
		}
	}

	return best, nil
}
