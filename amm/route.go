package amm

import (
	"errors"
	"fmt"

	"github.com/defistate/clmm-sdk-go/tokens"
)

// ErrInvalidRoute is returned when pools do not chain from input to output.
var ErrInvalidRoute = errors.New("invalid route")

// Route is an ordered sequence of pools connecting an input currency to an
// output currency, each consecutive pair sharing a token.
type Route struct {
	Pools     []*Pool
	TokenPath []*tokens.Token
	Input     tokens.Currency
	Output    tokens.Currency
}

// NewRoute validates pool-to-pool continuity and the endpoint currencies,
// and records the token path walked along the way.
func NewRoute(pools []*Pool, input, output tokens.Currency) (*Route, error) {
	if len(pools) == 0 {
		return nil, fmt.Errorf("%w: no pools", ErrInvalidRoute)
	}

	chainID := pools[0].Token0.ChainID()
	for i, pool := range pools {
		if pool.Token0.ChainID() != chainID {
			return nil, fmt.Errorf("%w: pool %d on chain %d, expected %d", ErrInvalidRoute, i, pool.Token0.ChainID(), chainID)
		}
	}
	if input.ChainID() != chainID {
		return nil, fmt.Errorf("%w: input on chain %d, pools on chain %d", ErrInvalidRoute, input.ChainID(), chainID)
	}

	wrappedInput := input.Wrapped()
	if !pools[0].InvolvesToken(wrappedInput) {
		return nil, fmt.Errorf("%w: input %s not in first pool %s", ErrInvalidRoute, wrappedInput.Symbol(), pools[0].Key())
	}

	tokenPath := make([]*tokens.Token, 0, len(pools)+1)
	tokenPath = append(tokenPath, wrappedInput)
	current := wrappedInput
	for i, pool := range pools {
		if !pool.InvolvesToken(current) {
			return nil, fmt.Errorf("%w: pool %d (%s) does not contain %s", ErrInvalidRoute, i, pool.Key(), current.Symbol())
		}
		current = pool.otherToken(current)
		tokenPath = append(tokenPath, current)
	}

	if !current.Equal(output.Wrapped()) {
		return nil, fmt.Errorf("%w: path ends at %s, expected %s", ErrInvalidRoute, current.Symbol(), output.Wrapped().Symbol())
	}

	return &Route{
		Pools:     pools,
		TokenPath: tokenPath,
		Input:     input,
		Output:    output,
	}, nil
}

// ChainID returns the chain all of the route's pools live on.
func (r *Route) ChainID() uint64 { return r.Pools[0].Token0.ChainID() }

// MidPrice is the product of each pool's instantaneous price along the
// path, oriented in the direction of travel. It is the price the route
// would deliver for an infinitesimal trade.
func (r *Route) MidPrice() (*tokens.Price, error) {
	var price *tokens.Price
	for i, pool := range r.Pools {
		var hop *tokens.Price
		if r.TokenPath[i].Equal(pool.Token0) {
			hop = pool.Token0Price()
		} else {
			hop = pool.Token1Price()
		}
		if price == nil {
			price = hop
			continue
		}
		var err error
		price, err = price.Multiply(hop)
		if err != nil {
			return nil, err
		}
	}
	// re-anchor from wrapped path tokens to the route's own currencies
	return tokens.NewPrice(r.Input, r.Output, price.Denominator(), price.Numerator()), nil
}
