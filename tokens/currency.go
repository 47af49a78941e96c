package tokens

import (
	"errors"
	"fmt"
)

var (
	// ErrCurrencyMismatch is returned when an operation receives amounts or
	// prices denominated in different currencies.
	ErrCurrencyMismatch = errors.New("currency mismatch")
	// ErrChainMismatch is returned when two currencies live on different chains.
	ErrChainMismatch = errors.New("chain id mismatch")
)

// Currency is either the chain's native currency or a Token. Identity is
// chain id plus canonical address (or the native marker), never pointer
// identity, so independently constructed values compare equal.
type Currency interface {
	ChainID() uint64
	Decimals() uint8
	Symbol() string
	IsNative() bool
	// Wrapped returns the token form used inside pools. For a Token it is
	// the token itself.
	Wrapped() *Token
	Equal(other Currency) bool
}

// Native is a chain's native currency. It never appears inside a pool
// directly; swaps route through its wrapped token.
type Native struct {
	chainID  uint64
	decimals uint8
	symbol   string
	name     string
	wrapped  *Token
}

// NewNative creates a native currency bound to its wrapped token.
func NewNative(chainID uint64, decimals uint8, symbol, name string, wrapped *Token) (*Native, error) {
	if wrapped == nil {
		return nil, errors.New("native currency requires a wrapped token")
	}
	if wrapped.ChainID() != chainID {
		return nil, fmt.Errorf("%w: native on chain %d, wrapped token on chain %d", ErrChainMismatch, chainID, wrapped.ChainID())
	}
	return &Native{
		chainID:  chainID,
		decimals: decimals,
		symbol:   symbol,
		name:     name,
		wrapped:  wrapped,
	}, nil
}

func (n *Native) ChainID() uint64  { return n.chainID }
func (n *Native) Decimals() uint8  { return n.decimals }
func (n *Native) Symbol() string   { return n.symbol }
func (n *Native) Name() string     { return n.name }
func (n *Native) IsNative() bool   { return true }
func (n *Native) Wrapped() *Token  { return n.wrapped }

// Equal reports whether other is the native currency of the same chain.
func (n *Native) Equal(other Currency) bool {
	return other != nil && other.IsNative() && other.ChainID() == n.chainID
}
