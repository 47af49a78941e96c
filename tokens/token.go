package tokens

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/ethereum/go-ethereum/common"
)

// Token is an ERC-20-style token that may exist under two on-chain standards
// at once. Address0 is the canonical deployment and is the identity used for
// equality and ordering; Address1 is the secondary-standard variant of the
// same economic asset (it equals Address0 for single-standard tokens).
type Token struct {
	chainID  uint64
	address0 common.Address
	address1 common.Address
	decimals uint8
	symbol   string
	name     string
}

// NewToken creates a token. address1 may be the zero address for
// single-standard tokens, in which case it defaults to address0.
func NewToken(chainID uint64, address0, address1 common.Address, decimals uint8, symbol, name string) (*Token, error) {
	if address0 == (common.Address{}) {
		return nil, errors.New("token canonical address must not be zero")
	}
	if address1 == (common.Address{}) {
		address1 = address0
	}
	return &Token{
		chainID:  chainID,
		address0: address0,
		address1: address1,
		decimals: decimals,
		symbol:   symbol,
		name:     name,
	}, nil
}

func (t *Token) ChainID() uint64 { return t.chainID }
func (t *Token) Decimals() uint8 { return t.decimals }
func (t *Token) Symbol() string  { return t.symbol }
func (t *Token) Name() string    { return t.name }
func (t *Token) IsNative() bool  { return false }
func (t *Token) Wrapped() *Token { return t }

// Address returns the canonical address used for identity and ordering.
func (t *Token) Address() common.Address { return t.address0 }

// Address0 returns the canonical-standard address.
func (t *Token) Address0() common.Address { return t.address0 }

// Address1 returns the secondary-standard address.
func (t *Token) Address1() common.Address { return t.address1 }

// Equal reports whether other identifies the same asset: a non-native
// currency on the same chain with the same canonical address.
func (t *Token) Equal(other Currency) bool {
	if other == nil || other.IsNative() || other.ChainID() != t.chainID {
		return false
	}
	return other.Wrapped().address0 == t.address0
}

// SortsBefore reports whether t orders before other by canonical address.
// Pools store their tokens in this order. Comparing a token against itself
// or against a token on another chain is a caller bug and errors out.
func (t *Token) SortsBefore(other *Token) (bool, error) {
	if t.chainID != other.chainID {
		return false, fmt.Errorf("%w: %d vs %d", ErrChainMismatch, t.chainID, other.chainID)
	}
	cmp := bytes.Compare(t.address0.Bytes(), other.address0.Bytes())
	if cmp == 0 {
		return false, fmt.Errorf("tokens %s and %s share the canonical address %s", t.symbol, other.symbol, t.address0)
	}
	return cmp < 0, nil
}

// String implements fmt.Stringer for logs and error messages.
func (t *Token) String() string {
	return fmt.Sprintf("%s(%s)", t.symbol, t.address0.Hex())
}
