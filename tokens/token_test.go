package tokens

import (
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	addrA = common.HexToAddress("0x0000000000000000000000000000000000000001")
	addrB = common.HexToAddress("0x0000000000000000000000000000000000000002")
	addrC = common.HexToAddress("0x0000000000000000000000000000000000000003")
)

func mustToken(t *testing.T, chainID uint64, addr0, addr1 common.Address, decimals uint8, symbol string) *Token {
	t.Helper()
	token, err := NewToken(chainID, addr0, addr1, decimals, symbol, symbol)
	require.NoError(t, err)
	return token
}

func TestNewToken(t *testing.T) {
	t.Run("rejects zero canonical address", func(t *testing.T) {
		_, err := NewToken(1, common.Address{}, addrB, 18, "BAD", "Bad")
		require.Error(t, err)
	})

	t.Run("zero secondary address defaults to canonical", func(t *testing.T) {
		token := mustToken(t, 1, addrA, common.Address{}, 18, "ONE")
		assert.Equal(t, addrA, token.Address0())
		assert.Equal(t, addrA, token.Address1())
	})

	t.Run("keeps a distinct secondary address", func(t *testing.T) {
		token := mustToken(t, 1, addrA, addrB, 18, "DUAL")
		assert.Equal(t, addrA, token.Address0())
		assert.Equal(t, addrB, token.Address1())
		assert.Equal(t, addrA, token.Address(), "canonical address is the identity")
	})
}

func TestTokenEqual(t *testing.T) {
	t.Run("same chain and canonical address", func(t *testing.T) {
		a := mustToken(t, 1, addrA, common.Address{}, 18, "TK")
		b := mustToken(t, 1, addrA, common.Address{}, 6, "OTHER")
		assert.True(t, a.Equal(b), "decimals and symbol do not affect identity")
	})

	t.Run("secondary address does not affect identity", func(t *testing.T) {
		a := mustToken(t, 1, addrA, addrB, 18, "TK")
		b := mustToken(t, 1, addrA, addrC, 18, "TK")
		assert.True(t, a.Equal(b))
	})

	t.Run("different chain", func(t *testing.T) {
		a := mustToken(t, 1, addrA, common.Address{}, 18, "TK")
		b := mustToken(t, 2, addrA, common.Address{}, 18, "TK")
		assert.False(t, a.Equal(b))
	})

	t.Run("different canonical address", func(t *testing.T) {
		a := mustToken(t, 1, addrA, common.Address{}, 18, "TK")
		b := mustToken(t, 1, addrB, common.Address{}, 18, "TK")
		assert.False(t, a.Equal(b))
	})
}

func TestTokenSortsBefore(t *testing.T) {
	a := mustToken(t, 1, addrA, common.Address{}, 18, "A")
	b := mustToken(t, 1, addrB, common.Address{}, 18, "B")

	t.Run("orders by canonical address", func(t *testing.T) {
		before, err := a.SortsBefore(b)
		require.NoError(t, err)
		assert.True(t, before)

		before, err = b.SortsBefore(a)
		require.NoError(t, err)
		assert.False(t, before)
	})

	t.Run("same address errors", func(t *testing.T) {
		other := mustToken(t, 1, addrA, common.Address{}, 6, "A2")
		_, err := a.SortsBefore(other)
		require.Error(t, err)
	})

	t.Run("chain mismatch errors", func(t *testing.T) {
		other := mustToken(t, 2, addrB, common.Address{}, 18, "B")
		_, err := a.SortsBefore(other)
		assert.ErrorIs(t, err, ErrChainMismatch)
	})
}

func TestNative(t *testing.T) {
	wrapped := mustToken(t, 1, addrA, common.Address{}, 18, "WETH")

	t.Run("requires a wrapped token", func(t *testing.T) {
		_, err := NewNative(1, 18, "ETH", "Ether", nil)
		require.Error(t, err)
	})

	t.Run("wrapped token must share the chain", func(t *testing.T) {
		_, err := NewNative(2, 18, "ETH", "Ether", wrapped)
		assert.ErrorIs(t, err, ErrChainMismatch)
	})

	t.Run("equality is per chain", func(t *testing.T) {
		eth, err := NewNative(1, 18, "ETH", "Ether", wrapped)
		require.NoError(t, err)
		same, err := NewNative(1, 18, "ETH", "Ether", wrapped)
		require.NoError(t, err)
		assert.True(t, eth.Equal(same))
		assert.False(t, eth.Equal(wrapped), "native never equals its wrapped token")
		assert.False(t, wrapped.Equal(eth))
	})

	t.Run("wrapped form is the pool token", func(t *testing.T) {
		eth, err := NewNative(1, 18, "ETH", "Ether", wrapped)
		require.NoError(t, err)
		assert.True(t, eth.Wrapped().Equal(wrapped))
		assert.True(t, eth.IsNative())
	})
}
