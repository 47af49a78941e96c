package tokens

import (
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/defistate/clmm-sdk-go/fractions"
)

func TestCurrencyAmountArithmetic(t *testing.T) {
	token := mustToken(t, 1, addrA, common.Address{}, 18, "TK")
	other := mustToken(t, 1, addrB, common.Address{}, 18, "OT")

	t.Run("add", func(t *testing.T) {
		sum, err := FromRawAmount(token, big.NewInt(100)).Add(FromRawAmount(token, big.NewInt(50)))
		require.NoError(t, err)
		assert.Zero(t, big.NewInt(150).Cmp(sum.Quotient()))
	})

	t.Run("subtract", func(t *testing.T) {
		diff, err := FromRawAmount(token, big.NewInt(100)).Subtract(FromRawAmount(token, big.NewInt(30)))
		require.NoError(t, err)
		assert.Zero(t, big.NewInt(70).Cmp(diff.Quotient()))
	})

	t.Run("add across currencies errors", func(t *testing.T) {
		_, err := FromRawAmount(token, big.NewInt(1)).Add(FromRawAmount(other, big.NewInt(1)))
		assert.ErrorIs(t, err, ErrCurrencyMismatch)
	})

	t.Run("subtract across currencies errors", func(t *testing.T) {
		_, err := FromRawAmount(token, big.NewInt(1)).Subtract(FromRawAmount(other, big.NewInt(1)))
		assert.ErrorIs(t, err, ErrCurrencyMismatch)
	})

	t.Run("fractional amounts stay exact", func(t *testing.T) {
		amount := FromFractionalAmount(token, big.NewInt(1), big.NewInt(3))
		tripled := amount.Multiply(fractions.NewInt(3))
		assert.True(t, tripled.Fraction.EqualTo(fractions.NewInt(1)))
	})
}

func TestCurrencyAmountDisplay(t *testing.T) {
	usdc := mustToken(t, 1, addrA, common.Address{}, 6, "USDC")

	t.Run("to exact scales by decimals", func(t *testing.T) {
		amount := FromRawAmount(usdc, big.NewInt(1500000))
		assert.Equal(t, "1.500000", amount.ToExact())
	})

	t.Run("to significant", func(t *testing.T) {
		amount := FromRawAmount(usdc, big.NewInt(1234567))
		assert.Equal(t, "1.234", amount.ToSignificant(4, fractions.RoundDown))
	})

	t.Run("to fixed", func(t *testing.T) {
		amount := FromRawAmount(usdc, big.NewInt(1234567))
		assert.Equal(t, "1.23", amount.ToFixed(2, fractions.RoundDown))
		assert.Equal(t, "1.24", amount.ToFixed(2, fractions.RoundUp))
	})
}

func TestPrice(t *testing.T) {
	weth := mustToken(t, 1, addrA, common.Address{}, 18, "WETH")
	usdc := mustToken(t, 1, addrB, common.Address{}, 6, "USDC")
	dai := mustToken(t, 1, addrC, common.Address{}, 18, "DAI")

	t.Run("quote converts base amounts", func(t *testing.T) {
		// 1 whole WETH (1e18 raw) = 2000 whole USDC (2e9 raw)
		price := NewPrice(weth, usdc, big.NewInt(1000000000000000000), big.NewInt(2000000000))
		amount, err := price.Quote(FromRawAmount(weth, big.NewInt(1000000000000000000)))
		require.NoError(t, err)
		assert.Zero(t, big.NewInt(2000000000).Cmp(amount.Quotient()))
		assert.True(t, usdc.Equal(amount.Currency()))
	})

	t.Run("quote rejects the wrong base", func(t *testing.T) {
		price := NewPrice(weth, usdc, big.NewInt(1), big.NewInt(1))
		_, err := price.Quote(FromRawAmount(usdc, big.NewInt(1)))
		assert.ErrorIs(t, err, ErrCurrencyMismatch)
	})

	t.Run("invert swaps base and quote", func(t *testing.T) {
		price := NewPrice(weth, usdc, big.NewInt(2), big.NewInt(6))
		inverted := price.Invert()
		assert.True(t, usdc.Equal(inverted.Base()))
		assert.True(t, weth.Equal(inverted.QuoteCurrency()))
		assert.True(t, inverted.Fraction.EqualTo(fractions.NewFraction(big.NewInt(2), big.NewInt(6))))
	})

	t.Run("multiply chains through a shared currency", func(t *testing.T) {
		wethUsdc := NewPrice(weth, usdc, big.NewInt(1), big.NewInt(2))
		usdcDai := NewPrice(usdc, dai, big.NewInt(1), big.NewInt(3))
		wethDai, err := wethUsdc.Multiply(usdcDai)
		require.NoError(t, err)
		assert.True(t, weth.Equal(wethDai.Base()))
		assert.True(t, dai.Equal(wethDai.QuoteCurrency()))
		assert.True(t, wethDai.Fraction.EqualTo(fractions.NewInt(6)))
	})

	t.Run("multiply rejects mismatched chains", func(t *testing.T) {
		wethUsdc := NewPrice(weth, usdc, big.NewInt(1), big.NewInt(2))
		wethDai := NewPrice(weth, dai, big.NewInt(1), big.NewInt(3))
		_, err := wethUsdc.Multiply(wethDai)
		assert.ErrorIs(t, err, ErrCurrencyMismatch)
	})

	t.Run("display adjusts for decimal difference", func(t *testing.T) {
		// raw ratio 2e9 USDC-units per 1e18 WETH-units is 2000 whole USDC per WETH
		price := NewPrice(weth, usdc, big.NewInt(1000000000000000000), big.NewInt(2000000000))
		assert.Equal(t, "2000", price.ToSignificant(5, fractions.RoundDown))
	})
}
