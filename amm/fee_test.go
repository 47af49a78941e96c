package amm

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFeeTier(t *testing.T) {
	spacings := map[FeeTier]int64{
		FeeLowest: 1,
		FeeLow:    10,
		FeeMedium: 60,
		FeeHigh:   200,
	}
	for fee, want := range spacings {
		assert.True(t, fee.Valid())
		spacing, err := fee.TickSpacing()
		require.NoError(t, err)
		assert.Equal(t, want, spacing)
	}

	assert.False(t, FeeTier(0).Valid())
	assert.False(t, FeeTier(2500).Valid())
	_, err := FeeTier(2500).TickSpacing()
	require.ErrorIs(t, err, ErrInvalidFeeTier)
}
