// Package tickmath converts between tick indices and Q64.96 sqrt prices.
// Both directions are bit-exact with the on-chain TickMath library: the
// forward direction is a binary decomposition over a table of precomputed
// 128-bit constants, the reverse a binary search over valid ticks.
package tickmath

import (
	"errors"
	"fmt"
	"math/big"

	"github.com/holiman/uint256"
)

const (
	// MinTick is the smallest tick with a representable sqrt ratio.
	MinTick = int64(-887272)
	// MaxTick is the largest tick with a representable sqrt ratio.
	MaxTick = int64(887272)
)

var (
	// MinSqrtRatio is SqrtRatioAtTick(MinTick). MUST NOT be modified.
	MinSqrtRatio = big.NewInt(4295128739)
	// MaxSqrtRatio is SqrtRatioAtTick(MaxTick). MUST NOT be modified.
	MaxSqrtRatio, _ = new(big.Int).SetString("1461446703485210103287273052203988822378723970342", 10)

	ErrTickOutOfRange      = errors.New("tick out of range")
	ErrSqrtRatioOutOfRange = errors.New("sqrt ratio out of range")

	one        = uint256.NewInt(1)
	maxUint256 = new(uint256.Int).Not(new(uint256.Int))

	// sqrt(1.0001^(2^i)) for bit i of |tick|, as UQ128.128 multipliers,
	// plus the identity at index 1 and the 32-bit rounding mask at the end.
	ratios = [22]*uint256.Int{
		mustHex("0xfffcb933bd6fad37aa2d162d1a594001"),
		mustHex("0x100000000000000000000000000000000"),
		mustHex("0xfff97272373d413259a46990580e213a"),
		mustHex("0xfff2e50f5f656932ef12357cf3c7fdcc"),
		mustHex("0xffe5caca7e10e4e61c3624eaa0941cd0"),
		mustHex("0xffcb9843d60f6159c9db58835c926644"),
		mustHex("0xff973b41fa98c081472e6896dfb254c0"),
		mustHex("0xff2ea16466c96a3843ec78b326b52861"),
		mustHex("0xfe5dee046a99a2a811c461f1969c3053"),
		mustHex("0xfcbe86c7900a88aedcffc83b479aa3a4"),
		mustHex("0xf987a7253ac413176f2b074cf7815e54"),
		mustHex("0xf3392b0822b70005940c7a398e4b70f3"),
		mustHex("0xe7159475a2c29b7443b29c7fa6e889d9"),
		mustHex("0xd097f3bdfd2022b8845ad8f792aa5825"),
		mustHex("0xa9f746462d870fdf8a65dc1f90e061e5"),
		mustHex("0x70d869a156d2a1b890bb3df62baf32f7"),
		mustHex("0x31be135f97d08fd981231505542fcfa6"),
		mustHex("0x9aa508b5b7a84e1c677de54f3e99bc9"),
		mustHex("0x5d6af8dedb81196699c329225ee604"),
		mustHex("0x2216e584f5fa1ea926041bedfe98"),
		mustHex("0x48a170391f7dc42444e8fa2"),
		mustHex("0xffffffff"),
	}
)

func mustHex(s string) *uint256.Int {
	v, err := uint256.FromHex(s)
	if err != nil {
		panic(fmt.Sprintf("tickmath: bad ratio constant %s: %v", s, err))
	}
	return v
}

// SqrtRatioAtTick returns sqrt(1.0001^tick) * 2^96 as a Q64.96 value.
func SqrtRatioAtTick(tick int64) (*big.Int, error) {
	if tick < MinTick || tick > MaxTick {
		return nil, fmt.Errorf("%w: %d", ErrTickOutOfRange, tick)
	}

	absTick := tick
	if tick < 0 {
		absTick = -tick
	}

	ratio := new(uint256.Int)
	if absTick&0x1 != 0 {
		ratio.Set(ratios[0])
	} else {
		ratio.Set(ratios[1])
	}
	for i := 2; i < 21; i++ {
		if absTick&(1<<(i-1)) != 0 {
			ratio.Rsh(ratio.Mul(ratio, ratios[i]), 128)
		}
	}

	if tick > 0 {
		ratio.Div(maxUint256, ratio)
	}

	// downcast from Q128.128 to Q64.96, rounding up
	rem := new(uint256.Int).And(ratio, ratios[21])
	ratio.Rsh(ratio, 32)
	if !rem.IsZero() {
		ratio.Add(ratio, one)
	}
	return ratio.ToBig(), nil
}

// TickAtSqrtRatio returns the greatest tick whose sqrt ratio is less than or
// equal to sqrtRatioX96. The input must lie in [MinSqrtRatio, MaxSqrtRatio).
func TickAtSqrtRatio(sqrtRatioX96 *big.Int) (int64, error) {
	if sqrtRatioX96.Cmp(MinSqrtRatio) < 0 || sqrtRatioX96.Cmp(MaxSqrtRatio) >= 0 {
		return 0, fmt.Errorf("%w: %s", ErrSqrtRatioOutOfRange, sqrtRatioX96)
	}

	low, high := MinTick, MaxTick
	var tick int64
	for low <= high {
		mid := (low + high) / 2
		ratio, err := SqrtRatioAtTick(mid)
		if err != nil {
			return 0, err
		}
		if ratio.Cmp(sqrtRatioX96) <= 0 {
			tick = mid
			low = mid + 1
		} else {
			high = mid - 1
		}
	}
	return tick, nil
}
