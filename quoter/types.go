package quoter

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"
)

// Logger defines a standard interface for structured, leveled logging.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

// TokenView is the wire representation of a token in a snapshot.
type TokenView struct {
	ID       uint64         `json:"id"`
	Address0 common.Address `json:"address0"`
	// Address1 is the token's secondary-standard address. Zero means the
	// token exists under one standard only.
	Address1 common.Address `json:"address1,omitempty"`
	Name     string         `json:"name"`
	Symbol   string         `json:"symbol"`
	Decimals uint8          `json:"decimals"`
}

// TickView carries the liquidity bookkeeping of one initialized tick.
type TickView struct {
	Index          int64    `json:"index"`
	LiquidityGross *big.Int `json:"liquidityGross"`
	LiquidityNet   *big.Int `json:"liquidityNet"`
}

// PoolView is the wire representation of a single pool's state, keyed to
// tokens by their snapshot IDs.
type PoolView struct {
	ID           uint64     `json:"id"`
	Token0       uint64     `json:"token0"`
	Token1       uint64     `json:"token1"`
	Fee          uint64     `json:"fee"`
	Tick         int64      `json:"tick"`
	Liquidity    *big.Int   `json:"liquidity"`
	SqrtPriceX96 *big.Int   `json:"sqrtPriceX96"`
	Ticks        []TickView `json:"ticks"`
}

// Snapshot is a self-contained pool universe at one block.
type Snapshot struct {
	ChainID     uint64      `json:"chainId"`
	BlockNumber uint64      `json:"blockNumber"`
	Tokens      []TokenView `json:"tokens"`
	Pools       []PoolView  `json:"pools"`
}
