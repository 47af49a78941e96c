package quoter

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/defistate/clmm-sdk-go/amm"
	"github.com/defistate/clmm-sdk-go/tokens"
)

var ErrInvalidSnapshot = errors.New("invalid snapshot")

// Universe is a decoded snapshot ready for route searches.
type Universe struct {
	ChainID     uint64
	BlockNumber uint64
	Tokens      map[uint64]*tokens.Token
	Pools       []*amm.Pool
}

// DecodeSnapshot parses a JSON pool universe and materializes every pool
// with its tick list. Pools referencing unknown tokens or carrying
// inconsistent state fail the whole decode.
func DecodeSnapshot(data []byte) (*Universe, error) {
	var snap Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidSnapshot, err)
	}
	return BuildUniverse(&snap)
}

// BuildUniverse materializes an already-parsed snapshot.
func BuildUniverse(snap *Snapshot) (*Universe, error) {
	tokenByID := make(map[uint64]*tokens.Token, len(snap.Tokens))
	for _, tv := range snap.Tokens {
		if _, dup := tokenByID[tv.ID]; dup {
			return nil, fmt.Errorf("%w: duplicate token id %d", ErrInvalidSnapshot, tv.ID)
		}
		token, err := tokens.NewToken(snap.ChainID, tv.Address0, tv.Address1, tv.Decimals, tv.Symbol, tv.Name)
		if err != nil {
			return nil, fmt.Errorf("%w: token %d: %v", ErrInvalidSnapshot, tv.ID, err)
		}
		tokenByID[tv.ID] = token
	}

	pools := make([]*amm.Pool, 0, len(snap.Pools))
	for _, pv := range snap.Pools {
		token0, ok := tokenByID[pv.Token0]
		if !ok {
			return nil, fmt.Errorf("%w: pool %d references unknown token %d", ErrInvalidSnapshot, pv.ID, pv.Token0)
		}
		token1, ok := tokenByID[pv.Token1]
		if !ok {
			return nil, fmt.Errorf("%w: pool %d references unknown token %d", ErrInvalidSnapshot, pv.ID, pv.Token1)
		}
		if pv.SqrtPriceX96 == nil || pv.Liquidity == nil {
			return nil, fmt.Errorf("%w: pool %d missing price or liquidity", ErrInvalidSnapshot, pv.ID)
		}

		fee := amm.FeeTier(pv.Fee)
		spacing, err := fee.TickSpacing()
		if err != nil {
			return nil, fmt.Errorf("%w: pool %d: %v", ErrInvalidSnapshot, pv.ID, err)
		}

		ticks := make([]amm.Tick, len(pv.Ticks))
		for i, tv := range pv.Ticks {
			ticks[i] = amm.Tick{
				Index:          tv.Index,
				LiquidityGross: tv.LiquidityGross,
				LiquidityNet:   tv.LiquidityNet,
			}
		}
		tickList, err := amm.NewTickList(ticks, spacing)
		if err != nil {
			return nil, fmt.Errorf("%w: pool %d: %v", ErrInvalidSnapshot, pv.ID, err)
		}

		pool, err := amm.NewPool(token0, token1, fee, pv.SqrtPriceX96, pv.Liquidity, pv.Tick, tickList)
		if err != nil {
			return nil, fmt.Errorf("%w: pool %d: %v", ErrInvalidSnapshot, pv.ID, err)
		}
		pools = append(pools, pool)
	}

	return &Universe{
		ChainID:     snap.ChainID,
		BlockNumber: snap.BlockNumber,
		Tokens:      tokenByID,
		Pools:       pools,
	}, nil
}
