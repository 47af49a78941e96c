// Package postgres persists pool tick liquidity and serves it back as a
// tick data provider for swap simulation.
package postgres

import (
	"context"
	"errors"
	"fmt"
	"math/big"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/defistate/clmm-sdk-go/amm"
)

// Store provides Postgres persistence for pool ticks.
type Store struct {
	pool *pgxpool.Pool
}

func NewStore(ctx context.Context, dsn string) (*Store, error) {
	if dsn == "" {
		return nil, fmt.Errorf("pg dsn is required")
	}
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, err
	}
	return &Store{pool: pool}, nil
}

func (s *Store) Close() {
	if s.pool != nil {
		s.pool.Close()
	}
}

// UpsertTicks inserts or updates the tick rows of one pool. Liquidity
// values travel as decimal strings to survive the numeric round trip.
func (s *Store) UpsertTicks(ctx context.Context, poolKey string, ticks []amm.Tick) error {
	if poolKey == "" {
		return fmt.Errorf("pool key required")
	}
	if len(ticks) == 0 {
		return nil
	}
	batch := &pgx.Batch{}
	for _, tick := range ticks {
		batch.Queue(`
			INSERT INTO pool_ticks (
				pool_key, tick_index, liquidity_gross, liquidity_net, created_at, updated_at
			) VALUES ($1, $2, $3, $4, now(), now())
			ON CONFLICT (pool_key, tick_index)
			DO UPDATE SET
				liquidity_gross = EXCLUDED.liquidity_gross,
				liquidity_net = EXCLUDED.liquidity_net,
				updated_at = now()
		`,
			poolKey,
			tick.Index,
			tick.LiquidityGross.String(),
			tick.LiquidityNet.String(),
		)
	}

	br := s.pool.SendBatch(ctx, batch)
	defer br.Close()

	for range ticks {
		if _, err := br.Exec(); err != nil {
			return err
		}
	}
	return nil
}

// DeleteTicks removes all tick rows of one pool.
func (s *Store) DeleteTicks(ctx context.Context, poolKey string) error {
	if poolKey == "" {
		return fmt.Errorf("pool key required")
	}
	_, err := s.pool.Exec(ctx, `DELETE FROM pool_ticks WHERE pool_key=$1`, poolKey)
	return err
}

// LoadTicks returns all ticks of one pool ordered by index.
func (s *Store) LoadTicks(ctx context.Context, poolKey string) ([]amm.Tick, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT tick_index, liquidity_gross, liquidity_net
		FROM pool_ticks
		WHERE pool_key=$1
		ORDER BY tick_index ASC
	`, poolKey)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ticks []amm.Tick
	for rows.Next() {
		var (
			index      int64
			gross, net string
		)
		if err := rows.Scan(&index, &gross, &net); err != nil {
			return nil, err
		}
		tick, err := parseTick(index, gross, net)
		if err != nil {
			return nil, err
		}
		ticks = append(ticks, tick)
	}
	return ticks, rows.Err()
}

// PoolTicks serves one pool's ticks straight from the database.
func (s *Store) PoolTicks(poolKey string) *PoolTicks {
	return &PoolTicks{store: s, poolKey: poolKey}
}

// PoolTicks implements amm.TickDataProvider against the pool_ticks table.
type PoolTicks struct {
	store   *Store
	poolKey string
}

// Get returns the tick at the exact index, if initialized.
func (p *PoolTicks) Get(ctx context.Context, index int64) (amm.Tick, bool, error) {
	var (
		gross, net string
	)
	row := p.store.pool.QueryRow(ctx, `
		SELECT liquidity_gross, liquidity_net
		FROM pool_ticks
		WHERE pool_key=$1 AND tick_index=$2
	`, p.poolKey, index)
	if err := row.Scan(&gross, &net); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return amm.Tick{}, false, nil
		}
		return amm.Tick{}, false, err
	}
	tick, err := parseTick(index, gross, net)
	if err != nil {
		return amm.Tick{}, false, err
	}
	return tick, true, nil
}

// NextInitializedTick finds the nearest initialized tick at or below the
// given index when lte is set, or strictly above it otherwise.
func (p *PoolTicks) NextInitializedTick(ctx context.Context, tick int64, lte bool) (amm.Tick, bool, error) {
	query := `
		SELECT tick_index, liquidity_gross, liquidity_net
		FROM pool_ticks
		WHERE pool_key=$1 AND tick_index > $2
		ORDER BY tick_index ASC
		LIMIT 1
	`
	if lte {
		query = `
			SELECT tick_index, liquidity_gross, liquidity_net
			FROM pool_ticks
			WHERE pool_key=$1 AND tick_index <= $2
			ORDER BY tick_index DESC
			LIMIT 1
		`
	}

	var (
		index      int64
		gross, net string
	)
	row := p.store.pool.QueryRow(ctx, query, p.poolKey, tick)
	if err := row.Scan(&index, &gross, &net); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return amm.Tick{}, false, nil
		}
		return amm.Tick{}, false, err
	}
	result, err := parseTick(index, gross, net)
	if err != nil {
		return amm.Tick{}, false, err
	}
	return result, true, nil
}

func parseTick(index int64, gross, net string) (amm.Tick, error) {
	liquidityGross, ok := new(big.Int).SetString(gross, 10)
	if !ok {
		return amm.Tick{}, fmt.Errorf("tick %d: bad liquidity_gross %q", index, gross)
	}
	liquidityNet, ok := new(big.Int).SetString(net, 10)
	if !ok {
		return amm.Tick{}, fmt.Errorf("tick %d: bad liquidity_net %q", index, net)
	}
	return amm.Tick{Index: index, LiquidityGross: liquidityGross, LiquidityNet: liquidityNet}, nil
}
