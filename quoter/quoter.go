// Package quoter wraps the route search with configuration, structured
// logging and metrics, and loads pool universes from snapshots.
package quoter

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/defistate/clmm-sdk-go/amm"
	"github.com/defistate/clmm-sdk-go/tokens"
)

var ErrNoRouteFound = errors.New("no route found")

// Config holds the configuration for the quoter.
type Config struct {
	Logger   Logger
	Registry prometheus.Registerer

	// MaxHops limits the pools per route. Zero means three.
	MaxHops int
	// MaxNumResults is how many ranked trades a quote returns. Zero
	// means one.
	MaxNumResults int
}

// validate checks if the configuration is valid.
func (c *Config) validate() error {
	if c.Logger == nil {
		return errors.New("config: Logger is required")
	}
	if c.Registry == nil {
		return errors.New("config: Registry is required")
	}
	if c.MaxHops < 0 {
		return errors.New("config: MaxHops must not be negative")
	}
	if c.MaxNumResults < 0 {
		return errors.New("config: MaxNumResults must not be negative")
	}
	return nil
}

// Quoter answers best-route questions against a loaded pool universe.
type Quoter struct {
	cfg      Config
	logger   Logger
	metrics  *Metrics
	universe *Universe
}

// New constructs a quoter from a configuration.
func New(cfg Config) (*Quoter, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &Quoter{
		cfg:     cfg,
		logger:  cfg.Logger,
		metrics: NewMetrics(cfg.Registry),
	}, nil
}

// Load replaces the quoter's pool universe.
func (q *Quoter) Load(u *Universe) {
	q.universe = u
	q.metrics.poolsLoaded.Set(float64(len(u.Pools)))
	q.logger.Info("universe loaded",
		"chainId", u.ChainID,
		"block", u.BlockNumber,
		"pools", len(u.Pools),
		"tokens", len(u.Tokens),
	)
}

// Universe returns the currently loaded universe, or nil.
func (q *Quoter) Universe() *Universe { return q.universe }

func (q *Quoter) searchOptions() amm.BestTradeOptions {
	return amm.BestTradeOptions{
		MaxNumResults: q.cfg.MaxNumResults,
		MaxHops:       q.cfg.MaxHops,
		OnPoolSkipped: func(pool *amm.Pool) {
			q.metrics.candidatesSkipped.Inc()
			q.logger.Debug("pool skipped, insufficient liquidity", "pool", pool.Key())
		},
	}
}

// BestExactIn finds the best trades swapping a fixed input amount into
// the output currency.
func (q *Quoter) BestExactIn(ctx context.Context, amountIn *tokens.CurrencyAmount, currencyOut tokens.Currency) ([]*amm.Trade, error) {
	if q.universe == nil {
		return nil, errors.New("quoter: no universe loaded")
	}

	start := time.Now()
	trades, err := amm.BestTradeExactIn(ctx, q.universe.Pools, amountIn, currencyOut, q.searchOptions())
	q.metrics.searchDuration.WithLabelValues(amm.ExactInput.String()).Observe(time.Since(start).Seconds())
	if err != nil {
		q.metrics.searchesTotal.WithLabelValues(amm.ExactInput.String(), "error").Inc()
		return nil, fmt.Errorf("exact-in search: %w", err)
	}
	if len(trades) == 0 {
		q.metrics.searchesTotal.WithLabelValues(amm.ExactInput.String(), "no_route").Inc()
		return nil, fmt.Errorf("%w: %s -> %s", ErrNoRouteFound, amountIn.Currency().Symbol(), currencyOut.Symbol())
	}

	q.metrics.searchesTotal.WithLabelValues(amm.ExactInput.String(), "ok").Inc()
	q.logger.Info("exact-in quote",
		"in", amountIn.Currency().Symbol(),
		"out", currencyOut.Symbol(),
		"routes", len(trades),
		"bestOutput", trades[0].OutputAmount().ToExact(),
		"durationMs", time.Since(start).Milliseconds(),
	)
	return trades, nil
}

// BestExactOut finds the best trades delivering a fixed output amount
// from the input currency.
func (q *Quoter) BestExactOut(ctx context.Context, currencyIn tokens.Currency, amountOut *tokens.CurrencyAmount) ([]*amm.Trade, error) {
	if q.universe == nil {
		return nil, errors.New("quoter: no universe loaded")
	}

	start := time.Now()
	trades, err := amm.BestTradeExactOut(ctx, q.universe.Pools, currencyIn, amountOut, q.searchOptions())
	q.metrics.searchDuration.WithLabelValues(amm.ExactOutput.String()).Observe(time.Since(start).Seconds())
	if err != nil {
		q.metrics.searchesTotal.WithLabelValues(amm.ExactOutput.String(), "error").Inc()
		return nil, fmt.Errorf("exact-out search: %w", err)
	}
	if len(trades) == 0 {
		q.metrics.searchesTotal.WithLabelValues(amm.ExactOutput.String(), "no_route").Inc()
		return nil, fmt.Errorf("%w: %s -> %s", ErrNoRouteFound, currencyIn.Symbol(), amountOut.Currency().Symbol())
	}

	q.metrics.searchesTotal.WithLabelValues(amm.ExactOutput.String(), "ok").Inc()
	q.logger.Info("exact-out quote",
		"in", currencyIn.Symbol(),
		"out", amountOut.Currency().Symbol(),
		"routes", len(trades),
		"bestInput", trades[0].InputAmount().ToExact(),
		"durationMs", time.Since(start).Milliseconds(),
	)
	return trades, nil
}
