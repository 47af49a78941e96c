package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"math/big"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/ethereum/go-ethereum/common"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/defistate/clmm-sdk-go/amm"
	"github.com/defistate/clmm-sdk-go/cmd/quoter/config"
	"github.com/defistate/clmm-sdk-go/fractions"
	"github.com/defistate/clmm-sdk-go/quoter"
	"github.com/defistate/clmm-sdk-go/tokens"
)

func main() {
	root := &cobra.Command{
		Use:          "quoter",
		Short:        "Concentrated-liquidity route quoter",
		SilenceUsage: true,
	}

	root.PersistentFlags().String("config", "", "config file path")

	quoteCmd := &cobra.Command{
		Use:   "quote",
		Short: "Quote the best route through a pool snapshot",
		RunE:  runQuote,
	}

	quoteCmd.Flags().String("snapshot", "", "pool snapshot JSON path")
	quoteCmd.Flags().String("in", "", "input token symbol or address")
	quoteCmd.Flags().String("out", "", "output token symbol or address")
	quoteCmd.Flags().String("amount", "", "raw amount in the smallest unit")
	quoteCmd.Flags().Bool("exact-out", false, "treat amount as the desired output")
	quoteCmd.Flags().Int64("slippage-bps", 50, "slippage tolerance in basis points")
	quoteCmd.Flags().Int("max-hops", 3, "maximum pools per route")
	quoteCmd.Flags().Int("max-results", 1, "number of ranked routes to return")
	quoteCmd.Flags().String("log-level", "info", "log level (debug, info, warn, error)")

	root.AddCommand(quoteCmd)

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

// quoteResult is the printed shape of one ranked trade.
type quoteResult struct {
	Path           []string `json:"path"`
	Pools          []string `json:"pools"`
	AmountIn       string   `json:"amountIn"`
	AmountOut      string   `json:"amountOut"`
	ExecutionPrice string   `json:"executionPrice"`
	PriceImpact    string   `json:"priceImpact"`
	MinimumOut     string   `json:"minimumOut,omitempty"`
	MaximumIn      string   `json:"maximumIn,omitempty"`
}

func runQuote(cmd *cobra.Command, _ []string) error {
	cfgFile, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(cfgFile, cmd.Flags())
	if err != nil {
		return err
	}

	logger, err := newLogger(cfg.LogLevel)
	if err != nil {
		return err
	}

	if cfg.Snapshot == "" {
		return fmt.Errorf("snapshot path is required")
	}
	if cfg.In == "" || cfg.Out == "" {
		return fmt.Errorf("both --in and --out tokens are required")
	}
	amount, ok := new(big.Int).SetString(cfg.Amount, 10)
	if !ok || amount.Sign() <= 0 {
		return fmt.Errorf("amount must be a positive integer, got %q", cfg.Amount)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	data, err := os.ReadFile(cfg.Snapshot)
	if err != nil {
		return fmt.Errorf("read snapshot: %w", err)
	}
	universe, err := quoter.DecodeSnapshot(data)
	if err != nil {
		return err
	}

	tokenIn, err := resolveToken(universe, cfg.In)
	if err != nil {
		return err
	}
	tokenOut, err := resolveToken(universe, cfg.Out)
	if err != nil {
		return err
	}

	q, err := quoter.New(quoter.Config{
		Logger:        logger.With("component", "quoter"),
		Registry:      prometheus.DefaultRegisterer,
		MaxHops:       cfg.MaxHops,
		MaxNumResults: cfg.MaxResults,
	})
	if err != nil {
		return err
	}
	q.Load(universe)

	slippage := fractions.NewPercentFromBps(cfg.SlippageBps)

	var trades []*amm.Trade
	if cfg.ExactOut {
		trades, err = q.BestExactOut(ctx, tokenIn, tokens.FromRawAmount(tokenOut, amount))
	} else {
		trades, err = q.BestExactIn(ctx, tokens.FromRawAmount(tokenIn, amount), tokenOut)
	}
	if err != nil {
		return err
	}

	results := make([]quoteResult, 0, len(trades))
	for _, trade := range trades {
		r, err := renderTrade(trade, slippage)
		if err != nil {
			return err
		}
		results = append(results, r)
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(results)
}

func renderTrade(trade *amm.Trade, slippage *fractions.Percent) (quoteResult, error) {
	route := trade.Swaps[0].Route
	path := make([]string, len(route.TokenPath))
	for i, token := range route.TokenPath {
		path[i] = token.Symbol()
	}
	pools := make([]string, len(route.Pools))
	for i, pool := range route.Pools {
		pools[i] = pool.Key()
	}

	result := quoteResult{
		Path:           path,
		Pools:          pools,
		AmountIn:       trade.InputAmount().ToExact(),
		AmountOut:      trade.OutputAmount().ToExact(),
		ExecutionPrice: trade.ExecutionPrice().ToSignificant(6, fractions.RoundHalfUp),
		PriceImpact:    trade.PriceImpact().ToSignificant(4, fractions.RoundHalfUp) + "%",
	}

	if trade.TradeType == amm.ExactInput {
		minOut, err := trade.MinimumAmountOut(slippage)
		if err != nil {
			return quoteResult{}, err
		}
		result.MinimumOut = minOut.ToExact()
	} else {
		maxIn, err := trade.MaximumAmountIn(slippage)
		if err != nil {
			return quoteResult{}, err
		}
		result.MaximumIn = maxIn.ToExact()
	}
	return result, nil
}

// resolveToken matches by symbol first, then by either of the token's
// addresses.
func resolveToken(universe *quoter.Universe, key string) (*tokens.Token, error) {
	for _, token := range universe.Tokens {
		if strings.EqualFold(token.Symbol(), key) {
			return token, nil
		}
	}
	if common.IsHexAddress(key) {
		addr := common.HexToAddress(key)
		for _, token := range universe.Tokens {
			if token.Address0() == addr || token.Address1() == addr {
				return token, nil
			}
		}
	}
	return nil, fmt.Errorf("token %q not found in snapshot", key)
}

func newLogger(level string) (*slog.Logger, error) {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		return nil, err
	}
	handler := slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: lvl})
	return slog.New(handler), nil
}
