package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("", nil)
	require.NoError(t, err)

	assert.Equal(t, int64(50), cfg.SlippageBps)
	assert.Equal(t, 3, cfg.MaxHops)
	assert.Equal(t, 1, cfg.MaxResults)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.False(t, cfg.ExactOut)
}

func TestLoadFlagsOverrideDefaults(t *testing.T) {
	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	flags.String("snapshot", "", "")
	flags.Int64("slippage-bps", 50, "")
	flags.Int("max-hops", 3, "")
	require.NoError(t, flags.Parse([]string{"--snapshot=pools.json", "--slippage-bps=10", "--max-hops=2"}))

	cfg, err := Load("", flags)
	require.NoError(t, err)
	assert.Equal(t, "pools.json", cfg.Snapshot)
	assert.Equal(t, int64(10), cfg.SlippageBps)
	assert.Equal(t, 2, cfg.MaxHops)
}

func TestLoadConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("in: WETH\nout: USDC\nmax-results: 4\n"), 0o644))

	cfg, err := Load(path, nil)
	require.NoError(t, err)
	assert.Equal(t, "WETH", cfg.In)
	assert.Equal(t, "USDC", cfg.Out)
	assert.Equal(t, 4, cfg.MaxResults)

	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"), nil)
	require.Error(t, err)
}

func TestLoadEnv(t *testing.T) {
	t.Setenv("QUOTER_LOG_LEVEL", "debug")
	cfg, err := Load("", nil)
	require.NoError(t, err)
	assert.Equal(t, "debug", cfg.LogLevel)
}
