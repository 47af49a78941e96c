package config

import (
	"fmt"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// Config holds configuration values loaded from flags, env, or config file.
type Config struct {
	Snapshot    string
	In          string
	Out         string
	Amount      string
	ExactOut    bool
	SlippageBps int64
	MaxHops     int
	MaxResults  int
	LogLevel    string
}

// Load merges config file, environment variables, and flags into Config.
func Load(cfgFile string, flags *pflag.FlagSet) (Config, error) {
	v := viper.New()
	v.SetEnvPrefix("QUOTER")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	v.SetDefault("slippage-bps", int64(50))
	v.SetDefault("max-hops", 3)
	v.SetDefault("max-results", 1)
	v.SetDefault("log-level", "info")

	if flags != nil {
		if err := v.BindPFlags(flags); err != nil {
			return Config{}, fmt.Errorf("bind flags: %w", err)
		}
	}

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	} else {
		v.SetConfigName("config")
		v.AddConfigPath(".")
		if err := v.ReadInConfig(); err != nil {
			if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
				return Config{}, fmt.Errorf("read config: %w", err)
			}
		}
	}

	cfg := Config{
		Snapshot:    v.GetString("snapshot"),
		In:          v.GetString("in"),
		Out:         v.GetString("out"),
		Amount:      v.GetString("amount"),
		ExactOut:    v.GetBool("exact-out"),
		SlippageBps: v.GetInt64("slippage-bps"),
		MaxHops:     v.GetInt("max-hops"),
		MaxResults:  v.GetInt("max-results"),
		LogLevel:    v.GetString("log-level"),
	}

	return cfg, nil
}
