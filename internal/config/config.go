// Package config builds the process configuration once at startup.
// Values merge from flags, DESK_* environment variables, and an optional
// config file; the resulting struct is passed by reference into
// constructors instead of reading the environment at call sites.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// Default upstream endpoints.
const (
	DefaultJupiterBaseURL       = "https://api.jup.ag"
	DefaultPMBaseURL            = "https://prediction-market-api.jup.ag"
	DefaultSolanaRPC            = "https://api.mainnet-beta.solana.com"
	DefaultCoinGeckoBaseURL     = "https://api.coingecko.com"
	DefaultDexScreenerBaseURL   = "https://api.dexscreener.com"
	DefaultGeckoTerminalBaseURL = "https://api.geckoterminal.com"
)

// Config holds all settings for the dashboard server.
type Config struct {
	ListenAddr string

	JupiterBaseURL string
	JupiterAPIKey  string
	PMBaseURL      string

	SolanaRPCEndpoint string
	SolanaWSEndpoint  string

	CoinGeckoBaseURL     string
	DexScreenerBaseURL   string
	GeckoTerminalBaseURL string

	UpstreamTimeout time.Duration
	MaxRetries      int

	LogLevel string
}

// Load merges config file, environment variables, and flags into a Config.
func Load(cfgFile string, flags *pflag.FlagSet) (Config, error) {
	v := viper.New()
	v.SetEnvPrefix("DESK")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	v.SetDefault("listen-addr", ":8080")
	v.SetDefault("jupiter-base-url", DefaultJupiterBaseURL)
	v.SetDefault("pm-base-url", DefaultPMBaseURL)
	v.SetDefault("solana-rpc-endpoint", DefaultSolanaRPC)
	v.SetDefault("coingecko-base-url", DefaultCoinGeckoBaseURL)
	v.SetDefault("dexscreener-base-url", DefaultDexScreenerBaseURL)
	v.SetDefault("geckoterminal-base-url", DefaultGeckoTerminalBaseURL)
	v.SetDefault("upstream-timeout", "15s")
	v.SetDefault("max-retries", 3)
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
		ListenAddr:        v.GetString("listen-addr"),
		JupiterBaseURL:    v.GetString("jupiter-base-url"),
		JupiterAPIKey:     v.GetString("jupiter-api-key"),
		PMBaseURL:         v.GetString("pm-base-url"),
		SolanaRPCEndpoint: v.GetString("solana-rpc-endpoint"),
		SolanaWSEndpoint:  v.GetString("solana-ws-endpoint"),

		CoinGeckoBaseURL:     v.GetString("coingecko-base-url"),
		DexScreenerBaseURL:   v.GetString("dexscreener-base-url"),
		GeckoTerminalBaseURL: v.GetString("geckoterminal-base-url"),

		UpstreamTimeout: v.GetDuration("upstream-timeout"),
		MaxRetries:      v.GetInt("max-retries"),
		LogLevel:        v.GetString("log-level"),
	}

	return cfg, cfg.validate()
}

func (c Config) validate() error {
	if c.ListenAddr == "" {
		return fmt.Errorf("listen addr is required")
	}
	if c.JupiterBaseURL == "" {
		return fmt.Errorf("jupiter base url is required")
	}
	if c.PMBaseURL == "" {
		return fmt.Errorf("prediction market base url is required")
	}
	if c.UpstreamTimeout <= 0 {
		return fmt.Errorf("upstream timeout must be positive")
	}
	if c.MaxRetries < 0 {
		return fmt.Errorf("max retries must not be negative")
	}
	return nil
}
