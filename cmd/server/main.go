// Command server runs the token dashboard: server-rendered pages plus the
// JSON API, over the Jupiter token, price, content, portfolio, prediction
// market and swap upstreams.
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"solana-token-desk/internal/config"
	"solana-token-desk/internal/content"
	"solana-token-desk/internal/gateway"
	"solana-token-desk/internal/history"
	"solana-token-desk/internal/portfolio"
	"solana-token-desk/internal/predictions"
	"solana-token-desk/internal/price"
	"solana-token-desk/internal/solana"
	"solana-token-desk/internal/tokens"
	"solana-token-desk/internal/trade"
	"solana-token-desk/internal/ultra"
	"solana-token-desk/internal/web"
)

func main() {
	var cfgFile string

	cmd := &cobra.Command{
		Use:          "server",
		Short:        "Solana token research and trading dashboard",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(cfgFile, cmd.Flags())
			if err != nil {
				return err
			}
			return run(cfg)
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&cfgFile, "config", "", "config file path")
	flags.String("listen-addr", ":8080", "HTTP listen address")
	flags.String("jupiter-base-url", config.DefaultJupiterBaseURL, "Jupiter API base URL")
	flags.String("jupiter-api-key", "", "Jupiter API key")
	flags.String("pm-base-url", config.DefaultPMBaseURL, "prediction market API base URL")
	flags.String("solana-rpc-endpoint", config.DefaultSolanaRPC, "Solana JSON-RPC endpoint")
	flags.String("solana-ws-endpoint", "", "Solana WebSocket endpoint (optional, enables push confirmation)")
	flags.Duration("upstream-timeout", 15*time.Second, "per-request upstream timeout")
	flags.Int("max-retries", 3, "upstream retry attempts")
	flags.String("log-level", "info", "log level (debug|info|warn|error)")

	// Missing .env is fine, the environment may be set directly
	_ = godotenv.Load()

	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func run(cfg config.Config) error {
	logger, err := newLogger(cfg.LogLevel)
	if err != nil {
		return err
	}
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	jupiter := gateway.New("jupiter", cfg.JupiterBaseURL,
		gateway.WithAPIKey(cfg.JupiterAPIKey),
		gateway.WithTimeout(cfg.UpstreamTimeout),
		gateway.WithMaxRetries(cfg.MaxRetries),
	)
	pm := gateway.New("predictions", cfg.PMBaseURL,
		gateway.WithTimeout(cfg.UpstreamTimeout),
		gateway.WithMaxRetries(cfg.MaxRetries),
	)

	pmClient := predictions.NewClient(pm)
	rpc := solana.NewHTTPClient(cfg.SolanaRPCEndpoint,
		solana.WithTimeout(cfg.UpstreamTimeout),
		solana.WithMaxRetries(cfg.MaxRetries),
	)

	tradeOpts := []trade.Option{trade.WithLogger(logger)}
	if cfg.SolanaWSEndpoint != "" {
		ws, err := solana.NewWSClient(ctx, cfg.SolanaWSEndpoint, nil)
		if err != nil {
			// Confirmation falls back to polling
			logger.Warn("websocket connect failed", zap.Error(err))
		} else {
			defer ws.Close()
			tradeOpts = append(tradeOpts, trade.WithWSClient(ws))
		}
	}
	trader := trade.NewOrchestrator(pmClient, rpc, nil, tradeOpts...)

	server, err := web.NewServer(web.Deps{
		Logger:      logger,
		Tokens:      tokens.NewClient(jupiter),
		Prices:      price.NewClient(jupiter),
		Content:     content.NewClient(jupiter),
		Portfolio:   portfolio.NewClient(jupiter),
		Predictions: pmClient,
		History: history.NewClient(
			gateway.New("coingecko", cfg.CoinGeckoBaseURL, gateway.WithTimeout(cfg.UpstreamTimeout)),
			gateway.New("dexscreener", cfg.DexScreenerBaseURL, gateway.WithTimeout(cfg.UpstreamTimeout)),
			gateway.New("geckoterminal", cfg.GeckoTerminalBaseURL, gateway.WithTimeout(cfg.UpstreamTimeout)),
		),
		Swaps:  ultra.NewClient(jupiter),
		Trader: trader,
	})
	if err != nil {
		return fmt.Errorf("build server: %w", err)
	}

	httpServer := &http.Server{
		Addr:         cfg.ListenAddr,
		Handler:      server.Routes(),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 2 * time.Minute,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("listening", zap.String("addr", cfg.ListenAddr))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("serve: %w", err)
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	return httpServer.Shutdown(shutdownCtx)
}

func newLogger(level string) (*zap.Logger, error) {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return nil, fmt.Errorf("parse log level: %w", err)
	}
	zcfg := zap.NewProductionConfig()
	zcfg.Level = zap.NewAtomicLevelAt(lvl)
	return zcfg.Build()
}
