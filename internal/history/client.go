// Package history fetches historical price series for chart rendering.
//
// Two sources are chained: CoinGecko covers major tokens with per-contract
// market charts, and GeckoTerminal covers anything traded on a DEX via
// pool-level OHLCV. The pool address for the GeckoTerminal path is resolved
// through DexScreener. Both sources are free and keyless, so per-source
// failures are expected and the chain degrades to an empty series.
package history

import (
	"context"
	"fmt"
	"strings"

	"solana-token-desk/internal/domain"
	"solana-token-desk/internal/gateway"
)

const maxCandles = 100

// Client resolves historical prices across the source chain.
type Client struct {
	coingecko     *gateway.Client
	dexscreener   *gateway.Client
	geckoterminal *gateway.Client
}

// NewClient builds a history client from per-source gateways.
func NewClient(coingecko, dexscreener, geckoterminal *gateway.Client) *Client {
	return &Client{
		coingecko:     coingecko,
		dexscreener:   dexscreener,
		geckoterminal: geckoterminal,
	}
}

// Prices returns the USD price series for a mint covering the given number
// of days, oldest point first. An empty slice with a nil error means no
// source had data for the token.
func (c *Client) Prices(ctx context.Context, mint string, days int) ([]domain.PricePoint, error) {
	if strings.TrimSpace(mint) == "" {
		return nil, fmt.Errorf("mint is required")
	}
	if days < 1 {
		days = 1
	}

	if points := c.fromCoinGecko(ctx, mint, days); len(points) > 0 {
		return points, nil
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if points := c.fromGeckoTerminal(ctx, mint, days); len(points) > 0 {
		return points, nil
	}
	return []domain.PricePoint{}, ctx.Err()
}

func (c *Client) fromCoinGecko(ctx context.Context, mint string, days int) []domain.PricePoint {
	var resp struct {
		Prices [][2]float64 `json:"prices"`
	}
	path := fmt.Sprintf("/api/v3/coins/solana/contract/%s/market_chart?vs_currency=usd&days=%d", mint, days)
	if err := c.coingecko.Get(ctx, path, &resp); err != nil {
		return nil
	}

	points := make([]domain.PricePoint, 0, len(resp.Prices))
	for _, p := range resp.Prices {
		points = append(points, domain.PricePoint{
			TimestampMs: int64(p[0]),
			Price:       p[1],
		})
	}
	return points
}

func (c *Client) fromGeckoTerminal(ctx context.Context, mint string, days int) []domain.PricePoint {
	pool := c.findPool(ctx, mint)
	if pool == "" {
		return nil
	}

	timeframe := "day"
	limit := days * 24
	if days <= 1 {
		timeframe = "hour"
		limit = 24
	}
	if limit > maxCandles {
		limit = maxCandles
	}

	var resp struct {
		Data struct {
			Attributes struct {
				OhlcvList [][6]float64 `json:"ohlcv_list"`
			} `json:"attributes"`
		} `json:"data"`
	}
	path := fmt.Sprintf("/api/v2/networks/solana/pools/%s/ohlcv/%s?aggregate=1&limit=%d", pool, timeframe, limit)
	if err := c.geckoterminal.Get(ctx, path, &resp); err != nil {
		return nil
	}

	candles := resp.Data.Attributes.OhlcvList
	if len(candles) == 0 {
		return nil
	}

	// Candles arrive newest first as [timestamp, open, high, low, close,
	// volume] with second-resolution timestamps. Reverse into chronological
	// order and chart the close.
	points := make([]domain.PricePoint, 0, len(candles))
	for i := len(candles) - 1; i >= 0; i-- {
		points = append(points, domain.PricePoint{
			TimestampMs: int64(candles[i][0]) * 1000,
			Price:       candles[i][4],
		})
	}
	return points
}

// findPool returns the most liquid pair address for a mint, or "" when the
// token has no indexed pools. DexScreener orders pairs by liquidity.
func (c *Client) findPool(ctx context.Context, mint string) string {
	var resp struct {
		Pairs []struct {
			PairAddress string `json:"pairAddress"`
		} `json:"pairs"`
	}
	if err := c.dexscreener.Get(ctx, "/latest/dex/tokens/"+mint, &resp); err != nil {
		return ""
	}
	if len(resp.Pairs) == 0 {
		return ""
	}
	return resp.Pairs[0].PairAddress
}
