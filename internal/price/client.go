// Package price wraps the price API. Prices come back keyed by mint; a
// missing key means "no price available" and must not be rendered as zero.
package price

import (
	"context"
	"fmt"
	"strings"

	"solana-token-desk/internal/domain"
	"solana-token-desk/internal/gateway"
)

// Client fetches current token prices.
type Client struct {
	gw *gateway.Client
}

// NewClient creates a price client on top of the shared gateway.
func NewClient(gw *gateway.Client) *Client {
	return &Client{gw: gw}
}

type rawPrice struct {
	UsdPrice       float64 `json:"usdPrice"`
	Decimals       int     `json:"decimals"`
	BlockID        int64   `json:"blockId"`
	PriceChange24h float64 `json:"priceChange24h"`
}

// Prices returns current prices for the given mints. Blank mints are
// filtered out first; an empty list resolves to an empty map without a
// network call, since the upstream rejects empty queries.
func (c *Client) Prices(ctx context.Context, mints []string) (domain.PriceMap, error) {
	valid := make([]string, 0, len(mints))
	for _, m := range mints {
		if strings.TrimSpace(m) != "" {
			valid = append(valid, m)
		}
	}
	if len(valid) == 0 {
		return domain.PriceMap{}, nil
	}

	var raw map[string]rawPrice
	path := "/price/v3?ids=" + strings.Join(valid, ",")
	if err := c.gw.Get(ctx, path, &raw); err != nil {
		return nil, fmt.Errorf("fetch prices: %w", err)
	}

	out := make(domain.PriceMap, len(raw))
	for mint, p := range raw {
		out[mint] = domain.TokenPrice{
			UsdPrice:       p.UsdPrice,
			Decimals:       p.Decimals,
			BlockID:        p.BlockID,
			PriceChange24h: p.PriceChange24h,
		}
	}
	return out, nil
}

// Price returns the price for one mint, or nil when unavailable.
func (c *Client) Price(ctx context.Context, mint string) (*domain.TokenPrice, error) {
	prices, err := c.Prices(ctx, []string{mint})
	if err != nil {
		return nil, err
	}
	if p, ok := prices[mint]; ok {
		return &p, nil
	}
	return nil, nil
}
