// Package tokens wraps the tokens API: search, category and tag listings,
// recent tokens, and single-token lookup. Responses pass through one
// normalization boundary that yields domain.TokenInfo records.
package tokens

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"

	"solana-token-desk/internal/domain"
	"solana-token-desk/internal/gateway"
)

// Client fetches token listings.
type Client struct {
	gw *gateway.Client
}

// NewClient creates a tokens client on top of the shared gateway.
func NewClient(gw *gateway.Client) *Client {
	return &Client{gw: gw}
}

// Search finds tokens by name, symbol, or mint address. A blank query
// short-circuits to an empty list without a network call.
func (c *Client) Search(ctx context.Context, query string) ([]domain.TokenInfo, error) {
	if strings.TrimSpace(query) == "" {
		return nil, nil
	}

	var payload json.RawMessage
	path := "/tokens/v2/search?query=" + url.QueryEscape(query)
	if err := c.gw.Get(ctx, path, &payload); err != nil {
		return nil, fmt.Errorf("search tokens: %w", err)
	}
	return normalizeList(payload)
}

// ByCategory lists tokens for a category over an interval.
func (c *Client) ByCategory(ctx context.Context, category, interval string, limit int) ([]domain.TokenInfo, error) {
	if interval == "" {
		interval = domain.Interval5m
	}
	if limit <= 0 {
		limit = 50
	}

	var payload json.RawMessage
	path := fmt.Sprintf("/tokens/v2/%s/%s?limit=%d", url.PathEscape(category), url.PathEscape(interval), limit)
	if err := c.gw.Get(ctx, path, &payload); err != nil {
		return nil, fmt.Errorf("tokens by category: %w", err)
	}
	return normalizeList(payload)
}

// ByTag lists tokens carrying a tag ("verified", "lst").
func (c *Client) ByTag(ctx context.Context, tag string) ([]domain.TokenInfo, error) {
	var payload json.RawMessage
	path := "/tokens/v2/tag?query=" + url.QueryEscape(tag)
	if err := c.gw.Get(ctx, path, &payload); err != nil {
		return nil, fmt.Errorf("tokens by tag: %w", err)
	}
	return normalizeList(payload)
}

// Recent lists recently created tokens.
func (c *Client) Recent(ctx context.Context) ([]domain.TokenInfo, error) {
	var payload json.RawMessage
	if err := c.gw.Get(ctx, "/tokens/v2/recent", &payload); err != nil {
		return nil, fmt.Errorf("recent tokens: %w", err)
	}
	return normalizeList(payload)
}

// Info looks up one token by mint. Returns nil when the mint is blank or
// the search result does not contain it.
func (c *Client) Info(ctx context.Context, mint string) (*domain.TokenInfo, error) {
	if strings.TrimSpace(mint) == "" {
		return nil, nil
	}

	list, err := c.Search(ctx, mint)
	if err != nil {
		return nil, err
	}
	for i := range list {
		if list[i].Mint == mint {
			return &list[i], nil
		}
	}
	return nil, nil
}
