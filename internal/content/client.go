// Package content wraps the curated content API. The upstream response
// nests per-token content arrays plus two singleton summaries; this package
// flattens that into a uniform item list and paginates it in memory.
package content

import (
	"context"
	"fmt"
	"strings"

	"solana-token-desk/internal/domain"
	"solana-token-desk/internal/gateway"
)

// FeedPageSize is the fixed page size of the flattened content feed.
const FeedPageSize = 50

// Client fetches curated token content.
type Client struct {
	gw *gateway.Client
}

// NewClient creates a content client on top of the shared gateway.
func NewClient(gw *gateway.Client) *Client {
	return &Client{gw: gw}
}

type rawSummary struct {
	Content   string   `json:"content"`
	Source    string   `json:"source"`
	Citations []string `json:"citations"`
	CreatedAt string   `json:"createdAt"`
	UpdatedAt string   `json:"updatedAt"`
}

type rawItem struct {
	ID          string   `json:"id"`
	Mint        string   `json:"mint"`
	Type        string   `json:"type"`
	Content     string   `json:"content"`
	SubmittedBy string   `json:"submittedBy"`
	Source      string   `json:"source"`
	Citations   []string `json:"citations"`
	CreatedAt   string   `json:"createdAt"`
	UpdatedAt   string   `json:"updatedAt"`
}

type rawTokenBlock struct {
	Mint         string      `json:"mint"`
	Contents     []rawItem   `json:"contents"`
	TokenSummary *rawSummary `json:"tokenSummary"`
	NewsSummary  *rawSummary `json:"newsSummary"`
}

type rawResponse struct {
	Data []rawTokenBlock `json:"data"`
}

// flatten promotes the per-token blocks into one uniform list. The two
// singleton summaries become synthetic items with deterministic ids so the
// token page can find them again. Entries with empty text are dropped.
func flatten(blocks []rawTokenBlock) []domain.TokenContent {
	var out []domain.TokenContent
	for _, block := range blocks {
		if s := block.TokenSummary; s != nil && strings.TrimSpace(s.Content) != "" {
			out = append(out, domain.TokenContent{
				ID:          block.Mint + "-token-summary",
				Mint:        block.Mint,
				Type:        domain.ContentTypeSummary,
				Content:     s.Content,
				SubmittedBy: "vrfd",
				Source:      s.Source,
				Citations:   s.Citations,
				CreatedAt:   s.CreatedAt,
				UpdatedAt:   s.UpdatedAt,
			})
		}
		if s := block.NewsSummary; s != nil && strings.TrimSpace(s.Content) != "" {
			out = append(out, domain.TokenContent{
				ID:          block.Mint + "-news-summary",
				Mint:        block.Mint,
				Type:        domain.ContentTypeNews,
				Content:     s.Content,
				SubmittedBy: "vrfd",
				Source:      s.Source,
				Citations:   s.Citations,
				CreatedAt:   s.CreatedAt,
				UpdatedAt:   s.UpdatedAt,
			})
		}
		for _, item := range block.Contents {
			if strings.TrimSpace(item.Content) == "" {
				continue
			}
			mint := item.Mint
			if mint == "" {
				mint = block.Mint
			}
			out = append(out, domain.TokenContent{
				ID:          item.ID,
				Mint:        mint,
				Type:        item.Type,
				Content:     item.Content,
				SubmittedBy: item.SubmittedBy,
				Source:      item.Source,
				Citations:   item.Citations,
				CreatedAt:   item.CreatedAt,
				UpdatedAt:   item.UpdatedAt,
			})
		}
	}
	return out
}

// ForMints returns all content items for the given mints, flattened.
// An empty mint list resolves immediately without a network call.
func (c *Client) ForMints(ctx context.Context, mints []string) ([]domain.TokenContent, error) {
	valid := make([]string, 0, len(mints))
	for _, m := range mints {
		if strings.TrimSpace(m) != "" {
			valid = append(valid, m)
		}
	}
	if len(valid) == 0 {
		return nil, nil
	}

	var resp rawResponse
	path := "/tokens/v2/content?mints=" + strings.Join(valid, ",")
	if err := c.gw.Get(ctx, path, &resp); err != nil {
		return nil, fmt.Errorf("fetch content: %w", err)
	}
	return flatten(resp.Data), nil
}

// FeedPage is one page of the flattened content feed.
type FeedPage struct {
	Items   []domain.TokenContent
	Page    int
	HasMore bool
}

// Feed returns one page of the content feed, optionally filtered by type.
// The upstream is fetched whole and paginated here at FeedPageSize, so
// requesting the same page twice yields identical items for stable data.
func (c *Client) Feed(ctx context.Context, page int, contentType string) (FeedPage, error) {
	if page < 1 {
		page = 1
	}

	var resp rawResponse
	if err := c.gw.Get(ctx, "/tokens/v2/content/feed", &resp); err != nil {
		return FeedPage{}, fmt.Errorf("fetch content feed: %w", err)
	}

	items := flatten(resp.Data)
	if contentType != "" && contentType != "all" {
		filtered := items[:0]
		for _, item := range items {
			if item.Type == contentType {
				filtered = append(filtered, item)
			}
		}
		items = filtered
	}

	start := (page - 1) * FeedPageSize
	if start >= len(items) {
		return FeedPage{Page: page}, nil
	}
	end := start + FeedPageSize
	if end > len(items) {
		end = len(items)
	}

	return FeedPage{
		Items:   items[start:end],
		Page:    page,
		HasMore: end < len(items),
	}, nil
}

// CookingToken is a trending token with its content.
type CookingToken struct {
	Mint    string
	Content []domain.TokenContent
}

// Cooking returns tokens currently trending with their content attached.
func (c *Client) Cooking(ctx context.Context) ([]CookingToken, error) {
	var resp rawResponse
	if err := c.gw.Get(ctx, "/tokens/v2/content/cooking", &resp); err != nil {
		return nil, fmt.Errorf("fetch cooking tokens: %w", err)
	}

	out := make([]CookingToken, 0, len(resp.Data))
	for _, block := range resp.Data {
		out = append(out, CookingToken{
			Mint:    block.Mint,
			Content: flatten([]rawTokenBlock{block}),
		})
	}
	return out, nil
}
