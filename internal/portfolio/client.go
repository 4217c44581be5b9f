// Package portfolio wraps the portfolio positions API. Positions only
// exist while a wallet is connected; nothing is stored.
package portfolio

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"solana-token-desk/internal/domain"
	"solana-token-desk/internal/gateway"
)

// Client fetches wallet positions.
type Client struct {
	gw *gateway.Client
}

// NewClient creates a portfolio client on top of the shared gateway.
func NewClient(gw *gateway.Client) *Client {
	return &Client{gw: gw}
}

type rawPrediction struct {
	SideName          string  `json:"sideName"`
	Size              float64 `json:"size"`
	EntryPrice        float64 `json:"entryPrice"`
	MarkPrice         float64 `json:"markPrice"`
	FeesPaidValue     float64 `json:"feesPaidValue"`
	PnlAfterFeesValue float64 `json:"pnlAfterFeesValue"`
	CreatedAt         string  `json:"createdAt"`
	Market            struct {
		EventTitle string `json:"eventTitle"`
		CloseTime  int64  `json:"closeTime"`
	} `json:"market"`
}

type rawAsset struct {
	ImageURI   string `json:"imageUri"`
	Link       string `json:"link"`
	Attributes struct {
		Prediction *rawPrediction `json:"prediction"`
	} `json:"attributes"`
}

type rawElement struct {
	PlatformID    string  `json:"platformId"`
	PlatformName  string  `json:"platformName"`
	PlatformImage string  `json:"platformImage"`
	Type          string  `json:"type"`
	Label         string  `json:"label"`
	Value         float64 `json:"value"`
	Data          struct {
		Assets []rawAsset `json:"assets"`
	} `json:"data"`
}

type rawPositions struct {
	Date       int64        `json:"date"`
	Owner      string       `json:"owner"`
	Elements   []rawElement `json:"elements"`
	TotalValue float64      `json:"totalValue"`
}

// Positions returns the portfolio for a wallet. Total value uses the
// upstream figure when present, otherwise the sum of element values; PnL
// is always summed locally from nested prediction positions.
func (c *Client) Positions(ctx context.Context, address string) (domain.Portfolio, error) {
	if strings.TrimSpace(address) == "" {
		return domain.Portfolio{}, fmt.Errorf("wallet address is required")
	}

	var raw rawPositions
	path := "/portfolio/v1/positions/" + url.PathEscape(address)
	if err := c.gw.Get(ctx, path, &raw); err != nil {
		return domain.Portfolio{}, fmt.Errorf("fetch positions: %w", err)
	}

	p := domain.Portfolio{
		Owner: raw.Owner,
		Date:  raw.Date,
	}
	if p.Owner == "" {
		p.Owner = address
	}

	var summed float64
	for _, el := range raw.Elements {
		element := domain.PortfolioElement{
			PlatformID:    el.PlatformID,
			PlatformName:  el.PlatformName,
			PlatformImage: el.PlatformImage,
			Type:          el.Type,
			Label:         el.Label,
			Value:         el.Value,
		}
		for _, a := range el.Data.Assets {
			asset := domain.PortfolioAsset{
				ImageURI: a.ImageURI,
				Link:     a.Link,
			}
			if pred := a.Attributes.Prediction; pred != nil {
				asset.Prediction = &domain.PredictionPosition{
					SideName:          pred.SideName,
					Size:              pred.Size,
					EntryPrice:        pred.EntryPrice,
					MarkPrice:         pred.MarkPrice,
					FeesPaidValue:     pred.FeesPaidValue,
					PnlAfterFeesValue: pred.PnlAfterFeesValue,
					EventTitle:        pred.Market.EventTitle,
					CloseTime:         pred.Market.CloseTime,
					CreatedAt:         pred.CreatedAt,
				}
				p.TotalPnl += pred.PnlAfterFeesValue
			}
			element.Assets = append(element.Assets, asset)
		}
		summed += el.Value
		p.Elements = append(p.Elements, element)
	}

	p.TotalValue = raw.TotalValue
	if p.TotalValue == 0 {
		p.TotalValue = summed
	}

	return p, nil
}

// Platform is one supported integration of the portfolio API.
type Platform struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Image string `json:"image"`
}

// Platforms lists integrations supported by the portfolio API.
func (c *Client) Platforms(ctx context.Context) ([]Platform, error) {
	var out []Platform
	if err := c.gw.Get(ctx, "/portfolio/v1/platforms", &out); err != nil {
		return nil, fmt.Errorf("fetch platforms: %w", err)
	}
	return out, nil
}
