// Package predictions wraps the prediction market API: event listings,
// order creation, order status, and positions, plus the micro-dollar
// conversions the trading surface renders with.
package predictions

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"solana-token-desk/internal/domain"
	"solana-token-desk/internal/gateway"
)

// Client talks to the prediction market API.
type Client struct {
	gw *gateway.Client
}

// NewClient creates a predictions client on top of a gateway bound to the
// prediction market base URL.
func NewClient(gw *gateway.Client) *Client {
	return &Client{gw: gw}
}

type rawMarketMetadata struct {
	MarketID   string `json:"marketId"`
	Title      string `json:"title"`
	Subtitle   string `json:"subtitle"`
	Status     string `json:"status"`
	Result     string `json:"result"`
	OpenTime   int64  `json:"openTime"`
	CloseTime  int64  `json:"closeTime"`
	IsTradable bool   `json:"isTradable"`
}

type rawMarketPricing struct {
	BuyYesPriceUsd  *int64 `json:"buyYesPriceUsd"`
	BuyNoPriceUsd   *int64 `json:"buyNoPriceUsd"`
	SellYesPriceUsd *int64 `json:"sellYesPriceUsd"`
	SellNoPriceUsd  *int64 `json:"sellNoPriceUsd"`
	Volume          int64  `json:"volume"`
	Volume24h       int64  `json:"volume24h"`
}

type rawMarket struct {
	MarketID  string            `json:"marketId"`
	Event     string            `json:"event"`
	Status    string            `json:"status"`
	Result    string            `json:"result"`
	OpenTime  int64             `json:"openTime"`
	CloseTime int64             `json:"closeTime"`
	Metadata  rawMarketMetadata `json:"metadata"`
	Pricing   rawMarketPricing  `json:"pricing"`
}

type rawEventMetadata struct {
	EventID  string `json:"eventId"`
	Title    string `json:"title"`
	Subtitle string `json:"subtitle"`
	ImageURL string `json:"imageUrl"`
}

type rawEvent struct {
	EventID     string           `json:"eventId"`
	Series      string           `json:"series"`
	IsActive    bool             `json:"isActive"`
	IsLive      bool             `json:"isLive"`
	Category    string           `json:"category"`
	Subcategory string           `json:"subcategory"`
	Metadata    rawEventMetadata `json:"metadata"`
	Markets     []rawMarket      `json:"markets"`
	TvlDollars  string           `json:"tvlDollars"`
	VolumeUsd   string           `json:"volumeUsd"`
}

type rawEventsResponse struct {
	Data []rawEvent `json:"data"`
}

func (r rawEvent) normalize() domain.PMEvent {
	e := domain.PMEvent{
		EventID:     r.EventID,
		Title:       r.Metadata.Title,
		Subtitle:    r.Metadata.Subtitle,
		ImageURL:    r.Metadata.ImageURL,
		Series:      r.Series,
		Category:    r.Category,
		Subcategory: r.Subcategory,
		IsActive:    r.IsActive,
		IsLive:      r.IsLive,
		TvlDollars:  r.TvlDollars,
		VolumeUsd:   r.VolumeUsd,
	}
	for _, m := range r.Markets {
		e.Markets = append(e.Markets, domain.PMMarket{
			MarketID:  m.MarketID,
			EventID:   m.Event,
			Status:    m.Status,
			Result:    m.Result,
			OpenTime:  m.OpenTime,
			CloseTime: m.CloseTime,
			Metadata: domain.PMMarketMetadata{
				MarketID:   m.Metadata.MarketID,
				Title:      m.Metadata.Title,
				Subtitle:   m.Metadata.Subtitle,
				Status:     m.Metadata.Status,
				Result:     m.Metadata.Result,
				OpenTime:   m.Metadata.OpenTime,
				CloseTime:  m.Metadata.CloseTime,
				IsTradable: m.Metadata.IsTradable,
			},
			Pricing: domain.PMMarketPricing{
				BuyYesPriceUsd:  m.Pricing.BuyYesPriceUsd,
				BuyNoPriceUsd:   m.Pricing.BuyNoPriceUsd,
				SellYesPriceUsd: m.Pricing.SellYesPriceUsd,
				SellNoPriceUsd:  m.Pricing.SellNoPriceUsd,
				Volume:          m.Pricing.Volume,
				Volume24h:       m.Pricing.Volume24h,
			},
		})
	}
	return e
}

// EventsByCategory lists events for a category, filtered to active events
// that still have at least one orderable market.
func (c *Client) EventsByCategory(ctx context.Context, category string, limit int) ([]domain.PMEvent, error) {
	if category == "" {
		category = domain.PMCategoryAll
	}
	if limit <= 0 {
		limit = 10
	}

	var resp rawEventsResponse
	path := fmt.Sprintf("/api/v1/events?category=%s&limit=%d", url.QueryEscape(category), limit)
	if err := c.gw.Get(ctx, path, &resp); err != nil {
		return nil, fmt.Errorf("fetch events: %w", err)
	}

	var out []domain.PMEvent
	for _, raw := range resp.Data {
		event := raw.normalize()
		if event.IsActive && event.HasOrderableMarket() {
			out = append(out, event)
		}
	}
	return out, nil
}

// Search matches events by title.
func (c *Client) Search(ctx context.Context, query string) ([]domain.PMEvent, error) {
	if strings.TrimSpace(query) == "" {
		return nil, nil
	}

	var resp rawEventsResponse
	path := "/api/v1/events/search?query=" + url.QueryEscape(query) + "&limit=10"
	if err := c.gw.Get(ctx, path, &resp); err != nil {
		return nil, fmt.Errorf("search events: %w", err)
	}

	out := make([]domain.PMEvent, 0, len(resp.Data))
	for _, raw := range resp.Data {
		out = append(out, raw.normalize())
	}
	return out, nil
}

// Event fetches one event by id. Returns nil when not found.
func (c *Client) Event(ctx context.Context, eventID string) (*domain.PMEvent, error) {
	var resp struct {
		Data *rawEvent `json:"data"`
	}
	path := "/api/v1/events/" + url.PathEscape(eventID)
	err := c.gw.Get(ctx, path, &resp)
	if err != nil {
		var apiErr *gateway.APIError
		if errors.As(err, &apiErr) && apiErr.Status == 404 {
			return nil, nil
		}
		return nil, fmt.Errorf("fetch event: %w", err)
	}
	if resp.Data == nil {
		return nil, nil
	}
	event := resp.Data.normalize()
	return &event, nil
}

type rawOrderResponse struct {
	Transaction *string `json:"transaction"`
	TxMeta      *struct {
		Blockhash            string `json:"blockhash"`
		LastValidBlockHeight uint64 `json:"lastValidBlockHeight"`
	} `json:"txMeta"`
	ExternalOrderID *string `json:"externalOrderId"`
	Order           struct {
		OrderPubkey  *string `json:"orderPubkey"`
		OrderCostUsd string  `json:"orderCostUsd"`
		NewPayoutUsd string  `json:"newPayoutUsd"`
	} `json:"order"`
}

// CreateOrder posts an order request and returns the unsigned transaction
// with its confirmation metadata. Never retried.
func (c *Client) CreateOrder(ctx context.Context, req domain.PMOrderRequest) (domain.PMOrder, error) {
	if req.OwnerPubkey == "" || req.MarketID == "" {
		return domain.PMOrder{}, fmt.Errorf("ownerPubkey and marketId are required")
	}

	body := map[string]interface{}{
		"ownerPubkey": req.OwnerPubkey,
		"marketId":    req.MarketID,
		"isYes":       req.IsYes,
		"isBuy":       req.IsBuy,
		"contracts":   req.Contracts,
	}
	if req.MaxBuyPriceUsd > 0 {
		body["maxBuyPriceUsd"] = req.MaxBuyPriceUsd
	}
	if req.DepositAmount > 0 {
		body["depositAmount"] = req.DepositAmount
	}

	var resp rawOrderResponse
	if err := c.gw.Post(ctx, "/api/v1/orders", body, &resp); err != nil {
		return domain.PMOrder{}, fmt.Errorf("create order: %w", err)
	}

	order := domain.PMOrder{
		OrderCostUsd: resp.Order.OrderCostUsd,
		NewPayoutUsd: resp.Order.NewPayoutUsd,
	}
	if resp.Transaction != nil {
		order.Transaction = *resp.Transaction
	}
	if resp.TxMeta != nil {
		order.TxMeta = &domain.TxMeta{
			Blockhash:            resp.TxMeta.Blockhash,
			LastValidBlockHeight: resp.TxMeta.LastValidBlockHeight,
		}
	}
	if resp.ExternalOrderID != nil {
		order.ExternalOrderID = *resp.ExternalOrderID
	}
	if resp.Order.OrderPubkey != nil {
		order.OrderPubkey = *resp.Order.OrderPubkey
	}
	return order, nil
}

// OrderStatus returns the lifecycle record of a submitted order.
func (c *Client) OrderStatus(ctx context.Context, orderPubkey string) (domain.PMOrderStatus, error) {
	var out struct {
		Pubkey       string `json:"pubkey"`
		Status       string `json:"status"`
		Owner        string `json:"owner"`
		MarketID     string `json:"marketId"`
		IsYes        bool   `json:"isYes"`
		IsBuy        bool   `json:"isBuy"`
		Contracts    string `json:"contracts"`
		FillPriceUsd string `json:"fillPriceUsd"`
		CreatedAt    int64  `json:"createdAt"`
		UpdatedAt    int64  `json:"updatedAt"`
	}
	path := "/api/v1/orders/status/" + url.PathEscape(orderPubkey)
	if err := c.gw.Get(ctx, path, &out); err != nil {
		return domain.PMOrderStatus{}, fmt.Errorf("fetch order status: %w", err)
	}
	return domain.PMOrderStatus{
		Pubkey:       out.Pubkey,
		Status:       out.Status,
		Owner:        out.Owner,
		MarketID:     out.MarketID,
		IsYes:        out.IsYes,
		IsBuy:        out.IsBuy,
		Contracts:    out.Contracts,
		FillPriceUsd: out.FillPriceUsd,
		CreatedAt:    out.CreatedAt,
		UpdatedAt:    out.UpdatedAt,
	}, nil
}

// PositionsByOwner returns open prediction positions for a wallet.
func (c *Client) PositionsByOwner(ctx context.Context, ownerPubkey string) ([]map[string]interface{}, error) {
	var resp struct {
		Data []map[string]interface{} `json:"data"`
	}
	path := "/api/v1/positions?ownerPubkey=" + url.QueryEscape(ownerPubkey)
	if err := c.gw.Get(ctx, path, &resp); err != nil {
		return nil, fmt.Errorf("fetch positions: %w", err)
	}
	return resp.Data, nil
}
