// Package ultra wraps the swap API: quoting an order, executing a signed
// transaction, and wallet holdings. The quote carries an unsigned
// transaction only when a taker address was supplied.
package ultra

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"solana-token-desk/internal/domain"
	"solana-token-desk/internal/gateway"
)

// Client talks to the swap API.
type Client struct {
	gw *gateway.Client
}

// NewClient creates a swap client on top of the shared gateway.
func NewClient(gw *gateway.Client) *Client {
	return &Client{gw: gw}
}

// OrderParams describe one swap quote request. Amount is in raw input
// units; SlippageBps is the tolerance in basis points.
type OrderParams struct {
	InputMint   string
	OutputMint  string
	Amount      string
	SlippageBps int
	Taker       string // optional; without it the quote has no transaction
}

// Order requests a swap quote.
func (c *Client) Order(ctx context.Context, params OrderParams) (domain.SwapQuote, error) {
	if params.InputMint == "" || params.OutputMint == "" {
		return domain.SwapQuote{}, fmt.Errorf("input and output mints are required")
	}
	if strings.TrimSpace(params.Amount) == "" || params.Amount == "0" {
		return domain.SwapQuote{}, fmt.Errorf("amount is required")
	}

	body := map[string]interface{}{
		"inputMint":  params.InputMint,
		"outputMint": params.OutputMint,
		"amount":     params.Amount,
	}
	if params.SlippageBps > 0 {
		body["slippageBps"] = params.SlippageBps
	}
	if params.Taker != "" {
		body["userPublicKey"] = params.Taker
	}

	var resp struct {
		RequestID   string `json:"requestId"`
		Transaction string `json:"transaction"`
		InAmount    string `json:"inAmount"`
		OutAmount   string `json:"outAmount"`
		Message     string `json:"message"`
	}
	if err := c.gw.Post(ctx, "/ultra/v1/order", body, &resp); err != nil {
		return domain.SwapQuote{}, fmt.Errorf("swap order: %w", err)
	}

	return domain.SwapQuote{
		RequestID:   resp.RequestID,
		Transaction: resp.Transaction,
		InAmount:    resp.InAmount,
		OutAmount:   resp.OutAmount,
		Message:     resp.Message,
	}, nil
}

// Execute submits a signed transaction for a previously quoted order.
func (c *Client) Execute(ctx context.Context, signedTransaction, requestID string) (domain.SwapResult, error) {
	if signedTransaction == "" || requestID == "" {
		return domain.SwapResult{}, fmt.Errorf("signed transaction and request id are required")
	}

	body := map[string]string{
		"signedTransaction": signedTransaction,
		"requestId":         requestID,
	}
	var resp struct {
		Signature string `json:"signature"`
		Status    string `json:"status"`
	}
	if err := c.gw.Post(ctx, "/ultra/v1/execute", body, &resp); err != nil {
		return domain.SwapResult{}, fmt.Errorf("swap execute: %w", err)
	}
	return domain.SwapResult{Signature: resp.Signature, Status: resp.Status}, nil
}

// Holding is one token balance reported by the holdings endpoint.
type Holding struct {
	Mint   string `json:"mint"`
	Amount string `json:"amount"`
}

// Holdings lists token balances for a wallet.
func (c *Client) Holdings(ctx context.Context, address string) ([]Holding, error) {
	if strings.TrimSpace(address) == "" {
		return nil, nil
	}
	var out []Holding
	path := "/ultra/v1/holdings?address=" + url.QueryEscape(address)
	if err := c.gw.Get(ctx, path, &out); err != nil {
		return nil, fmt.Errorf("fetch holdings: %w", err)
	}
	return out, nil
}
