// Package web serves the dashboard: server-rendered pages over the domain
// fetchers plus a small JSON API consumed by the browser.
package web

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"

	"solana-token-desk/internal/content"
	"solana-token-desk/internal/domain"
	"solana-token-desk/internal/observability"
	"solana-token-desk/internal/trade"
	"solana-token-desk/internal/ultra"
	"solana-token-desk/internal/view"
)

// TokenFetcher lists and looks up tokens.
type TokenFetcher interface {
	Search(ctx context.Context, query string) ([]domain.TokenInfo, error)
	ByCategory(ctx context.Context, category, interval string, limit int) ([]domain.TokenInfo, error)
	Info(ctx context.Context, mint string) (*domain.TokenInfo, error)
}

// PriceFetcher resolves current prices by mint.
type PriceFetcher interface {
	Prices(ctx context.Context, mints []string) (domain.PriceMap, error)
}

// ContentFetcher serves the curated content feed.
type ContentFetcher interface {
	Feed(ctx context.Context, page int, contentType string) (content.FeedPage, error)
	ForMints(ctx context.Context, mints []string) ([]domain.TokenContent, error)
}

// PortfolioFetcher resolves wallet positions.
type PortfolioFetcher interface {
	Positions(ctx context.Context, address string) (domain.Portfolio, error)
}

// PredictionFetcher serves prediction-market events and orders.
type PredictionFetcher interface {
	EventsByCategory(ctx context.Context, category string, limit int) ([]domain.PMEvent, error)
	CreateOrder(ctx context.Context, req domain.PMOrderRequest) (domain.PMOrder, error)
	OrderStatus(ctx context.Context, orderPubkey string) (domain.PMOrderStatus, error)
}

// HistoryFetcher resolves historical price series for charts.
type HistoryFetcher interface {
	Prices(ctx context.Context, mint string, days int) ([]domain.PricePoint, error)
}

// SwapFetcher quotes and executes swaps.
type SwapFetcher interface {
	Order(ctx context.Context, params ultra.OrderParams) (domain.SwapQuote, error)
	Execute(ctx context.Context, signedTransaction, requestID string) (domain.SwapResult, error)
	Holdings(ctx context.Context, address string) ([]ultra.Holding, error)
}

// TradeSubmitter broadcasts wallet-signed transactions and waits for
// confirmation. Satisfied by trade.Orchestrator.
type TradeSubmitter interface {
	SubmitSigned(ctx context.Context, signedTxBase64 string, meta *domain.TxMeta) (string, error)
}

var _ TradeSubmitter = (*trade.Orchestrator)(nil)

// Deps bundles everything the server needs.
type Deps struct {
	Logger      *zap.Logger
	Tokens      TokenFetcher
	Prices      PriceFetcher
	Content     ContentFetcher
	Portfolio   PortfolioFetcher
	Predictions PredictionFetcher
	History     HistoryFetcher
	Swaps       SwapFetcher
	Trader      TradeSubmitter // optional, /api/pm/submit returns 503 when nil
}

// Server renders pages and serves the JSON API.
type Server struct {
	logger      *zap.Logger
	tokens      TokenFetcher
	prices      PriceFetcher
	content     ContentFetcher
	portfolio   PortfolioFetcher
	predictions PredictionFetcher
	history     HistoryFetcher
	swaps       SwapFetcher
	trader      TradeSubmitter

	searchCtrl  *view.Controller[view.SearchParams, []tokenRow]
	contentCtrl *view.Controller[view.ContentParams, content.FeedPage]

	tmpl    pageTemplates
	started time.Time
}

// NewServer wires a server from its dependencies.
func NewServer(deps Deps) (*Server, error) {
	if deps.Logger == nil {
		deps.Logger = zap.NewNop()
	}

	tmpl, err := parseTemplates()
	if err != nil {
		return nil, fmt.Errorf("parse templates: %w", err)
	}

	s := &Server{
		logger:      deps.Logger,
		tokens:      deps.Tokens,
		prices:      deps.Prices,
		content:     deps.Content,
		portfolio:   deps.Portfolio,
		predictions: deps.Predictions,
		history:     deps.History,
		swaps:       deps.Swaps,
		trader:      deps.Trader,
		tmpl:        tmpl,
		started:     time.Now(),
	}

	s.searchCtrl = view.NewController(s.fetchSearchResults)
	s.contentCtrl = view.NewController(s.fetchContentPage)

	return s, nil
}

// Routes builds the full route table wrapped in logging and metrics
// middleware.
func (s *Server) Routes() http.Handler {
	mux := http.NewServeMux()

	// Pages
	mux.HandleFunc("GET /{$}", s.handleHome)
	mux.HandleFunc("GET /search", s.handleSearch)
	mux.HandleFunc("GET /content", s.handleContent)
	mux.HandleFunc("GET /token/{mint}", s.handleToken)
	mux.HandleFunc("GET /portfolio", s.handlePortfolio)
	mux.HandleFunc("GET /predictions", s.handlePredictions)

	// JSON API
	mux.HandleFunc("GET /api/tokens/search", s.handleAPITokenSearch)
	mux.HandleFunc("GET /api/portfolio", s.handleAPIPortfolio)
	mux.HandleFunc("POST /api/pm/order", s.handleAPIPMOrder)
	mux.HandleFunc("POST /api/pm/submit", s.handleAPIPMSubmit)
	mux.HandleFunc("GET /api/pm/orders/{pubkey}", s.handleAPIPMOrderStatus)
	mux.HandleFunc("POST /api/swap/order", s.handleAPISwapOrder)
	mux.HandleFunc("POST /api/swap/execute", s.handleAPISwapExecute)
	mux.HandleFunc("GET /api/holdings", s.handleAPIHoldings)

	// Operational
	mux.HandleFunc("GET /health", s.handleHealth)
	mux.HandleFunc("GET /status", s.handleStatus)
	mux.Handle("GET /metrics", observability.Handler())

	return s.withMiddleware(mux)
}
