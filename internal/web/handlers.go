package web

import (
	"context"
	"net/http"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"solana-token-desk/internal/content"
	"solana-token-desk/internal/domain"
	"solana-token-desk/internal/predictions"
	"solana-token-desk/internal/view"
)

const (
	trendingLimit = 50
	pmSectionSize = 8
)

// tokenRow pairs a token with its current price for table rendering.
// A nil price renders as an em dash, never as zero.
type tokenRow struct {
	Token domain.TokenInfo
	Price *domain.TokenPrice
}

func (s *Server) priceRows(ctx context.Context, tokens []domain.TokenInfo) []tokenRow {
	mints := make([]string, 0, len(tokens))
	for _, t := range tokens {
		mints = append(mints, t.Mint)
	}

	prices, err := s.prices.Prices(ctx, mints)
	if err != nil {
		// Tokens without prices still render
		s.logger.Warn("price lookup failed", zap.Error(err))
		prices = nil
	}

	rows := make([]tokenRow, 0, len(tokens))
	for _, t := range tokens {
		row := tokenRow{Token: t}
		if p, ok := prices[t.Mint]; ok {
			price := p
			row.Price = &price
		}
		rows = append(rows, row)
	}
	return rows
}

// handleHome renders the trending grid and the prediction-markets section.
// The grid surfaces upstream errors; the markets section degrades to empty.
func (s *Server) handleHome(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var (
		rows   []tokenRow
		events []domain.PMEvent
		outErr error
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		tokens, err := s.tokens.ByCategory(gctx, domain.CategoryTopTrending, domain.Interval5m, trendingLimit)
		if err != nil {
			outErr = err
			return nil
		}
		rows = s.priceRows(gctx, tokens)
		return nil
	})
	g.Go(func() error {
		evs, err := s.predictions.EventsByCategory(gctx, "", pmSectionSize)
		if err != nil {
			s.logger.Warn("prediction markets unavailable", zap.Error(err))
			return nil
		}
		events = evs
		return nil
	})
	g.Wait()

	data := struct {
		Tokens []tokenRow
		Events []domain.PMEvent
		Error  string
	}{Tokens: rows, Events: events}
	if outErr != nil {
		data.Error = "Trending tokens are unavailable: " + outErr.Error()
	}
	s.render(w, "home", data)
}

func (s *Server) fetchSearchResults(ctx context.Context, params view.SearchParams) ([]tokenRow, error) {
	tokens, err := s.tokens.Search(ctx, params.Query)
	if err != nil {
		return nil, err
	}
	return s.priceRows(ctx, tokens), nil
}

// handleSearch renders token search results. Errors surface to the user.
func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	params := view.SearchParamsFromQuery(r.URL.Query())

	data := struct {
		Query  string
		Tokens []tokenRow
		Error  string
	}{Query: params.Query}

	if params.Query != "" {
		rows, err := s.searchCtrl.Refresh(r.Context(), params)
		if err != nil {
			data.Error = "Search failed: " + err.Error()
		}
		data.Tokens = rows
	}
	s.render(w, "search", data)
}

func (s *Server) fetchContentPage(ctx context.Context, params view.ContentParams) (content.FeedPage, error) {
	return s.content.Feed(ctx, params.Page, params.Type)
}

// handleContent renders the content feed. The feed degrades to an empty
// page on upstream failure.
func (s *Server) handleContent(w http.ResponseWriter, r *http.Request) {
	params := view.ContentParamsFromQuery(r.URL.Query())

	page, err := s.contentCtrl.Refresh(r.Context(), params)
	if err != nil {
		s.logger.Warn("content feed unavailable", zap.Error(err))
		page = content.FeedPage{Page: params.Page}
	}

	next := params
	next.Page = params.NextPage()
	prev := params
	prev.Page = params.PrevPage()

	data := struct {
		Params    view.ContentParams
		Page      content.FeedPage
		PrevQuery string
		NextQuery string
	}{
		Params:    params,
		Page:      page,
		PrevQuery: prev.Values().Encode(),
		NextQuery: next.Values().Encode(),
	}
	s.render(w, "content", data)
}

// handleToken renders the token detail page. Info, price, content and
// chart history are fetched concurrently so latency is the max of the
// batch; content and history degrade to empty on failure.
func (s *Server) handleToken(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	mint := r.PathValue("mint")

	var (
		info    *domain.TokenInfo
		price   *domain.TokenPrice
		items   []domain.TokenContent
		history []domain.PricePoint
		infoErr error
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		info, infoErr = s.tokens.Info(gctx, mint)
		return nil
	})
	g.Go(func() error {
		prices, err := s.prices.Prices(gctx, []string{mint})
		if err != nil {
			return nil
		}
		if p, ok := prices[mint]; ok {
			price = &p
		}
		return nil
	})
	g.Go(func() error {
		got, err := s.content.ForMints(gctx, []string{mint})
		if err != nil {
			s.logger.Warn("token content unavailable", zap.String("mint", mint), zap.Error(err))
			return nil
		}
		items = got
		return nil
	})
	g.Go(func() error {
		got, err := s.history.Prices(gctx, mint, 1)
		if err != nil {
			s.logger.Warn("chart history unavailable", zap.String("mint", mint), zap.Error(err))
			return nil
		}
		history = got
		return nil
	})
	g.Wait()

	if infoErr != nil {
		http.Error(w, "token lookup failed: "+infoErr.Error(), http.StatusBadGateway)
		return
	}
	if info == nil {
		http.NotFound(w, r)
		return
	}

	var summaries, posts []domain.TokenContent
	for _, item := range items {
		if item.Type == domain.ContentTypeSummary || item.Type == domain.ContentTypeNews {
			summaries = append(summaries, item)
		} else {
			posts = append(posts, item)
		}
	}

	low, high := historyRange(history)

	data := struct {
		Token       domain.TokenInfo
		Price       *domain.TokenPrice
		History     []domain.PricePoint
		HistoryLow  float64
		HistoryHigh float64
		Summaries   []domain.TokenContent
		Posts       []domain.TokenContent
	}{
		Token:       *info,
		Price:       price,
		History:     history,
		HistoryLow:  low,
		HistoryHigh: high,
		Summaries:   summaries,
		Posts:       posts,
	}
	s.render(w, "token", data)
}

func historyRange(points []domain.PricePoint) (low, high float64) {
	for i, p := range points {
		if i == 0 || p.Price < low {
			low = p.Price
		}
		if p.Price > high {
			high = p.Price
		}
	}
	return low, high
}

// handlePortfolio renders wallet positions. A wallet with no positions, or
// an upstream failure, renders the $0.00 empty state rather than an error
// page.
func (s *Server) handlePortfolio(w http.ResponseWriter, r *http.Request) {
	wallet := r.URL.Query().Get("wallet")

	data := struct {
		Wallet    string
		Portfolio domain.Portfolio
		Message   string
	}{Wallet: wallet}

	if wallet != "" {
		pf, err := s.portfolio.Positions(r.Context(), wallet)
		if err != nil {
			s.logger.Warn("portfolio unavailable", zap.String("wallet", wallet), zap.Error(err))
			data.Message = "Positions are unavailable right now."
		} else {
			data.Portfolio = pf
			if len(pf.Elements) == 0 {
				data.Message = "No positions found for this wallet."
			}
		}
	}
	s.render(w, "portfolio", data)
}

// eventRow pairs an event with the yes-side price of its first orderable
// market for the probability bar.
type eventRow struct {
	Event       domain.PMEvent
	YesPrice    *int64
	Probability float64
}

// handlePredictions renders prediction-market events.
func (s *Server) handlePredictions(w http.ResponseWriter, r *http.Request) {
	events, err := s.predictions.EventsByCategory(r.Context(), r.URL.Query().Get("category"), trendingLimit)

	data := struct {
		Events []eventRow
		Error  string
	}{}
	if err != nil {
		data.Error = "Markets are unavailable: " + err.Error()
	}

	for _, ev := range events {
		row := eventRow{Event: ev}
		for _, m := range ev.Markets {
			if m.Orderable() && m.Pricing.BuyYesPriceUsd != nil {
				row.YesPrice = m.Pricing.BuyYesPriceUsd
				row.Probability = predictions.Probability(m.Pricing.BuyYesPriceUsd)
				break
			}
		}
		data.Events = append(data.Events, row)
	}
	s.render(w, "predictions", data)
}
