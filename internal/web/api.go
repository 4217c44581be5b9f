package web

import (
	"encoding/json"
	"net/http"
	"time"

	"go.uber.org/zap"

	"solana-token-desk/internal/domain"
	"solana-token-desk/internal/ultra"
)

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeJSONError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

type tokenJSON struct {
	Mint         string   `json:"mint"`
	Name         string   `json:"name"`
	Symbol       string   `json:"symbol"`
	Decimals     int      `json:"decimals"`
	LogoURI      string   `json:"logoURI,omitempty"`
	Tags         []string `json:"tags,omitempty"`
	OrganicScore float64  `json:"organicScore"`
	MarketCap    float64  `json:"marketCap"`
	Holders      int64    `json:"holders"`
}

// handleAPITokenSearch proxies token search for the browser. Upstream
// failures return an empty list with HTTP 200 so typeahead never breaks.
func (s *Server) handleAPITokenSearch(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("q")

	tokens, err := s.tokens.Search(r.Context(), query)
	if err != nil {
		s.logger.Warn("token search failed", zap.String("query", query), zap.Error(err))
		tokens = nil
	}

	out := make([]tokenJSON, 0, len(tokens))
	for _, t := range tokens {
		out = append(out, tokenJSON{
			Mint:         t.Mint,
			Name:         t.Name,
			Symbol:       t.Symbol,
			Decimals:     t.Decimals,
			LogoURI:      t.LogoURI,
			Tags:         t.Tags,
			OrganicScore: t.OrganicScore,
			MarketCap:    t.MarketCap,
			Holders:      t.Holders,
		})
	}
	writeJSON(w, http.StatusOK, out)
}

// handleAPIPortfolio returns wallet positions as JSON.
func (s *Server) handleAPIPortfolio(w http.ResponseWriter, r *http.Request) {
	wallet := r.URL.Query().Get("wallet")
	if wallet == "" {
		writeJSONError(w, http.StatusBadRequest, "wallet is required")
		return
	}

	pf, err := s.portfolio.Positions(r.Context(), wallet)
	if err != nil {
		writeJSONError(w, http.StatusBadGateway, "portfolio unavailable: "+err.Error())
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"owner":      pf.Owner,
		"totalValue": pf.TotalValue,
		"totalPnl":   pf.TotalPnl,
		"elements":   len(pf.Elements),
	})
}

type pmOrderRequestJSON struct {
	OwnerPubkey    string `json:"ownerPubkey"`
	MarketID       string `json:"marketId"`
	IsYes          bool   `json:"isYes"`
	IsBuy          bool   `json:"isBuy"`
	Contracts      int64  `json:"contracts"`
	MaxBuyPriceUsd int64  `json:"maxBuyPriceUsd,omitempty"`
	DepositAmount  int64  `json:"depositAmount,omitempty"`
}

// handleAPIPMOrder creates a prediction-market order and returns the
// unsigned transaction for the wallet to sign. Missing ownerPubkey or
// marketId is a 400; upstream failure is a 500 carrying the message.
func (s *Server) handleAPIPMOrder(w http.ResponseWriter, r *http.Request) {
	var req pmOrderRequestJSON
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid json body")
		return
	}
	if req.OwnerPubkey == "" || req.MarketID == "" {
		writeJSONError(w, http.StatusBadRequest, "ownerPubkey and marketId are required")
		return
	}

	order, err := s.predictions.CreateOrder(r.Context(), domain.PMOrderRequest{
		OwnerPubkey:    req.OwnerPubkey,
		MarketID:       req.MarketID,
		IsYes:          req.IsYes,
		IsBuy:          req.IsBuy,
		Contracts:      req.Contracts,
		MaxBuyPriceUsd: req.MaxBuyPriceUsd,
		DepositAmount:  req.DepositAmount,
	})
	if err != nil {
		writeJSONError(w, http.StatusInternalServerError, err.Error())
		return
	}

	resp := map[string]interface{}{
		"transaction":     order.Transaction,
		"externalOrderId": order.ExternalOrderID,
		"orderPubkey":     order.OrderPubkey,
		"orderCostUsd":    order.OrderCostUsd,
		"newPayoutUsd":    order.NewPayoutUsd,
	}
	if order.TxMeta != nil {
		resp["txMeta"] = map[string]interface{}{
			"blockhash":            order.TxMeta.Blockhash,
			"lastValidBlockHeight": order.TxMeta.LastValidBlockHeight,
		}
	}
	writeJSON(w, http.StatusOK, resp)
}

type pmSubmitRequestJSON struct {
	SignedTransaction string `json:"signedTransaction"`
	TxMeta            *struct {
		Blockhash            string `json:"blockhash"`
		LastValidBlockHeight uint64 `json:"lastValidBlockHeight"`
	} `json:"txMeta"`
}

// handleAPIPMSubmit broadcasts a wallet-signed transaction and waits for
// confirmation.
func (s *Server) handleAPIPMSubmit(w http.ResponseWriter, r *http.Request) {
	if s.trader == nil {
		writeJSONError(w, http.StatusServiceUnavailable, "trade submission is not configured")
		return
	}

	var req pmSubmitRequestJSON
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid json body")
		return
	}
	if req.SignedTransaction == "" {
		writeJSONError(w, http.StatusBadRequest, "signedTransaction is required")
		return
	}

	var meta *domain.TxMeta
	if req.TxMeta != nil {
		meta = &domain.TxMeta{
			Blockhash:            req.TxMeta.Blockhash,
			LastValidBlockHeight: req.TxMeta.LastValidBlockHeight,
		}
	}

	signature, err := s.trader.SubmitSigned(r.Context(), req.SignedTransaction, meta)
	if err != nil {
		writeJSONError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{
		"signature": signature,
		"status":    "confirmed",
	})
}

// handleAPIPMOrderStatus returns the lifecycle record of an order.
func (s *Server) handleAPIPMOrderStatus(w http.ResponseWriter, r *http.Request) {
	pubkey := r.PathValue("pubkey")

	status, err := s.predictions.OrderStatus(r.Context(), pubkey)
	if err != nil {
		writeJSONError(w, http.StatusBadGateway, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{
		"pubkey":   status.Pubkey,
		"status":   status.Status,
		"owner":    status.Owner,
		"marketId": status.MarketID,
	})
}

type swapOrderRequestJSON struct {
	InputMint   string `json:"inputMint"`
	OutputMint  string `json:"outputMint"`
	Amount      string `json:"amount"`
	SlippageBps int    `json:"slippageBps"`
	Taker       string `json:"taker"`
}

// handleAPISwapOrder quotes a swap and returns the unsigned transaction
// when a taker wallet is provided.
func (s *Server) handleAPISwapOrder(w http.ResponseWriter, r *http.Request) {
	var req swapOrderRequestJSON
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid json body")
		return
	}

	quote, err := s.swaps.Order(r.Context(), ultra.OrderParams{
		InputMint:   req.InputMint,
		OutputMint:  req.OutputMint,
		Amount:      req.Amount,
		SlippageBps: req.SlippageBps,
		Taker:       req.Taker,
	})
	if err != nil {
		writeJSONError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{
		"requestId":   quote.RequestID,
		"transaction": quote.Transaction,
		"inAmount":    quote.InAmount,
		"outAmount":   quote.OutAmount,
	})
}

type swapExecuteRequestJSON struct {
	SignedTransaction string `json:"signedTransaction"`
	RequestID         string `json:"requestId"`
}

// handleAPISwapExecute submits a signed swap transaction.
func (s *Server) handleAPISwapExecute(w http.ResponseWriter, r *http.Request) {
	var req swapExecuteRequestJSON
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid json body")
		return
	}

	result, err := s.swaps.Execute(r.Context(), req.SignedTransaction, req.RequestID)
	if err != nil {
		writeJSONError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{
		"signature": result.Signature,
		"status":    result.Status,
	})
}

// handleAPIHoldings lists wallet token balances.
func (s *Server) handleAPIHoldings(w http.ResponseWriter, r *http.Request) {
	wallet := r.URL.Query().Get("wallet")
	if wallet == "" {
		writeJSONError(w, http.StatusBadRequest, "wallet is required")
		return
	}

	holdings, err := s.swaps.Holdings(r.Context(), wallet)
	if err != nil {
		writeJSONError(w, http.StatusBadGateway, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, holdings)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"status": "ok",
		"uptime": time.Since(s.started).Round(time.Second).String(),
	})
}
