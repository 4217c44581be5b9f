package predictions

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"solana-token-desk/internal/domain"
	"solana-token-desk/internal/gateway"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return NewClient(gateway.New("pm", server.URL))
}

const eventsFixture = `{"data": [
	{
		"eventId": "evt-active",
		"isActive": true,
		"category": "crypto",
		"metadata": {"eventId": "evt-active", "title": "BTC above 100k?"},
		"markets": [{
			"marketId": "mkt-1", "event": "evt-active", "status": "open",
			"metadata": {"marketId": "mkt-1", "title": "BTC above 100k?", "status": "open", "isTradable": true},
			"pricing": {"buyYesPriceUsd": 650000, "buyNoPriceUsd": 360000, "volume": 1500000}
		}]
	},
	{
		"eventId": "evt-inactive",
		"isActive": false,
		"category": "crypto",
		"metadata": {"eventId": "evt-inactive", "title": "Stale event"},
		"markets": [{
			"marketId": "mkt-2", "event": "evt-inactive", "status": "open",
			"metadata": {"marketId": "mkt-2", "status": "open", "isTradable": true},
			"pricing": {}
		}]
	},
	{
		"eventId": "evt-untradable",
		"isActive": true,
		"category": "crypto",
		"metadata": {"eventId": "evt-untradable", "title": "Closed market"},
		"markets": [{
			"marketId": "mkt-3", "event": "evt-untradable", "status": "closed",
			"metadata": {"marketId": "mkt-3", "status": "closed", "isTradable": false},
			"pricing": {}
		}]
	}
]}`

func TestEventsByCategory_FiltersToOrderable(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/v1/events" {
			t.Errorf("path = %q", r.URL.Path)
		}
		if got := r.URL.Query().Get("category"); got != "crypto" {
			t.Errorf("category = %q", got)
		}
		w.Write([]byte(eventsFixture))
	})

	events, err := client.EventsByCategory(context.Background(), domain.PMCategoryCrypto, 10)
	if err != nil {
		t.Fatalf("EventsByCategory failed: %v", err)
	}

	if len(events) != 1 {
		t.Fatalf("got %d events, want 1 (inactive and untradable filtered)", len(events))
	}
	event := events[0]
	if event.EventID != "evt-active" || event.Title != "BTC above 100k?" {
		t.Errorf("event = %+v", event)
	}
	if !event.HasOrderableMarket() {
		t.Error("surviving event must have an orderable market")
	}

	market := event.Markets[0]
	if got := Probability(market.Pricing.BuyYesPriceUsd); got != 65 {
		t.Errorf("yes probability = %v, want 65", got)
	}
}

func TestEvent_NotFoundIsNil(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})

	event, err := client.Event(context.Background(), "evt-missing")
	if err != nil {
		t.Fatalf("Event failed: %v", err)
	}
	if event != nil {
		t.Errorf("event = %+v, want nil", event)
	}
}

func TestCreateOrder_ReturnsTransactionAndMeta(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/api/v1/orders" {
			t.Errorf("%s %s", r.Method, r.URL.Path)
		}
		var body map[string]interface{}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Fatalf("decode body: %v", err)
		}
		if body["ownerPubkey"] != "Owner1" || body["marketId"] != "mkt-1" {
			t.Errorf("body = %v", body)
		}
		w.Write([]byte(`{
			"transaction": "dHg=",
			"txMeta": {"blockhash": "Hash1", "lastValidBlockHeight": 5000},
			"externalOrderId": "ext-1",
			"order": {"orderPubkey": "OrderPk1", "orderCostUsd": "10.00", "newPayoutUsd": "50.00"}
		}`))
	})

	order, err := client.CreateOrder(context.Background(), domain.PMOrderRequest{
		OwnerPubkey:   "Owner1",
		MarketID:      "mkt-1",
		IsYes:         true,
		IsBuy:         true,
		Contracts:     50,
		DepositAmount: 10_000_000,
	})
	if err != nil {
		t.Fatalf("CreateOrder failed: %v", err)
	}

	if order.Transaction != "dHg=" {
		t.Errorf("Transaction = %q", order.Transaction)
	}
	if order.TxMeta == nil || order.TxMeta.Blockhash != "Hash1" || order.TxMeta.LastValidBlockHeight != 5000 {
		t.Errorf("TxMeta = %+v", order.TxMeta)
	}
	if order.OrderPubkey != "OrderPk1" {
		t.Errorf("OrderPubkey = %q", order.OrderPubkey)
	}
}

func TestCreateOrder_MissingFieldsRejectedLocally(t *testing.T) {
	called := false
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		called = true
	})

	_, err := client.CreateOrder(context.Background(), domain.PMOrderRequest{MarketID: "mkt-1"})
	if err == nil {
		t.Fatal("expected error for missing ownerPubkey")
	}
	if called {
		t.Error("no network call should be made")
	}
}

func TestOrderStatus(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/v1/orders/status/OrderPk1" {
			t.Errorf("path = %q", r.URL.Path)
		}
		w.Write([]byte(`{"pubkey": "OrderPk1", "status": "filled", "marketId": "mkt-1", "fillPriceUsd": "0.65"}`))
	})

	status, err := client.OrderStatus(context.Background(), "OrderPk1")
	if err != nil {
		t.Fatalf("OrderStatus failed: %v", err)
	}
	if status.Status != "filled" || status.FillPriceUsd != "0.65" {
		t.Errorf("status = %+v", status)
	}
}
