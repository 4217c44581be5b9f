package portfolio

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"solana-token-desk/internal/gateway"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return NewClient(gateway.New("test", server.URL))
}

func TestPositions_ZeroPositionsIsEmptyNotError(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/portfolio/v1/positions/Wallet1" {
			t.Errorf("path = %q", r.URL.Path)
		}
		w.Write([]byte(`{"date": 1700000000, "owner": "Wallet1", "elements": [], "totalValue": 0}`))
	})

	p, err := client.Positions(context.Background(), "Wallet1")
	if err != nil {
		t.Fatalf("Positions failed: %v", err)
	}
	if len(p.Elements) != 0 {
		t.Errorf("elements = %d, want 0", len(p.Elements))
	}
	if p.TotalValue != 0 || p.TotalPnl != 0 {
		t.Errorf("totals = %v/%v, want 0/0", p.TotalValue, p.TotalPnl)
	}
	if p.Owner != "Wallet1" {
		t.Errorf("owner = %q", p.Owner)
	}
}

func TestPositions_SumsValueWhenUpstreamOmitsTotal(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"owner": "Wallet1", "elements": [
			{"platformId": "jup-perps", "type": "leverage", "value": 120.5},
			{"platformId": "wallet", "type": "spot", "value": 30.25}
		]}`))
	})

	p, err := client.Positions(context.Background(), "Wallet1")
	if err != nil {
		t.Fatalf("Positions failed: %v", err)
	}
	if p.TotalValue != 150.75 {
		t.Errorf("TotalValue = %v, want 150.75", p.TotalValue)
	}
}

func TestPositions_PrefersUpstreamTotal(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"owner": "Wallet1", "totalValue": 999, "elements": [
			{"platformId": "wallet", "type": "spot", "value": 1}
		]}`))
	})

	p, err := client.Positions(context.Background(), "Wallet1")
	if err != nil {
		t.Fatalf("Positions failed: %v", err)
	}
	if p.TotalValue != 999 {
		t.Errorf("TotalValue = %v, want 999", p.TotalValue)
	}
}

func TestPositions_SumsPredictionPnl(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"owner": "Wallet1", "elements": [
			{"platformId": "pm", "type": "prediction", "value": 42, "data": {"assets": [
				{"imageUri": "https://img/e.png", "attributes": {"prediction": {
					"sideName": "Yes", "size": 50, "entryPrice": 0.2, "markPrice": 0.4,
					"feesPaidValue": 0.5, "pnlAfterFeesValue": 9.5,
					"market": {"eventTitle": "Will it rain?", "closeTime": 1800000000}
				}}},
				{"attributes": {"prediction": {
					"sideName": "No", "size": 10, "entryPrice": 0.6, "markPrice": 0.5,
					"pnlAfterFeesValue": -1.5,
					"market": {"eventTitle": "Other event", "closeTime": 1800000001}
				}}}
			]}}
		]}`))
	})

	p, err := client.Positions(context.Background(), "Wallet1")
	if err != nil {
		t.Fatalf("Positions failed: %v", err)
	}
	if p.TotalPnl != 8 {
		t.Errorf("TotalPnl = %v, want 8", p.TotalPnl)
	}

	if len(p.Elements) != 1 || len(p.Elements[0].Assets) != 2 {
		t.Fatalf("unexpected structure: %+v", p.Elements)
	}
	pred := p.Elements[0].Assets[0].Prediction
	if pred == nil || pred.EventTitle != "Will it rain?" || pred.SideName != "Yes" {
		t.Errorf("prediction = %+v", pred)
	}
}

func TestPositions_BlankAddressRejectedLocally(t *testing.T) {
	called := false
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		called = true
	})

	if _, err := client.Positions(context.Background(), "  "); err == nil {
		t.Fatal("expected error for blank address")
	}
	if called {
		t.Error("no network call should be made for a blank address")
	}
}
