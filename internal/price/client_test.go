package price

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"solana-token-desk/internal/gateway"
)

func TestPrices_EmptyInputSkipsNetwork(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
	}))
	defer server.Close()

	client := NewClient(gateway.New("test", server.URL))

	for _, mints := range [][]string{nil, {}, {"", "  "}} {
		got, err := client.Prices(context.Background(), mints)
		if err != nil {
			t.Fatalf("Prices(%v) failed: %v", mints, err)
		}
		if len(got) != 0 {
			t.Errorf("Prices(%v) = %v, want empty", mints, got)
		}
	}
	if calls.Load() != 0 {
		t.Errorf("network calls = %d, want 0", calls.Load())
	}
}

func TestPrices_DecodesMap(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("ids"); got != "MintA,MintB" {
			t.Errorf("ids = %q", got)
		}
		w.Write([]byte(`{
			"MintA": {"usdPrice": 142.5, "decimals": 9, "blockId": 1000, "priceChange24h": -3.2}
		}`))
	}))
	defer server.Close()

	client := NewClient(gateway.New("test", server.URL))

	got, err := client.Prices(context.Background(), []string{"MintA", "MintB"})
	if err != nil {
		t.Fatalf("Prices failed: %v", err)
	}

	p, ok := got["MintA"]
	if !ok {
		t.Fatal("MintA missing")
	}
	if p.UsdPrice != 142.5 || p.PriceChange24h != -3.2 {
		t.Errorf("price = %+v", p)
	}

	// MintB has no price: key must be absent, not zero-valued.
	if _, ok := got["MintB"]; ok {
		t.Error("MintB should be absent from the map")
	}
}

func TestPrice_NilWhenUnavailable(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{}`))
	}))
	defer server.Close()

	client := NewClient(gateway.New("test", server.URL))

	p, err := client.Price(context.Background(), "MintX")
	if err != nil {
		t.Fatalf("Price failed: %v", err)
	}
	if p != nil {
		t.Errorf("expected nil price, got %+v", p)
	}
}
