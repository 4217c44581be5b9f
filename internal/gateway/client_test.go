package gateway

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"
)

func TestClient_GetDecodesJSON(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("x-api-key") != "test-key" {
			t.Errorf("missing api key header")
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"name":"Solana","symbol":"SOL"}`))
	}))
	defer server.Close()

	client := New("test", server.URL, WithAPIKey("test-key"))

	var out struct {
		Name   string `json:"name"`
		Symbol string `json:"symbol"`
	}
	if err := client.Get(context.Background(), "/token", &out); err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if out.Name != "Solana" || out.Symbol != "SOL" {
		t.Errorf("decoded %+v", out)
	}
}

func TestClient_NonOKBecomesAPIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte("no such token"))
	}))
	defer server.Close()

	client := New("test", server.URL)

	err := client.Get(context.Background(), "/token", nil)
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected APIError, got %v", err)
	}
	if apiErr.Status != http.StatusNotFound {
		t.Errorf("Status = %d, want 404", apiErr.Status)
	}
	if apiErr.Body != "no such token" {
		t.Errorf("Body = %q", apiErr.Body)
	}
}

func TestClient_GetRetriesRateLimit(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		w.Write([]byte(`{}`))
	}))
	defer server.Close()

	client := New("test", server.URL,
		WithMaxRetries(3),
		WithRetryDelay(time.Millisecond))

	if err := client.Get(context.Background(), "/", nil); err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if calls.Load() != 3 {
		t.Errorf("calls = %d, want 3", calls.Load())
	}
}

func TestClient_GetExhaustedRetriesIsUnavailable(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	client := New("test", server.URL,
		WithMaxRetries(1),
		WithRetryDelay(time.Millisecond))

	err := client.Get(context.Background(), "/", nil)
	if !errors.Is(err, ErrUpstreamUnavailable) {
		t.Fatalf("expected ErrUpstreamUnavailable, got %v", err)
	}
}

func TestClient_PostDoesNotRetry(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	client := New("test", server.URL, WithMaxRetries(3), WithRetryDelay(time.Millisecond))

	err := client.Post(context.Background(), "/orders", map[string]string{"a": "b"}, nil)
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected APIError, got %v", err)
	}
	if calls.Load() != 1 {
		t.Errorf("calls = %d, want 1", calls.Load())
	}
}

func TestClient_ClientErrorNotRetried(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusBadRequest)
	}))
	defer server.Close()

	client := New("test", server.URL, WithMaxRetries(3), WithRetryDelay(time.Millisecond))

	if err := client.Get(context.Background(), "/", nil); err == nil {
		t.Fatal("expected error")
	}
	if calls.Load() != 1 {
		t.Errorf("calls = %d, want 1 (4xx must not retry)", calls.Load())
	}
}

func TestClient_TimeoutIsUnavailable(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
	}))
	defer server.Close()

	client := New("test", server.URL,
		WithTimeout(20*time.Millisecond),
		WithMaxRetries(0))

	err := client.Get(context.Background(), "/", nil)
	if !errors.Is(err, ErrUpstreamUnavailable) {
		t.Fatalf("expected ErrUpstreamUnavailable, got %v", err)
	}
}

func TestIsRateLimited(t *testing.T) {
	if !IsRateLimited(&APIError{Status: 429}) {
		t.Error("429 should be rate limited")
	}
	if IsRateLimited(&APIError{Status: 500}) {
		t.Error("500 should not be rate limited")
	}
	if IsRateLimited(errors.New("other")) {
		t.Error("plain error should not be rate limited")
	}
}
