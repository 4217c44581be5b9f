package view

import (
	"context"
	"errors"
	"net/url"
	"sync"
	"testing"
	"time"
)

func TestController_RefreshCommitsResult(t *testing.T) {
	c := NewController(func(_ context.Context, q SearchParams) ([]string, error) {
		return []string{"result-for-" + q.Query}, nil
	})

	got, err := c.Refresh(context.Background(), SearchParams{Query: "sol"})
	if err != nil {
		t.Fatalf("Refresh: %v", err)
	}
	if len(got) != 1 || got[0] != "result-for-sol" {
		t.Errorf("unexpected result %v", got)
	}

	params, result, err, loaded := c.Snapshot()
	if !loaded {
		t.Fatal("expected snapshot to be loaded")
	}
	if err != nil {
		t.Errorf("snapshot err = %v", err)
	}
	if params.Query != "sol" || result[0] != "result-for-sol" {
		t.Errorf("snapshot = %+v / %v", params, result)
	}
}

func TestController_StaleCompletionDiscarded(t *testing.T) {
	slowStarted := make(chan struct{})
	slowRelease := make(chan struct{})

	c := NewController(func(_ context.Context, q SearchParams) (string, error) {
		if q.Query == "slow" {
			close(slowStarted)
			<-slowRelease
		}
		return "data-" + q.Query, nil
	})

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		c.Refresh(context.Background(), SearchParams{Query: "slow"})
	}()

	<-slowStarted

	// A newer request resolves while the older one is still in flight
	if _, err := c.Refresh(context.Background(), SearchParams{Query: "fast"}); err != nil {
		t.Fatalf("Refresh: %v", err)
	}

	close(slowRelease)
	wg.Wait()

	params, result, _, _ := c.Snapshot()
	if params.Query != "fast" || result != "data-fast" {
		t.Errorf("stale completion overwrote newer state: %+v / %v", params, result)
	}
}

func TestController_StaleCallerStillGetsItsResult(t *testing.T) {
	block := make(chan struct{})
	started := make(chan struct{})

	c := NewController(func(_ context.Context, q SearchParams) (string, error) {
		if q.Query == "old" {
			close(started)
			<-block
		}
		return "data-" + q.Query, nil
	})

	done := make(chan string, 1)
	go func() {
		got, _ := c.Refresh(context.Background(), SearchParams{Query: "old"})
		done <- got
	}()

	<-started
	c.Refresh(context.Background(), SearchParams{Query: "new"})
	close(block)

	select {
	case got := <-done:
		// The request that triggered the fetch still renders its own data
		if got != "data-old" {
			t.Errorf("caller got %q, want data-old", got)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("timeout")
	}
}

func TestController_ErrorsCommitted(t *testing.T) {
	fetchErr := errors.New("upstream down")
	c := NewController(func(_ context.Context, _ SearchParams) (string, error) {
		return "", fetchErr
	})

	if _, err := c.Refresh(context.Background(), SearchParams{Query: "x"}); !errors.Is(err, fetchErr) {
		t.Fatalf("expected fetch error, got %v", err)
	}
	_, _, err, loaded := c.Snapshot()
	if !loaded || !errors.Is(err, fetchErr) {
		t.Errorf("snapshot err = %v, loaded = %v", err, loaded)
	}
}

func TestSearchParams_RoundTrip(t *testing.T) {
	q := url.Values{"q": {"bonk"}}
	p := SearchParamsFromQuery(q)
	if p.Query != "bonk" {
		t.Fatalf("Query = %q", p.Query)
	}
	if got := p.Values().Encode(); got != "q=bonk" {
		t.Errorf("Values = %q", got)
	}
	if got := (SearchParams{}).Values().Encode(); got != "" {
		t.Errorf("empty params encode = %q", got)
	}
}

func TestContentParams_Decode(t *testing.T) {
	cases := []struct {
		raw      string
		wantType string
		wantPage int
	}{
		{"", "", 1},
		{"type=news", "news", 1},
		{"type=summary&page=3", "summary", 3},
		{"page=0", "", 1},
		{"page=junk", "", 1},
	}
	for _, tc := range cases {
		q, _ := url.ParseQuery(tc.raw)
		p := ContentParamsFromQuery(q)
		if p.Type != tc.wantType || p.Page != tc.wantPage {
			t.Errorf("%q: got %+v", tc.raw, p)
		}
	}
}

func TestContentParams_PageNavigation(t *testing.T) {
	p := ContentParams{Type: "news", Page: 1}
	if p.PrevPage() != 1 {
		t.Errorf("PrevPage at 1 = %d", p.PrevPage())
	}
	if p.NextPage() != 2 {
		t.Errorf("NextPage = %d", p.NextPage())
	}

	p.Page = 4
	if p.PrevPage() != 3 {
		t.Errorf("PrevPage = %d", p.PrevPage())
	}
	if got := p.Values().Encode(); got != "page=4&type=news" {
		t.Errorf("Values = %q", got)
	}
}
