package rates

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"

	"github.com/yopay/yopay/internal/money"
)

const quoteBody = `{"base":"USD","rates":{"USD":1.0,"EUR":0.9,"CAD":1.31,"CNY":7.1}}`

func newTestCache(t *testing.T) *redis.Client {
	t.Helper()
	mr := miniredis.RunT(t)
	return redis.NewClient(&redis.Options{Addr: mr.Addr()})
}

func TestHTTPClientFetchesAndParses(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("base"); got != "USD" {
			t.Errorf("expected base=USD, got %q", got)
		}
		w.Write([]byte(quoteBody))
	}))
	defer srv.Close()

	client := NewHTTPClient(srv.URL, time.Minute, newTestCache(t))
	quote, err := client.Rates(context.Background())
	if err != nil {
		t.Fatalf("rates failed: %v", err)
	}

	eur, err := quote.Rate(money.EUR)
	if err != nil {
		t.Fatalf("missing EUR rate: %v", err)
	}
	if !eur.Equal(decimal.RequireFromString("0.9")) {
		t.Fatalf("expected EUR rate 0.9, got %s", eur)
	}
}

func TestHTTPClientCachesQuotes(t *testing.T) {
	var calls atomic.Int64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls.Add(1)
		w.Write([]byte(quoteBody))
	}))
	defer srv.Close()

	client := NewHTTPClient(srv.URL, time.Minute, newTestCache(t))
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		if _, err := client.Rates(ctx); err != nil {
			t.Fatalf("rates call %d failed: %v", i, err)
		}
	}

	if got := calls.Load(); got != 1 {
		t.Fatalf("expected 1 upstream call, got %d", got)
	}
}

func TestHTTPClientSurvivesBrokenCache(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(quoteBody))
	}))
	defer srv.Close()

	mr := miniredis.RunT(t)
	cache := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	mr.SetError("cache down")

	client := NewHTTPClient(srv.URL, time.Minute, cache)
	quote, err := client.Rates(context.Background())
	if err != nil {
		t.Fatalf("rates failed with broken cache: %v", err)
	}
	if _, err := quote.Rate(money.EUR); err != nil {
		t.Fatalf("missing EUR rate: %v", err)
	}
}

func TestHTTPClientRejectsNonPositiveRates(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(`{"rates":{"USD":1.0,"EUR":0,"CAD":1.31,"CNY":7.1}}`))
	}))
	defer srv.Close()

	client := NewHTTPClient(srv.URL, time.Minute, nil)
	if _, err := client.Rates(context.Background()); err == nil {
		t.Fatal("expected error for zero rate")
	}
}

func TestStaticClient(t *testing.T) {
	static := Static{
		money.USD: decimal.NewFromInt(1),
		money.EUR: decimal.RequireFromString("0.9"),
	}
	quote, err := static.Rates(context.Background())
	if err != nil {
		t.Fatalf("static rates failed: %v", err)
	}
	if _, err := quote.Rate(money.CAD); err == nil {
		t.Fatal("expected missing-rate error for CAD")
	}
}
