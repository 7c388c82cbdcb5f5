package rates

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"

	"github.com/yopay/yopay/internal/money"
)

const cacheKey = "rates:v1"

// HTTPClient fetches base-relative quotes from an exchange-rates API and
// caches them in Redis so at most one upstream call is made per TTL window.
type HTTPClient struct {
	url    string
	ttl    time.Duration
	http   *http.Client
	cache  *redis.Client
	params url.Values
}

// NewHTTPClient builds a quote client for the given endpoint. The cache may be
// nil, in which case every call hits the upstream API.
func NewHTTPClient(endpoint string, ttl time.Duration, cache *redis.Client) *HTTPClient {
	symbols := make([]string, 0, len(money.Currencies))
	for _, c := range money.Currencies {
		symbols = append(symbols, string(c))
	}
	params := url.Values{}
	params.Set("base", string(money.Base))
	params.Set("symbols", strings.Join(symbols, ","))

	return &HTTPClient{
		url:    endpoint,
		ttl:    ttl,
		http:   &http.Client{Timeout: 10 * time.Second},
		cache:  cache,
		params: params,
	}
}

type ratesPayload struct {
	Rates map[string]json.Number `json:"rates"`
}

// Rates returns the cached quote when fresh, otherwise fetches and caches a
// new one.
func (c *HTTPClient) Rates(ctx context.Context) (Quote, error) {
	if c.cache != nil {
		if cached, err := c.cache.Get(ctx, cacheKey).Result(); err == nil {
			quote, err := parseQuote([]byte(cached))
			if err == nil {
				return quote, nil
			}
			// Corrupt cache entries fall through to a fresh fetch.
		}
	}

	raw, err := c.fetch(ctx)
	if err != nil {
		return nil, err
	}
	quote, err := parseQuote(raw)
	if err != nil {
		return nil, err
	}

	if c.cache != nil {
		// Fail-open on cache errors: the quote in hand is still good, a
		// broken cache only costs extra upstream calls.
		_ = c.cache.Set(ctx, cacheKey, raw, c.ttl).Err()
	}

	return quote, nil
}

func (c *HTTPClient) fetch(ctx context.Context) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url+"?"+c.params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("build rates request: %w", err)
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch rates: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("rates endpoint returned %s", resp.Status)
	}

	var payload ratesPayload
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("decode rates response: %w", err)
	}
	normalized, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("encode rates for cache: %w", err)
	}
	return normalized, nil
}

func parseQuote(raw []byte) (Quote, error) {
	var payload ratesPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		return nil, fmt.Errorf("parse rates: %w", err)
	}

	quote := make(Quote, len(payload.Rates))
	for code, number := range payload.Rates {
		currency, err := money.ParseCurrency(code)
		if err != nil {
			continue // ignore currencies we do not hold wallets in
		}
		rate, err := decimal.NewFromString(number.String())
		if err != nil {
			return nil, fmt.Errorf("parse rate for %s: %w", code, err)
		}
		quote[currency] = rate
	}

	if err := validate(quote); err != nil {
		return nil, err
	}
	return quote, nil
}
