package rates

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/yopay/yopay/internal/money"
)

// Quote is a snapshot of base-relative exchange rates for every supported
// currency, valid for the duration of a single ledger call.
type Quote map[money.Currency]decimal.Decimal

// Rate returns the base-relative rate for a currency.
func (q Quote) Rate(c money.Currency) (decimal.Decimal, error) {
	rate, ok := q[c]
	if !ok {
		return decimal.Decimal{}, fmt.Errorf("no rate quoted for %s", c)
	}
	return rate, nil
}

// Client supplies exchange-rate quotes. Implementations must only return
// quotes with positive rates for every supported currency.
type Client interface {
	Rates(ctx context.Context) (Quote, error)
}

// Static is a fixed-quote client for tests and offline runs.
type Static Quote

// Rates returns the fixed quote.
func (s Static) Rates(_ context.Context) (Quote, error) {
	return Quote(s), nil
}

// validate rejects quotes with missing or non-positive rates before they can
// reach the conversion arithmetic, which assumes positive divisors.
func validate(q Quote) error {
	for _, c := range money.Currencies {
		rate, ok := q[c]
		if !ok {
			return fmt.Errorf("quote is missing %s", c)
		}
		if !rate.IsPositive() {
			return fmt.Errorf("quote has non-positive rate %s for %s", rate, c)
		}
	}
	return nil
}
