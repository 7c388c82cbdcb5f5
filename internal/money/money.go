package money

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Currency is an ISO 4217 code from the fixed set of wallet currencies.
type Currency string

const (
	USD Currency = "USD"
	EUR Currency = "EUR"
	CAD Currency = "CAD"
	CNY Currency = "CNY"
)

// Base is the reference currency all exchange rates are quoted against.
const Base = USD

// Currencies lists every supported wallet currency.
var Currencies = []Currency{USD, EUR, CAD, CNY}

// One is the identity exchange rate.
var One = decimal.NewFromInt(1)

// ParseCurrency validates a currency code.
func ParseCurrency(code string) (Currency, error) {
	for _, c := range Currencies {
		if string(c) == code {
			return c, nil
		}
	}
	return "", fmt.Errorf("unsupported currency %q", code)
}

// Convert translates amount between two currencies whose rates are quoted
// against the same base currency. When the rates are equal the amount is
// returned untouched to avoid a pointless rounding step; otherwise the result
// is amount * rateTo / rateFrom rounded to 2 fractional digits with banker's
// rounding. Rates must be positive.
func Convert(amount, rateFrom, rateTo decimal.Decimal) decimal.Decimal {
	if rateFrom.Equal(rateTo) {
		return amount
	}
	return amount.Mul(rateTo).Div(rateFrom).RoundBank(2)
}

// ToBase converts an amount quoted in a currency with the given base-relative
// rate into the base currency.
func ToBase(amount, rateFrom decimal.Decimal) decimal.Decimal {
	return Convert(amount, rateFrom, One)
}

// FromBase converts a base-currency amount into the currency with the given
// base-relative rate.
func FromBase(amount, rateTo decimal.Decimal) decimal.Decimal {
	return Convert(amount, One, rateTo)
}
