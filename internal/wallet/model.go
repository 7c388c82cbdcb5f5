package wallet

import (
	"github.com/shopspring/decimal"

	"github.com/yopay/yopay/internal/money"
)

// Wallet is a per-user balance held in a single currency. Amounts are exact
// decimals with two fractional digits and are only ever mutated inside the
// owning transaction of a ledger or deposit call.
type Wallet struct {
	ID       int64
	UserID   int64
	Amount   decimal.Decimal
	Currency money.Currency
}
