package wallet

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"
)

// ErrNotFound indicates no wallet exists for the given lookup key.
var ErrNotFound = errors.New("wallet not found")

// Store reads wallets and applies balance mutations that are atomic on their
// own. Mutations that must share a transaction with other writes go through
// the Querier helpers in tx.go instead.
type Store interface {
	ByUserID(ctx context.Context, userID int64) (Wallet, error)
	// ByLogin resolves the wallet owned by the user with the given login.
	ByLogin(ctx context.Context, login string) (Wallet, error)
	// Adjust atomically applies amount += delta and returns the updated wallet.
	Adjust(ctx context.Context, walletID int64, delta decimal.Decimal) (Wallet, error)
}
