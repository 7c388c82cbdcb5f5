package wallet

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/shopspring/decimal"
)

// Querier is the subset of pgx.Tx (and pgxpool.Pool) the wallet helpers need.
// The ledger passes its open transaction here so balance mutations commit or
// roll back together with the status history append.
type Querier interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

// BalanceForUpdate reads a wallet's live balance and takes a row lock held
// until the surrounding transaction ends. Concurrent mutations of the same
// wallet serialize behind this lock.
func BalanceForUpdate(ctx context.Context, q Querier, walletID int64) (decimal.Decimal, error) {
	var amount decimal.Decimal
	err := q.QueryRow(ctx, `SELECT amount FROM wallets WHERE id = $1 FOR UPDATE`, walletID).Scan(&amount)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return decimal.Decimal{}, ErrNotFound
		}
		return decimal.Decimal{}, fmt.Errorf("lock wallet %d: %w", walletID, err)
	}
	return amount, nil
}

// AdjustBalance applies amount += delta within the caller's transaction.
// Delta may be negative for debits.
func AdjustBalance(ctx context.Context, q Querier, walletID int64, delta decimal.Decimal) error {
	tag, err := q.Exec(ctx, `UPDATE wallets SET amount = amount + $1 WHERE id = $2`, delta, walletID)
	if err != nil {
		return fmt.Errorf("adjust wallet %d: %w", walletID, err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
