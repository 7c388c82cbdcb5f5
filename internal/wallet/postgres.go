package wallet

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/yopay/yopay/internal/money"
)

// PostgresStore reads and mutates wallets in PostgreSQL.
type PostgresStore struct {
	db *pgxpool.Pool
}

// NewPostgresStore builds a Postgres-backed wallet store.
func NewPostgresStore(db *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{db: db}
}

// ByUserID fetches the wallet owned by the given user.
func (s *PostgresStore) ByUserID(ctx context.Context, userID int64) (Wallet, error) {
	row := s.db.QueryRow(ctx, `SELECT id, user_id, amount, currency FROM wallets WHERE user_id = $1`, userID)
	return scanWallet(row)
}

// ByLogin fetches the wallet owned by the user with the given login.
func (s *PostgresStore) ByLogin(ctx context.Context, login string) (Wallet, error) {
	row := s.db.QueryRow(ctx, `
        SELECT w.id, w.user_id, w.amount, w.currency
        FROM wallets w
        INNER JOIN users u ON u.id = w.user_id
        WHERE u.login = $1`, login)
	return scanWallet(row)
}

// Adjust applies amount += delta as a single atomic statement and returns the
// updated wallet.
func (s *PostgresStore) Adjust(ctx context.Context, walletID int64, delta decimal.Decimal) (Wallet, error) {
	row := s.db.QueryRow(ctx, `
        UPDATE wallets SET amount = amount + $1
        WHERE id = $2
        RETURNING id, user_id, amount, currency`, delta, walletID)
	return scanWallet(row)
}

func scanWallet(row pgx.Row) (Wallet, error) {
	var (
		w        Wallet
		currency string
	)
	if err := row.Scan(&w.ID, &w.UserID, &w.Amount, &currency); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Wallet{}, ErrNotFound
		}
		return Wallet{}, fmt.Errorf("scan wallet: %w", err)
	}
	parsed, err := money.ParseCurrency(currency)
	if err != nil {
		return Wallet{}, err
	}
	w.Currency = parsed
	return w, nil
}
