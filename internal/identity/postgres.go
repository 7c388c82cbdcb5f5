package identity

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/yopay/yopay/internal/money"
)

const uniqueViolation = "23505"

const insertUserQuery = `
        INSERT INTO users (name, country, city, login, password_hash)
        VALUES ($1, $2, $3, $4, $5)
        RETURNING id`

const findUserByLoginQuery = `
        SELECT id, name, country, city, login, password_hash
        FROM users WHERE login = $1`

// PostgresRepository implements Repository using PostgreSQL.
type PostgresRepository struct {
	db *pgxpool.Pool
}

// NewPostgresRepository builds a Postgres-backed identity repository.
func NewPostgresRepository(db *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Create inserts the user and their wallet atomically.
func (r *PostgresRepository) Create(ctx context.Context, user User, walletCurrency money.Currency) (User, error) {
	tx, err := r.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return User{}, fmt.Errorf("begin signup: %w", err)
	}
	defer tx.Rollback(ctx) // nolint:errcheck

	err = tx.QueryRow(ctx, insertUserQuery,
		user.Name, user.Country, user.City, user.Login, user.PasswordHash,
	).Scan(&user.ID)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return User{}, ErrLoginTaken
		}
		return User{}, fmt.Errorf("insert user: %w", err)
	}

	if _, err := tx.Exec(ctx, `
        INSERT INTO wallets (user_id, amount, currency)
        VALUES ($1, 0, $2)`, user.ID, string(walletCurrency)); err != nil {
		return User{}, fmt.Errorf("insert wallet: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return User{}, fmt.Errorf("commit signup: %w", err)
	}
	return user, nil
}

// FindByLogin fetches a user by login.
func (r *PostgresRepository) FindByLogin(ctx context.Context, login string) (User, error) {
	row := r.db.QueryRow(ctx, findUserByLoginQuery, login)
	var user User
	if err := row.Scan(&user.ID, &user.Name, &user.Country, &user.City, &user.Login, &user.PasswordHash); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return User{}, ErrNotFound
		}
		return User{}, fmt.Errorf("scan user: %w", err)
	}
	return user, nil
}
