package identity

import (
	"context"
	"errors"

	"github.com/yopay/yopay/internal/money"
)

var (
	// ErrNotFound indicates no user matches the lookup.
	ErrNotFound = errors.New("user not found")

	// ErrLoginTaken indicates the login is already registered.
	ErrLoginTaken = errors.New("login already exists")
)

// Repository persists users together with their wallets.
type Repository interface {
	// Create inserts the user and an empty wallet in the given currency in
	// one transaction. Returns ErrLoginTaken when the login is in use.
	Create(ctx context.Context, user User, walletCurrency money.Currency) (User, error)
	FindByLogin(ctx context.Context, login string) (User, error)
}
