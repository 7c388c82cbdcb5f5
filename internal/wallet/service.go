package wallet

import (
	"context"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/yopay/yopay/internal/money"
	"github.com/yopay/yopay/internal/rates"
)

// ErrInvalidAmount rejects non-positive amounts or amounts with more than two
// fractional digits before any storage is touched.
var ErrInvalidAmount = errors.New("amount must be positive with at most 2 fractional digits")

// ValidateAmount checks a client-supplied monetary amount.
func ValidateAmount(amount decimal.Decimal) error {
	if !amount.IsPositive() || amount.Exponent() < -2 {
		return ErrInvalidAmount
	}
	return nil
}

// Service exposes balance reads and the direct-deposit path.
type Service struct {
	store Store
	rates rates.Client
}

// NewService builds a wallet service.
func NewService(store Store, rates rates.Client) *Service {
	return &Service{store: store, rates: rates}
}

// Balance returns the caller's wallet.
func (s *Service) Balance(ctx context.Context, userID int64) (Wallet, error) {
	return s.store.ByUserID(ctx, userID)
}

// Deposit converts the stated amount into the wallet's currency using a fresh
// rate quote and credits the wallet.
func (s *Service) Deposit(ctx context.Context, userID int64, amount decimal.Decimal, currency money.Currency) (Wallet, error) {
	if err := ValidateAmount(amount); err != nil {
		return Wallet{}, err
	}

	w, err := s.store.ByUserID(ctx, userID)
	if err != nil {
		return Wallet{}, err
	}

	quote, err := s.rates.Rates(ctx)
	if err != nil {
		return Wallet{}, fmt.Errorf("fetch rate quote: %w", err)
	}
	rateFrom, err := quote.Rate(currency)
	if err != nil {
		return Wallet{}, err
	}
	rateTo, err := quote.Rate(w.Currency)
	if err != nil {
		return Wallet{}, err
	}

	return s.store.Adjust(ctx, w.ID, money.Convert(amount, rateFrom, rateTo))
}
