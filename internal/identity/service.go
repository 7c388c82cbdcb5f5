package identity

import (
	"context"
	"errors"

	"golang.org/x/crypto/bcrypt"

	"github.com/yopay/yopay/internal/money"
)

// ErrInvalidCredentials covers both unknown logins and wrong passwords so the
// two cases are indistinguishable to a caller.
var ErrInvalidCredentials = errors.New("invalid login or password")

// ErrInvalidProfile rejects malformed registration input.
var ErrInvalidProfile = errors.New("profile fields out of bounds")

// Service manages user registration and credential checks.
type Service struct {
	repo Repository
}

// NewService creates a new identity service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// RegisterInput captures a signup request.
type RegisterInput struct {
	Name           string
	Country        string
	City           string
	Login          string
	Password       string
	WalletCurrency money.Currency
}

// Register creates a user with a hashed password and an empty wallet in the
// chosen currency.
func (s *Service) Register(ctx context.Context, in RegisterInput) (User, error) {
	if in.Name == "" || in.Country == "" || in.City == "" ||
		len(in.Login) < 4 || len(in.Password) < 4 {
		return User{}, ErrInvalidProfile
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return User{}, err
	}

	return s.repo.Create(ctx, User{
		Name:         in.Name,
		Country:      in.Country,
		City:         in.City,
		Login:        in.Login,
		PasswordHash: hash,
	}, in.WalletCurrency)
}

// Authenticate verifies a login/password pair.
func (s *Service) Authenticate(ctx context.Context, login, password string) (User, error) {
	user, err := s.repo.FindByLogin(ctx, login)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return User{}, ErrInvalidCredentials
		}
		return User{}, err
	}
	if err := bcrypt.CompareHashAndPassword(user.PasswordHash, []byte(password)); err != nil {
		return User{}, ErrInvalidCredentials
	}
	return user, nil
}
