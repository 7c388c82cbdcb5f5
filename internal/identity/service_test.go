package identity

import (
	"context"
	"errors"
	"testing"

	"github.com/yopay/yopay/internal/money"
	"github.com/yopay/yopay/internal/wallet"
)

func registerInput() RegisterInput {
	return RegisterInput{
		Name:           "Alice",
		Country:        "Canada",
		City:           "Toronto",
		Login:          "alice",
		Password:       "s3cret",
		WalletCurrency: money.CAD,
	}
}

func TestRegisterCreatesUserAndWallet(t *testing.T) {
	wallets := wallet.NewMemoryStore()
	svc := NewService(NewMemoryRepository(wallets))

	user, err := svc.Register(context.Background(), registerInput())
	if err != nil {
		t.Fatalf("register failed: %v", err)
	}
	if user.ID == 0 {
		t.Fatal("expected user id to be assigned")
	}

	w, err := wallets.ByLogin(context.Background(), "alice")
	if err != nil {
		t.Fatalf("wallet not created: %v", err)
	}
	if w.Currency != money.CAD || !w.Amount.IsZero() {
		t.Fatalf("expected empty CAD wallet, got %s %s", w.Amount, w.Currency)
	}
}

func TestRegisterDuplicateLogin(t *testing.T) {
	svc := NewService(NewMemoryRepository(wallet.NewMemoryStore()))
	ctx := context.Background()

	if _, err := svc.Register(ctx, registerInput()); err != nil {
		t.Fatalf("first register failed: %v", err)
	}
	if _, err := svc.Register(ctx, registerInput()); !errors.Is(err, ErrLoginTaken) {
		t.Fatalf("expected ErrLoginTaken, got %v", err)
	}
}

func TestRegisterValidatesProfile(t *testing.T) {
	svc := NewService(NewMemoryRepository(wallet.NewMemoryStore()))
	in := registerInput()
	in.Login = "abc" // below minimum length
	if _, err := svc.Register(context.Background(), in); !errors.Is(err, ErrInvalidProfile) {
		t.Fatalf("expected ErrInvalidProfile, got %v", err)
	}
}

func TestAuthenticate(t *testing.T) {
	svc := NewService(NewMemoryRepository(wallet.NewMemoryStore()))
	ctx := context.Background()

	if _, err := svc.Register(ctx, registerInput()); err != nil {
		t.Fatalf("register failed: %v", err)
	}

	if _, err := svc.Authenticate(ctx, "alice", "s3cret"); err != nil {
		t.Fatalf("expected successful auth, got %v", err)
	}
	if _, err := svc.Authenticate(ctx, "alice", "wrong"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
	if _, err := svc.Authenticate(ctx, "nobody", "s3cret"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials for unknown login, got %v", err)
	}
}
