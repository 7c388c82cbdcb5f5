package signing

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func TestSignAndVerify(t *testing.T) {
	signer, err := Generate()
	if err != nil {
		t.Fatalf("generate signer: %v", err)
	}

	amount := decimal.RequireFromString("50.00")
	at := time.Date(2024, 3, 1, 12, 30, 0, 0, time.UTC)

	sig, err := signer.Sign(1, 2, "USD", amount, at)
	if err != nil {
		t.Fatalf("sign failed: %v", err)
	}
	if sig == "" {
		t.Fatal("expected non-empty signature")
	}

	if err := Verify(signer.Public(), sig, 1, 2, "USD", amount, at); err != nil {
		t.Fatalf("verify failed: %v", err)
	}
}

func TestVerifyRejectsTamperedFields(t *testing.T) {
	signer, err := Generate()
	if err != nil {
		t.Fatalf("generate signer: %v", err)
	}

	amount := decimal.RequireFromString("50.00")
	at := time.Now().UTC()

	sig, err := signer.Sign(1, 2, "USD", amount, at)
	if err != nil {
		t.Fatalf("sign failed: %v", err)
	}

	if err := Verify(signer.Public(), sig, 1, 2, "USD", decimal.RequireFromString("500.00"), at); err == nil {
		t.Fatal("expected verification failure for changed amount")
	}
	if err := Verify(signer.Public(), sig, 2, 1, "USD", amount, at); err == nil {
		t.Fatal("expected verification failure for swapped wallets")
	}
}

func TestCanonicalIsStable(t *testing.T) {
	at := time.Date(2024, 3, 1, 12, 30, 0, 500, time.UTC)
	amount := decimal.RequireFromString("7.5")

	got := canonical(10, 20, "EUR", amount, at)
	want := "1020EUR7.502024-03-01T12:30:00.0000005Z"
	if got != want {
		t.Fatalf("canonical = %q, want %q", got, want)
	}
}
