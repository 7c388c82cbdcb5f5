package operation

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/yopay/yopay/internal/money"
	"github.com/yopay/yopay/internal/rates"
	"github.com/yopay/yopay/internal/signing"
	"github.com/yopay/yopay/internal/wallet"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func testQuote() rates.Static {
	return rates.Static{
		money.USD: dec("1"),
		money.EUR: dec("0.9"),
		money.CAD: dec("1.31"),
		money.CNY: dec("7.1"),
	}
}

type fixture struct {
	svc     *Service
	wallets *wallet.MemoryStore
	sender  wallet.Wallet
	recv    wallet.Wallet
}

// newFixture seeds wallet A (USD, owned by user 1, login "alice") and wallet B
// (EUR, owned by user 2, login "bob").
func newFixture(t *testing.T, senderBalance string) fixture {
	t.Helper()
	wallets := wallet.NewMemoryStore()
	sender := wallets.Put(wallet.Wallet{UserID: 1, Amount: dec(senderBalance), Currency: money.USD}, "alice")
	recv := wallets.Put(wallet.Wallet{UserID: 2, Amount: decimal.Zero, Currency: money.EUR}, "bob")

	signer, err := signing.Generate()
	if err != nil {
		t.Fatalf("generate signer: %v", err)
	}
	svc := NewService(NewMemoryLedger(wallets), wallets, testQuote(), signer, nil)
	return fixture{svc: svc, wallets: wallets, sender: sender, recv: recv}
}

func (f fixture) balance(t *testing.T, id int64) decimal.Decimal {
	t.Helper()
	w, err := f.wallets.ByID(context.Background(), id)
	if err != nil {
		t.Fatalf("wallet %d: %v", id, err)
	}
	return w.Amount
}

func TestCreateFreezesRatesAndSignature(t *testing.T) {
	f := newFixture(t, "100.00")

	created, err := f.svc.Create(context.Background(), CreateInput{
		SenderUserID:  1,
		ReceiverLogin: "bob",
		Currency:      money.USD,
		Amount:        dec("50.00"),
	})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	op := created.Operation
	if !op.Amount.Equal(dec("50.00")) {
		t.Fatalf("expected stored amount 50.00, got %s", op.Amount)
	}
	if !op.SenderWalletRate.Equal(dec("1")) || !op.ReceiverWalletRate.Equal(dec("0.9")) {
		t.Fatalf("unexpected frozen rates: %s / %s", op.SenderWalletRate, op.ReceiverWalletRate)
	}
	if op.CurrentStatus != StatusDraft {
		t.Fatalf("expected DRAFT, got %s", op.CurrentStatus)
	}
	if op.Signature == "" {
		t.Fatal("expected signature to be set")
	}

	// Creation must not touch any balance.
	if !f.balance(t, f.sender.ID).Equal(dec("100.00")) {
		t.Fatal("sender balance changed at creation")
	}

	history, err := f.svc.History(context.Background(), op.ID)
	if err != nil {
		t.Fatalf("history failed: %v", err)
	}
	if len(history) != 1 || history[0].Status != StatusDraft {
		t.Fatalf("expected a single DRAFT record, got %+v", history)
	}
}

func TestCreateReceiverNotFound(t *testing.T) {
	f := newFixture(t, "100.00")
	_, err := f.svc.Create(context.Background(), CreateInput{
		SenderUserID: 1, ReceiverLogin: "nobody", Currency: money.USD, Amount: dec("1.00"),
	})
	if !errors.Is(err, ErrReceiverNotFound) {
		t.Fatalf("expected ErrReceiverNotFound, got %v", err)
	}
}

func TestCreateRejectsSelfTransfer(t *testing.T) {
	f := newFixture(t, "100.00")
	_, err := f.svc.Create(context.Background(), CreateInput{
		SenderUserID: 1, ReceiverLogin: "alice", Currency: money.USD, Amount: dec("1.00"),
	})
	if !errors.Is(err, ErrSelfTransfer) {
		t.Fatalf("expected ErrSelfTransfer, got %v", err)
	}
}

func TestAcceptedPathMovesConvertedAmounts(t *testing.T) {
	f := newFixture(t, "100.00")
	ctx := context.Background()

	created, err := f.svc.Create(ctx, CreateInput{
		SenderUserID: 1, ReceiverLogin: "bob", Currency: money.USD, Amount: dec("50.00"),
	})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	id := created.Operation.ID

	op, err := f.svc.Transition(ctx, id, StatusProcessing)
	if err != nil {
		t.Fatalf("to PROCESSING failed: %v", err)
	}
	if op.CurrentStatus != StatusProcessing {
		t.Fatalf("expected PROCESSING, got %s", op.CurrentStatus)
	}
	if !f.balance(t, f.sender.ID).Equal(dec("50.00")) {
		t.Fatalf("expected sender balance 50.00, got %s", f.balance(t, f.sender.ID))
	}

	if _, err := f.svc.Transition(ctx, id, StatusAccepted); err != nil {
		t.Fatalf("to ACCEPTED failed: %v", err)
	}
	// 50.00 base at receiver rate 0.9 credits 45.00 EUR.
	if !f.balance(t, f.recv.ID).Equal(dec("45.00")) {
		t.Fatalf("expected receiver balance 45.00, got %s", f.balance(t, f.recv.ID))
	}
}

func TestInsufficientFundsLeavesStateUntouched(t *testing.T) {
	f := newFixture(t, "10.00")
	ctx := context.Background()

	created, err := f.svc.Create(ctx, CreateInput{
		SenderUserID: 1, ReceiverLogin: "bob", Currency: money.USD, Amount: dec("50.00"),
	})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	_, err = f.svc.Transition(ctx, created.Operation.ID, StatusProcessing)
	if !errors.Is(err, ErrInsufficientFunds) {
		t.Fatalf("expected ErrInsufficientFunds, got %v", err)
	}

	if !f.balance(t, f.sender.ID).Equal(dec("10.00")) {
		t.Fatal("sender balance changed on rejected transition")
	}
	op, err := f.svc.Get(ctx, created.Operation.ID)
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if op.CurrentStatus != StatusDraft {
		t.Fatalf("expected status to remain DRAFT, got %s", op.CurrentStatus)
	}
	history, _ := f.svc.History(ctx, created.Operation.ID)
	if len(history) != 1 {
		t.Fatalf("expected no new status record, got %d", len(history))
	}
}

func TestFailedAfterProcessingRefundsExactly(t *testing.T) {
	f := newFixture(t, "100.00")
	ctx := context.Background()

	created, err := f.svc.Create(ctx, CreateInput{
		SenderUserID: 1, ReceiverLogin: "bob", Currency: money.USD, Amount: dec("33.33"),
	})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	id := created.Operation.ID

	if _, err := f.svc.Transition(ctx, id, StatusProcessing); err != nil {
		t.Fatalf("to PROCESSING failed: %v", err)
	}
	if _, err := f.svc.Transition(ctx, id, StatusFailed); err != nil {
		t.Fatalf("to FAILED failed: %v", err)
	}

	if !f.balance(t, f.sender.ID).Equal(dec("100.00")) {
		t.Fatalf("refund drifted: sender balance %s", f.balance(t, f.sender.ID))
	}
	if !f.balance(t, f.recv.ID).Equal(dec("0")) {
		t.Fatalf("receiver credited on failed operation: %s", f.balance(t, f.recv.ID))
	}
}

func TestDraftToFailedMovesNoMoney(t *testing.T) {
	f := newFixture(t, "100.00")
	ctx := context.Background()

	created, err := f.svc.Create(ctx, CreateInput{
		SenderUserID: 1, ReceiverLogin: "bob", Currency: money.USD, Amount: dec("50.00"),
	})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	if _, err := f.svc.Transition(ctx, created.Operation.ID, StatusFailed); err != nil {
		t.Fatalf("to FAILED failed: %v", err)
	}
	if !f.balance(t, f.sender.ID).Equal(dec("100.00")) {
		t.Fatal("balance changed on DRAFT -> FAILED")
	}
}

func TestTerminalStatusRejectsFurtherTransitions(t *testing.T) {
	f := newFixture(t, "100.00")
	ctx := context.Background()

	created, _ := f.svc.Create(ctx, CreateInput{
		SenderUserID: 1, ReceiverLogin: "bob", Currency: money.USD, Amount: dec("50.00"),
	})
	id := created.Operation.ID
	f.svc.Transition(ctx, id, StatusProcessing)
	f.svc.Transition(ctx, id, StatusAccepted)

	if _, err := f.svc.Transition(ctx, id, StatusFailed); !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("expected ErrInvalidTransition from terminal status, got %v", err)
	}
}

func TestDirectAcceptFromDraftRejected(t *testing.T) {
	f := newFixture(t, "100.00")
	ctx := context.Background()

	created, _ := f.svc.Create(ctx, CreateInput{
		SenderUserID: 1, ReceiverLogin: "bob", Currency: money.USD, Amount: dec("50.00"),
	})

	if _, err := f.svc.Transition(ctx, created.Operation.ID, StatusAccepted); !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("expected ErrInvalidTransition, got %v", err)
	}
}

func TestTransitionUnknownOperation(t *testing.T) {
	f := newFixture(t, "100.00")
	if _, err := f.svc.Transition(context.Background(), 9999, StatusProcessing); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestStatedCurrencyConversionOnCreate(t *testing.T) {
	f := newFixture(t, "100.00")
	ctx := context.Background()

	// 45.00 stated in EUR at rate 0.9 freezes 50.00 in base currency.
	created, err := f.svc.Create(ctx, CreateInput{
		SenderUserID: 1, ReceiverLogin: "bob", Currency: money.EUR, Amount: dec("45.00"),
	})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if !created.Operation.Amount.Equal(dec("50.00")) {
		t.Fatalf("expected frozen base amount 50.00, got %s", created.Operation.Amount)
	}
}

func TestConcurrentSameTransitionOnlyOneSucceeds(t *testing.T) {
	f := newFixture(t, "100.00")
	ctx := context.Background()

	created, err := f.svc.Create(ctx, CreateInput{
		SenderUserID: 1, ReceiverLogin: "bob", Currency: money.USD, Amount: dec("50.00"),
	})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	id := created.Operation.ID

	const workers = 8
	results := make(chan error, workers)
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := f.svc.Transition(ctx, id, StatusProcessing)
			results <- err
		}()
	}
	wg.Wait()
	close(results)

	var successes int
	for err := range results {
		switch {
		case err == nil:
			successes++
		case errors.Is(err, ErrInvalidTransition), errors.Is(err, ErrDuplicateTransition):
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}
	if successes != 1 {
		t.Fatalf("expected exactly one successful transition, got %d", successes)
	}
	// Exactly one debit must have been applied.
	if !f.balance(t, f.sender.ID).Equal(dec("50.00")) {
		t.Fatalf("expected sender balance 50.00, got %s", f.balance(t, f.sender.ID))
	}
}

func TestMoneyConservedAcrossEveryPath(t *testing.T) {
	ctx := context.Background()
	paths := [][]Status{
		{StatusFailed},
		{StatusProcessing, StatusFailed},
	}
	for _, path := range paths {
		f := newFixture(t, "80.00")
		created, err := f.svc.Create(ctx, CreateInput{
			SenderUserID: 1, ReceiverLogin: "bob", Currency: money.USD, Amount: dec("25.00"),
		})
		if err != nil {
			t.Fatalf("create failed: %v", err)
		}
		for _, next := range path {
			if _, err := f.svc.Transition(ctx, created.Operation.ID, next); err != nil {
				t.Fatalf("transition to %s failed: %v", next, err)
			}
		}
		if !f.balance(t, f.sender.ID).Equal(dec("80.00")) || !f.balance(t, f.recv.ID).Equal(dec("0")) {
			t.Fatalf("path %v did not conserve money: sender=%s receiver=%s",
				path, f.balance(t, f.sender.ID), f.balance(t, f.recv.ID))
		}
	}
}
