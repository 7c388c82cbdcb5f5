package operation

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/shopspring/decimal"

	"github.com/yopay/yopay/internal/money"
	"github.com/yopay/yopay/internal/notification"
	"github.com/yopay/yopay/internal/rates"
	"github.com/yopay/yopay/internal/signing"
	"github.com/yopay/yopay/internal/wallet"
)

// Service drives the operation lifecycle: creation with frozen rates and
// signature, and status transitions with their balance side effects.
type Service struct {
	store    Store
	wallets  wallet.Store
	rates    rates.Client
	signer   *signing.Signer
	notifier notification.Notifier
}

// NewService builds the ledger service. The rate client is an explicit
// collaborator so tests can pin quotes. The notifier may be nil.
func NewService(store Store, wallets wallet.Store, rates rates.Client, signer *signing.Signer, notifier notification.Notifier) *Service {
	return &Service{store: store, wallets: wallets, rates: rates, signer: signer, notifier: notifier}
}

// CreateInput captures a transfer request from the authenticated sender.
type CreateInput struct {
	SenderUserID  int64
	ReceiverLogin string
	Currency      money.Currency
	Amount        decimal.Decimal
}

// Created is the outcome of a create call: the stored operation plus the
// request context callers echo back (stated amount and currency, receiver
// login, and the rate quote that was frozen onto the operation).
type Created struct {
	Operation      Operation
	StatedAmount   decimal.Decimal
	StatedCurrency money.Currency
	ReceiverLogin  string
	Quote          rates.Quote
}

// Create resolves both wallets, freezes a rate quote and the signature onto a
// new operation, and stores it together with its seed DRAFT record. No wallet
// balance is touched here: money is reserved only on transition into
// PROCESSING.
func (s *Service) Create(ctx context.Context, in CreateInput) (Created, error) {
	if err := wallet.ValidateAmount(in.Amount); err != nil {
		return Created{}, err
	}

	receiver, err := s.wallets.ByLogin(ctx, in.ReceiverLogin)
	if err != nil {
		if errors.Is(err, wallet.ErrNotFound) {
			return Created{}, ErrReceiverNotFound
		}
		return Created{}, err
	}

	sender, err := s.wallets.ByUserID(ctx, in.SenderUserID)
	if err != nil {
		return Created{}, err
	}
	if receiver.ID == sender.ID {
		return Created{}, ErrSelfTransfer
	}

	quote, err := s.rates.Rates(ctx)
	if err != nil {
		return Created{}, fmt.Errorf("fetch rate quote: %w", err)
	}
	statedRate, err := quote.Rate(in.Currency)
	if err != nil {
		return Created{}, err
	}
	senderRate, err := quote.Rate(sender.Currency)
	if err != nil {
		return Created{}, err
	}
	receiverRate, err := quote.Rate(receiver.Currency)
	if err != nil {
		return Created{}, err
	}

	now := time.Now().UTC()
	signature, err := s.signer.Sign(sender.ID, receiver.ID, string(in.Currency), in.Amount, now)
	if err != nil {
		return Created{}, err
	}

	op, err := s.store.Create(ctx, Operation{
		SenderWalletID:     sender.ID,
		ReceiverWalletID:   receiver.ID,
		Amount:             money.ToBase(in.Amount, statedRate),
		SenderWalletRate:   senderRate,
		ReceiverWalletRate: receiverRate,
		CreatedAt:          now,
		Signature:          signature,
	})
	if err != nil {
		return Created{}, err
	}

	return Created{
		Operation:      op,
		StatedAmount:   in.Amount,
		StatedCurrency: in.Currency,
		ReceiverLogin:  in.ReceiverLogin,
		Quote:          quote,
	}, nil
}

// Transition advances an operation to the requested status.
func (s *Service) Transition(ctx context.Context, id int64, next Status) (Operation, error) {
	op, err := s.store.Transition(ctx, id, next, time.Now().UTC())
	if err != nil {
		return Operation{}, err
	}

	if next == StatusAccepted && s.notifier != nil {
		_ = s.notifier.Send(ctx, notification.Message{
			Kind:        notification.KindOperationAccepted,
			Destination: strconv.FormatInt(op.ReceiverWalletID, 10),
			Body:        fmt.Sprintf("You received %s on wallet %d", op.ReceiverAmount(), op.ReceiverWalletID),
		})
	}

	return op, nil
}

// Get loads an operation joined with its current status.
func (s *Service) Get(ctx context.Context, id int64) (Operation, error) {
	return s.store.Get(ctx, id)
}

// History returns an operation's append-only status log.
func (s *Service) History(ctx context.Context, id int64) ([]StatusRecord, error) {
	return s.store.History(ctx, id)
}
