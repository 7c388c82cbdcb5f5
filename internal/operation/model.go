package operation

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/yopay/yopay/internal/money"
)

// Operation is a directed transfer between two wallets. Amount is frozen in
// the base currency at creation time together with the two base-relative
// wallet rates and the signature; none of these fields ever change afterwards.
type Operation struct {
	ID                 int64
	SenderWalletID     int64
	ReceiverWalletID   int64
	Amount             decimal.Decimal
	SenderWalletRate   decimal.Decimal
	ReceiverWalletRate decimal.Decimal
	CreatedAt          time.Time
	Signature          string

	// CurrentStatus is the status of the most recently appended history
	// record, joined in on reads.
	CurrentStatus Status
}

// SenderAmount is the operation amount expressed in the sender wallet's
// currency: the quantity debited on PROCESSING and refunded on a later FAILED.
func (o Operation) SenderAmount() decimal.Decimal {
	return money.FromBase(o.Amount, o.SenderWalletRate)
}

// ReceiverAmount is the operation amount expressed in the receiver wallet's
// currency: the quantity credited on ACCEPTED.
func (o Operation) ReceiverAmount() decimal.Decimal {
	return money.FromBase(o.Amount, o.ReceiverWalletRate)
}

// StatusRecord is one immutable entry in an operation's append-only status
// history. Records are never updated or deleted.
type StatusRecord struct {
	ID          int64
	OperationID int64
	Status      Status
	At          time.Time
}
