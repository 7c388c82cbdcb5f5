package operation

import (
	"context"
	"errors"
	"time"
)

var (
	// ErrNotFound indicates the operation does not exist.
	ErrNotFound = errors.New("operation not found")

	// ErrReceiverNotFound indicates no wallet matches the receiver login.
	ErrReceiverNotFound = errors.New("receiver not found")

	// ErrSelfTransfer rejects operations whose sender and receiver wallets
	// are the same.
	ErrSelfTransfer = errors.New("should be another wallet")

	// ErrInvalidTransition indicates the requested status is not reachable
	// from the operation's current status. Nothing is mutated.
	ErrInvalidTransition = errors.New("not valid status")

	// ErrInsufficientFunds is a business outcome, not a system failure: the
	// sender wallet cannot cover the debit, the transaction is a no-op and
	// the operation stays in DRAFT.
	ErrInsufficientFunds = errors.New("not enough money on sender wallet")

	// ErrDuplicateTransition surfaces the status-history uniqueness
	// invariant. A caller retrying the same (operation, status) pair can
	// treat it as already applied.
	ErrDuplicateTransition = errors.New("status already recorded for operation")
)

// Store drives operation persistence. Create and Transition each run inside
// one atomic transaction; Transition holds an exclusive lock on the operation
// row from the status read until commit so concurrent transitions on the same
// operation serialize.
type Store interface {
	// Create inserts the operation and its seed DRAFT status record
	// atomically, returning the stored operation with its identity.
	Create(ctx context.Context, op Operation) (Operation, error)
	// Get loads the operation joined with its current status.
	Get(ctx context.Context, id int64) (Operation, error)
	// Transition validates the status change against the state machine,
	// applies the balance side effects, and appends the status record, all
	// in one transaction.
	Transition(ctx context.Context, id int64, next Status, at time.Time) (Operation, error)
	// History returns the append-only status log in insertion order.
	History(ctx context.Context, id int64) ([]StatusRecord, error)
}
