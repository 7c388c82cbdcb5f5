package operation

import (
	"context"
	"sync"
	"time"

	"github.com/yopay/yopay/internal/wallet"
)

// MemoryLedger is an in-memory operation store for unit tests. A single mutex
// spans the whole transition, standing in for the row lock the Postgres
// implementation takes.
type MemoryLedger struct {
	mu      sync.Mutex
	wallets *wallet.MemoryStore
	nextOp  int64
	nextRec int64
	ops     map[int64]Operation
	records map[int64][]StatusRecord
}

// NewMemoryLedger builds an in-memory store mutating balances through the
// given wallet store.
func NewMemoryLedger(wallets *wallet.MemoryStore) *MemoryLedger {
	return &MemoryLedger{
		wallets: wallets,
		ops:     make(map[int64]Operation),
		records: make(map[int64][]StatusRecord),
	}
}

func (l *MemoryLedger) Create(_ context.Context, op Operation) (Operation, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.nextOp++
	op.ID = l.nextOp
	op.CurrentStatus = StatusDraft
	l.ops[op.ID] = op
	l.appendLocked(op.ID, StatusDraft, op.CreatedAt)
	return op, nil
}

func (l *MemoryLedger) Get(_ context.Context, id int64) (Operation, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.getLocked(id)
}

func (l *MemoryLedger) Transition(ctx context.Context, id int64, next Status, at time.Time) (Operation, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	op, err := l.getLocked(id)
	if err != nil {
		return Operation{}, err
	}

	eff, err := transitionEffect(op.CurrentStatus, next)
	if err != nil {
		return Operation{}, err
	}
	for _, rec := range l.records[id] {
		if rec.Status == next {
			return Operation{}, ErrDuplicateTransition
		}
	}

	if eff.debitSender {
		sender, err := l.wallets.ByID(ctx, op.SenderWalletID)
		if err != nil {
			return Operation{}, err
		}
		debit := op.SenderAmount()
		if sender.Amount.LessThan(debit) {
			return Operation{}, ErrInsufficientFunds
		}
		if _, err := l.wallets.Adjust(ctx, op.SenderWalletID, debit.Neg()); err != nil {
			return Operation{}, err
		}
	}
	if eff.creditSender {
		if _, err := l.wallets.Adjust(ctx, op.SenderWalletID, op.SenderAmount()); err != nil {
			return Operation{}, err
		}
	}
	if eff.creditReceiver {
		if _, err := l.wallets.Adjust(ctx, op.ReceiverWalletID, op.ReceiverAmount()); err != nil {
			return Operation{}, err
		}
	}

	l.appendLocked(id, next, at)
	op.CurrentStatus = next
	l.ops[id] = op
	return op, nil
}

func (l *MemoryLedger) History(_ context.Context, id int64) ([]StatusRecord, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	records, ok := l.records[id]
	if !ok {
		return nil, ErrNotFound
	}
	out := make([]StatusRecord, len(records))
	copy(out, records)
	return out, nil
}

func (l *MemoryLedger) getLocked(id int64) (Operation, error) {
	op, ok := l.ops[id]
	if !ok {
		return Operation{}, ErrNotFound
	}
	records := l.records[id]
	op.CurrentStatus = records[len(records)-1].Status
	return op, nil
}

func (l *MemoryLedger) appendLocked(operationID int64, status Status, at time.Time) {
	l.nextRec++
	l.records[operationID] = append(l.records[operationID], StatusRecord{
		ID:          l.nextRec,
		OperationID: operationID,
		Status:      status,
		At:          at,
	})
}
