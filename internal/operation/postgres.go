package operation

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/yopay/yopay/internal/wallet"
)

const uniqueViolation = "23505"

// PostgresLedger persists operations and their status history in PostgreSQL.
type PostgresLedger struct {
	db *pgxpool.Pool
}

// NewPostgresLedger constructs a Postgres-backed operation store.
func NewPostgresLedger(db *pgxpool.Pool) *PostgresLedger {
	return &PostgresLedger{db: db}
}

// Create inserts the operation row and its seed DRAFT status record in one
// transaction.
func (l *PostgresLedger) Create(ctx context.Context, op Operation) (Operation, error) {
	tx, err := l.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return Operation{}, fmt.Errorf("begin create: %w", err)
	}
	defer tx.Rollback(ctx) // nolint:errcheck

	err = tx.QueryRow(ctx, `
        INSERT INTO operations (sender_wallet_id, receiver_wallet_id, amount,
            sender_wallet_rate, receiver_wallet_rate, datetime, signature)
        VALUES ($1, $2, $3, $4, $5, $6, $7)
        RETURNING id`,
		op.SenderWalletID, op.ReceiverWalletID, op.Amount,
		op.SenderWalletRate, op.ReceiverWalletRate, op.CreatedAt.UTC(), op.Signature,
	).Scan(&op.ID)
	if err != nil {
		return Operation{}, fmt.Errorf("insert operation: %w", err)
	}

	if err := appendStatus(ctx, tx, op.ID, StatusDraft, op.CreatedAt); err != nil {
		return Operation{}, err
	}

	if err := tx.Commit(ctx); err != nil {
		return Operation{}, fmt.Errorf("commit create: %w", err)
	}

	op.CurrentStatus = StatusDraft
	return op, nil
}

// Get loads an operation joined with its current status.
func (l *PostgresLedger) Get(ctx context.Context, id int64) (Operation, error) {
	return scanOperation(l.db.QueryRow(ctx, currentStatusQuery, id))
}

// Transition applies a status change and its balance side effects atomically.
// The operation row is locked from the status read until commit, making it
// impossible for two concurrent transitions to both observe the same
// pre-transition status. The unique (operation_id, status) constraint remains
// as a safety net that turns any residual race into ErrDuplicateTransition.
func (l *PostgresLedger) Transition(ctx context.Context, id int64, next Status, at time.Time) (Operation, error) {
	tx, err := l.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return Operation{}, fmt.Errorf("begin transition: %w", err)
	}
	defer tx.Rollback(ctx) // nolint:errcheck

	op, err := scanOperation(tx.QueryRow(ctx, currentStatusQuery+` FOR UPDATE OF o`, id))
	if err != nil {
		return Operation{}, err
	}

	eff, err := transitionEffect(op.CurrentStatus, next)
	if err != nil {
		return Operation{}, err
	}

	if eff.debitSender {
		balance, err := wallet.BalanceForUpdate(ctx, tx, op.SenderWalletID)
		if err != nil {
			return Operation{}, err
		}
		debit := op.SenderAmount()
		if balance.LessThan(debit) {
			return Operation{}, ErrInsufficientFunds
		}
		if err := wallet.AdjustBalance(ctx, tx, op.SenderWalletID, debit.Neg()); err != nil {
			return Operation{}, err
		}
	}
	if eff.creditSender {
		if err := wallet.AdjustBalance(ctx, tx, op.SenderWalletID, op.SenderAmount()); err != nil {
			return Operation{}, err
		}
	}
	if eff.creditReceiver {
		if err := wallet.AdjustBalance(ctx, tx, op.ReceiverWalletID, op.ReceiverAmount()); err != nil {
			return Operation{}, err
		}
	}

	if err := appendStatus(ctx, tx, op.ID, next, at); err != nil {
		return Operation{}, err
	}

	if err := tx.Commit(ctx); err != nil {
		return Operation{}, fmt.Errorf("commit transition: %w", err)
	}

	op.CurrentStatus = next
	return op, nil
}

// History returns the status log for an operation in insertion order.
func (l *PostgresLedger) History(ctx context.Context, id int64) ([]StatusRecord, error) {
	rows, err := l.db.Query(ctx, `
        SELECT id, operation_id, status, datetime
        FROM operations_statuses
        WHERE operation_id = $1
        ORDER BY id`, id)
	if err != nil {
		return nil, fmt.Errorf("query status history: %w", err)
	}
	defer rows.Close()

	var records []StatusRecord
	for rows.Next() {
		var (
			rec    StatusRecord
			status string
			at     time.Time
		)
		if err := rows.Scan(&rec.ID, &rec.OperationID, &status, &at); err != nil {
			return nil, fmt.Errorf("scan status record: %w", err)
		}
		parsed, err := ParseStatus(status)
		if err != nil {
			return nil, err
		}
		rec.Status = parsed
		rec.At = at.UTC()
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, ErrNotFound
	}
	return records, nil
}

// currentStatusQuery joins an operation with its most recently inserted status
// record. Ordering is by record id, not timestamp, so the result is
// deterministic even when two records share a timestamp.
const currentStatusQuery = `
    SELECT o.id, o.sender_wallet_id, o.receiver_wallet_id, o.amount,
           o.sender_wallet_rate, o.receiver_wallet_rate, o.datetime, o.signature,
           s.status
    FROM operations o
    INNER JOIN operations_statuses s ON s.operation_id = o.id
    WHERE o.id = $1
    ORDER BY s.id DESC
    LIMIT 1`

func appendStatus(ctx context.Context, tx pgx.Tx, operationID int64, status Status, at time.Time) error {
	_, err := tx.Exec(ctx, `
        INSERT INTO operations_statuses (operation_id, status, datetime)
        VALUES ($1, $2, $3)`, operationID, string(status), at.UTC())
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return ErrDuplicateTransition
		}
		return fmt.Errorf("append status %s: %w", status, err)
	}
	return nil
}

func scanOperation(row pgx.Row) (Operation, error) {
	var (
		op        Operation
		createdAt time.Time
		status    string
	)
	err := row.Scan(&op.ID, &op.SenderWalletID, &op.ReceiverWalletID, &op.Amount,
		&op.SenderWalletRate, &op.ReceiverWalletRate, &createdAt, &op.Signature, &status)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Operation{}, ErrNotFound
		}
		return Operation{}, fmt.Errorf("scan operation: %w", err)
	}
	parsed, err := ParseStatus(status)
	if err != nil {
		return Operation{}, err
	}
	op.CreatedAt = createdAt.UTC()
	op.CurrentStatus = parsed
	return op, nil
}
