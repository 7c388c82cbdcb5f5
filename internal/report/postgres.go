package report

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/yopay/yopay/internal/operation"
)

// PostgresSource streams report rows straight from pgx result sets.
type PostgresSource struct {
	db *pgxpool.Pool
}

// NewPostgresSource builds a Postgres-backed report source.
func NewPostgresSource(db *pgxpool.Pool) *PostgresSource {
	return &PostgresSource{db: db}
}

// StreamOperations yields the user's accepted operations, marking each as
// income or outcome from the user's perspective.
func (s *PostgresSource) StreamOperations(ctx context.Context, f Filter, fn func(OperationRow) error) error {
	query := `
        SELECT o.id, o.amount, o.datetime, o.signature,
               su.login AS sender_login, ru.login AS receiver_login,
               CASE WHEN sw.user_id = $1 THEN 'outcome' ELSE 'income' END AS type
        FROM operations o
        INNER JOIN wallets sw ON sw.id = o.sender_wallet_id
        INNER JOIN users su ON su.id = sw.user_id
        INNER JOIN wallets rw ON rw.id = o.receiver_wallet_id
        INNER JOIN users ru ON ru.id = rw.user_id
        INNER JOIN operations_statuses os
            ON os.operation_id = o.id AND os.status = 'ACCEPTED'
        WHERE (sw.user_id = $1 OR rw.user_id = $1)`
	query, args := appendDateFilters(query, []any{f.UserID}, f)

	rows, err := s.db.Query(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("query operations report: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			row OperationRow
			at  time.Time
		)
		if err := rows.Scan(&row.ID, &row.Amount, &at, &row.Signature,
			&row.SenderLogin, &row.ReceiverLogin, &row.Type); err != nil {
			return fmt.Errorf("scan operations report row: %w", err)
		}
		row.Datetime = at.UTC()
		if err := fn(row); err != nil {
			return err
		}
	}
	return rows.Err()
}

// StreamStatuses yields the status history of every operation the user
// participated in, newest operations first.
func (s *PostgresSource) StreamStatuses(ctx context.Context, f Filter, fn func(StatusRow) error) error {
	query := `
        SELECT o.id, st.status, st.datetime
        FROM operations_statuses st
        INNER JOIN operations o ON o.id = st.operation_id
        INNER JOIN wallets sw ON sw.id = o.sender_wallet_id
        INNER JOIN wallets rw ON rw.id = o.receiver_wallet_id
        WHERE (sw.user_id = $1 OR rw.user_id = $1)`
	query, args := appendDateFilters(query, []any{f.UserID}, f)
	query += ` ORDER BY o.id DESC, st.id DESC`

	rows, err := s.db.Query(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("query statuses report: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			row    StatusRow
			status string
			at     time.Time
		)
		if err := rows.Scan(&row.OperationID, &status, &at); err != nil {
			return fmt.Errorf("scan statuses report row: %w", err)
		}
		parsed, err := operation.ParseStatus(status)
		if err != nil {
			return err
		}
		row.Value = parsed
		row.Datetime = at.UTC()
		if err := fn(row); err != nil {
			return err
		}
	}
	return rows.Err()
}

func appendDateFilters(query string, args []any, f Filter) (string, []any) {
	if !f.DateFrom.IsZero() {
		args = append(args, f.DateFrom)
		query += fmt.Sprintf(" AND o.datetime >= $%d", len(args))
	}
	if !f.DateTo.IsZero() {
		args = append(args, f.DateTo)
		query += fmt.Sprintf(" AND o.datetime < $%d", len(args))
	}
	return query, args
}
