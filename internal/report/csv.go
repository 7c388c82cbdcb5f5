package report

import (
	"context"
	"encoding/csv"
	"io"
	"time"
)

type csvBuilder struct {
	kind Kind
}

func (b *csvBuilder) ContentType() string {
	return "text/csv"
}

func (b *csvBuilder) Stream(ctx context.Context, w io.Writer, src Source, f Filter) error {
	out := csv.NewWriter(w)

	switch b.kind {
	case KindStatuses:
		if err := out.Write([]string{"operation_id", "status", "datetime"}); err != nil {
			return err
		}
		err := src.StreamStatuses(ctx, f, func(row StatusRow) error {
			return out.Write([]string{
				formatInt(row.OperationID),
				string(row.Value),
				row.Datetime.UTC().Format(time.RFC3339Nano),
			})
		})
		if err != nil {
			return err
		}
	default:
		if err := out.Write([]string{"id", "amount", "datetime", "signature", "sender_login", "receiver_login", "type"}); err != nil {
			return err
		}
		err := src.StreamOperations(ctx, f, func(row OperationRow) error {
			return out.Write([]string{
				formatInt(row.ID),
				row.Amount.StringFixed(2),
				row.Datetime.UTC().Format(time.RFC3339Nano),
				row.Signature,
				row.SenderLogin,
				row.ReceiverLogin,
				row.Type,
			})
		})
		if err != nil {
			return err
		}
	}

	out.Flush()
	return out.Error()
}
