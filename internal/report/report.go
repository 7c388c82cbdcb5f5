package report

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/shopspring/decimal"

	"github.com/yopay/yopay/internal/operation"
)

// Format selects the wire encoding of a report.
type Format string

const (
	FormatCSV Format = "CSV"
	FormatXML Format = "XML"
)

// ParseFormat validates a report format.
func ParseFormat(value string) (Format, error) {
	switch f := Format(value); f {
	case FormatCSV, FormatXML:
		return f, nil
	}
	return "", fmt.Errorf("unknown report format %q", value)
}

// Kind selects which report is produced.
type Kind string

const (
	KindOperations Kind = "operations"
	KindStatuses   Kind = "statuses"
)

// Filter scopes a report to one user and an optional creation-date window.
type Filter struct {
	UserID   int64
	DateFrom time.Time
	DateTo   time.Time
}

// OperationRow is one line of the operations report: an accepted operation the
// user participated in, flagged as income or outcome from their perspective.
type OperationRow struct {
	ID            int64           `xml:"id"`
	Amount        decimal.Decimal `xml:"amount"`
	Datetime      time.Time       `xml:"datetime"`
	Signature     string          `xml:"signature"`
	SenderLogin   string          `xml:"sender_login"`
	ReceiverLogin string          `xml:"receiver_login"`
	Type          string          `xml:"type"`
}

// StatusRow is one line of the statuses report.
type StatusRow struct {
	OperationID int64            `xml:"operation_id"`
	Value       operation.Status `xml:"value"`
	Datetime    time.Time        `xml:"datetime"`
}

// Source streams report rows without materializing the full result set.
type Source interface {
	StreamOperations(ctx context.Context, f Filter, fn func(OperationRow) error) error
	StreamStatuses(ctx context.Context, f Filter, fn func(StatusRow) error) error
}

// Builder renders one report kind in one format onto a writer.
type Builder interface {
	ContentType() string
	Stream(ctx context.Context, w io.Writer, src Source, f Filter) error
}

// NewBuilder returns the builder for the requested format and kind.
func NewBuilder(format Format, kind Kind) (Builder, error) {
	switch format {
	case FormatCSV:
		return &csvBuilder{kind: kind}, nil
	case FormatXML:
		return &xmlBuilder{kind: kind}, nil
	}
	return nil, fmt.Errorf("unknown report format %q", format)
}
