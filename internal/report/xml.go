package report

import (
	"context"
	"encoding/xml"
	"fmt"
	"io"
	"strconv"
)

type xmlBuilder struct {
	kind Kind
}

func (b *xmlBuilder) ContentType() string {
	return "text/xml"
}

type operationElem struct {
	XMLName struct{} `xml:"operation"`
	OperationRow
}

type statusElem struct {
	XMLName struct{} `xml:"status"`
	StatusRow
}

func (b *xmlBuilder) Stream(ctx context.Context, w io.Writer, src Source, f Filter) error {
	root := "operations"
	if b.kind == KindStatuses {
		root = "statuses"
	}

	if _, err := fmt.Fprintf(w, "<?xml version=\"1.0\" encoding=\"UTF-8\"?>\n<%s>\n", root); err != nil {
		return err
	}

	writeElem := func(v any) error {
		raw, err := xml.Marshal(v)
		if err != nil {
			return err
		}
		if _, err := w.Write(raw); err != nil {
			return err
		}
		_, err = w.Write([]byte("\n"))
		return err
	}

	var err error
	if b.kind == KindStatuses {
		err = src.StreamStatuses(ctx, f, func(row StatusRow) error {
			return writeElem(statusElem{StatusRow: row})
		})
	} else {
		err = src.StreamOperations(ctx, f, func(row OperationRow) error {
			return writeElem(operationElem{OperationRow: row})
		})
	}
	if err != nil {
		return err
	}

	_, err = fmt.Fprintf(w, "</%s>\n", root)
	return err
}

func formatInt(v int64) string {
	return strconv.FormatInt(v, 10)
}
