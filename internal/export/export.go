// Package export renders extracted field maps into the delivery formats:
// plain text, CSV, JSON, and a printable report.
package export

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"

	"github.com/joelkehle/docintake/internal/fieldscan"
)

// Format is a supported export encoding.
type Format string

const (
	FormatText Format = "txt"
	FormatCSV  Format = "csv"
	FormatJSON Format = "json"
)

// ParseFormat validates a user-supplied format name.
func ParseFormat(s string) (Format, error) {
	switch Format(s) {
	case FormatText, FormatCSV, FormatJSON:
		return Format(s), nil
	default:
		return "", fmt.Errorf("unknown export format %q", s)
	}
}

// Write renders fields in the given format. Absent fields are omitted from
// the output entirely; present fields appear in the fixed label order.
func Write(w io.Writer, format Format, fields fieldscan.FieldMap) error {
	switch format {
	case FormatText:
		return WriteText(w, fields)
	case FormatCSV:
		return WriteCSV(w, fields)
	case FormatJSON:
		return WriteJSON(w, fields)
	default:
		return fmt.Errorf("unknown export format %q", format)
	}
}

// WriteText emits one "Label: value" line per extracted field.
func WriteText(w io.Writer, fields fieldscan.FieldMap) error {
	for _, kind := range fieldscan.AllKinds {
		value, ok := fields[kind]
		if !ok {
			continue
		}
		if _, err := fmt.Fprintf(w, "%s: %s\n", kind.Label(), value); err != nil {
			return err
		}
	}
	return nil
}

// WriteCSV emits a two-column Field,Value table.
func WriteCSV(w io.Writer, fields fieldscan.FieldMap) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"Field", "Value"}); err != nil {
		return err
	}
	for _, kind := range fieldscan.AllKinds {
		value, ok := fields[kind]
		if !ok {
			continue
		}
		if err := cw.Write([]string{kind.Label(), value}); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteJSON emits the field map keyed by the canonical snake_case names.
func WriteJSON(w io.Writer, fields fieldscan.FieldMap) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(fields)
}

// ContentType returns the HTTP content type for a format.
func ContentType(format Format) string {
	switch format {
	case FormatCSV:
		return "text/csv; charset=utf-8"
	case FormatJSON:
		return "application/json"
	default:
		return "text/plain; charset=utf-8"
	}
}
