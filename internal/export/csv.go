// Package export writes records as a spreadsheet-friendly CSV file.
//
// The format is fixed: a UTF-8 byte order mark, a header row, semicolon
// separators, and every field double-quoted with embedded quotes doubled.
package export

import (
	"bufio"
	"io"
	"strconv"
	"strings"

	"github.com/hpungsan/radar/internal/record"
)

// BOM is the UTF-8 byte order mark written before the header.
const BOM = "\ufeff"

// Separator between fields.
const Separator = ';'

// Header is the fixed column list.
var Header = []string{
	"Title", "Date", "Location", "Category", "Impact", "Action",
	"Description", "Price", "URL", "Tags", "Done",
}

// Write emits records to w. It returns the number of data rows written.
func Write(w io.Writer, records []record.Record) (int, error) {
	bw := bufio.NewWriter(w)
	if _, err := bw.WriteString(BOM); err != nil {
		return 0, err
	}
	if err := writeRow(bw, Header); err != nil {
		return 0, err
	}
	for i, r := range records {
		if err := writeRow(bw, Row(r)); err != nil {
			return i, err
		}
	}
	if err := bw.Flush(); err != nil {
		return 0, err
	}
	return len(records), nil
}

// Row returns r's fields in Header order.
func Row(r record.Record) []string {
	return []string{
		r.Title,
		r.Date,
		r.Location,
		string(r.Category),
		r.Impact,
		r.Action,
		r.Description,
		r.Price,
		r.URL,
		strings.Join(r.Tags, ", "),
		strconv.FormatBool(r.Done),
	}
}

func writeRow(w *bufio.Writer, fields []string) error {
	for i, f := range fields {
		if i > 0 {
			if err := w.WriteByte(Separator); err != nil {
				return err
			}
		}
		if _, err := w.WriteString(Quote(f)); err != nil {
			return err
		}
	}
	_, err := w.WriteString("\r\n")
	return err
}

// Quote wraps s in double quotes, doubling any quote inside.
func Quote(s string) string {
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}
