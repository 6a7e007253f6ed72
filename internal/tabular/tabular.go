// Package tabular turns raw delimited text into rows of trimmed string
// fields. Quoting is a plain boolean toggle: a delimiter or newline inside a
// quoted span is not a boundary, and a doubled quote is not an escape. This
// is deliberately looser than RFC 4180 so that the hand-edited loan tapes
// this engine sees still split on a best-effort basis instead of erroring.
package tabular

import (
	"fmt"
	"io"
	"strings"
	"unicode"

	"github.com/Dionysos599/Loan-Disbursement-System/internal/parsererror"
)

// Row is an ordered sequence of string cells, one per delimited field.
type Row []string

// Document is a parsed tabular file. The first row of the input is always
// the header and is kept separate from the data rows.
type Document struct {
	Header Row
	Rows   []Row
}

// Parse reads all input and splits it into rows. Empty lines are dropped.
// An I/O failure is fatal for the whole operation; malformed quote nesting
// is not an error, it just yields best-effort field splits.
func Parse(r io.Reader, delimiter rune) (*Document, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("error reading input: %w", err)
	}
	return ParseText(string(data), delimiter)
}

// ParseText splits raw text into rows.
func ParseText(text string, delimiter rune) (*Document, error) {
	rows := splitRows(text, delimiter)
	if len(rows) == 0 {
		return nil, &parsererror.InvalidFormatError{Msg: "input contains no rows"}
	}
	return &Document{
		Header: rows[0],
		Rows:   rows[1:],
	}, nil
}

// splitRows scans the whole text once, tracking quote state across the scan
// so a newline inside quotes does not end the row. A line is empty, and is
// dropped, only when it contains nothing but whitespace.
func splitRows(text string, delimiter rune) []Row {
	var rows []Row
	var fields Row
	var current strings.Builder
	inQuotes := false
	lineHadText := false

	endRow := func() {
		fields = append(fields, strings.TrimSpace(current.String()))
		current.Reset()
		if lineHadText {
			rows = append(rows, fields)
		}
		fields = nil
		lineHadText = false
	}

	for _, ch := range text {
		switch {
		case ch == '"':
			inQuotes = !inQuotes
			lineHadText = true
		case ch == delimiter && !inQuotes:
			fields = append(fields, strings.TrimSpace(current.String()))
			current.Reset()
			lineHadText = true
		case ch == '\n' && !inQuotes:
			endRow()
		case ch == '\r' && !inQuotes:
			// dropped; \r\n line endings are handled by the \n case
		default:
			current.WriteRune(ch)
			if !unicode.IsSpace(ch) {
				lineHadText = true
			}
		}
	}
	if lineHadText {
		endRow()
	}

	return rows
}

// Get returns the trimmed cell at index i, or "" when the index is out of
// range for this row.
func (r Row) Get(i int) string {
	if i < 0 || i >= len(r) {
		return ""
	}
	return strings.TrimSpace(r[i])
}
