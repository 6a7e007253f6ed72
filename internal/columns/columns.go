// Package columns resolves the fixed set of logical loan-tape column names
// against an observed header row. Matching is case-sensitive on the
// normalized header text; column order in the file does not matter.
package columns

import (
	"regexp"
	"strings"

	"github.com/Dionysos599/Loan-Disbursement-System/internal/parsererror"
	"github.com/Dionysos599/Loan-Disbursement-System/internal/tabular"
)

// Logical column names expected in the input header.
const (
	LoanNumber          = "Loan Number"
	CustomerName        = "Customer Name"
	LoanAmount          = "Loan Amount"
	MaturityDate        = "Maturity Date"
	ExtendedDate        = "Extended Date"
	OutstandingBalance  = "Outstanding Balance"
	UndisbursedAmount   = "Undisbursed Amount"
	PercentOfLoanDrawn  = "% of Loan Drawn"
	PercentOfCompletion = "% of Completion"
)

// Required is the full set of logical names looked up in the header.
var Required = []string{
	LoanNumber,
	CustomerName,
	LoanAmount,
	MaturityDate,
	ExtendedDate,
	OutstandingBalance,
	UndisbursedAmount,
	PercentOfLoanDrawn,
	PercentOfCompletion,
}

// Critical is the subset whose absence fails the whole file before any row
// is processed. CustomerName and PercentOfLoanDrawn are soft-optional: when
// their columns are missing the values default to empty/zero.
var Critical = []string{
	LoanNumber,
	LoanAmount,
	MaturityDate,
	ExtendedDate,
	OutstandingBalance,
	UndisbursedAmount,
	PercentOfCompletion,
}

var whitespaceRun = regexp.MustCompile(`\s+`)

// IndexMap maps a logical column name to its position in the observed
// header. Immutable after Resolve; a missing optional column is simply
// absent from the map.
type IndexMap map[string]int

// NormalizeHeaderCell cleans a raw header cell for matching: surrounding
// quotes stripped, internal whitespace runs collapsed to single spaces, and
// a leading byte-order-mark artifact removed.
func NormalizeHeaderCell(cell string) string {
	s := strings.TrimSpace(cell)
	s = strings.ReplaceAll(s, `"`, "")
	s = whitespaceRun.ReplaceAllString(s, " ")
	s = strings.TrimPrefix(s, "\uFEFF")
	return strings.TrimSpace(s)
}

// Resolve matches every required logical name against the header row and
// returns the resolved index map. It fails with a MissingColumnError when
// any critical column cannot be found.
func Resolve(header tabular.Row) (IndexMap, error) {
	normalized := make([]string, len(header))
	for i, cell := range header {
		normalized[i] = NormalizeHeaderCell(cell)
	}

	indexes := make(IndexMap, len(Required))
	for _, name := range Required {
		for i, cell := range normalized {
			if cell == name {
				indexes[name] = i
				break
			}
		}
	}

	for _, name := range Critical {
		if _, ok := indexes[name]; !ok {
			return nil, &parsererror.MissingColumnError{Column: name}
		}
	}

	return indexes, nil
}

// Value extracts the trimmed cell for a logical column from a data row.
// Unresolved columns and rows too short for the index yield "".
func (m IndexMap) Value(row tabular.Row, name string) string {
	idx, ok := m[name]
	if !ok {
		return ""
	}
	return row.Get(idx)
}
