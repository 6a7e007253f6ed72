// Package serialize assembles per-loan forecast series into a single
// tabular output: one row per loan, one column per calendar month, and a
// trailing column-totals row.
package serialize

import (
	"encoding/csv"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/Dionysos599/Loan-Disbursement-System/internal/dateutils"
	"github.com/Dionysos599/Loan-Disbursement-System/internal/models"
)

// SumRowLabel is the identifier of the trailing synthetic totals row.
const SumRowLabel = "SUM OF FORECAST"

// BaseHeaders are the identifying columns preceding the month columns.
var BaseHeaders = []string{
	"Loan Number",
	"Loan Amount",
	"Maturity Date",
	"Extended Date",
	"Outstanding Balance",
	"Undisbursed Amount",
	"% of Completion",
}

// MonthColumns returns the union of month labels across all forecasts,
// sorted chronologically.
func MonthColumns(forecasts []models.ForecastResult) []string {
	seen := make(map[string]struct{})
	var labels []string
	for _, f := range forecasts {
		for _, p := range f.Series {
			if _, ok := seen[p.Label]; !ok {
				seen[p.Label] = struct{}{}
				labels = append(labels, p.Label)
			}
		}
	}
	dateutils.SortMonthLabels(labels)
	return labels
}

// Forecasts serializes the forecast collection to delimited text. Pure
// function, no I/O. Loans with a blank identifier are excluded; months a
// loan has no value for are written as 0, not blank.
func Forecasts(forecasts []models.ForecastResult, delimiter rune) (string, error) {
	months := MonthColumns(forecasts)

	var sb strings.Builder
	w := csv.NewWriter(&sb)
	w.Comma = delimiter

	header := append(append([]string{}, BaseHeaders...), months...)
	if err := w.Write(header); err != nil {
		return "", err
	}

	sums := make(map[string]decimal.Decimal, len(months))
	for _, month := range months {
		sums[month] = decimal.Zero
	}

	for _, f := range forecasts {
		if strings.TrimSpace(f.LoanNumber) == "" {
			continue
		}

		row := []string{
			f.LoanNumber,
			f.LoanAmount.String(),
			f.MaturityDate.Format(dateutils.DateLayoutUS),
			f.ExtendedDate.Format(dateutils.DateLayoutUS),
			f.OutstandingBalance.String(),
			f.UndisbursedAmount.String(),
			strconv.Itoa(f.PercentOfCompletion),
		}
		for _, month := range months {
			amount, ok := f.Series.AmountFor(month)
			if !ok {
				amount = decimal.Zero
			}
			row = append(row, amount.String())
			sums[month] = sums[month].Add(amount)
		}

		if err := w.Write(row); err != nil {
			return "", err
		}
	}

	sumRow := make([]string, len(BaseHeaders), len(BaseHeaders)+len(months))
	sumRow[0] = SumRowLabel
	for _, month := range months {
		sumRow = append(sumRow, sums[month].String())
	}
	if err := w.Write(sumRow); err != nil {
		return "", err
	}

	w.Flush()
	return sb.String(), w.Error()
}
