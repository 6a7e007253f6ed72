package models

import (
	"strconv"

	"github.com/Dionysos599/Loan-Disbursement-System/internal/dateutils"
)

// LoanRecordRow is the gocsv-mapped row used when exporting normalized loan
// records. Column names match the input file's logical names so an export can
// be fed straight back through the engine.
type LoanRecordRow struct {
	LoanNumber          string `csv:"Loan Number"`
	CustomerName        string `csv:"Customer Name"`
	LoanAmount          string `csv:"Loan Amount"`
	MaturityDate        string `csv:"Maturity Date"`
	ExtendedDate        string `csv:"Extended Date"`
	OutstandingBalance  string `csv:"Outstanding Balance"`
	UndisbursedAmount   string `csv:"Undisbursed Amount"`
	PercentOfLoanDrawn  string `csv:"% of Loan Drawn"`
	PercentOfCompletion string `csv:"% of Completion"`
}

// NewLoanRecordRow converts a normalized record to its CSV export form.
// Dates are written in the US slash layout the ingestion side accepts.
func NewLoanRecordRow(r LoanRecord) LoanRecordRow {
	return LoanRecordRow{
		LoanNumber:          r.LoanNumber,
		CustomerName:        r.CustomerName,
		LoanAmount:          r.LoanAmount.String(),
		MaturityDate:        r.MaturityDate.Format(dateutils.DateLayoutUS),
		ExtendedDate:        r.ExtendedDate.Format(dateutils.DateLayoutUS),
		OutstandingBalance:  r.OutstandingBalance.String(),
		UndisbursedAmount:   r.UndisbursedAmount.String(),
		PercentOfLoanDrawn:  r.PercentOfLoanDrawn.String(),
		PercentOfCompletion: strconv.Itoa(r.PercentOfCompletion),
	}
}
