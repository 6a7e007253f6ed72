// Package normalize converts raw tabular rows into validated LoanRecords.
// A row either yields a complete record or is skipped; no partial record is
// ever produced and no failure escapes a single row.
package normalize

import (
	"time"

	"github.com/Dionysos599/Loan-Disbursement-System/internal/columns"
	"github.com/Dionysos599/Loan-Disbursement-System/internal/dateutils"
	"github.com/Dionysos599/Loan-Disbursement-System/internal/logging"
	"github.com/Dionysos599/Loan-Disbursement-System/internal/models"
	"github.com/Dionysos599/Loan-Disbursement-System/internal/tabular"
)

// Clock supplies the "now" used when a required date cannot be parsed at
// all. Tests override it to keep the fallback deterministic.
type Clock func() time.Time

// Normalizer turns raw rows into LoanRecords using a resolved column map.
// The zero value is not usable; construct with New.
type Normalizer struct {
	indexes columns.IndexMap
	logger  logging.Logger
	now     Clock
}

// New creates a Normalizer for one file's resolved columns.
func New(indexes columns.IndexMap, logger logging.Logger) *Normalizer {
	if logger == nil {
		logger = logging.NewLogrusAdapter("info", "text")
	}
	return &Normalizer{
		indexes: indexes,
		logger:  logger,
		now:     time.Now,
	}
}

// SetClock overrides the time source used for the unparseable-date fallback.
func (n *Normalizer) SetClock(clock Clock) {
	if clock != nil {
		n.now = clock
	}
}

// Row converts a single raw row into a LoanRecord. It returns (nil, false)
// when the row fails the required-field presence check; presence is checked
// on the raw trimmed strings, before any numeric or date parsing.
func (n *Normalizer) Row(row tabular.Row) (*models.LoanRecord, bool) {
	loanNumber := n.indexes.Value(row, columns.LoanNumber)
	loanAmount := n.indexes.Value(row, columns.LoanAmount)
	maturityDate := n.indexes.Value(row, columns.MaturityDate)
	extendedDate := n.indexes.Value(row, columns.ExtendedDate)
	outstanding := n.indexes.Value(row, columns.OutstandingBalance)
	undisbursed := n.indexes.Value(row, columns.UndisbursedAmount)
	completion := n.indexes.Value(row, columns.PercentOfCompletion)

	if models.IsMissingValue(loanNumber) || models.IsMissingValue(loanAmount) ||
		models.IsMissingValue(maturityDate) || models.IsMissingValue(extendedDate) ||
		models.IsMissingValue(outstanding) || models.IsMissingValue(undisbursed) ||
		models.IsMissingValue(completion) {
		n.logger.Warn("Skipping row with missing required fields",
			logging.Field{Key: logging.FieldLoanNumber, Value: loanNumber})
		return nil, false
	}

	record := &models.LoanRecord{
		LoanNumber:          loanNumber,
		CustomerName:        n.indexes.Value(row, columns.CustomerName),
		LoanAmount:          models.ParseAmount(loanAmount),
		MaturityDate:        n.parseDate(loanNumber, maturityDate),
		ExtendedDate:        n.parseDate(loanNumber, extendedDate),
		OutstandingBalance:  models.ParseAmount(outstanding),
		UndisbursedAmount:   models.ParseAmount(undisbursed),
		PercentOfCompletion: models.ParseCompletion(completion),
		PercentOfLoanDrawn:  models.ParseAmount(n.indexes.Value(row, columns.PercentOfLoanDrawn)),
	}

	return record, true
}

// parseDate parses a required date, falling back to "now" when the value is
// unparseable. The fallback is logged so bad dates stay visible.
func (n *Normalizer) parseDate(loanNumber, value string) time.Time {
	t, err := dateutils.ParseLoanDate(value)
	if err != nil {
		n.logger.WithError(err).Warn("Could not parse date, using current date",
			logging.Field{Key: logging.FieldLoanNumber, Value: loanNumber},
			logging.Field{Key: logging.FieldValue, Value: value})
		return n.now()
	}
	return t
}
