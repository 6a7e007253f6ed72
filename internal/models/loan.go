// Package models defines the core data types shared across the ingestion
// and forecasting pipeline.
package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/Dionysos599/Loan-Disbursement-System/internal/dateutils"
	"github.com/Dionysos599/Loan-Disbursement-System/internal/parsererror"
)

// Batch processing statuses reported in an IngestionResult.
const (
	StatusSuccess = "SUCCESS"
	StatusFailed  = "FAILED"
)

// LoanRecord is a validated, normalized loan row. A LoanRecord only exists
// if every required field parsed successfully; rows that fail the presence
// check never produce one.
type LoanRecord struct {
	LoanNumber          string          `json:"loanNumber"`
	CustomerName        string          `json:"customerName,omitempty"`
	LoanAmount          decimal.Decimal `json:"loanAmount"`
	MaturityDate        time.Time       `json:"maturityDate"`
	ExtendedDate        time.Time       `json:"extendedDate"`
	OutstandingBalance  decimal.Decimal `json:"outstandingBalance"`
	UndisbursedAmount   decimal.Decimal `json:"undisbursedAmount"`
	PercentOfCompletion int             `json:"percentOfCompletion"`
	PercentOfLoanDrawn  decimal.Decimal `json:"percentOfLoanDrawn"`
}

// Validate checks the ranges the forecast calculator depends on. Records
// failing validation are skipped, not fatal for the batch.
func (r *LoanRecord) Validate() error {
	if r.LoanAmount.IsNegative() {
		return r.validationError(fmt.Sprintf("negative loan amount %s", r.LoanAmount))
	}
	if r.OutstandingBalance.IsNegative() {
		return r.validationError(fmt.Sprintf("negative outstanding balance %s", r.OutstandingBalance))
	}
	if r.UndisbursedAmount.IsNegative() {
		return r.validationError(fmt.Sprintf("negative undisbursed amount %s", r.UndisbursedAmount))
	}
	if r.PercentOfCompletion < 0 || r.PercentOfCompletion > 100 {
		return r.validationError(fmt.Sprintf("percent of completion %d outside [0,100]", r.PercentOfCompletion))
	}
	return nil
}

func (r *LoanRecord) validationError(reason string) error {
	return &parsererror.ValidationError{LoanNumber: r.LoanNumber, Reason: reason}
}

// MonthlyForecast is one point of a loan's forecast series: a "Mon-YY"
// month label and the projected outstanding balance for that month.
type MonthlyForecast struct {
	Label  string
	Amount decimal.Decimal
}

// ForecastSeries is an ordered monthly forecast; insertion order is
// chronological order.
type ForecastSeries []MonthlyForecast

// AmountFor returns the forecast amount for a month label.
func (s ForecastSeries) AmountFor(label string) (decimal.Decimal, bool) {
	for _, p := range s {
		if p.Label == label {
			return p.Amount, true
		}
	}
	return decimal.Zero, false
}

// Labels returns the month labels in series order.
func (s ForecastSeries) Labels() []string {
	labels := make([]string, len(s))
	for i, p := range s {
		labels[i] = p.Label
	}
	return labels
}

// MarshalJSON renders the series as a label-keyed object with plain numeric
// values, preserving chronological key order.
func (s ForecastSeries) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, p := range s {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(p.Label)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.WriteString(p.Amount.String())
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON accepts the label-keyed object form and rebuilds the series
// in chronological order.
func (s *ForecastSeries) UnmarshalJSON(data []byte) error {
	raw := map[string]decimal.Decimal{}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	labels := make([]string, 0, len(raw))
	for label := range raw {
		labels = append(labels, label)
	}
	dateutils.SortMonthLabels(labels)

	series := make(ForecastSeries, 0, len(labels))
	for _, label := range labels {
		series = append(series, MonthlyForecast{Label: label, Amount: raw[label]})
	}
	*s = series
	return nil
}

// ForecastResult is the per-loan output of the engine: the normalized record
// plus its computed monthly series and totals. Immutable once created.
type ForecastResult struct {
	LoanRecord
	Series                ForecastSeries  `json:"forecastData"`
	TotalForecastedAmount decimal.Decimal `json:"totalForecastedAmount"`
	ForecastMonths        int             `json:"forecastMonths"`
}

// IngestionResult summarizes one end-to-end run of the engine over a single
// uploaded file.
type IngestionResult struct {
	BatchID          string           `json:"batchId"`
	Status           string           `json:"status"`
	TotalRecords     int              `json:"totalRecords"`
	ProcessedRecords int              `json:"processedRecords"`
	FailedRecords    int              `json:"failedRecords"`
	Message          string           `json:"message"`
	Forecasts        []ForecastResult `json:"loanForecasts"`
}
