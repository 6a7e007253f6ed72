// Package forecast implements the disbursement forecasting model: a
// closed-form back-solve for an implied project start date followed by a
// monthly walk over a fixed-shape logistic disbursement curve.
package forecast

import (
	"math"
	"time"

	"github.com/shopspring/decimal"

	"github.com/Dionysos599/Loan-Disbursement-System/internal/dateutils"
	"github.com/Dionysos599/Loan-Disbursement-System/internal/logging"
	"github.com/Dionysos599/Loan-Disbursement-System/internal/models"
)

// Model constants. The curve shape is fixed: a logistic with steepness 12
// and midpoint 0.5 over total progress, with a 6-month forecast tail past
// the extended maturity date.
const (
	curveSteepness = 12.0
	curveMidpoint  = 0.5

	// startTargetProgress is the total progress a project is assumed to
	// show by the time the forecast begins.
	startTargetProgress = 0.125

	// ratioGuard replaces the time-progress ratio when the back-solve
	// would otherwise blow up (completion already at ~99% or more).
	ratioGuard = 0.1

	tailMonths = 6
)

// Calculator computes per-loan forecasts. It holds no state between loans;
// each call is a pure function of the record and the forecast start date.
type Calculator struct {
	logger logging.Logger
}

// NewCalculator creates a Calculator with the given logger.
func NewCalculator(logger logging.Logger) *Calculator {
	if logger == nil {
		logger = logging.NewLogrusAdapter("info", "text")
	}
	return &Calculator{logger: logger}
}

// Calculate produces the monthly forecast series for one loan. It returns
// nil when the record fails its validity check; the failure is logged and
// the batch continues.
func (c *Calculator) Calculate(record models.LoanRecord, forecastStart time.Time) *models.ForecastResult {
	if err := record.Validate(); err != nil {
		c.logger.WithError(err).Warn("Skipping loan with invalid parameters",
			logging.Field{Key: logging.FieldLoanNumber, Value: record.LoanNumber})
		return nil
	}

	completion := float64(record.PercentOfCompletion) / 100.0
	projectStart := ProjectStartDate(completion, forecastStart, record.ExtendedDate)

	cutoff := dateutils.AddMonths(record.ExtendedDate, tailMonths)
	forecastEnd := dateutils.StartOfMonth(dateutils.AddMonths(cutoff, 1))
	// Forecasts are forced to zero starting one month before the nominal
	// cutoff: every month at or after this boundary is 0.
	cutoffMonth := dateutils.StartOfMonth(dateutils.AddMonths(cutoff, -1))

	outstanding := record.OutstandingBalance.InexactFloat64()
	undisbursed := record.UndisbursedAmount.InexactFloat64()

	var series models.ForecastSeries
	total := decimal.Zero

	for current := forecastStart; !current.After(forecastEnd); current = dateutils.AddMonths(current, 1) {
		var amount decimal.Decimal
		if !current.Before(cutoffMonth) {
			amount = decimal.Zero
		} else {
			balance := balanceAt(outstanding, undisbursed, completion, projectStart, current, record.ExtendedDate)
			amount = decimal.NewFromFloat(balance).Round(2)
		}
		series = append(series, models.MonthlyForecast{
			Label:  dateutils.MonthLabel(current),
			Amount: amount,
		})
		total = total.Add(amount)
	}

	return &models.ForecastResult{
		LoanRecord:            record,
		Series:                series,
		TotalForecastedAmount: total,
		ForecastMonths:        len(series),
	}
}

// ProjectStartDate back-solves the implied project start: the date at which
// the blend of reported completion and elapsed time would have been at the
// assumed starting progress. Closed form, not an iterative fit; it exists
// solely to give the logistic curve a plausible x-origin.
func ProjectStartDate(completion float64, forecastStart, extendedDate time.Time) time.Time {
	target := startTargetProgress
	if target < completion+0.01 {
		target = completion + 0.01
	}

	ratio := (target - completion) / (1.0 - completion)
	if ratio >= 1.0 || math.IsNaN(ratio) {
		ratio = ratioGuard
	}

	days := dateutils.DaysBetween(forecastStart, extendedDate)
	daysBack := int(math.Round(float64(days) * ratio / (1.0 - ratio)))

	return forecastStart.AddDate(0, 0, -daysBack)
}

// balanceAt computes the projected outstanding balance for one month:
// outstanding plus the undisbursed amount scaled by the logistic curve over
// total progress.
func balanceAt(outstanding, undisbursed, completion float64, projectStart, month, extendedDate time.Time) float64 {
	daysToMonth := dateutils.DaysBetween(projectStart, month)
	daysToExtended := dateutils.DaysBetween(projectStart, extendedDate)

	timeProgress := 0.0
	if daysToExtended > 0 {
		timeProgress = float64(daysToMonth) / float64(daysToExtended)
	}

	totalProgress := completion + timeProgress*(1.0-completion)
	if totalProgress < 0 {
		totalProgress = 0
	}
	if totalProgress > 1 {
		totalProgress = 1
	}

	sCurve := 1.0 / (1.0 + math.Exp(-curveSteepness*(totalProgress-curveMidpoint)))
	return outstanding + undisbursed*sCurve
}
