// Package report generates batch summary reports in machine-readable
// formats for downstream tooling.
package report

import (
	"encoding/json"
	"fmt"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"

	"github.com/Dionysos599/Loan-Disbursement-System/internal/models"
	"github.com/Dionysos599/Loan-Disbursement-System/internal/serialize"
)

// BatchSummary is the report payload for one ingestion run.
type BatchSummary struct {
	BatchID          string `json:"batchId" yaml:"batch_id"`
	Status           string `json:"status" yaml:"status"`
	TotalRecords     int    `json:"totalRecords" yaml:"total_records"`
	ProcessedRecords int    `json:"processedRecords" yaml:"processed_records"`
	FailedRecords    int    `json:"failedRecords" yaml:"failed_records"`
	TotalForecasted  string `json:"totalForecastedAmount" yaml:"total_forecasted_amount"`
	FirstMonth       string `json:"firstMonth,omitempty" yaml:"first_month,omitempty"`
	LastMonth        string `json:"lastMonth,omitempty" yaml:"last_month,omitempty"`
}

// Summarize condenses an IngestionResult into a BatchSummary.
func Summarize(result *models.IngestionResult) BatchSummary {
	summary := BatchSummary{
		BatchID:          result.BatchID,
		Status:           result.Status,
		TotalRecords:     result.TotalRecords,
		ProcessedRecords: result.ProcessedRecords,
		FailedRecords:    result.FailedRecords,
	}

	total := decimal.Zero
	for _, f := range result.Forecasts {
		total = total.Add(f.TotalForecastedAmount)
	}
	summary.TotalForecasted = total.StringFixed(2)

	if months := serialize.MonthColumns(result.Forecasts); len(months) > 0 {
		summary.FirstMonth = months[0]
		summary.LastMonth = months[len(months)-1]
	}

	return summary
}

// Generate renders a batch summary in the requested format ("json" or
// "yaml").
func Generate(summary BatchSummary, format string) ([]byte, error) {
	switch format {
	case "json":
		return json.MarshalIndent(summary, "", "  ")
	case "yaml":
		return yaml.Marshal(summary)
	default:
		return nil, fmt.Errorf("unsupported report format: %s", format)
	}
}
