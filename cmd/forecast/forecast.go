// Package forecast handles the end-to-end forecast command: loan tape in,
// forecast table out.
package forecast

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/Dionysos599/Loan-Disbursement-System/cmd/root"
	"github.com/Dionysos599/Loan-Disbursement-System/internal/dateutils"
	"github.com/Dionysos599/Loan-Disbursement-System/internal/fileutils"
	"github.com/Dionysos599/Loan-Disbursement-System/internal/history"
	"github.com/Dionysos599/Loan-Disbursement-System/internal/ingest"
	"github.com/Dionysos599/Loan-Disbursement-System/internal/logging"
	"github.com/Dionysos599/Loan-Disbursement-System/internal/models"
	"github.com/Dionysos599/Loan-Disbursement-System/internal/report"
	"github.com/Dionysos599/Loan-Disbursement-System/internal/serialize"
)

var (
	reportFile   string
	reportFormat string
)

// Cmd represents the forecast command
var Cmd = &cobra.Command{
	Use:   "forecast",
	Short: "Generate a disbursement forecast from a loan tape CSV",
	Long:  `Ingest a loan tape CSV and write the monthly forecast table, with one column per calendar month and a trailing totals row.`,
	Run:   forecastFunc,
}

func init() {
	Cmd.Flags().StringVar(&reportFile, "report", "", "Write a batch summary report to this file")
	Cmd.Flags().StringVar(&reportFormat, "format", "json", "Batch summary format (json or yaml)")
}

func forecastFunc(cmd *cobra.Command, args []string) {
	if root.SharedFlags.Input == "" || root.SharedFlags.Output == "" {
		root.Log.Fatal("Both --input and --output are required")
	}
	if !fileutils.FileExists(root.SharedFlags.Input) {
		root.Log.Fatalf("Input file does not exist: %s", root.SharedFlags.Input)
	}

	startStr := root.SharedFlags.StartMonth
	if startStr == "" {
		startStr = root.Cfg.Forecast.StartMonth
	}
	start, err := dateutils.ParseStartMonth(startStr)
	if err != nil {
		root.Log.Fatalf("Invalid forecast start month: %v", err)
	}

	logger := logging.NewLogrusAdapterFromLogger(root.Log)
	processor := ingest.NewProcessor(logger, root.Cfg.Delimiter())

	result, err := processor.IngestFile(root.SharedFlags.Input, start)
	if err != nil {
		root.Log.Fatalf("Error processing loan tape: %v", err)
	}

	text, err := serialize.Forecasts(result.Forecasts, root.Cfg.Delimiter())
	if err != nil {
		root.Log.Fatalf("Error serializing forecast table: %v", err)
	}
	if err := fileutils.WriteFile(root.SharedFlags.Output, []byte(text), 0o644); err != nil {
		root.Log.Fatalf("Error writing forecast table: %v", err)
	}

	if reportFile != "" {
		data, err := report.Generate(report.Summarize(result), reportFormat)
		if err != nil {
			root.Log.Fatalf("Error generating batch summary: %v", err)
		}
		if err := fileutils.WriteFile(reportFile, data, 0o644); err != nil {
			root.Log.Fatalf("Error writing batch summary: %v", err)
		}
	}

	if root.Cfg.History.Enabled {
		recordHistory(result)
	}

	root.Log.Infof("Batch %s: %d/%d records forecast, output written to %s",
		result.BatchID, result.ProcessedRecords, result.TotalRecords, root.SharedFlags.Output)
}

func recordHistory(result *models.IngestionResult) {
	store, err := history.Open(root.Cfg.History.Path)
	if err != nil {
		root.Log.Warnf("Failed to open history store: %v", err)
		return
	}
	defer func() { _ = store.Close() }()

	if err := store.SaveBatch(result, root.SharedFlags.Input, time.Now()); err != nil {
		root.Log.Warnf("Failed to record upload history: %v", err)
	}
}
