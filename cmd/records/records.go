// Package records handles the normalized-record export command.
package records

import (
	"bytes"
	"encoding/csv"
	"os"
	"path/filepath"

	"github.com/gocarina/gocsv"
	"github.com/spf13/cobra"

	"github.com/Dionysos599/Loan-Disbursement-System/cmd/root"
	"github.com/Dionysos599/Loan-Disbursement-System/internal/fileutils"
	"github.com/Dionysos599/Loan-Disbursement-System/internal/ingest"
	"github.com/Dionysos599/Loan-Disbursement-System/internal/logging"
	"github.com/Dionysos599/Loan-Disbursement-System/internal/models"
)

// Cmd represents the records command
var Cmd = &cobra.Command{
	Use:   "records",
	Short: "Parse and normalize a loan tape without forecasting",
	Long:  `Parse a loan tape CSV, apply the normalization and presence checks, and export the surviving records to CSV.`,
	Run:   recordsFunc,
}

func recordsFunc(cmd *cobra.Command, args []string) {
	if root.SharedFlags.Input == "" || root.SharedFlags.Output == "" {
		root.Log.Fatal("Both --input and --output are required")
	}

	data, err := fileutils.ReadFile(root.SharedFlags.Input)
	if err != nil {
		root.Log.Fatalf("Error reading input file: %v", err)
	}

	logger := logging.NewLogrusAdapterFromLogger(root.Log)
	processor := ingest.NewProcessor(logger, root.Cfg.Delimiter())

	loanRecords, err := processor.Records(bytes.NewReader(data))
	if err != nil {
		root.Log.Fatalf("Error normalizing loan tape: %v", err)
	}

	rows := make([]models.LoanRecordRow, len(loanRecords))
	for i, r := range loanRecords {
		rows[i] = models.NewLoanRecordRow(r)
	}

	if err := writeRows(rows, root.SharedFlags.Output); err != nil {
		root.Log.Fatalf("Error writing record export: %v", err)
	}

	root.Log.Infof("Exported %d normalized records to %s", len(rows), root.SharedFlags.Output)
}

func writeRows(rows []models.LoanRecordRow, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return err
	}
	out, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() { _ = out.Close() }()

	w := csv.NewWriter(out)
	w.Comma = root.Cfg.Delimiter()
	return gocsv.MarshalCSV(&rows, gocsv.NewSafeCSVWriter(w))
}
