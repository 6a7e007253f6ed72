// Package ingest orchestrates one end-to-end batch: read the uploaded
// table, resolve columns, normalize each row, and forecast each surviving
// record. Processing is synchronous and per-file; each loan's pipeline is
// independent of every other loan's.
package ingest

import (
	"crypto/rand"
	"fmt"
	"io"
	"math/big"
	"os"
	"time"

	"github.com/Dionysos599/Loan-Disbursement-System/internal/columns"
	"github.com/Dionysos599/Loan-Disbursement-System/internal/forecast"
	"github.com/Dionysos599/Loan-Disbursement-System/internal/logging"
	"github.com/Dionysos599/Loan-Disbursement-System/internal/models"
	"github.com/Dionysos599/Loan-Disbursement-System/internal/normalize"
	"github.com/Dionysos599/Loan-Disbursement-System/internal/tabular"
)

const batchIDAlphabet = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZ"

// Processor runs batches. It retains no state between calls.
type Processor struct {
	logger    logging.Logger
	delimiter rune
}

// NewProcessor creates a Processor. A zero delimiter defaults to comma.
func NewProcessor(logger logging.Logger, delimiter rune) *Processor {
	if logger == nil {
		logger = logging.NewLogrusAdapter("info", "text")
	}
	if delimiter == 0 {
		delimiter = ','
	}
	return &Processor{logger: logger, delimiter: delimiter}
}

// Ingest processes one uploaded file. Fatal conditions (unreadable input,
// missing critical columns) return an error together with a FAILED result;
// row and record failures only affect the aggregate counts.
func (p *Processor) Ingest(r io.Reader, forecastStart time.Time) (*models.IngestionResult, error) {
	batchID := NewBatchID()
	log := p.logger.WithField(logging.FieldBatchID, batchID)

	doc, err := tabular.Parse(r, p.delimiter)
	if err != nil {
		log.WithError(err).Error("Failed to read input")
		return failedResult(batchID, err), err
	}

	indexes, err := columns.Resolve(doc.Header)
	if err != nil {
		log.WithError(err).Error("Failed to resolve required columns")
		return failedResult(batchID, err), err
	}

	norm := normalize.New(indexes, log)
	calc := forecast.NewCalculator(log)

	var forecasts []models.ForecastResult
	for _, row := range doc.Rows {
		record, ok := norm.Row(row)
		if !ok {
			continue
		}
		result := calc.Calculate(*record, forecastStart)
		if result == nil {
			continue
		}
		forecasts = append(forecasts, *result)
	}

	total := len(doc.Rows)
	processed := len(forecasts)

	log.Info("Batch processing completed",
		logging.Field{Key: logging.FieldCount, Value: total},
		logging.Field{Key: "processed", Value: processed},
		logging.Field{Key: "failed", Value: total - processed})

	return &models.IngestionResult{
		BatchID:          batchID,
		Status:           models.StatusSuccess,
		TotalRecords:     total,
		ProcessedRecords: processed,
		FailedRecords:    total - processed,
		Message:          "Processing completed successfully",
		Forecasts:        forecasts,
	}, nil
}

// IngestFile processes a file from disk.
func (p *Processor) IngestFile(path string, forecastStart time.Time) (*models.IngestionResult, error) {
	file, err := os.Open(path)
	if err != nil {
		wrapped := fmt.Errorf("error opening input file: %w", err)
		return failedResult(NewBatchID(), wrapped), wrapped
	}
	defer func() {
		if err := file.Close(); err != nil {
			p.logger.WithError(err).Warn("Failed to close input file")
		}
	}()

	return p.Ingest(file, forecastStart)
}

// Records parses and normalizes the input without forecasting. Used by the
// record-export surface.
func (p *Processor) Records(r io.Reader) ([]models.LoanRecord, error) {
	doc, err := tabular.Parse(r, p.delimiter)
	if err != nil {
		return nil, err
	}
	indexes, err := columns.Resolve(doc.Header)
	if err != nil {
		return nil, err
	}

	norm := normalize.New(indexes, p.logger)
	var records []models.LoanRecord
	for _, row := range doc.Rows {
		if record, ok := norm.Row(row); ok {
			records = append(records, *record)
		}
	}
	return records, nil
}

// NewBatchID generates a batch identifier of the form BATCH_XXXXXXXX.
func NewBatchID() string {
	id := make([]byte, 8)
	max := big.NewInt(int64(len(batchIDAlphabet)))
	for i := range id {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			id[i] = batchIDAlphabet[0]
			continue
		}
		id[i] = batchIDAlphabet[n.Int64()]
	}
	return "BATCH_" + string(id)
}

func failedResult(batchID string, err error) *models.IngestionResult {
	return &models.IngestionResult{
		BatchID: batchID,
		Status:  models.StatusFailed,
		Message: err.Error(),
	}
}
