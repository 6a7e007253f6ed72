// Package history provides a SQLite-backed store for upload batch history.
// The engine's callers use it to save and retrieve run results; the engine
// itself never touches it.
package history

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // register sqlite driver

	"github.com/Dionysos599/Loan-Disbursement-System/internal/models"
)

const schemaSQL = `
CREATE TABLE IF NOT EXISTS upload_history (
	batch_id          TEXT PRIMARY KEY,
	file_name         TEXT NOT NULL,
	uploaded_at       TEXT NOT NULL,
	status            TEXT NOT NULL,
	total_records     INTEGER NOT NULL,
	processed_records INTEGER NOT NULL,
	failed_records    INTEGER NOT NULL,
	message           TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_upload_history_uploaded_at
	ON upload_history (uploaded_at DESC);
`

// Entry is one recorded upload batch.
type Entry struct {
	BatchID          string    `json:"batchId"`
	FileName         string    `json:"fileName"`
	UploadedAt       time.Time `json:"uploadedAt"`
	Status           string    `json:"status"`
	TotalRecords     int       `json:"totalRecords"`
	ProcessedRecords int       `json:"processedRecords"`
	FailedRecords    int       `json:"failedRecords"`
	Message          string    `json:"message"`
}

// Store provides upload-history persistence over SQLite.
type Store struct {
	db *sql.DB
}

// Open opens or creates the history database at the given path.
func Open(dbPath string) (*Store, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, fmt.Errorf("creating history dir: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(wal)&_pragma=synchronous(normal)")
	if err != nil {
		return nil, fmt.Errorf("opening history db: %w", err)
	}

	if _, err := db.Exec(schemaSQL); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}

	return &Store{db: db}, nil
}

// Close closes the history database.
func (s *Store) Close() error {
	return s.db.Close()
}

// SaveBatch records one ingestion result under the uploaded file's name.
func (s *Store) SaveBatch(result *models.IngestionResult, fileName string, uploadedAt time.Time) error {
	_, err := s.db.Exec(`INSERT OR REPLACE INTO upload_history
		(batch_id, file_name, uploaded_at, status, total_records, processed_records, failed_records, message)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		result.BatchID, fileName, uploadedAt.UTC().Format(time.RFC3339), result.Status,
		result.TotalRecords, result.ProcessedRecords, result.FailedRecords, result.Message,
	)
	if err != nil {
		return fmt.Errorf("failed to save batch %s: %w", result.BatchID, err)
	}
	return nil
}

// ListBatches returns the most recent entries, newest first. A limit of 0
// or less returns everything.
func (s *Store) ListBatches(limit int) ([]Entry, error) {
	query := `SELECT batch_id, file_name, uploaded_at, status,
		total_records, processed_records, failed_records, message
		FROM upload_history ORDER BY uploaded_at DESC`
	args := []interface{}{}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list batches: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var entries []Entry
	for rows.Next() {
		var e Entry
		var uploadedAt string
		if err := rows.Scan(&e.BatchID, &e.FileName, &uploadedAt, &e.Status,
			&e.TotalRecords, &e.ProcessedRecords, &e.FailedRecords, &e.Message); err != nil {
			return nil, err
		}
		if t, err := time.Parse(time.RFC3339, uploadedAt); err == nil {
			e.UploadedAt = t
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// GetBatch returns one entry by batch ID.
func (s *Store) GetBatch(batchID string) (*Entry, error) {
	var e Entry
	var uploadedAt string
	err := s.db.QueryRow(`SELECT batch_id, file_name, uploaded_at, status,
		total_records, processed_records, failed_records, message
		FROM upload_history WHERE batch_id = ?`, batchID).
		Scan(&e.BatchID, &e.FileName, &uploadedAt, &e.Status,
			&e.TotalRecords, &e.ProcessedRecords, &e.FailedRecords, &e.Message)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("batch not found: %s", batchID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load batch %s: %w", batchID, err)
	}
	if t, err := time.Parse(time.RFC3339, uploadedAt); err == nil {
		e.UploadedAt = t
	}
	return &e, nil
}
