package server

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Dionysos599/Loan-Disbursement-System/internal/history"
	"github.com/Dionysos599/Loan-Disbursement-System/internal/models"
)

const sampleCSV = `Loan Number,Customer Name,Loan Amount,Maturity Date,Extended Date,Outstanding Balance,Undisbursed Amount,% of Loan Drawn,% of Completion
LN-001,Acme Construction,1000000,1/1/26,7/1/26,200000,800000,20,20
`

func newTestHandler(t *testing.T, store *history.Store) http.Handler {
	t.Helper()
	return NewHandler(Options{
		Store:             store,
		Delimiter:         ',',
		DefaultStartMonth: "2024-07",
	})
}

func multipartUpload(t *testing.T, csvBody, startMonth string) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	part, err := w.CreateFormFile("file", "tape.csv")
	require.NoError(t, err)
	_, err = part.Write([]byte(csvBody))
	require.NoError(t, err)

	if startMonth != "" {
		require.NoError(t, w.WriteField("startMonth", startMonth))
	}
	require.NoError(t, w.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/loans/upload", &buf)
	req.Header.Set("Content-Type", w.FormDataContentType())
	return req
}

func TestHealth(t *testing.T) {
	h := newTestHandler(t, nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/health", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestUpload_Success(t *testing.T) {
	h := newTestHandler(t, nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, multipartUpload(t, sampleCSV, "2024-07"))

	require.Equal(t, http.StatusOK, rec.Code)

	var result models.IngestionResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
	assert.Equal(t, models.StatusSuccess, result.Status)
	assert.Equal(t, 1, result.TotalRecords)
	assert.Equal(t, 1, result.ProcessedRecords)
	require.Len(t, result.Forecasts, 1)
	assert.Equal(t, "LN-001", result.Forecasts[0].LoanNumber)
	assert.Equal(t, "Jul-24", result.Forecasts[0].Series.Labels()[0])
}

func TestUpload_DefaultStartMonth(t *testing.T) {
	h := newTestHandler(t, nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, multipartUpload(t, sampleCSV, ""))

	require.Equal(t, http.StatusOK, rec.Code)

	var result models.IngestionResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
	require.Len(t, result.Forecasts, 1)
	assert.Equal(t, "Jul-24", result.Forecasts[0].Series.Labels()[0])
}

func TestUpload_MissingFileField(t *testing.T) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	require.NoError(t, w.WriteField("startMonth", "2024-07"))
	require.NoError(t, w.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/loans/upload", &buf)
	req.Header.Set("Content-Type", w.FormDataContentType())

	h := newTestHandler(t, nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestUpload_InvalidStartMonth(t *testing.T) {
	h := newTestHandler(t, nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, multipartUpload(t, sampleCSV, "bogus"))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestUpload_MissingCriticalColumn(t *testing.T) {
	h := newTestHandler(t, nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, multipartUpload(t, "Loan Number,Loan Amount\nLN-001,1000\n", "2024-07"))

	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	var result models.IngestionResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
	assert.Equal(t, models.StatusFailed, result.Status)
}

func TestUpload_RecordsHistory(t *testing.T) {
	store, err := history.Open(filepath.Join(t.TempDir(), "history.db"))
	require.NoError(t, err)
	defer func() { _ = store.Close() }()

	h := newTestHandler(t, store)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, multipartUpload(t, sampleCSV, "2024-07"))
	require.Equal(t, http.StatusOK, rec.Code)

	entries, err := store.ListBatches(0)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "tape.csv", entries[0].FileName)
	assert.Equal(t, models.StatusSuccess, entries[0].Status)
}

func TestExport(t *testing.T) {
	body := `{"loanForecasts":[{"loanNumber":"LN-001","loanAmount":"1000000","maturityDate":"2026-01-01T00:00:00Z","extendedDate":"2026-07-01T00:00:00Z","outstandingBalance":"200000","undisbursedAmount":"800000","percentOfCompletion":20,"percentOfLoanDrawn":"20","forecastData":{"Nov-24":250000,"Dec-24":300000},"totalForecastedAmount":"550000","forecastMonths":2}]}`

	h := newTestHandler(t, nil)
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/loans/forecast/export", strings.NewReader(body))
	h.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/csv", rec.Header().Get("Content-Type"))

	lines := strings.Split(strings.TrimSpace(rec.Body.String()), "\n")
	require.Len(t, lines, 3)
	assert.True(t, strings.HasPrefix(lines[0], "Loan Number,"))
	assert.Contains(t, lines[0], "Nov-24,Dec-24")
	assert.True(t, strings.HasPrefix(lines[1], "LN-001,"))
	assert.True(t, strings.HasPrefix(lines[2], "SUM OF FORECAST,"))
}

func TestExport_InvalidBody(t *testing.T) {
	h := newTestHandler(t, nil)
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/loans/forecast/export", strings.NewReader("not json"))
	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHistory_DisabledReturnsNotFound(t *testing.T) {
	h := newTestHandler(t, nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/loans/history", nil))

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestHistory_EmptyListIsEmptyArray(t *testing.T) {
	store, err := history.Open(filepath.Join(t.TempDir(), "history.db"))
	require.NoError(t, err)
	defer func() { _ = store.Close() }()

	h := newTestHandler(t, store)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/loans/history", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[]`, rec.Body.String())
}
