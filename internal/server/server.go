// Package server exposes the ingestion engine over a thin HTTP API: a
// multipart upload endpoint, a pure serialization endpoint, and the upload
// history. No forecasting logic lives here.
package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/Dionysos599/Loan-Disbursement-System/internal/dateutils"
	"github.com/Dionysos599/Loan-Disbursement-System/internal/history"
	"github.com/Dionysos599/Loan-Disbursement-System/internal/ingest"
	"github.com/Dionysos599/Loan-Disbursement-System/internal/logging"
	"github.com/Dionysos599/Loan-Disbursement-System/internal/models"
	"github.com/Dionysos599/Loan-Disbursement-System/internal/serialize"
)

const defaultHistoryLimit = 50

// Handler serves the loan forecast HTTP API.
type Handler struct {
	logger     logging.Logger
	processor  *ingest.Processor
	store      *history.Store
	delimiter  rune
	maxUpload  int64
	startMonth string
}

// Options configures a Handler.
type Options struct {
	Logger logging.Logger
	// Store is optional; when nil, upload history is not recorded.
	Store     *history.Store
	Delimiter rune
	// MaxUploadBytes caps the accepted request body size.
	MaxUploadBytes int64
	// DefaultStartMonth ("2006-01") is used when a request omits startMonth.
	DefaultStartMonth string
}

// NewHandler constructs the HTTP handler with all routes registered.
func NewHandler(opts Options) http.Handler {
	logger := opts.Logger
	if logger == nil {
		logger = logging.NewLogrusAdapter("info", "text")
	}
	maxUpload := opts.MaxUploadBytes
	if maxUpload <= 0 {
		maxUpload = 10 * 1024 * 1024
	}
	delimiter := opts.Delimiter
	if delimiter == 0 {
		delimiter = ','
	}

	h := &Handler{
		logger:     logger,
		processor:  ingest.NewProcessor(logger, delimiter),
		store:      opts.Store,
		delimiter:  delimiter,
		maxUpload:  maxUpload,
		startMonth: opts.DefaultStartMonth,
	}

	r := mux.NewRouter()
	r.HandleFunc("/api/health", h.Health).Methods(http.MethodGet)
	r.HandleFunc("/api/loans/upload", h.Upload).Methods(http.MethodPost)
	r.HandleFunc("/api/loans/forecast/export", h.Export).Methods(http.MethodPost)
	r.HandleFunc("/api/loans/history", h.History).Methods(http.MethodGet)
	return r
}

// Health reports service liveness.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// Upload ingests a multipart-uploaded loan tape and responds with the full
// ingestion result. Whole-file failures are 422; malformed requests are 400.
func (h *Handler) Upload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxUpload)

	if err := r.ParseMultipartForm(h.maxUpload); err != nil {
		writeError(w, http.StatusBadRequest, "invalid multipart request: "+err.Error())
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "missing file field")
		return
	}
	defer func() { _ = file.Close() }()

	startMonth := r.FormValue("startMonth")
	if startMonth == "" {
		startMonth = h.startMonth
	}
	start, err := parseStartMonth(startMonth)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	result, err := h.processor.Ingest(file, start)
	if err != nil {
		writeJSON(w, http.StatusUnprocessableEntity, result)
		return
	}

	h.recordHistory(result, header.Filename)
	writeJSON(w, http.StatusOK, result)
}

// exportRequest is the payload for the pure serialization endpoint.
type exportRequest struct {
	LoanForecasts []models.ForecastResult `json:"loanForecasts"`
}

// Export serializes a posted forecast collection to delimited text.
func (h *Handler) Export(w http.ResponseWriter, r *http.Request) {
	var req exportRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, h.maxUpload)).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	text, err := serialize.Forecasts(req.LoanForecasts, h.delimiter)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", `attachment; filename="forecast.csv"`)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(text))
}

// History lists recorded upload batches, newest first.
func (h *Handler) History(w http.ResponseWriter, r *http.Request) {
	if h.store == nil {
		writeError(w, http.StatusNotFound, "upload history is not enabled")
		return
	}

	entries, err := h.store.ListBatches(defaultHistoryLimit)
	if err != nil {
		h.logger.WithError(err).Error("Failed to list upload history")
		writeError(w, http.StatusInternalServerError, "failed to list upload history")
		return
	}
	if entries == nil {
		entries = []history.Entry{}
	}
	writeJSON(w, http.StatusOK, entries)
}

func (h *Handler) recordHistory(result *models.IngestionResult, fileName string) {
	if h.store == nil {
		return
	}
	if err := h.store.SaveBatch(result, fileName, time.Now()); err != nil {
		h.logger.WithError(err).Warn("Failed to record upload history",
			logging.Field{Key: logging.FieldBatchID, Value: result.BatchID})
	}
}

func parseStartMonth(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, errors.New("missing startMonth")
	}
	return dateutils.ParseStartMonth(s)
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
