package logging

// Standardized field names for structured logging.
// These constants keep log output consistent across the ingestion pipeline,
// making logs easier to parse, filter, and analyze.
const (
	FieldFile       = "file_path"
	FieldBatchID    = "batch_id"
	FieldLoanNumber = "loan_number"
	FieldRow        = "row"
	FieldColumn     = "column"
	FieldValue      = "value"
	FieldReason     = "reason"
	FieldStatus     = "status"
	FieldError      = "error"
	FieldCount      = "count"
	FieldDelimiter  = "delimiter"
	FieldInputFile  = "input_file"
	FieldOutputFile = "output_file"
	FieldStartMonth = "start_month"
)
