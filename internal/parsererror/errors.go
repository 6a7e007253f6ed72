// Package parsererror defines the typed errors surfaced by the ingestion
// pipeline. Header/IO failures are fatal for a whole file; everything else is
// skip-and-continue at row granularity.
package parsererror

import "fmt"

// ParseError represents a failure to parse a single field value.
type ParseError struct {
	Field string
	Value string
	Err   error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("failed to parse %s='%s': %v", e.Field, e.Value, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// MissingColumnError indicates a critical logical column could not be
// resolved in the header row. This is fatal for the whole file.
type MissingColumnError struct {
	Column string
}

func (e *MissingColumnError) Error() string {
	return fmt.Sprintf("required column missing: %s", e.Column)
}

// ValidationError represents a record that parsed but failed a validity
// check (negative amounts, completion outside [0,100]).
type ValidationError struct {
	LoanNumber string
	Reason     string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed for loan %s: %s", e.LoanNumber, e.Reason)
}

// InvalidFormatError represents input that does not conform to the expected
// delimited tabular format (e.g. an empty file with no header row).
type InvalidFormatError struct {
	Msg string
}

func (e *InvalidFormatError) Error() string {
	return fmt.Sprintf("invalid input format: %s", e.Msg)
}
