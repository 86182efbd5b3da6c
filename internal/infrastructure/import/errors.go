package csvimport

import (
	"fmt"
	"strings"
)

// Row error codes
const (
	ErrCodeMalformedRow        = "ERR_IMPORT_MALFORMED_ROW"
	ErrCodeRequiredField       = "ERR_IMPORT_REQUIRED_FIELD"
	ErrCodeInvalidType         = "ERR_IMPORT_INVALID_TYPE"
	ErrCodeInvalidValue        = "ERR_IMPORT_INVALID_VALUE"
	ErrCodeDuplicateInFile     = "ERR_IMPORT_DUPLICATE_IN_FILE"
	ErrCodeReferenceNotFound   = "ERR_IMPORT_REFERENCE_NOT_FOUND"
	ErrCodeOutsideNeighborhood = "ERR_IMPORT_OUTSIDE_NEIGHBORHOOD"
)

// RowError is a problem found on one line of the file
type RowError struct {
	Line    int    `json:"line"`
	Column  string `json:"column,omitempty"`
	Code    string `json:"code"`
	Message string `json:"message"`
	Value   string `json:"value,omitempty"`
}

func (e RowError) Error() string {
	if e.Column != "" {
		return fmt.Sprintf("line %d, column '%s': %s", e.Line, e.Column, e.Message)
	}
	return fmt.Sprintf("line %d: %s", e.Line, e.Message)
}

// ErrorCollection keeps the first maxErrors errors and counts the rest
type ErrorCollection struct {
	errors    []RowError
	maxErrors int
	total     int
}

// NewErrorCollection creates a collection. maxErrors <= 0 means 100.
func NewErrorCollection(maxErrors int) *ErrorCollection {
	if maxErrors <= 0 {
		maxErrors = 100
	}
	return &ErrorCollection{maxErrors: maxErrors}
}

// Add records err
func (ec *ErrorCollection) Add(err RowError) {
	ec.total++
	if len(ec.errors) < ec.maxErrors {
		ec.errors = append(ec.errors, err)
	}
}

// AddRequired records a blank required column
func (ec *ErrorCollection) AddRequired(line int, column string) {
	ec.Add(RowError{Line: line, Column: column, Code: ErrCodeRequiredField,
		Message: fmt.Sprintf("field '%s' is required", column)})
}

// AddType records a value that does not parse as expected
func (ec *ErrorCollection) AddType(line int, column, expected, value string) {
	ec.Add(RowError{Line: line, Column: column, Code: ErrCodeInvalidType,
		Message: "expected " + expected, Value: value})
}

// Errors returns the kept errors
func (ec *ErrorCollection) Errors() []RowError {
	return ec.errors
}

// TotalCount includes the errors dropped past the limit
func (ec *ErrorCollection) TotalCount() int {
	return ec.total
}

// HasErrors reports whether anything was recorded
func (ec *ErrorCollection) HasErrors() bool {
	return ec.total > 0
}

func (ec *ErrorCollection) String() string {
	if !ec.HasErrors() {
		return "no errors"
	}
	var sb strings.Builder
	fmt.Fprintf(&sb, "%d error(s) found", ec.total)
	if ec.total > len(ec.errors) {
		fmt.Fprintf(&sb, " (showing first %d)", len(ec.errors))
	}
	sb.WriteString(":\n")
	for _, err := range ec.errors {
		fmt.Fprintf(&sb, "  - %s\n", err.Error())
	}
	return sb.String()
}
