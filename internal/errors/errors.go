package errors

import (
	"fmt"
)

// Error is a SQLSTATE-coded error.
type Error struct {
	Code    string // SQLSTATE code
	Message string // Primary error message
	Detail  string // Optional detailed error message
	Hint    string // Optional hint message
	Table   string // Table name if applicable
	Column  string // Column name if applicable
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("%s (SQLSTATE %s) DETAIL: %s", e.Message, e.Code, e.Detail)
	}
	return fmt.Sprintf("%s (SQLSTATE %s)", e.Message, e.Code)
}

// New creates a new Error with the given code and message.
func New(code string, message string) *Error {
	return &Error{
		Code:    code,
		Message: message,
	}
}

// Newf creates a new Error with a formatted message.
func Newf(code string, format string, args ...interface{}) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
	}
}

// WithDetail adds detail to the error.
func (e *Error) WithDetail(detail string) *Error {
	e.Detail = detail
	return e
}

// WithDetailf adds formatted detail to the error.
func (e *Error) WithDetailf(format string, args ...interface{}) *Error {
	e.Detail = fmt.Sprintf(format, args...)
	return e
}

// WithHint adds a hint to the error.
func (e *Error) WithHint(hint string) *Error {
	e.Hint = hint
	return e
}

// WithTable sets the table name.
func (e *Error) WithTable(table string) *Error {
	e.Table = table
	return e
}

// WithColumn sets the column name.
func (e *Error) WithColumn(column string) *Error {
	e.Column = column
	return e
}

// Common error constructors

// UndefinedTableError creates an undefined table error.
func UndefinedTableError(tableID int64) *Error {
	return Newf(UndefinedTable, "table %d does not exist", tableID)
}

// UndefinedIndexError creates an undefined materialized index error.
func UndefinedIndexError(tableName string, indexID int64) *Error {
	return Newf(UndefinedObject, "materialized index %d does not exist in table %q", indexID, tableName).
		WithTable(tableName)
}

// UndefinedPartitionError creates an undefined partition error.
func UndefinedPartitionError(tableName string, partitionID int64) *Error {
	return Newf(UndefinedObject, "partition %d does not exist in table %q", partitionID, tableName).
		WithTable(tableName)
}

// UndefinedColumnRefError reports a column reference whose id has no name in
// the current scan output. This indicates an inconsistent plan snapshot.
func UndefinedColumnRefError(columnID int64) *Error {
	return Newf(InternalError, "column reference %d has no name in scan output", columnID)
}

// NumericValueOutOfRangeError creates a numeric value out of range error.
func NumericValueOutOfRangeError(dataType string, value int64) *Error {
	return Newf(NumericValueOutOfRange, "value %d out of range for type %s", value, dataType)
}

// UndefinedFunctionError creates an undefined function error.
func UndefinedFunctionError(name string) *Error {
	return Newf(UndefinedFunction, "function %q does not exist", name)
}

// InternalErrorf creates an internal error.
func InternalErrorf(format string, args ...interface{}) *Error {
	return Newf(InternalError, format, args...)
}

// FeatureNotSupportedError creates a feature not supported error.
func FeatureNotSupportedError(feature string) *Error {
	return Newf(FeatureNotSupported, "%s is not supported", feature)
}

// IsError checks if an error is an Error with a specific code.
func IsError(err error, code string) bool {
	if err == nil {
		return false
	}
	e, ok := err.(*Error)
	return ok && e.Code == code
}

// GetError attempts to extract an Error from any error, wrapping generic
// errors as internal errors.
func GetError(err error) *Error {
	if err == nil {
		return nil
	}
	if e, ok := err.(*Error); ok {
		return e
	}
	return InternalErrorf("%v", err)
}
