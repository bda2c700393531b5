package errors

// SQLSTATE codes raised by this module, following the PostgreSQL error code
// appendix: https://www.postgresql.org/docs/current/errcodes-appendix.html

// Class 0A - Feature Not Supported
const (
	FeatureNotSupported = "0A000"
)

// Class 22 - Data Exception
const (
	DataException          = "22000"
	NumericValueOutOfRange = "22003"
	InvalidParameterValue  = "22023"
)

// Class 42 - Syntax Error or Access Rule Violation
const (
	UndefinedColumn   = "42703"
	UndefinedObject   = "42704"
	UndefinedTable    = "42P01"
	UndefinedFunction = "42883"
)

// Class XX - Internal Error
const (
	InternalError = "XX000"
)
