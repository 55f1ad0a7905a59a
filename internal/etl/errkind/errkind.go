// Package errkind defines the canonical error classification used across the
// ingestion pipeline. Transform-time kinds are attached to quarantined records;
// load-time kinds describe per-record persistence failures.
package errkind

// Kind is a canonical error category. Validation rules tag their violations
// with a Kind directly, so classification never depends on message text.
type Kind string

// Transform-time kinds.
const (
	InvalidFormat        Kind = "INVALID_FORMAT"
	MissingValue         Kind = "MISSING_VALUE"
	InvalidType          Kind = "INVALID_TYPE"
	ValueError           Kind = "VALUE_ERROR"
	LogicalInconsistency Kind = "LOGICAL_INCONSISTENCY"
	TimestampOrder       Kind = "TIMESTAMP_ORDER_INCONSISTENCY"
	TransformationError  Kind = "TRANSFORMATION_ERROR"
)

// Load-time kinds.
const (
	NoDBConnection         Kind = "NO_DB_CONNECTION"
	PatientInsertError     Kind = "PATIENT_INSERT_ERROR"
	ReadingInsertError     Kind = "READING_INSERT_ERROR"
	ErrorRecordInsertError Kind = "ERROR_RECORD_INSERT_ERROR"
	PatientUnexpectedError Kind = "PATIENT_UNEXPECTED_ERROR"
	ReadingUnexpectedError Kind = "READING_UNEXPECTED_ERROR"
	DBOperationError       Kind = "DB_OPERATION_ERROR"
)

func (k Kind) String() string { return string(k) }
