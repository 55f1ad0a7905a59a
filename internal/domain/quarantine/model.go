// Package quarantine holds the append-only audit trail of records that failed
// validation or consistency checks. Error records are never updated or
// deleted; they are the structured trace of everything the pipeline refused
// or flagged.
package quarantine

import (
	"time"

	"github.com/healthpipe/healthpipe/internal/etl/errkind"
)

// Source table names recorded on quarantined records.
const (
	SourcePatients = "patients"
	SourceReadings = "device_readings"
)

// ErrorRecord is one quarantined failure. The struct is comparable on
// purpose: the orchestrator deduplicates structurally identical records
// before appending them to a batch.
type ErrorRecord struct {
	Reference       string       `json:"reference"`
	SourceTable     string       `json:"source_table"`
	FieldName       string       `json:"field_name,omitempty"`
	ErrorType       errkind.Kind `json:"error_type"`
	CaseDescription string       `json:"case_description"`
	OriginalValue   string       `json:"original_value,omitempty"`
}

// Stored is an ErrorRecord as persisted, with its database-generated
// identity and insertion time.
type Stored struct {
	ErrorID int64 `json:"error_id"`
	ErrorRecord
	CreatedAt time.Time `json:"created_at"`
}
