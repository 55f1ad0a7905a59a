// Package load persists a transformed batch. Both loaders share the same
// contract: one logical batch, per-record failure isolation, and summary
// counts that report what was actually inserted. A record-level failure never
// aborts the batch or erases prior records' work; only connection or
// transaction level failures surface as a single aggregate error.
package load

import (
	"context"

	"github.com/healthpipe/healthpipe/internal/domain/patient"
	"github.com/healthpipe/healthpipe/internal/domain/quarantine"
	"github.com/healthpipe/healthpipe/internal/domain/reading"
	"github.com/healthpipe/healthpipe/internal/etl/errkind"
)

// Error describes one recovered record-level load failure.
type Error struct {
	Type        errkind.Kind `json:"type"`
	Reference   string       `json:"reference"`
	Description string       `json:"description"`
}

// Summary reports the outcome of LoadEntities.
type Summary struct {
	LoadedPatients int     `json:"loaded_patients_count"`
	LoadedReadings int     `json:"loaded_readings_count"`
	Errors         []Error `json:"loading_errors,omitempty"`
}

// ErrorSummary reports the outcome of LoadErrorRecords.
type ErrorSummary struct {
	LoadedErrors int     `json:"loaded_errors_count"`
	Errors       []Error `json:"loading_errors,omitempty"`
}

// Loader is the batch persistence boundary. Inserts are insert-or-ignore on
// the primary key: replaying a batch reports zero newly loaded rows rather
// than failing or updating.
type Loader interface {
	LoadEntities(ctx context.Context, patients []*patient.Patient, readings []*reading.DeviceReading) (*Summary, error)
	LoadErrorRecords(ctx context.Context, errors []*quarantine.ErrorRecord) (*ErrorSummary, error)
}
