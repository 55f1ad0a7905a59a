package load

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/healthpipe/healthpipe/internal/domain/patient"
	"github.com/healthpipe/healthpipe/internal/domain/quarantine"
	"github.com/healthpipe/healthpipe/internal/domain/reading"
	"github.com/healthpipe/healthpipe/internal/etl/errkind"
)

// PGLoader persists batches to PostgreSQL. Each batch runs in one
// transaction committed at the end; every record insert is wrapped in a
// savepoint (a nested pgx transaction) so a failed record rolls back only
// itself and never discards prior, not-yet-committed successes.
type PGLoader struct {
	pool *pgxpool.Pool
}

func NewPGLoader(pool *pgxpool.Pool) *PGLoader {
	return &PGLoader{pool: pool}
}

func (l *PGLoader) LoadEntities(ctx context.Context, patients []*patient.Patient, readings []*reading.DeviceReading) (*Summary, error) {
	tx, err := l.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: begin batch transaction: %w", errkind.NoDBConnection, err)
	}
	defer tx.Rollback(ctx)

	summary := &Summary{}

	for _, p := range patients {
		inserted, err := l.insertIsolated(ctx, tx, `
			INSERT INTO patients (id, name, dob, gender, address, email, phone, sex)
			VALUES ($1, $2, $3::date, $4, $5, $6, $7, $8)
			ON CONFLICT (id) DO NOTHING`,
			p.ID, p.Name, p.DOB, p.Gender, p.Address, p.Email, p.Phone, p.Sex)
		if err != nil {
			summary.Errors = append(summary.Errors, recordError(p.ID, err,
				errkind.PatientInsertError, errkind.PatientUnexpectedError))
			continue
		}
		summary.LoadedPatients += inserted
	}

	for _, r := range readings {
		inserted, err := l.insertIsolated(ctx, tx, `
			INSERT INTO device_readings (id, patient_id, timestamp, glucose, systolic_bp, diastolic_bp, weight)
			VALUES ($1, NULLIF($2, ''), $3, $4, $5, $6, $7)
			ON CONFLICT (id) DO NOTHING`,
			r.ID, r.PatientID, r.Timestamp, r.Glucose, r.SystolicBP, r.DiastolicBP, r.Weight)
		if err != nil {
			summary.Errors = append(summary.Errors, recordError(r.ID, err,
				errkind.ReadingInsertError, errkind.ReadingUnexpectedError))
			continue
		}
		summary.LoadedReadings += inserted
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("%s: commit batch: %w", errkind.DBOperationError, err)
	}
	return summary, nil
}

func (l *PGLoader) LoadErrorRecords(ctx context.Context, records []*quarantine.ErrorRecord) (*ErrorSummary, error) {
	tx, err := l.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: begin batch transaction: %w", errkind.NoDBConnection, err)
	}
	defer tx.Rollback(ctx)

	summary := &ErrorSummary{}

	for _, e := range records {
		inserted, err := l.insertIsolated(ctx, tx, `
			INSERT INTO error_records (reference, source_table, field_name, error_type, case_description, original_value)
			VALUES (NULLIF($1, ''), NULLIF($2, ''), NULLIF($3, ''), $4, $5, NULLIF($6, ''))`,
			e.Reference, e.SourceTable, e.FieldName, string(e.ErrorType), e.CaseDescription, e.OriginalValue)
		if err != nil {
			summary.Errors = append(summary.Errors, recordError(e.Reference, err,
				errkind.ErrorRecordInsertError, errkind.ErrorRecordInsertError))
			continue
		}
		summary.LoadedErrors += inserted
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("%s: commit batch: %w", errkind.DBOperationError, err)
	}
	return summary, nil
}

// insertIsolated runs one insert inside a savepoint on the batch transaction
// and returns the number of rows actually inserted (zero on a primary-key
// conflict). On failure the savepoint is rolled back, leaving the rest of the
// batch intact, and the error is returned for recovery by the caller.
func (l *PGLoader) insertIsolated(ctx context.Context, tx pgx.Tx, sql string, args ...any) (int, error) {
	sp, err := tx.Begin(ctx)
	if err != nil {
		return 0, fmt.Errorf("create savepoint: %w", err)
	}

	tag, err := sp.Exec(ctx, sql, args...)
	if err != nil {
		_ = sp.Rollback(ctx)
		return 0, err
	}
	if err := sp.Commit(ctx); err != nil {
		return 0, fmt.Errorf("release savepoint: %w", err)
	}
	return int(tag.RowsAffected()), nil
}

// recordError classifies a record-level failure: database-reported errors
// (constraint or type violations) get the insert kind, anything else the
// unexpected kind.
func recordError(ref string, err error, insertKind, unexpectedKind errkind.Kind) Error {
	kind := unexpectedKind
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		kind = insertKind
	}
	return Error{Type: kind, Reference: ref, Description: err.Error()}
}
