package db

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// The persisted schema is small and fixed, so bootstrap uses embedded
// create-if-not-exists DDL instead of migration files. Safe to run on every
// startup.
var schemaDDL = []string{
	`CREATE TABLE IF NOT EXISTS patients (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		dob DATE,
		gender TEXT,
		address TEXT,
		email TEXT,
		phone TEXT,
		sex TEXT
	)`,
	`CREATE TABLE IF NOT EXISTS device_readings (
		id TEXT PRIMARY KEY,
		patient_id TEXT REFERENCES patients(id) ON DELETE CASCADE,
		timestamp TIMESTAMPTZ NOT NULL,
		glucose NUMERIC(8,2),
		systolic_bp INTEGER,
		diastolic_bp INTEGER,
		weight NUMERIC(8,2)
	)`,
	`CREATE INDEX IF NOT EXISTS idx_device_readings_patient_ts
		ON device_readings (patient_id, timestamp)`,
	`CREATE TABLE IF NOT EXISTS error_records (
		error_id SERIAL PRIMARY KEY,
		reference TEXT,
		source_table TEXT,
		field_name TEXT,
		error_type TEXT,
		case_description TEXT,
		original_value TEXT,
		created_at TIMESTAMPTZ DEFAULT now()
	)`,
}

// EnsureSchema creates the pipeline's tables and indexes if they do not
// exist. The statements run in one transaction: either the whole schema is
// in place afterwards or nothing changed.
func EnsureSchema(ctx context.Context, pool *pgxpool.Pool) error {
	tx, err := pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin schema transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	for _, ddl := range schemaDDL {
		if _, err := tx.Exec(ctx, ddl); err != nil {
			return fmt.Errorf("execute schema DDL: %w", err)
		}
	}

	return tx.Commit(ctx)
}
