package reading

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var ErrNotFound = errors.New("device reading not found")

type repoPG struct{ pool *pgxpool.Pool }

func NewRepoPG(pool *pgxpool.Pool) Repository {
	return &repoPG{pool: pool}
}

const readingCols = `id, COALESCE(patient_id, ''), timestamp, glucose, systolic_bp, diastolic_bp, weight`

func scanReading(row pgx.Row) (*DeviceReading, error) {
	var r DeviceReading
	err := row.Scan(&r.ID, &r.PatientID, &r.Timestamp, &r.Glucose, &r.SystolicBP, &r.DiastolicBP, &r.Weight)
	if err != nil {
		return nil, err
	}
	return &r, nil
}

func (r *repoPG) GetByID(ctx context.Context, id string) (*DeviceReading, error) {
	dr, err := scanReading(r.pool.QueryRow(ctx, `SELECT `+readingCols+` FROM device_readings WHERE id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	return dr, err
}

// biometricClause returns the extra WHERE predicate for a biometric filter.
func biometricClause(filter Biometric) string {
	switch filter {
	case BiometricGlucose:
		return ` AND glucose IS NOT NULL`
	case BiometricBloodPressure:
		return ` AND (systolic_bp IS NOT NULL OR diastolic_bp IS NOT NULL)`
	case BiometricWeight:
		return ` AND weight IS NOT NULL`
	default:
		return ``
	}
}

func (r *repoPG) ListByPatient(ctx context.Context, patientID string, filter Biometric, limit, offset int) ([]*DeviceReading, int, error) {
	clause := biometricClause(filter)

	var total int
	if err := r.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM device_readings WHERE patient_id = $1`+clause, patientID,
	).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count readings: %w", err)
	}

	rows, err := r.pool.Query(ctx,
		`SELECT `+readingCols+` FROM device_readings
		 WHERE patient_id = $1`+clause+`
		 ORDER BY timestamp DESC LIMIT $2 OFFSET $3`,
		patientID, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("list readings: %w", err)
	}
	defer rows.Close()

	var items []*DeviceReading
	for rows.Next() {
		dr, err := scanReading(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan reading: %w", err)
		}
		items = append(items, dr)
	}
	return items, total, rows.Err()
}

func (r *repoPG) Insert(ctx context.Context, dr *DeviceReading) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO device_readings (id, patient_id, timestamp, glucose, systolic_bp, diastolic_bp, weight)
		VALUES ($1, NULLIF($2, ''), $3, $4, $5, $6, $7)`,
		dr.ID, dr.PatientID, dr.Timestamp, dr.Glucose, dr.SystolicBP, dr.DiastolicBP, dr.Weight)
	return err
}

func (r *repoPG) Update(ctx context.Context, dr *DeviceReading) error {
	_, err := r.pool.Exec(ctx, `
		UPDATE device_readings
		SET patient_id = NULLIF($2, ''), timestamp = $3, glucose = $4,
			systolic_bp = $5, diastolic_bp = $6, weight = $7
		WHERE id = $1`,
		dr.ID, dr.PatientID, dr.Timestamp, dr.Glucose, dr.SystolicBP, dr.DiastolicBP, dr.Weight)
	return err
}

func (r *repoPG) Delete(ctx context.Context, id string) (bool, error) {
	tag, err := r.pool.Exec(ctx, `DELETE FROM device_readings WHERE id = $1`, id)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}
