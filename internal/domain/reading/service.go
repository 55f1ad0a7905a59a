package reading

import (
	"context"
	"errors"
	"fmt"
)

// PatientDirectory answers existence checks against the patient store. The
// upsert refuses to create a reading for a patient that was never ingested.
type PatientDirectory interface {
	Exists(ctx context.Context, id string) (bool, error)
}

var ErrUnknownPatient = errors.New("patient not found")

type Service struct {
	readings Repository
	patients PatientDirectory
}

func NewService(readings Repository, patients PatientDirectory) *Service {
	return &Service{readings: readings, patients: patients}
}

func (s *Service) GetReading(ctx context.Context, id string) (*DeviceReading, error) {
	return s.readings.GetByID(ctx, id)
}

func (s *Service) ListReadingsByPatient(ctx context.Context, patientID string, filter Biometric, limit, offset int) ([]*DeviceReading, int, error) {
	return s.readings.ListByPatient(ctx, patientID, filter, limit, offset)
}

// UpsertReading updates the reading with the same id if one exists, otherwise
// inserts a new one. This is the API-facing true upsert; the batch loader's
// insert-or-ignore is a separate operation with different semantics. Returns
// whether a new row was created.
func (s *Service) UpsertReading(ctx context.Context, dr *DeviceReading) (bool, error) {
	if dr.ID == "" {
		return false, fmt.Errorf("reading id is required")
	}
	if dr.Timestamp.IsZero() {
		return false, fmt.Errorf("timestamp is required")
	}

	_, err := s.readings.GetByID(ctx, dr.ID)
	switch {
	case err == nil:
		return false, s.readings.Update(ctx, dr)
	case errors.Is(err, ErrNotFound):
		if dr.PatientID != "" {
			ok, err := s.patients.Exists(ctx, dr.PatientID)
			if err != nil {
				return false, err
			}
			if !ok {
				return false, fmt.Errorf("%w: %s", ErrUnknownPatient, dr.PatientID)
			}
		}
		return true, s.readings.Insert(ctx, dr)
	default:
		return false, err
	}
}

func (s *Service) DeleteReading(ctx context.Context, id string) (bool, error) {
	return s.readings.Delete(ctx, id)
}
