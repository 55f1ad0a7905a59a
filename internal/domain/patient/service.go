package patient

import "context"

type Service struct {
	patients Repository
}

func NewService(patients Repository) *Service {
	return &Service{patients: patients}
}

func (s *Service) GetPatient(ctx context.Context, id string) (*Patient, error) {
	return s.patients.GetByID(ctx, id)
}

func (s *Service) ListPatients(ctx context.Context, limit, offset int) ([]*Patient, int, error) {
	return s.patients.List(ctx, limit, offset)
}

// PatientExists reports whether a patient row exists; the reading upsert uses
// it before creating a reading for an unknown patient.
func (s *Service) PatientExists(ctx context.Context, id string) (bool, error) {
	return s.patients.Exists(ctx, id)
}
