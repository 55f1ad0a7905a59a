package reading

import "context"

// Repository is the device-reading store behind the read API. Batch writes go
// through the loader; Insert/Update/Delete here back the API's upsert and
// delete operations only.
type Repository interface {
	GetByID(ctx context.Context, id string) (*DeviceReading, error)
	ListByPatient(ctx context.Context, patientID string, filter Biometric, limit, offset int) ([]*DeviceReading, int, error)
	Insert(ctx context.Context, r *DeviceReading) error
	Update(ctx context.Context, r *DeviceReading) error
	Delete(ctx context.Context, id string) (bool, error)
}
