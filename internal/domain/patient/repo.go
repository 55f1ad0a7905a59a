package patient

import "context"

// Repository is the read-side patient store used by the API. Writes go
// through the batch loader, never through this interface.
type Repository interface {
	GetByID(ctx context.Context, id string) (*Patient, error)
	List(ctx context.Context, limit, offset int) ([]*Patient, int, error)
	Exists(ctx context.Context, id string) (bool, error)
}
