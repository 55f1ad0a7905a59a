package quarantine

import "context"

// Repository reads the quarantine trail for the API. Inserts happen in the
// batch loader only.
type Repository interface {
	List(ctx context.Context, sourceTable string, limit, offset int) ([]*Stored, int, error)
}
