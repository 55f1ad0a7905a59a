package quarantine

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

type repoPG struct{ pool *pgxpool.Pool }

func NewRepoPG(pool *pgxpool.Pool) Repository {
	return &repoPG{pool: pool}
}

func (r *repoPG) List(ctx context.Context, sourceTable string, limit, offset int) ([]*Stored, int, error) {
	where := ``
	args := []any{limit, offset}
	if sourceTable != "" {
		where = ` WHERE source_table = $3`
		args = append(args, sourceTable)
	}

	var total int
	countArgs := args[2:]
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM error_records`+countWhere(sourceTable), countArgs...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count error records: %w", err)
	}

	rows, err := r.pool.Query(ctx, `
		SELECT error_id, COALESCE(reference, ''), COALESCE(source_table, ''),
			COALESCE(field_name, ''), COALESCE(error_type, ''),
			COALESCE(case_description, ''), COALESCE(original_value, ''), created_at
		FROM error_records`+where+`
		ORDER BY error_id LIMIT $1 OFFSET $2`, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list error records: %w", err)
	}
	defer rows.Close()

	var items []*Stored
	for rows.Next() {
		var s Stored
		if err := rows.Scan(&s.ErrorID, &s.Reference, &s.SourceTable, &s.FieldName,
			&s.ErrorType, &s.CaseDescription, &s.OriginalValue, &s.CreatedAt); err != nil {
			return nil, 0, fmt.Errorf("scan error record: %w", err)
		}
		items = append(items, &s)
	}
	return items, total, rows.Err()
}

func countWhere(sourceTable string) string {
	if sourceTable == "" {
		return ``
	}
	return ` WHERE source_table = $1`
}
