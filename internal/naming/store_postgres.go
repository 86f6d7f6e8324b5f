package naming

import (
	"context"
	"database/sql"
	"fmt"

	"agentreg/pkg/platform/tx"
)

// PostgresStore increments counters with a single upsert, so concurrent
// callers serialize on the (series, year) row.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) Next(ctx context.Context, series string, year int) (int64, error) {
	query := `
		INSERT INTO naming_series (series, year, value)
		VALUES ($1, $2, 1)
		ON CONFLICT (series, year) DO UPDATE SET
			value = naming_series.value + 1
		RETURNING value
	`
	var value int64
	if err := tx.Exec(ctx, s.db).QueryRowContext(ctx, query, series, year).Scan(&value); err != nil {
		return 0, fmt.Errorf("increment naming series %s/%d: %w", series, year, err)
	}
	return value, nil
}
