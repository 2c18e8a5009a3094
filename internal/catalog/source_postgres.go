// internal/catalog/source_postgres.go
package catalog

import (
	"context"
	"encoding/json"
	"fmt"

	"finmatch-workers/internal/common/database"
)

// PostgresSource fetches catalog rows from JSONB document tables. Each row
// holds one catalog entry in its data column; decoding and validation happen
// in the loader.
type PostgresSource struct {
	db *database.PostgresClient
}

func NewPostgresSource(db *database.PostgresClient) *PostgresSource {
	return &PostgresSource{db: db}
}

func (s *PostgresSource) FetchPrograms(ctx context.Context) ([]json.RawMessage, error) {
	return s.fetch(ctx, "SELECT data FROM bank_programs ORDER BY id")
}

func (s *PostgresSource) FetchSchemes(ctx context.Context) ([]json.RawMessage, error) {
	return s.fetch(ctx, "SELECT data FROM govt_schemes ORDER BY id")
}

func (s *PostgresSource) FetchRules(ctx context.Context) ([]json.RawMessage, error) {
	return s.fetch(ctx, "SELECT data FROM scheme_rules ORDER BY id")
}

func (s *PostgresSource) fetch(ctx context.Context, query string) ([]json.RawMessage, error) {
	rows, err := s.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query catalog table: %w", err)
	}
	defer rows.Close()

	var out []json.RawMessage
	for rows.Next() {
		var data []byte
		if err := rows.Scan(&data); err != nil {
			return nil, fmt.Errorf("scan catalog row: %w", err)
		}
		out = append(out, json.RawMessage(data))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate catalog rows: %w", err)
	}
	return out, nil
}
