package postgres

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"

	"github.com/jackc/pgx/v5/pgxpool"

	"serqo/internal/telemetry"
)

const querylogSchema = `
CREATE TABLE IF NOT EXISTS search_queries (
	id            SERIAL PRIMARY KEY,
	search_id     TEXT NOT NULL UNIQUE,
	query         TEXT NOT NULL,
	filter        TEXT DEFAULT 'all',
	results_count INTEGER DEFAULT 0,
	search_time   INTEGER DEFAULT 0,
	timestamp     TIMESTAMPTZ DEFAULT now()
)`

// QueryLogRepository is the durable, append-only search query log.
// Rows are never updated or deleted by the application.
type QueryLogRepository struct {
	pool   *pgxpool.Pool
	logger *slog.Logger
}

func NewQueryLogRepository(pool *pgxpool.Pool, logger *slog.Logger) *QueryLogRepository {
	return &QueryLogRepository{pool: pool, logger: logger}
}

// EnsureSchema creates the search_queries table when it does not exist.
func (r *QueryLogRepository) EnsureSchema(ctx context.Context) error {
	if _, err := r.pool.Exec(ctx, querylogSchema); err != nil {
		return fmt.Errorf("create search_queries table: %w", err)
	}
	return nil
}

// Insert appends one log row.
func (r *QueryLogRepository) Insert(ctx context.Context, rec telemetry.QueryRecord) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO search_queries (search_id, query, filter, results_count, search_time)
		 VALUES ($1, $2, $3, $4, $5)`,
		rec.SearchID, rec.Query, rec.Filter, rec.ResultsCount, rec.SearchTime,
	)
	if err != nil {
		return fmt.Errorf("insert search query: %w", err)
	}
	return nil
}

// Recent returns the most recently logged queries, newest first.
func (r *QueryLogRepository) Recent(ctx context.Context, limit int) ([]telemetry.Entry, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, query
		   FROM search_queries
		  ORDER BY timestamp DESC
		  LIMIT $1`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("query recent searches: %w", err)
	}
	defer rows.Close()

	return scanEntries(rows)
}

// Popular returns query texts ranked by how often they were executed.
func (r *QueryLogRepository) Popular(ctx context.Context, limit int) ([]telemetry.Entry, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT max(id) AS id, query
		   FROM search_queries
		  GROUP BY query
		  ORDER BY count(*) DESC
		  LIMIT $1`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("query popular searches: %w", err)
	}
	defer rows.Close()

	return scanEntries(rows)
}

type pgxRows interface {
	Next() bool
	Scan(dest ...any) error
	Err() error
}

func scanEntries(rows pgxRows) ([]telemetry.Entry, error) {
	var entries []telemetry.Entry
	for rows.Next() {
		var id int64
		var query string
		if err := rows.Scan(&id, &query); err != nil {
			return nil, fmt.Errorf("scan search query row: %w", err)
		}
		entries = append(entries, telemetry.Entry{ID: strconv.FormatInt(id, 10), Query: query})
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return entries, nil
}
