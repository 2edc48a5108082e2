// Package telemetry records executed search queries into a durable
// relational log and, when configured, a Redis accelerator that serves the
// recent/popular views faster. The accelerator is best-effort: its absence
// and its failures are treated identically, and neither ever blocks or
// fails a search request.
package telemetry

import (
	"context"
	"log/slog"

	"serqo/internal/search"
)

// Entry is one row of the recent- or popular-searches views.
type Entry struct {
	ID    string `json:"id"`
	Query string `json:"query"`
}

// QueryRecord is the durable, append-only log row written for every served
// request regardless of cache state.
type QueryRecord struct {
	SearchID     string
	Query        string
	Filter       string
	ResultsCount int
	SearchTime   int
}

// DurableLog is the mandatory relational log.
type DurableLog interface {
	Insert(ctx context.Context, rec QueryRecord) error
	Recent(ctx context.Context, limit int) ([]Entry, error)
	Popular(ctx context.Context, limit int) ([]Entry, error)
}

// Accelerator is the optional fast store for recency/popularity views.
// Implementations return empty slices rather than failing hard; the Store
// treats an error and an empty result the same way.
type Accelerator interface {
	Push(ctx context.Context, query string) error
	Recent(ctx context.Context, limit int) ([]Entry, error)
	Popular(ctx context.Context, limit int) ([]Entry, error)
}

// Store composes the durable log and the accelerator.
type Store struct {
	log    DurableLog
	accel  Accelerator
	logger *slog.Logger
}

func NewStore(log DurableLog, accel Accelerator, logger *slog.Logger) *Store {
	return &Store{log: log, accel: accel, logger: logger}
}

// Record appends a QueryRecord to the durable log and pushes the query into
// the accelerator. Both writes are independent; failures are logged and
// swallowed, never propagated and never retried.
func (s *Store) Record(ctx context.Context, searchID, query string, filter search.Filter, resultsCount, searchTime int) {
	rec := QueryRecord{
		SearchID:     searchID,
		Query:        query,
		Filter:       string(filter),
		ResultsCount: resultsCount,
		SearchTime:   searchTime,
	}

	if err := s.log.Insert(ctx, rec); err != nil {
		s.logger.Error("failed to log search query", "search_id", searchID, "error", err)
	}

	if err := s.accel.Push(ctx, query); err != nil {
		s.logger.Error("failed to record query in accelerator", "query", query, "error", err)
	}
}

// RecentSearches prefers the accelerator's capped recency list and falls
// back to the durable log only when the accelerator yields nothing.
func (s *Store) RecentSearches(ctx context.Context, limit int) ([]Entry, error) {
	if entries, err := s.accel.Recent(ctx, limit); err == nil && len(entries) > 0 {
		return entries, nil
	}
	return s.log.Recent(ctx, limit)
}

// PopularSearches prefers the accelerator's frequency-ranked set and falls
// back to a grouped aggregate over the durable log. The two views are not
// guaranteed consistent with each other.
func (s *Store) PopularSearches(ctx context.Context, limit int) ([]Entry, error) {
	if entries, err := s.accel.Popular(ctx, limit); err == nil && len(entries) > 0 {
		return entries, nil
	}
	return s.log.Popular(ctx, limit)
}
