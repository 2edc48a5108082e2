package search

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Provider is the external search client as the orchestrator sees it.
// A nil response means the provider is unavailable and the fallback set
// should be served.
type Provider interface {
	Search(ctx context.Context, query string, filter Filter, start, num int) *ProviderResponse
}

// Recorder receives one telemetry event per served request. Implementations
// must never block the response path; the orchestrator fires them on a
// detached goroutine.
type Recorder interface {
	Record(ctx context.Context, searchID, query string, filter Filter, resultsCount, searchTime int)
}

// Service orchestrates a search request: cache check, provider call,
// normalization or fallback, pagination math, telemetry and cache
// population.
type Service struct {
	provider Provider
	cache    *ResponseCache
	recorder Recorder
	logger   *slog.Logger

	now func() time.Time
}

func NewService(provider Provider, cache *ResponseCache, recorder Recorder, logger *slog.Logger) *Service {
	return &Service{
		provider: provider,
		cache:    cache,
		recorder: recorder,
		logger:   logger,
		now:      time.Now,
	}
}

// Search resolves a search request. The only error it returns is
// ErrEmptyQuery; provider unavailability is absorbed into fallback results.
func (s *Service) Search(ctx context.Context, req Request) (*Response, error) {
	if strings.TrimSpace(req.Query) == "" {
		return nil, ErrEmptyQuery
	}

	req = req.Normalize()
	key := Key{Query: req.Query, Filter: req.Filter, Page: req.Page, Limit: req.Limit}

	if cached, ok := s.cache.Get(key); ok {
		s.logger.Debug("cache hit", "query", req.Query, "filter", req.Filter, "page", req.Page)
		return cached, nil
	}

	start := s.now()
	offset := (req.Page - 1) * req.Limit

	data := s.provider.Search(ctx, req.Query, req.Filter, offset+1, req.Limit)

	var results []Result
	var totalResults int
	providerUsed := data != nil

	if providerUsed {
		results = NormalizeResults(data, req.Filter)
		totalResults = data.TotalResultCount()
	} else {
		results = FallbackResults(req.Query, req.Filter)
		totalResults = len(results)
		s.logger.Warn("provider unavailable, serving fallback results", "query", req.Query)
	}

	// Provider-filtered results are never re-filtered; manual tag matching
	// applies only to the fallback set.
	if req.Filter != FilterAll && !providerUsed {
		results = filterByTags(results, req.Filter)
		totalResults = len(results)
	}

	searchTime := s.now().Sub(start).Milliseconds()

	resp := &Response{
		Results:      results,
		TotalResults: totalResults,
		SearchTime:   searchTime,
		CurrentPage:  req.Page,
		TotalPages:   TotalPages(totalResults, req.Limit),
		Query:        req.Query,
		Filter:       req.Filter,
		SearchID:     newSearchID(s.now()),
	}

	// Telemetry is best-effort and off the critical path; its completion
	// is not awaited and its failures never surface here.
	go s.recorder.Record(context.WithoutCancel(ctx), resp.SearchID, req.Query, req.Filter, len(results), int(searchTime))

	s.cache.Set(key, resp)
	return resp, nil
}

func filterByTags(results []Result, filter Filter) []Result {
	needle := strings.ToLower(string(filter))
	filtered := make([]Result, 0, len(results))
	for _, r := range results {
		if matchesFilter(r, needle) {
			filtered = append(filtered, r)
		}
	}
	return filtered
}

func matchesFilter(r Result, needle string) bool {
	for _, tag := range r.Tags {
		if strings.Contains(strings.ToLower(tag), needle) {
			return true
		}
	}
	return strings.Contains(strings.ToLower(r.Title), needle) ||
		strings.Contains(strings.ToLower(r.Description), needle)
}

func newSearchID(now time.Time) string {
	return fmt.Sprintf("search_%d_%s", now.UnixMilli(), uuid.NewString()[:8])
}
