package search

import (
	"errors"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// ErrEmptyQuery is returned when a search request carries no query text.
// It is the only error the HTTP layer maps to a 400.
var ErrEmptyQuery = errors.New("query cannot be empty")

// Filter is the media-type facet of a search request.
type Filter string

const (
	FilterAll    Filter = "all"
	FilterImages Filter = "images"
	FilterNews   Filter = "news"
	FilterVideos Filter = "videos"
)

// ParseFilter maps a raw filter parameter onto a known Filter,
// defaulting to FilterAll for anything unrecognized.
func ParseFilter(raw string) Filter {
	switch Filter(raw) {
	case FilterImages, FilterNews, FilterVideos:
		return Filter(raw)
	default:
		return FilterAll
	}
}

const (
	defaultLimit = 10
	maxLimit     = 50
)

// Request is a normalized search request.
type Request struct {
	Query  string
	Filter Filter
	Page   int
	Limit  int
}

// Validate checks the request the way the HTTP layer expects: only the
// query is user-fallible, everything else is clamped by Normalize.
func (r Request) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Query, validation.Required.Error("query cannot be empty")),
		validation.Field(&r.Filter, validation.In(FilterAll, FilterImages, FilterNews, FilterVideos)),
	)
}

// Normalize canonicalizes the query (trim + lower-case, applied uniformly
// before the cache key is built) and clamps pagination: page >= 1,
// limit in [1, 50] with a default of 10.
func (r Request) Normalize() Request {
	r.Query = Canonicalize(r.Query)
	if r.Filter == "" {
		r.Filter = FilterAll
	}
	if r.Page < 1 {
		r.Page = 1
	}
	if r.Limit == 0 {
		r.Limit = defaultLimit
	}
	if r.Limit < 1 {
		r.Limit = 1
	}
	if r.Limit > maxLimit {
		r.Limit = maxLimit
	}
	return r
}

// Canonicalize is the single query canonicalization rule, applied before
// cache keys, provider calls and telemetry writes.
func Canonicalize(query string) string {
	return strings.ToLower(strings.TrimSpace(query))
}

// Result is the canonical, provider-agnostic search result shape.
// IDs are request-scoped and opaque: identical provider records fetched in
// two uncached requests get different ids.
type Result struct {
	ID           string   `json:"id"`
	Title        string   `json:"title"`
	URL          string   `json:"url"`
	Description  string   `json:"description"`
	Favicon      string   `json:"favicon,omitempty"`
	LastModified string   `json:"lastModified,omitempty"`
	Tags         []string `json:"tags,omitempty"`
	ImageURL     string   `json:"imageUrl,omitempty"`
	VideoURL     string   `json:"videoUrl,omitempty"`
}

// Response is the full envelope served for a search request and the value
// stored in the response cache.
type Response struct {
	Results      []Result `json:"results"`
	TotalResults int      `json:"totalResults"`
	SearchTime   int64    `json:"searchTime"`
	CurrentPage  int      `json:"currentPage"`
	TotalPages   int      `json:"totalPages"`
	Query        string   `json:"query"`
	Filter       Filter   `json:"filter"`
	SearchID     string   `json:"searchId"`
}

// Suggestion is a single type-ahead suggestion.
type Suggestion struct {
	Text  string `json:"text"`
	Count int    `json:"count,omitempty"`
}

// TotalPages computes ceil(total/limit) with the total=0 edge case yielding 0.
func TotalPages(totalResults, limit int) int {
	if totalResults <= 0 || limit <= 0 {
		return 0
	}
	return (totalResults + limit - 1) / limit
}
