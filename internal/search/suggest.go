package search

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/url"
	"time"
)

const (
	suggestEndpoint = "https://suggestqueries.google.com/complete/search"
	suggestTimeout  = 5 * time.Second
	maxSuggestions  = 8
	minSuggestQuery = 2
)

// SuggestClient fetches type-ahead suggestions from the provider's
// completion endpoint.
type SuggestClient struct {
	configured bool
	endpoint   string
	client     *http.Client
	logger     *slog.Logger
}

func NewSuggestClient(configured bool, logger *slog.Logger) *SuggestClient {
	return &SuggestClient{
		configured: configured,
		endpoint:   suggestEndpoint,
		client:     &http.Client{Timeout: suggestTimeout},
		logger:     logger,
	}
}

// Suggestions returns provider completions for query, or nil when the
// provider is unconfigured, the query is too short, or the call fails.
// Callers treat nil as "use the fallback suggestion list".
func (c *SuggestClient) Suggestions(ctx context.Context, query string) []Suggestion {
	if !c.configured || len(query) < minSuggestQuery {
		return nil
	}

	ctx, cancel := context.WithTimeout(ctx, suggestTimeout)
	defer cancel()

	params := url.Values{}
	params.Set("client", "firefox")
	params.Set("q", query)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.endpoint+"?"+params.Encode(), nil)
	if err != nil {
		return nil
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		c.logger.Warn("suggestion request failed", "error", err)
		return nil
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		c.logger.Warn("suggestion provider returned non-OK status", "status", resp.StatusCode)
		return nil
	}

	// The completion endpoint answers in array form:
	// [query, [suggestion, ...], ...]
	var payload []json.RawMessage
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil || len(payload) < 2 {
		return nil
	}

	var texts []string
	if err := json.Unmarshal(payload[1], &texts); err != nil {
		return nil
	}

	if len(texts) > maxSuggestions {
		texts = texts[:maxSuggestions]
	}

	suggestions := make([]Suggestion, 0, len(texts))
	for i, text := range texts {
		count := 1000 - i*100
		if count < 50 {
			count = 50
		}
		suggestions = append(suggestions, Suggestion{Text: text, Count: count})
	}
	return suggestions
}

// FallbackSuggestions produces the deterministic suggestion list used when
// the completion endpoint yields nothing. Entries longer than 50 characters
// are dropped.
func FallbackSuggestions(query string) []Suggestion {
	candidates := []Suggestion{
		{Text: query + " tutorial", Count: 500},
		{Text: query + " guide", Count: 400},
		{Text: query + " examples", Count: 300},
		{Text: "what is " + query, Count: 200},
		{Text: query + " tips", Count: 100},
	}

	suggestions := make([]Suggestion, 0, len(candidates))
	for _, s := range candidates {
		if len(s.Text) <= 50 {
			suggestions = append(suggestions, s)
		}
	}
	return suggestions
}
