package search

import (
	"fmt"
	"net/url"
)

// FallbackResults produces the deterministic placeholder pair served when
// the provider is unavailable: a provider search-engine link and a
// Wikipedia search link. Never fails, never empty.
func FallbackResults(query string, filter Filter) []Result {
	escaped := url.QueryEscape(query)

	return []Result{
		{
			ID:          "fallback-1",
			Title:       fmt.Sprintf("Search results for %q", query),
			URL:         "https://www.google.com/search?q=" + escaped,
			Description: "The search provider is currently unavailable. This is a fallback result that would normally show real web search results.",
			Favicon:     "https://www.google.com/favicon.ico",
			Tags:        []string{"fallback", string(filter)},
		},
		{
			ID:          "fallback-2",
			Title:       fmt.Sprintf("%s - Wikipedia", query),
			URL:         "https://en.wikipedia.org/wiki/Special:Search?search=" + escaped,
			Description: fmt.Sprintf("Wikipedia search results for %s. This would normally be replaced with real results from the search provider.", query),
			Favicon:     "https://en.wikipedia.org/favicon.ico",
			Tags:        []string{"wikipedia", string(filter)},
		},
	}
}
