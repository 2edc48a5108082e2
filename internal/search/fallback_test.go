package search

import (
	"strings"
	"testing"
)

func TestFallbackResults(t *testing.T) {
	for _, filter := range []Filter{FilterAll, FilterImages, FilterNews, FilterVideos} {
		t.Run(string(filter), func(t *testing.T) {
			results := FallbackResults("rust lang", filter)

			if len(results) != 2 {
				t.Fatalf("got %d fallback results, want exactly 2", len(results))
			}
			for _, r := range results {
				if !hasTag(r, string(filter)) {
					t.Errorf("result %q missing filter tag %q: %v", r.ID, filter, r.Tags)
				}
			}
			if !hasTag(results[0], "fallback") {
				t.Errorf("first result missing fallback tag: %v", results[0].Tags)
			}
			if !hasTag(results[1], "wikipedia") {
				t.Errorf("second result missing wikipedia tag: %v", results[1].Tags)
			}
		})
	}
}

func TestFallbackResultsDeterministic(t *testing.T) {
	a := FallbackResults("cats", FilterAll)
	b := FallbackResults("cats", FilterAll)

	for i := range a {
		if a[i].ID != b[i].ID || a[i].URL != b[i].URL || a[i].Title != b[i].Title {
			t.Errorf("fallback result %d differs between calls", i)
		}
	}
}

func TestFallbackResultsEscapesQuery(t *testing.T) {
	results := FallbackResults("c++ & go", FilterAll)
	for _, r := range results {
		if !strings.Contains(r.URL, "c%2B%2B+%26+go") {
			t.Errorf("query not escaped in URL %q", r.URL)
		}
	}
}
