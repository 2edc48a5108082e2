package search

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestSuggestClientParsesArrayFormat(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("q"); got != "rust" {
			t.Errorf("q = %q, want rust", got)
		}
		w.Write([]byte(`["rust", ["rust lang", "rust game", "rust belt"]]`))
	}))
	defer server.Close()

	client := NewSuggestClient(true, discardLogger())
	client.endpoint = server.URL

	suggestions := client.Suggestions(context.Background(), "rust")
	if len(suggestions) != 3 {
		t.Fatalf("got %d suggestions, want 3", len(suggestions))
	}
	if suggestions[0].Text != "rust lang" || suggestions[0].Count != 1000 {
		t.Errorf("first suggestion = %+v", suggestions[0])
	}
	if suggestions[2].Count != 800 {
		t.Errorf("third suggestion count = %d, want 800", suggestions[2].Count)
	}
}

func TestSuggestClientShortQuery(t *testing.T) {
	client := NewSuggestClient(true, discardLogger())
	if got := client.Suggestions(context.Background(), "r"); got != nil {
		t.Errorf("short query returned %v, want nil", got)
	}
}

func TestSuggestClientUnconfigured(t *testing.T) {
	client := NewSuggestClient(false, discardLogger())
	if got := client.Suggestions(context.Background(), "rust"); got != nil {
		t.Errorf("unconfigured client returned %v, want nil", got)
	}
}

func TestFallbackSuggestions(t *testing.T) {
	suggestions := FallbackSuggestions("go")

	if len(suggestions) != 5 {
		t.Fatalf("got %d suggestions, want 5", len(suggestions))
	}
	if suggestions[0].Text != "go tutorial" || suggestions[0].Count != 500 {
		t.Errorf("first = %+v", suggestions[0])
	}
	for i := 1; i < len(suggestions); i++ {
		if suggestions[i].Count >= suggestions[i-1].Count {
			t.Errorf("counts not descending at %d", i)
		}
	}
}

func TestFallbackSuggestionsDropLongEntries(t *testing.T) {
	long := strings.Repeat("x", 48)
	for _, s := range FallbackSuggestions(long) {
		if len(s.Text) > 50 {
			t.Errorf("suggestion longer than 50 chars: %q", s.Text)
		}
	}
}
