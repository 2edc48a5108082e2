package wingman

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"serqo/internal/search"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// newStubAssistant wires a WingMan against a local OpenRouter stub that
// replies with the given model content for every chat completion.
func newStubAssistant(t *testing.T, content string) (*WingMan, *httptest.Server) {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if auth := r.Header.Get("Authorization"); auth != "Bearer test-key" {
			t.Errorf("Authorization = %q", auth)
		}
		reply := map[string]any{
			"choices": []map[string]any{
				{"message": map[string]any{"content": content}},
			},
		}
		json.NewEncoder(w).Encode(reply)
	}))
	t.Cleanup(server.Close)

	assistant := &WingMan{
		apiKey:    "test-key",
		model:     "test-model",
		baseURL:   server.URL,
		available: true,
		client:    &http.Client{Timeout: 5 * time.Second},
		logger:    discardLogger(),
	}
	return assistant, server
}

func TestNewWithoutAPIKeyIsUnavailable(t *testing.T) {
	assistant := New("", "test-model", discardLogger())

	status := assistant.Status()
	if status.Available {
		t.Error("assistant available without an API key")
	}
	if status.Model != "test-model" || status.Provider != "OpenRouter" {
		t.Errorf("status = %+v", status)
	}
}

func TestEnhanceQueryParsesModelAnswer(t *testing.T) {
	assistant, _ := newStubAssistant(t, `{"enhanced":"golang tutorial for beginners","suggestions":["go basics","go by example","learn go"],"intent":"academic_search"}`)

	got := assistant.EnhanceQuery(context.Background(), "golang")

	if got.Original != "golang" {
		t.Errorf("original = %q", got.Original)
	}
	if got.Enhanced != "golang tutorial for beginners" {
		t.Errorf("enhanced = %q", got.Enhanced)
	}
	if len(got.Suggestions) != 3 || got.Suggestions[0] != "go basics" {
		t.Errorf("suggestions = %v", got.Suggestions)
	}
	if got.Intent != "academic_search" {
		t.Errorf("intent = %q", got.Intent)
	}
}

func TestEnhanceQueryFallsBackToIdentityOnGatewayError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "rate limited", http.StatusTooManyRequests)
	}))
	defer server.Close()

	assistant := &WingMan{
		apiKey:    "test-key",
		model:     "test-model",
		baseURL:   server.URL,
		available: true,
		client:    &http.Client{Timeout: 5 * time.Second},
		logger:    discardLogger(),
	}

	got := assistant.EnhanceQuery(context.Background(), "golang")
	if got.Enhanced != "golang" || got.Intent != "web_search" {
		t.Errorf("expected identity enhancement, got %+v", got)
	}
}

func TestSmartSuggestionsShortPartialQuery(t *testing.T) {
	assistant, _ := newStubAssistant(t, `{"suggestions":["should not be called"]}`)

	if got := assistant.SmartSuggestions(context.Background(), "g", nil); len(got) != 0 {
		t.Errorf("suggestions = %v, want empty for one-character query", got)
	}
}

func TestSmartSuggestionsParsesModelAnswer(t *testing.T) {
	assistant, _ := newStubAssistant(t, `{"suggestions":["golang tutorial","golang jobs","golang vs rust","golang web framework","golang generics"]}`)

	got := assistant.SmartSuggestions(context.Background(), "golang", []string{"rust", "python"})
	if len(got) != 5 || got[0] != "golang tutorial" {
		t.Errorf("suggestions = %v", got)
	}
}

func TestAnswerQuestionUnavailable(t *testing.T) {
	assistant := New("", "test-model", discardLogger())

	got := assistant.AnswerQuestion(context.Background(), "what is go?", nil)
	if got.Answer != "" || len(got.Sources) != 0 || len(got.FollowUpQuestions) != 0 {
		t.Errorf("answer = %+v, want empty", got)
	}
}

func TestAnswerQuestionCollectsSources(t *testing.T) {
	assistant, _ := newStubAssistant(t, `{"answer":"Go is a programming language.","confidence":95,"followUpQuestions":["who made go?","is go fast?","what is goroutine?"]}`)

	results := []search.Result{
		{Title: "Go", URL: "https://go.dev", Description: "the go website"},
		{Title: "Wiki", URL: "https://en.wikipedia.org/wiki/Go", Description: "wiki page"},
		{Title: "Blog", URL: "https://blog.example.com/go", Description: "a blog"},
		{Title: "Extra", URL: "https://extra.example.com", Description: "beyond the context cap"},
	}

	got := assistant.AnswerQuestion(context.Background(), "what is go?", results)
	if got.Answer != "Go is a programming language." || got.Confidence != 95 {
		t.Errorf("answer/confidence = %q/%d", got.Answer, got.Confidence)
	}
	if len(got.Sources) != 3 || got.Sources[0] != "https://go.dev" {
		t.Errorf("sources = %v, want first three result URLs", got.Sources)
	}
	if len(got.FollowUpQuestions) != 3 {
		t.Errorf("followUpQuestions = %v", got.FollowUpQuestions)
	}
}

func TestSummarizeResultsEmptyInput(t *testing.T) {
	assistant, _ := newStubAssistant(t, `{}`)

	got := assistant.SummarizeResults(context.Background(), "golang", nil)
	if got.Summary != "" || len(got.KeyPoints) != 0 {
		t.Errorf("summary = %+v, want empty", got)
	}
}

func TestSummarizeResultsParsesModelAnswer(t *testing.T) {
	assistant, _ := newStubAssistant(t, `{"summary":"Go is a statically typed language.","keyPoints":["compiled","garbage collected"],"confidence":90}`)

	results := make([]search.Result, 7)
	for i := range results {
		results[i] = search.Result{
			ID:          fmt.Sprintf("google-%d-1", i),
			Title:       "Go",
			Description: "about go",
		}
	}

	got := assistant.SummarizeResults(context.Background(), "golang", results)
	if got.Summary != "Go is a statically typed language." {
		t.Errorf("summary = %q", got.Summary)
	}
	if len(got.KeyPoints) != 2 || got.Confidence != 90 {
		t.Errorf("keyPoints/confidence = %v/%d", got.KeyPoints, got.Confidence)
	}
}
