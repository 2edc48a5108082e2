// Package wingman is the AI assistant behind the search portal's chat
// features. It is a thin passthrough to the OpenRouter chat-completions API:
// prompt in, parsed JSON out, with graceful no-op responses whenever the
// gateway is not configured or not reachable.
package wingman

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"serqo/internal/search"
)

const (
	defaultBaseURL = "https://openrouter.ai/api/v1"
	requestTimeout = 30 * time.Second
)

// Status is the assistant block reported by the /api/status probe.
type Status struct {
	Available bool   `json:"available"`
	Model     string `json:"model"`
	Provider  string `json:"provider"`
}

// QueryEnhancement is the response of the enhance-query operation.
type QueryEnhancement struct {
	Original    string   `json:"original"`
	Enhanced    string   `json:"enhanced"`
	Suggestions []string `json:"suggestions"`
	Intent      string   `json:"intent"`
}

// Summary is the response of the summarize operation.
type Summary struct {
	Summary    string   `json:"summary"`
	KeyPoints  []string `json:"keyPoints"`
	Confidence int      `json:"confidence"`
}

// Answer is the response of the question-answering operation.
type Answer struct {
	Answer            string   `json:"answer"`
	Sources           []string `json:"sources"`
	Confidence        int      `json:"confidence"`
	FollowUpQuestions []string `json:"followUpQuestions"`
}

// WingMan talks to the LLM gateway.
type WingMan struct {
	apiKey    string
	model     string
	baseURL   string
	available bool
	client    *http.Client
	logger    *slog.Logger
}

// New creates the assistant and probes the gateway once. An unreachable or
// unconfigured gateway disables the assistant rather than failing startup.
func New(apiKey, model string, logger *slog.Logger) *WingMan {
	w := &WingMan{
		apiKey:  apiKey,
		model:   model,
		baseURL: defaultBaseURL,
		client:  &http.Client{Timeout: requestTimeout},
		logger:  logger,
	}
	w.checkAvailability()
	return w
}

func (w *WingMan) checkAvailability() {
	if w.apiKey == "" {
		w.logger.Warn("OpenRouter API key not configured, WingMan features disabled")
		return
	}

	req, err := http.NewRequest(http.MethodGet, w.baseURL+"/models", nil)
	if err != nil {
		return
	}
	req.Header.Set("Authorization", "Bearer "+w.apiKey)

	resp, err := w.client.Do(req)
	if err != nil {
		w.logger.Warn("OpenRouter not reachable, WingMan features disabled", "error", err)
		return
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusOK {
		w.available = true
		w.logger.Info("WingMan assistant ready", "model", w.model)
	} else {
		w.logger.Warn("OpenRouter connection failed, WingMan features disabled", "status", resp.StatusCode)
	}
}

func (w *WingMan) Status() Status {
	return Status{Available: w.available, Model: w.model, Provider: "OpenRouter"}
}

// EnhanceQuery asks the model for a sharper query, alternatives and the
// search intent. Unavailable gateway yields an identity enhancement.
func (w *WingMan) EnhanceQuery(ctx context.Context, query string) QueryEnhancement {
	identity := QueryEnhancement{
		Original: query,
		Enhanced: query,
		Intent:   "web_search",
	}
	if !w.available {
		return identity
	}

	prompt := fmt.Sprintf(`Analyze this search query and help improve it for better search results.

Query: %q

Provide:
1. Enhanced version of the query (more specific, better keywords)
2. 3 alternative search suggestions
3. Search intent (web_search, image_search, video_search, news_search, academic_search, shopping, local_search, definition)

Respond in this exact JSON format:
{
  "enhanced": "enhanced query here",
  "suggestions": ["suggestion 1", "suggestion 2", "suggestion 3"],
  "intent": "search_type_here"
}`, query)

	var parsed struct {
		Enhanced    string   `json:"enhanced"`
		Suggestions []string `json:"suggestions"`
		Intent      string   `json:"intent"`
	}
	if err := w.complete(ctx, prompt, 0.7, 200, &parsed); err != nil {
		w.logger.Error("query enhancement failed", "error", err)
		return identity
	}

	out := identity
	if parsed.Enhanced != "" {
		out.Enhanced = parsed.Enhanced
	}
	if parsed.Intent != "" {
		out.Intent = parsed.Intent
	}
	out.Suggestions = parsed.Suggestions
	return out
}

// SmartSuggestions generates completions for a partial query, optionally
// biased by recent search history.
func (w *WingMan) SmartSuggestions(ctx context.Context, partialQuery string, history []string) []string {
	if !w.available || len(partialQuery) < 2 {
		return []string{}
	}

	historyContext := ""
	if len(history) > 0 {
		if len(history) > 5 {
			history = history[:5]
		}
		historyContext = "Recent searches: " + strings.Join(history, ", ")
	}

	prompt := fmt.Sprintf(`Generate 5 smart search suggestions for the partial query %q.

%s

Consider popular search trends, related topics and different search intents.

Respond in this exact JSON format:
{
  "suggestions": ["suggestion 1", "suggestion 2", "suggestion 3", "suggestion 4", "suggestion 5"]
}`, partialQuery, historyContext)

	var parsed struct {
		Suggestions []string `json:"suggestions"`
	}
	if err := w.complete(ctx, prompt, 0.8, 150, &parsed); err != nil {
		w.logger.Error("smart suggestions failed", "error", err)
		return []string{}
	}
	if parsed.Suggestions == nil {
		return []string{}
	}
	return parsed.Suggestions
}

// SummarizeResults produces a short summary of the top search results.
func (w *WingMan) SummarizeResults(ctx context.Context, query string, results []search.Result) Summary {
	if !w.available || len(results) == 0 {
		return Summary{KeyPoints: []string{}}
	}

	top := results
	if len(top) > 5 {
		top = top[:5]
	}
	var sb strings.Builder
	for i, r := range top {
		fmt.Fprintf(&sb, "%d. %s\n   %s\n\n", i+1, r.Title, r.Description)
	}

	prompt := fmt.Sprintf(`Based on these search results for the query %q, provide a comprehensive summary.

Search Results:
%s
Provide:
1. A clear, informative summary (2-3 sentences)
2. 3-5 key points from the results
3. Confidence level (0-100) in the information accuracy

Respond in this exact JSON format:
{
  "summary": "comprehensive summary here",
  "keyPoints": ["point 1", "point 2", "point 3"],
  "confidence": 85
}`, query, sb.String())

	var parsed Summary
	if err := w.complete(ctx, prompt, 0.3, 300, &parsed); err != nil {
		w.logger.Error("result summarization failed", "error", err)
		return Summary{KeyPoints: []string{}}
	}
	if parsed.KeyPoints == nil {
		parsed.KeyPoints = []string{}
	}
	return parsed
}

// AnswerQuestion answers a free-form question, grounded on up to three search
// results when the caller provides them.
func (w *WingMan) AnswerQuestion(ctx context.Context, question string, results []search.Result) Answer {
	empty := Answer{Sources: []string{}, FollowUpQuestions: []string{}}
	if !w.available {
		return empty
	}

	var contextText string
	sources := []string{}
	if len(results) > 0 {
		top := results
		if len(top) > 3 {
			top = top[:3]
		}
		var sb strings.Builder
		for i, r := range top {
			sources = append(sources, r.URL)
			fmt.Fprintf(&sb, "Source %d: %s\n%s\n\n", i+1, r.Title, r.Description)
		}
		contextText = sb.String()
	}

	grounding := "Answer based on general knowledge."
	contextBlock := ""
	if contextText != "" {
		grounding = "If using context, cite the sources."
		contextBlock = fmt.Sprintf("Context from search results:\n%s\n", contextText)
	}

	prompt := fmt.Sprintf(`Answer this question using the provided context (if available) and your knowledge.

Question: %q

%s
Provide:
1. A clear, accurate answer
2. Confidence level (0-100)
3. 3 relevant follow-up questions

%s

Respond in this exact JSON format:
{
  "answer": "detailed answer here",
  "confidence": 90,
  "followUpQuestions": ["question 1?", "question 2?", "question 3?"]
}`, question, contextBlock, grounding)

	var parsed struct {
		Answer            string   `json:"answer"`
		Confidence        int      `json:"confidence"`
		FollowUpQuestions []string `json:"followUpQuestions"`
	}
	if err := w.complete(ctx, prompt, 0.2, 400, &parsed); err != nil {
		w.logger.Error("question answering failed", "error", err)
		return empty
	}

	out := Answer{
		Answer:            parsed.Answer,
		Sources:           sources,
		Confidence:        parsed.Confidence,
		FollowUpQuestions: parsed.FollowUpQuestions,
	}
	if out.FollowUpQuestions == nil {
		out.FollowUpQuestions = []string{}
	}
	return out
}

type chatRequest struct {
	Model          string        `json:"model"`
	Messages       []chatMessage `json:"messages"`
	Temperature    float64       `json:"temperature"`
	MaxTokens      int           `json:"max_tokens"`
	ResponseFormat struct {
		Type string `json:"type"`
	} `json:"response_format"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// complete sends one JSON-mode chat completion and decodes the model's JSON
// answer into dest.
func (w *WingMan) complete(ctx context.Context, prompt string, temperature float64, maxTokens int, dest interface{}) error {
	body := chatRequest{
		Model:       w.model,
		Messages:    []chatMessage{{Role: "user", Content: prompt}},
		Temperature: temperature,
		MaxTokens:   maxTokens,
	}
	body.ResponseFormat.Type = "json_object"

	payload, err := json.Marshal(body)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, w.baseURL+"/chat/completions", bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+w.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := w.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("OpenRouter API error: %d", resp.StatusCode)
	}

	var data chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&data); err != nil {
		return err
	}
	if len(data.Choices) == 0 {
		return fmt.Errorf("OpenRouter returned no choices")
	}

	return json.Unmarshal([]byte(data.Choices[0].Message.Content), dest)
}
