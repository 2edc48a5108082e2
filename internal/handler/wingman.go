package handler

import (
	"log/slog"
	"net/http"
	"strings"

	"serqo/internal/httputil"
	"serqo/internal/search"
	"serqo/internal/wingman"
)

// WingManHandler serves the AI assistant endpoints.
type WingManHandler struct {
	assistant *wingman.WingMan
	logger    *slog.Logger
}

func NewWingManHandler(assistant *wingman.WingMan, logger *slog.Logger) *WingManHandler {
	return &WingManHandler{assistant: assistant, logger: logger}
}

// EnhanceQuery handles GET /api/wingman/enhance-query
func (h *WingManHandler) EnhanceQuery(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("q")
	if query == "" {
		httputil.RespondError(w, http.StatusBadRequest, "query parameter 'q' is required")
		return
	}

	httputil.RespondJSON(w, http.StatusOK, h.assistant.EnhanceQuery(r.Context(), query))
}

// SmartSuggestions handles GET /api/wingman/smart-suggestions
func (h *WingManHandler) SmartSuggestions(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("q")
	if query == "" {
		httputil.RespondError(w, http.StatusBadRequest, "query parameter 'q' is required")
		return
	}

	var history []string
	if raw := r.URL.Query().Get("history"); raw != "" {
		history = strings.Split(raw, ",")
	}

	suggestions := h.assistant.SmartSuggestions(r.Context(), query, history)
	httputil.RespondJSON(w, http.StatusOK, map[string]any{"suggestions": suggestions})
}

type askRequest struct {
	Question string          `json:"question"`
	Context  []search.Result `json:"context"`
}

// Ask handles POST /api/wingman/ask
func (h *WingManHandler) Ask(w http.ResponseWriter, r *http.Request) {
	var req askRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}
	if req.Question == "" {
		httputil.RespondError(w, http.StatusBadRequest, "question is required")
		return
	}

	httputil.RespondJSON(w, http.StatusOK, h.assistant.AnswerQuestion(r.Context(), req.Question, req.Context))
}

type summarizeRequest struct {
	Query   string          `json:"query"`
	Results []search.Result `json:"results"`
}

// Summarize handles POST /api/wingman/summarize
func (h *WingManHandler) Summarize(w http.ResponseWriter, r *http.Request) {
	var req summarizeRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}
	if req.Query == "" {
		httputil.RespondError(w, http.StatusBadRequest, "query is required")
		return
	}
	if len(req.Results) == 0 {
		httputil.RespondError(w, http.StatusBadRequest, "results array is required")
		return
	}

	httputil.RespondJSON(w, http.StatusOK, h.assistant.SummarizeResults(r.Context(), req.Query, req.Results))
}
