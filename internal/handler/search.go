package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"serqo/internal/httputil"
	"serqo/internal/search"
	"serqo/internal/telemetry"
)

// SearchHandler serves the search, suggestion and telemetry-view endpoints.
type SearchHandler struct {
	service   *search.Service
	suggester *search.SuggestClient
	telemetry *telemetry.Store
	logger    *slog.Logger
}

func NewSearchHandler(service *search.Service, suggester *search.SuggestClient, store *telemetry.Store, logger *slog.Logger) *SearchHandler {
	return &SearchHandler{
		service:   service,
		suggester: suggester,
		telemetry: store,
		logger:    logger,
	}
}

// Search handles GET /api/search
func (h *SearchHandler) Search(w http.ResponseWriter, r *http.Request) {
	req := search.Request{
		Query:  r.URL.Query().Get("q"),
		Filter: search.ParseFilter(r.URL.Query().Get("filter")),
		Page:   httputil.QueryInt(r, "page", 1),
		Limit:  httputil.QueryInt(r, "limit", 10),
	}

	if err := req.Validate(); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "query parameter 'q' is required")
		return
	}

	resp, err := h.service.Search(r.Context(), req)
	if err != nil {
		if errors.Is(err, search.ErrEmptyQuery) {
			httputil.RespondError(w, http.StatusBadRequest, "query cannot be empty")
			return
		}
		h.logger.Error("search failed", "query", req.Query, "error", err)
		httputil.RespondError(w, http.StatusInternalServerError, "internal server error during search")
		return
	}

	httputil.RespondJSON(w, http.StatusOK, resp)
}

// Suggestions handles GET /api/suggestions
func (h *SearchHandler) Suggestions(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("q")
	if len(query) < 2 {
		httputil.RespondJSON(w, http.StatusOK, map[string]any{"suggestions": []search.Suggestion{}})
		return
	}

	suggestions := h.suggester.Suggestions(r.Context(), query)
	if len(suggestions) == 0 {
		suggestions = search.FallbackSuggestions(query)
	}

	httputil.RespondJSON(w, http.StatusOK, map[string]any{"suggestions": suggestions})
}

// PopularSearches handles GET /api/popular-searches
func (h *SearchHandler) PopularSearches(w http.ResponseWriter, r *http.Request) {
	searches, err := h.telemetry.PopularSearches(r.Context(), 10)
	if err != nil {
		h.logger.Error("fetching popular searches failed", "error", err)
		httputil.RespondError(w, http.StatusInternalServerError, "failed to fetch popular searches")
		return
	}
	if searches == nil {
		searches = []telemetry.Entry{}
	}
	httputil.RespondJSON(w, http.StatusOK, map[string]any{"searches": searches})
}

// RecentSearches handles GET /api/recent-searches
func (h *SearchHandler) RecentSearches(w http.ResponseWriter, r *http.Request) {
	searches, err := h.telemetry.RecentSearches(r.Context(), 10)
	if err != nil {
		h.logger.Error("fetching recent searches failed", "error", err)
		httputil.RespondError(w, http.StatusInternalServerError, "failed to fetch recent searches")
		return
	}
	if searches == nil {
		searches = []telemetry.Entry{}
	}
	httputil.RespondJSON(w, http.StatusOK, map[string]any{"searches": searches})
}

// HealthCheck handles GET /health
func (h *SearchHandler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	httputil.RespondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
