package handler

import (
	"context"
	"log/slog"
	"net/http"

	"serqo/internal/httputil"
	"serqo/internal/search"
	"serqo/internal/wingman"
)

const version = "1.0.0"

// Pinger is the slice of the database pool the status probe needs.
type Pinger interface {
	Ping(ctx context.Context) error
}

// StatusHandler serves the liveness/capability probe.
type StatusHandler struct {
	searchConfigured bool
	provider         search.Provider
	db               Pinger
	assistant        *wingman.WingMan
	logger           *slog.Logger
}

func NewStatusHandler(searchConfigured bool, provider search.Provider, db Pinger, assistant *wingman.WingMan, logger *slog.Logger) *StatusHandler {
	return &StatusHandler{
		searchConfigured: searchConfigured,
		provider:         provider,
		db:               db,
		assistant:        assistant,
		logger:           logger,
	}
}

// Status handles GET /api/status. The working-probe issues a one-result
// test search against the provider.
func (h *StatusHandler) Status(w http.ResponseWriter, r *http.Request) {
	apiWorking := false
	if h.searchConfigured {
		apiWorking = h.provider.Search(r.Context(), "test", search.FilterAll, 1, 1) != nil
	}

	databaseConnected := h.db.Ping(r.Context()) == nil

	httputil.RespondJSON(w, http.StatusOK, map[string]any{
		"googleApiConfigured": h.searchConfigured,
		"googleApiWorking":    apiWorking,
		"databaseConnected":   databaseConnected,
		"wingman":             h.assistant.Status(),
		"version":             version,
	})
}
