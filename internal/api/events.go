package api

import (
	"database/sql"
	"net/http"
	"strconv"

	"github.com/erazemk/drazba/internal/model"
	"github.com/erazemk/drazba/internal/store"
)

// EventsHandler handles audit journal endpoints.
type EventsHandler struct {
	DB *sql.DB
}

// List handles GET /api/events.
func (h *EventsHandler) List(w http.ResponseWriter, r *http.Request) {
	limit := 100
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 0 {
			jsonError(w, http.StatusBadRequest, "invalid limit")
			return
		}
		limit = parsed
	}

	events, err := store.ListEvents(r.Context(), h.DB, r.URL.Query().Get("item_id"), limit)
	if err != nil {
		storeError(w, err)
		return
	}
	if events == nil {
		events = []model.Event{}
	}
	jsonResponse(w, http.StatusOK, events)
}
