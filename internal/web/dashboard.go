package web

import (
	"log/slog"
	"net/http"

	"github.com/erazemk/drazba/internal/model"
	"github.com/erazemk/drazba/internal/store"
)

// Dashboard handles GET /.
func (s *Server) Dashboard(w http.ResponseWriter, r *http.Request) {
	items, err := store.ListItems(r.Context(), s.DB, "")
	if err != nil {
		slog.Error("failed to list items for dashboard", "error", err)
	}
	active, err := store.ListOffers(r.Context(), s.DB, model.OfferStatusActive)
	if err != nil {
		slog.Error("failed to list active offers for dashboard", "error", err)
	}
	events, err := store.ListEvents(r.Context(), s.DB, "", 10)
	if err != nil {
		slog.Error("failed to list events for dashboard", "error", err)
	}

	s.Templates.Render(w, "dashboard.html", &struct {
		PageData
		Items        []model.Item
		ActiveOffers []model.Offer
		RecentEvents []model.Event
	}{
		PageData:     PageData{Title: "Nadzorna plošča"},
		Items:        items,
		ActiveOffers: active,
		RecentEvents: events,
	})
}
