package web

import (
	"log/slog"
	"net/http"

	"github.com/erazemk/drazba/internal/model"
	"github.com/erazemk/drazba/internal/store"
)

// OffersPage handles GET /offers.
func (s *Server) OffersPage(w http.ResponseWriter, r *http.Request) {
	offers, err := store.ListOffers(r.Context(), s.DB, r.URL.Query().Get("status"))
	if err != nil {
		slog.Error("failed to list offers", "error", err)
	}

	s.Templates.Render(w, "offers.html", &struct {
		PageData
		Offers []model.Offer
	}{
		PageData: PageData{Title: "Dražbe"},
		Offers:   offers,
	})
}
