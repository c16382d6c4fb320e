package web

import (
	"database/sql"
	"log/slog"
	"net/http"

	"github.com/erazemk/drazba/internal/store"
	webembed "github.com/erazemk/drazba/web"
)

// NewRouter creates the read-only web page router. All state changes go
// through the API; the pages only present items, offers, and the journal.
func NewRouter(db *sql.DB) (http.Handler, error) {
	templates, err := LoadTemplates()
	if err != nil {
		return nil, err
	}

	s := &Server{
		DB:        db,
		Templates: templates,
	}

	mux := http.NewServeMux()

	// Static assets.
	mux.Handle("GET /static/", http.StripPrefix("/static/", http.FileServer(http.FS(webembed.StaticFS()))))

	mux.HandleFunc("GET /{$}", s.Dashboard)
	mux.HandleFunc("GET /items", s.ItemsPage)
	mux.HandleFunc("GET /items/{id}/image", s.ItemImageGet)
	mux.HandleFunc("GET /offers", s.OffersPage)

	return mux, nil
}

// ItemImageGet handles GET /items/{id}/image.
func (s *Server) ItemImageGet(w http.ResponseWriter, r *http.Request) {
	data, mime, err := store.GetItemImage(r.Context(), s.DB, r.PathValue("id"))
	if err != nil {
		slog.Error("failed to get image", "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	if data == nil {
		http.NotFound(w, r)
		return
	}

	w.Header().Set("Content-Type", mime)
	w.Header().Set("Content-Disposition", "inline")
	w.Header().Set("X-Content-Type-Options", "nosniff")
	w.Header().Set("Cache-Control", "public, max-age=3600")
	if _, err := w.Write(data); err != nil {
		slog.Error("failed to write image response", "error", err)
	}
}
