package api

import (
	"database/sql"
	"net/http"
)

// NewRouter creates the API router with all endpoints registered.
func NewRouter(db *sql.DB) http.Handler {
	mux := http.NewServeMux()

	itemsHandler := &ItemsHandler{DB: db}
	offersHandler := &OffersHandler{DB: db}
	ordersHandler := &OrdersHandler{DB: db}
	eventsHandler := &EventsHandler{DB: db}

	// Items: catalog, stock adjustments, photos, audit history.
	mux.HandleFunc("GET /api/items", itemsHandler.List)
	mux.HandleFunc("POST /api/items", itemsHandler.Create)
	mux.HandleFunc("GET /api/items/{id}", itemsHandler.Get)
	mux.HandleFunc("POST /api/items/{id}/adjust", itemsHandler.Adjust)
	mux.HandleFunc("PUT /api/items/{id}/image", itemsHandler.UploadImage)
	mux.HandleFunc("GET /api/items/{id}/image", itemsHandler.GetImage)
	mux.HandleFunc("GET /api/items/{id}/history", itemsHandler.GetHistory)

	// Offers: sealed-bid auctions against reserved stock.
	mux.HandleFunc("GET /api/offers", offersHandler.List)
	mux.HandleFunc("POST /api/offers", offersHandler.Create)
	mux.HandleFunc("GET /api/offers/{code}", offersHandler.Get)
	mux.HandleFunc("GET /api/offers/{code}/bids", offersHandler.ListBids)
	mux.HandleFunc("POST /api/offers/{code}/bids", offersHandler.PlaceBid)
	mux.HandleFunc("POST /api/offers/{code}/complete", offersHandler.Complete)

	// One-off direct sales.
	mux.HandleFunc("POST /api/orders", ordersHandler.Create)

	// Audit journal.
	mux.HandleFunc("GET /api/events", eventsHandler.List)

	return mux
}
