package api

import (
	"database/sql"
	"net/http"
	"time"

	"github.com/erazemk/drazba/internal/store"
)

// OrdersHandler handles one-off direct sale endpoints.
type OrdersHandler struct {
	DB *sql.DB
}

type createOrderRequest struct {
	ItemID   string `json:"item_id"`
	Quantity int    `json:"quantity"`
}

// Create handles POST /api/orders.
func (h *OrdersHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createOrderRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if req.ItemID == "" || req.Quantity <= 0 {
		jsonError(w, http.StatusBadRequest, "item_id and positive quantity required")
		return
	}

	total, err := store.ProcessOrder(r.Context(), h.DB, req.ItemID, req.Quantity, time.Now())
	if err != nil {
		storeError(w, err)
		return
	}

	jsonResponse(w, http.StatusCreated, map[string]any{
		"item_id":     req.ItemID,
		"quantity":    req.Quantity,
		"total_cents": total,
	})
}
