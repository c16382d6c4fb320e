package api

import (
	"database/sql"
	"io"
	"net/http"
	"time"

	"github.com/erazemk/drazba/internal/imaging"
	"github.com/erazemk/drazba/internal/model"
	"github.com/erazemk/drazba/internal/store"
)

// ItemsHandler handles catalog and stock endpoints.
type ItemsHandler struct {
	DB *sql.DB
}

type createItemRequest struct {
	ID               string `json:"id"`
	Name             string `json:"name"`
	Category         string `json:"category"`
	Stock            int    `json:"stock"`
	UnitPriceCents   int64  `json:"unit_price_cents"`
	ReorderThreshold int    `json:"reorder_threshold"`
	LastRestockDate  string `json:"last_restock_date"`
}

type adjustStockRequest struct {
	Delta int    `json:"delta"`
	Note  string `json:"note"`
}

// List handles GET /api/items.
func (h *ItemsHandler) List(w http.ResponseWriter, r *http.Request) {
	category := r.URL.Query().Get("category")
	items, err := store.ListItems(r.Context(), h.DB, category)
	if err != nil {
		storeError(w, err)
		return
	}
	if items == nil {
		items = []model.Item{}
	}
	jsonResponse(w, http.StatusOK, items)
}

// Create handles POST /api/items.
func (h *ItemsHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createItemRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if req.ID == "" || req.Name == "" {
		jsonError(w, http.StatusBadRequest, "id and name required")
		return
	}
	if req.Stock < 0 || req.UnitPriceCents < 0 {
		jsonError(w, http.StatusBadRequest, "stock and unit_price_cents must not be negative")
		return
	}
	if req.LastRestockDate != "" {
		if _, err := time.Parse(model.DateFormat, req.LastRestockDate); err != nil {
			jsonError(w, http.StatusBadRequest, "last_restock_date must be YYYY-MM-DD")
			return
		}
	}

	item, err := store.CreateItem(r.Context(), h.DB, req.ID, req.Name, req.Category,
		req.Stock, req.UnitPriceCents, req.ReorderThreshold, req.LastRestockDate)
	if err != nil {
		jsonError(w, http.StatusConflict, "failed to create item (duplicate id?)")
		return
	}

	jsonResponse(w, http.StatusCreated, item)
}

// Get handles GET /api/items/{id}.
func (h *ItemsHandler) Get(w http.ResponseWriter, r *http.Request) {
	item, err := store.GetItem(r.Context(), h.DB, r.PathValue("id"))
	if err != nil {
		storeError(w, err)
		return
	}
	if item == nil {
		jsonError(w, http.StatusNotFound, "item not found")
		return
	}
	jsonResponse(w, http.StatusOK, item)
}

// Adjust handles POST /api/items/{id}/adjust.
func (h *ItemsHandler) Adjust(w http.ResponseWriter, r *http.Request) {
	var req adjustStockRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	stock, err := store.AdjustStock(r.Context(), h.DB, r.PathValue("id"), req.Delta, req.Note, time.Now())
	if err != nil {
		storeError(w, err)
		return
	}

	jsonResponse(w, http.StatusOK, map[string]any{"stock": stock})
}

// UploadImage handles PUT /api/items/{id}/image.
func (h *ItemsHandler) UploadImage(w http.ResponseWriter, r *http.Request) {
	// Limit to 5 MB.
	r.Body = http.MaxBytesReader(w, r.Body, 5<<20)

	if err := r.ParseMultipartForm(5 << 20); err != nil {
		jsonError(w, http.StatusBadRequest, "file too large or invalid multipart form")
		return
	}

	file, _, err := r.FormFile("image")
	if err != nil {
		jsonError(w, http.StatusBadRequest, "image file required")
		return
	}
	defer file.Close()

	raw, err := io.ReadAll(file)
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to read image")
		return
	}

	data, mime, err := imaging.Prepare(raw)
	if err != nil {
		jsonError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := store.SetItemImage(r.Context(), h.DB, r.PathValue("id"), data, mime); err != nil {
		storeError(w, err)
		return
	}

	jsonResponse(w, http.StatusOK, map[string]string{"message": "image uploaded"})
}

// GetImage handles GET /api/items/{id}/image.
func (h *ItemsHandler) GetImage(w http.ResponseWriter, r *http.Request) {
	data, mime, err := store.GetItemImage(r.Context(), h.DB, r.PathValue("id"))
	if err != nil {
		storeError(w, err)
		return
	}
	if data == nil {
		jsonError(w, http.StatusNotFound, "no image")
		return
	}

	w.Header().Set("Content-Type", mime)
	w.Header().Set("Cache-Control", "public, max-age=3600")
	w.Write(data)
}

// GetHistory handles GET /api/items/{id}/history.
func (h *ItemsHandler) GetHistory(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	item, err := store.GetItem(r.Context(), h.DB, id)
	if err != nil {
		storeError(w, err)
		return
	}
	if item == nil {
		jsonError(w, http.StatusNotFound, "item not found")
		return
	}

	history, err := store.ListEvents(r.Context(), h.DB, id, 0)
	if err != nil {
		storeError(w, err)
		return
	}
	if history == nil {
		history = []model.Event{}
	}
	jsonResponse(w, http.StatusOK, history)
}
