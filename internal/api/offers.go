package api

import (
	"database/sql"
	"net/http"
	"time"

	"github.com/erazemk/drazba/internal/model"
	"github.com/erazemk/drazba/internal/store"
)

// OffersHandler handles sealed-bid offer endpoints.
type OffersHandler struct {
	DB *sql.DB
}

type createOfferRequest struct {
	ItemID   string    `json:"item_id"`
	Quantity int       `json:"quantity"`
	EndTime  time.Time `json:"end_time"`
}

type placeBidRequest struct {
	MerchantID  string `json:"merchant_id"`
	AmountCents int64  `json:"amount_cents"`
}

// List handles GET /api/offers.
func (h *OffersHandler) List(w http.ResponseWriter, r *http.Request) {
	status := r.URL.Query().Get("status")
	if status != "" && status != model.OfferStatusActive &&
		status != model.OfferStatusCompleted && status != model.OfferStatusCancelled {
		jsonError(w, http.StatusBadRequest, "invalid status")
		return
	}

	offers, err := store.ListOffers(r.Context(), h.DB, status)
	if err != nil {
		storeError(w, err)
		return
	}
	if offers == nil {
		offers = []model.Offer{}
	}
	jsonResponse(w, http.StatusOK, offers)
}

// Create handles POST /api/offers.
func (h *OffersHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createOfferRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if req.ItemID == "" || req.Quantity <= 0 || req.EndTime.IsZero() {
		jsonError(w, http.StatusBadRequest, "item_id, positive quantity, and end_time required")
		return
	}

	offer, err := store.CreateOffer(r.Context(), h.DB, req.ItemID, req.Quantity, req.EndTime, time.Now())
	if err != nil {
		storeError(w, err)
		return
	}

	jsonResponse(w, http.StatusCreated, offer)
}

// Get handles GET /api/offers/{code}.
func (h *OffersHandler) Get(w http.ResponseWriter, r *http.Request) {
	offer, err := store.GetOffer(r.Context(), h.DB, r.PathValue("code"))
	if err != nil {
		storeError(w, err)
		return
	}
	if offer == nil {
		jsonError(w, http.StatusNotFound, "offer not found")
		return
	}
	jsonResponse(w, http.StatusOK, offer)
}

// ListBids handles GET /api/offers/{code}/bids.
func (h *OffersHandler) ListBids(w http.ResponseWriter, r *http.Request) {
	code := r.PathValue("code")

	offer, err := store.GetOffer(r.Context(), h.DB, code)
	if err != nil {
		storeError(w, err)
		return
	}
	if offer == nil {
		jsonError(w, http.StatusNotFound, "offer not found")
		return
	}

	bids, err := store.ListBids(r.Context(), h.DB, code)
	if err != nil {
		storeError(w, err)
		return
	}
	if bids == nil {
		bids = []model.Bid{}
	}
	jsonResponse(w, http.StatusOK, bids)
}

// PlaceBid handles POST /api/offers/{code}/bids.
func (h *OffersHandler) PlaceBid(w http.ResponseWriter, r *http.Request) {
	var req placeBidRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if req.MerchantID == "" || req.AmountCents <= 0 {
		jsonError(w, http.StatusBadRequest, "merchant_id and positive amount_cents required")
		return
	}

	err := store.PlaceBid(r.Context(), h.DB, r.PathValue("code"), req.MerchantID, req.AmountCents, time.Now())
	if err != nil {
		storeError(w, err)
		return
	}

	jsonResponse(w, http.StatusOK, map[string]string{"message": "bid accepted"})
}

// Complete handles POST /api/offers/{code}/complete.
func (h *OffersHandler) Complete(w http.ResponseWriter, r *http.Request) {
	offer, err := store.CompleteOffer(r.Context(), h.DB, r.PathValue("code"), time.Now())
	if err != nil {
		storeError(w, err)
		return
	}
	jsonResponse(w, http.StatusOK, offer)
}
