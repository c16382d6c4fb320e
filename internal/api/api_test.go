package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"image"
	"image/jpeg"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/erazemk/drazba/internal/db"
	"github.com/erazemk/drazba/internal/model"
	"github.com/erazemk/drazba/internal/store"
)

func setupTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	database := db.NewTestDB(t)
	if err := store.SeedItems(context.Background(), database); err != nil {
		t.Fatalf("seeding items: %v", err)
	}

	server := httptest.NewServer(NewRouter(database))
	t.Cleanup(server.Close)
	return server
}

func postJSON(t *testing.T, url string, body any) *http.Response {
	t.Helper()
	data, _ := json.Marshal(body)
	resp, err := http.Post(url, "application/json", bytes.NewReader(data))
	if err != nil {
		t.Fatalf("POST %s: %v", url, err)
	}
	return resp
}

func decodeBody[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	defer resp.Body.Close()
	var out T
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	return out
}

func TestItemsEndpoints(t *testing.T) {
	server := setupTestServer(t)

	resp, err := http.Get(server.URL + "/api/items")
	if err != nil {
		t.Fatalf("GET items: %v", err)
	}
	items := decodeBody[[]model.Item](t, resp)
	if len(items) != 3 {
		t.Fatalf("expected 3 seeded items, got %d", len(items))
	}

	resp, _ = http.Get(server.URL + "/api/items/TS-A")
	item := decodeBody[model.Item](t, resp)
	if item.Stock != 50 || item.UnitPriceCents != 2000 {
		t.Errorf("unexpected TS-A: %+v", item)
	}

	resp, _ = http.Get(server.URL + "/api/items/NOPE")
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("expected 404 for unknown item, got %d", resp.StatusCode)
	}
	resp.Body.Close()

	// Manual stock adjustment.
	resp = postJSON(t, server.URL+"/api/items/TS-A/adjust", map[string]any{"delta": -5, "note": "damaged"})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200 for adjust, got %d", resp.StatusCode)
	}
	result := decodeBody[map[string]int](t, resp)
	if result["stock"] != 45 {
		t.Errorf("expected stock 45, got %d", result["stock"])
	}

	// Over-adjustment is rejected without changing anything.
	resp = postJSON(t, server.URL+"/api/items/TS-A/adjust", map[string]any{"delta": -1000})
	if resp.StatusCode != http.StatusConflict {
		t.Errorf("expected 409 for insufficient stock, got %d", resp.StatusCode)
	}
	resp.Body.Close()

	resp, _ = http.Get(server.URL + "/api/items/TS-A")
	item = decodeBody[model.Item](t, resp)
	if item.Stock != 45 {
		t.Errorf("failed adjust must not change stock, got %d", item.Stock)
	}
}

func TestCreateItemEndpoint(t *testing.T) {
	server := setupTestServer(t)

	resp := postJSON(t, server.URL+"/api/items", map[string]any{
		"id": "MUG-1", "name": "Mug", "category": "Kitchen",
		"stock": 12, "unit_price_cents": 900, "reorder_threshold": 2,
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("expected 201, got %d", resp.StatusCode)
	}
	resp.Body.Close()

	// Duplicate id.
	resp = postJSON(t, server.URL+"/api/items", map[string]any{"id": "MUG-1", "name": "Mug"})
	if resp.StatusCode != http.StatusConflict {
		t.Errorf("expected 409 for duplicate, got %d", resp.StatusCode)
	}
	resp.Body.Close()
}

func TestOfferBiddingFlow(t *testing.T) {
	server := setupTestServer(t)

	resp := postJSON(t, server.URL+"/api/offers", map[string]any{
		"item_id": "TS-A", "quantity": 20, "end_time": time.Now().Add(time.Hour),
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("expected 201 for offer, got %d", resp.StatusCode)
	}
	offer := decodeBody[model.Offer](t, resp)
	if offer.Code == "" || offer.Status != model.OfferStatusActive {
		t.Fatalf("unexpected offer: %+v", offer)
	}

	// Stock was reserved.
	resp, _ = http.Get(server.URL + "/api/items/TS-A")
	item := decodeBody[model.Item](t, resp)
	if item.Stock != 30 {
		t.Errorf("expected stock 30 after reservation, got %d", item.Stock)
	}

	bidURL := fmt.Sprintf("%s/api/offers/%s/bids", server.URL, offer.Code)
	resp = postJSON(t, bidURL, map[string]any{"merchant_id": "Merchant-Alpha", "amount_cents": 45000})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200 for bid, got %d", resp.StatusCode)
	}
	resp.Body.Close()

	// Non-improving bid.
	resp = postJSON(t, bidURL, map[string]any{"merchant_id": "Merchant-Alpha", "amount_cents": 45000})
	if resp.StatusCode != http.StatusConflict {
		t.Errorf("expected 409 for non-improving bid, got %d", resp.StatusCode)
	}
	resp.Body.Close()

	// Completing while the window is open fails.
	resp = postJSON(t, fmt.Sprintf("%s/api/offers/%s/complete", server.URL, offer.Code), nil)
	if resp.StatusCode != http.StatusConflict {
		t.Errorf("expected 409 for early completion, got %d", resp.StatusCode)
	}
	resp.Body.Close()

	resp, _ = http.Get(bidURL)
	bids := decodeBody[[]model.Bid](t, resp)
	if len(bids) != 1 || bids[0].MerchantID != "Merchant-Alpha" {
		t.Errorf("unexpected bids: %+v", bids)
	}
}

func TestExpiredOfferCompletion(t *testing.T) {
	server := setupTestServer(t)

	// An offer whose window is already closed: bids are rejected and
	// completion returns the reservation.
	resp := postJSON(t, server.URL+"/api/offers", map[string]any{
		"item_id": "TS-B", "quantity": 5, "end_time": time.Now().Add(-time.Minute),
	})
	offer := decodeBody[model.Offer](t, resp)

	resp = postJSON(t, fmt.Sprintf("%s/api/offers/%s/bids", server.URL, offer.Code),
		map[string]any{"merchant_id": "Merchant-Gamma", "amount_cents": 52000})
	if resp.StatusCode != http.StatusConflict {
		t.Errorf("expected 409 for late bid, got %d", resp.StatusCode)
	}
	resp.Body.Close()

	resp = postJSON(t, fmt.Sprintf("%s/api/offers/%s/complete", server.URL, offer.Code), nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200 for completion, got %d", resp.StatusCode)
	}
	done := decodeBody[model.Offer](t, resp)
	if done.Status != model.OfferStatusCompleted || done.Winner != "" {
		t.Errorf("unexpected completed offer: %+v", done)
	}

	resp, _ = http.Get(server.URL + "/api/items/TS-B")
	item := decodeBody[model.Item](t, resp)
	if item.Stock != 20 {
		t.Errorf("expected stock back at 20, got %d", item.Stock)
	}

	// Double completion.
	resp = postJSON(t, fmt.Sprintf("%s/api/offers/%s/complete", server.URL, offer.Code), nil)
	if resp.StatusCode != http.StatusConflict {
		t.Errorf("expected 409 for double completion, got %d", resp.StatusCode)
	}
	resp.Body.Close()
}

func TestOrdersEndpoint(t *testing.T) {
	server := setupTestServer(t)

	resp := postJSON(t, server.URL+"/api/orders", map[string]any{"item_id": "TS-B", "quantity": 2})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("expected 201 for order, got %d", resp.StatusCode)
	}
	order := decodeBody[map[string]any](t, resp)
	if total := order["total_cents"].(float64); total != 5000 {
		t.Errorf("expected total 5000, got %v", total)
	}

	resp = postJSON(t, server.URL+"/api/orders", map[string]any{"item_id": "TS-B", "quantity": 100})
	if resp.StatusCode != http.StatusConflict {
		t.Errorf("expected 409 for oversized order, got %d", resp.StatusCode)
	}
	resp.Body.Close()

	resp, _ = http.Get(server.URL + "/api/items/TS-B")
	item := decodeBody[model.Item](t, resp)
	if item.Stock != 18 {
		t.Errorf("expected stock 18, got %d", item.Stock)
	}
}

func TestEventsEndpoint(t *testing.T) {
	server := setupTestServer(t)

	postJSON(t, server.URL+"/api/items/TS-A/adjust", map[string]any{"delta": -1}).Body.Close()
	postJSON(t, server.URL+"/api/orders", map[string]any{"item_id": "TS-B", "quantity": 1}).Body.Close()

	resp, err := http.Get(server.URL + "/api/events")
	if err != nil {
		t.Fatalf("GET events: %v", err)
	}
	events := decodeBody[[]model.Event](t, resp)
	if len(events) != 2 {
		t.Fatalf("expected 2 events, got %d", len(events))
	}

	resp, _ = http.Get(server.URL + "/api/events?item_id=TS-B")
	events = decodeBody[[]model.Event](t, resp)
	if len(events) != 1 || events[0].Type != model.EventOrderProcessed {
		t.Errorf("unexpected filtered events: %+v", events)
	}
}

func TestItemImageUpload(t *testing.T) {
	server := setupTestServer(t)

	// Build a small JPEG upload.
	img := image.NewRGBA(image.Rect(0, 0, 10, 10))
	var imgBuf bytes.Buffer
	jpeg.Encode(&imgBuf, img, nil)

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	part, _ := writer.CreateFormFile("image", "photo.jpg")
	part.Write(imgBuf.Bytes())
	writer.Close()

	req, _ := http.NewRequest(http.MethodPut, server.URL+"/api/items/TS-A/image", &body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("PUT image: %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200 for upload, got %d", resp.StatusCode)
	}
	resp.Body.Close()

	resp, _ = http.Get(server.URL + "/api/items/TS-A/image")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200 for image fetch, got %d", resp.StatusCode)
	}
	if ct := resp.Header.Get("Content-Type"); ct != "image/jpeg" {
		t.Errorf("expected image/jpeg, got %s", ct)
	}
	resp.Body.Close()

	resp, _ = http.Get(server.URL + "/api/items/TS-B/image")
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("expected 404 for missing image, got %d", resp.StatusCode)
	}
	resp.Body.Close()
}
