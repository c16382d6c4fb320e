package store

import (
	"context"
	"errors"
	"testing"

	"github.com/erazemk/drazba/internal/db"
	"github.com/erazemk/drazba/internal/model"
)

func TestProcessOrder(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()
	seedTestItem(t, database, "TS-B", 20, 2500)

	total, err := ProcessOrder(ctx, database, "TS-B", 2, testNow)
	if err != nil {
		t.Fatalf("ProcessOrder: %v", err)
	}
	if total != 5000 {
		t.Errorf("expected total 5000 cents, got %d", total)
	}
	if stock := itemStock(t, database, "TS-B"); stock != 18 {
		t.Errorf("expected stock 18, got %d", stock)
	}
}

func TestProcessOrderInsufficientStock(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()
	seedTestItem(t, database, "TS-B", 20, 2500)

	_, err := ProcessOrder(ctx, database, "TS-B", 100, testNow)
	if !errors.Is(err, ErrInsufficientStock) {
		t.Fatalf("expected ErrInsufficientStock, got %v", err)
	}
	if stock := itemStock(t, database, "TS-B"); stock != 20 {
		t.Errorf("failed order must not change stock: got %d", stock)
	}
}

func TestProcessOrderUnknownItem(t *testing.T) {
	database := db.NewTestDB(t)

	_, err := ProcessOrder(context.Background(), database, "NOPE", 1, testNow)
	if !errors.Is(err, ErrUnknownItem) {
		t.Fatalf("expected ErrUnknownItem, got %v", err)
	}
}

func TestProcessOrderRecordsEvent(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()
	seedTestItem(t, database, "TS-B", 20, 2500)

	if _, err := ProcessOrder(ctx, database, "TS-B", 3, testNow); err != nil {
		t.Fatalf("ProcessOrder: %v", err)
	}

	events, _ := ListEvents(ctx, database, "TS-B", 0)
	if len(events) != 1 {
		t.Fatalf("expected 1 event, got %d", len(events))
	}
	if events[0].Type != model.EventOrderProcessed || events[0].AmountCents != 7500 {
		t.Errorf("unexpected event: %+v", events[0])
	}
}
