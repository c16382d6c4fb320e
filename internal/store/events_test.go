package store

import (
	"context"
	"testing"
	"time"

	"github.com/erazemk/drazba/internal/db"
	"github.com/erazemk/drazba/internal/model"
)

func TestOfferLifecycleJournal(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()
	seedTestItem(t, database, "TS-A", 50, 2000)

	offer, _ := CreateOffer(ctx, database, "TS-A", 20, testNow.Add(time.Hour), testNow)
	PlaceBid(ctx, database, offer.Code, "Merchant-Alpha", 45000, testNow.Add(time.Minute))
	CompleteOffer(ctx, database, offer.Code, testNow.Add(2*time.Hour))

	events, err := ListEvents(ctx, database, "", 0)
	if err != nil {
		t.Fatalf("ListEvents: %v", err)
	}

	types := make(map[string]int)
	for _, ev := range events {
		types[ev.Type]++
	}
	for _, want := range []string{model.EventOfferCreated, model.EventBidPlaced, model.EventOfferCompleted} {
		if types[want] != 1 {
			t.Errorf("expected exactly one %s event, got %d", want, types[want])
		}
	}
}

func TestNoBidCompletionJournalsReturn(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()
	seedTestItem(t, database, "TS-B", 18, 2500)

	offer, _ := CreateOffer(ctx, database, "TS-B", 5, testNow.Add(time.Hour), testNow)
	CompleteOffer(ctx, database, offer.Code, testNow.Add(2*time.Hour))

	events, _ := ListEvents(ctx, database, "TS-B", 0)
	if len(events) == 0 {
		t.Fatal("expected journal entries")
	}

	// Newest first: the completion entry records the credited-back quantity
	// and the resulting stock.
	ev := events[0]
	if ev.Type != model.EventOfferCompleted || ev.Delta != 5 || ev.Stock != 18 {
		t.Errorf("unexpected completion event: %+v", ev)
	}
}

func TestListEventsLimit(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()
	seedTestItem(t, database, "TS-A", 50, 2000)

	for i := 0; i < 5; i++ {
		AdjustStock(ctx, database, "TS-A", -1, "", testNow.Add(time.Duration(i)*time.Minute))
	}

	events, err := ListEvents(ctx, database, "", 3)
	if err != nil {
		t.Fatalf("ListEvents: %v", err)
	}
	if len(events) != 3 {
		t.Errorf("expected 3 events with limit, got %d", len(events))
	}
}
