package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/oklog/ulid/v2"

	"github.com/erazemk/drazba/internal/model"
)

// execer is satisfied by both *sql.DB and *sql.Tx so events can be recorded
// inside the transaction that produced them.
type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

// recordEvent inserts an audit journal entry. The caller supplies the
// timestamp so events carry the same "now" as the state change they
// describe.
func recordEvent(ctx context.Context, ex execer, ev *model.Event) error {
	if ev.ID == "" {
		ev.ID = ulid.Make().String()
	}

	_, err := ex.ExecContext(ctx,
		`INSERT INTO events (id, type, item_id, offer_code, merchant_id, delta, stock, amount_cents, note, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		ev.ID, ev.Type, ev.ItemID, ev.OfferCode, ev.MerchantID,
		ev.Delta, ev.Stock, ev.AmountCents, ev.Note, ev.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("recording %s event: %w", ev.Type, err)
	}
	return nil
}

// ListEvents returns journal entries newest first, optionally filtered by
// item. A limit of 0 means no limit.
func ListEvents(ctx context.Context, db *sql.DB, itemID string, limit int) ([]model.Event, error) {
	query := `SELECT id, type, item_id, offer_code, merchant_id, delta, stock, amount_cents, note, created_at
	          FROM events`
	var args []any

	if itemID != "" {
		query += ` WHERE item_id = ?`
		args = append(args, itemID)
	}

	query += ` ORDER BY created_at DESC, id DESC`

	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing events: %w", err)
	}
	defer rows.Close()

	var events []model.Event
	for rows.Next() {
		var ev model.Event
		if err := rows.Scan(&ev.ID, &ev.Type, &ev.ItemID, &ev.OfferCode, &ev.MerchantID,
			&ev.Delta, &ev.Stock, &ev.AmountCents, &ev.Note, &ev.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning event: %w", err)
		}
		events = append(events, ev)
	}
	return events, rows.Err()
}
