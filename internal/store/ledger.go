package store

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/erazemk/drazba/internal/model"
)

// adjustStockTx applies a stock delta inside an existing transaction and
// returns the resulting stock. It never leaves the row mutated on failure:
// an unknown item yields ErrUnknownItem and a delta that would make stock
// negative yields ErrInsufficientStock. A zero delta reads and returns the
// current stock without touching the row.
func adjustStockTx(ctx context.Context, tx *sql.Tx, itemID string, delta int, now time.Time) (int, error) {
	var current int
	err := tx.QueryRowContext(ctx,
		`SELECT stock FROM items WHERE id = ?`, itemID,
	).Scan(&current)
	if err == sql.ErrNoRows {
		return 0, fmt.Errorf("item %s: %w", itemID, ErrUnknownItem)
	}
	if err != nil {
		return 0, fmt.Errorf("reading stock for %s: %w", itemID, err)
	}

	if delta == 0 {
		return current, nil
	}

	newStock := current + delta
	if newStock < 0 {
		return 0, fmt.Errorf("adjusting %s by %d with %d available: %w",
			itemID, delta, current, ErrInsufficientStock)
	}

	_, err = tx.ExecContext(ctx,
		`UPDATE items SET stock = ?, updated_at = ? WHERE id = ?`,
		newStock, now.UTC(), itemID,
	)
	if err != nil {
		return 0, fmt.Errorf("updating stock for %s: %w", itemID, err)
	}

	return newStock, nil
}

// AdjustStock atomically adjusts an item's stock count. Delta may be
// positive (restock, return) or negative (sale, loss); the adjustment is
// rejected without mutating anything if it would make stock negative. A
// positive delta also refreshes the item's last restock date. The change is
// recorded in the audit journal and logged.
func AdjustStock(ctx context.Context, db *sql.DB, itemID string, delta int, note string, now time.Time) (int, error) {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	newStock, err := adjustStockTx(ctx, tx, itemID, delta, now)
	if err != nil {
		return 0, err
	}

	if delta == 0 {
		return newStock, nil
	}

	if delta > 0 {
		_, err = tx.ExecContext(ctx,
			`UPDATE items SET last_restock_date = ? WHERE id = ?`,
			now.UTC().Format(model.DateFormat), itemID,
		)
		if err != nil {
			return 0, fmt.Errorf("updating restock date for %s: %w", itemID, err)
		}
	}

	if err := recordEvent(ctx, tx, &model.Event{
		Type:      model.EventStockAdjusted,
		ItemID:    itemID,
		Delta:     delta,
		Stock:     newStock,
		Note:      note,
		CreatedAt: now.UTC(),
	}); err != nil {
		return 0, err
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("committing stock adjustment: %w", err)
	}

	slog.Info("stock adjusted", "item", itemID, "delta", delta, "stock", newStock, "note", note)
	return newStock, nil
}
