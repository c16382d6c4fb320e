package store

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/erazemk/drazba/internal/model"
)

// ProcessOrder handles a direct one-off sale: quantity units are deducted
// from stock and the total price is returned. Fails with ErrUnknownItem or
// ErrInsufficientStock without mutating anything.
func ProcessOrder(ctx context.Context, db *sql.DB, itemID string, quantity int, now time.Time) (int64, error) {
	if quantity <= 0 {
		return 0, fmt.Errorf("quantity must be positive")
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	var unitPriceCents int64
	err = tx.QueryRowContext(ctx,
		`SELECT unit_price_cents FROM items WHERE id = ?`, itemID,
	).Scan(&unitPriceCents)
	if err == sql.ErrNoRows {
		return 0, fmt.Errorf("item %s: %w", itemID, ErrUnknownItem)
	}
	if err != nil {
		return 0, fmt.Errorf("reading item %s: %w", itemID, err)
	}

	newStock, err := adjustStockTx(ctx, tx, itemID, -quantity, now)
	if err != nil {
		return 0, err
	}

	totalCents := unitPriceCents * int64(quantity)

	if err := recordEvent(ctx, tx, &model.Event{
		Type:        model.EventOrderProcessed,
		ItemID:      itemID,
		Delta:       -quantity,
		Stock:       newStock,
		AmountCents: totalCents,
		CreatedAt:   now.UTC(),
	}); err != nil {
		return 0, err
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("committing order: %w", err)
	}

	slog.Info("one-off order processed", "item", itemID, "quantity", quantity,
		"total_cents", totalCents, "stock", newStock)
	return totalCents, nil
}
