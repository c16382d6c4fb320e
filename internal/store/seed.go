package store

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/erazemk/drazba/internal/model"
)

// seedItems is the fixed initial catalog loaded on first start.
var seedItems = []model.Item{
	{ID: "TS-A", Name: "T-Shirt style A", Category: "Clothing", Stock: 50, UnitPriceCents: 2000, LastRestockDate: "2025-09-01", ReorderThreshold: 10},
	{ID: "TS-B", Name: "T-Shirt style B", Category: "Clothing", Stock: 20, UnitPriceCents: 2500, LastRestockDate: "2025-09-15", ReorderThreshold: 5},
	{ID: "SH-C", Name: "Men's shorts - Cargo", Category: "Clothing", Stock: 65, UnitPriceCents: 2500, LastRestockDate: "2025-09-15", ReorderThreshold: 5},
}

// SeedItems inserts the initial catalog. Idempotent: items that already
// exist are left untouched, so a restart never resets stock counts.
func SeedItems(ctx context.Context, db *sql.DB) error {
	inserted := 0
	for _, item := range seedItems {
		result, err := db.ExecContext(ctx,
			`INSERT OR IGNORE INTO items (id, name, category, stock, unit_price_cents, last_restock_date, reorder_threshold)
			 VALUES (?, ?, ?, ?, ?, ?, ?)`,
			item.ID, item.Name, item.Category, item.Stock, item.UnitPriceCents,
			item.LastRestockDate, item.ReorderThreshold,
		)
		if err != nil {
			return fmt.Errorf("seeding item %s: %w", item.ID, err)
		}
		if n, _ := result.RowsAffected(); n > 0 {
			inserted++
		}
	}

	if inserted > 0 {
		slog.Info("initial inventory loaded", "items", inserted)
	}
	return nil
}
