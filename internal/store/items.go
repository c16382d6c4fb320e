package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/erazemk/drazba/internal/model"
)

// CreateItem adds a new catalog entry. Item ids are caller-chosen stable
// keys (e.g. "TS-A"), not generated.
func CreateItem(ctx context.Context, db *sql.DB, id, name, category string, stock int, unitPriceCents int64, reorderThreshold int, lastRestock string) (*model.Item, error) {
	if stock < 0 {
		return nil, fmt.Errorf("stock must not be negative")
	}
	if unitPriceCents < 0 {
		return nil, fmt.Errorf("unit price must not be negative")
	}

	_, err := db.ExecContext(ctx,
		`INSERT INTO items (id, name, category, stock, unit_price_cents, reorder_threshold, last_restock_date)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		id, name, category, stock, unitPriceCents, reorderThreshold, lastRestock,
	)
	if err != nil {
		return nil, fmt.Errorf("creating item %s: %w", id, err)
	}

	return GetItem(ctx, db, id)
}

// GetItem returns an item by id, or nil if it does not exist.
func GetItem(ctx context.Context, db *sql.DB, id string) (*model.Item, error) {
	item := &model.Item{}
	var imageMime sql.NullString
	err := db.QueryRowContext(ctx,
		`SELECT id, name, category, stock, unit_price_cents, last_restock_date, reorder_threshold,
		        image_mime, created_at, updated_at
		 FROM items WHERE id = ?`, id,
	).Scan(&item.ID, &item.Name, &item.Category, &item.Stock, &item.UnitPriceCents,
		&item.LastRestockDate, &item.ReorderThreshold, &imageMime, &item.CreatedAt, &item.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting item: %w", err)
	}
	item.ImageMime = imageMime.String
	return item, nil
}

// ListItems returns all items, optionally filtered by category.
func ListItems(ctx context.Context, db *sql.DB, category string) ([]model.Item, error) {
	query := `SELECT id, name, category, stock, unit_price_cents, last_restock_date, reorder_threshold,
	                 image_mime, created_at, updated_at
	          FROM items`
	var args []any

	if category != "" {
		query += ` WHERE category = ?`
		args = append(args, category)
	}

	query += ` ORDER BY id`

	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing items: %w", err)
	}
	defer rows.Close()

	var items []model.Item
	for rows.Next() {
		var item model.Item
		var imageMime sql.NullString
		if err := rows.Scan(&item.ID, &item.Name, &item.Category, &item.Stock, &item.UnitPriceCents,
			&item.LastRestockDate, &item.ReorderThreshold, &imageMime, &item.CreatedAt, &item.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scanning item: %w", err)
		}
		item.ImageMime = imageMime.String
		items = append(items, item)
	}
	return items, rows.Err()
}

// SetItemImage sets an item's photo.
func SetItemImage(ctx context.Context, db *sql.DB, id string, image []byte, mime string) error {
	result, err := db.ExecContext(ctx,
		`UPDATE items SET image = ?, image_mime = ?, updated_at = ? WHERE id = ?`,
		image, mime, time.Now().UTC(), id,
	)
	if err != nil {
		return fmt.Errorf("setting item image: %w", err)
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return fmt.Errorf("setting item image: %w", ErrUnknownItem)
	}
	return nil
}

// GetItemImage returns an item's photo data and MIME type.
func GetItemImage(ctx context.Context, db *sql.DB, id string) ([]byte, string, error) {
	var image []byte
	var mime sql.NullString
	err := db.QueryRowContext(ctx,
		`SELECT image, image_mime FROM items WHERE id = ?`, id,
	).Scan(&image, &mime)
	if err == sql.ErrNoRows {
		return nil, "", nil
	}
	if err != nil {
		return nil, "", fmt.Errorf("getting item image: %w", err)
	}
	return image, mime.String, nil
}
