package model

import "time"

// Item is a catalog entry with the authoritative stock count for that good.
// Stock is only ever mutated through the store's atomic adjust operation and
// can never go negative.
type Item struct {
	ID               string    `json:"id"`
	Name             string    `json:"name"`
	Category         string    `json:"category,omitempty"`
	Stock            int       `json:"stock"`
	UnitPriceCents   int64     `json:"unit_price_cents"`
	LastRestockDate  string    `json:"last_restock_date,omitempty"`
	ReorderThreshold int       `json:"reorder_threshold"`
	ImageMime        string    `json:"image_mime,omitempty"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

// DateFormat is the layout for LastRestockDate values.
const DateFormat = "2006-01-02"
