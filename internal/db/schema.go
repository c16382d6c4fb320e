package db

import (
	"database/sql"
	"fmt"
)

// schema is the full database schema.
const schema = `
CREATE TABLE IF NOT EXISTS items (
    id                TEXT PRIMARY KEY,
    name              TEXT NOT NULL,
    category          TEXT NOT NULL DEFAULT '',
    stock             INTEGER NOT NULL DEFAULT 0 CHECK (stock >= 0),
    unit_price_cents  INTEGER NOT NULL DEFAULT 0 CHECK (unit_price_cents >= 0),
    last_restock_date TEXT NOT NULL DEFAULT '',
    reorder_threshold INTEGER NOT NULL DEFAULT 0,
    image             BLOB,
    image_mime        TEXT,
    created_at        DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
    updated_at        DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS offers (
    id                INTEGER PRIMARY KEY AUTOINCREMENT,
    code              TEXT NOT NULL UNIQUE,
    item_id           TEXT NOT NULL REFERENCES items(id),
    quantity          INTEGER NOT NULL CHECK (quantity > 0),
    end_time          DATETIME NOT NULL,
    status            TEXT NOT NULL DEFAULT 'active' CHECK (status IN ('active', 'completed', 'cancelled')),
    winner            TEXT NOT NULL DEFAULT '',
    winning_bid_cents INTEGER NOT NULL DEFAULT 0,
    created_at        DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS bids (
    offer_id     INTEGER NOT NULL REFERENCES offers(id),
    merchant_id  TEXT NOT NULL,
    amount_cents INTEGER NOT NULL CHECK (amount_cents > 0),
    first_bid_at DATETIME NOT NULL,
    updated_at   DATETIME NOT NULL,
    PRIMARY KEY (offer_id, merchant_id)
);

CREATE TABLE IF NOT EXISTS events (
    id           TEXT PRIMARY KEY,
    type         TEXT NOT NULL,
    item_id      TEXT NOT NULL DEFAULT '',
    offer_code   TEXT NOT NULL DEFAULT '',
    merchant_id  TEXT NOT NULL DEFAULT '',
    delta        INTEGER NOT NULL DEFAULT 0,
    stock        INTEGER NOT NULL DEFAULT 0,
    amount_cents INTEGER NOT NULL DEFAULT 0,
    note         TEXT NOT NULL DEFAULT '',
    created_at   DATETIME NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_events_item ON events(item_id, created_at);
CREATE INDEX IF NOT EXISTS idx_bids_offer ON bids(offer_id, amount_cents);
`

// EnsureSchema creates all tables and indexes if they don't already exist.
func EnsureSchema(db *sql.DB) error {
	_, err := db.Exec(schema)
	if err != nil {
		return fmt.Errorf("creating schema: %w", err)
	}
	return nil
}
