package model

import "time"

// Event is an audit journal entry. Events are recorded in the same
// transaction as the state change they describe, so the journal never
// disagrees with the ledger. They exist for audit and display, not for
// correctness.
type Event struct {
	ID          string    `json:"id"`
	Type        string    `json:"type"`
	ItemID      string    `json:"item_id,omitempty"`
	OfferCode   string    `json:"offer_code,omitempty"`
	MerchantID  string    `json:"merchant_id,omitempty"`
	Delta       int       `json:"delta,omitempty"`
	Stock       int       `json:"stock,omitempty"`
	AmountCents int64     `json:"amount_cents,omitempty"`
	Note        string    `json:"note,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

// Event types.
const (
	EventStockAdjusted  = "stock_adjusted"
	EventOfferCreated   = "offer_created"
	EventBidPlaced      = "bid_placed"
	EventOfferCompleted = "offer_completed"
	EventOrderProcessed = "order_processed"
)
