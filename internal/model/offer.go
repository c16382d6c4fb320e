package model

import "time"

// Offer is a time-boxed sealed-bid auction for a fixed quantity of one item.
// The quantity is reserved (subtracted from the item's stock) when the offer
// is created and credited back only if the offer completes with no bids.
type Offer struct {
	ID              int64     `json:"id"`
	Code            string    `json:"code"`
	ItemID          string    `json:"item_id"`
	Quantity        int       `json:"quantity"`
	EndTime         time.Time `json:"end_time"`
	Status          string    `json:"status"`
	Winner          string    `json:"winner,omitempty"`
	WinningBidCents int64     `json:"winning_bid_cents"`
	BidCount        int       `json:"bid_count"`
	CreatedAt       time.Time `json:"created_at"`
}

// Offer statuses. An offer transitions from active to completed exactly once
// and is never mutated afterwards. Cancelled is representable but no current
// transition produces it.
const (
	OfferStatusActive    = "active"
	OfferStatusCompleted = "completed"
	OfferStatusCancelled = "cancelled"
)

// Bid is a merchant's current best bid on an offer. A merchant has at most
// one bid per offer; a higher re-bid overwrites the amount in place while
// FirstBidAt keeps the original submission time for tie-breaking.
type Bid struct {
	OfferID     int64     `json:"offer_id"`
	MerchantID  string    `json:"merchant_id"`
	AmountCents int64     `json:"amount_cents"`
	FirstBidAt  time.Time `json:"first_bid_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}
