package store

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/erazemk/drazba/internal/model"
)

// offerCodePrefix is prepended to the monotonically increasing offer
// counter to form the public offer code (OFFER-1, OFFER-2, ...). The
// counter starts at 1 and is never reused.
const offerCodePrefix = "OFFER-"

// CreateOffer reserves quantity units of an item and registers a new active
// offer for them. The reservation and registration happen in one
// transaction: if the item is unknown or stock is insufficient, no offer is
// created and the ledger is unchanged.
func CreateOffer(ctx context.Context, db *sql.DB, itemID string, quantity int, endTime, now time.Time) (*model.Offer, error) {
	if quantity <= 0 {
		return nil, fmt.Errorf("quantity must be positive")
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	newStock, err := adjustStockTx(ctx, tx, itemID, -quantity, now)
	if err != nil {
		return nil, err
	}

	// The code embeds the AUTOINCREMENT id, which is only known after the
	// insert, so insert with a placeholder and fill it in before commit.
	result, err := tx.ExecContext(ctx,
		`INSERT INTO offers (code, item_id, quantity, end_time, status, created_at)
		 VALUES ('', ?, ?, ?, ?, ?)`,
		itemID, quantity, endTime.UTC(), model.OfferStatusActive, now.UTC(),
	)
	if err != nil {
		return nil, fmt.Errorf("creating offer: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("getting offer id: %w", err)
	}
	code := fmt.Sprintf("%s%d", offerCodePrefix, id)

	if _, err := tx.ExecContext(ctx,
		`UPDATE offers SET code = ? WHERE id = ?`, code, id,
	); err != nil {
		return nil, fmt.Errorf("setting offer code: %w", err)
	}

	if err := recordEvent(ctx, tx, &model.Event{
		Type:      model.EventOfferCreated,
		ItemID:    itemID,
		OfferCode: code,
		Delta:     -quantity,
		Stock:     newStock,
		CreatedAt: now.UTC(),
	}); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("committing offer creation: %w", err)
	}

	slog.Info("offer created", "offer", code, "item", itemID,
		"quantity", quantity, "stock", newStock, "ends", endTime.UTC())
	return GetOffer(ctx, db, code)
}

// GetOffer returns an offer by code, or nil if it does not exist.
func GetOffer(ctx context.Context, db *sql.DB, code string) (*model.Offer, error) {
	o := &model.Offer{}
	err := db.QueryRowContext(ctx,
		`SELECT o.id, o.code, o.item_id, o.quantity, o.end_time, o.status,
		        o.winner, o.winning_bid_cents, o.created_at,
		        (SELECT COUNT(*) FROM bids b WHERE b.offer_id = o.id) AS bid_count
		 FROM offers o WHERE o.code = ?`, code,
	).Scan(&o.ID, &o.Code, &o.ItemID, &o.Quantity, &o.EndTime, &o.Status,
		&o.Winner, &o.WinningBidCents, &o.CreatedAt, &o.BidCount)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting offer: %w", err)
	}
	return o, nil
}

// ListOffers returns offers newest first, optionally filtered by status.
func ListOffers(ctx context.Context, db *sql.DB, status string) ([]model.Offer, error) {
	query := `SELECT o.id, o.code, o.item_id, o.quantity, o.end_time, o.status,
	                 o.winner, o.winning_bid_cents, o.created_at,
	                 (SELECT COUNT(*) FROM bids b WHERE b.offer_id = o.id) AS bid_count
	          FROM offers o`
	var args []any

	if status != "" {
		query += ` WHERE o.status = ?`
		args = append(args, status)
	}

	query += ` ORDER BY o.id DESC`

	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing offers: %w", err)
	}
	defer rows.Close()

	var offers []model.Offer
	for rows.Next() {
		var o model.Offer
		if err := rows.Scan(&o.ID, &o.Code, &o.ItemID, &o.Quantity, &o.EndTime, &o.Status,
			&o.Winner, &o.WinningBidCents, &o.CreatedAt, &o.BidCount); err != nil {
			return nil, fmt.Errorf("scanning offer: %w", err)
		}
		offers = append(offers, o)
	}
	return offers, rows.Err()
}

// ListBids returns an offer's bids, highest amount first.
func ListBids(ctx context.Context, db *sql.DB, code string) ([]model.Bid, error) {
	rows, err := db.QueryContext(ctx,
		`SELECT b.offer_id, b.merchant_id, b.amount_cents, b.first_bid_at, b.updated_at
		 FROM bids b
		 JOIN offers o ON o.id = b.offer_id
		 WHERE o.code = ?
		 ORDER BY b.amount_cents DESC, b.first_bid_at ASC`, code,
	)
	if err != nil {
		return nil, fmt.Errorf("listing bids: %w", err)
	}
	defer rows.Close()

	var bids []model.Bid
	for rows.Next() {
		var b model.Bid
		if err := rows.Scan(&b.OfferID, &b.MerchantID, &b.AmountCents, &b.FirstBidAt, &b.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scanning bid: %w", err)
		}
		bids = append(bids, b)
	}
	return bids, rows.Err()
}

// PlaceBid records a merchant's bid on an active offer. The bid is rejected
// with ErrBiddingClosed if the offer is not active or now is past its end
// time, and with ErrBidNotImproved unless the amount strictly exceeds the
// merchant's previously stored bid. An accepted re-bid overwrites the stored
// amount in place; the original submission time is kept for tie-breaking.
func PlaceBid(ctx context.Context, db *sql.DB, code, merchantID string, amountCents int64, now time.Time) error {
	if merchantID == "" {
		return fmt.Errorf("merchant id required")
	}
	if amountCents <= 0 {
		return fmt.Errorf("bid amount must be positive")
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	var offerID int64
	var status string
	var endTime time.Time
	err = tx.QueryRowContext(ctx,
		`SELECT id, status, end_time FROM offers WHERE code = ?`, code,
	).Scan(&offerID, &status, &endTime)
	if err == sql.ErrNoRows {
		return fmt.Errorf("offer %s: %w", code, ErrUnknownOffer)
	}
	if err != nil {
		return fmt.Errorf("reading offer %s: %w", code, err)
	}

	if status != model.OfferStatusActive || now.After(endTime) {
		slog.Warn("bid rejected", "offer", code, "merchant", merchantID,
			"amount_cents", amountCents, "decision", "bidding_closed")
		return fmt.Errorf("offer %s: %w", code, ErrBiddingClosed)
	}

	var previous int64
	err = tx.QueryRowContext(ctx,
		`SELECT amount_cents FROM bids WHERE offer_id = ? AND merchant_id = ?`,
		offerID, merchantID,
	).Scan(&previous)
	if err != nil && err != sql.ErrNoRows {
		return fmt.Errorf("reading previous bid: %w", err)
	}
	if err == nil && previous >= amountCents {
		slog.Warn("bid rejected", "offer", code, "merchant", merchantID,
			"amount_cents", amountCents, "previous_cents", previous, "decision", "not_improved")
		return fmt.Errorf("offer %s: bid of %d does not exceed previous %d: %w",
			code, amountCents, previous, ErrBidNotImproved)
	}

	_, err = tx.ExecContext(ctx,
		`INSERT INTO bids (offer_id, merchant_id, amount_cents, first_bid_at, updated_at)
		 VALUES (?, ?, ?, ?, ?)
		 ON CONFLICT (offer_id, merchant_id)
		 DO UPDATE SET amount_cents = excluded.amount_cents, updated_at = excluded.updated_at`,
		offerID, merchantID, amountCents, now.UTC(), now.UTC(),
	)
	if err != nil {
		return fmt.Errorf("storing bid: %w", err)
	}

	if err := recordEvent(ctx, tx, &model.Event{
		Type:        model.EventBidPlaced,
		OfferCode:   code,
		MerchantID:  merchantID,
		AmountCents: amountCents,
		CreatedAt:   now.UTC(),
	}); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing bid: %w", err)
	}

	slog.Info("bid accepted", "offer", code, "merchant", merchantID,
		"amount_cents", amountCents, "decision", "accepted")
	return nil
}

// queryer is satisfied by both *sql.DB and *sql.Tx.
type queryer interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// highestBid returns the merchant with the maximum bid on an offer. Equal
// amounts are won by the earliest original submission. Returns ("", 0) when
// the offer has no bids.
func highestBid(ctx context.Context, q queryer, offerID int64) (string, int64, error) {
	var merchantID string
	var amountCents int64
	err := q.QueryRowContext(ctx,
		`SELECT merchant_id, amount_cents FROM bids
		 WHERE offer_id = ?
		 ORDER BY amount_cents DESC, first_bid_at ASC, rowid ASC
		 LIMIT 1`, offerID,
	).Scan(&merchantID, &amountCents)
	if err == sql.ErrNoRows {
		return "", 0, nil
	}
	if err != nil {
		return "", 0, fmt.Errorf("finding highest bid: %w", err)
	}
	return merchantID, amountCents, nil
}

// HighestBid returns the current winning candidate for an offer without
// mutating anything. Returns ("", 0) when the offer has no bids.
func HighestBid(ctx context.Context, db *sql.DB, code string) (string, int64, error) {
	var offerID int64
	err := db.QueryRowContext(ctx,
		`SELECT id FROM offers WHERE code = ?`, code,
	).Scan(&offerID)
	if err == sql.ErrNoRows {
		return "", 0, fmt.Errorf("offer %s: %w", code, ErrUnknownOffer)
	}
	if err != nil {
		return "", 0, fmt.Errorf("reading offer %s: %w", code, err)
	}
	return highestBid(ctx, db, offerID)
}

// CompleteOffer finalizes an offer once its bidding window has closed. With
// bids, the highest one wins and the reserved stock stays sold; with no
// bids, the reserved quantity is credited back to the item in the same
// transaction. Completing before the window closes fails with ErrStillOpen;
// completing twice fails with ErrAlreadyFinalized. Neither failure mutates
// anything.
func CompleteOffer(ctx context.Context, db *sql.DB, code string, now time.Time) (*model.Offer, error) {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	var offerID int64
	var itemID, status string
	var quantity int
	var endTime time.Time
	err = tx.QueryRowContext(ctx,
		`SELECT id, item_id, quantity, status, end_time FROM offers WHERE code = ?`, code,
	).Scan(&offerID, &itemID, &quantity, &status, &endTime)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("offer %s: %w", code, ErrUnknownOffer)
	}
	if err != nil {
		return nil, fmt.Errorf("reading offer %s: %w", code, err)
	}

	if status != model.OfferStatusActive {
		return nil, fmt.Errorf("offer %s: %w", code, ErrAlreadyFinalized)
	}
	if !now.After(endTime) {
		return nil, fmt.Errorf("offer %s closes at %s: %w",
			code, endTime.UTC().Format(time.RFC3339), ErrStillOpen)
	}

	winner, winningBid, err := highestBid(ctx, tx, offerID)
	if err != nil {
		return nil, err
	}

	ev := &model.Event{
		Type:      model.EventOfferCompleted,
		ItemID:    itemID,
		OfferCode: code,
		CreatedAt: now.UTC(),
	}

	if winner == "" {
		// No bids: the reservation is credited back exactly once. This can
		// only fail if the ledger no longer matches the reservation, which
		// would mean lost units, so it is surfaced loudly instead of being
		// swallowed.
		newStock, err := adjustStockTx(ctx, tx, itemID, quantity, now)
		if err != nil {
			slog.Error("failed to return reserved stock", "offer", code,
				"item", itemID, "quantity", quantity, "error", err)
			return nil, fmt.Errorf("returning reserved stock for %s: %w", code, err)
		}
		ev.Delta = quantity
		ev.Stock = newStock
		ev.Note = "no bids, reservation returned"
	} else {
		ev.MerchantID = winner
		ev.AmountCents = winningBid
	}

	_, err = tx.ExecContext(ctx,
		`UPDATE offers SET status = ?, winner = ?, winning_bid_cents = ? WHERE id = ?`,
		model.OfferStatusCompleted, winner, winningBid, offerID,
	)
	if err != nil {
		return nil, fmt.Errorf("completing offer %s: %w", code, err)
	}

	if err := recordEvent(ctx, tx, ev); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("committing offer completion: %w", err)
	}

	if winner == "" {
		slog.Info("offer completed with no bids", "offer", code, "item", itemID,
			"quantity", quantity)
	} else {
		slog.Info("offer completed", "offer", code, "item", itemID,
			"winner", winner, "winning_bid_cents", winningBid)
	}

	return GetOffer(ctx, db, code)
}
