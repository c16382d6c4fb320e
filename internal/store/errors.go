package store

import "errors"

// Sentinel errors for the offer and ledger state machines. Callers check
// these with errors.Is; HTTP handlers map them to status codes.
var (
	// ErrUnknownItem is returned when an item id does not resolve.
	ErrUnknownItem = errors.New("unknown item")

	// ErrUnknownOffer is returned when an offer code does not resolve.
	ErrUnknownOffer = errors.New("unknown offer")

	// ErrInsufficientStock is returned when a stock decrement would make
	// the item's stock negative. The ledger is left unchanged.
	ErrInsufficientStock = errors.New("insufficient stock")

	// ErrBiddingClosed is returned for a bid on a non-active offer or one
	// whose end time has passed.
	ErrBiddingClosed = errors.New("bidding closed")

	// ErrBidNotImproved is returned when a merchant's new bid does not
	// strictly exceed their previously stored bid.
	ErrBidNotImproved = errors.New("bid not improved")

	// ErrStillOpen is returned when an offer is completed before its
	// bidding window has closed.
	ErrStillOpen = errors.New("bidding window still open")

	// ErrAlreadyFinalized is returned when a completed offer is completed
	// again.
	ErrAlreadyFinalized = errors.New("offer already finalized")
)
