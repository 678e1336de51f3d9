package domain

import "context"

// MergeOutcome is the terminal state of one wishlist item after a move to cart.
type MergeOutcome string

const (
	OutcomeMatched        MergeOutcome = "MATCHED"
	OutcomeInserted       MergeOutcome = "INSERTED"
	OutcomeOutOfStock     MergeOutcome = "OUT_OF_STOCK"
	OutcomeTransferFailed MergeOutcome = "TRANSFER_FAILED"
)

// Transferred reports whether the item left the wishlist.
func (o MergeOutcome) Transferred() bool {
	return o == OutcomeMatched || o == OutcomeInserted
}

type MergeResult struct {
	ItemID  string       `json:"itemId"`
	SKU     string       `json:"sku"`
	Outcome MergeOutcome `json:"outcome"`
	Message string       `json:"message,omitempty"`
}

// ShareNotification is one recipient's notice that a wishlist was shared.
type ShareNotification struct {
	WishlistID    string `json:"wishlistId"`
	CustomerName  string `json:"customerName"`
	CustomerEmail string `json:"customerEmail"`
	Recipient     string `json:"recipient"`
	Message       string `json:"message"`
	ViewURL       string `json:"viewUrl"`
	ItemsCount    int    `json:"itemsCount"`
}

type ShareNotifier interface {
	NotifyWishlistShared(ctx context.Context, n ShareNotification) error
}
