package domain

import (
	"context"
	"time"
)

type Wishlist struct {
	ID          string         `json:"id"`
	UserID      string         `json:"userId"`
	SharingCode string         `json:"sharingCode"`
	ShareCount  int            `json:"shareCount"`
	Items       []WishlistItem `json:"items"`
	CreatedAt   time.Time      `json:"createdAt"`
	UpdatedAt   time.Time      `json:"updatedAt"`
}

// IsShared reports whether the wishlist was shared at least once.
// Only shared wishlists are reachable through their sharing code.
func (w *Wishlist) IsShared() bool {
	return w.SharingCode != "" && w.ShareCount > 0
}

// FindItem returns the item with the given id, or nil.
func (w *Wishlist) FindItem(itemID string) *WishlistItem {
	for i := range w.Items {
		if w.Items[i].ID == itemID {
			return &w.Items[i]
		}
	}
	return nil
}

// RemoveItem drops the item with the given id and reports whether it existed.
func (w *Wishlist) RemoveItem(itemID string) bool {
	for i := range w.Items {
		if w.Items[i].ID == itemID {
			w.Items = append(w.Items[:i], w.Items[i+1:]...)
			return true
		}
	}
	return false
}

type WishlistItem struct {
	ID          string `json:"id"`
	WishlistID  string `json:"wishlistId"`
	ProductID   string `json:"productId"`
	SKU         string `json:"sku"`
	Quantity    int    `json:"quantity"`
	Description string `json:"description"`

	// BuyRequest is the serialized BuyRequest stored with the item.
	BuyRequest string `json:"buyRequest"`

	// Options carries raw option tokens for items whose buy request is
	// resolved lazily, at move time.
	Options *OptionInput `json:"options,omitempty"`

	AddedAt time.Time `json:"addedAt"`
	Product *Product  `json:"product,omitempty"`
}

// EnteredOption is a free-form option value keyed by its option uid.
type EnteredOption struct {
	UID   string `json:"uid"`
	Value string `json:"value"`
}

// OptionInput is the raw option selection as submitted by the client.
type OptionInput struct {
	SelectedOptions []string        `json:"selected_options,omitempty"`
	EnteredOptions  []EnteredOption `json:"entered_options,omitempty"`
}

func (o *OptionInput) IsEmpty() bool {
	return o == nil || (len(o.SelectedOptions) == 0 && len(o.EnteredOptions) == 0)
}

type WishlistRepository interface {
	GetByCustomerID(ctx context.Context, customerID string) (*Wishlist, error)
	GetBySharingCode(ctx context.Context, sharingCode string) (*Wishlist, error)
	Create(ctx context.Context, customerID string) (*Wishlist, error)
	// GetItem returns the item along with the owning wishlist's customer id.
	GetItem(ctx context.Context, itemID string) (*WishlistItem, string, error)
	// Save persists the wishlist header and makes the stored items equal to w.Items.
	Save(ctx context.Context, w *Wishlist) error
}
