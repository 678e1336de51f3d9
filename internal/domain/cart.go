package domain

import (
	"context"
	"time"
)

type Cart struct {
	ID         string     `json:"id"`
	UserID     *string    `json:"userId,omitempty"`
	GuestToken string     `json:"guestToken,omitempty"`
	Items      []CartItem `json:"items"`
	CreatedAt  time.Time  `json:"createdAt"`
	UpdatedAt  time.Time  `json:"updatedAt"`
}

func (c *Cart) IsGuest() bool {
	return c.UserID == nil
}

type CartItem struct {
	ID         string  `json:"id"`
	CartID     string  `json:"cartId"`
	ProductID  string  `json:"productId"`
	SKU        string  `json:"sku"`
	Name       string  `json:"name"`
	Quantity   int     `json:"quantity"`
	Price      float64 `json:"price"`
	BuyRequest string  `json:"buyRequest"`
}

type CartRepository interface {
	GetOrCreateForCustomer(ctx context.Context, customerID string) (*Cart, error)
	Save(ctx context.Context, cart *Cart) error
}

// GuestCartRepository stores carts of anonymous shoppers keyed by guest token.
type GuestCartRepository interface {
	GetByToken(ctx context.Context, token string) (*Cart, error)
	Save(ctx context.Context, cart *Cart) error
}

// LineItemError is a per-item rejection raised while adding a line to a cart.
type LineItemError struct {
	Reason string
}

func (e *LineItemError) Error() string {
	return e.Reason
}

// LineItemAdder adds a product with its buy request to a cart in memory.
type LineItemAdder interface {
	AddLine(ctx context.Context, cart *Cart, product *Product, req *BuyRequest) error
}
