package usecase

import (
	"context"
	"fmt"

	"wishlist-backend/internal/domain"

	"github.com/google/uuid"
)

// CartLineAdder validates a buy request against the product and appends a
// new line to the cart. Rejections are returned as *domain.LineItemError.
type CartLineAdder struct {
	maxQty int
	prices PriceStrategies
}

func NewCartLineAdder(maxQty int, prices PriceStrategies) *CartLineAdder {
	return &CartLineAdder{maxQty: maxQty, prices: prices}
}

func (a *CartLineAdder) AddLine(ctx context.Context, cart *domain.Cart, product *domain.Product, req *domain.BuyRequest) error {
	if !product.IsVisible {
		return &domain.LineItemError{Reason: "Product that you are trying to add is not available."}
	}

	qty := req.Qty
	if qty < 1 {
		qty = 1
	}
	if a.maxQty > 0 && qty > a.maxQty {
		return &domain.LineItemError{Reason: "The requested qty exceeds the maximum qty allowed in shopping cart"}
	}

	sku := product.SKU
	switch product.Type {
	case domain.ProductTypeConfigurable:
		if len(req.SuperAttribute) == 0 {
			return &domain.LineItemError{Reason: "You need to choose options for your item."}
		}
		v := product.FindVariant(req.SuperAttribute)
		if v == nil {
			return &domain.LineItemError{Reason: "You need to choose options for your item."}
		}
		if v.SKU != "" {
			sku = v.SKU
		}
	case domain.ProductTypeBundle:
		if len(req.BundleOption) == 0 {
			return &domain.LineItemError{Reason: "Please specify product option(s)."}
		}
		for optionID, selections := range req.BundleOption {
			opt := product.FindBundleOption(optionID)
			if opt == nil {
				return &domain.LineItemError{Reason: "Please specify product option(s)."}
			}
			for _, id := range selections {
				if opt.FindSelection(id) == nil {
					return &domain.LineItemError{Reason: "The required options you selected are not available."}
				}
			}
		}
	case domain.ProductTypeDownloadable:
		for _, id := range req.Links {
			if product.FindLink(id) == nil {
				return &domain.LineItemError{Reason: "Please specify product link(s)."}
			}
		}
	}

	stored := *req
	stored.Qty = qty
	if stored.Product == "" {
		stored.Product = product.ID
	}
	encoded, err := stored.Encode()
	if err != nil {
		return fmt.Errorf("encode cart line buy request: %w", err)
	}

	cart.Items = append(cart.Items, domain.CartItem{
		ID:         uuid.NewString(),
		CartID:     cart.ID,
		ProductID:  product.ID,
		SKU:        sku,
		Name:       product.Name,
		Quantity:   qty,
		Price:      a.prices.Price(product, req),
		BuyRequest: encoded,
	})
	return nil
}
