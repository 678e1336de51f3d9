package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"wishlist-backend/internal/buyrequest"
	"wishlist-backend/internal/domain"
	"wishlist-backend/pkg/apperrors"
	"wishlist-backend/pkg/logger"

	"github.com/google/uuid"
)

const msgAuthorizationUnsuccessful = "Authorization unsuccessful"

type WishlistUsecase struct {
	wishlists   domain.WishlistRepository
	carts       domain.CartRepository
	guestCarts  domain.GuestCartRepository
	catalog     domain.CatalogRepository
	customers   domain.CustomerRepository
	txManager   domain.TransactionManager
	options     *buyrequest.Builder
	lines       domain.LineItemAdder
	notifier    domain.ShareNotifier
	prices      PriceStrategies
	frontendURL string
}

func NewWishlistUsecase(
	wishlists domain.WishlistRepository,
	carts domain.CartRepository,
	guestCarts domain.GuestCartRepository,
	catalog domain.CatalogRepository,
	customers domain.CustomerRepository,
	txManager domain.TransactionManager,
	options *buyrequest.Builder,
	lines domain.LineItemAdder,
	notifier domain.ShareNotifier,
	prices PriceStrategies,
	frontendURL string,
) *WishlistUsecase {
	return &WishlistUsecase{
		wishlists:   wishlists,
		carts:       carts,
		guestCarts:  guestCarts,
		catalog:     catalog,
		customers:   customers,
		txManager:   txManager,
		options:     options,
		lines:       lines,
		notifier:    notifier,
		prices:      prices,
		frontendURL: frontendURL,
	}
}

// --- Views ---

type WishlistView struct {
	ID          string             `json:"id"`
	SharingCode string             `json:"sharingCode"`
	UpdatedAt   time.Time          `json:"updatedAt"`
	ItemsCount  int                `json:"itemsCount"`
	CreatorName string             `json:"creatorName"`
	Items       []WishlistItemView `json:"items"`
}

type WishlistItemView struct {
	ID          string           `json:"id"`
	SKU         string           `json:"sku"`
	Quantity    int              `json:"qty"`
	Description string           `json:"description"`
	Price       float64          `json:"price"`
	AddedAt     time.Time        `json:"addedAt"`
	BuyRequest  string           `json:"buyRequest"`
	Options     []ItemOptionView `json:"options"`
	Product     *domain.Product  `json:"product"`
}

type ItemOptionView struct {
	Label string `json:"label"`
	Value string `json:"value"`
}

// GetWishlist returns the caller's wishlist. A customer without a wishlist
// gets an empty view.
func (u *WishlistUsecase) GetWishlist(ctx context.Context, customerID string) (*WishlistView, error) {
	if customerID == "" {
		return nil, apperrors.Unauthorized(msgAuthorizationUnsuccessful)
	}
	w, err := u.wishlists.GetByCustomerID(ctx, customerID)
	if err != nil {
		return nil, err
	}
	if w == nil {
		return &WishlistView{Items: []WishlistItemView{}}, nil
	}
	return u.buildView(ctx, w)
}

// GetSharedWishlist returns a wishlist by sharing code, without authentication.
func (u *WishlistUsecase) GetSharedWishlist(ctx context.Context, sharingCode string) (*WishlistView, error) {
	w, err := u.wishlists.GetBySharingCode(ctx, sharingCode)
	if err != nil {
		return nil, err
	}
	if w == nil || !w.IsShared() {
		return nil, apperrors.NotFound("Shared wishlist with provided sharing code does not exist")
	}
	return u.buildView(ctx, w)
}

func (u *WishlistUsecase) buildView(ctx context.Context, w *domain.Wishlist) (*WishlistView, error) {
	view := &WishlistView{
		ID:          w.ID,
		SharingCode: w.SharingCode,
		UpdatedAt:   w.UpdatedAt,
		Items:       make([]WishlistItemView, 0, len(w.Items)),
	}

	creator, err := u.customers.GetByID(ctx, w.UserID)
	if err != nil {
		return nil, err
	}
	if creator != nil {
		view.CreatorName = creator.FullName()
	}

	for _, item := range w.Items {
		product, err := u.catalog.GetProductByID(ctx, item.ProductID)
		if err != nil {
			return nil, err
		}
		if product == nil {
			logger.WithContext(ctx).Warn().
				Str("item_id", item.ID).
				Str("product_id", item.ProductID).
				Msg("Wishlist item references a missing product")
			continue
		}

		req, err := domain.DecodeBuyRequest(item.BuyRequest)
		if err != nil {
			req = &domain.BuyRequest{}
		}

		sku := item.SKU
		if product.Type == domain.ProductTypeConfigurable {
			if v := product.FindVariant(req.SuperAttribute); v != nil && v.SKU != "" {
				sku = v.SKU
			}
		}

		view.Items = append(view.Items, WishlistItemView{
			ID:          item.ID,
			SKU:         sku,
			Quantity:    item.Quantity,
			Description: item.Description,
			Price:       u.prices.Price(product, req),
			AddedAt:     item.AddedAt,
			BuyRequest:  item.BuyRequest,
			Options:     optionLabels(product, req),
			Product:     product,
		})
	}
	view.ItemsCount = len(view.Items)
	return view, nil
}

func optionLabels(p *domain.Product, req *domain.BuyRequest) []ItemOptionView {
	out := []ItemOptionView{}
	for optionID, selections := range req.BundleOption {
		opt := p.FindBundleOption(optionID)
		if opt == nil {
			continue
		}
		for _, id := range selections {
			if sel := opt.FindSelection(id); sel != nil {
				out = append(out, ItemOptionView{Label: opt.Title, Value: sel.Name})
			}
		}
	}
	for _, id := range req.Links {
		if link := p.FindLink(id); link != nil {
			out = append(out, ItemOptionView{Label: "Links", Value: link.Title})
		}
	}
	for optionID, values := range req.Options {
		opt := p.FindCustomOption(optionID)
		if opt == nil {
			continue
		}
		for _, v := range values {
			switch {
			case v.File != nil:
				out = append(out, ItemOptionView{Label: opt.Title, Value: v.File.Title})
			case opt.FindValue(v.Text) != nil:
				out = append(out, ItemOptionView{Label: opt.Title, Value: opt.FindValue(v.Text).Title})
			default:
				out = append(out, ItemOptionView{Label: opt.Title, Value: v.Text})
			}
		}
	}
	return out
}

// --- Add ---

type ConfigurableItemOption struct {
	OptionID    string `json:"optionId"`
	OptionValue int    `json:"optionValue"`
}

type BundleItemOption struct {
	ID       string `json:"id"`
	Quantity int    `json:"quantity"`
	Value    string `json:"value"`
}

// ProductOptionInput is the structured option selection of an added product.
type ProductOptionInput struct {
	ConfigurableItemOptions  []ConfigurableItemOption `json:"configurableItemOptions"`
	GroupedProductOptions    []ConfigurableItemOption `json:"groupedProductOptions"`
	DownloadableProductLinks []string                 `json:"downloadableProductLinks"`
	BundleOptions            []BundleItemOption       `json:"bundleOptions"`
}

type AddItemInput struct {
	SKU             string                 `json:"sku" validate:"required"`
	Quantity        int                    `json:"quantity" validate:"gte=0"`
	Description     string                 `json:"description"`
	ProductOption   *ProductOptionInput    `json:"productOption"`
	SelectedOptions []string               `json:"selectedOptions"`
	EnteredOptions  []domain.EnteredOption `json:"enteredOptions"`
}

// AddItem adds a product configuration to the caller's wishlist. Adding the
// same configuration again increases the existing item's quantity.
func (u *WishlistUsecase) AddItem(ctx context.Context, customerID string, in AddItemInput) (*domain.WishlistItem, error) {
	if customerID == "" {
		return nil, apperrors.Unauthorized(msgAuthorizationUnsuccessful)
	}
	if in.SKU == "" {
		return nil, apperrors.InvalidInput("Please specify valid product")
	}
	qty := in.Quantity
	if qty <= 0 {
		qty = 1
	}

	product, err := u.catalog.GetProductBySKU(ctx, in.SKU)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, apperrors.NotFound(fmt.Sprintf("The product that was requested doesn't exist. Verify the product and try again. SKU: %s", in.SKU))
	}
	if !product.IsVisible {
		return nil, apperrors.InvalidInput("Please specify valid product")
	}

	req := productOptionRequest(product.Type, in.ProductOption)
	tokens := &domain.OptionInput{SelectedOptions: in.SelectedOptions, EnteredOptions: in.EnteredOptions}
	decoded, err := u.options.Build(ctx, tokens, product.ID)
	if err != nil {
		return nil, optionError(err)
	}
	req.Merge(decoded)
	req.Product = product.ID

	sku := product.SKU
	if product.Type == domain.ProductTypeConfigurable {
		if v := product.FindVariant(req.SuperAttribute); v != nil && v.SKU != "" {
			sku = v.SKU
		}
	}

	w, err := u.wishlists.GetByCustomerID(ctx, customerID)
	if err != nil {
		return nil, err
	}
	if w == nil {
		if w, err = u.wishlists.Create(ctx, customerID); err != nil {
			return nil, err
		}
	}

	var target *domain.WishlistItem
	for i := range w.Items {
		existing := &w.Items[i]
		if existing.ProductID != product.ID {
			continue
		}
		existingReq, err := domain.DecodeBuyRequest(existing.BuyRequest)
		if err == nil && existingReq.SameConfiguration(req) {
			target = existing
			break
		}
	}

	if target != nil {
		target.Quantity = saturatingAdd(target.Quantity, qty)
		if in.Description != "" {
			target.Description = in.Description
		}
	} else {
		req.Qty = qty
		encoded, err := req.Encode()
		if err != nil {
			return nil, apperrors.Internal(err)
		}
		w.Items = append(w.Items, domain.WishlistItem{
			ID:          uuid.NewString(),
			WishlistID:  w.ID,
			ProductID:   product.ID,
			SKU:         sku,
			Quantity:    qty,
			Description: in.Description,
			BuyRequest:  encoded,
			AddedAt:     time.Now(),
		})
		target = &w.Items[len(w.Items)-1]
	}

	if err := u.wishlists.Save(ctx, w); err != nil {
		return nil, apperrors.Storage("There was an error when trying to save wishlist", err)
	}

	item := *target
	item.Product = product
	return &item, nil
}

func productOptionRequest(productType string, opt *ProductOptionInput) *domain.BuyRequest {
	req := &domain.BuyRequest{}
	if opt == nil {
		return req
	}
	switch productType {
	case domain.ProductTypeConfigurable:
		for _, o := range opt.ConfigurableItemOptions {
			if req.SuperAttribute == nil {
				req.SuperAttribute = map[string]int{}
			}
			req.SuperAttribute[o.OptionID] = o.OptionValue
		}
	case domain.ProductTypeGrouped:
		for _, o := range opt.GroupedProductOptions {
			if req.SuperGroup == nil {
				req.SuperGroup = map[string]int{}
			}
			req.SuperGroup[o.OptionID] = o.OptionValue
		}
	case domain.ProductTypeDownloadable:
		req.Links = append(req.Links, opt.DownloadableProductLinks...)
	case domain.ProductTypeBundle:
		for _, o := range opt.BundleOptions {
			if req.BundleOption == nil {
				req.BundleOption = map[string][]string{}
				req.BundleOptionQty = map[string][]int{}
			}
			req.BundleOption[o.ID] = append(req.BundleOption[o.ID], o.Value)
			req.BundleOptionQty[o.ID] = append(req.BundleOptionQty[o.ID], o.Quantity)
		}
	}
	return req
}

// optionError maps codec failures to input errors; a malformed option means
// the client payload is corrupt.
func optionError(err error) error {
	switch {
	case errors.Is(err, buyrequest.ErrMalformedOption):
		return apperrors.InvalidInput("Wrong format of the entered option data")
	case errors.Is(err, buyrequest.ErrFileTooLarge):
		return apperrors.InvalidInput("The file you uploaded is too large")
	default:
		return apperrors.Internal(err)
	}
}

// --- Update / Remove / Clear ---

type UpdateItemInput struct {
	Quantity    *int    `json:"quantity"`
	Description *string `json:"description"`
}

func (u *WishlistUsecase) UpdateItem(ctx context.Context, customerID, itemID string, in UpdateItemInput) (*domain.WishlistItem, error) {
	if customerID == "" {
		return nil, apperrors.Unauthorized(msgAuthorizationUnsuccessful)
	}
	if in.Quantity == nil && in.Description == nil {
		return nil, apperrors.InvalidInput("Please specify either quantity or description to update")
	}
	if in.Quantity != nil && *in.Quantity < 1 {
		return nil, apperrors.InvalidInput("Please specify a quantity greater than zero")
	}

	w, err := u.ownedWishlist(ctx, customerID, itemID)
	if err != nil {
		return nil, err
	}
	item := w.FindItem(itemID)
	if in.Quantity != nil {
		item.Quantity = *in.Quantity
	}
	if in.Description != nil {
		item.Description = *in.Description
	}

	if err := u.wishlists.Save(ctx, w); err != nil {
		return nil, apperrors.Storage("There was an error when trying to update wishlist item", err)
	}
	updated := *item
	return &updated, nil
}

func (u *WishlistUsecase) RemoveItem(ctx context.Context, customerID, itemID string) error {
	if customerID == "" {
		return apperrors.Unauthorized("There was an issue with authorization")
	}
	w, err := u.ownedWishlist(ctx, customerID, itemID)
	if err != nil {
		return err
	}
	w.RemoveItem(itemID)
	if err := u.wishlists.Save(ctx, w); err != nil {
		return apperrors.Storage("There was an error when trying to delete item", err)
	}
	return nil
}

// ownedWishlist loads the caller's wishlist after checking that itemID
// exists and belongs to it.
func (u *WishlistUsecase) ownedWishlist(ctx context.Context, customerID, itemID string) (*domain.Wishlist, error) {
	if itemID == "" {
		return nil, apperrors.InvalidInput("Please specify a valid wishlist item")
	}
	item, ownerID, err := u.wishlists.GetItem(ctx, itemID)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, apperrors.NotFound("Please specify a valid wishlist item")
	}
	if ownerID != customerID {
		return nil, apperrors.Forbidden("Invalid wishlist")
	}

	w, err := u.wishlists.GetByCustomerID(ctx, customerID)
	if err != nil {
		return nil, err
	}
	if w == nil || w.FindItem(itemID) == nil {
		return nil, apperrors.Forbidden("Invalid wishlist")
	}
	return w, nil
}

// ClearWishlist removes every item. Clearing a missing or empty wishlist
// succeeds without writing.
func (u *WishlistUsecase) ClearWishlist(ctx context.Context, customerID string) error {
	if customerID == "" {
		return apperrors.Unauthorized(msgAuthorizationUnsuccessful)
	}
	w, err := u.wishlists.GetByCustomerID(ctx, customerID)
	if err != nil {
		return err
	}
	if w == nil || len(w.Items) == 0 {
		return nil
	}
	w.Items = nil
	if err := u.wishlists.Save(ctx, w); err != nil {
		return apperrors.Storage("There was an error when clearing wishlist", err)
	}
	return nil
}

func saturatingAdd(a, b int) int {
	const maxInt = int(^uint(0) >> 1)
	if b > 0 && a > maxInt-b {
		return maxInt
	}
	return a + b
}
