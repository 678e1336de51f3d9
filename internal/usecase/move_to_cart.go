package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"wishlist-backend/internal/domain"
	"wishlist-backend/pkg/apperrors"
	"wishlist-backend/pkg/logger"
	"wishlist-backend/pkg/metrics"

	"github.com/goccy/go-json"
)

const (
	msgUserNotFound      = "User not found"
	msgSharedNotFound    = "Shared wishlist with provided sharing code does not exist"
	msgMoveStorageFailed = "There was an error when trying to save wishlist items to cart"
	msgOutOfStock        = "One or more items are out of stock"
	msgNotAvailable      = "Product that you are trying to add is not available"
)

type MoveToCartInput struct {
	SharingCode string `json:"sharingCode"`
	GuestCartID string `json:"guestCartId"`
}

type MoveToCartResult struct {
	Cart    *domain.Cart         `json:"cart"`
	Results []domain.MergeResult `json:"results"`
}

// MoveWishlistToCart moves as many wishlist items as possible into the target
// cart. Items already in the cart (same SKU) have their quantities combined,
// the rest are added as new lines unless out of stock or rejected. Item
// failures do not stop the batch; they are reported together as one input
// error after the cart and the wishlist have been saved.
//
// A wishlist addressed by sharing code is drained completely, whatever the
// item outcomes.
func (u *WishlistUsecase) MoveWishlistToCart(ctx context.Context, customerID string, in MoveToCartInput) (*MoveToCartResult, error) {
	log := logger.WithContext(ctx)

	// Lookups that can fail run before a customer cart is created.
	var guestCart *domain.Cart
	if in.GuestCartID != "" {
		cart, err := u.guestCart(ctx, in.GuestCartID)
		if err != nil {
			return nil, err
		}
		guestCart = cart
	} else if err := u.requireCustomer(ctx, customerID); err != nil {
		return nil, err
	}
	wishlist, err := u.resolveWishlist(ctx, customerID, in.SharingCode)
	if err != nil {
		return nil, err
	}
	cart := guestCart
	if cart == nil {
		if cart, err = u.carts.GetOrCreateForCustomer(ctx, customerID); err != nil {
			return nil, err
		}
	}

	result := &MoveToCartResult{Cart: cart, Results: []domain.MergeResult{}}
	if wishlist == nil || len(wishlist.Items) == 0 {
		return result, nil
	}
	shared := in.SharingCode != ""

	// Snapshots: wishlist items by SKU (last one wins), cart lines by SKU.
	order := make([]string, 0, len(wishlist.Items))
	pending := make(map[string]domain.WishlistItem, len(wishlist.Items))
	for _, item := range wishlist.Items {
		if _, seen := pending[item.SKU]; !seen {
			order = append(order, item.SKU)
		}
		pending[item.SKU] = item
	}
	lines := make(map[string]int, len(cart.Items))
	for i, line := range cart.Items {
		if _, seen := lines[line.SKU]; !seen {
			lines[line.SKU] = i
		}
	}

	outcomes := make(map[string]domain.MergeResult, len(pending))
	for _, sku := range order {
		item := pending[sku]
		idx, ok := lines[sku]
		if !ok {
			continue
		}
		cart.Items[idx].Quantity = saturatingAdd(cart.Items[idx].Quantity, itemQty(item))
		outcomes[item.ID] = domain.MergeResult{ItemID: item.ID, SKU: sku, Outcome: domain.OutcomeMatched}
	}

	var messages []string
	for _, sku := range order {
		item := pending[sku]
		if _, done := outcomes[item.ID]; done {
			continue
		}
		r := u.insertItem(ctx, cart, item)
		outcomes[item.ID] = r
		if r.Message != "" {
			messages = append(messages, r.Message)
		}
	}

	// Deletion pass over the original item list.
	kept := make([]domain.WishlistItem, 0, len(wishlist.Items))
	for _, item := range wishlist.Items {
		r, attempted := outcomes[item.ID]
		if shared || (attempted && r.Outcome.Transferred()) {
			continue
		}
		kept = append(kept, item)
	}
	removed := len(wishlist.Items) - len(kept)
	wishlist.Items = kept

	if err := u.saveMove(ctx, cart, wishlist); err != nil {
		log.Error().Err(err).
			Str("wishlist_id", wishlist.ID).
			Str("cart_id", cart.ID).
			Msg("Failed to save wishlist move to cart")
		return nil, apperrors.Storage(msgMoveStorageFailed, err)
	}

	for _, sku := range order {
		r := outcomes[pending[sku].ID]
		result.Results = append(result.Results, r)
		metrics.WishlistMoveItems.WithLabelValues(string(r.Outcome)).Inc()
		log.Debug().
			Str("item_id", r.ItemID).
			Str("sku", r.SKU).
			Str("outcome", string(r.Outcome)).
			Msg("Wishlist item processed")
	}
	log.Info().
		Str("wishlist_id", wishlist.ID).
		Str("cart_id", cart.ID).
		Bool("shared", shared).
		Int("removed", removed).
		Int("failed", len(messages)).
		Msg("Wishlist moved to cart")

	if len(messages) > 0 {
		return result, apperrors.InvalidInput(aggregateMessages(messages))
	}
	return result, nil
}

// insertItem adds one unmatched wishlist item as a new cart line.
func (u *WishlistUsecase) insertItem(ctx context.Context, cart *domain.Cart, item domain.WishlistItem) domain.MergeResult {
	r := domain.MergeResult{ItemID: item.ID, SKU: item.SKU}
	fail := func(outcome domain.MergeOutcome, reason, name string) domain.MergeResult {
		r.Outcome = outcome
		r.Message = fmt.Sprintf("%s for \"%s\"", strings.TrimRight(reason, "."), name)
		return r
	}

	product, err := u.catalog.GetProductByID(ctx, item.ProductID)
	if err != nil || product == nil {
		if err != nil {
			logger.WithContext(ctx).Warn().Err(err).Str("product_id", item.ProductID).Msg("Product lookup failed")
		}
		return fail(domain.OutcomeTransferFailed, msgNotAvailable, item.SKU)
	}

	req, err := u.itemBuyRequest(ctx, item)
	if err != nil {
		return fail(domain.OutcomeTransferFailed, optionReason(err), product.Name)
	}

	stock, err := u.catalog.GetStockStatus(ctx, product.ID)
	if err != nil {
		logger.WithContext(ctx).Warn().Err(err).Str("product_id", product.ID).Msg("Stock status lookup failed")
		return fail(domain.OutcomeTransferFailed, msgNotAvailable, product.Name)
	}
	if stock.IsOutOfStock() {
		return fail(domain.OutcomeOutOfStock, msgOutOfStock, product.Name)
	}

	if err := u.lines.AddLine(ctx, cart, product, req); err != nil {
		var lineErr *domain.LineItemError
		if errors.As(err, &lineErr) {
			return fail(domain.OutcomeTransferFailed, lineErr.Reason, product.Name)
		}
		logger.WithContext(ctx).Error().Err(err).Str("item_id", item.ID).Msg("Adding cart line failed")
		return fail(domain.OutcomeTransferFailed, "Failed to add items to cart", product.Name)
	}

	r.Outcome = domain.OutcomeInserted
	return r
}

// itemBuyRequest accepts both a stored buy request and raw option tokens.
// Tokens win over stored values for the same option.
func (u *WishlistUsecase) itemBuyRequest(ctx context.Context, item domain.WishlistItem) (*domain.BuyRequest, error) {
	req, err := domain.DecodeBuyRequest(item.BuyRequest)
	if err != nil {
		return nil, err
	}
	if !item.Options.IsEmpty() {
		decoded, err := u.options.Build(ctx, item.Options, item.ProductID)
		if err != nil {
			return nil, err
		}
		req.Merge(decoded)
	}
	if req.Product == "" {
		req.Product = item.ProductID
	}
	req.Qty = itemQty(item)
	return req, nil
}

func optionReason(err error) string {
	var appErr *apperrors.AppError
	if errors.As(optionError(err), &appErr) && appErr.Code == "INVALID_INPUT" {
		return appErr.Message
	}
	return "The product options could not be read"
}

func (u *WishlistUsecase) guestCart(ctx context.Context, token string) (*domain.Cart, error) {
	cart, err := u.guestCarts.GetByToken(ctx, token)
	if err != nil {
		return nil, err
	}
	if cart == nil {
		return nil, apperrors.NotFound(fmt.Sprintf("Could not find a cart with ID \"%s\"", token))
	}
	return cart, nil
}

func (u *WishlistUsecase) requireCustomer(ctx context.Context, customerID string) error {
	if customerID == "" {
		return apperrors.Unauthorized(msgUserNotFound)
	}
	customer, err := u.customers.GetByID(ctx, customerID)
	if err != nil {
		return err
	}
	if customer == nil {
		return apperrors.Unauthorized(msgUserNotFound)
	}
	return nil
}

func (u *WishlistUsecase) resolveWishlist(ctx context.Context, customerID, sharingCode string) (*domain.Wishlist, error) {
	if sharingCode != "" {
		w, err := u.wishlists.GetBySharingCode(ctx, sharingCode)
		if err != nil {
			return nil, err
		}
		if w == nil || !w.IsShared() {
			return nil, apperrors.NotFound(msgSharedNotFound)
		}
		return w, nil
	}

	if customerID == "" {
		return nil, apperrors.Unauthorized(msgUserNotFound)
	}
	return u.wishlists.GetByCustomerID(ctx, customerID)
}

// saveMove persists the cart first, then the wishlist. Customer carts share
// a database transaction with the wishlist; guest carts live in Redis and
// are saved on their own.
func (u *WishlistUsecase) saveMove(ctx context.Context, cart *domain.Cart, w *domain.Wishlist) error {
	if cart.IsGuest() {
		if err := u.guestCarts.Save(ctx, cart); err != nil {
			return fmt.Errorf("save guest cart: %w", err)
		}
		return u.wishlists.Save(ctx, w)
	}
	return u.txManager.Do(ctx, func(ctx context.Context) error {
		if err := u.carts.Save(ctx, cart); err != nil {
			return fmt.Errorf("save cart: %w", err)
		}
		return u.wishlists.Save(ctx, w)
	})
}

func itemQty(item domain.WishlistItem) int {
	if item.Quantity < 1 {
		return 1
	}
	return item.Quantity
}

// aggregateMessages joins item messages as a JSON array, the format clients
// already parse.
func aggregateMessages(messages []string) string {
	b, err := json.Marshal(messages)
	if err != nil {
		return strings.Join(messages, "\n")
	}
	return string(b)
}
