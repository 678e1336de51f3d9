package v1

import (
	"context"
	"errors"
	"net/http"

	"wishlist-backend/internal/domain"
	"wishlist-backend/internal/usecase"
	"wishlist-backend/pkg/apperrors"
	"wishlist-backend/pkg/utils"
	"wishlist-backend/pkg/validator"
)

// WishlistService is the wishlist use case as seen by the HTTP layer.
type WishlistService interface {
	GetWishlist(ctx context.Context, customerID string) (*usecase.WishlistView, error)
	GetSharedWishlist(ctx context.Context, sharingCode string) (*usecase.WishlistView, error)
	AddItem(ctx context.Context, customerID string, in usecase.AddItemInput) (*domain.WishlistItem, error)
	UpdateItem(ctx context.Context, customerID, itemID string, in usecase.UpdateItemInput) (*domain.WishlistItem, error)
	RemoveItem(ctx context.Context, customerID, itemID string) error
	ClearWishlist(ctx context.Context, customerID string) error
	ShareWishlist(ctx context.Context, customerID string, in usecase.ShareWishlistInput) (*usecase.ShareResult, error)
	MoveWishlistToCart(ctx context.Context, customerID string, in usecase.MoveToCartInput) (*usecase.MoveToCartResult, error)
}

type WishlistHandler struct {
	usecase WishlistService
}

func NewWishlistHandler(usecase WishlistService) *WishlistHandler {
	return &WishlistHandler{usecase: usecase}
}

// Register mounts the wishlist routes. auth and optionalAuth wrap the routes
// that need or accept a customer.
func (h *WishlistHandler) Register(mux *http.ServeMux, auth, optionalAuth func(http.Handler) http.Handler) {
	mux.Handle("GET /api/v1/wishlist", auth(http.HandlerFunc(h.GetMyWishlist)))
	mux.HandleFunc("GET /api/v1/wishlist/shared/{code}", h.GetSharedWishlist)
	mux.Handle("POST /api/v1/wishlist/items", auth(http.HandlerFunc(h.AddItem)))
	mux.Handle("PATCH /api/v1/wishlist/items/{itemId}", auth(http.HandlerFunc(h.UpdateItem)))
	mux.Handle("DELETE /api/v1/wishlist/items/{itemId}", auth(http.HandlerFunc(h.RemoveItem)))
	mux.Handle("DELETE /api/v1/wishlist", auth(http.HandlerFunc(h.ClearWishlist)))
	mux.Handle("POST /api/v1/wishlist/share", auth(http.HandlerFunc(h.ShareWishlist)))
	mux.Handle("POST /api/v1/wishlist/move-to-cart", optionalAuth(http.HandlerFunc(h.MoveToCart)))
}

func (h *WishlistHandler) GetMyWishlist(w http.ResponseWriter, r *http.Request) {
	view, err := h.usecase.GetWishlist(r.Context(), customerID(r))
	if err != nil {
		utils.WriteAppError(w, r, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, view)
}

func (h *WishlistHandler) GetSharedWishlist(w http.ResponseWriter, r *http.Request) {
	view, err := h.usecase.GetSharedWishlist(r.Context(), r.PathValue("code"))
	if err != nil {
		utils.WriteAppError(w, r, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, view)
}

func (h *WishlistHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	var req usecase.AddItemInput
	if err := decode(r, &req); err != nil {
		utils.WriteAppError(w, r, err)
		return
	}

	item, err := h.usecase.AddItem(r.Context(), customerID(r), req)
	if err != nil {
		utils.WriteAppError(w, r, err)
		return
	}
	utils.WriteJSON(w, http.StatusCreated, item)
}

func (h *WishlistHandler) UpdateItem(w http.ResponseWriter, r *http.Request) {
	var req usecase.UpdateItemInput
	if err := decode(r, &req); err != nil {
		utils.WriteAppError(w, r, err)
		return
	}

	item, err := h.usecase.UpdateItem(r.Context(), customerID(r), r.PathValue("itemId"), req)
	if err != nil {
		utils.WriteAppError(w, r, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, item)
}

func (h *WishlistHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	if err := h.usecase.RemoveItem(r.Context(), customerID(r), r.PathValue("itemId")); err != nil {
		utils.WriteAppError(w, r, err)
		return
	}
	utils.WriteSuccess(w)
}

func (h *WishlistHandler) ClearWishlist(w http.ResponseWriter, r *http.Request) {
	if err := h.usecase.ClearWishlist(r.Context(), customerID(r)); err != nil {
		utils.WriteAppError(w, r, err)
		return
	}
	utils.WriteSuccess(w)
}

func (h *WishlistHandler) ShareWishlist(w http.ResponseWriter, r *http.Request) {
	var req usecase.ShareWishlistInput
	if err := decode(r, &req); err != nil {
		utils.WriteAppError(w, r, err)
		return
	}

	res, err := h.usecase.ShareWishlist(r.Context(), customerID(r), req)
	if err != nil {
		utils.WriteAppError(w, r, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, map[string]any{
		"success":     true,
		"sharingCode": res.SharingCode,
		"sent":        res.Sent,
	})
}

// MoveToCart reports per-item results also when some items failed; the
// request then answers 400 with the aggregated messages.
func (h *WishlistHandler) MoveToCart(w http.ResponseWriter, r *http.Request) {
	var req usecase.MoveToCartInput
	if r.ContentLength != 0 {
		if err := decode(r, &req); err != nil {
			utils.WriteAppError(w, r, err)
			return
		}
	}

	res, err := h.usecase.MoveWishlistToCart(r.Context(), customerID(r), req)
	if err != nil && res == nil {
		utils.WriteAppError(w, r, err)
		return
	}
	if err != nil {
		utils.WriteJSON(w, apperrors.HTTPStatus(err), map[string]any{
			"error":   apperrors.PublicMessage(err),
			"code":    apperrors.Code(err),
			"cart":    res.Cart,
			"results": res.Results,
		})
		return
	}

	utils.WriteJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"cart":    res.Cart,
		"results": res.Results,
	})
}

func customerID(r *http.Request) string {
	if u, ok := domain.UserFromContext(r.Context()); ok {
		return u.ID
	}
	return ""
}

// decode reads and validates a JSON body, mapping failures to InvalidInput.
func decode(r *http.Request, dst any) error {
	err := validator.DecodeAndValidate(r, dst)
	if err == nil {
		return nil
	}
	var verr *validator.ValidationError
	if errors.As(err, &verr) {
		return apperrors.InvalidInput(verr.Error())
	}
	return apperrors.InvalidInput("Invalid request payload")
}
