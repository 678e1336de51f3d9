package middleware

import (
	"context"
	"net/http"

	"wishlist-backend/internal/domain"
	"wishlist-backend/pkg/apperrors"
	"wishlist-backend/pkg/utils"
)

// AuthMiddleware rejects requests without a valid access token.
func AuthMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := utils.TokenFromRequest(r)
		if token == "" {
			utils.WriteAppError(w, r, apperrors.Unauthorized("No token provided"))
			return
		}

		claims, err := utils.ValidateJWT(token)
		if err != nil {
			utils.WriteAppError(w, r, apperrors.Unauthorized("Invalid token"))
			return
		}

		next.ServeHTTP(w, r.WithContext(withUser(r.Context(), claims)))
	})
}

// OptionalAuthMiddleware lets anonymous requests through but still rejects a
// token that is present and invalid, so a stale session is not silently
// treated as a guest.
func OptionalAuthMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := utils.TokenFromRequest(r)
		if token == "" {
			next.ServeHTTP(w, r)
			return
		}

		claims, err := utils.ValidateJWT(token)
		if err != nil {
			utils.WriteAppError(w, r, apperrors.Unauthorized("Invalid token"))
			return
		}

		next.ServeHTTP(w, r.WithContext(withUser(r.Context(), claims)))
	})
}

// withUser stores a partial user built from the token claims; use cases load
// the full customer when they need more.
func withUser(ctx context.Context, claims *utils.Claims) context.Context {
	return context.WithValue(ctx, domain.UserContextKey, &domain.User{
		ID:    claims.UserID,
		Email: claims.Email,
		Role:  claims.Role,
	})
}
