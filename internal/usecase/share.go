package usecase

import (
	"context"
	"fmt"
	"html"
	"strings"

	"wishlist-backend/internal/domain"
	"wishlist-backend/pkg/apperrors"
	"wishlist-backend/pkg/logger"
	"wishlist-backend/pkg/metrics"
	"wishlist-backend/pkg/validator"

	"github.com/google/uuid"
)

type ShareWishlistInput struct {
	Emails  []string `json:"emails"`
	Message string   `json:"message"`
}

type ShareResult struct {
	SharingCode string `json:"sharingCode"`
	Sent        int    `json:"sent"`
}

// ShareWishlist notifies every recipient about the caller's wishlist. All
// addresses are validated before anything is sent. The share count grows by
// the number of notifications sent, also when a send fails midway.
func (u *WishlistUsecase) ShareWishlist(ctx context.Context, customerID string, in ShareWishlistInput) (*ShareResult, error) {
	if customerID == "" {
		return nil, apperrors.Unauthorized(msgAuthorizationUnsuccessful)
	}
	customer, err := u.customers.GetByID(ctx, customerID)
	if err != nil {
		return nil, err
	}
	if customer == nil {
		return nil, apperrors.Unauthorized(msgAuthorizationUnsuccessful)
	}

	recipients, err := normalizeEmails(in.Emails)
	if err != nil {
		return nil, err
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
	if w.SharingCode == "" {
		w.SharingCode = strings.ReplaceAll(uuid.NewString(), "-", "")
	}

	message := nl2br(html.EscapeString(in.Message))
	link := strings.TrimSuffix(u.frontendURL, "/") + "/wishlist/shared/" + w.SharingCode

	sent := 0
	var sendErr error
	for _, recipient := range recipients {
		err := u.notifier.NotifyWishlistShared(ctx, domain.ShareNotification{
			WishlistID:    w.ID,
			CustomerName:  customer.FullName(),
			CustomerEmail: customer.Email,
			Recipient:     recipient,
			Message:       message,
			ViewURL:       link,
			ItemsCount:    len(w.Items),
		})
		if err != nil {
			metrics.WishlistShareNotifications.WithLabelValues("failed").Inc()
			sendErr = err
			break
		}
		metrics.WishlistShareNotifications.WithLabelValues("sent").Inc()
		sent++
	}

	w.ShareCount += sent
	if err := u.wishlists.Save(ctx, w); err != nil {
		return nil, apperrors.Storage("There was an error when trying to share wishlist", err)
	}

	if sendErr != nil {
		logger.WithContext(ctx).Error().Err(sendErr).
			Str("wishlist_id", w.ID).
			Int("sent", sent).
			Msg("Wishlist share notification failed")
		return nil, apperrors.Internal(fmt.Errorf("notify wishlist shared: %w", sendErr))
	}

	logger.WithContext(ctx).Info().
		Str("wishlist_id", w.ID).
		Int("sent", sent).
		Msg("Wishlist shared")
	return &ShareResult{SharingCode: w.SharingCode, Sent: sent}, nil
}

// normalizeEmails trims and de-duplicates the addresses, rejecting the whole
// list when one is invalid.
func normalizeEmails(emails []string) ([]string, error) {
	seen := make(map[string]struct{}, len(emails))
	out := make([]string, 0, len(emails))
	for _, email := range emails {
		email = strings.TrimSpace(email)
		if _, dup := seen[email]; dup {
			continue
		}
		if err := validator.ValidateVar(email, "required,email"); err != nil {
			return nil, apperrors.InvalidInput("Provided emails are not valid")
		}
		seen[email] = struct{}{}
		out = append(out, email)
	}
	if len(out) == 0 {
		return nil, apperrors.InvalidInput("Provided emails are not valid")
	}
	return out, nil
}

var lineBreaks = strings.NewReplacer("\r\n", "<br />\r\n", "\n", "<br />\n", "\r", "<br />\r")

func nl2br(s string) string {
	return lineBreaks.Replace(s)
}
