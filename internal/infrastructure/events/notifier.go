package events

import (
	"context"
	"fmt"

	"wishlist-backend/internal/domain"
	"wishlist-backend/pkg/logger"
)

// Publisher sends an event to a topic.
type Publisher interface {
	Publish(ctx context.Context, topic string, event *Event) error
}

// ShareNotifier hands wishlist share notifications to the mailer through
// Kafka, one event per recipient.
type ShareNotifier struct {
	publisher Publisher
}

func NewShareNotifier(publisher Publisher) *ShareNotifier {
	return &ShareNotifier{publisher: publisher}
}

func (n *ShareNotifier) NotifyWishlistShared(ctx context.Context, s domain.ShareNotification) error {
	event, err := NewEvent(EventWishlistShared, s.WishlistID, "wishlist", s)
	if err != nil {
		return fmt.Errorf("build share event: %w", err)
	}
	return n.publisher.Publish(ctx, TopicWishlist, event)
}

// LogShareNotifier only logs notifications. Used when no brokers are configured.
type LogShareNotifier struct{}

func (LogShareNotifier) NotifyWishlistShared(ctx context.Context, s domain.ShareNotification) error {
	logger.WithContext(ctx).Info().
		Str("wishlist_id", s.WishlistID).
		Str("recipient", s.Recipient).
		Str("view_url", s.ViewURL).
		Msg("Wishlist share notification (not delivered, no broker configured)")
	return nil
}
