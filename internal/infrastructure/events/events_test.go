package events

import (
	"context"
	"errors"
	"testing"

	"wishlist-backend/internal/domain"

	"github.com/goccy/go-json"
	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeWriter struct {
	msgs   []kafka.Message
	err    error
	closed bool
}

func (w *fakeWriter) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	if w.err != nil {
		return w.err
	}
	w.msgs = append(w.msgs, msgs...)
	return nil
}

func (w *fakeWriter) Close() error {
	w.closed = true
	return nil
}

func TestShareNotifier_PublishesEvent(t *testing.T) {
	w := &fakeWriter{}
	n := NewShareNotifier(&Producer{writer: w})

	err := n.NotifyWishlistShared(context.Background(), domain.ShareNotification{
		WishlistID:   "w-1",
		CustomerName: "Jane Doe",
		Recipient:    "friend@example.com",
		ViewURL:      "https://shop.example.com/wishlist/shared/abc",
		ItemsCount:   2,
	})
	require.NoError(t, err)
	require.Len(t, w.msgs, 1)

	msg := w.msgs[0]
	assert.Equal(t, TopicWishlist, msg.Topic)
	assert.Equal(t, "w-1", string(msg.Key))
	assert.Equal(t, "event_type", msg.Headers[0].Key)
	assert.Equal(t, EventWishlistShared, string(msg.Headers[0].Value))

	var event Event
	require.NoError(t, json.Unmarshal(msg.Value, &event))
	assert.Equal(t, EventWishlistShared, event.EventType)
	assert.Equal(t, "wishlist", event.AggregateType)
	assert.NotEmpty(t, event.EventID)

	var payload domain.ShareNotification
	require.NoError(t, json.Unmarshal(event.Data, &payload))
	assert.Equal(t, "friend@example.com", payload.Recipient)
	assert.Equal(t, 2, payload.ItemsCount)
}

func TestProducer_PublishError(t *testing.T) {
	w := &fakeWriter{err: errors.New("broker unavailable")}
	p := &Producer{writer: w}

	event, err := NewEvent(EventWishlistShared, "w-1", "wishlist", map[string]string{})
	require.NoError(t, err)

	err = p.Publish(context.Background(), TopicWishlist, event)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "publish event to wishlist.events")
}

func TestProducer_Close(t *testing.T) {
	w := &fakeWriter{}
	require.NoError(t, (&Producer{writer: w}).Close())
	assert.True(t, w.closed)
}

func TestLogShareNotifier(t *testing.T) {
	assert.NoError(t, LogShareNotifier{}.NotifyWishlistShared(context.Background(), domain.ShareNotification{WishlistID: "w-1"}))
}
