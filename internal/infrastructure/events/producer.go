package events

import (
	"context"
	"fmt"
	"time"

	"wishlist-backend/pkg/logger"
	"wishlist-backend/pkg/metrics"

	"github.com/goccy/go-json"
	"github.com/segmentio/kafka-go"
)

// messageWriter is the part of *kafka.Writer the producer needs.
type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// Producer publishes events to Kafka, keyed by aggregate id.
type Producer struct {
	writer messageWriter
}

func NewProducer(brokers []string) *Producer {
	return &Producer{
		writer: &kafka.Writer{
			Addr:         kafka.TCP(brokers...),
			Balancer:     &kafka.LeastBytes{},
			BatchTimeout: 10 * time.Millisecond,
			RequiredAcks: kafka.RequireAll,
		},
	}
}

func (p *Producer) Publish(ctx context.Context, topic string, event *Event) error {
	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}

	msg := kafka.Message{
		Topic: topic,
		Key:   []byte(event.AggregateID),
		Value: data,
		Headers: []kafka.Header{
			{Key: "event_type", Value: []byte(event.EventType)},
			{Key: "source", Value: []byte(event.Source)},
		},
	}

	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		metrics.ProducerPublishErrors.WithLabelValues(topic).Inc()
		logger.WithContext(ctx).Error().Err(err).
			Str("topic", topic).
			Str("event_type", event.EventType).
			Msg("Failed to publish event")
		return fmt.Errorf("publish event to %s: %w", topic, err)
	}

	metrics.ProducerMessagesPublished.WithLabelValues(topic).Inc()
	logger.WithContext(ctx).Debug().
		Str("topic", topic).
		Str("event_type", event.EventType).
		Str("aggregate_id", event.AggregateID).
		Msg("Event published")
	return nil
}

// Close flushes pending messages.
func (p *Producer) Close() error {
	return p.writer.Close()
}
