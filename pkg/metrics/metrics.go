package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	HTTPRequestsInFlight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "http_requests_in_flight",
			Help: "Current number of HTTP requests being served",
		},
	)

	// WishlistMoveItems counts wishlist items by their move-to-cart outcome.
	WishlistMoveItems = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "wishlist_move_items_total",
			Help: "Wishlist items processed by move to cart, by outcome",
		},
		[]string{"outcome"},
	)

	// WishlistShareNotifications counts share notifications by result.
	WishlistShareNotifications = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "wishlist_share_notifications_total",
			Help: "Wishlist share notifications, by result",
		},
		[]string{"result"},
	)

	ProducerMessagesPublished = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "kafka_producer_messages_published_total",
			Help: "Total number of Kafka messages published",
		},
		[]string{"topic"},
	)

	ProducerPublishErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "kafka_producer_publish_errors_total",
			Help: "Total number of Kafka publish errors",
		},
		[]string{"topic"},
	)

	CatalogCacheLookups = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "catalog_cache_lookups_total",
			Help: "Product cache lookups, by result",
		},
		[]string{"result"},
	)
)
