package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"wishlist-backend/config"
	"wishlist-backend/internal/domain"

	"github.com/goccy/go-json"
	"github.com/redis/go-redis/v9"
)

const guestCartKeyPrefix = "guest_cart:"

// NewClient creates a Redis client and verifies the connection.
func NewClient(ctx context.Context, cfg *config.Config) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}

	return client, nil
}

// GuestCartRepository keeps anonymous carts in Redis under their guest token.
type GuestCartRepository struct {
	client *redis.Client
	ttl    time.Duration
}

func NewGuestCartRepository(client *redis.Client, ttl time.Duration) *GuestCartRepository {
	return &GuestCartRepository{client: client, ttl: ttl}
}

// GetByToken returns nil when no cart exists for the token.
func (r *GuestCartRepository) GetByToken(ctx context.Context, token string) (*domain.Cart, error) {
	data, err := r.client.Get(ctx, guestCartKeyPrefix+token).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("redis get guest cart: %w", err)
	}

	var cart domain.Cart
	if err := json.Unmarshal(data, &cart); err != nil {
		return nil, fmt.Errorf("unmarshal guest cart: %w", err)
	}
	// the token is the only owner of a guest cart
	cart.GuestToken = token
	cart.UserID = nil
	if cart.Items == nil {
		cart.Items = []domain.CartItem{}
	}
	return &cart, nil
}

// Save stores the cart and refreshes its TTL.
func (r *GuestCartRepository) Save(ctx context.Context, cart *domain.Cart) error {
	if cart.GuestToken == "" {
		return errors.New("guest cart has no token")
	}
	if !cart.IsGuest() {
		return errors.New("customer cart cannot be stored as a guest cart")
	}

	for i := range cart.Items {
		cart.Items[i].CartID = cart.ID
	}
	cart.UpdatedAt = time.Now().UTC()

	data, err := json.Marshal(cart)
	if err != nil {
		return fmt.Errorf("marshal guest cart: %w", err)
	}

	if err := r.client.Set(ctx, guestCartKeyPrefix+cart.GuestToken, data, r.ttl).Err(); err != nil {
		return fmt.Errorf("redis set guest cart: %w", err)
	}
	return nil
}
