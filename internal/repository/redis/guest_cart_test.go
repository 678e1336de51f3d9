package redis

import (
	"context"
	"testing"
	"time"

	"wishlist-backend/internal/domain"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupGuestCarts(t *testing.T) (*GuestCartRepository, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return NewGuestCartRepository(client, time.Hour), mr
}

func TestGuestCartRepository_SaveAndGet(t *testing.T) {
	repo, mr := setupGuestCarts(t)
	ctx := context.Background()

	cart := &domain.Cart{
		ID:         "cart-g",
		GuestToken: "tok-1",
		Items: []domain.CartItem{
			{ID: "l-1", ProductID: "p-1", SKU: "HAT", Name: "Hat", Quantity: 2, Price: 10, BuyRequest: `{"qty":2}`},
		},
	}
	require.NoError(t, repo.Save(ctx, cart))

	assert.True(t, mr.Exists("guest_cart:tok-1"))
	assert.Equal(t, time.Hour, mr.TTL("guest_cart:tok-1"))

	got, err := repo.GetByToken(ctx, "tok-1")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.True(t, got.IsGuest())
	assert.Equal(t, "tok-1", got.GuestToken)
	require.Len(t, got.Items, 1)
	assert.Equal(t, "cart-g", got.Items[0].CartID)
	assert.Equal(t, 2, got.Items[0].Quantity)
}

func TestGuestCartRepository_GetByToken_Missing(t *testing.T) {
	repo, _ := setupGuestCarts(t)

	got, err := repo.GetByToken(context.Background(), "nope")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestGuestCartRepository_GetByToken_IgnoresStoredUserID(t *testing.T) {
	repo, mr := setupGuestCarts(t)
	require.NoError(t, mr.Set("guest_cart:tok-1", `{"id":"cart-g","userId":"cust-9","items":[]}`))

	got, err := repo.GetByToken(context.Background(), "tok-1")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Nil(t, got.UserID)
	assert.True(t, got.IsGuest())
	assert.Equal(t, "tok-1", got.GuestToken)
}

func TestGuestCartRepository_Save_RejectsCustomerCart(t *testing.T) {
	repo, mr := setupGuestCarts(t)
	owner := "cust-1"

	err := repo.Save(context.Background(), &domain.Cart{ID: "cart-1", GuestToken: "tok-1", UserID: &owner})
	require.Error(t, err)
	assert.False(t, mr.Exists("guest_cart:tok-1"))
}

func TestGuestCartRepository_GetByToken_Corrupt(t *testing.T) {
	repo, mr := setupGuestCarts(t)
	require.NoError(t, mr.Set("guest_cart:tok-1", "{not json"))

	_, err := repo.GetByToken(context.Background(), "tok-1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unmarshal guest cart")
}

func TestGuestCartRepository_Save_Expires(t *testing.T) {
	repo, mr := setupGuestCarts(t)
	ctx := context.Background()

	require.NoError(t, repo.Save(ctx, &domain.Cart{ID: "cart-g", GuestToken: "tok-1"}))
	mr.FastForward(2 * time.Hour)

	got, err := repo.GetByToken(ctx, "tok-1")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestGuestCartRepository_Save_RequiresToken(t *testing.T) {
	repo, _ := setupGuestCarts(t)

	err := repo.Save(context.Background(), &domain.Cart{ID: "cart-g"})
	assert.Error(t, err)
}

func TestGuestCartRepository_RedisDown(t *testing.T) {
	repo, mr := setupGuestCarts(t)
	mr.Close()

	_, err := repo.GetByToken(context.Background(), "tok-1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "redis get guest cart")
}
