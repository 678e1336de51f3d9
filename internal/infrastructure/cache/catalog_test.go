package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"wishlist-backend/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockCatalog struct {
	mock.Mock
}

func (m *mockCatalog) GetProductBySKU(ctx context.Context, sku string) (*domain.Product, error) {
	args := m.Called(ctx, sku)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Product), args.Error(1)
}

func (m *mockCatalog) GetProductByID(ctx context.Context, id string) (*domain.Product, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Product), args.Error(1)
}

func (m *mockCatalog) GetStockStatus(ctx context.Context, productID string) (domain.StockStatus, error) {
	args := m.Called(ctx, productID)
	return args.Get(0).(domain.StockStatus), args.Error(1)
}

func TestCatalogCache_CachesBySKUAndID(t *testing.T) {
	next := new(mockCatalog)
	c := NewCatalogCache(next, NewMemoryStore(time.Minute, time.Minute), time.Minute)
	ctx := context.Background()

	hat := &domain.Product{ID: "p-1", SKU: "HAT", Name: "Hat"}
	next.On("GetProductBySKU", ctx, "HAT").Return(hat, nil).Once()

	got, err := c.GetProductBySKU(ctx, "HAT")
	require.NoError(t, err)
	assert.Equal(t, "Hat", got.Name)

	got, err = c.GetProductBySKU(ctx, "HAT")
	require.NoError(t, err)
	assert.Equal(t, "Hat", got.Name)

	got, err = c.GetProductByID(ctx, "p-1")
	require.NoError(t, err)
	assert.Equal(t, "HAT", got.SKU)

	next.AssertExpectations(t)
}

func TestCatalogCache_ReturnsCopies(t *testing.T) {
	next := new(mockCatalog)
	c := NewCatalogCache(next, NewMemoryStore(time.Minute, time.Minute), time.Minute)
	ctx := context.Background()

	next.On("GetProductByID", ctx, "p-1").Return(&domain.Product{ID: "p-1", SKU: "HAT", Name: "Hat"}, nil).Once()

	first, err := c.GetProductByID(ctx, "p-1")
	require.NoError(t, err)
	first.Name = "changed"

	second, err := c.GetProductByID(ctx, "p-1")
	require.NoError(t, err)
	assert.Equal(t, "Hat", second.Name)
}

func TestCatalogCache_CopiesOptionSlices(t *testing.T) {
	next := new(mockCatalog)
	c := NewCatalogCache(next, NewMemoryStore(time.Minute, time.Minute), time.Minute)
	ctx := context.Background()

	next.On("GetProductBySKU", ctx, "TEE").Return(&domain.Product{
		ID:       "p-2",
		SKU:      "TEE",
		Variants: []domain.Variant{{ID: "v1", SKU: "TEE-S"}},
		Links:    []domain.DownloadableLink{{ID: "l1", Title: "Manual"}},
	}, nil).Once()

	_, err := c.GetProductBySKU(ctx, "TEE")
	require.NoError(t, err)

	cached, err := c.GetProductBySKU(ctx, "TEE")
	require.NoError(t, err)
	cached.Variants[0].SKU = "changed"
	cached.Links = append(cached.Links, domain.DownloadableLink{ID: "l2"})

	again, err := c.GetProductByID(ctx, "p-2")
	require.NoError(t, err)
	assert.Equal(t, "TEE-S", again.Variants[0].SKU)
	assert.Len(t, again.Links, 1)
	next.AssertExpectations(t)
}

func TestCatalogCache_MissesAndErrorsNotCached(t *testing.T) {
	next := new(mockCatalog)
	c := NewCatalogCache(next, NewMemoryStore(time.Minute, time.Minute), time.Minute)
	ctx := context.Background()

	next.On("GetProductBySKU", ctx, "GONE").Return(nil, nil).Twice()
	next.On("GetProductBySKU", ctx, "ERR").Return(nil, errors.New("db down")).Once()

	for i := 0; i < 2; i++ {
		p, err := c.GetProductBySKU(ctx, "GONE")
		require.NoError(t, err)
		assert.Nil(t, p)
	}
	_, err := c.GetProductBySKU(ctx, "ERR")
	assert.Error(t, err)

	next.AssertExpectations(t)
}

func TestCatalogCache_StockIsNotCached(t *testing.T) {
	next := new(mockCatalog)
	c := NewCatalogCache(next, NewMemoryStore(time.Minute, time.Minute), time.Minute)
	ctx := context.Background()

	next.On("GetStockStatus", ctx, "p-1").Return(domain.StockStatus{Status: domain.StockStatusInStock}, nil).Once()
	next.On("GetStockStatus", ctx, "p-1").Return(domain.StockStatus{Status: domain.StockStatusOutOfStock}, nil).Once()

	s, err := c.GetStockStatus(ctx, "p-1")
	require.NoError(t, err)
	assert.False(t, s.IsOutOfStock())

	s, err = c.GetStockStatus(ctx, "p-1")
	require.NoError(t, err)
	assert.True(t, s.IsOutOfStock())
}
