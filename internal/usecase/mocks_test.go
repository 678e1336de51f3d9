package usecase

import (
	"context"
	"testing"

	"wishlist-backend/internal/buyrequest"
	"wishlist-backend/internal/domain"
	"wishlist-backend/pkg/storage"

	"github.com/stretchr/testify/mock"
)

// --- Mock Repositories ---

type mockWishlistRepository struct {
	mock.Mock
}

func (m *mockWishlistRepository) GetByCustomerID(ctx context.Context, customerID string) (*domain.Wishlist, error) {
	args := m.Called(ctx, customerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Wishlist), args.Error(1)
}

func (m *mockWishlistRepository) GetBySharingCode(ctx context.Context, sharingCode string) (*domain.Wishlist, error) {
	args := m.Called(ctx, sharingCode)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Wishlist), args.Error(1)
}

func (m *mockWishlistRepository) Create(ctx context.Context, customerID string) (*domain.Wishlist, error) {
	args := m.Called(ctx, customerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Wishlist), args.Error(1)
}

func (m *mockWishlistRepository) GetItem(ctx context.Context, itemID string) (*domain.WishlistItem, string, error) {
	args := m.Called(ctx, itemID)
	if args.Get(0) == nil {
		return nil, args.String(1), args.Error(2)
	}
	return args.Get(0).(*domain.WishlistItem), args.String(1), args.Error(2)
}

func (m *mockWishlistRepository) Save(ctx context.Context, w *domain.Wishlist) error {
	args := m.Called(ctx, w)
	return args.Error(0)
}

type mockCartRepository struct {
	mock.Mock
}

func (m *mockCartRepository) GetOrCreateForCustomer(ctx context.Context, customerID string) (*domain.Cart, error) {
	args := m.Called(ctx, customerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Cart), args.Error(1)
}

func (m *mockCartRepository) Save(ctx context.Context, cart *domain.Cart) error {
	args := m.Called(ctx, cart)
	return args.Error(0)
}

type mockGuestCartRepository struct {
	mock.Mock
}

func (m *mockGuestCartRepository) GetByToken(ctx context.Context, token string) (*domain.Cart, error) {
	args := m.Called(ctx, token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Cart), args.Error(1)
}

func (m *mockGuestCartRepository) Save(ctx context.Context, cart *domain.Cart) error {
	args := m.Called(ctx, cart)
	return args.Error(0)
}

type mockCatalogRepository struct {
	mock.Mock
}

func (m *mockCatalogRepository) GetProductBySKU(ctx context.Context, sku string) (*domain.Product, error) {
	args := m.Called(ctx, sku)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Product), args.Error(1)
}

func (m *mockCatalogRepository) GetProductByID(ctx context.Context, id string) (*domain.Product, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Product), args.Error(1)
}

func (m *mockCatalogRepository) GetStockStatus(ctx context.Context, productID string) (domain.StockStatus, error) {
	args := m.Called(ctx, productID)
	return args.Get(0).(domain.StockStatus), args.Error(1)
}

type mockCustomerRepository struct {
	mock.Mock
}

func (m *mockCustomerRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

type mockShareNotifier struct {
	mock.Mock
}

func (m *mockShareNotifier) NotifyWishlistShared(ctx context.Context, n domain.ShareNotification) error {
	args := m.Called(ctx, n)
	return args.Error(0)
}

// passthroughTx runs fn directly.
type passthroughTx struct{}

func (passthroughTx) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

// --- Test Helpers ---

type testDeps struct {
	wishlists  *mockWishlistRepository
	carts      *mockCartRepository
	guestCarts *mockGuestCartRepository
	catalog    *mockCatalogRepository
	customers  *mockCustomerRepository
	notifier   *mockShareNotifier
	mediaRoot  string
}

func newTestUsecase(t *testing.T) (*WishlistUsecase, *testDeps) {
	t.Helper()
	d := &testDeps{
		wishlists:  new(mockWishlistRepository),
		carts:      new(mockCartRepository),
		guestCarts: new(mockGuestCartRepository),
		catalog:    new(mockCatalogRepository),
		customers:  new(mockCustomerRepository),
		notifier:   new(mockShareNotifier),
		mediaRoot:  t.TempDir(),
	}
	prices := DefaultPriceStrategies()
	uc := NewWishlistUsecase(
		d.wishlists,
		d.carts,
		d.guestCarts,
		d.catalog,
		d.customers,
		passthroughTx{},
		buyrequest.NewDefaultBuilder(storage.NewLocalStorage(d.mediaRoot), 1<<20),
		NewCartLineAdder(1000, prices),
		d.notifier,
		prices,
		"https://shop.example.com/",
	)
	return uc, d
}

func simpleProduct(id, sku, name string) *domain.Product {
	return &domain.Product{
		ID:        id,
		SKU:       sku,
		Name:      name,
		Type:      domain.ProductTypeSimple,
		BasePrice: 10,
		IsVisible: true,
	}
}

func inStock() domain.StockStatus {
	return domain.StockStatus{Status: domain.StockStatusInStock, Qty: 100}
}

func outOfStock() domain.StockStatus {
	return domain.StockStatus{Status: domain.StockStatusOutOfStock}
}

var customer = &domain.User{ID: "cust-1", Email: "jane@example.com", FirstName: "Jane", LastName: "Doe"}
