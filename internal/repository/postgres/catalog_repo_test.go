package postgres

import (
	"context"
	"testing"
	"time"

	"wishlist-backend/internal/domain"

	"github.com/jackc/pgx/v5"
	pgxmock "github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func productCols() []string {
	return []string{
		"id", "sku", "name", "slug", "type", "base_price", "sale_price", "is_visible", "stock_status", "stock",
		"variants", "bundle_options", "links", "custom_options", "created_at", "updated_at",
	}
}

func TestCatalogRepository_GetProductBySKU(t *testing.T) {
	mock := newMockPool(t)
	repo := NewCatalogRepository(mock)
	now := time.Now().UTC().Truncate(time.Microsecond)

	variants := []byte(`[{"id":"v-1","sku":"TEE-M","attributes":{"93":51},"price":25}]`)
	mock.ExpectQuery("FROM products WHERE sku =").
		WithArgs("TEE").
		WillReturnRows(pgxmock.NewRows(productCols()).AddRow(
			"p-1", "TEE", "Tee", "tee", domain.ProductTypeConfigurable, 20.0, nil, true, "in_stock", 5,
			variants, []byte(`[]`), []byte(`[]`), []byte(`[]`), now, now,
		))

	p, err := repo.GetProductBySKU(context.Background(), "TEE")
	require.NoError(t, err)
	require.NotNil(t, p)
	assert.Equal(t, domain.ProductTypeConfigurable, p.Type)
	assert.Nil(t, p.SalePrice)
	require.Len(t, p.Variants, 1)
	v := p.FindVariant(map[string]int{"93": 51})
	require.NotNil(t, v)
	assert.Equal(t, "TEE-M", v.SKU)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCatalogRepository_GetProductByID_NotFound(t *testing.T) {
	mock := newMockPool(t)
	repo := NewCatalogRepository(mock)

	mock.ExpectQuery("FROM products WHERE id =").
		WithArgs("missing").
		WillReturnError(pgx.ErrNoRows)

	p, err := repo.GetProductByID(context.Background(), "missing")
	require.NoError(t, err)
	assert.Nil(t, p)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCatalogRepository_GetProductByID_BadJSON(t *testing.T) {
	mock := newMockPool(t)
	repo := NewCatalogRepository(mock)
	now := time.Now().UTC().Truncate(time.Microsecond)

	mock.ExpectQuery("FROM products WHERE id =").
		WithArgs("p-1").
		WillReturnRows(pgxmock.NewRows(productCols()).AddRow(
			"p-1", "KIT", "Kit", "kit", domain.ProductTypeBundle, 5.0, nil, true, "in_stock", 5,
			[]byte(`[]`), []byte(`{broken`), []byte(`[]`), []byte(`[]`), now, now,
		))

	_, err := repo.GetProductByID(context.Background(), "p-1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "bundle_options")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCatalogRepository_GetStockStatus(t *testing.T) {
	mock := newMockPool(t)
	repo := NewCatalogRepository(mock)

	mock.ExpectQuery("SELECT stock_status, stock FROM products").
		WithArgs("p-1").
		WillReturnRows(pgxmock.NewRows([]string{"stock_status", "stock"}).AddRow("out_of_stock", 0))
	mock.ExpectQuery("SELECT stock_status, stock FROM products").
		WithArgs("gone").
		WillReturnError(pgx.ErrNoRows)

	s, err := repo.GetStockStatus(context.Background(), "p-1")
	require.NoError(t, err)
	assert.True(t, s.IsOutOfStock())

	s, err = repo.GetStockStatus(context.Background(), "gone")
	require.NoError(t, err)
	assert.True(t, s.IsOutOfStock())
	assert.NoError(t, mock.ExpectationsWereMet())
}
