package postgres

import (
	"context"
	"fmt"

	"wishlist-backend/internal/domain"

	"github.com/goccy/go-json"
	"github.com/jackc/pgx/v5"
)

const productColumns = `id, sku, name, slug, type, base_price, sale_price, is_visible, stock_status, stock,
	variants, bundle_options, links, custom_options, created_at, updated_at`

type catalogRepository struct {
	db DBTX
}

func NewCatalogRepository(db DBTX) domain.CatalogRepository {
	return &catalogRepository{db: db}
}

func (r *catalogRepository) GetProductBySKU(ctx context.Context, sku string) (*domain.Product, error) {
	row := conn(ctx, r.db).QueryRow(ctx, `SELECT `+productColumns+` FROM products WHERE sku = $1`, sku)
	return scanProduct(row)
}

func (r *catalogRepository) GetProductByID(ctx context.Context, id string) (*domain.Product, error) {
	row := conn(ctx, r.db).QueryRow(ctx, `SELECT `+productColumns+` FROM products WHERE id = $1`, id)
	return scanProduct(row)
}

// GetStockStatus reads the live stock signal. A product that no longer
// exists reports out of stock.
func (r *catalogRepository) GetStockStatus(ctx context.Context, productID string) (domain.StockStatus, error) {
	var s domain.StockStatus
	err := conn(ctx, r.db).QueryRow(ctx,
		`SELECT stock_status, stock FROM products WHERE id = $1`, productID,
	).Scan(&s.Status, &s.Qty)
	if err != nil {
		if isNoRows(err) {
			return domain.StockStatus{Status: domain.StockStatusOutOfStock}, nil
		}
		return domain.StockStatus{}, fmt.Errorf("get stock status: %w", err)
	}
	return s, nil
}

func scanProduct(row pgx.Row) (*domain.Product, error) {
	var (
		p                                       domain.Product
		variants, bundles, links, customOptions []byte
	)
	err := row.Scan(
		&p.ID, &p.SKU, &p.Name, &p.Slug, &p.Type, &p.BasePrice, &p.SalePrice, &p.IsVisible,
		&p.StockStatus, &p.Stock, &variants, &bundles, &links, &customOptions,
		&p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get product: %w", err)
	}

	for _, col := range []struct {
		name string
		raw  []byte
		dst  any
	}{
		{"variants", variants, &p.Variants},
		{"bundle_options", bundles, &p.BundleOptions},
		{"links", links, &p.Links},
		{"custom_options", customOptions, &p.CustomOptions},
	} {
		if len(col.raw) == 0 {
			continue
		}
		if err := json.Unmarshal(col.raw, col.dst); err != nil {
			return nil, fmt.Errorf("unmarshal product %s: %w", col.name, err)
		}
	}
	return &p, nil
}
