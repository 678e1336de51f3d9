package domain

import (
	"context"
	"time"
)

// --- Interfaces ---

type TransactionManager interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
}

// Product types
const (
	ProductTypeSimple       = "simple"
	ProductTypeVirtual      = "virtual"
	ProductTypeConfigurable = "configurable"
	ProductTypeBundle       = "bundle"
	ProductTypeDownloadable = "downloadable"
	ProductTypeGrouped      = "grouped"
)

// Stock statuses
const (
	StockStatusInStock    = "in_stock"
	StockStatusOutOfStock = "out_of_stock"
	StockStatusPreOrder   = "pre_order"
)

type Product struct {
	ID          string   `json:"id"`
	SKU         string   `json:"sku"`
	Name        string   `json:"name"`
	Slug        string   `json:"slug"`
	Type        string   `json:"type"`
	BasePrice   float64  `json:"basePrice"`
	SalePrice   *float64 `json:"salePrice"`
	IsVisible   bool     `json:"isVisible"`
	StockStatus string   `json:"stockStatus"`
	Stock       int      `json:"stock"`

	Variants      []Variant          `json:"variants"`
	BundleOptions []BundleOption     `json:"bundleOptions"`
	Links         []DownloadableLink `json:"links"`
	CustomOptions []CustomOption     `json:"customOptions"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// FinalPrice is the sale price when set, the base price otherwise.
func (p *Product) FinalPrice() float64 {
	if p.SalePrice != nil {
		return *p.SalePrice
	}
	return p.BasePrice
}

// FindVariant returns the variant whose attributes match every selected
// super attribute value.
func (p *Product) FindVariant(superAttribute map[string]int) *Variant {
	if len(superAttribute) == 0 {
		return nil
	}
	for i := range p.Variants {
		v := &p.Variants[i]
		if len(v.Attributes) != len(superAttribute) {
			continue
		}
		match := true
		for attr, value := range superAttribute {
			if v.Attributes[attr] != value {
				match = false
				break
			}
		}
		if match {
			return v
		}
	}
	return nil
}

func (p *Product) FindBundleOption(id string) *BundleOption {
	for i := range p.BundleOptions {
		if p.BundleOptions[i].ID == id {
			return &p.BundleOptions[i]
		}
	}
	return nil
}

func (p *Product) FindLink(id string) *DownloadableLink {
	for i := range p.Links {
		if p.Links[i].ID == id {
			return &p.Links[i]
		}
	}
	return nil
}

func (p *Product) FindCustomOption(id string) *CustomOption {
	for i := range p.CustomOptions {
		if p.CustomOptions[i].ID == id {
			return &p.CustomOptions[i]
		}
	}
	return nil
}

// Variant is a child product of a configurable product. Attributes maps a
// super attribute id to the selected option value id.
type Variant struct {
	ID         string         `json:"id"`
	ProductID  string         `json:"productId"`
	Name       string         `json:"name"`
	SKU        string         `json:"sku"`
	Stock      int            `json:"stock"`
	Attributes map[string]int `json:"attributes"`
	Price      *float64       `json:"price"` // Override base price
}

type BundleOption struct {
	ID         string            `json:"id"`
	Title      string            `json:"title"`
	Required   bool              `json:"required"`
	Selections []BundleSelection `json:"selections"`
}

func (o *BundleOption) FindSelection(id string) *BundleSelection {
	for i := range o.Selections {
		if o.Selections[i].ID == id {
			return &o.Selections[i]
		}
	}
	return nil
}

type BundleSelection struct {
	ID        string  `json:"id"`
	ProductID string  `json:"productId"`
	Name      string  `json:"name"`
	Price     float64 `json:"price"`
}

type DownloadableLink struct {
	ID    string  `json:"id"`
	Title string  `json:"title"`
	Price float64 `json:"price"`
}

type CustomOption struct {
	ID     string              `json:"id"`
	Title  string              `json:"title"`
	Type   string              `json:"type"` // field, area, file, drop_down, checkbox...
	Price  float64             `json:"price"`
	Values []CustomOptionValue `json:"values"`
}

func (o *CustomOption) FindValue(id string) *CustomOptionValue {
	for i := range o.Values {
		if o.Values[i].ID == id {
			return &o.Values[i]
		}
	}
	return nil
}

type CustomOptionValue struct {
	ID    string  `json:"id"`
	Title string  `json:"title"`
	Price float64 `json:"price"`
}

// StockStatus is the catalog's availability signal for a product.
type StockStatus struct {
	Status string `json:"status"`
	Qty    int    `json:"qty"`
}

// IsOutOfStock is true only for an explicit out-of-stock status.
func (s StockStatus) IsOutOfStock() bool {
	return s.Status == StockStatusOutOfStock
}

type CatalogRepository interface {
	GetProductBySKU(ctx context.Context, sku string) (*Product, error)
	GetProductByID(ctx context.Context, id string) (*Product, error)
	GetStockStatus(ctx context.Context, productID string) (StockStatus, error)
}
