package usecase

import "wishlist-backend/internal/domain"

// PriceFunc computes the configured price of one unit of a product.
type PriceFunc func(p *domain.Product, req *domain.BuyRequest) float64

// PriceStrategies maps a product type to its pricing function.
type PriceStrategies map[string]PriceFunc

// DefaultPriceStrategies covers the product types whose price depends on the
// selected options.
func DefaultPriceStrategies() PriceStrategies {
	return PriceStrategies{
		domain.ProductTypeConfigurable: configurablePrice,
		domain.ProductTypeBundle:       bundlePrice,
		domain.ProductTypeDownloadable: downloadablePrice,
	}
}

// Price falls back to the final price for types without a strategy.
func (s PriceStrategies) Price(p *domain.Product, req *domain.BuyRequest) float64 {
	if fn, ok := s[p.Type]; ok && req != nil {
		return fn(p, req) + customOptionsPrice(p, req)
	}
	return p.FinalPrice() + customOptionsPrice(p, req)
}

func configurablePrice(p *domain.Product, req *domain.BuyRequest) float64 {
	if v := p.FindVariant(req.SuperAttribute); v != nil && v.Price != nil {
		return *v.Price
	}
	return p.FinalPrice()
}

func bundlePrice(p *domain.Product, req *domain.BuyRequest) float64 {
	total := p.FinalPrice()
	for optionID, selections := range req.BundleOption {
		opt := p.FindBundleOption(optionID)
		if opt == nil {
			continue
		}
		qtys := req.BundleOptionQty[optionID]
		for i, selectionID := range selections {
			sel := opt.FindSelection(selectionID)
			if sel == nil {
				continue
			}
			qty := 1
			if i < len(qtys) && qtys[i] > 0 {
				qty = qtys[i]
			}
			total += sel.Price * float64(qty)
		}
	}
	return total
}

func downloadablePrice(p *domain.Product, req *domain.BuyRequest) float64 {
	total := p.FinalPrice()
	for _, id := range req.Links {
		if link := p.FindLink(id); link != nil {
			total += link.Price
		}
	}
	return total
}

func customOptionsPrice(p *domain.Product, req *domain.BuyRequest) float64 {
	if req == nil {
		return 0
	}
	var total float64
	for optionID, values := range req.Options {
		opt := p.FindCustomOption(optionID)
		if opt == nil {
			continue
		}
		if len(opt.Values) == 0 {
			total += opt.Price
			continue
		}
		for _, text := range values.Texts() {
			if v := opt.FindValue(text); v != nil {
				total += v.Price
			}
		}
	}
	return total
}
