package cart

import "github.com/shopspring/decimal"

// Pricing holds the constants totals are derived from.
type Pricing struct {
	// ShippingFlat is charged once per non-empty cart.
	ShippingFlat decimal.Decimal
	// TaxRate applies to the subtotal, e.g. 0.18.
	TaxRate decimal.Decimal
}

// DefaultPricing is a flat 50 shipping and 18% tax.
func DefaultPricing() Pricing {
	return Pricing{
		ShippingFlat: decimal.NewFromInt(50),
		TaxRate:      decimal.RequireFromString("0.18"),
	}
}

func NewPricing(shippingFlat, taxRate float64) Pricing {
	return Pricing{
		ShippingFlat: decimal.NewFromFloat(shippingFlat),
		TaxRate:      decimal.NewFromFloat(taxRate),
	}
}

// Totals is derived from the cart and never stored.
type Totals struct {
	ItemCount int             `json:"item_count"`
	Subtotal  decimal.Decimal `json:"subtotal"`
	Shipping  decimal.Decimal `json:"shipping"`
	Tax       decimal.Decimal `json:"tax"`
	Total     decimal.Decimal `json:"total"`
}

// Compute is pure: the same items always give the same totals. An empty cart
// totals zero, shipping included.
func (p Pricing) Compute(items []Item) Totals {
	t := Totals{
		Subtotal: decimal.Zero,
		Shipping: decimal.Zero,
		Tax:      decimal.Zero,
	}
	for _, it := range items {
		t.ItemCount += it.Quantity
		t.Subtotal = t.Subtotal.Add(it.LineTotal())
	}
	if len(items) > 0 {
		t.Shipping = p.ShippingFlat
		t.Tax = t.Subtotal.Mul(p.TaxRate).Round(2)
	}
	t.Total = t.Subtotal.Add(t.Shipping).Add(t.Tax)
	return t
}
