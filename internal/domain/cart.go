package domain

import "math"

// CartLine is one item's presence in the cart. Values are never mutated;
// WithQuantity and WithDiscount return modified copies.
type CartLine struct {
	Item            Item    `json:"item"`
	Quantity        int     `json:"quantity"`
	DiscountPercent float64 `json:"discountPercent"`
}

// NewCartLine builds a line with the discount clamped into [0,1].
func NewCartLine(item Item, quantity int, discountPercent float64) CartLine {
	return CartLine{Item: item, Quantity: quantity, DiscountPercent: ClampDiscount(discountPercent)}
}

// LineNet is price × quantity × (1 − discount), before tax.
func (l CartLine) LineNet() float64 {
	return l.Item.Price * float64(l.Quantity) * (1 - l.DiscountPercent)
}

// DiscountAmount is price × quantity × discount.
func (l CartLine) DiscountAmount() float64 {
	return l.Item.Price * float64(l.Quantity) * l.DiscountPercent
}

func (l CartLine) WithQuantity(quantity int) CartLine {
	l.Quantity = quantity
	return l
}

func (l CartLine) WithDiscount(discountPercent float64) CartLine {
	l.DiscountPercent = ClampDiscount(discountPercent)
	return l
}

func (l CartLine) WithItem(item Item) CartLine {
	l.Item = item
	return l
}

// ClampDiscount forces a discount fraction into [0,1]. NaN is treated as no discount.
func ClampDiscount(d float64) float64 {
	switch {
	case math.IsNaN(d), d <= 0:
		return 0
	case d >= 1:
		return 1
	default:
		return d
	}
}

// CartTotals are always derived from the full line collection.
type CartTotals struct {
	Subtotal   float64 `json:"subtotal"`
	VAT        float64 `json:"vat"`
	Discount   float64 `json:"discount"`
	GrandTotal float64 `json:"grandTotal"`
}
