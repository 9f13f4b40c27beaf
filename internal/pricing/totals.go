package pricing

import "pos-engine/internal/domain"

// VATRate is applied to the subtotal.
const VATRate = 0.15

// ComputeTotals derives cart totals from scratch. No rounding is applied;
// presentation layers round for display.
func ComputeTotals(lines []domain.CartLine) domain.CartTotals {
	var subtotal, discount float64
	for _, line := range lines {
		subtotal += line.LineNet()
		discount += line.DiscountAmount()
	}
	vat := subtotal * VATRate
	return domain.CartTotals{
		Subtotal:   subtotal,
		VAT:        vat,
		Discount:   discount,
		GrandTotal: subtotal + vat,
	}
}
