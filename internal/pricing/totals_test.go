package pricing

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"pos-engine/internal/domain"
)

var (
	coffee = domain.Item{ID: "p01", Name: "Coffee", Price: 2.50}
	bagel  = domain.Item{ID: "p02", Name: "Bagel", Price: 3.20}
)

func TestComputeTotalsEmpty(t *testing.T) {
	assert.Equal(t, domain.CartTotals{}, ComputeTotals(nil))
	assert.Equal(t, domain.CartTotals{}, ComputeTotals([]domain.CartLine{}))
}

func TestComputeTotalsTwoLines(t *testing.T) {
	got := ComputeTotals([]domain.CartLine{
		domain.NewCartLine(coffee, 2, 0),
		domain.NewCartLine(bagel, 1, 0),
	})

	assert.InDelta(t, 8.20, got.Subtotal, 1e-9)
	assert.Equal(t, got.Subtotal*VATRate, got.VAT)
	assert.InDelta(t, 1.23, got.VAT, 1e-9)
	assert.Equal(t, 0.0, got.Discount)
	assert.Equal(t, got.Subtotal+got.VAT, got.GrandTotal)
	assert.InDelta(t, 9.43, got.GrandTotal, 1e-9)
}

func TestComputeTotalsWithDiscount(t *testing.T) {
	got := ComputeTotals([]domain.CartLine{domain.NewCartLine(coffee, 3, 0.1)})

	assert.InDelta(t, 6.75, got.Subtotal, 1e-9)
	assert.InDelta(t, 0.75, got.Discount, 1e-9)
	assert.InDelta(t, 1.0125, got.VAT, 1e-9)
	assert.InDelta(t, 7.7625, got.GrandTotal, 1e-9)
}

func TestComputeTotalsFullDiscount(t *testing.T) {
	got := ComputeTotals([]domain.CartLine{domain.NewCartLine(coffee, 1, 1.5)})

	assert.Equal(t, 0.0, got.Subtotal)
	assert.Equal(t, 2.50, got.Discount)
	assert.Equal(t, 0.0, got.GrandTotal)
}

func TestComputeTotalsIgnoresOrder(t *testing.T) {
	a := ComputeTotals([]domain.CartLine{domain.NewCartLine(coffee, 2, 0), domain.NewCartLine(bagel, 1, 0.5)})
	b := ComputeTotals([]domain.CartLine{domain.NewCartLine(bagel, 1, 0.5), domain.NewCartLine(coffee, 2, 0)})

	assert.InDelta(t, a.GrandTotal, b.GrandTotal, 1e-9)
	assert.InDelta(t, a.Discount, b.Discount, 1e-9)
}
