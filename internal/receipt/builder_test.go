package receipt

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pos-engine/internal/cart"
	"pos-engine/internal/domain"
)

var (
	coffee = domain.Item{ID: "p01", Name: "Coffee", Price: 2.50}
	bagel  = domain.Item{ID: "p02", Name: "Bagel", Price: 3.20}
)

func TestNumberIsDeterministic(t *testing.T) {
	at := time.Date(2024, 3, 1, 9, 30, 0, 123_000_000, time.UTC)
	assert.Equal(t, "R-1709285400123", Number(at))
	assert.Equal(t, Number(at), Number(at.In(time.FixedZone("x", 3600))))
}

func TestBuildSnapshotsState(t *testing.T) {
	m := cart.NewMachine()
	m.AddItem(coffee, 2)
	state := m.AddItem(bagel, 1)
	at := time.Date(2024, 3, 1, 9, 30, 0, 0, time.UTC)

	r := Build(state, at, "store-7")

	assert.Equal(t, at, r.Header.Timestamp)
	assert.Equal(t, Number(at), r.Header.ReceiptNumber)
	assert.Equal(t, "store-7", r.Header.StoreID)
	assert.Equal(t, state.Lines(), r.Lines)
	assert.Equal(t, state.Totals(), r.Totals)

	m.ChangeQty("p01", 10)
	m.ChangeDiscount("p02", 1)
	m.ClearCart()

	require.Len(t, r.Lines, 2)
	assert.Equal(t, 2, r.Lines[0].Quantity)
	assert.Equal(t, 0.0, r.Lines[1].DiscountPercent)
	assert.InDelta(t, 9.43, r.Totals.GrandTotal, 1e-9)
}

func TestBuildDoesNotShareLines(t *testing.T) {
	state := cart.Empty().AddItem(coffee, 1)
	r := Build(state, time.Now(), "")

	r.Lines[0] = r.Lines[0].WithQuantity(50)
	line, _ := state.Line("p01")
	assert.Equal(t, 1, line.Quantity)
	assert.Empty(t, r.Header.StoreID)
}

func TestBuildEmptyCart(t *testing.T) {
	r := Build(cart.Empty(), time.Unix(0, 0), "")
	assert.Empty(t, r.Lines)
	assert.Equal(t, domain.CartTotals{}, r.Totals)
	assert.Equal(t, "R-0", r.Header.ReceiptNumber)
}
