package receipt

import (
	"strconv"
	"time"

	"pos-engine/internal/cart"
	"pos-engine/internal/domain"
)

// NumberPrefix marks receipt numbers derived from the checkout instant.
const NumberPrefix = "R-"

// Number derives the receipt number from the timestamp's Unix milliseconds.
// The same instant always yields the same number.
func Number(at time.Time) string {
	return NumberPrefix + strconv.FormatInt(at.UnixMilli(), 10)
}

// Build snapshots a cart state into a receipt. storeID may be empty.
func Build(state cart.State, at time.Time, storeID string) domain.Receipt {
	return domain.Receipt{
		Header: domain.ReceiptHeader{
			Timestamp:     at,
			ReceiptNumber: Number(at),
			StoreID:       storeID,
		},
		Lines:  state.Lines(),
		Totals: state.Totals(),
	}
}
