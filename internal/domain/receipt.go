package domain

import "time"

type ReceiptHeader struct {
	Timestamp     time.Time `json:"timestamp"`
	ReceiptNumber string    `json:"receiptNumber"`
	StoreID       string    `json:"storeId,omitempty"`
}

// Receipt is a checkout snapshot. Its Lines slice is owned by the receipt and
// shares no backing array with any cart state.
type Receipt struct {
	Header ReceiptHeader `json:"header"`
	Lines  []CartLine    `json:"lines"`
	Totals CartTotals    `json:"totals"`
}
