package httpserver

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"pos-engine/internal/cart"
	"pos-engine/internal/catalog"
	"pos-engine/internal/domain"
)

// money rounds half away from zero to cents for display only.
func money(v float64) string {
	return decimal.NewFromFloat(v).StringFixed(2)
}

type itemResponse struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Price string `json:"price"`
}

type catalogResponse struct {
	Status string         `json:"status"`
	Items  []itemResponse `json:"items"`
	Error  string         `json:"error,omitempty"`
}

type lineResponse struct {
	ItemID          string  `json:"itemId"`
	Name            string  `json:"name"`
	UnitPrice       string  `json:"unitPrice"`
	Quantity        int     `json:"quantity"`
	DiscountPercent float64 `json:"discountPercent"`
	DiscountAmount  string  `json:"discountAmount"`
	LineNet         string  `json:"lineNet"`
}

type totalsResponse struct {
	Subtotal   string `json:"subtotal"`
	VAT        string `json:"vat"`
	Discount   string `json:"discount"`
	GrandTotal string `json:"grandTotal"`
}

type cartResponse struct {
	Lines      []lineResponse `json:"lines"`
	Totals     totalsResponse `json:"totals"`
	IsEmpty    bool           `json:"isEmpty"`
	TotalItems int            `json:"totalItems"`
}

type receiptHeaderResponse struct {
	ReceiptNumber string    `json:"receiptNumber"`
	Timestamp     time.Time `json:"timestamp"`
	StoreID       string    `json:"storeId,omitempty"`
}

type receiptResponse struct {
	Header receiptHeaderResponse `json:"header"`
	Lines  []lineResponse        `json:"lines"`
	Totals totalsResponse        `json:"totals"`
}

func toItemResponse(it domain.Item) itemResponse {
	return itemResponse{ID: it.ID, Name: it.Name, Price: money(it.Price)}
}

func toCatalogResponse(st catalog.LoadState) catalogResponse {
	items := make([]itemResponse, 0, len(st.Items))
	for _, it := range st.Items {
		items = append(items, toItemResponse(it))
	}
	return catalogResponse{Status: st.Status.String(), Items: items, Error: st.Message}
}

func toLineResponses(lines []domain.CartLine) []lineResponse {
	out := make([]lineResponse, 0, len(lines))
	for _, l := range lines {
		out = append(out, lineResponse{
			ItemID:          l.Item.ID,
			Name:            l.Item.Name,
			UnitPrice:       money(l.Item.Price),
			Quantity:        l.Quantity,
			DiscountPercent: l.DiscountPercent,
			DiscountAmount:  money(l.DiscountAmount()),
			LineNet:         money(l.LineNet()),
		})
	}
	return out
}

func toTotalsResponse(t domain.CartTotals) totalsResponse {
	return totalsResponse{
		Subtotal:   money(t.Subtotal),
		VAT:        money(t.VAT),
		Discount:   money(t.Discount),
		GrandTotal: money(t.GrandTotal),
	}
}

func toCartResponse(s cart.State) cartResponse {
	return cartResponse{
		Lines:      toLineResponses(s.Lines()),
		Totals:     toTotalsResponse(s.Totals()),
		IsEmpty:    s.IsEmpty(),
		TotalItems: s.TotalItems(),
	}
}

func toReceiptResponse(r domain.Receipt) receiptResponse {
	return receiptResponse{
		Header: receiptHeaderResponse{
			ReceiptNumber: r.Header.ReceiptNumber,
			Timestamp:     r.Header.Timestamp,
			StoreID:       r.Header.StoreID,
		},
		Lines:  toLineResponses(r.Lines),
		Totals: toTotalsResponse(r.Totals),
	}
}

func writeError(c *gin.Context, status int, msg string) {
	c.AbortWithStatusJSON(status, gin.H{"error": msg})
}
