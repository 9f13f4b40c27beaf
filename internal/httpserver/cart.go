package httpserver

import (
	"errors"
	"io"
	"net/http"
	"strings"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"pos-engine/internal/cart"
	"pos-engine/internal/catalog"
	"pos-engine/internal/domain"
)

// maxQuantity bounds the quantity a single request may set or add.
const maxQuantity = 10000

// streamBuffer bounds how far an SSE client may fall behind before it is dropped.
const streamBuffer = 64

type addItemRequest struct {
	ItemID   string `json:"itemId"`
	Quantity *int   `json:"quantity"`
}

type changeQtyRequest struct {
	Quantity *int `json:"quantity"`
}

type changeDiscountRequest struct {
	DiscountPercent *float64 `json:"discountPercent"`
}

func (h *handler) getCart(c *gin.Context) {
	state, err := h.deps.Register.State(c.Request.Context())
	h.respondState(c, state, err)
}

func (h *handler) addItem(c *gin.Context) {
	var req addItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "invalid body")
		return
	}
	itemID := strings.TrimSpace(req.ItemID)
	if itemID == "" {
		writeError(c, http.StatusBadRequest, "itemId required")
		return
	}
	quantity := 1
	if req.Quantity != nil {
		quantity = *req.Quantity
	}
	if quantity <= 0 || quantity > maxQuantity {
		writeError(c, http.StatusBadRequest, "quantity must be between 1 and 10000")
		return
	}

	item, err := h.deps.Catalog.Lookup(itemID)
	if err != nil {
		switch {
		case errors.Is(err, catalog.ErrNotLoaded):
			writeError(c, http.StatusConflict, "catalog not loaded")
		case errors.Is(err, domain.ErrNotFound):
			writeError(c, http.StatusNotFound, "item not found")
		default:
			writeError(c, http.StatusInternalServerError, "catalog lookup failed")
		}
		return
	}

	state, err := h.deps.Register.AddItem(c.Request.Context(), item, quantity)
	h.respondState(c, state, err)
}

func (h *handler) removeItem(c *gin.Context) {
	state, err := h.deps.Register.RemoveItem(c.Request.Context(), c.Param("itemId"))
	h.respondState(c, state, err)
}

func (h *handler) changeQty(c *gin.Context) {
	var req changeQtyRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Quantity == nil {
		writeError(c, http.StatusBadRequest, "quantity required")
		return
	}
	if *req.Quantity > maxQuantity {
		writeError(c, http.StatusBadRequest, "quantity must not exceed 10000")
		return
	}
	state, err := h.deps.Register.ChangeQty(c.Request.Context(), c.Param("itemId"), *req.Quantity)
	h.respondState(c, state, err)
}

func (h *handler) changeDiscount(c *gin.Context) {
	var req changeDiscountRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.DiscountPercent == nil {
		writeError(c, http.StatusBadRequest, "discountPercent required")
		return
	}
	state, err := h.deps.Register.ChangeDiscount(c.Request.Context(), c.Param("itemId"), *req.DiscountPercent)
	h.respondState(c, state, err)
}

func (h *handler) clearCart(c *gin.Context) {
	state, err := h.deps.Register.ClearCart(c.Request.Context())
	h.respondState(c, state, err)
}

// streamCart pushes every cart state as a server-sent event, starting with
// the current one.
func (h *handler) streamCart(c *gin.Context) {
	ctx := c.Request.Context()
	subID := uuid.NewString()
	states := make(chan cart.State, streamBuffer)
	lagged := make(chan struct{})
	var once sync.Once

	unsubscribe, err := h.deps.Register.Subscribe(ctx, func(s cart.State) {
		select {
		case states <- s:
		default:
			once.Do(func() { close(lagged) })
		}
	})
	if err != nil {
		h.respondState(c, cart.State{}, err)
		return
	}
	defer unsubscribe()

	h.logger.Debug("cart stream opened", zap.String("subscriber", subID))
	defer h.logger.Debug("cart stream closed", zap.String("subscriber", subID))

	c.Header("Cache-Control", "no-cache")
	c.Stream(func(_ io.Writer) bool {
		select {
		case s := <-states:
			c.SSEvent("cart", toCartResponse(s))
			return true
		case <-lagged:
			c.SSEvent("error", gin.H{"error": "subscriber fell behind"})
			return false
		case <-ctx.Done():
			return false
		}
	})
}

func (h *handler) respondState(c *gin.Context, state cart.State, err error) {
	if err != nil {
		h.logger.Warn("cart command failed", zap.Error(err))
		writeError(c, http.StatusServiceUnavailable, "register unavailable")
		return
	}
	c.JSON(http.StatusOK, toCartResponse(state))
}
