package httpserver

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"pos-engine/internal/domain"
	"pos-engine/internal/service/checkout"
)

func (h *handler) checkout(c *gin.Context) {
	rec, err := h.deps.Checkout.Checkout(c.Request.Context())
	if err != nil {
		h.logger.Error("checkout failed", zap.Error(err))
		writeError(c, http.StatusInternalServerError, "checkout failed")
		return
	}
	c.JSON(http.StatusCreated, toReceiptResponse(rec))
}

func (h *handler) getReceipt(c *gin.Context) {
	rec, err := h.deps.Checkout.Get(c.Request.Context(), c.Param("number"))
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrNotFound), errors.Is(err, checkout.ErrArchiveDisabled):
			writeError(c, http.StatusNotFound, "receipt not found")
		default:
			h.logger.Error("receipt lookup failed", zap.Error(err))
			writeError(c, http.StatusInternalServerError, "receipt lookup failed")
		}
		return
	}
	c.JSON(http.StatusOK, toReceiptResponse(*rec))
}
