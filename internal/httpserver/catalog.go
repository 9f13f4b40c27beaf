package httpserver

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func (h *handler) getCatalog(c *gin.Context) {
	c.JSON(http.StatusOK, toCatalogResponse(h.deps.Catalog.State()))
}

// reloadCatalog starts a new load that outlives the request. Any load still
// in flight is superseded.
func (h *handler) reloadCatalog(c *gin.Context) {
	ctx := context.WithoutCancel(c.Request.Context())
	if h.deps.CatalogCache != nil {
		if err := h.deps.CatalogCache.Invalidate(ctx); err != nil {
			h.logger.Warn("catalog cache invalidate failed", zap.Error(err))
		}
	}
	h.deps.Catalog.Load(ctx)
	c.JSON(http.StatusAccepted, toCatalogResponse(h.deps.Catalog.State()))
}
