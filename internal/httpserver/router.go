package httpserver

import (
	"context"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
	"pos-engine/internal/cart"
	"pos-engine/internal/catalog"
	"pos-engine/internal/domain"
)

type catalogService interface {
	State() catalog.LoadState
	Lookup(id string) (domain.Item, error)
	Load(ctx context.Context) <-chan catalog.LoadState
}

type cacheInvalidator interface {
	Invalidate(ctx context.Context) error
}

type cartRegister interface {
	State(ctx context.Context) (cart.State, error)
	AddItem(ctx context.Context, item domain.Item, quantity int) (cart.State, error)
	RemoveItem(ctx context.Context, itemID string) (cart.State, error)
	ChangeQty(ctx context.Context, itemID string, quantity int) (cart.State, error)
	ChangeDiscount(ctx context.Context, itemID string, discountPercent float64) (cart.State, error)
	ClearCart(ctx context.Context) (cart.State, error)
	Subscribe(ctx context.Context, o cart.Observer) (func(), error)
}

type checkoutService interface {
	Checkout(ctx context.Context) (domain.Receipt, error)
	Get(ctx context.Context, number string) (*domain.Receipt, error)
}

// Deps are the services behind the routes. CatalogCache is optional.
type Deps struct {
	Catalog      catalogService
	CatalogCache cacheInvalidator
	Register     cartRegister
	Checkout     checkoutService
}

type handler struct {
	deps   Deps
	logger *zap.Logger
}

// buildRouter wires routes for the API.
func buildRouter(logger *zap.Logger, db *pgxpool.Pool, deps Deps, corsOrigins []string) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(requestLogger(logger), gin.Recovery(), corsMiddleware(corsOrigins))

	h := &handler{deps: deps, logger: logger}

	router.GET("/healthz", healthHandler)
	router.GET("/readyz", readyHandler(db, deps.Catalog))

	router.GET("/catalog", h.getCatalog)
	router.POST("/catalog/reload", h.reloadCatalog)

	router.GET("/cart", h.getCart)
	router.DELETE("/cart", h.clearCart)
	router.GET("/cart/stream", h.streamCart)
	router.POST("/cart/items", h.addItem)
	router.DELETE("/cart/items/:itemId", h.removeItem)
	router.PUT("/cart/items/:itemId/quantity", h.changeQty)
	router.PUT("/cart/items/:itemId/discount", h.changeDiscount)

	router.POST("/checkout", h.checkout)
	router.GET("/receipts/:number", h.getReceipt)

	return router
}

func corsMiddleware(origins []string) gin.HandlerFunc {
	cfg := cors.Config{
		AllowMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders: []string{"Origin", "Content-Type", "Accept"},
		MaxAge:       12 * time.Hour,
	}
	for _, o := range origins {
		if o == "*" {
			cfg.AllowAllOrigins = true
		}
	}
	if !cfg.AllowAllOrigins {
		cfg.AllowOrigins = origins
	}
	if !cfg.AllowAllOrigins && len(cfg.AllowOrigins) == 0 {
		cfg.AllowAllOrigins = true
	}
	return cors.New(cfg)
}

func requestLogger(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		logger.Info("http request",
			zap.String("method", c.Request.Method),
			zap.String("path", c.FullPath()),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)),
			zap.String("client_ip", c.ClientIP()))
	}
}
