package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"pos-engine/internal/cart"
	"pos-engine/internal/catalog"
	"pos-engine/internal/config"
	"pos-engine/internal/db"
	"pos-engine/internal/httpserver"
	"pos-engine/internal/logging"
	"pos-engine/internal/migrate"
	itemrepo "pos-engine/internal/repository/item"
	receiptrepo "pos-engine/internal/repository/receipt"
	checkoutsvc "pos-engine/internal/service/checkout"
)

func main() {
	cfg := config.FromEnv()
	logger, err := logging.New("api", cfg.LogLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "init logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = logger.Sync() }()

	ctx := context.Background()

	var dbpool *pgxpool.Pool
	if cfg.DBConnString != "" {
		dbpool, err = db.Connect(ctx, cfg.DBConnString, logger)
		if err != nil {
			logger.Fatal("connect to db", zap.Error(err))
		}
		defer dbpool.Close()
		if _, err := migrate.Apply(ctx, dbpool, logger); err != nil {
			logger.Fatal("apply migrations", zap.Error(err))
		}
	}

	source, err := catalogSource(cfg.Catalog, dbpool, logger)
	if err != nil {
		logger.Fatal("catalog source", zap.Error(err))
	}
	deps := httpserver.Deps{}
	if cfg.Catalog.RedisAddr != "" {
		rdb := redis.NewClient(&redis.Options{Addr: cfg.Catalog.RedisAddr})
		defer rdb.Close()
		cached := catalog.NewCachedSource(source, rdb, cfg.Catalog.CacheTTL, logger)
		source = cached
		deps.CatalogCache = cached
	}

	loader := catalog.NewLoader(source, logger)
	defer loader.Close()
	loader.Load(ctx)

	register := cart.NewRegister(logger.Named("register"))
	defer register.Close()

	var checkout *checkoutsvc.Service
	if dbpool != nil {
		checkout = checkoutsvc.New(register, receiptrepo.NewPostgres(dbpool), cfg.StoreID, logger)
	} else {
		checkout = checkoutsvc.New(register, nil, cfg.StoreID, logger)
	}

	deps.Catalog = loader
	deps.Register = register
	deps.Checkout = checkout
	srv := httpserver.New(cfg.HTTPAddr, logger, dbpool, deps, cfg.CORSOrigins)

	serverErr := make(chan error, 1)
	go func() {
		logger.Info("starting http server", zap.String("addr", cfg.HTTPAddr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	stopCh := make(chan os.Signal, 1)
	signal.Notify(stopCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-stopCh:
		logger.Info("shutting down", zap.String("signal", sig.String()))
	case err := <-serverErr:
		logger.Error("server error", zap.Error(err))
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown failed", zap.Error(err))
	}
}

func catalogSource(cfg config.CatalogConfig, pool *pgxpool.Pool, logger *zap.Logger) (catalog.Source, error) {
	switch cfg.Source {
	case config.CatalogEmbedded, "":
		return catalog.EmbeddedSource(), nil
	case config.CatalogFile:
		return catalog.FileSource{Path: cfg.File}, nil
	case config.CatalogDB:
		if pool == nil {
			return nil, errors.New("CATALOG_SOURCE=db requires DB_DSN")
		}
		return catalog.RepositorySource{Repo: itemrepo.NewPostgres(pool, logger)}, nil
	default:
		return nil, fmt.Errorf("unknown CATALOG_SOURCE %q", cfg.Source)
	}
}
