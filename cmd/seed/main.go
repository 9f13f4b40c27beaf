package main

import (
	"context"
	"fmt"
	"os"

	"go.uber.org/zap"
	"pos-engine/internal/config"
	"pos-engine/internal/db"
	"pos-engine/internal/logging"
	"pos-engine/internal/repository/item"
	"pos-engine/internal/seed"
)

func main() {
	cfg := config.FromEnv()
	logger, err := logging.New("seed", cfg.LogLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "init logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = logger.Sync() }()

	ctx := context.Background()
	pool, err := db.Connect(ctx, cfg.DBConnString, logger)
	if err != nil {
		logger.Fatal("connect db", zap.Error(err))
	}
	defer pool.Close()

	count, err := seed.Apply(ctx, item.NewPostgres(pool, logger), logger)
	if err != nil {
		logger.Fatal("seed apply", zap.Error(err))
	}

	logger.Info("seed applied", zap.Int("items", count))
}
