package main

import (
	"context"
	"fmt"
	"os"

	"go.uber.org/zap"
	"pos-engine/internal/config"
	"pos-engine/internal/db"
	"pos-engine/internal/logging"
	"pos-engine/internal/migrate"
)

func main() {
	cfg := config.FromEnv()
	logger, err := logging.New("migrate", cfg.LogLevel)
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

	version, err := migrate.Apply(ctx, pool, logger)
	if err != nil {
		logger.Fatal("apply migrations", zap.Error(err))
	}

	logger.Info("migrations applied", zap.Uint("version", version))
}
