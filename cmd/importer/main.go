package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"
	"pos-engine/internal/catalog"
	"pos-engine/internal/config"
	"pos-engine/internal/db"
	"pos-engine/internal/importer"
	"pos-engine/internal/logging"
	"pos-engine/internal/repository/item"
)

func main() {
	var filePath string
	flag.StringVar(&filePath, "file", "", "Path to a catalog file (.json array or .csv with id,name,price)")
	flag.Parse()

	if filePath == "" {
		flag.Usage()
		os.Exit(2)
	}

	cfg := config.FromEnv()
	logger, err := logging.New("importer", cfg.LogLevel)
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

	f, err := os.Open(filePath)
	if err != nil {
		logger.Fatal("open file", zap.Error(err))
	}
	defer f.Close()

	repo := item.NewPostgres(pool, logger)
	start := time.Now()

	var count int
	if strings.EqualFold(filepath.Ext(filePath), ".json") {
		items, perr := catalog.ParseItems(f)
		if perr != nil {
			logger.Fatal("parse catalog", zap.Error(perr))
		}
		count, err = importer.Write(ctx, repo, items)
	} else {
		count, err = importer.NewCSVImporter(f, repo).Run(ctx)
	}
	if err != nil {
		logger.Fatal("import failed", zap.Error(err))
	}

	logger.Info("import finished",
		zap.String("file", filePath),
		zap.Int("items", count),
		zap.Duration("took", time.Since(start).Truncate(time.Millisecond)))
}
