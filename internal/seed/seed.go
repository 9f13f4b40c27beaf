package seed

import (
	"context"
	"fmt"

	"go.uber.org/zap"
	"pos-engine/internal/catalog"
	"pos-engine/internal/importer"
)

// Apply upserts the embedded demo catalog. It is idempotent.
func Apply(ctx context.Context, writer importer.ItemWriter, logger *zap.Logger) (int, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	items, err := catalog.EmbeddedSource().Load(ctx)
	if err != nil {
		return 0, fmt.Errorf("load demo catalog: %w", err)
	}
	n, err := importer.Write(ctx, writer, items)
	if err != nil {
		return n, err
	}
	logger.Info("demo catalog seeded", zap.Int("items", n))
	return n, nil
}
