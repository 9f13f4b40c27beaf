package catalog

import (
	"bytes"
	"context"
	_ "embed"
	"fmt"
	"os"

	"pos-engine/internal/domain"
)

// Source supplies catalog items.
type Source interface {
	Load(ctx context.Context) ([]domain.Item, error)
}

// SourceFunc adapts a function to Source.
type SourceFunc func(ctx context.Context) ([]domain.Item, error)

func (f SourceFunc) Load(ctx context.Context) ([]domain.Item, error) {
	return f(ctx)
}

// FileSource reads a JSON catalog from disk.
type FileSource struct {
	Path string
}

func (s FileSource) Load(ctx context.Context) ([]domain.Item, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	f, err := os.Open(s.Path)
	if err != nil {
		return nil, &domain.CatalogLoadError{Message: fmt.Sprintf("open %s", s.Path), Err: err}
	}
	defer f.Close()
	return ParseItems(f)
}

//go:embed catalog.json
var embeddedCatalog []byte

// EmbeddedSource serves the demo catalog compiled into the binary.
func EmbeddedSource() Source {
	return SourceFunc(func(ctx context.Context) ([]domain.Item, error) {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		return ParseItems(bytes.NewReader(embeddedCatalog))
	})
}

// ItemLister is satisfied by the item repository.
type ItemLister interface {
	ListAll(ctx context.Context) ([]domain.Item, error)
}

// RepositorySource reads the catalog from a repository.
type RepositorySource struct {
	Repo ItemLister
}

func (s RepositorySource) Load(ctx context.Context) ([]domain.Item, error) {
	items, err := s.Repo.ListAll(ctx)
	if err != nil {
		return nil, &domain.CatalogLoadError{Message: "list items", Err: err}
	}
	return items, nil
}
