package catalog

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pos-engine/internal/domain"
)

func await(t *testing.T, ch <-chan LoadState) (LoadState, bool) {
	t.Helper()
	select {
	case s, ok := <-ch:
		return s, ok
	case <-time.After(2 * time.Second):
		t.Fatal("load did not complete")
		return LoadState{}, false
	}
}

func TestLoaderSuccess(t *testing.T) {
	items := []domain.Item{{ID: "p01", Name: "Coffee", Price: 2.5}, {ID: "p01", Name: "Coffee v2", Price: 2.7}}
	l := NewLoader(SourceFunc(func(context.Context) ([]domain.Item, error) { return items, nil }), nil)

	assert.Equal(t, StatusIdle, l.State().Status)
	_, err := l.Lookup("p01")
	assert.ErrorIs(t, err, ErrNotLoaded)

	got, ok := await(t, l.Load(context.Background()))
	require.True(t, ok)
	assert.Equal(t, StatusLoaded, got.Status)
	assert.Equal(t, items, got.Items)
	assert.Equal(t, StatusLoaded, l.State().Status)

	item, err := l.Lookup("p01")
	require.NoError(t, err)
	assert.Equal(t, "Coffee v2", item.Name, "last duplicate wins")

	_, err = l.Lookup("missing")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestLoaderFailure(t *testing.T) {
	l := NewLoader(FileSource{Path: "/does/not/exist.json"}, nil)

	got, ok := await(t, l.Load(context.Background()))
	require.True(t, ok)
	assert.Equal(t, StatusFailed, got.Status)
	assert.Contains(t, got.Message, "open /does/not/exist.json")
	assert.Nil(t, got.Items)

	_, err := l.Lookup("p01")
	assert.ErrorIs(t, err, ErrNotLoaded)
}

func TestLoaderWrapsPlainErrors(t *testing.T) {
	l := NewLoader(SourceFunc(func(context.Context) ([]domain.Item, error) { return nil, errors.New("boom") }), nil)

	got, _ := await(t, l.Load(context.Background()))
	assert.Equal(t, "catalog load: source failed: boom", got.Message)
}

type loadTag struct{}

func tagged(tag string) context.Context {
	return context.WithValue(context.Background(), loadTag{}, tag)
}

func TestLoaderSupersedesInFlightLoad(t *testing.T) {
	release := make(chan struct{})
	src := SourceFunc(func(ctx context.Context) ([]domain.Item, error) {
		if ctx.Value(loadTag{}) == "first" {
			<-release
			return []domain.Item{{ID: "stale", Name: "Stale", Price: 1}}, nil
		}
		return []domain.Item{{ID: "fresh", Name: "Fresh", Price: 2}}, nil
	})
	l := NewLoader(src, nil)

	var (
		mu   sync.Mutex
		seen []LoadState
	)
	l.Subscribe(func(s LoadState) {
		mu.Lock()
		seen = append(seen, s)
		mu.Unlock()
	})

	first := l.Load(tagged("first"))
	second := l.Load(tagged("second"))

	got, ok := await(t, second)
	require.True(t, ok)
	assert.Equal(t, "fresh", got.Items[0].ID)

	close(release)
	_, ok = await(t, first)
	assert.False(t, ok, "superseded load must not deliver a result")

	assert.Equal(t, "fresh", l.State().Items[0].ID)
	_, err := l.Lookup("stale")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	mu.Lock()
	defer mu.Unlock()
	statuses := make([]Status, 0, len(seen))
	for _, s := range seen {
		statuses = append(statuses, s.Status)
	}
	assert.Equal(t, []Status{StatusIdle, StatusLoading, StatusLoading, StatusLoaded}, statuses)
}

func TestLoaderCancelsSupersededContext(t *testing.T) {
	cancelled := make(chan struct{})
	src := SourceFunc(func(ctx context.Context) ([]domain.Item, error) {
		if ctx.Value(loadTag{}) == "first" {
			<-ctx.Done()
			close(cancelled)
			return nil, ctx.Err()
		}
		return nil, nil
	})
	l := NewLoader(src, nil)

	l.Load(tagged("first"))
	l.Load(tagged("second"))

	select {
	case <-cancelled:
	case <-time.After(2 * time.Second):
		t.Fatal("superseded load was not cancelled")
	}
}

func TestLoaderStateIsCopied(t *testing.T) {
	l := NewLoader(SourceFunc(func(context.Context) ([]domain.Item, error) {
		return []domain.Item{{ID: "p01", Name: "Coffee", Price: 2.5}}, nil
	}), nil)
	await(t, l.Load(context.Background()))

	s := l.State()
	s.Items[0].Name = "changed"
	assert.Equal(t, "Coffee", l.State().Items[0].Name)
}

func TestStatusString(t *testing.T) {
	assert.Equal(t, "idle", StatusIdle.String())
	assert.Equal(t, "loading", StatusLoading.String())
	assert.Equal(t, "loaded", StatusLoaded.String())
	assert.Equal(t, "failed", StatusFailed.String())
	assert.Equal(t, "unknown", Status(42).String())
}
