package catalog

import (
	"context"
	"errors"
	"sync"

	"go.uber.org/zap"
	"pos-engine/internal/domain"
)

// ErrNotLoaded is returned by Lookup while no catalog has been loaded.
var ErrNotLoaded = errors.New("catalog not loaded")

type Status int

const (
	StatusIdle Status = iota
	StatusLoading
	StatusLoaded
	StatusFailed
)

func (s Status) String() string {
	switch s {
	case StatusIdle:
		return "idle"
	case StatusLoading:
		return "loading"
	case StatusLoaded:
		return "loaded"
	case StatusFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// LoadState is the observable catalog lifecycle. Items is set only when
// Status is StatusLoaded, Message only when Status is StatusFailed.
type LoadState struct {
	Status  Status
	Items   []domain.Item
	Message string
}

// Loader runs single-shot asynchronous catalog loads. Starting a new load
// supersedes the one in flight: its context is cancelled and its outcome is
// never published.
type Loader struct {
	source Source
	logger *zap.Logger

	mu        sync.Mutex
	gen       uint64
	cancel    context.CancelFunc
	state     LoadState
	index     map[string]domain.Item
	observers map[uint64]func(LoadState)
	nextObs   uint64
}

func NewLoader(source Source, logger *zap.Logger) *Loader {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Loader{
		source:    source,
		logger:    logger,
		observers: make(map[uint64]func(LoadState)),
	}
}

// Load starts a new load and returns a channel that receives its outcome
// once. The channel is closed without a value if a later Load supersedes it.
func (l *Loader) Load(ctx context.Context) <-chan LoadState {
	done := make(chan LoadState, 1)

	l.mu.Lock()
	if l.cancel != nil {
		l.cancel()
	}
	l.gen++
	gen := l.gen
	loadCtx, cancel := context.WithCancel(ctx)
	l.cancel = cancel
	l.publishLocked(LoadState{Status: StatusLoading})
	l.mu.Unlock()

	go func() {
		defer cancel()
		defer close(done)

		items, err := l.source.Load(loadCtx)
		next := LoadState{Status: StatusLoaded, Items: items}
		if err != nil {
			next = LoadState{Status: StatusFailed, Message: failureMessage(err)}
		}

		l.mu.Lock()
		defer l.mu.Unlock()
		if gen != l.gen {
			l.logger.Debug("discarding superseded catalog load", zap.Uint64("generation", gen))
			return
		}
		l.cancel = nil
		if next.Status == StatusLoaded {
			l.logger.Info("catalog loaded", zap.Int("items", len(items)))
		} else {
			l.logger.Warn("catalog load failed", zap.String("reason", next.Message))
		}
		l.publishLocked(next)
		done <- next
	}()

	return done
}

// State returns the current lifecycle value.
func (l *Loader) State() LoadState {
	l.mu.Lock()
	defer l.mu.Unlock()
	return copyState(l.state)
}

// Lookup finds a loaded catalog item. Duplicate ids resolve to the last record.
func (l *Loader) Lookup(id string) (domain.Item, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.index == nil {
		return domain.Item{}, ErrNotLoaded
	}
	item, ok := l.index[id]
	if !ok {
		return domain.Item{}, domain.ErrNotFound
	}
	return item, nil
}

// Subscribe calls fn with the current state and every later one. fn runs
// while the loader is locked and must not call back into it.
func (l *Loader) Subscribe(fn func(LoadState)) func() {
	l.mu.Lock()
	defer l.mu.Unlock()
	id := l.nextObs
	l.nextObs++
	l.observers[id] = fn
	fn(copyState(l.state))
	return func() {
		l.mu.Lock()
		defer l.mu.Unlock()
		delete(l.observers, id)
	}
}

// Close cancels any in-flight load.
func (l *Loader) Close() {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.cancel != nil {
		l.cancel()
		l.cancel = nil
	}
}

func (l *Loader) publishLocked(next LoadState) {
	l.state = next
	switch next.Status {
	case StatusLoaded:
		l.index = buildIndex(next.Items)
	case StatusFailed:
		l.index = nil
	}
	for _, fn := range l.observers {
		fn(copyState(next))
	}
}

func buildIndex(items []domain.Item) map[string]domain.Item {
	idx := make(map[string]domain.Item, len(items))
	for _, it := range items {
		idx[it.ID] = it
	}
	return idx
}

func failureMessage(err error) string {
	var loadErr *domain.CatalogLoadError
	if errors.As(err, &loadErr) {
		return loadErr.Error()
	}
	return (&domain.CatalogLoadError{Message: "source failed", Err: err}).Error()
}

func copyState(s LoadState) LoadState {
	if s.Items != nil {
		items := make([]domain.Item, len(s.Items))
		copy(items, s.Items)
		s.Items = items
	}
	return s
}
