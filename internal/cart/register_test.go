package cart

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegisterAppliesCommands(t *testing.T) {
	r := NewRegister(nil)
	defer r.Close()
	ctx := context.Background()

	_, err := r.AddItem(ctx, coffee, 2)
	require.NoError(t, err)
	_, err = r.ChangeQty(ctx, "p01", 3)
	require.NoError(t, err)
	s, err := r.ChangeDiscount(ctx, "p01", 0.1)
	require.NoError(t, err)

	assert.InDelta(t, 7.7625, s.Totals().GrandTotal, 1e-9)

	got, err := r.State(ctx)
	require.NoError(t, err)
	assert.Equal(t, s, got)

	s, err = r.RemoveItem(ctx, "p01")
	require.NoError(t, err)
	assert.True(t, s.IsEmpty())

	_, _ = r.AddItem(ctx, bagel, 1)
	s, err = r.ClearCart(ctx)
	require.NoError(t, err)
	assert.Equal(t, Empty(), s)
}

func TestRegisterSerializesConcurrentCommands(t *testing.T) {
	r := NewRegister(nil)
	defer r.Close()
	ctx := context.Background()

	var (
		mu   sync.Mutex
		seen []State
	)
	_, err := r.Subscribe(ctx, func(s State) {
		mu.Lock()
		seen = append(seen, s)
		mu.Unlock()
	})
	require.NoError(t, err)

	const workers, perWorker = 8, 50
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < perWorker; i++ {
				_, err := r.AddItem(ctx, coffee, 1)
				assert.NoError(t, err)
			}
		}()
	}
	wg.Wait()

	s, err := r.State(ctx)
	require.NoError(t, err)
	assert.Equal(t, workers*perWorker, s.TotalItems())

	mu.Lock()
	defer mu.Unlock()
	require.Len(t, seen, workers*perWorker+1)
	for i, st := range seen {
		assert.Equal(t, i, st.TotalItems(), "states must arrive one command at a time")
	}
}

func TestRegisterUnsubscribe(t *testing.T) {
	r := NewRegister(nil)
	defer r.Close()
	ctx := context.Background()

	count := 0
	cancel, err := r.Subscribe(ctx, func(State) { count++ })
	require.NoError(t, err)

	_, _ = r.AddItem(ctx, coffee, 1)
	cancel()
	_, _ = r.AddItem(ctx, coffee, 1)

	_, err = r.State(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, count)
}

func TestRegisterClosed(t *testing.T) {
	r := NewRegister(nil)
	r.Close()
	r.Close()

	_, err := r.AddItem(context.Background(), coffee, 1)
	assert.ErrorIs(t, err, ErrRegisterClosed)
}

func TestRegisterContextCancelled(t *testing.T) {
	r := NewRegister(nil)
	defer r.Close()

	block := make(chan struct{})
	_, err := r.Subscribe(context.Background(), func(s State) {
		if !s.IsEmpty() {
			<-block
		}
	})
	require.NoError(t, err)

	go func() { _, _ = r.AddItem(context.Background(), coffee, 1) }()
	// let the blocking command reach the register goroutine
	time.Sleep(20 * time.Millisecond)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	_, err = r.ClearCart(ctx)
	assert.ErrorIs(t, err, context.DeadlineExceeded)

	close(block)
}
