package cart

import (
	"context"
	"errors"
	"sync"

	"go.uber.org/zap"
	"pos-engine/internal/domain"
)

// ErrRegisterClosed is returned for commands submitted after Close.
var ErrRegisterClosed = errors.New("register closed")

// Register runs a Machine on its own goroutine and accepts commands from any
// goroutine. Commands are applied strictly in arrival order, each one to
// completion before the next is taken from the queue.
type Register struct {
	machine   *Machine
	queue     chan request
	done      chan struct{}
	closeOnce sync.Once
	logger    *zap.Logger
}

type request struct {
	name  string
	run   func(*Machine) State
	reply chan State
}

func NewRegister(logger *zap.Logger) *Register {
	if logger == nil {
		logger = zap.NewNop()
	}
	r := &Register{
		machine: NewMachine(),
		queue:   make(chan request),
		done:    make(chan struct{}),
		logger:  logger,
	}
	go r.loop()
	return r
}

func (r *Register) loop() {
	for {
		select {
		case req := <-r.queue:
			state := req.run(r.machine)
			r.logger.Debug("cart command applied",
				zap.String("command", req.name),
				zap.Int("lines", state.Len()),
				zap.Int("items", state.TotalItems()),
				zap.Float64("grand_total", state.Totals().GrandTotal))
			req.reply <- state
		case <-r.done:
			return
		}
	}
}

// Close stops the register. Pending and later commands fail with ErrRegisterClosed.
func (r *Register) Close() {
	r.closeOnce.Do(func() { close(r.done) })
}

func (r *Register) do(ctx context.Context, name string, fn func(*Machine) State) (State, error) {
	select {
	case <-r.done:
		return State{}, ErrRegisterClosed
	default:
	}
	req := request{name: name, run: fn, reply: make(chan State, 1)}
	select {
	case r.queue <- req:
	case <-ctx.Done():
		return State{}, ctx.Err()
	case <-r.done:
		return State{}, ErrRegisterClosed
	}
	// accepted commands always run to completion
	return <-req.reply, nil
}

func (r *Register) State(ctx context.Context) (State, error) {
	return r.do(ctx, "state", func(m *Machine) State { return m.State() })
}

func (r *Register) AddItem(ctx context.Context, item domain.Item, quantity int) (State, error) {
	return r.do(ctx, "add_item", func(m *Machine) State { return m.AddItem(item, quantity) })
}

func (r *Register) RemoveItem(ctx context.Context, itemID string) (State, error) {
	return r.do(ctx, "remove_item", func(m *Machine) State { return m.RemoveItem(itemID) })
}

func (r *Register) ChangeQty(ctx context.Context, itemID string, quantity int) (State, error) {
	return r.do(ctx, "change_qty", func(m *Machine) State { return m.ChangeQty(itemID, quantity) })
}

func (r *Register) ChangeDiscount(ctx context.Context, itemID string, discountPercent float64) (State, error) {
	return r.do(ctx, "change_discount", func(m *Machine) State { return m.ChangeDiscount(itemID, discountPercent) })
}

func (r *Register) ClearCart(ctx context.Context) (State, error) {
	return r.do(ctx, "clear_cart", func(m *Machine) State { return m.ClearCart() })
}

// Subscribe registers o on the register goroutine. o receives the current
// state first and then every later state in order. o runs on the register
// goroutine and must not call back into the Register.
func (r *Register) Subscribe(ctx context.Context, o Observer) (func(), error) {
	var unsubscribe func()
	_, err := r.do(ctx, "subscribe", func(m *Machine) State {
		unsubscribe = m.Subscribe(o)
		return m.State()
	})
	if err != nil {
		return nil, err
	}
	return func() {
		_, _ = r.do(context.Background(), "unsubscribe", func(m *Machine) State {
			unsubscribe()
			return m.State()
		})
	}, nil
}
