package cart

import "pos-engine/internal/domain"

// Observer receives every state the machine publishes, in order.
type Observer func(State)

// Machine owns the current cart State and applies commands to it one at a
// time. It is not safe for concurrent use; Register serializes access from
// multiple goroutines.
type Machine struct {
	state     State
	observers []subscription
	nextID    int
}

type subscription struct {
	id int
	fn Observer
}

func NewMachine() *Machine {
	return &Machine{state: Empty()}
}

func (m *Machine) State() State {
	return m.state
}

// Subscribe delivers the current state to o immediately and every later
// state after each command. The returned func removes the observer.
func (m *Machine) Subscribe(o Observer) func() {
	id := m.nextID
	m.nextID++
	m.observers = append(m.observers, subscription{id: id, fn: o})
	o(m.state)
	return func() {
		kept := make([]subscription, 0, len(m.observers))
		for _, sub := range m.observers {
			if sub.id != id {
				kept = append(kept, sub)
			}
		}
		m.observers = kept
	}
}

func (m *Machine) AddItem(item domain.Item, quantity int) State {
	return m.apply(m.state.AddItem(item, quantity))
}

func (m *Machine) RemoveItem(itemID string) State {
	return m.apply(m.state.RemoveItem(itemID))
}

func (m *Machine) ChangeQty(itemID string, quantity int) State {
	return m.apply(m.state.ChangeQty(itemID, quantity))
}

func (m *Machine) ChangeDiscount(itemID string, discountPercent float64) State {
	return m.apply(m.state.ChangeDiscount(itemID, discountPercent))
}

func (m *Machine) ClearCart() State {
	return m.apply(m.state.Clear())
}

func (m *Machine) apply(next State) State {
	m.state = next
	// observers removed during delivery are skipped for the rest of the round
	for _, sub := range m.observers {
		if m.subscribed(sub.id) {
			sub.fn(next)
		}
	}
	return next
}

func (m *Machine) subscribed(id int) bool {
	for _, sub := range m.observers {
		if sub.id == id {
			return true
		}
	}
	return false
}
