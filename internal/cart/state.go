package cart

import (
	"math"

	"pos-engine/internal/domain"
	"pos-engine/internal/pricing"
)

// State is an immutable cart snapshot. Lines keep first-add order and are
// unique by item id; totals always equal pricing.ComputeTotals(lines).
// Every transition returns a new State and never touches the receiver's
// backing array.
type State struct {
	lines  []domain.CartLine
	totals domain.CartTotals
}

// Empty returns the initial cart state.
func Empty() State {
	return State{}
}

func newState(lines []domain.CartLine) State {
	if len(lines) == 0 {
		return State{}
	}
	return State{lines: lines, totals: pricing.ComputeTotals(lines)}
}

// Lines returns a copy of the cart lines in insertion order.
func (s State) Lines() []domain.CartLine {
	out := make([]domain.CartLine, len(s.lines))
	copy(out, s.lines)
	return out
}

func (s State) Totals() domain.CartTotals {
	return s.totals
}

func (s State) Len() int {
	return len(s.lines)
}

func (s State) IsEmpty() bool {
	return len(s.lines) == 0
}

// TotalItems is the sum of quantities across lines.
func (s State) TotalItems() int {
	total := 0
	for _, l := range s.lines {
		total += l.Quantity
	}
	return total
}

// Line returns the line for itemID, if present.
func (s State) Line(itemID string) (domain.CartLine, bool) {
	if i := s.indexOf(itemID); i >= 0 {
		return s.lines[i], true
	}
	return domain.CartLine{}, false
}

func (s State) indexOf(itemID string) int {
	for i, l := range s.lines {
		if l.Item.ID == itemID {
			return i
		}
	}
	return -1
}

// AddItem merges quantity into an existing line for item.ID, keeping its
// discount and position, or appends a new undiscounted line. The stored item
// is replaced by the one passed in, so a later catalog record with the same
// id wins. Non-positive quantities, and merges whose quantity would overflow
// int, leave the state unchanged.
func (s State) AddItem(item domain.Item, quantity int) State {
	if quantity <= 0 {
		return s
	}
	if i := s.indexOf(item.ID); i >= 0 {
		if s.lines[i].Quantity > math.MaxInt-quantity {
			return s
		}
		return s.replaceAt(i, s.lines[i].WithItem(item).WithQuantity(s.lines[i].Quantity+quantity))
	}
	lines := make([]domain.CartLine, len(s.lines), len(s.lines)+1)
	copy(lines, s.lines)
	lines = append(lines, domain.NewCartLine(item, quantity, 0))
	return newState(lines)
}

// RemoveItem drops the line for itemID. Missing ids yield an identical state.
func (s State) RemoveItem(itemID string) State {
	i := s.indexOf(itemID)
	if i < 0 {
		return newState(s.lines)
	}
	lines := make([]domain.CartLine, 0, len(s.lines)-1)
	lines = append(lines, s.lines[:i]...)
	lines = append(lines, s.lines[i+1:]...)
	return newState(lines)
}

// ChangeQty replaces a line's quantity; quantity <= 0 removes the line.
func (s State) ChangeQty(itemID string, quantity int) State {
	if quantity <= 0 {
		return s.RemoveItem(itemID)
	}
	i := s.indexOf(itemID)
	if i < 0 {
		return newState(s.lines)
	}
	return s.replaceAt(i, s.lines[i].WithQuantity(quantity))
}

// ChangeDiscount clamps discountPercent into [0,1] and sets it on the line.
func (s State) ChangeDiscount(itemID string, discountPercent float64) State {
	i := s.indexOf(itemID)
	if i < 0 {
		return newState(s.lines)
	}
	return s.replaceAt(i, s.lines[i].WithDiscount(discountPercent))
}

// Clear returns the empty state.
func (s State) Clear() State {
	return Empty()
}

func (s State) replaceAt(i int, line domain.CartLine) State {
	lines := make([]domain.CartLine, len(s.lines))
	copy(lines, s.lines)
	lines[i] = line
	return newState(lines)
}
