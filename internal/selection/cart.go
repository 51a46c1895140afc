// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package selection

import "github.com/IT2357/catalog-engine/pkg/types"

// Selection is the running set of selection lines, keyed by item ID and
// kept in the order items were first added.
//
// Per item the states are Absent and Present(n >= 1): Increment moves
// Absent to Present(1) and Present(n) to Present(n+1); Decrement moves
// Present(n > 1) to Present(n-1) and Present(1) back to Absent.
//
// A Selection is not safe for concurrent use.
type Selection struct {
	lines map[string]*types.SelectionLine
	order []string
}

// NewSelection returns an empty selection.
func NewSelection() *Selection {
	return &Selection{lines: make(map[string]*types.SelectionLine)}
}

// Increment adds one unit of item. A new line stores a snapshot of the
// item, so later catalog changes do not alter it.
func (s *Selection) Increment(item types.CatalogItem) {
	if line, ok := s.lines[item.ID]; ok {
		line.Quantity++
		s.check(line)
		return
	}
	snapshot := item
	snapshot.Flags = append([]string(nil), item.Flags...)
	s.lines[item.ID] = &types.SelectionLine{Item: snapshot, Quantity: 1}
	s.order = append(s.order, item.ID)
}

// Decrement removes one unit of the item. The line is deleted when its
// last unit is removed. Decrementing an absent item does nothing.
func (s *Selection) Decrement(itemID string) {
	line, ok := s.lines[itemID]
	if !ok {
		return
	}
	if line.Quantity <= 1 {
		s.remove(itemID)
		return
	}
	line.Quantity--
	s.check(line)
}

// RemoveAll deletes the item's line regardless of quantity.
func (s *Selection) RemoveAll(itemID string) {
	if _, ok := s.lines[itemID]; ok {
		s.remove(itemID)
	}
}

// Reset removes every line.
func (s *Selection) Reset() {
	s.lines = make(map[string]*types.SelectionLine)
	s.order = nil
}

// Quantity returns the item's quantity, or 0 if absent.
func (s *Selection) Quantity(itemID string) int {
	if line, ok := s.lines[itemID]; ok {
		return line.Quantity
	}
	return 0
}

// Len returns the number of lines.
func (s *Selection) Len() int {
	return len(s.order)
}

// Lines returns a copy of the lines in insertion order.
func (s *Selection) Lines() []types.SelectionLine {
	out := make([]types.SelectionLine, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, *s.lines[id])
	}
	return out
}

// Totals computes the price summary for a stay of nights with guests.
func (s *Selection) Totals(nights, guests int) (types.Totals, error) {
	if nights < 1 || guests < 1 {
		return types.Totals{}, ErrInvalidStay
	}
	var itemsTotal float64
	for _, id := range s.order {
		itemsTotal += s.lines[id].Subtotal()
	}
	return types.Totals{
		ItemsTotal:     itemsTotal,
		PerNightTotal:  itemsTotal,
		WholeStayTotal: itemsTotal * float64(nights) * float64(guests),
		Nights:         nights,
		Guests:         guests,
	}, nil
}

// Confirm returns the current lines, or ErrEmptySelection when there are none.
func (s *Selection) Confirm() ([]types.SelectionLine, error) {
	if s.Len() == 0 {
		return nil, ErrEmptySelection
	}
	return s.Lines(), nil
}

func (s *Selection) remove(itemID string) {
	delete(s.lines, itemID)
	for i, id := range s.order {
		if id == itemID {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
}

// check panics if a present line has dropped below one unit.
func (s *Selection) check(line *types.SelectionLine) {
	if line.Quantity < 1 {
		panic(&InvalidQuantityError{ItemID: line.Item.ID, Quantity: line.Quantity})
	}
}
